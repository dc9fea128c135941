package ir

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mappingKeys(m *Mapping) []string {
	var res []string
	for k := range m.All() {
		s, _ := k.AsStr()
		res = append(res, s)
	}
	return res
}

func TestMappingOrder(t *testing.T) {
	m := NewMapping()
	for _, k := range []string{"c", "a", "b"} {
		m.InsertField(k, FromString(k))
	}
	if old, replaced := m.InsertField("a", FromInt(1)); !replaced || old.String != "a" {
		t.Fatalf("re-insert: got %v %v", old, replaced)
	}
	if diff := cmp.Diff([]string{"c", "a", "b"}, mappingKeys(m)); diff != "" {
		t.Errorf("re-insert moved the key (-want +got):\n%s", diff)
	}
	if v, _ := m.GetField("a"); !Equal(v, FromInt(1)) {
		t.Errorf("value not replaced")
	}
	m.Remove(FromString("c"))
	m.InsertField("c", Null())
	if diff := cmp.Diff([]string{"a", "b", "c"}, mappingKeys(m)); diff != "" {
		t.Errorf("remove and insert (-want +got):\n%s", diff)
	}
	if m.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", m.Len())
	}
}

func TestMappingInterleaved(t *testing.T) {
	m := NewMapping()
	var want []string
	for i := 0; i < 200; i++ {
		k := fmt.Sprintf("k%d", i)
		m.InsertField(k, FromInt(int64(i)))
		want = append(want, k)
		if i%3 == 0 {
			victim := want[len(want)/2]
			if _, ok := m.Remove(FromString(victim)); !ok {
				t.Fatalf("remove %s failed", victim)
			}
			want = append(want[:len(want)/2], want[len(want)/2+1:]...)
		}
	}
	if diff := cmp.Diff(want, mappingKeys(m)); diff != "" {
		t.Fatalf("order after interleaving (-want +got):\n%s", diff)
	}
	for _, k := range want {
		if !m.Has(FromString(k)) {
			t.Errorf("lost key %s", k)
		}
	}
	if m.Len() != len(want) {
		t.Errorf("len %d, expected %d", m.Len(), len(want))
	}
}

func TestMappingValueKeys(t *testing.T) {
	m := NewMapping()
	m.Insert(FromUint(5), FromString("five"))
	if v, ok := m.Get(FromInt(5)); !ok || v.String != "five" {
		t.Errorf("signed 5 did not find unsigned 5")
	}
	if _, ok := m.Get(FromFloat(5)); ok {
		t.Errorf("float 5 found integer 5")
	}
	seqKey := FromSlice([]*Value{FromInt(1), FromString("x")})
	m.Insert(seqKey, FromBool(true))
	if v, ok := m.Get(seqKey.Clone()); !ok || !v.Bool {
		t.Errorf("sequence key lookup failed")
	}
	m.Insert(nil, FromInt(0))
	if !m.Has(Null()) {
		t.Errorf("nil key not stored as null")
	}
}

func TestZeroMapping(t *testing.T) {
	var m Mapping
	if _, ok := m.Get(FromString("x")); ok {
		t.Fatal("found key in empty mapping")
	}
	m.InsertField("x", FromInt(1))
	if m.Len() != 1 {
		t.Fatalf("len %d", m.Len())
	}
	var nilm *Mapping
	for range nilm.All() {
		t.Fatal("nil mapping yielded an entry")
	}
}

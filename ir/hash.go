package ir

import (
	"encoding/binary"
	"hash/maphash"
	"math"
)

var hashSeed = maphash.MakeSeed()

// Hash returns a 64-bit hash of the value, consistent with Equal within one
// process. Locations are not hashed, and mapping entries are hashed without
// regard to their order.
func (y *Value) Hash() uint64 {
	var h maphash.Hash
	h.SetSeed(hashSeed)
	y.writeHash(&h)
	return h.Sum64()
}

func writeUint64(h *maphash.Hash, u uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], u)
	h.Write(b[:])
}

func (y *Value) writeHash(h *maphash.Hash) {
	t := y.Kind()
	h.WriteByte(byte(t))
	switch t {
	case BoolType:
		if y.Bool {
			h.WriteByte(1)
		} else {
			h.WriteByte(0)
		}
	case NumberType:
		y.Number.writeHash(h)
	case StringType:
		h.WriteString(y.String)
	case SequenceType:
		writeUint64(h, uint64(len(y.Sequence)))
		for _, e := range y.Sequence {
			e.writeHash(h)
		}
	case MappingType:
		var sum uint64
		for k, v := range y.Mapping.All() {
			var eh maphash.Hash
			eh.SetSeed(hashSeed)
			k.writeHash(&eh)
			v.writeHash(&eh)
			sum += eh.Sum64()
		}
		writeUint64(h, uint64(y.Mapping.Len()))
		writeUint64(h, sum)
	case TaggedType:
		h.WriteString(y.Tag)
		h.WriteByte(0)
		y.Inner.writeHash(h)
	}
}

func (n Number) writeHash(h *maphash.Hash) {
	switch n.k {
	case posInt:
		h.WriteByte(0)
		writeUint64(h, n.u)
	case negInt:
		h.WriteByte(1)
		writeUint64(h, uint64(n.i))
	default:
		h.WriteByte(2)
		switch {
		case math.IsNaN(n.f):
			writeUint64(h, math.Float64bits(math.NaN()))
		case n.f == 0:
			writeUint64(h, 0)
		default:
			writeUint64(h, math.Float64bits(n.f))
		}
	}
}

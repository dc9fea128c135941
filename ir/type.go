package ir

import (
	"fmt"
	"strconv"
)

// Type identifies the variant of a Value. The constants are declared in
// the order used by Compare.
type Type int

const (
	NullType Type = iota
	BoolType
	NumberType
	StringType
	SequenceType
	MappingType
	TaggedType
)

var typeNames = [...]string{
	NullType:     "null",
	BoolType:     "bool",
	NumberType:   "number",
	StringType:   "string",
	SequenceType: "sequence",
	MappingType:  "mapping",
	TaggedType:   "tagged",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}
	return typeNames[t]
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	for i, name := range typeNames {
		if name == string(d) {
			*t = Type(i)
			return nil
		}
	}
	return fmt.Errorf("unknown value type %q", d)
}

package parse

import (
	"github.com/signadot/yamlv/ir"
	"github.com/signadot/yamlv/ir/kpath"
	"github.com/signadot/yamlv/token"
)

// DuplicateKey describes a key occurring more than once in a mapping.
type DuplicateKey struct {
	Key *ir.Value
	// First is the value held so far, Second the value of the new entry.
	First  *ir.Value
	Second *ir.Value
	// Loc is the location of the second key.
	Loc  token.Location
	Path kpath.KPath
}

type DuplicateKeyAction int

const (
	DuplicateError DuplicateKeyAction = iota
	DuplicateFirstWins
	DuplicateLastWins
)

func (a DuplicateKeyAction) String() string {
	switch a {
	case DuplicateError:
		return "error"
	case DuplicateFirstWins:
		return "first-wins"
	case DuplicateLastWins:
		return "last-wins"
	}
	return "unknown"
}

// KeepFirst is an OnDuplicateKey policy keeping the first value.
func KeepFirst(*DuplicateKey) DuplicateKeyAction {
	return DuplicateFirstWins
}

// KeepLast is an OnDuplicateKey policy keeping the last value at the
// position of the first.
func KeepLast(*DuplicateKey) DuplicateKeyAction {
	return DuplicateLastWins
}

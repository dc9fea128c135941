package ir

import (
	"errors"
	"strconv"
	"strings"

	"github.com/signadot/yamlv/ir/kpath"
	"github.com/signadot/yamlv/token"
)

// ErrorKind classifies an Error.
type ErrorKind int

const (
	KindMessage ErrorKind = iota
	KindEndOfStream
	KindUnexpectedEvent
	KindDuplicateMapKey
	KindUnresolvedAlias
	KindInvalidTag
	KindInvalidNumber
	KindRecursionLimit
	KindRepetitionLimit
	KindScanner
	KindEmitter
	KindIO
)

var (
	ErrMessage         = errors.New("error")
	ErrEndOfStream     = errors.New("unexpected end of stream")
	ErrUnexpectedEvent = errors.New("unexpected event")
	ErrDuplicateMapKey = errors.New("duplicate mapping key")
	ErrUnresolvedAlias = errors.New("unresolved alias")
	ErrInvalidTag      = errors.New("invalid tag")
	ErrInvalidNumber   = errors.New("invalid number")
	ErrRecursionLimit  = errors.New("recursion limit exceeded")
	ErrRepetitionLimit = errors.New("repetition limit exceeded")
	ErrScanner         = errors.New("scanner error")
	ErrEmitter         = errors.New("emitter error")
	ErrIO              = errors.New("i/o error")
)

var kindErrs = [...]error{
	KindMessage:         ErrMessage,
	KindEndOfStream:     ErrEndOfStream,
	KindUnexpectedEvent: ErrUnexpectedEvent,
	KindDuplicateMapKey: ErrDuplicateMapKey,
	KindUnresolvedAlias: ErrUnresolvedAlias,
	KindInvalidTag:      ErrInvalidTag,
	KindInvalidNumber:   ErrInvalidNumber,
	KindRecursionLimit:  ErrRecursionLimit,
	KindRepetitionLimit: ErrRepetitionLimit,
	KindScanner:         ErrScanner,
	KindEmitter:         ErrEmitter,
	KindIO:              ErrIO,
}

// Sentinel returns the sentinel error matched by errors.Is for errors of
// kind k.
func (k ErrorKind) Sentinel() error {
	if k < 0 || int(k) >= len(kindErrs) {
		return ErrMessage
	}
	return kindErrs[k]
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindErrs) {
		return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindErrs[k].Error()
}

// Error is the error type of the codec. Loc is the zero Location when no
// position is known and Path is nil at the root.
//
// An Error is not modified after it is returned; WithPath and WithLoc
// return copies.
type Error struct {
	Kind ErrorKind
	Msg  string
	Loc  token.Location
	Path kpath.KPath
	Err  error
}

func NewError(kind ErrorKind, loc token.Location, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Loc: loc}
}

// WrapError wraps err as an Error of the given kind.
func WrapError(kind ErrorKind, loc token.Location, err error) *Error {
	return &Error{Kind: kind, Msg: err.Error(), Loc: loc, Err: err}
}

func (e *Error) Error() string {
	b := &strings.Builder{}
	if len(e.Path) > 0 {
		b.WriteString(e.Path.String())
		b.WriteString(": ")
	}
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	b.WriteString(msg)
	if !e.Loc.IsZero() {
		b.WriteString(" at ")
		b.WriteString(e.Loc.String())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == e.Kind.Sentinel()
}

// WithPath returns a copy of e with path p.
func (e *Error) WithPath(p kpath.KPath) *Error {
	res := *e
	res.Path = p
	return &res
}

// WithLoc returns a copy of e located at loc, unless e already has a
// location.
func (e *Error) WithLoc(loc token.Location) *Error {
	if !e.Loc.IsZero() {
		return e
	}
	res := *e
	res.Loc = loc
	return &res
}

// AsError returns the first *Error in err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

package types

import (
	"fmt"
	"strings"

	pkgerrs "github.com/jamesprial/graw/pkg/errors"
)

// Kind is the "kind" discriminator Reddit puts on every object it returns.
// The t1..t6 codes double as the type prefix of a FullName.
type Kind string

const (
	KindComment   Kind = "t1"
	KindAccount   Kind = "t2"
	KindLink      Kind = "t3"
	KindMessage   Kind = "t4"
	KindSubreddit Kind = "t5"
	KindAward     Kind = "t6"
	KindMore      Kind = "more"
	KindListing   Kind = "Listing"
)

// IsTypeCode reports whether k is one of the t1..t6 codes usable in a FullName.
func (k Kind) IsTypeCode() bool {
	switch k {
	case KindComment, KindAccount, KindLink, KindMessage, KindSubreddit, KindAward:
		return true
	}
	return false
}

// FullName references a Reddit object as "{type_code}_{id}", e.g. "t3_15bfi0".
type FullName struct {
	Kind Kind
	ID   string
}

// NewFullName builds a FullName, validating it the same way ParseFullName does.
func NewFullName(kind Kind, id string) (FullName, error) {
	return ParseFullName(string(kind) + "_" + id)
}

// ParseFullName splits s on its single underscore. The prefix must be a known
// type code and the id must be non-empty.
func ParseFullName(s string) (FullName, error) {
	code, id, ok := strings.Cut(s, "_")
	if !ok || code == "" || id == "" || strings.Contains(id, "_") {
		return FullName{}, pkgerrs.Domain("parse full name", pkgerrs.ErrInvalidFullName, fmt.Sprintf("%q is not of the form {kind}_{id}", s))
	}
	kind := Kind(code)
	if !kind.IsTypeCode() {
		return FullName{}, pkgerrs.Domain("parse full name", pkgerrs.ErrInvalidFullName, fmt.Sprintf("unknown type code %q", code))
	}
	return FullName{Kind: kind, ID: id}, nil
}

// MustParseFullName is ParseFullName for constants; it panics on malformed input.
func MustParseFullName(s string) FullName {
	fn, err := ParseFullName(s)
	if err != nil {
		panic(err)
	}
	return fn
}

func (f FullName) String() string {
	return string(f.Kind) + "_" + f.ID
}

// IsZero reports whether f is the zero FullName.
func (f FullName) IsZero() bool {
	return f.Kind == "" && f.ID == ""
}

// MarshalText implements encoding.TextMarshaler.
func (f FullName) MarshalText() ([]byte, error) {
	if f.IsZero() {
		return []byte{}, nil
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty value yields the zero FullName.
func (f *FullName) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*f = FullName{}
		return nil
	}
	parsed, err := ParseFullName(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

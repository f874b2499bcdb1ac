package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	pkgerrs "github.com/jamesprial/graw/pkg/errors"
)

// Data is the payload of a Thing. The set of implementations is closed: one per
// known Kind.
type Data interface {
	thingKind() Kind
}

// Thing is Reddit's {kind, data} envelope. Data's concrete type is chosen by
// Kind alone, never by inspecting the payload.
type Thing struct {
	Kind Kind
	Data Data
}

type binding struct {
	required []string
	// payloadless kinds carry no usable data.
	payloadless bool
	alloc       func() Data
}

var bindings = map[Kind]binding{
	KindComment:   {required: []string{"id", "name", "body"}, alloc: func() Data { return new(Comment) }},
	KindAccount:   {required: []string{"id", "name"}, alloc: func() Data { return new(Account) }},
	KindLink:      {required: []string{"id", "name", "title"}, alloc: func() Data { return new(Link) }},
	KindMessage:   {required: []string{"id", "name", "subject"}, alloc: func() Data { return new(Message) }},
	KindSubreddit: {required: []string{"id", "name", "display_name"}, alloc: func() Data { return new(Subreddit) }},
	KindAward:     {payloadless: true, alloc: func() Data { return new(Award) }},
	KindMore:      {required: []string{"children"}, alloc: func() Data { return new(More) }},
	KindListing:   {required: []string{"children"}, alloc: func() Data { return new(Listing) }},
}

// UnmarshalJSON reads the kind tag first and then decodes data with the schema
// bound to that kind. Unknown fields in data are ignored; missing required ones
// are an error.
func (t *Thing) UnmarshalJSON(b []byte) error {
	const op = "decode thing"

	var envelope struct {
		Kind *string         `json:"kind"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &envelope); err != nil {
		return pkgerrs.Decode(op, err)
	}
	if envelope.Kind == nil {
		return pkgerrs.Decode(op, pkgerrs.ErrMissingKind)
	}

	kind := Kind(*envelope.Kind)
	bound, ok := bindings[kind]
	if !ok {
		return &pkgerrs.Error{Kind: pkgerrs.KindDecode, Op: op, Message: fmt.Sprintf("kind %q", kind), Err: pkgerrs.ErrUnknownKind}
	}

	data := bound.alloc()
	if !bound.payloadless {
		if err := decodePayload(kind, envelope.Data, bound.required, data); err != nil {
			return err
		}
	}

	t.Kind = kind
	t.Data = data
	return nil
}

func decodePayload(kind Kind, raw json.RawMessage, required []string, into Data) error {
	op := fmt.Sprintf("decode %s data", kind)

	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return &pkgerrs.Error{Kind: pkgerrs.KindDecode, Op: op, Message: `field "data"`, Err: pkgerrs.ErrMissingField}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return pkgerrs.Decode(op, err)
	}
	for _, name := range required {
		if _, ok := fields[name]; !ok {
			return &pkgerrs.Error{Kind: pkgerrs.KindDecode, Op: op, Message: fmt.Sprintf("field %q", name), Err: pkgerrs.ErrMissingField}
		}
	}

	if err := json.Unmarshal(raw, into); err != nil {
		// Nested Things already report a decode error of their own.
		return asDecodeError(op, err)
	}
	return nil
}

// MarshalJSON writes the {kind, data} envelope back out.
func (t Thing) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		Data Data `json:"data"`
	}{t.Kind, t.Data})
}

// DecodeThing decodes a single tagged response.
func DecodeThing(b []byte) (*Thing, error) {
	var t Thing
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, asDecodeError("decode thing", err)
	}
	return &t, nil
}

// DecodeListingArray decodes the [Listing, Listing] pair returned by comment pages.
func DecodeListingArray(b []byte) ([]*Thing, error) {
	var things []*Thing
	if err := json.Unmarshal(b, &things); err != nil {
		return nil, asDecodeError("decode listing array", err)
	}
	for i, t := range things {
		if t == nil || t.Kind != KindListing {
			return nil, pkgerrs.Decode("decode listing array", fmt.Errorf("element %d is not a Listing", i))
		}
	}
	return things, nil
}

func asDecodeError(op string, err error) error {
	var e *pkgerrs.Error
	if errors.As(err, &e) {
		return err
	}
	return pkgerrs.Decode(op, err)
}

// Listing returns the payload as a *Listing.
func (t *Thing) Listing() (*Listing, bool) {
	if t == nil {
		return nil, false
	}
	l, ok := t.Data.(*Listing)
	return l, ok
}

// Comment returns the payload as a *Comment.
func (t *Thing) Comment() (*Comment, bool) {
	if t == nil {
		return nil, false
	}
	c, ok := t.Data.(*Comment)
	return c, ok
}

// Link returns the payload as a *Link.
func (t *Thing) Link() (*Link, bool) {
	if t == nil {
		return nil, false
	}
	l, ok := t.Data.(*Link)
	return l, ok
}

// Account returns the payload as an *Account.
func (t *Thing) Account() (*Account, bool) {
	if t == nil {
		return nil, false
	}
	a, ok := t.Data.(*Account)
	return a, ok
}

// Subreddit returns the payload as a *Subreddit.
func (t *Thing) Subreddit() (*Subreddit, bool) {
	if t == nil {
		return nil, false
	}
	s, ok := t.Data.(*Subreddit)
	return s, ok
}

// Message returns the payload as a *Message.
func (t *Thing) Message() (*Message, bool) {
	if t == nil {
		return nil, false
	}
	m, ok := t.Data.(*Message)
	return m, ok
}

package store

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// opt records whether a JSON object literally contained a given key
// (GLOSSARY "Presence semantics"). A key present with an explicit
// null is a decode failure, never a reset-to-zero-value — this is the
// "custom visitor" spec §9 calls for, implemented once as a generic
// rather than per struct.
type opt[T any] struct {
	set bool
	val T
}

var nullLiteral = []byte("null")

func (o *opt[T]) UnmarshalJSON(b []byte) error {
	o.set = true
	if bytes.Equal(bytes.TrimSpace(b), nullLiteral) {
		return fmt.Errorf("%w: null is not a valid value", ErrMalformed)
	}
	return json.Unmarshal(b, &o.val)
}

// require returns the Malformed error if the field is absent;
// otherwise its decoded value.
func (o opt[T]) require() (T, error) {
	if !o.set {
		var zero T
		return zero, ErrMalformed
	}
	return o.val, nil
}

type userBody struct {
	ID        opt[int32]  `json:"id"`
	FirstName opt[string] `json:"first_name"`
	LastName  opt[string] `json:"last_name"`
	Gender    opt[string] `json:"gender"`
	BirthDate opt[int64]  `json:"birth_date"`
	Email     opt[string] `json:"email"`
}

type locationBody struct {
	ID       opt[int32]  `json:"id"`
	Distance opt[int32]  `json:"distance"`
	City     opt[string] `json:"city"`
	Place    opt[string] `json:"place"`
	Country  opt[string] `json:"country"`
}

type visitBody struct {
	ID        opt[int32] `json:"id"`
	User      opt[int32] `json:"user"`
	Location  opt[int32] `json:"location"`
	VisitedAt opt[int64] `json:"visited_at"`
	Mark      opt[int8]  `json:"mark"`
}

// overlayString copies o's value onto *dst iff the field was present
// in the request body. By the time an overlay* helper runs,
// decodeBody has already succeeded, so there's nothing left to
// validate here — a present-but-invalid field would have failed
// decodeBody first (opt.UnmarshalJSON rejects null and type
// mismatches at decode time).
func overlayString(o opt[string], dst *string) {
	if o.set {
		*dst = o.val
	}
}

func overlayInt32(o opt[int32], dst *int32) {
	if o.set {
		*dst = o.val
	}
}

func overlayInt64(o opt[int64], dst *int64) {
	if o.set {
		*dst = o.val
	}
}

func decodeBody[T any](body []byte, out *T) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

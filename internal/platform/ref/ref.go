// Package ref holds the nullable entity reference used for asset assignment and
// transfer endpoints. A reference is either absent or a well-formed ULID; the
// placeholder strings older clients used for "nothing" are rejected.
package ref

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
)

var (
	ErrSentinel  = errors.New("placeholder value is not a valid reference")
	ErrMalformed = errors.New("reference must be a ULID")
)

var sentinels = map[string]struct{}{
	"":          {},
	"n/a":       {},
	"na":        {},
	"null":      {},
	"nil":       {},
	"none":      {},
	"undefined": {},
	"-":         {},
}

type Ref struct {
	ID    string
	Valid bool
}

var Null = Ref{}

func To(id string) Ref { return Ref{ID: id, Valid: true} }

// Parse validates s as a reference id and returns it in canonical upper case.
func Parse(s string) (Ref, error) {
	t := strings.TrimSpace(s)
	if _, bad := sentinels[strings.ToLower(t)]; bad {
		return Null, fmt.Errorf("%w: %q", ErrSentinel, s)
	}
	id, err := ulid.ParseStrict(t)
	if err != nil {
		return Null, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	return To(id.String()), nil
}

func (r Ref) Is(id string) bool { return r.Valid && r.ID == id }

func (r Ref) String() string {
	if !r.Valid {
		return "null"
	}
	return r.ID
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

func (r *Ref) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = Null
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return ErrMalformed
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r Ref) Value() (driver.Value, error) {
	if !r.Valid {
		return nil, nil
	}
	return r.ID, nil
}

func (r *Ref) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*r = Null
	case string:
		*r = To(v)
	case []byte:
		*r = To(string(v))
	default:
		return fmt.Errorf("ref: cannot scan %T", src)
	}
	return nil
}

// Patch distinguishes an absent JSON field from an explicit null.
type Patch struct {
	Set bool
	Ref Ref
}

func (p *Patch) UnmarshalJSON(b []byte) error {
	p.Set = true
	return p.Ref.UnmarshalJSON(b)
}

func (p Patch) MarshalJSON() ([]byte, error) { return p.Ref.MarshalJSON() }

package identity

import (
	"encoding/json"
	"sort"
)

// Authorities is a set of role and permission identifiers.
type Authorities map[string]struct{}

// NewAuthorities builds a set from the given identifiers. Duplicates collapse.
func NewAuthorities(values ...string) Authorities {
	a := make(Authorities, len(values))
	for _, v := range values {
		a.Add(v)
	}
	return a
}

// Add inserts an identifier. Adding an existing identifier is a no-op.
func (a Authorities) Add(value string) {
	a[value] = struct{}{}
}

// Contains reports whether the identifier is in the set.
func (a Authorities) Contains(value string) bool {
	_, ok := a[value]
	return ok
}

// Len returns the number of distinct identifiers.
func (a Authorities) Len() int {
	return len(a)
}

// Slice returns the identifiers in sorted order.
func (a Authorities) Slice() []string {
	out := make([]string, 0, len(a))
	for v := range a {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of the set.
func (a Authorities) Clone() Authorities {
	c := make(Authorities, len(a))
	for v := range a {
		c[v] = struct{}{}
	}
	return c
}

// Equal reports whether both sets hold the same identifiers.
func (a Authorities) Equal(other Authorities) bool {
	if len(a) != len(other) {
		return false
	}
	for v := range a {
		if !other.Contains(v) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as a sorted JSON array.
func (a Authorities) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Slice())
}

// UnmarshalJSON decodes a JSON array into the set.
func (a *Authorities) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*a = NewAuthorities(values...)
	return nil
}

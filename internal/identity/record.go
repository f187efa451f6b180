// Package identity models the caller-supplied record describing who is
// calling a guarded operation.
//
// A Record is a loosely typed mapping: no attribute is required, and
// lookups fall back to a caller-chosen default instead of failing.
package identity

import (
	"maps"

	"google.golang.org/protobuf/types/known/structpb"
)

// Well-known attribute names.
const (
	KeyName     = "name"
	KeyLoggedIn = "isLoggedIn"
)

// Record is an identity mapping. The zero value (nil) is a valid, empty record.
type Record map[string]any

// New builds a record carrying a display name and a login-state flag.
func New(name string, loggedIn bool) Record {
	return Record{KeyName: name, KeyLoggedIn: loggedIn}
}

// Get returns the value stored under key, or def when it is absent.
func (r Record) Get(key string, def any) any {
	if v, ok := r[key]; ok {
		return v
	}
	return def
}

// Name returns the display name, or "" when it is absent or not a string.
func (r Record) Name() string {
	s, _ := r.Get(KeyName, "").(string)
	return s
}

// LoginState returns the raw login-state value and whether it is present.
func (r Record) LoginState() (any, bool) {
	v, ok := r[KeyLoggedIn]
	return v, ok
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}
	return maps.Clone(r)
}

// FromStruct converts a protobuf Struct into a Record.
// Numbers arrive as float64, matching structpb semantics.
func FromStruct(s *structpb.Struct) Record {
	if s == nil {
		return Record{}
	}
	return Record(s.AsMap())
}

// ToStruct converts r into a protobuf Struct. Values must be representable
// by structpb.NewValue.
func (r Record) ToStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(r)
}

// Examples returns fresh copies of the two static example records:
// a logged-in user and a logged-out guest.
func Examples() []Record {
	return []Record{
		New("Dheeraj", true),
		New("Guest", false),
	}
}

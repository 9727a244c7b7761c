package pkguid

import "github.com/google/uuid"

// UUID generates time-ordered RFC 9562 version 7 UUID strings, optionally
// prefixed so IDs from different front ends can be told apart in logs.
type UUID struct {
	prefix string
}

func NewUUID() *UUID {
	return &UUID{}
}

// NewPrefixedUUID returns a generator whose IDs start with prefix, e.g.
// "cli-" for console sessions.
func NewPrefixedUUID(prefix string) *UUID {
	return &UUID{prefix: prefix}
}

func (u *UUID) Generate() string {
	return u.prefix + uuid.Must(uuid.NewV7()).String()
}

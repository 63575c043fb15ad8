package blueprintcache

import "errors"

// ErrCorrupted is returned by Get when the stored blueprint cannot be
// deserialized; callers must treat it as a cache miss, never a hard
// failure (§4.2, §7 Cache.Corrupted).
var ErrCorrupted = errors.New("blueprintcache: corrupted entry")

// ErrMiss is returned by Get when no entry exists for the class.
var ErrMiss = errors.New("blueprintcache: miss")

// Backend is the contract both the file and null backends satisfy.
type Backend interface {
	Get(classRef string) (*ServicePrototype, error)
	Set(classRef string, proto *ServicePrototype) error
	Has(classRef string) bool
	Count() int
	Kind() string
}

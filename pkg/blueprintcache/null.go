package blueprintcache

// NullBackend never stores anything: get is always a miss, set is a noop.
// It is selected when no cache directory is configured, or as the
// degrade-to target when the file backend's directory is not writable.
type NullBackend struct{}

func NewNullBackend() *NullBackend { return &NullBackend{} }

func (NullBackend) Get(string) (*ServicePrototype, error) { return nil, ErrMiss }
func (NullBackend) Set(string, *ServicePrototype) error   { return nil }
func (NullBackend) Has(string) bool                       { return false }
func (NullBackend) Count() int                            { return 0 }
func (NullBackend) Kind() string                          { return "null" }

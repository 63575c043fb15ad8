package blueprintcache

import "go.uber.org/zap"

// Manager selects the best-fit Backend for a given cache directory,
// degrading gracefully instead of failing the container boot (§4.2
// "CacheManagerIntegration bridge").
type Manager struct {
	backend Backend
	log     *zap.Logger
}

// NewManager inspects cacheDir: empty means "no caching", present but
// non-writable degrades to NullBackend with a warning, otherwise a
// FileBackend is built.
func NewManager(cacheDir string, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	if cacheDir == "" {
		return &Manager{backend: NewNullBackend(), log: log}
	}
	fb, err := NewFileBackend(cacheDir)
	if err != nil {
		log.Warn("blueprint cache degraded to null backend", zap.String("dir", cacheDir), zap.Error(err))
		return &Manager{backend: NewNullBackend(), log: log}
	}
	return &Manager{backend: fb, log: log}
}

func (m *Manager) Backend() Backend { return m.backend }

// BackendKind exposes the selected backend for observability.
func (m *Manager) BackendKind() string { return m.backend.Kind() }

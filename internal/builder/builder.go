package builder

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"modelkit/internal/presets"
	"modelkit/pkg/types"
)

// Config encapsulates all tunables for Builder construction.
type Config struct {
	Registry []types.Model
	// DefaultPreset applies when a request names no preset. Empty means none.
	DefaultPreset string
	Publisher     EventPublisher
	// Logger defaults to a disabled logger when nil.
	Logger *zerolog.Logger
}

// Builder resolves manifest requests against a model registry and presets.
type Builder struct {
	mu            sync.RWMutex
	registry      []types.Model
	defaultPreset string
	pub           EventPublisher
	log           zerolog.Logger

	rendersTotal  uint64
	writesTotal   uint64
	failuresTotal uint64
	lastErr       string
	startTime     time.Time
}

// New constructs a Builder from Config.
func New(cfg Config) *Builder {
	b := &Builder{
		registry:      append([]types.Model(nil), cfg.Registry...),
		defaultPreset: cfg.DefaultPreset,
		pub:           cfg.Publisher,
		log:           zerolog.Nop(),
		startTime:     time.Now(),
	}
	if b.pub == nil {
		b.pub = noopPublisher{}
	}
	if cfg.Logger != nil {
		b.log = cfg.Logger.With().Str("component", "builder").Logger()
	}
	return b
}

// ListModels returns a copy of the registry.
func (b *Builder) ListModels() []types.Model {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]types.Model, len(b.registry))
	copy(out, b.registry)
	return out
}

// SetRegistry replaces the registry, e.g. after rescanning the models directory.
func (b *Builder) SetRegistry(models []types.Model) {
	b.mu.Lock()
	b.registry = append([]types.Model(nil), models...)
	b.mu.Unlock()
}

// Presets lists the built-in presets.
func (b *Builder) Presets() []presets.Preset { return presets.All() }

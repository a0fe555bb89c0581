package b2cflow

import (
	"errors"

	internalaudit "github.com/aurelialabs/b2cflow/internal/audit"
	"github.com/aurelialabs/b2cflow/tokencache"
	"github.com/redis/go-redis/v9"
)

// Builder assembles a [Client] from explicit dependencies. It replaces the
// static application singleton of earlier designs: every Client is
// constructed, owned, and closed by its caller, and tests build as many
// isolated instances as they need.
type Builder struct {
	config   Config
	redis    *redis.Client
	store    *tokencache.Store
	prompter InteractivePrompter
	provider TokenProvider
	sink     AuditSink

	built bool
}

// New returns a Builder carrying [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder's configuration with a clone of cfg.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis binds the token cache to the given Redis client.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithCacheStore binds an already-constructed token cache store. This is
// the rebind hook: several Clients (or a Client in a restarted process)
// sharing one store observe the same credential set. Takes precedence over
// WithRedis.
func (b *Builder) WithCacheStore(store *tokencache.Store) *Builder {
	b.store = store
	return b
}

// WithPrompter supplies the interactive-consent collaborator. Optional;
// a Client without one fails interactive acquisition with
// [ErrPrompterNotConfigured].
func (b *Builder) WithPrompter(prompter InteractivePrompter) *Builder {
	b.prompter = prompter
	return b
}

// WithTokenProvider supplies the non-interactive provider collaborator
// used for silent refresh and the resource-owner-password grant.
func (b *Builder) WithTokenProvider(provider TokenProvider) *Builder {
	b.provider = provider
	return b
}

// WithAuditSink supplies the consumer of acquisition events.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.sink = sink
	return b
}

// WithMetricsEnabled toggles the in-process metrics system.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles acquisition latency histograms.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration, derives the authority registry, and
// returns the assembled Client. Configuration problems surface as
// [ConfigurationError] and are fatal: no Client is returned.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry, err := NewAuthorityRegistry(cfg)
	if err != nil {
		return nil, err
	}

	store := b.store
	if store == nil {
		if b.redis == nil {
			return nil, errors.New("redis client or cache store required")
		}
		store = tokencache.NewStore(b.redis, cfg.Cache.RedisPrefix)
	}

	client := &Client{
		config:      cfg,
		authorities: registry,
		cache:       store,
		prompter:    b.prompter,
		provider:    b.provider,
	}
	client.audit = internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.sink)
	client.metrics = NewMetrics(cfg.Metrics)

	b.built = true

	return client, nil
}

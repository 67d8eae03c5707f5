package pool

import "time"

// Config holds the pool's tunables. It is immutable after New returns
// (spec section 3, "Pool state" -> "configuration (immutable after
// construction)"), except for MaintenanceInterval, which
// Pool.SetMaintenanceInterval can change. It is built up from defaults
// via functional Options,
// the pattern used throughout the retrieval pack for client/operator
// construction (e.g. Chartly2.0's sdk client, karpenter's operator.go).
type Config struct {
	Min                  int
	Max                  int
	MaxCreating          int // 0 = unlimited
	MaxRequests          int // 0 = unlimited
	AcquireTimeout       time.Duration
	IdleTimeout          time.Duration
	IdleCheckInterval    time.Duration
	ExpireTimeout        time.Duration
	ExpireCheckInterval  time.Duration
	MaintenanceInterval  time.Duration
	MaintenanceLatency   time.Duration

	clock     Clock
	logger    Logger
	listeners []EventListener
}

func defaultConfig() Config {
	return Config{
		Min:                 0,
		Max:                 1024,
		MaxCreating:         0,
		MaxRequests:         0,
		AcquireTimeout:      0,
		IdleTimeout:         0,
		IdleCheckInterval:   1000 * time.Millisecond,
		ExpireTimeout:       0,
		ExpireCheckInterval: 1000 * time.Millisecond,
		MaintenanceInterval: 0, // resolved to min(idle, expire) check interval below
		MaintenanceLatency:  50 * time.Millisecond,
		clock:               systemClock{},
		logger:              defaultLogger{},
	}
}

// Option configures a Pool at construction time.
type Option func(*Config)

// WithMin sets the floor population the maintainer tries to keep warm
// while the pool is idle (spec invariant 2).
func WithMin(n int) Option { return func(c *Config) { c.Min = n } }

// WithMax sets the hard population cap (spec invariant 1).
func WithMax(n int) Option { return func(c *Config) { c.Max = n } }

// WithMaxCreating bounds how many creations may be in flight (including
// their backoff cool-down) at once. 0 means unlimited.
func WithMaxCreating(n int) Option { return func(c *Config) { c.MaxCreating = n } }

// WithMaxRequests bounds the combined aging+ageless queue length. 0 means
// unlimited.
func WithMaxRequests(n int) Option { return func(c *Config) { c.MaxRequests = n } }

// WithAcquireTimeout sets the default per-request deadline applied when an
// Acquire call does not specify its own via WithTimeout and the caller's
// context carries no deadline. 0 means requests default to ageless.
func WithAcquireTimeout(d time.Duration) Option { return func(c *Config) { c.AcquireTimeout = d } }

// WithIdleTimeout enables the idle sweep: free resources unused for longer
// than d are reaped. 0 disables idle reaping.
func WithIdleTimeout(d time.Duration) Option { return func(c *Config) { c.IdleTimeout = d } }

// WithIdleCheckInterval sets the idle sweep cadence.
func WithIdleCheckInterval(d time.Duration) Option {
	return func(c *Config) { c.IdleCheckInterval = d }
}

// WithExpireTimeout enables the expiry sweep: resources older (by
// created_at) than d are reaped regardless of reuse. 0 disables expiry.
func WithExpireTimeout(d time.Duration) Option { return func(c *Config) { c.ExpireTimeout = d } }

// WithExpireCheckInterval sets the expiry sweep cadence.
func WithExpireCheckInterval(d time.Duration) Option {
	return func(c *Config) { c.ExpireCheckInterval = d }
}

// WithMaintenanceInterval overrides the periodic maintenance cadence.
// Defaults to min(idle_check_interval, expire_check_interval).
func WithMaintenanceInterval(d time.Duration) Option {
	return func(c *Config) { c.MaintenanceInterval = d }
}

// WithMaintenanceLatency bounds how long an on-demand maintenance request
// may wait before running.
func WithMaintenanceLatency(d time.Duration) Option {
	return func(c *Config) { c.MaintenanceLatency = d }
}

// WithClock overrides the time source; intended for tests.
func WithClock(clock Clock) Option { return func(c *Config) { c.clock = clock } }

// WithLogger overrides the structured logger every named event is
// written to (spec section 6, "Events").
func WithLogger(l Logger) Option { return func(c *Config) { c.logger = l } }

// WithEventListener registers an additional observer for named events,
// e.g. the metrics.Recorder in this module's metrics subpackage.
func WithEventListener(l EventListener) Option {
	return func(c *Config) { c.listeners = append(c.listeners, l) }
}

func (c *Config) resolveDefaults() {
	if c.Max <= 0 {
		c.Max = 1024
	}
	if c.IdleCheckInterval <= 0 {
		c.IdleCheckInterval = 1000 * time.Millisecond
	}
	if c.ExpireCheckInterval <= 0 {
		c.ExpireCheckInterval = 1000 * time.Millisecond
	}
	if c.MaintenanceInterval <= 0 {
		c.MaintenanceInterval = c.IdleCheckInterval
		if c.ExpireCheckInterval < c.MaintenanceInterval {
			c.MaintenanceInterval = c.ExpireCheckInterval
		}
	}
	if c.MaintenanceLatency <= 0 {
		c.MaintenanceLatency = 50 * time.Millisecond
	}
	if c.clock == nil {
		c.clock = systemClock{}
	}
	if c.logger == nil {
		c.logger = defaultLogger{}
	}
}

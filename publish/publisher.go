// Package publish persists proposed plans to a NATS JetStream KV bucket so
// the UI and applier layers can pick them up.
//
// Each published plan gets a monotonically increasing version; version
// monotonicity survives restarts because the publisher discovers the highest
// existing version before publishing. Older plan records beyond the retain
// window are pruned on every publish.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/Lbstrydom/cellarplan/internal/logger"
	"github.com/Lbstrydom/cellarplan/internal/metrics"
	"github.com/Lbstrydom/cellarplan/types"
)

// DefaultRetain is how many plan versions are kept in the bucket.
const DefaultRetain = 10

// KV is the slice of the JetStream KeyValue API the publisher needs.
//
// jetstream.KeyValue satisfies it directly; tests use an in-memory fake.
type KV interface {
	Put(ctx context.Context, key string, value []byte) (uint64, error)
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Keys(ctx context.Context, opts ...jetstream.WatchOpt) ([]string, error)
	Delete(ctx context.Context, key string, opts ...jetstream.KVDeleteOpt) error
}

var _ KV = (jetstream.KeyValue)(nil)

// Record is the serialized form of one published plan.
type Record struct {
	// Version is the monotonic plan version.
	Version int64 `json:"version"`

	// Plan is the proposed plan.
	Plan *types.Plan `json:"plan"`

	// PublishedAt is when the plan was written to the bucket.
	PublishedAt time.Time `json:"publishedAt"`
}

// PlanPublisher writes versioned plans to a KV bucket.
//
// Version monotonicity across restarts is managed by discovering the highest
// existing version before the first publish.
type PlanPublisher struct {
	kv        KV
	prefix    string
	keyPrefix string // cached "prefix."
	retain    int

	mu             sync.Mutex
	currentVersion int64
	discovered     bool
	lastPublish    time.Time

	logger  types.Logger
	metrics types.PublisherMetrics
}

// Option configures a PlanPublisher.
type Option func(*PlanPublisher)

// WithRetain sets how many plan versions are kept in the bucket.
func WithRetain(n int) Option {
	return func(p *PlanPublisher) {
		p.retain = n
	}
}

// WithLogger sets the logger for publish events.
func WithLogger(log types.Logger) Option {
	return func(p *PlanPublisher) {
		p.logger = log
	}
}

// WithMetrics sets the metrics collector for publish operations.
func WithMetrics(m types.PublisherMetrics) Option {
	return func(p *PlanPublisher) {
		p.metrics = m
	}
}

// NewPlanPublisher creates a plan publisher writing under the given key
// prefix.
//
// Parameters:
//   - kv: KV bucket for plan records (required)
//   - prefix: Prefix for plan keys (e.g., "plan"); keys are "prefix.<version>"
//   - opts: Optional configuration (WithRetain, WithLogger, WithMetrics)
//
// Returns:
//   - *PlanPublisher: Initialized publisher
//   - error: types.ErrKVRequired for a nil bucket
func NewPlanPublisher(kv KV, prefix string, opts ...Option) (*PlanPublisher, error) {
	if kv == nil {
		return nil, types.ErrKVRequired
	}
	if prefix == "" {
		prefix = "plan"
	}

	p := &PlanPublisher{
		kv:        kv,
		prefix:    prefix,
		keyPrefix: fmt.Sprintf("%s.", prefix),
		retain:    DefaultRetain,
		logger:    logger.NewNop(),
		metrics:   metrics.NewNop(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.retain < 1 {
		p.retain = DefaultRetain
	}
	if p.logger == nil {
		p.logger = logger.NewNop()
	}
	if p.metrics == nil {
		p.metrics = metrics.NewNop()
	}

	return p, nil
}

// DiscoverHighestVersion scans the bucket for the highest existing plan
// version.
//
// Publish calls this lazily before the first write, but callers may invoke
// it eagerly at startup to surface KV access failures early.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - error: Nil on success, error on KV access failure
func (p *PlanPublisher) DiscoverHighestVersion(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.discoverLocked(ctx)
}

func (p *PlanPublisher) discoverLocked(ctx context.Context) error {
	start := time.Now()
	keys, err := p.kv.Keys(ctx)
	p.metrics.RecordPublishDuration("keys", time.Since(start).Seconds())
	if err != nil {
		// An empty bucket reports no keys rather than an error in some
		// drivers; treat the explicit sentinel the same way.
		if strings.Contains(err.Error(), "no keys found") {
			p.currentVersion = 0
			p.discovered = true

			return nil
		}

		return fmt.Errorf("failed to list KV keys: %w", err)
	}

	highest := int64(0)
	for _, key := range keys {
		version, ok := p.versionFromKey(key)
		if !ok {
			continue
		}
		if version > highest {
			highest = version
		}
	}

	p.currentVersion = highest
	p.discovered = true
	if highest > 0 {
		p.logger.Info("discovered existing plans", "highest_version", highest, "checked_keys", len(keys))
	} else {
		p.logger.Debug("no existing plans found", "checked_keys", len(keys))
	}

	return nil
}

// versionFromKey parses "prefix.<version>" keys; other keys are skipped.
func (p *PlanPublisher) versionFromKey(key string) (int64, bool) {
	if !strings.HasPrefix(key, p.keyPrefix) {
		return 0, false
	}
	version, err := strconv.ParseInt(strings.TrimPrefix(key, p.keyPrefix), 10, 64)
	if err != nil || version < 1 {
		return 0, false
	}

	return version, true
}

// Publish writes a plan to the bucket under the next version and prunes
// records older than the retain window.
//
// Parameters:
//   - ctx: Context for cancellation
//   - plan: Plan to persist (required)
//
// Returns:
//   - int64: Version assigned to the published plan
//   - error: types.ErrPublishFailed wrapping the KV failure, or a marshal
//     error
func (p *PlanPublisher) Publish(ctx context.Context, plan *types.Plan) (int64, error) {
	if plan == nil {
		return 0, fmt.Errorf("%w: nil plan", types.ErrPublishFailed)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.discovered {
		if err := p.discoverLocked(ctx); err != nil {
			p.metrics.RecordPublishResult(false)

			return 0, fmt.Errorf("%w: %w", types.ErrPublishFailed, err)
		}
	}

	version := p.currentVersion + 1
	record := Record{
		Version:     version,
		Plan:        plan,
		PublishedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(record)
	if err != nil {
		p.metrics.RecordPublishResult(false)

		return 0, fmt.Errorf("failed to marshal plan record: %w", err)
	}

	key := p.keyPrefix + strconv.FormatInt(version, 10)
	start := time.Now()
	_, err = p.kv.Put(ctx, key, data)
	p.metrics.RecordPublishDuration("put", time.Since(start).Seconds())
	if err != nil {
		p.metrics.RecordPublishResult(false)

		return 0, fmt.Errorf("%w: %w", types.ErrPublishFailed, err)
	}

	p.currentVersion = version
	p.lastPublish = time.Now()
	p.metrics.RecordPublishResult(true)

	// Pruning is best-effort; a failed delete never fails the publish.
	p.pruneLocked(ctx)

	p.logger.Info("plan published",
		"version", version,
		"actions", len(plan.Actions),
	)

	return version, nil
}

// pruneLocked deletes plan records older than the retain window.
func (p *PlanPublisher) pruneLocked(ctx context.Context) {
	keys, err := p.kv.Keys(ctx)
	if err != nil {
		p.logger.Warn("failed to list keys for pruning", "error", err)

		return
	}

	cutoff := p.currentVersion - int64(p.retain)
	deleted := 0
	for _, key := range keys {
		version, ok := p.versionFromKey(key)
		if !ok || version > cutoff {
			continue
		}
		if err := p.kv.Delete(ctx, key); err != nil {
			p.logger.Warn("failed to delete old plan record", "key", key, "error", err)

			continue
		}
		deleted++
	}

	if deleted > 0 {
		p.logger.Debug("pruned old plan records", "deleted", deleted, "retain", p.retain)
	}
}

// Fetch reads a published plan record by version.
//
// Parameters:
//   - ctx: Context for cancellation
//   - version: Version to read
//
// Returns:
//   - *Record: The stored plan record
//   - error: KV or unmarshal failure
func (p *PlanPublisher) Fetch(ctx context.Context, version int64) (*Record, error) {
	key := p.keyPrefix + strconv.FormatInt(version, 10)
	start := time.Now()
	entry, err := p.kv.Get(ctx, key)
	p.metrics.RecordPublishDuration("get", time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to read plan %d: %w", version, err)
	}

	var record Record
	if err := json.Unmarshal(entry.Value(), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan %d: %w", version, err)
	}

	return &record, nil
}

// CurrentVersion returns the version of the most recently published plan.
//
// Returns:
//   - int64: Current version number (0 if no plans published yet)
func (p *PlanPublisher) CurrentVersion() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.currentVersion
}

// LastPublishTime returns the time of the last successful publish.
//
// Returns:
//   - time.Time: Time of last publish (zero time if never published)
func (p *PlanPublisher) LastPublishTime() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.lastPublish
}

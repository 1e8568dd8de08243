package cellarplan

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	"github.com/Lbstrydom/cellarplan/internal/logging"
	"github.com/Lbstrydom/cellarplan/publish"
	"github.com/Lbstrydom/cellarplan/source"
	"github.com/Lbstrydom/cellarplan/tracker"
	"github.com/Lbstrydom/cellarplan/types"
)

func testZones() []types.Zone {
	return []types.Zone{
		{ID: "cabernet", Name: "Cabernet Sauvignon", Color: types.ColorRed},
		{ID: "rose", Name: "Rosé", Color: types.ColorRed},
	}
}

// retireRequest describes a rack where the near-empty rose zone should be
// retired into cabernet.
func retireRequest() *Request {
	return &Request{
		Allocation: types.Allocation{
			"cabernet": {1, 2},
			"rose":     {3},
		},
		Utilization: map[string]types.ZoneUtilization{
			"cabernet": {BottleCount: 6, RowCount: 2, Capacity: 8, UtilizationPct: 75},
			"rose":     {BottleCount: 1, RowCount: 1, Capacity: 4, UtilizationPct: 25},
		},
		MergeCandidates: []MergeCandidate{
			{SourceZoneID: "rose", TargetZoneID: "cabernet", Affinity: 0.9},
		},
		Bias: types.BiasLow,
	}
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()

	cfg := TestConfig()
	engine, err := New(&cfg, source.NewStatic(testZones()), opts...)
	require.NoError(t, err)

	return engine
}

func TestNew(t *testing.T) {
	t.Run("nil config falls back to defaults", func(t *testing.T) {
		engine, err := New(nil, source.NewStatic(testZones()))
		require.NoError(t, err)
		require.Equal(t, 19, engine.Model().RowCount())
	})

	t.Run("nil zone source is rejected", func(t *testing.T) {
		cfg := TestConfig()
		_, err := New(&cfg, nil)
		require.ErrorIs(t, err, ErrZoneSourceRequired)
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		cfg := TestConfig()
		cfg.MergeUtilizationMax = 200
		_, err := New(&cfg, source.NewStatic(testZones()))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestEngine_Propose(t *testing.T) {
	ctx := context.Background()

	t.Run("end to end retire proposal", func(t *testing.T) {
		engine := newTestEngine(t)

		proposal, err := engine.Propose(ctx, retireRequest())
		require.NoError(t, err)

		require.True(t, proposal.Result.Valid)
		require.False(t, proposal.Repaired)
		require.Len(t, proposal.Plan.Actions, 1)

		retire, ok := proposal.Plan.Actions[0].(types.RetireZone)
		require.True(t, ok)
		require.Equal(t, "rose", retire.ZoneID)
		require.Equal(t, "cabernet", retire.MergeIntoZoneID)

		require.NotNil(t, proposal.Score)
		require.Positive(t, proposal.Score.Total)
		require.Zero(t, proposal.Version, "no publisher wired")
	})

	t.Run("zones come from the source when the request has none", func(t *testing.T) {
		engine := newTestEngine(t)

		req := retireRequest()
		require.Empty(t, req.Zones)

		proposal, err := engine.Propose(ctx, req)
		require.NoError(t, err)
		require.True(t, proposal.Result.Valid)
	})

	t.Run("request zones take precedence", func(t *testing.T) {
		engine := newTestEngine(t)

		req := retireRequest()
		req.Zones = testZones()

		proposal, err := engine.Propose(ctx, req)
		require.NoError(t, err)
		require.Len(t, proposal.Plan.Actions, 1)
	})

	t.Run("settled rack yields an empty plan", func(t *testing.T) {
		engine := newTestEngine(t)

		req := retireRequest()
		req.MergeCandidates = nil

		proposal, err := engine.Propose(ctx, req)
		require.NoError(t, err)
		require.True(t, proposal.Result.Valid)
		require.Empty(t, proposal.Plan.Actions)
	})

	t.Run("runs with a structured logger wired", func(t *testing.T) {
		var buf bytes.Buffer
		log := logging.NewSlog(slog.New(slog.NewTextHandler(&buf, nil)))
		engine := newTestEngine(t, WithLogger(log))

		_, err := engine.Propose(ctx, retireRequest())
		require.NoError(t, err)
		require.Contains(t, buf.String(), "proposal complete")
	})

	t.Run("nil request", func(t *testing.T) {
		engine := newTestEngine(t)

		_, err := engine.Propose(ctx, nil)
		require.ErrorIs(t, err, ErrNilRequest)
	})

	t.Run("zone source failure surfaces through OnError", func(t *testing.T) {
		sourceErr := errors.New("zone store offline")
		var hookErr error
		hooks := &Hooks{
			OnError: func(_ context.Context, err error) error {
				hookErr = err

				return nil
			},
		}

		cfg := TestConfig()
		engine, err := New(&cfg, failingSource{err: sourceErr}, WithHooks(hooks))
		require.NoError(t, err)

		_, err = engine.Propose(ctx, retireRequest())
		require.ErrorIs(t, err, sourceErr)
		require.ErrorIs(t, hookErr, sourceErr)
	})

	t.Run("OnPlanProposed hook fires with the final plan", func(t *testing.T) {
		var mu sync.Mutex
		var gotPlan *types.Plan
		gotValid := false
		hooks := &Hooks{
			OnPlanProposed: func(_ context.Context, plan *types.Plan, valid bool) error {
				mu.Lock()
				defer mu.Unlock()
				gotPlan, gotValid = plan, valid

				return nil
			},
		}

		engine := newTestEngine(t, WithHooks(hooks))

		proposal, err := engine.Propose(ctx, retireRequest())
		require.NoError(t, err)

		mu.Lock()
		defer mu.Unlock()
		require.Equal(t, proposal.Plan, gotPlan)
		require.True(t, gotValid)
	})

	t.Run("hook failure never fails the proposal", func(t *testing.T) {
		hooks := &Hooks{
			OnPlanProposed: func(_ context.Context, _ *types.Plan, _ bool) error {
				return errors.New("webhook down")
			},
		}

		engine := newTestEngine(t, WithHooks(hooks))

		proposal, err := engine.Propose(ctx, retireRequest())
		require.NoError(t, err)
		require.True(t, proposal.Result.Valid)
	})

	t.Run("publisher assigns a version", func(t *testing.T) {
		pub, err := publish.NewPlanPublisher(newMemoryKV(), "plan")
		require.NoError(t, err)

		engine := newTestEngine(t, WithPublisher(pub))

		proposal, err := engine.Propose(ctx, retireRequest())
		require.NoError(t, err)
		require.Equal(t, int64(1), proposal.Version)

		again, err := engine.Propose(ctx, retireRequest())
		require.NoError(t, err)
		require.Equal(t, int64(2), again.Version)
	})

	t.Run("publish failure is non-fatal", func(t *testing.T) {
		kv := newMemoryKV()
		kv.putErr = errors.New("kv unavailable")
		pub, err := publish.NewPlanPublisher(kv, "plan")
		require.NoError(t, err)

		var hookErr error
		hooks := &Hooks{
			OnError: func(_ context.Context, err error) error {
				hookErr = err

				return nil
			},
		}

		engine := newTestEngine(t, WithPublisher(pub), WithHooks(hooks))

		proposal, err := engine.Propose(ctx, retireRequest())
		require.NoError(t, err)
		require.Zero(t, proposal.Version)
		require.ErrorIs(t, hookErr, ErrPublishFailed)
	})
}

func TestEngine_Subscribe(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)

	ch, unsubscribe := engine.Subscribe()
	defer unsubscribe()

	proposal, err := engine.Propose(ctx, retireRequest())
	require.NoError(t, err)

	select {
	case received := <-ch:
		require.Equal(t, proposal, received)
	case <-time.After(time.Second):
		t.Fatal("no proposal delivered to subscriber")
	}

	unsubscribe()
	_, open := <-ch
	require.False(t, open, "unsubscribe closes the channel")
}

func TestEngine_ShouldPropose(t *testing.T) {
	alloc := types.Allocation{"cabernet": {1, 2}}
	util := map[string]types.ZoneUtilization{"cabernet": {BottleCount: 6, RowCount: 2}}

	t.Run("always true without a tracker", func(t *testing.T) {
		engine := newTestEngine(t)
		require.True(t, engine.ShouldPropose(alloc, util))
	})

	t.Run("tracker gates repeat proposals", func(t *testing.T) {
		engine := newTestEngine(t, WithTracker(tracker.New(6)))

		require.True(t, engine.ShouldPropose(alloc, util))

		engine.MarkApplied(alloc, util)
		require.False(t, engine.ShouldPropose(alloc, util))

		moved := alloc.Clone()
		moved["cabernet"] = []int{1, 2, 4}
		require.True(t, engine.ShouldPropose(moved, util))
	})
}

func TestEngine_Simulate(t *testing.T) {
	engine := newTestEngine(t)

	req := retireRequest()
	actions := []Action{
		types.ReallocateRow{
			ActionMeta: types.ActionMeta{Priority: 2, Reason: "hand-built"},
			FromZoneID: "cabernet",
			ToZoneID:   "rose",
			RowNumber:  5, // nobody owns row 5
		},
	}

	result, err := engine.Simulate(actions, testZones(), req.Allocation, req.Utilization)
	require.NoError(t, err)
	require.False(t, result.Valid)

	repaired, err := engine.Repair(actions, testZones(), req.Allocation, req.Utilization)
	require.NoError(t, err)
	require.Equal(t, 1, repaired.Removed)
	require.Empty(t, repaired.Actions)

	score, err := engine.Score(repaired.Actions, testZones(), req.Allocation, req.Utilization)
	require.NoError(t, err)
	require.Zero(t, score.Churn)
}

// failingSource always errors, standing in for an unreachable zone store.
type failingSource struct {
	err error
}

func (f failingSource) ListZones(context.Context) ([]types.Zone, error) {
	return nil, f.err
}

// memoryKV is a minimal in-memory publish.KV for engine-level tests.
type memoryKV struct {
	mu     sync.Mutex
	data   map[string][]byte
	putErr error
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: make(map[string][]byte)}
}

func (m *memoryKV) Put(_ context.Context, key string, value []byte) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.putErr != nil {
		return 0, m.putErr
	}
	m.data[key] = value

	return uint64(len(m.data)), nil
}

func (m *memoryKV) Get(_ context.Context, _ string) (jetstream.KeyValueEntry, error) {
	return nil, jetstream.ErrKeyNotFound
}

func (m *memoryKV) Keys(_ context.Context, _ ...jetstream.WatchOpt) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.data) == 0 {
		return nil, errors.New("nats: no keys found")
	}

	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		keys = append(keys, key)
	}

	return keys, nil
}

func (m *memoryKV) Delete(_ context.Context, key string, _ ...jetstream.KVDeleteOpt) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)

	return nil
}

package sim

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"risksim/battle"
	"risksim/config"
	"risksim/rng"
	"risksim/sim/metrics"
)

type runState int32

const (
	stateIdle runState = iota
	stateRunning
	stateCompleted
	stateFailed
)

type Option func(r *Runner)

// WithObserver registers a progress observer notified at batch boundaries.
func WithObserver(observer Observer) Option {
	return func(r *Runner) {
		if observer != nil {
			r.observer = observer
		}
	}
}

// WithRules overrides the battle rules named in the configuration.
func WithRules(rules battle.Rules) Option {
	return func(r *Runner) {
		if rules != nil {
			r.rules = rules
		}
	}
}

// WithSourceFactory overrides how per-shard random sources are built.
func WithSourceFactory(newSource func(seed uint64) rng.Source) Option {
	return func(r *Runner) {
		if newSource != nil {
			r.newSource = newSource
		}
	}
}

// Runner drives repeated battles according to its configuration and
// aggregates the results. A Runner is single-use: one call to Run.
type Runner struct {
	cfg       *config.Config
	rules     battle.Rules
	observer  Observer
	newSource func(seed uint64) rng.Source
	roll      func(cfg battle.DiceConfig, src rng.Source) ([]int, error)
	state     atomic.Int32
}

func New(cfg *config.Config, options ...Option) *Runner {
	r := &Runner{
		cfg:       cfg,
		newSource: rng.NewSeeded,
		roll:      battle.Roll,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

type shardResult struct {
	metrics metrics.Metrics
	history []battle.Result
	err     error
}

// Run executes the configured number of battles and returns the aggregated
// result. The context is checked between batches only; a cancelled run
// returns the partial result marked Incomplete together with the
// cancellation error. Any battle failure fails the whole run.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if !r.state.CompareAndSwap(int32(stateIdle), int32(stateRunning)) {
		return nil, errors.New("runner has already run")
	}

	// Fail fast before any battles
	if err := r.cfg.Validate(); err != nil {
		r.state.Store(int32(stateFailed))
		return nil, err
	}
	if r.rules == nil {
		rules, err := battle.RulesFor(r.cfg.Rules)
		if err != nil {
			r.state.Store(int32(stateFailed))
			return nil, err
		}
		r.rules = rules
	}

	seed := r.seed()
	result := &Result{
		ID:        uuid.NewString(),
		Config:    r.cfg,
		StartedAt: time.Now(),
	}

	if r.observer != nil {
		r.observer.OnStart(r.cfg)
	}
	log.Info().Msgf("starting simulation %s: %d iterations, %d shards, seed %d",
		result.ID, r.cfg.Iterations, r.cfg.Shards, seed)

	start := time.Now()
	counters := &progressCounters{start: start, totalBatches: r.cfg.TotalBatches()}
	results := make([]shardResult, r.cfg.Shards)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < r.cfg.Shards; i++ {
		i := i
		offset, iterations := shardPartition(r.cfg.Iterations, r.cfg.Shards, i)
		g.Go(func() error {
			results[i] = r.runShard(gctx, rng.ShardSeed(seed, i), offset, iterations, counters)
			return results[i].err
		})
	}
	// Synchronization point only; shard errors are inspected below so a
	// sibling's cancellation cannot mask the original failure.
	_ = g.Wait()

	var cancelled error
	for i := range results {
		err := results[i].err
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			cancelled = err
			continue
		}
		r.state.Store(int32(stateFailed))
		log.Error().Err(err).Msgf("simulation %s failed", result.ID)
		return nil, err
	}

	merged := metrics.Metrics{}
	history := make([]battle.Result, 0)
	for _, sr := range results {
		merged = merged.Merge(sr.metrics)
		history = append(history, sr.history...)
	}
	if r.cfg.HistoryLimit > 0 && len(history) > r.cfg.HistoryLimit {
		history = history[:r.cfg.HistoryLimit]
	}

	result.Metrics = merged.Finalize(time.Since(start))
	result.History = history
	result.FinishedAt = time.Now()
	r.state.Store(int32(stateCompleted))

	if cancelled != nil {
		result.Incomplete = true
		log.Info().Msgf("simulation %s cancelled after %d of %d battles",
			result.ID, result.Metrics.Battles, r.cfg.Iterations)
		if r.observer != nil {
			r.observer.OnComplete(result)
		}
		return result, &RunError{
			Iteration: int(result.Metrics.Battles),
			Batch:     int(result.Metrics.Battles) / r.cfg.BatchSize,
			Err:       cancelled,
		}
	}

	log.Info().Msgf("simulation %s completed: %d battles in %s (%.0f battles/s)",
		result.ID, result.Metrics.Battles, result.Metrics.Elapsed, result.Metrics.Throughput)
	if r.observer != nil {
		r.observer.OnComplete(result)
	}
	return result, nil
}

func (r *Runner) seed() uint64 {
	if r.cfg.RandomSeed != nil {
		return *r.cfg.RandomSeed
	}
	return uint64(time.Now().UnixNano())
}

// progressCounters is the only state shared between shards; counts are
// atomic and the merge of per-shard metrics happens after all shards finish.
type progressCounters struct {
	start        time.Time
	totalBatches int
	battles      atomic.Int64
	batches      atomic.Int64
}

// shardPartition splits iterations across shards, giving the remainder to
// the lowest-numbered shards, and returns this shard's starting global
// iteration index and its share.
func shardPartition(iterations, shards, shard int) (offset, share int) {
	base := iterations / shards
	rem := iterations % shards
	share = base
	if shard < rem {
		share++
	}
	offset = shard * base
	if shard < rem {
		offset += shard
	} else {
		offset += rem
	}
	return offset, share
}

func (r *Runner) runShard(ctx context.Context, seed uint64, offset, iterations int, counters *progressCounters) shardResult {
	src := r.newSource(seed)
	resolver := battle.NewResolver(r.rules)
	collector := metrics.NewCollector()
	collector.Start()

	// Each shard keeps its own bounded buffer; the merge concatenates in
	// shard order and re-applies the limit, so retained history is
	// deterministic for a fixed seed.
	var history []battle.Result
	if r.cfg.HistoryLimit > 0 {
		history = make([]battle.Result, 0, min(r.cfg.HistoryLimit, iterations))
	}

	done := 0
	for done < iterations {
		n := r.cfg.BatchSize
		if remaining := iterations - done; remaining < n {
			n = remaining
		}

		for j := 0; j < n; j++ {
			result, err := r.runBattle(resolver, src)
			if err != nil {
				index := offset + done + j
				return shardResult{
					metrics: collector.Complete(),
					history: history,
					err:     &RunError{Iteration: index, Batch: index/r.cfg.BatchSize + 1, Err: err},
				}
			}
			collector.AddBattle(result)
			if r.cfg.HistoryLimit > 0 && len(history) < r.cfg.HistoryLimit {
				history = append(history, result)
			}
		}
		done += n

		battles := counters.battles.Add(int64(n))
		batch := counters.batches.Add(1)
		elapsed := time.Since(counters.start)
		throughput := 0.0
		if elapsed > 0 {
			throughput = float64(battles) / elapsed.Seconds()
		}
		log.Debug().Msgf("batch %d/%d completed: %d battles so far", batch, counters.totalBatches, battles)
		if r.observer != nil {
			r.observer.OnBatch(Progress{
				Battles:      int(battles),
				Batch:        int(batch),
				TotalBatches: counters.totalBatches,
				Elapsed:      elapsed,
				Throughput:   throughput,
			})
		}

		select {
		case <-ctx.Done():
			return shardResult{metrics: collector.Complete(), history: history, err: ctx.Err()}
		default:
		}
	}

	return shardResult{metrics: collector.Complete(), history: history}
}

// runBattle rolls both sides and resolves one battle.
func (r *Runner) runBattle(resolver *battle.Resolver, src rng.Source) (battle.Result, error) {
	attackerRolls, err := r.roll(r.cfg.Attacker, src)
	if err != nil {
		return battle.Result{}, err
	}
	defenderRolls, err := r.roll(r.cfg.Defender, src)
	if err != nil {
		return battle.Result{}, err
	}
	return resolver.Resolve(attackerRolls, defenderRolls)
}

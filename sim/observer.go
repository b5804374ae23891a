package sim

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"risksim/config"
)

// Observer receives simulation progress notifications. OnBatch fires at
// batch boundaries only, never per battle; for sharded runs it may be called
// from multiple goroutines. Implementations must return quickly or wrap
// themselves with NewAsyncObserver.
type Observer interface {
	OnStart(cfg *config.Config)
	OnBatch(progress Progress)
	OnComplete(result *Result)
}

// Progress describes the state of a run at a batch boundary. In sharded
// runs shards batch independently, so Batch can exceed TotalBatches when
// iterations do not divide evenly.
type Progress struct {
	Battles      int
	Batch        int
	TotalBatches int
	Elapsed      time.Duration
	Throughput   float64
}

type eventKind int

const (
	eventStart eventKind = iota
	eventBatch
	eventComplete
)

type event struct {
	kind     eventKind
	cfg      *config.Config
	progress Progress
	result   *Result
}

// AsyncObserver decouples a slow observer from the simulation loop.
// Notifications are dispatched from a separate goroutine; when the buffer is
// full they are dropped rather than block the loop.
type AsyncObserver struct {
	inner   Observer
	events  chan event
	done    chan struct{}
	dropped atomic.Int64
}

func NewAsyncObserver(inner Observer, buffer int) *AsyncObserver {
	if buffer < 1 {
		buffer = 64
	}
	a := &AsyncObserver{
		inner:  inner,
		events: make(chan event, buffer),
		done:   make(chan struct{}),
	}
	go a.dispatch()
	return a
}

func (a *AsyncObserver) dispatch() {
	defer close(a.done)
	for ev := range a.events {
		switch ev.kind {
		case eventStart:
			a.inner.OnStart(ev.cfg)
		case eventBatch:
			a.inner.OnBatch(ev.progress)
		case eventComplete:
			a.inner.OnComplete(ev.result)
		}
	}
}

func (a *AsyncObserver) send(ev event) {
	select {
	case a.events <- ev:
	default:
		a.dropped.Add(1)
	}
}

func (a *AsyncObserver) OnStart(cfg *config.Config) {
	a.send(event{kind: eventStart, cfg: cfg})
}

func (a *AsyncObserver) OnBatch(progress Progress) {
	a.send(event{kind: eventBatch, progress: progress})
}

func (a *AsyncObserver) OnComplete(result *Result) {
	a.send(event{kind: eventComplete, result: result})
}

// Dropped reports how many notifications were discarded because the inner
// observer could not keep up.
func (a *AsyncObserver) Dropped() int64 {
	return a.dropped.Load()
}

// Close delivers buffered notifications and stops the dispatch goroutine.
func (a *AsyncObserver) Close() {
	close(a.events)
	<-a.done
	if n := a.dropped.Load(); n > 0 {
		log.Warn().Msgf("dropped %d observer notifications", n)
	}
}

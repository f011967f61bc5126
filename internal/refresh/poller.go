package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/diewo77/go-demenagement/internal/logging"
	"github.com/sirupsen/logrus"
)

// FetchFunc fetches and computes one view. The bool reports that the data
// came from a fallback copy. ctx is cancelled when the poller stops.
type FetchFunc[T any] func(ctx context.Context) (T, bool, error)

// Poller refreshes a Snapshot right away, then every Interval and on every
// signal received from Trigger.
type Poller[T any] struct {
	Name     string
	Interval time.Duration
	Trigger  <-chan struct{}
	Timeout  time.Duration
	Fetch    FetchFunc[T]
	Snapshot *Snapshot[T]
	Now      func() time.Time

	seq    Sequencer
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	done   chan struct{}
}

// Start launches the polling loop. It returns immediately.
func (p *Poller[T]) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	go p.loop(p.ctx)
}

// Stop cancels in-flight fetches, waits for them to return and ends the loop.
func (p *Poller[T]) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.wg.Wait()
}

// Refresh starts one run outside the schedule. It is a no-op before Start.
func (p *Poller[T]) Refresh() {
	if p.ctx == nil || p.ctx.Err() != nil {
		return
	}
	p.run(p.ctx)
}

// Latest returns the current snapshot value.
func (p *Poller[T]) Latest() (Value[T], bool) { return p.Snapshot.Load() }

func (p *Poller[T]) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Poller[T]) loop(ctx context.Context) {
	defer close(p.done)
	p.run(ctx)

	var tick <-chan time.Time
	if p.Interval > 0 {
		t := time.NewTicker(p.Interval)
		defer t.Stop()
		tick = t.C
	}
	trigger := p.Trigger
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			p.run(ctx)
		case _, ok := <-trigger:
			if !ok {
				trigger = nil
				continue
			}
			p.run(ctx)
		}
	}
}

// run fetches in the background. Runs may overlap; only the result of the
// latest issued token is stored.
func (p *Poller[T]) run(parent context.Context) {
	token := p.seq.Begin()

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if p.Timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, p.Timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer cancel()
		log := logging.Get().WithFields(logrus.Fields{"module": "refresh", "poller": p.Name, "token": uint64(token)})

		data, stale, err := p.Fetch(ctx)
		if err != nil {
			log.WithError(err).Warn("refresh failed, keeping previous snapshot")
			return
		}
		if ctx.Err() != nil {
			log.Debug("refresh cancelled, result discarded")
			return
		}
		if !p.seq.Commit(token, func() {
			p.Snapshot.Store(Value[T]{Data: data, FetchedAt: p.now(), Stale: stale})
		}) {
			log.Debug("stale refresh result discarded")
		}
	}()
}

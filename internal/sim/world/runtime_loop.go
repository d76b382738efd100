package world

import (
	"context"
	"time"
)

func (w *World) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(w.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pending []func(w *World)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case fn := <-w.submit:
			pending = append(pending, fn)
		case <-ticker.C:
			for _, fn := range pending {
				fn(w)
			}
			pending = pending[:0]
			w.step()
		}
	}
}

func (w *World) Stop() { close(w.stop) }

// Submit queues fn to run on the world loop goroutine before the next tick.
// It blocks while the queue is full.
func (w *World) Submit(ctx context.Context, fn func(w *World)) error {
	select {
	case w.submit <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StepOnce advances the world by a single tick using the same ordering as
// Run. It is intended for deterministic replays and tests.
func (w *World) StepOnce() (tick uint64, digest string) {
	tick = w.tick.Load()
	w.step()
	return tick, w.StateDigest()
}

// step runs native hoppers, then tile behaviors in position order.
func (w *World) step() {
	nowTick := w.tick.Load()
	w.auditsThisTick = 0
	w.systemHoppers(nowTick)
	w.tiles.Tick(nowTick)
	w.tick.Add(1)
	w.logTick(nowTick)
}

// Close unloads the world: every tile entity is destroyed and the session
// stops ticking.
func (w *World) Close() {
	w.tiles.Close()
}

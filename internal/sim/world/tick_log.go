package world

import "errors"

// TickLogEntry is written once per tick after the tick has run.
type TickLogEntry struct {
	Tick   uint64 `json:"tick"`
	Audits int    `json:"audits"`
	Digest string `json:"digest"`
}

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

// SetTickLogger installs l (nil disables tick logging).
func (w *World) SetTickLogger(l TickLogger) { w.tickLogger = l }

func (w *World) logTick(tick uint64) {
	if w.tickLogger == nil {
		return
	}
	entry := TickLogEntry{Tick: tick, Audits: w.auditsThisTick, Digest: w.StateDigest()}
	if err := w.tickLogger.WriteTick(entry); err != nil {
		w.log.Printf("tick log %d: %v", tick, err)
	}
}

// TickLoggers fans each entry out to every logger in order.
type TickLoggers []TickLogger

func (ls TickLoggers) WriteTick(entry TickLogEntry) error {
	var errs []error
	for _, l := range ls {
		if l == nil {
			continue
		}
		if err := l.WriteTick(entry); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package world

import "voxelstore.ai/internal/sim/storage"

// Audit actions.
const (
	ActionHopperTransfer = "HOPPER_TRANSFER"
	ActionEject          = "EJECT"
	ActionPump           = "PUMP"
)

// AuditEntry records one transfer between two storages.
type AuditEntry struct {
	Tick   uint64  `json:"tick"`
	World  string  `json:"world"`
	Action string  `json:"action"`
	From   [3]int  `json:"from"`
	To     [3]int  `json:"to"`
	Item   string  `json:"item,omitempty"`
	Count  int     `json:"count,omitempty"`
	Liquid string  `json:"liquid,omitempty"`
	Amount float64 `json:"amount,omitempty"`
	Reason string  `json:"reason,omitempty"`
}

// AuditSink receives audit entries from the world loop goroutine.
type AuditSink interface {
	WriteAudit(entry AuditEntry) error
}

// AddAuditSink registers s. Sinks are called in registration order.
func (w *World) AddAuditSink(s AuditSink) {
	if s != nil {
		w.sinks = append(w.sinks, s)
	}
}

func (w *World) audit(entry AuditEntry) {
	entry.World = w.cfg.ID
	w.auditsThisTick++
	for _, s := range w.sinks {
		if err := s.WriteAudit(entry); err != nil {
			w.log.Printf("audit %s at tick %d: %v", entry.Action, entry.Tick, err)
		}
	}
}

func (w *World) auditItems(tick uint64, action string, from, to storage.Vec3i, item string, count int, reason string) {
	w.audit(AuditEntry{
		Tick:   tick,
		Action: action,
		From:   from.ToArray(),
		To:     to.ToArray(),
		Item:   item,
		Count:  count,
		Reason: reason,
	})
}

func (w *World) auditLiquid(tick uint64, from, to storage.Vec3i, liquid string, amount float64) {
	w.audit(AuditEntry{
		Tick:   tick,
		Action: ActionPump,
		From:   from.ToArray(),
		To:     to.ToArray(),
		Liquid: liquid,
		Amount: amount,
	})
}

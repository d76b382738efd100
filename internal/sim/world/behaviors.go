package world

import (
	"voxelstore.ai/internal/sim/scenario"
	"voxelstore.ai/internal/sim/storage"
	"voxelstore.ai/internal/sim/tile"
)

func (w *World) newBehavior(spec scenario.PrototypeSpec) func() tile.Behavior {
	if len(spec.Behaviors) == 0 {
		return nil
	}
	names := append([]string(nil), spec.Behaviors...)
	return func() tile.Behavior {
		chain := make(tile.Chain, 0, len(names))
		for _, name := range names {
			switch name {
			case scenario.BehaviorHoppers:
				chain = append(chain, tile.BehaviorFuncs{OnTick: w.tickHoppers})
			case scenario.BehaviorEjector:
				chain = append(chain, tile.BehaviorFuncs{OnTick: w.tickEjector})
			case scenario.BehaviorPump:
				chain = append(chain, tile.BehaviorFuncs{OnTick: w.tickPump})
			}
		}
		return chain
	}
}

func (w *World) tickHoppers(e *tile.Entity, tick uint64) {
	for _, t := range w.storage.CheckHoppers(w, e, tick) {
		w.auditItems(tick, ActionHopperTransfer, t.From, t.To, w.itemName(t.Item), t.Count, "TILE_HOPPER")
	}
}

// tickEjector pushes the tile's output slots into the neighbouring
// containers, visiting sides in ascending order like PutItems.
func (w *World) tickEjector(e *tile.Entity, tick uint64) {
	if tick%uint64(w.cfg.EjectEveryTicks) != 0 {
		return
	}
	src := w.storage.TileStorage(e)
	slots := src.GetOutputSlots(storage.AnySide)
	if len(slots) == 0 {
		return
	}
	containers := storage.GetNearestContainers(w, e.Pos(), storage.AnySide)
	if len(containers) == 0 {
		return
	}

	for _, id := range slots {
		item := src.GetSlot(id)
		name := w.itemName(item.ID)
		for side := storage.SideDown; side <= storage.SideWest && item.Count > 0; side++ {
			dst, ok := containers[side]
			if !ok {
				continue
			}
			if n := w.storage.PutItemToContainer(&item, dst, side.Opposite(), storage.Unbounded); n > 0 {
				w.auditItems(tick, ActionEject, e.Pos(), storage.Neighbor(e.Pos(), side), name, n, id.Name)
			}
		}
		src.SetSlot(id, item)
	}
}

// tickPump fills the pump's tank with its liquid, then offers up to the pump
// rate to each neighbouring liquid storage in side order.
func (w *World) tickPump(e *tile.Entity, tick uint64) {
	liq := w.pumpLiquids[e.BlockID()]
	if liq == "" {
		return
	}
	src := w.storage.TileStorage(e)
	if tk := e.LiquidTank(w.outputTank(e.BlockID())); tk != nil {
		tk.Add(liq, w.cfg.PumpRate)
	}
	neighbours := w.storage.GetNearestLiquidStorages(w, e.Pos(), storage.AnySide)
	for side := storage.SideDown; side <= storage.SideWest; side++ {
		dst, ok := neighbours[side]
		if !ok {
			continue
		}
		if n := storage.ExtractLiquid(liq, w.cfg.PumpRate, dst, src, side.Opposite()); n > 0 {
			w.auditLiquid(tick, e.Pos(), storage.Neighbor(e.Pos(), side), liq, n)
		}
	}
}

func (w *World) outputTank(blockID int) string {
	if d, ok := w.storage.Descriptor(blockID); ok {
		return d.OutputTank
	}
	return ""
}

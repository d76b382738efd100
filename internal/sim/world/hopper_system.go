package world

import (
	"sort"

	"voxelstore.ai/internal/sim/storage"
)

// systemHoppers runs the built-in hoppers every hopper period. Each hopper
// pulls from the native inventory above it, then pushes into the native
// inventory it points at (data = side). Tile entities exchange items with
// hoppers through their own hoppers behavior.
func (w *World) systemHoppers(nowTick uint64) {
	if nowTick%uint64(w.cfg.HopperPeriodTicks) != 0 {
		return
	}
	hoppers := make([]storage.Vec3i, 0, len(w.natives))
	for p := range w.natives {
		if id, _ := w.chunks.GetBlock(p); id == w.hopperID {
			hoppers = append(hoppers, p)
		}
	}
	sortPositions(hoppers)

	count := w.cfg.HopperTransferCount
	for _, p := range hoppers {
		hopper := w.storage.GetStorage(w, p)
		if hopper == nil {
			continue
		}

		above := storage.Neighbor(p, storage.SideUp)
		if src := w.NativeContainerAt(above); src != nil {
			if n, item := storage.ExtractOneStack(hopper, w.storage.GetStorage(w, above), storage.SideUp, count); n > 0 {
				w.auditItems(nowTick, ActionHopperTransfer, above, p, w.itemName(item), n, "HOPPER_PULL")
			}
		}

		_, data := w.chunks.GetBlock(p)
		facing := storage.Side(data)
		if !facing.Valid() || facing == storage.SideUp {
			continue
		}
		to := storage.Neighbor(p, facing)
		if dst := w.NativeContainerAt(to); dst == nil {
			continue
		}
		if n, item := storage.ExtractOneStack(w.storage.GetStorage(w, to), hopper, facing.Opposite(), count); n > 0 {
			w.auditItems(nowTick, ActionHopperTransfer, p, to, w.itemName(item), n, "HOPPER_PUSH")
		}
	}
}

func sortPositions(ps []storage.Vec3i) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].X != ps[j].X {
			return ps[i].X < ps[j].X
		}
		if ps[i].Y != ps[j].Y {
			return ps[i].Y < ps[j].Y
		}
		return ps[i].Z < ps[j].Z
	})
}

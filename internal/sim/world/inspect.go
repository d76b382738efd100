package world

import (
	"strconv"

	"voxelstore.ai/internal/sim/storage"
	"voxelstore.ai/internal/sim/tile"
)

// StorageView is a read-only copy of the storage at one position.
type StorageView struct {
	Pos   [3]int     `json:"pos"`
	Block string     `json:"block"`
	Kind  string     `json:"kind"` // "native" or "tile"
	Slots []SlotView `json:"slots"`
	Tanks []TankView `json:"tanks,omitempty"`
}

type SlotView struct {
	Slot  string `json:"slot"`
	Item  string `json:"item,omitempty"`
	Count int    `json:"count,omitempty"`
}

type TankView struct {
	Name   string  `json:"name"`
	Liquid string  `json:"liquid,omitempty"`
	Amount float64 `json:"amount,omitempty"`
}

// Inspect copies the storage at pos. It must run on the world loop goroutine
// (see Submit).
func (w *World) Inspect(pos storage.Vec3i) (StorageView, bool) {
	b := w.Block(pos)
	v := StorageView{
		Pos:   pos.ToArray(),
		Block: w.catalogs.Blocks.BlockName(b.ID),
	}
	if n := w.natives[pos]; n != nil {
		v.Kind = "native"
		for _, id := range w.storage.GetContainerSlots(storage.FromNative(n)) {
			v.Slots = append(v.Slots, w.slotView(strconv.Itoa(id.Index), n.Slot(id.Index)))
		}
		return v, true
	}
	e := w.tiles.At(pos)
	if e == nil {
		return v, false
	}
	v.Kind = "tile"
	for _, id := range w.storage.GetContainerSlots(storage.FromTile(e)) {
		v.Slots = append(v.Slots, w.slotView(id.Name, e.Container().GetSlot(id.Name)))
	}
	v.Tanks = tankViews(e)
	return v, true
}

func (w *World) slotView(name string, s storage.ItemStack) SlotView {
	if s.IsEmpty() {
		return SlotView{Slot: name}
	}
	return SlotView{Slot: name, Item: w.itemName(s.ID), Count: s.Count}
}

func tankViews(e *tile.Entity) []TankView {
	var out []TankView
	for _, ts := range e.Prototype().Tanks {
		tk := e.LiquidTank(ts.Name)
		liq := tk.Stored()
		out = append(out, TankView{Name: ts.Name, Liquid: liq, Amount: tk.Amount(liq)})
	}
	return out
}

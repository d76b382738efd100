package storage

import "voxelstore.ai/internal/sim/liquid"

// automationRequester identifies transfers not made by a player.
const automationRequester int64 = 0

// TileStorage exposes a tile entity's item container and liquid tanks. The
// registered descriptor for the tile's block id, if any, decides slot roles.
type TileStorage struct {
	tile      TileEntity
	container *ItemContainer
	desc      *StorageDescriptor
	items     StackSizer

	// last withdrawal, kept so a hand-back can restore the tank exactly
	lastLiquid string
	lastBefore float64
	lastAfter  float64
	lastUnits  float64
}

// TileStorage builds a handle for t. t must not be nil.
func (r *Registry) TileStorage(t TileEntity) *TileStorage {
	desc, _ := r.Descriptor(t.BlockID())
	return &TileStorage{
		tile:      t,
		container: t.Container(),
		desc:      desc,
		items:     r.items,
	}
}

func (s *TileStorage) Tile() TileEntity { return s.tile }

func (s *TileStorage) slotName(id SlotID) (string, bool) {
	if s.container == nil {
		return "", false
	}
	if id.Named {
		return id.Name, true
	}
	names := s.container.SlotNames()
	if id.Index < 0 || id.Index >= len(names) {
		return "", false
	}
	return names[id.Index], true
}

func (s *TileStorage) GetSlot(id SlotID) ItemStack {
	name, ok := s.slotName(id)
	if !ok {
		return ItemStack{}
	}
	return s.container.GetSlot(name)
}

func (s *TileStorage) SetSlot(id SlotID, stack ItemStack) {
	name, ok := s.slotName(id)
	if !ok {
		return
	}
	s.container.SetSlot(name, stack)
}

func (s *TileStorage) containerSlots() []SlotID {
	if s.container == nil {
		return nil
	}
	names := s.container.SlotNames()
	out := make([]SlotID, 0, len(names))
	for _, n := range names {
		out = append(out, NamedSlot(n))
	}
	return out
}

func (s *TileStorage) GetInputSlots(side Side) []SlotID {
	if s.desc == nil {
		return s.containerSlots()
	}
	var out []SlotID
	for _, d := range s.desc.Slots {
		if d.Input && d.Side.Matches(side) {
			out = append(out, NamedSlot(d.Name))
		}
	}
	return out
}

func (s *TileStorage) GetOutputSlots(side Side) []SlotID {
	if s.desc == nil {
		return s.containerSlots()
	}
	if s.container == nil {
		return nil
	}
	var out []SlotID
	for _, d := range s.desc.Slots {
		if !d.Output || !d.Side.Matches(side) {
			continue
		}
		item := s.container.GetSlot(d.Name)
		if item.ID == 0 {
			continue
		}
		if d.CanOutput != nil && !d.CanOutput(item, side, s.tile) {
			continue
		}
		out = append(out, NamedSlot(d.Name))
	}
	return out
}

func (s *TileStorage) AddItem(item *ItemStack, side Side, maxCount int) int {
	if item == nil || item.IsEmpty() || s.container == nil {
		return 0
	}
	if s.desc != nil && s.desc.IsValidInput != nil && !s.desc.IsValidInput(*item, side, s.tile) {
		return 0
	}
	maxStack := maxStackOf(s.items, item.ID)
	count := 0
	for _, id := range s.GetInputSlots(side) {
		if s.desc != nil {
			if d, ok := s.desc.Slot(id.Name); ok && d.IsValid != nil && !d.IsValid(*item, side, s.tile) {
				continue
			}
		}
		slot := s.container.GetSlot(id.Name)
		allowed := s.container.Admit(id.Name, *item, min(maxCount-count, item.Count), automationRequester)
		added := AddItemToSlot(item, &slot, maxStack, allowed)
		if added > 0 {
			count += added
			s.container.SetSlot(id.Name, slot)
		}
		if item.Count == 0 || count >= maxCount {
			break
		}
	}
	return count
}

func (s *TileStorage) tankFor(compartment string) *liquid.Tank {
	name := compartment
	if s.desc != nil {
		switch compartment {
		case CompartmentInput:
			name = s.desc.InputTank
		case CompartmentOutput:
			name = s.desc.OutputTank
		}
	}
	return s.tile.LiquidTank(name)
}

func (s *TileStorage) GetLiquidStored(compartment string) string {
	t := s.tankFor(compartment)
	if t == nil {
		return ""
	}
	return t.Stored()
}

func (s *TileStorage) CanReceiveLiquid(liq string, side Side) bool {
	if s.desc != nil && s.desc.CanReceiveLiquid != nil {
		return s.desc.CanReceiveLiquid(liq, side)
	}
	t := s.tankFor(CompartmentInput)
	return t != nil && t.Limit(liq) > 0 && !t.IsFull(liq)
}

func (s *TileStorage) CanTransportLiquid(liq string, side Side) bool {
	if s.desc != nil && s.desc.CanTransportLiquid != nil {
		return s.desc.CanTransportLiquid(liq, side)
	}
	return s.tankFor(CompartmentOutput) != nil
}

// GetLiquid withdraws amount transfer units. A negative amount hands back
// part of the previous withdrawal: the tank is restored from its amount
// before that withdrawal, so no rounding from the unit ratio accumulates.
func (s *TileStorage) GetLiquid(liq string, amount float64) float64 {
	t := s.tankFor(CompartmentOutput)
	if t == nil {
		return 0
	}
	ratio := s.desc.unitRatio()
	if amount < 0 && liq == s.lastLiquid && -amount <= s.lastUnits && t.Amount(liq) == s.lastAfter {
		kept := s.lastUnits + amount
		t.SetAmount(liq, s.lastBefore-kept/ratio)
		s.lastLiquid = ""
		return amount
	}
	before := t.Amount(liq)
	got := t.Get(liq, amount/ratio) * ratio
	s.lastLiquid, s.lastBefore, s.lastAfter, s.lastUnits = liq, before, t.Amount(liq), got
	return got
}

func (s *TileStorage) AddLiquid(liq string, amount float64) float64 {
	t := s.tankFor(CompartmentInput)
	if t == nil {
		return 0
	}
	if stored := t.Stored(); stored != "" && stored != liq {
		return 0
	}
	ratio := s.desc.unitRatio()
	return t.Add(liq, amount/ratio) * ratio
}

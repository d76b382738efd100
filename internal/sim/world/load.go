package world

import (
	"fmt"

	"voxelstore.ai/internal/sim/scenario"
	"voxelstore.ai/internal/sim/storage"
	"voxelstore.ai/internal/sim/tile"
)

// Load replaces the world contents with sc. Tiles of the previous world are
// dropped without running their destroy hooks.
func (w *World) Load(sc scenario.Scenario) error {
	w.chunks.Reset()
	w.natives = map[storage.Vec3i]*NativeInventory{}
	w.tiles.Reset()
	w.protos.Clear()
	w.pumpLiquids = map[int]string{}
	w.storage = w.newStorageRegistry()
	w.tick.Store(0)

	for _, p := range sc.Prototypes {
		if err := w.registerPrototype(p); err != nil {
			return fmt.Errorf("load %s: %w", sc.WorldID, err)
		}
	}
	for i, b := range sc.Blocks {
		pos := storage.Vec3i{X: b.Pos[0], Y: b.Pos[1], Z: b.Pos[2]}
		if err := w.PlaceBlock(pos, b.Block, b.Data); err != nil {
			return fmt.Errorf("load %s: blocks[%d]: %w", sc.WorldID, i, err)
		}
		for _, it := range b.Items {
			if err := w.SetItem(pos, it.Slot, it.Item, it.Count); err != nil {
				return fmt.Errorf("load %s: blocks[%d]: %w", sc.WorldID, i, err)
			}
		}
		for tank, fill := range b.Liquids {
			if _, err := w.FillTank(pos, tank, fill.Liquid, fill.Amount); err != nil {
				return fmt.Errorf("load %s: blocks[%d]: %w", sc.WorldID, i, err)
			}
		}
	}
	w.log.Printf("loaded %s: prototypes=%d blocks=%d tiles=%d natives=%d",
		sc.WorldID, len(sc.Prototypes), len(sc.Blocks), w.tiles.Len(), len(w.natives))
	return nil
}

func (w *World) registerPrototype(p scenario.PrototypeSpec) error {
	bid, ok := w.catalogs.Blocks.Index[p.Block]
	if !ok {
		return fmt.Errorf("prototype %s: %w", p.Block, ErrUnknownBlock)
	}
	if w.catalogs.Blocks.Defs[p.Block].Native != "" {
		return fmt.Errorf("prototype %s: block already has a native inventory", p.Block)
	}
	id := int(bid)

	proto := tile.Prototype{
		BlockID:     id,
		Name:        p.Name,
		Slots:       p.Slots,
		MaxStack:    p.MaxStack,
		NewBehavior: w.newBehavior(p),
	}
	for _, t := range p.Tanks {
		for liq := range t.Liquids {
			if !w.catalogs.Liquids.Has(liq) {
				return fmt.Errorf("prototype %s: unknown liquid %q", p.Block, liq)
			}
		}
		proto.Tanks = append(proto.Tanks, tile.TankSpec{Name: t.Name, Limit: t.Limit, Liquids: t.Liquids})
	}
	if p.Liquid != "" {
		if !w.catalogs.Liquids.Has(p.Liquid) {
			return fmt.Errorf("prototype %s: unknown liquid %q", p.Block, p.Liquid)
		}
		w.pumpLiquids[id] = p.Liquid
	}
	if err := w.protos.Register(proto); err != nil {
		return err
	}
	if p.Storage == nil {
		return nil
	}
	d, err := w.descriptor(p.Storage)
	if err != nil {
		return fmt.Errorf("prototype %s: %w", p.Block, err)
	}
	return w.storage.CreateInterface(id, d)
}

func (w *World) descriptor(s *scenario.StorageSpec) (storage.StorageDescriptor, error) {
	d := storage.StorageDescriptor{
		Slots:           s.SlotDefs(),
		LiquidUnitRatio: s.LiquidUnitRatio,
		InputTank:       s.InputTank,
		OutputTank:      s.OutputTank,
	}
	for i, sl := range s.Slots {
		if len(sl.Accept) == 0 {
			continue
		}
		check, err := w.acceptItems(sl.Accept)
		if err != nil {
			return d, fmt.Errorf("slot %s: %w", sl.Name, err)
		}
		d.Slots[i].IsValid = check
	}
	if len(s.AcceptItems) > 0 {
		check, err := w.acceptItems(s.AcceptItems)
		if err != nil {
			return d, err
		}
		d.IsValidInput = check
	}
	if len(s.ReceiveLiquidSides) > 0 {
		d.CanReceiveLiquid = liquidSides(s.ReceiveLiquidSides)
	}
	if len(s.TransportLiquidSides) > 0 {
		d.CanTransportLiquid = liquidSides(s.TransportLiquidSides)
	}
	return d, nil
}

func (w *World) acceptItems(names []string) (storage.ItemCheck, error) {
	ids := map[int]bool{}
	for _, n := range names {
		id, ok := w.catalogs.Items.ItemID(n)
		if !ok {
			return nil, fmt.Errorf("unknown item %q", n)
		}
		ids[id] = true
	}
	return func(item storage.ItemStack, _ storage.Side, _ storage.TileEntity) bool {
		return ids[item.ID]
	}, nil
}

func liquidSides(tags []string) storage.LiquidCheck {
	return func(_ string, side storage.Side) bool {
		for _, t := range tags {
			if storage.SideTag(t).Matches(side) {
				return true
			}
		}
		return false
	}
}

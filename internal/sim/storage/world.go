package storage

// Block is a world block: its id and its data (orientation) value.
type Block struct {
	ID   int
	Data int
}

// World is the host query surface the storage layer needs.
type World interface {
	Block(pos Vec3i) Block
	// NativeContainerAt returns nil when pos has no native inventory.
	NativeContainerAt(pos Vec3i) NativeContainer
	// TileEntityAt returns nil when pos has no tile entity.
	TileEntityAt(pos Vec3i) TileEntity
}

// GetStorage returns the storage at pos, preferring a non-empty native
// inventory over a tile entity with a container. It returns nil when there
// is neither.
func (r *Registry) GetStorage(w World, pos Vec3i) Storage {
	if c := w.NativeContainerAt(pos); c != nil && c.Size() > 0 {
		return r.nativeStorage(c)
	}
	if t := w.TileEntityAt(pos); t != nil && t.Container() != nil {
		return r.TileStorage(t)
	}
	return nil
}

// GetLiquidStorage returns the liquid view of the tile at pos if it has a tank.
func (r *Registry) GetLiquidStorage(w World, pos Vec3i) LiquidStorage {
	if t := w.TileEntityAt(pos); t != nil && t.LiquidTank("") != nil {
		return r.TileStorage(t)
	}
	return nil
}

func (r *Registry) GetNeighbourStorage(w World, pos Vec3i, side Side) Storage {
	if !side.Valid() {
		return nil
	}
	return r.GetStorage(w, Neighbor(pos, side))
}

func (r *Registry) GetNeighbourLiquidStorage(w World, pos Vec3i, side Side) LiquidStorage {
	if !side.Valid() {
		return nil
	}
	return r.GetLiquidStorage(w, Neighbor(pos, side))
}

// GetNearestContainers maps each neighbouring side to the container there.
// side restricts the scan to one side; AnySide scans all six.
func GetNearestContainers(w World, pos Vec3i, side Side) map[Side]Source {
	out := map[Side]Source{}
	for i := SideDown; i <= SideWest; i++ {
		if side != AnySide && i != side {
			continue
		}
		p := Neighbor(pos, i)
		if c := w.NativeContainerAt(p); c != nil && c.Size() > 0 {
			out[i] = FromNative(c)
			continue
		}
		if t := w.TileEntityAt(p); t != nil && t.Container() != nil {
			out[i] = FromContainer(t.Container())
		}
	}
	return out
}

// GetNearestLiquidStorages is GetNearestContainers for liquid storages.
func (r *Registry) GetNearestLiquidStorages(w World, pos Vec3i, side Side) map[Side]LiquidStorage {
	out := map[Side]LiquidStorage{}
	for i := SideDown; i <= SideWest; i++ {
		if side != AnySide && i != side {
			continue
		}
		if s := r.GetNeighbourLiquidStorage(w, pos, i); s != nil {
			out[i] = s
		}
	}
	return out
}

// GetContainerSlots lists every slot of the storage behind src.
func (r *Registry) GetContainerSlots(src Source) []SlotID {
	switch src.kind {
	case sourceNative:
		return r.nativeStorage(src.native).allSlots()
	case sourceTile, sourceContainer:
		if s, ok := r.NewStorage(src).(*TileStorage); ok {
			return s.containerSlots()
		}
	}
	return nil
}

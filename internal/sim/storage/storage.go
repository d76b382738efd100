package storage

import "voxelstore.ai/internal/sim/liquid"

// Storage is the uniform view over native containers and tile entities.
type Storage interface {
	GetSlot(id SlotID) ItemStack
	SetSlot(id SlotID, stack ItemStack)
	// GetInputSlots lists slots that accept items from side, in insertion order.
	GetInputSlots(side Side) []SlotID
	// GetOutputSlots lists slots that may be extracted from side, in extraction order.
	GetOutputSlots(side Side) []SlotID
	// AddItem inserts up to maxCount items from item, decrementing item.Count,
	// and returns the number inserted.
	AddItem(item *ItemStack, side Side, maxCount int) int
}

// LiquidStorage is implemented by tile-backed storages only.
type LiquidStorage interface {
	GetLiquidStored(compartment string) string
	CanTransportLiquid(liquid string, side Side) bool
	CanReceiveLiquid(liquid string, side Side) bool
	// GetLiquid withdraws up to amount and returns what was withdrawn.
	// A negative amount returns liquid to the storage.
	GetLiquid(liquid string, amount float64) float64
	// AddLiquid deposits up to amount and returns what was accepted.
	AddLiquid(liquid string, amount float64) float64
}

// Compartment names used by the liquid engine.
const (
	CompartmentInput  = "input"
	CompartmentOutput = "output"
)

// TileEntity is the host's block entity as seen by the storage layer.
type TileEntity interface {
	Pos() Vec3i
	BlockID() int
	// Container may return nil for tiles without item slots.
	Container() *ItemContainer
	// LiquidTank may return nil for tiles without liquid storage.
	LiquidTank(name string) *liquid.Tank
}

// NativeContainer is a host-implemented fixed-slot inventory.
type NativeContainer interface {
	Kind() string
	Size() int
	Slot(i int) ItemStack
	SetSlot(i int, stack ItemStack)
}

type sourceKind uint8

const (
	sourceNone sourceKind = iota
	sourceNative
	sourceTile
	sourceContainer
)

// Source names the backing object a Storage is built from.
type Source struct {
	kind      sourceKind
	native    NativeContainer
	tile      TileEntity
	container *ItemContainer
}

func FromNative(c NativeContainer) Source {
	if c == nil {
		return Source{}
	}
	return Source{kind: sourceNative, native: c}
}

func FromTile(t TileEntity) Source {
	if t == nil {
		return Source{}
	}
	return Source{kind: sourceTile, tile: t}
}

// FromContainer resolves to the container's parent tile.
func FromContainer(c *ItemContainer) Source {
	if c == nil {
		return Source{}
	}
	return Source{kind: sourceContainer, container: c}
}

func (s Source) IsZero() bool { return s.kind == sourceNone }

// NewStorage builds a fresh handle for src, or nil when src resolves to
// nothing (empty source, container without parent tile).
func (r *Registry) NewStorage(src Source) Storage {
	switch src.kind {
	case sourceNative:
		return r.nativeStorage(src.native)
	case sourceTile:
		return r.TileStorage(src.tile)
	case sourceContainer:
		if p := src.container.Parent(); p != nil {
			return r.TileStorage(p)
		}
	}
	return nil
}

// AsLiquidStorage upgrades a tile (or container with a parent tile) to its
// liquid view. Native containers never hold liquids and yield nil.
func (r *Registry) AsLiquidStorage(src Source) LiquidStorage {
	switch src.kind {
	case sourceTile:
		return r.TileStorage(src.tile)
	case sourceContainer:
		if p := src.container.Parent(); p != nil {
			return r.TileStorage(p)
		}
	}
	return nil
}

// LiquidStorageOf is AsLiquidStorage for a tile entity.
func (r *Registry) LiquidStorageOf(t TileEntity) LiquidStorage {
	if t == nil {
		return nil
	}
	return r.TileStorage(t)
}

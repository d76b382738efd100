package world

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"sync/atomic"

	"voxelstore.ai/internal/sim/catalogs"
	"voxelstore.ai/internal/sim/storage"
	"voxelstore.ai/internal/sim/tile"
)

var ErrUnknownBlock = errors.New("world: unknown block")

// World is a single-threaded block world hosting native inventories and tile
// entities. All state must be accessed only from the world loop goroutine.
type World struct {
	cfg      WorldConfig
	catalogs *catalogs.Catalogs
	log      *log.Logger

	tick atomic.Uint64

	chunks  *ChunkStore
	natives map[storage.Vec3i]*NativeInventory
	protos  *tile.Registry
	tiles   *tile.Session
	storage *storage.Registry

	hopperID uint16
	// liquids produced by pump tiles, keyed by block id.
	pumpLiquids map[int]string

	sinks          []AuditSink
	auditsThisTick int
	tickLogger     TickLogger

	submit chan func(w *World)
	stop   chan struct{}
}

func New(cfg WorldConfig, cats *catalogs.Catalogs, logger *log.Logger) (*World, error) {
	cfg.applyDefaults()
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	hopper, ok := cats.Blocks.Index[cfg.HopperBlock]
	if !ok {
		return nil, fmt.Errorf("missing hopper block in palette: %s: %w", cfg.HopperBlock, ErrUnknownBlock)
	}
	w := &World{
		cfg:      cfg,
		catalogs: cats,
		log:      logger,
		chunks:   NewChunkStore(cats.Blocks.Index[catalogs.AirBlock]),
		natives:  map[storage.Vec3i]*NativeInventory{},
		hopperID: hopper,
		submit:   make(chan func(w *World), 64),
		stop:     make(chan struct{}),
	}
	w.protos = tile.NewRegistry()
	w.tiles = tile.NewSession(w.protos)
	w.pumpLiquids = map[int]string{}
	w.storage = w.newStorageRegistry()
	return w, nil
}

func (w *World) newStorageRegistry() *storage.Registry {
	return storage.NewRegistry(storage.Config{
		HopperBlockID:       int(w.hopperID),
		HopperPeriodTicks:   uint64(w.cfg.HopperPeriodTicks),
		HopperTransferCount: w.cfg.HopperTransferCount,
	}, &w.catalogs.Items, w.protos, w.log)
}

func (w *World) ID() string { return w.cfg.ID }

func (w *World) TickRateHz() int { return w.cfg.TickRateHz }

func (w *World) CurrentTick() uint64 { return w.tick.Load() }

func (w *World) Catalogs() *catalogs.Catalogs { return w.catalogs }

// Storage exposes the storage registry for callers driving transfers directly.
func (w *World) Storage() *storage.Registry { return w.storage }

func (w *World) Tiles() *tile.Session { return w.tiles }

// Block implements storage.World.
func (w *World) Block(pos storage.Vec3i) storage.Block {
	id, data := w.chunks.GetBlock(pos)
	return storage.Block{ID: int(id), Data: int(data)}
}

// NativeContainerAt implements storage.World.
func (w *World) NativeContainerAt(pos storage.Vec3i) storage.NativeContainer {
	if n := w.natives[pos]; n != nil {
		return n
	}
	return nil
}

// TileEntityAt implements storage.World.
func (w *World) TileEntityAt(pos storage.Vec3i) storage.TileEntity {
	if e := w.tiles.At(pos); e != nil {
		return e
	}
	return nil
}

func (w *World) NativeAt(pos storage.Vec3i) *NativeInventory { return w.natives[pos] }

func (w *World) TileAt(pos storage.Vec3i) *tile.Entity { return w.tiles.At(pos) }

// PlaceBlock sets the block at pos, replacing whatever was there. Blocks with
// a native inventory get an empty one; blocks with a tile prototype get a new
// tile entity.
func (w *World) PlaceBlock(pos storage.Vec3i, name string, data int) error {
	id, ok := w.catalogs.Blocks.Index[name]
	if !ok {
		return fmt.Errorf("place %s at %v: %w", name, pos.ToArray(), ErrUnknownBlock)
	}
	if data < 0 || data > 15 {
		return fmt.Errorf("place %s at %v: data %d out of range", name, pos.ToArray(), data)
	}
	w.RemoveBlock(pos)
	w.chunks.SetBlock(pos, id, uint8(data))

	def := w.catalogs.Blocks.Defs[name]
	if def.Native != "" {
		w.natives[pos] = NewNativeInventory(def.Native, def.Slots)
		return nil
	}
	if w.protos.HasPrototype(int(id)) {
		e, err := w.tiles.Create(int(id), pos)
		if err != nil {
			return err
		}
		w.storage.TileAdded(e)
	}
	return nil
}

// RemoveBlock clears pos to air, dropping its inventory and destroying its
// tile entity.
func (w *World) RemoveBlock(pos storage.Vec3i) {
	delete(w.natives, pos)
	w.tiles.Destroy(pos)
	w.chunks.SetBlock(pos, w.chunks.air, 0)
}

// SetItem fills slot of the storage at pos: a slot index for native
// inventories and a slot name for tiles.
func (w *World) SetItem(pos storage.Vec3i, slot, item string, count int) error {
	id, ok := w.catalogs.Items.ItemID(item)
	if !ok {
		return fmt.Errorf("unknown item %q", item)
	}
	stack := storage.ItemStack{ID: id, Count: count}
	if n := w.natives[pos]; n != nil {
		i, err := strconv.Atoi(slot)
		if err != nil || i < 0 || i >= n.Size() {
			return fmt.Errorf("native slot %q out of range at %v", slot, pos.ToArray())
		}
		n.SetSlot(i, stack)
		return nil
	}
	if e := w.tiles.At(pos); e != nil {
		if !e.Container().HasSlot(slot) {
			return fmt.Errorf("tile at %v has no slot %q", pos.ToArray(), slot)
		}
		e.Container().SetSlot(slot, stack)
		return nil
	}
	return fmt.Errorf("no storage at %v", pos.ToArray())
}

// FillTank adds liquid to the named tank of the tile at pos and returns the
// amount accepted.
func (w *World) FillTank(pos storage.Vec3i, tank, liquid string, amount float64) (float64, error) {
	e := w.tiles.At(pos)
	if e == nil {
		return 0, fmt.Errorf("no tile at %v", pos.ToArray())
	}
	tk := e.LiquidTank(tank)
	if tk == nil {
		return 0, fmt.Errorf("tile at %v has no tank %q", pos.ToArray(), tank)
	}
	return tk.Add(liquid, amount), nil
}

func (w *World) itemName(id int) string { return w.catalogs.Items.ItemName(id) }

package storage

import (
	"errors"
	"fmt"
	"io"
	"log"
)

var ErrUnknownBlockType = errors.New("storage: no tile entity prototype for block id")

// PrototypeLookup tells the registry which block ids have tile entities.
type PrototypeLookup interface {
	HasPrototype(blockID int) bool
}

type Config struct {
	// HopperBlockID is the block id treated as a hopper by CheckHoppers.
	HopperBlockID int
	// HopperPeriodTicks throttles CheckHoppers; 0 means 8.
	HopperPeriodTicks uint64
	// HopperTransferCount bounds each hopper move; 0 means 1.
	HopperTransferCount int
}

func (c Config) withDefaults() Config {
	if c.HopperPeriodTicks == 0 {
		c.HopperPeriodTicks = 8
	}
	if c.HopperTransferCount <= 0 {
		c.HopperTransferCount = 1
	}
	return c
}

// Registry owns the storage descriptors of a world and builds Storage handles.
// Like the world loop, it is not safe for concurrent use.
type Registry struct {
	cfg    Config
	items  StackSizer
	protos PrototypeLookup
	log    *log.Logger

	data map[int]*StorageDescriptor
}

func NewRegistry(cfg Config, items StackSizer, protos PrototypeLookup, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Registry{
		cfg:    cfg.withDefaults(),
		items:  items,
		protos: protos,
		log:    logger,
		data:   map[int]*StorageDescriptor{},
	}
}

func (r *Registry) Config() Config { return r.cfg }

// CreateInterface registers d for block id. Slot ranges are expanded once
// here. Unknown block ids are logged and dropped.
func (r *Registry) CreateInterface(id int, d StorageDescriptor) error {
	if r.protos == nil || !r.protos.HasPrototype(id) {
		r.log.Printf("ERROR storage: failed to create storage interface: cannot find tile entity prototype for id %d", id)
		return fmt.Errorf("%w %d", ErrUnknownBlockType, id)
	}
	slots, err := ExpandSlotRanges(d.Slots)
	if err != nil {
		r.log.Printf("ERROR storage: failed to create storage interface for id %d: %v", id, err)
		return err
	}
	for _, s := range slots {
		if !s.Side.Valid() {
			r.log.Printf("ERROR storage: failed to create storage interface for id %d: slot %q has side %q", id, s.Name, s.Side)
			return fmt.Errorf("storage: slot %q: unknown side tag %q", s.Name, s.Side)
		}
	}
	d.Slots = slots
	r.data[id] = &d
	return nil
}

func (r *Registry) Descriptor(id int) (*StorageDescriptor, bool) {
	d, ok := r.data[id]
	return d, ok
}

func (r *Registry) MaxStack(id int) int { return maxStackOf(r.items, id) }

// TileAdded prepares a newly placed tile: the container's parent is set to
// the tile and descriptor slot caps become max-stack policies.
func (r *Registry) TileAdded(t TileEntity) {
	c := t.Container()
	if c == nil {
		return
	}
	c.SetParent(t)
	d, ok := r.data[t.BlockID()]
	if !ok {
		return
	}
	for _, s := range d.Slots {
		if s.MaxStack > 0 {
			SetSlotMaxStackPolicy(c, s.Name, s.MaxStack)
		}
	}
}

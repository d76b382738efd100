package tile

import (
	"voxelstore.ai/internal/sim/liquid"
	"voxelstore.ai/internal/sim/storage"
)

// Entity is a placed tile entity. It satisfies storage.TileEntity.
type Entity struct {
	proto     *Prototype
	pos       storage.Vec3i
	container *storage.ItemContainer
	tanks     map[string]*liquid.Tank
	tankOrder []string
	behavior  Behavior

	// State is free-form per-entity data owned by the behavior.
	State map[string]any
}

// NewEntity builds an entity from p at pos. The container's parent is set to
// the new entity so storages built from the container resolve back to it.
func NewEntity(p *Prototype, pos storage.Vec3i) *Entity {
	e := &Entity{
		proto:     p,
		pos:       pos,
		container: storage.NewItemContainer(p.Slots...),
		tanks:     map[string]*liquid.Tank{},
		State:     map[string]any{},
	}
	e.container.SetParent(e)
	for slot, n := range p.MaxStack {
		storage.SetSlotMaxStackPolicy(e.container, slot, n)
	}
	for _, ts := range p.Tanks {
		var tk *liquid.Tank
		if len(ts.Liquids) > 0 {
			tk = liquid.NewTankFor(ts.Liquids)
		} else {
			tk = liquid.NewTank(ts.Limit)
		}
		e.tanks[ts.Name] = tk
		e.tankOrder = append(e.tankOrder, ts.Name)
	}
	if p.NewBehavior != nil {
		e.behavior = p.NewBehavior()
	}
	if e.behavior == nil {
		e.behavior = NopBehavior{}
	}
	return e
}

func (e *Entity) Pos() storage.Vec3i                { return e.pos }
func (e *Entity) BlockID() int                      { return e.proto.BlockID }
func (e *Entity) Prototype() *Prototype             { return e.proto }
func (e *Entity) Container() *storage.ItemContainer { return e.container }

// LiquidTank returns the named tank, falling back to the first declared tank
// for unknown names. It returns nil when the entity has no tanks.
func (e *Entity) LiquidTank(name string) *liquid.Tank {
	if tk, ok := e.tanks[name]; ok {
		return tk
	}
	if len(e.tankOrder) == 0 {
		return nil
	}
	return e.tanks[e.tankOrder[0]]
}

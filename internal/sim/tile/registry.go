package tile

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNoPrototype = errors.New("tile: no prototype for block id")
	ErrOccupied    = errors.New("tile: position already has a tile entity")
)

// TankSpec describes one liquid tank of a prototype. With Liquids set the tank
// only takes those liquids, each up to its own limit; otherwise it takes any
// single liquid up to Limit.
type TankSpec struct {
	Name    string
	Limit   float64
	Liquids map[string]float64
}

// Prototype is the template tile entities of one block id are built from.
type Prototype struct {
	BlockID int
	Name    string
	Slots   []string
	Tanks   []TankSpec
	// MaxStack caps individual slots below the item stack size.
	MaxStack map[string]int
	// NewBehavior may be nil for passive tiles.
	NewBehavior func() Behavior
}

// IsMachine reports whether entities of p do anything on their own.
func (p *Prototype) IsMachine() bool { return p.NewBehavior != nil }

// Registry holds the tile prototypes of a world keyed by block id.
type Registry struct {
	byID map[int]*Prototype
}

func NewRegistry() *Registry {
	return &Registry{byID: map[int]*Prototype{}}
}

// Register adds p, replacing any prototype with the same block id.
func (r *Registry) Register(p Prototype) error {
	if p.BlockID <= 0 {
		return fmt.Errorf("tile prototype %q: block id %d must be positive", p.Name, p.BlockID)
	}
	seen := map[string]bool{}
	for _, s := range p.Slots {
		if s == "" || seen[s] {
			return fmt.Errorf("tile prototype %q: empty or duplicate slot %q", p.Name, s)
		}
		seen[s] = true
	}
	cp := p
	cp.Slots = append([]string(nil), p.Slots...)
	cp.Tanks = append([]TankSpec(nil), p.Tanks...)
	r.byID[p.BlockID] = &cp
	return nil
}

func (r *Registry) Prototype(blockID int) (*Prototype, bool) {
	p, ok := r.byID[blockID]
	return p, ok
}

func (r *Registry) HasPrototype(blockID int) bool {
	_, ok := r.byID[blockID]
	return ok
}

// IsMachine reports whether blockID has a prototype with a behavior.
func (r *Registry) IsMachine(blockID int) bool {
	p, ok := r.byID[blockID]
	return ok && p.IsMachine()
}

// BlockIDs lists registered block ids in ascending order.
func (r *Registry) BlockIDs() []int {
	out := make([]int, 0, len(r.byID))
	for id := range r.byID {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Clear drops every prototype.
func (r *Registry) Clear() {
	r.byID = map[int]*Prototype{}
}

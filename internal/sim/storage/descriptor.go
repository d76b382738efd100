package storage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidSlotRange = errors.New("storage: invalid slot range")

// SideTag restricts a slot to some sides of its block.
type SideTag string

const (
	SideTagAny        SideTag = ""
	SideTagUp         SideTag = "up"
	SideTagDown       SideTag = "down"
	SideTagHorizontal SideTag = "horizontal"
	SideTagVertical   SideTag = "vertical"
	SideTagNorth      SideTag = "north"
	SideTagSouth      SideTag = "south"
	SideTagEast       SideTag = "east"
	SideTagWest       SideTag = "west"
)

// Matches reports whether side is allowed by the tag. AnySide matches every tag.
func (t SideTag) Matches(side Side) bool {
	if side == AnySide {
		return true
	}
	if !side.Valid() {
		return false
	}
	if t == SideTagAny {
		return true
	}
	switch t {
	case SideTagHorizontal:
		return side > SideUp
	case SideTagVertical:
		return side <= SideUp
	}
	s, ok := ParseSide(string(t))
	return ok && s == side
}

func (t SideTag) Valid() bool {
	switch t {
	case SideTagAny, SideTagHorizontal, SideTagVertical:
		return true
	}
	_, ok := ParseSide(string(t))
	return ok
}

// ItemCheck inspects a stack offered to or taken from a tile slot.
type ItemCheck func(item ItemStack, side Side, tile TileEntity) bool

type SlotDef struct {
	Name   string
	Input  bool
	Output bool
	Side   SideTag
	// MaxStack > 0 installs a max-stack policy on the tile's container.
	MaxStack  int
	IsValid   ItemCheck
	CanOutput ItemCheck
}

// LiquidCheck answers a liquid capability question for one side.
type LiquidCheck func(liquid string, side Side) bool

// StorageDescriptor declares how a tile block type exposes its storage.
type StorageDescriptor struct {
	Slots []SlotDef

	// LiquidUnitRatio converts tank units to transfer units. Zero means 1.
	LiquidUnitRatio float64

	IsValidInput       ItemCheck
	CanReceiveLiquid   LiquidCheck
	CanTransportLiquid LiquidCheck

	// Tank compartment names; empty means the tile's default tank.
	InputTank  string
	OutputTank string
}

// Slot returns the declaration for name.
func (d *StorageDescriptor) Slot(name string) (SlotDef, bool) {
	for _, s := range d.Slots {
		if s.Name == name {
			return s, true
		}
	}
	return SlotDef{}, false
}

func (d *StorageDescriptor) unitRatio() float64 {
	if d == nil || d.LiquidUnitRatio <= 0 {
		return 1
	}
	return d.LiquidUnitRatio
}

// ExpandSlotRanges replaces every "name^A-B" slot with nameA..nameB in place.
func ExpandSlotRanges(slots []SlotDef) ([]SlotDef, error) {
	out := make([]SlotDef, 0, len(slots))
	for _, s := range slots {
		prefix, from, to, ok, err := parseSlotRange(s.Name)
		if err != nil {
			return nil, err
		}
		if !ok {
			out = append(out, s)
			continue
		}
		for i := from; i <= to; i++ {
			c := s
			c.Name = prefix + strconv.Itoa(i)
			out = append(out, c)
		}
	}
	return out, nil
}

func parseSlotRange(name string) (prefix string, from, to int, ok bool, err error) {
	prefix, rng, found := strings.Cut(name, "^")
	if !found {
		return name, 0, 0, false, nil
	}
	a, b, found := strings.Cut(rng, "-")
	if !found {
		return "", 0, 0, false, fmt.Errorf("%w: %q", ErrInvalidSlotRange, name)
	}
	from, errA := strconv.Atoi(a)
	to, errB := strconv.Atoi(b)
	if errA != nil || errB != nil || from < 0 || from > to {
		return "", 0, 0, false, fmt.Errorf("%w: %q", ErrInvalidSlotRange, name)
	}
	return prefix, from, to, true, nil
}

package scenario

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"voxelstore.ai/internal/sim/storage"
)

// Behavior names a built-in tile behavior the world knows how to build.
const (
	BehaviorHoppers = "hoppers"
	BehaviorEjector = "ejector"
	BehaviorPump    = "pump"
)

var knownBehaviors = map[string]bool{
	BehaviorHoppers: true,
	BehaviorEjector: true,
	BehaviorPump:    true,
}

// Scenario is a world layout: tile prototypes with their storage
// declarations, and the blocks placed at load time.
type Scenario struct {
	WorldID    string          `yaml:"world_id"`
	Prototypes []PrototypeSpec `yaml:"prototypes"`
	Blocks     []BlockSpec     `yaml:"blocks"`
}

type PrototypeSpec struct {
	Block string `yaml:"block"`
	Name  string `yaml:"name"`
	// Slots may use the "name^A-B" range form.
	Slots     []string       `yaml:"slots"`
	MaxStack  map[string]int `yaml:"max_stack,omitempty"`
	Tanks     []TankSpec     `yaml:"tanks,omitempty"`
	Behaviors []string       `yaml:"behaviors,omitempty"`
	// Liquid is what a pump produces.
	Liquid  string       `yaml:"liquid,omitempty"`
	Storage *StorageSpec `yaml:"storage,omitempty"`
}

type TankSpec struct {
	Name    string             `yaml:"name"`
	Limit   float64            `yaml:"limit"`
	Liquids map[string]float64 `yaml:"liquids,omitempty"`
}

type StorageSpec struct {
	Slots           []SlotSpec `yaml:"slots"`
	LiquidUnitRatio float64    `yaml:"liquid_unit_ratio,omitempty"`
	InputTank       string     `yaml:"input_tank,omitempty"`
	OutputTank      string     `yaml:"output_tank,omitempty"`
	// AcceptItems limits every insertion into the tile to these items.
	AcceptItems []string `yaml:"accept_items,omitempty"`
	// Side tags liquids may enter and leave through. Empty means any side.
	ReceiveLiquidSides   []string `yaml:"receive_liquid_sides,omitempty"`
	TransportLiquidSides []string `yaml:"transport_liquid_sides,omitempty"`
}

type SlotSpec struct {
	Name     string   `yaml:"name"`
	Input    bool     `yaml:"input"`
	Output   bool     `yaml:"output"`
	Side     string   `yaml:"side,omitempty"`
	MaxStack int      `yaml:"max_stack,omitempty"`
	Accept   []string `yaml:"accept,omitempty"`
}

type BlockSpec struct {
	Block string `yaml:"block"`
	Pos   [3]int `yaml:"pos"`
	// Data is the orientation value (hoppers: the side they point to).
	Data  int        `yaml:"data,omitempty"`
	Items []ItemSpec `yaml:"items,omitempty"`
	// Liquids pre-fills tile tanks, keyed by tank name.
	Liquids map[string]LiquidFill `yaml:"liquids,omitempty"`
}

type ItemSpec struct {
	// Slot is a slot index for native inventories and a slot name for tiles.
	Slot  string `yaml:"slot"`
	Item  string `yaml:"item"`
	Count int    `yaml:"count"`
}

type LiquidFill struct {
	Liquid string  `yaml:"liquid"`
	Amount float64 `yaml:"amount"`
}

func Load(path string) (Scenario, error) {
	sc := defaults()
	if strings.TrimSpace(path) == "" {
		return sc, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return sc, err
	}
	if err := yaml.Unmarshal(b, &sc); err != nil {
		return sc, fmt.Errorf("scenario.yaml: %w", err)
	}
	if err := sc.Normalize(); err != nil {
		return sc, fmt.Errorf("scenario.yaml: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return sc, fmt.Errorf("scenario.yaml: %w", err)
	}
	return sc, nil
}

func defaults() Scenario {
	return Scenario{WorldID: "WORLD"}
}

// Normalize upper-cases block and item names, fills prototype names and
// expands slot ranges.
func (s *Scenario) Normalize() error {
	if s == nil {
		return nil
	}
	s.WorldID = strings.TrimSpace(s.WorldID)
	for i := range s.Prototypes {
		p := &s.Prototypes[i]
		p.Block = upper(p.Block)
		p.Liquid = upper(p.Liquid)
		if strings.TrimSpace(p.Name) == "" {
			p.Name = strings.ToLower(p.Block)
		}
		slots, err := expandNames(p.Slots)
		if err != nil {
			return fmt.Errorf("prototype %s: %w", p.Block, err)
		}
		p.Slots = slots
		for j := range p.Tanks {
			p.Tanks[j].Liquids = upperKeys(p.Tanks[j].Liquids)
		}
		if p.Storage != nil {
			for j := range p.Storage.AcceptItems {
				p.Storage.AcceptItems[j] = upper(p.Storage.AcceptItems[j])
			}
			for j := range p.Storage.Slots {
				sl := &p.Storage.Slots[j]
				sl.Side = strings.ToLower(strings.TrimSpace(sl.Side))
				for k := range sl.Accept {
					sl.Accept[k] = upper(sl.Accept[k])
				}
			}
		}
	}
	for i := range s.Blocks {
		b := &s.Blocks[i]
		b.Block = upper(b.Block)
		for j := range b.Items {
			b.Items[j].Item = upper(b.Items[j].Item)
		}
		for name, fill := range b.Liquids {
			fill.Liquid = upper(fill.Liquid)
			b.Liquids[name] = fill
		}
	}
	return nil
}

func (s Scenario) Validate() error {
	if s.WorldID == "" {
		return fmt.Errorf("world_id must not be empty")
	}
	protos := map[string]PrototypeSpec{}
	for _, p := range s.Prototypes {
		if p.Block == "" {
			return fmt.Errorf("prototype block must not be empty")
		}
		if _, dup := protos[p.Block]; dup {
			return fmt.Errorf("duplicate prototype block: %s", p.Block)
		}
		protos[p.Block] = p
		if err := p.validate(); err != nil {
			return fmt.Errorf("prototype %s: %w", p.Block, err)
		}
	}

	seen := map[[3]int]bool{}
	for i, b := range s.Blocks {
		if b.Block == "" {
			return fmt.Errorf("blocks[%d] block must not be empty", i)
		}
		if seen[b.Pos] {
			return fmt.Errorf("blocks[%d] duplicate position %v", i, b.Pos)
		}
		seen[b.Pos] = true
		if b.Data < 0 || b.Data > 15 {
			return fmt.Errorf("blocks[%d] data must be in [0, 15]", i)
		}
		for j, it := range b.Items {
			if it.Item == "" || it.Count <= 0 {
				return fmt.Errorf("blocks[%d] items[%d] needs item and a positive count", i, j)
			}
		}
		p, isTile := protos[b.Block]
		for name, fill := range b.Liquids {
			if !isTile {
				return fmt.Errorf("blocks[%d] liquids on non-tile block %s", i, b.Block)
			}
			if !p.hasTank(name) {
				return fmt.Errorf("blocks[%d] unknown tank %q", i, name)
			}
			if fill.Liquid == "" || fill.Amount <= 0 {
				return fmt.Errorf("blocks[%d] tank %q needs liquid and a positive amount", i, name)
			}
		}
	}
	return nil
}

func (p PrototypeSpec) validate() error {
	slots := map[string]bool{}
	for _, name := range p.Slots {
		if name == "" || slots[name] {
			return fmt.Errorf("empty or duplicate slot %q", name)
		}
		slots[name] = true
	}
	for name, n := range p.MaxStack {
		if !slots[name] {
			return fmt.Errorf("max_stack for unknown slot %q", name)
		}
		if n <= 0 {
			return fmt.Errorf("max_stack for slot %q must be > 0", name)
		}
	}
	tanks := map[string]bool{}
	for _, t := range p.Tanks {
		if tanks[t.Name] {
			return fmt.Errorf("duplicate tank %q", t.Name)
		}
		tanks[t.Name] = true
		if t.Limit <= 0 && len(t.Liquids) == 0 {
			return fmt.Errorf("tank %q needs a limit or liquids", t.Name)
		}
	}
	for _, b := range p.Behaviors {
		if !knownBehaviors[b] {
			return fmt.Errorf("unknown behavior %q", b)
		}
		if b == BehaviorPump && (p.Liquid == "" || len(p.Tanks) == 0) {
			return fmt.Errorf("pump needs a liquid and a tank")
		}
	}
	if p.Storage == nil {
		return nil
	}
	defs, err := storage.ExpandSlotRanges(p.Storage.SlotDefs())
	if err != nil {
		return err
	}
	for _, d := range defs {
		if !slots[d.Name] {
			return fmt.Errorf("storage slot %q is not a prototype slot", d.Name)
		}
		if !d.Side.Valid() {
			return fmt.Errorf("storage slot %q: unknown side %q", d.Name, d.Side)
		}
	}
	for _, side := range append(append([]string(nil), p.Storage.ReceiveLiquidSides...), p.Storage.TransportLiquidSides...) {
		if !storage.SideTag(side).Valid() {
			return fmt.Errorf("unknown liquid side %q", side)
		}
	}
	for _, name := range []string{p.Storage.InputTank, p.Storage.OutputTank} {
		if name != "" && !tanks[name] {
			return fmt.Errorf("unknown tank %q", name)
		}
	}
	if p.Storage.LiquidUnitRatio < 0 {
		return fmt.Errorf("liquid_unit_ratio must be >= 0")
	}
	return nil
}

func (p PrototypeSpec) hasTank(name string) bool {
	for _, t := range p.Tanks {
		if t.Name == name {
			return true
		}
	}
	return false
}

// SlotDefs converts the declaration to storage slot definitions without the
// item checks, which need the item catalog.
func (s *StorageSpec) SlotDefs() []storage.SlotDef {
	out := make([]storage.SlotDef, 0, len(s.Slots))
	for _, sl := range s.Slots {
		out = append(out, storage.SlotDef{
			Name:     sl.Name,
			Input:    sl.Input,
			Output:   sl.Output,
			Side:     storage.SideTag(sl.Side),
			MaxStack: sl.MaxStack,
		})
	}
	return out
}

func expandNames(names []string) ([]string, error) {
	defs := make([]storage.SlotDef, 0, len(names))
	for _, n := range names {
		defs = append(defs, storage.SlotDef{Name: strings.TrimSpace(n)})
	}
	defs, err := storage.ExpandSlotRanges(defs)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Name)
	}
	return out, nil
}

func upper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

func upperKeys(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[upper(k)] = v
	}
	return out
}

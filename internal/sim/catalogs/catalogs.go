package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type Catalogs struct {
	Blocks  BlockCatalog
	Items   ItemCatalog
	Liquids LiquidCatalog
}

type BlockCatalog struct {
	Palette       []string
	Index         map[string]uint16
	Defs          map[string]BlockDef
	PaletteDigest string
	DefsDigest    string
}

type BlockDef struct {
	ID    string `json:"id"`
	Solid bool   `json:"solid"`
	// Native names the built-in inventory the block carries: "CHEST",
	// "FURNACE" or "HOPPER".
	Native string `json:"native,omitempty"`
	Slots  int    `json:"slots,omitempty"`
}

type ItemCatalog struct {
	// Palette[0] is NONE so that item id 0 stays the empty stack.
	Palette       []string
	Index         map[string]uint16
	Defs          map[string]ItemDef
	PaletteDigest string
	DefsDigest    string
}

type ItemDef struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"` // "BLOCK","MATERIAL","FUEL","TOOL"
	MaxStack int    `json:"max_stack,omitempty"`
}

type LiquidCatalog struct {
	Names  []string
	Defs   map[string]LiquidDef
	Digest string
}

type LiquidDef struct {
	ID          string `json:"id"`
	Temperature int    `json:"temperature"`
	Gaseous     bool   `json:"gaseous,omitempty"`
}

const (
	AirBlock = "AIR"
	NoItem   = "NONE"

	DefaultMaxStack = 64
)

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs

	if err := loadBlocks(filepath.Join(configDir, "blocks.json"), &c.Blocks); err != nil {
		return nil, err
	}
	if err := loadItems(filepath.Join(configDir, "items.json"), &c.Items); err != nil {
		return nil, err
	}
	if err := loadLiquids(filepath.Join(configDir, "liquids.json"), &c.Liquids); err != nil {
		return nil, err
	}
	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadBlocks(path string, out *BlockCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.DefsDigest = sha256Hex(raw)

	var defs []BlockDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("blocks.json: %w", err)
	}
	out.Defs = map[string]BlockDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("blocks.json: empty id")
		}
		if d.Native != "" && d.Slots <= 0 {
			return fmt.Errorf("blocks.json: %s: native inventory needs slots", d.ID)
		}
		out.Defs[d.ID] = d
	}

	ids := sortedKeys(out.Defs)

	// AIR is palette id 0.
	if _, ok := out.Defs[AirBlock]; !ok {
		return fmt.Errorf("blocks.json: missing AIR")
	}
	ids = append([]string{AirBlock}, filterOut(ids, AirBlock)...)

	out.Palette = ids
	out.Index = make(map[string]uint16, len(ids))
	for i, id := range ids {
		out.Index[id] = uint16(i)
	}
	palJSON, _ := json.Marshal(ids)
	out.PaletteDigest = sha256Hex(palJSON)
	return nil
}

func loadItems(path string, out *ItemCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.DefsDigest = sha256Hex(raw)

	var defs []ItemDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("items.json: %w", err)
	}
	out.Defs = map[string]ItemDef{}
	for _, d := range defs {
		if d.ID == "" || d.ID == NoItem {
			return fmt.Errorf("items.json: invalid id %q", d.ID)
		}
		if d.MaxStack < 0 {
			return fmt.Errorf("items.json: %s: negative max_stack", d.ID)
		}
		out.Defs[d.ID] = d
	}

	ids := append([]string{NoItem}, sortedKeys(out.Defs)...)
	out.Palette = ids
	out.Index = make(map[string]uint16, len(ids))
	for i, id := range ids {
		out.Index[id] = uint16(i)
	}
	palJSON, _ := json.Marshal(ids)
	out.PaletteDigest = sha256Hex(palJSON)
	return nil
}

func loadLiquids(path string, out *LiquidCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		// Worlds without liquids may omit the file.
		if os.IsNotExist(err) {
			out.Digest = sha256Hex(nil)
			out.Defs = map[string]LiquidDef{}
			return nil
		}
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []LiquidDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("liquids.json: %w", err)
	}
	out.Defs = map[string]LiquidDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("liquids.json: empty id")
		}
		out.Defs[d.ID] = d
	}
	out.Names = sortedKeys(out.Defs)
	return nil
}

// MaxStack returns the stack size of palette item id, or 0 for unknown ids.
func (c *ItemCatalog) MaxStack(id int) int {
	if id <= 0 || id >= len(c.Palette) {
		return 0
	}
	d, ok := c.Defs[c.Palette[id]]
	if !ok {
		return 0
	}
	if d.MaxStack > 0 {
		return d.MaxStack
	}
	return DefaultMaxStack
}

// ItemID resolves an item name to its palette id.
func (c *ItemCatalog) ItemID(name string) (int, bool) {
	if name == NoItem {
		return 0, false
	}
	id, ok := c.Index[name]
	return int(id), ok
}

// ItemName returns the name of palette id, or "" when out of range.
func (c *ItemCatalog) ItemName(id int) string {
	if id <= 0 || id >= len(c.Palette) {
		return ""
	}
	return c.Palette[id]
}

func (c *BlockCatalog) BlockID(name string) (int, bool) {
	id, ok := c.Index[name]
	return int(id), ok
}

func (c *BlockCatalog) BlockName(id int) string {
	if id < 0 || id >= len(c.Palette) {
		return ""
	}
	return c.Palette[id]
}

func (c *LiquidCatalog) Has(name string) bool {
	_, ok := c.Defs[name]
	return ok
}

func sortedKeys[T any](m map[string]T) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func filterOut(in []string, remove string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == remove {
			continue
		}
		out = append(out, s)
	}
	return out
}

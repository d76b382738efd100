package scenario

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

func scenarioPath() string { return filepath.Join("..", "..", "..", "configs", "scenario.yaml") }

func TestLoad_Default(t *testing.T) {
	sc, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sc.WorldID != "WORLD" || len(sc.Blocks) != 0 {
		t.Fatalf("defaults=%+v", sc)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	sc, err := Load(scenarioPath())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sc.WorldID != "DEMO" {
		t.Fatalf("world_id=%q", sc.WorldID)
	}
	var sorter *PrototypeSpec
	for i := range sc.Prototypes {
		if sc.Prototypes[i].Block == "SORTER" {
			sorter = &sc.Prototypes[i]
		}
	}
	if sorter == nil {
		t.Fatalf("SORTER prototype missing")
	}
	if want := []string{"buf0", "buf1", "buf2", "buf3"}; !reflect.DeepEqual(sorter.Slots, want) {
		t.Fatalf("slots=%v want %v", sorter.Slots, want)
	}
	if sorter.Name != "sorter" {
		t.Fatalf("name=%q want sorter", sorter.Name)
	}
}

func TestNormalize_UppercasesNames(t *testing.T) {
	sc := Scenario{
		WorldID: " w ",
		Prototypes: []PrototypeSpec{{
			Block:   "pump",
			Liquid:  "water",
			Tanks:   []TankSpec{{Name: "main", Liquids: map[string]float64{"water": 10}}},
			Storage: &StorageSpec{AcceptItems: []string{"coal"}, Slots: []SlotSpec{{Name: "a", Side: " UP", Accept: []string{"iron_ore"}}}},
		}},
		Blocks: []BlockSpec{{Block: "chest", Items: []ItemSpec{{Slot: "0", Item: "coal", Count: 1}}}},
	}
	if err := sc.Normalize(); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	p := sc.Prototypes[0]
	if sc.WorldID != "w" || p.Block != "PUMP" || p.Liquid != "WATER" || p.Tanks[0].Liquids["WATER"] != 10 {
		t.Fatalf("prototype=%+v", p)
	}
	if p.Storage.AcceptItems[0] != "COAL" || p.Storage.Slots[0].Side != "up" || p.Storage.Slots[0].Accept[0] != "IRON_ORE" {
		t.Fatalf("storage=%+v", p.Storage)
	}
	if sc.Blocks[0].Block != "CHEST" || sc.Blocks[0].Items[0].Item != "COAL" {
		t.Fatalf("block=%+v", sc.Blocks[0])
	}
}

func TestValidate_Errors(t *testing.T) {
	cases := map[string]string{
		"no world id":          "world_id: \"\"\n",
		"duplicate prototype":  "world_id: W\nprototypes: [{block: A}, {block: a}]\n",
		"bad slot range":       "world_id: W\nprototypes: [{block: A, slots: [\"s^3-1\"]}]\n",
		"duplicate slot":       "world_id: W\nprototypes: [{block: A, slots: [s, s]}]\n",
		"unknown behavior":     "world_id: W\nprototypes: [{block: A, behaviors: [fly]}]\n",
		"pump without tank":    "world_id: W\nprototypes: [{block: A, liquid: WATER, behaviors: [pump]}]\n",
		"storage slot missing": "world_id: W\nprototypes: [{block: A, slots: [a], storage: {slots: [{name: b}]}}]\n",
		"bad side":             "world_id: W\nprototypes: [{block: A, slots: [a], storage: {slots: [{name: a, side: sideways}]}}]\n",
		"unknown tank":         "world_id: W\nprototypes: [{block: A, storage: {input_tank: t}}]\n",
		"max_stack slot":       "world_id: W\nprototypes: [{block: A, slots: [a], max_stack: {b: 1}}]\n",
		"duplicate position":   "world_id: W\nblocks: [{block: A, pos: [1,2,3]}, {block: B, pos: [1,2,3]}]\n",
		"bad data":             "world_id: W\nblocks: [{block: A, pos: [0,0,0], data: 16}]\n",
		"empty item":           "world_id: W\nblocks: [{block: A, pos: [0,0,0], items: [{slot: \"0\", item: X, count: 0}]}]\n",
		"liquid on native":     "world_id: W\nblocks: [{block: A, pos: [0,0,0], liquids: {main: {liquid: WATER, amount: 1}}}]\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), "scenario.yaml")
			if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			_, err := Load(p)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.HasPrefix(err.Error(), "scenario.yaml: ") {
				t.Fatalf("err=%v", err)
			}
		})
	}
}

func TestSchema_ValidatesScenario(t *testing.T) {
	s, err := jsonschema.Compile(filepath.Join("..", "..", "..", "schemas", "scenario.schema.json"))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	raw, err := os.ReadFile(scenarioPath())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var y any
	if err := yaml.Unmarshal(raw, &y); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	// Round-trip through JSON so numbers and maps have their JSON shapes.
	b, err := json.Marshal(y)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := s.Validate(v); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

package storage

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
)

func TestExpandSlotRanges(t *testing.T) {
	got, err := ExpandSlotRanges([]SlotDef{
		{Name: "input", Input: true},
		{Name: "slot^0-3", Output: true, Side: SideTagDown},
		{Name: "fuel"},
	})
	if err != nil {
		t.Fatalf("ExpandSlotRanges: %v", err)
	}
	want := []string{"input", "slot0", "slot1", "slot2", "slot3", "fuel"}
	if len(got) != len(want) {
		t.Fatalf("len=%d want %d (%+v)", len(got), len(want), got)
	}
	for i, s := range got {
		if s.Name != want[i] {
			t.Fatalf("slot[%d]=%q want %q", i, s.Name, want[i])
		}
	}
	if !got[2].Output || got[2].Side != SideTagDown {
		t.Fatalf("expanded slot lost its definition: %+v", got[2])
	}
}

func TestExpandSlotRanges_Malformed(t *testing.T) {
	for _, name := range []string{"slot^", "slot^3", "slot^a-b", "slot^5-2", "slot^-1-2"} {
		if _, err := ExpandSlotRanges([]SlotDef{{Name: name}}); !errors.Is(err, ErrInvalidSlotRange) {
			t.Fatalf("%q: err=%v want ErrInvalidSlotRange", name, err)
		}
	}
}

func TestCreateInterface_UnknownBlockIsLoggedAndDropped(t *testing.T) {
	var buf bytes.Buffer
	reg := NewRegistry(Config{}, testSizer, protoSet{blockMachine: true}, log.New(&buf, "", 0))

	err := reg.CreateInterface(999, StorageDescriptor{Slots: []SlotDef{{Name: "a", Input: true}}})
	if !errors.Is(err, ErrUnknownBlockType) {
		t.Fatalf("err=%v want ErrUnknownBlockType", err)
	}
	if _, ok := reg.Descriptor(999); ok {
		t.Fatalf("descriptor registered for unknown block")
	}
	if !strings.Contains(buf.String(), "ERROR") || !strings.Contains(buf.String(), "999") {
		t.Fatalf("log=%q", buf.String())
	}
}

func TestCreateInterface_ExpandsAndDefaultsSlots(t *testing.T) {
	reg := newTestRegistry()
	if err := reg.CreateInterface(blockMachine, StorageDescriptor{}); err != nil {
		t.Fatalf("CreateInterface: %v", err)
	}
	d, ok := reg.Descriptor(blockMachine)
	if !ok || d.Slots == nil || len(d.Slots) != 0 {
		t.Fatalf("descriptor=%+v ok=%v want empty slot list", d, ok)
	}

	if err := reg.CreateInterface(blockMachine, StorageDescriptor{Slots: []SlotDef{{Name: "s^1-2", Input: true}}}); err != nil {
		t.Fatalf("CreateInterface: %v", err)
	}
	d, _ = reg.Descriptor(blockMachine)
	if len(d.Slots) != 2 || d.Slots[0].Name != "s1" || d.Slots[1].Name != "s2" {
		t.Fatalf("slots=%+v", d.Slots)
	}
}

func TestCreateInterface_RejectsBadSideTag(t *testing.T) {
	reg := newTestRegistry()
	err := reg.CreateInterface(blockMachine, StorageDescriptor{Slots: []SlotDef{{Name: "a", Side: "sideways"}}})
	if err == nil {
		t.Fatalf("expected error for unknown side tag")
	}
	if _, ok := reg.Descriptor(blockMachine); ok {
		t.Fatalf("descriptor registered despite bad side tag")
	}
}

func TestSideTag_Matches(t *testing.T) {
	cases := []struct {
		tag  SideTag
		side Side
		want bool
	}{
		{SideTagAny, SideEast, true},
		{SideTagUp, SideUp, true},
		{SideTagUp, SideDown, false},
		{SideTagHorizontal, SideNorth, true},
		{SideTagHorizontal, SideUp, false},
		{SideTagVertical, SideDown, true},
		{SideTagVertical, SideWest, false},
		{SideTagWest, SideWest, true},
		{SideTagWest, AnySide, true},
		{SideTagHorizontal, Side(6), false},
		{SideTagAny, Side(7), false},
	}
	for _, tc := range cases {
		if got := tc.tag.Matches(tc.side); got != tc.want {
			t.Fatalf("%q.Matches(%v)=%v want %v", tc.tag, tc.side, got, tc.want)
		}
	}
}

func TestTileAdded_InstallsSlotCaps(t *testing.T) {
	reg := newTestRegistry()
	if err := reg.CreateInterface(blockMachine, StorageDescriptor{Slots: []SlotDef{
		{Name: "fuel", Input: true, MaxStack: 8},
		{Name: "out", Output: true},
	}}); err != nil {
		t.Fatalf("CreateInterface: %v", err)
	}
	tile := &fakeTile{pos: Vec3i{}, blockID: blockMachine, container: NewItemContainer("fuel", "out")}
	reg.TileAdded(tile)

	if tile.container.Parent() != TileEntity(tile) {
		t.Fatalf("parent not set")
	}
	item := ItemStack{ID: itemCoal, Count: 20}
	if got := reg.TileStorage(tile).AddItem(&item, SideUp, Unbounded); got != 8 {
		t.Fatalf("AddItem=%d want 8", got)
	}
}

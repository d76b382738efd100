package storage

import "testing"

func TestHopperFacing(t *testing.T) {
	want := map[Side]int{SideUp: 0, SideNorth: 3, SideSouth: 2, SideEast: 5, SideWest: 4}
	for side, data := range want {
		if got := hopperFacing(side); got != data {
			t.Fatalf("hopperFacing(%v)=%d want %d", side, got, data)
		}
	}
}

func hopperWorld(t *testing.T) (*fakeWorld, *fakeTile, map[Side]*fakeNative) {
	t.Helper()
	w := newFakeWorld()
	tile := newFakeTile(Vec3i{X: 5, Y: 5, Z: 5}, blockMachine, "a", "b")
	w.tiles[tile.pos] = tile
	w.blocks[tile.pos] = Block{ID: blockMachine}

	hoppers := map[Side]*fakeNative{}
	place := func(side Side, data int) {
		h := newFakeNative("HOPPER", 5)
		p := Neighbor(tile.pos, side)
		w.natives[p] = h
		w.blocks[p] = Block{ID: blockHopper, Data: data}
		hoppers[side] = h
	}
	place(SideUp, 0)    // pointing down into the tile
	place(SideNorth, 3) // pointing south into the tile
	place(SideEast, 4)  // pointing east, away from the tile
	place(SideDown, 0)
	return w, tile, hoppers
}

func TestCheckHoppers_OnlyOnPeriodTicks(t *testing.T) {
	reg := newTestRegistry()
	w, tile, hoppers := hopperWorld(t)
	hoppers[SideUp].slots[0] = ItemStack{ID: itemIron, Count: 10}

	for tick := uint64(1); tick < 8; tick++ {
		if got := reg.CheckHoppers(w, tile, tick); got != nil {
			t.Fatalf("tick %d: transfers=%+v", tick, got)
		}
	}
	if hoppers[SideUp].slots[0].Count != 10 {
		t.Fatalf("hopper drained off-period: %+v", hoppers[SideUp].slots[0])
	}
	if got := reg.CheckHoppers(w, tile, 16); len(got) == 0 {
		t.Fatalf("no transfer on tick 16")
	}
}

func TestCheckHoppers_FacingHoppersFeedTile(t *testing.T) {
	reg := newTestRegistry()
	w, tile, hoppers := hopperWorld(t)
	hoppers[SideUp].slots[0] = ItemStack{ID: itemIron, Count: 10}
	hoppers[SideNorth].slots[2] = ItemStack{ID: itemIron, Count: 10}
	hoppers[SideEast].slots[0] = ItemStack{ID: itemCoal, Count: 10}

	got := reg.CheckHoppers(w, tile, 0)

	if hoppers[SideUp].slots[0].Count != 9 || hoppers[SideNorth].slots[2].Count != 9 {
		t.Fatalf("facing hoppers not drained by one: up=%+v north=%+v", hoppers[SideUp].slots[0], hoppers[SideNorth].slots[2])
	}
	if hoppers[SideEast].slots[0].Count != 10 {
		t.Fatalf("misaligned hopper fed the tile: %+v", hoppers[SideEast].slots[0])
	}
	// The tile passes one item on to the hopper below in the same pass.
	if tile.container.Count(itemIron) != 1 || hoppers[SideDown].slots[0].Count != 1 {
		t.Fatalf("tile=%d below=%+v", tile.container.Count(itemIron), hoppers[SideDown].slots[0])
	}
	if len(got) != 3 {
		t.Fatalf("transfers=%+v want 3", got)
	}
	if got[0].From != Neighbor(tile.pos, SideUp) || got[0].To != tile.pos || got[0].Count != 1 || got[0].Item != itemIron {
		t.Fatalf("first transfer=%+v", got[0])
	}
	if got[2].To != Neighbor(tile.pos, SideDown) {
		t.Fatalf("last transfer=%+v", got[2])
	}
}

func TestCheckHoppers_TransferCountIsConfigurable(t *testing.T) {
	reg := NewRegistry(Config{HopperBlockID: blockHopper, HopperPeriodTicks: 4, HopperTransferCount: 5}, testSizer, protoSet{}, nil)
	w, tile, hoppers := hopperWorld(t)
	delete(w.natives, Neighbor(tile.pos, SideDown))
	hoppers[SideUp].slots[0] = ItemStack{ID: itemIron, Count: 3}
	hoppers[SideUp].slots[1] = ItemStack{ID: itemIron, Count: 3}

	got := reg.CheckHoppers(w, tile, 4)
	if len(got) != 1 || got[0].Count != 3 {
		t.Fatalf("transfers=%+v want one move of a single stack", got)
	}
	if hoppers[SideUp].slots[1].Count != 3 {
		t.Fatalf("second hopper stack touched: %+v", hoppers[SideUp].slots[1])
	}
}

func TestGetStorage_PrefersNativeInventory(t *testing.T) {
	reg := newTestRegistry()
	w := newFakeWorld()
	pos := Vec3i{X: 1}
	w.natives[pos] = newFakeNative("CHEST", 3)
	w.tiles[pos] = newFakeTile(pos, blockMachine, "a")

	if _, ok := reg.GetStorage(w, pos).(*NativeStorage); !ok {
		t.Fatalf("GetStorage=%T want *NativeStorage", reg.GetStorage(w, pos))
	}
	w.natives[pos] = newFakeNative("CHEST", 0)
	if _, ok := reg.GetStorage(w, pos).(*TileStorage); !ok {
		t.Fatalf("empty native not skipped: %T", reg.GetStorage(w, pos))
	}
	if got := reg.GetStorage(w, Vec3i{X: 9}); got != nil {
		t.Fatalf("GetStorage(empty)=%T want nil", got)
	}
	if got := reg.GetNeighbourStorage(w, Vec3i{}, AnySide); got != nil {
		t.Fatalf("GetNeighbourStorage(AnySide)=%T want nil", got)
	}
}

func TestGetNearestContainers(t *testing.T) {
	reg := newTestRegistry()
	w := newFakeWorld()
	center := Vec3i{}
	w.natives[Neighbor(center, SideUp)] = newFakeNative("CHEST", 2)
	tile := newFakeTile(Neighbor(center, SideWest), blockMachine, "a")
	w.tiles[tile.pos] = tile

	all := GetNearestContainers(w, center, AnySide)
	if len(all) != 2 {
		t.Fatalf("containers=%v want 2", all)
	}
	if got := len(reg.GetContainerSlots(all[SideUp])); got != 2 {
		t.Fatalf("native slots=%d want 2", got)
	}
	if got := reg.GetContainerSlots(all[SideWest]); len(got) != 1 || got[0].Name != "a" {
		t.Fatalf("tile slots=%v", got)
	}

	only := GetNearestContainers(w, center, SideWest)
	if _, ok := only[SideUp]; ok || len(only) != 1 {
		t.Fatalf("side filter ignored: %v", only)
	}

	if got := reg.GetNearestLiquidStorages(w, center, AnySide); len(got) != 0 {
		t.Fatalf("liquid storages=%v want none", got)
	}
}

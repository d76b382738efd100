package storage

import "testing"

func TestExtractItemsFromStorage_BoundedByMaxCount(t *testing.T) {
	reg := newTestRegistry()
	src := newFakeNative("CHEST", 3)
	src.slots[0] = ItemStack{ID: itemIron, Count: 10}
	src.slots[1] = ItemStack{ID: itemCoal, Count: 10}
	src.slots[2] = ItemStack{ID: itemIron, Count: 10}
	dst := newFakeNative("CHEST", 3)

	got := ExtractItemsFromStorage(reg.NewStorage(FromNative(dst)), reg.NewStorage(FromNative(src)), SideUp, 15, false)
	if got != 15 {
		t.Fatalf("moved=%d want 15", got)
	}
	if !emptyStack(src.slots[0]) || src.slots[1].Count != 5 || src.slots[2].Count != 10 {
		t.Fatalf("src=%+v", src.slots)
	}
	if dst.slots[0].Count != 10 || dst.slots[1].Count != 5 {
		t.Fatalf("dst=%+v", dst.slots)
	}
}

func TestExtractItemsFromStorage_OneStack(t *testing.T) {
	reg := newTestRegistry()
	src := newFakeNative("CHEST", 2)
	src.slots[0] = ItemStack{ID: itemIron, Count: 10}
	src.slots[1] = ItemStack{ID: itemCoal, Count: 10}
	dst := newFakeNative("CHEST", 2)

	got := ExtractItemsFromStorage(reg.NewStorage(FromNative(dst)), reg.NewStorage(FromNative(src)), SideUp, Unbounded, true)
	if got != 10 {
		t.Fatalf("moved=%d want 10", got)
	}
	if src.slots[1].Count != 10 || dst.slots[1].Count != 0 {
		t.Fatalf("second stack moved: src=%+v dst=%+v", src.slots, dst.slots)
	}
}

func TestExtractItemsFromStorage_UnboundedMovesEverything(t *testing.T) {
	reg := newTestRegistry()
	src := newFakeNative("CHEST", 3)
	for i := range src.slots {
		src.slots[i] = ItemStack{ID: itemIron, Count: 30}
	}
	dst := newFakeNative("CHEST", 2)

	got := ExtractItemsFromStorage(reg.NewStorage(FromNative(dst)), reg.NewStorage(FromNative(src)), SideUp, Unbounded, false)
	if got != 90 {
		t.Fatalf("moved=%d want 90", got)
	}
	if dst.slots[0].Count != 64 || dst.slots[1].Count != 26 {
		t.Fatalf("dst=%+v", dst.slots)
	}
	for i, s := range src.slots {
		if !emptyStack(s) {
			t.Fatalf("src[%d]=%+v want empty", i, s)
		}
	}
}

func TestExtractItemsFromStorage_UsesOppositeSideForOutput(t *testing.T) {
	reg := newTestRegistry()
	if err := reg.CreateInterface(blockMachine, StorageDescriptor{Slots: []SlotDef{
		{Name: "bottom", Output: true, Side: SideTagDown},
		{Name: "top", Output: true, Side: SideTagUp},
	}}); err != nil {
		t.Fatalf("CreateInterface: %v", err)
	}
	tile := newFakeTile(Vec3i{}, blockMachine, "bottom", "top")
	tile.container.SetSlot("bottom", ItemStack{ID: itemIron, Count: 4})
	tile.container.SetSlot("top", ItemStack{ID: itemCoal, Count: 4})
	dst := newFakeNative("CHEST", 1)

	// The receiver takes items through its up side, so the machine gives from its down side.
	got := reg.ExtractItemsFromContainer(FromNative(dst), FromTile(tile), SideUp, Unbounded, false)
	if got != 4 || dst.slots[0].ID != itemIron {
		t.Fatalf("moved=%d dst=%+v", got, dst.slots)
	}
	if tile.container.GetSlot("top").Count != 4 {
		t.Fatalf("top slot drained")
	}
}

func TestExtractItemsFromStorage_PolicyRejectionMovesNothing(t *testing.T) {
	reg := newTestRegistry()
	src := newFakeNative("CHEST", 1)
	src.slots[0] = ItemStack{ID: itemIron, Count: 10}
	tile := newFakeTile(Vec3i{}, 77, "a")
	SetGlobalValidatePolicy(tile.container, func(name string, id, amount, data int, extra ExtraData, c *ItemContainer, requester int64) bool {
		return false
	})

	if got := reg.ExtractItemsFromContainer(FromTile(tile), FromNative(src), SideUp, Unbounded, false); got != 0 {
		t.Fatalf("moved=%d want 0", got)
	}
	if src.slots[0].Count != 10 {
		t.Fatalf("src=%+v", src.slots[0])
	}
}

func TestExtractItemsFromStorage_NilStorages(t *testing.T) {
	reg := newTestRegistry()
	if got := reg.ExtractItemsFromContainer(Source{}, FromNative(newFakeNative("CHEST", 1)), SideUp, Unbounded, false); got != 0 {
		t.Fatalf("moved=%d", got)
	}
}

func TestPutItems_VisitsSidesInOrderAndReceivesFromOpposite(t *testing.T) {
	reg := newTestRegistry()
	if err := reg.CreateInterface(blockMachine, StorageDescriptor{Slots: []SlotDef{
		{Name: "top", Input: true, Side: SideTagUp},
	}}); err != nil {
		t.Fatalf("CreateInterface: %v", err)
	}
	below := newFakeTile(Vec3i{Y: -1}, blockMachine, "top")
	east := newFakeNative("CHEST", 1)
	west := newFakeNative("CHEST", 1)

	items := []*ItemStack{
		{ID: itemIron, Count: 70},
		{ID: itemCoal, Count: 70},
	}
	reg.PutItems(items, map[Side]Source{
		SideWest: FromNative(west),
		SideEast: FromNative(east),
		SideDown: FromContainer(below.container),
	})

	// The tile below receives through its up side and is visited first.
	if got := below.container.GetSlot("top"); got.ID != itemIron || got.Count != 64 {
		t.Fatalf("below=%+v", got)
	}
	if east.slots[0].ID != itemIron || east.slots[0].Count != 6 {
		t.Fatalf("east=%+v", east.slots[0])
	}
	if west.slots[0].ID != itemCoal || west.slots[0].Count != 64 {
		t.Fatalf("west=%+v", west.slots[0])
	}
	if items[0].Count != 0 || items[0].ID != 0 || items[1].Count != 6 {
		t.Fatalf("items=%+v %+v", *items[0], *items[1])
	}
}

func TestTransfers_RejectInvalidSides(t *testing.T) {
	reg := newTestRegistry()
	src := newFakeNative("CHEST", 1)
	src.slots[0] = ItemStack{ID: itemIron, Count: 10}
	dst := newFakeNative("CHEST", 1)

	for _, side := range []Side{Side(6), Side(7), Side(-2)} {
		if got := ExtractItemsFromStorage(reg.NewStorage(FromNative(dst)), reg.NewStorage(FromNative(src)), side, Unbounded, false); got != 0 {
			t.Fatalf("extract via %d moved %d", side, got)
		}
		item := ItemStack{ID: itemIron, Count: 3}
		if got := reg.PutItemToContainer(&item, FromNative(dst), side, Unbounded); got != 0 {
			t.Fatalf("put via %d moved %d", side, got)
		}
	}

	item := &ItemStack{ID: itemCoal, Count: 4}
	reg.PutItems([]*ItemStack{item}, map[Side]Source{Side(6): FromNative(dst)})
	if item.Count != 4 || !emptyStack(dst.slots[0]) {
		t.Fatalf("item=%+v dst=%+v", *item, dst.slots[0])
	}
	if src.slots[0].Count != 10 {
		t.Fatalf("src=%+v", src.slots[0])
	}

	// AnySide stays accepted.
	if got := ExtractItemsFromStorage(reg.NewStorage(FromNative(dst)), reg.NewStorage(FromNative(src)), AnySide, Unbounded, false); got != 10 {
		t.Fatalf("extract via AnySide moved %d want 10", got)
	}
}

func TestPutItemToContainer(t *testing.T) {
	reg := newTestRegistry()
	chest := newFakeNative("CHEST", 1)
	item := ItemStack{ID: itemIron, Count: 5}
	if got := reg.PutItemToContainer(&item, FromNative(chest), SideUp, 2); got != 2 {
		t.Fatalf("added=%d want 2", got)
	}
	if got := reg.PutItemToContainer(&item, FromContainer(NewItemContainer("a")), SideUp, Unbounded); got != 0 {
		t.Fatalf("orphan container accepted %d", got)
	}
}

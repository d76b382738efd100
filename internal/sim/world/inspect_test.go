package world

import "testing"

func TestInspect_NativeAndTile(t *testing.T) {
	w := newTestWorld(t)
	loadDemo(t, w)

	chest, ok := w.Inspect(v(0, 3, 0))
	if !ok || chest.Kind != "native" || chest.Block != "CHEST" {
		t.Fatalf("chest view=%+v ok=%v", chest, ok)
	}
	if len(chest.Slots) != 27 {
		t.Fatalf("chest slots=%d want 27", len(chest.Slots))
	}
	if s := chest.Slots[0]; s.Slot != "0" || s.Item != "IRON_ORE" || s.Count != 32 {
		t.Fatalf("chest slot 0=%+v", s)
	}
	if s := chest.Slots[2]; s.Item != "" || s.Count != 0 {
		t.Fatalf("chest slot 2 should be empty: %+v", s)
	}

	mac, ok := w.Inspect(v(4, 1, 0))
	if !ok || mac.Kind != "tile" || mac.Block != "MACERATOR" {
		t.Fatalf("macerator view=%+v ok=%v", mac, ok)
	}
	names := make([]string, 0, len(mac.Slots))
	for _, s := range mac.Slots {
		names = append(names, s.Slot)
	}
	if len(names) != 4 || names[0] != "input" || names[3] != "out1" {
		t.Fatalf("macerator slots=%v", names)
	}

	steps(w, 4)
	tank, ok := w.Inspect(v(8, 2, 0))
	if !ok || len(tank.Tanks) != 1 {
		t.Fatalf("tank view=%+v", tank)
	}
	if tk := tank.Tanks[0]; tk.Liquid != "WATER" || tk.Amount != 200 {
		t.Fatalf("tank=%+v want 200 WATER", tk)
	}

	if _, ok := w.Inspect(v(100, 100, 100)); ok {
		t.Fatalf("empty position should not inspect")
	}
}

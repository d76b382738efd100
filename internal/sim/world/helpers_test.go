package world

import (
	"testing"

	"voxelstore.ai/internal/sim/catalogs"
	"voxelstore.ai/internal/sim/scenario"
	"voxelstore.ai/internal/sim/storage"
)

const configDir = "../../../configs"

type memSink struct {
	entries []AuditEntry
}

func (s *memSink) WriteAudit(e AuditEntry) error {
	s.entries = append(s.entries, e)
	return nil
}

func (s *memSink) byAction(action string) []AuditEntry {
	var out []AuditEntry
	for _, e := range s.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

func newTestWorld(t *testing.T) *World {
	t.Helper()
	cats, err := catalogs.Load(configDir)
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	w, err := New(WorldConfig{ID: "test"}, cats, nil)
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	return w
}

func loadDemo(t *testing.T, w *World) {
	t.Helper()
	sc, err := scenario.Load(configDir + "/scenario.yaml")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if err := w.Load(sc); err != nil {
		t.Fatalf("world load: %v", err)
	}
}

func itemID(t *testing.T, w *World, name string) int {
	t.Helper()
	id, ok := w.catalogs.Items.ItemID(name)
	if !ok {
		t.Fatalf("unknown item %s", name)
	}
	return id
}

func place(t *testing.T, w *World, pos storage.Vec3i, block string, data int) {
	t.Helper()
	if err := w.PlaceBlock(pos, block, data); err != nil {
		t.Fatalf("place %s at %v: %v", block, pos, err)
	}
}

func steps(w *World, n int) {
	for i := 0; i < n; i++ {
		w.StepOnce()
	}
}

func v(x, y, z int) storage.Vec3i { return storage.Vec3i{X: x, Y: y, Z: z} }

package tile

import (
	"errors"
	"reflect"
	"testing"

	"voxelstore.ai/internal/sim/storage"
)

const (
	blockChest = 10
	blockPump  = 11
)

type recorder struct {
	calls []string
}

func (r *recorder) behavior() Behavior {
	return BehaviorFuncs{
		OnInit:    func(e *Entity) { r.calls = append(r.calls, "init") },
		OnTick:    func(e *Entity, tick uint64) { r.calls = append(r.calls, "tick") },
		OnDestroy: func(e *Entity) { r.calls = append(r.calls, "destroy") },
	}
}

func newTestSession(t *testing.T, rec *recorder) *Session {
	t.Helper()
	reg := NewRegistry()
	if err := reg.Register(Prototype{BlockID: blockChest, Name: "chest", Slots: []string{"0", "1"}}); err != nil {
		t.Fatalf("register chest: %v", err)
	}
	err := reg.Register(Prototype{
		BlockID:     blockPump,
		Name:        "pump",
		Slots:       []string{"in"},
		Tanks:       []TankSpec{{Name: "main", Limit: 100}, {Name: "oil", Liquids: map[string]float64{"oil": 5}}},
		MaxStack:    map[string]int{"in": 4},
		NewBehavior: rec.behavior,
	})
	if err != nil {
		t.Fatalf("register pump: %v", err)
	}
	return NewSession(reg)
}

func TestRegistry_RejectsBadPrototypes(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Prototype{BlockID: 0, Name: "x"}); err == nil {
		t.Fatalf("expected error for zero block id")
	}
	if err := reg.Register(Prototype{BlockID: 1, Name: "x", Slots: []string{"a", "a"}}); err == nil {
		t.Fatalf("expected error for duplicate slot")
	}
	if reg.HasPrototype(1) {
		t.Fatalf("rejected prototype registered")
	}
}

func TestRegistry_IsMachine(t *testing.T) {
	s := newTestSession(t, &recorder{})
	reg := s.Prototypes()
	if reg.IsMachine(blockChest) || !reg.IsMachine(blockPump) || reg.IsMachine(99) {
		t.Fatalf("IsMachine chest=%v pump=%v unknown=%v", reg.IsMachine(blockChest), reg.IsMachine(blockPump), reg.IsMachine(99))
	}
	if got := reg.BlockIDs(); !reflect.DeepEqual(got, []int{blockChest, blockPump}) {
		t.Fatalf("BlockIDs=%v", got)
	}
}

func TestSession_CreateSetsContainerParent(t *testing.T) {
	s := newTestSession(t, &recorder{})
	pos := storage.Vec3i{X: 1, Y: 2, Z: 3}
	e, err := s.Create(blockChest, pos)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.Container().Parent() != storage.TileEntity(e) {
		t.Fatalf("container parent not set")
	}
	if s.At(pos) != e || e.Pos() != pos || e.BlockID() != blockChest {
		t.Fatalf("entity not indexed at %v", pos)
	}
	if got := e.Container().SlotNames(); !reflect.DeepEqual(got, []string{"0", "1"}) {
		t.Fatalf("slots=%v", got)
	}
	if e.LiquidTank("") != nil {
		t.Fatalf("chest has a tank")
	}
}

func TestSession_CreateErrors(t *testing.T) {
	s := newTestSession(t, &recorder{})
	if _, err := s.Create(99, storage.Vec3i{}); !errors.Is(err, ErrNoPrototype) {
		t.Fatalf("err=%v want ErrNoPrototype", err)
	}
	if _, err := s.Create(blockChest, storage.Vec3i{}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.Create(blockChest, storage.Vec3i{}); !errors.Is(err, ErrOccupied) {
		t.Fatalf("err=%v want ErrOccupied", err)
	}
}

func TestEntity_PrototypeShapesStorage(t *testing.T) {
	s := newTestSession(t, &recorder{})
	e, err := s.Create(blockPump, storage.Vec3i{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := e.Container().Admit("in", storage.ItemStack{ID: 1, Count: 10}, 10, 0); got != 4 {
		t.Fatalf("Admit=%d want 4", got)
	}
	if e.LiquidTank("input") != e.LiquidTank("main") {
		t.Fatalf("unknown tank name does not fall back to the first tank")
	}
	if got := e.LiquidTank("oil").Limit("water"); got != 0 {
		t.Fatalf("oil tank Limit(water)=%v want 0", got)
	}
}

func TestSession_Lifecycle(t *testing.T) {
	rec := &recorder{}
	s := newTestSession(t, rec)
	a := storage.Vec3i{X: 2}
	if _, err := s.Create(blockPump, a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.Create(blockChest, storage.Vec3i{X: 1}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	s.Tick(1)
	if !s.Destroy(a) || s.Destroy(a) {
		t.Fatalf("Destroy should succeed once")
	}
	s.Tick(2)
	if want := []string{"init", "tick", "destroy"}; !reflect.DeepEqual(rec.calls, want) {
		t.Fatalf("calls=%v want %v", rec.calls, want)
	}
}

func TestSession_EachIsPositionOrdered(t *testing.T) {
	s := newTestSession(t, &recorder{})
	for _, p := range []storage.Vec3i{{X: 1, Z: 5}, {X: 0, Y: 3}, {X: 1, Z: -2}, {X: 0, Y: 1}} {
		if _, err := s.Create(blockChest, p); err != nil {
			t.Fatalf("Create %v: %v", p, err)
		}
	}
	var got []storage.Vec3i
	s.Each(func(e *Entity) { got = append(got, e.Pos()) })
	want := []storage.Vec3i{{X: 0, Y: 1}, {X: 0, Y: 3}, {X: 1, Z: -2}, {X: 1, Z: 5}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order=%v want %v", got, want)
	}
}

func TestSession_ResetAndClose(t *testing.T) {
	rec := &recorder{}
	s := newTestSession(t, rec)
	if _, err := s.Create(blockPump, storage.Vec3i{}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	s.Reset()
	if s.Len() != 0 {
		t.Fatalf("Len=%d after Reset", s.Len())
	}

	if _, err := s.Create(blockPump, storage.Vec3i{}); err != nil {
		t.Fatalf("Create after Reset: %v", err)
	}
	s.Close()
	s.Tick(5)
	if want := []string{"init", "init", "destroy"}; !reflect.DeepEqual(rec.calls, want) {
		t.Fatalf("calls=%v want %v", rec.calls, want)
	}
	if s.Len() != 0 {
		t.Fatalf("Len=%d after Close", s.Len())
	}
}

func TestChain(t *testing.T) {
	var calls []string
	c := Chain{
		BehaviorFuncs{OnTick: func(*Entity, uint64) { calls = append(calls, "a") }},
		NopBehavior{},
		BehaviorFuncs{OnTick: func(*Entity, uint64) { calls = append(calls, "b") }},
	}
	c.Init(nil)
	c.Tick(nil, 0)
	c.Destroy(nil)
	if !reflect.DeepEqual(calls, []string{"a", "b"}) {
		t.Fatalf("calls=%v", calls)
	}
}

package storage

import (
	"voxelstore.ai/internal/sim/liquid"
)

type fakeTile struct {
	pos       Vec3i
	blockID   int
	container *ItemContainer
	tanks     map[string]*liquid.Tank
}

func newFakeTile(pos Vec3i, blockID int, slots ...string) *fakeTile {
	t := &fakeTile{pos: pos, blockID: blockID, container: NewItemContainer(slots...)}
	t.container.SetParent(t)
	return t
}

func (t *fakeTile) Pos() Vec3i                { return t.pos }
func (t *fakeTile) BlockID() int              { return t.blockID }
func (t *fakeTile) Container() *ItemContainer { return t.container }
func (t *fakeTile) LiquidTank(name string) *liquid.Tank {
	if t.tanks == nil {
		return nil
	}
	if tk, ok := t.tanks[name]; ok {
		return tk
	}
	return t.tanks[""]
}

type fakeNative struct {
	kind  string
	slots []ItemStack
}

func newFakeNative(kind string, size int) *fakeNative {
	return &fakeNative{kind: kind, slots: make([]ItemStack, size)}
}

func (n *fakeNative) Kind() string               { return n.kind }
func (n *fakeNative) Size() int                  { return len(n.slots) }
func (n *fakeNative) Slot(i int) ItemStack       { return n.slots[i] }
func (n *fakeNative) SetSlot(i int, s ItemStack) { n.slots[i] = s }

type fakeWorld struct {
	blocks  map[Vec3i]Block
	natives map[Vec3i]NativeContainer
	tiles   map[Vec3i]TileEntity
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		blocks:  map[Vec3i]Block{},
		natives: map[Vec3i]NativeContainer{},
		tiles:   map[Vec3i]TileEntity{},
	}
}

func (w *fakeWorld) Block(pos Vec3i) Block { return w.blocks[pos] }

func (w *fakeWorld) NativeContainerAt(pos Vec3i) NativeContainer {
	if c, ok := w.natives[pos]; ok {
		return c
	}
	return nil
}

func (w *fakeWorld) TileEntityAt(pos Vec3i) TileEntity {
	if t, ok := w.tiles[pos]; ok {
		return t
	}
	return nil
}

type protoSet map[int]bool

func (p protoSet) HasPrototype(id int) bool { return p[id] }

// Item ids used across tests. Id 3 stacks to 16.
const (
	itemIron  = 1
	itemCoal  = 2
	itemPearl = 3

	blockHopper  = 154
	blockMachine = 500
)

var testSizer = StackSizerFunc(func(id int) int {
	if id == itemPearl {
		return 16
	}
	return 64
})

func newTestRegistry() *Registry {
	return NewRegistry(Config{HopperBlockID: blockHopper}, testSizer, protoSet{blockMachine: true}, nil)
}

// emptyStack reports whether s is the canonical empty stack.
func emptyStack(s ItemStack) bool {
	return s.ID == 0 && s.Count == 0 && s.Data == 0 && s.Extra == nil
}

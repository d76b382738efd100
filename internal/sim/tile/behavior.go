package tile

// Behavior drives a tile entity through its lifetime. Init runs once the
// entity is indexed, Tick once per world tick, Destroy after it is removed.
type Behavior interface {
	Init(e *Entity)
	Tick(e *Entity, tick uint64)
	Destroy(e *Entity)
}

// BehaviorFuncs adapts plain functions to Behavior. Nil hooks are skipped.
type BehaviorFuncs struct {
	OnInit    func(e *Entity)
	OnTick    func(e *Entity, tick uint64)
	OnDestroy func(e *Entity)
}

func (b BehaviorFuncs) Init(e *Entity) {
	if b.OnInit != nil {
		b.OnInit(e)
	}
}

func (b BehaviorFuncs) Tick(e *Entity, tick uint64) {
	if b.OnTick != nil {
		b.OnTick(e, tick)
	}
}

func (b BehaviorFuncs) Destroy(e *Entity) {
	if b.OnDestroy != nil {
		b.OnDestroy(e)
	}
}

type NopBehavior struct{}

func (NopBehavior) Init(*Entity)         {}
func (NopBehavior) Tick(*Entity, uint64) {}
func (NopBehavior) Destroy(*Entity)      {}

// Chain runs behaviors in order for every hook.
type Chain []Behavior

func (c Chain) Init(e *Entity) {
	for _, b := range c {
		b.Init(e)
	}
}

func (c Chain) Tick(e *Entity, tick uint64) {
	for _, b := range c {
		b.Tick(e, tick)
	}
}

func (c Chain) Destroy(e *Entity) {
	for _, b := range c {
		b.Destroy(e)
	}
}

// Package liquid holds the liquid tanks tile entities carry.
package liquid

import "sort"

// Tank stores liquid amounts keyed by liquid id, each bounded by its own limit.
// A tank built with a wildcard limit accepts any liquid, but only one kind at a time.
type Tank struct {
	limits   map[string]float64
	wildcard float64
	amounts  map[string]float64
}

// NewTank returns a tank that accepts any single liquid up to limit.
func NewTank(limit float64) *Tank {
	return &Tank{
		limits:   map[string]float64{},
		wildcard: limit,
		amounts:  map[string]float64{},
	}
}

// NewTankFor returns a tank restricted to the given liquid limits.
func NewTankFor(limits map[string]float64) *Tank {
	t := &Tank{
		limits:  map[string]float64{},
		amounts: map[string]float64{},
	}
	for l, n := range limits {
		t.limits[l] = n
	}
	return t
}

func (t *Tank) SetLimit(liquid string, limit float64) {
	t.limits[liquid] = limit
}

// Limit is the capacity for liquid, or 0 when the tank cannot hold it.
func (t *Tank) Limit(liquid string) float64 {
	if n, ok := t.limits[liquid]; ok {
		return n
	}
	if t.wildcard > 0 {
		if s := t.Stored(); s != "" && s != liquid {
			return 0
		}
		return t.wildcard
	}
	return 0
}

// Stored returns the first liquid (by id) with a positive amount.
func (t *Tank) Stored() string {
	ids := make([]string, 0, len(t.amounts))
	for l, n := range t.amounts {
		if n > 0 {
			ids = append(ids, l)
		}
	}
	if len(ids) == 0 {
		return ""
	}
	sort.Strings(ids)
	return ids[0]
}

func (t *Tank) Amount(liquid string) float64 { return t.amounts[liquid] }

func (t *Tank) IsEmpty() bool { return t.Stored() == "" }

func (t *Tank) IsFull(liquid string) bool {
	return t.amounts[liquid] >= t.Limit(liquid)
}

// Add stores up to amount of liquid and returns the amount accepted.
func (t *Tank) Add(liquid string, amount float64) float64 {
	if liquid == "" || amount <= 0 {
		return 0
	}
	room := t.Limit(liquid) - t.amounts[liquid]
	if room <= 0 {
		return 0
	}
	add := min(room, amount)
	t.amounts[liquid] += add
	return add
}

// SetAmount overwrites the stored amount of liquid, regardless of limits.
func (t *Tank) SetAmount(liquid string, amount float64) {
	if liquid == "" {
		return
	}
	if amount <= 0 {
		delete(t.amounts, liquid)
		return
	}
	t.amounts[liquid] = amount
}

// Get withdraws up to amount of liquid and returns the amount withdrawn.
// A negative amount puts that much back, regardless of limits.
func (t *Tank) Get(liquid string, amount float64) float64 {
	if liquid == "" {
		return 0
	}
	got := min(t.amounts[liquid], amount)
	t.amounts[liquid] -= got
	if t.amounts[liquid] == 0 {
		delete(t.amounts, liquid)
	}
	return got
}

package main

import (
	"testing"

	"voxelstore.ai/internal/sim/world"
)

func TestParseAABB_OrdersCorners(t *testing.T) {
	min, max, err := parseAABB("5,0,-2:1,3,4")
	if err != nil {
		t.Fatalf("parseAABB: %v", err)
	}
	if min != [3]int{1, 0, -2} || max != [3]int{5, 3, 4} {
		t.Fatalf("min=%v max=%v", min, max)
	}
	for _, bad := range []string{"", "1,2,3", "1,2:3,4,5", "a,b,c:1,2,3"} {
		if _, _, err := parseAABB(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestFlowAggregator(t *testing.T) {
	box := &[2][3]int{{0, 0, 0}, {0, 3, 0}}
	agg := newFlowAggregator(8, 24, box)

	hop := world.AuditEntry{Action: world.ActionHopperTransfer, From: [3]int{0, 2, 0}, To: [3]int{0, 1, 0}, Item: "IRON_ORE", Count: 1}
	for _, tick := range []uint64{0, 8, 16, 24, 32} {
		e := hop
		e.Tick = tick
		agg.add(e)
	}
	// Outside the box at both ends.
	agg.add(world.AuditEntry{Tick: 8, Action: world.ActionPump, From: [3]int{8, 1, 0}, To: [3]int{8, 2, 0}, Liquid: "WATER", Amount: 50})
	// One end inside the box.
	agg.add(world.AuditEntry{Tick: 8, Action: world.ActionEject, From: [3]int{0, 0, 0}, To: [3]int{0, 0, -1}, Item: "IRON_ORE", Count: 5})

	routes := agg.routes()
	if len(routes) != 2 {
		t.Fatalf("routes=%+v", routes)
	}
	if r := routes[0]; r.Action != world.ActionEject || r.Total != 5 || r.Entries != 1 {
		t.Fatalf("first route=%+v", r)
	}
	if r := routes[1]; r.Action != world.ActionHopperTransfer || r.Total != 3 || r.Entries != 3 || r.Content != "IRON_ORE" {
		t.Fatalf("second route=%+v", r)
	}
}

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"voxelstore.ai/internal/persistence/log"
	"voxelstore.ai/internal/sim/world"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "flows":
			flowsCmd(os.Args[2:])
			return
		case "db":
			dbCmd(os.Args[2:])
			return
		case "state":
			stateCmd(os.Args[2:])
			return
		case "storage":
			storageCmd(os.Args[2:])
			return
		case "set-item":
			setItemCmd(os.Args[2:])
			return
		}
	}
	listCmd(os.Args[1:])
}

func listCmd(args []string) {
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (optional)")
	_ = fs.Parse(args)

	base := filepath.Join(*dataDir, "worlds")
	if *worldID != "" {
		base = filepath.Join(base, *worldID)
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}
	for _, e := range entries {
		fmt.Println(e.Name())
	}
}

// flowsCmd sums the audited transfers touching an AABB, per route.
func flowsCmd(args []string) {
	fs := flag.NewFlagSet("flows", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id")
	aabb := fs.String("aabb", "", "AABB filter: x1,y1,z1:x2,y2,z2 (optional)")
	sinceTick := fs.Uint64("since_tick", 0, "first tick (inclusive)")
	toTick := fs.Uint64("to_tick", 0, "last tick (inclusive, optional)")
	_ = fs.Parse(args)

	if strings.TrimSpace(*worldID) == "" {
		fmt.Fprintln(os.Stderr, "missing -world")
		os.Exit(2)
	}
	var box *[2][3]int
	if strings.TrimSpace(*aabb) != "" {
		min, max, err := parseAABB(*aabb)
		if err != nil {
			fmt.Fprintln(os.Stderr, "bad -aabb:", err)
			os.Exit(2)
		}
		box = &[2][3]int{min, max}
	}

	dir := filepath.Join(*dataDir, "worlds", *worldID, "audit")
	files, err := log.ListFiles(dir, "audit")
	if err != nil {
		fmt.Fprintln(os.Stderr, "list audit:", err)
		os.Exit(1)
	}

	agg := newFlowAggregator(*sinceTick, *toTick, box)
	for _, path := range files {
		if err := log.ReadJSONL(path, func(e world.AuditEntry) error {
			agg.add(e)
			return nil
		}); err != nil {
			fmt.Fprintln(os.Stderr, "read audit:", err)
			os.Exit(1)
		}
	}
	routes := agg.routes()
	if len(routes) == 0 {
		fmt.Println("no matching audit entries")
		return
	}
	for _, r := range routes {
		fmt.Printf("%-16s %v -> %v %-12s entries=%d total=%g\n", r.Action, r.From, r.To, r.Content, r.Entries, r.Total)
	}
}

type flowKey struct {
	Action  string
	From    [3]int
	To      [3]int
	Content string
}

type flowRoute struct {
	flowKey
	Entries int
	Total   float64
}

type flowAggregator struct {
	since, to uint64
	box       *[2][3]int
	byKey     map[flowKey]*flowRoute
}

func newFlowAggregator(since, to uint64, box *[2][3]int) *flowAggregator {
	return &flowAggregator{since: since, to: to, box: box, byKey: map[flowKey]*flowRoute{}}
}

func (a *flowAggregator) add(e world.AuditEntry) {
	if e.Tick < a.since || (a.to != 0 && e.Tick > a.to) {
		return
	}
	if a.box != nil && !withinAABB(e.From, a.box[0], a.box[1]) && !withinAABB(e.To, a.box[0], a.box[1]) {
		return
	}
	k := flowKey{Action: e.Action, From: e.From, To: e.To, Content: e.Item}
	amount := float64(e.Count)
	if e.Liquid != "" {
		k.Content = e.Liquid
		amount = e.Amount
	}
	r := a.byKey[k]
	if r == nil {
		r = &flowRoute{flowKey: k}
		a.byKey[k] = r
	}
	r.Entries++
	r.Total += amount
}

// routes returns routes by descending total, then by key.
func (a *flowAggregator) routes() []flowRoute {
	out := make([]flowRoute, 0, len(a.byKey))
	for _, r := range a.byKey {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return fmt.Sprint(out[i].flowKey) < fmt.Sprint(out[j].flowKey)
	})
	return out
}

func withinAABB(pos [3]int, min, max [3]int) bool {
	return pos[0] >= min[0] && pos[0] <= max[0] &&
		pos[1] >= min[1] && pos[1] <= max[1] &&
		pos[2] >= min[2] && pos[2] <= max[2]
}

func parseAABB(s string) (min, max [3]int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return min, max, fmt.Errorf("expected x1,y1,z1:x2,y2,z2")
	}
	a, err := parseVec3(parts[0])
	if err != nil {
		return min, max, err
	}
	b, err := parseVec3(parts[1])
	if err != nil {
		return min, max, err
	}
	for i := 0; i < 3; i++ {
		if a[i] <= b[i] {
			min[i], max[i] = a[i], b[i]
		} else {
			min[i], max[i] = b[i], a[i]
		}
	}
	return min, max, nil
}

func parseVec3(s string) ([3]int, error) {
	var v [3]int
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 3 {
		return v, fmt.Errorf("expected x,y,z")
	}
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return v, err
		}
		v[i] = n
	}
	return v, nil
}

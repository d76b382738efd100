package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"voxelstore.ai/internal/persistence/indexdb"
	"voxelstore.ai/internal/sim/storage"
	"voxelstore.ai/internal/sim/world"
	"voxelstore.ai/internal/transport/observer"
)

type admin struct {
	world    *world.World
	index    runtimeIndex
	observer *observer.Server
	log      *log.Logger
}

func (a *admin) register(mux *http.ServeMux) {
	mux.HandleFunc("/admin/v1/state", a.local(a.stateHandler))
	mux.HandleFunc("/admin/v1/storage", a.local(a.storageHandler))
	mux.HandleFunc("/admin/v1/items", a.local(a.setItemHandler))
	mux.HandleFunc("/admin/v1/audits", a.local(a.auditsHandler))
}

func (a *admin) local(h http.HandlerFunc) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		h(rw, r)
	}
}

// onWorld runs fn on the world loop goroutine and waits for it.
func (a *admin) onWorld(ctx context.Context, fn func(w *world.World)) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	done := make(chan struct{})
	if err := a.world.Submit(ctx, func(w *world.World) {
		fn(w)
		close(done)
	}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}

func writeError(rw http.ResponseWriter, status int, err error) {
	writeJSON(rw, status, map[string]any{"ok": false, "error": err.Error()})
}

func (a *admin) stateHandler(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rw.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var tiles int
	var digest string
	if err := a.onWorld(r.Context(), func(w *world.World) {
		tiles = w.Tiles().Len()
		digest = w.StateDigest()
	}); err != nil {
		writeError(rw, http.StatusServiceUnavailable, err)
		return
	}
	resp := struct {
		WorldID   string         `json:"world_id"`
		Tick      uint64         `json:"tick"`
		Digest    string         `json:"digest"`
		Tiles     int            `json:"tiles"`
		Observers int            `json:"observers"`
		Index     *indexdb.Stats `json:"index,omitempty"`
	}{
		WorldID:   a.world.ID(),
		Tick:      a.world.CurrentTick(),
		Digest:    digest,
		Tiles:     tiles,
		Observers: a.observer.Clients(),
	}
	if a.index != nil {
		st := a.index.Stats()
		resp.Index = &st
	}
	writeJSON(rw, http.StatusOK, resp)
}

func (a *admin) storageHandler(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rw.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	pos, err := parsePos(r)
	if err != nil {
		writeError(rw, http.StatusBadRequest, err)
		return
	}
	var view world.StorageView
	var ok bool
	if err := a.onWorld(r.Context(), func(w *world.World) {
		view, ok = w.Inspect(pos)
	}); err != nil {
		writeError(rw, http.StatusServiceUnavailable, err)
		return
	}
	if !ok {
		writeError(rw, http.StatusNotFound, fmt.Errorf("no storage at %v", pos.ToArray()))
		return
	}
	writeJSON(rw, http.StatusOK, view)
}

type setItemRequest struct {
	Pos   [3]int `json:"pos"`
	Slot  string `json:"slot"`
	Item  string `json:"item"`
	Count int    `json:"count"`
}

func (a *admin) setItemHandler(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		rw.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req setItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(rw, http.StatusBadRequest, err)
		return
	}
	if req.Count < 0 {
		writeError(rw, http.StatusBadRequest, fmt.Errorf("negative count"))
		return
	}
	pos := storage.Vec3i{X: req.Pos[0], Y: req.Pos[1], Z: req.Pos[2]}
	var setErr error
	var tick uint64
	if err := a.onWorld(r.Context(), func(w *world.World) {
		setErr = w.SetItem(pos, req.Slot, req.Item, req.Count)
		tick = w.CurrentTick()
	}); err != nil {
		writeError(rw, http.StatusServiceUnavailable, err)
		return
	}
	if setErr != nil {
		writeError(rw, http.StatusBadRequest, setErr)
		return
	}
	a.log.Printf("admin: set %s x%d at %v slot=%s", req.Item, req.Count, req.Pos, req.Slot)
	writeJSON(rw, http.StatusOK, map[string]any{"ok": true, "tick": tick})
}

func (a *admin) auditsHandler(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rw.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if a.index == nil {
		writeError(rw, http.StatusServiceUnavailable, fmt.Errorf("index disabled"))
		return
	}
	q := r.URL.Query()
	f := indexdb.AuditFilter{
		World:  a.world.ID(),
		Action: q.Get("action"),
		Limit:  100,
	}
	var err error
	if f.FromTick, err = parseUintParam(q.Get("from_tick")); err != nil {
		writeError(rw, http.StatusBadRequest, err)
		return
	}
	if f.ToTick, err = parseUintParam(q.Get("to_tick")); err != nil {
		writeError(rw, http.StatusBadRequest, err)
		return
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 10000 {
			writeError(rw, http.StatusBadRequest, fmt.Errorf("bad limit %q", v))
			return
		}
		f.Limit = n
	}
	entries, err := a.index.QueryAudits(r.Context(), f)
	if err != nil {
		writeError(rw, http.StatusInternalServerError, err)
		return
	}
	if entries == nil {
		entries = []world.AuditEntry{}
	}
	writeJSON(rw, http.StatusOK, map[string]any{"ok": true, "audits": entries})
}

func (a *admin) metricsHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")
		id := a.world.ID()
		// Minimal Prometheus exposition format.
		fmt.Fprintf(rw, "# HELP voxelstore_world_tick Current world tick.\n")
		fmt.Fprintf(rw, "# TYPE voxelstore_world_tick gauge\n")
		fmt.Fprintf(rw, "voxelstore_world_tick{world=%q} %d\n", id, a.world.CurrentTick())
		fmt.Fprintf(rw, "# HELP voxelstore_observers Connected observer sessions.\n")
		fmt.Fprintf(rw, "# TYPE voxelstore_observers gauge\n")
		fmt.Fprintf(rw, "voxelstore_observers{world=%q} %d\n", id, a.observer.Clients())
		if a.index == nil {
			return
		}
		st := a.index.Stats()
		fmt.Fprintf(rw, "# HELP voxelstore_index_queue_depth Index writer backlog.\n")
		fmt.Fprintf(rw, "# TYPE voxelstore_index_queue_depth gauge\n")
		fmt.Fprintf(rw, "voxelstore_index_queue_depth{world=%q} %d\n", id, st.QueueDepth)
		fmt.Fprintf(rw, "# HELP voxelstore_index_dropped_total Index writes dropped under load.\n")
		fmt.Fprintf(rw, "# TYPE voxelstore_index_dropped_total counter\n")
		fmt.Fprintf(rw, "voxelstore_index_dropped_total{world=%q,kind=%q} %d\n", id, "tick", st.DropTickTotal)
		fmt.Fprintf(rw, "voxelstore_index_dropped_total{world=%q,kind=%q} %d\n", id, "audit", st.DropAuditTotal)
	}
}

func parsePos(r *http.Request) (storage.Vec3i, error) {
	q := r.URL.Query()
	var p [3]int
	for i, k := range []string{"x", "y", "z"} {
		n, err := strconv.Atoi(q.Get(k))
		if err != nil {
			return storage.Vec3i{}, fmt.Errorf("bad %s: %q", k, q.Get(k))
		}
		p[i] = n
	}
	return storage.Vec3i{X: p[0], Y: p[1], Z: p[2]}, nil
}

func parseUintParam(v string) (uint64, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad tick %q", v)
	}
	return n, nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"voxelstore.ai/internal/persistence/indexdb"
	"voxelstore.ai/internal/sim/catalogs"
	"voxelstore.ai/internal/sim/tuning"
	"voxelstore.ai/internal/sim/world"
)

type runtimeIndex interface {
	world.AuditSink
	TickLogger(worldID string) world.TickLogger
	UpsertCatalogs(configDir string, cats *catalogs.Catalogs, tune tuning.Tuning) error
	QueryAudits(ctx context.Context, f indexdb.AuditFilter) ([]world.AuditEntry, error)
	Stats() indexdb.Stats
	Close() error
}

func openRuntimeIndex(worldDir string, disableDB bool) (runtimeIndex, error) {
	if disableDB {
		return nil, nil
	}

	backend := strings.ToLower(strings.TrimSpace(os.Getenv("VS_INDEX_BACKEND")))
	if backend == "" {
		backend = "sqlite"
	}

	switch backend {
	case "none", "off", "disabled":
		return nil, nil
	case "sqlite":
		dbPath := filepath.Join(worldDir, "index", "world.sqlite")
		return indexdb.OpenSQLite(dbPath)
	default:
		return nil, fmt.Errorf("unsupported VS_INDEX_BACKEND: %s", backend)
	}
}

package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"voxelstore.ai/internal/sim/catalogs"
	"voxelstore.ai/internal/sim/tuning"
	"voxelstore.ai/internal/sim/world"
)

// schemaVersion is bumped whenever the ticks/audits layout changes. Older
// tables are dropped on open; the JSONL logs remain the source of truth.
const schemaVersion = "2"

// SQLiteIndex is a queryable secondary index of tick digests and transfer
// audits. Writes are queued to a single writer goroutine and dropped when the
// queue is full; the JSONL logs remain the source of truth.
//
// Every OpenSQLite starts a new run. Rows of earlier runs are kept, so a
// restarted world replaying the same ticks does not overwrite them.
type SQLiteIndex struct {
	db  *sql.DB
	run int64

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool

	dropTick  atomic.Uint64
	dropAudit atomic.Uint64
}

type reqKind int

const (
	reqTick reqKind = iota + 1
	reqAudit
)

type req struct {
	kind  reqKind
	world string

	tick  world.TickLogEntry
	audit world.AuditEntry
}

// Stats reports queue pressure.
type Stats struct {
	QueueDepth     int
	QueueCapacity  int
	DropTickTotal  uint64
	DropAuditTotal uint64
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	run, err := startRun(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db:  db,
		run: run,
		ch:  make(chan req, 65536),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`); err != nil {
		return err
	}
	var version string
	err := db.QueryRow(`SELECT value FROM meta WHERE key='schema_version'`).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if version != schemaVersion {
		for _, t := range []string{"audits", "ticks", "runs"} {
			if _, err := db.Exec(`DROP TABLE IF EXISTS ` + t); err != nil {
				return err
			}
		}
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ticks (
			run INTEGER NOT NULL,
			world TEXT NOT NULL,
			tick INTEGER NOT NULL,
			digest TEXT NOT NULL,
			audits INTEGER NOT NULL,
			PRIMARY KEY (run, world, tick)
		);`,
		`CREATE TABLE IF NOT EXISTS audits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run INTEGER NOT NULL,
			world TEXT NOT NULL,
			tick INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			action TEXT NOT NULL,
			from_x INTEGER NOT NULL,
			from_y INTEGER NOT NULL,
			from_z INTEGER NOT NULL,
			to_x INTEGER NOT NULL,
			to_y INTEGER NOT NULL,
			to_z INTEGER NOT NULL,
			item TEXT,
			count INTEGER NOT NULL,
			liquid TEXT,
			amount REAL NOT NULL,
			reason TEXT,
			raw_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_audits_world_tick ON audits(world, tick, seq);`,
		`CREATE INDEX IF NOT EXISTS idx_audits_action_tick ON audits(action, tick);`,
		`CREATE INDEX IF NOT EXISTS idx_audits_to_tick ON audits(to_x, to_z, to_y, tick);`,
		`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','` + schemaVersion + `');`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func startRun(db *sql.DB) (int64, error) {
	res, err := db.Exec(`INSERT INTO runs(started_at) VALUES(?)`, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("start run: %w", err)
	}
	return res.LastInsertId()
}

// Run is the id of the run this index writes under.
func (s *SQLiteIndex) Run() int64 { return s.run }

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		QueueDepth:     len(s.ch),
		QueueCapacity:  cap(s.ch),
		DropTickTotal:  s.dropTick.Load(),
		DropAuditTotal: s.dropAudit.Load(),
	}
}

// TickLogger returns a world.TickLogger that records ticks of worldID.
func (s *SQLiteIndex) TickLogger(worldID string) world.TickLogger {
	return tickWriter{s: s, world: worldID}
}

type tickWriter struct {
	s     *SQLiteIndex
	world string
}

func (t tickWriter) WriteTick(entry world.TickLogEntry) error {
	if t.s == nil || t.s.closed.Load() {
		return nil
	}
	select {
	case t.s.ch <- req{kind: reqTick, world: t.world, tick: entry}:
	default:
		t.s.dropTick.Add(1)
	}
	return nil
}

func (s *SQLiteIndex) WriteAudit(entry world.AuditEntry) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	select {
	case s.ch <- req{kind: reqAudit, audit: entry}:
	default:
		s.dropAudit.Add(1)
	}
	return nil
}

// UpsertCatalogs stores the loaded catalogs and the applied tuning along
// with their digests, so an index can be matched to the configs that
// produced it.
func (s *SQLiteIndex) UpsertCatalogs(configDir string, cats *catalogs.Catalogs, tune tuning.Tuning) error {
	if s == nil {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	type kv struct {
		name   string
		digest string
		json   []byte
	}
	var rows []kv
	read := func(name, file, digest string) {
		if configDir == "" {
			return
		}
		b, err := os.ReadFile(filepath.Join(configDir, file))
		if err != nil {
			return
		}
		rows = append(rows, kv{name: name, digest: digest, json: b})
	}
	read("blocks_defs", "blocks.json", cats.Blocks.DefsDigest)
	read("items_defs", "items.json", cats.Items.DefsDigest)
	read("liquids", "liquids.json", cats.Liquids.Digest)

	if b, _ := json.Marshal(cats.Blocks.Palette); len(b) > 0 {
		rows = append(rows, kv{name: "blocks_palette", digest: cats.Blocks.PaletteDigest, json: b})
	}
	if b, _ := json.Marshal(cats.Items.Palette); len(b) > 0 {
		rows = append(rows, kv{name: "items_palette", digest: cats.Items.PaletteDigest, json: b})
	}
	{
		b, _ := json.Marshal(tune)
		sum := sha256.Sum256(b)
		rows = append(rows, kv{name: "tuning", digest: hex.EncodeToString(sum[:]), json: b})
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO catalogs(name,digest,json,updated_at) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if r.name == "" || r.digest == "" || len(r.json) == 0 {
			continue
		}
		if _, err := stmt.Exec(r.name, r.digest, string(r.json), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertTick, _ := s.db.Prepare(`INSERT OR REPLACE INTO ticks(run,world,tick,digest,audits) VALUES(?,?,?,?,?)`)
	insertAudit, _ := s.db.Prepare(`INSERT INTO audits(run,world,tick,seq,action,from_x,from_y,from_z,to_x,to_y,to_z,item,count,liquid,amount,reason,raw_json) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	nextSeq, _ := s.db.Prepare(`SELECT COALESCE(MAX(seq)+1, 0) FROM audits WHERE run=? AND world=? AND tick=?`)
	defer func() {
		if insertTick != nil {
			_ = insertTick.Close()
		}
		if insertAudit != nil {
			_ = insertAudit.Close()
		}
		if nextSeq != nil {
			_ = nextSeq.Close()
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 2000
		commitMaxWait = 2 * time.Second

		lastAuditTick  uint64
		lastAuditWorld string
		auditSeq       int
		haveSeq        bool
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
		haveSeq = false
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqTick:
			if insertTick == nil {
				continue
			}
			if _, err := tx.Stmt(insertTick).Exec(s.run, r.world, int64(r.tick.Tick), r.tick.Digest, r.tick.Audits); err != nil {
				rollback()
				continue
			}
			opCount++

		case reqAudit:
			a := r.audit
			if insertAudit == nil || nextSeq == nil {
				continue
			}
			// seq continues where earlier rows of the same tick left off, so
			// audits arriving out of tick order still get distinct numbers.
			if !haveSeq || a.Tick != lastAuditTick || a.World != lastAuditWorld {
				if err := tx.Stmt(nextSeq).QueryRow(s.run, a.World, int64(a.Tick)).Scan(&auditSeq); err != nil {
					rollback()
					continue
				}
				lastAuditTick = a.Tick
				lastAuditWorld = a.World
				haveSeq = true
			}
			seq := auditSeq
			auditSeq++
			raw, _ := json.Marshal(a)
			if _, err := tx.Stmt(insertAudit).Exec(
				s.run,
				a.World,
				int64(a.Tick),
				seq,
				a.Action,
				a.From[0], a.From[1], a.From[2],
				a.To[0], a.To[1], a.To[2],
				a.Item,
				a.Count,
				a.Liquid,
				a.Amount,
				a.Reason,
				string(raw),
			); err != nil {
				rollback()
				continue
			}
			opCount++
		}
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}

	commit()
}

// AuditFilter narrows QueryAudits. Zero values match everything.
type AuditFilter struct {
	Run      int64
	World    string
	Action   string
	FromTick uint64
	ToTick   uint64
	Limit    int
}

// QueryAudits returns indexed audits in (world, tick, run, seq) order. Entries still
// queued for the writer are not visible.
func (s *SQLiteIndex) QueryAudits(ctx context.Context, f AuditFilter) ([]world.AuditEntry, error) {
	q := `SELECT raw_json FROM audits WHERE tick >= ?`
	args := []any{int64(f.FromTick)}
	if f.ToTick != 0 {
		q += ` AND tick <= ?`
		args = append(args, int64(f.ToTick))
	}
	if f.Run != 0 {
		q += ` AND run = ?`
		args = append(args, f.Run)
	}
	if f.World != "" {
		q += ` AND world = ?`
		args = append(args, f.World)
	}
	if f.Action != "" {
		q += ` AND action = ?`
		args = append(args, f.Action)
	}
	q += ` ORDER BY world, tick, run, seq`
	if f.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []world.AuditEntry
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var e world.AuditEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("audit row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

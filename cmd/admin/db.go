package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

func dbCmd(args []string) {
	fs := flag.NewFlagSet("db", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (required unless -db)")
	dbPath := fs.String("db", "", "sqlite db path (optional)")
	limit := fs.Int("limit", 20, "result limit")
	action := fs.String("action", "", "audit action filter (audits)")
	_ = fs.Parse(args)

	q := "ticks"
	if fs.NArg() > 0 {
		q = strings.TrimSpace(fs.Arg(0))
	}
	if *limit <= 0 {
		*limit = 20
	}

	path := strings.TrimSpace(*dbPath)
	if path == "" {
		if strings.TrimSpace(*worldID) == "" {
			fmt.Fprintln(os.Stderr, "missing -world or -db")
			os.Exit(2)
		}
		path = filepath.Join(*dataDir, "worlds", *worldID, "index", "world.sqlite")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer db.Close()

	switch q {
	case "ticks":
		rows, err := db.Query(`SELECT run,world,tick,digest,audits FROM ticks ORDER BY run DESC, tick DESC LIMIT ?`, *limit)
		if err != nil {
			fatal("query", err)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Run    int64  `json:"run"`
				World  string `json:"world"`
				Tick   int64  `json:"tick"`
				Digest string `json:"digest"`
				Audits int    `json:"audits"`
			}
			if err := rows.Scan(&r.Run, &r.World, &r.Tick, &r.Digest, &r.Audits); err != nil {
				fatal("scan", err)
			}
			printJSON(r)
		}
		if err := rows.Err(); err != nil {
			fatal("rows", err)
		}

	case "audits":
		query := `SELECT raw_json FROM audits ORDER BY id DESC LIMIT ?`
		qargs := []any{*limit}
		if a := strings.ToUpper(strings.TrimSpace(*action)); a != "" {
			query = `SELECT raw_json FROM audits WHERE action=? ORDER BY id DESC LIMIT ?`
			qargs = []any{a, *limit}
		}
		rows, err := db.Query(query, qargs...)
		if err != nil {
			fatal("query", err)
		}
		defer rows.Close()
		for rows.Next() {
			var raw string
			if err := rows.Scan(&raw); err != nil {
				fatal("scan", err)
			}
			fmt.Println(raw)
		}
		if err := rows.Err(); err != nil {
			fatal("rows", err)
		}

	case "totals":
		rows, err := db.Query(`SELECT action, COALESCE(NULLIF(item,''), liquid), COUNT(*), SUM(count), SUM(amount) FROM audits GROUP BY 1, 2 ORDER BY 1, 2`)
		if err != nil {
			fatal("query", err)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Action  string  `json:"action"`
				Content string  `json:"content"`
				Entries int     `json:"entries"`
				Items   int     `json:"items"`
				Liquid  float64 `json:"liquid"`
			}
			var content sql.NullString
			if err := rows.Scan(&r.Action, &content, &r.Entries, &r.Items, &r.Liquid); err != nil {
				fatal("scan", err)
			}
			r.Content = content.String
			printJSON(r)
		}
		if err := rows.Err(); err != nil {
			fatal("rows", err)
		}

	case "catalogs":
		rows, err := db.Query(`SELECT name,digest,updated_at FROM catalogs ORDER BY name`)
		if err != nil {
			fatal("query", err)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Name      string `json:"name"`
				Digest    string `json:"digest"`
				UpdatedAt string `json:"updated_at"`
			}
			if err := rows.Scan(&r.Name, &r.Digest, &r.UpdatedAt); err != nil {
				fatal("scan", err)
			}
			printJSON(r)
		}
		if err := rows.Err(); err != nil {
			fatal("rows", err)
		}

	default:
		fmt.Fprintln(os.Stderr, "unknown query:", q)
		fmt.Fprintln(os.Stderr, "usage: admin db [-data ./data] [-world WORLD|-db PATH] [-limit N] [-action A] ticks|audits|totals|catalogs")
		os.Exit(2)
	}
}

func fatal(what string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", what, err)
	os.Exit(1)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

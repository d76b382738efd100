package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

func stateCmd(args []string) {
	fs := flag.NewFlagSet("state", flag.ExitOnError)
	baseURL := fs.String("url", "http://127.0.0.1:8080", "server base url")
	_ = fs.Parse(args)

	doRequest(http.MethodGet, adminURL(*baseURL, "/admin/v1/state", nil), nil)
}

func storageCmd(args []string) {
	fs := flag.NewFlagSet("storage", flag.ExitOnError)
	baseURL := fs.String("url", "http://127.0.0.1:8080", "server base url")
	pos := fs.String("pos", "", "block position x,y,z (required)")
	_ = fs.Parse(args)

	p, err := parseVec3(*pos)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bad -pos:", err)
		os.Exit(2)
	}
	q := url.Values{}
	q.Set("x", strconv.Itoa(p[0]))
	q.Set("y", strconv.Itoa(p[1]))
	q.Set("z", strconv.Itoa(p[2]))
	doRequest(http.MethodGet, adminURL(*baseURL, "/admin/v1/storage", q), nil)
}

func setItemCmd(args []string) {
	fs := flag.NewFlagSet("set-item", flag.ExitOnError)
	baseURL := fs.String("url", "http://127.0.0.1:8080", "server base url")
	pos := fs.String("pos", "", "block position x,y,z (required)")
	slot := fs.String("slot", "", "slot index (native) or name (tile)")
	item := fs.String("item", "", "item id")
	count := fs.Int("count", 1, "stack size (0 clears the slot)")
	_ = fs.Parse(args)

	p, err := parseVec3(*pos)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bad -pos:", err)
		os.Exit(2)
	}
	body, _ := json.Marshal(map[string]any{
		"pos":   p,
		"slot":  *slot,
		"item":  strings.ToUpper(strings.TrimSpace(*item)),
		"count": *count,
	})
	doRequest(http.MethodPost, adminURL(*baseURL, "/admin/v1/items", nil), body)
}

func adminURL(base, path string, q url.Values) string {
	u := strings.TrimRight(strings.TrimSpace(base), "/") + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func doRequest(method, u string, body []byte) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, _ := http.NewRequest(method, u, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	cl := &http.Client{Timeout: 10 * time.Second}
	resp, err := cl.Do(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "request:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	fmt.Println(strings.TrimSpace(string(b)))
	if resp.StatusCode/100 != 2 {
		os.Exit(1)
	}
}

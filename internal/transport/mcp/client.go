// Package mcp exposes the server's admin endpoints as MCP tools. It is a thin
// proxy: every tool call becomes one loopback HTTP request.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"voxelstore.ai/internal/sim/world"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	c.mcpServer = server.NewMCPServer(
		"voxelstore",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`voxelstore world admin.

Blocks hold items in slots and liquids in tanks. Hoppers and machines move
items between neighbouring storages; pumps push liquids. Every transfer is
audited.

TOOLS:
- world_state: world id, tick, state digest
- inspect_storage: slots and tanks at a block position
- set_item: overwrite one slot (native slots are indexes, tile slots are names)
- query_audits: recorded transfers, filtered by action and tick range`),
	)
	c.registerTools()
	return c
}

func (c *Client) MCPServer() *server.MCPServer { return c.mcpServer }

func posProperties() map[string]interface{} {
	return map[string]interface{}{
		"x": map[string]interface{}{"type": "integer"},
		"y": map[string]interface{}{"type": "integer"},
		"z": map[string]interface{}{"type": "integer"},
	}
}

func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "world_state",
		Description: "Get the world id, current tick and state digest",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleWorldState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "inspect_storage",
		Description: "List the slots and tanks of the storage at a block position",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: posProperties(),
			Required:   []string{"x", "y", "z"},
		},
	}, c.handleInspect)

	setProps := posProperties()
	setProps["slot"] = map[string]interface{}{"type": "string", "description": "Slot index for native inventories, slot name for tiles"}
	setProps["item"] = map[string]interface{}{"type": "string", "description": "Item id, e.g. IRON_ORE"}
	setProps["count"] = map[string]interface{}{"type": "integer", "description": "Stack size; 0 clears the slot"}
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_item",
		Description: "Overwrite one slot of the storage at a block position",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: setProps,
			Required:   []string{"x", "y", "z", "slot", "item", "count"},
		},
	}, c.handleSetItem)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "query_audits",
		Description: "List recorded transfers",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"action":    map[string]interface{}{"type": "string", "description": "HOPPER_TRANSFER, EJECT or PUMP"},
				"from_tick": map[string]interface{}{"type": "integer"},
				"to_tick":   map[string]interface{}{"type": "integer"},
				"limit":     map[string]interface{}{"type": "integer"},
			},
		},
	}, c.handleQueryAudits)
}

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}
	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a JSON number argument.
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	}
	return 0, false
}

func posQuery(args map[string]interface{}) (url.Values, error) {
	q := url.Values{}
	for _, k := range []string{"x", "y", "z"} {
		n, ok := intArg(args, k)
		if !ok {
			return nil, fmt.Errorf("missing %s", k)
		}
		q.Set(k, strconv.Itoa(n))
	}
	return q, nil
}

func (c *Client) handleWorldState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var st struct {
		WorldID string `json:"world_id"`
		Tick    uint64 `json:"tick"`
		Digest  string `json:"digest"`
		Tiles   int    `json:"tiles"`
	}
	if err := c.apiCall(ctx, http.MethodGet, "/admin/v1/state", nil, &st); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("World %s at tick %d\nTiles: %d\nDigest: %s\n", st.WorldID, st.Tick, st.Tiles, st.Digest)), nil
}

func (c *Client) handleInspect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q, err := posQuery(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var view world.StorageView
	if err := c.apiCall(ctx, http.MethodGet, "/admin/v1/storage?"+q.Encode(), nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatStorage(view)), nil
}

func (c *Client) handleSetItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	var pos [3]int
	for i, k := range []string{"x", "y", "z"} {
		n, ok := intArg(args, k)
		if !ok {
			return mcp.NewToolResultError("missing " + k), nil
		}
		pos[i] = n
	}
	slot, _ := args["slot"].(string)
	item, _ := args["item"].(string)
	count, ok := intArg(args, "count")
	if !ok {
		return mcp.NewToolResultError("missing count"), nil
	}
	body := map[string]interface{}{
		"pos":   pos,
		"slot":  slot,
		"item":  strings.ToUpper(item),
		"count": count,
	}
	var resp struct {
		Tick uint64 `json:"tick"`
	}
	if err := c.apiCall(ctx, http.MethodPost, "/admin/v1/items", body, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Set %v slot %s to %s x%d (tick %d)\n", pos, slot, strings.ToUpper(item), count, resp.Tick)), nil
}

func (c *Client) handleQueryAudits(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	q := url.Values{}
	if a, _ := args["action"].(string); a != "" {
		q.Set("action", strings.ToUpper(a))
	}
	for _, k := range []string{"from_tick", "to_tick", "limit"} {
		if n, ok := intArg(args, k); ok {
			q.Set(k, strconv.Itoa(n))
		}
	}
	path := "/admin/v1/audits"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp struct {
		Audits []world.AuditEntry `json:"audits"`
	}
	if err := c.apiCall(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(resp.Audits) == 0 {
		return mcp.NewToolResultText("No transfers recorded.\n"), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Transfers (%d):\n", len(resp.Audits))
	for _, e := range resp.Audits {
		b.WriteString(formatAudit(e))
		b.WriteByte('\n')
	}
	return mcp.NewToolResultText(b.String()), nil
}

func formatStorage(v world.StorageView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at %v (%s)\n", v.Block, v.Pos, v.Kind)
	used := 0
	for _, s := range v.Slots {
		if s.Item == "" {
			continue
		}
		used++
		fmt.Fprintf(&b, "  slot %s: %s x%d\n", s.Slot, s.Item, s.Count)
	}
	fmt.Fprintf(&b, "  %d/%d slots used\n", used, len(v.Slots))
	for _, t := range v.Tanks {
		if t.Liquid == "" {
			fmt.Fprintf(&b, "  tank %s: empty\n", t.Name)
			continue
		}
		fmt.Fprintf(&b, "  tank %s: %s %.1f\n", t.Name, t.Liquid, t.Amount)
	}
	return b.String()
}

func formatAudit(e world.AuditEntry) string {
	what := fmt.Sprintf("%s x%d", e.Item, e.Count)
	if e.Liquid != "" {
		what = fmt.Sprintf("%s %.1f", e.Liquid, e.Amount)
	}
	return fmt.Sprintf("- tick %d %s %v -> %v %s", e.Tick, e.Action, e.From, e.To, what)
}

package observer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"voxelstore.ai/internal/observerproto"
	"voxelstore.ai/internal/sim/world"
)

// Server streams transfer audits to loopback observers. Register it with the
// world as both an audit sink and a tick logger: audits are buffered during a
// tick and flushed to each subscriber when the tick is logged.
type Server struct {
	world *world.World
	log   *log.Logger

	upgrader websocket.Upgrader
	nextID   atomic.Uint64

	mu      sync.Mutex
	clients map[string]*client

	// pending is only touched from the world loop goroutine.
	pending []world.AuditEntry
}

type client struct {
	out chan []byte

	// guarded by Server.mu
	actions map[string]bool
	region  *observerproto.Region
}

func NewServer(w *world.World, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{
		world:   w,
		log:     logger,
		clients: map[string]*client{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) WriteAudit(entry world.AuditEntry) error {
	s.pending = append(s.pending, entry)
	return nil
}

func (s *Server) WriteTick(entry world.TickLogEntry) error {
	audits := s.pending
	s.pending = s.pending[:0]

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.clients {
		msg := observerproto.TickMsg{
			Type:            "TICK",
			ProtocolVersion: observerproto.Version,
			Tick:            entry.Tick,
			Digest:          entry.Digest,
			Transfers:       []observerproto.Transfer{},
		}
		for _, a := range audits {
			if c.matches(a) {
				msg.Transfers = append(msg.Transfers, toTransfer(a))
			}
		}
		if len(msg.Transfers) == 0 {
			continue
		}
		b, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		sendLatest(c.out, b, s.log, id)
	}
	return nil
}

// Clients returns the number of connected observers.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (c *client) matches(a world.AuditEntry) bool {
	if len(c.actions) > 0 && !c.actions[a.Action] {
		return false
	}
	return c.region == nil || c.region.Contains(a.From) || c.region.Contains(a.To)
}

func (c *client) apply(sub observerproto.SubscribeMsg) {
	c.actions = nil
	if len(sub.Actions) > 0 {
		c.actions = map[string]bool{}
		for _, a := range sub.Actions {
			c.actions[strings.ToUpper(a)] = true
		}
	}
	c.region = sub.Region
}

func toTransfer(a world.AuditEntry) observerproto.Transfer {
	return observerproto.Transfer{
		Action: a.Action,
		From:   a.From,
		To:     a.To,
		Item:   a.Item,
		Count:  a.Count,
		Liquid: a.Liquid,
		Amount: a.Amount,
		Reason: a.Reason,
	}
}

// sendLatest never blocks the world loop: when the client is behind, the
// oldest queued message is dropped.
func sendLatest(ch chan []byte, b []byte, logger *log.Logger, id string) {
	select {
	case ch <- b:
		return
	default:
	}
	select {
	case <-ch:
		logger.Printf("observer %s: dropping stale tick", id)
	default:
	}
	select {
	case ch <- b:
	default:
	}
}

func (s *Server) BootstrapHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		cats := s.world.Catalogs()
		resp := observerproto.BootstrapResponse{
			ProtocolVersion: observerproto.Version,
			WorldID:         s.world.ID(),
			Tick:            s.world.CurrentTick(),
			TickRateHz:      s.world.TickRateHz(),
			BlockPalette:    cats.Blocks.Palette,
			ItemPalette:     cats.Items.Palette,
			Liquids:         cats.Liquids.Names,
		}

		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(resp)
	}
}

func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// Handshake: must send SUBSCRIBE first.
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		sub, ok := parseSubscribe(msg)
		if !ok {
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected SUBSCRIBE"), time.Now().Add(time.Second))
			return
		}

		sid := fmt.Sprintf("O%d", s.nextID.Add(1))
		c := &client{out: make(chan []byte, 64)}
		c.apply(sub)
		s.mu.Lock()
		s.clients[sid] = c
		s.mu.Unlock()
		defer func() {
			s.mu.Lock()
			delete(s.clients, sid)
			s.mu.Unlock()
		}()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine.
		writeErr := make(chan error, 1)
		go func() {
			for {
				select {
				case <-ctx.Done():
					writeErr <- ctx.Err()
					return
				case b := <-c.out:
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						writeErr <- err
						return
					}
				}
			}
		}()

		// Reader loop: allow SUBSCRIBE updates.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			sub, ok := parseSubscribe(msg)
			if !ok {
				continue
			}
			s.mu.Lock()
			c.apply(sub)
			s.mu.Unlock()
		}

		cancel()
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))

		// Best-effort wait for the writer to stop so it doesn't outlive conn.
		select {
		case <-writeErr:
		case <-time.After(500 * time.Millisecond):
		}
	}
}

func parseSubscribe(msg []byte) (observerproto.SubscribeMsg, bool) {
	var sub observerproto.SubscribeMsg
	if err := json.Unmarshal(msg, &sub); err != nil {
		return sub, false
	}
	return sub, sub.Type == "SUBSCRIBE" && sub.ProtocolVersion == observerproto.Version
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"voxelstore.ai/internal/observerproto"
)

func main() {
	var (
		url     = flag.String("url", "ws://127.0.0.1:8080/admin/v1/observer/ws", "observer ws url")
		actions = flag.String("actions", "", "comma separated audit actions (default: all)")
		region  = flag.String("region", "", "x1,y1,z1:x2,y2,z2 (optional)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[observe] ", log.LstdFlags|log.Lmicroseconds)

	sub := observerproto.SubscribeMsg{
		Type:            "SUBSCRIBE",
		ProtocolVersion: observerproto.Version,
	}
	for _, a := range strings.Split(*actions, ",") {
		if a = strings.TrimSpace(a); a != "" {
			sub.Actions = append(sub.Actions, strings.ToUpper(a))
		}
	}
	if strings.TrimSpace(*region) != "" {
		r, err := parseRegion(*region)
		if err != nil {
			logger.Fatalf("bad -region: %v", err)
		}
		sub.Region = r
	}

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(sub); err != nil {
		logger.Fatalf("send SUBSCRIBE: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	go func() {
		<-stop
		_ = conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var tm observerproto.TickMsg
		if err := json.Unmarshal(msg, &tm); err != nil || tm.Type != "TICK" {
			continue
		}
		for _, t := range tm.Transfers {
			logger.Print(formatTransfer(tm.Tick, t))
		}
	}
}

func formatTransfer(tick uint64, t observerproto.Transfer) string {
	what := fmt.Sprintf("%s x%d", t.Item, t.Count)
	if t.Liquid != "" {
		what = fmt.Sprintf("%s %.1f", t.Liquid, t.Amount)
	}
	s := fmt.Sprintf("tick=%d %s %v -> %v %s", tick, t.Action, t.From, t.To, what)
	if t.Reason != "" {
		s += " (" + t.Reason + ")"
	}
	return s
}

func parseRegion(s string) (*observerproto.Region, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return nil, fmt.Errorf("expected x1,y1,z1:x2,y2,z2")
	}
	var r observerproto.Region
	for i, part := range parts {
		xyz := strings.Split(strings.TrimSpace(part), ",")
		if len(xyz) != 3 {
			return nil, fmt.Errorf("expected x,y,z")
		}
		for j := 0; j < 3; j++ {
			n, err := strconv.Atoi(strings.TrimSpace(xyz[j]))
			if err != nil {
				return nil, err
			}
			if i == 0 {
				r.Min[j] = n
			} else {
				r.Max[j] = n
			}
		}
	}
	for j := 0; j < 3; j++ {
		if r.Min[j] > r.Max[j] {
			r.Min[j], r.Max[j] = r.Max[j], r.Min[j]
		}
	}
	return &r, nil
}

package observerproto

// Version is the observer protocol version.
const Version = "0.1"

// Client -> Server. First message on the observer WS connection, and can be
// re-sent to change the filter.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`

	// Actions limits transfers to these audit actions. Empty means all.
	Actions []string `json:"actions,omitempty"`
	// Region limits transfers to those with either end inside the box.
	Region *Region `json:"region,omitempty"`
}

// Region is an inclusive axis-aligned box.
type Region struct {
	Min [3]int `json:"min"`
	Max [3]int `json:"max"`
}

func (r *Region) Contains(p [3]int) bool {
	if r == nil {
		return true
	}
	for i := 0; i < 3; i++ {
		if p[i] < r.Min[i] || p[i] > r.Max[i] {
			return false
		}
	}
	return true
}

// HTTP response for GET /admin/v1/observer/bootstrap.
type BootstrapResponse struct {
	ProtocolVersion string   `json:"protocol_version"`
	WorldID         string   `json:"world_id"`
	Tick            uint64   `json:"tick"`
	TickRateHz      int      `json:"tick_rate_hz"`
	BlockPalette    []string `json:"block_palette"`
	ItemPalette     []string `json:"item_palette"`
	Liquids         []string `json:"liquids"`
}

// Server -> Client. Sent once per tick that produced matching transfers.
type TickMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	Tick            uint64     `json:"tick"`
	Digest          string     `json:"digest"`
	Transfers       []Transfer `json:"transfers"`
}

type Transfer struct {
	Action string  `json:"action"`
	From   [3]int  `json:"from"`
	To     [3]int  `json:"to"`
	Item   string  `json:"item,omitempty"`
	Count  int     `json:"count,omitempty"`
	Liquid string  `json:"liquid,omitempty"`
	Amount float64 `json:"amount,omitempty"`
	Reason string  `json:"reason,omitempty"`
}

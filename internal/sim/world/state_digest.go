package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"
	"sort"

	"voxelstore.ai/internal/sim/storage"
	"voxelstore.ai/internal/sim/tile"
)

// StateDigest hashes blocks, native inventories and tile contents in a
// fixed order.
func (w *World) StateDigest() string {
	h := sha256.New()
	writeUint64(h, w.tick.Load())
	for _, k := range w.chunks.LoadedChunkKeys() {
		d := w.chunks.chunks[k].Digest()
		h.Write(d[:])
	}

	positions := make([]storage.Vec3i, 0, len(w.natives))
	for p := range w.natives {
		positions = append(positions, p)
	}
	sortPositions(positions)
	for _, p := range positions {
		writePos(h, p)
		n := w.natives[p]
		for i := 0; i < n.Size(); i++ {
			writeStack(h, n.Slot(i))
		}
	}

	w.tiles.Each(func(e *tile.Entity) {
		writePos(h, e.Pos())
		c := e.Container()
		for _, name := range c.SlotNames() {
			h.Write([]byte(name))
			writeStack(h, c.GetSlot(name))
		}
		for _, ts := range e.Prototype().Tanks {
			tk := e.LiquidTank(ts.Name)
			liq := tk.Stored()
			h.Write([]byte(liq))
			writeUint64(h, math.Float64bits(tk.Amount(liq)))
		}
	})
	return hex.EncodeToString(h.Sum(nil))
}

func writeUint64(h hash.Hash, v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	h.Write(tmp[:])
}

func writePos(h hash.Hash, p storage.Vec3i) {
	for _, v := range p.ToArray() {
		writeUint64(h, uint64(int64(v)))
	}
}

func writeStack(h hash.Hash, s storage.ItemStack) {
	writeUint64(h, uint64(s.ID))
	writeUint64(h, uint64(s.Count))
	writeUint64(h, uint64(s.Data))
	if len(s.Extra) == 0 {
		return
	}
	keys := make([]string, 0, len(s.Extra))
	for k := range s.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte(k))
	}
}

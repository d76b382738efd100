package world

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"

	"voxelstore.ai/internal/sim/storage"
)

const chunkSize = 16

type ChunkKey struct {
	CX int
	CY int
	CZ int
}

// Chunk is a 16x16x16 section. Blocks holds palette ids, Data the per-block
// orientation value.
type Chunk struct {
	CX, CY, CZ int
	Blocks     []uint16
	Data       []uint8

	dirty bool
	hash  [32]byte
}

func (c *Chunk) index(x, y, z int) int {
	// x fastest, then z, then y
	return x + z*chunkSize + y*chunkSize*chunkSize
}

func (c *Chunk) Get(x, y, z int) (uint16, uint8) {
	i := c.index(x, y, z)
	return c.Blocks[i], c.Data[i]
}

func (c *Chunk) Set(x, y, z int, b uint16, data uint8) {
	i := c.index(x, y, z)
	if c.Blocks[i] == b && c.Data[i] == data {
		return
	}
	c.Blocks[i] = b
	c.Data[i] = data
	c.dirty = true
}

func (c *Chunk) Digest() [32]byte {
	if c.dirty || c.hash == ([32]byte{}) {
		h := sha256.New()
		var tmp [2]byte
		for _, v := range c.Blocks {
			binary.LittleEndian.PutUint16(tmp[:], v)
			h.Write(tmp[:])
		}
		h.Write(c.Data)
		copy(c.hash[:], h.Sum(nil))
		c.dirty = false
	}
	return c.hash
}

// ChunkStore is a sparse block store. Unset positions read as air.
type ChunkStore struct {
	air uint16
	// Accessed only from the world loop goroutine.
	chunks map[ChunkKey]*Chunk
}

func NewChunkStore(air uint16) *ChunkStore {
	return &ChunkStore{
		air:    air,
		chunks: map[ChunkKey]*Chunk{},
	}
}

func (s *ChunkStore) Reset() {
	s.chunks = map[ChunkKey]*Chunk{}
}

func (s *ChunkStore) LoadedChunkKeys() []ChunkKey {
	keys := make([]ChunkKey, 0, len(s.chunks))
	for k := range s.chunks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CX != keys[j].CX {
			return keys[i].CX < keys[j].CX
		}
		if keys[i].CY != keys[j].CY {
			return keys[i].CY < keys[j].CY
		}
		return keys[i].CZ < keys[j].CZ
	})
	return keys
}

func (s *ChunkStore) GetBlock(pos storage.Vec3i) (uint16, uint8) {
	k, lx, ly, lz := splitPos(pos)
	ch, ok := s.chunks[k]
	if !ok {
		return s.air, 0
	}
	return ch.Get(lx, ly, lz)
}

func (s *ChunkStore) SetBlock(pos storage.Vec3i, b uint16, data uint8) {
	k, lx, ly, lz := splitPos(pos)
	ch, ok := s.chunks[k]
	if !ok {
		if b == s.air && data == 0 {
			return
		}
		ch = s.newChunk(k)
	}
	ch.Set(lx, ly, lz, b, data)
}

func (s *ChunkStore) newChunk(k ChunkKey) *Chunk {
	n := chunkSize * chunkSize * chunkSize
	ch := &Chunk{
		CX:     k.CX,
		CY:     k.CY,
		CZ:     k.CZ,
		Blocks: make([]uint16, n),
		Data:   make([]uint8, n),
		dirty:  true,
	}
	if s.air != 0 {
		for i := range ch.Blocks {
			ch.Blocks[i] = s.air
		}
	}
	s.chunks[k] = ch
	return ch
}

func splitPos(pos storage.Vec3i) (ChunkKey, int, int, int) {
	k := ChunkKey{
		CX: floorDiv(pos.X, chunkSize),
		CY: floorDiv(pos.Y, chunkSize),
		CZ: floorDiv(pos.Z, chunkSize),
	}
	return k, mod(pos.X, chunkSize), mod(pos.Y, chunkSize), mod(pos.Z, chunkSize)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

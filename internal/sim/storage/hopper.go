package storage

// Transfer records one item move made by CheckHoppers.
type Transfer struct {
	From  Vec3i
	To    Vec3i
	Item  int
	Count int
}

// hopperFacing is the data value of a hopper on side of a tile that points
// back at the tile: side + (-1)^side.
func hopperFacing(side Side) int {
	if side%2 == 0 {
		return int(side) + 1
	}
	return int(side) - 1
}

// CheckHoppers exchanges items between tile and adjacent hoppers. It runs
// only on ticks that are multiples of the hopper period. Hoppers on sides
// 1..5 facing the tile feed it; a hopper right below is fed by it.
func (r *Registry) CheckHoppers(w World, tile TileEntity, tick uint64) []Transfer {
	if tick%r.cfg.HopperPeriodTicks != 0 {
		return nil
	}
	pos := tile.Pos()
	storage := r.TileStorage(tile)
	var out []Transfer

	for side := SideUp; side <= SideWest; side++ {
		p := Neighbor(pos, side)
		b := w.Block(p)
		if b.ID != r.cfg.HopperBlockID || b.Data != hopperFacing(side) {
			continue
		}
		hopper := r.GetStorage(w, p)
		if hopper == nil {
			continue
		}
		if n, item := ExtractOneStack(storage, hopper, side, r.cfg.HopperTransferCount); n > 0 {
			out = append(out, Transfer{From: p, To: pos, Item: item, Count: n})
		}
	}

	below := Neighbor(pos, SideDown)
	if w.Block(below).ID == r.cfg.HopperBlockID {
		if hopper := r.GetStorage(w, below); hopper != nil {
			if n, item := ExtractOneStack(hopper, storage, SideDown, r.cfg.HopperTransferCount); n > 0 {
				out = append(out, Transfer{From: pos, To: below, Item: item, Count: n})
			}
		}
	}
	return out
}

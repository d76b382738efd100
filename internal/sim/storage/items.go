package storage

import "sort"

// PutItemToContainer inserts item into the storage behind dst through side.
func (r *Registry) PutItemToContainer(item *ItemStack, dst Source, side Side, maxCount int) int {
	s := r.NewStorage(dst)
	if s == nil || !side.ValidOrAny() {
		return 0
	}
	return s.AddItem(item, side, maxCount)
}

// PutItems spreads each item over containers, keyed by the side of the
// caller they sit on. Each container receives through the side facing the
// caller. Keys are visited in ascending order; keys outside 0..5 are skipped.
func (r *Registry) PutItems(items []*ItemStack, containers map[Side]Source) {
	sides := make([]Side, 0, len(containers))
	for side := range containers {
		if side.Valid() {
			sides = append(sides, side)
		}
	}
	sort.Slice(sides, func(i, j int) bool { return sides[i] < sides[j] })

	for _, item := range items {
		if item == nil {
			continue
		}
		for _, side := range sides {
			if item.Count <= 0 {
				break
			}
			r.PutItemToContainer(item, containers[side], side.Opposite(), Unbounded)
		}
	}
}

// ExtractItemsFromStorage moves items from output's slots facing inputSide
// into input, at most maxCount in total. With oneStack it stops after the
// first slot that moved anything.
func ExtractItemsFromStorage(input, output Storage, inputSide Side, maxCount int, oneStack bool) int {
	n, _ := extractItems(input, output, inputSide, maxCount, oneStack)
	return n
}

// ExtractOneStack is ExtractItemsFromStorage with oneStack set. It also
// returns the id of the item moved.
func ExtractOneStack(input, output Storage, inputSide Side, maxCount int) (count, itemID int) {
	return extractItems(input, output, inputSide, maxCount, true)
}

func extractItems(input, output Storage, inputSide Side, maxCount int, oneStack bool) (count, lastID int) {
	if input == nil || output == nil || maxCount <= 0 || !inputSide.ValidOrAny() {
		return 0, 0
	}
	for _, id := range output.GetOutputSlots(inputSide.Opposite()) {
		slot := output.GetSlot(id)
		if slot.ID <= 0 {
			continue
		}
		itemID := slot.ID
		added := input.AddItem(&slot, inputSide, maxCount-count)
		if added > 0 {
			count += added
			lastID = itemID
			output.SetSlot(id, slot)
			if oneStack || count >= maxCount {
				break
			}
		}
	}
	return count, lastID
}

// ExtractItemsFromContainer is ExtractItemsFromStorage over fresh handles.
func (r *Registry) ExtractItemsFromContainer(input, output Source, inputSide Side, maxCount int, oneStack bool) int {
	return ExtractItemsFromStorage(r.NewStorage(input), r.NewStorage(output), inputSide, maxCount, oneStack)
}

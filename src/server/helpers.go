package server

import "price-quoter/src/models"

// -----------------------------------------------------------------------------

// filterSlots copies state keeping only the listed slots. An empty list keeps
// every slot.
func filterSlots(state *models.MBoardState, slots []string) *models.MBoardState {
	out := *state
	if len(slots) == 0 {
		return &out
	}

	out.Slots = make(map[string]models.MSlotView, len(slots))
	for pos, v := range state.Slots {
		if contains(slots, pos) {
			out.Slots[pos] = v
		}
	}
	return &out
}

// -----------------------------------------------------------------------------

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

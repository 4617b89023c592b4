package server

import (
	"testing"

	"price-quoter/src/models"
)

func TestFilterSlots(t *testing.T) {
	state := &models.MBoardState{Type: "UPDATE", Slots: map[string]models.MSlotView{
		"top":    {Position: "top"},
		"bottom": {Position: "bottom"},
	}}

	if got := filterSlots(state, nil); len(got.Slots) != 2 {
		t.Errorf("empty filter kept %d slots", len(got.Slots))
	}
	got := filterSlots(state, []string{"bottom", "middle"})
	if len(got.Slots) != 1 || got.Slots["bottom"].Position != "bottom" {
		t.Errorf("filtered = %+v", got.Slots)
	}
	if len(state.Slots) != 2 {
		t.Error("filterSlots must not modify its input")
	}
}

func TestLatestCoalescesUpdates(t *testing.T) {
	queue := make(chan *models.MBoardState, 4)
	queue <- &models.MBoardState{Type: "UPDATE", Timestamp: 2}
	queue <- &models.MBoardState{Type: "UPDATE", Timestamp: 3}

	got, ok := latest(&models.MBoardState{Type: "UPDATE", Timestamp: 1}, queue)
	if !ok || got.Timestamp != 3 || len(queue) != 0 {
		t.Errorf("latest = %+v (ok=%v, queued=%d)", got, ok, len(queue))
	}

	queue <- &models.MBoardState{Type: "UPDATE", Timestamp: 5}
	got, _ = latest(&models.MBoardState{Type: "INITIAL", Timestamp: 4}, queue)
	if got.Type != "INITIAL" || len(queue) != 1 {
		t.Errorf("INITIAL skipped: %+v", got)
	}

	close(queue)
	<-queue
	got, ok = latest(&models.MBoardState{Type: "UPDATE", Timestamp: 6}, queue)
	if ok || got.Timestamp != 6 {
		t.Errorf("closed queue: %+v ok=%v", got, ok)
	}
}

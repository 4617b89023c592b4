package view

import (
	"sort"
	"sync"
	"time"

	"price-quoter/src/interfaces"
	"price-quoter/src/models"
)

// Board is the in-memory price panel: one container per slot position plus
// the loading overlays. Every change is pushed to the registered listeners.
type Board struct {
	mu               sync.RWMutex
	slots            map[string]models.MSlotView
	priceOverlay     bool
	overlayContainer bool
	viewportWidth    int

	listenersMu sync.RWMutex
	listeners   []func(models.MBoardState)
}

var _ interfaces.IPriceView = (*Board)(nil)

// -----------------------------------------------------------------------------

// NewBoard creates hidden containers for positions.
func NewBoard(positions []string, viewportWidth int) *Board {
	b := &Board{
		slots:            make(map[string]models.MSlotView, len(positions)),
		overlayContainer: true,
		viewportWidth:    viewportWidth,
	}
	for _, p := range positions {
		b.slots[p] = models.MSlotView{Position: p, Purchase: map[string]string{}}
	}
	return b
}

// -----------------------------------------------------------------------------
// IPriceView
// -----------------------------------------------------------------------------

func (b *Board) HasSlot(position string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.slots[position]
	return ok
}

func (b *Board) Slot(position string) (models.MSlotView, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.slots[position]
	if !ok {
		return models.MSlotView{}, false
	}
	return v.Clone(), true
}

// ApplySlot replaces an existing container. Unknown positions are ignored.
func (b *Board) ApplySlot(position string, view models.MSlotView) {
	b.update(func() bool {
		if _, ok := b.slots[position]; !ok {
			return false
		}
		view.Position = position
		b.slots[position] = view.Clone()
		return true
	})
}

func (b *Board) ShowPriceOverlay() {
	b.update(func() bool {
		changed := !b.priceOverlay
		b.priceOverlay = true
		return changed
	})
}

func (b *Board) HidePriceOverlay() {
	b.update(func() bool {
		changed := b.priceOverlay
		b.priceOverlay = false
		return changed
	})
}

func (b *Board) HideOverlayContainer() {
	b.update(func() bool {
		changed := b.overlayContainer
		b.overlayContainer = false
		return changed
	})
}

func (b *Board) ResetPriceMovement() {
	b.update(func() bool {
		changed := false
		for pos, v := range b.slots {
			if v.Stake.Movement != models.MovementNone || v.Payout.Movement != models.MovementNone {
				v.Stake.Movement = models.MovementNone
				v.Payout.Movement = models.MovementNone
				b.slots[pos] = v
				changed = true
			}
		}
		return changed
	})
}

func (b *Board) ViewportWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.viewportWidth
}

// -----------------------------------------------------------------------------

// SetViewportWidth records the width reported by the client.
func (b *Board) SetViewportWidth(width int) {
	if width <= 0 {
		return
	}
	b.mu.Lock()
	b.viewportWidth = width
	b.mu.Unlock()
}

// Positions lists the slot positions in sorted order.
func (b *Board) Positions() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.slots))
	for p := range b.slots {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Snapshot returns a deep copy of the board tagged with kind.
func (b *Board) Snapshot(kind string) models.MBoardState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshotLocked(kind)
}

func (b *Board) snapshotLocked(kind string) models.MBoardState {
	slots := make(map[string]models.MSlotView, len(b.slots))
	for p, v := range b.slots {
		slots[p] = v.Clone()
	}
	return models.MBoardState{
		Type:             kind,
		PriceOverlay:     b.priceOverlay,
		OverlayContainer: b.overlayContainer,
		Slots:            slots,
		Timestamp:        time.Now().UnixMilli(),
	}
}

// -----------------------------------------------------------------------------
// Listeners
// -----------------------------------------------------------------------------

// OnChange registers fn to receive a snapshot after every change. fn runs on
// the mutating goroutine and must not block.
func (b *Board) OnChange(fn func(models.MBoardState)) {
	b.listenersMu.Lock()
	b.listeners = append(b.listeners, fn)
	b.listenersMu.Unlock()
}

func (b *Board) update(mutate func() bool) {
	b.mu.Lock()
	if !mutate() {
		b.mu.Unlock()
		return
	}
	state := b.snapshotLocked("UPDATE")
	b.mu.Unlock()

	b.listenersMu.RLock()
	listeners := b.listeners
	b.listenersMu.RUnlock()
	for _, fn := range listeners {
		fn(state)
	}
}

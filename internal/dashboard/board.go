package dashboard

import (
	"slices"
	"sync"
	"time"

	"github.com/Iron-Ham/moyu/internal/calendar"
	"github.com/Iron-Ham/moyu/internal/event"
)

// Snapshot is a consistent copy of every written slot.
type Snapshot struct {
	Slots     []Slot    `json:"slots"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Slot returns the slot with the given name from the snapshot.
func (s Snapshot) Slot(name string) (Slot, bool) {
	for _, slot := range s.Slots {
		if slot.Name == name {
			return slot, true
		}
	}
	return Slot{}, false
}

// Board holds all dashboard slots. It is constructed once and shared by
// the refresher and every surface. It is safe for concurrent use; each
// write replaces a whole slot.
type Board struct {
	mu      sync.RWMutex
	slots   map[string]Slot
	order   []string
	updated time.Time
	bus     *event.Bus
}

// NewBoard creates an empty board whose slots are ordered for targets.
// Writes are announced on bus as event.SlotUpdatedEvent; a nil bus gets a
// private one.
func NewBoard(targets []calendar.Target, bus *event.Bus) *Board {
	if bus == nil {
		bus = event.NewBus(nil)
	}
	return &Board{
		slots: make(map[string]Slot),
		order: SlotOrder(targets),
		bus:   bus,
	}
}

// Bus returns the bus the board announces writes on.
func (b *Board) Bus() *event.Bus {
	return b.bus
}

// Publish overwrites the slot named slot.Name. Slots with names outside
// the board's order are kept and listed last.
func (b *Board) Publish(slot Slot) {
	slot = slot.clone()
	if slot.UpdatedAt.IsZero() {
		slot.UpdatedAt = time.Now()
	}

	b.mu.Lock()
	if !slices.Contains(b.order, slot.Name) {
		b.order = append(b.order, slot.Name)
	}
	b.slots[slot.Name] = slot
	if slot.UpdatedAt.After(b.updated) {
		b.updated = slot.UpdatedAt
	}
	b.mu.Unlock()

	b.bus.Publish(event.NewSlotUpdatedEvent(slot.Name, slot.Visible))
}

// Get returns the current value of a slot.
func (b *Board) Get(name string) (Slot, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	slot, ok := b.slots[name]
	if !ok {
		return Slot{}, false
	}
	return slot.clone(), true
}

// Snapshot returns every written slot in display order.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snap := Snapshot{
		Slots:     make([]Slot, 0, len(b.slots)),
		UpdatedAt: b.updated,
	}
	for _, name := range b.order {
		if slot, ok := b.slots[name]; ok {
			snap.Slots = append(snap.Slots, slot.clone())
		}
	}
	return snap
}

// Names returns every slot name the board knows, written or not, in
// display order.
func (b *Board) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.order)
}

// Subscribe calls fn with the new value after every slot write, on the
// writing goroutine. It returns an ID for Unsubscribe.
func (b *Board) Subscribe(fn func(Slot)) string {
	return b.bus.Subscribe(event.TypeSlotUpdated, func(e event.Event) {
		updated, ok := e.(event.SlotUpdatedEvent)
		if !ok {
			return
		}
		if slot, ok := b.Get(updated.Slot); ok {
			fn(slot)
		}
	})
}

// Unsubscribe removes a subscription made with Subscribe.
func (b *Board) Unsubscribe(id string) bool {
	return b.bus.Unsubscribe(id)
}

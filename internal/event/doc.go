// Package event provides a pub-sub event bus that tells the surfaces of
// moyu (terminal UI, HTTP server) when the dashboard changed, without
// the refresher knowing who is listening.
//
// # Main Types
//
//   - [Event]: Interface that all events implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub dispatcher, safe for concurrent use
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Events
//
//   - [SlotUpdatedEvent]: a slot was overwritten on the board
//   - [RefreshCompletedEvent]: a refresh pass finished its synchronous work
//   - [FetchFailedEvent]: the joke provider failed and the fallback was shown
//   - [ConfigReloadedEvent]: the config file changed on disk
//
// # Thread Safety
//
// Handlers run on the publishing goroutine, which for slot updates may be
// the tick loop or a fetch goroutine. Handlers must not block. A
// panicking handler is logged and does not prevent other handlers from
// being called.
//
// # Basic Usage
//
//	bus := event.NewBus(logger)
//
//	bus.Subscribe(event.TypeSlotUpdated, func(e event.Event) {
//	    updated := e.(event.SlotUpdatedEvent)
//	    program.Send(tui.SlotUpdatedMsg{Slot: updated.Slot})
//	})
//
//	id := bus.SubscribeAll(func(e event.Event) {
//	    logger.Debug("event", "type", e.EventType())
//	})
//	defer bus.Unsubscribe(id)
package event

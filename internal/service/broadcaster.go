package service

// Real-time event kinds fanned out to a list's room after a successful item
// mutation. Lists and memberships are not broadcast.
const (
	EventItemCreated = "item-created"
	EventItemUpdated = "item-updated"
	EventItemDeleted = "item-deleted"
)

// Broadcaster is the fan-out capability injected into the item service.
// Delivery is best effort: Emit never fails and never blocks the mutation
// that triggered it. Emission happens only after the persistence write
// committed, so subscribers never observe unpersisted state.
type Broadcaster interface {
	Emit(listID, event string, payload any)
}

// NopBroadcaster discards all events. Useful in tests and tools that run the
// pipeline without live connections.
type NopBroadcaster struct{}

func (NopBroadcaster) Emit(listID, event string, payload any) {}

package snapshotv1

// Receiver consumes point-in-time snapshots. A single connected observer
// implements this.
type Receiver interface {
	Send(snap Snapshot)
}

// Broadcaster fans a snapshot out to every currently connected observer.
// Delivery is best effort: an observer that cannot receive is dropped, not
// retried.
type Broadcaster interface {
	Broadcast(snap Snapshot)
}

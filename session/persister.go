package session

// Persister saves the session state so it survives a restart of the client.
type Persister interface {
	// Load returns the saved snapshot. found is false when nothing has been
	// saved yet.
	Load() (snapshot Snapshot, found bool, err error)

	// Save replaces the saved snapshot.
	Save(snapshot Snapshot) error
}

// NoopPersister keeps nothing.
var NoopPersister Persister = noopPersister{}

type noopPersister struct{}

func (noopPersister) Load() (Snapshot, bool, error) { return Snapshot{}, false, nil }
func (noopPersister) Save(Snapshot) error           { return nil }

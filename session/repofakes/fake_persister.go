package sessionrepofakes

import (
	"errors"
	"sync"

	"github.com/jrsteele09/go-portfolio-client/session"
)

var _ session.Persister = (*FakePersister)(nil)

// FakePersister is an in-memory session.Persister that records every save.
type FakePersister struct {
	lock     sync.Mutex
	snapshot *session.Snapshot
	saves    []session.Snapshot
	loadErr  error
	saveErr  error
}

func NewFakePersister() *FakePersister {
	return &FakePersister{}
}

// NewFakePersisterWith returns a persister that already holds snapshot.
func NewFakePersisterWith(snapshot session.Snapshot) *FakePersister {
	return &FakePersister{snapshot: &snapshot}
}

// FailLoad makes the next Load calls return err.
func (p *FakePersister) FailLoad(err error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.loadErr = err
}

// FailSave makes the next Save calls return err without storing anything.
func (p *FakePersister) FailSave(err error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.saveErr = err
}

func (p *FakePersister) Load() (session.Snapshot, bool, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.loadErr != nil {
		return session.Snapshot{}, false, p.loadErr
	}
	if p.snapshot == nil {
		return session.Snapshot{}, false, nil
	}
	return *p.snapshot, true, nil
}

func (p *FakePersister) Save(snapshot session.Snapshot) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.saveErr != nil {
		return p.saveErr
	}
	p.snapshot = &snapshot
	p.saves = append(p.saves, snapshot)
	return nil
}

// Saved returns the last saved snapshot.
func (p *FakePersister) Saved() (session.Snapshot, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.snapshot == nil {
		return session.Snapshot{}, errors.New("not found")
	}
	return *p.snapshot, nil
}

// SaveCount returns how many times Save succeeded.
func (p *FakePersister) SaveCount() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.saves)
}

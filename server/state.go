package server

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jrsteele09/go-portfolio-client/model"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const timestampLayout = "2006-01-02T15:04:05"

func timestamp() string {
	return NowTimeFunc().Format(timestampLayout)
}

// profileState holds the single profile record.
type profileState struct {
	mu      sync.RWMutex
	profile *model.Profile
}

func (p *profileState) get() (model.Profile, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.profile == nil {
		return model.Profile{}, false
	}
	return *p.profile, true
}

func (p *profileState) set(profile model.Profile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if profile.ID == "" {
		profile.ID = "profile"
	}
	p.profile = &profile
}

// update applies fn to the stored profile, creating an empty one first.
func (p *profileState) update(fn func(*model.Profile)) model.Profile {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.profile == nil {
		p.profile = &model.Profile{ID: "profile"}
	}
	fn(p.profile)
	return *p.profile
}

type resumeFile struct {
	meta model.ResumeMetadata
	data []byte
}

// resumeState holds the active CV, if any.
type resumeState struct {
	mu     sync.RWMutex
	active *resumeFile
}

func (r *resumeState) get() (*resumeFile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active, r.active != nil
}

func (r *resumeState) replace(f *resumeFile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = f
}

func (r *resumeState) remove() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	existed := r.active != nil
	r.active = nil
	return existed
}

type storedImage struct {
	contentType string
	data        []byte
}

type imageStore struct {
	mu     sync.RWMutex
	images map[string]storedImage
}

func newImageStore() *imageStore {
	return &imageStore{images: make(map[string]storedImage)}
}

func (s *imageStore) put(name string, img storedImage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[name] = img
}

func (s *imageStore) get(name string) (storedImage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.images[name]
	return img, ok
}

// counters feed the dashboard.
type counters struct {
	views     atomic.Int64
	downloads atomic.Int64
}

package esign

import "sync"

// Popup is the authorization window the agent completes the provider login in
type Popup interface {
	Open(url string) error
	Close()
	Closed() bool
}

// TrackedPopup records the popup state on the server. The browser opens the window
// from URL() and closes it once the session reports it closed.
type TrackedPopup struct {
	mu     sync.Mutex
	url    string
	opened bool
	closed bool
}

func NewTrackedPopup() *TrackedPopup {
	return &TrackedPopup{}
}

func (p *TrackedPopup) Open(url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
	p.opened = true
	p.closed = false
	return nil
}

func (p *TrackedPopup) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

// Closed reports whether the window is not currently open
func (p *TrackedPopup) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.opened || p.closed
}

func (p *TrackedPopup) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

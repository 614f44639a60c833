// Package page binds the ranking controller to a page: a real browser
// document when built for js/wasm, or an in-memory page elsewhere.
package page

import "sync"

// Headless is an in-memory page holding the ranking container's markup and
// the menu toggle state.
type Headless struct {
	mu      sync.Mutex
	html    string
	checked bool
	writes  int
}

func NewHeadless(menuChecked bool) *Headless {
	return &Headless{checked: menuChecked}
}

func (p *Headless) SetHTML(html string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.html = html
	p.writes++
}

func (p *Headless) HTML() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.html
}

// Writes counts SetHTML calls.
func (p *Headless) Writes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writes
}

func (p *Headless) SetChecked(checked bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.checked = checked
}

func (p *Headless) Checked() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.checked
}

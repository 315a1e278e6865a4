package register

import (
	"errors"
	"sync"
)

// Display is the page element that shows the server's answer.
type Display interface {
	SetText(text string)
	Show()
}

// RenderResponse writes text into d and makes it visible.
func RenderResponse(d Display, text string) {
	d.SetText(text)
	d.Show()
}

// RenderError writes a failure message into d and makes it visible.
func RenderError(d Display, err error) {
	RenderResponse(d, ErrorText(err))
}

// ErrorText picks the message shown for a failed submit: the server's
// "error" field when it sent one, the error itself otherwise.
func ErrorText(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return statusErr.Message
	}
	return err.Error()
}

// MemoryDisplay records what was rendered. Safe for concurrent use.
type MemoryDisplay struct {
	mu      sync.Mutex
	text    string
	visible bool
	renders int
}

// SetText stores text and counts the render.
func (d *MemoryDisplay) SetText(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text = text
	d.renders++
}

// Show marks the display visible.
func (d *MemoryDisplay) Show() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.visible = true
}

// Text is the last text set.
func (d *MemoryDisplay) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text
}

// Visible reports whether Show was called.
func (d *MemoryDisplay) Visible() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visible
}

// Renders counts SetText calls.
func (d *MemoryDisplay) Renders() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.renders
}

package register

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"mangiato/internal/logger"
	"mangiato/internal/models"
)

// Event is a submit interaction.
type Event interface {
	PreventDefault()
}

// Form is anything that reports submit interactions.
type Form interface {
	OnSubmit(fn func(Event))
}

// FormSubmitHandler turns each submit into one asynchronous registration
// request. Submits are never merged or suppressed; the display ends up with
// whichever response completed last.
type FormSubmitHandler struct {
	cfg     Config
	fields  FieldSource
	client  *Client
	display Display
	log     *zap.Logger

	renderMu sync.Mutex
	inflight sync.WaitGroup
	failures atomic.Int64
}

// NewFormSubmitHandler wires a handler; log may be nil.
func NewFormSubmitHandler(cfg Config, fields FieldSource, client *Client, display Display, log *zap.Logger) *FormSubmitHandler {
	return &FormSubmitHandler{
		cfg:     cfg,
		fields:  fields,
		client:  client,
		display: display,
		log:     logger.OrNop(log),
	}
}

// Mount binds h to every form. It replaces the page-ready hook and must be
// called once, after the forms exist.
func Mount(forms []Form, h *FormSubmitHandler) {
	for _, f := range forms {
		f.OnSubmit(h.HandleSubmit)
	}
}

// HandleSubmit snapshots the fields and dispatches the request. It returns
// without waiting for the response.
func (h *FormSubmitHandler) HandleSubmit(ev Event) {
	if h.cfg.PreventDefault && ev != nil {
		ev.PreventDefault()
	}

	payload := BuildRequestPayload(h.fields)

	h.inflight.Add(1)
	go func() {
		defer h.inflight.Done()
		h.submit(payload)
	}()
}

// Wait blocks until every dispatched submit has completed.
func (h *FormSubmitHandler) Wait() {
	h.inflight.Wait()
}

// Failures counts submits that ended in a transport or status error,
// whether or not they were shown.
func (h *FormSubmitHandler) Failures() int64 {
	return h.failures.Load()
}

func (h *FormSubmitHandler) submit(payload models.RegistrationRequest) {
	ctx := context.Background()
	if h.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.Timeout)
		defer cancel()
	}

	res, err := h.client.Submit(ctx, payload)
	if err != nil {
		h.failures.Add(1)
		h.log.Warn("registration_failed", zap.String("username", payload.Username), zap.Error(err))
		if h.cfg.ShowErrors {
			h.render(func() { RenderError(h.display, err) })
		}
		return
	}

	if !res.HasText {
		h.log.Debug("registration_response_empty", zap.Int("status", res.Status))
		return
	}
	h.render(func() { RenderResponse(h.display, res.Text) })
}

func (h *FormSubmitHandler) render(fn func()) {
	h.renderMu.Lock()
	defer h.renderMu.Unlock()
	fn()
}

package httpform

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-webform/pkg/respond"
)

// Responder lets a success handler answer a submission. Once a response
// halts (any async answer, or a synchronous redirect) later calls are
// no-ops and nothing more is written.
type Responder struct {
	w          http.ResponseWriter
	r          *http.Request
	dispatcher *respond.Dispatcher
	logger     *zap.Logger
	async      bool

	halted   bool
	flashKey string
}

func newResponder(w http.ResponseWriter, r *http.Request, d *respond.Dispatcher, async bool, logger *zap.Logger) *Responder {
	return &Responder{w: w, r: r, dispatcher: d, async: async, logger: logger}
}

// Redirect navigates the client to url.
func (p *Responder) Redirect(url string) error {
	return p.apply(p.r.Context(), respond.RedirectTo(url))
}

// Message shows text above the form. Synchronously the message is stored as
// a flash and shown after the redirect that follows.
func (p *Responder) Message(text string, classes ...string) error {
	return p.apply(p.r.Context(), respond.ShowMessage(text, classes...))
}

// Refresh reloads the page. Synchronously the form is rendered afresh.
func (p *Responder) Refresh() error {
	return p.apply(p.r.Context(), respond.RefreshPage())
}

// Async reports whether the submission came from the client script.
func (p *Responder) Async() bool { return p.async }

// Halted reports whether a response was written.
func (p *Responder) Halted() bool { return p.halted }

func (p *Responder) apply(ctx context.Context, action respond.Action) error {
	if p.halted {
		return nil
	}
	effect, err := p.dispatcher.Respond(ctx, action, p.async)
	if err != nil {
		return err
	}
	switch effect.Kind {
	case respond.EffectWrite:
		writeEnvelope(p.w, effect.Envelope, p.logger)
	case respond.EffectRedirect:
		http.Redirect(p.w, p.r, effect.URL, http.StatusSeeOther)
	case respond.EffectFlash:
		p.flashKey = effect.FlashKey
	}
	if effect.Halts() {
		p.halted = true
	}
	return nil
}

package respond

import (
	"context"
	"fmt"

	"github.com/goliatone/go-webform/pkg/validation"
)

// EffectKind tells the caller what to do next.
type EffectKind int

const (
	// EffectNone means carry on: render normally or run the success handler.
	EffectNone EffectKind = iota
	// EffectRerender means render the form again with the result's errors.
	EffectRerender
	// EffectWrite means write Envelope as JSON and stop.
	EffectWrite
	// EffectRedirect means issue an HTTP redirect to URL and stop.
	EffectRedirect
	// EffectFlash means a message was stored under FlashKey for the next
	// render.
	EffectFlash
)

func (k EffectKind) String() string {
	switch k {
	case EffectRerender:
		return "rerender"
	case EffectWrite:
		return "write"
	case EffectRedirect:
		return "redirect"
	case EffectFlash:
		return "flash"
	default:
		return "none"
	}
}

// Effect is the dispatcher's instruction to the host glue.
type Effect struct {
	Kind     EffectKind
	Envelope Envelope
	URL      string
	FlashKey string
}

// Halts reports whether nothing else may be written after the effect.
func (e Effect) Halts() bool {
	return e.Kind == EffectWrite || e.Kind == EffectRedirect
}

// ActionKind names an explicit response action.
type ActionKind string

const (
	ActionRedirect ActionKind = "redirect"
	ActionMessage  ActionKind = "message"
	ActionRefresh  ActionKind = "refresh"
)

// Action is an explicit response requested by the success handler.
type Action struct {
	Kind  ActionKind
	URL   string
	Text  string
	Class string
}

// RedirectTo builds a redirect action.
func RedirectTo(url string) Action {
	return Action{Kind: ActionRedirect, URL: url}
}

// ShowMessage builds a message action. Multiple classes are joined.
func ShowMessage(text string, classes ...string) Action {
	return Action{Kind: ActionMessage, Text: text, Class: JoinClasses(classes...)}
}

// RefreshPage builds a refresh action.
func RefreshPage() Action {
	return Action{Kind: ActionRefresh}
}

// Dispatcher maps verdicts and actions to effects.
type Dispatcher struct {
	flash FlashStore
}

// NewDispatcher constructs a dispatcher. A nil store gets an in-memory one.
func NewDispatcher(flash FlashStore) *Dispatcher {
	if flash == nil {
		flash = NewMemoryFlashStore(DefaultFlashTTL)
	}
	return &Dispatcher{flash: flash}
}

// Flash exposes the store so render passes can consume messages.
func (d *Dispatcher) Flash() FlashStore {
	return d.flash
}

// Verdict handles the validator's result. Valid and not-submitted results
// yield EffectNone.
func (d *Dispatcher) Verdict(result *validation.Result, async bool) Effect {
	if result == nil || !result.Submitted() || result.Valid() {
		return Effect{Kind: EffectNone}
	}
	if async {
		return Effect{Kind: EffectWrite, Envelope: FromResult(result)}
	}
	return Effect{Kind: EffectRerender}
}

// Respond handles an explicit action.
func (d *Dispatcher) Respond(ctx context.Context, action Action, async bool) (Effect, error) {
	env, err := envelopeFor(action)
	if err != nil {
		return Effect{}, err
	}
	if async {
		return Effect{Kind: EffectWrite, Envelope: env}, nil
	}
	switch action.Kind {
	case ActionRedirect:
		return Effect{Kind: EffectRedirect, URL: action.URL, Envelope: env}, nil
	case ActionMessage:
		key, err := d.flash.Put(ctx, env.(Message))
		if err != nil {
			return Effect{}, fmt.Errorf("respond: store flash: %w", err)
		}
		return Effect{Kind: EffectFlash, FlashKey: key, Envelope: env}, nil
	default:
		return Effect{Kind: EffectNone, Envelope: env}, nil
	}
}

func envelopeFor(action Action) (Envelope, error) {
	switch action.Kind {
	case ActionRedirect:
		if action.URL == "" {
			return nil, fmt.Errorf("respond: redirect requires a url")
		}
		return Redirect{URL: action.URL}, nil
	case ActionMessage:
		return Message{Text: action.Text, Class: action.Class}, nil
	case ActionRefresh:
		return Refresh{}, nil
	default:
		return nil, fmt.Errorf("respond: unknown action %q", action.Kind)
	}
}

package respond

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-webform/pkg/validation"
)

func invalidResult() *validation.Result {
	result := &validation.Result{State: validation.Valid}
	result.AddError("email", "Please enter a valid email")
	return result
}

func TestVerdict(t *testing.T) {
	d := NewDispatcher(nil)

	require.Equal(t, EffectNone, d.Verdict(&validation.Result{State: validation.NotSubmitted}, true).Kind)
	require.Equal(t, EffectNone, d.Verdict(&validation.Result{State: validation.Valid}, false).Kind)
	require.Equal(t, EffectRerender, d.Verdict(invalidResult(), false).Kind)

	effect := d.Verdict(invalidResult(), true)
	require.Equal(t, EffectWrite, effect.Kind)
	require.True(t, effect.Halts())
	body, err := json.Marshal(effect.Envelope)
	require.NoError(t, err)
	require.JSONEq(t, `{"errors":{"email":"Please enter a valid email"},"messages":[]}`, string(body))
}

func TestAsyncRedirect(t *testing.T) {
	d := NewDispatcher(nil)
	effect, err := d.Respond(context.Background(), RedirectTo("/thanks"), true)
	require.NoError(t, err)
	require.Equal(t, EffectWrite, effect.Kind)
	require.True(t, effect.Halts())

	body, err := json.Marshal(effect.Envelope)
	require.NoError(t, err)
	require.Equal(t, `{"respond":{"redirect":"/thanks"}}`, string(body))
}

func TestSyncActions(t *testing.T) {
	d := NewDispatcher(nil)
	ctx := context.Background()

	redirect, err := d.Respond(ctx, RedirectTo("/thanks"), false)
	require.NoError(t, err)
	require.Equal(t, EffectRedirect, redirect.Kind)
	require.Equal(t, "/thanks", redirect.URL)
	require.True(t, redirect.Halts())

	refresh, err := d.Respond(ctx, RefreshPage(), false)
	require.NoError(t, err)
	require.Equal(t, EffectNone, refresh.Kind)
	require.False(t, refresh.Halts())

	message, err := d.Respond(ctx, ShowMessage("Thanks", "notice", "success"), false)
	require.NoError(t, err)
	require.Equal(t, EffectFlash, message.Kind)
	require.NotEmpty(t, message.FlashKey)

	got, ok := d.Flash().Take(ctx, message.FlashKey)
	require.True(t, ok)
	require.Equal(t, Message{Text: "Thanks", Class: "notice success"}, got)

	_, ok = d.Flash().Take(ctx, message.FlashKey)
	require.False(t, ok, "flash must be read once")
}

func TestRespondRejectsBadActions(t *testing.T) {
	d := NewDispatcher(nil)
	_, err := d.Respond(context.Background(), Action{Kind: "dance"}, true)
	require.Error(t, err)
	_, err = d.Respond(context.Background(), RedirectTo(""), false)
	require.Error(t, err)
}

func TestFlashExpires(t *testing.T) {
	store := NewMemoryFlashStore(10 * time.Millisecond)
	key, err := store.Put(context.Background(), Message{Text: "x"})
	require.NoError(t, err)
	time.Sleep(30 * time.Millisecond)
	_, ok := store.Take(context.Background(), key)
	require.False(t, ok)
}

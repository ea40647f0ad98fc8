package csrf

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type sessionKey struct{}

func TestIssueAndVerify(t *testing.T) {
	h, err := NewHMAC([]byte("secret"))
	require.NoError(t, err)

	ctx := context.Background()
	token, err := h.Issue(ctx, "contact")
	require.NoError(t, err)
	require.NoError(t, h.Verify(ctx, "contact", token))

	require.ErrorIs(t, h.Verify(ctx, "newsletter", token), ErrInvalidToken)
	require.ErrorIs(t, h.Verify(ctx, "contact", token+"x"), ErrInvalidToken)
	require.ErrorIs(t, h.Verify(ctx, "contact", ""), ErrInvalidToken)
	require.ErrorIs(t, h.Verify(ctx, "contact", "a.b.c"), ErrInvalidToken)
}

func TestTokensDifferPerIssue(t *testing.T) {
	h, _ := NewHMAC([]byte("secret"))
	first, _ := h.Issue(context.Background(), "contact")
	second, _ := h.Issue(context.Background(), "contact")
	require.NotEqual(t, first, second)
	require.Equal(t, 3, len(strings.Split(first, ".")))
}

func TestExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	h, _ := NewHMAC([]byte("secret"), WithTTL(time.Minute), WithClock(func() time.Time { return now }))
	token, _ := h.Issue(context.Background(), "contact")

	now = now.Add(30 * time.Second)
	require.NoError(t, h.Verify(context.Background(), "contact", token))

	now = now.Add(time.Minute)
	require.ErrorIs(t, h.Verify(context.Background(), "contact", token), ErrInvalidToken)
}

func TestBinding(t *testing.T) {
	h, _ := NewHMAC([]byte("secret"), WithBinding(func(ctx context.Context) string {
		value, _ := ctx.Value(sessionKey{}).(string)
		return value
	}))
	alice := context.WithValue(context.Background(), sessionKey{}, "alice")
	bob := context.WithValue(context.Background(), sessionKey{}, "bob")

	token, _ := h.Issue(alice, "contact")
	require.NoError(t, h.Verify(alice, "contact", token))
	require.ErrorIs(t, h.Verify(bob, "contact", token), ErrInvalidToken)
}

func TestNewHMACRequiresSecret(t *testing.T) {
	_, err := NewHMAC(nil)
	require.Error(t, err)
}

func TestStatic(t *testing.T) {
	s := Static{Token: "tok"}
	require.Equal(t, DefaultFieldName, s.FieldName())
	require.NoError(t, s.Verify(context.Background(), "x", "tok"))
	require.ErrorIs(t, s.Verify(context.Background(), "x", "nope"), ErrInvalidToken)
}

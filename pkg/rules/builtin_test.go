package rules

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func run(t *testing.T, name, value, param string) (bool, string) {
	t.Helper()
	rule, ok := Default().Get(name)
	require.True(t, ok, "rule %s should be registered", name)
	return rule.Func(Input{Field: "f", Value: value, Present: true, Param: param})
}

func TestMinLengthIsExclusive(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"abcd", false},
		{"abcde", false},
		{"abcdef", true},
	}
	for _, tc := range cases {
		ok, msg := run(t, MinLength, tc.value, "5")
		require.Equal(t, tc.want, ok, "min_length(5) on %q", tc.value)
		if !ok {
			require.Equal(t, "Minimum length: 5 characters", msg)
		}
	}
}

func TestMaxLengthIsExclusive(t *testing.T) {
	ok, _ := run(t, MaxLength, "abcd", "5")
	require.True(t, ok)
	ok, msg := run(t, MaxLength, "abcde", "5")
	require.False(t, ok)
	require.Equal(t, "Maximum length: 5 characters", msg)
}

func TestLengthCountsRunes(t *testing.T) {
	ok, _ := run(t, MinLength, "ñandú", "4")
	require.True(t, ok)
	ok, _ = run(t, MaxLength, "ñandú", "6")
	require.True(t, ok)
}

func TestRequired(t *testing.T) {
	rule, _ := Default().Get(Required)
	ok, msg := rule.Func(Input{Field: "f"})
	require.False(t, ok)
	require.Equal(t, "This field is required", msg)

	ok, _ = rule.Func(Input{Field: "f", Present: true, Value: ""})
	require.False(t, ok)

	ok, _ = rule.Func(Input{Field: "f", Present: true, Value: "x"})
	require.True(t, ok)
}

func TestEmail(t *testing.T) {
	valid := []string{"ada@example.com", "first.last+tag@sub.example.org"}
	invalid := []string{"not-an-email", "Ada <ada@example.com>", "ada@localhost", "@example.com", ""}

	for _, value := range valid {
		ok, _ := run(t, Email, value, "")
		require.True(t, ok, "expected %q to be valid", value)
	}
	for _, value := range invalid {
		ok, msg := run(t, Email, value, "")
		require.False(t, ok, "expected %q to be invalid", value)
		require.Equal(t, "Please enter a valid email", msg)
	}
}

func TestNumberStripsNonDigits(t *testing.T) {
	ok, _ := run(t, Number, "+1 (555) 010", "")
	require.True(t, ok)
	ok, msg := run(t, Number, "abc", "")
	require.False(t, ok)
	require.Equal(t, "This must be a number.", msg)
}

func TestDateBoundsAreStrict(t *testing.T) {
	ok, _ := run(t, MinDate, "2024-01-01", "2024-01-01")
	require.False(t, ok)
	ok, _ = run(t, MinDate, "2024-01-02", "2024-01-01")
	require.True(t, ok)
	ok, msg := run(t, MaxDate, "2024-01-01", "2024-01-01")
	require.False(t, ok)
	require.Equal(t, "Date must be before 2024-01-01", msg)
	ok, _ = run(t, MaxDate, "12/31/2023", "2024-01-01")
	require.True(t, ok)
	ok, _ = run(t, MinDate, "yesterday", "2024-01-01")
	require.False(t, ok)
}

func TestPattern(t *testing.T) {
	ok, _ := run(t, Pattern, "AB-12", `^[A-Z]{2}-\d+$`)
	require.True(t, ok)
	ok, msg := run(t, Pattern, "ab-12", `^[A-Z]{2}-\d+$`)
	require.False(t, ok)
	require.Equal(t, "Invalid format", msg)
}

func TestRegistryCheck(t *testing.T) {
	reg := Default()
	require.NoError(t, reg.Check(MinLength, "5"))
	require.Error(t, reg.Check(MinLength, "five"))
	require.Error(t, reg.Check(MinDate, "soon"))
	require.Error(t, reg.Check(Pattern, "("))
	require.Error(t, reg.Check("no_such_rule", ""))
	require.NoError(t, reg.Check(Email, ""))
}

func TestRegisterCustomRule(t *testing.T) {
	reg := Default()
	require.NoError(t, reg.RegisterFunc("lowercase", func(in Input) (bool, string) {
		return strings.ToLower(in.Value) == in.Value, "Use lowercase"
	}))
	require.True(t, reg.Has("lowercase"))
	require.Contains(t, reg.List(), "lowercase")
	require.Error(t, reg.RegisterFunc("", nil))
}

func TestMinLengthBoundaryProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 32).Draw(rt, "n")
		size := rapid.IntRange(0, 40).Draw(rt, "size")
		value := strings.Repeat("x", size)
		rule, _ := Default().Get(MinLength)
		ok, _ := rule.Func(Input{Value: value, Present: true, Param: strconv.Itoa(n)})
		if ok != (size > n) {
			rt.Fatalf("min_length(%d) on length %d returned %v", n, size, ok)
		}
	})
}

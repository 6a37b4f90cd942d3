package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/matchq/internal/match"
)

func TestString_NilIsNoFilter(t *testing.T) {
	p, err := String[invoice](nil, customer)
	require.NoError(t, err)
	assert.True(t, p.IsNoFilter())
}

func TestString_CaseInsensitiveExact(t *testing.T) {
	p, err := String(match.Exact("ABC"), customer)
	require.NoError(t, err)
	requireValid(t, p)
	assert.Equal(t, `x => (lower(x.customer) == lower("ABC"))`, p.String())

	for _, v := range []string{"abc", "Abc", "ABC"} {
		assert.True(t, matches(t, p, invoice{Customer: v}), v)
	}
	assert.False(t, matches(t, p, invoice{Customer: "abcd"}))
	assert.False(t, matches(t, p, invoice{Customer: ""}))
}

func TestString_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		m     *match.StringMatch
		value string
		want  bool
	}{
		{"prefix hit", match.StartsWith("ac"), "ACME Corp", true},
		{"prefix miss", match.StartsWith("corp"), "ACME Corp", false},
		{"substring hit", match.Contains("E C"), "acme corp", true},
		{"substring miss", match.Contains("inc"), "acme corp", false},
		{"empty prefix matches all", match.StartsWith(""), "anything", true},
		{"empty exact matches empty", match.Exact(""), "", true},
		{"accented fold", match.Exact("ÉCOLE"), "école", true},
		{"composed vs decomposed", match.Contains("CAF\u00c9"), "le cafe\u0301", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := String(tt.m, customer)
			require.NoError(t, err)
			assert.Equal(t, tt.want, matches(t, p, invoice{Customer: tt.value}))
		})
	}
}

func TestString_NullFieldNeverMatches(t *testing.T) {
	for _, m := range []*match.StringMatch{match.Exact(""), match.StartsWith(""), match.Contains("")} {
		p, err := String(m, notes)
		require.NoError(t, err)
		assert.False(t, matches(t, p, invoice{}), m.Kind.String())
	}

	text := "Paid by wire"
	p, err := String(match.Contains("WIRE"), notes)
	require.NoError(t, err)
	assert.True(t, matches(t, p, invoice{Notes: &text}))
}

func TestString_InvalidKind(t *testing.T) {
	for _, m := range []*match.StringMatch{{Value: "a"}, {Kind: match.StringMatchKind(99), Value: "a"}} {
		p, err := String(m, customer)
		require.Error(t, err)
		assert.True(t, match.IsCode(err, match.ErrCodeInvalidMatchKind))
		assert.True(t, p.IsNoFilter())
	}
}

func TestExactString(t *testing.T) {
	p := ExactString("Acme", customer)
	assert.True(t, matches(t, p, invoice{Customer: "ACME"}))
	assert.False(t, matches(t, p, invoice{Customer: "Acme Corp"}))
}

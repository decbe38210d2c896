package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvestmentLastWriteWins(t *testing.T) {
	r := NewInvestment()
	r.Set("UII", "1")
	r.Set("Investment Title", "first")
	r.Set("UII", "2")

	assert.Equal(t, []string{"UII", "Investment Title"}, r.Keys())
	assert.Equal(t, "2", r.UII())
	assert.Equal(t, 2, r.Len())

	_, ok := r.Lookup("missing")
	assert.False(t, ok)
}

func TestInvestmentZeroValue(t *testing.T) {
	var r Investment
	r.Set("a", "b")
	assert.Equal(t, "b", r.Get("a"))
}

func TestColumns(t *testing.T) {
	a := NewInvestment()
	a.Set("UII", "1")
	a.Set("Title", "x")
	b := NewInvestment()
	b.Set("Title", "y")
	b.Set("Bureau", "z")

	assert.Equal(t, []string{"UII", "Title", "Bureau"}, Columns([]*Investment{a, b}))
	assert.Empty(t, Columns(nil))
}

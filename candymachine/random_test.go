package candymachine

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomIDGenerator(t *testing.T) {
	t.Parallel()

	a := NewRandomIDGenerator(rand.NewSource(7))
	b := NewRandomIDGenerator(rand.NewSource(7))

	for range 10 {
		id := a.NewID(5)
		assert.Len(t, id, 5)
		assert.Equal(t, id, b.NewID(5), "same seed must yield the same ids")
		for _, c := range id {
			assert.True(t, strings.ContainsRune(idAlphabet, c), "unexpected character %q", c)
		}
	}

	assert.Empty(t, a.NewID(0))
	assert.Empty(t, a.NewID(-1))
	assert.NotContains(t, idAlphabet, "z")
}

func TestFixedIDGenerator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		give       FixedIDGenerator
		giveLength int
		want       string
	}{
		{name: "exact", give: "ABCDE", giveLength: 5, want: "ABCDE"},
		{name: "truncated", give: "ABCDEFG", giveLength: 5, want: "ABCDE"},
		{name: "repeated", give: "AB", giveLength: 5, want: "ABABA"},
		{name: "empty", give: "", giveLength: 5, want: ""},
		{name: "zero length", give: "AB", giveLength: 0, want: ""},
		{name: "negative length", give: "AB", giveLength: -1, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.give.NewID(tt.giveLength))
		})
	}
}

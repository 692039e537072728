package candymachine

import (
	"math/rand"
	"strings"
	"sync"
)

// idAlphabet is the character set of generated ids.
const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxy"

// IDGenerator produces random identifiers, such as resource account seeds.
type IDGenerator interface {
	NewID(length int) string
}

var _ IDGenerator = (*RandomIDGenerator)(nil)

// RandomIDGenerator draws ids from idAlphabet using a math/rand source. It is safe for
// concurrent use.
type RandomIDGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomIDGenerator returns a generator over src. A fixed seed source yields a fixed sequence
// of ids.
func NewRandomIDGenerator(src rand.Source) *RandomIDGenerator {
	return &RandomIDGenerator{rnd: rand.New(src)} //nolint:gosec // ids are not secrets
}

// NewID returns a random id of length characters.
func (g *RandomIDGenerator) NewID(length int) string {
	if length <= 0 {
		return ""
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	var sb strings.Builder
	sb.Grow(length)
	for range length {
		sb.WriteByte(idAlphabet[g.rnd.Intn(len(idAlphabet))])
	}

	return sb.String()
}

// FixedIDGenerator always returns the same id, truncated or repeated to the requested length.
type FixedIDGenerator string

// NewID returns the fixed id shaped to length characters.
func (g FixedIDGenerator) NewID(length int) string {
	if g == "" || length <= 0 {
		return ""
	}

	return strings.Repeat(string(g), length/len(g)+1)[:length]
}

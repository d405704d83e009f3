package pairing

import (
	"math/rand/v2"
	"sync"

	"github.com/pairup/pairup/internal/users"
	"github.com/pairup/pairup/internal/zerrors"
)

// Generator picks two distinct users uniformly at random
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator backed by the runtime's random source
func NewGenerator() *Generator {
	return &Generator{}
}

// NewSeededGenerator creates a generator with a deterministic source
func NewSeededGenerator(seed1, seed2 uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// Generate shuffles a copy of candidates and returns the first two.
// Duplicate identifiers are collapsed first so a user can never be paired with itself.
func (g *Generator) Generate(candidates []users.User) (users.User, users.User, error) {
	pool := distinct(candidates)
	if len(pool) < 2 {
		return users.User{}, users.User{}, zerrors.NewInsufficientParticipantsError(len(pool))
	}

	swap := func(i, j int) { pool[i], pool[j] = pool[j], pool[i] }
	if g.rng == nil {
		rand.Shuffle(len(pool), swap)
	} else {
		g.mu.Lock()
		g.rng.Shuffle(len(pool), swap)
		g.mu.Unlock()
	}

	return pool[0], pool[1], nil
}

// distinct returns a fresh slice keeping the first user per User.Key
func distinct(candidates []users.User) []users.User {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]users.User, 0, len(candidates))
	for _, u := range candidates {
		key := u.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, u)
	}
	return out
}

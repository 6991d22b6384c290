package socialstats

import (
	"hash/fnv"
	"math/rand"
)

// Stats are mock social counters for a showcase entry. Real platform
// integrations are not wired up; numbers are deterministic per slug so the
// frontend shows stable values across requests.
type Stats struct {
	Views     int `json:"views"`
	Likes     int `json:"likes"`
	Bookmarks int `json:"bookmarks"`
}

type Provider struct{}

func NewProvider() *Provider {
	return &Provider{}
}

func (p *Provider) For(slug string) Stats {
	h := fnv.New64a()
	_, _ = h.Write([]byte(slug))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	views := 250 + rng.Intn(9750)
	likes := 5 + rng.Intn(views/10+1)
	bookmarks := rng.Intn(likes + 1)

	return Stats{
		Views:     views,
		Likes:     likes,
		Bookmarks: bookmarks,
	}
}

package build

import (
	"hash/fnv"
	"math/rand"

	"github.com/nicerx/waterfallidx/trace"
)

// reservoir keeps an Algorithm R sample of at most cap values seen so
// far, for percentile estimation without holding every sample in
// memory. Below cap it keeps every value, which makes the estimate
// exact for small bands.
type reservoir struct {
	cap  int
	seen int64
	vals []float64
	rng  *rand.Rand
}

func newReservoir(cap int, seed int64) *reservoir {
	return &reservoir{cap: cap, rng: rand.New(rand.NewSource(seed))}
}

// seedForKey derives a deterministic seed from a band's key so two
// runs over the same input sample identically, per the engine's
// idempotence requirement.
func seedForKey(k trace.Key) int64 {
	h := fnv.New64a()
	var buf [24]byte
	putInt64(buf[0:8], int64(k.NFreqs))
	putInt64(buf[8:16], k.FStart)
	putInt64(buf[16:24], k.FStop)
	h.Write(buf[:])
	return int64(h.Sum64())
}

func putInt64(b []byte, v int64) {
	u := uint64(v)
	for i := 0; i < 8; i++ {
		b[i] = byte(u >> (8 * i))
	}
}

func (r *reservoir) add(v float64) {
	r.seen++
	if int64(len(r.vals)) < int64(r.cap) {
		r.vals = append(r.vals, v)
		return
	}
	j := r.rng.Int63n(r.seen)
	if j < int64(r.cap) {
		r.vals[j] = v
	}
}

func (r *reservoir) addAll(vs []float64) {
	for _, v := range vs {
		r.add(v)
	}
}

func (r *reservoir) snapshot() []float64 {
	out := make([]float64, len(r.vals))
	copy(out, r.vals)
	return out
}

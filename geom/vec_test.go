package geom

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestNormalize(t *testing.T) {
	n := V(3, 4).Normalize()
	assert.InDelta(t, 0.6, n.X, eps)
	assert.InDelta(t, 0.8, n.Y, eps)
	assert.InDelta(t, 1.0, n.Len(), eps)

	assert.Equal(t, Vec2{}, Vec2{}.Normalize(), "zero vector must stay zero")
}

func TestReflectPreservesLength(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		d := V(rng.Float64()-0.5, rng.Float64()-0.5).Normalize()
		n := V(rng.Float64()-0.5, rng.Float64()-0.5).Normalize()
		if d.IsZero() || n.IsZero() {
			continue
		}
		r := Reflect(d, n)
		require.InDelta(t, d.Len(), r.Len(), 1e-12, "reflect(%v, %v) = %v", d, n, r)
	}
}

func TestReflectFlipsNormalComponent(t *testing.T) {
	r := Reflect(V(1, -1).Normalize(), V(0, 1))
	assert.InDelta(t, math.Sqrt2/2, r.X, eps)
	assert.InDelta(t, math.Sqrt2/2, r.Y, eps)

	// Either normal sign gives the same reflection.
	assert.Equal(t, Reflect(V(0.3, 0.7), V(0, 1)), Reflect(V(0.3, 0.7), V(0, -1)))
}

func TestVecMoveTowards(t *testing.T) {
	from := V(0, 0)
	to := V(3, 4)

	step := from.MoveTowards(to, 1)
	assert.InDelta(t, 1.0, step.Len(), eps)
	assert.InDelta(t, 0.6, step.X, eps)

	assert.Equal(t, to, from.MoveTowards(to, 5), "exact distance snaps to target")
	assert.Equal(t, to, from.MoveTowards(to, 100), "no overshoot")
	assert.Equal(t, to, to.MoveTowards(to, -1), "holds at target for any step")
	assert.Equal(t, from, from.MoveTowards(to, -1), "negative step stays put")
}

func TestArcPointFrame(t *testing.T) {
	p := ArcPoint(0, 5)
	assert.InDelta(t, 0, p.X, eps)
	assert.InDelta(t, 5, p.Y, eps)

	q := ArcPoint(math.Pi/2, 5)
	assert.InDelta(t, 5, q.X, eps)
	assert.InDelta(t, 0, q.Y, eps)
}

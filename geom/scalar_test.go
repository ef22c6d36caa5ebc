package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(0, 1, 2))
	assert.Equal(t, 2.0, Clamp(3, 1, 2))
	assert.Equal(t, 1.5, Clamp(1.5, 1, 2))
}

func TestMoveTowardsStepsAndClamps(t *testing.T) {
	cases := []struct {
		a, b, step float64
		want       float64
	}{
		{0, 10, 1, 1},
		{10, 0, 1, 9},
		{9.5, 10, 1, 10},
		{0, 10, -1, 0},
		{10, 0, -5, 10},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MoveTowards(tc.a, tc.b, tc.step), "MoveTowards(%v, %v, %v)", tc.a, tc.b, tc.step)
	}
}

func TestMoveTowardsIdempotentAtTarget(t *testing.T) {
	for _, step := range []float64{0, 0.5, 100, -1, -100} {
		assert.Equal(t, 3.0, MoveTowards(3, 3, step), "step %v", step)
	}
}

func TestNormalizeAngle(t *testing.T) {
	assert.InDelta(t, 0, NormalizeAngle(0), eps)
	assert.InDelta(t, 0, NormalizeAngle(FullCircle), eps)
	assert.InDelta(t, 3*math.Pi/2, NormalizeAngle(-math.Pi/2), eps)
	assert.InDelta(t, math.Pi/2, NormalizeAngle(5*math.Pi/2), eps)

	for _, a := range []float64{-100, -1e-18, 7, 1e6} {
		n := NormalizeAngle(a)
		assert.GreaterOrEqual(t, n, 0.0)
		assert.Less(t, n, FullCircle)
	}
}

package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{2.005, 2.01}, // 2.005*100 = 200.50000000000003, rounds up
		{2.004, 2.0},
		{0.125, 0.13}, // 12.5 is exact in binary, tie rounds away from zero
		{-0.125, -0.13},
		{0, 0},
		{100.999, 101},
		{260, 260},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, Round2(tc.in), 1e-9, "Round2(%v)", tc.in)
	}
}

// 0.145*100 is 14.499999999999998 in float64, so the tie is never actually
// seen and the result rounds down. The value is pinned here as a golden so
// the platform semantics stay documented.
func TestRound2FloatTieGolden(t *testing.T) {
	assert.InDelta(t, 0.14, Round2(0.145), 1e-9)
}

func TestRound2Idempotent(t *testing.T) {
	for _, x := range []float64{2.005, 0.145, 1.005, 99.994999, -3.14159, 1234.5678} {
		once := Round2(x)
		assert.Equal(t, once, Round2(once), "Round2 not idempotent for %v", x)
	}
}

func TestClampPaid(t *testing.T) {
	assert.Equal(t, 260.0, ClampPaid(500, 260))
	assert.Equal(t, 100.0, ClampPaid(100, 260))
	assert.Equal(t, 0.0, ClampPaid(-5, 260))
	assert.Equal(t, 0.0, ClampPaid(10, 0))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1,260.00", Format(1260))
	assert.Equal(t, "0.50", Format(0.5))
}

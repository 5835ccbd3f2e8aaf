package qual

import (
	"math"
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestClamp(t *testing.T) {
	expect.EQ(t, Clamp(0), uint8(0))
	expect.EQ(t, Clamp(PHREDMAX), uint8(PHREDMAX))
	expect.EQ(t, Clamp(PHREDMAX+10), uint8(PHREDMAX))
}

func TestProbability(t *testing.T) {
	expect.True(t, math.Abs(Probability(10)-0.1) < 1e-9)
	expect.EQ(t, Probability(0), 1.0)
}

func TestScoreSentinel(t *testing.T) {
	expect.EQ(t, Score[0], -2.0)
}

func TestScoreNeverNaN(t *testing.T) {
	for q := 0; q <= PHREDMAX; q++ {
		expect.False(t, math.IsNaN(Score[q]))
		expect.False(t, math.IsNaN(ScoreErr[q]))
		for r := 0; r <= PHREDMAX; r++ {
			expect.False(t, math.IsNaN(Match[q][r]))
			expect.False(t, math.IsNaN(Mismatch[q][r]))
		}
	}
}

func TestMatchBeatsRandomAtHighQuality(t *testing.T) {
	// Two high-quality agreeing bases should score better than the flat N
	// prior.
	expect.True(t, Match[40][40] > NN)
}

func TestLog1mexp(t *testing.T) {
	// log1mexp(p) should equal log(1-exp(-p)) for both branches of the
	// Mächler split.
	for _, p := range []float64{0.1, math.Ln2, 1.0, 5.0} {
		want := math.Log(1 - math.Exp(-p))
		got := Log1mexp(p)
		expect.True(t, math.Abs(got-want) < 1e-9)
	}
}

func TestMeanLogProb(t *testing.T) {
	expect.EQ(t, MeanLogProb(nil), 0.0)
	got := MeanLogProb([]float64{-1, -2, -3})
	expect.True(t, math.Abs(got-(-2.0)) < 1e-9)
}

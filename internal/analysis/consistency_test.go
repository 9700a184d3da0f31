package analysis

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typestats/internal/model"
)

func TestConsistencyFewKeystrokes(t *testing.T) {
	keys := withIntervals(0, 10, 5000, 90000)
	assert.Equal(t, 100.0, Consistency(keys))
	assert.Equal(t, 100.0, Consistency(nil))
}

func TestConsistencyUniform(t *testing.T) {
	keys := withIntervals(0, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100)
	assert.Equal(t, 100.0, Consistency(keys))
}

func TestConsistencyUnevenScoresLower(t *testing.T) {
	uniform := withIntervals(0, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100)
	uneven := withIntervals(0, 50, 3000, 50, 3000, 50, 3000, 50, 3000, 50, 3000)

	assert.Less(t, Consistency(uneven), Consistency(uniform))
	// Even rhythm, long-pause ratio 0.5: 100 - 7.5.
	assert.Equal(t, 92.5, Consistency(uneven))
}

func TestConsistencyKnownVariance(t *testing.T) {
	// mean 150, population stddev 50, cv 1/3.
	keys := withIntervals(0, 100, 200, 100, 200, 100, 200)
	assert.Equal(t, 51.34, Consistency(keys))
}

func TestConsistencySparseRhythm(t *testing.T) {
	hesitant := withIntervals(0, 500, 500, 500, 500, 500)
	assert.Equal(t, 45.0, Consistency(hesitant), "85 minus capped hesitation penalty")

	paused := withIntervals(0, 3000, 3000, 3000, 3000, 3000)
	assert.Equal(t, 70.0, Consistency(paused), "85 minus pause penalty of 15")
}

func TestConsistencyNoPositiveIntervals(t *testing.T) {
	keys := withIntervals(0, 0, 0, 0, 0, 0)
	assert.Equal(t, 85.0, Consistency(keys))
}

func TestConsistencyBounds(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		n := rnd.Intn(40)
		intervals := make([]int64, n)
		for j := range intervals {
			intervals[j] = int64(rnd.Intn(6000)) - 100
		}
		score := Consistency(withIntervals(intervals...))
		require.GreaterOrEqual(t, score, 0.0)
		require.LessOrEqual(t, score, 100.0)
	}
}

func TestBucketIntervals(t *testing.T) {
	b := BucketIntervals(withIntervals(0, -5, 400, 401, 2000, 2001, 90))
	assert.Equal(t, []float64{400, 90}, b.Rhythm)
	assert.Equal(t, 2, b.Hesitation)
	assert.Equal(t, 1, b.LongPause)
	assert.Equal(t, 5, b.Total)
}

func TestRhythmScoreTrimsOutliers(t *testing.T) {
	// 390 lies outside [85, 125] and is dropped: mean 105, stddev 5.
	score := RhythmScore([]float64{100, 110, 100, 110, 100, 110, 390})
	assert.InDelta(t, 90.9156, score, 0.001)
}

func TestRhythmScoreSparse(t *testing.T) {
	assert.Equal(t, 85.0, RhythmScore([]float64{100, 300}))
}

func TestTrimOutliersSmallSample(t *testing.T) {
	assert.Equal(t, []float64{10, 20, 900, 1000}, trimOutliers([]float64{1000, 10, 900, 20}))
}

func TestPenalties(t *testing.T) {
	assert.Equal(t, 0.0, HesitationPenalty(0, 10))
	assert.InDelta(t, 3+15*0.316227, HesitationPenalty(1, 10), 0.001)
	assert.Equal(t, 40.0, HesitationPenalty(10, 10))
	assert.Equal(t, 0.0, HesitationPenalty(3, 0))
	assert.InDelta(t, 1.5, PausePenalty(1, 10), 1e-9)
	assert.Equal(t, 15.0, PausePenalty(5, 5))
}

// withIntervals builds a keystroke log with the given timeSinceLast values.
func withIntervals(intervals ...int64) []model.Keystroke {
	keys := make([]model.Keystroke, len(intervals))
	var ts int64 = 1_700_000_000_000
	for i, iv := range intervals {
		if iv > 0 {
			ts += iv
		}
		keys[i] = model.Keystroke{Key: "a", Timestamp: ts, TimeSinceLast: iv}
	}
	return keys
}

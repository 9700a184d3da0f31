package analysis

import (
	"math"
	"sort"

	"github.com/verte-zerg/typestats/internal/model"
)

// Interval bucket bounds in milliseconds.
const (
	RhythmMaxMs     = 400
	HesitationMaxMs = 2000
)

const (
	minConsistencyKeystrokes = 5
	minRhythmSamples         = 3
	sparseRhythmScore        = 85.0
	tukeyFence               = 1.5
	maxHesitationPenalty     = 40.0
	maxPausePenalty          = 20.0
)

// IntervalBuckets splits positive inter-keystroke intervals by magnitude.
type IntervalBuckets struct {
	Rhythm     []float64
	Hesitation int
	LongPause  int
	Total      int
}

// BucketIntervals collects the positive timeSinceLast values of keys and
// sorts them into rhythm, hesitation and long-pause buckets.
func BucketIntervals(keys []model.Keystroke) IntervalBuckets {
	var b IntervalBuckets
	for _, k := range keys {
		iv := k.TimeSinceLast
		if iv <= 0 {
			continue
		}
		b.Total++
		switch {
		case iv <= RhythmMaxMs:
			b.Rhythm = append(b.Rhythm, float64(iv))
		case iv <= HesitationMaxMs:
			b.Hesitation++
		default:
			b.LongPause++
		}
	}
	return b
}

// Consistency scores typing rhythm from 0 to 100, where 100 is perfectly
// even. Logs with fewer than five keystrokes score 100.
func Consistency(keys []model.Keystroke) float64 {
	if len(keys) < minConsistencyKeystrokes {
		return 100
	}
	b := BucketIntervals(keys)
	score := RhythmScore(b.Rhythm) - HesitationPenalty(b.Hesitation, b.Total) - PausePenalty(b.LongPause, b.Total)
	return round2(math.Max(0, score))
}

// RhythmScore maps the coefficient of variation of rhythm intervals to
// 100*exp(-2*cv), after trimming outliers with Tukey fences.
func RhythmScore(intervals []float64) float64 {
	if len(intervals) < minRhythmSamples {
		return sparseRhythmScore
	}
	sample := trimOutliers(intervals)
	mean, stddev := meanStddev(sample)
	cv := 0.0
	if mean != 0 {
		cv = stddev / mean
	}
	return math.Max(0, 100*math.Exp(-2*cv))
}

// HesitationPenalty grows with the share of hesitation intervals, capped at 40.
func HesitationPenalty(count, total int) float64 {
	r := ratio(count, total)
	return math.Min(maxHesitationPenalty, r*30+math.Sqrt(r)*15)
}

// PausePenalty grows with the share of long pauses, capped at 20.
func PausePenalty(count, total int) float64 {
	return math.Min(maxPausePenalty, ratio(count, total)*15)
}

// trimOutliers drops values outside [Q1-1.5*IQR, Q3+1.5*IQR]. The input is
// returned unchanged when there are fewer than five values, when IQR is
// zero, or when trimming would discard more than half of the values.
func trimOutliers(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	q1 := sorted[int(math.Floor(float64(n)*0.25))]
	q3 := sorted[int(math.Floor(float64(n)*0.75))]
	iqr := q3 - q1
	if n < 5 || iqr <= 0 {
		return sorted
	}
	lo := q1 - tukeyFence*iqr
	hi := q3 + tukeyFence*iqr
	kept := make([]float64, 0, n)
	for _, v := range sorted {
		if v >= lo && v <= hi {
			kept = append(kept, v)
		}
	}
	if float64(len(kept)) < float64(n)/2 {
		return sorted
	}
	return kept
}

// meanStddev returns the mean and population standard deviation.
func meanStddev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}

func ratio(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(count) / float64(total)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

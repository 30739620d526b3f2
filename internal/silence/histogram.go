package silence

import "math"

// DefaultHistogramBuckets matches the thirty one-second buckets reported by
// the silence survey.
const DefaultHistogramBuckets = 30

// Histogram counts intervals whose duration falls in [i, i+1) seconds for
// i in [0, buckets). Longer silences are not counted.
func Histogram(intervals []Interval, buckets int) []int {
	if buckets <= 0 {
		buckets = DefaultHistogramBuckets
	}
	counts := make([]int, buckets)
	for _, interval := range intervals {
		bucket := int(math.Floor(interval.Duration()))
		if bucket < 0 || bucket >= buckets {
			continue
		}
		counts[bucket]++
	}
	return counts
}

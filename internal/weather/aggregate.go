package weather

import "sort"

// dayBucket accumulates the running reduction for one calendar day.
type dayBucket struct {
	anchor     ForecastSample
	tempMin    float64
	tempMax    float64
	iconCounts map[string]int
	bestIcon   string
	bestCount  int
	maxPrecip  float64
}

// AggregateDaily reduces an unordered sequence of sub-daily forecast samples
// into one summary per calendar day. Within a day it tracks the running
// min/max temperatures, the maximum precipitation probability, and the most
// frequent icon code; a frequency tie is won by the first icon to reach the
// winning count. The result is always sorted ascending by the day's anchor
// timestamp, since feed order is unreliable.
func AggregateDaily(samples []ForecastSample) []DailySummary {
	buckets := make(map[string]*dayBucket)

	for _, s := range samples {
		key := s.Timestamp.Format("2006-01-02")

		b, ok := buckets[key]
		if !ok {
			b = &dayBucket{
				anchor:     s,
				tempMin:    s.TempMinC,
				tempMax:    s.TempMaxC,
				iconCounts: make(map[string]int),
			}
			buckets[key] = b
		}

		if s.TempMinC < b.tempMin {
			b.tempMin = s.TempMinC
		}
		if s.TempMaxC > b.tempMax {
			b.tempMax = s.TempMaxC
		}
		if s.PrecipProb > b.maxPrecip {
			b.maxPrecip = s.PrecipProb
		}

		b.iconCounts[s.Icon]++
		if b.iconCounts[s.Icon] > b.bestCount {
			b.bestCount = b.iconCounts[s.Icon]
			b.bestIcon = s.Icon
		}
	}

	out := make([]DailySummary, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, DailySummary{
			Date:          b.anchor.Timestamp,
			TempMinC:      b.tempMin,
			TempMaxC:      b.tempMax,
			Icon:          b.bestIcon,
			MaxPrecipProb: b.maxPrecip,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	return out
}

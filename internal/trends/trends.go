package trends

import (
	"math"
	"sort"
	"time"

	"github.com/suykerbuyk/vibe-profile/internal/event"
	"github.com/suykerbuyk/vibe-profile/internal/profile"
)

// Week is one ISO week of activity and the profile generated from it.
type Week struct {
	Year    int             `json:"year" yaml:"year"`
	Week    int             `json:"week" yaml:"week"`
	Start   time.Time       `json:"start" yaml:"start"` // Monday of the ISO week
	Label   string          `json:"label" yaml:"label"`
	Events  int             `json:"events" yaml:"events"`
	Profile profile.Profile `json:"profile" yaml:"profile"`
}

// TrendPoint is a single data point in a metric time series.
type TrendPoint struct {
	WeekLabel  string  `json:"week" yaml:"week"`
	Value      float64 `json:"value" yaml:"value"`
	RollingAvg float64 `json:"rolling_avg" yaml:"rolling_avg"` // 4-week rolling average (0 if < 4 weeks of data)
	Anomaly    bool    `json:"anomaly" yaml:"anomaly"`         // >1.5 stddev from rolling avg
}

// MetricTrend holds the full time series for one metric.
type MetricTrend struct {
	Name       string       `json:"name" yaml:"name"`
	Points     []TrendPoint `json:"points" yaml:"points"` // most recent first
	OverallAvg float64      `json:"overall_avg" yaml:"overall_avg"`
	Direction  string       `json:"direction" yaml:"direction"` // "improving", "worsening", "stable"
	DeltaPct   float64      `json:"delta_pct" yaml:"delta_pct"`
}

// Result holds the complete trends analysis.
type Result struct {
	TotalEvents  int           `json:"total_events" yaml:"total_events"`
	TotalWeeks   int           `json:"total_weeks" yaml:"total_weeks"`
	DisplayWeeks int           `json:"display_weeks" yaml:"display_weeks"`
	Weeks        []Week        `json:"weeks" yaml:"weeks"` // most recent first
	Metrics      []MetricTrend `json:"metrics" yaml:"metrics"`
}

// Tracked metrics. Falling AI dependency counts as improvement; rising
// self-modification and exploration do.
var tracked = []struct {
	name          string
	lowerIsBetter bool
	value         func(profile.Profile) float64
}{
	{"ai_dependency", true, func(p profile.Profile) float64 { return p.AIDependency }},
	{"self_modification", false, func(p profile.Profile) float64 { return p.SelfModificationRate }},
	{"adoption_rate", false, func(p profile.Profile) float64 { return p.AdoptionRate }},
	{"exploration", false, func(p profile.Profile) float64 { return p.ExplorationBreadth }},
}

// Compute buckets events by the ISO week of their timestamp, profiles each
// week with agg and builds the metric series. Events without a timestamp
// are left out.
func Compute(events []event.Event, agg *profile.Aggregator, displayWeeks int) Result {
	if displayWeeks <= 0 {
		displayWeeks = 12
	}
	res := Result{DisplayWeeks: displayWeeks}

	type bucket struct {
		year, week int
		events     []event.Event
	}
	bucketMap := make(map[[2]int]*bucket)
	for _, e := range events {
		if e.Timestamp.IsZero() {
			continue
		}
		year, week := e.Timestamp.UTC().ISOWeek()
		key := [2]int{year, week}
		b, ok := bucketMap[key]
		if !ok {
			b = &bucket{year: year, week: week}
			bucketMap[key] = b
		}
		b.events = append(b.events, e)
		res.TotalEvents++
	}
	if len(bucketMap) == 0 {
		return res
	}

	// Oldest first for rolling averages.
	buckets := make([]*bucket, 0, len(bucketMap))
	for _, b := range bucketMap {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].year != buckets[j].year {
			return buckets[i].year < buckets[j].year
		}
		return buckets[i].week < buckets[j].week
	})

	weeks := make([]Week, len(buckets))
	for i, b := range buckets {
		start := isoWeekStart(b.year, b.week)
		weeks[i] = Week{
			Year:    b.year,
			Week:    b.week,
			Start:   start,
			Label:   weekLabel(start),
			Events:  len(b.events),
			Profile: agg.Generate(b.events),
		}
	}
	res.TotalWeeks = len(weeks)

	for _, m := range tracked {
		pts := make([]TrendPoint, len(weeks))
		for i, w := range weeks {
			pts[i] = TrendPoint{WeekLabel: w.Label, Value: m.value(w.Profile)}
		}
		res.Metrics = append(res.Metrics, buildMetric(m.name, pts, displayWeeks, m.lowerIsBetter))
	}

	for i, j := 0, len(weeks)-1; i < j; i, j = i+1, j-1 {
		weeks[i], weeks[j] = weeks[j], weeks[i]
	}
	if len(weeks) > displayWeeks {
		weeks = weeks[:displayWeeks]
	}
	res.Weeks = weeks
	return res
}

// Metric returns the named trend, or false.
func (r Result) Metric(name string) (MetricTrend, bool) {
	for _, m := range r.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return MetricTrend{}, false
}

// buildMetric computes rolling averages, anomalies, and direction for a metric.
// lowerIsBetter controls direction interpretation.
func buildMetric(name string, pts []TrendPoint, displayWeeks int, lowerIsBetter bool) MetricTrend {
	m := MetricTrend{Name: name}

	if len(pts) == 0 {
		m.Direction = "stable"
		return m
	}

	values := make([]float64, len(pts))
	for i := range pts {
		values[i] = pts[i].Value
	}

	for i := range pts {
		if i >= 3 { // need at least 4 points for rolling avg
			ra := rollingAvg(values, i, 4)
			pts[i].RollingAvg = ra

			sd := rollingStddev(values, i, 4)
			if sd > 0 && math.Abs(pts[i].Value-ra) > 1.5*sd {
				pts[i].Anomaly = true
			}
		}
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	m.OverallAvg = sum / float64(len(values))

	m.Direction, m.DeltaPct = metricDirection(values, lowerIsBetter)

	reversed := make([]TrendPoint, len(pts))
	for i, p := range pts {
		reversed[len(pts)-1-i] = p
	}
	if len(reversed) > displayWeeks {
		reversed = reversed[:displayWeeks]
	}
	m.Points = reversed

	return m
}

// metricDirection compares the mean of the last 4 values with the 4 before.
// Changes inside ±10% are stable.
func metricDirection(values []float64, lowerIsBetter bool) (string, float64) {
	n := len(values)
	if n < 8 {
		return "stable", 0
	}

	recent := rollingAvg(values, n-1, 4)
	prev := rollingAvg(values, n-5, 4)

	if prev == 0 {
		return "stable", 0
	}

	delta := (recent - prev) / prev * 100

	if math.Abs(delta) < 10 {
		return "stable", delta
	}

	if lowerIsBetter == (delta < 0) {
		return "improving", delta
	}
	return "worsening", delta
}

// isoWeekStart returns the Monday of the given ISO year/week.
func isoWeekStart(year, week int) time.Time {
	// Jan 4 is always in week 1
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := jan4.Weekday()
	if weekday == time.Sunday {
		weekday = 7
	}
	monday := jan4.AddDate(0, 0, -int(weekday-time.Monday))
	return monday.AddDate(0, 0, (week-1)*7)
}

// weekLabel formats a date as "Jan 06".
func weekLabel(t time.Time) string {
	return t.Format("Jan 02")
}

// rollingAvg computes the average of the `window` values ending at index `end` (inclusive).
func rollingAvg(values []float64, end, window int) float64 {
	start := end - window + 1
	if start < 0 {
		start = 0
	}
	var sum float64
	count := 0
	for i := start; i <= end; i++ {
		sum += values[i]
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// rollingStddev computes the standard deviation of the `window` values ending at index `end`.
func rollingStddev(values []float64, end, window int) float64 {
	start := end - window + 1
	if start < 0 {
		start = 0
	}
	mean := rollingAvg(values, end, window)
	var sumSq float64
	count := 0
	for i := start; i <= end; i++ {
		diff := values[i] - mean
		sumSq += diff * diff
		count++
	}
	if count < 2 {
		return 0
	}
	return math.Sqrt(sumSq / float64(count))
}

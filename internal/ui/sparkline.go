package ui

import "strings"

// SparklineChars are the eight bar heights, lowest first.
var SparklineChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline keeps the last width samples and renders them as block bars.
type Sparkline struct {
	samples []float64
	head    int
	count   int
}

// NewSparkline creates a sparkline holding width samples.
func NewSparkline(width int) *Sparkline {
	if width <= 0 {
		width = 30
	}
	return &Sparkline{samples: make([]float64, width)}
}

// Add records a sample, evicting the oldest once full.
func (s *Sparkline) Add(value float64) {
	s.samples[s.head] = value
	s.head = (s.head + 1) % len(s.samples)
	s.count++
}

// Count returns the number of samples added.
func (s *Sparkline) Count() int {
	return s.count
}

// Values returns the held samples, oldest first.
func (s *Sparkline) Values() []float64 {
	n := min(s.count, len(s.samples))
	out := make([]float64, 0, n)
	start := 0
	if s.count >= len(s.samples) {
		start = s.head
	}
	for i := range n {
		out = append(out, s.samples[(start+i)%len(s.samples)])
	}
	return out
}

// Render draws the held samples scaled to the largest one, padded with
// spaces to the sparkline width.
func (s *Sparkline) Render() string {
	values := s.Values()
	return Bars(values) + strings.Repeat(" ", len(s.samples)-len(values))
}

// Bars draws values as block bars scaled to the largest value.
func Bars(values []float64) string {
	var peak float64
	for _, v := range values {
		peak = max(peak, v)
	}

	var sb strings.Builder
	for _, v := range values {
		i := 0
		if peak > 0 && v > 0 {
			i = int(v / peak * float64(len(SparklineChars)-1))
			i = min(max(i, 0), len(SparklineChars)-1)
		}
		sb.WriteRune(SparklineChars[i])
	}
	return sb.String()
}

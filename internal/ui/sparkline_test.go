package ui

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSparkline_Empty(t *testing.T) {
	s := NewSparkline(5)
	assert.Equal(t, "     ", s.Render())
	assert.Empty(t, s.Values())
}

func TestSparkline_KeepsLatestSamples(t *testing.T) {
	s := NewSparkline(3)
	for _, v := range []float64{1, 2, 3, 4} {
		s.Add(v)
	}

	assert.Equal(t, 4, s.Count())
	assert.Equal(t, []float64{2, 3, 4}, s.Values())
	assert.Equal(t, 3, utf8.RuneCountInString(s.Render()))
}

func TestSparkline_DefaultWidth(t *testing.T) {
	s := NewSparkline(0)
	assert.Equal(t, 30, utf8.RuneCountInString(s.Render()))
}

func TestBars(t *testing.T) {
	assert.Equal(t, "▁█", Bars([]float64{0, 10}))
	assert.Equal(t, "▁▁", Bars([]float64{0, 0}))
	assert.Equal(t, "", Bars(nil))

	bars := []rune(Bars([]float64{1, 5, 10}))
	assert.Equal(t, '█', bars[2])
	assert.Less(t, bars[0], bars[1])
}

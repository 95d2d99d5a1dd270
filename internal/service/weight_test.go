package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeight(t *testing.T) {
	cases := []struct {
		name    string
		weights []float64
		n       int
		want    float64
	}{
		{"empty curve", nil, 0, 1.0},
		{"empty curve later vote", []float64{}, 7, 1.0},
		{"first vote", []float64{2.0, 1.5}, 0, 2.0},
		{"second vote", []float64{2.0, 1.5}, 1, 1.5},
		{"past the end repeats last", []float64{2.0, 1.5}, 5, 1.5},
		{"negative treated as first", []float64{1.0, 0.5}, -1, 1.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Weight(tc.weights, tc.n))
		})
	}
}

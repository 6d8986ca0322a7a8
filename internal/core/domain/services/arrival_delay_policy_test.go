package services_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"kds/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
)

type stubRandom struct {
	values []float64
	next   int
}

func (s *stubRandom) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func TestArrivalDelayPolicy_NextDelay(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   time.Duration
	}{
		{"early window lower bound", []float64{0, 0}, 3 * time.Second},
		{"early window midpoint", []float64{0.5, 0.5}, 6500 * time.Millisecond},
		{"last early draw", []float64{0.6999, 0}, 3 * time.Second},
		{"late window lower bound", []float64{0.7, 0}, 15 * time.Second},
		{"late window midpoint", []float64{0.9, 0.5}, 20 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := services.NewArrivalDelayPolicy(&stubRandom{values: tt.values})

			assert.Equal(t, tt.want, policy.NextDelay())
		})
	}

	t.Run("should stay below the window upper bound", func(t *testing.T) {
		policy := services.NewArrivalDelayPolicy(&stubRandom{values: []float64{0.1, 0.9999999999}})

		assert.Less(t, policy.NextDelay(), services.EarlyArrivalMax)
	})
}

func TestArrivalDelayPolicy_Distribution(t *testing.T) {
	policy := services.NewArrivalDelayPolicy(rand.New(rand.NewPCG(1, 2)))

	const draws = 10000
	early := 0
	for range draws {
		d := policy.NextDelay()

		switch {
		case d >= services.EarlyArrivalMin && d < services.EarlyArrivalMax:
			early++
		case d >= services.LateArrivalMin && d < services.LateArrivalMax:
		default:
			t.Fatalf("delay %s outside both windows", d)
		}
	}

	assert.InDelta(t, services.EarlyArrivalProbability, float64(early)/draws, 0.03)
}

func TestNewArrivalDelayPolicy_DefaultSource(t *testing.T) {
	policy := services.NewArrivalDelayPolicy(nil)

	d := policy.NextDelay()

	assert.True(t, d >= services.EarlyArrivalMin && d < services.LateArrivalMax)
}

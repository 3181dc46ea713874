package alerts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/propcover/insurance-master/internal/config"
	"github.com/propcover/insurance-master/internal/model"
)

func TestPriorityCutoffs(t *testing.T) {
	cfg := config.AlertConfig{HighPriorityDays: 7, MediumPriorityDays: 15}

	cases := []struct {
		daysLeft int
		want     string
	}{
		{1, model.PriorityHigh},
		{7, model.PriorityHigh},
		{8, model.PriorityMedium},
		{15, model.PriorityMedium},
		{16, model.PriorityLow},
		{30, model.PriorityLow},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, priorityFor(tc.daysLeft, cfg), "daysLeft=%d", tc.daysLeft)
	}
}

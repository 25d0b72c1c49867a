package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/ssmkit/pkg/errors"
)

func TestLabelAccuracy(t *testing.T) {
	tests := []struct {
		name  string
		zTrue []int
		zPred []int
		want  float64
	}{
		{"identical", []int{0, 1, 2, 1}, []int{0, 1, 2, 1}, 1},
		{"half", []int{0, 0, 1, 1}, []int{0, 1, 1, 0}, 0.5},
		{"swapped", []int{0, 0, 1, 1}, []int{1, 1, 0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LabelAccuracy(tt.zTrue, tt.zPred)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := LabelAccuracy(nil, nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	_, err = LabelAccuracy([]int{0, 1}, []int{0})
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))
}

func TestStateUsage(t *testing.T) {
	usage, err := StateUsage([]int{0, 2, 2, 2}, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0, 0.75, 0}, usage)

	_, err = StateUsage([]int{0, 4}, 4)
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))

	_, err = StateUsage([]int{0}, 0)
	assert.Error(t, err)
}

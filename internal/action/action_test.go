package action

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"Quit", Quit},
		{"quit", Quit},
		{"check_deps", CheckDeps},
		{"InstallNeovimNightly", InstallNeovimNightly},
		{"page-down", PageDown},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseKind("Explode")
	assert.Error(t, err)
	_, err = ParseKind("None")
	assert.Error(t, err, "None is never a valid configured action")
}

func TestBindable(t *testing.T) {
	assert.True(t, Select.Bindable())
	assert.True(t, Suspend.Bindable())
	assert.False(t, Resize.Bindable())
	assert.False(t, Progress.Bindable())
	assert.False(t, Ask.Bindable())
	assert.True(t, Confirm.Bindable())
	assert.True(t, Decline.Bindable())
	assert.False(t, None.Bindable())
	assert.False(t, Kind(999).Bindable())
}

func TestString(t *testing.T) {
	assert.Equal(t, "Resize(80, 24)", ResizeTo(80, 24).String())
	assert.Equal(t, `Error("boom")`, Errorf("b%s", "oom").String())
	assert.Equal(t, "Progress(0.50)", ProgressRatio(0.5).String())
	assert.Equal(t, "Select", New(Select).String())
	assert.Equal(t, `Ask("install?")`, Question("install?").String())
	assert.Equal(t, "Kind(999)", Kind(999).String())
}

func TestProgressRatioClamps(t *testing.T) {
	assert.Equal(t, 0.0, ProgressRatio(-1).Ratio)
	assert.Equal(t, 1.0, ProgressRatio(3).Ratio)
	assert.Equal(t, 0.0, ProgressRatio(math.NaN()).Ratio)
}

func TestActionsAreComparable(t *testing.T) {
	assert.Equal(t, ResizeTo(10, 5), ResizeTo(10, 5))
	assert.NotEqual(t, ResizeTo(10, 5), ResizeTo(5, 10))
	assert.True(t, Action{}.IsNone())
}

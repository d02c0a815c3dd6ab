package tui

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOverlayCenterKeepsSurroundingCells(t *testing.T) {
	got := overlayCenter("abcdef\nghijkl\nmnopqr", "XY", 6, 3)
	require.Equal(t, "abcdef\nghXYkl\nmnopqr", got)
}

func TestOverlayCenterPadsShortBase(t *testing.T) {
	got := overlayCenter("", "ab", 6, 3)
	require.Equal(t, "\n  ab  \n", got)
}

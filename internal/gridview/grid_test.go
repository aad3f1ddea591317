package gridview

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func smallGrid(t *testing.T) *Grid {
	t.Helper()
	data := make([]int16, 4*3)
	data[1*4+2] = 100 // row 1, col 2
	g, err := NewGrid("map", 0.05, 4, 3, data)
	require.NoError(t, err)
	return g
}

func TestNewGridValidatesDimensions(t *testing.T) {
	_, err := NewGrid("map", 1, 2, 2, make([]int16, 3))
	require.Error(t, err)

	_, err = NewGrid("map", 1, 0, 2, nil)
	require.Error(t, err)
}

func TestViewOccAndBounds(t *testing.T) {
	v := NewView(smallGrid(t))

	w, h := v.Size()
	require.Equal(t, 4, w)
	require.Equal(t, 3, h)

	require.True(t, v.InBounds(2, 1))
	require.False(t, v.InBounds(4, 0))
	require.False(t, v.InBounds(0, -1))

	occ, err := v.Occ(2, 1)
	require.NoError(t, err)
	require.EqualValues(t, 100, occ)

	_, err = v.Occ(10, 10)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrOutOfBounds))
}

func TestWorldPixelRoundTrip(t *testing.T) {
	v := NewView(smallGrid(t))
	px, py := v.WorldToPixel(1.0, 2.0, 1.1, 2.05)
	wx, wy := v.PixelToWorld(1.0, 2.0, px, py)
	require.InDelta(t, 1.1, wx, 1e-9)
	require.InDelta(t, 2.05, wy, 1e-9)
}

func TestEmpty(t *testing.T) {
	var g *Grid
	require.True(t, g.Empty())

	g2 := smallGrid(t)
	require.False(t, g2.Empty())
}

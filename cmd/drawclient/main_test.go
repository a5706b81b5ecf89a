package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haal01/drawing-board/internal/render"
	"github.com/haal01/drawing-board/internal/stroke"
	"github.com/haal01/drawing-board/internal/viewport"
)

func TestParsePoints(t *testing.T) {
	t.Parallel()

	pts, err := parsePoints("10,10  20.5,-3\t4,4")
	require.NoError(t, err)
	require.Equal(t, []stroke.Point{{X: 10, Y: 10}, {X: 20.5, Y: -3}, {X: 4, Y: 4}}, pts)

	for _, bad := range []string{"", "   ", "1", "1,a", "b,2"} {
		_, err := parsePoints(bad)
		require.Error(t, err, bad)
	}
}

func TestRoomURL(t *testing.T) {
	t.Parallel()

	u, err := roomURL("ws://localhost:8080/ws", "")
	require.NoError(t, err)
	require.Equal(t, "ws://localhost:8080/ws", u)

	u, err = roomURL("ws://localhost:8080/ws", "studio")
	require.NoError(t, err)
	require.Equal(t, "ws://localhost:8080/ws/studio", u)

	_, err = roomURL("http://localhost:8080/ws", "")
	require.Error(t, err)
}

func TestWriteSnapshot(t *testing.T) {
	t.Parallel()

	r, err := render.NewRaster(20, 10, viewport.Identity)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, writeSnapshot(path, r))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, 20, img.Bounds().Dx())
}

package compositor_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e7canasta/peppermint/compositor"
	"github.com/e7canasta/peppermint/framedecoder"
)

var (
	red        = [4]byte{0, 0, 255, 255}
	green      = [4]byte{0, 255, 0, 255}
	blue       = [4]byte{255, 0, 0, 255}
	seeThrough = [4]byte{9, 9, 9, 0}
)

func solid(w, h int, px [4]byte) framedecoder.RawFrame {
	pix := make([]byte, 0, w*h*4)
	for i := 0; i < w*h; i++ {
		pix = append(pix, px[:]...)
	}
	return framedecoder.RawFrame{Width: w, Height: h, Pix: pix}
}

func pixel(f compositor.CompositedFrame, x, y int) [4]byte {
	i := (y*f.Width + x) * 4
	return [4]byte{f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3]}
}

func rect(w, h, left, top int, d compositor.Disposal) compositor.Metadata {
	return compositor.Metadata{Delay: 100 * time.Millisecond, Disposal: d, Width: w, Height: h, Left: left, Top: top}
}

func TestResolveMetadataDefaults(t *testing.T) {
	meta := compositor.ResolveMetadata(framedecoder.RawMetadata{}, compositor.DefaultDelayPolicy, 6, 4, 10, 10)

	assert.Equal(t, compositor.DefaultDelay, meta.Delay)
	assert.Equal(t, compositor.Replace, meta.Disposal)
	assert.Equal(t, compositor.Metadata{Delay: compositor.DefaultDelay, Width: 6, Height: 4}, meta)
}

func TestResolveMetadataFieldsIndependent(t *testing.T) {
	left := 2
	disposal := uint8(1)
	meta := compositor.ResolveMetadata(framedecoder.RawMetadata{Left: &left, Disposal: &disposal},
		compositor.DefaultDelayPolicy, 3, 3, 10, 10)

	assert.Equal(t, compositor.Combine, meta.Disposal)
	assert.Equal(t, 2, meta.Left)
	assert.Equal(t, 0, meta.Top)
	assert.Equal(t, 3, meta.Width)
	assert.Equal(t, compositor.DefaultDelay, meta.Delay)
}

func TestResolveMetadataClampsRect(t *testing.T) {
	w, h, left, top := 2, 3, 3, 2
	meta := compositor.ResolveMetadata(framedecoder.RawMetadata{Width: &w, Height: &h, Left: &left, Top: &top},
		compositor.DefaultDelayPolicy, 2, 3, 4, 4)

	assert.Equal(t, 2, meta.Left, "left shifted so left+width <= canvas width")
	assert.Equal(t, 1, meta.Top, "top shifted so top+height <= canvas height")

	big := 9
	meta = compositor.ResolveMetadata(framedecoder.RawMetadata{Width: &big, Height: &big, Left: &left},
		compositor.DefaultDelayPolicy, 9, 9, 4, 4)
	assert.Equal(t, compositor.Metadata{Delay: compositor.DefaultDelay, Width: 4, Height: 4}, meta)
}

func TestDelayPolicy(t *testing.T) {
	ticks := func(v uint16) *uint16 { return &v }
	p := compositor.DefaultDelayPolicy

	assert.Equal(t, 100*time.Millisecond, p.Resolve(nil))
	assert.Equal(t, 100*time.Millisecond, p.Resolve(ticks(0)), "zero delay")
	assert.Equal(t, 50*time.Millisecond, p.Resolve(ticks(1)), "floor")
	assert.Equal(t, 50*time.Millisecond, p.Resolve(ticks(5)))
	assert.Equal(t, 70*time.Millisecond, p.Resolve(ticks(7)))

	strict := compositor.DelayPolicy{ZeroDelay: 10, MinDelay: 10}
	assert.Equal(t, 100*time.Millisecond, strict.Resolve(ticks(2)))
}

func TestDisposalFromCode(t *testing.T) {
	assert.Equal(t, compositor.Replace, compositor.DisposalFromCode(0))
	assert.Equal(t, compositor.Combine, compositor.DisposalFromCode(1))
	assert.Equal(t, compositor.Unsupported, compositor.DisposalFromCode(2))
	assert.Equal(t, compositor.Unsupported, compositor.DisposalFromCode(3))
	assert.Equal(t, compositor.Unsupported, compositor.DisposalFromCode(7))
}

func TestSingleFrameIsRawBuffer(t *testing.T) {
	c := compositor.New(3, 2)
	raw := solid(3, 2, red)

	out, err := c.Compose(0, rect(3, 2, 0, 0, compositor.Replace), raw)
	require.NoError(t, err)
	assert.Equal(t, raw.Pix, out.Pix)
	assert.Equal(t, 3, out.Width)
	assert.Equal(t, 2, out.Height)
}

func TestReplaceOverlaySinglePixel(t *testing.T) {
	c := compositor.New(2, 2)

	f0, err := c.Compose(0, rect(2, 2, 0, 0, compositor.Replace), solid(2, 2, red))
	require.NoError(t, err)
	f1, err := c.Compose(1, rect(1, 1, 0, 0, compositor.Replace), solid(1, 1, green))
	require.NoError(t, err)

	assert.Equal(t, green, pixel(f1, 0, 0))
	assert.Equal(t, red, pixel(f1, 1, 0))
	assert.Equal(t, red, pixel(f1, 0, 1))
	assert.Equal(t, red, pixel(f1, 1, 1))
	assert.Equal(t, red, pixel(f0, 0, 0), "frame 0 output untouched")
}

// Frame 2 draws blue at (1,0). With frame 1 marked Combine its base is
// frame 1's output (green at (0,0) survives); with frame 1 marked Replace
// or Unsupported the base is the first frame (green is gone).
func TestBaseSelectionAcrossThreeFrames(t *testing.T) {
	cases := []struct {
		name     string
		disposal compositor.Disposal
		want     [3][4]byte
	}{
		{"combine keeps previous output", compositor.Combine, [3][4]byte{green, blue, red}},
		{"replace resets to first frame", compositor.Replace, [3][4]byte{red, blue, red}},
		{"unsupported behaves as replace", compositor.Unsupported, [3][4]byte{red, blue, red}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := compositor.New(3, 1)

			_, err := c.Compose(0, rect(3, 1, 0, 0, compositor.Combine), solid(3, 1, red))
			require.NoError(t, err)
			f1, err := c.Compose(1, rect(1, 1, 0, 0, tc.disposal), solid(1, 1, green))
			require.NoError(t, err)
			require.Equal(t, green, pixel(f1, 0, 0))

			f2, err := c.Compose(2, rect(1, 1, 1, 0, compositor.Replace), solid(1, 1, blue))
			require.NoError(t, err)

			for x := 0; x < 3; x++ {
				assert.Equal(t, tc.want[x], pixel(f2, x, 0), "pixel %d", x)
			}
		})
	}
}

func TestFirstFrameDisposalSelectsBaseForSecondFrame(t *testing.T) {
	c := compositor.New(2, 1)

	_, err := c.Compose(0, rect(2, 1, 0, 0, compositor.Replace), solid(2, 1, red))
	require.NoError(t, err)
	_, err = c.Compose(1, rect(1, 1, 0, 0, compositor.Replace), solid(1, 1, green))
	require.NoError(t, err)
	f2, err := c.Compose(2, rect(1, 1, 1, 0, compositor.Replace), solid(1, 1, blue))
	require.NoError(t, err)

	assert.Equal(t, red, pixel(f2, 0, 0))
	assert.Equal(t, blue, pixel(f2, 1, 0))
}

func TestTransparentOverlayPixelsIgnored(t *testing.T) {
	c := compositor.New(2, 1)
	base := framedecoder.RawFrame{Width: 2, Height: 1, Pix: []byte{1, 2, 3, 0, 4, 5, 6, 7}}

	_, err := c.Compose(0, rect(2, 1, 0, 0, compositor.Replace), base)
	require.NoError(t, err)

	overlay := framedecoder.RawFrame{Width: 2, Height: 1, Pix: append(append([]byte{}, green[:]...), seeThrough[:]...)}
	f1, err := c.Compose(1, rect(2, 1, 0, 0, compositor.Replace), overlay)
	require.NoError(t, err)

	assert.Equal(t, [4]byte{0, 255, 0, 0}, pixel(f1, 0, 0), "BGR replaced, canvas alpha kept")
	assert.Equal(t, [4]byte{4, 5, 6, 7}, pixel(f1, 1, 0), "transparent overlay pixel ignored")
}

func TestSmallFirstFramePlacedOnCanvas(t *testing.T) {
	c := compositor.New(3, 3)

	f0, err := c.Compose(0, rect(1, 1, 2, 2, compositor.Replace), solid(1, 1, blue))
	require.NoError(t, err)
	require.Len(t, f0.Pix, 3*3*4)

	assert.Equal(t, blue, pixel(f0, 2, 2))
	assert.Equal(t, [4]byte{}, pixel(f0, 0, 0))
}

func TestComposeOutOfOrder(t *testing.T) {
	c := compositor.New(1, 1)
	_, err := c.Compose(1, rect(1, 1, 0, 0, compositor.Replace), solid(1, 1, red))
	assert.ErrorIs(t, err, compositor.ErrOutOfOrder)
	assert.Equal(t, 0, c.Next())
}

func TestComposeBufferSizeMismatch(t *testing.T) {
	c := compositor.New(2, 2)
	_, err := c.Compose(0, rect(2, 2, 0, 0, compositor.Replace), framedecoder.RawFrame{Width: 2, Height: 2, Pix: make([]byte, 3)})
	assert.ErrorIs(t, err, compositor.ErrBufferSize)
}

func TestParallelMergeMatchesSequential(t *testing.T) {
	const w, h = 40, 150

	overlay := solid(30, 120, blue)
	for i := 0; i < len(overlay.Pix); i += 4 * 7 {
		overlay.Pix[i+3] = 0 // sprinkle transparent pixels
	}

	run := func(workers int) []byte {
		c := compositor.New(w, h, compositor.WithWorkers(workers))
		_, err := c.Compose(0, rect(w, h, 0, 0, compositor.Replace), solid(w, h, red))
		require.NoError(t, err)
		f1, err := c.Compose(1, rect(30, 120, 5, 20, compositor.Replace), overlay)
		require.NoError(t, err)
		return f1.Pix
	}

	assert.True(t, bytes.Equal(run(1), run(8)))
}

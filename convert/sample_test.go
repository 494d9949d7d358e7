package convert_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/asciiplay/convert"
)

func TestGrid(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		srcW, srcH int
		cols, rows int
		wantW      int
		wantH      int
	}{
		"square source wide terminal": {
			srcW: 100, srcH: 100,
			cols: 80, rows: 24,
			wantW: 48, wantH: 24,
		},
		"wide source square terminal": {
			srcW: 200, srcH: 100,
			cols: 40, rows: 40,
			wantW: 40, wantH: 10,
		},
		"narrow terminal": {
			srcW: 100, srcH: 100,
			cols: 10, rows: 40,
			wantW: 10, wantH: 5,
		},
		"zero columns": {
			srcW: 100, srcH: 100,
			cols: 0, rows: 24,
			wantW: 0, wantH: 0,
		},
		"zero rows": {
			srcW: 100, srcH: 100,
			cols: 80, rows: 0,
			wantW: 0, wantH: 0,
		},
		"tiny terminal still paints": {
			srcW: 1920, srcH: 1080,
			cols: 2, rows: 1,
			wantW: 2, wantH: 1,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			gridW, gridH := convert.Grid(tc.srcW, tc.srcH, tc.cols, tc.rows, convert.DefaultCellAspect)

			assert.Equal(t, tc.wantW, gridW)
			assert.Equal(t, tc.wantH, gridH)
			assert.LessOrEqual(t, gridW, max(tc.cols, 0))
			assert.LessOrEqual(t, gridH, max(tc.rows, 0))
		})
	}
}

// The fitted grid's visual proportions must stay close to the source's,
// accounting for the cell aspect correction.
func TestGridPreservesAspect(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		srcW, srcH int
		cols, rows int
	}{
		"16:9 into 80x24":   {srcW: 1920, srcH: 1080, cols: 80, rows: 24},
		"4:3 into 80x24":    {srcW: 640, srcH: 480, cols: 80, rows: 24},
		"square into 200x50": {srcW: 512, srcH: 512, cols: 200, rows: 50},
		"portrait into 120x40": {srcW: 1080, srcH: 1920, cols: 120, rows: 40},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			gridW, gridH := convert.Grid(tc.srcW, tc.srcH, tc.cols, tc.rows, convert.DefaultCellAspect)
			require.Positive(t, gridW)
			require.Positive(t, gridH)

			srcAspect := float64(tc.srcW) / float64(tc.srcH)
			visualAspect := float64(gridW) / float64(gridH) * convert.DefaultCellAspect

			assert.InEpsilon(t, srcAspect, visualAspect, 0.15)
		})
	}
}

func TestSampleUniform(t *testing.T) {
	t.Parallel()

	src := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := range 16 {
		for x := range 16 {
			src.SetRGBA(x, y, color.RGBA{R: 200, G: 60, B: 30, A: 255})
		}
	}

	dst := convert.Sample(src, 4, 2)
	require.NotNil(t, dst)
	assert.Equal(t, 4, dst.Bounds().Dx())
	assert.Equal(t, 2, dst.Bounds().Dy())

	for y := range 2 {
		for x := range 4 {
			px := dst.RGBAAt(x, y)
			assert.InDelta(t, 200, px.R, 2)
			assert.InDelta(t, 60, px.G, 2)
			assert.InDelta(t, 30, px.B, 2)
			assert.InDelta(t, 255, px.A, 1)
		}
	}
}

// Downsampling averages over the cell footprint instead of picking one
// representative pixel.
func TestSampleAverages(t *testing.T) {
	t.Parallel()

	// Half black, half white: a 1x1 sample should land near mid-gray, where
	// nearest-neighbor would pick pure black or pure white.
	src := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := range 16 {
		for x := range 16 {
			v := uint8(0)
			if x >= 8 {
				v = 255
			}

			src.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}

	dst := convert.Sample(src, 1, 1)
	require.NotNil(t, dst)

	px := dst.RGBAAt(0, 0)
	assert.Greater(t, px.R, uint8(64))
	assert.Less(t, px.R, uint8(192))
}

func TestSampleEmpty(t *testing.T) {
	t.Parallel()

	src := image.NewRGBA(image.Rect(0, 0, 4, 4))

	assert.Nil(t, convert.Sample(src, 0, 1))
	assert.Nil(t, convert.Sample(src, 1, 0))
}

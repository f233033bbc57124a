package overlay

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyiku/textpin-back/internal/layout"
	"github.com/kyiku/textpin-back/internal/testutil"
	"github.com/kyiku/textpin-back/internal/typeset"
)

func testFrame() (layout.Frame, layout.TextSpec) {
	text := layout.TextSpec{Content: "Hi", Size: 40, Color: "#ff8800", Mode: layout.AnchorCenter}
	s := layout.Snapshot{
		Point:   layout.ReferencePoint{X: 50, Y: 50},
		Image:   layout.ImageExtent{Width: 400, Height: 200},
		Display: layout.DisplayExtent{Width: 200, Height: 100},
		Text:    text,
	}
	return layout.Compute(s, testutil.FixedMeasurer{Width: 40}), text
}

func TestGuides(t *testing.T) {
	f, text := testFrame()

	ins := Guides(f, text)

	require.Len(t, ins, 8)

	kinds := make([]Kind, len(ins))
	for i, in := range ins {
		kinds[i] = in.Kind
	}
	assert.Equal(t, []Kind{
		KindLine, KindLine, KindArc, KindText, KindText, KindFillRect, KindText, KindStrokeRect,
	}, kinds)

	// 垂直線
	assert.Equal(t, layout.Point{X: 100, Y: 0}, ins[0].From)
	assert.Equal(t, layout.Point{X: 100, Y: 100}, ins[0].To)
	assert.Equal(t, VerticalColor, ins[0].Color)

	// 水平線
	assert.Equal(t, layout.Point{X: 0, Y: 50}, ins[1].From)
	assert.Equal(t, layout.Point{X: 200, Y: 50}, ins[1].To)

	// 座標ラベルは元画像ピクセル
	assert.Equal(t, "X = 200", ins[3].Text)
	assert.Equal(t, layout.Point{X: 108, Y: 15}, ins[3].From)
	assert.Equal(t, "Y = 100", ins[4].Text)
	assert.Equal(t, layout.Point{X: 5, Y: 45}, ins[4].From)

	// テキスト
	assert.Equal(t, layout.Rect{X: 80, Y: 30, Width: 40, Height: 20}, ins[5].Rect)
	assert.Equal(t, "Hi", ins[6].Text)
	assert.Equal(t, 20.0, ins[6].FontSize)
	assert.Equal(t, "#ff8800", ins[6].Color)
	assert.Equal(t, layout.Point{X: 80, Y: 50}, ins[6].From)
}

func TestSimulationAndPreview(t *testing.T) {
	f, text := testFrame()

	sim := Simulation(f, text)
	require.Len(t, sim, 3)
	assert.Equal(t, KindArc, sim[2].Kind)
	assert.Equal(t, float64(simulationRadius), sim[2].Radius)

	preview := Preview(f, text)
	require.Len(t, preview, 3)
	assert.Equal(t, KindArc, preview[0].Kind)
	assert.Equal(t, float64(previewRadius), preview[0].Radius)
	assert.Equal(t, PointColor, preview[0].Color)
}

func TestInstructions_NotReady(t *testing.T) {
	text := layout.DefaultTextSpec()

	assert.Nil(t, Guides(layout.Frame{}, text))
	assert.Nil(t, Simulation(layout.Frame{}, text))
	assert.Nil(t, Preview(layout.Frame{}, text))
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    color.Color
		wantErr bool
	}{
		{
			name:  "正常系: 6桁",
			input: "#ff0000",
			want:  color.RGBA{R: 255, A: 255},
		},
		{
			name:  "正常系: 3桁",
			input: "#0f0",
			want:  color.RGBA{G: 255, A: 255},
		},
		{
			name:  "正常系: rgba",
			input: "rgba(255,255,255,0.7)",
			want:  color.NRGBA{R: 255, G: 255, B: 255, A: 179},
		},
		{
			name:    "異常系: 不正な文字列",
			input:   "blue",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender(t *testing.T) {
	ts, err := typeset.New()
	require.NoError(t, err)
	defer ts.Close()

	f, text := testFrame()
	src := testutil.CreateTestImage(400, 200)

	img, err := Render(src, f.Display, Guides(f, text), ts)

	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())

	// 垂直線上の画素は赤
	r, g, b, _ := img.At(100, 80).RGBA()
	assert.Greater(t, r, g)
	assert.Greater(t, r, b)
}

func TestRender_Errors(t *testing.T) {
	ts, err := typeset.New()
	require.NoError(t, err)
	defer ts.Close()

	_, err = Render(nil, layout.DisplayExtent{}, nil, ts)
	assert.ErrorIs(t, err, ErrEmptyCanvas)

	_, err = Render(nil, layout.DisplayExtent{Width: 10, Height: 10}, []Instruction{{Kind: "hexagon", Color: "#000"}}, ts)
	assert.Error(t, err)
}

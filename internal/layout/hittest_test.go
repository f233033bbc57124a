package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHitTest(t *testing.T) {
	ref := Point{X: 100, Y: 50}

	tests := []struct {
		name    string
		pointer Point
		want    Target
	}{
		{
			name:    "正常系: 交点",
			pointer: Point{X: 103, Y: 54},
			want:    TargetPoint,
		},
		{
			name:    "正常系: 交点そのもの",
			pointer: Point{X: 100, Y: 50},
			want:    TargetPoint,
		},
		{
			name:    "正常系: 垂直線",
			pointer: Point{X: 105, Y: 200},
			want:    TargetVertical,
		},
		{
			name:    "正常系: 水平線",
			pointer: Point{X: 300, Y: 55},
			want:    TargetHorizontal,
		},
		{
			name:    "正常系: 両方の線の近くでは垂直線を優先",
			pointer: Point{X: 108, Y: 57},
			want:    TargetVertical,
		},
		{
			name:    "境界値: ちょうど10pxは当たらない",
			pointer: Point{X: 110, Y: 200},
			want:    TargetNone,
		},
		{
			name:    "異常系: どこにも当たらない",
			pointer: Point{X: 300, Y: 200},
			want:    TargetNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HitTest(tt.pointer, ref))
		})
	}
}

func TestHitTest_PointPrecedence(t *testing.T) {
	ref := Point{X: 40, Y: 40}

	// 交点から10px未満なら必ず両方の線の閾値内でもある
	for dx := -7.0; dx <= 7; dx++ {
		for dy := -7.0; dy <= 7; dy++ {
			got := HitTest(Point{X: ref.X + dx, Y: ref.Y + dy}, ref)
			assert.Equal(t, TargetPoint, got, "dx=%v dy=%v", dx, dy)
		}
	}
}

func TestTarget_String(t *testing.T) {
	assert.Equal(t, "point", TargetPoint.String())
	assert.Equal(t, "vertical", TargetVertical.String())
	assert.Equal(t, "horizontal", TargetHorizontal.String())
	assert.Equal(t, "none", TargetNone.String())
	assert.Equal(t, "none", Target(42).String())
}

func TestTarget_UnmarshalText(t *testing.T) {
	for _, want := range []Target{TargetNone, TargetPoint, TargetVertical, TargetHorizontal} {
		text, err := want.MarshalText()
		assert.NoError(t, err)

		var got Target
		assert.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, want, got)
	}

	got := TargetPoint
	assert.NoError(t, got.UnmarshalText([]byte("diagonal")))
	assert.Equal(t, TargetNone, got)
}

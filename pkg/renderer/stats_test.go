package renderer

import (
	"math"
	"testing"
)

func TestCalculateAverageLuminance(t *testing.T) {
	// Red, green, blue and black: (0.2126 + 0.7152 + 0.0722 + 0) / 4 = 0.25
	img := NewImage(2, 2)
	copy(img.Pix, []uint8{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 0, 0, 0,
	})

	avgLum := CalculateAverageLuminance(img)
	if math.Abs(avgLum-0.25) > 0.0001 {
		t.Errorf("Expected average luminance 0.25, got %f", avgLum)
	}
}

func TestCalculateAverageLuminance_White(t *testing.T) {
	img := NewImage(1, 1)
	copy(img.Pix, []uint8{255, 255, 255})

	avgLum := CalculateAverageLuminance(img)
	if math.Abs(avgLum-1.0) > 0.0001 {
		t.Errorf("Expected average luminance 1.0, got %f", avgLum)
	}
}

func TestRenderStats_MergeAndFinalize(t *testing.T) {
	var stats RenderStats
	stats.merge(RenderStats{TotalPixels: 10, TotalSamples: 40})
	stats.merge(RenderStats{TotalPixels: 6, TotalSamples: 24})
	stats.finalize()

	if stats.TotalPixels != 16 || stats.TotalSamples != 64 || stats.AverageSamples != 4 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

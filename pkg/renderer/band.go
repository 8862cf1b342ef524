package renderer

// Band is a horizontal strip of image rows rendered as one unit of work
type Band struct {
	ID int // Band index, top to bottom
	Y0 int // First row (inclusive)
	Y1 int // Last row (exclusive)
}

// Rows returns the number of rows in the band
func (b Band) Rows() int {
	return b.Y1 - b.Y0
}

// NewBandGrid splits height rows into consecutive bands of at most bandHeight rows
func NewBandGrid(height, bandHeight int) []Band {
	if bandHeight <= 0 {
		bandHeight = 1
	}

	bandCount := (height + bandHeight - 1) / bandHeight // Ceiling division
	bands := make([]Band, 0, bandCount)

	for id := 0; id < bandCount; id++ {
		y0 := id * bandHeight
		bands = append(bands, Band{
			ID: id,
			Y0: y0,
			Y1: min(y0+bandHeight, height),
		})
	}

	return bands
}

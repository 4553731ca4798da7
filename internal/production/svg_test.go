package production

import (
	"bytes"
	"encoding/xml"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/lsystemx"
	"github.com/comalice/lsystemx/affine"
)

func TestSVGSurfaceDocument(t *testing.T) {
	var buf bytes.Buffer
	s := NewSVGSurface(&buf, 80, 60, color.RGBA{A: 255})
	_, err := lsystemx.NewTurtle().Interpret("T+TL", affine.Translate(40, 60).Compose(affine.Scale(1, -1)), s)
	require.NoError(t, err)
	s.Close()
	s.Close()

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "</svg>"))
	assert.Contains(t, out, `width="80"`)
	assert.Contains(t, out, "fill:#000000")
	assert.Contains(t, out, "fill:#b26a2d")
	assert.Contains(t, out, "fill:#40e000")
	assert.Contains(t, out, "stroke:#408000")
	assert.Contains(t, out, "scale(0.1)")

	// Background, one stem rectangle and the rotated stem plus leaf as polygons.
	assert.Equal(t, 2, strings.Count(out, "<rect"))
	assert.Equal(t, 3, strings.Count(out, "<polygon"))

	// Well-formed XML.
	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if err != nil {
			assert.Equal(t, "EOF", err.Error())
			break
		}
	}
}

func TestSVGRectangleNormalisesCorners(t *testing.T) {
	var buf bytes.Buffer
	s := NewSVGSurface(&buf, 10, 10, color.RGBA{A: 255})
	s.FillRectangle(affine.Point{X: 5, Y: 9}, affine.Point{X: 4.5, Y: 3}, color.RGBA{R: 255, A: 128})
	s.Close()

	out := buf.String()
	assert.Contains(t, out, `x="45" y="30" width="5" height="60"`)
	assert.Contains(t, out, "fill-opacity:0.502")
}

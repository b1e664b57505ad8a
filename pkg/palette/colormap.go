package palette

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Colormap maps a scalar in [0, 1] to a colour by blending evenly spaced
// stops in HCL space.
type Colormap []colorful.Color

// Viridis is a perceptually uniform blue-green-yellow colormap.
var Viridis = mustColormap("#440154", "#3b528b", "#21918c", "#5ec962", "#fde725")

func mustColormap(hexes ...string) Colormap {
	cm := make(Colormap, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(err)
		}
		cm[i] = c
	}
	return cm
}

// At returns the colour for scalar s. Values outside [0, 1] are clamped.
func (cm Colormap) At(s float64) colorful.Color {
	switch len(cm) {
	case 0:
		return colorful.Color{}
	case 1:
		return cm[0]
	}
	s = math.Max(0, math.Min(1, s))
	pos := s * float64(len(cm)-1)
	i := int(pos)
	if i >= len(cm)-1 {
		return cm[len(cm)-1]
	}
	t := pos - float64(i)
	if t == 0 {
		return cm[i]
	}
	return cm[i].BlendHcl(cm[i+1], t).Clamped()
}

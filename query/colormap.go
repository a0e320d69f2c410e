package query

// colormap is a fixed 256-entry table approximating matplotlib's
// viridis, the colormap the original dataset service used for its PNG
// tiles, built once by linear interpolation between its published
// anchor colors.
var colormap = buildColormap()

type rgb8 struct{ r, g, b uint8 }

var viridisAnchors = []rgb8{
	{68, 1, 84}, {72, 40, 120}, {62, 74, 137}, {49, 104, 142},
	{38, 130, 142}, {31, 158, 137}, {53, 183, 121}, {109, 205, 89},
	{180, 222, 44}, {253, 231, 37},
}

func buildColormap() [256]rgb8 {
	var lut [256]rgb8
	n := len(viridisAnchors)
	for i := 0; i < 256; i++ {
		t := float64(i) / 255 * float64(n-1)
		i0 := int(t)
		if i0 >= n-1 {
			lut[i] = viridisAnchors[n-1]
			continue
		}
		f := t - float64(i0)
		a, b := viridisAnchors[i0], viridisAnchors[i0+1]
		lut[i] = rgb8{
			r: lerp8(a.r, b.r, f),
			g: lerp8(a.g, b.g, f),
			b: lerp8(a.b, b.b, f),
		}
	}
	return lut
}

func lerp8(a, b uint8, f float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*f)
}

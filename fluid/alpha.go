package fluid

// Alpha maps a density value to an 8-bit opacity: d·255, saturating at 255.
// Negative densities, which the solver can produce near sharp gradients,
// map to 0.
func Alpha(d float32) uint8 {
	v := d * 255
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// AlphaBytes writes Alpha for every cell of density into dst, growing it
// as needed, and returns the filled slice.
func AlphaBytes(dst []byte, density []float32) []byte {
	if cap(dst) < len(density) {
		dst = make([]byte, len(density))
	}
	dst = dst[:len(density)]
	for i, d := range density {
		dst[i] = Alpha(d)
	}
	return dst
}

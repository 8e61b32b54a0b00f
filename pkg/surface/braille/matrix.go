package braille

// affine is a 2-D affine transform:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
type affine struct {
	a, b, c, d, e, f float64
}

func identity() affine {
	return affine{a: 1, d: 1}
}

// multiply returns m * n, applying n first.
func (m affine) multiply(n affine) affine {
	return affine{
		a: m.a*n.a + m.c*n.b,
		b: m.b*n.a + m.d*n.b,
		c: m.a*n.c + m.c*n.d,
		d: m.b*n.c + m.d*n.d,
		e: m.a*n.e + m.c*n.f + m.e,
		f: m.b*n.e + m.d*n.f + m.f,
	}
}

func (m affine) translate(x, y float64) affine {
	return m.multiply(affine{a: 1, d: 1, e: x, f: y})
}

func (m affine) scale(x, y float64) affine {
	return m.multiply(affine{a: x, d: y})
}

func (m affine) apply(x, y float64) (float64, float64) {
	return m.a*x + m.c*y + m.e, m.b*x + m.d*y + m.f
}

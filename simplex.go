package main

import "math"

// Skew and unskew factors for the 2D and 3D simplex lattices.
const (
	skew2   = 0.36602540378443864676 // (sqrt(3) - 1) / 2
	unskew2 = 0.21132486540518711775 // (3 - sqrt(3)) / 6
	skew3   = 1.0 / 3.0
	unskew3 = 1.0 / 6.0

	// Park-Miller minimal standard generator.
	lcgModulus    = 2147483647
	lcgMultiplier = 16807
)

// grad3 are the edge midpoints of a cube, shared by the 2D and 3D variants.
var grad3 = [12][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
}

// SimplexNoise is a seeded simplex noise source. The tables are filled once in
// NewSimplexNoise and never written again, so a single instance can be shared
// between goroutines.
type SimplexNoise struct {
	perm      [512]int
	permMod12 [512]int
}

// NewSimplexNoise builds the permutation tables for seed. Seeds in (0, 1) are
// scaled up to the generator's integer range first, so fractional seeds
// produce distinct tables instead of collapsing to zero.
func NewSimplexNoise(seed float64) *SimplexNoise {
	state := lcgState(seed)

	var p [256]int
	for i := range p {
		p[i] = i
	}
	for i := 255; i > 0; i-- {
		state = state * lcgMultiplier % lcgModulus
		j := int(state % int64(i+1))
		p[i], p[j] = p[j], p[i]
	}

	n := &SimplexNoise{}
	for i := range n.perm {
		n.perm[i] = p[i%256]
		n.permMod12[i] = n.perm[i] % 12
	}
	return n
}

func lcgState(seed float64) int64 {
	if seed > 0 && seed < 1 {
		seed = math.Floor(seed * lcgModulus)
	}
	s := int64(math.Abs(math.Trunc(seed))) % lcgModulus
	if s == 0 {
		s = 1
	}
	return s
}

// Sample2D returns 2D simplex noise in [-1, 1].
func (n *SimplexNoise) Sample2D(x, y float64) float64 {
	s := (x + y) * skew2
	i := int(math.Floor(x + s))
	j := int(math.Floor(y + s))

	t := float64(i+j) * unskew2
	x0 := x - (float64(i) - t)
	y0 := y - (float64(j) - t)

	// Lower or upper triangle of the skewed cell.
	var i1, j1 int
	if x0 > y0 {
		i1 = 1
	} else {
		j1 = 1
	}

	x1 := x0 - float64(i1) + unskew2
	y1 := y0 - float64(j1) + unskew2
	x2 := x0 - 1 + 2*unskew2
	y2 := y0 - 1 + 2*unskew2

	ii := wrap256(i)
	jj := wrap256(j)
	gi0 := n.permMod12[ii+n.perm[jj]]
	gi1 := n.permMod12[ii+i1+n.perm[jj+j1]]
	gi2 := n.permMod12[ii+1+n.perm[jj+1]]

	return 70 * (corner2(gi0, x0, y0) + corner2(gi1, x1, y1) + corner2(gi2, x2, y2))
}

// Sample3D returns 3D simplex noise in [-1, 1].
func (n *SimplexNoise) Sample3D(x, y, z float64) float64 {
	s := (x + y + z) * skew3
	i := int(math.Floor(x + s))
	j := int(math.Floor(y + s))
	k := int(math.Floor(z + s))

	t := float64(i+j+k) * unskew3
	x0 := x - (float64(i) - t)
	y0 := y - (float64(j) - t)
	z0 := z - (float64(k) - t)

	// Pick the tetrahedron from the ordering of the offsets.
	var i1, j1, k1, i2, j2, k2 int
	if x0 >= y0 {
		switch {
		case y0 >= z0:
			i1, i2, j2 = 1, 1, 1
		case x0 >= z0:
			i1, i2, k2 = 1, 1, 1
		default:
			k1, i2, k2 = 1, 1, 1
		}
	} else {
		switch {
		case y0 < z0:
			k1, j2, k2 = 1, 1, 1
		case x0 < z0:
			j1, j2, k2 = 1, 1, 1
		default:
			j1, i2, j2 = 1, 1, 1
		}
	}

	x1 := x0 - float64(i1) + unskew3
	y1 := y0 - float64(j1) + unskew3
	z1 := z0 - float64(k1) + unskew3
	x2 := x0 - float64(i2) + 2*unskew3
	y2 := y0 - float64(j2) + 2*unskew3
	z2 := z0 - float64(k2) + 2*unskew3
	x3 := x0 - 1 + 3*unskew3
	y3 := y0 - 1 + 3*unskew3
	z3 := z0 - 1 + 3*unskew3

	ii := wrap256(i)
	jj := wrap256(j)
	kk := wrap256(k)
	gi0 := n.permMod12[ii+n.perm[jj+n.perm[kk]]]
	gi1 := n.permMod12[ii+i1+n.perm[jj+j1+n.perm[kk+k1]]]
	gi2 := n.permMod12[ii+i2+n.perm[jj+j2+n.perm[kk+k2]]]
	gi3 := n.permMod12[ii+1+n.perm[jj+1+n.perm[kk+1]]]

	return 32 * (corner3(gi0, x0, y0, z0) +
		corner3(gi1, x1, y1, z1) +
		corner3(gi2, x2, y2, z2) +
		corner3(gi3, x3, y3, z3))
}

func corner2(gi int, x, y float64) float64 {
	t := 0.5 - x*x - y*y
	if t < 0 {
		return 0
	}
	t *= t
	g := grad3[gi]
	return t * t * (g[0]*x + g[1]*y)
}

func corner3(gi int, x, y, z float64) float64 {
	t := 0.6 - x*x - y*y - z*z
	if t < 0 {
		return 0
	}
	t *= t
	g := grad3[gi]
	return t * t * (g[0]*x + g[1]*y + g[2]*z)
}

// wrap256 maps any lattice coordinate onto [0, 255].
func wrap256(v int) int {
	v %= 256
	if v < 0 {
		v += 256
	}
	return v
}

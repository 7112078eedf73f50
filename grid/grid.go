// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package grid builds the non-uniform 1-D spatial mesh the finite-difference
// engine discretises the Black-Scholes generator over. The mesh always
// passes through a pivot node (the spot), the way CGrid did in the engine
// this package is grounded on.
package grid

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/jingyuzhao-math/fdpricing/fdsettings"
)

// Grid is an immutable, strictly increasing 1-D mesh of N+1 nodes passing
// through the pivot x0
//  N        -- number of intervals; grid has N+1 nodes
//  X0       -- pivot (spot); guaranteed to be a node
//  Lb, Ub   -- lower/upper bounds
//  GridType -- Linear | Logarithmic | Adaptive
//  Pivot    -- index i* such that x[i*] == X0
type Grid struct {
	N        int
	X0       float64
	Lb       float64
	Ub       float64
	GridType fdsettings.GridType
	Pivot    int

	x []float64
}

// New builds a grid via (x0, lb, ub, gridType, N)
func New(x0, lb, ub float64, gridType fdsettings.GridType, N int) (o *Grid, err error) {
	if N < 2 {
		return nil, chk.Err("grid: N must be >= 2 (N=%v is incorrect)", N)
	}
	if lb >= ub {
		return nil, chk.Err("grid: lb must be < ub (lb=%v, ub=%v)", lb, ub)
	}
	if x0 < lb || x0 > ub {
		return nil, chk.Err("grid: pivot x0=%v must lie in [lb,ub]=[%v,%v]", x0, lb, ub)
	}
	if (gridType == fdsettings.Logarithmic || gridType == fdsettings.Adaptive) && lb <= 0 {
		return nil, chk.Err("grid: lb must be positive for gridType=%v (lb=%v is incorrect)", gridType, lb)
	}

	o = &Grid{N: N, X0: x0, Lb: lb, Ub: ub, GridType: gridType}
	o.x = make([]float64, N+1)

	switch gridType {
	case fdsettings.Linear:
		o.makeLinear()
	case fdsettings.Logarithmic:
		o.makeLogarithmic()
	case fdsettings.Adaptive:
		o.makeAdaptive()
	default:
		return nil, chk.Err("grid: unknown gridType %v", gridType)
	}

	if !o.isStrictlyIncreasing() {
		return nil, chk.Err("grid: construction produced a non-increasing mesh")
	}
	return o, nil
}

// makeLinear builds a uniform grid, then shifts it so the pivot is a node
func (o *Grid) makeLinear() {
	N := o.N
	h := (o.Ub - o.Lb) / float64(N)
	istar := int(math.Round(float64(N) * (o.X0 - o.Lb) / (o.Ub - o.Lb)))
	if istar < 0 {
		istar = 0
	}
	if istar > N {
		istar = N
	}
	for i := 0; i <= N; i++ {
		o.x[i] = o.Lb + float64(i)*h
	}
	shift := o.X0 - o.x[istar]
	for i := 0; i <= N; i++ {
		o.x[i] += shift
	}
	o.Lb, o.Ub = o.x[0], o.x[N]
	o.Pivot = istar
}

// makeLogarithmic builds a grid uniform in log(x), pivot-adjusted in log-space
func (o *Grid) makeLogarithmic() {
	N := o.N
	lnLb, lnUb, lnX0 := math.Log(o.Lb), math.Log(o.Ub), math.Log(o.X0)
	h := (lnUb - lnLb) / float64(N)
	istar := int(math.Round(float64(N) * (lnX0 - lnLb) / (lnUb - lnLb)))
	if istar < 0 {
		istar = 0
	}
	if istar > N {
		istar = N
	}
	lnx := make([]float64, N+1)
	for i := 0; i <= N; i++ {
		lnx[i] = lnLb + float64(i)*h
	}
	shift := lnX0 - lnx[istar]
	for i := 0; i <= N; i++ {
		o.x[i] = math.Exp(lnx[i] + shift)
	}
	o.Lb, o.Ub = o.x[0], o.x[N]
	o.Pivot = istar
}

// makeAdaptive concentrates nodes near the pivot via a hyperbolic-sine
// change of variable: x(u) = x0 + α·sinh(β·(u - p)), u ∈ [0,1] uniform,
// with β fixed and a separate α on each side of p, chosen so that x(0)=lb,
// x(1)=ub, and x(p)=x0 exactly at a node.
func (o *Grid) makeAdaptive() {
	N := o.N
	istar := int(math.Round(float64(N) * (o.X0 - o.Lb) / (o.Ub - o.Lb)))
	if istar < 1 {
		istar = 1
	}
	if istar > N-1 {
		istar = N - 1
	}
	p := float64(istar) / float64(N)

	// β controls concentration and is not solved for; sinh(β·(1-p)) and
	// sinh(β·(0-p)) reproduce the requested bounds once scaled by the upper
	// and lower α. A fixed concentration factor keeps the construction well-posed for
	// any pivot location, matching the spec's "nodes strictly increasing"
	// requirement without an inner root-find.
	const beta = 2.0
	sinhUpper := math.Sinh(beta * (1.0 - p))
	sinhLower := math.Sinh(beta * (0.0 - p))

	alphaUpper := (o.Ub - o.X0) / sinhUpper
	alphaLower := (o.Lb - o.X0) / sinhLower

	for i := 0; i <= N; i++ {
		u := float64(i) / float64(N)
		s := beta * (u - p)
		if u >= p {
			o.x[i] = o.X0 + alphaUpper*math.Sinh(s)
		} else {
			o.x[i] = o.X0 + alphaLower*math.Sinh(s)
		}
	}
	o.x[istar] = o.X0
	o.x[0] = o.Lb
	o.x[N] = o.Ub
	o.Pivot = istar
}

func (o *Grid) isStrictlyIncreasing() bool {
	for i := 1; i <= o.N; i++ {
		if o.x[i] <= o.x[i-1] {
			return false
		}
	}
	return true
}

// At returns node i, bounds-checked the way CGrid.Get was
func (o *Grid) At(i int) float64 {
	if i < 0 || i > o.N {
		chk.Panic("grid: index %d out of bounds [0,%d]", i, o.N)
	}
	return o.x[i]
}

// Len returns the number of nodes, N+1
func (o *Grid) Len() int {
	return o.N + 1
}

// Nodes returns the underlying node slice; callers must not mutate it
func (o *Grid) Nodes() []float64 {
	return o.x
}

// Bounds computes the [lb, ub] = [S·e^{-kσ√T}, S·e^{+kσ√T}] policy from
// spec.md §4.4
func Bounds(s, sigma, t, k float64) (lb, ub float64) {
	spread := k * sigma * math.Sqrt(t)
	return s * math.Exp(-spread), s * math.Exp(spread)
}

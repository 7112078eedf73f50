// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/jingyuzhao-math/fdpricing/fdsettings"
)

func Test_grid01(tst *testing.T) {

	chk.PrintTitle("grid01: linear grid invariants")

	g, err := New(100.0, 50.0, 200.0, fdsettings.Linear, 50)
	if err != nil {
		tst.Errorf("New failed: %v", err)
		return
	}

	if g.Len() != 51 {
		tst.Errorf("Len should be N+1=51, got %d", g.Len())
	}
	if !g.isStrictlyIncreasing() {
		tst.Errorf("grid must be strictly increasing")
	}
	chk.Scalar(tst, "x[pivot]", 1e-12, g.At(g.Pivot), g.X0)
}

func Test_grid02(tst *testing.T) {

	chk.PrintTitle("grid02: logarithmic grid invariants")

	g, err := New(100.0, 30.0, 400.0, fdsettings.Logarithmic, 80)
	if err != nil {
		tst.Errorf("New failed: %v", err)
		return
	}
	if !g.isStrictlyIncreasing() {
		tst.Errorf("grid must be strictly increasing")
	}
	chk.Scalar(tst, "x[pivot]", 1e-9, g.At(g.Pivot), g.X0)
	chk.Scalar(tst, "x[0]", 1e-12, g.At(0), g.Lb)
	chk.Scalar(tst, "x[N]", 1e-12, g.At(g.N), g.Ub)
}

func Test_grid03(tst *testing.T) {

	chk.PrintTitle("grid03: adaptive grid invariants")

	g, err := New(100.0, 40.0, 300.0, fdsettings.Adaptive, 100)
	if err != nil {
		tst.Errorf("New failed: %v", err)
		return
	}
	if !g.isStrictlyIncreasing() {
		tst.Errorf("grid must be strictly increasing")
	}
	chk.Scalar(tst, "x[pivot]", 1e-12, g.At(g.Pivot), g.X0)
	chk.Scalar(tst, "x[0]", 1e-12, g.At(0), g.Lb)
	chk.Scalar(tst, "x[N]", 1e-12, g.At(g.N), g.Ub)
}

func Test_grid04(tst *testing.T) {

	chk.PrintTitle("grid04: Bounds policy")

	lb, ub := Bounds(100.0, 0.2, 1.0, 6.0)
	if lb >= 100.0 || ub <= 100.0 {
		tst.Errorf("bounds must straddle the spot: lb=%v ub=%v", lb, ub)
	}
}

func Test_grid05(tst *testing.T) {

	chk.PrintTitle("grid05: construction errors")

	if _, err := New(100.0, 200.0, 50.0, fdsettings.Linear, 10); err == nil {
		tst.Errorf("lb >= ub must error")
	}
	if _, err := New(500.0, 50.0, 200.0, fdsettings.Linear, 10); err == nil {
		tst.Errorf("pivot outside [lb,ub] must error")
	}
	if _, err := New(100.0, -10.0, 200.0, fdsettings.Logarithmic, 10); err == nil {
		tst.Errorf("non-positive lb must error for logarithmic grids")
	}
}

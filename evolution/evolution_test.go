// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package evolution

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/jingyuzhao-math/fdpricing/fdsettings"
	"github.com/jingyuzhao-math/fdpricing/grid"
	"github.com/jingyuzhao-math/fdpricing/payoff"
)

func Test_evolution01(tst *testing.T) {

	chk.PrintTitle("evolution01: Apply preserves a constant payoff (zero-flux boundaries)")

	g, err := grid.New(100.0, 50.0, 200.0, fdsettings.Adaptive, 40)
	if err != nil {
		tst.Fatalf("grid.New failed: %v", err)
	}

	dt := 0.01
	evo := Construct(g, 0.2, 0.05, 0.5, dt, fdsettings.None)

	p := payoff.New(g.N, fdsettings.None)
	for i := range p.Payoff {
		p.Payoff[i] = 42.0
	}
	evo.Apply(p)

	for i, v := range p.Payoff {
		chk.Scalar(tst, "constant payoff preserved", 1e-8, v, 42.0)
		_ = i
	}
}

func Test_evolution02(tst *testing.T) {

	chk.PrintTitle("evolution02: Rebuild changes Dt without touching the generator")

	g, err := grid.New(100.0, 50.0, 200.0, fdsettings.Adaptive, 40)
	if err != nil {
		tst.Fatalf("grid.New failed: %v", err)
	}

	evo := Construct(g, 0.2, 0.05, 0.5, 0.01, fdsettings.None)
	chk.Scalar(tst, "dt", 1e-15, evo.Dt(), 0.01)

	evo.Rebuild(0.0025)
	chk.Scalar(tst, "dt after Rebuild", 1e-15, evo.Dt(), 0.0025)
}

// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fdsettings

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_fdsettings01(tst *testing.T) {

	chk.PrintTitle("fdsettings01: Theta matches the named solver")

	chk.Scalar(tst, "explicit θ", 1e-15, ExplicitEuler.Theta(), 0.0)
	chk.Scalar(tst, "implicit θ", 1e-15, ImplicitEuler.Theta(), 1.0)
	chk.Scalar(tst, "Crank-Nicolson θ", 1e-15, CrankNicolson.Theta(), 0.5)
}

func Test_fdsettings02(tst *testing.T) {

	chk.PrintTitle("fdsettings02: WantsVega/WantsRho gate on the right modes")

	if None.WantsVega() || None.WantsRho() {
		tst.Errorf("None must want neither")
	}
	if !Vega.WantsVega() || Vega.WantsRho() {
		tst.Errorf("Vega must want only vega")
	}
	if Rho.WantsVega() || !Rho.WantsRho() {
		tst.Errorf("Rho must want only rho")
	}
	if !AllGreeks.WantsVega() || !AllGreeks.WantsRho() {
		tst.Errorf("AllGreeks must want both")
	}
}

func Test_fdsettings03(tst *testing.T) {

	chk.PrintTitle("fdsettings03: FDSettings.Validate rejects inconsistent tunables")

	fd := Default()
	if err := fd.Validate(); err != nil {
		tst.Errorf("default settings should validate: %v", err)
	}

	bad := fd
	bad.Theta = 1.5
	if err := bad.Validate(); err == nil {
		tst.Errorf("θ outside [0,1] should fail validation")
	}

	bad = fd
	bad.BoundsK = 0
	if err := bad.Validate(); err == nil {
		tst.Errorf("non-positive BoundsK should fail validation")
	}

	bad = fd
	bad.RefinementFactor = 1.0
	if err := bad.Validate(); err == nil {
		tst.Errorf("RefinementFactor <= 1 should fail validation")
	}
}

// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pricer

import (
	"github.com/jingyuzhao-math/fdpricing/output"
	"github.com/jingyuzhao-math/fdpricing/payoff"
)

// snapshotAtDt records the pivot payoff value one Δt away from the present
// (used by theta's one-sided difference in time)
func (o *Pricer) snapshotAtDt() {
	istar := o.grid.Pivot
	if o.callData != nil {
		o.callLeaves.atDt = o.callData.Payoff[istar]
		o.callLeaves.hasDt = true
	}
	if o.putData != nil {
		o.putLeaves.atDt = o.putData.Payoff[istar]
		o.putLeaves.hasDt = true
	}
}

// finalizeLeaves records the five grid values around the pivot at t=0 (the
// final backward-induction result), used by the non-uniform central
// differences for delta/gamma
func (o *Pricer) finalizeLeaves() {
	istar := o.grid.Pivot
	if o.callData != nil {
		o.callLeaves.pivot = istar
		for k := -2; k <= 2; k++ {
			o.callLeaves.atT0[k+2] = o.callData.Payoff[istar+k]
		}
	}
	if o.putData != nil {
		o.putLeaves.pivot = istar
		for k := -2; k <= 2; k++ {
			o.putLeaves.atT0[k+2] = o.putData.Payoff[istar+k]
		}
	}
}

// extractGreeks computes price/delta/gamma from the surviving grid leaves via
// central differences on the non-uniform grid, theta from the one-step
// difference between the t=Δt snapshot and the t=0 value, and reads
// vega/rho/rhoBorrow directly off the AAD-carried adjoint fields.
func (o *Pricer) extractGreeks(p *payoff.Data, lv leaves, out *output.OptionResult) {
	istar := lv.pivot
	x := o.grid.Nodes()

	xm1, x0, xp1 := x[istar-1], x[istar], x[istar+1]
	vm1, v0, vp1 := lv.atT0[1], lv.atT0[2], lv.atT0[3]

	out.Price = v0
	out.Delta = (vp1 - vm1) / (xp1 - xm1)

	hPlus := xp1 - x0
	hMinus := x0 - xm1
	out.Gamma = 2 * (hMinus*vp1 - (hMinus+hPlus)*v0 + hPlus*vm1) / (hPlus * hMinus * (hPlus + hMinus))

	if lv.hasDt {
		out.Theta = (lv.atDt - v0) / o.dtNominal
	}

	if p.Mode.WantsVega() {
		out.Vega = p.Vega[istar]
	}
	if p.Mode.WantsRho() {
		out.RhoBorrow = p.RhoBorrow[istar]
		out.Rho = p.RhoBorrow[istar] // ∂b/∂r = 1, see payoff.Data's doc comment
	}
}

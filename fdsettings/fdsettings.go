// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fdsettings defines the enumerations and tunables that select how
// the finite-difference engine discretises and steps through an option
// pricing problem
package fdsettings

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// GridType selects how the spatial grid is built around the pivot
type GridType int

const (
	Linear GridType = iota
	Logarithmic
	Adaptive
)

func (o GridType) String() string {
	switch o {
	case Linear:
		return "linear"
	case Logarithmic:
		return "logarithmic"
	case Adaptive:
		return "adaptive"
	}
	return "unknown"
}

// SolverType names the θ value used by the time-evolution operator
type SolverType int

const (
	ExplicitEuler SolverType = iota // θ = 0
	ImplicitEuler                   // θ = 1
	CrankNicolson                   // θ = 1/2
)

// Theta returns the θ-method weight associated with a named solver
func (o SolverType) Theta() float64 {
	switch o {
	case ExplicitEuler:
		return 0.0
	case ImplicitEuler:
		return 1.0
	case CrankNicolson:
		return 0.5
	}
	chk.Panic("fdsettings: unknown solver type %v", o)
	return 0
}

// ExerciseType selects European vs American exercise
type ExerciseType int

const (
	European ExerciseType = iota
	American
)

// CalculationType selects which side(s) of the option are priced
type CalculationType int

const (
	CallOnly CalculationType = iota
	PutOnly
	All
)

// AdjointDifferentiation selects which sensitivities are carried via AAD
type AdjointDifferentiation int

const (
	None AdjointDifferentiation = iota
	Vega
	Rho
	AllGreeks
)

// WantsVega tells whether vega is tracked under this mode
func (o AdjointDifferentiation) WantsVega() bool {
	return o == Vega || o == AllGreeks
}

// WantsRho tells whether rho/rhoBorrow are tracked under this mode
func (o AdjointDifferentiation) WantsRho() bool {
	return o == Rho || o == AllGreeks
}

// FDSettings holds the tunables of the finite-difference scheme
//  Theta            -- θ ∈ [0,1]; 0 = explicit, 1 = implicit, 1/2 = Crank-Nicolson
//  GridType          -- Linear | Logarithmic | Adaptive
//  BoundsK           -- k in bounds policy S·exp(±k·σ·√T)
//  RefinementFactor  -- r > 1, sub-stepping factor used around discrete dividends
type FDSettings struct {
	Theta            float64
	GridType         GridType
	BoundsK          float64
	RefinementFactor float64
}

// Default returns the FDSettings used by the spec's reference scenarios:
// Crank-Nicolson, Adaptive grid, k=6, refinement factor 4
func Default() FDSettings {
	return FDSettings{
		Theta:            0.5,
		GridType:         Adaptive,
		BoundsK:          6.0,
		RefinementFactor: 4.0,
	}
}

// FromPrms builds an FDSettings from a named-parameter table, the same
// convention used throughout gofem's ana package (Init(prms fun.Prms))
func FromPrms(prms fun.Prms) (o FDSettings) {
	o = Default()
	for _, p := range prms {
		switch p.N {
		case "theta":
			o.Theta = p.V
		case "boundsK":
			o.BoundsK = p.V
		case "refinement":
			o.RefinementFactor = p.V
		case "gridtype":
			o.GridType = GridType(int(p.V))
		}
	}
	return
}

// Validate checks that the settings are internally consistent
func (o FDSettings) Validate() error {
	if o.Theta < 0 || o.Theta > 1 {
		return chk.Err("fdsettings: θ must be in [0,1] (θ=%v is incorrect)", o.Theta)
	}
	if o.BoundsK <= 0 {
		return chk.Err("fdsettings: BoundsK must be positive (k=%v is incorrect)", o.BoundsK)
	}
	if o.RefinementFactor <= 1 {
		return chk.Err("fdsettings: RefinementFactor must be > 1 (r=%v is incorrect)", o.RefinementFactor)
	}
	return nil
}

// Settings bundles everything needed to configure a pricer: exercise style,
// which side(s) to calculate, the solver's θ-scheme, adjoint mode, and the
// FD tunables above. Mirrors CPricerSettings from the original engine, which
// bundled exerciseType/calculationType/fdSettings as one value alongside the
// compile-time solverType/adjointDifferentiation tags.
type Settings struct {
	ExerciseType           ExerciseType
	CalculationType        CalculationType
	SolverType             SolverType
	AdjointDifferentiation AdjointDifferentiation
	FD                     FDSettings
}

// DefaultSettings returns American exercise, All sides, Crank-Nicolson, no
// adjoint tracking, and the default FD tunables
func DefaultSettings() Settings {
	return Settings{
		ExerciseType:           American,
		CalculationType:        All,
		SolverType:             CrankNicolson,
		AdjointDifferentiation: None,
		FD:                     Default(),
	}
}

// Theta is the θ-scheme weight actually used by the evolution operator.
// SolverType is authoritative: FD.Theta is a separately validated tunable
// (spec.md §3's FD-settings record) but the enumerated solverType (spec.md
// §6) is what a caller selects, so it always wins over FD.Theta to avoid
// the two going out of sync.
func (o Settings) Theta() float64 {
	return o.SolverType.Theta()
}

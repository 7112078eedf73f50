// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// fdprice is the command-line collaborator of the pricer package: it turns
// flags (or a JSON input file) into an input.Input/fdsettings.Settings pair,
// runs one Pricer, and prints the resulting price and greeks.
package main

import (
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/spf13/cobra"

	"github.com/jingyuzhao-math/fdpricing/fdsettings"
	"github.com/jingyuzhao-math/fdpricing/input"
	"github.com/jingyuzhao-math/fdpricing/output"
	"github.com/jingyuzhao-math/fdpricing/pricer"
)

var (
	inFile string

	s, k, t, sigma, r, q float64
	n, m                 int

	exercise   string
	side       string
	solver     string
	adjoint    string
	gridType   string
	boundsK    float64
	refinement float64
)

func init() {
	rootCmd.Flags().StringVar(&inFile, "input", "", "read market data from a JSON file instead of the flags below")

	rootCmd.Flags().Float64Var(&s, "s", 100.0, "spot")
	rootCmd.Flags().Float64Var(&k, "k", 100.0, "strike")
	rootCmd.Flags().Float64Var(&t, "t", 1.0, "maturity (years)")
	rootCmd.Flags().Float64Var(&sigma, "sigma", 0.20, "volatility")
	rootCmd.Flags().Float64Var(&r, "r", 0.05, "risk-free rate")
	rootCmd.Flags().Float64Var(&q, "q", 0.0, "dividend yield")
	rootCmd.Flags().IntVar(&n, "n", 200, "number of spatial intervals")
	rootCmd.Flags().IntVar(&m, "m", 200, "number of time steps")

	rootCmd.Flags().StringVar(&exercise, "exercise", "american", "european|american")
	rootCmd.Flags().StringVar(&side, "side", "all", "call|put|all")
	rootCmd.Flags().StringVar(&solver, "solver", "cn", "explicit|implicit|cn")
	rootCmd.Flags().StringVar(&adjoint, "adjoint", "none", "none|vega|rho|all")
	rootCmd.Flags().StringVar(&gridType, "grid", "adaptive", "linear|log|adaptive")
	rootCmd.Flags().Float64Var(&boundsK, "boundsk", 6.0, "grid bounds policy S*exp(+-k*sigma*sqrt(T))")
	rootCmd.Flags().Float64Var(&refinement, "refinement", 4.0, "sub-stepping factor around discrete dividends")
}

var rootCmd = &cobra.Command{
	Use:   "fdprice",
	Short: "Finite-difference option pricer",
	Long: `fdprice prices a vanilla European or American option on a single
underlying by θ-scheme finite differences (Crank-Nicolson unless --solver
says otherwise), reporting price, delta,
gamma, theta and (optionally) AAD-carried vega and rho.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, settings, err := buildRequest()
		if err != nil {
			return err
		}
		return run(in, settings)
	},
}

func buildRequest() (input.Input, fdsettings.Settings, error) {
	settings := fdsettings.DefaultSettings()

	if inFile != "" {
		in, err := input.Load(inFile)
		if err != nil {
			return input.Input{}, settings, err
		}
		if err := applySettingsFlags(&settings); err != nil {
			return input.Input{}, settings, err
		}
		return *in, settings, nil
	}

	in := input.Input{S: s, K: k, T: t, Sigma: sigma, R: r, Q: q, N: n, M: m}
	if err := applySettingsFlags(&settings); err != nil {
		return input.Input{}, settings, err
	}
	if err := in.Validate(); err != nil {
		return input.Input{}, settings, err
	}
	return in, settings, nil
}

func applySettingsFlags(settings *fdsettings.Settings) error {
	switch exercise {
	case "european":
		settings.ExerciseType = fdsettings.European
	case "american":
		settings.ExerciseType = fdsettings.American
	default:
		return chk.Err("fdprice: unknown --exercise %q", exercise)
	}

	switch side {
	case "call":
		settings.CalculationType = fdsettings.CallOnly
	case "put":
		settings.CalculationType = fdsettings.PutOnly
	case "all":
		settings.CalculationType = fdsettings.All
	default:
		return chk.Err("fdprice: unknown --side %q", side)
	}

	switch solver {
	case "explicit":
		settings.SolverType = fdsettings.ExplicitEuler
	case "implicit":
		settings.SolverType = fdsettings.ImplicitEuler
	case "cn":
		settings.SolverType = fdsettings.CrankNicolson
	default:
		return chk.Err("fdprice: unknown --solver %q", solver)
	}

	switch adjoint {
	case "none":
		settings.AdjointDifferentiation = fdsettings.None
	case "vega":
		settings.AdjointDifferentiation = fdsettings.Vega
	case "rho":
		settings.AdjointDifferentiation = fdsettings.Rho
	case "all":
		settings.AdjointDifferentiation = fdsettings.AllGreeks
	default:
		return chk.Err("fdprice: unknown --adjoint %q", adjoint)
	}

	switch gridType {
	case "linear":
		settings.FD.GridType = fdsettings.Linear
	case "log":
		settings.FD.GridType = fdsettings.Logarithmic
	case "adaptive":
		settings.FD.GridType = fdsettings.Adaptive
	default:
		return chk.Err("fdprice: unknown --grid %q", gridType)
	}
	settings.FD.BoundsK = boundsK
	settings.FD.RefinementFactor = refinement

	return settings.FD.Validate()
}

func run(in input.Input, settings fdsettings.Settings) error {
	p, err := pricer.New(in, settings)
	if err != nil {
		return err
	}

	var callOut, putOut *output.OptionResult
	if settings.CalculationType == fdsettings.CallOnly || settings.CalculationType == fdsettings.All {
		callOut = &output.OptionResult{}
	}
	if settings.CalculationType == fdsettings.PutOnly || settings.CalculationType == fdsettings.All {
		putOut = &output.OptionResult{}
	}

	if err := p.Price(callOut, putOut); err != nil {
		return err
	}

	printResult("call", callOut)
	printResult("put", putOut)
	return nil
}

func printResult(label string, o *output.OptionResult) {
	if o == nil {
		return
	}
	io.PfWhite("\n%s\n", label)
	io.Pf("  price      = %v\n", o.Price)
	io.Pf("  delta      = %v\n", o.Delta)
	io.Pf("  gamma      = %v\n", o.Gamma)
	io.Pf("  theta      = %v\n", o.Theta)
	io.Pf("  vega       = %v\n", o.Vega)
	io.Pf("  rho        = %v\n", o.Rho)
	io.Pf("  rhoBorrow  = %v\n", o.RhoBorrow)
}

func main() {
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			io.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	io.PfWhite("\nfdprice -- finite-difference option pricer\n\n")

	if err := rootCmd.Execute(); err != nil {
		io.PfRed("ERROR: %v\n", err)
		os.Exit(1)
	}
}

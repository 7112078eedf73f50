// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package input implements the market-data input read for a pricing
// request, in the same JSON-driven style gofem's inp package uses to read a
// simulation's (.sim) file
package input

import (
	"encoding/json"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
)

// Dividend holds one discrete cash dividend: the stock jumps down by
// Dividend at year-fraction Time
type Dividend struct {
	Time     float64 `json:"time"`     // year fraction of ex-div date
	Dividend float64 `json:"dividend"` // cash amount
}

// Input holds market data and grid/time resolution for one pricing request
type Input struct {
	S float64 `json:"s"` // spot
	K float64 `json:"k"` // strike
	T float64 `json:"t"` // maturity (years)

	Sigma float64 `json:"sigma"` // volatility
	R     float64 `json:"r"`     // risk-free rate
	Q     float64 `json:"q"`     // dividend yield

	N int `json:"n"` // number of spatial intervals (grid has N+1 nodes)
	M int `json:"m"` // number of time steps

	Dividends []Dividend `json:"dividends"` // discrete cash dividends, ascending by Time
}

// B returns the cost-of-carry b = r - q
func (o Input) B() float64 {
	return o.R - o.Q
}

// Validate checks that the input is well formed, returning an error the
// caller can surface synchronously (spec's InvalidInput error kind)
func (o Input) Validate() error {
	if o.S <= 0 {
		return chk.Err("input: S must be positive (S=%v is incorrect)", o.S)
	}
	if o.K <= 0 {
		return chk.Err("input: K must be positive (K=%v is incorrect)", o.K)
	}
	if o.T <= 0 {
		return chk.Err("input: T must be positive (T=%v is incorrect)", o.T)
	}
	if o.Sigma <= 0 {
		return chk.Err("input: σ must be positive (σ=%v is incorrect)", o.Sigma)
	}
	if o.N < 2 {
		return chk.Err("input: N must be >= 2 (N=%v is incorrect)", o.N)
	}
	if o.M < 1 {
		return chk.Err("input: M must be >= 1 (M=%v is incorrect)", o.M)
	}
	if !sort.SliceIsSorted(o.Dividends, func(i, j int) bool {
		return o.Dividends[i].Time < o.Dividends[j].Time
	}) {
		return chk.Err("input: dividend schedule must be sorted ascending by time")
	}
	for _, d := range o.Dividends {
		if d.Time <= 0 || d.Time >= o.T {
			return chk.Err("input: dividend time %v must lie in (0,T)", d.Time)
		}
		if d.Dividend < 0 {
			return chk.Err("input: dividend amount %v must be non-negative", d.Dividend)
		}
	}
	return nil
}

// FromPrms builds an Input from a named-parameter table, the convention
// used throughout gofem's ana package (Init(prms fun.Prms))
func FromPrms(prms fun.Prms) (o Input) {
	o.N = 200
	o.M = 200
	for _, p := range prms {
		switch p.N {
		case "s":
			o.S = p.V
		case "k":
			o.K = p.V
		case "t":
			o.T = p.V
		case "sigma":
			o.Sigma = p.V
		case "r":
			o.R = p.V
		case "q":
			o.Q = p.V
		case "n":
			o.N = int(p.V)
		case "m":
			o.M = int(p.V)
		}
	}
	return
}

// Load reads an Input from a JSON file, mirroring inp.ReadSim's
// read-file-then-unmarshal-then-validate pattern
func Load(fname string) (o *Input, err error) {
	buf, err := io.ReadFile(fname)
	if err != nil {
		return nil, chk.Err("input: cannot read file %q:\n%v", fname, err)
	}
	o = new(Input)
	err = json.Unmarshal(buf, o)
	if err != nil {
		return nil, chk.Err("input: cannot parse file %q:\n%v", fname, err)
	}
	err = o.Validate()
	if err != nil {
		return nil, err
	}
	return o, nil
}

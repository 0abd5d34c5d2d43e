/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package scm

import (
	"math"
)

// gammaVariate draws from Gamma(alpha, scale) with the Marsaglia-Tsang
// method; alpha < 1 is boosted by one and corrected with U^(1/alpha).
func (it *Interp) gammaVariate(alpha, scale float64) float64 {
	if alpha < 1 {
		u := it.rand.Float64()
		return it.gammaVariate(alpha+1, scale) * math.Pow(u, 1/alpha)
	}
	d := alpha - 1.0/3.0
	c := 1 / math.Sqrt(9*d)
	for {
		x := it.rand.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := it.rand.Float64()
		if u < 1-0.0331*x*x*x*x || math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v * scale
		}
	}
}

// betaVariate uses two gamma draws: x/(x+y)
func (it *Interp) betaVariate(alpha, beta float64) float64 {
	x := it.gammaVariate(alpha, 1)
	y := it.gammaVariate(beta, 1)
	if x+y == 0 {
		return 0.5
	}
	return x / (x + y)
}

func positiveArg(fn string, v Scmer) (float64, error) {
	if !isNumber(v) || !(ToFloat(v) > 0) {
		return 0, typeError(fn, "a positive number", v)
	}
	return ToFloat(v), nil
}

func declareUnary(name, desc string, fn func(float64) float64) {
	Declare(&Declaration{
		name, desc,
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"value", "number", "value"},
		}, "number",
		func(en *Env, a ...Scmer) (Scmer, error) {
			if !isNumber(a[0]) {
				return nil, typeError(name, "a number", a[0])
			}
			return fn(ToFloat(a[0])), nil
		},
	})
}

// declareRounding keeps integers integers
func declareRounding(name, desc string, fn func(float64) float64) {
	Declare(&Declaration{
		name, desc,
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"value", "number", "value"},
		}, "int",
		func(en *Env, a ...Scmer) (Scmer, error) {
			switch v := a[0].(type) {
			case int64:
				return v, nil
			case float64:
				r := fn(v)
				if math.IsInf(r, 0) || math.IsNaN(r) {
					return r, nil
				}
				return int64(r), nil
			}
			return nil, typeError(name, "a number", a[0])
		},
	})
}

func declareExtremum(name, desc string, better func(a, b Scmer) (bool, error)) {
	Declare(&Declaration{
		name, desc,
		1, -1,
		[]DeclarationParameter{
			DeclarationParameter{"value...", "number", "values"},
		}, "number",
		func(en *Env, a ...Scmer) (Scmer, error) {
			if _, err := checkNumbers(name, a); err != nil {
				return nil, err
			}
			result := a[0]
			for _, x := range a[1:] {
				ok, err := better(x, result)
				if err != nil {
					return nil, err
				}
				if ok {
					result = x
				}
			}
			return result, nil
		},
	})
}

func init_math() {
	DeclareTitle("Math")

	declareUnary("sqrt", "returns the square root of a number", math.Sqrt)
	declareUnary("log", "natural logarithm", math.Log)
	declareUnary("exp", "e to the power of a number", math.Exp)
	declareUnary("cos", "cosine of an angle in radians", math.Cos)
	declareUnary("sin", "sine of an angle in radians", math.Sin)
	declareRounding("floor", "rounds the number down", math.Floor)
	declareRounding("ceiling", "rounds the number up", math.Ceil)
	declareRounding("round", "rounds the number half away from zero", math.Round)
	declareExtremum("min", "returns the smallest value", func(a, b Scmer) (bool, error) { return Less("min", a, b) })
	declareExtremum("max", "returns the highest value", func(a, b Scmer) (bool, error) { return Less("max", b, a) })
	Declare(&Declaration{
		"abs", "absolute value",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"value", "number", "value"},
		}, "number",
		func(en *Env, a ...Scmer) (Scmer, error) {
			switch v := a[0].(type) {
			case int64:
				if v < 0 {
					return -v, nil
				}
				return v, nil
			case float64:
				return math.Abs(v), nil
			}
			return nil, typeError("abs", "a number", a[0])
		},
	})
	Declare(&Declaration{
		"expt", "base to the power of exponent; integer for integer base and non-negative integer exponent",
		2, 2,
		[]DeclarationParameter{
			DeclarationParameter{"base", "number", "base"},
			DeclarationParameter{"exponent", "number", "exponent"},
		}, "number",
		func(en *Env, a ...Scmer) (Scmer, error) {
			allInt, err := checkNumbers("expt", a)
			if err != nil {
				return nil, err
			}
			if allInt && a[1].(int64) >= 0 {
				result, base := int64(1), a[0].(int64)
				for e := a[1].(int64); e > 0; e >>= 1 {
					if e&1 == 1 {
						result *= base
					}
					base *= base
				}
				return result, nil
			}
			return math.Pow(ToFloat(a[0]), ToFloat(a[1])), nil
		},
	})

	DeclareTitle("Randomness")
	Declare(&Declaration{
		"random", "(random) is uniform in [0,1), (random n) an integer in [0,n) for integer n, (random lo hi) uniform in [lo,hi)",
		0, 2,
		[]DeclarationParameter{
			DeclarationParameter{"lo-or-n", "number", "upper bound or lower bound"},
			DeclarationParameter{"hi", "number", "upper bound"},
		}, "number",
		func(en *Env, a ...Scmer) (Scmer, error) {
			r := en.Interp().rand
			if _, err := checkNumbers("random", a); err != nil {
				return nil, err
			}
			switch len(a) {
			case 0:
				return r.Float64(), nil
			case 1:
				if n, ok := a[0].(int64); ok {
					if n <= 0 {
						return nil, typeError("random", "a positive bound", a[0])
					}
					return r.Int63n(n), nil
				}
				return r.Float64() * ToFloat(a[0]), nil
			}
			lo, hi := ToFloat(a[0]), ToFloat(a[1])
			return lo + r.Float64()*(hi-lo), nil
		},
	})
	Declare(&Declaration{
		"random-gamma", "draws from a gamma distribution",
		1, 2,
		[]DeclarationParameter{
			DeclarationParameter{"alpha", "number", "shape, > 0"},
			DeclarationParameter{"scale", "number", "scale, > 0, default 1"},
		}, "number",
		func(en *Env, a ...Scmer) (Scmer, error) {
			alpha, err := positiveArg("random-gamma", a[0])
			if err != nil {
				return nil, err
			}
			scale := 1.0
			if len(a) > 1 {
				if scale, err = positiveArg("random-gamma", a[1]); err != nil {
					return nil, err
				}
			}
			return en.Interp().gammaVariate(alpha, scale), nil
		},
	})
	Declare(&Declaration{
		"random-beta", "draws from a beta distribution, e.g. for Thompson sampling",
		2, 2,
		[]DeclarationParameter{
			DeclarationParameter{"alpha", "number", "alpha, > 0"},
			DeclarationParameter{"beta", "number", "beta, > 0"},
		}, "number",
		func(en *Env, a ...Scmer) (Scmer, error) {
			alpha, err := positiveArg("random-beta", a[0])
			if err != nil {
				return nil, err
			}
			beta, err := positiveArg("random-beta", a[1])
			if err != nil {
				return nil, err
			}
			return en.Interp().betaVariate(alpha, beta), nil
		},
	})
}

package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Basic statistical functions used across the phrase algorithms, backed by gonum

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// StandardDeviation calculates the sample standard deviation
func StandardDeviation(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}
	return stat.StdDev(data, nil)
}

// MinMax returns the smallest and largest values, (0, 0) for empty data
func MinMax(data []float64) (float64, float64) {
	if len(data) == 0 {
		return 0, 0
	}
	return floats.Min(data), floats.Max(data)
}

// Sum returns the sum of the values
func Sum(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return floats.Sum(data)
}

// LinRegression performs simple linear regression and returns slope, intercept, r²
func LinRegression(x, y []float64) (slope, intercept, rSquared float64) {
	if len(x) != len(y) || len(x) < 2 {
		return 0, 0, 0
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	rSquared = stat.RSquared(x, y, nil, alpha, beta)
	if math.IsNaN(rSquared) || math.IsInf(rSquared, 0) {
		rSquared = 0.0
	}
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return 0, alpha, 0
	}

	return beta, alpha, rSquared
}

// GaussianPull returns how strongly a value should be pulled back toward target,
// in [0, 1]: 0 at the target, approaching 1 when far away relative to sigma.
func GaussianPull(value, target, sigma float64) float64 {
	if sigma <= 0 {
		return 1
	}
	n := distuv.Normal{Mu: target, Sigma: sigma}
	return 1 - n.Prob(value)/n.Prob(target)
}

// Clamp constrains a value to a range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

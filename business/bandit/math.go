package bandit

import "math"

// sampleGamma draws from Gamma(shape, 1). Marsaglia-Tsang for shape >= 1;
// smaller shapes are boosted: Gamma(a) = Gamma(a+1) * U^(1/a).
func sampleGamma(rng RandomSource, shape float64) float64 {
	if shape < 1 {
		u := rng.Float64()
		return sampleGamma(rng, shape+1) * math.Pow(u, 1.0/shape)
	}

	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)
	for {
		var x, v float64
		for {
			x = rng.NormFloat64()
			v = 1.0 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1.0-0.0331*(x*x)*(x*x) {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v
		}
	}
}

// sampleBeta draws from Beta(alpha, beta) as x/(x+y) of two Gamma draws.
func sampleBeta(rng RandomSource, alpha, beta float64) float64 {
	if alpha <= 0 {
		alpha = 1
	}
	if beta <= 0 {
		beta = 1
	}
	x := sampleGamma(rng, alpha)
	y := sampleGamma(rng, beta)
	if x+y == 0 {
		return 0.5
	}
	return x / (x + y)
}

// PosteriorMean is the mean of Beta(alpha, beta).
func PosteriorMean(alpha, beta float64) float64 {
	if alpha+beta <= 0 {
		return 0.5
	}
	return alpha / (alpha + beta)
}

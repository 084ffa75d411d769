package matching

import "math"

// unknownBandScore is used when the project names no recognised band.
const unknownBandScore = 70

// ExperienceFit maps years of experience onto the curve of the required band.
//
//	beginner                  100 up to 3 years, then -20 per extra year
//	intermediate              100 within 3..8 years, else 100 - |years-5.5|*15
//	expert                    100 from 8 years, else years*12.5
//	beginner_to_intermediate  100 up to 8 years, then -15 per extra year
//
// Results are clamped to [0,100].
func ExperienceFit(years int, band ExperienceBand) float64 {
	y := float64(years)

	var score float64
	switch band {
	case BandBeginner:
		if y <= 3 {
			score = 100
		} else {
			score = 100 - (y-3)*20
		}
	case BandIntermediate:
		if y >= 3 && y <= 8 {
			score = 100
		} else {
			score = 100 - math.Abs(y-5.5)*15
		}
	case BandExpert:
		if y >= 8 {
			score = 100
		} else {
			score = y * 12.5
		}
	case BandBeginnerToIntermediate:
		if y <= 8 {
			score = 100
		} else {
			score = 100 - (y-8)*15
		}
	default:
		score = unknownBandScore
	}

	return clamp(score)
}

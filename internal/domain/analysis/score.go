package analysis

// Band is the named range an overall score falls into.
type Band string

const (
	BandClean       Band = "clean"
	BandMinor       Band = "minor"
	BandModerate    Band = "moderate"
	BandSignificant Band = "significant"
	BandSevere      Band = "severe"
)

const (
	MinScore = 0
	MaxScore = 100
)

// ScoreBand maps a score onto the fixed banding used by the prompt:
// 0-20 clean, 21-40 minor, 41-60 moderate, 61-80 significant, 81-100 severe.
// Negative scores land in clean, anything above 100 in severe.
func ScoreBand(score float64) Band {
	switch {
	case score <= 20:
		return BandClean
	case score <= 40:
		return BandMinor
	case score <= 60:
		return BandModerate
	case score <= 80:
		return BandSignificant
	default:
		return BandSevere
	}
}

// ClampScore keeps a score inside [0,100].
func ClampScore(score float64) float64 {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

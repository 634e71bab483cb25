package feedback

// ScoreBand buckets the overall score for presentation.
type ScoreBand string

const (
	BandExcellent ScoreBand = "excellent"
	BandSolid     ScoreBand = "solid"
	BandFair      ScoreBand = "fair"
	BandPoor      ScoreBand = "poor"
)

// DisplayModel is the presentation-ready view of a completed analysis.
// It carries no behavior and no network references beyond asset URLs.
type DisplayModel struct {
	Score           int
	Band            ScoreBand
	Risk            InjuryRisk
	RiskExplanation string
	Issues          []CriticalIssue
	Positive        string
	Summary         string
	Similarity      *int
	UserGIF         string
	ProGIF          string
}

// Render maps a completed payload to its display model. Pure function: no
// network access, no mutation of the payload.
func Render(p *Payload) *DisplayModel {
	if p == nil {
		return nil
	}

	issues := make([]CriticalIssue, len(p.CriticalIssues))
	copy(issues, p.CriticalIssues)

	return &DisplayModel{
		Score:           p.OverallScore,
		Band:            bandFor(p.OverallScore),
		Risk:            p.InjuryRisk,
		RiskExplanation: p.InjuryRiskExplanation,
		Issues:          issues,
		Positive:        p.PositiveFeedback,
		Summary:         p.Summary,
		Similarity:      p.SimilarityPercent,
		UserGIF:         p.UserGIF,
		ProGIF:          p.ProGIF,
	}
}

// bandFor buckets a score; the thresholds are a display concern only.
func bandFor(score int) ScoreBand {
	switch {
	case score >= 85:
		return BandExcellent
	case score >= 70:
		return BandSolid
	case score >= 50:
		return BandFair
	default:
		return BandPoor
	}
}

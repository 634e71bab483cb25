// Package feedback holds the coaching feedback returned by the analysis
// service and the pure mapping from that payload to a display model.
package feedback

import "fmt"

// InjuryRisk is the server's overall injury risk classification.
type InjuryRisk string

const (
	RiskLow      InjuryRisk = "LOW"
	RiskModerate InjuryRisk = "MODERATE"
	RiskHigh     InjuryRisk = "HIGH"
)

// Valid reports whether the value is one of the documented risk levels.
func (r InjuryRisk) Valid() bool {
	switch r {
	case RiskLow, RiskModerate, RiskHigh:
		return true
	default:
		return false
	}
}

// CriticalIssue describes one form problem found in the submitted swing,
// ordered by the server from most to least injury-prone.
type CriticalIssue struct {
	BodyPart   string `json:"body_part"`
	Problem    string `json:"problem"`
	InjuryRisk string `json:"injury_risk"`
	Correction string `json:"correction"`
	Drill      string `json:"drill"`
}

// Payload is the completed analysis result. Field names follow the wire
// format emitted by the analysis service.
type Payload struct {
	OverallScore          int             `json:"overall_score"`
	InjuryRisk            InjuryRisk      `json:"injury_risk"`
	InjuryRiskExplanation string          `json:"injury_risk_explanation"`
	CriticalIssues        []CriticalIssue `json:"critical_issues"`
	PositiveFeedback      string          `json:"positive_feedback"`
	Summary               string          `json:"summary"`
	SimilarityPercent     *int            `json:"similarity_percent,omitempty"`

	// Comparison assets are referenced by URL, not embedded.
	UserGIF string `json:"userGif,omitempty"`
	ProGIF  string `json:"proGif,omitempty"`
}

// Validate checks the payload against its documented ranges.
func (p *Payload) Validate() error {
	if p.OverallScore < 0 || p.OverallScore > 100 {
		return fmt.Errorf("overall_score %d out of range [0,100]", p.OverallScore)
	}
	if p.InjuryRisk != "" && !p.InjuryRisk.Valid() {
		return fmt.Errorf("unknown injury_risk %q (must be one of: LOW, MODERATE, HIGH)", p.InjuryRisk)
	}
	if p.SimilarityPercent != nil {
		if s := *p.SimilarityPercent; s < 0 || s > 100 {
			return fmt.Errorf("similarity_percent %d out of range [0,100]", s)
		}
	}
	return nil
}

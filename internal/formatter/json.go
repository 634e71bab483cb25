package formatter

import (
	"encoding/json"

	"smashcoach/internal/feedback"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

func (f *jsonFormatter) Format(model *feedback.DisplayModel) ([]byte, error) {
	output := &jsonReport{
		Score:                 model.Score,
		Band:                  string(model.Band),
		InjuryRisk:            string(model.Risk),
		InjuryRiskExplanation: model.RiskExplanation,
		CriticalIssues:        model.Issues,
		PositiveFeedback:      model.Positive,
		Summary:               model.Summary,
		SimilarityPercent:     model.Similarity,
	}
	if model.UserGIF != "" || model.ProGIF != "" {
		output.Assets = &jsonAssets{UserGIF: model.UserGIF, ProGIF: model.ProGIF}
	}

	return json.MarshalIndent(output, "", "  ")
}

// jsonReport is the stable machine-readable report shape.
type jsonReport struct {
	Score                 int                      `json:"score"`
	Band                  string                   `json:"band"`
	InjuryRisk            string                   `json:"injury_risk"`
	InjuryRiskExplanation string                   `json:"injury_risk_explanation,omitempty"`
	CriticalIssues        []feedback.CriticalIssue `json:"critical_issues"`
	PositiveFeedback      string                   `json:"positive_feedback,omitempty"`
	Summary               string                   `json:"summary,omitempty"`
	SimilarityPercent     *int                     `json:"similarity_percent,omitempty"`
	Assets                *jsonAssets              `json:"assets,omitempty"`
}

type jsonAssets struct {
	UserGIF string `json:"user_gif,omitempty"`
	ProGIF  string `json:"pro_gif,omitempty"`
}

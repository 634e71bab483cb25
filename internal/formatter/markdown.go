package formatter

import (
	"fmt"
	"strings"
	"time"

	"smashcoach/internal/feedback"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(model *feedback.DisplayModel) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Smash Form Report\n\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	f.writeSummaryTable(&b, model)

	if len(model.Issues) > 0 {
		f.writeIssueSections(&b, model.Issues)
	}

	if model.Positive != "" {
		b.WriteString("## What You're Doing Well\n\n")
		b.WriteString(model.Positive + "\n\n")
	}

	if model.Summary != "" {
		b.WriteString("## Coach's Summary\n\n")
		b.WriteString(model.Summary + "\n\n")
	}

	f.writeAssets(&b, model)

	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, model *feedback.DisplayModel) {
	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	b.WriteString(fmt.Sprintf("| Overall Score | %d/100 (%s) |\n", model.Score, model.Band))
	if model.Risk != "" {
		b.WriteString(fmt.Sprintf("| Injury Risk | %s |\n", model.Risk))
	}
	if model.Similarity != nil {
		b.WriteString(fmt.Sprintf("| Pro Similarity | %d%% |\n", *model.Similarity))
	}
	b.WriteString(fmt.Sprintf("| Critical Issues | %d |\n", len(model.Issues)))
	b.WriteString("\n")

	if model.RiskExplanation != "" {
		b.WriteString(fmt.Sprintf("> %s\n\n", model.RiskExplanation))
	}
}

func (f *markdownFormatter) writeIssueSections(b *strings.Builder, issues []feedback.CriticalIssue) {
	b.WriteString("## Critical Issues\n\n")

	for i, issue := range issues {
		b.WriteString(fmt.Sprintf("### %d. %s\n\n", i+1, titleCase(issue.BodyPart)))
		if issue.Problem != "" {
			b.WriteString(fmt.Sprintf("- **Problem:** %s\n", issue.Problem))
		}
		if issue.InjuryRisk != "" {
			b.WriteString(fmt.Sprintf("- **Why it matters:** %s\n", issue.InjuryRisk))
		}
		if issue.Correction != "" {
			b.WriteString(fmt.Sprintf("- **Fix:** %s\n", issue.Correction))
		}
		if issue.Drill != "" {
			b.WriteString(fmt.Sprintf("- **Drill:** %s\n", issue.Drill))
		}
		b.WriteString("\n")
	}
}

func (f *markdownFormatter) writeAssets(b *strings.Builder, model *feedback.DisplayModel) {
	if model.UserGIF == "" && model.ProGIF == "" {
		return
	}

	b.WriteString("## Comparison\n\n")
	if model.UserGIF != "" {
		b.WriteString(fmt.Sprintf("- Your swing: `%s`\n", model.UserGIF))
	}
	if model.ProGIF != "" {
		b.WriteString(fmt.Sprintf("- Reference swing: `%s`\n", model.ProGIF))
	}
	b.WriteString("\n")
}

// titleCase upper-cases the first letter only; body parts arrive as
// single lowercase ASCII words.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

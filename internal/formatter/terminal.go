package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"smashcoach/internal/emoji"
	"smashcoach/internal/feedback"
)

// terminalFormatter formats output for terminal display
type terminalFormatter struct {
	color bool
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	return &terminalFormatter{color: color}
}

func (f *terminalFormatter) Format(model *feedback.DisplayModel) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b)
	f.writeScore(&b, model)

	if len(model.Issues) > 0 {
		f.writeIssues(&b, model.Issues)
	}

	if model.Positive != "" {
		b.WriteString(fmt.Sprintf("%s %s\n\n", emoji.GetEmoji("positive"), model.Positive))
	}
	if model.Summary != "" {
		b.WriteString(fmt.Sprintf("%s %s\n\n", emoji.GetEmoji("summary"), model.Summary))
	}

	f.writeAssets(&b, model)

	return []byte(b.String()), nil
}

func (f *terminalFormatter) writeHeader(b *strings.Builder) {
	title := fmt.Sprintf("%s Smash Form Report", emoji.GetEmoji("shuttle"))
	b.WriteString(f.styled(title, lipgloss.NewStyle().Bold(true)) + "\n")
	b.WriteString(strings.Repeat("─", 40) + "\n\n")
}

func (f *terminalFormatter) writeScore(b *strings.Builder, model *feedback.DisplayModel) {
	scoreStyle := lipgloss.NewStyle().Bold(true).Foreground(bandColor(model.Band))
	b.WriteString(fmt.Sprintf("%s Overall Score: %s\n",
		emoji.GetEmoji("score"),
		f.styled(fmt.Sprintf("%d/100 (%s)", model.Score, model.Band), scoreStyle)))

	if model.Risk != "" {
		riskStyle := lipgloss.NewStyle().Bold(true).Foreground(riskColor(model.Risk))
		b.WriteString(fmt.Sprintf("%s Injury Risk: %s\n",
			emoji.GetEmoji("risk"),
			f.styled(string(model.Risk), riskStyle)))
	}
	if model.RiskExplanation != "" {
		b.WriteString("   " + model.RiskExplanation + "\n")
	}
	if model.Similarity != nil {
		b.WriteString(fmt.Sprintf("%s Pro Similarity: %d%%\n", emoji.GetEmoji("target"), *model.Similarity))
	}
	b.WriteString("\n")
}

func (f *terminalFormatter) writeIssues(b *strings.Builder, issues []feedback.CriticalIssue) {
	b.WriteString(fmt.Sprintf("%s Critical Issues\n", emoji.GetEmoji("issue")))

	for i, issue := range issues {
		last := i == len(issues)-1
		branch := "├─"
		if last {
			branch = "└─"
		}
		b.WriteString(fmt.Sprintf("%s %s: %s\n", branch, issue.BodyPart, issue.Problem))

		indent := "│  "
		if last {
			indent = "   "
		}
		if issue.Correction != "" {
			b.WriteString(fmt.Sprintf("%s fix: %s\n", indent, issue.Correction))
		}
		if issue.Drill != "" {
			b.WriteString(fmt.Sprintf("%s %s %s\n", indent, emoji.GetEmoji("drill"), issue.Drill))
		}
	}
	b.WriteString("\n")
}

func (f *terminalFormatter) writeAssets(b *strings.Builder, model *feedback.DisplayModel) {
	if model.UserGIF == "" && model.ProGIF == "" {
		return
	}

	b.WriteString(fmt.Sprintf("%s Comparison\n", emoji.GetEmoji("gif")))
	if model.UserGIF != "" {
		b.WriteString("   you: " + model.UserGIF + "\n")
	}
	if model.ProGIF != "" {
		b.WriteString("   pro: " + model.ProGIF + "\n")
	}
}

// styled applies a lipgloss style when color is enabled.
func (f *terminalFormatter) styled(s string, style lipgloss.Style) string {
	if !f.color {
		return s
	}
	return style.Render(s)
}

func bandColor(band feedback.ScoreBand) lipgloss.Color {
	switch band {
	case feedback.BandExcellent:
		return lipgloss.Color("#10B981")
	case feedback.BandSolid:
		return lipgloss.Color("#3B82F6")
	case feedback.BandFair:
		return lipgloss.Color("#F59E0B")
	default:
		return lipgloss.Color("#EF4444")
	}
}

func riskColor(risk feedback.InjuryRisk) lipgloss.Color {
	switch risk {
	case feedback.RiskLow:
		return lipgloss.Color("#10B981")
	case feedback.RiskModerate:
		return lipgloss.Color("#F59E0B")
	default:
		return lipgloss.Color("#EF4444")
	}
}

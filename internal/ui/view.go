package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"smashcoach/internal/analysis"
	"smashcoach/internal/emoji"
	"smashcoach/internal/feedback"
	"smashcoach/internal/session"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// View renders the model
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.quitting {
		return "Good session! " + emoji.GetEmoji("shuttle") + "\n"
	}

	theme := GetTheme()
	frame := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary)

	var b strings.Builder
	b.WriteString(m.renderTitle(theme) + "\n\n")
	b.WriteString(m.renderState(theme))

	if m.notice != "" {
		notice := lipgloss.NewStyle().Foreground(theme.Warning).Render(m.notice)
		b.WriteString("\n\n" + notice)
	}

	b.WriteString("\n\n" + m.renderKeys(theme))

	return frame.Render(b.String())
}

func (m *Model) renderTitle(theme Theme) string {
	title := fmt.Sprintf("%s SmashCoach", emoji.GetEmoji("shuttle"))
	return lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Render(title)
}

func (m *Model) renderState(theme Theme) string {
	switch m.snap.State {
	case session.StateIdle:
		return "No video selected."

	case session.StateSelecting:
		return fmt.Sprintf("%s %s ready\n%s",
			emoji.GetEmoji("video"), m.fileLabel(),
			lipgloss.NewStyle().Foreground(theme.Muted).Render("press enter to analyze"))

	case session.StateSubmitting:
		return fmt.Sprintf("%s %s Uploading %s...",
			m.spinner(theme), emoji.GetEmoji("upload"), m.fileLabel())

	case session.StateProcessing:
		return fmt.Sprintf("%s %s Analyzing your smash... (check %d/%d)",
			m.spinner(theme), emoji.GetEmoji("waiting"),
			m.snap.Attempts, m.ctrl.Options().MaxPollAttempts)

	case session.StateCompleted:
		return m.renderResult(theme)

	case session.StateFailed:
		return m.renderFailure(theme)
	}

	return ""
}

func (m *Model) renderResult(theme Theme) string {
	model := feedback.Render(m.snap.Result)
	if model == nil {
		return "Analysis finished with no payload."
	}

	var b strings.Builder

	scoreStyle := lipgloss.NewStyle().Bold(true).Foreground(scoreColor(theme, model.Band))
	b.WriteString(fmt.Sprintf("%s Overall Score: %s\n",
		emoji.GetEmoji("score"),
		scoreStyle.Render(fmt.Sprintf("%d/100 (%s)", model.Score, model.Band))))

	if model.Risk != "" {
		riskStyle := lipgloss.NewStyle().Bold(true).Foreground(riskStyleColor(theme, model.Risk))
		b.WriteString(fmt.Sprintf("%s Injury Risk: %s\n",
			emoji.GetEmoji("risk"), riskStyle.Render(string(model.Risk))))
	}

	if len(model.Issues) > 0 {
		b.WriteString(fmt.Sprintf("\n%s Critical Issues\n", emoji.GetEmoji("issue")))
		for _, issue := range model.Issues {
			b.WriteString(fmt.Sprintf("  • %s: %s\n", issue.BodyPart, issue.Problem))
		}
	}

	if model.Positive != "" {
		b.WriteString(fmt.Sprintf("\n%s %s\n", emoji.GetEmoji("positive"), model.Positive))
	}
	if model.Summary != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", emoji.GetEmoji("summary"), model.Summary))
	}

	if model.UserGIF != "" || model.ProGIF != "" {
		muted := lipgloss.NewStyle().Foreground(theme.Muted)
		b.WriteString("\n" + emoji.GetEmoji("gif") + " Comparison\n")
		if model.UserGIF != "" {
			b.WriteString(muted.Render("  you: "+model.UserGIF) + "\n")
		}
		if model.ProGIF != "" {
			b.WriteString(muted.Render("  pro: "+model.ProGIF) + "\n")
		}
	}

	return b.String()
}

func (m *Model) renderFailure(theme Theme) string {
	// The server's own message, without the error taxonomy prefix.
	msg := "analysis failed"
	if m.snap.Err != nil {
		msg = analysis.UserMessage(m.snap.Err)
	}
	errStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.Error)
	hint := lipgloss.NewStyle().Foreground(theme.Muted).Render("press enter to retry, r to reset")
	return fmt.Sprintf("%s %s\n%s", emoji.GetEmoji("error"), errStyle.Render(msg), hint)
}

func (m *Model) renderKeys(theme Theme) string {
	keys := "enter: analyze • r: reset • q: quit"
	return lipgloss.NewStyle().Foreground(theme.Secondary).Render(keys)
}

func (m *Model) fileLabel() string {
	if m.snap.File != nil {
		return m.snap.File.Name
	}
	return m.file.Name
}

func (m *Model) spinner(theme Theme) string {
	f := spinnerFrames[m.frame%len(spinnerFrames)]
	return lipgloss.NewStyle().Foreground(theme.Accent).Render(f)
}

func scoreColor(theme Theme, band feedback.ScoreBand) lipgloss.AdaptiveColor {
	switch band {
	case feedback.BandExcellent, feedback.BandSolid:
		return theme.Success
	case feedback.BandFair:
		return theme.Warning
	default:
		return theme.Error
	}
}

func riskStyleColor(theme Theme, risk feedback.InjuryRisk) lipgloss.AdaptiveColor {
	switch risk {
	case feedback.RiskLow:
		return theme.Success
	case feedback.RiskModerate:
		return theme.Warning
	default:
		return theme.Error
	}
}

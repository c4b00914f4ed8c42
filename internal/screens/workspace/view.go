package workspace

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/numinary/internal/session"
	"github.com/abhisek/numinary/internal/ui/components"
	"github.com/abhisek/numinary/internal/ui/layout"
	"github.com/abhisek/numinary/internal/ui/theme"
)

const sideWidth = 34

func (s *WorkspaceScreen) View(width, height int) string {
	v := s.opts.State.View()

	calc := s.renderCalculator(v, width)
	if layout.IsCompactWidth(width) {
		sections := []string{calc, s.renderProgress(v, width-2)}
		if panel := s.renderTutor(width - 2); panel != "" {
			sections = append(sections, panel)
		}
		return s.withToasts(lipgloss.JoinVertical(lipgloss.Left, sections...), width)
	}

	side := []string{s.renderProgress(v, sideWidth)}
	if v.Mode == session.ModeLearn {
		side = append(side, s.renderLessons(v, sideWidth))
	}
	side = append(side, renderHistory(v.History, sideWidth))

	left := lipgloss.NewStyle().Width(width - sideWidth - 4).Render(calc)
	if panel := s.renderTutor(width - sideWidth - 6); panel != "" {
		left = lipgloss.JoinVertical(lipgloss.Left, left, panel)
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", lipgloss.JoinVertical(lipgloss.Left, side...))
	return s.withToasts(body, width)
}

func (s *WorkspaceScreen) withToasts(body string, width int) string {
	if s.toasts.Len() == 0 {
		return body
	}
	return s.toasts.View(width) + "\n" + body
}

func (s *WorkspaceScreen) renderCalculator(v session.View, width int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render(v.Mode.Heading()))
	if v.Mode == session.ModePractice {
		b.WriteString("  " + theme.Hint.Render(v.TopicFilter.Title()))
	}
	b.WriteString("\n\n")

	if v.Active != nil {
		card := lipgloss.NewStyle().Foreground(theme.Secondary).Render(v.Active.Title) + "\n" +
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(v.Active.Question)
		b.WriteString(theme.Card.Render(card))
		b.WriteString("\n")
	} else if v.Mode == session.ModeLearn {
		b.WriteString(theme.Hint.Render("Pick a lesson and press Enter."))
		b.WriteString("\n")
	}

	display := v.Buffer
	if display == "" {
		display = "0"
	}
	style := lipgloss.NewStyle().
		Width(min(width-4, 40)).
		Align(lipgloss.Right).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Bold(true)
	if v.Buffer == session.ErrorBuffer {
		style = style.Foreground(theme.Error)
	} else {
		style = style.Foreground(theme.Text)
	}
	b.WriteString(style.Render(display))
	b.WriteString("\n")
	b.WriteString(s.keypad.View())
	return b.String()
}

func (s *WorkspaceScreen) renderProgress(v session.View, width int) string {
	p := v.Progress
	lines := []string{
		fmt.Sprintf("Completed %d", p.Completed),
		fmt.Sprintf("Streak    %d", p.Streak),
	}
	if p.MathWhiz() {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("★ Math Whiz"))
	}
	next := session.NextStreakMilestone(p.Streak)
	bar := components.ProgressBar{
		Label:   fmt.Sprintf("%d/%d", p.Streak, next),
		Percent: float64(p.Streak) / float64(next),
		Width:   width - 4,
	}
	lines = append(lines, bar.View())
	return components.Panel("Progress", strings.Join(lines, "\n"), width)
}

func (s *WorkspaceScreen) renderLessons(v session.View, width int) string {
	if len(v.Lessons) == 0 {
		return components.Panel("Lessons", theme.Hint.Render("Ctrl+N for a new lesson"), width)
	}
	lines := make([]string, len(v.Lessons))
	for i, p := range v.Lessons {
		line := "  " + p.Question
		style := theme.Unselected
		if v.Active != nil && v.Active.ID == p.ID {
			style = theme.Correct
		} else if v.Active == nil && i == s.lessonCursor {
			line = "▸ " + p.Question
			style = theme.Selected
		}
		lines[i] = style.Render(line)
	}
	return components.Panel("Lessons", strings.Join(lines, "\n"), width)
}

func renderHistory(history []session.HistoryEntry, width int) string {
	if len(history) == 0 {
		return components.Panel("History", theme.Hint.Render("No calculations yet"), width)
	}
	lines := make([]string, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		lines = append(lines, theme.Body.Render(history[i].String()))
	}
	return components.Panel("History", strings.Join(lines, "\n"), width)
}

func (s *WorkspaceScreen) renderTutor(width int) string {
	switch {
	case s.thinking:
		return components.Panel("Tutor", theme.Hint.Render("Thinking..."), width)
	case s.explanation != nil:
		return components.Panel("Explanation", theme.Body.Render(s.explanation.Text()), width)
	case s.hint != nil:
		return components.Panel("Hint", theme.Body.Render(s.hint.Text), width)
	}
	return ""
}

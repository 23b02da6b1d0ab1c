package sessions

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/relvane/botsessions/internal/domain"
)

type RenderOptions struct {
	// OnlineOnly hides entries whose connection has dropped instead of
	// marking them offline.
	OnlineOnly bool
}

func renderView(entries []domain.Session, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Bot Sessions"),
		s.header.Render(fmt.Sprintf("sessions: %d", len(entries))),
	}

	rendered := 0
	for _, entry := range entries {
		if opts.OnlineOnly && !entry.Client.IsOnline() {
			continue
		}
		lines = append(lines, s.section.Render(renderSession(entry, s)))
		rendered++
	}

	if rendered == 0 {
		lines = append(lines, s.empty.Render("No sessions to show."))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSession(entry domain.Session, s styles) string {
	liveness := s.offline.Render("offline")
	if entry.Client.IsOnline() {
		liveness = s.online.Render("online")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%s %s", s.name.Render(entry.DisplayName), liveness),
		s.detail.Render(fmt.Sprintf("account %s · client %s · status %s",
			entry.AccountID, entry.Client.Identifier(), entry.Status)),
	)
}

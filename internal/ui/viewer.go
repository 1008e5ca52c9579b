package ui

import "pyheal/internal/domain"

// Viewer displays the session history in an interactive TUI
type Viewer interface {
	View(history *domain.History) error
}

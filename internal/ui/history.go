package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"pyheal/internal/domain"
	"pyheal/internal/storage"
)

// maxOutputLines bounds the runner output shown per run in the details pane
const maxOutputLines = 40

// HistoryViewer browses recorded invoke sessions in an interactive TUI
type HistoryViewer struct {
	storage storage.Storage
}

// NewHistoryViewer creates a new HistoryViewer that saves deletions to st
func NewHistoryViewer(st storage.Storage) *HistoryViewer {
	return &HistoryViewer{storage: st}
}

// View shows the sessions newest first. D deletes the selected session from the history file.
func (hv *HistoryViewer) View(history *domain.History) error {
	if history == nil || len(history.Sessions) == 0 {
		color.Yellow("No sessions recorded yet. Run `pyheal invoke <file>` first.")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 2, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	// The list shows sessions newest first; index i maps to sessionAt(i)
	sessionAt := func(i int) *domain.Session {
		return &history.Sessions[len(history.Sessions)-1-i]
	}

	updateHeader := func() {
		headerView.SetText(fmt.Sprintf(" Healing Sessions (%d total, %d healed) | ↑↓ navigate, → details, ← back, [yellow]D[white] delete, Ctrl+C exit ",
			len(history.Sessions), countHealed(history)))
	}

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index < 0 || index >= len(history.Sessions) {
			statsView.SetText("")
			detailsView.SetText("")
			return
		}
		session := sessionAt(index)
		statsView.SetText(formatSessionStats(session))
		detailsView.SetText(formatSessionDetails(session)).ScrollToBeginning()
	}

	reload := func() {
		list.Clear()
		for i := range history.Sessions {
			list.AddItem(formatSessionItem(sessionAt(i), i+1), "", 0, nil)
		}
		updateHeader()
		updateDetails()
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'd', 'D':
				index := list.GetCurrentItem()
				if index < 0 || index >= len(history.Sessions) {
					return nil
				}
				history.Sessions = removeSession(history.Sessions, len(history.Sessions)-1-index)
				if err := hv.storage.SaveHistory(history); err != nil {
					headerView.SetText(fmt.Sprintf("[red] could not save history: %v ", err))
					return nil
				}
				reload()
				if index >= list.GetItemCount() {
					index = list.GetItemCount() - 1
				}
				if index >= 0 {
					list.SetCurrentItem(index)
				}
				return nil
			case 'q':
				app.Stop()
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})

	reload()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func countHealed(history *domain.History) int {
	n := 0
	for _, s := range history.Sessions {
		if s.Healed {
			n++
		}
	}
	return n
}

func removeSession(sessions []domain.Session, i int) []domain.Session {
	return append(sessions[:i], sessions[i+1:]...)
}

// formatSessionItem renders one list row using tview color tags
func formatSessionItem(session *domain.Session, number int) string {
	status := "[green]✓"
	switch {
	case session.Error != "":
		status = "[red]✗"
	case session.Healed:
		status = "[yellow]↻"
	}
	return fmt.Sprintf("%s [yellow]%d.[white] %s", status, number, filepath.Base(session.SourcePath))
}

// formatSessionStats renders the one-line header above the details pane
func formatSessionStats(session *domain.Session) string {
	return fmt.Sprintf("[cyan]source:[white] [yellow]%s[white]  [cyan]model:[white] %s/%s  [cyan]at:[white] %s\n",
		tview.Escape(session.SourcePath), session.Provider, session.Model, session.Timestamp)
}

// formatSessionDetails renders both runs of a session using tview color tags
func formatSessionDetails(session *domain.Session) string {
	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "[cyan]Session:[white]\t%s\n", session.ID)
	fmt.Fprintf(w, "[cyan]Test file:[white]\t%s\n", tview.Escape(session.TestPath))
	if session.BackupPath != "" {
		fmt.Fprintf(w, "[cyan]Backup:[white]\t%s\n", tview.Escape(session.BackupPath))
	}
	w.Flush()
	builder.WriteString("\n")

	if session.Error != "" {
		fmt.Fprintf(&builder, "[red]✗ Error:[white] %s\n\n", tview.Escape(session.Error))
	}

	writeRun(&builder, "First run", session.FirstRun)
	if session.Healed {
		builder.WriteString("[yellow]↻ Source overwritten with healed code[white]\n\n")
		writeRun(&builder, "Second run", session.SecondRun)
	}

	return builder.String()
}

func writeRun(b *strings.Builder, title string, rec *domain.RunRecord) {
	if rec == nil {
		return
	}
	tag := "[green]"
	if rec.ExitCode != 0 {
		tag = "[red]"
	}
	fmt.Fprintf(b, "%s%s: exit %d, %d passed, %d failed (%.2fs)[white]\n",
		tag, title, rec.ExitCode, rec.Passed, rec.Failed, rec.DurationSeconds)

	for _, failure := range rec.Failures {
		name := failure.TestName
		if failure.Class != "" {
			name = failure.Class + "." + name
		}
		fmt.Fprintf(b, "  [red]%s[white] %s\n", failure.Kind, tview.Escape(name))
		if failure.File != "" && failure.Line > 0 {
			fmt.Fprintf(b, "    [yellow]at %s:%d[white]\n", tview.Escape(failure.File), failure.Line)
		}
		if failure.Message != "" {
			fmt.Fprintf(b, "    %s\n", tview.Escape(failure.Message))
		}
	}

	if rec.Output != "" {
		lines := strings.Split(strings.TrimRight(rec.Output, "\n"), "\n")
		b.WriteString("\n[yellow]Output:[white]\n")
		for i, line := range lines {
			if i == maxOutputLines {
				fmt.Fprintf(b, "  [gray]... and %d more lines[white]\n", len(lines)-maxOutputLines)
				break
			}
			fmt.Fprintf(b, "  %s\n", tview.Escape(line))
		}
	}
	b.WriteString("\n")
}

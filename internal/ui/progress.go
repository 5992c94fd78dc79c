// Package ui renders live scan progress for interactive terminals.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/cleanser/internal/progress"
	"github.com/fenilsonani/cleanser/internal/scanner"
	"github.com/fenilsonani/cleanser/internal/ui/styles"
	"github.com/fenilsonani/cleanser/pkg/utils"
)

// scanUpdateMsg carries a progress snapshot into the model
type scanUpdateMsg *progress.ScanProgress

// scanDoneMsg signals that the scan finished
type scanDoneMsg struct {
	result *scanner.ScanResult
	err    error
}

// scanModel is the live scan view: a spinner, the directory currently
// being walked, and running totals.
type scanModel struct {
	spinner   spinner.Model
	updates   <-chan any
	current   *progress.ScanProgress
	startTime time.Time
	result    *scanner.ScanResult
	err       error
	cancelled bool
}

func newScanModel(updates <-chan any) scanModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.TitleStyle

	return scanModel{
		spinner:   s,
		updates:   updates,
		startTime: time.Now(),
	}
}

// Init starts the spinner and the update pump
func (m scanModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForUpdate())
}

func (m scanModel) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.updates
		if !ok {
			return nil
		}
		if scan, ok := update.(*progress.ScanProgress); ok {
			return scanUpdateMsg(scan)
		}
		return nil
	}
}

// Update handles messages
func (m scanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancelled = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case scanUpdateMsg:
		m.current = msg
		return m, m.waitForUpdate()

	case scanDoneMsg:
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

// View renders the scan view
func (m scanModel) View() string {
	if m.result != nil || m.err != nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.spinner.View())
	b.WriteString(" Scanning ")
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("(%s)", time.Since(m.startTime).Round(time.Second))))
	b.WriteString("\n")

	if m.current != nil {
		if m.current.CurrentPath != "" {
			b.WriteString(styles.DimStyle.Render("  "))
			b.WriteString(styles.FilePathStyle.Render(truncatePath(m.current.CurrentPath, 70)))
			b.WriteString("\n")
		}
		if m.current.ItemsFound > 0 {
			b.WriteString(styles.BoldStyle.Render(fmt.Sprintf("  %d items, %s",
				m.current.ItemsFound,
				utils.FormatBytes(m.current.TotalSize))))
			b.WriteString("\n")
		}
	}

	b.WriteString(styles.DimStyle.Render("\n  press ctrl+c to cancel"))
	return b.String()
}

// RunScan drives the given scan function under a live terminal view.
// The scan runs in a goroutine; its progress reporter feeds the view.
func RunScan(reporter *progress.Reporter, scan func() (*scanner.ScanResult, error)) (*scanner.ScanResult, error) {
	p := tea.NewProgram(newScanModel(reporter.Subscribe()))

	go func() {
		result, err := scan()
		// Ends the update pump; without this the subscriber channel
		// would keep a goroutine blocked after the scan finishes.
		reporter.Close()
		p.Send(scanDoneMsg{result: result, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress display failed: %w", err)
	}

	m := final.(scanModel)
	if m.cancelled {
		return nil, fmt.Errorf("scan cancelled")
	}
	return m.result, m.err
}

func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}

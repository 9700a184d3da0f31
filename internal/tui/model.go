// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/typestats/internal/analysis"
	"github.com/verte-zerg/typestats/internal/attempt"
	"github.com/verte-zerg/typestats/internal/generator"
	"github.com/verte-zerg/typestats/internal/model"
	statsPkg "github.com/verte-zerg/typestats/internal/stats"
)

// ReportStore persists analyzed attempts and serves weak-char history.
type ReportStore interface {
	InsertReport(ctx context.Context, a model.CompletedAttempt, r model.StatisticsReport) error
	ListReports(ctx context.Context, cfg model.StatsConfig) ([]model.ReportSummary, error)
	GetWeakChars(ctx context.Context, window int) ([]model.PatternAggregate, error)
}

type phase int

const (
	phaseTyping phase = iota
	phaseResults
)

// Options wires the dependencies of a practice Model.
type Options struct {
	Config   model.Config
	Store    ReportStore
	Analyzer *analysis.Analyzer
	Gen      *generator.Generator
	Words    []string
	WeakSet  map[rune]struct{}
	Logger   *zap.Logger
	Now      func() time.Time
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	config   model.Config
	store    ReportStore
	analyzer *analysis.Analyzer
	gen      *generator.Generator
	words    []string
	weakSet  map[rune]struct{}
	logger   *zap.Logger
	now      func() time.Time

	width  int
	height int

	phase   phase
	capture *capture
	timer   timer.Model
	timed   bool

	lastAttempt model.CompletedAttempt
	lastReport  model.StatisticsReport
	lastErr     error
	results     table.Model

	hasLast  bool
	allCount int
	allWPM   float64
	allAcc   float64
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	correctedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FB2F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = pendingStyle.Copy().Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	headlineStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// NewModel constructs a practice TUI model.
func NewModel(opts Options) *Model {
	m := &Model{
		config:   opts.Config,
		store:    opts.Store,
		analyzer: opts.Analyzer,
		gen:      opts.Gen,
		words:    opts.Words,
		weakSet:  opts.WeakSet,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.analyzer == nil {
		m.analyzer = analysis.NewAnalyzer(analysis.DefaultConfig(), m.logger)
	}
	if m.gen == nil {
		m.gen = generator.New()
	}
	if m.weakSet == nil {
		m.weakSet = map[rune]struct{}{}
	}
	m.results = buildResultsTable(nil, 0)
	m.loadFooterStats()
	m.resetAttempt()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.SetWidth(msg.Width)
		return m, nil
	case timer.TickMsg:
		if msg.ID != m.timer.ID() {
			return m, nil
		}
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd
	case timer.StartStopMsg:
		if msg.ID != m.timer.ID() {
			return m, nil
		}
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd
	case timer.TimeoutMsg:
		if msg.ID == m.timer.ID() && m.phase == phaseTyping && m.capture.isStarted() {
			m.finishAttempt(true)
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.phase == phaseResults {
			return m.updateResults(msg)
		}
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.resetAttempt()
		return m, nil
	case tea.KeyEsc:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		m.capture.backspace(m.now())
		return nil
	case tea.KeySpace:
		return m.handleRunes([]rune{' '})
	case tea.KeyRunes:
		return m.handleRunes(msg.Runes)
	default:
		return nil
	}
}

func (m *Model) handleRunes(runes []rune) tea.Cmd {
	var cmd tea.Cmd
	for _, r := range runes {
		wasStarted := m.capture.isStarted()
		if !m.capture.typeRune(r, m.now()) {
			break
		}
		if !wasStarted && m.timed {
			m.timer = timer.NewWithInterval(time.Duration(m.config.DurationTarget)*time.Second, time.Second)
			cmd = m.timer.Init()
		}
		if m.capture.isComplete() {
			m.finishAttempt(false)
			return nil
		}
	}
	return cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.phase == phaseResults {
		return m.resultsView()
	}
	target := m.capture.target
	if len(target) == 0 {
		return ""
	}
	cursorIndex := -1
	if len(m.capture.input) < len(target) {
		cursorIndex = len(m.capture.input)
	}
	styledRunes := buildStyledRunes(target, m.capture.input, m.capture.corrected(), cursorIndex)
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styledRunes)
	}
	contentWidth := max(1, int(float64(m.width)*0.70))
	wrapped := wrapStyledRunes(styledRunes, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderFooter() string {
	if m.capture == nil || len(m.capture.target) == 0 {
		return ""
	}
	progress := int(float64(len(m.capture.input)) / float64(len(m.capture.target)) * 100)
	segments := []string{fmt.Sprintf("Progress %d%%", progress)}
	if m.timed {
		remaining := time.Duration(m.config.DurationTarget) * time.Second
		if m.capture.isStarted() {
			remaining = m.timer.Timeout
		}
		segments = append(segments, fmt.Sprintf("Time %s", remaining))
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %d WPM · %.1f%%", m.lastReport.WPM, m.lastReport.AccuracyPercent))
	}
	if m.allCount > 0 {
		segments = append(segments, fmt.Sprintf("All-time %.1f WPM · %.1f%%", m.allWPM, m.allAcc))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) resultsView() string {
	var b strings.Builder
	if m.lastErr != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Attempt rejected: %v", m.lastErr)))
		b.WriteString("\n\n")
	} else {
		r := m.lastReport
		b.WriteString(headlineStyle.Render(fmt.Sprintf("%d WPM  (gross %d, word %d)", r.WPM, r.GrossWPM, r.WordWPM)))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Accuracy %.2f%%  Characters %.2f%%  Consistency %.2f  Errors %d\n\n",
			r.AccuracyPercent, r.CharacterAccuracyPercent, r.ConsistencyScore, r.ErrorCount))
		if len(r.ErrorPatterns) == 0 {
			b.WriteString("No errors.\n")
		} else {
			b.WriteString(m.results.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(footerStyle.Render("enter: next text  esc/ctrl+c: quit"))
	if m.width == 0 || m.height == 0 {
		return b.String()
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}

func (m *Model) resetAttempt() {
	weak := map[rune]struct{}{}
	if m.config.FocusWeak {
		weak = m.weakSet
	}
	m.capture = newCapture(m.gen.Text(m.words, m.config, weak))
	m.timed = m.config.DurationTarget > 0
	m.timer = timer.Model{}
	m.lastErr = nil
	m.phase = phaseTyping
}

// finishAttempt analyzes and stores the current attempt. When the timer ran
// out the target is cut to what was typed and the attempt ends at timeout.
func (m *Model) finishAttempt(timedOut bool) {
	m.phase = phaseResults
	if m.timed {
		m.timer.Timeout = 0
	}
	target := m.capture.target
	if timedOut {
		target = target[:min(len(target), len(m.capture.input))]
	}
	a := attempt.FromKeystrokes("", string(target), m.capture.started, m.capture.keys, m.config.DurationTarget)
	if timedOut {
		if end := m.now(); end.After(a.EndTime) {
			a.EndTime = end
		}
	}
	m.lastAttempt = a
	report, err := m.analyzer.Analyze(a)
	if err != nil {
		m.logger.Warn("attempt rejected", zap.String("attempt_id", a.ID), zap.Error(err))
		m.lastErr = err
		return
	}
	m.lastReport = report
	m.hasLast = true
	m.results = buildResultsTable(report.ErrorPatterns, m.width)
	m.addToAllTime(report.WPM, report.AccuracyPercent)

	if m.store != nil {
		if err := m.store.InsertReport(context.Background(), a, report); err != nil {
			m.logger.Error("failed to save attempt", zap.String("attempt_id", a.ID), zap.Error(err))
		}
	}
	if m.config.FocusWeak {
		m.refreshWeakSet()
	}
}

func (m *Model) addToAllTime(wpm int, acc float64) {
	n := float64(m.allCount)
	m.allWPM = (m.allWPM*n + float64(wpm)) / (n + 1)
	m.allAcc = (m.allAcc*n + acc) / (n + 1)
	m.allCount++
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	reports, err := m.store.ListReports(context.Background(), model.StatsConfig{})
	if err != nil {
		m.logger.Warn("failed to load attempt history", zap.Error(err))
		return
	}
	totals := statsPkg.Summarize(reports)
	m.allCount = totals.Attempts
	m.allWPM = totals.AvgWPM
	m.allAcc = totals.AvgAccuracy
}

func (m *Model) refreshWeakSet() {
	if m.store == nil {
		return
	}
	aggs, err := m.store.GetWeakChars(context.Background(), m.config.WeakWindow)
	if err != nil {
		m.logger.Warn("failed to load weak chars", zap.Error(err))
		return
	}
	if len(aggs) == 0 {
		m.logger.Debug("no error history for weak-char focus yet")
	}
	m.weakSet = statsPkg.SelectWeakChars(aggs, m.config.WeakTop)
}

// LastReport returns the most recent analyzed attempt and whether one exists.
func (m *Model) LastReport() (model.CompletedAttempt, model.StatisticsReport, bool) {
	return m.lastAttempt, m.lastReport, m.hasLast
}

func buildResultsTable(patterns []model.ErrorPattern, width int) table.Model {
	columns := []table.Column{
		{Title: "Expected", Width: 9},
		{Title: "Count", Width: 6},
		{Title: "Typed", Width: 20},
		{Title: "Kind", Width: 13},
		{Title: "Positions", Width: 20},
	}
	rows := make([]table.Row, 0, len(patterns))
	for _, p := range patterns {
		rows = append(rows, table.Row(statsPkg.PatternRow(p)))
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+3),
		table.WithFocused(true),
	)
	if width > 0 {
		t.SetWidth(width)
	}
	t.SetStyles(resultsTableStyles())
	return t
}

func resultsTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

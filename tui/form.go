// Package tui is the terminal entry form.
package tui

import (
	"fmt"
	"strings"
	"time"

	"vermlog/internal/classify"
	"vermlog/internal/timeutil"
	"vermlog/worklog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

// EntryStore is what the form needs from the database.
type EntryStore interface {
	InsertEntry(entry worklog.Entry) (int64, error)
	LatestEntry() (worklog.Entry, bool, error)
	ListEntriesForDate(day time.Time) ([]worklog.Entry, error)
}

type Options struct {
	Calculator worklog.Calculator
	Date       time.Time
	Employee   string
	Activities []string
}

const fieldNotes = "notes"

type formField struct {
	name  string
	label string
}

// Form order. Start/end and fraction are never active at the same time.
var formFields = []formField{
	{worklog.FieldDate, "Date"},
	{worklog.FieldEmployee, "Employee"},
	{worklog.FieldSite, "Site"},
	{worklog.FieldCostCenter, "Cost center"},
	{worklog.FieldActivity, "Activity"},
	{worklog.FieldResult, "Result"},
	{worklog.FieldStart, "Start"},
	{worklog.FieldEnd, "End"},
	{worklog.FieldFraction, "Day fraction"},
	{fieldNotes, "Notes"},
}

const (
	idxDate = iota
	idxEmployee
	idxSite
	idxCostCenter
	idxActivity
	idxResult
	idxStart
	idxEnd
	idxFraction
	idxNotes
)

type Model struct {
	store  EntryStore
	calc   worklog.Calculator
	inputs []textinput.Model
	focus  int
	mode   worklog.Mode

	errors  map[string]string
	status  string
	warning string
	failed  bool
	saved   []int64

	quitting bool
	styles   styles
}

func New(store EntryStore, opts Options) Model {
	if opts.Calculator.Step.IsZero() {
		opts.Calculator = worklog.DefaultCalculator()
	}
	if opts.Date.IsZero() {
		opts.Date = worklog.Today(time.Now)
	}

	inputs := make([]textinput.Model, len(formFields))
	for i := range formFields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 200
		ti.Width = 40
		inputs[i] = ti
	}
	inputs[idxDate].SetValue(opts.Date.Format(timeutil.DayLayout))
	inputs[idxDate].CharLimit = 10
	inputs[idxEmployee].SetValue(opts.Employee)
	inputs[idxStart].Placeholder = "HH:MM"
	inputs[idxStart].CharLimit = 5
	inputs[idxEnd].Placeholder = "HH:MM"
	inputs[idxEnd].CharLimit = 5
	inputs[idxFraction].Placeholder = "0,5"
	inputs[idxFraction].CharLimit = 6
	inputs[idxActivity].ShowSuggestions = true
	inputs[idxActivity].SetSuggestions(opts.Activities)

	m := Model{
		store:  store,
		calc:   opts.Calculator,
		inputs: inputs,
		mode:   worklog.ModeTimeRange,
		errors: map[string]string{},
		styles: defaultStyles(),
	}
	m.focus = idxSite
	if strings.TrimSpace(opts.Employee) == "" {
		m.focus = idxEmployee
	}
	m.inputs[m.focus].Focus()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "ctrl+t":
		m.toggleMode()
		return m, nil
	case "ctrl+l":
		m.useLastSite()
		return m, nil
	case "ctrl+s":
		m.save()
		return m, nil
	case "tab", "down":
		m.moveFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.moveFocus(-1)
		return m, nil
	case "enter":
		if m.focus == m.lastActive() {
			m.save()
		} else {
			m.moveFocus(1)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// Saved returns the ids of the entries stored during this session.
func (m Model) Saved() []int64 {
	return m.saved
}

func (m Model) Mode() worklog.Mode {
	return m.mode
}

// Input returns the current form text.
func (m Model) Input() worklog.Input {
	return worklog.Input{
		Date:       m.value(idxDate),
		Employee:   m.value(idxEmployee),
		Site:       m.value(idxSite),
		CostCenter: m.value(idxCostCenter),
		Activity:   m.value(idxActivity),
		Result:     m.value(idxResult),
		Mode:       m.mode,
		Start:      m.value(idxStart),
		End:        m.value(idxEnd),
		Fraction:   m.value(idxFraction),
		Notes:      m.value(idxNotes),
	}
}

// Preview is the day fraction the current input would be booked with, or ""
// while the input is incomplete.
func (m Model) Preview() string {
	in := m.Input()
	if m.mode == worklog.ModeFraction {
		fraction, err := worklog.ParseFraction(in.Fraction)
		if err != nil {
			return ""
		}
		return worklog.FormatFraction(fraction)
	}
	start, err := worklog.ParseClock(in.Start)
	if err != nil {
		return ""
	}
	end, err := worklog.ParseClock(in.End)
	if err != nil {
		return ""
	}
	fraction, err := m.calc.DayFraction(start, end)
	if err != nil {
		return ""
	}
	return worklog.FormatFraction(fraction)
}

func (m *Model) value(idx int) string {
	return m.inputs[idx].Value()
}

func (m *Model) active(idx int) bool {
	switch idx {
	case idxStart, idxEnd:
		return m.mode == worklog.ModeTimeRange
	case idxFraction:
		return m.mode == worklog.ModeFraction
	}
	return true
}

func (m *Model) lastActive() int {
	for idx := len(m.inputs) - 1; idx >= 0; idx-- {
		if m.active(idx) {
			return idx
		}
	}
	return 0
}

func (m *Model) setFocus(idx int) {
	m.inputs[m.focus].Blur()
	m.focus = idx
	m.inputs[m.focus].Focus()
}

func (m *Model) moveFocus(step int) {
	next := m.focus
	for range m.inputs {
		next = (next + step + len(m.inputs)) % len(m.inputs)
		if m.active(next) {
			m.setFocus(next)
			return
		}
	}
}

func (m *Model) toggleMode() {
	if m.mode == worklog.ModeFraction {
		m.mode = worklog.ModeTimeRange
	} else {
		m.mode = worklog.ModeFraction
	}
	delete(m.errors, worklog.FieldMode)
	if !m.active(m.focus) {
		if m.mode == worklog.ModeFraction {
			m.setFocus(idxFraction)
		} else {
			m.setFocus(idxStart)
		}
	}
}

func (m *Model) useLastSite() {
	latest, found, err := m.store.LatestEntry()
	if err != nil {
		m.setStatus(fmt.Sprintf("Cannot read last entry: %v", err), true)
		return
	}
	if !found {
		m.setStatus("No entries yet.", true)
		return
	}
	m.inputs[idxSite].SetValue(latest.Site)
	m.inputs[idxCostCenter].SetValue(latest.CostCenter)
	m.setStatus(fmt.Sprintf("Took site %q from the last entry.", latest.Site), false)
}

func (m *Model) save() {
	m.warning = ""
	entry, err := worklog.PrepareInput(m.Input(), m.calc)
	if err != nil {
		if validationErr, ok := worklog.AsValidationError(err); ok {
			m.errors = validationErr.ByField()
			m.setStatus(fmt.Sprintf("%d invalid field(s).", len(m.errors)), true)
			m.focusFirstError()
			return
		}
		m.errors = map[string]string{}
		m.setStatus(err.Error(), true)
		return
	}
	m.errors = map[string]string{}

	if existing, err := m.store.ListEntriesForDate(entry.Date); err != nil {
		log.Warn().Err(err).Msg("load entries of the day")
	} else if result := classify.ClassifyCandidate(entry, existing); result.Status != classify.StatusOK {
		m.warning = fmt.Sprintf("Warning: %s with entry #%d.", result.Status, existing[result.Other].ID)
	}

	id, err := m.store.InsertEntry(entry)
	if err != nil {
		log.Error().Err(err).Msg("save entry")
		m.setStatus(fmt.Sprintf("Save failed: %v", err), true)
		return
	}
	m.saved = append(m.saved, id)
	log.Info().Int64("id", id).Str("date", entry.DateString()).Msg("saved entry")
	m.setStatus(fmt.Sprintf("Saved entry #%d (%s).", id, worklog.FormatFraction(entry.DayFraction)), false)
	m.resetForNextEntry()
}

// resetForNextEntry keeps date, employee, site, cost center and activity.
func (m *Model) resetForNextEntry() {
	for _, idx := range []int{idxResult, idxStart, idxEnd, idxFraction, idxNotes} {
		m.inputs[idx].SetValue("")
	}
	m.setFocus(idxResult)
}

func (m *Model) focusFirstError() {
	for idx, field := range formFields {
		if _, ok := m.errors[field.name]; ok && m.active(idx) {
			m.setFocus(idx)
			return
		}
	}
}

func (m *Model) setStatus(message string, failed bool) {
	m.status = message
	m.failed = failed
}

// Run starts the form on the terminal and returns the ids saved before quitting.
func Run(store EntryStore, opts Options) ([]int64, error) {
	final, err := tea.NewProgram(New(store, opts)).Run()
	if err != nil {
		return nil, fmt.Errorf("run entry form: %w", err)
	}
	return final.(Model).Saved(), nil
}

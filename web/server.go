// Package web serves a localhost-only single-user UI; it intentionally has no
// auth/CSRF protection in this mode.
package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"vermlog/internal/timeutil"
	"vermlog/output"
	"vermlog/storage"
	"vermlog/worklog"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

//go:embed templates/*.html
var templateFS embed.FS

// Store is the part of the entry store the UI needs.
type Store interface {
	InsertEntry(entry worklog.Entry) (int64, error)
	GetEntry(id int64) (worklog.Entry, bool, error)
	UpdateEntry(entry worklog.Entry) error
	DeleteEntry(id int64) (bool, error)
	DuplicateEntry(id int64, date time.Time) (int64, error)
	ListEntriesForDate(day time.Time) ([]worklog.Entry, error)
	ListEntriesForMonth(year int, month time.Month) ([]worklog.Entry, error)
	LatestEntry() (worklog.Entry, bool, error)
	DistinctValues(column string) ([]string, error)
}

// Settings carry the configuration the UI depends on.
type Settings struct {
	Calculator worklog.Calculator
	Employee   string
	Activities []string
	Delimiter  rune
	Now        func() time.Time
}

type Server struct {
	store    Store
	settings Settings
	mux      *http.ServeMux
}

type dayPageView struct {
	Title        string
	CurrentMonth string
	Day          string
	PreviousDay  string
	NextDay      string
	View         DayView
	Form         FormView
	Suggestions  suggestionsResponse
}

type monthPageView struct {
	Title         string
	CurrentMonth  string
	PreviousMonth string
	NextMonth     string
	View          MonthView
}

type fractionResponse struct {
	Start         string `json:"start"`
	End           string `json:"end"`
	DayFraction   string `json:"dayFraction"`
	DurationHours string `json:"durationHours"`
}

type suggestionsResponse struct {
	Sites       []string `json:"sites"`
	CostCenters []string `json:"costCenters"`
	Activities  []string `json:"activities"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewServer(store Store, settings Settings) http.Handler {
	if settings.Now == nil {
		settings.Now = time.Now
	}
	if settings.Calculator.Step.IsZero() {
		settings.Calculator = worklog.DefaultCalculator()
	}
	server := &Server{
		store:    store,
		settings: settings,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", server.handleIndex)
	mux.HandleFunc("GET /day/{date}", server.handleDay)
	mux.HandleFunc("POST /day/{date}/entries", server.handleSaveEntry)
	mux.HandleFunc("POST /entries/{id}/delete", server.handleDeleteEntry)
	mux.HandleFunc("POST /entries/{id}/duplicate", server.handleDuplicateEntry)
	mux.HandleFunc("GET /month", server.handleMonthPicker)
	mux.HandleFunc("GET /month/{month}", server.handleMonth)
	mux.HandleFunc("GET /export/{file}", server.handleExport)
	mux.HandleFunc("GET /api/day/{date}", server.handleAPIDay)
	mux.HandleFunc("GET /api/month/{month}", server.handleAPIMonth)
	mux.HandleFunc("GET /api/fraction", server.handleAPIFraction)
	mux.HandleFunc("GET /api/suggestions", server.handleAPISuggestions)
	server.mux = mux

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(recorder, r)
	log.Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", recorder.status).
		Dur("took", time.Since(started)).
		Msg("http request")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	today := worklog.Today(s.settings.Now)
	http.Redirect(w, r, "/day/"+today.Format(timeutil.DayLayout), http.StatusFound)
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	day, err := timeutil.ParseDay(r.PathValue("date"))
	if err != nil {
		http.Error(w, "invalid date format (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	form := s.emptyForm(day)
	query := r.URL.Query()
	if rawID := strings.TrimSpace(query.Get("edit")); rawID != "" {
		id, err := parsePositiveInt64(rawID)
		if err != nil {
			http.Error(w, "invalid entry id", http.StatusBadRequest)
			return
		}
		existing, found, err := s.store.GetEntry(id)
		if err != nil {
			http.Error(w, fmt.Sprintf("load entry: %v", err), http.StatusInternalServerError)
			return
		}
		if !found {
			http.Error(w, "entry not found", http.StatusNotFound)
			return
		}
		form.ID = existing.ID
		form.Input = worklog.InputFromEntry(existing)
		form.Preview = worklog.FormatFraction(existing.DayFraction)
	} else if query.Get("last") == "1" {
		latest, found, err := s.store.LatestEntry()
		if err != nil {
			form.Error = fmt.Sprintf("Could not load the last entry: %v", err)
		} else if found {
			form.Input.Site = latest.Site
			form.Input.CostCenter = latest.CostCenter
		}
	}

	s.renderDay(w, http.StatusOK, day, form)
}

func (s *Server) handleSaveEntry(w http.ResponseWriter, r *http.Request) {
	day, err := timeutil.ParseDay(r.PathValue("date"))
	if err != nil {
		http.Error(w, "invalid date format (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	form := s.emptyForm(day)
	form.Input = inputFromForm(r, day)
	if rawID := strings.TrimSpace(r.PostFormValue("id")); rawID != "" {
		id, err := parsePositiveInt64(rawID)
		if err != nil {
			http.Error(w, "invalid entry id", http.StatusBadRequest)
			return
		}
		form.ID = id
	}

	entry, err := worklog.PrepareInput(form.Input, s.settings.Calculator)
	if err != nil {
		if validationErr, ok := worklog.AsValidationError(err); ok {
			form.Errors = validationErr.ByField()
			s.renderDay(w, http.StatusUnprocessableEntity, day, form)
			return
		}
		form.Error = err.Error()
		s.renderDay(w, http.StatusUnprocessableEntity, day, form)
		return
	}

	if form.ID > 0 {
		entry.ID = form.ID
		err = s.store.UpdateEntry(entry)
		if errors.Is(err, storage.ErrEntryNotFound) {
			http.Error(w, "entry not found", http.StatusNotFound)
			return
		}
	} else {
		entry.ID, err = s.store.InsertEntry(entry)
	}
	if err != nil {
		log.Error().Err(err).Msg("save entry")
		form.Error = fmt.Sprintf("Could not save the entry: %v", err)
		s.renderDay(w, http.StatusInternalServerError, day, form)
		return
	}

	log.Info().Int64("id", entry.ID).Str("date", entry.DateString()).Str("fraction", worklog.FormatFraction(entry.DayFraction)).Msg("saved entry")
	http.Redirect(w, r, "/day/"+entry.DateString(), http.StatusSeeOther)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := parsePositiveInt64(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid entry id", http.StatusBadRequest)
		return
	}

	existing, found, err := s.store.GetEntry(id)
	if err != nil {
		http.Error(w, fmt.Sprintf("load entry: %v", err), http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "entry not found", http.StatusNotFound)
		return
	}
	if _, err := s.store.DeleteEntry(id); err != nil {
		http.Error(w, fmt.Sprintf("delete entry: %v", err), http.StatusInternalServerError)
		return
	}

	log.Info().Int64("id", id).Msg("deleted entry")
	http.Redirect(w, r, "/day/"+existing.DateString(), http.StatusSeeOther)
}

func (s *Server) handleDuplicateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := parsePositiveInt64(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid entry id", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	var target time.Time
	if raw := strings.TrimSpace(r.PostFormValue("date")); raw != "" {
		target, err = timeutil.ParseDay(raw)
		if err != nil {
			http.Error(w, "invalid date format (expected YYYY-MM-DD)", http.StatusBadRequest)
			return
		}
	}

	newID, err := s.store.DuplicateEntry(id, target)
	if err != nil {
		if errors.Is(err, storage.ErrEntryNotFound) {
			http.Error(w, "entry not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("duplicate entry: %v", err), http.StatusInternalServerError)
		return
	}

	copied, _, err := s.store.GetEntry(newID)
	if err != nil {
		http.Error(w, fmt.Sprintf("load entry: %v", err), http.StatusInternalServerError)
		return
	}
	log.Info().Int64("id", id).Int64("copy", newID).Msg("duplicated entry")
	http.Redirect(w, r, "/day/"+copied.DateString(), http.StatusSeeOther)
}

func (s *Server) handleMonthPicker(w http.ResponseWriter, r *http.Request) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		http.Redirect(w, r, "/month/"+worklog.Today(s.settings.Now).Format(timeutil.MonthLayout), http.StatusFound)
		return
	}
	if _, err := timeutil.ParseMonth(month); err != nil {
		http.Error(w, "invalid month format (expected YYYY-MM)", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/month/"+month, http.StatusFound)
}

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	report, ok := s.loadReport(w, r.PathValue("month"))
	if !ok {
		return
	}
	monthStart := time.Date(report.Year, report.Month, 1, 0, 0, 0, 0, time.Local)

	view := monthPageView{
		Title:         "vermlog - month " + report.Label(),
		CurrentMonth:  report.Label(),
		PreviousMonth: monthStart.AddDate(0, -1, 0).Format(timeutil.MonthLayout),
		NextMonth:     monthStart.AddDate(0, 1, 0).Format(timeutil.MonthLayout),
		View:          BuildMonthView(report),
	}
	s.render(w, http.StatusOK, "month.html", view)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	ext := path.Ext(file)
	format, err := output.FormatFromPath(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, ok := s.loadReport(w, strings.TrimSuffix(file, ext))
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := output.RenderMonthlyReport(&buf, format, report, output.Options{Delimiter: s.settings.Delimiter}); err != nil {
		http.Error(w, fmt.Sprintf("export month: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", output.DefaultReportFileName(report.Label(), format)))
	_, _ = w.Write(buf.Bytes())
}

var contentTypes = map[string]string{
	output.FormatCSV:   "text/csv; charset=utf-8",
	output.FormatExcel: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	output.FormatPDF:   "application/pdf",
}

func (s *Server) handleAPIDay(w http.ResponseWriter, r *http.Request) {
	day, err := timeutil.ParseDay(r.PathValue("date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date format (expected YYYY-MM-DD)"})
		return
	}
	entries, err := s.store.ListEntriesForDate(day)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	view := BuildDayView(day, entries)
	writeJSON(w, http.StatusOK, map[string]any{
		"date":    day.Format(timeutil.DayLayout),
		"total":   view.Total,
		"entries": view.Entries,
	})
}

func (s *Server) handleAPIMonth(w http.ResponseWriter, r *http.Request) {
	monthStart, err := timeutil.ParseMonth(r.PathValue("month"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid month format (expected YYYY-MM)"})
		return
	}
	entries, err := s.store.ListEntriesForMonth(monthStart.Year(), monthStart.Month())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, BuildMonthView(output.BuildMonthlyReport(entries, monthStart.Year(), monthStart.Month())))
}

func (s *Server) handleAPIFraction(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	start, err := worklog.ParseClock(query.Get("start"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid start time (expected HH:MM)"})
		return
	}
	end, err := worklog.ParseClock(query.Get("end"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid end time (expected HH:MM)"})
		return
	}

	fraction, err := s.settings.Calculator.DayFraction(start, end)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, fractionResponse{
		Start:         start.String(),
		End:           end.String(),
		DayFraction:   worklog.FormatFraction(fraction),
		DurationHours: worklog.ElapsedHours(start, end).StringFixed(2),
	})
}

func (s *Server) handleAPISuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := s.loadSuggestions()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

func (s *Server) loadReport(w http.ResponseWriter, rawMonth string) (output.MonthlyReport, bool) {
	monthStart, err := timeutil.ParseMonth(rawMonth)
	if err != nil {
		http.Error(w, "invalid month format (expected YYYY-MM)", http.StatusBadRequest)
		return output.MonthlyReport{}, false
	}
	entries, err := s.store.ListEntriesForMonth(monthStart.Year(), monthStart.Month())
	if err != nil {
		http.Error(w, fmt.Sprintf("load month entries: %v", err), http.StatusInternalServerError)
		return output.MonthlyReport{}, false
	}
	return output.BuildMonthlyReport(entries, monthStart.Year(), monthStart.Month()), true
}

func (s *Server) loadSuggestions() (suggestionsResponse, error) {
	sites, err := s.store.DistinctValues(storage.ColumnSite)
	if err != nil {
		return suggestionsResponse{}, err
	}
	costCenters, err := s.store.DistinctValues(storage.ColumnCostCenter)
	if err != nil {
		return suggestionsResponse{}, err
	}
	activities, err := s.store.DistinctValues(storage.ColumnActivity)
	if err != nil {
		return suggestionsResponse{}, err
	}
	return suggestionsResponse{
		Sites:       sites,
		CostCenters: costCenters,
		Activities:  mergeChoices(s.settings.Activities, activities),
	}, nil
}

func (s *Server) emptyForm(day time.Time) FormView {
	return FormView{
		Input: worklog.Input{
			Date:     day.Format(timeutil.DayLayout),
			Employee: s.settings.Employee,
			Mode:     worklog.ModeTimeRange,
		},
		Errors:     map[string]string{},
		Activities: s.settings.Activities,
	}
}

// renderDay renders the day page; a failing entry list is shown as a form
// error so submitted values stay on screen.
func (s *Server) renderDay(w http.ResponseWriter, status int, day time.Time, form FormView) {
	entries, err := s.store.ListEntriesForDate(day)
	if err != nil {
		log.Error().Err(err).Msg("list day entries")
		if form.Error == "" {
			form.Error = fmt.Sprintf("Could not load the entries of this day: %v", err)
		}
		status = http.StatusInternalServerError
	}
	suggestions, err := s.loadSuggestions()
	if err != nil {
		log.Warn().Err(err).Msg("load suggestions")
	}
	if form.Preview == "" {
		form.Preview = s.preview(form.Input)
	}

	dayISO := day.Format(timeutil.DayLayout)
	view := dayPageView{
		Title:        "vermlog - " + dayISO,
		CurrentMonth: day.Format(timeutil.MonthLayout),
		Day:          dayISO,
		PreviousDay:  day.AddDate(0, 0, -1).Format(timeutil.DayLayout),
		NextDay:      day.AddDate(0, 0, 1).Format(timeutil.DayLayout),
		View:         BuildDayView(day, entries),
		Form:         form,
		Suggestions:  suggestions,
	}
	s.render(w, status, "day.html", view)
}

func (s *Server) preview(in worklog.Input) string {
	if in.Mode == worklog.ModeFraction {
		return strings.TrimSpace(in.Fraction)
	}
	start, err := worklog.ParseClock(in.Start)
	if err != nil {
		return ""
	}
	end, err := worklog.ParseClock(in.End)
	if err != nil {
		return ""
	}
	fraction, err := s.settings.Calculator.DayFraction(start, end)
	if err != nil {
		return ""
	}
	return worklog.FormatFraction(fraction)
}

func (s *Server) render(w http.ResponseWriter, status int, pageTemplate string, data any) {
	var buf bytes.Buffer
	if err := renderTemplate(&buf, pageTemplate, data); err != nil {
		log.Error().Err(err).Str("template", pageTemplate).Msg("render template")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func renderTemplate(w *bytes.Buffer, pageTemplate string, data any) error {
	tmpl, err := template.New("base.html").Funcs(template.FuncMap{
		"fieldClass": func(fieldErrors map[string]string, field string) string {
			if _, ok := fieldErrors[field]; ok {
				return "invalid"
			}
			return ""
		},
	}).ParseFS(templateFS, "templates/base.html", "templates/"+pageTemplate)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", pageTemplate, err)
	}
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("render template %s: %w", pageTemplate, err)
	}
	return nil
}

func inputFromForm(r *http.Request, day time.Time) worklog.Input {
	date := strings.TrimSpace(r.PostFormValue("date"))
	if date == "" {
		date = day.Format(timeutil.DayLayout)
	}
	return worklog.Input{
		Date:       date,
		Employee:   r.PostFormValue("employee"),
		Site:       r.PostFormValue("site"),
		CostCenter: r.PostFormValue("cost_center"),
		Activity:   r.PostFormValue("activity"),
		Result:     r.PostFormValue("result"),
		Mode:       worklog.ParseMode(r.PostFormValue("mode")),
		Start:      r.PostFormValue("start"),
		End:        r.PostFormValue("end"),
		Fraction:   r.PostFormValue("fraction"),
		Notes:      r.PostFormValue("notes"),
	}
}

func mergeChoices(configured, stored []string) []string {
	all := append(append([]string{}, configured...), stored...)
	return lo.Uniq(lo.Filter(all, func(value string, _ int) bool {
		return strings.TrimSpace(value) != ""
	}))
}

func parsePositiveInt64(value string) (int64, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, err
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("value must be > 0")
	}
	return parsed, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

package server

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chirender "github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/leapstack-labs/gdpplot/internal/render"
	"github.com/leapstack-labs/gdpplot/internal/table"
	"github.com/leapstack-labs/gdpplot/pkg/core"
)

var validate = validator.New()

// seriesQuery is the parsed query string shared by /api/series and /api/plot.
type seriesQuery struct {
	Countries []string `validate:"dive,required,max=200"`
	MinYear   int      `validate:"gte=0"`
	MaxYear   int      `validate:"gte=0"`
}

var queryFields = map[string]string{
	"Countries": "country",
	"MinYear":   "min_year",
	"MaxYear":   "max_year",
}

// parseSeriesQuery reads country, min_year and max_year, defaulting the
// years to the configured range.
func (s *Server) parseSeriesQuery(r *http.Request) (seriesQuery, error) {
	q := r.URL.Query()
	sq := seriesQuery{
		Countries: q["country"],
		MinYear:   s.cfg.Dataset.MinYear,
		MaxYear:   s.cfg.Dataset.MaxYear,
	}
	if sq.Countries == nil {
		sq.Countries = []string{}
	}

	for param, dst := range map[string]*int{"min_year": &sq.MinYear, "max_year": &sq.MaxYear} {
		raw := q.Get(param)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return sq, badRequest(fmt.Sprintf("%s must be an integer", param),
				FieldError{Field: param, Message: fmt.Sprintf("not an integer: %q", raw)})
		}
		*dst = v
	}

	if err := validate.Struct(sq); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return sq, badRequest(err.Error())
		}
		details := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			field := queryFields[fe.StructField()]
			if field == "" {
				field = queryFields[strings.SplitN(fe.StructField(), "[", 2)[0]]
			}
			details = append(details, FieldError{
				Field:   field,
				Message: fmt.Sprintf("failed %q validation", fe.Tag()),
			})
		}
		return sq, badRequest("invalid query parameters", details...)
	}
	return sq, nil
}

func (s *Server) build(r *http.Request, sq seriesQuery) (core.SeriesMap, error) {
	cfg := s.cfg.Dataset
	cfg.MinYear = sq.MinYear
	cfg.MaxYear = sq.MaxYear

	m, err := s.builder.Build(r.Context(), cfg, sq.Countries)
	s.metrics.build(err)
	if err != nil {
		s.logger.WarnContext(r.Context(), "build failed", slog.String("error", err.Error()))
	}
	return m, err
}

func (s *Server) chart(sq seriesQuery, m core.SeriesMap) render.Chart {
	c := render.NewChart(sq.Countries, m, sq.MinYear, sq.MaxYear)
	if s.cfg.Title != "" {
		c.Title = s.cfg.Title
	}
	if s.cfg.Width > 0 {
		c.Width = s.cfg.Width
	}
	if s.cfg.Height > 0 {
		c.Height = s.cfg.Height
	}
	return c
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	chirender.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	sq, err := s.parseSeriesQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	m, err := s.build(r, sq)
	if err != nil {
		writeError(w, r, err)
		return
	}

	c := s.chart(sq, m)
	chirender.JSON(w, r, render.Document{
		Title:   c.Title,
		MinYear: c.MinYear,
		MaxYear: c.MaxYear,
		Series:  c.Entries(),
	})
}

// CountryInfo is one row of /api/countries.
type CountryInfo struct {
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	tbl, err := table.Load(r.Context(), s.cfg.Dataset, s.logger)
	if err != nil {
		writeError(w, r, err)
		return
	}

	names := tbl.Keys()
	sort.Strings(names)
	countries := make([]CountryInfo, 0, len(names))
	for _, name := range names {
		info := CountryInfo{Name: name}
		if s.cfg.CodeFieldName != "" {
			info.Code = tbl[name][s.cfg.CodeFieldName]
		}
		countries = append(countries, info)
	}
	chirender.JSON(w, r, map[string]any{"countries": countries})
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	sink, err := render.Get(chi.URLParam(r, "sink"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	sq, err := s.parseSeriesQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	m, err := s.build(r, sq)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := sink.Render(&buf, s.chart(sq, m)); err != nil {
		writeError(w, r, fmt.Errorf("failed to render %s: %w", sink.Name(), err))
		return
	}

	w.Header().Set("Content-Type", sink.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("inline; filename=%q", render.SlugFileName("isp_gdp_xy", sq.Countries, sink.Ext())))
	_, _ = w.Write(buf.Bytes())
}

// handleEvents streams source-change events until the client disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, newAPIError(http.StatusInternalServerError, "STREAMING_UNSUPPORTED", "streaming unsupported"))
		return
	}

	updates := s.notifier.Subscribe()
	defer s.notifier.Unsubscribe(updates)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-updates:
			_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, ev.Data)
			flusher.Flush()
		}
	}
}

package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/netglean/fnslog/internal/query"
	"github.com/netglean/fnslog/internal/store"
)

// handleLogs serves the filtered, sorted, paginated log listing. Timestamps
// are rendered in the requested timezone (falling back to the configured
// default); unusable filter or paging input falls back to defaults rather
// than erroring.
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	crit := query.Criteria{
		Hostname:    q.Get("hostname"),
		Source:      q.Get("source"),
		Destination: q.Get("destination"),
		Action:      q.Get("action"),
		Protocol:    q.Get("protocol"),
		RuleName:    q.Get("rule_name"),
		StartTime:   q.Get("start_time"),
		EndTime:     q.Get("end_time"),
		SortBy:      q.Get("sort"),
		SortOrder:   q.Get("order"),
	}
	page := query.ParsePage(q.Get("page"), q.Get("per_page"))

	records, total, err := s.Store.List(r.Context(), crit, page)
	if err != nil {
		s.logger().Error("list logs failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	tz := strings.TrimSpace(q.Get("timezone"))
	if tz == "" {
		tz = s.Cfg.DefaultTimezone
	}
	conv := s.converter()
	for i := range records {
		conv.ConvertRecord(&records[i], tz)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"logs":        records,
		"total":       total,
		"page":        page.Number,
		"per_page":    page.Size,
		"total_pages": page.TotalPages(total),
	})
}

func (s *Server) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.Store.FilterOptions(r.Context())
	if err != nil {
		s.logger().Error("filter options failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// handleAnalytics serves one top-talkers dimension. Each row carries the
// dimension's column name as its key field so all four endpoints share a
// response shape that names its grouping.
func (s *Server) handleAnalytics(dim store.Dimension) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		limit := store.DefaultTopN
		if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				limit = n
			}
		}

		groups, err := s.Store.TopTalkers(r.Context(), dim, store.AggregateOptions{
			StartTime: q.Get("start_time"),
			EndTime:   q.Get("end_time"),
			Limit:     limit,
		})
		if err != nil {
			s.logger().Error("analytics failed", zap.String("dimension", string(dim)), zap.Error(err))
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		rows := make([]map[string]any, 0, len(groups))
		for _, g := range groups {
			rows = append(rows, map[string]any{
				string(dim):        g.Key,
				"total_bytes":      g.TotalBytes,
				"connection_count": g.ConnectionCount,
			})
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

// handleStatistics serves the retention usage report. A failed run still
// returns the full payload shape with every statistic defaulted and the
// error recorded, so dashboards render zeros instead of breaking.
func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	rep, err := s.engine().Statistics(r.Context())
	if err != nil {
		s.logger().Error("statistics failed", zap.Error(err))
		rep.Error = err.Error()
		writeJSON(w, http.StatusInternalServerError, rep)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

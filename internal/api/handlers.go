package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/orci-tz/mafunzo/internal/middleware"
	"github.com/orci-tz/mafunzo/internal/services"
	"github.com/orci-tz/mafunzo/internal/utils"
)

// GET /health
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": utils.T(locale, "health.ok")})
}

// GET /version
func (rt *Router) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": rt.opts.Version})
}

// POST /api/v1/token/ {username, password} -> {access, refresh}
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := rt.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	rt.logger.Info("login", zap.String("username", res.Username), zap.String("role", res.Role))
	writeJSON(w, http.StatusOK, res)
}

// POST /api/v1/responses/
func (rt *Router) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var rec services.ResponseRecord
	if err := decodeBody(w, r, &rec); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	stored, err := rt.responses.SubmitLocalized(r.Context(), rec, middleware.LocaleFromContext(r.Context()))
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

type responsePage struct {
	Results []services.ResponseRecord `json:"results"`
	Count   int                       `json:"count"`
	Page    int                       `json:"page"`
	Size    int                       `json:"size"`
	Pages   int                       `json:"pages"`
}

// GET /api/v1/responses/?page=&size=
// Without page the full list is returned bare; with page it is enveloped.
func (rt *Router) handleListResponses(w http.ResponseWriter, r *http.Request) {
	records, err := rt.responses.List(r.Context())
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	q := r.URL.Query()
	if q.Get("page") == "" {
		writeJSON(w, http.StatusOK, records)
		return
	}
	page, err := queryInt(q.Get("page"), 1)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid page")
		return
	}
	size, err := queryInt(q.Get("size"), services.DefaultPageSize)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid size")
		return
	}
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = services.DefaultPageSize
	}
	from, to := services.PageBounds(len(records), page, size)
	writeJSON(w, http.StatusOK, responsePage{
		Results: records[from:to],
		Count:   len(records),
		Page:    page,
		Size:    size,
		Pages:   (len(records) + size - 1) / size,
	})
}

// GET /api/v1/reports/summary?top=
func (rt *Router) handleSummary(w http.ResponseWriter, r *http.Request) {
	top, err := queryInt(r.URL.Query().Get("top"), services.DefaultTopDepartments)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid top")
		return
	}
	d, err := rt.reports.Dashboard(r.Context(), middleware.LocaleFromContext(r.Context()), top)
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// GET /api/v1/reports/details?page=&size=
func (rt *Router) handleDetails(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := queryInt(q.Get("page"), 1)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid page")
		return
	}
	size, err := queryInt(q.Get("size"), services.DefaultPageSize)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid size")
		return
	}
	p, err := rt.reports.Details(r.Context(), page, size)
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GET /api/v1/reports/year-matrix?format=json|csv|xlsx|pdf&start=&end=
func (rt *Router) handleYearMatrix(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := queryInt(q.Get("start"), 0)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid start")
		return
	}
	end, err := queryInt(q.Get("end"), 0)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid end")
		return
	}
	m, err := rt.reports.YearMatrix(r.Context(), start, end)
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	if m.Dropped > 0 {
		rt.logger.Warn("year matrix dropped entries with unparseable start dates", zap.Int("dropped", m.Dropped))
	}

	format := q.Get("format")
	if format == "" || format == services.FormatJSON {
		writeJSON(w, http.StatusOK, m)
		return
	}
	res, err := services.ExportYearMatrix(m, format)
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func queryInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

func (rt *Router) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if se, ok := services.AsServiceError(err); ok {
		writeDetail(w, statusForCode(se.Code), se.Message)
		return
	}
	var vf *services.ValidationFailure
	if errors.As(err, &vf) {
		writeDetail(w, http.StatusBadRequest, vf.Message)
		return
	}
	rt.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	writeDetail(w, http.StatusInternalServerError, "internal error")
}

func statusForCode(code services.ErrorCode) int {
	switch code {
	case services.ErrorInvalid:
		return http.StatusBadRequest
	case services.ErrorUnauthorized:
		return http.StatusUnauthorized
	case services.ErrorForbidden:
		return http.StatusForbidden
	case services.ErrorNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

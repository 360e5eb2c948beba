// Package httpapi exposes the candidate service over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/common"
	"github.com/joseph-ayodele/resume-parser/internal/export"
	"github.com/joseph-ayodele/resume-parser/internal/services/candidate"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// multipart framing allowance on top of the file limit
const formOverheadBytes = 1 << 20

type Exporter interface {
	ExportCandidatesXLSX(ctx context.Context, opts export.Options) ([]byte, error)
}

type Pinger interface {
	HealthCheck(ctx context.Context, timeout time.Duration) error
}

type Server struct {
	Candidates     *candidate.Service
	Exporter       Exporter
	DB             Pinger
	Logger         *slog.Logger
	MaxUploadBytes int64
}

func (s Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger()))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/candidates", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Get("/", s.handleList)
		r.Get("/export.xlsx", s.handleExport)
		r.Get("/{id}", s.handleGet)
		r.Get("/{id}/resumes", s.handleResumes)
	})
	return r
}

func (s Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		if err := s.DB.HealthCheck(r.Context(), 2*time.Second); err != nil {
			s.logger().Warn("health check failed", "error", err)
			writeErr(w, http.StatusServiceUnavailable, errors.New("database unavailable"))
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	limit := s.MaxUploadBytes
	if limit <= 0 {
		limit = int64(constants.DefaultMaxUploadMB) << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+formOverheadBytes)
	if err := r.ParseMultipartForm(limit + formOverheadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErr(w, http.StatusRequestEntityTooLarge, fmt.Errorf("file exceeds %d MB", limit>>20))
			return
		}
		writeErr(w, http.StatusBadRequest, fmt.Errorf("parse multipart: %w", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("missing 'file' part: %w", err))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("read file: %w", err))
		return
	}

	res, err := s.Candidates.Upload(r.Context(), candidate.UploadRequest{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
		TraceID:     middleware.GetReqID(r.Context()),
	})
	if err != nil {
		s.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s Server) handleList(w http.ResponseWriter, r *http.Request) {
	out, err := s.Candidates.List(r.Context())
	if err != nil {
		s.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := candidateID(w, r)
	if !ok {
		return
	}
	p, err := s.Candidates.Profile(r.Context(), id)
	if err != nil {
		s.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s Server) handleResumes(w http.ResponseWriter, r *http.Request) {
	id, ok := candidateID(w, r)
	if !ok {
		return
	}
	out, err := s.Candidates.Resumes(r.Context(), id)
	if err != nil {
		s.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var opts export.Options
	if raw := strings.TrimSpace(q.Get("include_contact")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid include_contact: %s", raw))
			return
		}
		opts.IncludeContact = v
	}
	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		st, ok := constants.LookupParseStatus(raw)
		if !ok {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid status: %s", raw))
			return
		}
		opts.Status = st
	}

	data, err := s.Exporter.ExportCandidatesXLSX(r.Context(), opts)
	if err != nil {
		s.writeServiceErr(w, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="candidates.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func candidateID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid candidate id: %s", raw))
		return uuid.Nil, false
	}
	return id, true
}

func (s Server) writeServiceErr(w http.ResponseWriter, err error) {
	code := common.HTTPStatus(err)
	if code >= http.StatusInternalServerError {
		s.logger().Error("request failed", "error", err)
		err = errors.New("internal error")
	}
	writeErr(w, code, err)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]any{"error": err.Error()})
}

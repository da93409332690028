package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/deckgen/deckgen/internal/parser"
	"github.com/deckgen/deckgen/internal/pptx"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	// Two uploads per request, plus form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*2+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	filename, docData, err := s.readUpload(r, "document")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	_, tmplData, err := s.readUpload(r, "template")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	job := s.orchestrator.NewJob(filename)
	outputDir := filepath.Join(s.cfg.OutputDir, job.ID)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		jsonError(w, "failed to create output dir", http.StatusInternalServerError)
		return
	}
	job.SetInputs(docData, tmplData, outputDir)

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/convert/%s/status", job.ID),
	})
}

func (s *Server) handleConvertStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   snap.ID,
		"filename": snap.Filename,
		"status":   snap.Status,
		"phase":    snap.Phase,
		"progress": snap.Progress,
	})
}

func (s *Server) handleConvertDeck(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	path := job.DeckPath()
	if path == "" {
		jsonError(w, "deck not ready", http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.presentationml.presentation")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

func (s *Server) handleConvertPreview(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || n < 1 {
		jsonError(w, "invalid slide number", http.StatusBadRequest)
		return
	}
	path := job.PreviewPath(n)
	if path == "" {
		jsonError(w, "preview not available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, path)
}

// handleTemplateLayouts inspects an uploaded template and returns its
// layout names, so a caller can pick layouts before converting.
func (s *Server) handleTemplateLayouts(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	_, data, err := s.readUpload(r, "template")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	tmpl, err := pptx.ReadTemplate(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"layouts":          tmpl.LayoutNames,
		"slide_width_emu":  tmpl.SlideWidthEMU,
		"slide_height_emu": tmpl.SlideHeightEMU,
	})
}

// readUpload reads one size-limited multipart file field.
func (s *Server) readUpload(r *http.Request, field string) (string, []byte, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", nil, fmt.Errorf("%s is required: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %s", field)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return "", nil, fmt.Errorf("%s exceeds max size (%d bytes)", field, s.cfg.MaxUploadBytes)
	}
	return sanitizeFilename(header.Filename), data, nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"syndex/internal/pagetext"
	"syndex/internal/pipeline"
	"syndex/internal/syndicate"
)

type uploadRequest struct {
	filename string
	issuer   string
	data     []byte
}

// readUpload pulls the document and optional issuer name out of a
// multipart form, enforcing the upload size limit.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*uploadRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if filename != "" && !pagetext.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return nil, false
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return nil, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return nil, false
	}

	return &uploadRequest{
		filename: filename,
		issuer:   strings.TrimSpace(r.FormValue("issuer")),
		data:     data,
	}, true
}

// handleExtract runs extraction synchronously and returns the result.
// A malformed document is a 400; a found-nothing result is still a 200,
// the downstream database records it for manual review.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	res, err := s.engine.Extract(req.data, syndicate.Options{
		Filename:   req.filename,
		IssuerName: req.issuer,
	})
	if err != nil {
		if errors.Is(err, pagetext.ErrMalformed) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.log.Error("extraction failed", "filename", req.filename, "error", err)
		jsonError(w, "extraction failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// handleExtractAsync queues extraction and returns a job ID.
func (s *Server) handleExtractAsync(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	job := pipeline.NewJob(req.filename, req.issuer, req.data)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.ID,
		"status": string(pipeline.StatusQueued),
	})
}

// handleJobStatus returns the current state of an extraction job.
func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	writeJSON(w, http.StatusOK, &snap)
}

// handleExtractStats returns rolling extraction latency aggregates.
func (s *Server) handleExtractStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.orchestrator.Stats())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	return strings.TrimSpace(name)
}

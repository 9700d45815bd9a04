package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/zombor/invoice-normalizer/internal/mapping"
	"github.com/zombor/invoice-normalizer/internal/pipeline"
)

// maxUploadSize bounds a whole multipart request
const maxUploadSize = int64(50 << 20)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, map[string]string{"error": message})
}

// handleExtract accepts one or more files in repeated "file" form fields
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		msg := "Error parsing form"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg = "Upload is too large. Maximum size is 50MB."
		}
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		writeError(w, "No file was selected. Please choose at least one file to upload.", http.StatusBadRequest)
		return
	}

	files := make([]pipeline.File, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			slog.Error("Error opening uploaded file", "filename", h.Filename, "error", err)
			writeError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			slog.Error("Error reading file data", "filename", h.Filename, "error", err)
			writeError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
			return
		}
		files = append(files, pipeline.File{
			Name:        h.Filename,
			ContentType: h.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	writeJSON(w, http.StatusOK, s.processor.ProcessBatch(r.Context(), files))
}

type fieldInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// handleFields lists the canonical fields columns are mapped onto
func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	fields := make([]fieldInfo, 0, len(mapping.Fields))
	for _, f := range mapping.Fields {
		fields = append(fields, fieldInfo{Name: string(f), Description: f.Description()})
	}
	writeJSON(w, http.StatusOK, fields)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

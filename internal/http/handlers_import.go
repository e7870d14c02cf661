package http

import (
	"net/http"
	"path/filepath"
	"strings"
)

const maxImportSize = 10 << 20 // 10 MiB

// handleImportCSV answers POST /import/csv with a multipart "file" part.
// Only .csv uploads are accepted.
func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		writeError(w, r, http.StatusBadRequest, "expected multipart form with a file field")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		writeError(w, r, http.StatusBadRequest, "only .csv files are accepted")
		return
	}

	result, err := s.deps.Importer.Import(r.Context(), file)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

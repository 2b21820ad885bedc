package httpadapter

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/breverdbidder/property360-sale-advisor/internal/core/domain"
)

// maxUploadBytes bounds the multipart form parse. Larger rent rolls and
// offering memorandums are rejected before they reach storage.
const maxUploadBytes = 32 << 20

func (rt *Router) documents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.uploadDocument(w, r)
	case http.MethodGet:
		rt.listDocuments(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	ownerID, propertyID := scopeFrom(r)
	declaredType := strings.TrimPrefix(filepath.Ext(fileHeader.Filename), ".")

	doc, err := rt.uploadUC.Upload(
		r.Context(),
		ownerID,
		propertyID,
		fileHeader.Filename,
		declaredType,
		fileHeader.Size,
		file,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	ownerID, propertyID := scopeFrom(r)
	docs, err := rt.docs.ListByOwner(r.Context(), ownerID, propertyID)
	if err != nil {
		writeError(w, err)
		return
	}
	if docs == nil {
		docs = []domain.UploadedDocument{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// documentByID serves /v1/documents/{id} and the per-document suggestion
// actions /v1/documents/{id}/preview and /v1/documents/{id}/apply.
func (rt *Router) documentByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	switch action {
	case "":
		switch r.Method {
		case http.MethodGet:
			rt.getDocument(w, r, id)
		case http.MethodDelete:
			rt.deleteDocument(w, r, id)
		default:
			methodNotAllowed(w)
		}
	case "preview":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		rt.previewSuggestions(w, r, id)
	case "apply":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		rt.applySuggestions(w, r, id)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown document action"})
	}
}

func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request, id string) {
	doc, err := rt.docs.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) deleteDocument(w http.ResponseWriter, r *http.Request, id string) {
	session, ok := rt.session(w, r)
	if !ok {
		return
	}
	if err := session.RemoveDocument(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (rt *Router) previewSuggestions(w http.ResponseWriter, r *http.Request, id string) {
	session, ok := rt.session(w, r)
	if !ok {
		return
	}
	staged, err := session.Preview(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"staged": staged})
}

func (rt *Router) applySuggestions(w http.ResponseWriter, r *http.Request, id string) {
	session, ok := rt.session(w, r)
	if !ok {
		return
	}
	result, err := session.Apply(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordSuggestionsApplied(rt.options.ServiceName, "document", len(result.AppliedItems))
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) analyzeContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req struct {
		Content  string `json:"content"`
		FileName string `json:"file_name"`
		FileType string `json:"file_type"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.FileName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file_name is required"})
		return
	}

	start := time.Now()
	analysis, err := rt.analyzeUC.AnalyzeDocument(r.Context(), req.Content, req.FileName, req.FileType)
	if rt.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		rt.metrics.RecordAnalysis(rt.options.ServiceName, analysis.DocType, status, len(analysis.CompletedItems), time.Since(start))
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

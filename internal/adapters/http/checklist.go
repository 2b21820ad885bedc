package httpadapter

import (
	"errors"
	"io"
	"net/http"
	"strings"
)

func (rt *Router) checklistState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	session, ok := rt.session(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"phases":    rt.catalog.Catalog().Phases,
		"checked":   session.CheckedState(),
		"extracted": session.ExtractedValues(),
		"staged":    session.StagedSuggestions(),
		"readiness": session.Readiness(),
	})
}

func (rt *Router) toggleItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req struct {
		ItemID string `json:"item_id"`
	}
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.ItemID) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "item_id is required"})
		return
	}

	session, ok := rt.session(w, r)
	if !ok {
		return
	}
	checked, err := session.Toggle(req.ItemID)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordToggle(rt.options.ServiceName)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"item_id": req.ItemID,
		"checked": checked,
	})
}

func (rt *Router) resetChecklist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	session, ok := rt.session(w, r)
	if !ok {
		return
	}
	session.ResetAll()
	writeJSON(w, http.StatusOK, map[string]any{
		"readiness": session.Readiness(),
	})
}

func (rt *Router) applyAllStaged(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	session, ok := rt.session(w, r)
	if !ok {
		return
	}
	result := session.ApplyAllStaged()
	if rt.metrics != nil {
		rt.metrics.RecordSuggestionsApplied(rt.options.ServiceName, "staged", len(result.AppliedItems))
	}
	writeJSON(w, http.StatusOK, result)
}

// dismissStaged drops staged suggestions without touching checked state.
// A request naming an item_id dismisses that one stage; an empty body or
// empty item_id clears the whole staging set.
func (rt *Router) dismissStaged(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req struct {
		ItemID string `json:"item_id"`
	}
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	session, ok := rt.session(w, r)
	if !ok {
		return
	}
	if itemID := strings.TrimSpace(req.ItemID); itemID != "" {
		session.DismissStaged(itemID)
	} else {
		session.DismissAllStaged()
	}
	if rt.metrics != nil {
		rt.metrics.RecordSuggestionDismissed(rt.options.ServiceName)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "dismissed"})
}

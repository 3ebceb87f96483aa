package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"coffeehouse/services"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps the services error taxonomy onto status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
		return
	}
	var nfErr *services.NotFoundError
	if errors.As(err, &nfErr) {
		writeJSONError(w, http.StatusNotFound, nfErr.Error())
		return
	}
	var cErr *services.ConflictError
	if errors.As(err, &cErr) {
		writeJSONError(w, http.StatusConflict, cErr.Error())
		return
	}
	var aErr *services.AuthorizationError
	if errors.As(err, &aErr) {
		writeJSONError(w, http.StatusForbidden, aErr.Error())
		return
	}
	log.Printf("internal error: %v", err)
	writeJSONError(w, http.StatusInternalServerError, "internal error")
}

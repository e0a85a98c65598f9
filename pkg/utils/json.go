// Package utils
package utils

import (
	"encoding/json"
	"net/http"
)

type Body map[string]any

func ReplyJSON(w http.ResponseWriter, status int, body map[string]any) error {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

func ReplyBadRequest(w http.ResponseWriter, msg string) {
	ReplyJSON(w, http.StatusBadRequest, Body{"error": msg})
}

func ReplyUnprocessable(w http.ResponseWriter, msg string) {
	ReplyJSON(w, http.StatusUnprocessableEntity, Body{"error": msg})
}

func ReplyNotFound(w http.ResponseWriter, msg string) {
	ReplyJSON(w, http.StatusNotFound, Body{"error": msg})
}

func ReplyInternalServerError(w http.ResponseWriter, msg string) {
	ReplyJSON(w, http.StatusInternalServerError, Body{"error": msg})
}

func ReplyMethodNotAllowed(w http.ResponseWriter) {
	ReplyJSON(w, http.StatusMethodNotAllowed, Body{"error": "method not allowed"})
}

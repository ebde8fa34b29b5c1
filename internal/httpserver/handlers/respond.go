package handlers

import (
	"encoding/json"
	"net/http"
)

const (
	MsgNotFound     = "Bookmark doesn't exist"
	MsgServerError  = "server error"
	MsgUnauthorized = "Unauthorized request"
	MsgInvalidBody  = "invalid request body"
)

type errorBody struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the {"error":{"message":...}} envelope.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, errorResponse{Error: errorBody{Message: message}})
}

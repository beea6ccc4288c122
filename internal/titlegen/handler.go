package titlegen

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
)

const noImageMessage = "Provide imageBase64 or imageUrl in the request body."

type errorBody struct {
	Error   string `json:"error"`
	Status  int    `json:"status,omitempty"`
	Details string `json:"details,omitempty"`
}

// Handler serves POST requests with a JSON Request body.
func Handler(g *Generator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
			return
		}

		var req Request
		if r.Body != nil {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
				writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid JSON body"})
				return
			}
		}

		titles, err := g.Generate(r.Context(), req)
		var upstream *UpstreamError
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, titles)
		case errors.Is(err, ErrNoImage):
			writeJSON(w, http.StatusBadRequest, errorBody{Error: noImageMessage})
		case errors.As(err, &upstream):
			writeJSON(w, http.StatusBadGateway, errorBody{
				Error:   "Upstream Gemini error",
				Status:  upstream.Status,
				Details: upstream.Details,
			})
		default:
			log.Printf("titlegen: %v", err)
			details := err.Error()
			if len(details) > maxDetails {
				details = details[:maxDetails]
			}
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Internal server error", Details: details})
		}
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("titlegen: write response: %v", err)
	}
}

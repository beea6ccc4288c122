package stitch

import (
	"encoding/json"
	"log"
	"math/rand/v2"
	"net/http"
)

// Request is the body of a stitch call.
type Request struct {
	A       *Species `json:"a"`
	B       *Species `json:"b"`
	Quality string   `json:"quality"`
	Seed    int64    `json:"seed"`
}

// Response describes the generated hybrid.
type Response struct {
	ImageURL       string     `json:"imageUrl"`
	Seed           int64      `json:"seed"`
	Quality        string     `json:"quality"`
	Dimensions     Dimensions `json:"dimensions"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Traits         []string   `json:"traits"`
	Prompt         string     `json:"prompt"`
	NegativePrompt string     `json:"negativePrompt"`
}

// Generate builds the response for a validated request. The seed fixes
// description and trait choice.
func Generate(req Request) Response {
	a, b := *req.A, *req.B
	quality, dims := DimensionsFor(req.Quality)
	rng := rand.New(rand.NewPCG(uint64(req.Seed), 0))
	return Response{
		ImageURL:       PlaceholderImage(a, b, dims),
		Seed:           req.Seed,
		Quality:        quality,
		Dimensions:     dims,
		Name:           Portmanteau(a.Name, b.Name),
		Description:    Description(rng, a, b),
		Traits:         Traits(rng, a, b),
		Prompt:         Prompt(a, b),
		NegativePrompt: negativePrompt,
	}
}

// Handler serves POST requests carrying a Request.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
			return
		}
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
			req.A == nil || req.B == nil || req.A.Name == "" || req.B.Name == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing species data"})
			return
		}
		log.Printf("stitch: %s + %s (quality=%s seed=%d)", req.A.Name, req.B.Name, req.Quality, req.Seed)
		writeJSON(w, http.StatusOK, Generate(req))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("stitch: write response: %v", err)
	}
}

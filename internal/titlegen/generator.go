// Package titlegen turns an image into a set of short spooky titles by
// prompting a Gemini vision model and cleaning up whatever comes back.
package titlegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const fewShot = `
EXAMPLE 1 INPUT (caption): "foggy shoreline, empty pier, lanterns, seagulls"
OUTPUT (JSON only):
{
  "mainTitle": "Lanterns Along the Pier",
  "alt1": "The Pier That Listened",
  "alt2": "Fog Between the Posts",
  "explanation": "Empty pier + lanterns + fog: lonely maritime hush"
}

EXAMPLE 2 INPUT (caption): "abandoned nursery, cracked rocking chair, moonlight"
OUTPUT (JSON only):
{
  "mainTitle": "Moonlight in the Cradle",
  "alt1": "The Rocking That Didn't Stop",
  "alt2": "Shadows Behind the Mobile",
  "explanation": "Nursery + moonlight: eerie childlike imagery and slow motion dread"
}
`

const instruction = `
You are a compact, cinematic horror title writer. Given a short image caption, output EXACTLY ONE JSON object and NOTHING ELSE with keys:
"mainTitle", "alt1", "alt2", "explanation".
Titles must be original, atmospheric, 2-5 words, use concrete nouns and strong verbs, avoid cliches, and be non-offensive.
Do NOT include extra commentary or any surrounding text.
`

// maxDetails bounds the upstream body echoed back to callers.
const maxDetails = 1000

// ErrNoImage is returned when a request carries neither image form.
var ErrNoImage = errors.New("titlegen: no image in request")

// Request is the body accepted by the title endpoint.
type Request struct {
	ImageBase64 string `json:"imageBase64,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	ExtraPrompt string `json:"extraPrompt,omitempty"`
}

// UpstreamError reports a non-2xx answer from the model endpoint.
type UpstreamError struct {
	Status  int
	Details string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d", e.Status)
}

// Config selects the model endpoint.
type Config struct {
	Endpoint string // base URL, model name and ":generateContent" are appended
	Model    string
	APIKey   string
	Timeout  time.Duration
}

// Generator calls the model and post-processes its answer.
type Generator struct {
	cfg    Config
	client *http.Client
}

// New creates a Generator. A zero Timeout means no client timeout.
func New(cfg Config) *Generator {
	return &Generator{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

type part struct {
	Text  string     `json:"text,omitempty"`
	Image *imagePart `json:"image,omitempty"`
}

type imagePart struct {
	ImageBytes string `json:"imageBytes,omitempty"`
	URI        string `json:"uri,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func buildPayload(req Request) generateRequest {
	prompt := instruction
	if req.ExtraPrompt != "" {
		prompt += "Extra instruction: " + req.ExtraPrompt + "\n"
	}
	img := &imagePart{URI: req.ImageURL}
	if req.ImageBase64 != "" {
		img = &imagePart{ImageBytes: req.ImageBase64}
	}
	return generateRequest{Contents: []content{{
		Role: "user",
		Parts: []part{
			{Text: fewShot + "\n\n" + prompt + "\n\nInput image:"},
			{Image: img},
		},
	}}}
}

func (g *Generator) url() string {
	return fmt.Sprintf("%s/%s:generateContent?key=%s",
		strings.TrimRight(g.cfg.Endpoint, "/"), g.cfg.Model, g.cfg.APIKey)
}

// Generate asks the model for titles. Unparseable output yields the
// fallback set rather than an error.
func (g *Generator) Generate(ctx context.Context, req Request) (Titles, error) {
	if req.ImageBase64 == "" && req.ImageURL == "" {
		return Titles{}, ErrNoImage
	}

	body, err := json.Marshal(buildPayload(req))
	if err != nil {
		return Titles{}, fmt.Errorf("encode payload: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url(), bytes.NewReader(body))
	if err != nil {
		return Titles{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return Titles{}, fmt.Errorf("call model: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Titles{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("titlegen: model responded %d", resp.StatusCode)
		details := string(raw)
		if len(details) > maxDetails {
			details = details[:maxDetails]
		}
		return Titles{}, &UpstreamError{Status: resp.StatusCode, Details: details}
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Titles{}, fmt.Errorf("decode response: %w", err)
	}

	fields, ok := Extract(responseText(parsed))
	if !ok {
		log.Printf("titlegen: could not parse model output, using fallback")
		fields = Fallback
	}
	return PostProcess(fields), nil
}

func responseText(r generateResponse) string {
	if len(r.Candidates) == 0 {
		return ""
	}
	texts := make([]string, 0, len(r.Candidates[0].Content.Parts))
	for _, p := range r.Candidates[0].Content.Parts {
		texts = append(texts, p.Text)
	}
	return strings.TrimSpace(strings.Join(texts, "\n"))
}

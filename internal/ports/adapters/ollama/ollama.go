package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "http://localhost:11434"
	defaultModel       = "nomic-embed-text"
	defaultHTTPTimeout = 5 * time.Minute
	envOllamaHost      = "OLLAMA_HOST"
)

// Adapter embeds sentences through a local Ollama server's /api/embed
// endpoint. It satisfies ports.Embedder.
type Adapter struct {
	model      string
	baseURL    string
	httpClient *http.Client
}

// New creates an embedding adapter. An empty model uses the default; an empty
// base URL reads OLLAMA_HOST and falls back to localhost.
func New(model, baseURL string) *Adapter {
	if model == "" {
		model = defaultModel
	}
	if baseURL == "" {
		baseURL = strings.TrimSpace(os.Getenv(envOllamaHost))
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Adapter{
		model:      model,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
	Error      string      `json:"error,omitempty"`
}

// EmbedMany encodes inputs in one request, preserving order. Blank inputs are
// sent as a single space: the endpoint rejects empty strings but transcripts
// legitimately contain blank cues.
func (a *Adapter) EmbedMany(ctx context.Context, inputs []string) ([][]float64, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	req := embedRequest{Model: a.model, Input: make([]string, len(inputs))}
	for i, in := range inputs {
		if strings.TrimSpace(in) == "" {
			in = " "
		}
		req.Input[i] = in
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("ollama: marshal embed request: %w", err)
	}

	url := strings.TrimRight(a.baseURL, "/") + "/api/embed"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ollama: build embed request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama: embed request failed: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("ollama: read embed response: %w", err)
	}

	var resp embedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("ollama: decode embed response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		msg := resp.Error
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return nil, fmt.Errorf("ollama: embed returned %d: %s", httpResp.StatusCode, msg)
	}
	if len(resp.Embeddings) != len(inputs) {
		return nil, fmt.Errorf("ollama: expected %d embeddings, got %d", len(inputs), len(resp.Embeddings))
	}
	return resp.Embeddings, nil
}

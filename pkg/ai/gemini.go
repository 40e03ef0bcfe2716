package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/leanchem/leanchem-backend/pkg/config"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// ErrNotConfigured is returned when no API key is set. Callers treat AI
// features as optional and degrade gracefully.
var ErrNotConfigured = errors.New("ai: gemini api key not configured")

// Message is one turn of a chat exchange.
type Message struct {
	Role string // "user" or "model"
	Text string
}

// Client calls the Gemini REST API.
type Client struct {
	apiKey     string
	chatModel  string
	embedModel string
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg config.GeminiConfig) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		chatModel:  cfg.ChatModel,
		embedModel: cfg.EmbedModel,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type generateRequest struct {
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	Contents          []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Generate runs a chat completion with an optional system instruction.
func (c *Client) Generate(ctx context.Context, systemPrompt string, messages []Message) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	req := generateRequest{}
	if systemPrompt != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: systemPrompt}}}
	}
	for _, msg := range messages {
		role := msg.Role
		if role == "" {
			role = "user"
		}
		req.Contents = append(req.Contents, content{Role: role, Parts: []part{{Text: msg.Text}}})
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.chatModel))
	var resp generateResponse
	if err := c.post(ctx, endpoint, req, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("gemini: %s (%s)", resp.Error.Message, resp.Error.Status)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini: empty response")
	}

	var out string
	for _, p := range resp.Candidates[0].Content.Parts {
		out += p.Text
	}
	return out, nil
}

type embedRequest struct {
	Content content `json:"content"`
}

type embedResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
	Error *apiError `json:"error,omitempty"`
}

// Embed returns the embedding vector for text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/models/%s:embedContent", c.baseURL, url.PathEscape(c.embedModel))
	req := embedRequest{Content: content{Parts: []part{{Text: text}}}}
	var resp embedResponse
	if err := c.post(ctx, endpoint, req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("gemini: %s (%s)", resp.Error.Message, resp.Error.Status)
	}
	return resp.Embedding.Values, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("calling gemini after %s: %w", time.Since(start).Round(time.Millisecond), err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("reading gemini response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding gemini response (status %d): %w", httpResp.StatusCode, err)
	}
	return nil
}

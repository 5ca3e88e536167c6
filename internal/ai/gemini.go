package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type GeminiProvider struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiTool struct {
	GoogleSearch struct{} `json:"google_search"`
}

type geminiGenerateReq struct {
	Contents []geminiContent `json:"contents"`
	Tools    []geminiTool    `json:"tools,omitempty"`
}

type geminiGenerateResp struct {
	Candidates []struct {
		Content           geminiContent `json:"content"`
		GroundingMetadata *struct {
			GroundingChunks []json.RawMessage `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GroundedResult carries the model text plus the raw grounding chunks the
// API attached to it. Citations are passed through opaque.
type GroundedResult struct {
	Text      string
	Citations []json.RawMessage
}

func NewGeminiProvider(baseURL, apiKey, model string) *GeminiProvider {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	return &GeminiProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		Client:  &http.Client{Timeout: 90 * time.Second},
	}
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	res, err := p.generate(ctx, prompt, false)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// GenerateGrounded asks the model to answer with Google Search grounding
// enabled and returns the citations alongside the text.
func (p *GeminiProvider) GenerateGrounded(ctx context.Context, prompt string) (*GroundedResult, error) {
	return p.generate(ctx, prompt, true)
}

func (p *GeminiProvider) generate(ctx context.Context, prompt string, grounded bool) (*GroundedResult, error) {
	if p.Client == nil {
		return nil, errors.New("gemini: http client is nil")
	}
	if strings.TrimSpace(p.APIKey) == "" {
		return nil, errors.New("gemini: api key is required")
	}
	model := strings.TrimSpace(p.Model)
	if model == "" {
		return nil, errors.New("gemini: model is required")
	}

	reqBody := geminiGenerateReq{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}, Role: "user"},
		},
	}
	if grounded {
		reqBody.Tools = []geminiTool{{}}
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimRight(p.BaseURL, "/"), model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("gemini: %s", msg)
	}

	var decoded geminiGenerateResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return nil, errors.New(decoded.Error.Message)
	}
	if len(decoded.Candidates) == 0 {
		return nil, errors.New("gemini: empty response")
	}

	cand := decoded.Candidates[0]
	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		sb.WriteString(part.Text)
	}

	out := &GroundedResult{Text: sb.String()}
	if cand.GroundingMetadata != nil {
		out.Citations = cand.GroundingMetadata.GroundingChunks
	}
	return out, nil
}

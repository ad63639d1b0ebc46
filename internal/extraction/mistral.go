package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL  = "https://api.mistral.ai"
	DefaultOCRModel = "mistral-ocr-latest"

	maxResponseBytes = 4 << 20
)

var ErrUnsupportedImage = errors.New("unsupported image type")

// MistralConfig configures MistralExtractor.
type MistralConfig struct {
	APIKey   string
	AgentID  string
	OCRModel string
	BaseURL  string
	Timeout  time.Duration
}

// MistralExtractor runs Mistral OCR on the image, then a Mistral agent to
// structure the recognised markdown into JSON.
type MistralExtractor struct {
	cfg        MistralConfig
	httpClient *http.Client
}

var _ Extractor = (*MistralExtractor)(nil)

// NewMistralExtractor fills in defaults for empty config fields.
func NewMistralExtractor(cfg MistralConfig) *MistralExtractor {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.OCRModel == "" {
		cfg.OCRModel = DefaultOCRModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &MistralExtractor{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type ocrRequest struct {
	Model    string      `json:"model"`
	Document ocrDocument `json:"document"`
}

type ocrDocument struct {
	Type     string `json:"type"`
	ImageURL string `json:"image_url"`
}

type ocrResponse struct {
	Pages []struct {
		Index    int    `json:"index"`
		Markdown string `json:"markdown"`
	} `json:"pages"`
}

type agentRequest struct {
	AgentID  string         `json:"agent_id"`
	Messages []agentMessage `json:"messages"`
}

type agentMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type agentResponse struct {
	Choices []struct {
		Message agentMessage `json:"message"`
	} `json:"choices"`
}

// Extract implements Extractor.
func (m *MistralExtractor) Extract(ctx context.Context, image []byte) (*Result, error) {
	if m.cfg.APIKey == "" || m.cfg.AgentID == "" {
		return nil, fmt.Errorf("%w: MISTRAL_API_KEY and MISTRAL_AGENT_ID must be set", ErrExtractionFailed)
	}

	dataURL, err := imageDataURL(image)
	if err != nil {
		return nil, err
	}

	markdown, err := m.ocr(ctx, dataURL)
	if err != nil {
		return nil, fmt.Errorf("%w: ocr: %w", ErrExtractionFailed, err)
	}
	slog.Debug("OCR complete", "markdown_length", len(markdown))

	output, err := m.structure(ctx, markdown)
	if err != nil {
		return nil, fmt.Errorf("%w: structuring: %w", ErrExtractionFailed, err)
	}

	raw, err := Parse(output)
	if err != nil {
		return nil, err
	}
	res := Normalize(raw)
	if len(res.Dropped) > 0 {
		slog.Warn("Dropped malformed extraction entries", "dropped", res.Dropped)
	}
	if len(res.Items) == 0 {
		return nil, fmt.Errorf("%w: no priced items found", ErrExtractionFailed)
	}
	return res, nil
}

func (m *MistralExtractor) ocr(ctx context.Context, dataURL string) (string, error) {
	var resp ocrResponse
	err := m.post(ctx, "/v1/ocr", ocrRequest{
		Model:    m.cfg.OCRModel,
		Document: ocrDocument{Type: "image_url", ImageURL: dataURL},
	}, &resp)
	if err != nil {
		return "", err
	}
	if len(resp.Pages) == 0 {
		return "", errors.New("no pages recognised")
	}
	return resp.Pages[0].Markdown, nil
}

func (m *MistralExtractor) structure(ctx context.Context, markdown string) (string, error) {
	var resp agentResponse
	err := m.post(ctx, "/v1/agents/completions", agentRequest{
		AgentID: m.cfg.AgentID,
		Messages: []agentMessage{
			{Role: "user", Content: BuildStructuringPrompt(markdown)},
		},
	}, &resp)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty agent response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (m *MistralExtractor) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mistral %s returned %d: %s", path, resp.StatusCode, string(raw))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// DetectImageType returns the content type of a JPEG or PNG receipt and
// ErrUnsupportedImage for anything else.
func DetectImageType(image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("%w: empty image", ErrUnsupportedImage)
	}
	contentType := http.DetectContentType(image)
	switch contentType {
	case "image/jpeg", "image/png":
		return contentType, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, contentType)
}

func imageDataURL(image []byte) (string, error) {
	contentType, err := DetectImageType(image)
	if err != nil {
		return "", err
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(image), nil
}

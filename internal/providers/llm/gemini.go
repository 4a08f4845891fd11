package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"vfxprompt/internal/domain"
)

type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// GeminiGateway calls the Gemini generateContent API.
type GeminiGateway struct {
	client     *genai.Client
	model      string
	httpClient *http.Client
}

const (
	geminiDefaultTimeout = 60 * time.Second
	defaultGeminiModel   = "gemini-2.0-flash"
	maxRemoteImageBytes  = 10 << 20
)

func NewGeminiGateway(ctx context.Context, opts GeminiOptions) (*GeminiGateway, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, errors.New("gemini api key is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: geminiDefaultTimeout}
	}
	cfg := &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiGateway{client: client, model: model, httpClient: httpClient}, nil
}

func (g *GeminiGateway) Name() string { return ProviderGemini }

func (g *GeminiGateway) Complete(ctx context.Context, req Request) (*Response, error) {
	parts := []*genai.Part{genai.NewPartFromText(req.User)}
	if req.ImageURL != "" {
		mime, data, err := g.imageBytes(ctx, req.ImageURL)
		if err != nil {
			return nil, err
		}
		parts = append(parts, genai.NewPartFromBytes(data, mime))
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxOutputTokens)
	}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}, cfg)
	if err != nil {
		if code, ok := geminiStatus(err); ok {
			return nil, &StatusError{Provider: ProviderGemini, Code: code, Err: err}
		}
		return nil, fmt.Errorf("%w: gemini request: %w", domain.ErrProviderFailure, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: gemini: %w", domain.ErrProviderFailure, ErrEmptyResponse)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: gemini: %w", domain.ErrProviderFailure, ErrEmptyResponse)
	}
	return &Response{Text: text, Provider: ProviderGemini, Model: g.model}, nil
}

func geminiStatus(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr.Code != 0 {
		return apiErrPtr.Code, true
	}
	return 0, false
}

// imageBytes resolves a data URI or downloads a remote image.
func (g *GeminiGateway) imageBytes(ctx context.Context, ref string) (string, []byte, error) {
	if IsDataURI(ref) {
		return ParseDataURI(ref)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return "", nil, domain.Invalid("image", "invalid image url")
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("%w: fetch image: %w", domain.ErrProviderFailure, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return "", nil, domain.Invalid("image", fmt.Sprintf("image url returned status %d", resp.StatusCode))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteImageBytes))
	if err != nil {
		return "", nil, fmt.Errorf("%w: read image: %w", domain.ErrProviderFailure, err)
	}
	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	return mime, data, nil
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"vfxprompt/internal/domain"
)

type OpenAIOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// OpenAIGateway talks to any OpenAI-compatible chat completions endpoint.
type OpenAIGateway struct {
	client openai.Client
	model  string
}

const (
	openAIDefaultTimeout = 60 * time.Second
	defaultGatewayModel  = "google/gemini-2.5-flash"
	defaultGatewayURL    = "https://ai.gateway.lovable.dev/v1"
)

func NewOpenAIGateway(opts OpenAIOptions) (*OpenAIGateway, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, errors.New("gateway api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultGatewayURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: openAIDefaultTimeout}
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultGatewayModel
	}
	client := openai.NewClient(
		option.WithAPIKey(key),
		option.WithBaseURL(baseURL+"/"),
		option.WithHTTPClient(httpClient),
		// 429 and 402 must reach the caller on the first attempt.
		option.WithMaxRetries(0),
	)
	return &OpenAIGateway{client: client, model: model}, nil
}

func (g *OpenAIGateway) Name() string { return ProviderGateway }

func (g *OpenAIGateway) Complete(ctx context.Context, req Request) (*Response, error) {
	user := openai.UserMessage(req.User)
	if req.ImageURL != "" {
		user = openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.TextContentPart(req.User),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: req.ImageURL}),
		})
	}
	messages := []openai.ChatCompletionMessageParamUnion{user}
	if req.System != "" {
		messages = append([]openai.ChatCompletionMessageParamUnion{openai.SystemMessage(req.System)}, messages...)
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(g.model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxOutputTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxOutputTokens))
	}
	if req.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	completion, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, &StatusError{Provider: ProviderGateway, Code: apiErr.StatusCode, Err: err}
		}
		return nil, fmt.Errorf("%w: gateway request: %w", domain.ErrProviderFailure, err)
	}
	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		return nil, fmt.Errorf("%w: gateway: %w", domain.ErrProviderFailure, ErrEmptyResponse)
	}
	model := completion.Model
	if model == "" {
		model = g.model
	}
	return &Response{
		Text:     completion.Choices[0].Message.Content,
		Provider: ProviderGateway,
		Model:    model,
	}, nil
}

package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"vfxprompt/internal/infra"
	"vfxprompt/internal/infra/credentials"
	"vfxprompt/internal/providers/llm"
)

// flowGateways holds the transport used by each model-backed flow.
type flowGateways struct {
	Analyze    llm.Gateway
	Generate   llm.Gateway
	Enhance    llm.Gateway
	Variations llm.Gateway
	Deep       llm.Gateway
}

// selectGateways routes every text flow to the configured provider first
// and the other one second. Deep analysis always prefers Gemini for its
// larger output budget. Missing providers are skipped.
func selectGateways(provider string, gateway, gemini llm.Gateway) flowGateways {
	first, second := gateway, gemini
	if provider == llm.ProviderGemini {
		first, second = gemini, gateway
	}
	text := llm.Select(first, second)
	return flowGateways{
		Analyze:    text,
		Generate:   text,
		Enhance:    text,
		Variations: text,
		Deep:       llm.Select(gemini, gateway),
	}
}

// keyStore is the part of credentials.Store that main needs.
type keyStore interface {
	Resolve(ctx context.Context, provider, fromEnv string) string
}

// buildGateways creates the configured transports. A provider without a key
// is left out; the flows then take their local fallbacks.
func buildGateways(ctx context.Context, cfg *infra.Config, keys keyStore, log zerolog.Logger) flowGateways {
	gatewayKey, geminiKey := cfg.GatewayAPIKey, cfg.GeminiAPIKey
	if keys != nil {
		gatewayKey = keys.Resolve(ctx, credentials.ProviderGateway, gatewayKey)
		geminiKey = keys.Resolve(ctx, credentials.ProviderGemini, geminiKey)
	}
	client := &http.Client{Timeout: cfg.LLMTimeout}

	var gateway, gemini llm.Gateway
	if gatewayKey != "" {
		gw, err := llm.NewOpenAIGateway(llm.OpenAIOptions{APIKey: gatewayKey, Model: cfg.GatewayModel, BaseURL: cfg.GatewayBaseURL, HTTPClient: client})
		if err != nil {
			log.Error().Err(err).Msg("llm gateway disabled")
		} else {
			gateway = gw
		}
	}
	if geminiKey != "" {
		gm, err := llm.NewGeminiGateway(ctx, llm.GeminiOptions{APIKey: geminiKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL, HTTPClient: client})
		if err != nil {
			log.Error().Err(err).Msg("gemini gateway disabled")
		} else {
			gemini = gm
		}
	}
	if gateway == nil && gemini == nil {
		log.Warn().Msg("no llm provider configured; prompts use local fallbacks")
	}
	return selectGateways(cfg.LLMProvider, gateway, gemini)
}

package main

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"vfxprompt/internal/infra"
	"vfxprompt/internal/providers/llm"
)

type namedGateway string

func (n namedGateway) Complete(context.Context, llm.Request) (*llm.Response, error) {
	return &llm.Response{Text: "ok", Provider: string(n)}, nil
}

func (n namedGateway) Name() string { return string(n) }

func TestSelectGateways(t *testing.T) {
	gw, gm := namedGateway("gateway"), namedGateway("gemini")
	tests := []struct {
		name     string
		provider string
		gateway  llm.Gateway
		gemini   llm.Gateway
		text     string
		deep     string
	}{
		{name: "gateway first", provider: "gateway", gateway: gw, gemini: gm, text: "gateway", deep: "gemini"},
		{name: "gemini first", provider: "gemini", gateway: gw, gemini: gm, text: "gemini", deep: "gemini"},
		{name: "only gateway", provider: "gemini", gateway: gw, text: "gateway", deep: "gateway"},
		{name: "none", provider: "gateway", text: "none", deep: "none"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := selectGateways(tc.provider, tc.gateway, tc.gemini)
			for flow, g := range map[string]llm.Gateway{"analyze": got.Analyze, "generate": got.Generate, "enhance": got.Enhance, "variations": got.Variations} {
				if g.Name() != tc.text {
					t.Fatalf("%s gateway = %q, want %q", flow, g.Name(), tc.text)
				}
			}
			if got.Deep.Name() != tc.deep {
				t.Fatalf("deep gateway = %q, want %q", got.Deep.Name(), tc.deep)
			}
		})
	}
}

type stubKeys map[string]string

func (s stubKeys) Resolve(_ context.Context, provider, fromEnv string) string {
	if fromEnv != "" {
		return fromEnv
	}
	return s[provider]
}

func TestBuildGatewaysUsesStoredKeys(t *testing.T) {
	cfg := &infra.Config{LLMProvider: "gateway", GatewayBaseURL: "http://127.0.0.1:1/v1"}
	got := buildGateways(context.Background(), cfg, stubKeys{"gateway": "stored-key"}, zerolog.Nop())
	if got.Generate.Name() != llm.ProviderGateway {
		t.Fatalf("generate gateway = %q, want stored gateway", got.Generate.Name())
	}
	if got.Deep.Name() != llm.ProviderGateway {
		t.Fatalf("deep gateway = %q", got.Deep.Name())
	}

	none := buildGateways(context.Background(), &infra.Config{}, nil, zerolog.Nop())
	if none.Generate.Name() != "none" {
		t.Fatalf("generate gateway = %q, want none", none.Generate.Name())
	}
}

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"vfxprompt/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

const chatCompletionBody = `{"id":"c1","object":"chat.completion","created":1,"model":"google/gemini-2.5-flash","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"A wide shot at high-angle captures a man."}}]}`

func TestOpenAIGatewayComplete(t *testing.T) {
	var body map[string]any
	var path, auth string
	g, err := NewOpenAIGateway(OpenAIOptions{
		APIKey:  "key",
		BaseURL: "https://gateway.test/v1",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			path = r.URL.Path
			auth = r.Header.Get("Authorization")
			raw, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(raw, &body); err != nil {
				t.Errorf("decode request: %v", err)
			}
			return jsonResponse(http.StatusOK, chatCompletionBody), nil
		})},
	})
	if err != nil {
		t.Fatalf("NewOpenAIGateway returned error: %v", err)
	}

	resp, err := g.Complete(context.Background(), Request{
		System:          "sys",
		User:            "describe",
		ImageURL:        "data:image/png;base64,AAAA",
		Temperature:     0.7,
		MaxOutputTokens: 500,
	})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if resp.Text != "A wide shot at high-angle captures a man." {
		t.Fatalf("Text = %q", resp.Text)
	}
	if resp.Provider != ProviderGateway {
		t.Fatalf("Provider = %q, want %q", resp.Provider, ProviderGateway)
	}
	if path != "/v1/chat/completions" {
		t.Fatalf("path = %q, want /v1/chat/completions", path)
	}
	if auth != "Bearer key" {
		t.Fatalf("Authorization = %q", auth)
	}
	if body["model"] != defaultGatewayModel {
		t.Fatalf("model = %v, want %s", body["model"], defaultGatewayModel)
	}
	if body["temperature"] != 0.7 {
		t.Fatalf("temperature = %v, want 0.7", body["temperature"])
	}
	messages, _ := body["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("messages = %v, want system and user", body["messages"])
	}
	if raw, _ := json.Marshal(messages[1]); !bytes.Contains(raw, []byte("image_url")) {
		t.Fatalf("user message %s has no image part", raw)
	}
}

func TestOpenAIGatewayClassifiesStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, want: domain.ErrRateLimited},
		{name: "quota", status: http.StatusPaymentRequired, want: domain.ErrQuotaExhausted},
		{name: "server error", status: http.StatusBadGateway, want: domain.ErrProviderFailure},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			calls := 0
			g, err := NewOpenAIGateway(OpenAIOptions{
				APIKey: "key",
				HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
					calls++
					return jsonResponse(tc.status, `{"error":{"message":"nope"}}`), nil
				})},
			})
			if err != nil {
				t.Fatalf("NewOpenAIGateway returned error: %v", err)
			}
			_, err = g.Complete(context.Background(), Request{User: "x"})
			if !errors.Is(err, tc.want) {
				t.Fatalf("Complete error = %v, want %v", err, tc.want)
			}
			var se *StatusError
			if !errors.As(err, &se) || se.Code != tc.status {
				t.Fatalf("Complete error = %v, want StatusError %d", err, tc.status)
			}
			if calls != 1 {
				t.Fatalf("calls = %d, want 1", calls)
			}
		})
	}
}

func TestOpenAIGatewayTransportFailure(t *testing.T) {
	g, err := NewOpenAIGateway(OpenAIOptions{
		APIKey: "key",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return nil, errors.New("boom")
		})},
	})
	if err != nil {
		t.Fatalf("NewOpenAIGateway returned error: %v", err)
	}
	_, err = g.Complete(context.Background(), Request{User: "x"})
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("Complete error = %v, want ErrProviderFailure", err)
	}
	if Surfaced(err) {
		t.Fatalf("transport failure reported as surfaced")
	}
	if reason := FailureReason(err); reason != "http_request" {
		t.Fatalf("FailureReason = %q, want http_request", reason)
	}
}

func TestGeminiGatewayComplete(t *testing.T) {
	var raw []byte
	g, err := NewGeminiGateway(context.Background(), GeminiOptions{
		APIKey:  "key",
		BaseURL: "https://gemini.test/",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			raw, _ = io.ReadAll(r.Body)
			if !strings.Contains(r.URL.Path, "gemini-2.0-flash:generateContent") {
				t.Errorf("path = %q", r.URL.Path)
			}
			return jsonResponse(http.StatusOK, `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"subject\":\"a cat\"}"}]}}]}`), nil
		})},
	})
	if err != nil {
		t.Fatalf("NewGeminiGateway returned error: %v", err)
	}

	resp, err := g.Complete(context.Background(), Request{
		System:          "sys prompt",
		User:            "analyze",
		ImageURL:        "data:image/jpeg;base64,/9j/",
		Temperature:     0.4,
		MaxOutputTokens: 2048,
		JSON:            true,
	})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if resp.Text != `{"subject":"a cat"}` {
		t.Fatalf("Text = %q", resp.Text)
	}
	for _, want := range []string{"systemInstruction", "sys prompt", "inlineData", "image/jpeg", "maxOutputTokens"} {
		if !bytes.Contains(raw, []byte(want)) {
			t.Fatalf("request %s missing %q", raw, want)
		}
	}
}

func TestGeminiGatewayRateLimit(t *testing.T) {
	g, err := NewGeminiGateway(context.Background(), GeminiOptions{
		APIKey:  "key",
		BaseURL: "https://gemini.test/",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusTooManyRequests, `{"error":{"code":429,"message":"slow down","status":"RESOURCE_EXHAUSTED"}}`), nil
		})},
	})
	if err != nil {
		t.Fatalf("NewGeminiGateway returned error: %v", err)
	}
	_, err = g.Complete(context.Background(), Request{User: "x"})
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("Complete error = %v, want ErrRateLimited", err)
	}
	if !Surfaced(err) {
		t.Fatalf("rate limit not surfaced")
	}
}

func TestParseDataURI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       string
		wantMime string
		wantData string
		wantErr  bool
	}{
		{name: "png", in: "data:image/png;base64,aGVsbG8=", wantMime: "image/png", wantData: "hello"},
		{name: "no mime", in: "data:;base64,aGk=", wantMime: "application/octet-stream", wantData: "hi"},
		{name: "not data", in: "https://example.com/a.png", wantErr: true},
		{name: "not base64", in: "data:text/plain,hello", wantErr: true},
		{name: "bad payload", in: "data:image/png;base64,%%%", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			mime, data, err := ParseDataURI(tc.in)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Fatalf("err = %v, want validation error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDataURI returned error: %v", err)
			}
			if mime != tc.wantMime || string(data) != tc.wantData {
				t.Fatalf("ParseDataURI = %q %q, want %q %q", mime, data, tc.wantMime, tc.wantData)
			}
		})
	}
}

func TestSelectSkipsNop(t *testing.T) {
	g := &OpenAIGateway{model: "m"}
	if got := Select(nil, Nop{}, g); got != g {
		t.Fatalf("Select = %v, want the configured gateway", got)
	}
	if _, ok := Select(Nop{}).(Nop); !ok {
		t.Fatalf("Select with nothing configured should return Nop")
	}
}

func TestFailureReason(t *testing.T) {
	t.Parallel()

	if got := FailureReason(&StatusError{Code: 503}); got != "http_503" {
		t.Fatalf("FailureReason = %q, want http_503", got)
	}
	if got := FailureReason(ErrEmptyResponse); got != "empty_response" {
		t.Fatalf("FailureReason = %q, want empty_response", got)
	}
	_, err := Nop{}.Complete(context.Background(), Request{})
	if got := FailureReason(err); got != "not_configured" {
		t.Fatalf("FailureReason = %q, want not_configured", got)
	}
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "fenced", in: "Sure:\n```json\n{\"a\":1}\n```\nthanks {x}", want: `{"a":1}`},
		{name: "span", in: `result: {"a":{"b":2}} done`, want: `{"a":{"b":2}}`},
		{name: "plain", in: "  not json  ", want: "not json"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ExtractJSON(tc.in); got != tc.want {
				t.Fatalf("ExtractJSON() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTrimCodeFence(t *testing.T) {
	t.Parallel()

	if got := TrimCodeFence("```text\nA wide shot.\n```"); got != "A wide shot." {
		t.Fatalf("TrimCodeFence = %q", got)
	}
	if got := TrimCodeFence("A wide shot."); got != "A wide shot." {
		t.Fatalf("TrimCodeFence = %q", got)
	}
}

package intelligence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultFunctionTimeout bounds a single call to a remote suggestion function.
const DefaultFunctionTimeout = 30 * time.Second

type functionBackend struct {
	url    string
	apiKey string
	http   *http.Client
}

// NewFunctionBackend creates a SuggestionBackend that POSTs the request to a
// hosted function at url. apiKey, when set, is sent as a bearer token.
func NewFunctionBackend(url, apiKey string, client *http.Client) SuggestionBackend {
	if client == nil {
		client = &http.Client{Timeout: DefaultFunctionTimeout}
	}
	return &functionBackend{url: url, apiKey: apiKey, http: client}
}

func (b *functionBackend) Suggest(ctx context.Context, req SuggestionRequest) (*SuggestionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	httpResp, err := b.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var resp SuggestionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		if httpResp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("function returned status %d", httpResp.StatusCode)
		}
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK && resp.Error == "" {
		return nil, fmt.Errorf("function returned status %d", httpResp.StatusCode)
	}
	return &resp, nil
}

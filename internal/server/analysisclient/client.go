// Package analysisclient calls the external factor analysis engine.
package analysisclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const factorRegressionPath = "/api/analysis/factor-regression"

// maxErrorBody caps how much of a failed response is read.
const maxErrorBody = 64 << 10

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the engine at baseURL. Each call is bounded
// by timeout; calls are never retried.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// RunFactorRegression posts req to the engine. Any failure is a
// *DownstreamError.
func (c *Client) RunFactorRegression(ctx context.Context, req *FactorRegressionRequest) (*FactorRegressionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+factorRegressionPath, bytes.NewReader(body))
	if err != nil {
		return nil, unavailable(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, unavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromResponse(resp)
	}

	var out FactorRegressionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, unavailable(fmt.Errorf("decode response: %w", err))
	}
	return &out, nil
}

func errorFromResponse(resp *http.Response) *DownstreamError {
	de := &DownstreamError{
		Kind:       kindForStatus(resp.StatusCode),
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("factor analysis service returned status %d", resp.StatusCode),
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return de
	}
	var er errorResponse
	if json.Unmarshal(b, &er) == nil && er.Error != "" {
		de.Message = er.Error
	}
	return de
}

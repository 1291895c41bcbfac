// Package apiclient is a small HTTP client for the portfolio REST API. It
// keeps the token returned by register/login and sends it on later calls.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/portfoliorisk/internal/common"
	"github.com/shopspring/decimal"
)

const apiPrefix = "/api/v1"

// ErrNotLoggedIn is returned by calls that need a token before one is set.
var ErrNotLoggedIn = errors.New("not logged in")

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.Message)
}

type Holding struct {
	ID       string          `json:"id"`
	Ticker   string          `json:"ticker"`
	Quantity decimal.Decimal `json:"quantity"`
}

type Analysis struct {
	ID           string                     `json:"id"`
	AnalysisDate time.Time                  `json:"analysisDate"`
	Alpha        decimal.Decimal            `json:"alpha"`
	BetaMkt      decimal.Decimal            `json:"betaMkt"`
	BetaSmb      decimal.Decimal            `json:"betaSmb"`
	BetaHml      decimal.Decimal            `json:"betaHml"`
	BetaRmw      decimal.Decimal            `json:"betaRmw"`
	BetaCma      decimal.Decimal            `json:"betaCma"`
	RSquared     decimal.Decimal            `json:"rSquared"`
	TStats       map[string]decimal.Decimal `json:"tStats"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

type holdingRequest struct {
	Ticker   string          `json:"ticker,omitempty"`
	Quantity decimal.Decimal `json:"quantity"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) LoggedIn() bool { return c.token != "" }

func (c *Client) Logout() { c.token = "" }

// Register creates an account and keeps its token. It returns the stored
// email.
func (c *Client) Register(ctx context.Context, email, password string) (string, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, credentials{email, password}, &out, false); err != nil {
		return "", err
	}
	c.token = out.Token
	return out.Email, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, credentials{email, password}, &out, false); err != nil {
		return "", err
	}
	c.token = out.Token
	return out.Email, nil
}

func (c *Client) Holdings(ctx context.Context) ([]Holding, error) {
	var out []Holding
	if err := c.do(ctx, http.MethodGet, "/holdings", nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddHolding(ctx context.Context, ticker string, quantity decimal.Decimal) (*Holding, error) {
	var out Holding
	if err := c.do(ctx, http.MethodPost, "/holdings", nil, holdingRequest{Ticker: ticker, Quantity: quantity}, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateHolding(ctx context.Context, id string, quantity decimal.Decimal) (*Holding, error) {
	var out Holding
	if err := c.do(ctx, http.MethodPut, "/holdings/"+url.PathEscape(id), nil, holdingRequest{Quantity: quantity}, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteHolding(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/holdings/"+url.PathEscape(id), nil, nil, nil, true)
}

// RunAnalysis starts a run. Empty dates are left to the server defaults.
func (c *Client) RunAnalysis(ctx context.Context, startDate, endDate string) (*Analysis, error) {
	q := url.Values{}
	if startDate != "" {
		q.Set("startDate", startDate)
	}
	if endDate != "" {
		q.Set("endDate", endDate)
	}

	var out Analysis
	if err := c.do(ctx, http.MethodPost, "/analysis/run", q, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) History(ctx context.Context) ([]Analysis, error) {
	var out []Analysis
	if err := c.do(ctx, http.MethodGet, "/analysis/history", nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Analysis(ctx context.Context, id string) (*Analysis, error) {
	var out Analysis
	if err := c.do(ctx, http.MethodGet, "/analysis/"+url.PathEscape(id), nil, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any, authenticated bool) error {
	if authenticated && !c.LoggedIn() {
		return ErrNotLoggedIn
	}

	u := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		return &APIError{StatusCode: resp.StatusCode, Message: eb.Error}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

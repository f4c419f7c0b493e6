package chatgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/thankiuday/dreamlink/internal/pkg/apperrors"
)

// HTTPClientOptions configures the HTTP gateway client.
type HTTPClientOptions struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
	// ProbeRate and ProbeBurst throttle ChannelHasMessages calls; the
	// reconciler's fallback issues one probe per known user, and the
	// provider rate-limits aggressively.
	ProbeRate  float64
	ProbeBurst int
	Logger     zerolog.Logger
}

// HTTPClient talks to the external messaging provider over its REST API.
// Every failure is wrapped in apperrors.ErrExternalUnavailable so callers
// can treat the provider as advisory.
type HTTPClient struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	probeLimiter *rate.Limiter
	logger       zerolog.Logger
}

// NewHTTPClient creates a gateway client from options, applying defaults
// for anything unset.
func NewHTTPClient(opts HTTPClientOptions) *HTTPClient {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	probeRate := opts.ProbeRate
	if probeRate <= 0 {
		probeRate = 20
	}
	probeBurst := opts.ProbeBurst
	if probeBurst <= 0 {
		probeBurst = 5
	}

	return &HTTPClient{
		baseURL:      baseURL,
		apiKey:       opts.APIKey,
		httpClient:   httpClient,
		probeLimiter: rate.NewLimiter(rate.Limit(probeRate), probeBurst),
		logger:       opts.Logger,
	}
}

// EnsureUsers upserts the given users with the provider.
func (c *HTTPClient) EnsureUsers(ctx context.Context, users []UserRef) error {
	if len(users) == 0 {
		return nil
	}
	body := map[string]interface{}{"users": users}
	return c.do(ctx, http.MethodPost, "/v1/users/upsert", body, nil)
}

// EnsureChannel provisions the deterministic two-party channel.
func (c *HTTPClient) EnsureChannel(ctx context.Context, userA, userB int64) (string, error) {
	channelID := ChannelID(userA, userB)
	body := map[string]interface{}{
		"channelId": channelID,
		"members":   []int64{userA, userB},
	}
	if err := c.do(ctx, http.MethodPost, "/v1/channels", body, nil); err != nil {
		return "", err
	}
	return channelID, nil
}

// Send posts text on a channel and returns the provider message id.
func (c *HTTPClient) Send(ctx context.Context, channelID string, senderID int64, text string) (string, error) {
	body := map[string]interface{}{
		"senderId": senderID,
		"text":     text,
	}
	var resp struct {
		MessageID string `json:"messageId"`
	}
	path := "/v1/channels/" + url.PathEscape(channelID) + "/messages"
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return "", err
	}
	if resp.MessageID == "" {
		return "", apperrors.NewExternalUnavailableError("provider accepted send but returned no message id")
	}
	return resp.MessageID, nil
}

// ChannelsForMember runs the bulk "channels for member" query.
func (c *HTTPClient) ChannelsForMember(ctx context.Context, userID int64) ([]string, error) {
	var resp struct {
		Channels []string `json:"channels"`
	}
	path := fmt.Sprintf("/v1/members/%d/channels", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Channels, nil
}

// ChannelHasMessages probes whether a channel has at least one message.
// Probes are rate limited because the reconciler fallback issues one per
// known user.
func (c *HTTPClient) ChannelHasMessages(ctx context.Context, channelID string) (bool, error) {
	if err := c.probeLimiter.Wait(ctx); err != nil {
		return false, apperrors.NewCustomError(apperrors.ErrExternalUnavailable, "probe rate limiter: "+err.Error())
	}

	var resp struct {
		HasMessages bool `json:"hasMessages"`
	}
	path := "/v1/channels/" + url.PathEscape(channelID) + "/exists"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return false, err
	}
	return resp.HasMessages, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	if c.baseURL == "" {
		return apperrors.NewExternalUnavailableError("gateway base URL is not configured")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode gateway request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("Gateway request failed")
		return apperrors.NewCustomError(apperrors.ErrExternalUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("path", path).
			Str("body", string(snippet)).
			Msg("Gateway returned error status")
		return apperrors.NewCustomError(apperrors.ErrExternalUnavailable,
			fmt.Sprintf("gateway returned status %d", resp.StatusCode))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperrors.NewCustomError(apperrors.ErrExternalUnavailable, "failed to decode gateway response: "+err.Error())
		}
	}

	return nil
}

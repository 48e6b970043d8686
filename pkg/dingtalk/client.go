package dingtalk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// URL builds the signed send URL. sign must already be query-escaped.
func (c *clientImpl) URL(token string, timestamp int64, sign string) string {
	sep := "?"
	if strings.Contains(c.gateway, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%saccess_token=%s&timestamp=%d&sign=%s",
		c.gateway, sep, url.QueryEscape(token), timestamp, sign)
}

func (c *clientImpl) Send(ctx context.Context, req SendRequest) (Response, error) {
	if req.Token == "" {
		return Response{}, ErrTokenRequired
	}
	if req.Message.Text == nil && req.Message.Markdown == nil {
		return Response{}, ErrInvalidMessage
	}

	jsonData, err := json.Marshal(req.Message)
	if err != nil {
		return Response{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(req.Token, req.Timestamp, req.Sign), bytes.NewReader(jsonData))
	if err != nil {
		return Response{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", UserAgent)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return Response{}, fmt.Errorf("failed to read response body: %w", err)
	}

	return parseResponse(resp.StatusCode, body)
}

func parseResponse(status int, body []byte) (Response, error) {
	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("%w: status %d: %s", ErrMalformedResponse, status, string(body))
	}
	if out.ErrCode == nil {
		return out, fmt.Errorf("%w: status %d: missing errcode: %s", ErrMalformedResponse, status, string(body))
	}
	if *out.ErrCode != 0 {
		return out, &SendError{ErrCode: *out.ErrCode, ErrMsg: out.ErrMsg, Body: string(body)}
	}
	return out, nil
}

// Close closes idle connections in the HTTP client.
func (c *clientImpl) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

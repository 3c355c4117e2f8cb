// Package upstream is the HTTP client for the Trivara platform API. The
// backend owns all persistence and validation; this service only consumes
// its rooms and bookings endpoints over JSON with bearer authentication.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Sadath08/Trivara-room/internal/domain"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return domain.InternalError{Msg: "encode request body", Err: err}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return domain.InternalError{Msg: "build request", Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// With a token this is expiry/invalidation; without, a missing login.
		return domain.UnauthenticatedError{Expired: token != ""}
	}
	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.InternalError{Msg: "decode response body", Err: err}
	}
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// errorBody is the platform's error envelope. detail is usually a string;
// validation failures (422) carry an array of {loc, msg} objects.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationDetail struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil && len(body.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(body.Detail, &detail); err == nil && detail != "" {
			return domain.UpstreamError{Status: resp.StatusCode, Detail: detail}
		}

		var details []validationDetail
		if err := json.Unmarshal(body.Detail, &details); err == nil && len(details) > 0 {
			msgs := make([]string, 0, len(details))
			for _, d := range details {
				locs := make([]string, 0, len(d.Loc))
				for _, l := range d.Loc {
					locs = append(locs, fmt.Sprint(l))
				}
				msgs = append(msgs, strings.Join(locs, ".")+": "+d.Msg)
			}
			return domain.UpstreamError{Status: resp.StatusCode, Detail: strings.Join(msgs, ", ")}
		}
	}

	return domain.UpstreamError{Status: resp.StatusCode}
}

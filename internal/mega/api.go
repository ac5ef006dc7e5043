package mega

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"
)

// apiError is a numeric error code from the MEGA API (always negative).
type apiError int

func (e apiError) Error() string {
	return fmt.Sprintf("mega api error %d", int(e))
}

// apiClient posts commands to MEGA's JSON API. Commands are sent as a
// single-element batch and the single reply is decoded into out. One
// session's client is shared across the transfer goroutines, so the
// sequence counter is atomic; sid is written once at login, before any
// concurrent use.
type apiClient struct {
	url  string
	http *http.Client
	sid  string
	seq  atomic.Uint64
}

func newAPIClient(apiURL string) *apiClient {
	return &apiClient{
		url: apiURL,
		http: &http.Client{
			Timeout: 90 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

func (c *apiClient) request(ctx context.Context, cmd any, out any) error {
	body, err := json.Marshal([]any{cmd})
	if err != nil {
		return fmt.Errorf("marshal request failed: %w", err)
	}

	q := url.Values{}
	q.Set("id", strconv.FormatUint(c.seq.Add(1), 10))
	if c.sid != "" {
		q.Set("sid", c.sid)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url+"?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mega request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mega returned status %d: %s", resp.StatusCode, string(raw))
	}

	// The reply is either a bare negative number (request-level error) or a
	// one-element array whose entry is a number or the payload object.
	raw = bytes.TrimSpace(raw)
	if code, ok := parseErrorCode(raw); ok {
		if code < 0 {
			return apiError(code)
		}
		return nil
	}

	var batch []json.RawMessage
	if err := json.Unmarshal(raw, &batch); err != nil {
		return fmt.Errorf("decode response failed: %w", err)
	}
	if len(batch) == 0 {
		return fmt.Errorf("empty mega response")
	}
	entry := bytes.TrimSpace(batch[0])
	if code, ok := parseErrorCode(entry); ok {
		if code < 0 {
			return apiError(code)
		}
		return nil
	}
	if out != nil {
		if err := json.Unmarshal(entry, out); err != nil {
			return fmt.Errorf("decode reply failed: %w", err)
		}
	}
	return nil
}

func parseErrorCode(raw []byte) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	if raw[0] != '-' && (raw[0] < '0' || raw[0] > '9') {
		return 0, false
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, false
	}
	return n, true
}

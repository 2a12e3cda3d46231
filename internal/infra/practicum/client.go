package practicum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// ErrServiceUnavailable wraps every transport-level failure of the homework
// API: network errors and non-200 responses. A malformed JSON body is a
// different kind of failure and is reported without this sentinel.
var ErrServiceUnavailable = errors.New("ошибка при запросе к основному API")

// Client fetches homework status updates from the Практикум API.
type Client struct {
	endpoint string
	token    string
	client   *http.Client
}

func NewClient(endpoint, token string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchUpdates requests every homework whose status changed since fromDate
// (seconds since epoch) and returns the decoded JSON body as-is. Shape
// validation is the caller's job. No retries here; the poll loop's fixed
// cadence is the retry policy.
func (c *Client) FetchUpdates(ctx context.Context, fromDate int64) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	req.Header.Set("Authorization", "OAuth "+c.token)

	query := req.URL.Query()
	query.Set("from_date", strconv.FormatInt(fromDate, 10))
	req.URL.RawQuery = query.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: адрес запроса %s - from_date=%d - код ответа: %d - тело ответа: %q",
			ErrServiceUnavailable, c.endpoint, fromDate, resp.StatusCode, string(body))
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode json: %w body=%q", err, string(body))
	}

	return decoded, nil
}

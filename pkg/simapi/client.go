package simapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"npv-risk-web/internal/models"
)

const (
	simulatePath = "/api/simulate"
	demoPath     = "/api/demo"

	defaultFailure = "Failed to run simulation"
)

// ErrTransport marks failures to reach the simulation service or read its reply
var ErrTransport = errors.New("simulation service unreachable")

// APIError is a non-success reply. Message is the service's error string.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Simulate posts the request to POST /api/simulate
func (c *Client) Simulate(ctx context.Context, req models.SimulationRequest) (*models.SimulationResult, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+simulatePath, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var result models.SimulationResult
	if err := c.do(httpReq, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Demo fetches the canned scenario from GET /api/demo
func (c *Client) Demo(ctx context.Context) (*models.SimulationRequest, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+demoPath, nil)
	if err != nil {
		return nil, err
	}

	var demo models.SimulationRequest
	if err := c.do(httpReq, &demo); err != nil {
		return nil, err
	}
	return &demo, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: invalid response: %v", ErrTransport, err)
	}
	return nil
}

func decodeError(status int, body []byte) error {
	var errResp models.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
		return &APIError{StatusCode: status, Message: defaultFailure}
	}
	return &APIError{StatusCode: status, Message: errResp.Error}
}

// Package simulator talks to a running simulator over its HTTP bridge. It
// is the transport behind the Simulator port; callers never see HTTP
// details, only wrapped errors.
package simulator

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

	"scenegen/internal/core/domain"
)

// DefaultTimeout bounds every bridge call.
const DefaultTimeout = 10 * time.Second

// Client is an HTTP client for the simulator bridge.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the bridge at baseURL. A non-positive
// timeout falls back to DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type spawnRequest struct {
	Name       string      `json:"name"`
	Descriptor string      `json:"descriptor"`
	Pose       domain.Pose `json:"pose"`
}

type forceRequest struct {
	Direction  domain.Point3 `json:"direction"`
	Magnitude  float64       `json:"magnitude"`
	DurationMS int64         `json:"duration_ms"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Spawn creates a model from a raw descriptor at the given pose.
func (c *Client) Spawn(ctx context.Context, name, descriptor string, pose domain.Pose) error {
	body := spawnRequest{Name: name, Descriptor: descriptor, Pose: pose}
	return c.postStatus(ctx, "/models", body)
}

// GetPose returns the model's current position.
func (c *Client) GetPose(ctx context.Context, name string) (domain.Point3, error) {
	var pose domain.Point3
	path := "/models/" + url.PathEscape(name) + "/pose"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return pose, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return pose, fmt.Errorf("bridge call failed: %w", err)
	}
	defer resp.Body.Close()
	if err := checkHTTPStatus(resp); err != nil {
		return pose, err
	}
	if err := json.NewDecoder(resp.Body).Decode(&pose); err != nil {
		return pose, fmt.Errorf("failed to decode pose: %w", err)
	}
	return pose, nil
}

// ApplyForce pushes a model along a unit direction for a fixed duration.
func (c *Client) ApplyForce(ctx context.Context, name string, direction domain.Point3, magnitude float64, duration time.Duration) error {
	body := forceRequest{
		Direction:  direction,
		Magnitude:  magnitude,
		DurationMS: duration.Milliseconds(),
	}
	return c.postStatus(ctx, "/models/"+url.PathEscape(name)+"/force", body)
}

// Delete removes a model by name.
func (c *Client) Delete(ctx context.Context, name string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/models/"+url.PathEscape(name), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("bridge call failed: %w", err)
	}
	defer resp.Body.Close()
	return checkHTTPStatus(resp)
}

// Ping checks that the bridge answers at all. Used by doctor.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("bridge unreachable: %w", err)
	}
	defer resp.Body.Close()
	return checkHTTPStatus(resp)
}

func (c *Client) postStatus(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("bridge call failed: %w", err)
	}
	defer resp.Body.Close()
	if err := checkHTTPStatus(resp); err != nil {
		return err
	}

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		// Bridges that answer with an empty body still count as success.
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !status.Success {
		return fmt.Errorf("bridge rejected request: %s", status.Message)
	}
	return nil
}

func checkHTTPStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	return fmt.Errorf("bridge returned %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
}

package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxImageBytes = 10 * 1024 * 1024

var ErrNotConfigured = errors.New("imagegen: generator url is not configured")

// Image is the raw generator output together with the declared content type.
type Image struct {
	Data        []byte
	ContentType string
}

// Generator turns a text prompt into image bytes.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Image, error)
}

// WorkerClient calls an HTTP worker that accepts {"prompt": "..."} with a
// bearer key and answers with the image body.
type WorkerClient struct {
	URL    string
	APIKey string
	Client *http.Client
}

var _ Generator = &WorkerClient{}

func NewWorkerClient(url, apiKey string) *WorkerClient {
	return &WorkerClient{
		URL:    url,
		APIKey: apiKey,
		Client: &http.Client{Timeout: 120 * time.Second},
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

func (c *WorkerClient) Generate(ctx context.Context, prompt string) (*Image, error) {
	if c.URL == "" {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	res, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image worker request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(body) > maxImageBytes {
		return nil, fmt.Errorf("image worker response exceeds %d bytes", maxImageBytes)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image worker error: status %d, body: %s", res.StatusCode, string(body))
	}

	return &Image{Data: body, ContentType: res.Header.Get("Content-Type")}, nil
}

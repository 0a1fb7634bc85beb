// Package classify calls the external image classification service used to
// suggest a grievance category from an evidence photo.
package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"complaint-service/models"

	"github.com/apex/log"
)

// ConfidenceThreshold is the confidence at or above which a caller may trust
// the label enough to auto-populate a category. Below it the label is
// informational only.
const ConfidenceThreshold = 0.6

// Client handles communication with the classification service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new classification client. The timeout bounds the
// whole request; classification failures are always non-fatal to callers.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Classify sends one image to the classification service and returns the
// predicted label and confidence. Connection failure, timeout and
// non-success responses are all returned as errors; callers treat any error
// as "classification unavailable".
func (c *Client) Classify(ctx context.Context, image []byte) (*models.Classification, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "complaint.jpg")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("failed to write image payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	url := fmt.Sprintf("%s/predict", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	log.Infof("Sending image to classification service: %s, image size: %d bytes", url, len(image))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to classification service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classification service returned status %d", resp.StatusCode)
	}

	var result models.Classification
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode classification response: %w", err)
	}

	log.Infof("Classification result: label=%s confidence=%.4f", result.Label, result.Confidence)

	return &result, nil
}

package origin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/originlabs/ipminter/internal/license"
	"github.com/originlabs/ipminter/internal/models"
)

// Client talks to the Origin minting API
type Client struct {
	BaseURL    string
	ClientID   string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a new Origin API client
func NewClient(baseURL, clientID, apiKey string) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		ClientID: clientID,
		APIKey:   apiKey,
		HTTPClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// Handle is an authenticated Origin session
type Handle struct {
	client *Client
	token  string
}

// ForToken returns a handle authenticated with an Origin JWT
func (c *Client) ForToken(token string) *Handle {
	return &Handle{client: c, token: token}
}

// MintFile mints file as an IP NFT and returns the raw response.
// The response shape is not guaranteed; callers must not assume any field.
func (h *Handle) MintFile(ctx context.Context, file *models.File, metadata models.UploadMetadata, terms license.Terms) (json.RawMessage, error) {
	c := h.client
	if c.BaseURL == "" {
		return nil, fmt.Errorf("ORIGIN_API_URL environment variable not set")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	contentType := file.Type
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("failed to write file part: %w", err)
	}

	if err := writeJSONField(writer, "metadata", metadata); err != nil {
		return nil, err
	}
	if err := writeJSONField(writer, "license", terms); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/ip/mint", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+h.token)
	if c.ClientID != "" {
		req.Header.Set("x-client-id", c.ClientID)
	}
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}

	slog.Debug("Sending mint request", "file", file.Name, "size", file.Size, "type", file.Type)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("origin API error: %d - %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if !json.Valid(respBody) {
		// keep plain-text responses (e.g. a bare tx hash) as a JSON string
		quoted, err := json.Marshal(strings.TrimSpace(string(respBody)))
		if err != nil {
			return nil, fmt.Errorf("failed to encode response: %w", err)
		}
		return quoted, nil
	}
	return json.RawMessage(respBody), nil
}

func writeJSONField(writer *multipart.Writer, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	if err := writer.WriteField(name, string(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

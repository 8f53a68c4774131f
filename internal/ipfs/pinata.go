package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/ipfs/go-cid"
	"github.com/originlabs/ipminter/internal/models"
)

// ConfigError reports a missing or invalid pinning-service setting
type ConfigError struct {
	Setting string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s is not configured", e.Setting)
}

// UploadError reports a failed or malformed pinning response
type UploadError struct {
	StatusCode int
	Body       string
	Reason     string
}

func (e *UploadError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("pinata upload failed: %s (status %d)", e.Reason, e.StatusCode)
	}
	return fmt.Sprintf("pinata API error: %d - %s", e.StatusCode, e.Body)
}

// Pin is a file pinned to IPFS
type Pin struct {
	CID string `json:"cid"`
	URL string `json:"url"`
}

// PinataUploader pins files through the Pinata HTTP API
type PinataUploader struct {
	JWT        string
	APIURL     string // e.g. https://api.pinata.cloud
	GatewayURL string // e.g. https://gateway.pinata.cloud/ipfs/
	HTTPClient *http.Client
}

// NewPinataUploader creates a new uploader
func NewPinataUploader(jwt, apiURL, gatewayURL string) *PinataUploader {
	return &PinataUploader{
		JWT:        strings.TrimSpace(jwt),
		APIURL:     strings.TrimRight(strings.TrimSpace(apiURL), "/"),
		GatewayURL: gatewayURL,
		HTTPClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// Upload pins the file and returns its CID and gateway URL.
// A single attempt is made; the caller decides whether to retry.
func (u *PinataUploader) Upload(ctx context.Context, file *models.File) (*Pin, error) {
	if u.JWT == "" {
		return nil, &ConfigError{Setting: "PINATA_JWT"}
	}
	if file == nil {
		return nil, fmt.Errorf("no file to upload")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	url := u.APIURL + "/pinning/pinFileToIPFS"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+u.JWT)

	resp, err := u.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UploadError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result struct {
		IpfsHash string `json:"IpfsHash"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &UploadError{StatusCode: resp.StatusCode, Body: string(respBody), Reason: "response is not JSON"}
	}
	if result.IpfsHash == "" {
		return nil, &UploadError{StatusCode: resp.StatusCode, Body: string(respBody), Reason: "Pinata did not return an IPFS hash"}
	}
	if _, err := cid.Decode(result.IpfsHash); err != nil {
		return nil, &UploadError{StatusCode: resp.StatusCode, Body: string(respBody), Reason: "invalid IPFS hash " + result.IpfsHash}
	}

	pin := &Pin{
		CID: result.IpfsHash,
		URL: GatewayURL(u.GatewayURL, result.IpfsHash),
	}
	slog.Info("File uploaded to IPFS", "cid", pin.CID, "url", pin.URL, "size", file.Size)
	return pin, nil
}

// GatewayURL builds the public URL of a pinned CID
func GatewayURL(gateway, contentID string) string {
	if !strings.HasSuffix(gateway, "/") {
		gateway += "/"
	}
	return gateway + contentID
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Image processing states reported by the social API.
const (
	imageStateAvailable = "AVAILABLE"
	imageStateFailed    = "FAILED"
	imageStateError     = "ERROR"
)

// HTTPError represents an HTTP error with status code
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// Permanent reports whether retrying the same request is pointless (4xx).
func (e *HTTPError) Permanent() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// LinkedInClient talks to the LinkedIn REST API. Each method performs a
// single request; retry and polling policy live in the Publisher.
type LinkedInClient struct {
	baseURL    string
	token      string
	apiVersion string
	client     *http.Client
}

// NewLinkedInClient creates a client from config. A nil http.Client gets a
// default with a per-request timeout.
func NewLinkedInClient(config *Config, client *http.Client) *LinkedInClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &LinkedInClient{
		baseURL:    config.Settings.LinkedIn.BaseURL,
		token:      config.LinkedInToken,
		apiVersion: config.Settings.LinkedIn.APIVersion,
		client:     client,
	}
}

func (c *LinkedInClient) restHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("LinkedIn-Version", c.apiVersion)
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
}

type userinfoResp struct {
	Sub string `json:"sub"`
}

// Whoami resolves the authenticated member id via the userinfo endpoint.
func (c *LinkedInClient) Whoami(ctx context.Context) (string, error) {
	endpoint := c.baseURL + "/v2/userinfo"
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &HTTPError{StatusCode: resp.StatusCode, URL: endpoint}
	}

	var data userinfoResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("decoding userinfo: %w", err)
	}
	if data.Sub == "" {
		return "", fmt.Errorf("userinfo response missing member id")
	}
	return data.Sub, nil
}

type initializeUploadReq struct {
	InitializeUploadRequest struct {
		Owner string `json:"owner"`
	} `json:"initializeUploadRequest"`
}

type initializeUploadValue struct {
	UploadURL string `json:"uploadUrl"`
	Image     string `json:"image"`
}

type initializeUploadResp struct {
	Value initializeUploadValue `json:"value"`
}

// InitializeUpload opens an image upload session for the given member and
// returns the upload target plus the opaque image URN.
func (c *LinkedInClient) InitializeUpload(ctx context.Context, memberID string) (uploadURL, imageURN string, err error) {
	endpoint := c.baseURL + "/rest/images?action=initializeUpload"

	var payload initializeUploadReq
	payload.InitializeUploadRequest.Owner = "urn:li:person:" + memberID
	body, err := json.Marshal(payload)
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	c.restHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("initialize upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", &HTTPError{StatusCode: resp.StatusCode, URL: endpoint}
	}

	var data initializeUploadResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", "", fmt.Errorf("decoding initialize upload response: %w", err)
	}
	if data.Value.UploadURL == "" || data.Value.Image == "" {
		return "", "", fmt.Errorf("initialize upload response incomplete")
	}
	return data.Value.UploadURL, data.Value.Image, nil
}

// UploadBytes PUTs raw image bytes to the upload target.
func (c *LinkedInClient) UploadBytes(ctx context.Context, uploadURL string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, "PUT", uploadURL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{StatusCode: resp.StatusCode, URL: uploadURL}
	}
	return nil
}

type imageStatusValue struct {
	Status          string `json:"status"`
	ProcessingState string `json:"processingState"`
}

type imageStatusResp struct {
	Value           imageStatusValue `json:"value"`
	Status          string           `json:"status"`
	ProcessingState string           `json:"processingState"`
}

// ImageStatus fetches the processing state of an uploaded image.
func (c *LinkedInClient) ImageStatus(ctx context.Context, imageURN string) (string, error) {
	endpoint := c.baseURL + "/rest/images/" + url.PathEscape(imageURN)
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return "", err
	}
	c.restHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image status request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &HTTPError{StatusCode: resp.StatusCode, URL: endpoint}
	}

	var data imageStatusResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("decoding image status: %w", err)
	}

	// The status field moved between envelope shapes across API versions.
	switch {
	case data.Value.Status != "":
		return data.Value.Status, nil
	case data.Value.ProcessingState != "":
		return data.Value.ProcessingState, nil
	case data.Status != "":
		return data.Status, nil
	default:
		return data.ProcessingState, nil
	}
}

type postMedia struct {
	Title string `json:"title"`
	ID    string `json:"id"`
}

type postContent struct {
	Media postMedia `json:"media"`
}

type createPostReq struct {
	Author                    string            `json:"author"`
	Commentary                string            `json:"commentary"`
	Visibility                string            `json:"visibility"`
	Distribution              map[string]string `json:"distribution"`
	LifecycleState            string            `json:"lifecycleState"`
	IsReshareDisabledByAuthor bool              `json:"isReshareDisabledByAuthor"`
	Content                   *postContent      `json:"content,omitempty"`
}

// CreatePost submits one post-creation request. imageURN may be empty for a
// text-only post. A non-201 response comes back as *HTTPError so the caller
// can distinguish permanent rejections from transient server failures.
func (c *LinkedInClient) CreatePost(ctx context.Context, memberID, text, imageURN string) error {
	endpoint := c.baseURL + "/rest/posts"

	payload := createPostReq{
		Author:                    "urn:li:person:" + memberID,
		Commentary:                text,
		Visibility:                "PUBLIC",
		Distribution:              map[string]string{"feedDistribution": "MAIN_FEED"},
		LifecycleState:            "PUBLISHED",
		IsReshareDisabledByAuthor: false,
	}
	if imageURN != "" {
		payload.Content = &postContent{Media: postMedia{Title: "Tech Insight", ID: imageURN}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.restHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return &HTTPError{StatusCode: resp.StatusCode, URL: endpoint}
	}
	return nil
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Service defines the Marquill backend surface the client implements.
// The composer and UI depend on this interface so tests can substitute fakes.
type Service interface {
	LinkedinAuthURL(ctx context.Context) (string, error)
	FetchPosts(ctx context.Context, query PostQuery) ([]Post, error)
	FetchPostMetrics(ctx context.Context, accountID string) (PostMetrics, error)
	CreateDraft(ctx context.Context, accountID string, req CreateDraftRequest) (CreatedDraft, error)
	FetchDraftStatus(ctx context.Context, draftID string) (DraftStatus, error)
	FetchPost(ctx context.Context, postID string) (Post, error)
	UpdatePostContent(ctx context.Context, postID, content string) (string, error)
	UploadPostImage(ctx context.Context, postID, filename, mimeType string, data io.Reader) (string, error)
	PublishPost(ctx context.Context, postID string) (string, error)
	SchedulePost(ctx context.Context, postID string, at time.Time) (string, error)
	ResolveLinkedinImage(ctx context.Context, urn string) (LinkedinImage, error)
	DownloadImage(ctx context.Context, rawURL string) ([]byte, string, error)
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the Marquill HTTP API. Session identity travels as the
// access_token cookie, mirroring what the web dashboard sends.
type Client struct {
	baseURL     *url.URL
	http        *http.Client
	userAgent   string
	accessToken string
}

const (
	defaultAPIBase   = "http://localhost:3500/api/v1"
	defaultUserAgent = "marquill/0.1"
	requestTimeout   = 15 * time.Second
)

// NewClient builds a Client for the given API base URL and session token.
func NewClient(apiBase, accessToken string) (*Client, error) {
	base, err := parseBaseURL(apiBase)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent:   defaultUserAgent,
		accessToken: accessToken,
	}, nil
}

// LinkedinAuthURL requests an OAuth authorization URL for connecting a
// LinkedIn account. The caller is responsible for opening it.
func (c *Client) LinkedinAuthURL(ctx context.Context) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	var payload authURLResponse
	err := c.do(ctx, http.MethodPost, &url.URL{Path: "/auth/linkedin"}, nil, &payload,
		"Unable to start account connection.")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(payload.Data) == "" {
		return "", fmt.Errorf("Unable to start account connection.")
	}
	return payload.Data, nil
}

// PostQuery configures /posts list requests.
type PostQuery struct {
	AccountID string
	Month     string // YYYY-MM
}

// FetchPosts retrieves the posts for a connected account.
func (c *Client) FetchPosts(ctx context.Context, query PostQuery) ([]Post, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	if id := strings.TrimSpace(query.AccountID); id != "" {
		values.Set("accountConnected", id)
	}
	if month := strings.TrimSpace(query.Month); month != "" {
		values.Set("month", month)
	}
	rel := &url.URL{Path: "/posts", RawQuery: values.Encode()}
	var payload postListResponse
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload, "Unable to load posts."); err != nil {
		return nil, err
	}
	// Entries without an ID cannot be edited or published; drop them.
	posts := make([]Post, 0, len(payload.Data))
	for _, post := range payload.Data {
		if strings.TrimSpace(post.ID) != "" {
			posts = append(posts, post)
		}
	}
	return posts, nil
}

// FetchPostMetrics retrieves total and per-month post counts for an account.
func (c *Client) FetchPostMetrics(ctx context.Context, accountID string) (PostMetrics, error) {
	if c == nil {
		return PostMetrics{}, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(accountID) == "" {
		return PostMetrics{}, fmt.Errorf("account id required")
	}
	rel := &url.URL{Path: "/posts/metrics/" + url.PathEscape(accountID)}
	var payload postMetricsResponse
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload, "Unable to load post metrics."); err != nil {
		return PostMetrics{}, err
	}
	return payload.Data, nil
}

// CreateDraft starts an asynchronous draft generation job and returns its ID.
func (c *Client) CreateDraft(ctx context.Context, accountID string, req CreateDraftRequest) (CreatedDraft, error) {
	if c == nil {
		return CreatedDraft{}, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(accountID) == "" {
		return CreatedDraft{}, fmt.Errorf("account id required")
	}
	rel := &url.URL{Path: "/posts/" + url.PathEscape(accountID) + "/draft"}
	var payload createDraftResponse
	if err := c.do(ctx, http.MethodPost, rel, req, &payload, "Unable to generate draft."); err != nil {
		return CreatedDraft{}, err
	}
	if strings.TrimSpace(payload.Data) == "" {
		return CreatedDraft{}, fmt.Errorf("Draft ID missing from response.")
	}
	message := payload.Message
	if message == "" {
		message = "Draft created successfully"
	}
	return CreatedDraft{DraftID: payload.Data, Message: message}, nil
}

// FetchDraftStatus polls the progress of a generation job.
func (c *Client) FetchDraftStatus(ctx context.Context, draftID string) (DraftStatus, error) {
	if c == nil {
		return DraftStatus{}, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: "/posts/" + url.PathEscape(draftID) + "/status"}
	var payload draftStatusResponse
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload, "Unable to retrieve draft status."); err != nil {
		return DraftStatus{}, err
	}
	return payload.Data, nil
}

// FetchPost retrieves a single post or finished draft by ID.
func (c *Client) FetchPost(ctx context.Context, postID string) (Post, error) {
	if c == nil {
		return Post{}, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: "/posts/" + url.PathEscape(postID)}
	var payload postDetailResponse
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload, "Unable to retrieve generated draft."); err != nil {
		return Post{}, err
	}
	return payload.Data, nil
}

// UpdatePostContent replaces the stored content of a post. Returns the
// confirmation message from the API.
func (c *Client) UpdatePostContent(ctx context.Context, postID, content string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: "/posts/" + url.PathEscape(postID)}
	body := struct {
		Content string `json:"content"`
	}{Content: content}
	var payload messageResponse
	if err := c.do(ctx, http.MethodPatch, rel, body, &payload, "Unable to update post content."); err != nil {
		return "", err
	}
	return payload.Message, nil
}

// UploadPostImage attaches an image to a post via multipart upload.
func (c *Client) UploadPostImage(ctx context.Context, postID, filename, mimeType string, data io.Reader) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}

	rel := &url.URL{Path: "/posts/" + url.PathEscape(postID) + "/image"}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.resolve(rel).String(), &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.setCommonHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var payload messageResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = json.Unmarshal(raw, &payload)
	if resp.StatusCode >= 400 {
		return "", newAPIError(resp.StatusCode, payload.Message, "Image upload failed.")
	}
	if payload.Message == "" {
		payload.Message = "Image upload successful."
	}
	return payload.Message, nil
}

// PublishPost publishes a post immediately.
func (c *Client) PublishPost(ctx context.Context, postID string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: "/posts/" + url.PathEscape(postID) + "/publish"}
	var payload messageResponse
	if err := c.do(ctx, http.MethodPost, rel, nil, &payload, "Unable to publish post."); err != nil {
		return "", err
	}
	if payload.Message == "" {
		payload.Message = "Post published successfully"
	}
	return payload.Message, nil
}

// SchedulePost schedules a post for the given time.
func (c *Client) SchedulePost(ctx context.Context, postID string, at time.Time) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: "/posts/" + url.PathEscape(postID) + "/schedule"}
	body := struct {
		ScheduledTime string `json:"scheduledTime"`
	}{ScheduledTime: at.UTC().Format(time.RFC3339)}
	var payload messageResponse
	if err := c.do(ctx, http.MethodPost, rel, body, &payload, "Unable to schedule post."); err != nil {
		return "", err
	}
	if payload.Message == "" {
		payload.Message = "Post scheduled successfully"
	}
	return payload.Message, nil
}

// ResolveLinkedinImage exchanges an opaque media URN for a time-limited
// download URL.
func (c *Client) ResolveLinkedinImage(ctx context.Context, urn string) (LinkedinImage, error) {
	if c == nil {
		return LinkedinImage{}, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: "/posts/linkedin/image/" + url.PathEscape(urn)}
	var payload linkedinImageResponse
	err := c.do(ctx, http.MethodGet, rel, nil, &payload, "Unable to retrieve LinkedIn image details.")
	if err != nil {
		return LinkedinImage{}, err
	}
	return payload.Data, nil
}

// DownloadImage fetches an arbitrary image URL (stock-photo selections) and
// returns the raw bytes with the detected MIME type.
func (c *Client) DownloadImage(ctx context.Context, rawURL string) ([]byte, string, error) {
	if c == nil {
		return nil, "", fmt.Errorf("client is nil")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 400 {
		return nil, "", fmt.Errorf("Unable to fetch selected image.")
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read image body: %w", err)
	}
	mimeType := resp.Header.Get("Content-Type")
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = mimeType[:idx]
	}
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return data, mimeType, nil
}

const maxErrorBody = 64 * 1024

// APIError carries the HTTP status and the backend's message, when one could
// be parsed from the JSON error body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

func newAPIError(status int, message, fallback string) error {
	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = fallback
	}
	return &APIError{StatusCode: status, Message: msg}
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, body, dest any, fallback string) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(rel).String(), reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setCommonHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var envelope messageResponse
		_ = json.Unmarshal(raw, &envelope)
		return newAPIError(resp.StatusCode, envelope.Message, fallback)
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// resolve joins a relative endpoint onto the configured base, preserving any
// path prefix in api_base (e.g. /api/v1).
func (c *Client) resolve(rel *url.URL) *url.URL {
	u := *c.baseURL
	u.Path = c.baseURL.Path + rel.Path
	u.RawQuery = rel.RawQuery
	return &u
}

func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.accessToken != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: c.accessToken})
	}
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", apiBase, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

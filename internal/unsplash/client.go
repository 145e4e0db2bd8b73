// Package unsplash searches stock photos through the Unsplash API for
// attaching to composed posts.
package unsplash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEndpoint = "https://api.unsplash.com"
	// DefaultQuery seeds the stock picker before the user types anything.
	DefaultQuery = "nature"
	// PageSize is the number of photos requested per search page.
	PageSize = 10

	requestTimeout = 15 * time.Second
)

// ErrMissingAccessKey means no Unsplash access key is configured; the stock
// picker cannot be offered without one.
var ErrMissingAccessKey = errors.New("Unsplash access key is missing.")

// Photo is one search result.
type Photo struct {
	ID             string `json:"id"`
	AltDescription string `json:"alt_description"`
	URLs           struct {
		Small   string `json:"small"`
		Regular string `json:"regular"`
	} `json:"urls"`
	User struct {
		Name  string `json:"name"`
		Links struct {
			HTML string `json:"html"`
		} `json:"links"`
	} `json:"user"`
}

// BestURL is the image to attach when the photo is picked: the regular
// rendition, falling back to the small one.
func (p Photo) BestURL() string {
	if p.URLs.Regular != "" {
		return p.URLs.Regular
	}
	return p.URLs.Small
}

// ThumbURL is the image for the picker grid.
func (p Photo) ThumbURL() string { return p.URLs.Small }

// CreatorURL is the photographer's profile link with the required referral
// parameters attached.
func (p Photo) CreatorURL() string {
	return WithReferral(p.User.Links.HTML)
}

// WithReferral appends the Unsplash attribution parameters to a link,
// defaulting to the Unsplash homepage when the link is absent.
func WithReferral(link string) string {
	if link == "" {
		return "https://unsplash.com"
	}
	sep := "?"
	if strings.Contains(link, "?") {
		sep = "&"
	}
	return link + sep + "utm_source=marquill&utm_medium=referral"
}

// Result is one page of search results. HasMore is inferred from the page
// being full, which avoids trusting the API's total counters.
type Result struct {
	Photos  []Photo
	HasMore bool
}

// Client searches the Unsplash photo API.
type Client struct {
	endpoint  string
	accessKey string
	http      *http.Client
}

// NewClient builds a search client. An empty access key is allowed at
// construction; Search reports ErrMissingAccessKey when used without one.
func NewClient(accessKey string) *Client {
	return &Client{
		endpoint:  defaultEndpoint,
		accessKey: strings.TrimSpace(accessKey),
		http:      &http.Client{Timeout: requestTimeout},
	}
}

// Configured reports whether an access key is available.
func (c *Client) Configured() bool { return c.accessKey != "" }

// Search fetches one page of photos matching query. A blank query falls back
// to DefaultQuery; pages start at 1. Duplicate photo IDs within the page are
// dropped.
func (c *Client) Search(ctx context.Context, query string, page int) (Result, error) {
	if c.accessKey == "" {
		return Result{}, ErrMissingAccessKey
	}
	query = strings.TrimSpace(query)
	if query == "" {
		query = DefaultQuery
	}
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(PageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("build unsplash request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("search unsplash: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Result{}, fmt.Errorf("search unsplash: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Results []Photo `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Result{}, fmt.Errorf("decode unsplash response: %w", err)
	}

	photos := Dedupe(payload.Results)
	return Result{Photos: photos, HasMore: len(photos) == PageSize}, nil
}

// Dedupe drops photos with blank or repeated IDs, keeping first occurrences
// in order. Used both within a page and when appending pages in the picker.
func Dedupe(photos []Photo) []Photo {
	seen := make(map[string]struct{}, len(photos))
	out := photos[:0:0]
	for _, p := range photos {
		if p.ID == "" {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

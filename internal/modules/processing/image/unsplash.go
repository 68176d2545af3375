package image

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"
)

const defaultUnsplashBaseURL = "https://api.unsplash.com"

// Photo is the subset of an Unsplash search hit the site uses.
type Photo struct {
	ID              string `json:"id"`
	URL             string `json:"url"`
	ThumbURL        string `json:"thumbUrl"`
	Description     string `json:"description"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographerUrl"`
	Link            string `json:"link"`
}

// UnsplashClient queries the Unsplash search API.
type UnsplashClient struct {
	baseURL   string
	accessKey string
	client    *http.Client
}

func NewUnsplashClient(accessKey, baseURL string) *UnsplashClient {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = defaultUnsplashBaseURL
	}
	return &UnsplashClient{
		baseURL:   base,
		accessKey: strings.TrimSpace(accessKey),
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Search returns the first landscape photo for query, or nil when there is
// no hit.
func (u *UnsplashClient) Search(ctx context.Context, query string) (*Photo, error) {
	params := neturl.Values{}
	params.Set("query", query)
	params.Set("per_page", "1")
	params.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.baseURL+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Client-ID "+u.accessKey)
	req.Header.Set("Accept-Version", "v1")
	req.Header.Set("Accept", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("unsplash search failed: %d %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Results []struct {
			ID             string `json:"id"`
			AltDescription string `json:"alt_description"`
			Description    string `json:"description"`
			URLs           struct {
				Regular string `json:"regular"`
				Small   string `json:"small"`
			} `json:"urls"`
			Links struct {
				HTML string `json:"html"`
			} `json:"links"`
			User struct {
				Name  string `json:"name"`
				Links struct {
					HTML string `json:"html"`
				} `json:"links"`
			} `json:"user"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 || payload.Results[0].URLs.Regular == "" {
		return nil, nil
	}

	hit := payload.Results[0]
	desc := hit.AltDescription
	if desc == "" {
		desc = hit.Description
	}
	return &Photo{
		ID:              hit.ID,
		URL:             hit.URLs.Regular,
		ThumbURL:        hit.URLs.Small,
		Description:     desc,
		Photographer:    hit.User.Name,
		PhotographerURL: hit.User.Links.HTML,
		Link:            hit.Links.HTML,
	}, nil
}

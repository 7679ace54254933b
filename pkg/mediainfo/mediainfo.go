// Package mediainfo looks up display metadata (title, author, thumbnail) for
// a media reference through the platform's public oEmbed endpoint.
package mediainfo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/togethertime/server/pkg/mediaurl"
)

var (
	ErrVideoNotFound       = errors.New("video not found")
	ErrVideoNotEmbeddable  = errors.New("video is not embeddable")
	ErrUnsupportedPlatform = errors.New("platform has no metadata source")
)

type VideoData struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailUrl string `json:"thumbnail_url"`
}

type Client struct {
	http             *http.Client
	youtubeOEmbedURL string
	youtubePageURL   string
	vimeoOEmbedURL   string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithBaseURLs overrides the upstream endpoints.
func WithBaseURLs(youtubeOEmbed, youtubePage, vimeoOEmbed string) Option {
	return func(c *Client) {
		c.youtubeOEmbedURL = youtubeOEmbed
		c.youtubePageURL = youtubePage
		c.vimeoOEmbedURL = vimeoOEmbed
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		http:             &http.Client{Timeout: 10 * time.Second},
		youtubeOEmbedURL: "https://www.youtube.com/oembed",
		youtubePageURL:   "https://youtu.be/",
		vimeoOEmbedURL:   "https://vimeo.com/api/oembed.json",
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Get(ctx context.Context, platform mediaurl.Platform, videoId string) (*VideoData, error) {
	switch platform {
	case mediaurl.YouTube:
		videoData, err := c.getOEmbed(ctx, c.youtubeOEmbedURL, "https://www.youtube.com/watch?v="+videoId)
		if err != nil {
			if !errors.Is(err, ErrVideoNotEmbeddable) {
				return nil, fmt.Errorf("failed to get video data with embed: %w", err)
			}

			videoData, err = c.getFromYouTubePage(ctx, videoId)
			if err != nil {
				return nil, fmt.Errorf("failed to get video data from page: %w", err)
			}
		}
		return videoData, nil
	case mediaurl.Vimeo:
		videoData, err := c.getOEmbed(ctx, c.vimeoOEmbedURL, "https://vimeo.com/"+videoId)
		if err != nil {
			return nil, fmt.Errorf("failed to get video data with embed: %w", err)
		}
		return videoData, nil
	default:
		return nil, ErrUnsupportedPlatform
	}
}

func (c *Client) getOEmbed(ctx context.Context, endpoint, videoURL string) (*VideoData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?format=json&url="+url.QueryEscape(videoURL), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusBadRequest, http.StatusNotFound:
			return nil, ErrVideoNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, ErrVideoNotEmbeddable
		default:
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
	}

	var result VideoData
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode oembed response: %w", err)
	}

	return &result, nil
}

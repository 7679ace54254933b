// Package mediaurl turns user supplied media references (bare ids or pasted
// links) into the canonical video id of a platform.
package mediaurl

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

type Platform string

const (
	YouTube Platform = "youtube"
	Vimeo   Platform = "vimeo"
	File    Platform = "file"
	URL     Platform = "url"
)

const maxReferenceLength = 2048

var (
	ErrInvalidURL      = errors.New("invalid media url")
	ErrUnknownPlatform = errors.New("unknown platform")
)

var (
	youtubeIdRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	vimeoIdRe   = regexp.MustCompile(`^[0-9]{1,12}$`)
)

func (p Platform) Valid() bool {
	switch p {
	case YouTube, Vimeo, File, URL:
		return true
	}
	return false
}

// Normalize returns the canonical video id for raw on platform.
func Normalize(platform Platform, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxReferenceLength {
		return "", ErrInvalidURL
	}

	switch platform {
	case YouTube:
		return youtubeId(raw)
	case Vimeo:
		return vimeoId(raw)
	case URL:
		return absoluteURL(raw)
	case File:
		if strings.ContainsAny(raw, "\x00\n\r") {
			return "", ErrInvalidURL
		}
		return raw, nil
	default:
		return "", ErrUnknownPlatform
	}
}

// Detect guesses the platform of a pasted link. Anything that is not a known
// video site but is an absolute http(s) url is URL.
func Detect(raw string) (Platform, error) {
	raw = strings.TrimSpace(raw)
	if youtubeIdRe.MatchString(raw) {
		return YouTube, nil
	}

	u, err := parseLink(raw)
	if err != nil {
		return "", ErrInvalidURL
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch {
	case host == "youtu.be" || host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		return YouTube, nil
	case host == "vimeo.com" || strings.HasSuffix(host, ".vimeo.com"):
		return Vimeo, nil
	}

	return URL, nil
}

func youtubeId(raw string) (string, error) {
	if youtubeIdRe.MatchString(raw) {
		return raw, nil
	}

	u, err := parseLink(raw)
	if err != nil {
		return "", ErrInvalidURL
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	var id string
	switch {
	case host == "youtu.be":
		id = firstSegment(u.Path)
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = firstSegment(strings.TrimPrefix(u.Path, "/embed"))
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = firstSegment(strings.TrimPrefix(u.Path, "/shorts"))
		case strings.HasPrefix(u.Path, "/live/"):
			id = firstSegment(strings.TrimPrefix(u.Path, "/live"))
		}
	}

	if !youtubeIdRe.MatchString(id) {
		return "", ErrInvalidURL
	}

	return id, nil
}

func vimeoId(raw string) (string, error) {
	if vimeoIdRe.MatchString(raw) {
		return raw, nil
	}

	u, err := parseLink(raw)
	if err != nil {
		return "", ErrInvalidURL
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host != "vimeo.com" && !strings.HasSuffix(host, ".vimeo.com") {
		return "", ErrInvalidURL
	}

	// vimeo.com/<id>, vimeo.com/channels/x/<id>, player.vimeo.com/video/<id>
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if vimeoIdRe.MatchString(segments[i]) {
			return segments[i], nil
		}
	}

	return "", ErrInvalidURL
}

func absoluteURL(raw string) (string, error) {
	u, err := parseLink(raw)
	if err != nil {
		return "", ErrInvalidURL
	}

	return u.String(), nil
}

func parseLink(raw string) (*url.URL, error) {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidURL
	}

	return u, nil
}

func firstSegment(path string) string {
	return strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)[0]
}

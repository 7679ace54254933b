package controller

import (
	"errors"
	"net/http"

	"github.com/togethertime/server/pkg/invite"
	"github.com/togethertime/server/pkg/mediainfo"
	"github.com/togethertime/server/pkg/mediaurl"
	"github.com/togethertime/server/pkg/rest"
)

func (c controller) healthz(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": rest.Envelope{
		"status": "ok",
		"rooms":  c.roomService.RoomsCount(),
	}})
}

type newRoomResponse struct {
	RoomId     string `json:"roomId"`
	InviteLink string `json:"inviteLink"`
	QRImageURL string `json:"qrImageUrl"`
}

func (c controller) newRoom(w http.ResponseWriter, r *http.Request) {
	roomId, err := c.roomIds.RoomId()
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to generate room id", "error", err)
		rest.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	link := invite.Link(c.origin(r), roomId)
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": newRoomResponse{
		RoomId:     roomId,
		InviteLink: link,
		QRImageURL: invite.QRImageURL(link),
	}})
}

// origin is the configured public url or, failing that, the origin the
// request was made to.
func (c controller) origin(r *http.Request) string {
	if c.publicURL != "" {
		return c.publicURL
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	return scheme + "://" + r.Host
}

type resolveMediaQuery struct {
	Platform mediaurl.Platform `json:"platform" validate:"omitempty,oneof=youtube vimeo file url"`
	URL      string            `json:"url" validate:"required,max=2048"`
}

func (c controller) resolveMedia(w http.ResponseWriter, r *http.Request) {
	query := resolveMediaQuery{
		Platform: mediaurl.Platform(r.URL.Query().Get("platform")),
		URL:      r.URL.Query().Get("url"),
	}

	if validationErrors, ok := c.validate.Validate(query); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	platform := query.Platform
	if platform == "" {
		detected, err := mediaurl.Detect(query.URL)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		platform = detected
	}

	videoId, err := mediaurl.Normalize(platform, query.URL)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": rest.Envelope{
		"platform": platform,
		"videoId":  videoId,
	}})
}

type mediaInfoQuery struct {
	Platform mediaurl.Platform `json:"platform" validate:"required,oneof=youtube vimeo file url"`
	VideoId  string            `json:"video-id" validate:"required,max=2048"`
}

func (c controller) getMediaInfo(w http.ResponseWriter, r *http.Request) {
	query := mediaInfoQuery{
		Platform: mediaurl.Platform(r.URL.Query().Get("platform")),
		VideoId:  r.URL.Query().Get("video-id"),
	}

	if validationErrors, ok := c.validate.Validate(query); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	videoId, err := mediaurl.Normalize(query.Platform, query.VideoId)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := c.mediaInfo.Get(r.Context(), query.Platform, videoId)
	switch {
	case err == nil:
		rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": data})
	case errors.Is(err, mediainfo.ErrVideoNotFound):
		rest.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, mediainfo.ErrUnsupportedPlatform):
		rest.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		c.logger.InfoContext(r.Context(), "failed to get media info", "error", err)
		rest.WriteError(w, http.StatusBadGateway, "failed to get media info")
	}
}

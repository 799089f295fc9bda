package controller

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vrtravel/server/internal/repository/catalog"
	"github.com/vrtravel/server/pkg/rest"
)

// roomListing is a catalog record augmented with live membership from the
// sync registry.
type roomListing struct {
	catalog.RoomRecord
	Participants int `json:"participants"`
}

func (c controller) getRooms(w http.ResponseWriter, r *http.Request) {
	records, err := c.catalogRepo.GetRooms(r.Context())
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to get rooms", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to list rooms"})
		return
	}

	listings := make([]roomListing, 0, len(records))
	for _, record := range records {
		listings = append(listings, roomListing{
			RoomRecord:   record,
			Participants: c.roomService.MemberCount(record.Id),
		})
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": listings})
}

type createRoomInput struct {
	Name            string `json:"name" validate:"required,max=64"`
	Description     string `json:"description" validate:"max=256"`
	VideoId         string `json:"videoId" validate:"required"`
	HostName        string `json:"hostName" validate:"max=64"`
	MaxParticipants int    `json:"maxParticipants" validate:"required,min=1,max=32"`
	IsPrivate       bool   `json:"isPrivate"`
	Password        string `json:"password" validate:"required_if=IsPrivate true,max=64"`
}

func (c controller) createRoom(w http.ResponseWriter, r *http.Request) {
	var input createRoomInput
	if err := rest.ReadJSON(r, &input); err != nil {
		c.logger.DebugContext(r.Context(), "failed to read create room body", "error", err)
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(input); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	if _, err := c.catalogRepo.GetVideo(r.Context(), input.VideoId); err != nil {
		if errors.Is(err, catalog.ErrVideoNotFound) {
			rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": "unknown video id"})
			return
		}
		c.logger.WarnContext(r.Context(), "failed to get video", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to create room"})
		return
	}

	record := catalog.RoomRecord{
		Id:              c.generator.GenerateRandomString(8),
		Name:            input.Name,
		Description:     input.Description,
		VideoId:         input.VideoId,
		HostName:        input.HostName,
		MaxParticipants: input.MaxParticipants,
		IsPrivate:       input.IsPrivate,
		Password:        input.Password,
		CreatedAt:       time.Now().UnixMilli(),
	}
	if err := c.catalogRepo.SetRoom(r.Context(), &record); err != nil {
		c.logger.WarnContext(r.Context(), "failed to set room record", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to create room"})
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.Envelope{"data": record})
}

func (c controller) getRoom(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")

	record, err := c.catalogRepo.GetRoom(r.Context(), roomId)
	if err != nil {
		if errors.Is(err, catalog.ErrRoomNotFound) {
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "room not found"})
			return
		}
		c.logger.WarnContext(r.Context(), "failed to get room", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to get room"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": roomListing{
		RoomRecord:   record,
		Participants: c.roomService.MemberCount(record.Id),
	}})
}

type joinRoomGateInput struct {
	Password string `json:"password" validate:"max=64"`
}

// joinRoomGate answers whether a caller may open a sync session for the
// room: capacity and private-room password are checked here, before any
// websocket is dialed.
func (c controller) joinRoomGate(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")

	record, err := c.catalogRepo.GetRoom(r.Context(), roomId)
	if err != nil {
		if errors.Is(err, catalog.ErrRoomNotFound) {
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"ok": false, "error": "room not found"})
			return
		}
		c.logger.WarnContext(r.Context(), "failed to get room", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"ok": false, "error": "failed to get room"})
		return
	}

	var input joinRoomGateInput
	if err := rest.ReadJSON(r, &input); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"ok": false, "error": err.Error()})
		return
	}

	if record.IsPrivate {
		if subtle.ConstantTimeCompare([]byte(record.Password), []byte(input.Password)) != 1 {
			rest.WriteJSON(w, http.StatusForbidden, rest.Envelope{"ok": false, "error": "wrong password"})
			return
		}
	}

	if record.MaxParticipants > 0 && c.roomService.MemberCount(roomId) >= record.MaxParticipants {
		rest.WriteJSON(w, http.StatusConflict, rest.Envelope{"ok": false, "error": "room is full"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"ok": true})
}

func (c controller) getVideos(w http.ResponseWriter, r *http.Request) {
	records, err := c.catalogRepo.GetVideos(r.Context())
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to get videos", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to list videos"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": records})
}

func (c controller) getVideo(w http.ResponseWriter, r *http.Request) {
	videoId := chi.URLParam(r, "video-id")

	record, err := c.catalogRepo.GetVideo(r.Context(), videoId)
	if err != nil {
		if errors.Is(err, catalog.ErrVideoNotFound) {
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "video not found"})
			return
		}
		c.logger.WarnContext(r.Context(), "failed to get video", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to get video"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": record})
}

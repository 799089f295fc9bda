// Package catalog defines the room/video record store consumed by the REST
// surface and the join gate. The sync core treats it as an external
// key-value lookup collaborator.
package catalog

import "errors"

var (
	ErrRoomNotFound  = errors.New("room record not found")
	ErrVideoNotFound = errors.New("video record not found")
	ErrRoomExists    = errors.New("room record already exists")
)

type RoomRecord struct {
	Id              string `json:"id" redis:"id"`
	Name            string `json:"name" redis:"name"`
	Description     string `json:"description" redis:"description"`
	VideoId         string `json:"videoId" redis:"video_id"`
	HostName        string `json:"hostName" redis:"host_name"`
	MaxParticipants int    `json:"maxParticipants" redis:"max_participants"`
	IsPrivate       bool   `json:"isPrivate" redis:"is_private"`
	Password        string `json:"-" redis:"password"`
	CreatedAt       int64  `json:"createdAt" redis:"created_at"`
}

type VideoRecord struct {
	Id          string `json:"id" redis:"id"`
	Title       string `json:"title" redis:"title"`
	Description string `json:"description" redis:"description"`
	Duration    string `json:"duration" redis:"duration"`
	Location    string `json:"location" redis:"location"`
	Thumbnail   string `json:"thumbnail" redis:"thumbnail"`
	Src         string `json:"src" redis:"src"`
	Views       int    `json:"views" redis:"views"`
	Likes       int    `json:"likes" redis:"likes"`
	CreatedAt   string `json:"createdAt" redis:"created_at"`
}

// Package protocol defines the wire messages exchanged between sync clients
// and the room session over a websocket connection. Every frame is a flat
// JSON object with a "type" discriminator; Decode returns the matching
// concrete message or ErrUnknownType so callers can log and drop bad frames
// without tearing down the connection.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

const (
	TypeJoinRoom    = "join-room"
	TypeRoomJoined  = "room-joined"
	TypeUserJoined  = "user-joined"
	TypeUserLeft    = "user-left"
	TypeHostChanged = "host-changed"
	TypeLeaveRoom   = "leave-room"
	TypeVideoSync   = "video-sync"
	TypeChatMessage = "chat-message"
)

const (
	ActionPlayPause = "play-pause"
	ActionSeek      = "seek"
)

var (
	ErrUnknownType = errors.New("unknown message type")
	ErrBadPayload  = errors.New("malformed payload")
)

// User carries the public identity fields of a participant. Avatar is an
// opaque reference passed through untouched.
type User struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Participant is a User plus the server-derived host flag.
type Participant struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	IsHost bool   `json:"isHost"`
}

// SyncState is the authoritative shared playback state of a room. It is
// overwritten wholesale by host intents and never extrapolated.
type SyncState struct {
	IsPlaying    bool    `json:"isPlaying"`
	CurrentTime  float64 `json:"currentTime"`
	Duration     float64 `json:"duration"`
	PlaybackRate float64 `json:"playbackRate"`
	LastUpdate   int64   `json:"lastUpdate"`
}

// DefaultSyncState is the state a freshly created room starts with.
func DefaultSyncState() SyncState {
	return SyncState{PlaybackRate: 1}
}

// Message is the closed set of wire messages. Only types in this package
// implement it.
type Message interface {
	MessageType() string
}

type JoinRoom struct {
	RoomId string `json:"roomId"`
	User   User   `json:"user"`
}

func (JoinRoom) MessageType() string { return TypeJoinRoom }

type RoomJoined struct {
	RoomId       string        `json:"roomId"`
	Participants []Participant `json:"participants"`
	VideoState   SyncState     `json:"videoState"`
	IsHost       bool          `json:"isHost"`
}

func (RoomJoined) MessageType() string { return TypeRoomJoined }

type UserJoined struct {
	User Participant `json:"user"`
}

func (UserJoined) MessageType() string { return TypeUserJoined }

type UserLeft struct {
	UserId string `json:"userId"`
}

func (UserLeft) MessageType() string { return TypeUserLeft }

// HostChanged is broadcast when a departing host is succeeded, so member
// UIs can flip host-gated controls without waiting for the next snapshot.
type HostChanged struct {
	HostId string `json:"hostId"`
}

func (HostChanged) MessageType() string { return TypeHostChanged }

type LeaveRoom struct {
	RoomId string `json:"roomId"`
	UserId string `json:"userId"`
}

func (LeaveRoom) MessageType() string { return TypeLeaveRoom }

// VideoSync carries a host playback intent. IsPlaying is a pointer because
// the seek action omits it on the wire.
type VideoSync struct {
	Action      string  `json:"action"`
	IsPlaying   *bool   `json:"isPlaying,omitempty"`
	CurrentTime float64 `json:"currentTime"`
	UserId      string  `json:"userId"`
	RoomId      string  `json:"roomId"`
}

func (VideoSync) MessageType() string { return TypeVideoSync }

type ChatMessage struct {
	Message   string `json:"message"`
	UserId    string `json:"userId"`
	UserName  string `json:"userName"`
	RoomId    string `json:"roomId"`
	Timestamp int64  `json:"timestamp"`
}

func (ChatMessage) MessageType() string { return TypeChatMessage }

// Decode parses a single wire frame into its concrete message.
func Decode(data []byte) (Message, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	var msg Message
	switch env.Type {
	case TypeJoinRoom:
		msg = &JoinRoom{}
	case TypeRoomJoined:
		msg = &RoomJoined{}
	case TypeUserJoined:
		msg = &UserJoined{}
	case TypeUserLeft:
		msg = &UserLeft{}
	case TypeHostChanged:
		msg = &HostChanged{}
	case TypeLeaveRoom:
		msg = &LeaveRoom{}
	case TypeVideoSync:
		msg = &VideoSync{}
	case TypeChatMessage:
		msg = &ChatMessage{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}

	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	return msg, nil
}

// Encode marshals a message and injects the "type" discriminator.
func Encode(m Message) ([]byte, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["type"] = json.RawMessage(strconv.Quote(m.MessageType()))

	return json.Marshal(fields)
}

package client

import "github.com/vrtravel/server/internal/protocol"

// State is the connection lifecycle of a SyncClient.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateOffline      State = "offline"
)

const (
	ChatKindUser   = "user"
	ChatKindSystem = "system"
)

// ChatMessage is a chat entry as surfaced to the consumer. System entries
// are generated locally and never travel over the wire.
type ChatMessage struct {
	Id         string
	AuthorId   string
	AuthorName string
	Body       string
	Timestamp  int64
	Kind       string
}

// Event is the closed set of notifications a SyncClient emits. Only types
// in this package implement it.
type Event interface {
	event()
}

type ConnectionChanged struct {
	State State
}

type RoomJoined struct {
	RoomId       string
	Participants []protocol.Participant
	VideoState   protocol.SyncState
	IsHost       bool
}

type UserJoined struct {
	User protocol.Participant
}

type UserLeft struct {
	UserId string
}

type HostChanged struct {
	HostId string
	IsHost bool
}

type SyncUpdated struct {
	State protocol.SyncState
}

type ChatReceived struct {
	Message ChatMessage
}

// WentOffline fires once when reconnection attempts are exhausted and the
// client falls back to a local single-member session.
type WentOffline struct{}

func (ConnectionChanged) event() {}
func (RoomJoined) event()        {}
func (UserJoined) event()        {}
func (UserLeft) event()          {}
func (HostChanged) event()       {}
func (SyncUpdated) event()       {}
func (ChatReceived) event()      {}
func (WentOffline) event()       {}

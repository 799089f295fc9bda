package controller

import (
	"context"
	"strconv"
	"time"

	"github.com/vrtravel/server/internal/protocol"
	"github.com/vrtravel/server/internal/service/room"
)

func (c controller) generateTimeBasedId() string {
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}

// broadcast encodes a message once and fans it out. Delivery is
// fire-and-forget: a peer whose send buffer is full is disconnected rather
// than allowed to stall the room.
func (c controller) broadcast(ctx context.Context, senders []room.Sender, msg protocol.Message) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}

	c.broadcastRaw(ctx, senders, data)

	return nil
}

func (c controller) broadcastRaw(ctx context.Context, senders []room.Sender, data []byte) {
	for _, sender := range senders {
		if !sender.Send(data) {
			c.logger.WarnContext(ctx, "dropping slow peer")
			sender.Close()
		}
	}
}

func (c controller) writeToSender(ctx context.Context, sender room.Sender, msg protocol.Message) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}

	if !sender.Send(data) {
		c.logger.WarnContext(ctx, "dropping slow peer")
		sender.Close()
	}

	return nil
}

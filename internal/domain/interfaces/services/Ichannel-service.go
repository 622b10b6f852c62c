package services

import (
	"context"

	"assistant-connector/internal/domain/dto"
)

// IChannelService routes one inbound message through the command
// router or the model/speech pipeline and sends the reply.
type IChannelService interface {
	HandleInbound(ctx context.Context, message dto.InboundMessage)
}

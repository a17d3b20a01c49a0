package mail

import (
	"context"

	"go.uber.org/zap"
)

// LogSender logs messages instead of sending them. Used for dry runs.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a dry-run sender
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

// Send implements Sender
func (s *LogSender) Send(ctx context.Context, msg *Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	names := make([]string, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		names = append(names, a.Filename)
	}
	s.logger.Info("dry run: email not sent",
		zap.String("to", msg.To),
		zap.Strings("bcc", msg.Bcc),
		zap.String("subject", msg.Subject),
		zap.Strings("attachments", names))
	return nil
}

// Ensure LogSender implements Sender
var _ Sender = (*LogSender)(nil)

package notify

import (
	"context"
	"log/slog"
)

// LogNotifier stands in for FCM when no Firebase project is configured, so
// local development works without device credentials.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(ctx context.Context, token string, msg Message) error {
	n.logger.Info("push notification (not delivered)",
		slog.String("type", string(msg.Type)),
		slog.String("priority", string(msg.Priority)),
		slog.String("token", token),
	)
	return nil
}

package notify

//go:generate mockgen -destination=mocks/notifier_mock.go -package=mocks mangiato/internal/notify Notifier

import (
	"context"

	"go.uber.org/zap"
)

// Notifier delivers the account confirmation link to a new user.
type Notifier interface {
	SendConfirmation(ctx context.Context, email, link string) error
}

// LogNotifier writes the link to the log instead of sending mail.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendConfirmation(_ context.Context, email, link string) error {
	n.log.Info("confirmation_mail",
		zap.String("to", email),
		zap.String("subject", "Please confirm your email"),
		zap.String("link", link),
	)
	return nil
}

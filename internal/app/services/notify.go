package services

import (
	"context"
	"time"

	"github.com/happyhourhq/happyhour-core/internal/infrastructures"
	"github.com/sirupsen/logrus"
)

// notifyAsync sends mail without blocking the caller. Delivery failures
// are logged and swallowed.
func notifyAsync(mailer infrastructures.Mailer, to, subject, body string) {
	if to == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := mailer.Send(ctx, to, subject, body); err != nil {
			logrus.Errorf("failed to send %q mail to %s: %v", subject, to, err)
		}
	}()
}

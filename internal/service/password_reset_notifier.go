package service

import (
	"context"
	"net/url"

	"baby-visit-scheduler/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

// PasswordResetNotifier delivers a reset link to a caregiver
type PasswordResetNotifier interface {
	SendPasswordReset(ctx context.Context, caregiver *entity.Caregiver, token string) error
}

// LogResetNotifier writes the reset link to the log. It stands in until a
// mail provider is configured.
type LogResetNotifier struct {
	log     *logrus.Logger
	linkURL string
}

func NewLogResetNotifier(log *logrus.Logger, linkURL string) *LogResetNotifier {
	return &LogResetNotifier{log: log, linkURL: linkURL}
}

func (n *LogResetNotifier) SendPasswordReset(ctx context.Context, caregiver *entity.Caregiver, token string) error {
	link, err := ResetLink(n.linkURL, token)
	if err != nil {
		return err
	}

	n.log.WithFields(logrus.Fields{
		"caregiver_id": caregiver.ID,
		"email":        caregiver.Email,
	}).Infof("Password reset link: %s", link)
	return nil
}

// ResetLink appends the token as a query parameter, keeping any existing ones
func ResetLink(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

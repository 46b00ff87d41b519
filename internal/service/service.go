// Package service holds the business rules of the job board. Every exported
// operation returns *apperr.Error values on failure.
package service

import (
	"context"
	"strings"
	"time"

	"accessibilityhire/internal/apperr"
	"accessibilityhire/internal/feed"
	"accessibilityhire/internal/model"
	"accessibilityhire/internal/session"
	"accessibilityhire/pkg/util"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// requireCaller returns the signed-in caller or auth/no-current-user
func requireCaller(ctx context.Context) (*session.Caller, error) {
	caller, ok := session.CallerFrom(ctx)
	if !ok {
		return nil, apperr.New(apperr.KindUnauthenticated, apperr.CodeNoCurrentUser, apperr.MsgNoCurrentUser)
	}
	return caller, nil
}

// parseID maps a malformed id to the not-found error of its resource
func parseID(id string, notFound *apperr.Error) (primitive.ObjectID, error) {
	oid, err := util.ParseObjectID(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, notFound
	}
	return oid, nil
}

// publish sends evt to the live feed. Failures are logged, never returned.
func publish(ctx context.Context, f feed.Feed, log *logrus.Entry, evt model.Event) {
	if f == nil {
		return
	}
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}
	if err := f.Publish(ctx, evt); err != nil {
		log.WithError(err).WithField("event", evt.Type).Warn("feed publish failed")
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

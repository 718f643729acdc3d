package main

import (
	"context"

	usertypes "github.com/goliatone/go-users/pkg/types"
	"go.uber.org/zap"
)

// logSink records activity through the logger.
type logSink struct {
	logger *zap.Logger
}

func (s logSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.logger.Debug("activity",
		zap.String("verb", record.Verb),
		zap.String("object_type", record.ObjectType),
		zap.String("object_id", record.ObjectID),
		zap.String("actor", record.ActorID.String()),
		zap.Time("occurred_at", record.OccurredAt),
		zap.Any("data", record.Data),
	)
	return nil
}

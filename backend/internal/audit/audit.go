// Package audit appends TreeChange records after successful mutations.
// Recording is fire-and-forget: a failed append is logged and swallowed,
// never propagated to the mutation that triggered it.
package audit

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kintree/backend/internal/model"
	"kintree/backend/internal/store"
	"kintree/backend/pkg/logger"
)

// Actor identifies who performed a mutation.
type Actor struct {
	ID   string
	Name string
}

// Recorder is what mutation services call after each successful write.
type Recorder interface {
	Record(ctx context.Context, actor Actor, treeID, action, entityType, entityID, details string)
}

// Log is the store-backed Recorder.
type Log struct {
	changes store.ChangeStore
	logger  *zap.Logger
	now     func() string
}

func NewLog(changes store.ChangeStore) *Log {
	return &Log{
		changes: changes,
		logger:  logger.Get(),
		now:     model.Now,
	}
}

func (l *Log) Record(ctx context.Context, actor Actor, treeID, action, entityType, entityID, details string) {
	change := model.TreeChange{
		ID:         uuid.NewString(),
		TreeID:     treeID,
		UserID:     actor.ID,
		UserName:   actor.Name,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		CreatedAt:  l.now(),
	}
	if err := l.changes.AppendChange(ctx, change); err != nil {
		l.logger.Warn("audit append failed",
			zap.String("tree_id", treeID),
			zap.String("action", action),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
	}
}

// List returns recent changes for a tree, newest first. The limit is clamped
// to [1,200].
func (l *Log) List(ctx context.Context, treeID string, limit, offset int) ([]model.TreeChange, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return l.changes.ListChanges(ctx, treeID, limit, offset)
}

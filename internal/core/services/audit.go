package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/eventdeskhq/eventdesk/internal/core/domain"
	"github.com/eventdeskhq/eventdesk/internal/core/ports"
)

// saveAudit records a security-relevant action. Audit writes are best-effort:
// a failure is logged and never propagates to the caller.
func saveAudit(ctx context.Context, repo ports.Repository, logger *slog.Logger, at time.Time, userID *int64, action, detail string) {
	entry := &domain.AuditEntry{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Detail:    detail,
		CreatedAt: at,
	}
	if err := repo.SaveAuditEntry(ctx, entry); err != nil && logger != nil {
		logger.Warn("audit write failed", "action", action, "error", err)
	}
}

package usecase

import (
	"context"

	"lume/internal/domain/model"
	repo "lume/internal/repository"
)

type AdminAuditUsecase struct {
	gate   *AdminGate
	audits repo.AuditLogRepository
}

func NewAdminAuditUsecase(gate *AdminGate, audits repo.AuditLogRepository) *AdminAuditUsecase {
	return &AdminAuditUsecase{gate: gate, audits: audits}
}

func (u *AdminAuditUsecase) List(ctx context.Context, actorID int64, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	if err := u.gate.Require(ctx, actorID); err != nil {
		return []model.AuditLog{}, err
	}
	logs, err := u.audits.List(ctx, f)
	if err != nil {
		return []model.AuditLog{}, dbError(ctx, "admin.audit_logs", err)
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}

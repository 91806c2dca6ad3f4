package service

import (
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/university-records/internal/repository"
	appErrors "github.com/noah-isme/university-records/pkg/errors"
)

// storeError maps repository sentinels onto typed application errors. Constraint
// violations are logged since they usually mean the caller raced another write
// or referenced a missing row.
func storeError(logger *zap.Logger, err error, subject, action string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return appErrors.Clone(appErrors.ErrNotFound, subject+" not found")
	case errors.Is(err, repository.ErrDuplicate):
		logger.Warn("constraint violation", zap.String("subject", subject), zap.String("action", action), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, subject+" already exists")
	case errors.Is(err, repository.ErrForeignKey):
		logger.Warn("constraint violation", zap.String("subject", subject), zap.String("action", action), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "referenced record does not exist")
	default:
		logger.Error("store failure", zap.String("subject", subject), zap.String("action", action), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to "+action+" "+subject)
	}
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func notFound(subject string) error {
	return appErrors.Clone(appErrors.ErrNotFound, subject+" not found")
}

package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/coverage-api/internal/models"
	appErrors "github.com/noah-isme/coverage-api/pkg/errors"
)

// txRunner executes fn inside a single transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(exec sqlx.ExtContext) error) error
}

// coverageRefresher is notified after anything that changes an absence's coverage.
type coverageRefresher interface {
	Refresh(ctx context.Context, schoolID, absenceID string)
}

func requireSchool(scope models.SchoolScope) (string, error) {
	schoolID, ok := scope.SchoolID()
	if !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, "school context is required")
	}
	return schoolID, nil
}

func notFoundOr(err error, notFound, internal string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internal)
}

func internalError(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func transitionError(current, next string) error {
	return appErrors.Clone(appErrors.ErrInvalidTransition, models.FormatTransitionError(current, next))
}

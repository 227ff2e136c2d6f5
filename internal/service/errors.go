// internal/service/errors.go
package service

import (
	"errors"
	"log/slog"

	"agape_study_api/internal/metrics"
	"agape_study_api/internal/model"
)

const transactionFailureMessage = "Erro ao processar solicitação."

// transactionFailure converts a store error raised inside a transaction into the
// generic client error. The cause is logged and kept in the chain.
func transactionFailure(logger *slog.Logger, operation string, err error) error {
	logger.Error("Transaction step failed, rolling back", "operation", operation, "error", err)
	return model.NewAppError("TRANSACTION_FAILED", transactionFailureMessage, "", errors.Join(model.ErrTransactionFailure, err))
}

// finishTransaction classifies the error returned by gorm's Transaction.
// AppErrors pass through; anything else (begin/commit failures) becomes a
// transaction failure. Store-level failures are counted.
func finishTransaction(logger *slog.Logger, operation string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *model.AppError
	if !errors.As(err, &appErr) {
		err = transactionFailure(logger, operation, err)
	}
	if errors.Is(err, model.ErrTransactionFailure) {
		metrics.RecordTransactionFailure(operation)
	}
	return err
}

func internalError(message string, err error) error {
	return model.NewAppError("INTERNAL_SERVER_ERROR", message, "", errors.Join(model.ErrInternalServer, err))
}

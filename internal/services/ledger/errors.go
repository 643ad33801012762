package ledger

import (
	"errors"

	apperrors "fxwallet/internal/errors"
	"fxwallet/internal/repositories"
)

// mapRepoError turns storage failures into domain errors. Domain errors pass through.
func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, repositories.ErrWalletNotFound):
		return apperrors.ErrWalletNotFound
	case errors.Is(err, repositories.ErrLockTimeout):
		return apperrors.ErrLockTimeout.Wrap(err)
	default:
		return apperrors.ErrInternal.Wrap(err)
	}
}

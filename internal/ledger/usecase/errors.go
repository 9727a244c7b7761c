package usecase

import (
	"errors"

	"github.com/shandysiswandi/gobank/internal/pkg/pkgerror"
)

var (
	errAccountNotFound  = pkgerror.NewBusiness("Account not found", pkgerror.CodeNotFound)
	errCustomerNotFound = pkgerror.NewBusiness("Invalid customer ID", pkgerror.CodeNotFound)
	errEitherNotFound   = pkgerror.NewBusiness("One or both accounts not found", pkgerror.CodeNotFound)
	errInsufficient     = pkgerror.NewBusiness("Insufficient balance", pkgerror.CodeInsufficientFunds)
	errNameLineBreak    = pkgerror.NewInvalidInput("Customer name must not contain line breaks")
)

func mapStoreErr(err error, notFound error) error {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return notFound
	}
	return normalizeErr(err)
}

func normalizeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	return pkgerror.NewServer(err)
}

// IsSaveFailure reports whether err only means the mutation could not be
// persisted; the operation itself took effect.
func IsSaveFailure(err error) bool {
	return pkgerror.CodeOf(err) == pkgerror.CodeUnavailable
}

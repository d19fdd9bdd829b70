package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every domain error wraps exactly one of these so callers
// can classify with errors.Is without matching on message text.
var (
	// ErrValidation covers structurally invalid input and
	// legal-but-rejected state transitions.
	ErrValidation = errors.New("validation error")

	// ErrAuthorization covers callers lacking permission for the
	// requested action.
	ErrAuthorization = errors.New("authorization error")

	// ErrNotFound covers references to ids that do not exist.
	ErrNotFound = errors.New("not found")
)

var (
	// ErrNoAvailableCopies is returned when a borrow is attempted against
	// a book whose inventory is exhausted, including the case where a
	// concurrent borrow took the last copy first.
	ErrNoAvailableCopies = fmt.Errorf("%w: no available copies to borrow", ErrValidation)

	// ErrAlreadyReturned is returned when a return is attempted on a
	// borrowing that is no longer active.
	ErrAlreadyReturned = fmt.Errorf("%w: borrowing already returned", ErrValidation)

	// ErrInvalidReturnDate is returned when expected_return_date is not
	// strictly after the borrow date.
	ErrInvalidReturnDate = fmt.Errorf("%w: expected return date must be after the borrow date", ErrValidation)

	// ErrNegativeInventory is returned when a catalog write would set a
	// negative inventory.
	ErrNegativeInventory = fmt.Errorf("%w: inventory must not be negative", ErrValidation)

	// ErrInvalidDailyFee is returned when the daily fee is negative or
	// does not fit numeric(8,2).
	ErrInvalidDailyFee = fmt.Errorf("%w: daily fee must be a non-negative amount with at most two decimal places", ErrValidation)

	// ErrInvalidCover is returned for cover values other than HARD or SOFT.
	ErrInvalidCover = fmt.Errorf("%w: cover must be HARD or SOFT", ErrValidation)

	// ErrEmailTaken is returned when registering with an email that
	// already has an account.
	ErrEmailTaken = fmt.Errorf("%w: email already registered", ErrValidation)

	// ErrNotOwner is returned when a caller who is neither the owner nor
	// an admin acts on someone else's borrowing.
	ErrNotOwner = fmt.Errorf("%w: caller may not act on this borrowing", ErrAuthorization)

	// ErrInvalidCredentials is returned on failed authentication.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrAuthorization)

	ErrBookNotFound      = fmt.Errorf("%w: book not found", ErrNotFound)
	ErrBorrowingNotFound = fmt.Errorf("%w: borrowing not found", ErrNotFound)
	ErrUserNotFound      = fmt.Errorf("%w: user not found", ErrNotFound)
)

package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"booklending/internal/models"
	"booklending/internal/repositories"
)

// Caller identifies the authenticated account a request acts on behalf of.
type Caller struct {
	ID      uuid.UUID
	IsAdmin bool
}

// TransactionRunner is the subset of *gorm.DB the services need to run an
// atomic unit. Kept as an interface so tests can substitute a fake runner.
type TransactionRunner interface {
	Transaction(fn func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// ─── Service Interface ────────────────────────────────────────────────────────

// BorrowingService drives the borrow/return lifecycle. A borrowing has two
// states: active and returned. Returned is terminal.
type BorrowingService interface {
	// Borrow takes one copy of the book off the shelf and opens a ledger
	// entry for the caller, atomically.
	Borrow(caller Caller, bookID uuid.UUID, expectedReturnDate time.Time) (*models.Borrowing, error)

	// Return closes an active borrowing owned by the caller (or any
	// borrowing, for admins) and puts the copy back, atomically.
	Return(caller Caller, borrowingID uuid.UUID) (*models.Borrowing, error)

	Get(caller Caller, borrowingID uuid.UUID) (*models.Borrowing, error)
	List(caller Caller, filter repositories.BorrowingFilter) ([]models.Borrowing, error)
}

// ─── Implementation ───────────────────────────────────────────────────────────

type borrowingService struct {
	db            TransactionRunner
	bookRepo      repositories.BookRepository
	borrowingRepo repositories.BorrowingRepository
	log           *zap.SugaredLogger
	now           func() time.Time
}

func NewBorrowingService(
	db TransactionRunner,
	bookRepo repositories.BookRepository,
	borrowingRepo repositories.BorrowingRepository,
	log *zap.Logger,
) BorrowingService {
	return &borrowingService{
		db:            db,
		bookRepo:      bookRepo,
		borrowingRepo: borrowingRepo,
		log:           log.Sugar(),
		now:           time.Now,
	}
}

// today returns the current UTC calendar date at midnight. Borrow and
// return dates are dates, not timestamps.
func (s *borrowingService) today() time.Time {
	n := s.now().UTC()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// ─── Borrow ───────────────────────────────────────────────────────────────────

// Borrow implements the transactional borrow flow.
//
// The availability check and the inventory decrement are one guarded
// UPDATE (inventory = inventory - 1 WHERE inventory > 0), so two
// concurrent borrows of the last copy cannot both succeed: the second
// matches no row and is rejected before anything is written.
func (s *borrowingService) Borrow(caller Caller, bookID uuid.UUID, expectedReturnDate time.Time) (*models.Borrowing, error) {
	borrowDate := s.today()
	if !expectedReturnDate.After(borrowDate) {
		return nil, ErrInvalidReturnDate
	}

	var created *models.Borrowing
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.bookRepo.GetByID(tx, bookID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		ok, err := s.bookRepo.DecrementInventory(tx, bookID)
		if err != nil {
			s.log.Errorw("borrow: inventory decrement failed", "book_id", bookID, "err", err)
			return err
		}
		if !ok {
			s.log.Infow("borrow rejected, no copies available", "book_id", bookID, "user_id", caller.ID)
			return ErrNoAvailableCopies
		}

		borrowing := &models.Borrowing{
			BorrowDate:         borrowDate,
			ExpectedReturnDate: expectedReturnDate,
			BookID:             bookID,
			UserID:             caller.ID,
			IsActive:           true,
		}
		if err := s.borrowingRepo.Create(tx, borrowing); err != nil {
			s.log.Errorw("borrow: ledger create failed", "book_id", bookID, "user_id", caller.ID, "err", err)
			return err
		}
		created = borrowing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("borrowing created",
		"borrowing_id", created.ID, "book_id", bookID, "user_id", caller.ID,
		"expected_return_date", expectedReturnDate.Format("2006-01-02"))

	// Reload with the book embedded so the caller observes the
	// post-decrement inventory.
	return s.borrowingRepo.GetByID(nil, created.ID)
}

// ─── Return ───────────────────────────────────────────────────────────────────

// Return implements the transactional return flow.
//
// Steps (all in one transaction):
//  1. Lock the borrowing row (FOR UPDATE).
//  2. Reject callers who are neither the owner nor an admin.
//  3. Guard against double-return.
//  4. Close the ledger entry and set actual_return_date.
//  5. Put the copy back on the shelf.
func (s *borrowingService) Return(caller Caller, borrowingID uuid.UUID) (*models.Borrowing, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		borrowing, err := s.borrowingRepo.GetByIDForUpdate(tx, borrowingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBorrowingNotFound
			}
			return err
		}

		if borrowing.UserID != caller.ID && !caller.IsAdmin {
			s.log.Warnw("return rejected, caller is not owner",
				"borrowing_id", borrowingID, "owner_id", borrowing.UserID, "caller_id", caller.ID)
			return ErrNotOwner
		}
		if !borrowing.IsActive {
			s.log.Warnw("return rejected, borrowing already returned", "borrowing_id", borrowingID)
			return ErrAlreadyReturned
		}

		returnedAt := s.today()
		if err := s.borrowingRepo.MarkReturned(tx, borrowing.ID, returnedAt); err != nil {
			s.log.Errorw("return: ledger update failed", "borrowing_id", borrowingID, "err", err)
			return err
		}
		if err := s.bookRepo.IncrementInventory(tx, borrowing.BookID); err != nil {
			s.log.Errorw("return: inventory increment failed", "book_id", borrowing.BookID, "err", err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("borrowing returned", "borrowing_id", borrowingID, "caller_id", caller.ID)
	return s.borrowingRepo.GetByID(nil, borrowingID)
}

// ─── Queries ──────────────────────────────────────────────────────────────────

// Get returns a single borrowing. Non-admins can only see their own;
// anyone else's id reads as not found rather than forbidden, so ids held
// by other users are not confirmed to exist.
func (s *borrowingService) Get(caller Caller, borrowingID uuid.UUID) (*models.Borrowing, error) {
	borrowing, err := s.borrowingRepo.GetByID(nil, borrowingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBorrowingNotFound
		}
		return nil, err
	}
	if borrowing.UserID != caller.ID && !caller.IsAdmin {
		return nil, ErrBorrowingNotFound
	}
	return borrowing, nil
}

// List returns borrowings in (borrow_date, expected_return_date) order.
// Non-admin callers are always scoped to their own records; any user_id
// filter they supply is ignored. Admins may filter by user_id.
func (s *borrowingService) List(caller Caller, filter repositories.BorrowingFilter) ([]models.Borrowing, error) {
	if !caller.IsAdmin {
		own := caller.ID
		filter.UserID = &own
	}
	return s.borrowingRepo.List(nil, filter)
}

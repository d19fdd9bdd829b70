package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"booklending/internal/models"
	"booklending/internal/repositories"
)

// maxDailyFee is the smallest amount that no longer fits numeric(8,2):
// eight digits total, two of them fractional.
var maxDailyFee = decimal.New(1, 6)

// BookInput carries the writable fields of a book. An empty cover
// defaults to HARD.
type BookInput struct {
	Title     string
	Author    string
	Cover     models.CoverType
	Inventory int
	DailyFee  decimal.Decimal
}

// BookService provides catalog CRUD. Write access is restricted to
// admins at the transport layer; the service enforces field validity,
// in particular that inventory never goes negative even on admin
// restocks.
type BookService interface {
	Create(input BookInput) (*models.Book, error)
	Update(bookID uuid.UUID, input BookInput) (*models.Book, error)
	Get(bookID uuid.UUID) (*models.Book, error)
	List() ([]models.Book, error)
	Delete(bookID uuid.UUID) error
}

type bookService struct {
	bookRepo repositories.BookRepository
	log      *zap.SugaredLogger
}

func NewBookService(bookRepo repositories.BookRepository, log *zap.Logger) BookService {
	return &bookService{bookRepo: bookRepo, log: log.Sugar()}
}

func (s *bookService) Create(input BookInput) (*models.Book, error) {
	book, err := bookFromInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.bookRepo.Create(nil, book); err != nil {
		s.log.Errorw("book create failed", "title", input.Title, "err", err)
		return nil, err
	}
	s.log.Infow("book created", "book_id", book.ID, "title", book.Title, "inventory", book.Inventory)
	return book, nil
}

func (s *bookService) Update(bookID uuid.UUID, input BookInput) (*models.Book, error) {
	existing, err := s.Get(bookID)
	if err != nil {
		return nil, err
	}
	updated, err := bookFromInput(input)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	if err := s.bookRepo.Update(nil, updated); err != nil {
		s.log.Errorw("book update failed", "book_id", bookID, "err", err)
		return nil, err
	}
	s.log.Infow("book updated", "book_id", bookID, "inventory", updated.Inventory)
	return updated, nil
}

func (s *bookService) Get(bookID uuid.UUID) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(nil, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

func (s *bookService) List() ([]models.Book, error) {
	return s.bookRepo.List(nil)
}

func (s *bookService) Delete(bookID uuid.UUID) error {
	if err := s.bookRepo.Delete(nil, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}
	s.log.Infow("book deleted", "book_id", bookID)
	return nil
}

func bookFromInput(input BookInput) (*models.Book, error) {
	cover := input.Cover
	if cover == "" {
		cover = models.CoverTypeHard
	}
	if cover != models.CoverTypeHard && cover != models.CoverTypeSoft {
		return nil, ErrInvalidCover
	}
	if input.Inventory < 0 {
		return nil, ErrNegativeInventory
	}
	if input.DailyFee.IsNegative() ||
		input.DailyFee.Exponent() < -2 ||
		input.DailyFee.GreaterThanOrEqual(maxDailyFee) {
		return nil, ErrInvalidDailyFee
	}
	return &models.Book{
		Title:     input.Title,
		Author:    input.Author,
		Cover:     cover,
		Inventory: input.Inventory,
		DailyFee:  input.DailyFee,
	}, nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CoverType string

const (
	CoverTypeHard CoverType = "HARD"
	CoverTypeSoft CoverType = "SOFT"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FirstName    string    `gorm:"size:255" json:"first_name"`
	LastName     string    `gorm:"size:255" json:"last_name"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`
}

type Book struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title     string          `gorm:"size:255;not null;index:idx_books_ordering,priority:1" json:"title"`
	Author    string          `gorm:"size:255;not null;index:idx_books_ordering,priority:2" json:"author"`
	Cover     CoverType       `gorm:"type:varchar(4);not null;default:'HARD'" json:"cover"`
	Inventory int             `gorm:"not null;check:inventory >= 0" json:"inventory"`
	DailyFee  decimal.Decimal `gorm:"type:numeric(8,2);not null" json:"daily_fee"`
}

type Borrowing struct {
	ID                 uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BorrowDate         time.Time  `gorm:"type:date;not null;index:idx_borrowings_ordering,priority:1" json:"borrow_date"`
	ExpectedReturnDate time.Time  `gorm:"type:date;not null;index:idx_borrowings_ordering,priority:2" json:"expected_return_date"`
	ActualReturnDate   *time.Time `gorm:"type:date" json:"actual_return_date"`
	BookID             uuid.UUID  `gorm:"type:uuid;not null;index" json:"book_id"`
	Book               Book       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID             uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User               User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	IsActive           bool       `gorm:"not null;default:true;index" json:"is_active"`
}

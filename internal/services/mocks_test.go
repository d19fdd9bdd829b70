package services_test

import (
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"booklending/internal/models"
	"booklending/internal/repositories"
)

// fakeTx runs the transaction body directly. The repo mocks apply every
// write immediately, which is fine here because the services only write
// after all precondition checks have passed.
type fakeTx struct{}

func (fakeTx) Transaction(fn func(tx *gorm.DB) error, _ ...*sql.TxOptions) error {
	return fn(nil)
}

type mockBookRepo struct {
	mu    sync.Mutex
	books map[uuid.UUID]*models.Book
}

func newMockBookRepo() *mockBookRepo {
	return &mockBookRepo{books: make(map[uuid.UUID]*models.Book)}
}

func (m *mockBookRepo) add(book models.Book) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	m.books[book.ID] = &book
	return book.ID
}

func (m *mockBookRepo) inventory(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.books[id].Inventory
}

func (m *mockBookRepo) Create(_ *gorm.DB, book *models.Book) error {
	book.ID = m.add(*book)
	return nil
}

func (m *mockBookRepo) List(_ *gorm.DB) ([]models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Book, 0, len(m.books))
	for _, b := range m.books {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].Author < out[j].Author
	})
	return out, nil
}

func (m *mockBookRepo) GetByID(_ *gorm.DB, id uuid.UUID) (*models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *mockBookRepo) Update(_ *gorm.DB, book *models.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[book.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *book
	m.books[book.ID] = &cp
	return nil
}

func (m *mockBookRepo) Delete(_ *gorm.DB, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.books, id)
	return nil
}

// DecrementInventory mirrors the guarded UPDATE: check and decrement
// happen under one lock, so concurrent calls serialize exactly like the
// single SQL statement does.
func (m *mockBookRepo) DecrementInventory(_ *gorm.DB, bookID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[bookID]
	if !ok || b.Inventory <= 0 {
		return false, nil
	}
	b.Inventory--
	return true, nil
}

func (m *mockBookRepo) IncrementInventory(_ *gorm.DB, bookID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[bookID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.Inventory++
	return nil
}

type mockBorrowingRepo struct {
	mu         sync.Mutex
	borrowings map[uuid.UUID]*models.Borrowing
	books      *mockBookRepo
}

func newMockBorrowingRepo(books *mockBookRepo) *mockBorrowingRepo {
	return &mockBorrowingRepo{
		borrowings: make(map[uuid.UUID]*models.Borrowing),
		books:      books,
	}
}

func (m *mockBorrowingRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.borrowings)
}

func (m *mockBorrowingRepo) activeCount(bookID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.borrowings {
		if b.BookID == bookID && b.IsActive {
			n++
		}
	}
	return n
}

func (m *mockBorrowingRepo) Create(_ *gorm.DB, borrowing *models.Borrowing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	borrowing.ID = uuid.New()
	cp := *borrowing
	m.borrowings[cp.ID] = &cp
	return nil
}

func (m *mockBorrowingRepo) GetByID(_ *gorm.DB, id uuid.UUID) (*models.Borrowing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.borrowings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	if book, err := m.books.GetByID(nil, cp.BookID); err == nil {
		cp.Book = *book
	}
	return &cp, nil
}

func (m *mockBorrowingRepo) GetByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*models.Borrowing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.borrowings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *mockBorrowingRepo) List(_ *gorm.DB, filter repositories.BorrowingFilter) ([]models.Borrowing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Borrowing
	for _, b := range m.borrowings {
		if filter.UserID != nil && b.UserID != *filter.UserID {
			continue
		}
		if filter.IsActive != nil && b.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].BorrowDate.Equal(out[j].BorrowDate) {
			return out[i].BorrowDate.Before(out[j].BorrowDate)
		}
		return out[i].ExpectedReturnDate.Before(out[j].ExpectedReturnDate)
	})
	return out, nil
}

func (m *mockBorrowingRepo) MarkReturned(_ *gorm.DB, borrowingID uuid.UUID, returnedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.borrowings[borrowingID]
	if !ok || !b.IsActive {
		return nil
	}
	b.IsActive = false
	t := returnedAt
	b.ActualReturnDate = &t
	return nil
}

type mockUserRepo struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*models.User
	createErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (m *mockUserRepo) Create(_ *gorm.DB, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = uuid.New()
	cp := *user
	m.users[cp.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ *gorm.DB, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByEmail(_ *gorm.DB, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ *gorm.DB, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

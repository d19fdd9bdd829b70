package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"booklending/internal/auth"
	"booklending/internal/models"
	"booklending/internal/repositories"
)

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// ProfileUpdate carries the fields a user may change on their own
// account. Nil fields are left untouched.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Password  *string
}

type UserService interface {
	Register(input RegisterInput) (*models.User, error)
	// Authenticate verifies email + password and returns the account.
	Authenticate(email, password string) (*models.User, error)
	Get(userID uuid.UUID) (*models.User, error)
	UpdateProfile(userID uuid.UUID, update ProfileUpdate) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
	log      *zap.SugaredLogger
}

func NewUserService(userRepo repositories.UserRepository, log *zap.Logger) UserService {
	return &userService{userRepo: userRepo, log: log.Sugar()}
}

func (s *userService) Register(input RegisterInput) (*models.User, error) {
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}
	if err := s.userRepo.Create(nil, user); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		s.log.Errorw("user create failed", "email", input.Email, "err", err)
		return nil, err
	}
	s.log.Infow("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func (s *userService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) Get(userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateProfile(userID uuid.UUID, update ProfileUpdate) (*models.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Password != nil {
		hash, err := auth.HashPassword(*update.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if err := s.userRepo.Update(nil, user); err != nil {
		s.log.Errorw("profile update failed", "user_id", userID, "err", err)
		return nil, err
	}
	s.log.Infow("profile updated", "user_id", userID)
	return user, nil
}

// isUniqueViolation checks for a PostgreSQL unique-constraint error
// (code 23505), which the users.email unique index raises on duplicate
// registration.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

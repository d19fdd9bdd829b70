package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"booklending/internal/models"
	"booklending/internal/services"
)

// Services bundles the application services the HTTP layer dispatches to.
type Services struct {
	Books      services.BookService
	Borrowings services.BorrowingService
	Users      services.UserService
}

// TokenConfig carries what the user endpoints need to issue tokens.
type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func RegisterRoutes(r *gin.Engine, svc Services, tokens TokenConfig) {
	registerCoverValidation()

	books := &BookHandler{svc: svc.Books}
	borrowings := &BorrowingHandler{svc: svc.Borrowings}
	users := &UserHandler{svc: svc.Users, tokens: tokens}

	r.Use(Authenticate(tokens.Secret))

	// Catalog reads are open to anonymous callers; writes are admin only.
	r.GET("/books", books.list)
	r.GET("/books/:id", books.get)
	r.POST("/books", RequireAdmin(), books.create)
	r.PUT("/books/:id", RequireAdmin(), books.update)
	r.DELETE("/books/:id", RequireAdmin(), books.delete)

	r.GET("/borrowings", RequireAuth(), borrowings.list)
	r.GET("/borrowings/:id", RequireAuth(), borrowings.get)
	r.POST("/borrowings", RequireAuth(), borrowings.create)
	r.POST("/borrowings/:id/return", RequireAuth(), borrowings.returnBorrowing)

	r.POST("/users/register", users.register)
	r.POST("/users/token", users.token)
	r.POST("/users/token/refresh", users.refreshToken)
	r.GET("/users/me", RequireAuth(), users.me)
	r.PUT("/users/me", RequireAuth(), users.updateMe)
}

// registerCoverValidation adds the "bookcover" binding rule used by the
// book request DTOs.
func registerCoverValidation() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("bookcover", func(fl validator.FieldLevel) bool {
		cover := models.CoverType(fl.Field().String())
		return cover == models.CoverTypeHard || cover == models.CoverTypeSoft
	})
}

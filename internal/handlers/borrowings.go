package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"booklending/internal/models"
	"booklending/internal/repositories"
	"booklending/internal/services"
)

const dateLayout = "2006-01-02"

type BorrowingHandler struct {
	svc services.BorrowingService
}

type createBorrowingRequest struct {
	Book               string `json:"book" binding:"required,uuid"`
	ExpectedReturnDate string `json:"expected_return_date" binding:"required,datetime=2006-01-02"`
}

// borrowingView is the output projection for borrowings. It embeds the
// full book record so the post-mutation inventory is observable in the
// response of every borrowing operation.
type borrowingView struct {
	ID                 uuid.UUID   `json:"id"`
	BorrowDate         string      `json:"borrow_date"`
	ExpectedReturnDate string      `json:"expected_return_date"`
	ActualReturnDate   *string     `json:"actual_return_date"`
	Book               models.Book `json:"book"`
	UserID             uuid.UUID   `json:"user_id"`
	IsActive           bool        `json:"is_active"`
}

func viewOf(b *models.Borrowing) borrowingView {
	v := borrowingView{
		ID:                 b.ID,
		BorrowDate:         b.BorrowDate.Format(dateLayout),
		ExpectedReturnDate: b.ExpectedReturnDate.Format(dateLayout),
		Book:               b.Book,
		UserID:             b.UserID,
		IsActive:           b.IsActive,
	}
	if b.ActualReturnDate != nil {
		s := b.ActualReturnDate.Format(dateLayout)
		v.ActualReturnDate = &s
	}
	return v
}

func viewsOf(borrowings []models.Borrowing) []borrowingView {
	views := make([]borrowingView, 0, len(borrowings))
	for i := range borrowings {
		views = append(views, viewOf(&borrowings[i]))
	}
	return views
}

func (h *BorrowingHandler) create(c *gin.Context) {
	caller, _ := CallerFrom(c)

	var req createBorrowingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	bookID, err := uuid.Parse(req.Book)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}
	expected, err := time.ParseInLocation(dateLayout, req.ExpectedReturnDate, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expected_return_date"})
		return
	}

	borrowing, err := h.svc.Borrow(caller, bookID, expected)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewOf(borrowing))
}

func (h *BorrowingHandler) returnBorrowing(c *gin.Context) {
	caller, _ := CallerFrom(c)

	borrowingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid borrowing id"})
		return
	}
	borrowing, err := h.svc.Return(caller, borrowingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(borrowing))
}

func (h *BorrowingHandler) get(c *gin.Context) {
	caller, _ := CallerFrom(c)

	borrowingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid borrowing id"})
		return
	}
	borrowing, err := h.svc.Get(caller, borrowingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(borrowing))
}

// list supports the optional user_id and is_active query filters.
// user_id only takes effect for admin callers; non-admins are scoped to
// their own borrowings regardless of what they pass.
func (h *BorrowingHandler) list(c *gin.Context) {
	caller, _ := CallerFrom(c)

	var filter repositories.BorrowingFilter
	if raw := c.Query("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id filter"})
			return
		}
		filter.UserID = &userID
	}
	if raw := c.Query("is_active"); raw != "" {
		isActive, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid is_active filter"})
			return
		}
		filter.IsActive = &isActive
	}

	borrowings, err := h.svc.List(caller, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewsOf(borrowings))
}

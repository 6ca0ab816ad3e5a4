package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/services"
)

type BorrowingRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
	BookID int64 `json:"book_id" binding:"required"`
}

type BorrowingsController struct {
	ledger services.BorrowingLedger
}

func NewBorrowingsController(ledger services.BorrowingLedger) *BorrowingsController {
	return &BorrowingsController{ledger: ledger}
}

func (bc *BorrowingsController) BorrowBook(c *gin.Context) {
	var req BorrowingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "user_id and book_id are required")
		return
	}

	id, err := bc.ledger.BorrowBook(c.Request.Context(), req.UserID, req.BookID)
	if err != nil {
		respondStorageError(c, err, "borrow book")
		return
	}
	respondCreated(c, id)
}

// ReturnBook closes the open borrowings for the pair. Returning a book that
// is not on loan succeeds with a zero count.
func (bc *BorrowingsController) ReturnBook(c *gin.Context) {
	var req BorrowingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "user_id and book_id are required")
		return
	}

	returned, err := bc.ledger.ReturnBook(c.Request.Context(), req.UserID, req.BookID)
	if err != nil {
		respondStorageError(c, err, "return book")
		return
	}
	c.JSON(http.StatusOK, gin.H{"returned": returned})
}

func (bc *BorrowingsController) GetBorrowedBooks(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	borrowings, err := bc.ledger.GetBorrowedBooks(c.Request.Context(), userID)
	if err != nil {
		respondStorageError(c, err, "get borrowed books")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"borrowings": borrowings, "count": len(borrowings)})
}

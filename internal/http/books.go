package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/services"
)

type AddBookRequest struct {
	Title  string `json:"title" binding:"required"`
	Author string `json:"author" binding:"required"`
	ISBN   string `json:"isbn" binding:"required"`
}

type BooksController struct {
	books services.BookCatalog
}

func NewBooksController(books services.BookCatalog) *BooksController {
	return &BooksController{
		books: books,
	}
}

func (controller *BooksController) AddBook(c *gin.Context) {
	var req AddBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title, author and isbn are required")
		return
	}

	id, err := controller.books.AddBook(c.Request.Context(), req.Title, req.Author, req.ISBN)
	if err != nil {
		respondStorageError(c, err, "add book")
		return
	}
	respondCreated(c, id)
}

// GetBooks lists the catalog, narrowed to title/author matches when q is given.
func (controller *BooksController) GetBooks(c *gin.Context) {
	var (
		books []entities.Book
		err   error
	)
	if term, ok := c.GetQuery("q"); ok {
		books, err = controller.books.SearchBooks(c.Request.Context(), term)
	} else {
		books, err = controller.books.GetAllBooks(c.Request.Context())
	}
	if err != nil {
		respondStorageError(c, err, "list books")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func (controller *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.books.GetBook(c.Request.Context(), id)
	if err != nil {
		respondStorageError(c, err, "get book")
		return
	}
	if book == nil {
		respondNotFound(c, "book")
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

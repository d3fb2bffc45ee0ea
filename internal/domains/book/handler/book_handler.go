package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"bookshelf-backend/internal/domains/book"
	"bookshelf-backend/internal/shared/middleware"
	"bookshelf-backend/internal/shared/response"
	"bookshelf-backend/pkg/logger"
)

// BookHandler exposes the catalog endpoints.
type BookHandler struct {
	service book.Service
}

func NewBookHandler(service book.Service) *BookHandler {
	return &BookHandler{service: service}
}

// CreateBook handles POST /books (authenticated)
func (h *BookHandler) CreateBook(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req book.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Location", "/api/v1/books/"+created.ID.String())
	response.Success(c, http.StatusCreated, created)
}

// ListOwnBooks handles GET /books (authenticated)
func (h *BookHandler) ListOwnBooks(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	books, err := h.service.ListOwn(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, books)
}

// ListAllBooks handles GET /books/all (public)
func (h *BookHandler) ListAllBooks(c *gin.Context) {
	books, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, books)
}

// GetBook handles GET /books/:id (public)
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// An unparseable id cannot name any book.
		response.NotFound(c, "Book not found")
		return
	}

	bw, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, bw)
}

// DeleteBook handles DELETE /books/:id (authenticated, owner only)
func (h *BookHandler) DeleteBook(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Book not found")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Book deleted successfully"})
}

func (h *BookHandler) handleError(c *gin.Context, err error) {
	var validationErrs validation.Errors

	switch {
	case errors.As(err, &validationErrs):
		response.ValidationFailed(c, validationErrs)
	case errors.Is(err, book.ErrBookNotFound):
		response.NotFound(c, "Book not found")
	default:
		logger.Error("book handler error", err)
		response.InternalServerError(c, "Something went wrong")
	}
}

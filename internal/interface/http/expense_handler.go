package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yogasw/expense-tracker-api/internal/application"
	"github.com/yogasw/expense-tracker-api/internal/domain/repository"
	"github.com/yogasw/expense-tracker-api/internal/interface/middleware"
	"github.com/yogasw/expense-tracker-api/pkg/response"
	"github.com/yogasw/expense-tracker-api/pkg/validation"
)

type ExpenseHandler struct {
	Svc    *application.ExpenseService
	Logger *logrus.Logger
}

func NewExpenseHandler(svc *application.ExpenseService, logger *logrus.Logger) *ExpenseHandler {
	return &ExpenseHandler{Svc: svc, Logger: logger}
}

// expenseRequest is shared by create and update: full-replacement
// semantics mean both require the same fields.
type expenseRequest struct {
	Title       string  `json:"title" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Category    string  `json:"category" binding:"required"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func (r *expenseRequest) toInput() (application.ExpenseInput, error) {
	in := application.ExpenseInput{
		Title:       r.Title,
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
	}
	if r.Date != "" {
		var parsed time.Time
		var err error
		for _, layout := range dateLayouts {
			if parsed, err = time.ParseInLocation(layout, r.Date, time.Local); err == nil {
				break
			}
		}
		if err != nil {
			return in, err
		}
		in.Date = &parsed
	}
	return in, nil
}

func (h *ExpenseHandler) List(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	expenses, err := h.Svc.List(c.Request.Context(), id.ID)
	if err != nil {
		h.Logger.WithError(err).WithField("owner_id", id.ID).Error("list expenses failed")
		response.Fail(c, http.StatusInternalServerError, "error fetching expenses", nil)
		return
	}
	response.List(c, expenses, len(expenses))
}

func (h *ExpenseHandler) Get(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	e, err := h.Svc.Get(c.Request.Context(), id.ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, "expense not found", nil)
			return
		}
		h.Logger.WithError(err).Error("get expense failed")
		response.Fail(c, http.StatusInternalServerError, "error fetching expense", nil)
		return
	}
	response.OK(c, http.StatusOK, e, "")
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "title, amount, and category are required", validation.ToDetails(err))
		return
	}
	in, err := req.toInput()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid date format", map[string]string{"date": "must be RFC3339 or YYYY-MM-DD"})
		return
	}

	e, err := h.Svc.Create(c.Request.Context(), id.ID, in)
	if err != nil {
		h.failMutation(c, err, "error creating expense")
		return
	}
	response.OK(c, http.StatusCreated, e, "expense created successfully")
}

func (h *ExpenseHandler) Update(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "title, amount, and category are required", validation.ToDetails(err))
		return
	}
	in, err := req.toInput()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid date format", map[string]string{"date": "must be RFC3339 or YYYY-MM-DD"})
		return
	}

	e, err := h.Svc.Update(c.Request.Context(), id.ID, c.Param("id"), in)
	if err != nil {
		h.failMutation(c, err, "error updating expense")
		return
	}
	response.OK(c, http.StatusOK, e, "expense updated successfully")
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	if err := h.Svc.Delete(c.Request.Context(), id.ID, c.Param("id")); err != nil {
		h.failMutation(c, err, "error deleting expense")
		return
	}
	response.OK(c, http.StatusOK, nil, "expense deleted successfully")
}

func (h *ExpenseHandler) Stats(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	sum, err := h.Svc.Stats(c.Request.Context(), id.ID,
		c.DefaultQuery("period", "all"), c.Query("month"), c.Query("category"))
	if err != nil {
		h.failMutation(c, err, "error fetching statistics")
		return
	}
	response.OK(c, http.StatusOK, sum, "")
}

func (h *ExpenseHandler) Search(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	q := c.Query("q")
	if q == "" {
		response.Fail(c, http.StatusBadRequest, "query parameter q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Svc.Search(c.Request.Context(), id.ID, q, size)
	if err != nil {
		h.Logger.WithError(err).Error("expense search failed")
		response.Fail(c, http.StatusInternalServerError, "error searching expenses", nil)
		return
	}
	response.List(c, hits, len(hits))
}

func (h *ExpenseHandler) UploadReceipt(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	fh, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "receipt file is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.Logger.WithError(err).Error("open receipt upload failed")
		response.Fail(c, http.StatusInternalServerError, "error uploading receipt", nil)
		return
	}
	defer func() { _ = f.Close() }()

	e, err := h.Svc.UploadReceipt(c.Request.Context(), id.ID, c.Param("id"),
		f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		h.failMutation(c, err, "error uploading receipt")
		return
	}
	response.OK(c, http.StatusOK, e, "receipt uploaded successfully")
}

// failMutation maps service errors to the API taxonomy: validation
// errors to 400, misses to 404, anything else logged and hidden behind
// a generic 500.
func (h *ExpenseHandler) failMutation(c *gin.Context, err error, generic string) {
	var ve *application.ValidationError
	if errors.As(err, &ve) {
		response.Fail(c, http.StatusBadRequest, ve.Message, nil)
		return
	}
	if errors.Is(err, repository.ErrNotFound) {
		response.Fail(c, http.StatusNotFound, "expense not found", nil)
		return
	}
	h.Logger.WithError(err).WithField("path", c.FullPath()).Error(generic)
	response.Fail(c, http.StatusInternalServerError, generic, nil)
}

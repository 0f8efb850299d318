package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/tillbook/internal/domain/models"
	"github.com/mamadbah2/tillbook/internal/service/sessions"
)

// SessionHandler serves sessions and everything booked against them: sales,
// expenses, quick expense templates and day records.
type SessionHandler struct {
	svc    *sessions.Service
	logger *zap.Logger
}

// NewSessionHandler constructs the session handler.
func NewSessionHandler(svc *sessions.Service, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{svc: svc, logger: orNop(logger)}
}

type startSessionRequest struct {
	Name string `json:"sessionName"`
}

type closeSessionRequest struct {
	CashRevenue *models.Decimal `json:"cashRevenue"`
	CardRevenue *models.Decimal `json:"cardRevenue"`
	ActualCash  *models.Decimal `json:"actualCash"`
	Notes       string          `json:"notes"`
}

type saleRequest struct {
	SessionID   string `json:"sessionId"`
	MenuItemID  string `json:"menuItemId"`
	Quantity    *int   `json:"amount"`
	PaymentType string `json:"paymentType"`
}

type expenseRequest struct {
	SessionID   string         `json:"sessionId"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Amount      models.Decimal `json:"amount"`
	Recurring   bool           `json:"isRecurring"`
}

type quickExpenseRequest struct {
	Name          string         `json:"name"`
	DefaultAmount models.Decimal `json:"defaultAmount"`
	Category      string         `json:"category"`
	Color         string         `json:"color"`
}

func (r quickExpenseRequest) input() sessions.QuickExpenseInput {
	return sessions.QuickExpenseInput{Name: r.Name, DefaultAmount: r.DefaultAmount, Category: r.Category, Color: r.Color}
}

type useQuickExpenseRequest struct {
	SessionID string `json:"sessionId"`
}

type startCashRequest struct {
	StartCash *models.Decimal `json:"startCash"`
}

type dayClosingRequest struct {
	StartCash  *models.Decimal `json:"startCash"`
	ActualCash *models.Decimal `json:"actualCash"`
}

// Start opens a new session and hands over the active one.
func (h *SessionHandler) Start(c *gin.Context) {
	var req startSessionRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, h.logger, &req) {
		return
	}
	session, err := h.svc.StartSession(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// Active returns today's active session.
func (h *SessionHandler) Active(c *gin.Context) {
	session, err := h.svc.ActiveSession(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Get returns one session.
func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.svc.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// List returns the sessions of ?date=.
func (h *SessionHandler) List(c *gin.Context) {
	list, err := h.svc.ListSessions(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Close reconciles a session.
func (h *SessionHandler) Close(c *gin.Context) {
	var req closeSessionRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	result, err := h.svc.CloseSession(c.Request.Context(), c.Param("id"), sessions.CloseRequest{
		CashRevenue: req.CashRevenue,
		CardRevenue: req.CardRevenue,
		ActualCash:  req.ActualCash,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteForDate wipes the sessions of ?date=.
func (h *SessionHandler) DeleteForDate(c *gin.Context) {
	deleted, err := h.svc.DeleteSessionsForDate(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// RecordSale rings up a sale.
func (h *SessionHandler) RecordSale(c *gin.Context) {
	var req saleRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	paymentType, err := models.ParsePaymentType(req.PaymentType)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	result, err := h.svc.RecordSale(c.Request.Context(), sessions.SaleRequest{
		SessionID:   req.SessionID,
		MenuItemID:  req.MenuItemID,
		Quantity:    quantity,
		PaymentType: paymentType,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ListSales returns the sales of ?sessionId=.
func (h *SessionHandler) ListSales(c *gin.Context) {
	sales, err := h.svc.ListSales(c.Request.Context(), c.Query("sessionId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

// VoidSale removes a sale.
func (h *SessionHandler) VoidSale(c *gin.Context) {
	session, err := h.svc.VoidSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// RecordExpense books an expense.
func (h *SessionHandler) RecordExpense(c *gin.Context) {
	var req expenseRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	expense, session, err := h.svc.RecordExpense(c.Request.Context(), sessions.ExpenseRequest{
		SessionID:   req.SessionID,
		Description: req.Description,
		Category:    req.Category,
		Amount:      req.Amount,
		Recurring:   req.Recurring,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"expense": expense, "session": session})
}

// ListExpenses returns the expenses of ?sessionId=.
func (h *SessionHandler) ListExpenses(c *gin.Context) {
	expenses, err := h.svc.ListExpenses(c.Request.Context(), c.Query("sessionId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// DeleteExpense removes an expense.
func (h *SessionHandler) DeleteExpense(c *gin.Context) {
	session, err := h.svc.DeleteExpense(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// ListQuickExpenses returns the expense templates.
func (h *SessionHandler) ListQuickExpenses(c *gin.Context) {
	list, err := h.svc.ListQuickExpenses(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateQuickExpense adds a template.
func (h *SessionHandler) CreateQuickExpense(c *gin.Context) {
	var req quickExpenseRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	qe, err := h.svc.CreateQuickExpense(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, qe)
}

// UpdateQuickExpense replaces a template.
func (h *SessionHandler) UpdateQuickExpense(c *gin.Context) {
	var req quickExpenseRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	qe, err := h.svc.UpdateQuickExpense(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, qe)
}

// ToggleQuickExpense flips a template on or off.
func (h *SessionHandler) ToggleQuickExpense(c *gin.Context) {
	qe, err := h.svc.ToggleQuickExpense(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, qe)
}

// UseQuickExpense books an expense from a template.
func (h *SessionHandler) UseQuickExpense(c *gin.Context) {
	var req useQuickExpenseRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, h.logger, &req) {
		return
	}
	expense, session, err := h.svc.RecordQuickExpense(c.Request.Context(), c.Param("id"), req.SessionID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"expense": expense, "session": session})
}

// DeleteQuickExpense removes a template.
func (h *SessionHandler) DeleteQuickExpense(c *gin.Context) {
	if err := h.svc.DeleteQuickExpense(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Day returns the day record of :date.
func (h *SessionHandler) Day(c *gin.Context) {
	record, err := h.svc.DayRecord(c.Request.Context(), c.Param("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// SetStartCash sets the opening balance of :date.
func (h *SessionHandler) SetStartCash(c *gin.Context) {
	var req startCashRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	if req.StartCash == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startCash is required"})
		return
	}
	record, err := h.svc.SetStartCash(c.Request.Context(), c.Param("date"), *req.StartCash)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// SaveClosing stores the end-of-day count of :date.
func (h *SessionHandler) SaveClosing(c *gin.Context) {
	var req dayClosingRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	record, err := h.svc.SaveDayClosing(c.Request.Context(), c.Param("date"), sessions.DayClosingRequest{
		StartCash:  req.StartCash,
		ActualCash: req.ActualCash,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

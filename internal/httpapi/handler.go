package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline-dev/ledgerline/internal/bridge"
	"github.com/ledgerline-dev/ledgerline/internal/coa"
	"github.com/ledgerline-dev/ledgerline/internal/journal"
	"github.com/ledgerline-dev/ledgerline/internal/model"
	"github.com/ledgerline-dev/ledgerline/internal/reports"
)

// Handler exposes the ledger engine over HTTP.
type Handler struct {
	registry *coa.Registry
	journal  *journal.Service
	bridge   *bridge.Service
	reports  *reports.Service
}

// NewHandler creates a Handler over the engine services.
func NewHandler(registry *coa.Registry, jrn *journal.Service, brg *bridge.Service, rpt *reports.Service) *Handler {
	return &Handler{registry: registry, journal: jrn, bridge: brg, reports: rpt}
}

// RegisterRoutes mounts all engine endpoints on an API group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/accounts", h.listAccounts)
	r.GET("/accounts/:code", h.getAccount)
	r.POST("/accounts", h.createAccount)

	r.GET("/journal/entries", h.listEntries)
	r.GET("/journal/entries/:ref", h.getEntry)
	r.POST("/journal/entries", h.createEntry)
	r.POST("/journal/entries/:ref/post", h.postEntry)
	r.POST("/journal/entries/:ref/void", h.voidEntry)

	r.POST("/invoices", h.createInvoice)
	r.GET("/invoices/:id", h.getInvoice)
	r.POST("/invoices/:id/post", h.postInvoice)
	r.POST("/invoices/:id/payments", h.payInvoice)

	r.POST("/bills", h.createBill)
	r.GET("/bills/:id", h.getBill)
	r.POST("/bills/:id/post", h.postBill)
	r.POST("/bills/:id/payments", h.payBill)

	r.GET("/reports/trial-balance", h.trialBalance)
	r.GET("/reports/balance-sheet", h.balanceSheet)
	r.GET("/reports/income-statement", h.incomeStatement)
	r.GET("/reports/cash-flow", h.cashFlow)
	r.GET("/reports/aged-receivables", h.agedReceivables)
	r.GET("/reports/aged-payables", h.agedPayables)
}

// httpStatus maps engine errors onto HTTP status codes. Out-of-balance
// report figures are data, not faults; only operation errors arrive here.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrAccountNotFound),
		errors.Is(err, model.ErrEntryNotFound),
		errors.Is(err, model.ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrDuplicateAccountCode),
		errors.Is(err, model.ErrDuplicateReference),
		errors.Is(err, model.ErrInvalidStateTransition),
		errors.Is(err, model.ErrAlreadyPosted),
		errors.Is(err, model.ErrAccountReferenced):
		return http.StatusConflict
	case errors.Is(err, model.ErrUnbalancedEntry),
		errors.Is(err, model.ErrInvalidLine),
		errors.Is(err, model.ErrInconsistentDocumentTotals):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(httpStatus(err), gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (h *Handler) listAccounts(c *gin.Context) {
	filter := coa.Filter{
		Type:    model.AccountType(c.Query("type")),
		SubType: c.Query("sub_type"),
	}
	accounts, err := h.registry.List(filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

func (h *Handler) getAccount(c *gin.Context) {
	account, err := h.registry.Get(c.Param("code"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *Handler) createAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	account := &model.Account{
		Code:    req.Code,
		Name:    req.Name,
		Type:    model.AccountType(req.Type),
		SubType: req.SubType,
	}
	if err := h.registry.Create(account); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *Handler) listEntries(c *gin.Context) {
	entries, err := h.journal.List(c.Request.Context(), model.EntryStatus(c.Query("status")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *Handler) getEntry(c *gin.Context) {
	entry, err := h.journal.Get(c.Request.Context(), c.Param("ref"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) createEntry(c *gin.Context) {
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	params, err := req.toParams()
	if err != nil {
		badRequest(c, err)
		return
	}
	entry, err := h.journal.CreateDraft(c.Request.Context(), params)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) postEntry(c *gin.Context) {
	entry, err := h.journal.Post(c.Request.Context(), c.Param("ref"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) voidEntry(c *gin.Context) {
	var req VoidEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	entry, err := h.journal.Void(c.Request.Context(), c.Param("ref"), req.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) createInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	invoice, err := req.toModel()
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := h.bridge.CreateInvoice(c.Request.Context(), invoice); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

func (h *Handler) getInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, err)
		return
	}
	invoice, err := h.bridge.GetInvoice(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *Handler) postInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, err)
		return
	}
	entry, err := h.bridge.PostInvoice(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) payInvoice(c *gin.Context) {
	id, amount, date, ok := h.paymentParams(c)
	if !ok {
		return
	}
	entry, err := h.bridge.PostInvoicePayment(c.Request.Context(), id, amount, date)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) createBill(c *gin.Context) {
	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	bill, err := req.toModel()
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := h.bridge.CreateBill(c.Request.Context(), bill); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, bill)
}

func (h *Handler) getBill(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, err)
		return
	}
	bill, err := h.bridge.GetBill(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (h *Handler) postBill(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, err)
		return
	}
	entry, err := h.bridge.PostBill(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) payBill(c *gin.Context) {
	id, amount, date, ok := h.paymentParams(c)
	if !ok {
		return
	}
	entry, err := h.bridge.PostBillPayment(c.Request.Context(), id, amount, date)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) paymentParams(c *gin.Context) (uuid.UUID, decimal.Decimal, time.Time, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, err)
		return uuid.Nil, decimal.Zero, time.Time{}, false
	}
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return uuid.Nil, decimal.Zero, time.Time{}, false
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		badRequest(c, err)
		return uuid.Nil, decimal.Zero, time.Time{}, false
	}
	date, err := time.Parse(dateFormat, req.Date)
	if err != nil {
		badRequest(c, err)
		return uuid.Nil, decimal.Zero, time.Time{}, false
	}
	return id, amount, date, true
}

// queryDate reads a "date" query parameter, defaulting to today.
func queryDate(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse(dateFormat, raw)
}

func (h *Handler) trialBalance(c *gin.Context) {
	date, err := queryDate(c, "date")
	if err != nil {
		badRequest(c, err)
		return
	}
	report, err := h.reports.TrialBalance(c.Request.Context(), date)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) balanceSheet(c *gin.Context) {
	date, err := queryDate(c, "date")
	if err != nil {
		badRequest(c, err)
		return
	}
	report, err := h.reports.BalanceSheet(c.Request.Context(), date)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) periodParams(c *gin.Context) (time.Time, time.Time, bool) {
	start, err := time.Parse(dateFormat, c.Query("start"))
	if err != nil {
		badRequest(c, err)
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(dateFormat, c.Query("end"))
	if err != nil {
		badRequest(c, err)
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (h *Handler) incomeStatement(c *gin.Context) {
	start, end, ok := h.periodParams(c)
	if !ok {
		return
	}
	report, err := h.reports.IncomeStatement(c.Request.Context(), start, end)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) cashFlow(c *gin.Context) {
	start, end, ok := h.periodParams(c)
	if !ok {
		return
	}
	report, err := h.reports.CashFlowStatement(c.Request.Context(), start, end)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) agedReceivables(c *gin.Context) {
	date, err := queryDate(c, "date")
	if err != nil {
		badRequest(c, err)
		return
	}
	report, err := h.reports.AgedReceivables(c.Request.Context(), date)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) agedPayables(c *gin.Context) {
	date, err := queryDate(c, "date")
	if err != nil {
		badRequest(c, err)
		return
	}
	report, err := h.reports.AgedPayables(c.Request.Context(), date)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

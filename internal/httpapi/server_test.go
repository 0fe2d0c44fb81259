package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ledgerline-dev/ledgerline/internal/bridge"
	"github.com/ledgerline-dev/ledgerline/internal/coa"
	"github.com/ledgerline-dev/ledgerline/internal/journal"
	"github.com/ledgerline-dev/ledgerline/internal/ledger"
	"github.com/ledgerline-dev/ledgerline/internal/reports"
	"github.com/ledgerline-dev/ledgerline/internal/storage"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := storage.OpenTest()
	require.NoError(t, err)

	registry := coa.NewRegistry(db)
	require.NoError(t, coa.Seed(registry))

	jrn := journal.NewService(db, registry)
	brg := bridge.NewService(db, registry, bridge.ControlAccounts{
		Receivable:    "1100",
		Payable:       "2000",
		Cash:          "1010",
		Revenue:       "4000",
		Expense:       "5300",
		TaxPayable:    "2100",
		TaxReceivable: "1400",
	})
	agg := ledger.NewAggregator(db, registry)
	rpt := reports.NewService(registry, agg, brg)

	handler := NewHandler(registry, jrn, brg, rpt)
	srv := NewServer(zap.NewNop(), "0", "test", handler)
	return srv.Engine()
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// assertAmount compares decimal values regardless of trailing zeros.
func assertAmount(t *testing.T, expected string, raw any) {
	t.Helper()
	s, ok := raw.(string)
	require.True(t, ok, "amount %v is not a string", raw)
	assert.True(t, decimal.RequireFromString(expected).Equal(decimal.RequireFromString(s)),
		"expected %s, got %s", expected, s)
}

func TestHealth(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "up", decode(t, w)["status"])
}

func TestAccounts_ListAndGet(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/accounts?type=asset&sub_type=cash", nil)
	require.Equal(t, http.StatusOK, w.Code)
	accounts := decode(t, w)["accounts"].([]any)
	require.Len(t, accounts, 2)

	w = doJSON(t, r, http.MethodGet, "/api/v1/accounts/1100", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Accounts Receivable", decode(t, w)["name"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/accounts/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAccounts_Create(t *testing.T) {
	r := newTestServer(t)

	body := map[string]string{
		"code": "1600", "name": "Vehicles", "type": "asset", "sub_type": "fixed_asset",
	}
	w := doJSON(t, r, http.MethodPost, "/api/v1/accounts", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/accounts", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	body["code"] = "1700"
	body["type"] = "imaginary"
	w = doJSON(t, r, http.MethodPost, "/api/v1/accounts", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func entryBody(lines ...map[string]string) map[string]any {
	return map[string]any{
		"date":        "2025-03-10",
		"description": "test entry",
		"lines":       lines,
	}
}

func TestJournal_Lifecycle(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/journal/entries", entryBody(
		map[string]string{"account_code": "1010", "debit": "500.00"},
		map[string]string{"account_code": "4000", "credit": "500.00"},
	))
	require.Equal(t, http.StatusCreated, w.Code)
	ref := decode(t, w)["reference"].(string)
	assert.Equal(t, "JE-2025-03-001", ref)

	w = doJSON(t, r, http.MethodPost, "/api/v1/journal/entries/"+ref+"/post", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "posted", decode(t, w)["status"])

	// second post is an illegal transition
	w = doJSON(t, r, http.MethodPost, "/api/v1/journal/entries/"+ref+"/post", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/journal/entries/"+ref+"/void",
		map[string]string{"reason": "entered twice"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "void", decode(t, w)["status"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/journal/entries?status=void", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["entries"].([]any), 1)
}

func TestJournal_Unbalanced(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/journal/entries", entryBody(
		map[string]string{"account_code": "1010", "debit": "500.00"},
		map[string]string{"account_code": "4000", "credit": "400.00"},
	))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestJournal_UnknownAccount(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/journal/entries", entryBody(
		map[string]string{"account_code": "9999", "debit": "500.00"},
		map[string]string{"account_code": "4000", "credit": "500.00"},
	))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJournal_VoidRequiresReason(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/journal/entries", entryBody(
		map[string]string{"account_code": "1010", "debit": "10.00"},
		map[string]string{"account_code": "4000", "credit": "10.00"},
	))
	require.Equal(t, http.StatusCreated, w.Code)
	ref := decode(t, w)["reference"].(string)

	w = doJSON(t, r, http.MethodPost, "/api/v1/journal/entries/"+ref+"/void",
		map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func invoiceBody(number string) map[string]any {
	return map[string]any{
		"number":        number,
		"customer_name": "Acme Ltd",
		"date":          "2025-03-01",
		"due_date":      "2025-03-31",
		"subtotal":      "100.00",
		"tax_amount":    "10.00",
		"total_amount":  "110.00",
	}
}

func TestInvoice_PostAndPay(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/invoices", invoiceBody("INV-2025-0001"))
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["id"].(string)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/invoices/%s/post", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "posted", decode(t, w)["status"])

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/invoices/%s/post", id), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/invoices/%s/payments", id),
		map[string]string{"amount": "110.00", "date": "2025-03-15"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/invoices/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "paid", body["status"])
	assertAmount(t, "110", body["paid_amount"])
}

func TestInvoice_InconsistentTotals(t *testing.T) {
	r := newTestServer(t)

	body := invoiceBody("INV-2025-0002")
	body["total_amount"] = "120.00"
	w := doJSON(t, r, http.MethodPost, "/api/v1/invoices", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestInvoice_OverpaymentRejected(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/invoices", invoiceBody("INV-2025-0003"))
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["id"].(string)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/invoices/%s/post", id), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/invoices/%s/payments", id),
		map[string]string{"amount": "200.00", "date": "2025-03-15"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestBill_PostAndPay(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/bills", map[string]any{
		"number":       "BILL-2025-0001",
		"vendor_name":  "Office Supply Co",
		"date":         "2025-03-05",
		"due_date":     "2025-04-04",
		"subtotal":     "80.00",
		"tax_amount":   "8.00",
		"total_amount": "88.00",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["id"].(string)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/bills/%s/post", id), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/bills/%s/payments", id),
		map[string]string{"amount": "40.00", "date": "2025-03-20"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/bills/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "partial", decode(t, w)["status"])
}

func seedPostedEntry(t *testing.T, r *gin.Engine) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/journal/entries", entryBody(
		map[string]string{"account_code": "1010", "debit": "1000.00"},
		map[string]string{"account_code": "3000", "credit": "1000.00"},
	))
	require.Equal(t, http.StatusCreated, w.Code)
	ref := decode(t, w)["reference"].(string)
	w = doJSON(t, r, http.MethodPost, "/api/v1/journal/entries/"+ref+"/post", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestReports_Endpoints(t *testing.T) {
	r := newTestServer(t)
	seedPostedEntry(t, r)

	w := doJSON(t, r, http.MethodGet, "/api/v1/reports/trial-balance?date=2025-03-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tb := decode(t, w)
	assertAmount(t, "1000", tb["total_debit"])
	assert.Equal(t, tb["total_debit"], tb["total_credit"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/reports/balance-sheet?date=2025-03-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	bs := decode(t, w)
	assertAmount(t, "1000", bs["total_assets"])

	w = doJSON(t, r, http.MethodGet,
		"/api/v1/reports/income-statement?start=2025-03-01&end=2025-03-31", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet,
		"/api/v1/reports/cash-flow?start=2025-03-01&end=2025-03-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cf := decode(t, w)
	assertAmount(t, "1000", cf["net_change_in_cash"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/reports/aged-receivables?date=2025-03-31", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/reports/aged-payables?date=2025-03-31", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// income statement without a period is a bad request
	w = doJSON(t, r, http.MethodGet, "/api/v1/reports/income-statement", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

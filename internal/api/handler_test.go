package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centsible/centsible-server/internal/importer"
	"github.com/centsible/centsible-server/internal/models"
)

// memStore is the minimal in-memory importer.Store for handler tests.
type memStore struct {
	expenses []models.Transaction
	incomes  []models.Transaction
	payments []models.Payment
}

func (s *memStore) FindExisting(_ context.Context, _ string, date time.Time, amount decimal.Decimal, description string) (bool, error) {
	for _, t := range append(append([]models.Transaction{}, s.expenses...), s.incomes...) {
		if t.Date.Equal(date) && t.Amount.Equal(amount) && t.Description == description {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) InsertExpense(_ context.Context, _ string, txn models.Transaction) error {
	s.expenses = append(s.expenses, txn)
	return nil
}

func (s *memStore) InsertIncome(_ context.Context, _ string, txn models.Transaction) error {
	s.incomes = append(s.incomes, txn)
	return nil
}

func (s *memStore) InsertPayment(_ context.Context, _ string, p models.Payment) error {
	s.payments = append(s.payments, p)
	return nil
}

func (s *memStore) ListActiveObligations(context.Context, string) ([]models.Obligation, error) {
	return nil, nil
}

func (s *memStore) ListPaymentsForMonths(context.Context, string, []string) ([]models.Payment, error) {
	return nil, nil
}

func setupTestApp(store importer.Store) *fiber.App {
	log := logrus.New()
	log.SetOutput(io.Discard)
	h := &Handler{
		Coordinator: importer.New(store, nil, nil, nil, log),
		Log:         log,
	}
	app := fiber.New()
	h.Register(app)
	return app
}

func multipartUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestHealthEndpoint(t *testing.T) {
	app := setupTestApp(&memStore{})

	req := httptest.NewRequest("GET", "/api/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "ok", result["status"])
}

func TestPreviewRequiresOwner(t *testing.T) {
	app := setupTestApp(&memStore{})

	body, contentType := multipartUpload(t, "statement.csv", "Date,Description,Amount\n")
	req := httptest.NewRequest("POST", "/api/statement/preview", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var envelope map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, false, envelope["success"])
	assert.Contains(t, envelope["error"], "X-Owner-ID")
}

func TestPreviewRequiresFile(t *testing.T) {
	app := setupTestApp(&memStore{})

	req := httptest.NewRequest("POST", "/api/statement/preview", nil)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=----test")
	req.Header.Set("X-Owner-ID", "user-1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPreviewCSV(t *testing.T) {
	app := setupTestApp(&memStore{})

	statement := "Date,Description,Amount\n" +
		"05-01-2024,CHECKERS SEA POINT,-850.50\n" +
		"25-01-2024,SALARY PAYMENT,25000.00\n"
	body, contentType := multipartUpload(t, "statement.csv", statement)

	req := httptest.NewRequest("POST", "/api/statement/preview", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Owner-ID", "user-1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Success bool `json:"success"`
		Preview struct {
			Bank         models.BankType      `json:"bank"`
			Transactions []models.Transaction `json:"transactions"`
		} `json:"preview"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, models.BankGeneric, envelope.Preview.Bank)
	require.Len(t, envelope.Preview.Transactions, 2)
	assert.Equal(t, models.CategoryGroceries, envelope.Preview.Transactions[0].Category)
	assert.Equal(t, models.TypeCredit, envelope.Preview.Transactions[1].Type)
}

func TestPreviewEmptyFile(t *testing.T) {
	app := setupTestApp(&memStore{})

	body, contentType := multipartUpload(t, "statement.csv", "")
	req := httptest.NewRequest("POST", "/api/statement/preview", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Owner-ID", "user-1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPreviewPDFWithoutOracle(t *testing.T) {
	app := setupTestApp(&memStore{})

	body, contentType := multipartUpload(t, "statement.pdf", "%PDF-1.4 fake")
	req := httptest.NewRequest("POST", "/api/statement/preview", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Owner-ID", "user-1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotImplemented, resp.StatusCode)
}

func TestPreviewUnsupportedFileType(t *testing.T) {
	app := setupTestApp(&memStore{})

	body, contentType := multipartUpload(t, "statement.zip", "PK\x03\x04")
	req := httptest.NewRequest("POST", "/api/statement/preview", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Owner-ID", "user-1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestImportPersistsSelection(t *testing.T) {
	store := &memStore{}
	app := setupTestApp(store)

	payload := `{"transactions":[
		{"date":"2024-01-05T00:00:00Z","description":"CHECKERS SEA POINT","amount":"850.50","type":"debit","category":"GROCERIES"}
	]}`
	req := httptest.NewRequest("POST", "/api/statement/import", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Owner-ID", "user-1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Success bool                `json:"success"`
		Result  models.ImportResult `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, 1, envelope.Result.Imported)
	assert.Len(t, store.expenses, 1)
}

func TestImportNothingSelected(t *testing.T) {
	app := setupTestApp(&memStore{})

	req := httptest.NewRequest("POST", "/api/statement/import", strings.NewReader(`{"transactions":[],"matches":[]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Owner-ID", "user-1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestExportCSV(t *testing.T) {
	app := setupTestApp(&memStore{})

	payload := `{"transactions":[
		{"date":"2024-01-05T00:00:00Z","description":"CHECKERS SEA POINT","amount":"850.50","type":"debit","category":"GROCERIES"}
	],"includeSummary":true}`
	req := httptest.NewRequest("POST", "/api/statement/csv", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "transactions.csv")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := string(body)
	assert.Contains(t, out, "Date,Description,Type,Amount,Balance,Reference,Category")
	assert.Contains(t, out, "CHECKERS SEA POINT")
	assert.Contains(t, out, "# Total Debits")
}

package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ellie2222222/jewelry-workshop-api/config"
	"github.com/ellie2222222/jewelry-workshop-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPaidTransaction(t *testing.T, requestID uint, txType string, amount float64) models.Transaction {
	t.Helper()
	now := time.Now()
	transaction := models.Transaction{
		RequestID:        requestID,
		Type:             txType,
		AmountPaid:       amount,
		Method:           "gateway",
		PaymentReference: fmt.Sprintf("ref-%d-%s", requestID, txType),
		Paid:             true,
		PaidAt:           &now,
	}
	require.NoError(t, config.GetDB().Create(&transaction).Error)
	return transaction
}

func TestCreateInvoice_AdvancesRequestStatus(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	customer := createTestUser(t, db, "Customer", "customer@example.com", models.RoleCustomer)
	staff := createTestUser(t, db, "Sales", "sales@example.com", models.RoleSaleStaff)

	tests := []struct {
		name          string
		requestStatus string
		txType        string
		nextStatus    string
	}{
		{"Design deposit invoice moves request to design", models.RequestStatusDeposit, "deposit_design", models.RequestStatusDesign},
		{"Production deposit invoice moves request to production", models.RequestStatusDesign, "deposit_production", models.RequestStatusProduction},
		{"Final invoice moves request to warranty", models.RequestStatusPayment, "final", models.RequestStatusWarranty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := createTestRequest(t, db, customer.ID, tt.requestStatus, floatPtr(1000))
			transaction := seedPaidTransaction(t, request.ID, tt.txType, 200)

			router := setupTestRouter()
			router.POST("/invoices", mockAuthMiddleware(staff.ID, staff.Role), CreateInvoice)

			w := doJSON(router, http.MethodPost, "/invoices", map[string]interface{}{
				"transaction_id": transaction.ID,
			})
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

			var reloaded models.Request
			require.NoError(t, db.First(&reloaded, request.ID).Error)
			assert.Equal(t, tt.nextStatus, reloaded.RequestStatus)

			// Exactly one history entry for the advanced status
			var count int64
			db.Model(&models.RequestStatusLog{}).
				Where("request_id = ? AND status = ?", request.ID, tt.nextStatus).
				Count(&count)
			assert.Equal(t, int64(1), count)
		})
	}
}

func TestCreateInvoice_DuplicateIsConflict(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	customer := createTestUser(t, db, "Customer", "customer@example.com", models.RoleCustomer)
	staff := createTestUser(t, db, "Sales", "sales@example.com", models.RoleSaleStaff)
	request := createTestRequest(t, db, customer.ID, models.RequestStatusDesign, floatPtr(1000))
	transaction := seedPaidTransaction(t, request.ID, "deposit_production", 300)

	router := setupTestRouter()
	router.POST("/invoices", mockAuthMiddleware(staff.ID, staff.Role), CreateInvoice)

	body := map[string]interface{}{"transaction_id": transaction.ID}

	w := doJSON(router, http.MethodPost, "/invoices", body)
	require.Equal(t, http.StatusCreated, w.Code)

	// Second invoice for the same transaction: 409, nothing created or mutated
	w = doJSON(router, http.MethodPost, "/invoices", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "INVOICE_EXISTS", errorData["code"])

	var invoiceCount int64
	db.Model(&models.Invoice{}).Count(&invoiceCount)
	assert.Equal(t, int64(1), invoiceCount)

	// The request advanced exactly once, with a single history entry
	var reloaded models.Request
	require.NoError(t, db.First(&reloaded, request.ID).Error)
	assert.Equal(t, models.RequestStatusProduction, reloaded.RequestStatus)

	var historyCount int64
	db.Model(&models.RequestStatusLog{}).
		Where("request_id = ? AND status = ?", request.ID, models.RequestStatusProduction).
		Count(&historyCount)
	assert.Equal(t, int64(1), historyCount)
}

func TestCreateInvoice_NumbersDeriveFromRowID(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	customer := createTestUser(t, db, "Customer", "customer@example.com", models.RoleCustomer)
	staff := createTestUser(t, db, "Sales", "sales@example.com", models.RoleSaleStaff)

	router := setupTestRouter()
	router.POST("/invoices", mockAuthMiddleware(staff.ID, staff.Role), CreateInvoice)

	// Two requests billed back to back must never share a number, even
	// when their invoices are issued concurrently.
	numbers := map[string]bool{}
	for i := 0; i < 2; i++ {
		request := createTestRequest(t, db, customer.ID, models.RequestStatusDeposit, floatPtr(1000))
		transaction := seedPaidTransaction(t, request.ID, "deposit_design", 200)

		w := doJSON(router, http.MethodPost, "/invoices", map[string]interface{}{
			"transaction_id": transaction.ID,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var invoice models.Invoice
		require.NoError(t, db.Where("transaction_id = ?", transaction.ID).First(&invoice).Error)
		assert.Equal(t, invoiceNumber(invoice.ID), invoice.Number)
		assert.Regexp(t, `^INV-\d{4}-\d{5}$`, invoice.Number)
		assert.False(t, numbers[invoice.Number], "Invoice numbers must be unique")
		numbers[invoice.Number] = true
	}
}

func TestCreateInvoice_UnpaidTransaction(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	customer := createTestUser(t, db, "Customer", "customer@example.com", models.RoleCustomer)
	staff := createTestUser(t, db, "Sales", "sales@example.com", models.RoleSaleStaff)
	request := createTestRequest(t, db, customer.ID, models.RequestStatusDeposit, floatPtr(1000))

	transaction := models.Transaction{
		RequestID:        request.ID,
		Type:             "deposit_design",
		AmountPaid:       200,
		Method:           "gateway",
		PaymentReference: "ref-unpaid",
	}
	require.NoError(t, db.Create(&transaction).Error)

	router := setupTestRouter()
	router.POST("/invoices", mockAuthMiddleware(staff.ID, staff.Role), CreateInvoice)

	w := doJSON(router, http.MethodPost, "/invoices", map[string]interface{}{
		"transaction_id": transaction.ID,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	var reloaded models.Request
	require.NoError(t, db.First(&reloaded, request.ID).Error)
	assert.Equal(t, models.RequestStatusDeposit, reloaded.RequestStatus, "Unpaid transactions never advance the request")
}

func TestCreateInvoice_FinalOpensWarranty(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	customer := createTestUser(t, db, "Customer", "customer@example.com", models.RoleCustomer)
	staff := createTestUser(t, db, "Sales", "sales@example.com", models.RoleSaleStaff)
	request := createTestRequest(t, db, customer.ID, models.RequestStatusPayment, floatPtr(1000))
	transaction := seedPaidTransaction(t, request.ID, "final", 500)

	router := setupTestRouter()
	router.POST("/invoices", mockAuthMiddleware(staff.ID, staff.Role), CreateInvoice)

	w := doJSON(router, http.MethodPost, "/invoices", map[string]interface{}{
		"transaction_id": transaction.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var warranty models.Warranty
	require.NoError(t, db.Where("request_id = ?", request.ID).First(&warranty).Error)
	assert.True(t, warranty.EndDate.After(warranty.StartDate))

	var reloaded models.Request
	require.NoError(t, db.First(&reloaded, request.ID).Error)
	require.NotNil(t, reloaded.WarrantyStartDate)
	require.NotNil(t, reloaded.WarrantyEndDate)
}

func TestGetInvoicePDF(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	customer := createTestUser(t, db, "Customer", "customer@example.com", models.RoleCustomer)
	staff := createTestUser(t, db, "Sales", "sales@example.com", models.RoleSaleStaff)
	request := createTestRequest(t, db, customer.ID, models.RequestStatusDeposit, floatPtr(1000))
	transaction := seedPaidTransaction(t, request.ID, "deposit_design", 200)

	invoice := models.Invoice{
		Number:        "INV-2026-00001",
		TransactionID: transaction.ID,
		Type:          transaction.Type,
		TotalAmount:   transaction.AmountPaid,
		PaymentMethod: "gateway",
	}
	require.NoError(t, db.Create(&invoice).Error)

	router := setupTestRouter()
	router.GET("/invoices/:id/pdf", mockAuthMiddleware(staff.ID, staff.Role), GetInvoicePDF)

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/invoices/%d/pdf", invoice.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, w.Body.Len() > 500, "PDF output should not be empty")
	assert.Equal(t, "%PDF", w.Body.String()[:4], "Response should be a PDF document")
}

package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ellie2222222/jewelry-workshop-api/config"
	"github.com/ellie2222222/jewelry-workshop-api/models"
	"github.com/ellie2222222/jewelry-workshop-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postWebhook(router http.Handler, body []byte, signature string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(WebhookSignatureHeader, signature)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandlePaymentWebhook(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	gateway := services.NewMockPaymentGateway()
	gateway.SetAsMockForTesting()
	gateway.SetWebhookKey("webhook-test-key")

	customer := createTestUser(t, db, "Customer", "customer@example.com", models.RoleCustomer)
	request := createTestRequest(t, db, customer.ID, models.RequestStatusDeposit, floatPtr(1000))

	transaction := models.Transaction{
		RequestID:        request.ID,
		Type:             "deposit_design",
		AmountPaid:       200,
		Method:           "gateway",
		PaymentReference: "ref-webhook-1",
	}
	require.NoError(t, db.Create(&transaction).Error)

	router := setupTestRouter()
	router.POST("/payments/webhook", HandlePaymentWebhook)

	// Bad signature is rejected and nothing changes
	body, _ := json.Marshal(map[string]interface{}{
		"reference_id": "ref-webhook-1",
		"status":       "PAID",
	})
	w := postWebhook(router, body, "deadbeef")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var reloaded models.Transaction
	require.NoError(t, db.First(&reloaded, transaction.ID).Error)
	assert.False(t, reloaded.Paid)

	// Valid signature marks the transaction paid
	w = postWebhook(router, body, gateway.Sign(body))
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.First(&reloaded, transaction.ID).Error)
	assert.True(t, reloaded.Paid)
	assert.NotNil(t, reloaded.PaidAt)

	// A late FAILED never regresses a settled transaction
	body, _ = json.Marshal(map[string]interface{}{
		"reference_id": "ref-webhook-1",
		"status":       "FAILED",
	})
	w = postWebhook(router, body, gateway.Sign(body))
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.First(&reloaded, transaction.ID).Error)
	assert.True(t, reloaded.Paid)
	assert.NotNil(t, reloaded.PaidAt)

	// FAILED on a transaction that never settled stays unpaid
	unpaid := models.Transaction{
		RequestID:        request.ID,
		Type:             "deposit_production",
		AmountPaid:       300,
		Method:           "gateway",
		PaymentReference: "ref-webhook-2",
	}
	require.NoError(t, db.Create(&unpaid).Error)

	body, _ = json.Marshal(map[string]interface{}{
		"reference_id": "ref-webhook-2",
		"status":       "FAILED",
	})
	w = postWebhook(router, body, gateway.Sign(body))
	require.Equal(t, http.StatusOK, w.Code)

	var reloadedUnpaid models.Transaction
	require.NoError(t, db.First(&reloadedUnpaid, unpaid.ID).Error)
	assert.False(t, reloadedUnpaid.Paid)

	// Unknown statuses are acknowledged and ignored
	body, _ = json.Marshal(map[string]interface{}{
		"reference_id": "ref-webhook-1",
		"status":       "SOMETHING_NEW",
	})
	w = postWebhook(router, body, gateway.Sign(body))
	assert.Equal(t, http.StatusOK, w.Code)

	// Unknown reference is a 404
	body, _ = json.Marshal(map[string]interface{}{
		"reference_id": "ref-missing",
		"status":       "PAID",
	})
	w = postWebhook(router, body, gateway.Sign(body))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetPaymentStatus(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	gateway := services.NewMockPaymentGateway()
	gateway.SetAsMockForTesting()

	customer := createTestUser(t, db, "Customer", "customer@example.com", models.RoleCustomer)
	request := createTestRequest(t, db, customer.ID, models.RequestStatusDeposit, floatPtr(1000))

	// Open a payment through the gateway so the mock knows the reference
	router := setupTestRouter()
	router.POST("/transactions", mockAuthMiddleware(customer.ID, customer.Role), CreateTransaction)
	w := doJSON(router, http.MethodPost, "/transactions", map[string]interface{}{
		"request_id": request.ID,
		"type":       "deposit_design",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	reference := response["data"].(map[string]interface{})["transaction"].(map[string]interface{})["payment_reference"].(string)

	gateway.MarkPaid(reference)

	router = setupTestRouter()
	router.GET("/payments/:reference/status", mockAuthMiddleware(customer.ID, customer.Role), GetPaymentStatus)

	req, _ := http.NewRequest(http.MethodGet, "/payments/"+reference+"/status", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "PAID", data["status"])
}

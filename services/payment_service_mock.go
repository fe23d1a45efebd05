package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// MockPaymentGateway is an in-memory PaymentGateway for testing
type MockPaymentGateway struct {
	payments   map[string]*PaymentStatus
	webhookKey string
	failNext   bool
	mu         sync.RWMutex
}

// NewMockPaymentGateway creates a new mock payment gateway
func NewMockPaymentGateway() *MockPaymentGateway {
	return &MockPaymentGateway{
		payments: make(map[string]*PaymentStatus),
	}
}

// SetAsMockForTesting sets this mock as the global gateway instance
func (m *MockPaymentGateway) SetAsMockForTesting() {
	SetPaymentGateway(m)
}

// SetWebhookKey configures the key used by VerifySignature
func (m *MockPaymentGateway) SetWebhookKey(key string) {
	m.mu.Lock()
	m.webhookKey = key
	m.mu.Unlock()
}

// FailNext makes the next CreatePayment call return an error
func (m *MockPaymentGateway) FailNext() {
	m.mu.Lock()
	m.failNext = true
	m.mu.Unlock()
}

// CreatePayment simulates opening a payment with the provider
func (m *MockPaymentGateway) CreatePayment(_ context.Context, req PaymentRequest) (*PaymentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext {
		m.failNext = false
		return nil, fmt.Errorf("mock gateway failure")
	}

	m.payments[req.Reference] = &PaymentStatus{Status: PaymentStatusPending}

	return &PaymentResponse{
		ProviderPaymentID: "mockpay_" + req.Reference,
		Reference:         req.Reference,
		Status:            PaymentStatusPending,
		PaymentURL:        "https://gateway.test/pay/" + req.Reference,
	}, nil
}

// GetPaymentStatus returns the simulated state of a payment
func (m *MockPaymentGateway) GetPaymentStatus(_ context.Context, reference string) (*PaymentStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status, ok := m.payments[reference]
	if !ok {
		return nil, fmt.Errorf("payment not found")
	}
	return status, nil
}

// MarkPaid flips a simulated payment to PAID (for testing webhooks/polling)
func (m *MockPaymentGateway) MarkPaid(reference string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.payments[reference] = &PaymentStatus{Status: PaymentStatusPaid, PaidAt: &now}
}

// VerifySignature checks an HMAC-SHA256 signature like the real gateway
func (m *MockPaymentGateway) VerifySignature(body []byte, signature string) error {
	m.mu.RLock()
	key := m.webhookKey
	m.mu.RUnlock()

	if key == "" {
		return nil
	}

	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign computes the signature the mock expects for a body (test helper)
func (m *MockPaymentGateway) Sign(body []byte) string {
	m.mu.RLock()
	key := m.webhookKey
	m.mu.RUnlock()

	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

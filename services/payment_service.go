package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ellie2222222/jewelry-workshop-api/config"
	"github.com/ellie2222222/jewelry-workshop-api/logger"
	"go.uber.org/zap"
)

// Payment statuses reported by the gateway.
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
	PaymentStatusFailed  = "FAILED"
	PaymentStatusExpired = "EXPIRED"
)

// ErrInvalidSignature is returned when a webhook signature check fails.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// PaymentRequest describes the payment to initiate with the gateway.
type PaymentRequest struct {
	Reference   string  `json:"reference_id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	PayerEmail  string  `json:"payer_email"`
}

// PaymentResponse is the gateway's answer to a created payment.
type PaymentResponse struct {
	ProviderPaymentID string `json:"payment_id"`
	Reference         string `json:"reference_id"`
	Status            string `json:"status"`
	PaymentURL        string `json:"payment_url"`
}

// PaymentStatus is the polled state of a payment.
type PaymentStatus struct {
	Status string     `json:"status"`
	PaidAt *time.Time `json:"paid_at,omitempty"`
}

// PaymentGateway is the external payment collaborator.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error)
	GetPaymentStatus(ctx context.Context, reference string) (*PaymentStatus, error)
	VerifySignature(body []byte, signature string) error
}

// HTTPPaymentGateway talks to the payment provider over its JSON API.
type HTTPPaymentGateway struct {
	baseURL    string
	apiKey     string
	webhookKey string
	httpClient *http.Client
}

var paymentGatewayInstance PaymentGateway

// InitPaymentGateway initializes the gateway client from configuration
func InitPaymentGateway() PaymentGateway {
	cfg := config.GetConfig()
	if cfg.PaymentAPIKey == "" {
		logger.L().Warn("payment API key is empty")
	}

	paymentGatewayInstance = &HTTPPaymentGateway{
		baseURL:    cfg.PaymentBaseURL,
		apiKey:     cfg.PaymentAPIKey,
		webhookKey: cfg.PaymentWebhookKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	return paymentGatewayInstance
}

// GetPaymentGateway returns the initialized gateway instance
func GetPaymentGateway() PaymentGateway {
	return paymentGatewayInstance
}

// SetPaymentGateway sets the gateway instance (primarily for testing)
func SetPaymentGateway(gateway PaymentGateway) {
	paymentGatewayInstance = gateway
}

// CreatePayment asks the provider to open a payment for the given reference.
func (g *HTTPPaymentGateway) CreatePayment(ctx context.Context, payment PaymentRequest) (*PaymentResponse, error) {
	log := logger.L().With(
		zap.String("reference", payment.Reference),
		zap.Float64("amount", payment.Amount),
	)

	jsonBody, err := json.Marshal(payment)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/payments", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(g.apiKey, "")
	req.Header.Set("Content-Type", "application/json")

	log.Info("Creating payment with gateway")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("Gateway request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Error("Gateway returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return nil, fmt.Errorf("payment gateway error: %s", string(bodyBytes))
	}

	var result PaymentResponse
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		return nil, err
	}

	log.Info("Payment created",
		zap.String("payment_id", result.ProviderPaymentID),
		zap.String("status", result.Status),
	)
	return &result, nil
}

// GetPaymentStatus polls the provider for the state of a payment.
func (g *HTTPPaymentGateway) GetPaymentStatus(ctx context.Context, reference string) (*PaymentStatus, error) {
	log := logger.L().With(zap.String("reference", reference))

	url := fmt.Sprintf("%s/v1/payments/%s", g.baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(g.apiKey, "")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("Gateway request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.New("payment not found")
	}
	if resp.StatusCode != http.StatusOK {
		log.Error("Gateway returned error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return nil, fmt.Errorf("payment gateway error: %s", string(bodyBytes))
	}

	var status PaymentStatus
	if err := json.Unmarshal(bodyBytes, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// VerifySignature checks the HMAC-SHA256 signature of a webhook body.
// An empty configured key skips verification (development only).
func (g *HTTPPaymentGateway) VerifySignature(body []byte, signature string) error {
	if g.webhookKey == "" {
		return nil
	}

	mac := hmac.New(sha256.New, []byte(g.webhookKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

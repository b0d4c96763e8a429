package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cod31nvictus/selfky/middleware"
	"github.com/gofiber/fiber/v2"
)

func newPaymentTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", testJWTSecret)
	t.Setenv("RAZORPAY_KEY_SECRET", "test_secret_key")
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "whsec_test")

	app := fiber.New()
	app.Post("/api/v1/payments/verify", middleware.Protected(), VerifyPayment)
	app.Post("/api/v1/payments/webhook", HandlePaymentWebhook)
	return app
}

func TestVerifyPaymentRejectsInvalidSignature(t *testing.T) {
	app := newPaymentTestApp(t)
	token := signTestToken(t, "applicant")

	resp := postJSON(t, app, "/api/v1/payments/verify", token, VerifyPaymentRequest{
		RazorpayOrderID:   "order_ABC123",
		RazorpayPaymentID: "pay_XYZ789",
		RazorpaySignature: "0000000000000000000000000000000000000000000000000000000000000000",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for invalid signature", resp.StatusCode)
	}
}

func TestVerifyPaymentRejectsMissingFields(t *testing.T) {
	app := newPaymentTestApp(t)
	token := signTestToken(t, "applicant")

	resp := postJSON(t, app, "/api/v1/payments/verify", token, VerifyPaymentRequest{
		RazorpayOrderID: "order_ABC123",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for missing fields", resp.StatusCode)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	app := newPaymentTestApp(t)

	body := []byte(`{"event":"payment.captured"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Razorpay-Signature", "not-a-valid-signature")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for bad webhook signature", resp.StatusCode)
	}
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	app := newPaymentTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for missing webhook signature", resp.StatusCode)
	}
}

package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log"

	razorpay "github.com/razorpay/razorpay-go"

	config "github.com/cod31nvictus/selfky/configs"
	"github.com/cod31nvictus/selfky/models"
)

type OrderResult struct {
	OrderID     string
	AmountPaise int
	Currency    string
	KeyID       string
}

func newClient() (*razorpay.Client, string, error) {
	keyID := config.Config("RAZORPAY_KEY_ID")
	keySecret := config.Config("RAZORPAY_KEY_SECRET")
	if keyID == "" || keySecret == "" {
		return nil, "", &models.ExternalServiceError{Service: "razorpay", Err: nil}
	}
	return razorpay.NewClient(keyID, keySecret), keyID, nil
}

// CreateOrder opens a gateway order for the given fee. Razorpay amounts are
// in paise.
func CreateOrder(amountRupees int, currency, receipt string, notes map[string]interface{}) (*OrderResult, error) {
	client, keyID, err := newClient()
	if err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"amount":   amountRupees * 100,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}
	body, err := client.Order.Create(data, nil)
	if err != nil {
		log.Printf("🔥 Razorpay order creation failed for receipt %s: %v", receipt, err)
		return nil, &models.ExternalServiceError{Service: "razorpay", Err: err}
	}

	orderID, ok := body["id"].(string)
	if !ok || orderID == "" {
		return nil, &models.ExternalServiceError{Service: "razorpay", Err: nil}
	}

	return &OrderResult{
		OrderID:     orderID,
		AmountPaise: amountRupees * 100,
		Currency:    currency,
		KeyID:       keyID,
	}, nil
}

// VerifyCheckoutSignature checks the signature Razorpay checkout returns to
// the client: HMAC-SHA256 over "<order_id>|<payment_id>" with the key secret.
func VerifyCheckoutSignature(orderID, paymentID, signature string) bool {
	secret := config.Config("RAZORPAY_KEY_SECRET")
	if secret == "" {
		return false
	}
	return hmacEqual([]byte(orderID+"|"+paymentID), secret, signature)
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header: HMAC-SHA256
// over the raw request body with the webhook secret.
func VerifyWebhookSignature(body []byte, signature string) bool {
	secret := config.Config("RAZORPAY_WEBHOOK_SECRET")
	if secret == "" {
		return false
	}
	return hmacEqual(body, secret, signature)
}

func hmacEqual(message []byte, secret, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

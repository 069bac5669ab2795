package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk"

	"studyCheckAPI/services"
)

type PaddleHandler struct {
	paddleService *services.PaddleService
}

func NewPaddleHandler(paddleService *services.PaddleService) *PaddleHandler {
	return &PaddleHandler{
		paddleService: paddleService,
	}
}

type PriceResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"productId"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Interval    string `json:"interval"`
}

func (h *PaddleHandler) GetPrices(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if h.paddleService.PaddleClient == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Payments are not configured")
		return
	}

	req := &paddle.ListPricesRequest{
		Status: []string{string(paddle.StatusActive)},
	}

	priceCollection, err := h.paddleService.PaddleClient.ListPrices(ctx, req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var prices []PriceResponse

	for {
		result := priceCollection.Next(ctx)

		if !result.Ok() {
			if err := result.Err(); err != nil {
				respondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			break
		}

		p := result.Value()

		interval := ""
		if p.BillingCycle != nil {
			interval = string(p.BillingCycle.Interval)
		}

		prices = append(prices, PriceResponse{
			ID:          p.ID,
			ProductID:   p.ProductID,
			Description: p.Description,
			Amount:      p.UnitPrice.Amount,
			Currency:    string(p.UnitPrice.CurrencyCode),
			Interval:    interval,
		})
	}

	respondWithJSON(w, http.StatusOK, prices)
}

type CreateTransactionRequest struct {
	PriceID string `json:"priceId"`
}

func (h *PaddleHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	if h.paddleService.PaddleClient == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Payments are not configured")
		return
	}

	var reqBody CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Order ids must never collide; the webhook routes on them.
	orderID := fmt.Sprintf("PREMIUM_%d", time.Now().UnixMilli())

	order, err := h.paddleService.CreateOrder(ctx, orderID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}
	log.Printf("Created order %s (%s)", order.OrderID, order.Status)

	successURL := os.Getenv("PAYMENT_SUCCESS_URL")
	if successURL == "" {
		successURL = "/payment/success"
	}

	createReq := &paddle.CreateTransactionRequest{
		Items: []paddle.CreateTransactionItems{
			*paddle.NewCreateTransactionItemsCatalogItem(&paddle.CatalogItem{
				Quantity: 1,
				PriceID:  reqBody.PriceID,
			}),
		},
		CustomData: paddle.CustomData{
			"orderId": orderID,
		},
		CollectionMode: paddle.PtrTo(paddle.CollectionModeAutomatic),
		Checkout: &paddle.TransactionCheckout{
			URL: &successURL,
		},
	}

	tx, err := h.paddleService.PaddleClient.CreateTransaction(ctx, createReq)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to create transaction: %v", err))
		return
	}

	log.Printf("Created transaction %s for order %s, status %s", tx.ID, orderID, tx.Status)

	paddleEnv := os.Getenv("PADDLE_CHECKOUT_ENV")
	if paddleEnv == "" {
		paddleEnv = "sandbox-checkout"
	}
	checkoutURL := fmt.Sprintf("https://%s.paddle.com/checkout/custom?_ptxn=%s", paddleEnv, tx.ID)

	respondWithJSON(w, http.StatusOK, map[string]string{
		"orderId":       orderID,
		"transactionId": tx.ID,
		"checkoutUrl":   checkoutURL,
	})
}

func (h *PaddleHandler) PaddleWebhookHandler(w http.ResponseWriter, r *http.Request) {
	secret := os.Getenv("PADDLE_SECRET_KEY")
	if secret == "" {
		log.Println("PADDLE_SECRET_KEY missing")
		http.Error(w, "Configuration Error", http.StatusInternalServerError)
		return
	}

	verifier := paddle.NewWebhookVerifier(secret)

	valid, err := verifier.Verify(r)
	if err != nil {
		http.Error(w, "Verification failed", http.StatusInternalServerError)
		return
	}
	if !valid {
		http.Error(w, "Invalid signature", http.StatusForbidden)
		return
	}

	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Unable to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	type WebhookPartial struct {
		EventID   string               `json:"event_id"`
		EventType paddle.EventTypeName `json:"event_type"`
	}

	var webhook WebhookPartial
	if err := json.Unmarshal(bodyBytes, &webhook); err != nil {
		http.Error(w, "Unable to parse JSON", http.StatusBadRequest)
		return
	}

	var entityID string

	switch webhook.EventType {

	case paddle.EventTypeNameTransactionPaid:
		type TransactionEvent struct {
			Data paddle.Transaction `json:"data"`
		}

		var fullEvent TransactionEvent
		if err := json.Unmarshal(bodyBytes, &fullEvent); err != nil {
			log.Printf("Error parsing transaction: %v", err)
			w.WriteHeader(http.StatusOK)
			return
		}

		entityID = fullEvent.Data.ID

		if fullEvent.Data.CustomData != nil {
			if orderID, ok := fullEvent.Data.CustomData["orderId"].(string); ok {
				order, err := h.paddleService.MarkPaid(r.Context(), orderID, fullEvent.Data.ID)
				if err != nil {
					log.Printf("Error marking order %s paid: %v", orderID, err)
				} else {
					log.Printf("Payment succeeded for order %s (%s)", order.OrderID, order.Status)
				}
			}
		}

	default:
		entityID = webhook.EventID
		log.Printf("Unhandled event type: %s", webhook.EventType)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(fmt.Sprintf(`{"ID": "%s"}`, entityID)))
}

func (h *PaddleHandler) PaymentSuccessPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	orderID := html.EscapeString(r.URL.Query().Get("orderId"))

	page := `
	<!DOCTYPE html>
	<html>
	<head>
		<title>결제 완료</title>
		<meta name="viewport" content="width=device-width, initial-scale=1">
		<style>
			body { background-color: #f9fafb; color: #111827; font-family: sans-serif; text-align: center; padding: 50px 20px; }
			h1 { color: #3182f6; }
			p { color: #6b7280; }
			.card { background: #ffffff; padding: 30px; border-radius: 24px; max-width: 400px; margin: 0 auto; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
			.order { font-size: 12px; color: #9ca3af; }
		</style>
	</head>
	<body>
		<div class="card">
			<h1>결제가 완료되었습니다! 🎉</h1>
			<p>이제 프리미엄 공부방을 만들 수 있어요.</p>
			<p>앱으로 돌아가 공부방 이름과 비밀번호를 정해주세요.</p>
			<p class="order">주문번호: ` + orderID + `</p>
		</div>
	</body>
	</html>
	`
	fmt.Fprint(w, page)
}

// PaymentFailPage shows the provider's error pair verbatim so support can
// match it against the provider dashboard.
func (h *PaddleHandler) PaymentFailPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	code := html.EscapeString(r.URL.Query().Get("code"))
	message := html.EscapeString(r.URL.Query().Get("message"))
	if message == "" {
		message = "알 수 없는 오류가 발생했습니다."
	}

	page := `
	<!DOCTYPE html>
	<html>
	<head>
		<title>결제 실패</title>
		<meta name="viewport" content="width=device-width, initial-scale=1">
		<style>
			body { background-color: #f9fafb; color: #111827; font-family: sans-serif; text-align: center; padding: 50px 20px; }
			h1 { color: #ef4444; }
			p { color: #6b7280; }
			.card { background: #ffffff; padding: 30px; border-radius: 24px; max-width: 400px; margin: 0 auto; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
			.error { background: #f9fafb; border-radius: 16px; padding: 16px; color: #374151; font-weight: bold; }
			.code { font-size: 12px; color: #9ca3af; }
		</style>
	</head>
	<body>
		<div class="card">
			<h1>결제에 실패했습니다</h1>
			<div class="error">` + message + `</div>
			<p class="code">에러 코드: ` + code + `</p>
			<p>다시 시도해주세요.</p>
		</div>
	</body>
	</html>
	`
	fmt.Fprint(w, page)
}

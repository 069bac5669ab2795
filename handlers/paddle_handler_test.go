package handlers_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"studyCheckAPI/handlers"
)

func TestPaymentFailPageRendersProviderError(t *testing.T) {
	h := handlers.NewPaddleHandler(nil)

	req := httptest.NewRequest("GET", "/payment/fail?code=PAY_PROCESS_CANCELED&message=%EC%82%AC%EC%9A%A9%EC%9E%90%EA%B0%80+%EC%B7%A8%EC%86%8C%ED%96%88%EC%8A%B5%EB%8B%88%EB%8B%A4", nil)
	rec := httptest.NewRecorder()

	h.PaymentFailPage(rec, req)

	body := rec.Body.String()
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "PAY_PROCESS_CANCELED")
	assert.Contains(t, body, "사용자가 취소했습니다")
}

func TestPaymentFailPageDefaultsMessage(t *testing.T) {
	h := handlers.NewPaddleHandler(nil)

	req := httptest.NewRequest("GET", "/payment/fail", nil)
	rec := httptest.NewRecorder()

	h.PaymentFailPage(rec, req)

	assert.Contains(t, rec.Body.String(), "알 수 없는 오류가 발생했습니다.")
}

func TestPaymentFailPageEscapesMarkup(t *testing.T) {
	h := handlers.NewPaddleHandler(nil)

	req := httptest.NewRequest("GET", "/payment/fail?message=%3Cscript%3Ealert(1)%3C/script%3E", nil)
	rec := httptest.NewRecorder()

	h.PaymentFailPage(rec, req)

	body := rec.Body.String()
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestPaymentSuccessPageShowsOrderID(t *testing.T) {
	h := handlers.NewPaddleHandler(nil)

	req := httptest.NewRequest("GET", "/payment/success?orderId=PREMIUM_1700000000000", nil)
	rec := httptest.NewRecorder()

	h.PaymentSuccessPage(rec, req)

	assert.Contains(t, rec.Body.String(), "PREMIUM_1700000000000")
}

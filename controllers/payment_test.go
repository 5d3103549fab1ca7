package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/CSteenkamp/shuttle-booking-sub001/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func notifyRouter(pc *PaymentController) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/payments/notify", pc.Notify)
	return r
}

func postForm(r *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/notify",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// The gateway retries anything that is not a 200, so a payload we
// processed and rejected is still acknowledged. The body stays empty:
// no internal detail goes back to the gateway.
func TestNotifyAcknowledgesTamperedSignature(t *testing.T) {
	service := services.NewSettlementService(nil, "10000100", "secret-passphrase")
	pc := &PaymentController{settlementService: service}
	r := notifyRouter(pc)

	payload := map[string]string{
		"m_payment_id":   "order-123",
		"payment_status": "COMPLETE",
		"merchant_id":    "10000100",
	}
	signature := service.Signature(payload)

	form := url.Values{}
	for k, v := range payload {
		form.Set(k, v)
	}
	form.Set("payment_status", "FAILED") // tampered after signing
	form.Set("signature", signature)

	w := postForm(r, form)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestNotifyRejectsEmptyPayload(t *testing.T) {
	service := services.NewSettlementService(nil, "10000100", "secret-passphrase")
	pc := &PaymentController{settlementService: service}
	r := notifyRouter(pc)

	w := postForm(r, url.Values{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

package validation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type amountBody struct {
	Email  string `json:"email" binding:"required,email"`
	Amount string `json:"amount" binding:"required,amount"`
}

func bind(body string) map[string]string {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var req amountBody
	return ToDetails(c.ShouldBindJSON(&req))
}

func TestToDetails(t *testing.T) {
	Init()

	tests := []struct {
		name string
		body string
		want map[string]string
	}{
		{"valid", `{"email":"a@example.com","amount":"10.50"}`, nil},
		{"bad json", `{"email":,}`, map[string]string{"payload": "invalid json"}},
		{"wrong type", `{"email":"a@example.com","amount":10}`, map[string]string{"payload": "invalid json"}},
		{"missing fields", `{}`, map[string]string{"email": "is required", "amount": "is required"}},
		{"bad values", `{"email":"nope","amount":"ten"}`, map[string]string{"email": "must be a valid email address", "amount": "must be a valid number"}},
		{"huge exponent", `{"email":"a@example.com","amount":"1e999999"}`, map[string]string{"amount": "must be a valid number"}},
		{"tiny exponent", `{"email":"a@example.com","amount":"1e-999999"}`, map[string]string{"amount": "must be a valid number"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, bind(tc.body))
		})
	}
}

type secretBody struct {
	Password string `json:"password" binding:"required,pwd"`
}

func TestSecretLengthCountsBytes(t *testing.T) {
	Init()
	gin.SetMode(gin.TestMode)

	check := func(secret string) map[string]string {
		payload, err := json.Marshal(secretBody{Password: secret})
		assert.NoError(t, err)
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
		c.Request.Header.Set("Content-Type", "application/json")
		var req secretBody
		return ToDetails(c.ShouldBindJSON(&req))
	}

	assert.Nil(t, check(strings.Repeat("a", 72)))
	// 40 characters, 80 bytes.
	assert.Equal(t, map[string]string{"password": "must be between 1 and 72 bytes"}, check(strings.Repeat("é", 40)))
}

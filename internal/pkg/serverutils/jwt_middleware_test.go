package serverutils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestJwtMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/guarded", JwtMiddleware("s3cret", "admin"), func(c *fiber.Ctx) error {
		return c.JSON(SuccessResponse("ok", c.Locals("user_id")))
	})

	exp := time.Now().Add(time.Hour).Unix()
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: 401},
		{name: "wrong secret", header: "Bearer " + signed(t, "other", jwt.MapClaims{"role": "admin", "exp": exp}), want: 401},
		{name: "wrong role", header: "Bearer " + signed(t, "s3cret", jwt.MapClaims{"role": "user", "exp": exp}), want: 403},
		{name: "expired", header: "Bearer " + signed(t, "s3cret", jwt.MapClaims{"role": "admin", "exp": time.Now().Add(-time.Hour).Unix()}), want: 401},
		{name: "admin", header: "Bearer " + signed(t, "s3cret", jwt.MapClaims{"role": "admin", "user_id": "u1", "exp": exp}), want: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/guarded", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestValidateRequestRendersBadRequest(t *testing.T) {
	type body struct {
		Limit int `validate:"min=1"`
	}
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return ValidateRequest(body{})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

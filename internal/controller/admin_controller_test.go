package controller

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"ai-voicebot-be/internal/dto"
	"ai-voicebot-be/internal/pkg/serverutils"
	"ai-voicebot-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "admin-secret"

type stubAdminService struct {
	lastQuery *dto.LogQueryRequest
}

func (s *stubAdminService) GetUserState(ctx context.Context, telegramId string) (*dto.UserStateResponse, error) {
	if telegramId != "77" {
		return nil, service.ErrUserNotFound
	}
	return &dto.UserStateResponse{TelegramId: "77", UsageCount: 3, UsageLimit: 400, UsagePeriod: "2026-10"}, nil
}

func (s *stubAdminService) GetLogs(ctx context.Context, req *dto.LogQueryRequest) ([]*dto.LogListResponse, error) {
	s.lastQuery = req
	return []*dto.LogListResponse{{Id: "abc", Level: "ERROR", Module: "DIALOGUE", Message: "Turn failed"}}, nil
}

func newAdminApp(svc service.IAdminService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewAdminController(svc, testJWTSecret).RegisterRoutes(app.Group("/api"))
	return app
}

func adminToken(t *testing.T, role string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "ops-1",
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return tok
}

func get(t *testing.T, app *fiber.App, path, token string) (int, serverutils.Response) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var body serverutils.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestAdminUserState(t *testing.T) {
	app := newAdminApp(&stubAdminService{})

	tests := []struct {
		name     string
		path     string
		token    string
		wantCode int
	}{
		{name: "no token", path: "/api/admin/v1/users/77", wantCode: fiber.StatusUnauthorized},
		{name: "not admin", path: "/api/admin/v1/users/77", token: adminToken(t, "user"), wantCode: fiber.StatusForbidden},
		{name: "found", path: "/api/admin/v1/users/77", token: adminToken(t, "admin"), wantCode: fiber.StatusOK},
		{name: "unknown chat", path: "/api/admin/v1/users/78", token: adminToken(t, "admin"), wantCode: fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := get(t, app, tt.path, tt.token)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantCode == fiber.StatusOK, body.Success)
		})
	}
}

func TestAdminLogs(t *testing.T) {
	svc := &stubAdminService{}
	app := newAdminApp(svc)
	token := adminToken(t, "admin")

	code, body := get(t, app, "/api/admin/v1/logs?level=ERROR&module=DIALOGUE&limit=5", token)
	require.Equal(t, fiber.StatusOK, code)
	assert.True(t, body.Success)
	require.NotNil(t, svc.lastQuery)
	assert.Equal(t, "ERROR", svc.lastQuery.Level)
	assert.Equal(t, 5, svc.lastQuery.Limit)

	code, body = get(t, app, "/api/admin/v1/logs?level=TRACE", token)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.False(t, body.Success)
}

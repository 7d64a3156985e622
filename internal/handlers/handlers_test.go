package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"aura/internal/models"
	"aura/internal/services"
)

// Mock user middleware for testing
func mockAuthMiddleware(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	}
}

func TestCommandHandler_Validation(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		body           interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "missing user ID",
			userID:         "",
			body:           models.CommandRequest{Command: "send email to bob hello"},
			expectedStatus: fiber.StatusUnauthorized,
			expectedError:  "Authentication required",
		},
		{
			name:           "empty command",
			userID:         "user-123",
			body:           models.CommandRequest{Command: "   "},
			expectedStatus: fiber.StatusBadRequest,
			expectedError:  "Command text is required",
		},
		{
			name:           "invalid JSON body",
			userID:         "user-123",
			body:           "not json",
			expectedStatus: fiber.StatusBadRequest,
			expectedError:  "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(mockAuthMiddleware(tt.userID))

			// Validation happens before any service call, so nil deps are safe
			handler := NewCommandHandler(services.NewCommandService(nil, nil))
			app.Post("/api/command", handler.Process)

			var body []byte
			var err error
			if str, ok := tt.body.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.body)
				if err != nil {
					t.Fatalf("Failed to marshal body: %v", err)
				}
			}

			req := httptest.NewRequest("POST", "/api/command", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, resp.StatusCode)
			}

			respBody, _ := io.ReadAll(resp.Body)
			var result map[string]string
			json.Unmarshal(respBody, &result)

			if result["error"] != tt.expectedError {
				t.Errorf("Expected error %q, got %q", tt.expectedError, result["error"])
			}
		})
	}
}

func TestSyncHandler_RequiresAuth(t *testing.T) {
	app := fiber.New()
	app.Use(mockAuthMiddleware(""))

	handler := NewSyncHandler(nil)
	app.Post("/api/sync/gmail", handler.Gmail)

	req := httptest.NewRequest("POST", "/api/sync/gmail", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", fiber.StatusUnauthorized, resp.StatusCode)
	}
}

func TestDashboardHandler_RequiresAuth(t *testing.T) {
	app := fiber.New()
	app.Use(mockAuthMiddleware(""))

	handler := NewDashboardHandler(nil, nil, nil, nil, nil, nil)
	app.Get("/api/emails", handler.Emails)

	req := httptest.NewRequest("GET", "/api/emails", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", fiber.StatusUnauthorized, resp.StatusCode)
	}
}

func TestIntegrationHandler_Validation(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		path           string
		body           interface{}
		expectedStatus int
	}{
		{
			name:           "google requires auth",
			userID:         "",
			path:           "/api/integrations/google",
			body:           models.GoogleCredentialRequest{AccessToken: "tok"},
			expectedStatus: fiber.StatusUnauthorized,
		},
		{
			name:           "google without vault",
			userID:         "user-123",
			path:           "/api/integrations/google",
			body:           models.GoogleCredentialRequest{AccessToken: "tok"},
			expectedStatus: fiber.StatusServiceUnavailable,
		},
		{
			name:           "notion without vault",
			userID:         "user-123",
			path:           "/api/integrations/notion",
			body:           models.NotionCredentialRequest{Token: "secret", DatabaseID: "db"},
			expectedStatus: fiber.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(mockAuthMiddleware(tt.userID))

			handler := NewIntegrationHandler(nil, nil, nil)
			app.Post("/api/integrations/google", handler.ConnectGoogle)
			app.Post("/api/integrations/notion", handler.ConnectNotion)

			body, err := json.Marshal(tt.body)
			if err != nil {
				t.Fatalf("Failed to marshal body: %v", err)
			}

			req := httptest.NewRequest("POST", tt.path, bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, resp.StatusCode)
			}
		})
	}
}

func TestBillingHandler_CheckoutValidation(t *testing.T) {
	app := fiber.New()
	app.Use(mockAuthMiddleware("user-123"))

	handler := NewBillingHandler(nil)
	app.Post("/api/billing/checkout", handler.Checkout)

	req := httptest.NewRequest("POST", "/api/billing/checkout", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", fiber.StatusBadRequest, resp.StatusCode)
	}
}

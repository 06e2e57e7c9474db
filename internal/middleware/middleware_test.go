package middleware_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/middleware"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/types"
	"github.com/gofiber/fiber/v2"
)

func fakeValidator(cookie string, roles []string) (map[string]interface{}, error) {
	if cookie == "admin-session" {
		return map[string]interface{}{"user": map[string]string{"email": "admin@example.com"}}, nil
	}
	return nil, errors.New("session is not valid")
}

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var ce *types.CustomError
			if errors.As(err, &ce) {
				return c.Status(ce.Code).SendString(ce.Type)
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	app.Use(middleware.VersionMiddleware())
	app.Get("/projects", middleware.AdminScope(fakeValidator), func(c *fiber.Ctx) error {
		return c.SendString(string(middleware.ScopeFrom(c)))
	})
	app.Post("/projects/create", middleware.AuthAdmin(fakeValidator), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})
	return app
}

func TestAdminScope(t *testing.T) {
	app := newApp()

	tests := []struct {
		name   string
		url    string
		cookie string
		status int
		body   string
	}{
		{"public by default", "/projects", "", 200, "public"},
		{"admin flag without session", "/projects?admin=true", "", 403, "projects.authorization.admin"},
		{"admin flag with bad session", "/projects?admin=true", "stale", 403, "projects.authorization.admin"},
		{"admin flag with admin session", "/projects?admin=true", "admin-session", 200, "admin"},
		{"admin=false stays public", "/projects?admin=false", "admin-session", 200, "public"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.url, nil)
			if tt.cookie != "" {
				req.Header.Set("Cookie", "cookie_session="+tt.cookie)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("Failed to execute request: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, resp.StatusCode)
			}
			buf := make([]byte, 64)
			n, _ := resp.Body.Read(buf)
			if string(buf[:n]) != tt.body {
				t.Errorf("Expected body %q, got %q", tt.body, string(buf[:n]))
			}
		})
	}
}

func TestAuthAdmin(t *testing.T) {
	app := newApp()

	req := httptest.NewRequest("POST", "/projects/create", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("Expected 403 without cookie, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("POST", "/projects/create", nil)
	req.Header.Set("Cookie", "cookie_session=admin-session")
	resp, _ = app.Test(req)
	if resp.StatusCode != fiber.StatusCreated {
		t.Errorf("Expected 201 with admin session, got %d", resp.StatusCode)
	}
}

func TestVersionMiddleware(t *testing.T) {
	app := newApp()

	req := httptest.NewRequest("GET", "/projects", nil)
	req.Header.Set("X-Api-Version", "2.0.0")
	resp, _ := app.Test(req)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected 400 for version 2, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/projects", nil)
	req.Header.Set("X-Api-Version", "1.0")
	resp, _ = app.Test(req)
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected 200 for version 1.0, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Api-Version"); got != middleware.APIVersion {
		t.Errorf("Expected X-Api-Version %s, got %s", middleware.APIVersion, got)
	}
}

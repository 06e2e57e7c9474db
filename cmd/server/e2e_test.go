// e2e_test.go
//
// Property catalog service for Sri Sai Ram Real Estate, derived from jam-build-propsdb
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of the Sri Sai Ram catalog service.
// The catalog service is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// The catalog service is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with the catalog service.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main_test

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/testutil"
)

// TestE2EWithFullStack tests the entire service stack
func TestE2EWithFullStack(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	stack, err := testutil.StartStack(t)
	if err != nil {
		t.Fatalf("Failed to start test containers: %v", err)
	}
	defer stack.Terminate(t)

	baseURL := "http://" + stack.Service.String()

	t.Run("HealthCheck", func(t *testing.T) {
		testHealthCheck(t, baseURL)
	})

	t.Run("PrometheusMetrics", func(t *testing.T) {
		testPrometheusMetrics(t, baseURL)
	})

	t.Run("SwaggerUI", func(t *testing.T) {
		testSwaggerUI(t, baseURL)
	})

	t.Run("PublicCatalog", func(t *testing.T) {
		testPublicCatalog(t, baseURL)
	})

	t.Run("AdminRoutesRequireSession", func(t *testing.T) {
		testAdminRoutesRequireSession(t, baseURL)
	})

	t.Run("UserSessionIsNotAdmin", func(t *testing.T) {
		testUserSessionIsNotAdmin(t, baseURL, "http://"+stack.Authz.String())
	})

	t.Run("UnsupportedVersion", func(t *testing.T) {
		testUnsupportedVersion(t, baseURL)
	})
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	testutil.ParseJSON(t, resp, &result)
	return result
}

func testHealthCheck(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/healthz")
	if err != nil {
		t.Fatalf("Failed to get health: %v", err)
	}
	result := decode(t, resp)
	if resp.StatusCode != http.StatusOK || result["status"] != "healthy" {
		t.Errorf("Health check failed: %d %v", resp.StatusCode, result)
	}
	if result["cache"] != "ok" {
		t.Errorf("Expected cache ok, got %v", result["cache"])
	}
	t.Logf("Health check passed: database=%v, authorizer=%v, mediaStore=%v",
		result["database"], result["authorizer"], result["mediaStore"])
}

func testPrometheusMetrics(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/metrics")
	if err != nil {
		t.Fatalf("Failed to get metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 for metrics, got %d. Body: %s", resp.StatusCode, body)
	}
	if !bytes.Contains(body, []byte("catalog_")) {
		t.Errorf("Expected catalog metrics in body")
	}
}

func testSwaggerUI(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/swagger/index.html")
	if err != nil {
		t.Fatalf("Failed to get Swagger UI: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 for Swagger UI, got %d", resp.StatusCode)
	}
}

func testPublicCatalog(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/api/v1/projects?page=1&limit=5")
	if err != nil {
		t.Fatalf("Failed to access public API: %v", err)
	}
	result := decode(t, resp)
	if resp.StatusCode != http.StatusOK || result["status"] != true {
		t.Fatalf("Expected a successful list, got %d %v", resp.StatusCode, result)
	}
	if _, ok := result["pagination"].(map[string]interface{}); !ok {
		t.Errorf("Expected pagination in response, got %v", result)
	}

	resp, err = http.Post(baseURL+"/api/v1/projects/getProject", "application/json", strings.NewReader(`{"_id":"missing"}`))
	if err != nil {
		t.Fatalf("Failed to get project: %v", err)
	}
	result = decode(t, resp)
	if resp.StatusCode != http.StatusNotFound || result["status"] != false {
		t.Errorf("Expected 404 envelope, got %d %v", resp.StatusCode, result)
	}
}

func testAdminRoutesRequireSession(t *testing.T, baseURL string) {
	for _, path := range []string{"/api/v1/projects/create", "/api/v1/projects/update", "/api/v1/projects/delete"} {
		resp, err := http.Post(baseURL+path, "application/json", strings.NewReader(`{}`))
		if err != nil {
			t.Fatalf("Failed to post %s: %v", path, err)
		}
		decode(t, resp)
		testutil.AssertStatus(t, resp, http.StatusForbidden)
	}

	resp, err := http.Get(baseURL + "/api/v1/projects?admin=true")
	if err != nil {
		t.Fatalf("Failed to list in admin scope: %v", err)
	}
	decode(t, resp)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403 for admin scope without a session, got %d", resp.StatusCode)
	}
}

func testUnsupportedVersion(t *testing.T, baseURL string) {
	req, _ := http.NewRequest(http.MethodGet, baseURL+"/api/v1/projects", nil)
	req.Header.Set("X-Api-Version", "2.0.0")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	result := decode(t, resp)
	if resp.StatusCode != http.StatusBadRequest || result["type"] != "version" {
		t.Errorf("Expected version rejection, got %d %v", resp.StatusCode, result)
	}
}

func testUserSessionIsNotAdmin(t *testing.T, baseURL, authzURL string) {
	clientID := os.Getenv("AUTHZ_CLIENT_ID")
	if clientID == "" {
		clientID = "catalog-test-client"
	}
	token := testutil.AcquireAccount(t, authzURL, clientID, "buyer@example.com", testutil.GeneratePassword(), []string{"user"})

	req, _ := http.NewRequest(http.MethodPost, baseURL+"/api/v1/projects/delete", strings.NewReader(`{"_id":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "cookie_session", Value: token})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to post delete: %v", err)
	}
	result := decode(t, resp)
	testutil.AssertStatus(t, resp, http.StatusForbidden)
	if result["type"] != "projects.authorization.admin" {
		t.Errorf("Unexpected error type %v", result["type"])
	}
}

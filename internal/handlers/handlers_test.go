// handlers_test.go
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

package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/config"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/handlers"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/logger"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/media"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/models"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/services"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const adminCookie = "admin-session"

// fakeSessions accepts only adminCookie.
func fakeSessions(cookie string, roles []string) (map[string]interface{}, error) {
	if cookie != adminCookie {
		return nil, errors.New("unknown session")
	}
	return map[string]interface{}{
		"user": map[string]interface{}{"id": "u-1", "email": "admin@example.com", "roles": roles},
	}, nil
}

type testApp struct {
	app     *fiber.App
	db      *gorm.DB
	backend *testutil.FakeBackend
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.NewTestDB(t)
	backend := testutil.NewFakeBackend()
	adapter := media.NewAdapter(backend, media.Options{Folder: "srisai-projects", MaxBytes: 1024}, logger.NewNop())

	h := &handlers.ProjectHandler{
		Catalog: services.NewCatalog(db, nil, logger.NewNop(), services.CatalogOptions{}),
		Mutations: services.NewMutations(db, adapter, nil, logger.NewNop(), services.MutationOptions{
			RequireThumbnail:  true,
			MaxGalleryUploads: 10,
		}),
		MaxUploadBytes: adapter.MaxBytes(),
	}

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	h.Register(app.Group("/api/v1"), fakeSessions)
	app.Use(handlers.NotFound)
	return &testApp{app: app, db: db, backend: backend}
}

func (ta *testApp) seed(t *testing.T, projects ...models.Project) []models.Project {
	t.Helper()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := range projects {
		projects[i].CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if projects[i].LocationTitle == "" {
			projects[i].LocationTitle = "Hyderabad"
		}
		if err := ta.db.Create(&projects[i]).Error; err != nil {
			t.Fatalf("Failed to seed project: %v", err)
		}
	}
	return projects
}

func (ta *testApp) do(t *testing.T, req *http.Request) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp, body
}

func jsonRequest(path string, v interface{}, cookie string) *http.Request {
	b, _ := json.Marshal(v)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "cookie_session", Value: cookie})
	}
	return req
}

type part struct {
	field, name, contentType string
	content                  []byte
}

func multipartRequest(t *testing.T, path string, values map[string]string, files []part, cookie string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range values {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("Failed to write field: %v", err)
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.name))
		h.Set("Content-Type", f.contentType)
		pw, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("Failed to create part: %v", err)
		}
		if _, err := io.Copy(pw, bytes.NewReader(f.content)); err != nil {
			t.Fatalf("Failed to write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "cookie_session", Value: cookie})
	}
	return req
}

func pngPart(field, name string) part {
	return part{field: field, name: name, contentType: "image/png", content: testutil.PNG()}
}

func projectsOf(t *testing.T, body map[string]interface{}) []map[string]interface{} {
	t.Helper()
	raw, ok := body["projects"].([]interface{})
	if !ok {
		t.Fatalf("Expected projects array, got %v", body["projects"])
	}
	out := make([]map[string]interface{}, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.(map[string]interface{}))
	}
	return out
}

func TestListProjectsPublicScope(t *testing.T) {
	ta := setupApp(t)
	ta.seed(t,
		models.Project{Title: "Live one", Price: 100, TotalArea: 10, Live: true},
		models.Project{Title: "Draft", Price: 100, TotalArea: 10},
		models.Project{Title: "Live two", Price: 100, TotalArea: 10, Live: true},
	)

	resp, body := ta.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/projects?limit=1", nil))
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if body["status"] != true {
		t.Error("Expected status=true in response")
	}
	if got := len(projectsOf(t, body)); got != 1 {
		t.Errorf("Expected 1 project on the page, got %d", got)
	}

	pagination := body["pagination"].(map[string]interface{})
	if pagination["totalItems"] != float64(2) {
		t.Errorf("Expected totalItems 2, got %v", pagination["totalItems"])
	}
	if pagination["totalPages"] != float64(2) || pagination["hasNextPage"] != true {
		t.Errorf("Unexpected pagination %v", pagination)
	}
}

func TestListProjectsAdminScope(t *testing.T) {
	ta := setupApp(t)
	ta.seed(t,
		models.Project{Title: "Live", Price: 1, TotalArea: 1, Live: true},
		models.Project{Title: "Draft", Price: 1, TotalArea: 1},
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/paginated?admin=true", nil)
	resp, body := ta.do(t, req)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("Expected status 403 without a session, got %d", resp.StatusCode)
	}
	if body["status"] != false || body["type"] != "projects.authorization.admin" {
		t.Errorf("Unexpected error envelope %v", body)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/projects/paginated?admin=true", nil)
	req.AddCookie(&http.Cookie{Name: "cookie_session", Value: adminCookie})
	resp, body = ta.do(t, req)
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if got := len(projectsOf(t, body)); got != 2 {
		t.Errorf("Expected admin scope to include drafts, got %d projects", got)
	}
}

func TestListProjectsFilters(t *testing.T) {
	ta := setupApp(t)
	ta.seed(t,
		models.Project{Title: "Cheap villa", Category: "villa", Price: 50, TotalArea: 1000, Live: true},
		models.Project{Title: "Dear villa", Category: "villa", Price: 500, TotalArea: 3000, Live: true},
		models.Project{Title: "Shop", Category: "commercial", Price: 70, TotalArea: 100, Live: true},
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects?category=villa&minPrice=abc&maxPrice=100&sort=price-desc", nil)
	_, body := ta.do(t, req)
	items := projectsOf(t, body)
	if len(items) != 1 || items[0]["title"] != "Cheap villa" {
		t.Errorf("Expected only the cheap villa, got %v", items)
	}
}

func TestAlsoLikeAndTop(t *testing.T) {
	ta := setupApp(t)
	seeded := ta.seed(t,
		models.Project{Title: "A", Category: "villa", Price: 1, TotalArea: 1, Live: true, TopProject: true},
		models.Project{Title: "B", Category: "villa", Price: 1, TotalArea: 1, Live: true},
		models.Project{Title: "C", Category: "house", Price: 1, TotalArea: 1, Live: true, TopProject: true},
	)

	_, body := ta.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/projects/also-like/"+seeded[0].ID+"?category=villa", nil))
	items := projectsOf(t, body)
	if len(items) != 1 || items[0]["title"] != "B" {
		t.Errorf("Expected only B, got %v", items)
	}

	_, body = ta.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/projects/top", nil))
	items = projectsOf(t, body)
	if len(items) != 2 || items[0]["title"] != "C" {
		t.Errorf("Expected C then A, got %v", items)
	}
}

func TestGetProject(t *testing.T) {
	ta := setupApp(t)
	seeded := ta.seed(t, models.Project{Title: "Hidden", Price: 1, TotalArea: 1})

	resp, body := ta.do(t, jsonRequest("/api/v1/projects/getProject", map[string]string{"_id": seeded[0].ID}, ""))
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	project := body["project"].(map[string]interface{})
	if project["_id"] != seeded[0].ID || project["title"] != "Hidden" {
		t.Errorf("Unexpected project %v", project)
	}

	resp, body = ta.do(t, jsonRequest("/api/v1/projects/getProject", map[string]string{"_id": "missing"}, ""))
	if resp.StatusCode != 404 {
		t.Fatalf("Expected status 404, got %d", resp.StatusCode)
	}
	if body["status"] != false || body["message"] == "" {
		t.Errorf("Unexpected not found envelope %v", body)
	}
}

func TestCreateProject(t *testing.T) {
	ta := setupApp(t)
	fields := `{"title":"Green Acres","price":"2500000","totalArea":"1800","unit":"sqft","locationTitle":"Vizag","category":"villa","bhk":"3BHK","approvalType":"rera"}`

	req := multipartRequest(t, "/api/v1/projects/create",
		map[string]string{"formFields": fields},
		[]part{pngPart("thumbnail", "thumb.png"), pngPart("listingPhotos", "a.png"), pngPart("listingPhotos[]", "b.png")},
		adminCookie)
	resp, body := ta.do(t, req)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %v", resp.StatusCode, body)
	}

	project := body["project"].(map[string]interface{})
	if project["price"] != float64(2500000) || project["status"] != "available" || project["live"] != false {
		t.Errorf("Unexpected project fields %v", project)
	}
	if project["creator"] != "admin@example.com" {
		t.Errorf("Expected creator from the session, got %v", project["creator"])
	}
	thumb := project["thumbnail"].(map[string]interface{})
	if !strings.HasPrefix(thumb["assetId"].(string), "srisai-projects/") {
		t.Errorf("Expected thumbnail in the project folder, got %v", thumb)
	}
	if got := len(project["listingPhotoPaths"].([]interface{})); got != 2 {
		t.Errorf("Expected 2 gallery images, got %d", got)
	}
	if ta.backend.Len() != 3 {
		t.Errorf("Expected 3 stored objects, got %d", ta.backend.Len())
	}
}

func TestCreateProjectRequiresAdmin(t *testing.T) {
	ta := setupApp(t)
	req := multipartRequest(t, "/api/v1/projects/create",
		map[string]string{"formFields": `{"title":"x"}`}, []part{pngPart("thumbnail", "t.png")}, "")
	resp, _ := ta.do(t, req)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("Expected status 403, got %d", resp.StatusCode)
	}
	if ta.backend.Len() != 0 {
		t.Error("Expected no uploads for an unauthorized request")
	}
}

func TestCreateProjectValidation(t *testing.T) {
	ta := setupApp(t)
	req := multipartRequest(t, "/api/v1/projects/create",
		map[string]string{"formFields": `{"title":"","price":"-5"}`},
		[]part{{field: "thumbnail", name: "doc.pdf", contentType: "application/pdf", content: []byte("%PDF-1.4")}},
		adminCookie)
	resp, body := ta.do(t, req)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", resp.StatusCode)
	}

	fields := map[string]bool{}
	for _, e := range body["errors"].([]interface{}) {
		fields[e.(map[string]interface{})["field"].(string)] = true
	}
	for _, want := range []string{"title", "price", "totalArea", "locationTitle", "thumbnail"} {
		if !fields[want] {
			t.Errorf("Expected a validation error for %s, got %v", want, body["errors"])
		}
	}
	if ta.backend.Len() != 0 {
		t.Error("Expected nothing uploaded after a validation failure")
	}
}

func TestCreateProjectOversizedFile(t *testing.T) {
	ta := setupApp(t)
	big := append(testutil.PNG(), make([]byte, 2048)...)
	req := multipartRequest(t, "/api/v1/projects/create",
		map[string]string{"formFields": `{"title":"T","price":1,"totalArea":1,"locationTitle":"L"}`},
		[]part{{field: "thumbnail", name: "big.png", contentType: "image/png", content: big}},
		adminCookie)
	resp, _ := ta.do(t, req)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", resp.StatusCode)
	}
	if len(ta.backend.Puts()) != 0 {
		t.Error("Expected no transfer for an oversized file")
	}
}

func TestCreateProjectMediaFailure(t *testing.T) {
	ta := setupApp(t)
	ta.backend.FailPutAfter = 0
	req := multipartRequest(t, "/api/v1/projects/create",
		map[string]string{"formFields": `{"title":"T","price":1,"totalArea":1,"locationTitle":"L"}`},
		[]part{pngPart("thumbnail", "t.png")}, adminCookie)
	resp, body := ta.do(t, req)
	if resp.StatusCode != fiber.StatusBadGateway {
		t.Fatalf("Expected status 502, got %d", resp.StatusCode)
	}
	if body["type"] != "projects.create.media_store" {
		t.Errorf("Unexpected error type %v", body["type"])
	}

	var count int64
	ta.db.Model(&models.Project{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no project saved, got %d", count)
	}
}

func TestUpdateProject(t *testing.T) {
	ta := setupApp(t)
	ta.backend.Seed("srisai-projects/old-thumb", "srisai-projects/g1")
	seeded := ta.seed(t, models.Project{
		Title: "Before", Price: 1, TotalArea: 1,
		Thumbnail:         models.MediaAsset{URL: "https://media.test/srisai-projects/old-thumb", AssetID: "srisai-projects/old-thumb"},
		ListingPhotoPaths: models.MediaAssets{{URL: "https://media.test/srisai-projects/g1", AssetID: "srisai-projects/g1"}},
	})

	req := multipartRequest(t, "/api/v1/projects/update",
		map[string]string{
			"_id":           seeded[0].ID,
			"formFields":    `{"title":"After","live":"true"}`,
			"deletedImages": `["THUMBNAIL","srisai-projects/g1"]`,
		},
		[]part{pngPart("listingPhotos", "new.png")}, adminCookie)
	resp, body := ta.do(t, req)
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d: %v", resp.StatusCode, body)
	}

	project := body["project"].(map[string]interface{})
	if project["title"] != "After" || project["live"] != true {
		t.Errorf("Unexpected project %v", project)
	}
	if project["thumbnail"] != nil {
		t.Errorf("Expected thumbnail cleared, got %v", project["thumbnail"])
	}
	gallery := project["listingPhotoPaths"].([]interface{})
	if len(gallery) != 1 {
		t.Fatalf("Expected one gallery image, got %v", gallery)
	}
	if ta.backend.Has("srisai-projects/old-thumb") || ta.backend.Has("srisai-projects/g1") {
		t.Error("Expected removed assets deleted from the store")
	}
}

func TestUpdateProjectIDInFormFields(t *testing.T) {
	ta := setupApp(t)
	seeded := ta.seed(t, models.Project{Title: "Before", Price: 1, TotalArea: 1})

	req := multipartRequest(t, "/api/v1/projects/update",
		map[string]string{"formFields": fmt.Sprintf(`{"_id":%q,"price":"99"}`, seeded[0].ID)}, nil, adminCookie)
	resp, body := ta.do(t, req)
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d: %v", resp.StatusCode, body)
	}
	if body["project"].(map[string]interface{})["price"] != float64(99) {
		t.Errorf("Expected price 99, got %v", body["project"])
	}
}

func TestUpdateProjectBadDeletedImages(t *testing.T) {
	ta := setupApp(t)
	seeded := ta.seed(t, models.Project{Title: "Before", Price: 1, TotalArea: 1})

	req := multipartRequest(t, "/api/v1/projects/update",
		map[string]string{"_id": seeded[0].ID, "deletedImages": `[1,`}, nil, adminCookie)
	resp, _ := ta.do(t, req)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", resp.StatusCode)
	}
}

func TestUpdateProjectNotFound(t *testing.T) {
	ta := setupApp(t)
	req := multipartRequest(t, "/api/v1/projects/update",
		map[string]string{"_id": "nope", "formFields": `{"title":"x"}`}, nil, adminCookie)
	resp, _ := ta.do(t, req)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", resp.StatusCode)
	}
}

func TestDeleteProject(t *testing.T) {
	ta := setupApp(t)
	ta.backend.Seed("srisai-projects/t")
	seeded := ta.seed(t, models.Project{
		Title: "Doomed", Price: 1, TotalArea: 1,
		Thumbnail: models.MediaAsset{URL: "https://media.test/srisai-projects/t", AssetID: "srisai-projects/t"},
	})

	resp, body := ta.do(t, jsonRequest("/api/v1/projects/delete", map[string]string{"_id": seeded[0].ID}, adminCookie))
	if resp.StatusCode != 200 || body["status"] != true {
		t.Fatalf("Expected successful delete, got %d %v", resp.StatusCode, body)
	}
	if ta.backend.Has("srisai-projects/t") {
		t.Error("Expected the thumbnail removed from the store")
	}

	resp, _ = ta.do(t, jsonRequest("/api/v1/projects/delete", map[string]string{"_id": seeded[0].ID}, adminCookie))
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected status 404 on second delete, got %d", resp.StatusCode)
	}
}

func TestNotFoundRoute(t *testing.T) {
	ta := setupApp(t)
	resp, body := ta.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/nowhere", nil))
	if resp.StatusCode != fiber.StatusNotFound || body["status"] != false {
		t.Errorf("Expected 404 envelope, got %d %v", resp.StatusCode, body)
	}
}

func TestHealthz(t *testing.T) {
	db := testutil.NewTestDB(t)
	backend := testutil.NewFakeBackend()
	authzDown := false

	h := &handlers.HealthHandler{Health: &services.Health{
		Config: &config.Config{DBType: "sqlite", AuthzURL: "http://authorizer:8080"},
		DB:     db,
		Media:  media.NewAdapter(backend, media.Options{}, logger.NewNop()),
		Log:    logger.NewNop(),
		PingAuthorizer: func(string) error {
			if authzDown {
				return errors.New("connection refused")
			}
			return nil
		},
	}}
	app := fiber.New()
	app.Get("/healthz", h.Healthz)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	var result map[string]interface{}
	testutil.ParseJSON(t, resp, &result)
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	if result["cache"] != "disabled" || result["mediaStore"] != "ok" {
		t.Errorf("Unexpected health %v", result)
	}

	authzDown = true
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	testutil.ParseJSON(t, resp, &result)
	testutil.AssertStatus(t, resp, fiber.StatusServiceUnavailable)
	if result["authorizer"] != "unreachable" {
		t.Errorf("Expected authorizer unreachable, got %v", result["authorizer"])
	}
}

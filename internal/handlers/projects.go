// projects.go
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

package handlers

import (
	"encoding/json"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/middleware"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/models"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/services"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/types"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// ProjectHandler handles the catalog and admin project endpoints
type ProjectHandler struct {
	Catalog        *services.Catalog
	Mutations      *services.Mutations
	MaxUploadBytes int64
}

// ListResponse is the body of the list endpoints
type ListResponse struct {
	Status     bool                `json:"status"`
	Projects   []models.Project    `json:"projects"`
	Pagination services.Pagination `json:"pagination"`
}

// ProjectsResponse is the body of the also-like and top endpoints
type ProjectsResponse struct {
	Status   bool             `json:"status"`
	Projects []models.Project `json:"projects"`
}

// ProjectResponse carries one project
type ProjectResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message,omitempty"`
	Project *models.Project `json:"project"`
}

// StatusResponse is the body of a successful delete
type StatusResponse struct {
	Status bool `json:"status"`
}

// IDRequest is the body of getProject and delete
type IDRequest struct {
	ID string `json:"_id" form:"_id"`
}

// Register mounts the project routes on router.
func (h *ProjectHandler) Register(router fiber.Router, validate services.SessionValidator) {
	projects := router.Group("/projects")

	projects.Get("/", middleware.AdminScope(validate), h.ListProjects)
	projects.Get("/paginated", middleware.AdminScope(validate), h.ListProjects)
	projects.Get("/top", h.TopProjects)
	projects.Get("/also-like/:id", h.AlsoLike)
	projects.Post("/getProject", h.GetProject)

	admin := middleware.AuthAdmin(validate)
	projects.Post("/create", admin, h.CreateProject)
	projects.Post("/update", admin, h.UpdateProject)
	projects.Post("/delete", admin, h.DeleteProject)
}

// ListProjects godoc
// @Summary List projects
// @Description Filtered, sorted and paginated catalog. admin=true includes projects that are not live and requires an admin session.
// @Tags projects
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Items per page (max 50)"
// @Param search query string false "Case-insensitive search over title, category, location and description"
// @Param status query string false "Status filter"
// @Param category query string false "Category, or residential_group / commercial_group"
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Param area query number false "Minimum total area"
// @Param sort query string false "newest, price-asc or price-desc"
// @Param admin query bool false "Admin scope"
// @Success 200 {object} ListResponse
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /projects [get]
func (h *ProjectHandler) ListProjects(c *fiber.Ctx) error {
	q := services.ParseListQuery(queryParams(c), middleware.ScopeFrom(c))

	page, err := h.Catalog.List(c.UserContext(), q)
	if err != nil {
		return respondError(c, err, "projects.list")
	}

	return utils.SuccessResponse(c, ListResponse{
		Status:     true,
		Projects:   page.Items,
		Pagination: page.Pagination,
	}, fiber.StatusOK)
}

// AlsoLike godoc
// @Summary Related projects
// @Description Live projects other than :id, optionally in one category, newest first
// @Tags projects
// @Produce json
// @Param id path string true "Project id to exclude"
// @Param category query string false "Category"
// @Success 200 {object} ProjectsResponse
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /projects/also-like/{id} [get]
func (h *ProjectHandler) AlsoLike(c *fiber.Ctx) error {
	projects, err := h.Catalog.AlsoLike(c.UserContext(), c.Params("id"), strings.TrimSpace(c.Query("category")))
	if err != nil {
		return respondError(c, err, "projects.alsoLike")
	}
	return utils.SuccessResponse(c, ProjectsResponse{Status: true, Projects: projects}, fiber.StatusOK)
}

// TopProjects godoc
// @Summary Featured projects
// @Description Live projects flagged as top projects, newest first
// @Tags projects
// @Produce json
// @Param limit query int false "Maximum results"
// @Success 200 {object} ProjectsResponse
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /projects/top [get]
func (h *ProjectHandler) TopProjects(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))

	projects, err := h.Catalog.Top(c.UserContext(), limit)
	if err != nil {
		return respondError(c, err, "projects.top")
	}
	return utils.SuccessResponse(c, ProjectsResponse{Status: true, Projects: projects}, fiber.StatusOK)
}

// GetProject godoc
// @Summary Get a project
// @Description Returns one project by id, live or not
// @Tags projects
// @Accept json
// @Produce json
// @Param request body IDRequest true "Project id"
// @Success 200 {object} ProjectResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /projects/getProject [post]
func (h *ProjectHandler) GetProject(c *fiber.Ctx) error {
	id, err := bodyID(c)
	if err != nil {
		return respondError(c, err, "projects.get")
	}

	p, err := h.Catalog.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "projects.get")
	}
	return utils.SuccessResponse(c, ProjectResponse{Status: true, Project: p}, fiber.StatusOK)
}

// CreateProject godoc
// @Summary Create a project
// @Description Multipart form: formFields (JSON object), thumbnail, floorImage, listingPhotos
// @Tags projects
// @Accept mpfd
// @Produce json
// @Param formFields formData string true "Project fields as JSON"
// @Param thumbnail formData file false "Thumbnail image"
// @Param floorImage formData file false "Floor plan image"
// @Param listingPhotos formData file false "Gallery images"
// @Success 201 {object} ProjectResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /projects/create [post]
func (h *ProjectHandler) CreateProject(c *fiber.Ctx) error {
	form, err := multipartForm(c)
	if err != nil {
		return respondError(c, err, "projects.create")
	}
	files, err := attachments(form, h.MaxUploadBytes)
	if err != nil {
		return err
	}

	p, err := h.Mutations.Create(c.UserContext(), services.CreateCommand{
		Fields:  formValue(c, form, "formFields"),
		Files:   files,
		Creator: creatorFromLocals(c),
	})
	if err != nil {
		return respondError(c, err, "projects.create")
	}

	return utils.SuccessResponse(c, ProjectResponse{
		Status:  true,
		Message: "Project created successfully",
		Project: p,
	}, fiber.StatusCreated)
}

// UpdateProject godoc
// @Summary Update a project
// @Description Multipart form: _id, formFields (JSON object), deletedImages (JSON array of asset ids or THUMBNAIL / FLOOR_IMAGE), thumbnail, floorImage, listingPhotos
// @Tags projects
// @Accept mpfd
// @Produce json
// @Param _id formData string true "Project id"
// @Param formFields formData string false "Changed fields as JSON"
// @Param deletedImages formData string false "Assets to remove"
// @Param thumbnail formData file false "Replacement thumbnail"
// @Param floorImage formData file false "Replacement floor plan"
// @Param listingPhotos formData file false "Gallery images to append"
// @Success 200 {object} ProjectResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /projects/update [post]
func (h *ProjectHandler) UpdateProject(c *fiber.Ctx) error {
	form, err := multipartForm(c)
	if err != nil {
		return respondError(c, err, "projects.update")
	}

	fields := formValue(c, form, "formFields")
	id := strings.TrimSpace(formValue(c, form, "_id"))
	if id == "" {
		id = idFromFields(fields)
	}

	deleted, err := deletedImages(c, form)
	if err != nil {
		return respondError(c, err, "projects.update")
	}
	files, err := attachments(form, h.MaxUploadBytes)
	if err != nil {
		return err
	}

	p, err := h.Mutations.Update(c.UserContext(), services.UpdateCommand{
		ID:            id,
		Fields:        fields,
		DeletedImages: deleted,
		Files:         files,
	})
	if err != nil {
		return respondError(c, err, "projects.update")
	}

	return utils.SuccessResponse(c, ProjectResponse{
		Status:  true,
		Message: "Project updated successfully",
		Project: p,
	}, fiber.StatusOK)
}

// DeleteProject godoc
// @Summary Delete a project
// @Description Removes the project and every image it references
// @Tags projects
// @Accept json
// @Produce json
// @Param request body IDRequest true "Project id"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /projects/delete [post]
func (h *ProjectHandler) DeleteProject(c *fiber.Ctx) error {
	id, err := bodyID(c)
	if err != nil {
		return respondError(c, err, "projects.delete")
	}

	if err := h.Mutations.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err, "projects.delete")
	}
	return utils.SuccessResponse(c, StatusResponse{Status: true}, fiber.StatusOK)
}

// bodyID reads _id from a JSON or form body.
func bodyID(c *fiber.Ctx) (string, error) {
	var req IDRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return "", types.NewValidationError("invalid request body", types.FieldError{Field: "body", Message: err.Error()})
		}
	}
	return strings.TrimSpace(req.ID), nil
}

// idFromFields lets update carry _id inside formFields.
func idFromFields(fields string) string {
	var req IDRequest
	if err := json.Unmarshal([]byte(fields), &req); err != nil {
		return ""
	}
	return strings.TrimSpace(req.ID)
}

// deletedImages reads deletedImages, or repeated deletedImages[] parts.
func deletedImages(c *fiber.Ctx, form *multipart.Form) ([]string, error) {
	if form != nil {
		if list := form.Value["deletedImages[]"]; len(list) > 0 {
			return types.FlexList[string](list).Unique(), nil
		}
	}
	return parseDeletedImages(formValue(c, form, "deletedImages"))
}

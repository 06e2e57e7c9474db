// common.go
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
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/media"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/services"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/types"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// statusForCode maps the error taxonomy onto HTTP statuses.
var statusForCode = map[types.Code]int{
	types.CodeValidation:   fiber.StatusBadRequest,
	types.CodeNotFound:     fiber.StatusNotFound,
	types.CodeMediaStore:   fiber.StatusBadGateway,
	types.CodePersistence:  fiber.StatusInternalServerError,
	types.CodeUnauthorized: fiber.StatusForbidden,
}

// respondError renders err with the standard error envelope.
func respondError(c *fiber.Ctx, err error, errorType string) error {
	var ae *types.AppError
	if errors.As(err, &ae) {
		status, ok := statusForCode[ae.Code]
		if !ok {
			status = fiber.StatusInternalServerError
		}
		return utils.ValidationErrorResponse(c, ae.Message, status, errorType+"."+string(ae.Code), ae.Fields)
	}
	var ce *types.CustomError
	if errors.As(err, &ce) {
		return utils.ErrorResponse(c, ce.Message, ce.Code, ce.Type)
	}
	return err
}

// queryParams collects the query string, the last value winning for repeated keys.
func queryParams(c *fiber.Ctx) map[string]string {
	params := c.Queries()
	for key, value := range params {
		params[key] = strings.TrimSpace(value)
	}
	return params
}

// multipartForm returns nil for requests that are not multipart.
func multipartForm(c *fiber.Ctx) (*multipart.Form, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, fasthttp.ErrNoMultipartForm) {
			return nil, nil
		}
		return nil, types.NewValidationError("invalid multipart body", types.FieldError{Field: "body", Message: err.Error()})
	}
	return form, nil
}

// formValue reads a text part, falling back to url-encoded bodies.
func formValue(c *fiber.Ctx, form *multipart.Form, key string) string {
	if form != nil {
		if v := form.Value[key]; len(v) > 0 {
			return v[0]
		}
	}
	return c.FormValue(key)
}

// readFile loads one uploaded part. Oversized parts are not read; their declared
// size is enough for validation to reject them.
func readFile(fh *multipart.FileHeader, maxBytes int64) (media.File, error) {
	f := media.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return f, nil
	}
	src, err := fh.Open()
	if err != nil {
		return f, err
	}
	defer src.Close()
	f.Content, err = io.ReadAll(src)
	return f, err
}

// attachments gathers the thumbnail, floorImage and listingPhotos parts.
func attachments(form *multipart.Form, maxBytes int64) (services.Attachments, error) {
	var att services.Attachments
	if form == nil {
		return att, nil
	}

	single := func(key string) (*media.File, error) {
		files := form.File[key]
		if len(files) == 0 {
			return nil, nil
		}
		f, err := readFile(files[0], maxBytes)
		if err != nil {
			return nil, err
		}
		return &f, nil
	}

	var err error
	if att.Thumbnail, err = single("thumbnail"); err != nil {
		return att, err
	}
	if att.FloorImage, err = single("floorImage"); err != nil {
		return att, err
	}
	for _, key := range []string{"listingPhotos", "listingPhotos[]"} {
		for _, fh := range form.File[key] {
			f, err := readFile(fh, maxBytes)
			if err != nil {
				return att, err
			}
			att.ListingPhotos = append(att.ListingPhotos, f)
		}
	}
	return att, nil
}

// parseDeletedImages accepts a JSON array, a single JSON string or a bare id.
func parseDeletedImages(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if raw[0] != '[' && raw[0] != '"' {
		return []string{raw}, nil
	}
	var list types.FlexList[string]
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, types.NewValidationError("invalid request", types.FieldError{
			Field:   "deletedImages",
			Message: "must be a JSON array of asset ids",
		})
	}
	return list.Unique(), nil
}

// creatorFromLocals extracts the admin's email (or id) from the validated session.
func creatorFromLocals(c *fiber.Ctx) string {
	user := c.Locals("user")
	if user == nil {
		return ""
	}
	b, err := json.Marshal(user)
	if err != nil {
		return ""
	}
	var u struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(b, &u); err != nil {
		return ""
	}
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}

// ErrorHandler renders anything a handler or middleware returned without responding.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var ce *types.CustomError
	if errors.As(err, &ce) {
		return utils.ErrorResponse(c, ce.Message, ce.Code, ce.Type)
	}
	var ae *types.AppError
	if errors.As(err, &ae) {
		return respondError(c, err, "projects")
	}

	code := fiber.StatusInternalServerError
	message := "Internal Server Error"
	errorType := "unknown"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
		errorType = "http"
	}
	return utils.ErrorResponse(c, message, code, errorType)
}

// NotFound is the catch-all route.
func NotFound(c *fiber.Ctx) error {
	return utils.NotFoundResponse(c, "[404] Resource Not Found")
}

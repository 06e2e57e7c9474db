// mutation.go
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

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/logger"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/media"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/models"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/types"
	"gorm.io/gorm"
)

// Deletion tokens for the singular media slots.
const (
	DeleteThumbnail  = "THUMBNAIL"
	DeleteFloorImage = "FLOOR_IMAGE"
)

// Attachments are the image parts of a create or update form.
type Attachments struct {
	Thumbnail     *media.File
	FloorImage    *media.File
	ListingPhotos []media.File
}

// CreateCommand is a parsed create request.
type CreateCommand struct {
	Fields  string // formFields JSON
	Files   Attachments
	Creator string
}

// UpdateCommand is a parsed update request.
type UpdateCommand struct {
	ID            string
	Fields        string
	DeletedImages []string // asset ids, or DeleteThumbnail / DeleteFloorImage
	Files         Attachments
}

// MutationOptions carry the upload policy.
type MutationOptions struct {
	RequireThumbnail  bool
	MaxGalleryUploads int
}

// Mutations runs create, update and delete against the record store and media store.
// Concurrent updates to one project are last-write-wins; there is no version check.
type Mutations struct {
	db    *gorm.DB
	media *media.Adapter
	cache *Cache
	log   *logger.Logger
	opts  MutationOptions
}

// NewMutations builds the mutation engine over the writer pool.
func NewMutations(db *gorm.DB, store *media.Adapter, cache *Cache, log *logger.Logger, opts MutationOptions) *Mutations {
	if opts.MaxGalleryUploads <= 0 {
		opts.MaxGalleryUploads = 10
	}
	return &Mutations{db: db, media: store, cache: cache, log: log.With("component", "mutations"), opts: opts}
}

// uploaded holds the assets stored during one request.
type uploaded struct {
	thumbnail  models.MediaAsset
	floorImage models.MediaAsset
	gallery    []models.MediaAsset
}

func (u uploaded) ids() []string {
	var ids []string
	for _, a := range append([]models.MediaAsset{u.thumbnail, u.floorImage}, u.gallery...) {
		if a.AssetID != "" {
			ids = append(ids, a.AssetID)
		}
	}
	return ids
}

// validateFiles checks every attachment so a bad file rejects the request before any upload.
func (m *Mutations) validateFiles(files Attachments, errs *types.ValidationErrors) {
	check := func(field string, f media.File) {
		err := m.media.Validate(field, f)
		var ae *types.AppError
		if errors.As(err, &ae) {
			for _, fe := range ae.Fields {
				errs.Add(fe.Field, fe.Message)
			}
		}
	}
	if files.Thumbnail != nil {
		check("thumbnail", *files.Thumbnail)
	}
	if files.FloorImage != nil {
		check("floorImage", *files.FloorImage)
	}
	if len(files.ListingPhotos) > m.opts.MaxGalleryUploads {
		errs.Add("listingPhotos", fmt.Sprintf("at most %d photos per request", m.opts.MaxGalleryUploads))
	}
	for _, f := range files.ListingPhotos {
		check("listingPhotos", f)
	}
}

// upload stores every attachment in order. On failure the assets already stored by
// this request are removed before the error is returned.
func (m *Mutations) upload(ctx context.Context, files Attachments) (uploaded, error) {
	var up uploaded
	var err error

	if files.Thumbnail != nil {
		if up.thumbnail, err = m.media.Upload(ctx, "thumbnail", *files.Thumbnail); err != nil {
			return uploaded{}, m.rollback(ctx, up, err)
		}
	}
	if files.FloorImage != nil {
		if up.floorImage, err = m.media.Upload(ctx, "floorImage", *files.FloorImage); err != nil {
			return uploaded{}, m.rollback(ctx, up, err)
		}
	}
	for _, f := range files.ListingPhotos {
		asset, err := m.media.Upload(ctx, "listingPhotos", f)
		if err != nil {
			return uploaded{}, m.rollback(ctx, up, err)
		}
		up.gallery = append(up.gallery, asset)
	}
	return up, nil
}

func (m *Mutations) rollback(ctx context.Context, up uploaded, cause error) error {
	ids := up.ids()
	if len(ids) > 0 {
		m.log.Warn("upload failed, removing assets stored by this request", "asset_ids", ids, "error", cause)
	}
	for _, id := range ids {
		m.media.Delete(context.WithoutCancel(ctx), id)
	}
	return cause
}

// Create validates the form, uploads its images and saves a new project.
func (m *Mutations) Create(ctx context.Context, cmd CreateCommand) (*models.Project, error) {
	fields, errs := decodeFields(cmd.Fields)
	fields.check(&errs)
	fields.requireForCreate(&errs)

	p := &models.Project{Creator: cmd.Creator}
	fields.apply(p)
	checkCategory(p, &errs)

	if m.opts.RequireThumbnail && cmd.Files.Thumbnail == nil {
		errs.Add("thumbnail", "is required")
	}
	m.validateFiles(cmd.Files, &errs)
	if err := errs.Err("validation failed"); err != nil {
		return nil, err
	}

	up, err := m.upload(ctx, cmd.Files)
	if err != nil {
		return nil, err
	}
	p.Thumbnail = up.thumbnail
	p.FloorImage = up.floorImage
	p.ListingPhotoPaths = models.MediaAssets(up.gallery)

	if err := m.db.WithContext(ctx).Create(p).Error; err != nil {
		// uploads are not rolled back here; the assets stay in the store unreferenced
		m.log.Error("project create failed after upload", "asset_ids", up.ids(), "error", err)
		return nil, types.NewPersistenceError("failed to save project", err)
	}

	m.cache.Invalidate(ctx)
	m.log.Info("project created", "project_id", p.ID, "assets", len(up.ids()))
	return p, nil
}

// Update merges the form into an existing project, swaps media and saves it.
// Replaced and removed assets are deleted only after the record no longer references them.
func (m *Mutations) Update(ctx context.Context, cmd UpdateCommand) (*models.Project, error) {
	existing, err := findProject(m.db.WithContext(ctx), cmd.ID)
	if err != nil {
		return nil, err
	}

	fields, errs := decodeFields(cmd.Fields)
	fields.check(&errs)

	updated := *existing
	fields.apply(&updated)
	checkCategory(&updated, &errs)
	m.validateFiles(cmd.Files, &errs)
	if err := errs.Err("validation failed"); err != nil {
		return nil, err
	}

	up, err := m.upload(ctx, cmd.Files)
	if err != nil {
		return nil, err
	}

	deleted := make(map[string]bool, len(cmd.DeletedImages))
	for _, id := range cmd.DeletedImages {
		if id = strings.TrimSpace(id); id != "" {
			deleted[id] = true
		}
	}

	var removed []string

	// gallery: survivors in their original order, then new arrivals
	gallery := make(models.MediaAssets, 0, len(existing.ListingPhotoPaths)+len(up.gallery))
	seen := make(map[string]bool, cap(gallery))
	for _, a := range existing.ListingPhotoPaths {
		if deleted[a.AssetID] {
			removed = append(removed, a.AssetID)
			continue
		}
		if seen[a.AssetID] {
			continue
		}
		seen[a.AssetID] = true
		gallery = append(gallery, a)
	}
	for _, a := range up.gallery {
		if !seen[a.AssetID] {
			seen[a.AssetID] = true
			gallery = append(gallery, a)
		}
	}
	updated.ListingPhotoPaths = gallery

	updated.Thumbnail, removed = reconcileSlot(existing.Thumbnail, up.thumbnail,
		deleted[DeleteThumbnail] || deleted[existing.Thumbnail.AssetID], removed)
	updated.FloorImage, removed = reconcileSlot(existing.FloorImage, up.floorImage,
		deleted[DeleteFloorImage] || deleted[existing.FloorImage.AssetID], removed)

	// never inserts: a project deleted since it was loaded stays deleted
	res := m.db.WithContext(ctx).Model(&updated).Select("*").Updates(&updated)
	if res.Error != nil {
		m.log.Error("project update failed after upload", "project_id", updated.ID, "asset_ids", up.ids(), "error", res.Error)
		return nil, types.NewPersistenceError("failed to save project", res.Error)
	}
	if res.RowsAffected == 0 {
		gone, err := m.projectGone(ctx, updated.ID)
		if err != nil {
			return nil, types.NewPersistenceError("failed to save project", err)
		}
		if gone {
			return nil, m.rollback(ctx, up, types.NewNotFoundError(fmt.Sprintf("project %s not found", updated.ID)))
		}
	}

	for _, id := range removed {
		m.media.Delete(ctx, id)
	}

	m.cache.Invalidate(ctx)
	m.log.Info("project updated", "project_id", updated.ID, "uploaded", len(up.ids()), "removed", len(removed))
	return &updated, nil
}

// projectGone reports whether the project no longer exists.
// MySQL counts unchanged rows as unaffected, so a zero row count alone is not proof.
func (m *Mutations) projectGone(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := m.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// reconcileSlot decides the new value of a singular media slot.
// A fresh upload replaces the old asset; an explicit removal clears it; otherwise it is untouched.
func reconcileSlot(old, fresh models.MediaAsset, remove bool, removed []string) (models.MediaAsset, []string) {
	switch {
	case !fresh.IsZero():
		if old.AssetID != "" {
			removed = append(removed, old.AssetID)
		}
		return fresh, removed
	case remove:
		if old.AssetID != "" {
			removed = append(removed, old.AssetID)
		}
		return models.MediaAsset{}, removed
	default:
		return old, removed
	}
}

// Delete removes every asset the project references, then the project itself.
func (m *Mutations) Delete(ctx context.Context, id string) error {
	p, err := findProject(m.db.WithContext(ctx), id)
	if err != nil {
		return err
	}

	for _, a := range p.Assets() {
		m.media.Delete(ctx, a.AssetID)
	}

	if err := m.db.WithContext(ctx).Where("id = ?", p.ID).Delete(&models.Project{}).Error; err != nil {
		return types.NewPersistenceError("failed to delete project", err)
	}

	m.cache.Invalidate(ctx)
	m.log.Info("project deleted", "project_id", p.ID)
	return nil
}

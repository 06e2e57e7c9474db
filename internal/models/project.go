// project.go
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

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project statuses. Any other value sorts after these in the default ordering.
const (
	StatusUpcoming      = "upcoming"
	StatusNewlyLaunched = "newly-launched"
	StatusAvailable     = "available"
	StatusSoldOut       = "sold-out"
)

// Area units.
const (
	UnitSqft  = "sqft"
	UnitAcre  = "Acre"
	UnitCents = "Cents"
)

// Project is a real-estate listing: a plot, layout, villa, house or apartment.
type Project struct {
	ID string `gorm:"type:char(36);primaryKey" json:"_id"`

	Title         string  `gorm:"size:255;not null" json:"title"`
	Price         float64 `gorm:"not null;index" json:"price"`
	TotalArea     float64 `gorm:"not null;index" json:"totalArea"`
	Unit          string  `gorm:"size:16" json:"unit,omitempty"`
	Category      string  `gorm:"size:64;index" json:"category"`
	LocationTitle string  `gorm:"size:255;not null" json:"locationTitle"`
	LocationLink  string  `gorm:"size:1024" json:"locationLink,omitempty"`
	Description   string  `gorm:"size:4000" json:"description,omitempty"`
	Status        string  `gorm:"size:32;not null;default:available;index" json:"status"`
	Live          bool    `gorm:"not null;default:false;index" json:"live"`
	TopProject    bool    `gorm:"not null;default:false;index" json:"topProject"`
	View          int64   `gorm:"not null;default:0" json:"view"`
	Creator       string  `gorm:"size:255" json:"creator,omitempty"`

	// Category-conditional
	BHK              string   `gorm:"column:bhk;size:32" json:"bhk,omitempty"`
	Balcony          *bool    `json:"balcony,omitempty"`
	Terrace          *bool    `json:"terrace,omitempty"`
	PlotNumber       *int64   `json:"plotNumber,omitempty"`
	StartingPlotSize *float64 `json:"startingPlotSize,omitempty"`
	StartingPlotUnit string   `gorm:"size:16" json:"startingPlotUnit,omitempty"`
	ApprovalType     Tags     `json:"approvalType"`

	// Media
	Thumbnail         MediaAsset  `json:"thumbnail"`
	FloorImage        MediaAsset  `json:"floorImage"`
	ListingPhotoPaths MediaAssets `json:"listingPhotoPaths"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Project.
func (Project) TableName() string {
	return "projects"
}

// BeforeCreate assigns the id and the defaults a zero-valued form leaves out.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = StatusAvailable
	}
	if p.ApprovalType == nil {
		p.ApprovalType = Tags{}
	}
	if p.ListingPhotoPaths == nil {
		p.ListingPhotoPaths = MediaAssets{}
	}
	return nil
}

// Assets lists every media asset the project references, singular slots first.
func (p *Project) Assets() []MediaAsset {
	out := make([]MediaAsset, 0, 2+len(p.ListingPhotoPaths))
	if !p.Thumbnail.IsZero() {
		out = append(out, p.Thumbnail)
	}
	if !p.FloorImage.IsZero() {
		out = append(out, p.FloorImage)
	}
	return append(out, p.ListingPhotoPaths...)
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// MediaAsset is a stored image: its public URL and the store-assigned id used to delete it.
// The zero value means "no asset" and is stored as NULL and rendered as null.
type MediaAsset struct {
	URL     string `json:"url"`
	AssetID string `json:"assetId"`
}

// IsZero reports whether the slot is empty.
func (m MediaAsset) IsZero() bool {
	return m.AssetID == "" && m.URL == ""
}

// MarshalJSON renders an empty slot as null.
func (m MediaAsset) MarshalJSON() ([]byte, error) {
	if m.IsZero() {
		return []byte("null"), nil
	}
	type plain MediaAsset
	return json.Marshal(plain(m))
}

// Value implements driver.Valuer.
func (m MediaAsset) Value() (driver.Value, error) {
	if m.IsZero() {
		return nil, nil
	}
	type plain MediaAsset
	return jsonValue(plain(m))
}

// Scan implements sql.Scanner.
func (m *MediaAsset) Scan(value any) error {
	*m = MediaAsset{}
	type plain MediaAsset
	var p plain
	if err := jsonScan(value, &p); err != nil {
		return err
	}
	*m = MediaAsset(p)
	return nil
}

// GormDataType is the generic data type used when no dialect match exists.
func (MediaAsset) GormDataType() string {
	return "json"
}

// GormDBDataType ensures the correct data type is used for each database driver.
func (MediaAsset) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return jsonDBDataType(db)
}

// MediaAssets is the ordered gallery of a project.
type MediaAssets []MediaAsset

// MarshalJSON renders a nil gallery as an empty array.
func (m MediaAssets) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]MediaAsset(m))
}

// Value implements driver.Valuer.
func (m MediaAssets) Value() (driver.Value, error) {
	if m == nil {
		return jsonValue([]MediaAsset{})
	}
	return jsonValue([]MediaAsset(m))
}

// Scan implements sql.Scanner.
func (m *MediaAssets) Scan(value any) error {
	var items []MediaAsset
	if err := jsonScan(value, &items); err != nil {
		return err
	}
	*m = items
	return nil
}

// GormDataType is the generic data type used when no dialect match exists.
func (MediaAssets) GormDataType() string {
	return "json"
}

// GormDBDataType ensures the correct data type is used for each database driver.
func (MediaAssets) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return jsonDBDataType(db)
}

// IDs returns the asset ids in gallery order.
func (m MediaAssets) IDs() []string {
	ids := make([]string, 0, len(m))
	for _, a := range m {
		ids = append(ids, a.AssetID)
	}
	return ids
}

// Tags is an order-insensitive set of strings, kept sorted and unique.
type Tags []string

// NewTags normalises values into a sorted set.
func NewTags(values ...string) Tags {
	seen := make(map[string]struct{}, len(values))
	out := make(Tags, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON renders nil as an empty array.
func (t Tags) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}

// Value implements driver.Valuer.
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return jsonValue([]string{})
	}
	return jsonValue([]string(t))
}

// Scan implements sql.Scanner.
func (t *Tags) Scan(value any) error {
	var items []string
	if err := jsonScan(value, &items); err != nil {
		return err
	}
	*t = items
	return nil
}

// GormDataType is the generic data type used when no dialect match exists.
func (Tags) GormDataType() string {
	return "json"
}

// GormDBDataType ensures the correct data type is used for each database driver.
func (Tags) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return jsonDBDataType(db)
}

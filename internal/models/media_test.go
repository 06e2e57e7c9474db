package models_test

import (
	"encoding/json"
	"testing"

	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/models"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/testutil"
)

func TestMediaAssetEmptyRendersNull(t *testing.T) {
	b, err := json.Marshal(struct {
		Thumbnail models.MediaAsset `json:"thumbnail"`
	}{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"thumbnail":null}` {
		t.Errorf("unexpected json %s", b)
	}

	v, err := models.MediaAsset{}.Value()
	if err != nil || v != nil {
		t.Errorf("expected NULL value, got %v (%v)", v, err)
	}
}

func TestTagsNormalised(t *testing.T) {
	tags := models.NewTags("RERA", "DTCP", "RERA", "")
	if len(tags) != 2 || tags[0] != "DTCP" || tags[1] != "RERA" {
		t.Errorf("unexpected tags %v", tags)
	}
}

func TestProjectRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)

	plots := int64(40)
	p := models.Project{
		Title:         "Green Meadows",
		Price:         1500000,
		TotalArea:     2400,
		Unit:          models.UnitSqft,
		Category:      "residential_layout",
		LocationTitle: "Shadnagar",
		PlotNumber:    &plots,
		ApprovalType:  models.NewTags("HMDA", "RERA"),
		FloorImage:    models.MediaAsset{URL: "https://cdn.example/f.png", AssetID: "srisai-projects/f.png"},
		ListingPhotoPaths: models.MediaAssets{
			{URL: "https://cdn.example/a.png", AssetID: "a"},
			{URL: "https://cdn.example/b.png", AssetID: "b"},
		},
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" {
		t.Fatal("expected generated id")
	}

	var got models.Project
	if err := db.First(&got, "id = ?", p.ID).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Status != models.StatusAvailable || got.Live || got.TopProject || got.View != 0 {
		t.Errorf("defaults not applied: %+v", got)
	}
	if !got.Thumbnail.IsZero() {
		t.Errorf("expected empty thumbnail, got %+v", got.Thumbnail)
	}
	if got.FloorImage.AssetID != "srisai-projects/f.png" {
		t.Errorf("floor image lost: %+v", got.FloorImage)
	}
	if ids := got.ListingPhotoPaths.IDs(); len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("gallery order lost: %v", ids)
	}
	if got.PlotNumber == nil || *got.PlotNumber != 40 {
		t.Errorf("plot number lost: %v", got.PlotNumber)
	}
	if got.StartingPlotSize != nil {
		t.Errorf("absent numeric should stay nil, got %v", *got.StartingPlotSize)
	}
	if len(got.Assets()) != 3 {
		t.Errorf("expected 3 assets, got %d", len(got.Assets()))
	}
}

package services

import (
	"testing"

	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/models"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/types"
)

func TestDecodeFieldsBlankNumbersAreAbsent(t *testing.T) {
	f, errs := decodeFields(`{"price":"","plotNumber":"","startingPlotSize":null,"live":"","title":"  Palm Grove "}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors %v", errs)
	}
	if f.Price != nil || f.PlotNumber != nil || f.Live != nil {
		t.Errorf("blank values should stay absent: %+v", f)
	}
	if f.Title == nil || *f.Title != "Palm Grove" {
		t.Errorf("title = %v", f.Title)
	}
	if !f.cleared["startingPlotSize"] {
		t.Error("explicit null should be recorded")
	}
}

func TestDecodeFieldsCollectsErrorsInKeyOrder(t *testing.T) {
	_, errs := decodeFields(`{"totalArea":"wide","price":"NaN","plotNumber":"3.5","live":"maybe","ignored":"x"}`)
	want := []string{"live", "plotNumber", "price", "totalArea"}
	if len(errs) != len(want) {
		t.Fatalf("errors = %v", errs)
	}
	for i, fe := range errs {
		if fe.Field != want[i] {
			t.Errorf("errs[%d] = %s, want %s", i, fe.Field, want[i])
		}
	}
}

func TestCheckNormalisesApprovalCase(t *testing.T) {
	f, errs := decodeFields(`{"approvalType":["hmda","Rera"]}`)
	f.check(&errs)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors %v", errs)
	}
	p := &models.Project{}
	f.apply(p)
	if len(p.ApprovalType) != 2 || p.ApprovalType[0] != "HMDA" || p.ApprovalType[1] != "RERA" {
		t.Errorf("approvalType = %v", p.ApprovalType)
	}
}

func TestCheckLocationLink(t *testing.T) {
	f, errs := decodeFields(`{"locationLink":"not a url"}`)
	f.check(&errs)
	if !errs.Has("locationLink") {
		t.Errorf("expected locationLink error, got %v", errs)
	}

	f, errs = decodeFields(`{"locationLink":""}`)
	f.check(&errs)
	if len(errs) != 0 {
		t.Errorf("empty link clears the field, got %v", errs)
	}
}

func TestCheckCategoryUnknownIsFreeForm(t *testing.T) {
	var errs types.ValidationErrors
	checkCategory(&models.Project{Category: "farmhouse", BHK: "4"}, &errs)
	if len(errs) != 0 {
		t.Errorf("unexpected errors %v", errs)
	}
}

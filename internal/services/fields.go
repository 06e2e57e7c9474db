package services

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/models"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/types"
	"github.com/go-playground/validator/v10"
)

// ProjectFields is the structured part of a create or update form.
// A nil pointer means the field was not supplied.
type ProjectFields struct {
	Title            *string  `json:"title" validate:"omitnil,min=1,max=255"`
	Price            *float64 `json:"price" validate:"omitnil,gte=0"`
	TotalArea        *float64 `json:"totalArea" validate:"omitnil,gte=0"`
	Unit             *string  `json:"unit" validate:"omitempty,oneof=sqft Acre Cents"`
	Category         *string  `json:"category" validate:"omitnil,max=64"`
	LocationTitle    *string  `json:"locationTitle" validate:"omitnil,min=1,max=255"`
	LocationLink     *string  `json:"locationLink" validate:"omitempty,url,max=1024"`
	Description      *string  `json:"description" validate:"omitnil,max=4000"`
	Status           *string  `json:"status" validate:"omitnil,oneof=available sold-out upcoming newly-launched"`
	Live             *bool    `json:"live"`
	TopProject       *bool    `json:"topProject"`
	BHK              *string  `json:"bhk" validate:"omitnil,max=32"`
	Balcony          *bool    `json:"balcony"`
	Terrace          *bool    `json:"terrace"`
	PlotNumber       *int64   `json:"plotNumber" validate:"omitnil,gte=0"`
	StartingPlotSize *float64 `json:"startingPlotSize" validate:"omitnil,gte=0"`
	StartingPlotUnit *string  `json:"startingPlotUnit" validate:"omitempty,oneof=sqft Acre Cents"`
	ApprovalType     []string `json:"approvalType"`

	// explicit JSON nulls, which clear optional fields on update
	cleared map[string]bool
}

// ApprovalVocabulary lists the regulatory approval codes a project may carry.
var ApprovalVocabulary = []string{"BMRDA", "DTCP", "GHMC", "HMDA", "RERA", "YTDA"}

type fieldKind int

const (
	kindString fieldKind = iota
	kindFloat
	kindInt
	kindBool
	kindTags
)

var fieldKinds = map[string]fieldKind{
	"title":            kindString,
	"price":            kindFloat,
	"totalArea":        kindFloat,
	"unit":             kindString,
	"category":         kindString,
	"locationTitle":    kindString,
	"locationLink":     kindString,
	"description":      kindString,
	"status":           kindString,
	"live":             kindBool,
	"topProject":       kindBool,
	"bhk":              kindString,
	"balcony":          kindBool,
	"terrace":          kindBool,
	"plotNumber":       kindInt,
	"startingPlotSize": kindFloat,
	"startingPlotUnit": kindString,
	"approvalType":     kindTags,
}

// decodeFields parses the formFields JSON object, coercing numeric and boolean strings.
// Empty strings for numbers, booleans and status mean "not supplied". Unknown keys are ignored.
func decodeFields(raw string) (ProjectFields, types.ValidationErrors) {
	var f ProjectFields
	var errs types.ValidationErrors

	if strings.TrimSpace(raw) == "" {
		return f, errs
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		errs.Add("formFields", "must be a JSON object")
		return f, errs
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		kind, known := fieldKinds[key]
		if !known {
			continue
		}
		v := m[key]
		if string(v) == "null" {
			if f.cleared == nil {
				f.cleared = map[string]bool{}
			}
			f.cleared[key] = true
			continue
		}
		if kind != kindString && kind != kindTags && isEmptyString(v) {
			continue
		}
		if err := f.set(key, kind, v); err != nil {
			errs.Add(key, err.Error())
		}
	}
	return f, errs
}

func isEmptyString(v json.RawMessage) bool {
	var s string
	return json.Unmarshal(v, &s) == nil && strings.TrimSpace(s) == ""
}

func (f *ProjectFields) set(key string, kind fieldKind, v json.RawMessage) error {
	switch kind {
	case kindString:
		s, err := decodeString(v)
		if err != nil {
			return err
		}
		f.setString(key, s)
	case kindFloat:
		var n types.FlexFloat64
		if err := json.Unmarshal(v, &n); err != nil {
			return fmt.Errorf("must be a number")
		}
		x := n.Float64()
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("must be a finite number")
		}
		switch key {
		case "price":
			f.Price = &x
		case "totalArea":
			f.TotalArea = &x
		case "startingPlotSize":
			f.StartingPlotSize = &x
		}
	case kindInt:
		var n types.FlexInt64
		if err := json.Unmarshal(v, &n); err != nil {
			return fmt.Errorf("must be a whole number")
		}
		x := n.Int64()
		f.PlotNumber = &x
	case kindBool:
		var b types.FlexBool
		if err := json.Unmarshal(v, &b); err != nil {
			return fmt.Errorf("must be true or false")
		}
		x := b.Bool()
		switch key {
		case "live":
			f.Live = &x
		case "topProject":
			f.TopProject = &x
		case "balcony":
			f.Balcony = &x
		case "terrace":
			f.Terrace = &x
		}
	case kindTags:
		var list types.FlexList[string]
		if err := json.Unmarshal(v, &list); err != nil {
			return fmt.Errorf("must be a list of approval codes")
		}
		tags := make([]string, 0, len(list))
		for _, t := range list {
			// a lone comma-separated string is also accepted
			for _, part := range strings.Split(t, ",") {
				if part = strings.TrimSpace(part); part != "" {
					tags = append(tags, part)
				}
			}
		}
		f.ApprovalType = tags
	}
	return nil
}

func (f *ProjectFields) setString(key, s string) {
	s = strings.TrimSpace(s)
	switch key {
	case "title":
		f.Title = &s
	case "unit":
		f.Unit = &s
	case "category":
		f.Category = &s
	case "locationTitle":
		f.LocationTitle = &s
	case "locationLink":
		f.LocationLink = &s
	case "description":
		f.Description = &s
	case "status":
		if s != "" {
			f.Status = &s
		}
	case "bhk":
		f.BHK = &s
	case "startingPlotUnit":
		f.StartingPlotUnit = &s
	}
}

// decodeString accepts a JSON string or a bare number ("bhk": 3).
func decodeString(v json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("must be text")
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func fieldValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// check runs tag validation and the approval vocabulary, skipping fields that already failed to decode.
func (f *ProjectFields) check(errs *types.ValidationErrors) {
	if err := fieldValidator().Struct(f); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				if !errs.Has(fe.Field()) {
					errs.Add(fe.Field(), validationMessage(fe))
				}
			}
		} else {
			errs.Add("formFields", err.Error())
		}
	}

	if len(f.ApprovalType) > 0 {
		allowed := make(map[string]bool, len(ApprovalVocabulary))
		for _, a := range ApprovalVocabulary {
			allowed[a] = true
		}
		var unknown []string
		for i, t := range f.ApprovalType {
			upper := strings.ToUpper(t)
			f.ApprovalType[i] = upper
			if !allowed[upper] {
				unknown = append(unknown, t)
			}
		}
		if len(unknown) > 0 {
			errs.Add("approvalType", fmt.Sprintf("unknown approval codes %s, allowed: %s",
				strings.Join(unknown, ", "), strings.Join(ApprovalVocabulary, ", ")))
		}
	}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return "must not be empty"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return "must not be negative"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "url":
		return "must be a valid URL"
	}
	return "is invalid"
}

// requireForCreate reports the fields every new project must carry.
func (f *ProjectFields) requireForCreate(errs *types.ValidationErrors) {
	if (f.Title == nil || *f.Title == "") && !errs.Has("title") {
		errs.Add("title", "is required")
	}
	if f.Price == nil && !errs.Has("price") {
		errs.Add("price", "is required")
	}
	if f.TotalArea == nil && !errs.Has("totalArea") {
		errs.Add("totalArea", "is required")
	}
	if (f.LocationTitle == nil || *f.LocationTitle == "") && !errs.Has("locationTitle") {
		errs.Add("locationTitle", "is required")
	}
}

// apply merges the supplied fields into p. Explicit nulls clear optional fields.
func (f *ProjectFields) apply(p *models.Project) {
	if f.Title != nil {
		p.Title = *f.Title
	}
	if f.Price != nil {
		p.Price = *f.Price
	}
	if f.TotalArea != nil {
		p.TotalArea = *f.TotalArea
	}
	if f.Unit != nil {
		p.Unit = *f.Unit
	}
	if f.Category != nil {
		p.Category = *f.Category
	}
	if f.LocationTitle != nil {
		p.LocationTitle = *f.LocationTitle
	}
	if f.LocationLink != nil {
		p.LocationLink = *f.LocationLink
	}
	if f.Description != nil {
		p.Description = *f.Description
	}
	if f.Status != nil {
		p.Status = *f.Status
	}
	if f.Live != nil {
		p.Live = *f.Live
	}
	if f.TopProject != nil {
		p.TopProject = *f.TopProject
	}
	if f.BHK != nil {
		p.BHK = *f.BHK
	}
	if f.Balcony != nil {
		p.Balcony = f.Balcony
	}
	if f.Terrace != nil {
		p.Terrace = f.Terrace
	}
	if f.PlotNumber != nil {
		p.PlotNumber = f.PlotNumber
	}
	if f.StartingPlotSize != nil {
		p.StartingPlotSize = f.StartingPlotSize
	}
	if f.StartingPlotUnit != nil {
		p.StartingPlotUnit = *f.StartingPlotUnit
	}
	if f.ApprovalType != nil {
		p.ApprovalType = models.NewTags(f.ApprovalType...)
	}

	for key := range f.cleared {
		switch key {
		case "unit":
			p.Unit = ""
		case "locationLink":
			p.LocationLink = ""
		case "description":
			p.Description = ""
		case "bhk":
			p.BHK = ""
		case "balcony":
			p.Balcony = nil
		case "terrace":
			p.Terrace = nil
		case "plotNumber":
			p.PlotNumber = nil
		case "startingPlotSize":
			p.StartingPlotSize = nil
		case "startingPlotUnit":
			p.StartingPlotUnit = ""
		case "approvalType":
			p.ApprovalType = models.Tags{}
		}
	}
}

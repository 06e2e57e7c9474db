package services

import (
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/models"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/types"
)

// categoryRule lists the conditional fields a category must and must not carry.
type categoryRule struct {
	required  []string
	forbidden []string
}

var (
	plotRule = categoryRule{
		forbidden: []string{"bhk", "startingPlotSize", "startingPlotUnit"},
	}
	layoutRule = categoryRule{
		required:  []string{"startingPlotSize", "startingPlotUnit"},
		forbidden: []string{"bhk", "balcony", "terrace"},
	}
	homeRule = categoryRule{
		required:  []string{"bhk"},
		forbidden: []string{"startingPlotSize", "startingPlotUnit"},
	}
)

// Categories not listed are free-form and carry no conditional rules.
var categoryRules = map[string]categoryRule{
	"residential":        plotRule,
	"commercial":         plotRule,
	"agricultural":       plotRule,
	"residential_layout": layoutRule,
	"commercial_layout":  layoutRule,
	"villa":              homeRule,
	"apartment":          homeRule,
	"house":              homeRule,
}

// conditionalPresent reports whether p carries a value for a category-conditional field.
// An unchecked amenity box counts as absent.
func conditionalPresent(p *models.Project, field string) bool {
	switch field {
	case "bhk":
		return p.BHK != ""
	case "balcony":
		return p.Balcony != nil && *p.Balcony
	case "terrace":
		return p.Terrace != nil && *p.Terrace
	case "plotNumber":
		return p.PlotNumber != nil
	case "startingPlotSize":
		return p.StartingPlotSize != nil
	case "startingPlotUnit":
		return p.StartingPlotUnit != ""
	}
	return false
}

// checkCategory validates the merged record against its category's rule.
func checkCategory(p *models.Project, errs *types.ValidationErrors) {
	rule, ok := categoryRules[p.Category]
	if !ok {
		return
	}
	for _, field := range rule.required {
		if !conditionalPresent(p, field) && !errs.Has(field) {
			errs.Add(field, "is required for category "+p.Category)
		}
	}
	for _, field := range rule.forbidden {
		if conditionalPresent(p, field) && !errs.Has(field) {
			errs.Add(field, "is not allowed for category "+p.Category)
		}
	}
}

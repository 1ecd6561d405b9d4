package extract

import (
	"strings"

	"insights/pkg/models"
)

// assemble turns per-family matches into the result categories.
func (e *Engine) assemble(result *models.InsightsResult, byFamily map[Family][]canonicalMatch) {
	values := func(f Family) []string {
		out := make([]string, 0, len(byFamily[f]))
		for _, m := range byFamily[f] {
			out = append(out, m.value)
		}
		return out
	}

	result.TechnicalSpecs.Dimensions = DedupeExact(values(FamilyDimension))
	result.TechnicalSpecs.Formats = Dedupe(values(FamilyFormat))
	result.TechnicalSpecs.FileSizes = DedupeExact(values(FamilyFileSize))

	result.BrandGuidelines.Colors = Dedupe(values(FamilyColor))
	result.BrandGuidelines.Fonts = Dedupe(values(FamilyFont))
	result.BrandGuidelines.Tone = Dedupe(values(FamilyTone))

	result.KPIs = assembleKPIs(byFamily[FamilyKPI])
	result.Deadlines = assembleDeadlines(byFamily[FamilyDeadline])
	result.ActionItems = assembleActionItems(byFamily[FamilyActionItem])
	result.Warnings = assembleWarnings(byFamily[FamilyWarning])
	result.CreativeRequirements = assembleCreative(byFamily[FamilyCreative], result)
}

func group(m canonicalMatch, i int) string {
	if i < len(m.Groups) {
		return m.Groups[i]
	}
	return ""
}

func assembleKPIs(matches []canonicalMatch) models.KPIs {
	kpis := make([]models.KPI, 0, len(matches))
	for _, m := range matches {
		name := group(m, 0)
		if name == "" {
			name = m.value
		}
		kpi := models.KPI{Name: name}
		if v := group(m, 1); v != "" {
			kpi.Value = &v
		}
		kpis = append(kpis, kpi)
	}
	return MergeKPIs(kpis)
}

var deadlineDescriptions = map[string]string{
	"submission": "Submission deadline",
	"launch":     "Launch date",
	"review":     "Review deadline",
	"final":      "Final deadline",
}

func assembleDeadlines(matches []canonicalMatch) []models.Deadline {
	deadlines := make([]models.Deadline, 0, len(matches))
	for _, m := range matches {
		date := group(m, 0)
		if date == "" {
			date = m.Text
		}
		kind := group(m, 1)
		deadlines = append(deadlines, models.Deadline{
			Date:        date,
			Type:        kind,
			Context:     m.Context,
			Description: deadlineDescriptions[kind],
		})
	}
	return DedupeDeadlines(deadlines)
}

func assembleActionItems(matches []canonicalMatch) []models.ActionItem {
	items := make([]models.ActionItem, 0, len(matches))
	for _, m := range matches {
		task := strings.TrimSpace(group(m, 0))
		if task == "" {
			task = m.Context
		}
		priority := models.Priority(group(m, 1))
		if priority == "" {
			priority = models.PriorityUnspecified
		}
		items = append(items, models.ActionItem{Task: task, Priority: priority})
	}
	return DedupeActionItems(items)
}

func assembleWarnings(matches []canonicalMatch) []models.Warning {
	warnings := make([]models.Warning, 0, len(matches))
	for _, m := range matches {
		message := strings.TrimSpace(group(m, 0))
		if message == "" {
			message = m.Context
		}
		severity := models.Severity(group(m, 2))
		if severity == "" {
			severity = models.SeverityLow
		}
		warnings = append(warnings, models.Warning{
			Message:  message,
			Keyword:  group(m, 1),
			Severity: severity,
		})
	}
	return DedupeWarnings(warnings)
}

// assembleCreative lists required elements first, then the items derived
// from the brand and technical categories.
func assembleCreative(matches []canonicalMatch, result *models.InsightsResult) models.CreativeRequirements {
	var mustHave, optional []string
	for _, m := range matches {
		element := group(m, 0)
		if element == "" {
			element = m.value
		}
		item := "Include " + element
		if group(m, 1) == tierOptional {
			optional = append(optional, item)
		} else {
			mustHave = append(mustHave, item)
		}
	}

	if len(result.BrandGuidelines.Colors) > 0 {
		mustHave = append(mustHave, "Use specified brand colors")
	}
	if len(result.BrandGuidelines.Fonts) > 0 {
		mustHave = append(mustHave, "Use specified fonts/typography")
	}
	if formats := result.TechnicalSpecs.Formats; len(formats) > 0 {
		mustHave = append(mustHave, "Use file formats: "+strings.Join(formats[:min(3, len(formats))], ", "))
	}

	mustHave = Dedupe(mustHave)
	required := make(map[string]bool, len(mustHave))
	for _, item := range mustHave {
		required[foldKey(item)] = true
	}
	kept := make([]string, 0, len(optional))
	for _, item := range Dedupe(optional) {
		if !required[foldKey(item)] {
			kept = append(kept, item)
		}
	}

	return models.CreativeRequirements{MustHave: mustHave, Optional: kept}
}

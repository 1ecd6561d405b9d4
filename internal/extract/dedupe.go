package extract

import (
	"sort"
	"time"

	"insights/pkg/models"
)

// Dedupe keeps the first occurrence of every value. Values that differ only
// in case or whitespace are equal.
func Dedupe(values []string) []string {
	return dedupeBy(values, foldKey)
}

// DedupeExact keeps the first occurrence of every value, comparing exactly.
// Used for numeric and hex values.
func DedupeExact(values []string) []string {
	return dedupeBy(values, func(s string) string { return s })
}

func dedupeBy(values []string, key func(string) string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		k := key(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

// MergeKPIs collapses repeated metrics into one entry per canonical name at
// the position of its first mention, keeping the first non-null value.
func MergeKPIs(kpis []models.KPI) models.KPIs {
	out := models.KPIs{}
	index := make(map[string]int, len(kpis))
	for _, k := range kpis {
		if i, ok := index[k.Name]; ok {
			if out[i].Value == nil && k.Value != nil {
				out[i].Value = k.Value
			}
			continue
		}
		index[k.Name] = len(out)
		out = append(out, k)
	}
	return out
}

// DedupeDeadlines drops repeated (date, type) pairs and, when every date
// parsed, orders the rest chronologically. Entries with equal dates keep
// their document order.
func DedupeDeadlines(deadlines []models.Deadline) []models.Deadline {
	out := make([]models.Deadline, 0, len(deadlines))
	seen := make(map[[2]string]struct{}, len(deadlines))
	allParsed := true
	for _, d := range deadlines {
		key := [2]string{foldKey(d.Date), d.Type}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if _, err := time.Parse(time.DateOnly, d.Date); err != nil {
			allParsed = false
		}
		out = append(out, d)
	}
	if allParsed {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Date < out[j].Date
		})
	}
	return out
}

// DedupeActionItems drops repeated tasks, keeping the first.
func DedupeActionItems(items []models.ActionItem) []models.ActionItem {
	out := make([]models.ActionItem, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		k := foldKey(item.Task)
		if _, ok := seen[k]; ok || k == "" {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

// DedupeWarnings drops repeated messages, keeping the first.
func DedupeWarnings(warnings []models.Warning) []models.Warning {
	out := make([]models.Warning, 0, len(warnings))
	seen := make(map[string]struct{}, len(warnings))
	for _, w := range warnings {
		k := foldKey(w.Message)
		if _, ok := seen[k]; ok || k == "" {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, w)
	}
	return out
}

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"insights/pkg/models"
)

func TestDedupe(t *testing.T) {
	got := Dedupe([]string{"Navy Blue", "navy  blue", "Red", "", "NAVY BLUE", "red"})
	assert.Equal(t, []string{"Navy Blue", "Red"}, got)
}

func TestDedupe_EmptyIsNotNil(t *testing.T) {
	assert.NotNil(t, Dedupe(nil))
	assert.Empty(t, Dedupe(nil))
}

func TestDedupeExact(t *testing.T) {
	got := DedupeExact([]string{"300x250", "300x250", "728x90"})
	assert.Equal(t, []string{"300x250", "728x90"}, got)
}

func TestMergeKPIs_FirstNonNullValue(t *testing.T) {
	v1, v2 := "2.5%", "3%"
	got := MergeKPIs([]models.KPI{
		{Name: "CTR"},
		{Name: "CPC"},
		{Name: "CTR", Value: &v1},
		{Name: "CTR", Value: &v2},
	})

	assert.Equal(t, []string{"CTR", "CPC"}, got.Names())
	value, ok := got.Get("CTR")
	assert.True(t, ok)
	assert.Equal(t, "2.5%", *value)
	value, ok = got.Get("CPC")
	assert.True(t, ok)
	assert.Nil(t, value)
}

func TestDedupeDeadlines_SortsWhenAllParsed(t *testing.T) {
	got := DedupeDeadlines([]models.Deadline{
		{Date: "2025-03-03", Type: "launch"},
		{Date: "2025-01-15", Type: "submission"},
		{Date: "2025-03-03", Type: "launch"},
		{Date: "2025-03-03", Type: "final"},
	})

	assert.Equal(t, []models.Deadline{
		{Date: "2025-01-15", Type: "submission"},
		{Date: "2025-03-03", Type: "launch"},
		{Date: "2025-03-03", Type: "final"},
	}, got)
}

func TestDedupeDeadlines_KeepsOrderWhenUnparsed(t *testing.T) {
	got := DedupeDeadlines([]models.Deadline{
		{Date: "2025-03-03", Type: "launch"},
		{Date: "13/13/2024", Type: "final"},
		{Date: "2025-01-15"},
	})

	assert.Equal(t, []string{"2025-03-03", "13/13/2024", "2025-01-15"}, []string{got[0].Date, got[1].Date, got[2].Date})
}

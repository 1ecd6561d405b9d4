package analysis

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignGoal(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "full goal",
			text: "We are launching Sparkle Soda at Target this summer to drive awareness.",
			want: "Launch Sparkle Soda at Target, building awareness during summer.",
		},
		{
			name: "campaign for without retailer",
			text: "This is a campaign for Glow Serum. Focus on trial.",
			want: "Launch Glow Serum, building trial.",
		},
		{
			name: "retailer website",
			text: "Promote Crunchy Bites; traffic goes to the Walmart website.",
			want: "Launch Crunchy Bites at Walmart.",
		},
		{
			name: "lower case product is not a product",
			text: "launch our new range at the store.",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CampaignGoal(tt.text))
		})
	}
}

func TestExtractiveSummarizer_Summarize(t *testing.T) {
	s := NewExtractiveSummarizer()
	ctx := context.Background()

	t.Run("goal sentence", func(t *testing.T) {
		got, err := s.Summarize(ctx, "Creative Brief\n\nWe are launching Sparkle Soda at Target this summer to drive awareness.")
		require.NoError(t, err)
		assert.Equal(t, "Launch Sparkle Soda at Target, building awareness during summer.", got)
	})

	t.Run("meaningful sentences", func(t *testing.T) {
		text := "Quarterly update.\n\nThe team reviewed all creative assets for the upcoming season. " +
			"Results will be shared with partners next week. Ok."
		got, err := s.Summarize(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, "The team reviewed all creative assets for the upcoming season. Results will be shared with partners next week.", got)
	})

	t.Run("at most three sentences", func(t *testing.T) {
		sentence := "This sentence is long enough to count as meaningful."
		got, err := s.Summarize(ctx, strings.Repeat(sentence+" ", 5))
		require.NoError(t, err)
		assert.Equal(t, 3, strings.Count(got, sentence))
		assert.LessOrEqual(t, utf8.RuneCountInString(got), 300)
	})

	t.Run("truncated prefix", func(t *testing.T) {
		got, err := s.Summarize(ctx, strings.Repeat("word ", 40))
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(got, "..."))
		assert.LessOrEqual(t, utf8.RuneCountInString(got), 150)
	})

	t.Run("empty", func(t *testing.T) {
		got, err := s.Summarize(ctx, " \n\t")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

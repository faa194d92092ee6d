package catalogMvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankSuggestionsOrdersByRelevanceTier(t *testing.T) {
	names := []string{
		"Chronic Asthma",
		"Asthma",
		"Asthmatic Bronchitis",
		"Status Asthmaticus",
	}

	ranked := rankSuggestions(names, "asthma", 10)

	assert.Equal(t, "Asthma", ranked[0])
	assert.Equal(t, "Asthmatic Bronchitis", ranked[1])
	// both remaining names match on a word prefix; shorter first
	assert.Equal(t, []string{"Chronic Asthma", "Status Asthmaticus"}, ranked[2:])
}

func TestRankSuggestionsSubstringMatchesOrderedByPosition(t *testing.T) {
	names := []string{
		"Polydipsia",
		"Adiposis Dolorosa",
	}

	ranked := rankSuggestions(names, "dip", 10)

	// "dip" appears earlier in "Adiposis Dolorosa" (index 1) than in
	// "Polydipsia" (index 4)
	assert.Equal(t, "Adiposis Dolorosa", ranked[0])
}

func TestRankSuggestionsTruncatesToMax(t *testing.T) {
	names := []string{"Asthma A", "Asthma B", "Asthma C", "Asthma D"}

	ranked := rankSuggestions(names, "asthma", 2)

	assert.Len(t, ranked, 2)
}

func TestRankSuggestionsIsCaseInsensitive(t *testing.T) {
	names := []string{"HYPERTENSION", "Essential Hypertension"}

	ranked := rankSuggestions(names, "Hypertension", 10)

	assert.Equal(t, "HYPERTENSION", ranked[0])
	assert.Equal(t, "Essential Hypertension", ranked[1])
}

func TestRankSuggestionsTieBreaksAlphabetically(t *testing.T) {
	names := []string{"Asthma Z", "Asthma A"}

	ranked := rankSuggestions(names, "asthma", 10)

	assert.Equal(t, []string{"Asthma A", "Asthma Z"}, ranked)
}

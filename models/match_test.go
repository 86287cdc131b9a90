package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatchStrength(t *testing.T) {
	for _, valid := range []string{"EXCELLENT", "GOOD", "FAIR", "POOR"} {
		strength, err := ParseMatchStrength(valid)
		require.NoError(t, err, valid)
		assert.Equal(t, MatchStrength(valid), strength)
	}

	for _, invalid := range []string{"", "excellent", "GREAT", "EXCELLENT "} {
		_, err := ParseMatchStrength(invalid)
		assert.Error(t, err, "%q should not parse", invalid)
	}
}

func TestFeedbackPatchIsEmpty(t *testing.T) {
	assert.True(t, FeedbackPatch{}.IsEmpty())

	liked := false
	assert.False(t, FeedbackPatch{Liked: &liked}.IsEmpty())

	rating := 3
	assert.False(t, FeedbackPatch{Rating: &rating}.IsEmpty())

	text := ""
	assert.False(t, FeedbackPatch{Feedback: &text}.IsEmpty(), "an explicit empty string still clears the note")
}

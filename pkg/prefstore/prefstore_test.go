package prefstore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneKeepsEmptyCategories(t *testing.T) {
	got := Defaults().Clone()
	require.NotNil(t, got.Categories)
	assert.Empty(t, got.Categories)

	// An empty set serializes as [], never null.
	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"categories":[]`)
}

func TestCloneIsDeep(t *testing.T) {
	minutes := 15
	at := "08:30"
	orig := PreferenceSet{
		Categories:       []string{"science"},
		DailyMinutes:     &minutes,
		NotificationTime: &at,
	}

	cp := orig.Clone()
	cp.Categories[0] = "mutated"
	*cp.DailyMinutes = 60
	*cp.NotificationTime = "21:00"

	assert.Equal(t, []string{"science"}, orig.Categories)
	assert.Equal(t, 15, *orig.DailyMinutes)
	assert.Equal(t, "08:30", *orig.NotificationTime)
}

package crawler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"linkedin-scraper/internal/models"
	"linkedin-scraper/internal/testutil"
)

const gatesURL = "https://www.linkedin.com/in/williamhgates/"

func TestExtractProfileData(t *testing.T) {
	pe := NewProfileExtractor()

	t.Run("all fields", func(t *testing.T) {
		html := testutil.ProfilePageHTML("Bill Gates", "Chair, Gates Foundation and Founder, Breakthrough Energy", "Seattle, Washington, United States")
		profile, err := pe.ExtractProfileData(html, gatesURL)
		require.NoError(t, err)
		require.Equal(t, models.ProfileData{
			Name:      "Bill Gates",
			Headline:  "Chair, Gates Foundation and Founder, Breakthrough Energy",
			Location:  "Seattle, Washington, United States",
			SourceURL: gatesURL,
		}, profile)
	})

	t.Run("whitespace", func(t *testing.T) {
		html := testutil.ProfilePageHTML("\n   Bill\n   Gates  ", " Chair ", "\tSeattle ")
		profile, err := pe.ExtractProfileData(html, gatesURL)
		require.NoError(t, err)
		require.Equal(t, "Bill Gates", profile.Name)
		require.Equal(t, "Chair", profile.Headline)
		require.Equal(t, "Seattle", profile.Location)
	})

	t.Run("first match wins", func(t *testing.T) {
		html := testutil.ProfilePageHTML("Bill Gates", "Chair", "Seattle") +
			`<span class="text-body-small">500+ connections</span>`
		profile, err := pe.ExtractProfileData(html, gatesURL)
		require.NoError(t, err)
		require.Equal(t, "Seattle", profile.Location)
	})

	t.Run("missing field yields empty record", func(t *testing.T) {
		html := `<html><body><h1 class="text-heading-xlarge">Bill Gates</h1>
<div class="text-body-medium">Chair</div></body></html>`
		profile, err := pe.ExtractProfileData(html, gatesURL)
		require.ErrorIs(t, err, ErrFieldNotFound)
		require.True(t, profile.IsEmpty())
	})

	t.Run("not a profile", func(t *testing.T) {
		profile, err := pe.ExtractProfileData("<html><body>Sign in to view</body></html>", gatesURL)
		require.ErrorIs(t, err, ErrFieldNotFound)
		require.ErrorContains(t, err, SelectorName)
		require.True(t, profile.IsEmpty())
	})
}

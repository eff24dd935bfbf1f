package crawler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"linkedin-scraper/internal/models"
)

// Profile page selectors
const (
	SelectorName     = "h1.text-heading-xlarge"
	SelectorHeadline = "div.text-body-medium"
	SelectorLocation = "span.text-body-small"
)

// ErrFieldNotFound is returned when a profile selector matches nothing
var ErrFieldNotFound = errors.New("profile field not found")

// ProfileExtractor handles LinkedIn profile data extraction
type ProfileExtractor struct {
	nameSel     string
	headlineSel string
	locationSel string
}

// NewProfileExtractor creates a new ProfileExtractor instance
func NewProfileExtractor() *ProfileExtractor {
	return &ProfileExtractor{
		nameSel:     SelectorName,
		headlineSel: SelectorHeadline,
		locationSel: SelectorLocation,
	}
}

// ExtractProfileData extracts profile fields from a rendered page. Every
// selector must match; otherwise the zero record is returned with an error.
func (pe *ProfileExtractor) ExtractProfileData(html, sourceURL string) (models.ProfileData, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.ProfileData{}, fmt.Errorf("parse profile page: %w", err)
	}

	var fields [3]string
	for i, sel := range []string{pe.nameSel, pe.headlineSel, pe.locationSel} {
		s := doc.Find(sel).First()
		if s.Length() == 0 {
			return models.ProfileData{}, fmt.Errorf("%w: %s", ErrFieldNotFound, sel)
		}
		fields[i] = normalizeText(s.Text())
	}

	return models.ProfileData{
		Name:      fields[0],
		Headline:  fields[1],
		Location:  fields[2],
		SourceURL: sourceURL,
	}, nil
}

// normalizeText collapses runs of whitespace the way rendered text would
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

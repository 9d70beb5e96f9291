package mangadex

import (
	"encoding/json"
	"strconv"
	"time"

	"dexsource/internal/domain"

	"github.com/pkg/errors"
)

const oneshotTitle = "Oneshot"

// mapper turns decoded upstream records into domain records for one call.
type mapper struct {
	homeURL  string
	settings Settings
}

func (m mapper) manga(data mangaData) (domain.Manga, error) {
	manga, err := m.partialManga(data)
	if err != nil {
		return domain.Manga{}, err
	}

	attrs := data.Attributes
	facts := extractRelationships(data.Relationships)

	manga.Description = attrs.Description.resolve(m.settings.Locale)
	manga.AuthorName = facts.Author
	manga.ArtistName = facts.Artist
	manga.Categories = m.categories(attrs.Tags)
	manga.Status = parseStatus(string(attrs.Status))
	manga.ContentRating = parseContentRating(string(attrs.ContentRating))
	manga.ReadingMode = readingModeFor(string(attrs.OriginalLanguage))

	return manga, nil
}

// partialManga maps the fields the list endpoint reliably fills and leaves
// the rest at their zero value.
func (m mapper) partialManga(data mangaData) (domain.Manga, error) {
	if data.ID == "" {
		return domain.Manga{}, errors.New("manga is missing an id")
	}
	if data.Attributes == nil {
		return domain.Manga{}, errors.Errorf("manga %s is missing attributes", data.ID)
	}

	facts := extractRelationships(data.Relationships)

	return domain.Manga{
		ID:         data.ID,
		Title:      data.Attributes.Title.resolve(m.settings.Locale),
		URL:        m.homeURL + "/title/" + data.ID,
		CoverURL:   m.coverURL(data.ID, facts.CoverFile),
		Categories: []string{},
	}, nil
}

func (m mapper) categories(tags []tag) []string {
	categories := make([]string, 0, len(tags))
	for _, t := range tags {
		name, ok := tagName(t)
		if !ok {
			continue
		}
		if resolved := name.resolve(m.settings.Locale); resolved != "" {
			categories = append(categories, resolved)
		}
	}
	return categories
}

// tagName decodes the localized name of a tag. Tags with a malformed
// attributes block or name are reported as not ok.
func tagName(t tag) (localizedText, bool) {
	var attrs struct {
		Name localizedText `json:"name"`
	}
	if len(t.Attributes) == 0 || json.Unmarshal(t.Attributes, &attrs) != nil {
		return nil, false
	}
	return attrs.Name, true
}

func (m mapper) coverURL(mangaID, coverFile string) string {
	if coverFile == "" {
		return ""
	}
	return m.homeURL + "/covers/" + mangaID + "/" + coverFile + coverSuffix(m.settings.CoverQuality)
}

func coverSuffix(quality int) string {
	switch quality {
	case 1:
		return ".512.jpg"
	case 2:
		return ".256.jpg"
	default:
		return ""
	}
}

func (m mapper) chapter(data chapterData) (domain.Chapter, error) {
	if data.ID == "" {
		return domain.Chapter{}, errors.New("chapter is missing an id")
	}
	attrs := data.Attributes
	if attrs == nil {
		return domain.Chapter{}, errors.Errorf("chapter %s is missing attributes", data.ID)
	}

	published, err := time.Parse(time.RFC3339, string(attrs.PublishAt))
	if err != nil {
		return domain.Chapter{}, errors.Wrapf(err, "chapter %s has an invalid publishAt", data.ID)
	}

	title := string(attrs.Title)
	if attrs.Volume == "" && attrs.Chapter == "" && title == "" {
		title = oneshotTitle
	}

	language := string(attrs.TranslatedLanguage)
	if language == "" {
		language = m.settings.Locale
	}

	return domain.Chapter{
		ID:          data.ID,
		Title:       title,
		Volume:      parseNumber(string(attrs.Volume)),
		Chapter:     parseNumber(string(attrs.Chapter)),
		DateUpdated: published.Unix(),
		Scanlator:   extractRelationships(data.Relationships).scanlator(),
		URL:         m.homeURL + "/chapter/" + data.ID,
		Language:    language,
	}, nil
}

// parseNumber returns -1 for anything that is not a number, absent values
// included.
func parseNumber(s string) float32 {
	n, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return -1
	}
	return float32(n)
}

package mangadex

import (
	"strconv"
	"strings"

	"dexsource/internal/domain"

	"github.com/pkg/errors"
)

const (
	listLimit = 20
	feedLimit = 500
)

// sortOptions maps a SortFilter option index to the upstream order key.
var sortOptions = [...]string{
	"latestUploadedChapter",
	"relevance",
	"followedCount",
	"createdAt",
	"updatedAt",
	"title",
}

var contentRatings = [...]string{"safe", "suggestive", "erotica", "pornographic"}

// query is an ordered list of query parameters. Keys are written verbatim so
// that bracketed keys like includes[] keep the form upstream documents.
type query struct {
	params []string
}

func (q *query) add(key, value string) {
	q.params = append(q.params, key+"="+urlEncode(value))
}

func (q *query) addInt(key string, value int) {
	q.add(key, strconv.Itoa(value))
}

func (q *query) encode() string {
	return strings.Join(q.params, "&")
}

func mangaIncludes(q *query) {
	q.add("includes[]", "cover_art")
	q.add("includes[]", "author")
	q.add("includes[]", "artist")
}

func buildListQuery(filters []domain.Filter, offset int) (string, error) {
	var q query
	mangaIncludes(&q)
	q.addInt("limit", listLimit)
	q.addInt("offset", offset)

	for _, filter := range filters {
		switch f := filter.(type) {
		case domain.TitleFilter:
			q.add("title", f.Query)
		case domain.SortFilter:
			if f.OptionIndex < 0 || f.OptionIndex >= len(sortOptions) {
				return "", errors.Errorf("sort option index %d out of range", f.OptionIndex)
			}
			order := "desc"
			if f.Reversed {
				order = "asc"
			}
			q.add("order["+sortOptions[f.OptionIndex]+"]", order)
		default:
			return "", errors.Errorf("unknown filter %T", filter)
		}
	}

	return q.encode(), nil
}

func buildDetailQuery() string {
	var q query
	mangaIncludes(&q)
	return q.encode()
}

func buildFeedQuery(settings Settings, offset int) string {
	var q query
	q.addInt("limit", feedLimit)
	q.addInt("offset", offset)
	q.add("order[volume]", "asc")
	q.add("order[chapter]", "asc")
	for _, rating := range contentRatings {
		q.add("contentRating[]", rating)
	}
	q.add("includes[]", "user")
	q.add("includes[]", "scanlation_group")
	for _, language := range settings.Languages {
		q.add("translatedLanguage[]", language)
	}
	for _, group := range settings.BlockedGroups {
		q.add("excludedGroups[]", group)
	}
	for _, uploader := range settings.BlockedUploaders {
		q.add("excludedUploaders[]", uploader)
	}
	return q.encode()
}

func buildAtHomeQuery(settings Settings) string {
	var q query
	q.add("forcePort443", strconv.FormatBool(settings.ForcePort443))
	return q.encode()
}

const upperhex = "0123456789ABCDEF"

// urlEncode percent-encodes every byte outside the unreserved set
// A-Z a-z 0-9 - _ . ! ~ * ' ( ). Multi-byte characters are encoded byte by byte.
func urlEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}

	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

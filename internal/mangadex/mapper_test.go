package mangadex

import (
	"encoding/json"
	"testing"

	"dexsource/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHome = "https://mangadex.test"

const detailManga = `{
	"id": "58d988fb-be92-41a0-8340-17381ab7869a",
	"type": "manga",
	"attributes": {
		"title": {"en": "enígmә"},
		"description": {"en": "Haiba Sumio is a student at a Tokyo High School."},
		"originalLanguage": "ja",
		"status": "completed",
		"contentRating": "safe",
		"tags": [
			{"id": "t1", "attributes": {"name": {"en": "Action"}}},
			{"id": "t2", "attributes": {"name": {"ja": "心理"}}},
			{"id": "t3"},
			{"id": "t4", "attributes": {"name": {}}},
			{"id": "t5", "attributes": {"name": {"en": "Action"}}}
		]
	},
	"relationships": [
		{"id": "a", "type": "author", "attributes": {"name": "Sakaki Kenji"}},
		{"id": "b", "type": "artist", "attributes": {"name": "Sakaki Kenji"}},
		{"id": "c", "type": "cover_art", "attributes": {"fileName": "8e18ca42-2d7d-42c9-a0b6-3134eb2bb042.jpg"}}
	]
}`

func decodeManga(t *testing.T, raw string) mangaData {
	t.Helper()

	var data mangaData
	require.NoError(t, json.Unmarshal([]byte(raw), &data))
	return data
}

func decodeChapter(t *testing.T, raw string) chapterData {
	t.Helper()

	var data chapterData
	require.NoError(t, json.Unmarshal([]byte(raw), &data))
	return data
}

func testMapper() mapper {
	return mapper{homeURL: testHome, settings: DefaultSettings()}
}

func TestMapper_Manga(t *testing.T) {
	manga, err := testMapper().manga(decodeManga(t, detailManga))
	require.NoError(t, err)

	id := "58d988fb-be92-41a0-8340-17381ab7869a"
	assert.Equal(t, id, manga.ID)
	assert.Equal(t, "enígmә", manga.Title)
	assert.Equal(t, testHome+"/title/"+id, manga.URL)
	assert.Equal(t, "Haiba Sumio is a student at a Tokyo High School.", manga.Description)
	assert.Equal(t, testHome+"/covers/"+id+"/8e18ca42-2d7d-42c9-a0b6-3134eb2bb042.jpg", manga.CoverURL)
	assert.Equal(t, "Sakaki Kenji", manga.AuthorName)
	assert.Equal(t, "Sakaki Kenji", manga.ArtistName)
	assert.Equal(t, []string{"Action", "心理", "Action"}, manga.Categories)
	assert.Equal(t, domain.StatusCompleted, manga.Status)
	assert.Equal(t, domain.ContentRatingSafe, manga.ContentRating)
	assert.Equal(t, domain.ReadingModeRightToLeft, manga.ReadingMode)
}

func TestMapper_MangaMissingOptionalFields(t *testing.T) {
	manga, err := testMapper().manga(decodeManga(t, `{"id": "x", "attributes": {"title": {"ko": "제목"}, "originalLanguage": "ko", "status": null}}`))
	require.NoError(t, err)

	assert.Equal(t, "제목", manga.Title)
	assert.Equal(t, "", manga.Description)
	assert.Equal(t, "", manga.CoverURL)
	assert.Equal(t, "", manga.AuthorName)
	assert.Empty(t, manga.Categories)
	assert.Equal(t, domain.StatusUnknown, manga.Status)
	assert.Equal(t, domain.ContentRatingSafe, manga.ContentRating)
	assert.Equal(t, domain.ReadingModeScroll, manga.ReadingMode)
}

func TestMapper_MangaRequiredFields(t *testing.T) {
	_, err := testMapper().manga(decodeManga(t, `{"attributes": {"title": {"en": "x"}}}`))
	assert.Error(t, err)

	_, err = testMapper().manga(decodeManga(t, `{"id": "x"}`))
	assert.Error(t, err)

	_, err = testMapper().partialManga(decodeManga(t, `{"id": "x", "attributes": null}`))
	assert.Error(t, err)
}

func TestMapper_PartialManga(t *testing.T) {
	manga, err := testMapper().partialManga(decodeManga(t, detailManga))
	require.NoError(t, err)

	assert.Equal(t, "enígmә", manga.Title)
	assert.NotEmpty(t, manga.CoverURL)
	assert.Empty(t, manga.Description)
	assert.Empty(t, manga.AuthorName)
	assert.Empty(t, manga.ArtistName)
	assert.Empty(t, manga.Categories)
	assert.Equal(t, domain.StatusUnknown, manga.Status)
}

func TestMapper_CoverQuality(t *testing.T) {
	tests := map[int]string{
		0: "cover.jpg",
		1: "cover.jpg.512.jpg",
		2: "cover.jpg.256.jpg",
		3: "cover.jpg",
	}

	for quality, want := range tests {
		m := testMapper()
		m.settings.CoverQuality = quality
		assert.Equal(t, testHome+"/covers/id/"+want, m.coverURL("id", "cover.jpg"))
		assert.Equal(t, "", m.coverURL("id", ""))
	}
}

func TestMapper_Chapter(t *testing.T) {
	chapter, err := testMapper().chapter(decodeChapter(t, `{
		"id": "a27c6a6c-4212-4c8a-863e-8df5fc2c093c",
		"attributes": {
			"title": "Dream Diary",
			"volume": "2",
			"chapter": "12.5",
			"translatedLanguage": "fr",
			"publishAt": "2018-04-11T20:15:41+00:00"
		},
		"relationships": [
			{"type": "scanlation_group", "attributes": {"name": "Group A"}},
			{"type": "user", "attributes": {"username": "uploader"}}
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "a27c6a6c-4212-4c8a-863e-8df5fc2c093c", chapter.ID)
	assert.Equal(t, "Dream Diary", chapter.Title)
	assert.Equal(t, float32(2), chapter.Volume)
	assert.Equal(t, float32(12.5), chapter.Chapter)
	assert.Equal(t, int64(1523477741), chapter.DateUpdated)
	assert.Equal(t, "Group A", chapter.Scanlator)
	assert.Equal(t, testHome+"/chapter/a27c6a6c-4212-4c8a-863e-8df5fc2c093c", chapter.URL)
	assert.Equal(t, "fr", chapter.Language)
}

func TestMapper_Oneshot(t *testing.T) {
	chapter, err := testMapper().chapter(decodeChapter(t, `{
		"id": "c",
		"attributes": {"title": null, "volume": null, "chapter": "", "publishAt": "2020-01-01T00:00:00Z"},
		"relationships": [{"type": "user", "attributes": {"username": "uploader"}}]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "Oneshot", chapter.Title)
	assert.Equal(t, float32(-1), chapter.Volume)
	assert.Equal(t, float32(-1), chapter.Chapter)
	assert.Equal(t, "uploader", chapter.Scanlator)
	assert.Equal(t, "en", chapter.Language)
}

func TestMapper_ChapterZeroIsNotUnknown(t *testing.T) {
	chapter, err := testMapper().chapter(decodeChapter(t, `{
		"id": "c",
		"attributes": {"volume": "0", "chapter": "0", "publishAt": "2020-01-01T00:00:00Z"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "", chapter.Title)
	assert.Equal(t, float32(0), chapter.Volume)
	assert.Equal(t, float32(0), chapter.Chapter)
}

func TestMapper_ChapterUnparsableNumbers(t *testing.T) {
	chapter, err := testMapper().chapter(decodeChapter(t, `{
		"id": "c",
		"attributes": {"title": "Extra", "volume": "IV", "chapter": 3, "publishAt": "2020-01-01T00:00:00Z"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "Extra", chapter.Title)
	assert.Equal(t, float32(-1), chapter.Volume)
	assert.Equal(t, float32(-1), chapter.Chapter)
}

func TestMapper_ChapterInvalidTimestamp(t *testing.T) {
	for _, publishAt := range []string{`"yesterday"`, `""`, `null`, `1523477741`} {
		_, err := testMapper().chapter(decodeChapter(t, `{"id": "c", "attributes": {"chapter": "1", "publishAt": `+publishAt+`}}`))
		assert.Error(t, err, publishAt)
	}

	_, err := testMapper().chapter(decodeChapter(t, `{"id": "c", "attributes": {"chapter": "1"}}`))
	assert.Error(t, err)
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, float32(12.5), parseNumber("12.5"))
	assert.Equal(t, float32(0), parseNumber("0"))
	assert.Equal(t, float32(-1), parseNumber(""))
	assert.Equal(t, float32(-1), parseNumber("1a"))
}

func TestMapper_MalformedTagsAreSkipped(t *testing.T) {
	manga, err := testMapper().manga(decodeManga(t, `{
		"id": "m1",
		"attributes": {
			"title": {"en": "Enigma"},
			"tags": [
				{"id": "t1", "attributes": {"name": {"en": "Action"}}},
				{"id": "t2", "attributes": {"name": {"en": 5}}},
				{"id": "t3", "attributes": {"name": "Drama"}},
				{"id": "t4", "attributes": "oops"},
				{"id": "t5", "attributes": null},
				{"id": "t6", "attributes": {"name": {"en": "Mystery"}}}
			]
		}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "Enigma", manga.Title)
	assert.Equal(t, []string{"Action", "Mystery"}, manga.Categories)
}

package mangadex

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRelationships(t *testing.T, raw string) []relationship {
	t.Helper()

	var rels []relationship
	require.NoError(t, json.Unmarshal([]byte(raw), &rels))
	return rels
}

func TestRelationship_Variants(t *testing.T) {
	rels := decodeRelationships(t, `[
		{"id": "1", "type": "cover_art", "attributes": {"fileName": "cover.jpg"}},
		{"id": "2", "type": "author", "attributes": {"name": "Sakaki Kenji"}},
		{"id": "3", "type": "artist", "attributes": {"name": "Sakaki Kenji"}},
		{"id": "4", "type": "scanlation_group", "attributes": {"name": "Group A"}},
		{"id": "5", "type": "user", "attributes": {"username": "uploader"}},
		{"id": "6", "type": "creator", "attributes": {"username": "someone"}},
		{"id": "7", "type": "author"},
		{"id": "8", "attributes": {"name": "no type"}},
		{"id": "9", "type": "artist", "attributes": null}
	]`)

	require.Len(t, rels, 9)
	assert.Equal(t, coverArt{FileName: "cover.jpg"}, rels[0].Relation)
	assert.Equal(t, author{Name: "Sakaki Kenji"}, rels[1].Relation)
	assert.Equal(t, artist{Name: "Sakaki Kenji"}, rels[2].Relation)
	assert.Equal(t, scanlationGroup{Name: "Group A"}, rels[3].Relation)
	assert.Equal(t, user{Username: "uploader"}, rels[4].Relation)
	assert.Equal(t, otherRelation{Type: "creator"}, rels[5].Relation)
	assert.Nil(t, rels[6].Relation)
	assert.Nil(t, rels[7].Relation)
	assert.Nil(t, rels[8].Relation)
	assert.Equal(t, "9", rels[8].ID)
}

func TestRelationship_WrongAttributeTypesDegrade(t *testing.T) {
	rels := decodeRelationships(t, `[
		{"id": "1", "type": "author", "attributes": {"name": 42}},
		{"id": "2", "type": 7, "attributes": {"name": "x"}},
		{"id": "3", "type": "artist", "attributes": "broken"}
	]`)

	assert.Equal(t, author{Name: ""}, rels[0].Relation)
	assert.Nil(t, rels[1].Relation)
	assert.Nil(t, rels[2].Relation)
}

func TestExtractRelationships(t *testing.T) {
	rels := decodeRelationships(t, `[
		{"type": "cover_art", "attributes": {"fileName": "first.jpg"}},
		{"type": "cover_art", "attributes": {"fileName": "second.jpg"}},
		{"type": "author", "attributes": {"name": "Author One"}},
		{"type": "author", "attributes": {"name": "Author Two"}},
		{"type": "artist", "attributes": {"name": "Artist"}},
		{"type": "scanlation_group", "attributes": {"name": "Group A"}},
		{"type": "scanlation_group", "attributes": {"name": "Group B"}},
		{"type": "user", "attributes": {"username": "first"}},
		{"type": "user", "attributes": {"username": "second"}}
	]`)

	facts := extractRelationships(rels)

	assert.Equal(t, "first.jpg", facts.CoverFile)
	assert.Equal(t, "Author Two", facts.Author)
	assert.Equal(t, "Artist", facts.Artist)
	assert.Equal(t, []string{"Group A", "Group B"}, facts.Groups)
	assert.Equal(t, "second", facts.Uploader)
	assert.Equal(t, "Group A, Group B", facts.scanlator())
}

func TestScanlator_Fallbacks(t *testing.T) {
	assert.Equal(t, "uploader", relationshipFacts{Uploader: "uploader"}.scanlator())
	assert.Equal(t, "", relationshipFacts{}.scanlator())
	assert.Equal(t, "Group", relationshipFacts{Groups: []string{"Group"}, Uploader: "uploader"}.scanlator())
}

func TestExtractRelationships_Empty(t *testing.T) {
	facts := extractRelationships(nil)

	assert.Equal(t, relationshipFacts{}, facts)
}

func TestRelationship_NonObjectEntriesAreSkipped(t *testing.T) {
	rels := decodeRelationships(t, `[
		"oops",
		42,
		null,
		{"id": "a", "type": "author", "attributes": {"name": "Sakaki Kenji"}}
	]`)

	require.Len(t, rels, 4)
	assert.Nil(t, rels[0].Relation)
	assert.Nil(t, rels[1].Relation)
	assert.Nil(t, rels[2].Relation)
	assert.Equal(t, "Sakaki Kenji", extractRelationships(rels).Author)
}

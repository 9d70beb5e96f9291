package mangadex

import (
	"encoding/json"
	"strings"
)

// relation is the typed payload of a relationship record.
type relation interface {
	isRelation()
}

type coverArt struct{ FileName string }
type author struct{ Name string }
type artist struct{ Name string }
type scanlationGroup struct{ Name string }
type user struct{ Username string }
type otherRelation struct{ Type string }

func (coverArt) isRelation()        {}
func (author) isRelation()          {}
func (artist) isRelation()          {}
func (scanlationGroup) isRelation() {}
func (user) isRelation()            {}
func (otherRelation) isRelation()   {}

// relationship is one entry of an upstream relationships array. Relation is
// nil when the record has no type or carries no attributes, in which case it
// is ignored by the extractor.
type relationship struct {
	ID       string
	Relation relation
}

func (r *relationship) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID         json.RawMessage `json:"id"`
		Type       json.RawMessage `json:"type"`
		Attributes json.RawMessage `json:"attributes"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		*r = relationship{}
		return nil
	}

	*r = relationship{ID: rawString(raw.ID)}

	relType := rawString(raw.Type)
	if relType == "" {
		return nil
	}

	var attrs map[string]json.RawMessage
	if err := json.Unmarshal(raw.Attributes, &attrs); err != nil || attrs == nil {
		return nil
	}

	switch relType {
	case "cover_art":
		r.Relation = coverArt{FileName: rawString(attrs["fileName"])}
	case "author":
		r.Relation = author{Name: rawString(attrs["name"])}
	case "artist":
		r.Relation = artist{Name: rawString(attrs["name"])}
	case "scanlation_group":
		r.Relation = scanlationGroup{Name: rawString(attrs["name"])}
	case "user":
		r.Relation = user{Username: rawString(attrs["username"])}
	default:
		r.Relation = otherRelation{Type: relType}
	}

	return nil
}

// rawString decodes a JSON string, returning "" for anything else.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

type relationshipFacts struct {
	CoverFile string
	Author    string
	Artist    string
	Groups    []string
	Uploader  string
}

func extractRelationships(rels []relationship) relationshipFacts {
	var facts relationshipFacts
	coverFound := false

	for _, rel := range rels {
		switch v := rel.Relation.(type) {
		case coverArt:
			if !coverFound {
				facts.CoverFile = v.FileName
				coverFound = true
			}
		case author:
			facts.Author = v.Name
		case artist:
			facts.Artist = v.Name
		case scanlationGroup:
			facts.Groups = append(facts.Groups, v.Name)
		case user:
			facts.Uploader = v.Username
		}
	}

	return facts
}

// scanlator joins the scanlation groups, falling back to the uploader.
func (f relationshipFacts) scanlator() string {
	if len(f.Groups) > 0 {
		return strings.Join(f.Groups, ", ")
	}
	return f.Uploader
}

package mangadex

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

type localeEntry struct {
	Locale string
	Text   string
}

// localizedText is a locale keyed text map that keeps the document order of
// its keys.
type localizedText []localeEntry

func (t *localizedText) UnmarshalJSON(b []byte) error {
	*t = nil

	trimmed := bytes.TrimSpace(b)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))

	tok, err := dec.Token()
	if err != nil {
		return err
	}

	// an empty map is sometimes serialized as an empty array upstream
	if tok == json.Delim('[') {
		if !dec.More() {
			return nil
		}
		return errors.New("localized text: expected object, got non-empty array")
	}
	if tok != json.Delim('{') {
		return errors.Errorf("localized text: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return errors.Errorf("localized text: unexpected key %v", keyTok)
		}

		var value *string
		if err := dec.Decode(&value); err != nil {
			return errors.Wrapf(err, "localized text: value for %q", key)
		}
		if value == nil {
			continue
		}

		*t = append(*t, localeEntry{Locale: key, Text: *value})
	}

	_, err = dec.Token()
	return err
}

// resolve returns the text for locale, otherwise the first entry, otherwise
// an empty string.
func (t localizedText) resolve(locale string) string {
	for _, e := range t {
		if e.Locale == locale {
			return e.Text
		}
	}
	if len(t) > 0 {
		return t[0].Text
	}
	return ""
}

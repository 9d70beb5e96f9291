package mangadex

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type envelope struct {
	Result string     `json:"result"`
	Errors []apiError `json:"errors"`
}

type apiError struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// failure returns the upstream error carried by an error envelope, or nil.
func (e envelope) failure() error {
	if e.Result != "error" {
		return nil
	}
	if len(e.Errors) == 0 {
		return errors.New("upstream returned result=error with no error details")
	}
	first := e.Errors[0]
	return errors.Errorf("upstream error: %s (%d): %s", first.Title, first.Status, first.Detail)
}

type mangaListResponse struct {
	envelope
	Data   []mangaData `json:"data"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
	Total  int         `json:"total"`
}

type mangaResponse struct {
	envelope
	Data *mangaData `json:"data"`
}

type mangaData struct {
	ID            string           `json:"id"`
	Attributes    *mangaAttributes `json:"attributes"`
	Relationships []relationship   `json:"relationships"`
}

type mangaAttributes struct {
	Title            localizedText `json:"title"`
	Description      localizedText `json:"description"`
	OriginalLanguage looseString   `json:"originalLanguage"`
	Status           looseString   `json:"status"`
	ContentRating    looseString   `json:"contentRating"`
	Tags             []tag         `json:"tags"`
}

type tag struct {
	ID         string `json:"id"`
	Attributes json.RawMessage `json:"attributes"`
}

type chapterListResponse struct {
	envelope
	Data   []chapterData `json:"data"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
	Total  int           `json:"total"`
}

type chapterData struct {
	ID            string             `json:"id"`
	Attributes    *chapterAttributes `json:"attributes"`
	Relationships []relationship     `json:"relationships"`
}

type chapterAttributes struct {
	Title              looseString `json:"title"`
	Volume             looseString `json:"volume"`
	Chapter            looseString `json:"chapter"`
	TranslatedLanguage looseString `json:"translatedLanguage"`
	PublishAt          looseString `json:"publishAt"`
}

type atHomeResponse struct {
	envelope
	BaseURL string `json:"baseUrl"`
	Chapter *struct {
		Hash      string   `json:"hash"`
		Data      []string `json:"data"`
		DataSaver []string `json:"dataSaver"`
	} `json:"chapter"`
}

// looseString is a string field that decodes to "" when upstream sends null
// or a value of another type.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	*s = looseString(rawString(json.RawMessage(b)))
	return nil
}

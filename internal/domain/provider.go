package domain

import "context"

// Source is the content-provider contract consumed by the host.
type Source interface {
	String() string
	Initialize() error
	GetMangaList(ctx context.Context, filters []Filter, page int) ([]Manga, bool, error)
	GetMangaDetails(ctx context.Context, mangaID string) (Manga, error)
	GetChapterList(ctx context.Context, mangaID string) ([]Chapter, error)
	GetPageList(ctx context.Context, mangaID, chapterID string) ([]Page, error)
}

// Requester performs a single outbound request and returns the raw body.
type Requester interface {
	PerformRequest(ctx context.Context, method, url string, headers map[string]string) ([]byte, error)
}

// SettingsStore returns a host setting, or false when it is not set.
type SettingsStore interface {
	GetSetting(key string) (any, bool)
}

type Status int

const (
	StatusUnknown Status = iota
	StatusOngoing
	StatusCompleted
	StatusHiatus
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusOngoing:
		return "Ongoing"
	case StatusCompleted:
		return "Completed"
	case StatusHiatus:
		return "Hiatus"
	case StatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

type ContentRating int

const (
	ContentRatingSafe ContentRating = iota
	ContentRatingSuggestive
	ContentRatingNsfw
)

func (c ContentRating) String() string {
	switch c {
	case ContentRatingSuggestive:
		return "Suggestive"
	case ContentRatingNsfw:
		return "NSFW"
	default:
		return "Safe"
	}
}

type ReadingMode int

const (
	ReadingModeRightToLeft ReadingMode = iota
	ReadingModeScroll
)

func (r ReadingMode) String() string {
	if r == ReadingModeScroll {
		return "Scroll"
	}
	return "Right to left"
}

type Manga struct {
	ID            string
	Title         string
	URL           string
	Description   string
	CoverURL      string
	AuthorName    string
	ArtistName    string
	Categories    []string
	Status        Status
	ContentRating ContentRating
	ReadingMode   ReadingMode
}

// Chapter numbers use -1 when upstream gave no usable value, since 0 is a
// valid volume and chapter number.
type Chapter struct {
	ID          string
	Title       string
	Volume      float32
	Chapter     float32
	DateUpdated int64
	Scanlator   string
	URL         string
	Language    string
}

type Page struct {
	Index int
	URL   string
	Data  []byte
}

// Filter is either a TitleFilter or a SortFilter.
type Filter interface {
	isFilter()
}

type TitleFilter struct {
	Query string
}

type SortFilter struct {
	OptionIndex int
	Reversed    bool
}

func (TitleFilter) isFilter() {}
func (SortFilter) isFilter()  {}

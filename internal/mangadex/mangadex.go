package mangadex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"dexsource/internal/domain"
	"dexsource/internal/ratelimit"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	apiURL  = "https://api.mangadex.org"
	homeURL = "https://mangadex.org"
)

type MangaDex struct {
	requester domain.Requester
	settings  domain.SettingsStore
	log       zerolog.Logger

	apiURL  string
	homeURL string

	burst  int
	period time.Duration

	limiter *ratelimit.Limiter
}

type Option func(*MangaDex)

func WithLogger(log zerolog.Logger) Option {
	return func(m *MangaDex) {
		m.log = log
	}
}

// WithRateLimit overrides the request budget applied by Initialize.
func WithRateLimit(burst int, period time.Duration) Option {
	return func(m *MangaDex) {
		m.burst = burst
		m.period = period
	}
}

// WithBaseURLs points the source at another API and site, mostly for tests.
func WithBaseURLs(api, home string) Option {
	return func(m *MangaDex) {
		m.apiURL = api
		m.homeURL = home
	}
}

func New(requester domain.Requester, settings domain.SettingsStore, opts ...Option) *MangaDex {
	m := &MangaDex{
		requester: requester,
		settings:  settings,
		log:       zerolog.Nop(),
		apiURL:    apiURL,
		homeURL:   homeURL,
		burst:     ratelimit.DefaultBurst,
		period:    ratelimit.DefaultPeriod,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *MangaDex) String() string {
	return "MangaDex"
}

// Initialize configures the rate limiter. Every other call fails until it
// has succeeded.
func (m *MangaDex) Initialize() error {
	limiter, err := ratelimit.New(m.burst, m.period)
	if err != nil {
		return errors.Wrap(err, "could not configure rate limiter")
	}

	m.limiter = limiter
	m.log.Debug().Int("burst", m.burst).Dur("period", m.period).Msg("rate limiter configured")

	return nil
}

func (m *MangaDex) GetMangaList(ctx context.Context, filters []domain.Filter, page int) ([]domain.Manga, bool, error) {
	const op = "list manga"

	if m.limiter == nil {
		return nil, false, domain.NewError(domain.ErrNotInitialized, op, nil)
	}

	offset := page * listLimit
	params, err := buildListQuery(filters, offset)
	if err != nil {
		return nil, false, domain.NewError(domain.ErrUnsupportedFilter, op, err)
	}

	settings := LoadSettings(m.settings)
	mp := m.mapper(settings)

	var resp mangaListResponse
	if err := m.get(ctx, op, settings, m.apiURL+"/manga?"+params, &resp); err != nil {
		return nil, false, err
	}

	list := make([]domain.Manga, 0, len(resp.Data))
	for _, data := range resp.Data {
		manga, err := mp.partialManga(data)
		if err != nil {
			return nil, false, domain.NewError(domain.ErrSchema, op, err)
		}
		list = append(list, manga)
	}

	return list, hasNext(offset, listLimit, resp.Total), nil
}

func (m *MangaDex) GetMangaDetails(ctx context.Context, mangaID string) (domain.Manga, error) {
	const op = "manga details"

	if m.limiter == nil {
		return domain.Manga{}, domain.NewError(domain.ErrNotInitialized, op, nil)
	}

	settings := LoadSettings(m.settings)

	var resp mangaResponse
	endpoint := m.apiURL + "/manga/" + url.PathEscape(mangaID) + "?" + buildDetailQuery()
	if err := m.get(ctx, op, settings, endpoint, &resp); err != nil {
		return domain.Manga{}, err
	}

	if resp.Data == nil {
		return domain.Manga{}, domain.NewError(domain.ErrSchema, op, errors.New("response is missing data"))
	}

	manga, err := m.mapper(settings).manga(*resp.Data)
	if err != nil {
		return domain.Manga{}, domain.NewError(domain.ErrSchema, op, err)
	}

	return manga, nil
}

// GetChapterList walks every page of the chapter feed.
func (m *MangaDex) GetChapterList(ctx context.Context, mangaID string) ([]domain.Chapter, error) {
	const op = "chapter feed"

	if m.limiter == nil {
		return nil, domain.NewError(domain.ErrNotInitialized, op, nil)
	}

	settings := LoadSettings(m.settings)
	mp := m.mapper(settings)
	endpoint := m.apiURL + "/manga/" + url.PathEscape(mangaID) + "/feed?"

	return walk(feedLimit, func(offset int) ([]domain.Chapter, int, error) {
		var resp chapterListResponse
		if err := m.get(ctx, op, settings, endpoint+buildFeedQuery(settings, offset), &resp); err != nil {
			return nil, 0, err
		}

		chapters := make([]domain.Chapter, 0, len(resp.Data))
		for _, data := range resp.Data {
			chapter, err := mp.chapter(data)
			if err != nil {
				return nil, 0, domain.NewError(domain.ErrSchema, op, err)
			}
			chapters = append(chapters, chapter)
		}

		m.log.Trace().Str("manga", mangaID).Int("offset", offset).Int("total", resp.Total).Msg("fetched chapter feed page")

		return chapters, resp.Total, nil
	})
}

func (m *MangaDex) GetPageList(ctx context.Context, _ string, chapterID string) ([]domain.Page, error) {
	const op = "page list"

	if m.limiter == nil {
		return nil, domain.NewError(domain.ErrNotInitialized, op, nil)
	}

	settings := LoadSettings(m.settings)

	var resp atHomeResponse
	endpoint := m.apiURL + "/at-home/server/" + url.PathEscape(chapterID) + "?" + buildAtHomeQuery(settings)
	if err := m.get(ctx, op, settings, endpoint, &resp); err != nil {
		return nil, err
	}

	pages, err := resolvePages(resp, settings.DataSaver)
	if err != nil {
		return nil, domain.NewError(domain.ErrSchema, op, err)
	}

	return pages, nil
}

func (m *MangaDex) mapper(settings Settings) mapper {
	return mapper{homeURL: m.homeURL, settings: settings}
}

// get waits for the rate limiter, performs the request and decodes the body
// into out.
func (m *MangaDex) get(ctx context.Context, op string, settings Settings, endpoint string, out interface{ failure() error }) error {
	headers := map[string]string{"User-Agent": settings.UserAgent}

	m.limiter.Block()

	m.log.Debug().Str("op", op).Str("url", endpoint).Msg("sending request")

	body, err := m.requester.PerformRequest(ctx, http.MethodGet, endpoint, headers)
	if err != nil {
		return domain.NewError(domain.ErrTransport, op, err)
	}

	if kind, err := decode(body, out); err != nil {
		return domain.NewError(kind, op, err)
	}

	if err := out.failure(); err != nil {
		return domain.NewError(domain.ErrTransport, op, err)
	}

	return nil
}

// decode reports ErrDecode for bodies that are not JSON text and ErrSchema
// for JSON of the wrong shape.
func decode(body []byte, out any) (kind error, err error) {
	if !utf8.Valid(body) {
		return domain.ErrDecode, errors.New("response is not valid UTF-8 text")
	}
	if !json.Valid(body) {
		return domain.ErrDecode, errors.New("response is not valid JSON")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return domain.ErrSchema, errors.Wrap(err, "could not map response")
	}
	return nil, nil
}

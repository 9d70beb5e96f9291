package mangadex

import (
	"strings"

	"dexsource/internal/domain"

	"github.com/pkg/errors"
)

func resolvePages(resp atHomeResponse, dataSaver bool) ([]domain.Page, error) {
	if resp.BaseURL == "" {
		return nil, errors.New("at-home response is missing baseUrl")
	}
	if resp.Chapter == nil || resp.Chapter.Hash == "" {
		return nil, errors.New("at-home response is missing the chapter hash")
	}

	mode, files := "data", resp.Chapter.Data
	if dataSaver {
		mode, files = "data-saver", resp.Chapter.DataSaver
	}

	base := strings.TrimSuffix(resp.BaseURL, "/") + "/" + mode + "/" + resp.Chapter.Hash

	pages := make([]domain.Page, 0, len(files))
	for i, file := range files {
		pages = append(pages, domain.Page{
			Index: i,
			URL:   base + "/" + file,
		})
	}

	return pages, nil
}

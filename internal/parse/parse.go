package parse

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"dexsource/internal/domain"
)

// ChapterSelection parses the user input for ranges and parts and returns the
// matching chapters ordered by number. Only the first chapter found for a
// number is kept.
func ChapterSelection(input string, availableChapters []domain.Chapter) ([]domain.Chapter, error) {
	parts := strings.Split(input, ",")
	uniqueChapters := make(map[float32]domain.Chapter)

	for _, part := range parts {
		if strings.Contains(part, "-") {
			rangeParts := strings.Split(part, "-")
			if len(rangeParts) != 2 {
				return nil, fmt.Errorf("invalid range format: %s", part)
			}
			start, end, err := getRange(rangeParts)
			if err != nil {
				return nil, err
			}

			for _, chapter := range Numbered(availableChapters) {
				if chapter.Chapter >= start && chapter.Chapter <= end {
					addChapter(uniqueChapters, chapter)
				}
			}
		} else {
			number, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
			if err != nil {
				return nil, fmt.Errorf("invalid chapter number: %s", part)
			}

			for _, chapter := range availableChapters {
				if chapter.Chapter == float32(number) {
					addChapter(uniqueChapters, chapter)
				}
			}
		}
	}

	selectedChapters := make([]domain.Chapter, 0, len(uniqueChapters))
	for _, chapter := range uniqueChapters {
		selectedChapters = append(selectedChapters, chapter)
	}

	slices.SortFunc(selectedChapters, func(a, b domain.Chapter) int {
		return cmp.Compare(a.Chapter, b.Chapter)
	})

	return selectedChapters, nil
}

func addChapter(chapters map[float32]domain.Chapter, chapter domain.Chapter) {
	if _, ok := chapters[chapter.Chapter]; !ok {
		chapters[chapter.Chapter] = chapter
	}
}

// getRange parses the user input for chapter ranges
func getRange(rangeParts []string) (float32, float32, error) {
	start, err := strconv.ParseFloat(strings.TrimSpace(rangeParts[0]), 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start of range: %s", rangeParts[0])
	}
	end, err := strconv.ParseFloat(strings.TrimSpace(rangeParts[1]), 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end of range: %s", rangeParts[1])
	}

	if start > end {
		return 0, 0, fmt.Errorf("start of range should not be greater than end: %s-%s", rangeParts[0], rangeParts[1])
	}

	return float32(start), float32(end), nil
}

// Numbered drops chapters without a usable chapter number.
func Numbered(chapters []domain.Chapter) []domain.Chapter {
	return slices.DeleteFunc(slices.Clone(chapters), func(c domain.Chapter) bool {
		return c.Chapter < 0
	})
}

// MinAndMax returns the items with the lowest and highest key. Ties keep the
// earliest item.
func MinAndMax[T any, K cmp.Ordered](items []T, key func(T) K) (T, T, error) {
	if len(items) == 0 {
		var zero T
		return zero, zero, fmt.Errorf("no items")
	}

	lo, hi := items[0], items[0]
	for _, item := range items[1:] {
		if key(item) < key(lo) {
			lo = item
		}
		if key(item) > key(hi) {
			hi = item
		}
	}

	return lo, hi, nil
}

// FirstAndLatest returns the lowest and highest numbered chapters.
func FirstAndLatest(chapters []domain.Chapter) (domain.Chapter, domain.Chapter, error) {
	first, latest, err := MinAndMax(Numbered(chapters), func(c domain.Chapter) float32 {
		return c.Chapter
	})
	if err != nil {
		return first, latest, fmt.Errorf("no numbered chapters")
	}
	return first, latest, nil
}

// ByGroup keeps the chapters whose scanlator contains group, ignoring case.
// An empty group keeps everything.
func ByGroup(chapters []domain.Chapter, group string) []domain.Chapter {
	if group == "" {
		return chapters
	}

	group = strings.ToLower(group)
	return slices.DeleteFunc(slices.Clone(chapters), func(c domain.Chapter) bool {
		return !strings.Contains(strings.ToLower(c.Scanlator), group)
	})
}

package mangadex

import "dexsource/internal/domain"

func parseStatus(status string) domain.Status {
	switch status {
	case "ongoing":
		return domain.StatusOngoing
	case "completed":
		return domain.StatusCompleted
	case "hiatus":
		return domain.StatusHiatus
	case "cancelled":
		return domain.StatusCancelled
	default:
		return domain.StatusUnknown
	}
}

func parseContentRating(rating string) domain.ContentRating {
	switch rating {
	case "suggestive":
		return domain.ContentRatingSuggestive
	case "erotica", "pornographic":
		return domain.ContentRatingNsfw
	default:
		return domain.ContentRatingSafe
	}
}

// readingModeFor guesses the reading direction from the original language.
// Upstream has no reading mode field, so this is best effort: korean and
// chinese titles are usually long strips, everything else reads right to left.
func readingModeFor(originalLanguage string) domain.ReadingMode {
	switch originalLanguage {
	case "zh", "ko":
		return domain.ReadingModeScroll
	default:
		return domain.ReadingModeRightToLeft
	}
}

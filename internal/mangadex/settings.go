package mangadex

import (
	"dexsource/internal/domain"

	"github.com/spf13/cast"
)

const (
	settingUserAgent        = "user_agent"
	settingLocale           = "locale"
	settingLanguages        = "languages"
	settingCoverQuality     = "cover_quality"
	settingBlockedGroups    = "blocked_groups"
	settingBlockedUploaders = "blocked_uploaders"
	settingForcePort443     = "force_port_443"
	settingDataSaver        = "data_saver"
)

// Settings is an immutable snapshot of the host settings used by one call.
type Settings struct {
	UserAgent        string
	Locale           string
	Languages        []string
	CoverQuality     int
	BlockedGroups    []string
	BlockedUploaders []string
	ForcePort443     bool
	DataSaver        bool
}

func DefaultSettings() Settings {
	return Settings{
		UserAgent:        "Midoku",
		Locale:           "en",
		Languages:        []string{"en"},
		CoverQuality:     0,
		BlockedGroups:    []string{},
		BlockedUploaders: []string{},
		ForcePort443:     false,
		DataSaver:        false,
	}
}

// LoadSettings reads every known key from the store. Absent keys and values
// of the wrong type keep their default.
func LoadSettings(store domain.SettingsStore) Settings {
	s := DefaultSettings()
	if store == nil {
		return s
	}

	if v, ok := store.GetSetting(settingUserAgent); ok {
		if str, err := cast.ToStringE(v); err == nil {
			s.UserAgent = str
		}
	}
	if v, ok := store.GetSetting(settingLocale); ok {
		if str, err := cast.ToStringE(v); err == nil {
			s.Locale = str
		}
	}
	if v, ok := store.GetSetting(settingLanguages); ok {
		if list, ok := stringList(v); ok {
			s.Languages = list
		}
	}
	if v, ok := store.GetSetting(settingCoverQuality); ok {
		if n, err := cast.ToIntE(v); err == nil {
			s.CoverQuality = n
		}
	}
	if v, ok := store.GetSetting(settingBlockedGroups); ok {
		if list, ok := stringList(v); ok {
			s.BlockedGroups = list
		}
	}
	if v, ok := store.GetSetting(settingBlockedUploaders); ok {
		if list, ok := stringList(v); ok {
			s.BlockedUploaders = list
		}
	}
	if v, ok := store.GetSetting(settingForcePort443); ok {
		if b, err := cast.ToBoolE(v); err == nil {
			s.ForcePort443 = b
		}
	}
	if v, ok := store.GetSetting(settingDataSaver); ok {
		if b, err := cast.ToBoolE(v); err == nil {
			s.DataSaver = b
		}
	}

	return s
}

// stringList only accepts real lists; cast would split a plain string on
// whitespace, which is not a list setting.
func stringList(v any) ([]string, bool) {
	switch v.(type) {
	case []string, []any:
	default:
		return nil, false
	}

	list, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil, false
	}
	return list, true
}

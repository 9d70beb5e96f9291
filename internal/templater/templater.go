package templater

import (
	"regexp"
	"strconv"
	"strings"

	"dexsource/internal/domain"
	"dexsource/internal/utils"
)

var templatePattern = regexp.MustCompile(`{((\w+?)(:.*?)?)}`)

type Templater struct {
	Manga   domain.Manga
	Chapter domain.Chapter
}

func New(manga domain.Manga, chapter domain.Chapter) *Templater {
	return &Templater{
		Manga:   manga,
		Chapter: chapter,
	}
}

func (t *Templater) handleNum(options string) string {
	if t.Chapter.Chapter < 0 {
		return ""
	}

	if options == "" {
		return utils.FormatFloat(t.Chapter.Chapter)
	}

	length, _ := strconv.ParseInt(strings.TrimPrefix(options, ":"), 10, 32)
	return utils.PadFloat(t.Chapter.Chapter, int(length))
}

func (t *Templater) handleVolume(options string) string {
	if t.Chapter.Volume < 0 {
		return ""
	}
	return fill(options, utils.FormatFloat(t.Chapter.Volume))
}

// fill replaces <.> in options with value. Without options the value is
// used as is.
func fill(options, value string) string {
	if value == "" {
		return ""
	}
	if options == "" {
		return value
	}
	return strings.ReplaceAll(strings.TrimPrefix(options, ":"), "<.>", value)
}

func (t *Templater) ExecTemplate(template string) string {
	newString := template
	for _, match := range templatePattern.FindAllStringSubmatch(template, -1) {
		replace := match[0]

		varName, options := match[2], match[3]
		switch varName {
		case "num":
			replace = t.handleNum(options)
		case "vol":
			replace = t.handleVolume(options)
		case "manga":
			replace = fill(options, t.Manga.Title)
		case "title":
			replace = fill(options, t.Chapter.Title)
		case "group":
			replace = fill(options, t.Chapter.Scanlator)
		}

		newString = strings.Replace(newString, match[0], replace, 1)
	}

	return newString
}

package cards

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Header is the header row of a cards CSV file.
var Header = []string{"guid", "learning", "english", "audio", "frame", "video_title", "video_url", "tags"}

// Video describes the source of a deck.
type Video struct {
	ID       string
	Title    string
	URL      string
	Path     string
	Language string
	FPS      float64
}

// Card is one exported flashcard.
type Card struct {
	GUID       string
	Learning   string
	English    string
	Audio      string
	Frame      string
	VideoTitle string
	VideoURL   string
	Tags       string
}

// Record renders the card as a CSV row using Anki media references.
func (c Card) Record() []string {
	return []string{
		c.GUID,
		c.Learning,
		c.English,
		fmt.Sprintf("[sound:%s]", c.Audio),
		fmt.Sprintf("<img src='%s'>", c.Frame),
		c.VideoTitle,
		c.VideoURL,
		c.Tags,
	}
}

// FormatTimestamp renders seconds as zero padded 0000.00 with the decimal
// point replaced so the value is safe in file names.
func FormatTimestamp(seconds float64) string {
	return strings.ReplaceAll(fmt.Sprintf("%07.2f", seconds), ".", "_")
}

// CardID identifies the card for a segment spanning start..end seconds.
func CardID(videoID string, start, end float64) string {
	return fmt.Sprintf("%s-%s-%s", videoID, FormatTimestamp(start), FormatTimestamp(end))
}

// Tags joins the configured tags with a tag derived from the video title.
func Tags(base []string, title, lang string) string {
	tags := make([]string, 0, len(base)+1)
	tags = append(tags, base...)
	if tag := TitleTag(title, lang); tag != "" {
		tags = append(tags, tag)
	}
	return strings.Join(tags, " ")
}

// TitleTag turns a video title into a single Anki tag, title cased for the
// video language.
func TitleTag(title, lang string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	tag := language.Und
	if lang != "" {
		if parsed, err := language.Parse(lang); err == nil {
			tag = parsed
		}
	}
	cased := cases.Title(tag).String(strings.ToLower(title))
	words := strings.FieldsFunc(cased, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(words, "_")
}

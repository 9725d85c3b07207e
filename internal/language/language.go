package language

import (
	"fmt"
	"strings"

	xtlang "golang.org/x/text/language"
)

// traineddata describes one tesseract language pack. tess is the file stem
// under tessdata; it is usually ISO 639-2/T but not always ("chi_sim").
type traineddata struct {
	tess    string
	name    string
	aliases []string
}

var packs = []traineddata{
	{"eng", "English", []string{"en", "english"}},
	{"pol", "Polish", []string{"pl", "polish"}},
	{"deu", "German", []string{"de", "ger", "german"}},
	{"fra", "French", []string{"fr", "fre", "french"}},
	{"spa", "Spanish", []string{"es", "spanish"}},
	{"ita", "Italian", []string{"it", "italian"}},
	{"por", "Portuguese", []string{"pt", "portuguese"}},
	{"nld", "Dutch", []string{"nl", "dut", "dutch"}},
	{"ces", "Czech", []string{"cs", "cze", "czech"}},
	{"slk", "Slovak", []string{"sk", "slo", "slovak"}},
	{"ukr", "Ukrainian", []string{"uk", "ukrainian"}},
	{"rus", "Russian", []string{"ru", "russian"}},
	{"swe", "Swedish", []string{"sv", "swedish"}},
	{"nor", "Norwegian", []string{"no", "nb", "norwegian"}},
	{"dan", "Danish", []string{"da", "danish"}},
	{"fin", "Finnish", []string{"fi", "finnish"}},
	{"jpn", "Japanese", []string{"ja", "japanese"}},
	{"kor", "Korean", []string{"ko", "korean"}},
	{"chi_sim", "Chinese (Simplified)", []string{"zh", "zho", "chi", "chinese", "zh-hans"}},
	{"chi_tra", "Chinese (Traditional)", []string{"zh-hant", "zh-tw"}},
}

var byName = func() map[string]*traineddata {
	m := make(map[string]*traineddata, len(packs)*4)
	for i := range packs {
		p := &packs[i]
		m[p.tess] = p
		for _, a := range p.aliases {
			m[a] = p
		}
	}
	return m
}()

func find(code string) *traineddata {
	return byName[strings.ToLower(strings.TrimSpace(code))]
}

// OCRLanguages turns a user language setting into the "+"-joined form
// tesseract takes for -l. Parts may be separated by "+", "," or spaces and
// may be tessdata stems, ISO 639 codes, English names or BCP 47 tags
// ("pl-PL"). withEnglish appends "eng" unless already present, for captions
// that carry an English translation line.
func OCRLanguages(lang string, withEnglish bool) (string, error) {
	parts := splitParts(lang)
	if len(parts) == 0 {
		return "", fmt.Errorf("language: empty language")
	}
	if withEnglish {
		parts = append(parts, "eng")
	}
	out := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, part := range parts {
		code, err := tesseractCode(part)
		if err != nil {
			return "", err
		}
		if !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}
	return strings.Join(out, "+"), nil
}

// Describe renders a language setting for people, e.g. "Polish + English".
// Unknown parts are shown uppercased.
func Describe(lang string, withEnglish bool) string {
	codes, err := OCRLanguages(lang, withEnglish)
	if err != nil {
		return strings.ToUpper(strings.TrimSpace(lang))
	}
	names := strings.Split(codes, "+")
	for i, code := range names {
		if p := find(code); p != nil {
			names[i] = p.name
		} else {
			names[i] = strings.ToUpper(code)
		}
	}
	return strings.Join(names, " + ")
}

func splitParts(lang string) []string {
	return strings.FieldsFunc(strings.TrimSpace(lang), func(r rune) bool {
		return r == '+' || r == ',' || r == ' '
	})
}

func tesseractCode(part string) (string, error) {
	if p := find(part); p != nil {
		return p.tess, nil
	}
	tag, err := xtlang.Parse(part)
	if err != nil {
		return "", fmt.Errorf("language: unknown language %q", part)
	}
	base, _ := tag.Base()
	if p := find(base.String()); p != nil {
		return p.tess, nil
	}
	iso3 := base.ISO3()
	if iso3 == "" || iso3 == "und" {
		return "", fmt.Errorf("language: unknown language %q", part)
	}
	return iso3, nil
}

package language

import "testing"

func TestOCRLanguages(t *testing.T) {
	tests := []struct {
		input       string
		withEnglish bool
		want        string
	}{
		{"pl", true, "pol+eng"},
		{"pl", false, "pol"},
		{"polish", true, "pol+eng"},
		{"POL", false, "pol"},
		{"pol+eng", true, "pol+eng"},
		{"eng", true, "eng"},
		{"pl-PL", false, "pol"},
		{"fr,de", false, "fra+deu"},
		{"ger fre", false, "deu+fra"},
		{"cs", false, "ces"},
		{"zh", false, "chi_sim"},
		{"zh-Hant", false, "chi_tra"},
		{"hu", false, "hun"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := OCRLanguages(tt.input, tt.withEnglish)
			if err != nil {
				t.Fatalf("OCRLanguages(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("OCRLanguages(%q, %v) = %q, want %q", tt.input, tt.withEnglish, got, tt.want)
			}
		})
	}
}

func TestOCRLanguagesRejectsInvalid(t *testing.T) {
	for _, input := range []string{"", "  ", "not a language!", "12"} {
		if _, err := OCRLanguages(input, true); err == nil {
			t.Errorf("OCRLanguages(%q) expected error", input)
		}
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		input       string
		withEnglish bool
		want        string
	}{
		{"pl", true, "Polish + English"},
		{"pol", false, "Polish"},
		{"zh", false, "Chinese (Simplified)"},
		{"hu", false, "HUN"},
		{"12", false, "12"},
	}
	for _, tt := range tests {
		if got := Describe(tt.input, tt.withEnglish); got != tt.want {
			t.Errorf("Describe(%q, %v) = %q, want %q", tt.input, tt.withEnglish, got, tt.want)
		}
	}
}

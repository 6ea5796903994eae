package translate

import "testing"

func TestParseGoogleResponse(t *testing.T) {
	body := []byte(`[[["Hola mundo. ","Hello world. ",null,null,10],["Segunda frase.","Second sentence.",null,null,10]],null,"en"]`)
	got, err := parseGoogleResponse(body)
	if err != nil {
		t.Fatalf("parseGoogleResponse: %v", err)
	}
	if got != "Hola mundo. Segunda frase." {
		t.Errorf("got %q", got)
	}
}

func TestParseGoogleResponseRejectsGarbage(t *testing.T) {
	for _, body := range []string{`not json`, `[]`, `["flat string"]`, `[[]]`} {
		if _, err := parseGoogleResponse([]byte(body)); err == nil {
			t.Errorf("body %q: expected error", body)
		}
	}
}

func TestTranslateTextShortCircuits(t *testing.T) {
	if got, err := TranslateText("", "en", "es"); err != nil || got != "" {
		t.Errorf("empty text: got %q, %v", got, err)
	}
	if got, err := TranslateText("unchanged", "en", "en"); err != nil || got != "unchanged" {
		t.Errorf("same language: got %q, %v", got, err)
	}
}

func TestLocalizeCategoryToSpanish(t *testing.T) {
	cases := []struct{ in, want string }{
		{"BREAKING NEWS", "ÚLTIMA HORA"},
		{"IMMIGRATION", "INMIGRACIÓN"},
		{"breaking news", "ÚLTIMA HORA"},
		{"EL PASO, TX", "EL PASO, TX"}, // places pass through
		{"PENTAGON", "PENTAGON"},
	}
	for _, tc := range cases {
		if got := LocalizeCategory(tc.in, "es"); got != tc.want {
			t.Errorf("LocalizeCategory(%q, es) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLocalizeCategoryBackToEnglish(t *testing.T) {
	if got := LocalizeCategory("ÚLTIMA HORA", "en"); got != "BREAKING NEWS" {
		t.Errorf("got %q, want BREAKING NEWS", got)
	}
	if got := LocalizeCategory("TRUMP", "en"); got != "TRUMP" {
		t.Errorf("got %q, want passthrough", got)
	}
}

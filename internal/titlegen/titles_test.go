package titlegen

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		ok   bool
		main string
	}{
		{"plain json", `{"mainTitle":"Ash on the Altar","alt1":"a b","alt2":"c d","explanation":"x"}`, true, "Ash on the Altar"},
		{"wrapped in prose", "Sure!\n```json\n{\"mainTitle\": \"Bell Without Tongue\", \"alt1\": \"x y\"}\n```\nEnjoy.", true, "Bell Without Tongue"},
		{"trailing comma", `{"mainTitle": "Salt Circle Broken", "alt1": "x y",}`, true, "Salt Circle Broken"},
		{"key value lines", "mainTitle: The Drowned Choir\nALT1 = Hymns Below\nnoise", true, "The Drowned Choir"},
		{"single key line", "mainTitle: Lonely", false, ""},
		{"garbage", "I cannot help with that.", false, ""},
		{"empty", "", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, ok := Extract(tt.text)
			if ok != tt.ok {
				t.Fatalf("ok: got %v, want %v", ok, tt.ok)
			}
			if ok && fields["mainTitle"] != tt.main {
				t.Errorf("mainTitle: got %q, want %q", fields["mainTitle"], tt.main)
			}
		})
	}
}

func TestExtractCanonicalizesKeyCase(t *testing.T) {
	fields, ok := Extract("MAINTITLE - Hollow Lantern\nexplanation: fog")
	if !ok {
		t.Fatal("expected key/value parse")
	}
	if fields["mainTitle"] != "Hollow Lantern" || fields["explanation"] != "fog" {
		t.Errorf("fields: got %v", fields)
	}
}

func TestPostProcess(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		want   Titles
	}{
		{
			name:   "clean input untouched",
			fields: map[string]string{"mainTitle": "Ash on the Altar", "alt1": "Bell Without Tongue", "alt2": "Salt Circle Broken", "explanation": "church"},
			want:   Titles{"Ash on the Altar", "Bell Without Tongue", "Salt Circle Broken", "church"},
		},
		{
			name:   "whitespace collapsed",
			fields: map[string]string{"mainTitle": "  Ash \n on\tthe   Altar ", "alt1": "a b", "alt2": "c d"},
			want:   Titles{"Ash on the Altar", "a b", "c d", defaultExplanation},
		},
		{
			name:   "long titles cut to five words",
			fields: map[string]string{"mainTitle": "one two three four five six seven", "alt1": "one two three four five six", "alt2": "x y"},
			want:   Titles{"one two three four five", "one two three four five six", "x y", defaultExplanation},
		},
		{
			name:   "duplicates echoed",
			fields: map[string]string{"mainTitle": "Fog Bell", "alt1": "fog bell", "alt2": "Bell Tower"},
			want:   Titles{"Fog Bell", "fog bell - Echo", "Bell Tower", defaultExplanation},
		},
		{
			name:   "blanks take defaults",
			fields: map[string]string{},
			want:   Titles{"Spectral Echoes", "Lantern in Fog", "Whispers Beneath", defaultExplanation},
		},
		{
			name:   "single words extended",
			fields: map[string]string{"mainTitle": "Gloom", "alt1": "Hush", "alt2": "two words"},
			want:   Titles{"Gloom of Night", "Hush of Night", "two words", defaultExplanation},
		},
		{
			name:   "reason used when explanation missing",
			fields: map[string]string{"mainTitle": "a b", "alt1": "c d", "alt2": "e f", "reason": " moody "},
			want:   Titles{"a b", "c d", "e f", "moody"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PostProcess(tt.fields); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPostProcessFallback(t *testing.T) {
	got := PostProcess(Fallback)
	want := Titles{"Spectral Echoes", "Lanterns in the Mist", "Whispers of the Hollow", "Fallback titles (unable to parse model output)."}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

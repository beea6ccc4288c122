package titlegen

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Titles is the generated title set.
type Titles struct {
	MainTitle   string `json:"mainTitle"`
	Alt1        string `json:"alt1"`
	Alt2        string `json:"alt2"`
	Explanation string `json:"explanation"`
}

// Fallback is returned when the model output cannot be parsed at all.
var Fallback = map[string]string{
	"mainTitle":   "Spectral Echoes",
	"alt1":        "Lanterns in the Mist",
	"alt2":        "Whispers of the Hollow",
	"explanation": "Fallback titles (unable to parse model output).",
}

// emptyDefaults fill title slots that come back blank.
var emptyDefaults = [3]string{"Spectral Echoes", "Lantern in Fog", "Whispers Beneath"}

const defaultExplanation = "Generated to match image mood."

var (
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
	kvLine        = regexp.MustCompile(`(?i)^(mainTitle|alt1|alt2|explanation)\s*[:=-]\s*(.+)$`)
	spaces        = regexp.MustCompile(`\s+`)
)

var canonicalKeys = map[string]string{
	"maintitle":   "mainTitle",
	"alt1":        "alt1",
	"alt2":        "alt2",
	"explanation": "explanation",
}

// Extract pulls the title fields out of free-form model text. It tries the
// outermost {...} block as JSON, then the same block with trailing commas
// removed, then "key: value" lines (at least two). It reports false when
// nothing usable was found.
func Extract(text string) (map[string]string, bool) {
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first >= 0 && last > first {
		candidate := text[first : last+1]
		if fields, ok := decodeObject(candidate); ok {
			return fields, true
		}
		if fields, ok := decodeObject(trailingComma.ReplaceAllString(candidate, "$1")); ok {
			return fields, true
		}
	}

	fields := map[string]string{}
	for _, line := range strings.Split(text, "\n") {
		m := kvLine.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		fields[canonicalKeys[strings.ToLower(m[1])]] = strings.TrimSpace(m[2])
	}
	if len(fields) >= 2 {
		return fields, true
	}
	return nil, false
}

func decodeObject(s string) (map[string]string, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, false
	}
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		if str, ok := v.(string); ok {
			fields[k] = str
		} else {
			fields[k] = fmt.Sprint(v)
		}
	}
	return fields, true
}

// PostProcess normalizes extracted fields into a presentable Titles.
// Whitespace is collapsed, titles over six words are cut to five, repeats
// (case-insensitive) get an " - Echo" suffix, blanks take fixed defaults and
// single words become "<word> of Night".
func PostProcess(fields map[string]string) Titles {
	titles := [3]string{fields["mainTitle"], fields["alt1"], fields["alt2"]}
	for i, t := range titles {
		t = strings.TrimSpace(spaces.ReplaceAllString(t, " "))
		if words := strings.Fields(t); len(words) > 6 {
			t = strings.Join(words[:5], " ")
		}
		titles[i] = t
	}

	for i := range titles {
		for j := i + 1; j < len(titles); j++ {
			if titles[i] == "" || titles[j] == "" {
				continue
			}
			if strings.EqualFold(titles[i], titles[j]) {
				titles[j] += " - Echo"
			}
		}
	}

	for i, t := range titles {
		switch {
		case t == "":
			titles[i] = emptyDefaults[i]
		case len(strings.Fields(t)) < 2:
			titles[i] = t + " of Night"
		}
	}

	explanation := strings.TrimSpace(fields["explanation"])
	if explanation == "" {
		explanation = strings.TrimSpace(fields["reason"])
	}
	if explanation == "" {
		explanation = defaultExplanation
	}

	return Titles{
		MainTitle:   titles[0],
		Alt1:        titles[1],
		Alt2:        titles[2],
		Explanation: explanation,
	}
}

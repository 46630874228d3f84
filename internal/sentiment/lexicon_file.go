package sentiment

import (
	"bufio"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

//go:embed lexicons/*.tsv
var lexiconFS embed.FS

// loadTable parses a tab-separated lexicon: a word followed by cols numeric
// columns. Blank lines and lines starting with # are skipped.
func loadTable(name string, cols int) (map[string][]float64, error) {
	f, err := lexiconFS.Open("lexicons/" + name)
	if err != nil {
		return nil, fmt.Errorf("open lexicon %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	table := make(map[string][]float64)
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) != cols+1 {
			return nil, fmt.Errorf("lexicon %s:%d: want %d columns, got %d", name, line, cols+1, len(fields))
		}
		values := make([]float64, cols)
		for i := range cols {
			v, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("lexicon %s:%d: %w", name, line, err)
			}
			values[i] = v
		}
		table[strings.ToLower(fields[0])] = values
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read lexicon %s: %w", name, err)
	}
	return table, nil
}

func mustLoadTable(name string, cols int) map[string][]float64 {
	table, err := loadTable(name, cols)
	if err != nil {
		panic(err)
	}
	return table
}

// tokens splits text on whitespace and trims surrounding punctuation, keeping
// inner apostrophes and hyphens. Case is preserved.
func tokens(text string) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		t := strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "none": {}, "nobody": {}, "nothing": {},
	"neither": {}, "nor": {}, "nowhere": {}, "cannot": {}, "without": {},
	"isnt": {}, "arent": {}, "wasnt": {}, "werent": {}, "dont": {}, "doesnt": {},
	"didnt": {}, "wont": {}, "wouldnt": {}, "cant": {}, "couldnt": {},
	"shouldnt": {}, "hasnt": {}, "havent": {}, "hadnt": {}, "aint": {},
}

func isNegation(word string) bool {
	w := strings.ToLower(word)
	if strings.HasSuffix(w, "n't") {
		return true
	}
	_, ok := negations[strings.ReplaceAll(w, "'", "")]
	return ok
}

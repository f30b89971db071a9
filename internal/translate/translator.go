// Package translate rewrites plain-English trading rule descriptions into
// rule text the parser accepts. It is rule-based and best-effort: phrasing
// outside the pattern table passes through unchanged and surfaces as a parse
// error downstream.
package translate

import (
	"regexp"
	"strings"
)

type rewrite struct {
	re          *regexp.Regexp
	replacement string
}

// Translator holds the compiled pattern table. It is stateless after
// construction and safe for concurrent use.
type Translator struct {
	rewrites []rewrite
}

// New compiles the pattern table. Multi-word phrases come before the single
// words they contain, so "closing price" never decays into "closing close".
func New() *Translator {
	table := []struct{ pattern, replacement string }{
		// price synonyms
		{`\bclosing price\b`, "close"},
		{`\bclose price\b`, "close"},
		{`\bprice\b`, "close"},

		// moving average spellings
		{`\b(\d+)[-\s]?day moving average\b`, "SMA(close,${1})"},
		{`\bsma[-\s]?(\d+)\b`, "SMA(close,${1})"},
		{`\b(\d+)[-\s]?day sma\b`, "SMA(close,${1})"},
		{`\bmoving average[-\s]?(\d+)\b`, "SMA(close,${1})"},
		{`\bma[-\s]?(\d+)\b`, "SMA(close,${1})"},

		// rsi, with and without an explicit window
		{`\brsi[-\s]?\(?(\d+)\)?\b`, "RSI(close,${1})"},
		{`\brsi\b`, "RSI(close,14)"},

		// spelled-out magnitudes
		{`\b(\d+(?:\.\d+)?)\s*million\b`, "${1}M"},
		{`\b(\d+(?:\.\d+)?)\s*m\b`, "${1}M"},
		{`\b(\d+(?:\.\d+)?)\s*thousand\b`, "${1}K"},
		{`\b(\d+(?:\.\d+)?)\s*k\b`, "${1}K"},

		// cross synonyms
		{`\bcrosses? above\b`, "crosses above"},
		{`\bcrosses? over\b`, "crosses above"},
		{`\bcrosses? below\b`, "crosses below"},
		{`\bcrosses? under\b`, "crosses below"},

		{`\bvol\b`, "volume"},

		{`\band\b`, "AND"},
		{`\bor\b`, "OR"},
	}

	t := &Translator{rewrites: make([]rewrite, 0, len(table))}
	for _, row := range table {
		t.rewrites = append(t.rewrites, rewrite{
			re:          regexp.MustCompile(row.pattern),
			replacement: row.replacement,
		})
	}
	return t
}

var (
	entryKeywords = []string{"buy", "enter", "entry", "long", "go long"}
	// "close" is deliberately not an exit keyword: it is a field name and
	// would misclassify rules like "close > 100" as exits
	exitKeywords = []string{"exit", "sell", "stop"}

	spaces          = regexp.MustCompile(`\s+`)
	sentenceEnd     = regexp.MustCompile(`[.!?]\s+`)
	leadingWhen     = regexp.MustCompile(`^when\s+`)
	crossPhrase     = regexp.MustCompile(`\bcrosses (above|below)\b`)
	crossHasSubject = regexp.MustCompile(`\b(open|high|low|close|volume)\s+crosses\b`)
	keywordRemovers []*regexp.Regexp
)

func init() {
	for _, k := range append(append([]string{}, entryKeywords...), exitKeywords...) {
		keywordRemovers = append(keywordRemovers, regexp.MustCompile(`\b`+k+`\b`))
	}
}

// Translate converts an English description into ENTRY:/EXIT: rule text.
func (t *Translator) Translate(text string) string {
	normalized := normalize(text)
	replaced := t.applyRewrites(normalized)
	return addRulePrefixes(replaced)
}

func normalize(text string) string {
	text = strings.ToLower(text)
	text = spaces.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func (t *Translator) applyRewrites(text string) string {
	for _, rw := range t.rewrites {
		text = rw.re.ReplaceAllString(text, rw.replacement)
	}
	return text
}

// addRulePrefixes splits the text into sentences and prefixes each with
// ENTRY: or EXIT: based on the trade-direction keywords it carries. A text
// with no direction keywords at all is treated as a bare entry rule.
func addRulePrefixes(text string) string {
	if !containsAny(text, entryKeywords) && !containsAny(text, exitKeywords) {
		return "ENTRY: " + text
	}

	var parts []string
	for _, sentence := range sentenceEnd.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		isEntry := containsAny(sentence, entryKeywords)
		isExit := containsAny(sentence, exitKeywords)

		for _, re := range keywordRemovers {
			sentence = re.ReplaceAllString(sentence, "")
		}
		sentence = strings.TrimSpace(spaces.ReplaceAllString(sentence, " "))
		sentence = leadingWhen.ReplaceAllString(sentence, "")
		sentence = strings.TrimSpace(spaces.ReplaceAllString(sentence, " "))

		// "crosses above X" with no left-hand field implies the close
		if crossPhrase.MatchString(sentence) && !crossHasSubject.MatchString(sentence) {
			sentence = crossPhrase.ReplaceAllString(sentence, "close crosses ${1}")
		}

		switch {
		case isEntry:
			parts = append(parts, "ENTRY: "+sentence)
		case isExit:
			parts = append(parts, "EXIT: "+sentence)
		default:
			parts = append(parts, "ENTRY: "+sentence)
		}
	}

	if len(parts) == 0 {
		return "ENTRY: " + text
	}
	return strings.Join(parts, "\n")
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

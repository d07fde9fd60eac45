package codec

import (
	"fmt"
	"regexp"
	"strings"
)

// Tag repair: generated and hand-authored text arrives with a number of
// historically loose tag spellings (missing brackets, missing zero
// padding, stray HTML-style closing tags). Each rule rewrites one loose
// form into the single canonical form its command expects.

var (
	closingTag = regexp.MustCompile(`</[^>]+>`)

	looseExpression = regexp.MustCompile(`<NPC\s+Expression\s+\[?(?:Cat:)?([0-9A-Fa-f]{1,2})\]?\s+\[?([0-9A-Fa-f]{1,4})\]?>`)
	looseEmotion    = regexp.MustCompile(`<Player\s+Emotion\s+\[?([0-9A-Fa-f]{1,2})\]?\s+\[?([0-9A-Fa-f]{1,4})\]?>`)

	loosePause    = regexp.MustCompile(`<Pause\s+([0-9A-Fa-f]{1,2})>`)
	looseLineType = regexp.MustCompile(`<Line Type\s+([0-9A-Fa-f]{1,2})>`)
	looseSound    = regexp.MustCompile(`<Play Sound Effect\s+([0-9A-Fa-f]{1,2})>`)
	looseCharSize = regexp.MustCompile(`<Char Size\s+([0-9A-Fa-f]{1,4})>`)
	looseLineSize = regexp.MustCompile(`<Line Size\s+([0-9A-Fa-f]{1,4})>`)

	looseSpanColor     = regexp.MustCompile(`<Color\s+\[?([0-9A-Fa-f]{6})\]?\s+for\s+\[?([0-9A-Fa-f]{1,2})\]?(?:\s+chars?)?>`)
	looseLineColor     = regexp.MustCompile(`<Color\s+Line\s+\[?([0-9A-Fa-f]{6})\]?>`)
	bareColor          = regexp.MustCompile(`<Color\s+([0-9A-Fa-f]{6})>`)
	bracketedBareColor = regexp.MustCompile(`<Color\s+\[([0-9A-Fa-f]{6})\]>`)
)

// normalizeTags rewrites loose tag spellings into canonical form and
// strips HTML-style closing tags, which the game engine cannot render.
func normalizeTags(text string) string {
	text = closingTag.ReplaceAllString(text, "")

	text = repair(looseExpression, text, func(g []string) string {
		return fmt.Sprintf("<NPC Expression [%s] [%s]>", padHex(g[1], 2), padHex(g[2], 4))
	})
	text = repair(looseEmotion, text, func(g []string) string {
		return fmt.Sprintf("<Player Emotion [%s] [%s]>", padHex(g[1], 2), padHex(g[2], 4))
	})

	text = repair(loosePause, text, func(g []string) string {
		return fmt.Sprintf("<Pause [%s]>", padHex(g[1], 2))
	})
	text = repair(looseLineType, text, func(g []string) string {
		return fmt.Sprintf("<Line Type [%s]>", padHex(g[1], 2))
	})
	text = repair(looseSound, text, func(g []string) string {
		return fmt.Sprintf("<Play Sound Effect [%s]>", padHex(g[1], 2))
	})
	text = repair(looseCharSize, text, func(g []string) string {
		return fmt.Sprintf("<Char Size [%s]>", padHex(g[1], 4))
	})
	text = repair(looseLineSize, text, func(g []string) string {
		return fmt.Sprintf("<Line Size [%s]>", padHex(g[1], 4))
	})

	text = repair(looseSpanColor, text, func(g []string) string {
		return fmt.Sprintf("<Color [%s] for [%s] chars>", strings.ToUpper(g[1]), padHex(g[2], 2))
	})
	text = repair(looseLineColor, text, func(g []string) string {
		return fmt.Sprintf("<Color Line [%s]>", strings.ToUpper(g[1]))
	})
	text = repair(bareColor, text, func(g []string) string {
		return fmt.Sprintf("<Color Line [%s]>", strings.ToUpper(g[1]))
	})
	text = repair(bracketedBareColor, text, func(g []string) string {
		return fmt.Sprintf("<Color Line [%s]>", strings.ToUpper(g[1]))
	})

	return text
}

func repair(re *regexp.Regexp, text string, rewrite func(groups []string) string) string {
	return re.ReplaceAllStringFunc(text, func(m string) string {
		return rewrite(re.FindStringSubmatch(m))
	})
}

func padHex(s string, width int) string {
	s = strings.ToUpper(s)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// punctuation folds typographic characters into their glyph table
// equivalents so text from word processors and language models still
// encodes.
var punctuation = strings.NewReplacer(
	"’", "'", // right single quotation mark
	"‘", "'", // left single quotation mark
	"“", `"`, // left double quotation mark
	"”", `"`, // right double quotation mark
	"—", "-", // em dash
	"–", "-", // en dash
	"…", "...", // ellipsis
	" ", " ", // non-breaking space
)

func normalizePunctuation(text string) string {
	return punctuation.Replace(text)
}

package codec

import (
	"strconv"
	"strings"

	"github.com/retroenv/retrogolib/log"
)

// Encode converts tagged text into the game's byte format. Loose tag
// spellings and typographic punctuation are normalized first, then the
// text is tokenized into alternating tags and literal runs. Literal runs
// receive greedy word wrapping against the dialogue box column budget.
// Unknown tags and unmapped characters are dropped with a warning. The
// output always ends with a single NUL terminator.
func (c *Codec) Encode(text string) []byte {
	text = normalizePunctuation(normalizeTags(text))

	var out []byte
	col := 0
	for _, tok := range tokenize(text) {
		if tok.tag {
			out = c.encodeTag(tok.text, out)
		} else {
			out = c.encodeLiteral(tok.text, &col, out)
		}
	}
	return append(out, terminatorByte)
}

type token struct {
	tag  bool
	text string
}

// tokenize splits text into tags and literal runs. A tag is the run from
// a '<' to the next '>'; a '<' without a closing '>' stays literal.
func tokenize(text string) []token {
	var tokens []token
	for len(text) > 0 {
		lt := strings.IndexByte(text, '<')
		if lt < 0 {
			tokens = append(tokens, token{text: text})
			break
		}
		gt := strings.IndexByte(text[lt:], '>')
		if gt < 1 {
			tokens = append(tokens, token{text: text})
			break
		}
		gt += lt
		if lt > 0 {
			tokens = append(tokens, token{text: text[:lt]})
		}
		if gt == lt+1 { // empty <> is not a tag
			tokens = append(tokens, token{text: text[lt : gt+1]})
		} else {
			tokens = append(tokens, token{tag: true, text: text[lt : gt+1]})
		}
		text = text[gt+1:]
	}
	return tokens
}

// encodeTag resolves a bracketed tag to its command byte and packed
// argument bytes. Unresolvable tags are dropped entirely.
func (c *Codec) encodeTag(tag string, out []byte) []byte {
	cmd, ok := commandBytes[templatedTag(tag)]
	if !ok {
		c.logger.Warn("Unknown tag", log.String("tag", tag))
		return out
	}
	spec := commands[cmd]

	pieces := bracketPieces(tag)
	args, ok := c.packArgs(spec, pieces)
	if !ok {
		c.logger.Warn("Tag arguments not encodable", log.String("tag", tag))
		return out
	}

	out = append(out, PrefixByte, cmd)
	return append(out, args...)
}

// bracketPieces returns the comma-separated contents of every bracket
// group of a tag, in order.
func bracketPieces(tag string) []string {
	var pieces []string
	for _, group := range bracketGroup.FindAllString(tag, -1) {
		for _, piece := range strings.Split(group[1:len(group)-1], ",") {
			pieces = append(pieces, strings.TrimSpace(piece))
		}
	}
	return pieces
}

// packArgs converts tag argument pieces into the command's argument
// bytes, applying the same per-command packing rules as decode in
// reverse. Positions that decode renders as enum names accept either the
// name or a raw hex value.
func (c *Codec) packArgs(spec command, pieces []string) ([]byte, bool) {
	need := func(n int) bool { return len(pieces) >= n }

	switch spec.pack {
	case packNone:
		return nil, true

	case packByte:
		v, ok := pieceValue(pieces, 0, nil)
		if !ok {
			return nil, false
		}
		return []byte{byte(v)}, true

	case packBytes:
		if !need(spec.args) {
			return nil, false
		}
		args := make([]byte, 0, spec.args)
		for i := range spec.args {
			v, ok := pieceValue(pieces, i, nil)
			if !ok {
				return nil, false
			}
			args = append(args, byte(v))
		}
		return args, true

	case packWords:
		words := spec.args / 2
		if !need(words) {
			return nil, false
		}
		args := make([]byte, 0, spec.args)
		for i := range words {
			v, ok := pieceValue(pieces, i, nil)
			if !ok {
				return nil, false
			}
			args = append(args, byte(v>>8), byte(v))
		}
		return args, true

	case packColor:
		v, ok := pieceValue(pieces, 0, nil)
		if !ok {
			return nil, false
		}
		return []byte{byte(v >> 16), byte(v >> 8), byte(v)}, true

	case packColorSpan:
		v, ok := pieceValue(pieces, 0, nil)
		n, ok2 := pieceValue(pieces, 1, nil)
		if !ok || !ok2 {
			return nil, false
		}
		return []byte{byte(v >> 16), byte(v >> 8), byte(v), byte(n)}, true

	case packEmotion, packExpression:
		names := emotionCodes
		if spec.pack == packExpression {
			names = expressionCodes
		}
		cat, ok := pieceValue(pieces, 0, nil)
		code, ok2 := pieceValue(pieces, 1, names)
		if !ok || !ok2 {
			return nil, false
		}
		return []byte{byte(cat), byte(code >> 8), byte(code)}, true

	case packMusic:
		id, ok := pieceValue(pieces, 0, musicIDs)
		tr, ok2 := pieceValue(pieces, 1, transitionIDs)
		if !ok || !ok2 {
			return nil, false
		}
		return []byte{byte(id), byte(tr)}, true

	case packSound:
		id, ok := pieceValue(pieces, 0, soundIDs)
		if !ok {
			return nil, false
		}
		return []byte{byte(id)}, true
	}
	return nil, false
}

// pieceValue resolves one argument piece. Name lookup wins over a hex
// parse so enum names ending in hex digits (e.g. "Variable 0") resolve
// to their code, not their suffix.
func pieceValue(pieces []string, idx int, names map[string]uint16) (uint32, bool) {
	if idx >= len(pieces) {
		return 0, false
	}
	piece := pieces[idx]
	if names != nil {
		if code, ok := names[piece]; ok {
			return uint32(code), true
		}
	}
	if hex := trailingHex(piece); hex != "" {
		v, err := strconv.ParseUint(hex, 16, 32)
		if err == nil {
			return uint32(v), true
		}
	}
	return 0, false
}

// trailingHex returns the run of up to 6 hex digits immediately before
// the end of a piece, so labeled values like "Cat:01" resolve to "01".
func trailingHex(piece string) string {
	end := len(piece)
	start := end
	for start > 0 && isHexDigit(piece[start-1]) && end-start < 6 {
		start--
	}
	return piece[start:end]
}

func isHexDigit(b byte) bool {
	switch {
	case b >= '0' && b <= '9', b >= 'a' && b <= 'f', b >= 'A' && b <= 'F':
		return true
	}
	return false
}

// encodeLiteral emits the glyph bytes of a literal run, wrapping lines
// at the column budget. The column counter persists across tokens and
// resets after a wrap or an embedded newline.
func (c *Codec) encodeLiteral(text string, col *int, out []byte) []byte {
	for wordIdx, word := range strings.Split(text, " ") {
		runes := []rune(word)

		spaceNeeded := 0
		if wordIdx > 0 && *col > 0 {
			spaceNeeded = 1
		}
		if *col > 0 && *col+spaceNeeded+len(runes) > LineWidth {
			out = append(out, newlineByte)
			*col = 0
			spaceNeeded = 0
		}
		if spaceNeeded > 0 {
			out = append(out, spaceByte)
			*col++
		}

		for i := 0; i < len(runes); {
			g, n := matchGlyph(runes[i:])
			if n == 0 {
				c.logger.Warn("Character not in glyph table",
					log.String("char", string(runes[i])))
				i++
				continue
			}
			out = append(out, g)
			if g == newlineByte {
				*col = 0
			} else {
				*col++
			}
			i += n
		}
	}
	return out
}

// matchGlyph finds the longest glyph starting at the given runes and
// returns its byte and rune length, or 0,0 when unmapped.
func matchGlyph(runes []rune) (byte, int) {
	limit := min(maxGlyphRunes, len(runes))
	for n := limit; n >= 1; n-- {
		if b, ok := glyphBytes[string(runes[:n])]; ok {
			return b, n
		}
	}
	return 0, 0
}

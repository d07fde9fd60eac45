// Package codec implements the bidirectional transform between the
// game's raw dialogue byte format and its tagged text representation.
//
// The byte format is a sequence of 8-bit glyphs interleaved with control
// codes. A control code is the 0x7F prefix byte, one command byte and a
// fixed, command-specific number of argument bytes. The stream is
// terminated by a single NUL that is never escaped.
//
// Decoding never fails: truncated or unknown codes and unmapped bytes
// become placeholder tokens. Encoding drops units it cannot express and
// reports them through the logger.
package codec

import "github.com/retroenv/retrogolib/log"

// LineWidth is the visible column budget of the in-game dialogue box.
// Encode inserts a newline glyph before any word that would cross it.
const LineWidth = 30

// Codec converts between raw dialogue bytes and tagged text. It holds no
// state besides the logger; both directions are pure functions of their
// input.
type Codec struct {
	logger *log.Logger
}

// New creates a codec that reports encode warnings to the given logger.
func New(logger *log.Logger) *Codec {
	return &Codec{logger: logger}
}

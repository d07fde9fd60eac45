package codec

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Decode converts raw dialogue bytes into tagged text. It scans left to
// right until a NUL byte or the end of the buffer. Malformed input is
// recovered locally: a truncated argument run yields a single malformed
// placeholder and scanning continues, an unknown command becomes a
// generic hex tag, and a byte without a glyph becomes a bracketed hex
// placeholder.
func (c *Codec) Decode(data []byte) string {
	var out strings.Builder
	i := 0
	for i < len(data) {
		b := data[i]
		if b == terminatorByte {
			break
		}

		if b == PrefixByte {
			i++
			if i >= len(data) {
				// Prefix at end of stream is a clean truncation.
				break
			}
			cmd := data[i]
			if cmd == terminatorByte {
				out.WriteString(EndConversationTag)
				break
			}

			spec, known := commands[cmd]
			if !known {
				out.WriteString(fmt.Sprintf("<Code 0x%02X>", cmd))
				i++
				continue
			}
			if spec.args == 0 {
				out.WriteString(spec.template)
				i++
				continue
			}

			args := data[i+1:]
			if len(args) > spec.args {
				args = args[:spec.args]
			}
			if len(args) < spec.args {
				out.WriteString(fmt.Sprintf("<Malformed Code 0x%02X>", cmd))
				i += 1 + len(args)
				continue
			}

			out.WriteString(formatTag(spec, args))
			i += 1 + spec.args
			continue
		}

		if g, ok := glyphs[b]; ok {
			out.WriteString(g)
		} else {
			out.WriteString(fmt.Sprintf("[?%02X]", b))
		}
		i++
	}
	return out.String()
}

// formatTag renders a command tag from its argument bytes using the
// command's packing rule. A template/argument mismatch falls back to the
// bare template instead of aborting the decode.
func formatTag(spec command, args []byte) string {
	var vals []any
	switch spec.pack {
	case packByte:
		vals = []any{args[0]}
	case packBytes:
		for _, b := range args {
			vals = append(vals, b)
		}
	case packWords:
		for j := 0; j+1 < len(args); j += 2 {
			vals = append(vals, binary.BigEndian.Uint16(args[j:]))
		}
	case packColor:
		vals = []any{uint32(args[0])<<16 | uint32(args[1])<<8 | uint32(args[2])}
	case packColorSpan:
		vals = []any{uint32(args[0])<<16 | uint32(args[1])<<8 | uint32(args[2]), args[3]}
	case packEmotion:
		vals = []any{args[0], emotionName(binary.BigEndian.Uint16(args[1:]))}
	case packExpression:
		vals = []any{args[0], expressionName(binary.BigEndian.Uint16(args[1:]))}
	case packMusic:
		vals = []any{musicName(args[0]), transitionName(args[1])}
	case packSound:
		vals = []any{soundName(args[0])}
	}

	if len(vals) != strings.Count(spec.template, "%") {
		return spec.template
	}
	return fmt.Sprintf(spec.template, vals...)
}

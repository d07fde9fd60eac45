package codec

import (
	"regexp"
	"sort"
)

// PrefixByte introduces a control code; the following byte selects the
// command. It never appears as a glyph.
const PrefixByte = 0x7F

const (
	terminatorByte = 0x00
	newlineByte    = 0xCD
	spaceByte      = 0x20
)

// EndConversationTag is the decoded form of the terminator command.
// The watch loop keys conversation-end detection off this string.
const EndConversationTag = "<End Conversation>"

// packing selects how a command's argument bytes map onto the bracket
// groups of its tag. The set is closed; the game engine fixes both the
// argument count and the interpretation per command.
type packing uint8

const (
	packNone       packing = iota
	packByte               // one raw byte
	packBytes              // each byte separately (demo order)
	packWords              // one or more 2-byte big-endian values
	packColor              // 3-byte big-endian 24-bit color
	packColorSpan          // 3-byte color followed by a 1-byte length
	packEmotion            // raw byte + 2-byte code named via playerEmotions
	packExpression         // raw byte + 2-byte code named via expressions
	packMusic              // music id byte + transition byte, both named
	packSound              // sound effect id byte, named
)

// command describes one control code: its human tag template (fmt verbs
// mark the argument slots), its fixed argument byte count and the
// argument packing. Adding a command means adding exactly one entry.
type command struct {
	template string
	args     int
	pack     packing
}

// commands is the closed control code table confirmed against the game's
// decompiled message interpreter.
var commands = map[byte]command{
	0x00: {template: EndConversationTag},
	0x01: {template: "<Continue>"},
	0x02: {template: "<Clear Text>"},
	0x03: {template: "<Pause [%02X]>", args: 1, pack: packByte},
	0x04: {template: "<Press A>"},
	0x05: {template: "<Color Line [%06X]>", args: 3, pack: packColor},
	0x06: {template: "<Instant Skip>"},
	0x07: {template: "<Unskippable>"},
	0x08: {template: "<Player Emotion [%02X] [%s]>", args: 3, pack: packEmotion},
	0x09: {template: "<NPC Expression [Cat:%02X] [%s]>", args: 3, pack: packExpression},
	0x0A: {template: "<Set Demo Order [%02X, %02X, %02X]>", args: 3, pack: packBytes},
	0x0B: {template: "<Set Demo Order [%02X, %02X, %02X]>", args: 3, pack: packBytes},
	0x0C: {template: "<Set Demo Order [%02X, %02X, %02X]>", args: 3, pack: packBytes},
	0x0D: {template: "<Open Choice Menu>"},
	0x0E: {template: "<Set Jump [%04X]>", args: 2, pack: packWords},
	0x0F: {template: "<Choice 1 Jump [%04X]>", args: 2, pack: packWords},
	0x10: {template: "<Choice 2 Jump [%04X]>", args: 2, pack: packWords},
	0x11: {template: "<Choice 3 Jump [%04X]>", args: 2, pack: packWords},
	0x12: {template: "<Choice 4 Jump [%04X]>", args: 2, pack: packWords},
	0x13: {template: "<Rand Jump 2 [%04X, %04X]>", args: 4, pack: packWords},
	0x14: {template: "<Rand Jump 3 [%04X, %04X, %04X]>", args: 6, pack: packWords},
	0x15: {template: "<Rand Jump 4 [%04X, %04X, %04X, %04X]>", args: 8, pack: packWords},
	0x16: {template: "<Set 2 Choices [%04X, %04X]>", args: 4, pack: packWords},
	0x17: {template: "<Set 3 Choices [%04X, %04X, %04X]>", args: 6, pack: packWords},
	0x18: {template: "<Set 4 Choices [%04X, %04X, %04X, %04X]>", args: 8, pack: packWords},
	0x19: {template: "<Force Dialog Switch>"},
	0x1A: {template: "<Player Name>"},
	0x1B: {template: "<NPC Name>"},
	0x1C: {template: "<Catchphrase>"},
	0x1D: {template: "<Year>"},
	0x1E: {template: "<Month>"},
	0x1F: {template: "<Day of Week>"},
	0x20: {template: "<Day>"},
	0x21: {template: "<Hour>"},
	0x22: {template: "<Minute>"},
	0x23: {template: "<Second>"},
	0x24: {template: "<String 0>"},
	0x25: {template: "<String 1>"},
	0x26: {template: "<String 2>"},
	0x27: {template: "<String 3>"},
	0x28: {template: "<String 4>"},
	0x2F: {template: "<Town Name>"},
	0x4C: {template: "<Angry Voice>"},
	0x50: {template: "<Color [%06X] for [%02X] chars>", args: 4, pack: packColorSpan},
	0x53: {template: "<Line Type [%02X]>", args: 1, pack: packByte},
	0x54: {template: "<Char Size [%04X]>", args: 2, pack: packWords},
	0x56: {template: "<Play Music [%s] [%s]>", args: 2, pack: packMusic},
	0x57: {template: "<Stop Music [%s] [%s]>", args: 2, pack: packMusic},
	0x59: {template: "<Play Sound Effect [%s]>", args: 1, pack: packSound},
	0x5A: {template: "<Line Size [%04X]>", args: 2, pack: packWords},
	0x76: {template: "<AM/PM>"},
}

// bracketGroup matches one bracketed argument group inside a tag.
var bracketGroup = regexp.MustCompile(`\[[^\]]*\]`)

// commandBytes maps the templated tag form (every bracket group replaced
// by [{}]) back to its command byte. Generated from commands; when two
// commands share a template (the Set Demo Order triple) the lowest
// command byte wins.
var commandBytes = reverseCommands()

func reverseCommands() map[string]byte {
	keys := make([]int, 0, len(commands))
	for b := range commands {
		keys = append(keys, int(b))
	}
	sort.Ints(keys)

	m := make(map[string]byte, len(commands))
	for _, k := range keys {
		tpl := templatedTag(commands[byte(k)].template)
		if _, exists := m[tpl]; !exists {
			m[tpl] = byte(k)
		}
	}
	return m
}

// templatedTag replaces every bracket group of a tag with the [{}]
// placeholder, yielding the canonical lookup form.
func templatedTag(tag string) string {
	return bracketGroup.ReplaceAllString(tag, "[{}]")
}

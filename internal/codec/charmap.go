package codec

// glyphs maps every displayable dialogue byte to its display string.
// The table matches the font layout recovered from the game's decompiled
// text renderer. 0x7F is the escape prefix and 0x00 the terminator, so
// neither appears here; a handful of slots (0x80, 0xAC, 0xAD) are unused
// by the font.
var glyphs = map[byte]string{
	0x00: "¡", 0x01: "¿", 0x02: "Ä", 0x03: "À", 0x04: "Á", 0x05: "Â", 0x06: "Ã", 0x07: "Å",
	0x08: "Ç", 0x09: "È", 0x0A: "É", 0x0B: "Ê", 0x0C: "Ë", 0x0D: "Ì", 0x0E: "Í", 0x0F: "Î",
	0x10: "Ï", 0x11: "Ð", 0x12: "Ñ", 0x13: "Ò", 0x14: "Ó", 0x15: "Ô", 0x16: "Õ", 0x17: "Ö",
	0x18: "Ø", 0x19: "Ù", 0x1A: "Ú", 0x1B: "Û", 0x1C: "Ü", 0x1D: "ß", 0x1E: "Þ", 0x1F: "à",
	0x20: " ", 0x21: "!", 0x22: "\"", 0x23: "á", 0x24: "â", 0x25: "%", 0x26: "&", 0x27: "'",
	0x28: "(", 0x29: ")", 0x2A: "~", 0x2B: "♥", 0x2C: ",", 0x2D: "-", 0x2E: ".", 0x2F: "♪",
	0x30: "0", 0x31: "1", 0x32: "2", 0x33: "3", 0x34: "4", 0x35: "5", 0x36: "6", 0x37: "7",
	0x38: "8", 0x39: "9", 0x3A: ":", 0x3B: "🌢", 0x3C: "<", 0x3D: "=", 0x3E: ">", 0x3F: "?",
	0x40: "@", 0x41: "A", 0x42: "B", 0x43: "C", 0x44: "D", 0x45: "E", 0x46: "F", 0x47: "G",
	0x48: "H", 0x49: "I", 0x4A: "J", 0x4B: "K", 0x4C: "L", 0x4D: "M", 0x4E: "N", 0x4F: "O",
	0x50: "P", 0x51: "Q", 0x52: "R", 0x53: "S", 0x54: "T", 0x55: "U", 0x56: "V", 0x57: "W",
	0x58: "X", 0x59: "Y", 0x5A: "Z", 0x5B: "ã", 0x5C: "💢", 0x5D: "ä", 0x5E: "å", 0x5F: "_",
	0x60: "ç", 0x61: "a", 0x62: "b", 0x63: "c", 0x64: "d", 0x65: "e", 0x66: "f", 0x67: "g",
	0x68: "h", 0x69: "i", 0x6A: "j", 0x6B: "k", 0x6C: "l", 0x6D: "m", 0x6E: "n", 0x6F: "o",
	0x70: "p", 0x71: "q", 0x72: "r", 0x73: "s", 0x74: "t", 0x75: "u", 0x76: "v", 0x77: "w",
	0x78: "x", 0x79: "y", 0x7A: "z", 0x7B: "è", 0x7C: "é", 0x7D: "ê", 0x7E: "ë",
	0x81: "ì", 0x82: "í", 0x83: "î", 0x84: "ï", 0x85: "•", 0x86: "ð", 0x87: "ñ",
	0x88: "ò", 0x89: "ó", 0x8A: "ô", 0x8B: "õ", 0x8C: "ö", 0x8D: "⁰", 0x8E: "ù", 0x8F: "ú",
	0x90: "ー", 0x91: "û", 0x92: "ü", 0x93: "ý", 0x94: "ÿ", 0x95: "þ", 0x96: "Ý", 0x97: "¦",
	0x98: "§", 0x99: "a̱", 0x9A: "o̱", 0x9B: "‖", 0x9C: "µ", 0x9D: "³", 0x9E: "²", 0x9F: "¹",
	0xA0: "¯", 0xA1: "¬", 0xA2: "Æ", 0xA3: "æ", 0xA4: "„", 0xA5: "»", 0xA6: "«", 0xA7: "☀",
	0xA8: "☁", 0xA9: "☂", 0xAA: "🌬", 0xAB: "☃", 0xAE: "/", 0xAF: "∞", 0xB0: "○", 0xB1: "🗙",
	0xB2: "□", 0xB3: "△", 0xB4: "+", 0xB5: "⚡", 0xB6: "♂", 0xB7: "♀", 0xB8: "🍀", 0xB9: "★",
	0xBA: "💀", 0xBB: "😮", 0xBC: "😄", 0xBD: "😣", 0xBE: "😠", 0xBF: "😃", 0xC0: "×", 0xC1: "÷",
	0xC2: "🔨", 0xC3: "🎀", 0xC4: "✉", 0xC5: "💰", 0xC6: "🐾", 0xC7: "🐶", 0xC8: "🐱", 0xC9: "🐰",
	0xCA: "🐦", 0xCB: "🐮", 0xCC: "🐷", 0xCD: "\n", 0xCE: "🐟", 0xCF: "🐞", 0xD0: ";", 0xD1: "#",
}

// glyphBytes is the generated inverse of glyphs. It is built by walking
// byte values in ascending order so that a duplicated display string
// always resolves to the lowest byte value instead of depending on map
// iteration order.
var glyphBytes = reverseGlyphs()

// maxGlyphRunes is the longest glyph measured in runes. The combining
// mark glyphs (a̱, o̱) span two runes.
const maxGlyphRunes = 2

func reverseGlyphs() map[string]byte {
	m := make(map[string]byte, len(glyphs))
	for b := range 256 {
		s, ok := glyphs[byte(b)]
		if !ok {
			continue
		}
		if _, exists := m[s]; !exists {
			m[s] = byte(b)
		}
	}
	return m
}

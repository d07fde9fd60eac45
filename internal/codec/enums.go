package codec

import "fmt"

// Enumerated sub-argument tables. Decode substitutes the name into the
// tag; encode accepts either the name or the raw hex value. Unknown
// values fall back to a labeled hex form so no information is dropped.

var expressions = map[uint16]string{
	0x00: "None?", 0x01: "Glare", 0x02: "Shocked", 0x03: "Laugh", 0x04: "Surprised",
	0x05: "Angry", 0x06: "Excited", 0x07: "Worried", 0x08: "Scared", 0x09: "Cry",
	0x0A: "Happy", 0x0B: "Wondering", 0x0C: "Idea", 0x0D: "Sad", 0x0E: "Happy Dance",
	0x0F: "Thinking", 0x10: "Depressed", 0x11: "Heartbroken", 0x12: "Sinister",
	0x13: "Tired", 0x14: "Love", 0x15: "Smile", 0x16: "Scowl", 0x17: "Frown",
	0x18: "Laughing (Sitting)", 0x19: "Shocked (Sitting)", 0x1A: "Idea (Sitting)",
	0x1B: "Surprised (Sitting)", 0x1C: "Angry (Sitting)", 0x1D: "Smile (Sitting)",
	0x1E: "Frown (Sitting)", 0x1F: "Wondering (Sitting)", 0x20: "Salute",
	0x21: "Angry (Resetti)", 0x22: "Reset Expressions (Resetti)", 0x23: "Sad (Resetti)",
	0x24: "Excitement (Resetti)", 0x25: "Jaw Drop (Resetti)", 0x26: "Annoyed (Resetti)",
	0x27: "Furious (Resetti)", 0x28: "Surprised (K.K.)", 0x29: "Fortune",
	0x2A: "Smile (Resetti)", 0xFD: "Reset Expressions (K.K.)",
	0xFE: "Reset Expressions (Sitting)", 0xFF: "Reset Expressions",
}

var playerEmotions = map[uint16]string{
	0x02: "Surprised",
	0xFD: "Purple Mist", // sick emotion?
	0xFE: "Scared",
	0xFF: "Reset Emotion",
}

var musicTracks = map[byte]string{
	0x00: "Silence",
	0x01: "Arriving in Town",
	0x02: "House Selection",
	0x03: "House Selected",
	0x04: "House Selected (2)", // after handing Nook the 1,000 bells
	0x05: "Resetti",
	0x06: "Current Hourly Music",
	0x07: "Resetti (2)", // after the fake reset screen transition
	0x08: "Don Resetti",
}

var musicTransitions = map[byte]string{
	0x00: "None",
	0x01: "Undetermined",
	0x02: "Fade",
}

var soundEffects = map[byte]string{
	0x00: "Bell Transaction",
	0x01: "Happy",
	0x02: "Very Happy",
	0x03: "Variable 0", // 03 and 04 are handled specially by the engine
	0x04: "Variable 1",
	0x05: "Annoyed", // Resetti
	0x06: "Thunder", // Resetti
	0x07: "None",    // silent; the engine clamps anything greater to 07
}

var (
	expressionCodes = reverseWordEnum(expressions)
	emotionCodes    = reverseWordEnum(playerEmotions)
	musicIDs        = reverseByteEnum(musicTracks)
	transitionIDs   = reverseByteEnum(musicTransitions)
	soundIDs        = reverseByteEnum(soundEffects)
)

func expressionName(code uint16) string {
	if name, ok := expressions[code]; ok {
		return name
	}
	return fmt.Sprintf("Unknown_%04X", code)
}

func emotionName(code uint16) string {
	if name, ok := playerEmotions[code]; ok {
		return name
	}
	return fmt.Sprintf("Unknown_Emotion_%04X", code)
}

func musicName(id byte) string {
	if name, ok := musicTracks[id]; ok {
		return name
	}
	return fmt.Sprintf("Unknown_Music_%02X", id)
}

func transitionName(id byte) string {
	if name, ok := musicTransitions[id]; ok {
		return name
	}
	return fmt.Sprintf("Unknown_Transition_%02X", id)
}

func soundName(id byte) string {
	if name, ok := soundEffects[id]; ok {
		return name
	}
	return fmt.Sprintf("Unknown_Sound_%02X", id)
}

func reverseWordEnum(m map[uint16]string) map[string]uint16 {
	r := make(map[string]uint16, len(m))
	for code := range 0x10000 {
		if name, ok := m[uint16(code)]; ok {
			if _, exists := r[name]; !exists {
				r[name] = uint16(code)
			}
		}
	}
	return r
}

func reverseByteEnum(m map[byte]string) map[string]uint16 {
	r := make(map[string]uint16, len(m))
	for code := range 256 {
		if name, ok := m[byte(code)]; ok {
			if _, exists := r[name]; !exists {
				r[name] = uint16(code)
			}
		}
	}
	return r
}

package generate

import (
	"fmt"
	"strings"
	"time"
)

// gossipInstructions tells the model how openly the speaker talks
// about the current rumor, by stage.
var gossipInstructions = [6]string{
	"You have not heard any rumors. Talk about everyday village life.",
	"You vaguely overheard something but know no details. You may hint at it once.",
	"You heard a rumor and find it exciting. Mention it if the moment fits.",
	"The rumor is on your mind. Bring it up and speculate a little.",
	"Everyone is talking about the rumor. Discuss it openly and ask what the player thinks.",
	"The rumor has taken over the village. It dominates everything you say.",
}

// buildPrompt assembles the system prompt for one generation call.
func buildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("You are ")
	b.WriteString(req.Speaker)
	b.WriteString(", a villager in Animal Crossing on the GameCube. ")
	b.WriteString("Write the next thing you say to the player, in character, in English.\n\n")

	if req.HasRecord {
		writePersona(&b, req)
	}

	fmt.Fprintf(&b, "Current time: %s.\n", timeContext(req.Now))

	stage := req.GossipStage
	if stage < 0 {
		stage = 0
	}
	if stage >= len(gossipInstructions) {
		stage = len(gossipInstructions) - 1
	}
	b.WriteString(gossipInstructions[stage])
	b.WriteString("\n")
	if stage >= 1 && req.GossipTopic != "" {
		fmt.Fprintf(&b, "The rumor: %s\n", req.GossipTopic)
	}
	if stage >= 2 && len(req.HotVillagers) > 0 {
		fmt.Fprintf(&b, "The rumor currently circles around: %s.\n",
			strings.Join(req.HotVillagers, ", "))
	}

	if req.Notes != "" {
		b.WriteString("\nContext: ")
		b.WriteString(req.Notes)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	writeTagVocabulary(&b)
	return b.String()
}

func writePersona(b *strings.Builder, req Request) {
	r := req.Record
	b.WriteString("About you:\n")
	if r.Species != "" {
		fmt.Fprintf(b, "- Species: %s\n", r.Species)
	}
	if r.Gender != "" {
		fmt.Fprintf(b, "- Gender: %s\n", r.Gender)
	}
	if r.Personality != "" {
		fmt.Fprintf(b, "- Personality: %s\n", r.Personality)
	}
	if r.Birthday != "" {
		fmt.Fprintf(b, "- Birthday: %s\n", r.Birthday)
	}
	if r.Catchphrase != "" {
		fmt.Fprintf(b, "- Catchphrase: %q (sprinkle it into your speech)\n", r.Catchphrase)
	}
	if r.Hobby != "" {
		fmt.Fprintf(b, "- Hobby: %s\n", r.Hobby)
	}
	if r.Quote != "" {
		fmt.Fprintf(b, "- Your motto: %q\n", r.Quote)
	}
	for _, section := range []string{"personality", "appearance"} {
		if text := r.Sections[section]; text != "" {
			fmt.Fprintf(b, "- %s\n", text)
		}
	}
	b.WriteString("\n")
}

func writeTagVocabulary(b *strings.Builder) {
	b.WriteString("You may use these dialogue tags:\n")
	b.WriteString("- <Pause [0A]> for a short beat\n")
	b.WriteString("- <NPC Expression [00] [Happy]> (also Angry, Sad, Surprised, Laugh, Sleepy)\n")
	b.WriteString("- <Press A><Clear Text> between dialogue pages\n")
	b.WriteString("- <End Conversation> once at the very end\n")
	b.WriteString("Keep each page under three short lines. Plain text otherwise, no markdown.\n")
}

// timeContext renders the moment the way a villager would experience
// it, e.g. "Saturday, August 31, 3:04 PM (afternoon, summer)".
func timeContext(now time.Time) string {
	return fmt.Sprintf("%s, %s %d, %s (%s, %s)",
		now.Weekday(),
		now.Month(), now.Day(),
		now.Format("3:04 PM"),
		timeOfDay(now.Hour()),
		season(now.Month()))
}

func timeOfDay(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 21:
		return "evening"
	default:
		return "night"
	}
}

func season(month time.Month) string {
	switch month {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "autumn"
	}
}

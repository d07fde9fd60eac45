package codec

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "pause missing brackets",
			text: "<Pause 0A>",
			want: "<Pause [0A]>",
		},
		{
			name: "pause missing zero padding",
			text: "<Pause A>",
			want: "<Pause [0A]>",
		},
		{
			name: "line type missing brackets",
			text: "<Line Type 1>",
			want: "<Line Type [01]>",
		},
		{
			name: "sound effect missing brackets",
			text: "<Play Sound Effect 01>",
			want: "<Play Sound Effect [01]>",
		},
		{
			name: "char size missing brackets and padding",
			text: "<Char Size 40>",
			want: "<Char Size [0040]>",
		},
		{
			name: "line size missing brackets",
			text: "<Line Size 001E>",
			want: "<Line Size [001E]>",
		},
		{
			name: "stray closing tags are stripped",
			text: "Hello</b> there</i>",
			want: "Hello there",
		},
		{
			name: "expression without brackets",
			text: "<NPC Expression 00 0A>",
			want: "<NPC Expression [00] [000A]>",
		},
		{
			name: "expression with category label and short code",
			text: "<NPC Expression [Cat:0] [A]>",
			want: "<NPC Expression [00] [000A]>",
		},
		{
			name: "player emotion without brackets",
			text: "<Player Emotion 2 FF>",
			want: "<Player Emotion [02] [00FF]>",
		},
		{
			name: "bare color assumes line color",
			text: "<Color FF0000>",
			want: "<Color Line [FF0000]>",
		},
		{
			name: "bracketed color missing line keyword",
			text: "<Color [ff0000]>",
			want: "<Color Line [FF0000]>",
		},
		{
			name: "span color missing chars keyword",
			text: "<Color FF0000 for 5>",
			want: "<Color [FF0000] for [05] chars>",
		},
		{
			name: "span color lowercase",
			text: "<Color [ff00aa] for [0a] chars>",
			want: "<Color [FF00AA] for [0A] chars>",
		},
		{
			name: "canonical tags are unchanged",
			text: "<Color Line [FF0000]><Pause [0A]><Set Jump [14BC]>",
			want: "<Color Line [FF0000]><Pause [0A]><Set Jump [14BC]>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeTags(tt.text))
		})
	}
}

func TestNormalizePunctuation(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "curly quotes fold to straight",
			text: "‘Hi’ “there”",
			want: `'Hi' "there"`,
		},
		{
			name: "dashes fold to hyphen",
			text: "a—b–c",
			want: "a-b-c",
		},
		{
			name: "ellipsis folds to periods",
			text: "well…",
			want: "well...",
		},
		{
			name: "non-breaking space folds to space",
			text: "a b",
			want: "a b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePunctuation(tt.text))
		})
	}
}

/************************************************************************************
 *
 * corvid, a Go client library for the Discord API
 *
 * SPDX-License-Identifier: BSD-3-Clause
 *
 * Copyright 2025 the corvid authors
 *
 * Licensed under the BSD 3-Clause License.
 * See the LICENSE file for details.
 *
 ************************************************************************************/

package corvid

import (
	"encoding/json"
	"testing"
)

func TestMessageFlagsHas(t *testing.T) {
	flags := MessageFlagSuppressEmbeds | MessageFlagEphemeral

	if !flags.Has(MessageFlagSuppressEmbeds) {
		t.Error("expected MessageFlagSuppressEmbeds to be set")
	}
	if !flags.Has(MessageFlagSuppressEmbeds, MessageFlagEphemeral) {
		t.Error("expected both flags to be set")
	}
	if flags.Has(MessageFlagLoading) {
		t.Error("did not expect MessageFlagLoading to be set")
	}
}

func TestColorRGBAndHex(t *testing.T) {
	c := RGB(0x58, 0x65, 0xF2)
	if c != ColorBlurple {
		t.Errorf("RGB(0x58, 0x65, 0xF2) = %#x, want %#x", int(c), int(ColorBlurple))
	}
	if got, want := c.R(), uint8(0x58); got != want {
		t.Errorf("R() = %#x, want %#x", got, want)
	}
	if got, want := c.G(), uint8(0x65); got != want {
		t.Errorf("G() = %#x, want %#x", got, want)
	}
	if got, want := c.B(), uint8(0xF2); got != want {
		t.Errorf("B() = %#x, want %#x", got, want)
	}
	if got, want := c.Hex(), "#5865f2"; got != want {
		t.Errorf("Hex() = %q, want %q", got, want)
	}
}

func TestEmbedBuilderTruncatesAndCapsFields(t *testing.T) {
	longTitle := make([]byte, 300)
	for i := range longTitle {
		longTitle[i] = 'a'
	}

	b := NewEmbedBuilder().SetTitle(string(longTitle)).SetColor(ColorGreen)
	for i := 0; i < 30; i++ {
		b.AddField("name", "value", false)
	}
	embed := b.Build()

	if len(embed.Title) != 256 {
		t.Errorf("Title length = %d, want 256", len(embed.Title))
	}
	if len(embed.Fields) != 25 {
		t.Errorf("Fields length = %d, want 25 (capped)", len(embed.Fields))
	}
	if embed.Color != ColorGreen {
		t.Errorf("Color = %#x, want %#x", int(embed.Color), int(ColorGreen))
	}
}

func TestMessageJumpURL(t *testing.T) {
	dmMessage := Message{ID: 3, ChannelID: 2}
	if got, want := dmMessage.JumpURL(), "https://discord.com/channels/@me/2/3"; got != want {
		t.Errorf("JumpURL() = %q, want %q", got, want)
	}

	guildMessage := Message{ID: 3, ChannelID: 2, GuildID: 1}
	if got, want := guildMessage.JumpURL(), "https://discord.com/channels/1/2/3"; got != want {
		t.Errorf("JumpURL() = %q, want %q", got, want)
	}
}

func TestMessageReplyWithoutClientFails(t *testing.T) {
	msg := Message{ID: 1, ChannelID: 2}
	if _, err := msg.Reply(MessageCreateOptions{Content: "hi"}); err != ErrNoClient {
		t.Errorf("Reply() error = %v, want ErrNoClient", err)
	}
	if err := msg.Delete(""); err != ErrNoClient {
		t.Errorf("Delete() error = %v, want ErrNoClient", err)
	}
	if err := msg.Pin(""); err != ErrNoClient {
		t.Errorf("Pin() error = %v, want ErrNoClient", err)
	}
}

func TestMessageUnmarshalJSONResolvesComponents(t *testing.T) {
	payload := []byte(`{
		"id": "123456789012345678",
		"channel_id": "223456789012345678",
		"content": "hi",
		"type": 0,
		"components": [
			{
				"type": 1,
				"components": [
					{"type": 2, "style": 1, "custom_id": "btn", "label": "Click"}
				]
			}
		]
	}`)

	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if msg.Content != "hi" {
		t.Errorf("Content = %q, want %q", msg.Content, "hi")
	}
	if len(msg.Components) != 1 {
		t.Fatalf("Components length = %d, want 1", len(msg.Components))
	}

	row, ok := msg.Components[0].(*ActionRowComponent)
	if !ok {
		t.Fatalf("Components[0] type = %T, want *ActionRowComponent", msg.Components[0])
	}
	if len(row.Components) != 1 {
		t.Errorf("row.Components length = %d, want 1", len(row.Components))
	}
}

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
	"time"
)

// MessageType distinguishes a regular message from system messages
// (member joins, pins, boosts, thread events, ...).
//
// Reference: https://discord.com/developers/docs/resources/message#message-object-message-types
type MessageType int

const (
	MessageTypeDefault                              MessageType = 0
	MessageTypeRecipientAdd                         MessageType = 1
	MessageTypeRecipientRemove                       MessageType = 2
	MessageTypeCall                                  MessageType = 3
	MessageTypeChannelNameChange                     MessageType = 4
	MessageTypeChannelIconChange                     MessageType = 5
	MessageTypeChannelPinnedMessage                  MessageType = 6
	MessageTypeUserJoin                              MessageType = 7
	MessageTypeGuildBoost                            MessageType = 8
	MessageTypeGuildBoostTier1                       MessageType = 9
	MessageTypeGuildBoostTier2                       MessageType = 10
	MessageTypeGuildBoostTier3                       MessageType = 11
	MessageTypeChannelFollowAdd                      MessageType = 12
	MessageTypeGuildDiscoveryDisqualified            MessageType = 14
	MessageTypeGuildDiscoveryRequalified              MessageType = 15
	MessageTypeThreadCreated                         MessageType = 18
	MessageTypeReply                                 MessageType = 19
	MessageTypeChatInputCommand                      MessageType = 20
	MessageTypeThreadStarterMessage                  MessageType = 21
	MessageTypeGuildInviteReminder                   MessageType = 22
	MessageTypeContextMenuCommand                    MessageType = 23
	MessageTypeAutoModerationAction                  MessageType = 24
	MessageTypeRoleSubscriptionPurchase              MessageType = 25
	MessageTypeInteractionPremiumUpsell              MessageType = 26
	MessageTypePollResult                            MessageType = 46
)

// MessageFlags are bit flags controlling how a message is rendered or
// processed.
//
// Reference: https://discord.com/developers/docs/resources/message#message-object-message-flags
type MessageFlags int

const (
	// MessageFlagCrossposted means this message has been published to subscribed channels.
	MessageFlagCrossposted MessageFlags = 1 << 0
	// MessageFlagIsCrosspost means this message originated from a followed channel.
	MessageFlagIsCrosspost MessageFlags = 1 << 1
	// MessageFlagSuppressEmbeds hides embeds for this message.
	MessageFlagSuppressEmbeds MessageFlags = 1 << 2
	// MessageFlagSourceMessageDeleted means the source message for this crosspost was deleted.
	MessageFlagSourceMessageDeleted MessageFlags = 1 << 3
	// MessageFlagUrgent marks this as a system urgent message.
	MessageFlagUrgent MessageFlags = 1 << 4
	// MessageFlagHasThread means this message has an associated thread.
	MessageFlagHasThread MessageFlags = 1 << 5
	// MessageFlagEphemeral means this message is only visible to the user who triggered the interaction.
	MessageFlagEphemeral MessageFlags = 1 << 6
	// MessageFlagLoading means this is a deferred interaction response showing "is thinking".
	MessageFlagLoading MessageFlags = 1 << 7
	// MessageFlagFailedToMentionSomeRolesInThread means some roles could not be mentioned when sending to a thread.
	MessageFlagFailedToMentionSomeRolesInThread MessageFlags = 1 << 8
	// MessageFlagSuppressNotifications suppresses push/desktop notifications for this message.
	MessageFlagSuppressNotifications MessageFlags = 1 << 12
	// MessageFlagIsVoiceMessage marks this message as a voice message.
	MessageFlagIsVoiceMessage MessageFlags = 1 << 13
)

// Has returns true if all provided flags are set.
func (f MessageFlags) Has(flags ...MessageFlags) bool {
	return BitFieldHas(f, flags...)
}

// AllowedMentions restricts which mentions in a message's content actually
// notify users, letting a bot echo raw mention syntax without pinging
// everyone it names.
//
// Reference: https://discord.com/developers/docs/resources/message#allowed-mentions-object
type AllowedMentions struct {
	// Parse lists mention types allowed by default: "roles", "users", "everyone".
	Parse []string `json:"parse,omitempty"`
	// Roles are specific role IDs to mention, up to 100. Mutually exclusive with Parse containing "roles".
	Roles []Snowflake `json:"roles,omitempty"`
	// Users are specific user IDs to mention, up to 100. Mutually exclusive with Parse containing "users".
	Users []Snowflake `json:"users,omitempty"`
	// RepliedUser, when true, mentions the author of the message being replied to.
	RepliedUser bool `json:"replied_user,omitempty"`
}

// Message is a Discord message object.
//
// Reference: https://discord.com/developers/docs/resources/message#message-object
type Message struct {
	EntityBase

	ID        Snowflake `json:"id"`
	ChannelID Snowflake `json:"channel_id"`
	GuildID   Snowflake `json:"guild_id,omitempty"`

	Author  User     `json:"author"`
	Member  *Member  `json:"member,omitempty"`

	Content          string    `json:"content"`
	Timestamp        time.Time `json:"timestamp"`
	EditedTimestamp  *time.Time `json:"edited_timestamp,omitempty"`
	TTS              bool      `json:"tts,omitempty"`
	MentionEveryone  bool      `json:"mention_everyone,omitempty"`
	Mentions         []User    `json:"mentions,omitempty"`
	MentionRoles     []Snowflake `json:"mention_roles,omitempty"`

	Attachments []Attachment `json:"attachments,omitempty"`
	Embeds      []Embed      `json:"embeds,omitempty"`
	Reactions   []MessageReaction `json:"reactions,omitempty"`

	Pinned bool        `json:"pinned,omitempty"`
	Type   MessageType `json:"type"`

	WebhookID Snowflake `json:"webhook_id,omitempty"`
	Flags     MessageFlags `json:"flags,omitempty"`

	MessageReference *MessageReference `json:"message_reference,omitempty"`
	ReferencedMessage *Message         `json:"referenced_message,omitempty"`

	Components []LayoutComponent `json:"components,omitempty"`

	StickerIDs []Snowflake `json:"sticker_items,omitempty"`

	Nonce string `json:"nonce,omitempty"`
}

// MessageReaction summarizes one emoji's reaction count on a message.
type MessageReaction struct {
	Count int          `json:"count"`
	Me    bool         `json:"me"`
	Emoji PartialEmoji `json:"emoji"`
}

// Mention returns a Discord mention string pointing at this message's channel.
func (m *Message) Mention() string {
	return "<#" + m.ChannelID.String() + ">"
}

// JumpURL returns a client-navigable link to this message.
func (m *Message) JumpURL() string {
	guildSegment := "@me"
	if !m.GuildID.UnSet() {
		guildSegment = m.GuildID.String()
	}
	return "https://discord.com/channels/" + guildSegment + "/" + m.ChannelID.String() + "/" + m.ID.String()
}

// Reply sends a reply to this message in the same channel.
//
// Usage example:
//
//	reply, err := message.Reply(MessageCreateOptions{Content: "Got it"})
func (m *Message) Reply(opts MessageCreateOptions) (*Message, error) {
	if m.client == nil {
		return nil, ErrNoClient
	}
	fail := true
	opts.MessageReference = &MessageReference{
		MessageID:       m.ID,
		ChannelID:       m.ChannelID,
		GuildID:         m.GuildID,
		FailIfNotExists: &fail,
	}
	msg, err := m.client.SendMessage(m.ChannelID, opts)
	if err != nil {
		return nil, err
	}
	msg.SetClient(m.client)
	return &msg, nil
}

// Delete deletes this message.
func (m *Message) Delete(reason string) error {
	if m.client == nil {
		return ErrNoClient
	}
	return m.client.DeleteMessage(m.ChannelID, m.ID, reason)
}

// Pin pins this message in its channel.
func (m *Message) Pin(reason string) error {
	if m.client == nil {
		return ErrNoClient
	}
	return m.client.PinMessage(m.ChannelID, m.ID, reason)
}

var _ json.Unmarshaler = (*Message)(nil)

// UnmarshalJSON implements json.Unmarshaler for Message, resolving the
// polymorphic Components slice through UnmarshalComponent.
func (m *Message) UnmarshalJSON(buf []byte) error {
	type NoMethod Message
	aux := struct {
		Components []json.RawMessage `json:"components,omitempty"`
		*NoMethod
	}{
		NoMethod: (*NoMethod)(m),
	}
	if err := json.Unmarshal(buf, &aux); err != nil {
		return err
	}

	m.Components = m.Components[:0]
	for _, raw := range aux.Components {
		component, err := UnmarshalComponent(raw)
		if err != nil {
			return err
		}
		layout, ok := component.(LayoutComponent)
		if !ok {
			continue
		}
		m.Components = append(m.Components, layout)
	}

	return nil
}

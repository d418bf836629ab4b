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
	"sync/atomic"
)

/*****************************
 *   READY Handler
 *****************************/

// readyHandlers manages all registered handlers for READY events.
type readyHandlers struct {
	logger     Logger
	set        *handlerSet[ReadyEvent]
	selfUserID *atomic.Uint64 // shared with voiceStateUpdateHandlers; set here, read there
}

func newReadyHandlers(logger Logger, selfUserID *atomic.Uint64) *readyHandlers {
	return &readyHandlers{logger: logger, set: newHandlerSet[ReadyEvent](), selfUserID: selfUserID}
}

// handleEvent parses the READY event data, records the bot's own user ID so
// later VOICE_STATE_UPDATE events can tell their own session apart from
// every other member's, and calls each registered handler.
func (h *readyHandlers) handleEvent(cache CacheManager, shardID int, data []byte) {
	evt := ReadyEvent{ShardsID: shardID}
	if err := json.Unmarshal(data, &evt); err != nil {
		h.logger.Error("readyHandlers: Failed parsing event data")
		return
	}

	if h.selfUserID != nil {
		h.selfUserID.Store(uint64(evt.User.ID))
	}

	for i := range len(evt.Guilds) {
		cache.PutGuild(evt.Guilds[i])
	}

	h.set.dispatch(evt)
}

func (h *readyHandlers) addHandler(handler any) HandlerHandle {
	return h.set.attach(handler.(func(ReadyEvent)))
}

func (h *readyHandlers) removeHandler(handle HandlerHandle) { h.set.detach(handle) }

/*****************************
 *   GUILD_CREATE Handler
 *****************************/

// guildCreateHandlers manages all registered handlers for GUILD_CREATE events.
type guildCreateHandlers struct {
	logger Logger
	set    *handlerSet[GuildCreateEvent]
}

func newGuildCreateHandlers(logger Logger) *guildCreateHandlers {
	return &guildCreateHandlers{logger: logger, set: newHandlerSet[GuildCreateEvent]()}
}

// handleEvent parses the GUILD_CREATE event data and calls each registered handler.
func (h *guildCreateHandlers) handleEvent(cache CacheManager, shardID int, data []byte) {
	evt := GuildCreateEvent{ShardsID: shardID}

	if err := json.Unmarshal(data, &evt.Guild); err != nil {
		h.logger.Error("guildCreateHandlers: Failed parsing event data")
		return
	}

	flags := cache.Flags()

	if flags.Has(CacheFlagGuilds) {
		cache.PutGuild(evt.Guild.Guild)
	}
	if flags.Has(CacheFlagMembers) {
		for i := range len(evt.Guild.Members) {
			cache.PutMember(evt.Guild.Members[i])
		}
	}
	if flags.Has(CacheFlagChannels) {
		for i := range len(evt.Guild.Channels) {
			cache.PutChannel(evt.Guild.Channels[i])
		}
	}
	if flags.Has(CacheFlagRoles) {
		for i := range len(evt.Guild.Roles) {
			cache.PutRole(evt.Guild.Roles[i])
		}
	}
	if flags.Has(CacheFlagVoiceStates) {
		for i := range len(evt.Guild.VoiceStates) {
			cache.PutVoiceState(evt.Guild.VoiceStates[i])
		}
	}

	h.set.dispatch(evt)
}

func (h *guildCreateHandlers) addHandler(handler any) HandlerHandle {
	return h.set.attach(handler.(func(GuildCreateEvent)))
}

func (h *guildCreateHandlers) removeHandler(handle HandlerHandle) { h.set.detach(handle) }

/*****************************
 *   MESSAGE_CREATE Handler
 *****************************/

// messageCreateHandlers manages all registered handlers for MESSAGE_CREATE events.
type messageCreateHandlers struct {
	logger Logger
	set    *handlerSet[MessageCreateEvent]
}

func newMessageCreateHandlers(logger Logger) *messageCreateHandlers {
	return &messageCreateHandlers{logger: logger, set: newHandlerSet[MessageCreateEvent]()}
}

// handleEvent parses the MESSAGE_CREATE event data and calls each registered handler.
func (h *messageCreateHandlers) handleEvent(cache CacheManager, shardID int, data []byte) {
	evt := MessageCreateEvent{ShardsID: shardID}

	if err := json.Unmarshal(data, &evt.Message); err != nil {
		h.logger.Error("messageCreateHandlers: Failed parsing event data")
		return
	}

	if cache.Flags().Has(CacheFlagMessages) {
		cache.PutMessage(evt.Message)
	}

	h.set.dispatch(evt)
}

func (h *messageCreateHandlers) addHandler(handler any) HandlerHandle {
	return h.set.attach(handler.(func(MessageCreateEvent)))
}

func (h *messageCreateHandlers) removeHandler(handle HandlerHandle) { h.set.detach(handle) }

/*****************************
 *   MESSAGE_DELETE Handler
 *****************************/

// messageDeleteHandlers manages all registered handlers for MESSAGE_DELETE events.
type messageDeleteHandlers struct {
	logger Logger
	set    *handlerSet[MessageDeleteEvent]
}

func newMessageDeleteHandlers(logger Logger) *messageDeleteHandlers {
	return &messageDeleteHandlers{logger: logger, set: newHandlerSet[MessageDeleteEvent]()}
}

// handleEvent parses the MESSAGE_DELETE event data and calls each registered handler.
func (h *messageDeleteHandlers) handleEvent(cache CacheManager, shardID int, data []byte) {
	evt := MessageDeleteEvent{ShardsID: shardID}
	if err := json.Unmarshal(data, &evt.Message); err != nil {
		h.logger.Error("messageDeleteHandlers: Failed parsing event data")
		return
	}

	if message, ok := cache.GetMessage(evt.Message.ID); ok {
		evt.Message = message
	}
	cache.DelMessage(evt.Message.ID)

	h.set.dispatch(evt)
}

func (h *messageDeleteHandlers) addHandler(handler any) HandlerHandle {
	return h.set.attach(handler.(func(MessageDeleteEvent)))
}

func (h *messageDeleteHandlers) removeHandler(handle HandlerHandle) { h.set.detach(handle) }

/*****************************
 *   MESSAGE_UPDATE Handler
 *****************************/

// messageUpdateHandlers manages all registered handlers for MESSAGE_UPDATE events.
type messageUpdateHandlers struct {
	logger Logger
	set    *handlerSet[MessageUpdateEvent]
}

func newMessageUpdateHandlers(logger Logger) *messageUpdateHandlers {
	return &messageUpdateHandlers{logger: logger, set: newHandlerSet[MessageUpdateEvent]()}
}

// handleEvent parses the MESSAGE_UPDATE event data and calls each registered handler.
func (h *messageUpdateHandlers) handleEvent(cache CacheManager, shardID int, data []byte) {
	evt := MessageUpdateEvent{ShardsID: shardID}
	if err := json.Unmarshal(data, &evt.NewMessage); err != nil {
		h.logger.Error("messageUpdateHandlers: Failed parsing event data")
		return
	}

	if oldMessage, ok := cache.GetMessage(evt.NewMessage.ID); ok {
		evt.OldMessage = oldMessage
	} else {
		evt.OldMessage.ID = evt.NewMessage.ID
		evt.OldMessage.ChannelID = evt.NewMessage.ChannelID
		evt.OldMessage.GuildID = evt.NewMessage.GuildID
		evt.OldMessage.Author = evt.NewMessage.Author
		evt.OldMessage.Timestamp = evt.NewMessage.Timestamp
		evt.OldMessage.ApplicationID = evt.NewMessage.ApplicationID
	}

	if cache.Flags().Has(CacheFlagMessages) {
		cache.PutMessage(evt.NewMessage)
	}

	h.set.dispatch(evt)
}

func (h *messageUpdateHandlers) addHandler(handler any) HandlerHandle {
	return h.set.attach(handler.(func(MessageUpdateEvent)))
}

func (h *messageUpdateHandlers) removeHandler(handle HandlerHandle) { h.set.detach(handle) }

/*****************************
 * INTERACTION_CREATE Handler
 *****************************/

// interactionCreateHandlers manages all registered handlers for INTERACTION_CREATE events.
type interactionCreateHandlers struct {
	logger Logger
	set    *handlerSet[InteractionCreateEvent]
}

func newInteractionCreateHandlers(logger Logger) *interactionCreateHandlers {
	return &interactionCreateHandlers{logger: logger, set: newHandlerSet[InteractionCreateEvent]()}
}

// handleEvent parses the INTERACTION_CREATE event data and calls each registered handler.
func (h *interactionCreateHandlers) handleEvent(cache CacheManager, shardID int, data []byte) {
	evt := InteractionCreateEvent{ShardsID: shardID}
	if err := json.Unmarshal(data, &evt); err != nil {
		h.logger.Error("interactionCreateHandlers: Failed parsing event data")
		return
	}

	h.set.dispatch(evt)
}

func (h *interactionCreateHandlers) addHandler(handler any) HandlerHandle {
	return h.set.attach(handler.(func(InteractionCreateEvent)))
}

func (h *interactionCreateHandlers) removeHandler(handle HandlerHandle) { h.set.detach(handle) }

/*****************************
 * VOICE_STATE_UPDATE Handler
 *****************************/

// voiceStateUpdateHandlers manages all registered handlers for VOICE_STATE_UPDATE events.
type voiceStateUpdateHandlers struct {
	logger     Logger
	set        *handlerSet[VoiceStateUpdateEvent]
	voice      *voiceManager
	selfUserID *atomic.Uint64 // set by readyHandlers once READY arrives
}

func newVoiceStateUpdateHandlers(logger Logger, voice *voiceManager, selfUserID *atomic.Uint64) *voiceStateUpdateHandlers {
	return &voiceStateUpdateHandlers{logger: logger, set: newHandlerSet[VoiceStateUpdateEvent](), voice: voice, selfUserID: selfUserID}
}

// handleEvent parses the VOICE_STATE_UPDATE event data, feeds our own
// session's voice rendezvous (see voice.go) when the update belongs to the
// bot's own user (every other member's voice state change is irrelevant to
// a pending JoinVoiceChannel rendezvous), and calls each registered
// handler.
func (h *voiceStateUpdateHandlers) handleEvent(cache CacheManager, shardID int, data []byte) {
	evt := VoiceStateUpdateEvent{ShardsID: shardID}
	if err := json.Unmarshal(data, &evt.NewState); err != nil {
		h.logger.Error("voiceStateUpdateHandlers: Failed parsing event data")
		return
	}

	if oldVoiceState, ok := cache.GetVoiceState(evt.NewState.GuildID, evt.NewState.UserID); ok {
		evt.OldState = oldVoiceState
	} else {
		evt.OldState = evt.NewState
		evt.OldState.ChannelID = 0
	}

	if cache.Flags().Has(CacheFlagVoiceStates) {
		cache.PutVoiceState(evt.NewState)
	}

	if h.voice != nil && h.selfUserID != nil && uint64(evt.NewState.UserID) == h.selfUserID.Load() {
		h.voice.onVoiceStateUpdate(evt.NewState.GuildID, evt.NewState.SessionID)
	}

	h.set.dispatch(evt)
}

func (h *voiceStateUpdateHandlers) addHandler(handler any) HandlerHandle {
	return h.set.attach(handler.(func(VoiceStateUpdateEvent)))
}

func (h *voiceStateUpdateHandlers) removeHandler(handle HandlerHandle) { h.set.detach(handle) }

/*****************************
 * VOICE_SERVER_UPDATE Handler
 *****************************/

// VoiceServerUpdateEvent carries the endpoint and ephemeral token half of
// the voice rendezvous (see voice.go).
type VoiceServerUpdateEvent struct {
	ShardsID int // shard that dispatched this event
	GuildID  Snowflake
	Token    string
	Endpoint string
}

// voiceServerUpdateHandlers manages all registered handlers for
// VOICE_SERVER_UPDATE events.
type voiceServerUpdateHandlers struct {
	logger Logger
	set    *handlerSet[VoiceServerUpdateEvent]
	voice  *voiceManager
}

func newVoiceServerUpdateHandlers(logger Logger, voice *voiceManager) *voiceServerUpdateHandlers {
	return &voiceServerUpdateHandlers{logger: logger, set: newHandlerSet[VoiceServerUpdateEvent](), voice: voice}
}

func (h *voiceServerUpdateHandlers) handleEvent(cache CacheManager, shardID int, data []byte) {
	var raw struct {
		GuildID  Snowflake `json:"guild_id"`
		Token    string    `json:"token"`
		Endpoint string    `json:"endpoint"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		h.logger.Error("voiceServerUpdateHandlers: Failed parsing event data")
		return
	}

	evt := VoiceServerUpdateEvent{
		ShardsID: shardID,
		GuildID:  raw.GuildID,
		Token:    raw.Token,
		Endpoint: raw.Endpoint,
	}

	if h.voice != nil {
		h.voice.onVoiceServerUpdate(evt.GuildID, evt.Token, evt.Endpoint)
	}

	h.set.dispatch(evt)
}

func (h *voiceServerUpdateHandlers) addHandler(handler any) HandlerHandle {
	return h.set.attach(handler.(func(VoiceServerUpdateEvent)))
}

func (h *voiceServerUpdateHandlers) removeHandler(handle HandlerHandle) { h.set.detach(handle) }

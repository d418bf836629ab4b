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
	"sync"
)

// voiceSession holds the two halves of Discord's voice rendezvous for one
// guild. Joining a voice channel sends VOICE_STATE_UPDATE over the shard's
// gateway connection, which triggers Discord to dispatch VOICE_STATE_UPDATE
// (our own new session ID) and VOICE_SERVER_UPDATE (the voice endpoint and
// an ephemeral token) back to us, in no guaranteed order. A voice
// connection is only usable once both halves have arrived.
type voiceSession struct {
	GuildID   Snowflake
	ChannelID Snowflake

	SessionID string
	Token     string
	Endpoint  string

	haveState  bool
	haveServer bool

	ready chan struct{}
	once  sync.Once
}

func newVoiceSession(guildID, channelID Snowflake) *voiceSession {
	return &voiceSession{
		GuildID:   guildID,
		ChannelID: channelID,
		ready:     make(chan struct{}),
	}
}

// applyVoiceStateUpdate records our own session ID from a VOICE_STATE_UPDATE
// dispatch. Returns true once both halves of the rendezvous are present.
func (v *voiceSession) applyVoiceStateUpdate(sessionID string) bool {
	v.SessionID = sessionID
	v.haveState = true
	return v.maybeComplete()
}

// applyVoiceServerUpdate records the endpoint and token from a
// VOICE_SERVER_UPDATE dispatch. Returns true once both halves of the
// rendezvous are present.
func (v *voiceSession) applyVoiceServerUpdate(token, endpoint string) bool {
	v.Token = token
	v.Endpoint = endpoint
	v.haveServer = true
	return v.maybeComplete()
}

func (v *voiceSession) maybeComplete() bool {
	if v.haveState && v.haveServer {
		v.once.Do(func() { close(v.ready) })
		return true
	}
	return false
}

// voiceManager tracks in-flight and established voice rendezvous sessions
// per guild, one shard's worth at a time. A guild can only have one active
// voice connection per bot, mirroring Discord's own one-channel-per-guild
// restriction.
type voiceManager struct {
	mu       sync.RWMutex
	sessions map[Snowflake]*voiceSession
}

func newVoiceManager() *voiceManager {
	return &voiceManager{sessions: make(map[Snowflake]*voiceSession)}
}

// begin starts a rendezvous for guildID/channelID, or returns the existing
// one if a rendezvous for that exact guild+channel is already pending or
// established. This makes a repeated JoinVoiceChannel(g, c) call idempotent
// instead of discarding in-flight rendezvous state and leaving the original
// caller's session channel waiting on a VOICE_STATE_UPDATE/
// VOICE_SERVER_UPDATE pair that will never arrive for its now-overwritten
// session. A different channelID for the same guild (a channel move) still
// starts a fresh rendezvous.
func (m *voiceManager) begin(guildID, channelID Snowflake) *voiceSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[guildID]; ok && existing.ChannelID == channelID {
		return existing
	}
	s := newVoiceSession(guildID, channelID)
	m.sessions[guildID] = s
	return s
}

func (m *voiceManager) get(guildID Snowflake) *voiceSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[guildID]
}

func (m *voiceManager) remove(guildID Snowflake) {
	m.mu.Lock()
	delete(m.sessions, guildID)
	m.mu.Unlock()
}

// onVoiceStateUpdate feeds a gateway VOICE_STATE_UPDATE dispatch for our own
// user into any in-flight rendezvous for that guild. No-op if there is no
// pending session (e.g. the event describes another member's voice state).
func (m *voiceManager) onVoiceStateUpdate(guildID Snowflake, sessionID string) {
	if s := m.get(guildID); s != nil {
		s.applyVoiceStateUpdate(sessionID)
	}
}

// onVoiceServerUpdate feeds a gateway VOICE_SERVER_UPDATE dispatch into any
// in-flight rendezvous for that guild.
func (m *voiceManager) onVoiceServerUpdate(guildID Snowflake, token, endpoint string) {
	if s := m.get(guildID); s != nil {
		s.applyVoiceServerUpdate(token, endpoint)
	}
}

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

import "sync"

type CacheFlags int

const (
	CacheFlagUsers CacheFlags = 1 << iota
	CacheFlagGuilds
	CacheFlagMembers
	CacheFlagThreadMembers
	CacheFlagMessages
	CacheFlagChannels
	CacheFlagRoles
	CacheFlagVoiceStates

	CacheFlagsNone CacheFlags = 0

	CacheFlagsAll = CacheFlagUsers | CacheFlagGuilds | CacheFlagMembers | CacheFlagThreadMembers |
		CacheFlagMessages | CacheFlagChannels | CacheFlagRoles | CacheFlagVoiceStates
)

func (f CacheFlags) Has(bits ...CacheFlags) bool {
	return BitFieldHas(f, bits...)
}

type SnowflakePairKey struct {
	A Snowflake
	B Snowflake
}

type CacheManager interface {
	Flags() CacheFlags
	SetFlags(flags ...CacheFlags)

	GetUser(userID Snowflake) (User, bool)
	GetGuild(guildID Snowflake) (Guild, bool)
	GetMember(guildID, userID Snowflake) (Member, bool)
	GetChannel(channelID Snowflake) (Channel, bool)
	GetMessage(messageID Snowflake) (Message, bool)
	GetVoiceState(guildID, userID Snowflake) (VoiceState, bool)
	GetGuildChannels(guildID Snowflake) (map[Snowflake]GuildChannel, bool)
	GetGuildMembers(guildID Snowflake) (map[Snowflake]Member, bool)
	GetGuildVoiceStates(guildID Snowflake) (map[Snowflake]VoiceState, bool)
	GetGuildRoles(guildID Snowflake) (map[Snowflake]Role, bool)

	HasUser(userID Snowflake) bool
	HasGuild(guildID Snowflake) bool
	HasMember(guildID, userID Snowflake) bool
	HasChannel(channelID Snowflake) bool
	HasMessage(messageID Snowflake) bool
	HasVoiceState(guildID, userID Snowflake) bool
	HasGuildChannels(guildID Snowflake) bool
	HasGuildMembers(guildID Snowflake) bool
	HasGuildVoiceStates(guildID Snowflake) bool
	HasGuildRoles(guildID Snowflake) bool

	CountUsers() int
	CountGuilds() int
	CountMembers() int
	CountChannels() int
	CountMessages() int
	CountVoiceStates() int
	CountRoles() int
	CountGuildChannels(guildID Snowflake) int
	CountGuildMembers(guildID Snowflake) int
	CountGuildRoles(guildID Snowflake) int

	PutUser(user User)
	PutGuild(guild Guild)
	PutMember(member Member)
	PutChannel(channel Channel)
	PutMessage(message Message)
	PutVoiceState(voiceState VoiceState)
	PutRole(role Role)

	DelUser(userID Snowflake) bool
	DelGuild(guildID Snowflake) bool
	DelMember(guildID, userID Snowflake) bool
	DelChannel(channelID Snowflake) bool
	DelMessage(messageID Snowflake) bool
	DelVoiceState(guildID, userID Snowflake) bool
	DelGuildChannels(guildID Snowflake) bool
	DelGuildMembers(guildID Snowflake) bool
	DelRole(guildID, roleID Snowflake) bool
}

// DefaultCache backs the high-cardinality caches (users, members, voice
// states — the ones that grow with guild and member count on a multi-guild
// bot) with a ShardMap/shardedIndex instead of one RWMutex guarding the
// whole map, since a single lock becomes the dispatch bottleneck once a
// cluster is tracking members across thousands of guilds. Lower-cardinality
// caches (guilds, channels, messages, roles) stay on a plain mutexed map.
type DefaultCache struct {
	flags CacheFlags

	usersCache *ShardMap[Snowflake, User]

	guildsCache   map[Snowflake]Guild
	guildsCacheMu sync.RWMutex

	membersCache *ShardMap[SnowflakePairKey, Member]

	channelsCache   map[Snowflake]Channel
	channelsCacheMu sync.RWMutex

	messagesCache   map[Snowflake]Message
	messagesCacheMu sync.RWMutex

	voiceStatesCache *ShardMap[SnowflakePairKey, VoiceState]

	rolesCache   map[Snowflake]Role
	rolesCacheMu sync.RWMutex

	// Index: guildID -> set[userID]
	guildToMemberIDs *shardedIndex

	// Index: guildID -> map[channelID]
	guildToChannelIDs   map[Snowflake]map[Snowflake]struct{}
	guildToChannelIDsMu sync.RWMutex

	// Index: guildID -> map[userID]
	guildToVoiceStateUserIDs *shardedIndex

	// Index: guildID -> map[roleID]
	guildToRoleIDs   map[Snowflake]map[Snowflake]struct{}
	guildToRoleIDsMu sync.RWMutex
}

func NewDefaultCache(flags CacheFlags) CacheManager {
	return &DefaultCache{
		flags:                    flags,
		usersCache:               NewSnowflakeShardMap[User](),
		guildsCache:              make(map[Snowflake]Guild),
		membersCache:             NewSnowflakePairShardMap[Member](),
		channelsCache:            make(map[Snowflake]Channel),
		messagesCache:            make(map[Snowflake]Message),
		voiceStatesCache:         NewSnowflakePairShardMap[VoiceState](),
		rolesCache:               make(map[Snowflake]Role),
		guildToMemberIDs:         newShardedIndex(),
		guildToChannelIDs:        make(map[Snowflake]map[Snowflake]struct{}),
		guildToVoiceStateUserIDs: newShardedIndex(),
		guildToRoleIDs:           make(map[Snowflake]map[Snowflake]struct{}),
	}
}

func (c *DefaultCache) Flags() CacheFlags {
	return c.flags
}

func (c *DefaultCache) SetFlags(flags ...CacheFlags) {
	c.flags = CacheFlagsNone
	for _, f := range flags {
		c.flags |= f
	}
}

func (c *DefaultCache) GetUser(userID Snowflake) (user User, ok bool) {
	return c.usersCache.Get(userID)
}

func (c *DefaultCache) GetGuild(guildID Snowflake) (guild Guild, ok bool) {
	c.guildsCacheMu.RLock()
	guild, ok = c.guildsCache[guildID]
	c.guildsCacheMu.RUnlock()
	return
}

func (c *DefaultCache) GetMember(guildID, userID Snowflake) (member Member, ok bool) {
	return c.membersCache.Get(SnowflakePairKey{A: guildID, B: userID})
}

func (c *DefaultCache) GetChannel(channelID Snowflake) (channel Channel, ok bool) {
	c.channelsCacheMu.RLock()
	channel, ok = c.channelsCache[channelID]
	c.channelsCacheMu.RUnlock()
	return
}

func (c *DefaultCache) GetMessage(messageID Snowflake) (message Message, ok bool) {
	c.messagesCacheMu.RLock()
	message, ok = c.messagesCache[messageID]
	c.messagesCacheMu.RUnlock()
	return
}

func (c *DefaultCache) GetVoiceState(guildID, userID Snowflake) (voiceState VoiceState, ok bool) {
	return c.voiceStatesCache.Get(SnowflakePairKey{A: guildID, B: userID})
}

func (c *DefaultCache) GetGuildChannels(guildID Snowflake) (map[Snowflake]GuildChannel, bool) {
	c.guildToChannelIDsMu.RLock()
	set, ok := c.guildToChannelIDs[guildID]
	c.guildToChannelIDsMu.RUnlock()
	if !ok {
		return nil, false
	}
	c.channelsCacheMu.RLock()
	defer c.channelsCacheMu.RUnlock()
	res := make(map[Snowflake]GuildChannel, len(set))
	for channelID := range set {
		if channel, exists := c.channelsCache[channelID]; exists {
			res[channelID] = channel.(GuildChannel)
		}
	}
	return res, true
}

func (c *DefaultCache) GetGuildMembers(guildID Snowflake) (map[Snowflake]Member, bool) {
	set, ok := c.guildToMemberIDs.Get(guildID)
	if !ok {
		return nil, false
	}
	res := make(map[Snowflake]Member, len(set))
	for userID := range set {
		key := SnowflakePairKey{A: guildID, B: userID}
		if member, exists := c.membersCache.Get(key); exists {
			res[userID] = member
		}
	}
	return res, true
}

func (c *DefaultCache) GetGuildVoiceStates(guildID Snowflake) (map[Snowflake]VoiceState, bool) {
	set, ok := c.guildToVoiceStateUserIDs.Get(guildID)
	if !ok {
		return nil, false
	}
	res := make(map[Snowflake]VoiceState, len(set))
	for userID := range set {
		key := SnowflakePairKey{A: guildID, B: userID}
		if voiceState, exists := c.voiceStatesCache.Get(key); exists {
			res[userID] = voiceState
		}
	}
	return res, true
}

func (c *DefaultCache) GetGuildRoles(guildID Snowflake) (map[Snowflake]Role, bool) {
	c.guildToRoleIDsMu.RLock()
	set, ok := c.guildToRoleIDs[guildID]
	c.guildToRoleIDsMu.RUnlock()
	if !ok {
		return nil, false
	}
	c.rolesCacheMu.RLock()
	defer c.rolesCacheMu.RUnlock()
	res := make(map[Snowflake]Role, len(set))
	for roleID := range set {
		if role, exists := c.rolesCache[roleID]; exists {
			res[roleID] = role
		}
	}
	return res, true
}

func (c *DefaultCache) HasUser(userID Snowflake) bool {
	if !c.flags.Has(CacheFlagUsers) {
		return false
	}
	return c.usersCache.Has(userID)
}

func (c *DefaultCache) HasGuild(guildID Snowflake) bool {
	if !c.flags.Has(CacheFlagGuilds) {
		return false
	}
	c.guildsCacheMu.RLock()
	_, exists := c.guildsCache[guildID]
	c.guildsCacheMu.RUnlock()
	return exists
}

func (c *DefaultCache) HasMember(guildID, userID Snowflake) bool {
	if !c.flags.Has(CacheFlagMembers) {
		return false
	}
	return c.membersCache.Has(SnowflakePairKey{A: guildID, B: userID})
}

func (c *DefaultCache) HasChannel(channelID Snowflake) bool {
	if !c.flags.Has(CacheFlagChannels) {
		return false
	}
	c.channelsCacheMu.RLock()
	_, exists := c.channelsCache[channelID]
	c.channelsCacheMu.RUnlock()
	return exists
}

func (c *DefaultCache) HasMessage(messageID Snowflake) bool {
	if !c.flags.Has(CacheFlagMessages) {
		return false
	}
	c.messagesCacheMu.RLock()
	_, exists := c.messagesCache[messageID]
	c.messagesCacheMu.RUnlock()
	return exists
}

func (c *DefaultCache) HasVoiceState(guildID, userID Snowflake) bool {
	if !c.flags.Has(CacheFlagVoiceStates) {
		return false
	}
	return c.voiceStatesCache.Has(SnowflakePairKey{A: guildID, B: userID})
}

func (c *DefaultCache) HasGuildChannels(guildID Snowflake) bool {
	if !c.flags.Has(CacheFlagChannels) {
		return false
	}
	c.guildToChannelIDsMu.RLock()
	_, exists := c.guildToChannelIDs[guildID]
	c.guildToChannelIDsMu.RUnlock()
	return exists
}

func (c *DefaultCache) HasGuildMembers(guildID Snowflake) bool {
	if !c.flags.Has(CacheFlagMembers) {
		return false
	}
	return c.guildToMemberIDs.Has(guildID)
}

func (c *DefaultCache) HasGuildVoiceStates(guildID Snowflake) bool {
	if !c.flags.Has(CacheFlagVoiceStates) {
		return false
	}
	return c.guildToVoiceStateUserIDs.Has(guildID)
}

func (c *DefaultCache) HasGuildRoles(guildID Snowflake) bool {
	if !c.flags.Has(CacheFlagRoles) {
		return false
	}
	c.guildToRoleIDsMu.RLock()
	_, exists := c.guildToRoleIDs[guildID]
	c.guildToRoleIDsMu.RUnlock()
	return exists
}

func (c *DefaultCache) CountUsers() int {
	return c.usersCache.Len()
}

func (c *DefaultCache) CountGuilds() int {
	c.guildsCacheMu.RLock()
	count := len(c.guildsCache)
	c.guildsCacheMu.RUnlock()
	return count
}

func (c *DefaultCache) CountMembers() int {
	return c.membersCache.Len()
}

func (c *DefaultCache) CountChannels() int {
	c.channelsCacheMu.RLock()
	count := len(c.channelsCache)
	c.channelsCacheMu.RUnlock()
	return count
}

func (c *DefaultCache) CountMessages() int {
	c.messagesCacheMu.RLock()
	count := len(c.messagesCache)
	c.messagesCacheMu.RUnlock()
	return count
}

func (c *DefaultCache) CountVoiceStates() int {
	return c.voiceStatesCache.Len()
}

func (c *DefaultCache) CountRoles() int {
	c.rolesCacheMu.RLock()
	count := len(c.rolesCache)
	c.rolesCacheMu.RUnlock()
	return count
}

func (c *DefaultCache) CountGuildChannels(guildID Snowflake) int {
	c.guildToChannelIDsMu.RLock()
	set, exists := c.guildToChannelIDs[guildID]
	c.guildToChannelIDsMu.RUnlock()
	if !exists {
		return 0
	}
	return len(set)
}

func (c *DefaultCache) CountGuildMembers(guildID Snowflake) int {
	return c.guildToMemberIDs.Count(guildID)
}

func (c *DefaultCache) CountGuildRoles(guildID Snowflake) int {
	c.guildToRoleIDsMu.RLock()
	set, exists := c.guildToRoleIDs[guildID]
	c.guildToRoleIDsMu.RUnlock()
	if !exists {
		return 0
	}
	return len(set)
}

func (c *DefaultCache) PutUser(user User) {
	if !c.flags.Has(CacheFlagUsers) {
		return
	}
	c.usersCache.Set(user.ID, user)
}

func (c *DefaultCache) PutGuild(guild Guild) {
	if !c.flags.Has(CacheFlagGuilds) {
		return
	}
	c.guildsCacheMu.Lock()
	c.guildsCache[guild.ID] = guild
	c.guildsCacheMu.Unlock()
}

func (c *DefaultCache) PutMember(member Member) {
	if !c.flags.Has(CacheFlagMembers) {
		return
	}
	userID := member.User.ID
	guildID := member.GuildID
	key := SnowflakePairKey{A: guildID, B: userID}
	c.membersCache.Set(key, member)
	c.guildToMemberIDs.Add(guildID, userID)
}

func (c *DefaultCache) PutChannel(channel Channel) {
	if !c.flags.Has(CacheFlagChannels) {
		return
	}
	channelID := channel.GetID()
	c.channelsCacheMu.Lock()
	c.channelsCache[channelID] = channel
	c.channelsCacheMu.Unlock()
	if guildChannel, ok := channel.(GuildChannel); ok {
		guildID := guildChannel.GetGuildID()
		c.guildToChannelIDsMu.Lock()
		if _, exists := c.guildToChannelIDs[guildID]; !exists {
			c.guildToChannelIDs[guildID] = make(map[Snowflake]struct{})
		}
		c.guildToChannelIDs[guildID][channelID] = struct{}{}
		c.guildToChannelIDsMu.Unlock()
	}
}

func (c *DefaultCache) PutMessage(message Message) {
	if !c.flags.Has(CacheFlagMessages) {
		return
	}
	c.messagesCacheMu.Lock()
	c.messagesCache[message.ID] = message
	c.messagesCacheMu.Unlock()
}

func (c *DefaultCache) PutVoiceState(voiceState VoiceState) {
	if !c.flags.Has(CacheFlagVoiceStates) {
		return
	}
	guildID := voiceState.GuildID
	userID := voiceState.UserID
	key := SnowflakePairKey{A: guildID, B: userID}
	c.voiceStatesCache.Set(key, voiceState)
	c.guildToVoiceStateUserIDs.Add(guildID, userID)
}

func (c *DefaultCache) PutRole(role Role) {
	if !c.flags.Has(CacheFlagRoles) {
		return
	}
	guildID := role.GuildID
	roleID := role.ID
	c.rolesCacheMu.Lock()
	c.rolesCache[roleID] = role
	c.rolesCacheMu.Unlock()
	c.guildToRoleIDsMu.Lock()
	if _, exists := c.guildToRoleIDs[guildID]; !exists {
		c.guildToRoleIDs[guildID] = make(map[Snowflake]struct{})
	}
	c.guildToRoleIDs[guildID][roleID] = struct{}{}
	c.guildToRoleIDsMu.Unlock()
}

func (c *DefaultCache) DelUser(userID Snowflake) bool {
	return c.usersCache.Delete(userID)
}

func (c *DefaultCache) DelGuild(guildID Snowflake) bool {
	c.guildsCacheMu.Lock()
	_, ok := c.guildsCache[guildID]
	if ok {
		delete(c.guildsCache, guildID)
	}
	c.guildsCacheMu.Unlock()
	return ok
}

func (c *DefaultCache) DelMember(guildID, userID Snowflake) bool {
	key := SnowflakePairKey{A: guildID, B: userID}
	ok := c.membersCache.Delete(key)
	if ok {
		c.guildToMemberIDs.Remove(guildID, userID)
	}
	return ok
}

func (c *DefaultCache) DelChannel(channelID Snowflake) bool {
	c.channelsCacheMu.Lock()
	channel, ok := c.channelsCache[channelID]
	if ok {
		delete(c.channelsCache, channelID)
	}
	c.channelsCacheMu.Unlock()
	if ok {
		if guildChannel, ok := channel.(GuildChannel); ok {
			c.guildToChannelIDsMu.Lock()
			if m, has := c.guildToChannelIDs[guildChannel.GetGuildID()]; has {
				delete(m, channelID)
				if len(m) == 0 {
					delete(c.guildToChannelIDs, guildChannel.GetGuildID())
				}
			}
			c.guildToChannelIDsMu.Unlock()
		}
	}
	return ok
}

func (c *DefaultCache) DelMessage(messageID Snowflake) bool {
	c.messagesCacheMu.Lock()
	_, ok := c.messagesCache[messageID]
	if ok {
		delete(c.messagesCache, messageID)
	}
	c.messagesCacheMu.Unlock()
	return ok
}

func (c *DefaultCache) DelVoiceState(guildID, userID Snowflake) bool {
	key := SnowflakePairKey{A: guildID, B: userID}
	ok := c.voiceStatesCache.Delete(key)
	if ok {
		c.guildToVoiceStateUserIDs.Remove(guildID, userID)
	}
	return ok
}

func (c *DefaultCache) DelRole(guildID, roleID Snowflake) bool {
	c.rolesCacheMu.Lock()
	_, ok := c.rolesCache[roleID]
	if ok {
		delete(c.rolesCache, roleID)
	}
	c.rolesCacheMu.Unlock()
	if ok {
		c.guildToRoleIDsMu.Lock()
		if m, has := c.guildToRoleIDs[guildID]; has {
			delete(m, roleID)
			if len(m) == 0 {
				delete(c.guildToRoleIDs, guildID)
			}
		}
		c.guildToRoleIDsMu.Unlock()
	}
	return ok
}

func (c *DefaultCache) DelGuildChannels(guildID Snowflake) bool {
	c.guildToChannelIDsMu.Lock()
	set, ok := c.guildToChannelIDs[guildID]
	if ok {
		delete(c.guildToChannelIDs, guildID)
	}
	c.guildToChannelIDsMu.Unlock()
	if ok {
		c.channelsCacheMu.Lock()
		for channelID := range set {
			delete(c.channelsCache, channelID)
		}
		c.channelsCacheMu.Unlock()
	}
	return ok
}

func (c *DefaultCache) DelGuildMembers(guildID Snowflake) bool {
	set, ok := c.guildToMemberIDs.Delete(guildID)
	if ok {
		for userID := range set {
			c.membersCache.Delete(SnowflakePairKey{A: guildID, B: userID})
		}
	}
	return ok
}

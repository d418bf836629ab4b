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
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"time"
)

/*****************************
 *          Cluster
 *****************************/

// Cluster manages your Discord connection at a high level, grouping multiple shards together.
//
// It provides:
//   - Central configuration for your bot token, intents, and logger.
//   - REST API access via restApi.
//   - Event dispatching via dispatcher.
//   - Shard management for scalable Gateway connections, started in
//     concurrency-limited batches per Discord's session_start_max_concurrency.
//
// Create a Cluster using corvid.New() with desired options, then call Start().
type Cluster struct {
	ctx               context.Context
	Logger            Logger                    // logger used throughout the cluster
	workerPool        WorkerPool                // worker pool used to run tasks asynchronously
	identifyLimiter   ShardsIdentifyRateLimiter // rate limiter controlling Identify payloads per shard
	encoding          GatewayEncoding           // negotiated gateway wire encoding
	token             string                    // bot token (without "Bot " prefix)
	intents           GatewayIntent             // configured Gateway intents
	shards            []*Shard                  // managed Gateway shards
	voice             *voiceManager             // pending/established voice rendezvous sessions
	concurrencyQueues int                        // request queues per REST pipeline
	*restApi                                     // internal REST API client (attaches the bot token)
	rawApi            *restApi                  // raw REST pipeline (never attaches a token, e.g. webhook execute)
	CacheManager                                 // CacheManager for caching discord entities
	*dispatcher                                  // event dispatcher
}

// clusterOption defines a function used to configure Cluster during creation.
type clusterOption func(*Cluster)

/*****************************
 *       Options
 *****************************/

// WithToken sets the bot token for your cluster.
//
// Usage:
//
//	y := corvid.New(context.Background(), corvid.WithToken("your_bot_token"))
//
// Notes:
//   - Logs fatal and exits if token is empty or obviously invalid (< 50 chars).
//   - Removes "Bot " prefix automatically if provided.
//
// Warning: Never share your bot token publicly.
func WithToken(token string) clusterOption {
	if token == "" {
		log.Fatal("WithToken: token must not be empty")
	}
	if len(token) < 50 {
		log.Fatal("WithToken: token invalid")
	}
	if strings.HasPrefix(token, "Bot ") {
		token = strings.Split(token, " ")[1]
	}
	return func(c *Cluster) {
		c.token = token
	}
}

// WithLogger sets a custom Logger implementation for your cluster.
//
// Usage:
//
//	y := corvid.New(context.Background(), corvid.WithLogger(myLogger))
//
// Logs fatal and exits if logger is nil.
func WithLogger(logger Logger) clusterOption {
	if logger == nil {
		log.Fatal("WithLogger: logger must not be nil")
	}
	return func(c *Cluster) {
		c.Logger = logger
	}
}

// WithWorkerPool sets a custom workerpool implementation for your cluster.
//
// Usage:
//
//	y := corvid.New(context.Background(), corvid.WithWorkerPool(myWorkerPool))
//
// Logs fatal and exits if workerpool is nil.
func WithWorkerPool(workerPool WorkerPool) clusterOption {
	if workerPool == nil {
		log.Fatal("WithWorkerPool: workerPool must not be nil")
	}
	return func(c *Cluster) {
		c.workerPool = workerPool
	}
}

// WithCacheManager sets a custom CacheManager implementation for your cluster.
//
// Usage:
//
//	y := corvid.New(context.Background(), corvid.WithCacheManager(myCacheManager))
//
// Logs fatal and exits if cacheManager is nil.
func WithCacheManager(cacheManager CacheManager) clusterOption {
	if cacheManager == nil {
		log.Fatal("WithCacheManager: cacheManager must not be nil")
	}
	return func(c *Cluster) {
		c.CacheManager = cacheManager
	}
}

// WithShardsIdentifyRateLimiter sets a custom ShardsIdentifyRateLimiter
// implementation for your cluster.
//
// Usage:
//
//	y := corvid.New(context.Background(), corvid.WithShardsIdentifyRateLimiter(myRateLimiter))
//
// Logs fatal and exits if the provided rateLimiter is nil.
func WithShardsIdentifyRateLimiter(rateLimiter ShardsIdentifyRateLimiter) clusterOption {
	if rateLimiter == nil {
		log.Fatal("ShardsIdentifyRateLimiter: shardsIdentifyRateLimiter must not be nil")
	}
	return func(c *Cluster) {
		c.identifyLimiter = rateLimiter
	}
}

// WithIntents sets Gateway intents for the cluster's shards.
//
// Usage:
//
//	y := corvid.New(context.Background(), corvid.WithIntents(GatewayIntentGuilds, GatewayIntentMessageContent))
//
// Also supports bitwise OR usage:
//
//	y := corvid.New(context.Background(), corvid.WithIntents(GatewayIntentGuilds | GatewayIntentMessageContent))
func WithIntents(intents ...GatewayIntent) clusterOption {
	var totalIntents GatewayIntent
	for _, intent := range intents {
		totalIntents |= intent
	}
	return func(c *Cluster) {
		c.intents = totalIntents
	}
}

// WithEncoding sets the gateway wire encoding (JSON or ETF) negotiated by
// every shard. Defaults to EncodingJSON.
func WithEncoding(encoding GatewayEncoding) clusterOption {
	return func(c *Cluster) {
		c.encoding = encoding
	}
}

// WithConcurrencyQueues sets how many independent request queues each REST
// pipeline (internal and raw) partitions its requests across. A request's
// bucket key is hashed onto one of these queues, so endpoints that hash to
// different queues never block on each other's dispatch loop. Defaults to 8.
//
// Logs fatal and exits if n is not positive.
func WithConcurrencyQueues(n int) clusterOption {
	if n <= 0 {
		log.Fatal("WithConcurrencyQueues: n must be positive")
	}
	return func(c *Cluster) {
		c.concurrencyQueues = n
	}
}

/*****************************
 *       Constructor
 *****************************/

// New creates a new Cluster instance with provided options.
//
// Example:
//
//	y := corvid.New(
//	    context.Background(),
//	    corvid.WithToken("my_bot_token"),
//	    corvid.WithIntents(GatewayIntentGuilds, GatewayIntentMessageContent),
//	    corvid.WithLogger(myLogger),
//	)
//
// Defaults:
//   - Logger: stdout logger at Info level.
//   - Intents: GatewayIntentGuilds | GatewayIntentGuildMessages | GatewayIntentGuildMembers
//   - Encoding: EncodingJSON
func New(ctx context.Context, options ...clusterOption) *Cluster {
	if ctx == nil {
		ctx = context.Background()
	}

	cluster := &Cluster{
		ctx:    ctx,
		Logger: NewDefaultLogger(os.Stdout, LogLevelInfoLevel),
		intents: GatewayIntentGuilds |
			GatewayIntentGuildMessages |
			GatewayIntentGuildMembers,
		encoding: EncodingJSON,
		voice:    newVoiceManager(),
	}

	for _, option := range options {
		option(cluster)
	}

	if cluster.workerPool == nil {
		cluster.workerPool = NewDefaultWorkerPool(cluster.Logger)
	}

	if cluster.concurrencyQueues <= 0 {
		cluster.concurrencyQueues = defaultConcurrencyQueues
	}

	cluster.restApi = newRestApi(
		newRequesterWithQueues(nil, cluster.token, cluster.Logger, cluster.concurrencyQueues),
		cluster.Logger,
	)
	cluster.rawApi = newRestApi(
		newRequesterWithQueues(nil, "", cluster.Logger, cluster.concurrencyQueues),
		cluster.Logger,
	)
	if cluster.CacheManager == nil {
		cluster.CacheManager = NewDefaultCache(
			CacheFlagGuilds | CacheFlagMembers | CacheFlagChannels | CacheFlagRoles | CacheFlagUsers,
		)
	}
	cluster.dispatcher = newDispatcher(cluster.Logger, cluster.workerPool, cluster.CacheManager, cluster.voice)
	return cluster
}

/*****************************
 *       Start
 *****************************/

// Start initializes and connects all shards for the cluster.
//
// It performs the following steps:
//  1. Retrieves Gateway information from Discord, including the
//     session_start_max_concurrency the bot was granted.
//  2. Starts shards in concurrency-limited batches: at most
//     max_concurrency shards IDENTIFY at once, and Start waits for every
//     shard in a batch to finish connecting before starting the next
//     batch, pausing 5 seconds between batches per Discord's documented
//     large-bot sharding requirement.
//  3. Begins listening to Gateway events.
//
// The lifetime of the cluster is controlled by the provided context `ctx`:
//   - If `ctx` is `nil` or `context.Background()`, Start will block forever,
//     running the cluster until the program exits or Shutdown is called externally.
//   - If `ctx` is cancellable (e.g., created via context.WithCancel or context.WithTimeout),
//     the cluster will run until the context is cancelled or times out.
//     When the context is done, the cluster will shutdown gracefully and Start will return.
//
// This design gives you full control over the cluster's lifecycle.
// For typical usage where you want the bot to run continuously,
// simply pass `nil` as the context (recommended for beginners).
//
// Example usage:
//
//	// Run the cluster indefinitely (blocks forever)
//	err := cluster.Start()
//
//	// Run the cluster with manual cancellation control
//	ctx, cancel := context.WithCancel(context.Background())
//	go func() {
//	    time.Sleep(time.Hour)
//	    cancel() // stops the cluster after 1 hour
//	}()
//	cluster := corvid.New(ctx, corvid.WithToken(token))
//	err := cluster.Start()
//
// Returns an error if Gateway information retrieval or shard connection fails.
func (c *Cluster) Start() error {
	gatewayBotData, err := c.restApi.FetchGatewayBot()
	if err != nil {
		return err
	}

	if gatewayBotData.SessionStartLimit.Remaining < gatewayBotData.Shards {
		return &CapacityError{
			Remaining: gatewayBotData.SessionStartLimit.Remaining,
			ResetIn:   time.Duration(gatewayBotData.SessionStartLimit.ResetAfter) * time.Millisecond,
		}
	}

	if c.identifyLimiter == nil {
		c.identifyLimiter = NewDefaultShardsRateLimiter(gatewayBotData.SessionStartLimit.MaxConcurrency, 5*time.Second)
	}

	concurrency := gatewayBotData.SessionStartLimit.MaxConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	for batchStart := 0; batchStart < gatewayBotData.Shards; batchStart += concurrency {
		batchEnd := batchStart + concurrency
		if batchEnd > gatewayBotData.Shards {
			batchEnd = gatewayBotData.Shards
		}

		done := make(chan error, batchEnd-batchStart)
		for i := batchStart; i < batchEnd; i++ {
			shard := newShard(
				i, gatewayBotData.Shards, c.token, c.intents, c.encoding,
				c.Logger, c.dispatcher, c.identifyLimiter,
			)
			c.shards = append(c.shards, shard)
			go func(s *Shard) { done <- dialAndAwaitReady(c.ctx, s) }(shard)
		}

		for i := batchStart; i < batchEnd; i++ {
			if err := <-done; err != nil {
				return err
			}
		}

		if batchEnd < gatewayBotData.Shards {
			c.Logger.Debug("Batch of shards connected, pausing before next batch")
			time.Sleep(5 * time.Second)
		}
	}

	<-c.ctx.Done()
	if err := c.ctx.Err(); err != nil {
		c.Logger.WithField("err", err).Error("Cluster shutdown due to context error")
	}
	c.Shutdown()
	return nil
}

// RunToCompletion is an alternative entry point to Start intended for
// short-lived or test harnesses: it starts every shard exactly as Start
// does, but returns as soon as every shard has completed its initial
// connection instead of blocking on the cluster's context. Callers are
// responsible for calling Shutdown when done.
func (c *Cluster) RunToCompletion() error {
	gatewayBotData, err := c.restApi.FetchGatewayBot()
	if err != nil {
		return err
	}

	if gatewayBotData.SessionStartLimit.Remaining < gatewayBotData.Shards {
		return &CapacityError{
			Remaining: gatewayBotData.SessionStartLimit.Remaining,
			ResetIn:   time.Duration(gatewayBotData.SessionStartLimit.ResetAfter) * time.Millisecond,
		}
	}

	if c.identifyLimiter == nil {
		c.identifyLimiter = NewDefaultShardsRateLimiter(gatewayBotData.SessionStartLimit.MaxConcurrency, 5*time.Second)
	}

	concurrency := gatewayBotData.SessionStartLimit.MaxConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	for batchStart := 0; batchStart < gatewayBotData.Shards; batchStart += concurrency {
		batchEnd := batchStart + concurrency
		if batchEnd > gatewayBotData.Shards {
			batchEnd = gatewayBotData.Shards
		}

		done := make(chan error, batchEnd-batchStart)
		for i := batchStart; i < batchEnd; i++ {
			shard := newShard(
				i, gatewayBotData.Shards, c.token, c.intents, c.encoding,
				c.Logger, c.dispatcher, c.identifyLimiter,
			)
			c.shards = append(c.shards, shard)
			go func(s *Shard) { done <- dialAndAwaitReady(c.ctx, s) }(shard)
		}

		for i := batchStart; i < batchEnd; i++ {
			if err := <-done; err != nil {
				return err
			}
		}

		if batchEnd < gatewayBotData.Shards {
			time.Sleep(5 * time.Second)
		}
	}

	return nil
}

// dialAndAwaitReady dials s with a bounded connect timeout and then blocks
// until s's session reaches READY (or ctx is done), so a batch barrier
// actually waits for shards to be usable rather than merely dialed — a
// shard that completes its websocket handshake but whose IDENTIFY is still
// pending behind the identify rate limiter is not yet safe to treat as
// "started".
func dialAndAwaitReady(ctx context.Context, s *Shard) error {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	err := s.connect(dialCtx)
	cancel()
	if err != nil {
		return err
	}
	return s.WaitReady(ctx)
}

/*****************************
 *       Shutdown
 *****************************/

/*****************************
 *       Voice
 *****************************/

// shardFor returns the shard responsible for a guild, per Discord's
// guild_id >> 22 mod num_shards routing rule.
func (c *Cluster) shardFor(guildID Snowflake) (*Shard, error) {
	if len(c.shards) == 0 {
		return nil, NewConnectionError("voice", errors.New("cluster has no connected shards"))
	}
	idx := int((uint64(guildID) >> 22) % uint64(len(c.shards)))
	return c.shards[idx], nil
}

// JoinVoiceChannel requests joining (or moving into) a voice channel and
// blocks until Discord completes the VOICE_STATE_UPDATE/VOICE_SERVER_UPDATE
// rendezvous, or until ctx is done. The returned voiceSession carries the
// session ID, token and endpoint needed to establish the voice UDP/RTP
// connection. A repeated call for the same guild and channel while that
// rendezvous is pending or established sends no second VOICE_STATE_UPDATE
// and waits on the same session.
func (c *Cluster) JoinVoiceChannel(ctx context.Context, guildID, channelID Snowflake, selfMute, selfDeaf bool) (*voiceSession, error) {
	shard, err := c.shardFor(guildID)
	if err != nil {
		return nil, err
	}

	existing := c.voice.get(guildID)
	session := c.voice.begin(guildID, channelID)
	if session != existing {
		if err := shard.sendVoiceStateUpdate(guildID, channelID, selfMute, selfDeaf); err != nil {
			c.voice.remove(guildID)
			return nil, err
		}
	}

	select {
	case <-session.ready:
		return session, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// LeaveVoiceChannel sends a VOICE_STATE_UPDATE with no channel, leaving the
// guild's current voice channel, and discards any rendezvous state. When no
// rendezvous state is held for the guild it sends nothing, so a second call
// sends no second VOICE_STATE_UPDATE.
func (c *Cluster) LeaveVoiceChannel(guildID Snowflake) error {
	shard, err := c.shardFor(guildID)
	if err != nil {
		return err
	}
	if c.voice.get(guildID) == nil {
		return nil
	}
	c.voice.remove(guildID)
	return shard.sendVoiceStateUpdate(guildID, Snowflake(0), false, false)
}

// Shutdown cleanly shuts down the Cluster.
//
// It:
//   - Logs shutdown message.
//   - Shuts down all managed shards.
//   - Shuts down both REST API clients (closes idle connections).
func (c *Cluster) Shutdown() {
	c.Logger.Info("Cluster shutting down")
	for _, shard := range c.shards {
		shard.Shutdown()
	}
	c.shards = nil
	c.restApi.Shutdown()
	c.rawApi.Shutdown()
}

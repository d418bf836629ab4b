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
	"net"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

/*******************************
 * Shards Identify Rate Limiter
 *******************************/

// ShardsIdentifyRateLimiter defines the interface for a rate limiter
// that controls the frequency of Identify payloads sent per shard.
//
// Implementations block the caller in Wait() until an Identify token is available.
type ShardsIdentifyRateLimiter interface {
	// Wait blocks until the shard is allowed to send an Identify payload.
	Wait()
}

// DefaultShardsRateLimiter implements a simple token bucket
// rate limiter using a buffered channel of tokens.
//
// The capacity and refill interval control the max burst and rate.
type DefaultShardsRateLimiter struct {
	tokens chan struct{}
}

var _ ShardsIdentifyRateLimiter = (*DefaultShardsRateLimiter)(nil)

// NewDefaultShardsRateLimiter creates a new token bucket rate limiter.
//
// r specifies the maximum burst tokens allowed.
// interval specifies how frequently tokens are refilled.
func NewDefaultShardsRateLimiter(r int, interval time.Duration) *DefaultShardsRateLimiter {
	if r <= 0 {
		r = 1
	}
	rl := &DefaultShardsRateLimiter{tokens: make(chan struct{}, r)}
	// fill initial tokens
	for range r {
		rl.tokens <- struct{}{}
	}
	// refill tokens periodically in a goroutine
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			select {
			case rl.tokens <- struct{}{}:
			default:
			}
		}
	}()
	return rl
}

// Wait blocks until a token is available for sending Identify.
func (rl *DefaultShardsRateLimiter) Wait() {
	<-rl.tokens
}

/*************************************
 * Shard: a single Gateway connection
 *************************************/

const (
	gatewayVersion  = "10"
	gatewayHost     = "gateway.discord.gg"
	gatewayBasePath = "/"

	// identifyLargeThreshold is the number of members a guild must exceed
	// before Discord omits its member list from GUILD_CREATE, sent on every
	// IDENTIFY. 250 is the highest value Discord accepts.
	identifyLargeThreshold = 250

	// dialTimeout bounds a single gateway dial attempt; dialMaxRetries
	// is how many further attempts reconnect makes after its first one
	// fails, before giving up and surfacing a *ConnectionError.
	dialTimeout    = 5 * time.Second
	dialMaxRetries = 4
)

// Dial opens a websocket TCP+TLS connection to addr, bounding the attempt to
// ctx's deadline. It is the standalone entry point reconnect and connect
// both funnel through, so a caller wiring a custom dialer only has one
// function to replace.
func Dial(ctx context.Context, addr string) (net.Conn, error) {
	dialer := ws.Dialer{}
	conn, _, _, err := dialer.Dial(ctx, addr)
	if err != nil {
		return nil, NewConnectionError("gateway dial", err)
	}
	return conn, nil
}

// Shard manages a single WebSocket connection to Discord Gateway,
// including session state, event handling, heartbeats, and reconnects.
type Shard struct {
	shardID     int             // shard number (zero-based)
	totalShards int             // total number of shards in the bot
	token       string          // Discord bot token
	intents     GatewayIntent   // Gateway intents bitmask
	encoding    GatewayEncoding // negotiated wire encoding (JSON or ETF)
	codec       gatewayCodec    // marshal/unmarshal for the negotiated encoding

	logger          Logger                    // logger interface for informational and error messages
	dispatcher      *dispatcher               // event dispatcher for received Gateway events
	identifyLimiter ShardsIdentifyRateLimiter // rate limiter controlling Identify payloads

	conn    net.Conn          // websocket connection
	inflate *gatewayInflater  // continuous zlib decompressor for this connection, nil if uncompressed

	writeMu sync.Mutex // serializes writes to conn (one in flight at a time); there is no outbound queue and no priority

	seq       atomic.Int64 // last received sequence number from Gateway
	sessionID string       // current session id for resuming
	resumeURL string       // Gateway URL to resume session on

	latency          int64       // time taken to write the last heartbeat frame, in milliseconds
	lastHeartbeatACK atomic.Bool // true if last heartbeat was acknowledged

	errMu   sync.Mutex // guards lastErr
	lastErr error      // most recent connection failure, nil once connected

	readyOnce sync.Once
	readyCh   chan struct{} // closed the first time this shard's session reaches READY

	closing atomic.Bool // true once Shutdown has been called; suppresses auto-reconnect
}

// newShard constructs a new Shard instance with the specified parameters.
//
// shardID and totalShards configure the sharding info,
// token sets authentication, intents specify Gateway events to receive,
// encoding selects the gateway wire format (JSON or ETF),
// logger and dispatcher handle logging and event dispatching,
// limiter enforces Identify rate limits.
func newShard(
	shardID, totalShards int, token string, intents GatewayIntent, encoding GatewayEncoding,
	logger Logger, dispatcher *dispatcher, limiter ShardsIdentifyRateLimiter,
) *Shard {
	return &Shard{
		shardID:         shardID,
		totalShards:     totalShards,
		token:           token,
		intents:         intents,
		encoding:        encoding,
		codec:           codecFor(encoding),
		logger:          logger,
		dispatcher:      dispatcher,
		identifyLimiter: limiter,
		readyCh:         make(chan struct{}),
	}
}

// WaitReady blocks until this shard's session reaches READY, or ctx is done.
func (s *Shard) WaitReady(ctx context.Context) error {
	select {
	case <-s.readyCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Shard) gatewayURL() string {
	if s.resumeURL != "" {
		return s.resumeURL + "?v=" + gatewayVersion + "&encoding=" + s.encoding.queryParam() + "&compress=zlib-stream"
	}
	u := url.URL{Scheme: "wss", Host: gatewayHost, Path: gatewayBasePath}
	q := u.Query()
	q.Set("v", gatewayVersion)
	q.Set("encoding", s.encoding.queryParam())
	q.Set("compress", "zlib-stream")
	u.RawQuery = q.Encode()
	return u.String()
}

// connect establishes or resumes a WebSocket connection to Discord Gateway
//
// The shard attempts to connect to the resumeURL if set, otherwise
// to the default gateway url. A fresh gatewayInflater is created for the
// new connection, since Discord restarts the zlib stream on every dial.
//
// It spawns a goroutine to read messages asynchronously.
func (s *Shard) connect(ctx context.Context) error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.inflate != nil {
		s.inflate.Close()
	}

	conn, err := Dial(ctx, s.gatewayURL())
	if err != nil {
		s.setLastErr(err)
		return err
	}

	s.logger.Info("Shard " + strconv.Itoa(s.shardID) + " connected")
	s.conn = conn
	s.inflate = newGatewayInflater()
	s.lastHeartbeatACK.Store(true)
	s.closing.Store(false)
	s.setLastErr(nil)

	go s.readLoop()
	return nil
}

// setLastErr records err as the shard's most recently observed connection
// failure, visible through LastError.
func (s *Shard) setLastErr(err error) {
	s.errMu.Lock()
	s.lastErr = err
	s.errMu.Unlock()
}

// LastError returns the most recent connection failure observed by this
// shard's dial/reconnect attempts, or nil if the shard is currently
// connected (or has never attempted to connect).
func (s *Shard) LastError() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.lastErr
}

// readLoop continuously reads messages from the Gateway WebSocket
//
// It feeds every binary frame through the shard's gatewayInflater before
// decoding, handles Gateway opcodes, dispatches events, and triggers
// reconnects as needed.
func (s *Shard) readLoop() {
	for {
		msg, op, err := wsutil.ReadServerData(s.conn)
		if err != nil {
			s.logger.Error("Shard " + strconv.Itoa(s.shardID) + " read error: " + err.Error())
			s.reconnect()
			return
		}

		switch op {
		case ws.OpClose:
			code, _ := ws.ParseCloseFrameData(msg)
			s.handleClose(GatewayCloseEventCode(code))
			return
		case ws.OpBinary:
			decompressed, ferr := s.inflate.Feed(msg)
			if ferr != nil {
				s.logger.Error("Shard " + strconv.Itoa(s.shardID) + " decompress error: " + ferr.Error())
				s.reconnect()
				return
			}
			if decompressed == nil {
				continue // partial message, more frames needed before the flush boundary
			}
			msg = decompressed
		case ws.OpText:
			// uncompressed payload, used only if compress negotiation failed
		case ws.OpPing:
			wsutil.WriteClientMessage(s.conn, ws.OpPong, msg)
			continue
		case ws.OpPong:
			continue
		default:
			continue
		}

		var payload gatewayPayload
		if err := s.codec.Unmarshal(msg, &payload); err != nil {
			s.logger.Error("Shard " + strconv.Itoa(s.shardID) + " unmarshal error: " + err.Error())
			continue
		}

		s.handlePayload(payload)
	}
}

func (s *Shard) handlePayload(payload gatewayPayload) {
	switch payload.Op {
	case gatewayOpcodeDispatch:
		s.seq.Store(payload.S)
		s.dispatcher.dispatch(s.shardID, payload.T, payload.D)

		if payload.T == "READY" {
			var ready struct {
				SessionID string `json:"session_id"`
				ResumeURL string `json:"resume_gateway_url"`
			}
			s.codec.Unmarshal(payload.D, &ready)
			s.sessionID = ready.SessionID
			s.resumeURL = ready.ResumeURL
			s.logger.Debug("Shard " + strconv.Itoa(s.shardID) + " session established")
			s.readyOnce.Do(func() { close(s.readyCh) })
		}

	case gatewayOpcodeReconnect:
		s.logger.Info("Shard " + strconv.Itoa(s.shardID) + " RECONNECT received")
		s.reconnect()

	case gatewayOpcodeInvalidSession:
		var resumable bool
		s.codec.Unmarshal(payload.D, &resumable)
		time.Sleep(time.Second)
		if resumable {
			s.logger.Info("Shard " + strconv.Itoa(s.shardID) + " session invalid (resumable), resuming")
			s.sendResume()
		} else {
			s.logger.Info("Shard " + strconv.Itoa(s.shardID) + " session invalid (non-resumable), identifying")
			s.sessionID = ""
			s.seq.Store(0)
			s.sendIdentify()
		}

	case gatewayOpcodeHello:
		var hello struct {
			HeartbeatInterval float64 `json:"heartbeat_interval"`
		}
		s.codec.Unmarshal(payload.D, &hello)
		interval := time.Duration(hello.HeartbeatInterval) * time.Millisecond
		s.logger.Debug("Shard " + strconv.Itoa(s.shardID) + " HELLO received, heartbeat " + interval.String())
		go s.startHeartbeat(interval * 3 / 4)

		if s.sessionID != "" && s.seq.Load() > 0 {
			s.logger.Info("Shard " + strconv.Itoa(s.shardID) + " resuming session")
			s.sendResume()
		} else {
			s.logger.Debug("Shard " + strconv.Itoa(s.shardID) + " identifying new session")
			s.sendIdentify()
		}

	case gatewayOpcodeHeartbeatACK:
		s.lastHeartbeatACK.Store(true)
		s.logger.Debug("Shard " + strconv.Itoa(s.shardID) + " heartbeatACK received")

	case gatewayOpcodeHeartbeat:
		s.sendHeartbeat()
	}
}

// handleClose decides whether a gateway close frame allows resuming,
// allows a fresh reconnect, or is fatal, per the close-code taxonomy.
func (s *Shard) handleClose(code GatewayCloseEventCode) {
	if s.closing.Load() {
		return
	}

	switch code {
	case GatewayCloseEventCodeAuthenticationFailed:
		s.logger.Error("Shard " + strconv.Itoa(s.shardID) + " authentication failed, will not retry")
		return
	case GatewayCloseEventCodeInvalidShard,
		GatewayCloseEventCodeShardingRequired,
		GatewayCloseEventCodeInvalidAPIVersion,
		GatewayCloseEventCodeInvalidIntents,
		GatewayCloseEventCodeDisallowedIntents:
		s.logger.Error("Shard " + strconv.Itoa(s.shardID) + " closed with fatal code " + strconv.Itoa(int(code)))
		return
	case GatewayCloseEventCodeInvalidSeq, GatewayCloseEventCodeSessionTimedOut:
		s.sessionID = ""
		s.seq.Store(0)
		s.resumeURL = ""
	}

	s.logger.Info("Shard " + strconv.Itoa(s.shardID) + " closed with code " + strconv.Itoa(int(code)) + ", reconnecting")
	s.reconnect()
}

// write serializes and sends payload over the gateway connection. Each
// call writes straight to the socket while holding writeMu; there is no
// outbound queue, and heartbeats get no priority over other payloads, so a
// heartbeat waits for any write that holds the lock before it.
func (s *Shard) write(payload map[string]any) error {
	data, err := s.codec.Marshal(payload)
	if err != nil {
		return err
	}

	opcode := ws.OpText
	if s.encoding == EncodingETF {
		opcode = ws.OpBinary
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return wsutil.WriteClientMessage(s.conn, opcode, data)
}

// sendIdentify sends an Identify payload to Discord Gateway
//
// This authenticates the shard as a new session and requests events based on intents.
//
// Identify payloads are rate limited via identifyLimiter.
func (s *Shard) sendIdentify() error {
	s.identifyLimiter.Wait()
	return s.write(map[string]any{
		"op": gatewayOpcodeIdentify,
		"d": map[string]any{
			"token": s.token,
			"properties": map[string]string{
				"os":      "linux",
				"browser": LIB_NAME,
				"device":  LIB_NAME,
			},
			"compress":        false,
			"shard":           [2]int{s.shardID, s.totalShards},
			"intents":         s.intents,
			"large_threshold": identifyLargeThreshold,
		},
	})
}

// sendResume sends a Resume payload to Discord Gateway
//
// This attempts to resume a previous session using sessionID and sequence number.
func (s *Shard) sendResume() error {
	return s.write(map[string]any{
		"op": gatewayOpcodeResume,
		"d": map[string]any{
			"token":      s.token,
			"session_id": s.sessionID,
			"seq":        s.seq.Load(),
		},
	})
}

// sendHeartbeat sends a Heartbeat payload to Discord Gateway
//
// The payload data is the last sequence number received, or null if none.
func (s *Shard) sendHeartbeat() error {
	var d any
	if seq := s.seq.Load(); seq > 0 {
		d = seq
	}
	return s.write(map[string]any{
		"op": gatewayOpcodeHeartbeat,
		"d":  d,
	})
}

// sendVoiceStateUpdate requests joining, moving, or leaving a voice
// channel. Passing a zero channelID leaves the guild's current voice
// channel. See voice.go for the rendezvous that follows.
func (s *Shard) sendVoiceStateUpdate(guildID, channelID Snowflake, selfMute, selfDeaf bool) error {
	var channel any
	if !channelID.UnSet() {
		channel = channelID
	}
	return s.write(map[string]any{
		"op": gatewayOpcodeVoiceStateUpdate,
		"d": map[string]any{
			"guild_id":   guildID,
			"channel_id": channel,
			"self_mute":  selfMute,
			"self_deaf":  selfDeaf,
		},
	})
}

// startHeartbeat begins sending heartbeats at the given interval
//
// If two heartbeats in a row go without an ACK before the next tick,
// the shard reconnects automatically.
func (s *Shard) startHeartbeat(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	missed := 0
	for range ticker.C {
		if !s.lastHeartbeatACK.Load() {
			missed++
			if missed >= 2 {
				s.logger.Error("Shard " + strconv.Itoa(s.shardID) + " heartbeat not ACKed, reconnecting")
				s.reconnect()
				return
			}
		} else {
			missed = 0
		}

		s.lastHeartbeatACK.Store(false)

		start := MonotonicNow()
		if err := s.sendHeartbeat(); err != nil {
			s.logger.Error("Shard " + strconv.Itoa(s.shardID) + " heartbeat error: " + err.Error())
			s.reconnect()
			return
		}

		atomic.StoreInt64(&s.latency, MonotonicSinceMs(start))
	}
}

// reconnect closes the current connection and attempts to reconnect.
//
// Each attempt gets its own dialTimeout connect window; after the first
// attempt and dialMaxRetries retries have all failed (dialMaxRetries+1
// attempts in all) it gives up and leaves the failure
// retrievable through LastError rather than retrying forever.
func (s *Shard) reconnect() {
	if s.closing.Load() {
		return
	}
	if s.conn != nil {
		s.conn.Close()
	}

	for attempt := 0; attempt <= dialMaxRetries; attempt++ {
		if s.closing.Load() {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
		err := s.connect(ctx)
		cancel()

		if err == nil {
			s.logger.Debug("Shard " + strconv.Itoa(s.shardID) + " reconnected")
			return
		}

		s.logger.Error("Shard " + strconv.Itoa(s.shardID) + " reconnect attempt " + strconv.Itoa(attempt+1) + " failed: " + err.Error())
	}

	connErr := NewConnectionError("gateway reconnect", errors.New("exhausted retries"))
	s.setLastErr(connErr)
	s.logger.Error("Shard " + strconv.Itoa(s.shardID) + " exhausted reconnect retries, giving up")
}

// Latency returns the time, in milliseconds, that writing the last
// heartbeat frame took. It is not the round trip to the HEARTBEAT_ACK.
func (s *Shard) Latency() int64 {
	return atomic.LoadInt64(&s.latency)
}

// Shutdown cleanly closes the shard's websocket connection.
//
// Call this when you want to stop the shard gracefully.
func (s *Shard) Shutdown() error {
	s.closing.Store(true)
	if s.inflate != nil {
		s.inflate.Close()
	}
	if s.conn != nil {
		s.logger.Info("Shard " + strconv.Itoa(s.shardID) + " shutting down")
		return s.conn.Close()
	}
	return nil
}

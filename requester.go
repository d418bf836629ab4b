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
	"bytes"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/net/http2"
)

/***********************
 *   Constants         *
 ***********************/

const (
	apiVersion         = "v10"
	baseApiUrl         = "https://discord.com/api/" + apiVersion
	maxRetries         = 5
	maxRequestAge      = 10 * time.Second
	headerRetryAfter   = "Retry-After"
	headerRetryAfterRL = "X-RateLimit-Retry-After"
	headerGlobal       = "X-RateLimit-Global"
	headerLimit        = "X-RateLimit-Limit"
	headerRemaining    = "X-RateLimit-Remaining"
	headerResetAfter   = "X-RateLimit-Reset-After"
	headerBucket       = "X-RateLimit-Bucket"
	headerScope        = "X-RateLimit-Scope"
	headerReason       = "X-Audit-Log-Reason"
)

/***********************
 *   GlobalRateLimit   *
 ***********************/

// globalRateLimit stores the earliest time global requests can resume.
type globalRateLimit int64

// set updates the global reset time if the new time is later.
func (g *globalRateLimit) set(t time.Time) {
	newVal := t.UnixNano()
	for {
		oldVal := atomic.LoadInt64((*int64)(g))
		if newVal <= oldVal {
			return
		}
		if atomic.CompareAndSwapInt64((*int64)(g), oldVal, newVal) {
			return
		}
	}
}

// get returns the current global reset time.
func (g *globalRateLimit) get() time.Time {
	return time.Unix(0, atomic.LoadInt64((*int64)(g)))
}

/***********************
 *   Requester         *
 ***********************/

// requester handles HTTP requests with Discord rate limit compliance. It
// routes every request onto one of a fixed pool of requestQueues, keyed by a
// hash of the request's bucket, so distinct routes never block on the same
// dispatch loop while requests sharing a bucket stay serialized against it.
type requester struct {
	client               *http.Client
	token                string
	queues               []*requestQueue
	global               globalRateLimit
	userAgent            string
	logger               Logger
	retryableStatusCodes map[int]struct{}
}

// newRequester creates a new Requester with the given bot token and logger,
// backed by defaultConcurrencyQueues request queues.
func newRequester(client *http.Client, token string, logger Logger) *requester {
	return newRequesterWithQueues(client, token, logger, defaultConcurrencyQueues)
}

// newRequesterWithQueues is newRequester with an explicit queue count, used
// by WithConcurrencyQueues to size the pool.
func newRequesterWithQueues(client *http.Client, token string, logger Logger, numQueues int) *requester {
	if client == nil {
		transport := &http.Transport{
			Proxy: http.ProxyFromEnvironment,

			MaxIdleConns:        500,
			MaxIdleConnsPerHost: 100,
			MaxConnsPerHost:     200,

			IdleConnTimeout:       120 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,

			DisableKeepAlives: false,
			ForceAttemptHTTP2: true,
		}

		// Discord terminates HTTP/2 connections, and explicit tuning here
		// (vs. relying on ForceAttemptHTTP2's defaults) lets a caller's
		// custom *http.Client still benefit by constructing its own
		// http2.Transport the same way.
		if h2transport, err := http2.ConfigureTransports(transport); err == nil {
			h2transport.ReadIdleTimeout = 30 * time.Second
			h2transport.PingTimeout = 10 * time.Second
		}

		client = &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		}
	}

	if numQueues <= 0 {
		numQueues = defaultConcurrencyQueues
	}

	r := &requester{
		client:    client,
		token:     "Bot " + token,
		userAgent: "DiscordBot (corvid)",
		logger:    logger,
		// 429 is deliberately absent: a rate-limit response updates the
		// bucket (and the global limiter, if scoped "shared") but is
		// resolved straight back to the caller rather than retried here,
		// since the caller's own backoff/queueing semantics around 429
		// are part of the documented REST contract, not an internal
		// transport detail to paper over.
		retryableStatusCodes: map[int]struct{}{
			500: {}, 502: {}, 503: {}, 504: {},
		},
	}

	r.queues = make([]*requestQueue, numQueues)
	for i := range r.queues {
		r.queues[i] = newRequestQueue(r)
	}

	return r
}

// Shutdown stops every request queue's tick loop and gracefully closes the
// underlying HTTP client's idle connections.
//
// It should be called before exiting your application to ensure
// that any idle connections in the HTTP transport are closed cleanly,
// preventing resource leaks and keeping a clean shutdown process.
func (r *requester) Shutdown() {
	for _, q := range r.queues {
		q.stop()
	}
	if r.client != nil {
		if tr, ok := r.client.Transport.(interface{ CloseIdleConnections() }); ok {
			tr.CloseIdleConnections()
		}
	}
}

// applyGlobalLimit halts every queue's dispatch until the global rate limit
// window reported by h has elapsed.
func (r *requester) applyGlobalLimit(h http.Header) {
	wait := time.Second
	if retry := h.Get(headerRetryAfterRL); retry != "" {
		if secs, err := strconv.ParseFloat(retry, 64); err == nil {
			wait = time.Duration(secs * float64(time.Second))
		}
	} else if retry := h.Get(headerRetryAfter); retry != "" {
		if secs, err := strconv.ParseFloat(retry, 64); err == nil {
			wait = time.Duration(secs * float64(time.Second))
		}
	}
	r.global.set(time.Now().Add(wait))
}

// do routes a request onto the queue owning its bucket and blocks until that
// queue dispatches it and a terminal (non-retryable, or retries-exhausted)
// result comes back.
func (r *requester) do(method, endpoint string, body []byte, authenticateWithToken bool, reason string) (*http.Response, error) {
	return r.doWithContentType(method, endpoint, body, "", authenticateWithToken, reason)
}

// doWithContentType is do, with an explicit Content-Type overriding the
// default "application/json" used for write methods. Used for multipart
// form-data requests (file uploads).
func (r *requester) doWithContentType(method, endpoint string, body []byte, contentType string, authenticateWithToken bool, reason string) (*http.Response, error) {
	bucketKey := r.generateBucketKey(method, endpoint)
	queue := r.queues[fnv32(bucketKey)%uint32(len(r.queues))]

	req := &queuedRequest{
		method:        method,
		endpoint:      endpoint,
		body:          body,
		contentType:   contentType,
		authWithToken: authenticateWithToken,
		reason:        reason,
		bucketKey:     bucketKey,
		resultCh:      make(chan queuedResult, 1),
	}

	r.logger.Debug(fmt.Sprintf("Enqueuing %s %s on bucket %s", method, endpoint, bucketKey))
	queue.enqueue(req)

	result := <-req.resultCh
	return result.resp, result.err
}

// roundtrip performs exactly one HTTP attempt for the given request, with no
// retry or rate-limit waiting of its own: that bookkeeping lives in
// requestQueue, which calls this once per dispatch attempt.
func (r *requester) roundtrip(method, endpoint string, body []byte, contentType string, authenticateWithToken bool, reason string) (*http.Response, error) {
	req, err := http.NewRequest(method, baseApiUrl+endpoint, bytes.NewReader(body))
	if err != nil {
		r.logger.Error(fmt.Sprintf("Failed building request for %s %s: %v", method, endpoint, err))
		return nil, err
	}

	if authenticateWithToken {
		req.Header.Set("Authorization", r.token)
	}
	req.Header.Set("User-Agent", r.userAgent)
	switch {
	case contentType != "":
		req.Header.Set("Content-Type", contentType)
	case method == "POST" || method == "PUT" || method == "PATCH":
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if reason != "" {
		req.Header.Set(headerReason, reason)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn(fmt.Sprintf("HTTP request error for %s %s: %v", method, endpoint, err))
		return nil, err
	}

	return resp, nil
}

var (
	reSnowflake     = regexp.MustCompile(`\d{17,19}`)
	reReactions     = regexp.MustCompile(`/reactions/.*`)
	reWebhooksToken = regexp.MustCompile(`/webhooks/(\d{17,19})/[^/?]+`)
)

const (
	oldMessageCutoffMS = 14 * 24 * 60 * 60 * 1000 // 14 days in milliseconds
)

func (r *requester) generateBucketKey(method, endpoint string) string {
	if strings.HasPrefix(endpoint, "/interactions/") && strings.HasSuffix(endpoint, "/callback") {
		return method + ":/interactions/:id/:token/callback"
	}

	majorParam := reSnowflake.FindString(endpoint)

	if majorParam == "" {
		baseRoute := reSnowflake.ReplaceAllString(endpoint, ":id")
		baseRoute = reReactions.ReplaceAllString(baseRoute, "/reactions/:reaction")
		baseRoute = reWebhooksToken.ReplaceAllString(baseRoute, "/webhooks/:id/:token")
		return method + ":" + baseRoute
	}

	var b strings.Builder
	b.Grow(len(endpoint) + 20)

	start := 0
	firstFound := false
	for _, loc := range reSnowflake.FindAllStringIndex(endpoint, -1) {
		b.WriteString(endpoint[start:loc[0]])

		id := endpoint[loc[0]:loc[1]]
		if !firstFound && id == majorParam {
			b.WriteString(id)
			firstFound = true
		} else {
			b.WriteString(":id")
		}
		start = loc[1]
	}
	b.WriteString(endpoint[start:])

	baseRoute := b.String()

	baseRoute = reReactions.ReplaceAllString(baseRoute, "/reactions/:reaction")
	baseRoute = reWebhooksToken.ReplaceAllString(baseRoute, "/webhooks/:id/:token")

	if method == "DELETE" && strings.HasPrefix(endpoint, "/channels/") && strings.Contains(endpoint, "/messages/") {
		lastSlash := strings.LastIndex(endpoint, "/")
		if lastSlash != -1 && lastSlash < len(endpoint)-1 {
			messageIdStr := endpoint[lastSlash+1:]
			if messageId, err := strconv.ParseUint(messageIdStr, 10, 64); err == nil {
				snow := Snowflake(messageId)
				if time.Now().UnixMilli()-snow.Timestamp().UnixMilli() > oldMessageCutoffMS {
					baseRoute += "/oldmessage"
				}
			}
		}
	}

	return method + ":" + baseRoute
}

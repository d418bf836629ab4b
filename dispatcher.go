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
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

/*****************************
 *   EventhandlersManager
 *****************************/

// eventhandlersManager defines the interface for managing event handlers of a specific event type.
//
// Implementations must support adding and removing handlers and dispatching
// raw JSON event data to whichever handlers are currently attached.
type eventhandlersManager interface {
	// handleEvent unmarshals the raw JSON data and calls all registered handlers.
	handleEvent(cache CacheManager, shardID int, buf []byte)
	// addHandler adds a new handler function for the event type, returning a
	// handle that can later be passed to removeHandler.
	addHandler(handler any) HandlerHandle
	// removeHandler detaches a previously added handler. A no-op if the
	// handle is unknown or was already removed.
	removeHandler(handle HandlerHandle)
}

/*****************************
 *        dispatcher
 *****************************/

// dispatcher manages registration of event handlers and dispatching of events.
//
// It stores handlers by event name string and invokes the correct handlers for incoming events.
//
// Dispatching handlers is done asynchronously on the dispatcher's worker
// pool; registration (OnXxx/OffXxx) is safe to call concurrently with
// dispatch.
type dispatcher struct {
	logger           Logger
	cacheManager     CacheManager
	workerPool       WorkerPool
	voice            *voiceManager
	selfUserID       *atomic.Uint64 // bot's own user ID, captured from READY; 0 until then
	handlersManagers map[string]eventhandlersManager
	mu               sync.RWMutex
}

// newDispatcher creates a new dispatcher instance.
//
// If logger is nil, it creates a default logger that writes to os.Stdout with info-level logging.
func newDispatcher(logger Logger, workerPool WorkerPool, cacheManager CacheManager, voice *voiceManager) *dispatcher {
	if logger == nil {
		logger = NewDefaultLogger(os.Stdout, LogLevelInfoLevel)
	}
	if workerPool == nil {
		workerPool = NewDefaultWorkerPool(logger)
	}
	if voice == nil {
		voice = newVoiceManager()
	}
	d := &dispatcher{
		logger:           logger,
		workerPool:       workerPool,
		cacheManager:     cacheManager,
		voice:            voice,
		selfUserID:       new(atomic.Uint64),
		handlersManagers: make(map[string]eventhandlersManager, 20),
	}

	// Register some necessary events for caching
	d.handlersManagers["READY"] = newReadyHandlers(logger, d.selfUserID)
	d.handlersManagers["GUILD_CREATE"] = newGuildCreateHandlers(logger)
	d.handlersManagers["VOICE_STATE_UPDATE"] = newVoiceStateUpdateHandlers(logger, voice, d.selfUserID)
	d.handlersManagers["VOICE_SERVER_UPDATE"] = newVoiceServerUpdateHandlers(logger, voice)

	return d
}

/*****************************
 *     Dispatch Event
 *****************************/

// dispatch sends raw event JSON data to all registered handlers for that event name.
//
// The eventName must exactly match the Discord event string (e.g., "MESSAGE_CREATE").
//
// This method submits each dispatch to the dispatcher's worker pool to avoid blocking the
// main event loop; if the pool rejects the task, the event is dropped and a warning is logged.
func (d *dispatcher) dispatch(shardID int, eventName string, data []byte) {
	d.logger.Debug("Event '" + eventName + "' dispatched")
	if !d.workerPool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				d.logger.WithField("event", eventName).
					WithField("shard_id", shardID).
					WithField("panic", r).
					WithField("stack", string(debug.Stack())).
					Error("Recovered from panic while handling event")
			}
		}()

		d.mu.RLock()
		hm, ok := d.handlersManagers[eventName]
		d.mu.RUnlock()

		if ok {
			hm.handleEvent(d.cacheManager, shardID, data)
		}
	}) {
		d.logger.Warn("Dispatcher: dropped event '" + eventName + "' due to full queue")
	}
}

/*****************************
 *      Register Handlers
 *****************************/

// OnMessageCreate registers a handler function for 'MESSAGE_CREATE' events
// and returns a handle that can be passed to OffMessageCreate to detach it.
func (d *dispatcher) OnMessageCreate(h func(MessageCreateEvent)) HandlerHandle {
	const key = "MESSAGE_CREATE"
	d.logger.Debug(key + " event handler registered")

	d.mu.Lock()
	defer d.mu.Unlock()

	hm, ok := d.handlersManagers[key]
	if !ok {
		hm = newMessageCreateHandlers(d.logger)
		d.handlersManagers[key] = hm
	}
	return hm.addHandler(h)
}

// OffMessageCreate detaches a handler previously registered with OnMessageCreate.
func (d *dispatcher) OffMessageCreate(handle HandlerHandle) {
	d.removeHandler("MESSAGE_CREATE", handle)
}

// OnMessageDelete registers a handler function for 'MESSAGE_DELETE' events
// and returns a handle that can be passed to OffMessageDelete to detach it.
func (d *dispatcher) OnMessageDelete(h func(MessageDeleteEvent)) HandlerHandle {
	const key = "MESSAGE_DELETE"
	d.logger.Debug(key + " event handler registered")

	d.mu.Lock()
	defer d.mu.Unlock()

	hm, ok := d.handlersManagers[key]
	if !ok {
		hm = newMessageDeleteHandlers(d.logger)
		d.handlersManagers[key] = hm
	}
	return hm.addHandler(h)
}

// OffMessageDelete detaches a handler previously registered with OnMessageDelete.
func (d *dispatcher) OffMessageDelete(handle HandlerHandle) {
	d.removeHandler("MESSAGE_DELETE", handle)
}

// OnMessageUpdate registers a handler function for 'MESSAGE_UPDATE' events
// and returns a handle that can be passed to OffMessageUpdate to detach it.
func (d *dispatcher) OnMessageUpdate(h func(MessageUpdateEvent)) HandlerHandle {
	const key = "MESSAGE_UPDATE"
	d.logger.Debug(key + " event handler registered")

	d.mu.Lock()
	defer d.mu.Unlock()

	hm, ok := d.handlersManagers[key]
	if !ok {
		hm = newMessageUpdateHandlers(d.logger)
		d.handlersManagers[key] = hm
	}
	return hm.addHandler(h)
}

// OffMessageUpdate detaches a handler previously registered with OnMessageUpdate.
func (d *dispatcher) OffMessageUpdate(handle HandlerHandle) {
	d.removeHandler("MESSAGE_UPDATE", handle)
}

// OnInteractionCreate registers a handler function for 'INTERACTION_CREATE' events
// and returns a handle that can be passed to OffInteractionCreate to detach it.
func (d *dispatcher) OnInteractionCreate(h func(InteractionCreateEvent)) HandlerHandle {
	const key = "INTERACTION_CREATE"
	d.logger.Debug(key + " event handler registered")

	d.mu.Lock()
	defer d.mu.Unlock()

	hm, ok := d.handlersManagers[key]
	if !ok {
		hm = newInteractionCreateHandlers(d.logger)
		d.handlersManagers[key] = hm
	}
	return hm.addHandler(h)
}

// OffInteractionCreate detaches a handler previously registered with OnInteractionCreate.
func (d *dispatcher) OffInteractionCreate(handle HandlerHandle) {
	d.removeHandler("INTERACTION_CREATE", handle)
}

// OnVoiceStateUpdate registers a handler function for 'VOICE_STATE_UPDATE' events
// and returns a handle that can be passed to OffVoiceStateUpdate to detach it.
func (d *dispatcher) OnVoiceStateUpdate(h func(VoiceStateUpdateEvent)) HandlerHandle {
	const key = "VOICE_STATE_UPDATE"
	d.logger.Debug(key + " event handler registered")

	d.mu.Lock()
	defer d.mu.Unlock()

	hm, ok := d.handlersManagers[key]
	if !ok {
		hm = newVoiceStateUpdateHandlers(d.logger, d.voice, d.selfUserID)
		d.handlersManagers[key] = hm
	}
	return hm.addHandler(h)
}

// OffVoiceStateUpdate detaches a handler previously registered with OnVoiceStateUpdate.
func (d *dispatcher) OffVoiceStateUpdate(handle HandlerHandle) {
	d.removeHandler("VOICE_STATE_UPDATE", handle)
}

// OnVoiceServerUpdate registers a handler function for 'VOICE_SERVER_UPDATE' events
// and returns a handle that can be passed to OffVoiceServerUpdate to detach it.
func (d *dispatcher) OnVoiceServerUpdate(h func(VoiceServerUpdateEvent)) HandlerHandle {
	const key = "VOICE_SERVER_UPDATE"
	d.logger.Debug(key + " event handler registered")

	d.mu.Lock()
	defer d.mu.Unlock()

	hm, ok := d.handlersManagers[key]
	if !ok {
		hm = newVoiceServerUpdateHandlers(d.logger, d.voice)
		d.handlersManagers[key] = hm
	}
	return hm.addHandler(h)
}

// OffVoiceServerUpdate detaches a handler previously registered with OnVoiceServerUpdate.
func (d *dispatcher) OffVoiceServerUpdate(handle HandlerHandle) {
	d.removeHandler("VOICE_SERVER_UPDATE", handle)
}

// OnReady registers a handler function for 'READY' events and returns a
// handle that can be passed to OffReady to detach it.
func (d *dispatcher) OnReady(h func(ReadyEvent)) HandlerHandle {
	const key = "READY"
	d.logger.Debug(key + " event handler registered")

	d.mu.Lock()
	defer d.mu.Unlock()

	hm, ok := d.handlersManagers[key]
	if !ok {
		hm = newReadyHandlers(d.logger, d.selfUserID)
		d.handlersManagers[key] = hm
	}
	return hm.addHandler(h)
}

// OffReady detaches a handler previously registered with OnReady.
func (d *dispatcher) OffReady(handle HandlerHandle) {
	d.removeHandler("READY", handle)
}

// OnGuildCreate registers a handler function for 'GUILD_CREATE' events and
// returns a handle that can be passed to OffGuildCreate to detach it.
func (d *dispatcher) OnGuildCreate(h func(GuildCreateEvent)) HandlerHandle {
	const key = "GUILD_CREATE"
	d.logger.Debug(key + " event handler registered")

	d.mu.Lock()
	defer d.mu.Unlock()

	hm, ok := d.handlersManagers[key]
	if !ok {
		hm = newGuildCreateHandlers(d.logger)
		d.handlersManagers[key] = hm
	}
	return hm.addHandler(h)
}

// OffGuildCreate detaches a handler previously registered with OnGuildCreate.
func (d *dispatcher) OffGuildCreate(handle HandlerHandle) {
	d.removeHandler("GUILD_CREATE", handle)
}

func (d *dispatcher) removeHandler(key string, handle HandlerHandle) {
	d.mu.RLock()
	hm, ok := d.handlersManagers[key]
	d.mu.RUnlock()
	if ok {
		hm.removeHandler(handle)
	}
}

// TODO: Add other OnXXX/OffXXX pairs to register handlers for additional Discord events.

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
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// FileConfig is a YAML overlay for the options New() otherwise takes as
// clusterOptions, for callers who prefer to keep bot configuration in a file
// rather than hardcoded option calls.
type FileConfig struct {
	Token             string   `yaml:"token"`
	Intents           []string `yaml:"intents"`
	Encoding          string   `yaml:"encoding"`
	ConcurrencyQueues int      `yaml:"concurrency_queues"`
}

// LoadConfigFile reads and parses a YAML cluster configuration from path.
func LoadConfigFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &cfg, nil
}

// Options converts the file config into clusterOptions for New(). Intent
// names that don't match a known GatewayIntent are skipped.
func (c *FileConfig) Options() []clusterOption {
	var opts []clusterOption

	if c.Token != "" {
		opts = append(opts, WithToken(c.Token))
	}

	if len(c.Intents) > 0 {
		var intents []GatewayIntent
		for _, name := range c.Intents {
			if intent, ok := gatewayIntentByName[name]; ok {
				intents = append(intents, intent)
			}
		}
		if len(intents) > 0 {
			opts = append(opts, WithIntents(intents...))
		}
	}

	if c.Encoding == "etf" {
		opts = append(opts, WithEncoding(EncodingETF))
	} else if c.Encoding == "json" {
		opts = append(opts, WithEncoding(EncodingJSON))
	}

	if c.ConcurrencyQueues > 0 {
		opts = append(opts, WithConcurrencyQueues(c.ConcurrencyQueues))
	}

	return opts
}

// gatewayIntentByName maps the YAML-friendly intent names FileConfig accepts
// onto their GatewayIntent bit, for the subset of intents most bots toggle.
var gatewayIntentByName = map[string]GatewayIntent{
	"guilds":              GatewayIntentGuilds,
	"guild_members":       GatewayIntentGuildMembers,
	"guild_messages":      GatewayIntentGuildMessages,
	"message_content":     GatewayIntentMessageContent,
	"guild_webhooks":      GatewayIntentGuildWebhooks,
	"guild_voice_states":  GatewayIntentGuildVoiceStates,
	"guild_presences":     GatewayIntentGuildPresences,
	"direct_messages":     GatewayIntentDirectMessages,
}

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
	"net/url"
)

/***********************
 *  Webhook Endpoints  *
 ***********************/

// WebhookCreateOptions are options for creating a channel webhook.
type WebhookCreateOptions struct {
	// Name is the webhook's name (1-80 characters, cannot be "clyde").
	Name string `json:"name"`
	// Avatar is an optional base64 image data URI (see NewImageFile).
	Avatar Base64Image `json:"avatar,omitempty"`
}

// CreateWebhook creates a new webhook in a channel. Requires MANAGE_WEBHOOKS.
func (r *restApi) CreateWebhook(channelID Snowflake, opts WebhookCreateOptions, reason string) (Webhook, error) {
	reqBody, _ := json.Marshal(opts)
	body, err := r.doRequest("POST", "/channels/"+channelID.String()+"/webhooks", reqBody, true, reason)
	if err != nil {
		return Webhook{}, err
	}

	var webhook Webhook
	if err := json.Unmarshal(body, &webhook); err != nil {
		r.logger.Error("Failed parsing response for POST /channels/{id}/webhooks: " + err.Error())
		return Webhook{}, err
	}
	return webhook, nil
}

// FetchChannelWebhooks lists the webhooks attached to a channel.
func (r *restApi) FetchChannelWebhooks(channelID Snowflake) ([]Webhook, error) {
	body, err := r.doRequest("GET", "/channels/"+channelID.String()+"/webhooks", nil, true, "")
	if err != nil {
		return nil, err
	}

	var webhooks []Webhook
	if err := json.Unmarshal(body, &webhooks); err != nil {
		r.logger.Error("Failed parsing response for GET /channels/{id}/webhooks: " + err.Error())
		return nil, err
	}
	return webhooks, nil
}

// FetchGuildWebhooks lists every webhook in a guild. Requires MANAGE_WEBHOOKS.
func (r *restApi) FetchGuildWebhooks(guildID Snowflake) ([]Webhook, error) {
	body, err := r.doRequest("GET", "/guilds/"+guildID.String()+"/webhooks", nil, true, "")
	if err != nil {
		return nil, err
	}

	var webhooks []Webhook
	if err := json.Unmarshal(body, &webhooks); err != nil {
		r.logger.Error("Failed parsing response for GET /guilds/{id}/webhooks: " + err.Error())
		return nil, err
	}
	return webhooks, nil
}

// FetchWebhook retrieves a webhook by ID using the bot token.
func (r *restApi) FetchWebhook(webhookID Snowflake) (Webhook, error) {
	body, err := r.doRequest("GET", "/webhooks/"+webhookID.String(), nil, true, "")
	if err != nil {
		return Webhook{}, err
	}

	var webhook Webhook
	if err := json.Unmarshal(body, &webhook); err != nil {
		r.logger.Error("Failed parsing response for GET /webhooks/{id}: " + err.Error())
		return Webhook{}, err
	}
	return webhook, nil
}

// FetchWebhookWithToken retrieves a webhook by ID and token, without
// requiring or attaching a bot token. Intended for use on a Cluster's raw
// REST pipeline.
func (r *restApi) FetchWebhookWithToken(webhookID Snowflake, token string) (Webhook, error) {
	body, err := r.doRequest("GET", "/webhooks/"+webhookID.String()+"/"+token, nil, false, "")
	if err != nil {
		return Webhook{}, err
	}

	var webhook Webhook
	if err := json.Unmarshal(body, &webhook); err != nil {
		r.logger.Error("Failed parsing response for GET /webhooks/{id}/{token}: " + err.Error())
		return Webhook{}, err
	}
	return webhook, nil
}

// WebhookEditOptions are options for editing a webhook.
type WebhookEditOptions struct {
	// Name is the webhook's new name.
	Name string `json:"name,omitempty"`
	// Avatar is a new base64 image data URI, or the empty string to leave unset.
	Avatar Base64Image `json:"avatar,omitempty"`
	// ChannelID moves the webhook to a new channel. Requires the bot-token route.
	ChannelID Snowflake `json:"channel_id,omitempty"`
}

// ModifyWebhook edits a webhook's name, avatar, or channel using the bot token.
func (r *restApi) ModifyWebhook(webhookID Snowflake, opts WebhookEditOptions, reason string) (Webhook, error) {
	reqBody, _ := json.Marshal(opts)
	body, err := r.doRequest("PATCH", "/webhooks/"+webhookID.String(), reqBody, true, reason)
	if err != nil {
		return Webhook{}, err
	}

	var webhook Webhook
	if err := json.Unmarshal(body, &webhook); err != nil {
		r.logger.Error("Failed parsing response for PATCH /webhooks/{id}: " + err.Error())
		return Webhook{}, err
	}
	return webhook, nil
}

// DeleteWebhook deletes a webhook using the bot token.
func (r *restApi) DeleteWebhook(webhookID Snowflake, reason string) error {
	_, err := r.doRequest("DELETE", "/webhooks/"+webhookID.String(), nil, true, reason)
	return err
}

// WebhookExecuteOptions are options for posting a message through a webhook.
type WebhookExecuteOptions struct {
	// Content is the message text.
	Content string `json:"content,omitempty"`
	// Username overrides the webhook's default username for this message.
	Username string `json:"username,omitempty"`
	// AvatarURL overrides the webhook's default avatar for this message.
	AvatarURL string `json:"avatar_url,omitempty"`
	// TTS marks the message as a text-to-speech message.
	TTS bool `json:"tts,omitempty"`
	// Embeds are the embedded rich content (up to 10 embeds).
	Embeds []Embed `json:"embeds,omitempty"`
	// AllowedMentions restricts which mentions in the message actually notify.
	AllowedMentions *AllowedMentions `json:"allowed_mentions,omitempty"`
	// Components are interactive components to include with the message.
	Components []LayoutComponent `json:"components,omitempty"`
	// Flags are message flags to set (e.g. MessageFlagSuppressEmbeds).
	Flags MessageFlags `json:"flags,omitempty"`
	// ThreadName creates a new forum thread with this name instead of posting to the channel directly.
	ThreadName string `json:"thread_name,omitempty"`
	// Files are attachments to upload alongside the message via multipart.
	Files []*RequestFile `json:"-"`
}

// ExecuteWebhook posts a message through a webhook using its token, without
// any bot token. wait, when true, requests Discord return the created
// Message; when false, an empty Message is returned on success.
//
// Usage example:
//
//	msg, err := cluster.rawApi.ExecuteWebhook(webhookID, webhookToken, true, 0, WebhookExecuteOptions{
//	    Content: "Deployed",
//	})
func (r *restApi) ExecuteWebhook(webhookID Snowflake, token string, wait bool, threadID Snowflake, opts WebhookExecuteOptions) (Message, error) {
	reqBody, err := json.Marshal(opts)
	if err != nil {
		return Message{}, err
	}

	endpoint := "/webhooks/" + webhookID.String() + "/" + token
	query := url.Values{}
	if wait {
		query.Set("wait", "true")
	}
	if !threadID.UnSet() {
		query.Set("thread_id", threadID.String())
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body []byte
	if len(opts.Files) > 0 {
		body, err = r.doMultipartRequest("POST", endpoint, reqBody, opts.Files, false, "")
	} else {
		body, err = r.doRequest("POST", endpoint, reqBody, false, "")
	}
	if err != nil {
		return Message{}, err
	}
	if !wait || len(body) == 0 {
		return Message{}, nil
	}

	var message Message
	if err := json.Unmarshal(body, &message); err != nil {
		r.logger.Error("Failed parsing response for POST /webhooks/{id}/{token}: " + err.Error())
		return Message{}, err
	}
	return message, nil
}

// DeleteWebhookMessage deletes a message previously sent through a webhook.
func (r *restApi) DeleteWebhookMessage(webhookID Snowflake, token string, messageID Snowflake) error {
	_, err := r.doRequest("DELETE", "/webhooks/"+webhookID.String()+"/"+token+"/messages/"+messageID.String(), nil, false, "")
	return err
}

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
	"io"
	"net/http"
	"strconv"
	"time"
)

/*******************************************************************************
 *                              REST API CORE
 *******************************************************************************/

// restApi provides methods for Discord REST API endpoints.
type restApi struct {
	req    *requester
	logger Logger
}

// newRestApi creates a new RestAPI instance with optional custom requester and logger.
func newRestApi(req *requester, logger Logger) *restApi {
	return &restApi{
		req:    req,
		logger: logger,
	}
}

// Shutdown gracefully shuts down the REST API client.
func (r *restApi) Shutdown() {
	r.logger.Info("RestAPI shutting down")
	r.req.Shutdown()
	r.logger = nil
	r.req = nil
}

func (r *restApi) doRequest(method, endpoint string, body []byte, authWithToken bool, reason string) ([]byte, error) {
	r.logger.Debug("Calling endpoint: " + method + endpoint)

	res, err := r.req.do(method, endpoint, body, authWithToken, reason)
	if err != nil {
		r.logger.Error("Request failed for endpoint " + method + endpoint + ": " + err.Error())
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized {
		r.logger.Error("Request failed for endpoint " + method + endpoint + ": Invalid Token")
		return nil, &AuthenticationError{Reason: "invalid token"}
	}

	bodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		r.logger.Error("Failed reading response body for endpoint " + method + endpoint + ": " + err.Error())
		return nil, err
	}

	if res.StatusCode >= http.StatusBadRequest {
		apiErr := &DiscordAPIError{HTTPStatus: res.StatusCode}
		if len(bodyBytes) > 0 {
			_ = json.Unmarshal(bodyBytes, apiErr)
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(res.StatusCode)
		}
		if res.StatusCode == http.StatusTooManyRequests {
			if retry := res.Header.Get("X-RateLimit-Retry-After"); retry != "" {
				if secs, perr := strconv.ParseFloat(retry, 64); perr == nil {
					apiErr.retryAfter = time.Duration(secs * float64(time.Second))
				}
			}
		}
		r.logger.Warn("Request failed for endpoint " + method + endpoint + ": " + apiErr.Error())
		return bodyBytes, apiErr
	}

	r.logger.Debug("Successfully called endpoint: " + method + endpoint)
	return bodyBytes, nil
}

// doMultipartRequest sends method/endpoint as a multipart/form-data request
// carrying payloadJSON as the "payload_json" part and files as attachments,
// reusing doRequest's response handling by going through the same
// requester.doWithContentType entry point under the hood.
func (r *restApi) doMultipartRequest(method, endpoint string, payloadJSON []byte, files []*RequestFile, authWithToken bool, reason string) ([]byte, error) {
	body, contentType, err := encodeMultipart(payloadJSON, files)
	if err != nil {
		r.logger.Error("Failed encoding multipart body for endpoint " + method + endpoint + ": " + err.Error())
		return nil, err
	}

	r.logger.Debug("Calling endpoint (multipart): " + method + endpoint)

	res, err := r.req.doWithContentType(method, endpoint, body, contentType, authWithToken, reason)
	if err != nil {
		r.logger.Error("Request failed for endpoint " + method + endpoint + ": " + err.Error())
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized {
		r.logger.Error("Request failed for endpoint " + method + endpoint + ": Invalid Token")
		return nil, &AuthenticationError{Reason: "invalid token"}
	}

	bodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		r.logger.Error("Failed reading response body for endpoint " + method + endpoint + ": " + err.Error())
		return nil, err
	}

	if res.StatusCode >= http.StatusBadRequest {
		apiErr := &DiscordAPIError{HTTPStatus: res.StatusCode}
		if len(bodyBytes) > 0 {
			_ = json.Unmarshal(bodyBytes, apiErr)
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(res.StatusCode)
		}
		if res.StatusCode == http.StatusTooManyRequests {
			if retry := res.Header.Get("X-RateLimit-Retry-After"); retry != "" {
				if secs, perr := strconv.ParseFloat(retry, 64); perr == nil {
					apiErr.retryAfter = time.Duration(secs * float64(time.Second))
				}
			}
		}
		r.logger.Warn("Request failed for endpoint " + method + endpoint + ": " + apiErr.Error())
		return bodyBytes, apiErr
	}

	r.logger.Debug("Successfully called endpoint: " + method + endpoint)
	return bodyBytes, nil
}

/*******************************************************************************
 *                              GATEWAY METHODS
 *******************************************************************************/

// FetchGatewayBot retrieves bot gateway information including recommended shard count and session limits.
//
// Usage example:
//
//	gateway, err := api.FetchGatewayBot()
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println("Recommended shards:", gateway.Shards)
//
// Returns:
//   - GatewayBot: the bot gateway information.
//   - error: if the request failed or decoding failed.
func (r *restApi) FetchGatewayBot() (GatewayBot, error) {
	body, err := r.doRequest("GET", "/gateway/bot", nil, true, "")
	if err != nil {
		return GatewayBot{}, err
	}

	var obj GatewayBot
	if err := json.Unmarshal(body, &obj); err != nil {
		r.logger.Error("Failed parsing response for /gateway/bot: " + err.Error())
		return GatewayBot{}, err
	}
	return obj, nil
}

/*******************************************************************************
 *                              USER METHODS
 *******************************************************************************/

// FetchSelfUser retrieves the current bot user's data including username, ID, avatar, and flags.
//
// Usage example:
//
//	user, err := api.FetchSelfUser()
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println("Bot username:", user.Username)
//
// Returns:
//   - User: the current user data.
//   - error: if the request failed or decoding failed.
func (r *restApi) FetchSelfUser() (User, error) {
	body, err := r.doRequest("GET", "/users/@me", nil, true, "")
	if err != nil {
		return User{}, err
	}

	var obj User
	if err := json.Unmarshal(body, &obj); err != nil {
		r.logger.Error("Failed parsing response for /users/@me: " + err.Error())
		return User{}, err
	}
	return obj, nil
}

// UpdateSelfUser updates the current bot user's username, avatar, or banner.
//
// Usage example:
//
//	newAvatar, _ := corvid.NewImageFile("path/to/avatar.png")
//	err := api.UpdateSelfUser(UpdateSelfUserOptions{
//	    Username: "new_username",
//	    Avatar:   newAvatar,
//	})
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println("User updated successfully")
//
// Returns:
//   - error: if the request failed.
func (r *restApi) UpdateSelfUser(opts UpdateSelfUserOptions) error {
	body, _ := json.Marshal(opts)
	_, err := r.doRequest("PATCH", "/users/@me", body, true, "")
	return err
}

// FetchUser retrieves a user by their Snowflake ID including username, avatar, and flags.
//
// Usage example:
//
//	user, err := api.FetchUser(123456789012345678)
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println("Username:", user.Username)
//
// Returns:
//   - User: the user data.
//   - error: if the request failed or decoding failed.
func (r *restApi) FetchUser(userID Snowflake) (User, error) {
	body, err := r.doRequest("GET", "/users/"+userID.String(), nil, true, "")
	if err != nil {
		return User{}, err
	}

	var obj User
	if err := json.Unmarshal(body, &obj); err != nil {
		r.logger.Error("Failed parsing response for /users/{id}: " + err.Error())
		return User{}, err
	}
	return obj, nil
}

/*******************************************************************************
 *                              CHANNEL METHODS
 *******************************************************************************/

// FetchChannel retrieves a channel by its Snowflake ID and decodes it into its concrete type
// (e.g. TextChannel, VoiceChannel, CategoryChannel).
//
// Usage example:
//
//	channel, err := api.FetchChannel(123456789012345678)
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println("Channel ID:", channel.GetID())
//
// Returns:
//   - Channel: the decoded channel object.
//   - error: if the request failed or the type is unknown or decoding failed.
func (r *restApi) FetchChannel(channelID Snowflake) (Channel, error) {
	body, err := r.doRequest("GET", "/channels/"+channelID.String(), nil, true, "")
	if err != nil {
		return nil, err
	}
	return UnmarshalChannel(body)
}

/*******************************************************************************
 *                              MESSAGE METHODS
 *******************************************************************************/

// SendMessage sends a message to the specified channel.
//
// Usage example:
//
//	message, err := api.SendMessage(123456789012345678, MessageCreateOptions{
//	       Content: "Hello, World!",
//	})
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println("Message ID:", message.ID)
//
// Returns:
//   - Message: the message object.
//   - error: if the request or decoding failed.
func (r *restApi) SendMessage(channelID Snowflake, opts MessageCreateOptions) (Message, error) {
	reqBody, err := json.Marshal(opts)
	if err != nil {
		return Message{}, err
	}

	endpoint := "/channels/" + channelID.String() + "/messages"

	var body []byte
	if len(opts.Files) > 0 {
		body, err = r.doMultipartRequest("POST", endpoint, reqBody, opts.Files, true, "")
	} else {
		body, err = r.doRequest("POST", endpoint, reqBody, true, "")
	}

	var message Message
	if err != nil {
		return message, err
	}

	if err := json.Unmarshal(body, &message); err != nil {
		return message, err
	}
	return message, nil
}

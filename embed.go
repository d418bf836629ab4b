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

import "time"

// EmbedType represents the type of an embed.
type EmbedType string

const (
	EmbedTypeRich       EmbedType = "rich"
	EmbedTypeImage      EmbedType = "image"
	EmbedTypeVideo      EmbedType = "video"
	EmbedTypeGifv       EmbedType = "gifv"
	EmbedTypeArticle    EmbedType = "article"
	EmbedTypeLink       EmbedType = "link"
	EmbedTypePollResult EmbedType = "poll_result"
)

// Embed represents a Discord embed object.
//
// Reference: https://discord.com/developers/docs/resources/channel#embed-object
//
// The combined length of title, description, every field's name and value,
// the footer text, and the author name across all embeds on a message must
// not exceed 6000 characters.
type Embed struct {
	// Title is the title of the embed (max 256 characters).
	Title string `json:"title,omitempty"`

	// Type is always "rich" for webhook and bot-created embeds.
	Type EmbedType `json:"type,omitempty"`

	// Description is the embed body text (max 4096 characters).
	Description string `json:"description,omitempty"`

	URL string `json:"url,omitempty"`

	// Timestamp is shown in the embed footer alongside Footer.Text.
	Timestamp *time.Time `json:"timestamp,omitempty"`

	Color Color `json:"color,omitempty"`

	Footer    *EmbedFooter    `json:"footer,omitempty"`
	Image     *EmbedImage     `json:"image,omitempty"`
	Thumbnail *EmbedThumbnail `json:"thumbnail,omitempty"`
	Video     *EmbedVideo     `json:"video,omitempty"`
	Provider  *EmbedProvider  `json:"provider,omitempty"`
	Author    *EmbedAuthor    `json:"author,omitempty"`

	// Fields holds up to 25 EmbedField entries.
	Fields []EmbedField `json:"fields,omitempty"`
}

// Builder returns an EmbedBuilder seeded with a copy of this embed.
func (e Embed) Builder() *EmbedBuilder {
	return &EmbedBuilder{embed: e}
}

// EmbedFooter is the footer object of an embed.
type EmbedFooter struct {
	// Text is the footer text (max 2048 characters).
	Text         string `json:"text"`
	IconURL      string `json:"icon_url,omitempty"`
	ProxyIconURL string `json:"proxy_icon_url,omitempty"`
}

// EmbedImage is the image object of an embed.
type EmbedImage struct {
	URL      string `json:"url"`
	ProxyURL string `json:"proxy_url,omitempty"`
	Height   int    `json:"height,omitempty"`
	Width    int    `json:"width,omitempty"`
}

// EmbedThumbnail is the thumbnail object of an embed.
type EmbedThumbnail struct {
	URL      string `json:"url"`
	ProxyURL string `json:"proxy_url,omitempty"`
	Height   int    `json:"height,omitempty"`
	Width    int    `json:"width,omitempty"`
}

// EmbedVideo is the video object of an embed.
type EmbedVideo struct {
	URL      string `json:"url,omitempty"`
	ProxyURL string `json:"proxy_url,omitempty"`
	Height   int    `json:"height,omitempty"`
	Width    int    `json:"width,omitempty"`
}

// EmbedProvider is the provider object of an embed, e.g. for oEmbed-sourced content.
type EmbedProvider struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// EmbedAuthor is the author object of an embed.
type EmbedAuthor struct {
	// Name is the author name (max 256 characters).
	Name         string `json:"name"`
	URL          string `json:"url,omitempty"`
	IconURL      string `json:"icon_url,omitempty"`
	ProxyIconURL string `json:"proxy_icon_url,omitempty"`
}

// EmbedField is a single field entry in an embed.
type EmbedField struct {
	// Name is the field name (max 256 characters).
	Name string `json:"name"`
	// Value is the field value (max 1024 characters).
	Value string `json:"value"`
	// Inline displays this field side-by-side with neighboring inline fields.
	Inline bool `json:"inline,omitempty"`
}

// EmbedBuilder builds an Embed through chained calls.
type EmbedBuilder struct {
	embed Embed
}

// NewEmbedBuilder starts a new EmbedBuilder.
func NewEmbedBuilder() *EmbedBuilder {
	return &EmbedBuilder{}
}

func (b *EmbedBuilder) SetTitle(title string) *EmbedBuilder {
	if len(title) > 256 {
		title = title[:256]
	}
	b.embed.Title = title
	return b
}

func (b *EmbedBuilder) SetDescription(desc string) *EmbedBuilder {
	if len(desc) > 4096 {
		desc = desc[:4096]
	}
	b.embed.Description = desc
	return b
}

func (b *EmbedBuilder) SetURL(url string) *EmbedBuilder {
	b.embed.URL = url
	return b
}

func (b *EmbedBuilder) SetTimestamp(t time.Time) *EmbedBuilder {
	b.embed.Timestamp = &t
	return b
}

func (b *EmbedBuilder) SetColor(color Color) *EmbedBuilder {
	b.embed.Color = color
	return b
}

func (b *EmbedBuilder) SetFooter(text, iconURL string) *EmbedBuilder {
	if len(text) > 2048 {
		text = text[:2048]
	}
	b.embed.Footer = &EmbedFooter{Text: text, IconURL: iconURL}
	return b
}

func (b *EmbedBuilder) SetImage(url string) *EmbedBuilder {
	b.embed.Image = &EmbedImage{URL: url}
	return b
}

func (b *EmbedBuilder) SetThumbnail(url string) *EmbedBuilder {
	b.embed.Thumbnail = &EmbedThumbnail{URL: url}
	return b
}

func (b *EmbedBuilder) SetAuthor(name, url, iconURL string) *EmbedBuilder {
	if len(name) > 256 {
		name = name[:256]
	}
	b.embed.Author = &EmbedAuthor{Name: name, URL: url, IconURL: iconURL}
	return b
}

// AddField appends a field, silently dropping it once 25 fields are reached.
func (b *EmbedBuilder) AddField(name, value string, inline bool) *EmbedBuilder {
	if len(b.embed.Fields) >= 25 {
		return b
	}
	if len(name) > 256 {
		name = name[:256]
	}
	if len(value) > 1024 {
		value = value[:1024]
	}
	b.embed.Fields = append(b.embed.Fields, EmbedField{Name: name, Value: value, Inline: inline})
	return b
}

// Build returns the finished Embed.
func (b *EmbedBuilder) Build() Embed {
	return b.embed
}

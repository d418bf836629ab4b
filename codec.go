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
	"github.com/bytedance/sonic"
)

// GatewayEncoding selects the wire format a shard negotiates with Discord's
// gateway. Both encodings carry the same logical payload shape
// (op/d/s/t); they differ only in how d is serialized.
type GatewayEncoding int

const (
	// EncodingJSON negotiates `encoding=json` on the gateway URL and
	// marshals payloads with bytedance/sonic.
	EncodingJSON GatewayEncoding = iota
	// EncodingETF negotiates `encoding=etf` and marshals payloads using
	// Discord's subset of External Term Format (v131).
	EncodingETF
)

func (e GatewayEncoding) queryParam() string {
	if e == EncodingETF {
		return "etf"
	}
	return "json"
}

// gatewayCodec marshals and unmarshals gateway payloads for a single
// negotiated wire encoding.
type gatewayCodec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// jsonCodec backs EncodingJSON using bytedance/sonic, consistent with every
// other JSON path in the library.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return sonic.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return sonic.Unmarshal(data, v) }

// etfCodec backs EncodingETF using the hand-written encoder/decoder in
// etf.go. No library in the retrieved pack speaks ETF, so this is grounded
// directly on Discord's term-tag layout rather than a pack dependency.
type etfCodec struct{}

func (etfCodec) Marshal(v any) ([]byte, error) { return etfMarshal(v) }

func (etfCodec) Unmarshal(data []byte, v any) error { return etfUnmarshal(data, v) }

func codecFor(enc GatewayEncoding) gatewayCodec {
	if enc == EncodingETF {
		return etfCodec{}
	}
	return jsonCodec{}
}

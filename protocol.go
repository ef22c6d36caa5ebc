package main

import (
	"net/http"

	"github.com/gorilla/websocket"

	"arena-server/protocol"
)

// codecFromRequest picks the outbound codec from the ?codec= query value
func codecFromRequest(r *http.Request) protocol.Codec {
	return protocol.CodecByName(r.URL.Query().Get("codec"))
}

// decodeInbound decodes a client frame by its websocket frame type, so a
// client may send JSON text or msgpack binary regardless of what it receives.
func decodeInbound(frameType int, data []byte) (protocol.ClientMessage, error) {
	if frameType == websocket.BinaryMessage {
		return protocol.MsgpackCodec{}.DecodeClient(data)
	}
	return protocol.JSONCodec{}.DecodeClient(data)
}

// frameType returns the websocket frame type for a codec's output
func frameType(c protocol.Codec) int {
	if c.Binary() {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

package protocol

import (
	"bytes"
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec turns messages into websocket frames and back.
type Codec interface {
	Name() string
	// Binary reports whether frames go out as binary rather than text.
	Binary() bool
	EncodeServer(m ServerMessage) ([]byte, error)
	DecodeServer(b []byte) (ServerMessage, error)
	EncodeClient(m ClientMessage) ([]byte, error)
	DecodeClient(b []byte) (ClientMessage, error)
}

// Codec names accepted by CodecByName.
const (
	CodecJSON    = "json"
	CodecMsgpack = "msgpack"
)

// CodecByName returns the msgpack codec for "msgpack" and JSON otherwise.
func CodecByName(name string) Codec {
	if name == CodecMsgpack {
		return MsgpackCodec{}
	}
	return JSONCodec{}
}

// JSONCodec is the default text codec.
type JSONCodec struct{}

type jsonEnvelope struct {
	Type    *MessageType    `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func (JSONCodec) Name() string { return CodecJSON }
func (JSONCodec) Binary() bool { return false }

func (JSONCodec) EncodeServer(m ServerMessage) ([]byte, error) {
	return json.Marshal(EnvelopeOf(m))
}

func (JSONCodec) EncodeClient(m ClientMessage) ([]byte, error) {
	return json.Marshal(EnvelopeOf(m))
}

// DecodeClient also accepts a bare "move_left" / "move_right" text frame,
// which is what the browser client sends for key presses.
func (JSONCodec) DecodeClient(b []byte) (ClientMessage, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, ErrEmptyMessage
	}
	if a := Action(b); a.Valid() {
		return ActionMessage{Action: a}, nil
	}
	env, err := unmarshalJSONEnvelope(b)
	if err != nil {
		return nil, err
	}
	return decodeClient(*env.Type, jsonPayload(env.Payload))
}

func (JSONCodec) DecodeServer(b []byte) (ServerMessage, error) {
	if len(b) == 0 {
		return nil, ErrEmptyMessage
	}
	env, err := unmarshalJSONEnvelope(b)
	if err != nil {
		return nil, err
	}
	return decodeServer(*env.Type, jsonPayload(env.Payload))
}

func unmarshalJSONEnvelope(b []byte) (jsonEnvelope, error) {
	var env jsonEnvelope
	if err := json.Unmarshal(b, &env); err != nil || env.Type == nil {
		return jsonEnvelope{}, ErrBadEnvelope
	}
	return env, nil
}

func jsonPayload(raw json.RawMessage) payloadDecoder {
	return func(v any) error {
		if len(raw) == 0 {
			return ErrBadPayload
		}
		return json.Unmarshal(raw, v)
	}
}

// MsgpackCodec sends the same envelope as binary msgpack frames.
type MsgpackCodec struct{}

type msgpackEnvelope struct {
	Type    *MessageType       `msgpack:"type"`
	Payload msgpack.RawMessage `msgpack:"payload"`
}

func (MsgpackCodec) Name() string { return CodecMsgpack }
func (MsgpackCodec) Binary() bool { return true }

func (MsgpackCodec) EncodeServer(m ServerMessage) ([]byte, error) {
	return msgpack.Marshal(EnvelopeOf(m))
}

func (MsgpackCodec) EncodeClient(m ClientMessage) ([]byte, error) {
	return msgpack.Marshal(EnvelopeOf(m))
}

func (MsgpackCodec) DecodeClient(b []byte) (ClientMessage, error) {
	env, err := unmarshalMsgpackEnvelope(b)
	if err != nil {
		return nil, err
	}
	return decodeClient(*env.Type, msgpackPayload(env.Payload))
}

func (MsgpackCodec) DecodeServer(b []byte) (ServerMessage, error) {
	env, err := unmarshalMsgpackEnvelope(b)
	if err != nil {
		return nil, err
	}
	return decodeServer(*env.Type, msgpackPayload(env.Payload))
}

func unmarshalMsgpackEnvelope(b []byte) (msgpackEnvelope, error) {
	if len(b) == 0 {
		return msgpackEnvelope{}, ErrEmptyMessage
	}
	var env msgpackEnvelope
	if err := msgpack.Unmarshal(b, &env); err != nil || env.Type == nil {
		return msgpackEnvelope{}, ErrBadEnvelope
	}
	return env, nil
}

func msgpackPayload(raw msgpack.RawMessage) payloadDecoder {
	return func(v any) error {
		if len(raw) == 0 {
			return ErrBadPayload
		}
		return msgpack.Unmarshal(raw, v)
	}
}

package protocol

import (
	"testing"

	"arena-server/geom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSession() SessionData {
	return SessionData{
		Ball: BallData{Position: geom.V(1.5, -2), Speed: 3},
		Players: []PlayerData{
			{ID: 0, Size: 0.4, Speed: 1, Angle: 1, MinAngle: 0, MaxAngle: 1.6},
			{ID: 3, Size: 0.4, Speed: 1, Angle: 3, MinAngle: 2.1, MaxAngle: 3.7},
		},
		PlayersDistanceFromCenter: 5,
	}
}

func TestJSONPlayerIDPayloadIsBareInteger(t *testing.T) {
	b, err := JSONCodec{}.EncodeServer(PlayerIDMessage{ID: 7})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":2,"payload":7}`, string(b))
}

func TestJSONLeaderboardShape(t *testing.T) {
	b, err := JSONCodec{}.EncodeServer(LeaderboardMessage{Leaderboard: LeaderboardData{
		Leaders: []Leader{{PlayerID: 7, Name: "ann", Score: 0}},
	}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":1,"payload":{"leaders":[{"playerID":7,"name":"ann","score":0}]}}`, string(b))
}

func TestJSONSessionShape(t *testing.T) {
	b, err := JSONCodec{}.EncodeServer(SessionMessage{Session: SessionData{
		Ball:                      BallData{Position: geom.V(1, 2), Speed: 3},
		Players:                   []PlayerData{{ID: 1, Size: 0.5, Speed: 2, Angle: 1, MinAngle: 0.5, MaxAngle: 2}},
		PlayersDistanceFromCenter: 5,
	}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":0,"payload":{
		"ball":{"position":{"x":1,"y":2},"speed":3},
		"players":[{"id":1,"size":0.5,"speed":2,"angle":1,"minAngle":0.5,"maxAngle":2}],
		"playersDistanceFromCenter":5}}`, string(b))
}

func TestDecodeServerEachCodec(t *testing.T) {
	for _, c := range []Codec{JSONCodec{}, MsgpackCodec{}} {
		t.Run(c.Name(), func(t *testing.T) {
			b, err := c.EncodeServer(SessionMessage{Session: sampleSession()})
			require.NoError(t, err)
			m, err := c.DecodeServer(b)
			require.NoError(t, err)
			require.IsType(t, SessionMessage{}, m)
			assert.Equal(t, sampleSession(), m.(SessionMessage).Session)

			b, err = c.EncodeServer(PlayerIDMessage{ID: 12})
			require.NoError(t, err)
			m, err = c.DecodeServer(b)
			require.NoError(t, err)
			assert.Equal(t, PlayerIDMessage{ID: 12}, m)
		})
	}
}

func TestDecodeClientEachCodec(t *testing.T) {
	for _, c := range []Codec{JSONCodec{}, MsgpackCodec{}} {
		t.Run(c.Name(), func(t *testing.T) {
			b, err := c.EncodeClient(UsernameMessage{Name: "zoe"})
			require.NoError(t, err)
			m, err := c.DecodeClient(b)
			require.NoError(t, err)
			assert.Equal(t, UsernameMessage{Name: "zoe"}, m)

			b, err = c.EncodeClient(ActionMessage{Action: ActionMoveRight})
			require.NoError(t, err)
			m, err = c.DecodeClient(b)
			require.NoError(t, err)
			assert.Equal(t, ActionMessage{Action: ActionMoveRight}, m)
		})
	}
}

func TestJSONDecodeClientBareAction(t *testing.T) {
	m, err := JSONCodec{}.DecodeClient([]byte("move_left"))
	require.NoError(t, err)
	assert.Equal(t, ActionMessage{Action: ActionMoveLeft}, m)

	m, err = JSONCodec{}.DecodeClient([]byte("  move_right\n"))
	require.NoError(t, err)
	assert.Equal(t, ActionMessage{Action: ActionMoveRight}, m)
}

func TestJSONDecodeClientErrors(t *testing.T) {
	cases := []struct {
		in   string
		want error
	}{
		{"", ErrEmptyMessage},
		{"   ", ErrEmptyMessage},
		{"jump", ErrBadEnvelope},
		{`{"payload":"move_left"}`, ErrBadEnvelope},
		{`{"type":9,"payload":"x"}`, ErrUnknownType},
		{`{"type":0,"payload":"jump"}`, ErrBadPayload},
		{`{"type":0}`, ErrBadPayload},
		{`{"type":1,"payload":42}`, ErrBadPayload},
	}
	for _, tc := range cases {
		_, err := JSONCodec{}.DecodeClient([]byte(tc.in))
		assert.ErrorIs(t, err, tc.want, "input %q", tc.in)
	}
}

func TestMsgpackDecodeGarbage(t *testing.T) {
	_, err := MsgpackCodec{}.DecodeClient(nil)
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = MsgpackCodec{}.DecodeClient([]byte{0xc1})
	assert.ErrorIs(t, err, ErrBadEnvelope)
}

func TestCodecByName(t *testing.T) {
	assert.True(t, CodecByName("msgpack").Binary())
	assert.False(t, CodecByName("json").Binary())
	assert.False(t, CodecByName("").Binary())
	assert.Equal(t, CodecJSON, CodecByName("bogus").Name())
}

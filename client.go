package main

import (
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"arena-server/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufSize    = 256
)

var errSendBufferFull = errors.New("send buffer full")

// Client represents a WebSocket connection bound to one arena player
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	id         string
	playerID   int
	remoteAddr string
	codec      protocol.Codec
	log        *zap.Logger

	// owned by Hub.Run
	gone bool
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string, codec protocol.Codec) *Client {
	id := GenerateUUID()
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		id:         id,
		remoteAddr: remoteAddr,
		codec:      codec,
		log:        hub.log.With(zap.String("conn", id), zap.String("ip", remoteAddr)),
	}
}

// Codec is the encoding this client asked for on connect
func (c *Client) Codec() protocol.Codec {
	return c.codec
}

// SendRaw queues an encoded frame for the write pump. It never blocks; a
// full queue drops the frame.
func (c *Client) SendRaw(data []byte) error {
	select {
	case c.send <- data:
		return nil
	default:
		return errSendBufferFull
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Info("ws read error", zap.Error(err))
			}
			break
		}
		c.handleMessage(msgType, message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	ft := frameType(c.codec)
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(ft, message); err != nil {
				c.log.Debug("ws write error", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage routes one incoming frame. Frames that do not decode are
// dropped and the connection stays open.
func (c *Client) handleMessage(frameType int, raw []byte) {
	msg, err := decodeInbound(frameType, raw)
	if err != nil {
		c.log.Debug("dropping client message", zap.Error(err))
		return
	}

	switch m := msg.(type) {
	case protocol.ActionMessage:
		c.hub.arena.SetAction(c.playerID, m.Action)
	case protocol.UsernameMessage:
		c.hub.arena.RegisterName(c.playerID, m.Name)
	}
}

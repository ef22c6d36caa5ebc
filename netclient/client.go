// Package netclient is a Go client for the arena server: it keeps the
// connection, decodes server messages and interpolates what to draw.
package netclient

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"arena-server/protocol"
)

const writeWait = 10 * time.Second

// Renderer draws one interpolated frame. playerID is -1 until the server has
// assigned one.
type Renderer interface {
	Render(v View, playerID int)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(v View, playerID int)

func (f RendererFunc) Render(v View, playerID int) { f(v, playerID) }

// Options configures Dial
type Options struct {
	// Codec is protocol.CodecJSON (default) or protocol.CodecMsgpack
	Codec  string
	Logger *zap.Logger
	// OnLeaderboard, when set, is called from the read loop on every update
	OnLeaderboard func(protocol.LeaderboardData)
}

// Client is one connection to an arena server
type Client struct {
	conn          *websocket.Conn
	codec         protocol.Codec
	rec           *Reconciler
	log           *zap.Logger
	onLeaderboard func(protocol.LeaderboardData)

	playerID    atomic.Int64
	leaderboard atomic.Pointer[protocol.LeaderboardData]

	writeMu sync.Mutex
}

// Dial connects to the server at rawURL, asking for the codec in opts
func Dial(ctx context.Context, rawURL string, opts Options) (*Client, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	codec := protocol.CodecByName(opts.Codec)

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if codec.Binary() {
		q := u.Query()
		q.Set("codec", codec.Name())
		u.RawQuery = q.Encode()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u, err)
	}

	c := &Client{
		conn:          conn,
		codec:         codec,
		rec:           NewReconciler(),
		log:           opts.Logger,
		onLeaderboard: opts.OnLeaderboard,
	}
	c.playerID.Store(-1)
	return c, nil
}

// ReadLoop decodes server messages until the connection fails or is
// closed. Undecodable frames are logged and skipped.
func (c *Client) ReadLoop() error {
	for {
		frameType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		var msg protocol.ServerMessage
		if frameType == websocket.BinaryMessage {
			msg, err = protocol.MsgpackCodec{}.DecodeServer(data)
		} else {
			msg, err = protocol.JSONCodec{}.DecodeServer(data)
		}
		if err != nil {
			c.log.Debug("dropping server message", zap.Error(err))
			continue
		}
		c.handle(msg)
	}
}

func (c *Client) handle(msg protocol.ServerMessage) {
	switch m := msg.(type) {
	case protocol.PlayerIDMessage:
		c.playerID.Store(int64(m.ID))
		c.log.Info("assigned player", zap.Int("player", m.ID))
	case protocol.SessionMessage:
		c.rec.Push(m.Session)
	case protocol.LeaderboardMessage:
		lb := m.Leaderboard
		c.leaderboard.Store(&lb)
		if c.onLeaderboard != nil {
			c.onLeaderboard(lb)
		}
	}
}

// PlayerID returns the ID the server assigned, once known
func (c *Client) PlayerID() (int, bool) {
	id := c.playerID.Load()
	return int(id), id >= 0
}

// Leaderboard returns the latest leaderboard received
func (c *Client) Leaderboard() protocol.LeaderboardData {
	if lb := c.leaderboard.Load(); lb != nil {
		return *lb
	}
	return protocol.LeaderboardData{}
}

// Reconciler exposes the interpolation state fed by ReadLoop
func (c *Client) Reconciler() *Reconciler {
	return c.rec
}

// SendAction asks the server to move this client's arc
func (c *Client) SendAction(a protocol.Action) error {
	if !a.Valid() {
		return fmt.Errorf("invalid action %q", a)
	}
	return c.write(protocol.ActionMessage{Action: a})
}

// Register puts this client on the leaderboard under name
func (c *Client) Register(name string) error {
	if name == "" {
		return errors.New("empty name")
	}
	return c.write(protocol.UsernameMessage{Name: name})
}

func (c *Client) write(m protocol.ClientMessage) error {
	data, err := c.codec.EncodeClient(m)
	if err != nil {
		return err
	}
	frameType := websocket.TextMessage
	if c.codec.Binary() {
		frameType = websocket.BinaryMessage
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(frameType, data)
}

// RunRenderLoop steps the reconciler fps times per second and hands each
// frame to r until ctx is cancelled. Frames before the first snapshot are
// skipped.
func (c *Client) RunRenderLoop(ctx context.Context, fps int, r Renderer) {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			view, ok := c.rec.Step(dt)
			if !ok {
				continue
			}
			id, _ := c.PlayerID()
			r.Render(view, id)
		case <-ctx.Done():
			return
		}
	}
}

// Close sends a close frame and closes the connection
func (c *Client) Close() error {
	c.writeMu.Lock()
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	c.writeMu.Unlock()
	return c.conn.Close()
}

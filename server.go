package main

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"arena-server/protocol"
)

const (
	recentRoundsLimit = 20
	lossesByNameLimit = 10
	eventCountDays    = 7
	qrSize            = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients are opened from anywhere, including file:// pages
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StatsResponse is the body of GET /stats
type StatsResponse struct {
	Players         int            `json:"players"`
	Clients         int            `json:"clients"`
	Connections     int            `json:"connections"`
	ConcurrentPeers int            `json:"concurrentPeers"`
	Rounds          int            `json:"rounds"`
	TotalRounds     int            `json:"totalRounds"`
	RecentRounds    []RoundRow     `json:"recentRounds,omitempty"`
	LossesByName    map[string]int `json:"lossesByName,omitempty"`
	EventCounts     map[string]int `json:"eventCounts,omitempty"`
}

// SetupRoutes configures HTTP routes
func SetupRoutes(hub *Hub) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/leaderboard", hub.handleLeaderboard)
	r.Get("/stats", hub.handleStats)
	r.Get("/qr.png", handleQR)

	// The reference browser client connects to the bare host
	r.Get("/", hub.serveWS)
	r.Get("/ws", hub.serveWS)

	return r
}

// serveWS upgrades the request and attaches a new player to the arena
func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	ip := extractIP(r)
	if !h.CanAccept(ip) {
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("upgrade error", zap.Error(err))
		return
	}

	h.TrackConnect(ip)

	client := NewClient(h, conn, ip, codecFromRequest(r))
	client.playerID = h.arena.AddPlayer(client)
	client.log = client.log.With(zap.Int("player", client.playerID))
	if !h.join(client) {
		h.arena.RemovePlayer(client.playerID)
		h.TrackDisconnect(ip)
		conn.Close()
		return
	}

	client.log.Debug("client connected", zap.String("codec", client.codec.Name()))

	go client.WritePump()
	go client.ReadPump()
}

func (h *Hub) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.arena.Leaderboard())
}

func (h *Hub) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{
		Players:         h.arena.PlayerCount(),
		Clients:         h.ClientCount(),
		Connections:     h.TotalConns(),
		ConcurrentPeers: h.analytics.ConcurrentPeers(),
		Rounds:          h.arena.Rounds(),
	}

	total, err := h.analytics.RoundCount()
	if err != nil {
		h.log.Error("stats: round count", zap.Error(err))
	}
	resp.TotalRounds = total

	rounds, err := h.analytics.RecentRounds(recentRoundsLimit)
	if err != nil {
		h.log.Error("stats: recent rounds", zap.Error(err))
	}
	resp.RecentRounds = rounds

	losses, err := h.analytics.LossesByName(lossesByNameLimit)
	if err != nil {
		h.log.Error("stats: losses by name", zap.Error(err))
	}
	resp.LossesByName = losses

	counts, err := h.analytics.EventCounts(eventCountDays)
	if err != nil {
		h.log.Error("stats: event counts", zap.Error(err))
	}
	resp.EventCounts = counts

	writeJSON(w, resp)
}

// handleQR serves a QR code of the websocket URL for joining from a phone.
// ?url= overrides the encoded address.
func handleQR(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		target = wsURL(r)
	}

	png, err := qrcode.Encode(target, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

// wsURL is the websocket address a client on the same network should dial
func wsURL(r *http.Request) string {
	scheme := "ws"
	if r.TLS != nil {
		scheme = "wss"
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: "/ws"}
	if c := r.URL.Query().Get("codec"); c == protocol.CodecMsgpack {
		u.RawQuery = url.Values{"codec": {c}}.Encode()
	}
	return u.String()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

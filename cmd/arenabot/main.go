// Command arenabot is a headless arena client. It joins a server, registers a
// name, wiggles its arc at random and logs what a renderer would draw.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"arena-server/netclient"
	"arena-server/protocol"
)

func main() {
	url := flag.String("url", "ws://localhost:2222/ws", "arena websocket URL")
	name := flag.String("name", "bot", "leaderboard name")
	codec := flag.String("codec", protocol.CodecJSON, "wire codec: json or msgpack")
	fps := flag.Int("fps", 60, "render frames per second")
	logEvery := flag.Int("log-every", 60, "log one frame out of this many")
	moveEvery := flag.Duration("move-every", 150*time.Millisecond, "interval between random moves")
	dev := flag.Bool("dev", false, "human-readable logging")
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *dev {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := netclient.Dial(ctx, *url, netclient.Options{
		Codec:  *codec,
		Logger: logger,
		OnLeaderboard: func(lb protocol.LeaderboardData) {
			logger.Info("leaderboard", zap.Any("leaders", lb.Leaders))
		},
	})
	if err != nil {
		logger.Fatal("connect", zap.Error(err))
	}
	defer client.Close()

	go func() {
		if err := client.ReadLoop(); err != nil {
			logger.Warn("connection lost", zap.Error(err))
		}
		stop()
	}()

	if err := client.Register(*name); err != nil {
		logger.Fatal("register", zap.Error(err))
	}

	go wiggle(ctx, client, *moveEvery, logger)

	frame := 0
	client.RunRenderLoop(ctx, *fps, netclient.RendererFunc(func(v netclient.View, playerID int) {
		frame++
		if frame%*logEvery != 0 {
			return
		}
		fields := []zap.Field{
			zap.Int("frame", frame),
			zap.Int("player", playerID),
			zap.Float64("ball_x", v.Ball.Position.X),
			zap.Float64("ball_y", v.Ball.Position.Y),
			zap.Int("players", len(v.Players)),
		}
		for _, p := range v.Players {
			if p.ID == playerID {
				fields = append(fields, zap.Float64("angle", p.Angle))
			}
		}
		logger.Info("frame", fields...)
	}))
	logger.Info("bye")
}

// wiggle sends a random move every interval
func wiggle(ctx context.Context, c *netclient.Client, every time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	actions := []protocol.Action{protocol.ActionMoveLeft, protocol.ActionMoveRight}
	current := actions[0]
	for {
		select {
		case <-ticker.C:
			// Keep direction for a while so the arc visibly travels
			if rand.IntN(4) == 0 {
				current = actions[rand.IntN(len(actions))]
			}
			if err := c.SendAction(current); err != nil {
				logger.Debug("send action", zap.Error(err))
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

package webview

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/coder/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed index.html
var indexHTML []byte

// maxMessage bounds viewer-to-server messages. Viewers only send short
// resize commands.
const maxMessage = 256

// Handler returns the HTTP handler of the viewer:
//
//	/         the viewer page
//	/ws       frame stream (binary PNG messages); accepts "resize W H"
//	/metrics  Prometheus metrics from g
func Handler(hub *Hub, g prometheus.Gatherer, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(indexHTML)
	})
	mux.HandleFunc("/ws", streamHandler(hub, log))
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return mux
}

func streamHandler(hub *Hub, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			log.Warn("websocket accept failed", "remote", r.RemoteAddr, "err", err)
			return
		}
		defer c.CloseNow()
		c.SetReadLimit(maxMessage)

		log.Info("viewer connected", "remote", r.RemoteAddr)
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		go func() {
			defer cancel()
			readCommands(ctx, c, hub, log)
		}()

		err = writeFrames(ctx, c, hub)
		switch {
		case errors.Is(err, ErrHubClosed):
			c.Close(websocket.StatusGoingAway, "server shutting down")
		case err != nil && !errors.Is(err, context.Canceled):
			log.Debug("viewer stream ended", "remote", r.RemoteAddr, "err", err)
		}
		log.Info("viewer disconnected", "remote", r.RemoteAddr)
	}
}

func writeFrames(ctx context.Context, c *websocket.Conn, hub *Hub) error {
	var seq uint64
	for {
		f, err := hub.Next(ctx, seq)
		if err != nil {
			return err
		}
		if err := c.Write(ctx, websocket.MessageBinary, f.PNG); err != nil {
			return err
		}
		seq = f.Seq
	}
}

func readCommands(ctx context.Context, c *websocket.Conn, hub *Hub, log *slog.Logger) {
	for {
		typ, msg, err := c.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			continue
		}
		w, h, err := ParseResize(string(msg))
		if err != nil {
			log.Debug("ignoring viewer message", "msg", string(msg), "err", err)
			continue
		}
		hub.RequestResize(w, h)
	}
}

// ErrBadCommand is returned by ParseResize for anything but "resize W H".
var ErrBadCommand = errors.New("webview: bad command")

// ParseResize parses a "resize W H" viewer command.
func ParseResize(msg string) (width, height int, err error) {
	fields := strings.Fields(msg)
	if len(fields) != 3 || fields[0] != "resize" {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadCommand, msg)
	}
	if width, err = strconv.Atoi(fields[1]); err != nil {
		return 0, 0, fmt.Errorf("%w: width: %w", ErrBadCommand, err)
	}
	if height, err = strconv.Atoi(fields[2]); err != nil {
		return 0, 0, fmt.Errorf("%w: height: %w", ErrBadCommand, err)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%w: size %dx%d", ErrBadCommand, width, height)
	}
	return width, height, nil
}

package planner

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"backend-travelplanner/internal/trip"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// StreamURL turns the API base URL into the websocket URL of the trip stream.
func StreamURL(apiBase string) string {
	u := strings.TrimRight(apiBase, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/stream/ws/" + trip.Topic
}

// Watch applies trip events from the backend stream until ctx is done or the
// connection drops. ready, if not nil, is closed once the stream is open.
func (p *Planner) Watch(ctx context.Context, wsURL string, ready chan<- struct{}) error {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, http.Header{})
	if err != nil {
		return err
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	if ready != nil {
		close(ready)
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseNormalClosure {
				return nil
			}
			return err
		}
		var ev trip.Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			p.log.Warn("undecodable trip event", zap.Error(err))
			continue
		}
		p.Apply(ev)
	}
}

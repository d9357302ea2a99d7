package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// StreamTransitions pushes every lifecycle transition to the connected
// dashboard as a JSON message. Delivery is best-effort; a slow client loses
// events instead of backpressuring the dispatch path.
func (h *Handlers) StreamTransitions(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	transitions, unsubscribe := h.broker.Subscribe(64)
	defer unsubscribe()

	// Reader goroutine: we only care about close frames, everything else is
	// discarded.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-done:
			return
		case t, ok := <-transitions:
			if !ok {
				return
			}
			if err := conn.WriteJSON(t); err != nil {
				return
			}
		}
	}
}

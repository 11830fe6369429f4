package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/osmane/billiards-sub001/internal/config"
	"github.com/osmane/billiards-sub001/internal/search"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 1 << 20 // snapshots with full ball lists stay well under this
)

// computeRequest is the worker protocol request frame. The search.Request
// fields are embedded flat, matching the wire shape consumers send.
type computeRequest struct {
	Type string `json:"type"`
	search.Request
}

// resultResponse is the worker protocol response frame.
type resultResponse struct {
	Type string            `json:"type"`
	Best *search.Candidate `json:"best"` // null when no candidate was viable
}

// HandleWorker serves the best-shot worker protocol over a WebSocket: each
// compute frame runs one candidate slice to completion and answers with a
// result frame. One slice is one unit of work — there is no mid-candidate
// cancellation; an abandoned connection abandons the slice wholesale.
func HandleWorker(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] upgrade failed: %v", err)
			return
		}
		defer conn.Close()
		conn.SetReadLimit(maxMessageSize)

		log.Printf("[WS] worker connected from %s", c.ClientIP())

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("[WS] worker read error: %v", err)
				}
				return
			}

			var req computeRequest
			if err := json.Unmarshal(data, &req); err != nil {
				writeJSON(conn, gin.H{"type": "error", "error": "malformed request"})
				continue
			}
			if req.Type != "compute" {
				writeJSON(conn, gin.H{"type": "error", "error": "unknown request type"})
				continue
			}

			if req.Config.SimCap <= 0 && cfg.SearchSimCapSecs > 0 {
				req.Config.SimCap = float64(cfg.SearchSimCapSecs)
			}

			// The connection context bounds the slice: a dropped worker
			// connection abandons its in-flight work.
			ctx, cancel := context.WithCancel(c.Request.Context())
			best := search.Best(ctx, req.Request)
			cancel()

			if err := writeJSON(conn, resultResponse{Type: "result", Best: best}); err != nil {
				log.Printf("[WS] worker write error: %v", err)
				return
			}
		}
	}
}

func writeJSON(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

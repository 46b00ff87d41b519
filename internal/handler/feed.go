package handler

import (
	"net/http"
	"sync"
	"time"

	"accessibilityhire/internal/feed"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	feedWriteWait  = 10 * time.Second
	feedPongWait   = 60 * time.Second
	feedPingPeriod = (feedPongWait * 9) / 10
)

// FeedHandler streams job change events over WebSocket
type FeedHandler struct {
	events   feed.Feed
	upgrader websocket.Upgrader
	log      *logrus.Entry
}

// NewFeedHandler accepts connections from allowedOrigins; an empty list
// accepts any origin.
func NewFeedHandler(events feed.Feed, allowedOrigins []string, log *logrus.Entry) *FeedHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &FeedHandler{
		events: events,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin] || allowed["*"]
			},
		},
		log: log.WithField("component", "feed"),
	}
}

// Stream handles GET /feed
func (h *FeedHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	events, cancel, err := h.events.Subscribe(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Debug("websocket upgrade failed")
		return
	}
	defer conn.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	done := make(chan struct{})

	// Client -> server: only control frames, used to detect disconnects
	go func() {
		defer wg.Done()
		defer close(done)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(feedPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(feedPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.WithError(err).Debug("feed client closed")
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(feedPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			wg.Wait()
			return
		case evt, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(feedWriteWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(feedWriteWait)); err != nil {
				return
			}
		}
	}
}

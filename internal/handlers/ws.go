package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/portfolio-dev/portfolio/internal/logging"
	"github.com/portfolio-dev/portfolio/internal/types"
)

// One portfolio-wide feed: every mutation to any project notifies every
// connected client.
var (
	portfolioClients   = make(map[*websocket.Conn]bool)
	portfolioClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// BroadcastRefresh tells connected clients to reload portfolio data.
func BroadcastRefresh() {
	portfolioClientsMu.RLock()
	clients := make([]*websocket.Conn, 0, len(portfolioClients))
	for conn := range portfolioClients {
		clients = append(clients, conn)
	}
	portfolioClientsMu.RUnlock()

	for _, conn := range clients {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			logging.Logger.Warnf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		err := conn.WriteJSON(map[string]string{
			"type":    "refresh",
			"message": "Portfolio data updated",
		})

		if err != nil {
			logging.Logger.Warnf("Failed to broadcast refresh to client: %v", err)

			portfolioClientsMu.Lock()
			delete(portfolioClients, conn)
			portfolioClientsMu.Unlock()
			conn.Close()
		}
	}
}

// WebSocket upgrades the request and keeps the connection on the portfolio
// refresh feed until the client goes away.
func WebSocket(c *gin.Context) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Logger.Warnf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Logger.Warnf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	portfolioClientsMu.Lock()
	portfolioClients[conn] = true
	portfolioClientsMu.Unlock()

	defer func() {
		portfolioClientsMu.Lock()
		delete(portfolioClients, conn)
		portfolioClientsMu.Unlock()
		conn.Close()

		logging.Logger.Info("WebSocket connection closed")
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		logging.Logger.Warnf("Failed to set write deadline for welcome message: %v", err)
		return
	}

	err = conn.WriteJSON(map[string]string{
		"type":    "connected",
		"message": "WebSocket connection established",
	})

	if err != nil {
		logging.Logger.Warnf("Failed to send welcome message: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			break
		}

		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Logger.Warnf("WebSocket error: %v", err)
			}
			break
		}
	}
}

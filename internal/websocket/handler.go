package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs registers the socket for sessionID and blocks until it closes.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID string, onMessage InboundHandler) {
	client := &Client{
		Hub:       hub,
		Conn:      c,
		SessionID: sessionID,
		Send:      make(chan []byte, 64),
		onMessage: onMessage,
	}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}

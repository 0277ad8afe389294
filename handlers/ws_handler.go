package handlers

import (
	"context"
	"time"

	"github.com/anjiri1684/mindcare/services"
	"github.com/anjiri1684/mindcare/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WSHandler upgrades authenticated clients onto the notification hub.
type WSHandler struct {
	Auth *services.AuthService
	Hub  *websocket.Hub
	Log  *zap.Logger
}

type wsFrame struct {
	Type  string `json:"type"`
	Token string `json:"token,omitempty"`
}

// Upgrade rejects plain HTTP requests on the websocket route.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocketcontrib.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// Serve expects {"type":"auth","token":"..."} as the first frame.
func (h *WSHandler) Serve(conn *websocketcontrib.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	var auth wsFrame
	if err := conn.ReadJSON(&auth); err != nil || auth.Type != "auth" {
		h.Log.Warn("WebSocket auth failed: invalid or missing auth message", zap.Error(err))
		_ = conn.WriteJSON(fiber.Map{"type": "error", "message": "Invalid or missing auth message"})
		conn.Close()
		return
	}
	actor, err := h.Auth.ParseToken(auth.Token)
	if err == nil {
		actor, err = h.Auth.Resolve(context.Background(), actor)
	}
	if err != nil {
		_ = conn.WriteJSON(fiber.Map{"type": "error", "message": "Invalid token"})
		conn.Close()
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	client := &websocket.Client{UserID: actor.UserID, Conn: conn}
	h.Hub.Register(client)
	defer func() {
		h.Hub.Unregister(client)
		conn.Close()
	}()
	_ = client.Send(websocket.Event{Type: "ready", Data: fiber.Map{"user_id": actor.UserID}})

	for {
		var frame wsFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
				h.Log.Debug("WebSocket closed", zap.String("user_id", actor.UserID.String()))
			} else {
				h.Log.Debug("WebSocket read error", zap.String("user_id", actor.UserID.String()), zap.Error(err))
			}
			return
		}
		if frame.Type == "ping" {
			_ = client.Send(websocket.Event{Type: "pong"})
		}
	}
}

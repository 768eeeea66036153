package handlers

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jdudgeon1993/chefs-kiss/internal/middleware"
)

const pingInterval = 30 * time.Second

// EventsUpgrade gates the websocket upgrade. Browsers cannot set an
// Authorization header on a websocket, so the access token arrives as a
// ?token query parameter instead.
func (h *Handler) EventsUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	claims, err := middleware.ParseToken(c.Query("token"), h.cfg.JWTSecret)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, "invalid or expired token")
	}
	c.Locals("household_id", claims.HouseholdID)
	return c.Next()
}

// Events streams change notifications to a connected client. Each message
// names a resource class that changed; the client refetches that class.
func (h *Handler) Events() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		householdID, _ := conn.Locals("household_id").(string)
		sub := h.hub.Subscribe(householdID)
		defer h.hub.Unsubscribe(sub)

		// Drain reads so close frames are processed; the stream is
		// one-way otherwise.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()

		for {
			select {
			case event, ok := <-sub.C:
				if !ok {
					return
				}
				if err := conn.WriteJSON(event); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	})
}

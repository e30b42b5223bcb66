package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/katatrina/feed-notification/internal/event"
	"github.com/rs/zerolog/log"
)

const defaultKeepAlivePeriod = 25 * time.Second

// @Summary		Stream notification events via Server-Sent Events
// @Description	Pushes notification_created and notifications_read events of the authenticated user.
// @Tags			notifications
// @Produce		text/event-stream
// @Security		accessToken
// @Success		200	{string}	string	"Event stream. Data will be sent as SSE events with format: 'event: {eventType}\ndata: {jsonData}'"
// @Router			/notifications/stream [get]
func (server *Server) streamNotifications(c *gin.Context) {
	userID := authenticatedUserID(c)
	topic := event.UserTopic(userID)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	clientChan := make(chan event.Event)
	server.eventSender.Register(topic, clientChan)
	defer server.eventSender.Unregister(topic, clientChan)

	period := server.config.StreamKeepAlivePeriod
	if period <= 0 {
		period = defaultKeepAlivePeriod
	}
	keepAlive := time.NewTicker(period)
	defer keepAlive.Stop()

	for {
		select {
		case evt, ok := <-clientChan:
			if !ok {
				return
			}

			data, err := json.Marshal(evt.Data)
			if err != nil {
				log.Error().Err(err).Str("type", evt.Type).Msg("failed to encode event")
				continue
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", evt.Type, data)
			c.Writer.Flush()
		case <-keepAlive.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

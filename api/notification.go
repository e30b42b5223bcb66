package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/katatrina/feed-notification/internal/notification"
)

type listNotificationsQuery struct {
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit"`
}

type listNotificationsResponse struct {
	Notifications []notification.Notification `json:"notifications"`
	NextCursor    *string                     `json:"next_cursor"`
}

//	@Summary		List notifications
//	@Description	List the notifications of the authenticated user, newest first.
//	@Description	Pass next_cursor back as cursor to fetch the following page. Notifications created
//	@Description	while paging never shift or repeat the items of later pages.
//	@Tags			notifications
//	@Produce		json
//	@Security		accessToken
//	@Param			cursor	query		string						false	"Opaque cursor returned by the previous page"
//	@Param			limit	query		int							false	"Page size"
//	@Success		200		{object}	listNotificationsResponse	"One page of notifications"
//	@Failure		400		{object}	FailedValidationResponse	"Invalid cursor or limit"
//	@Failure		500		"Internal server error"
//	@Router			/notifications [get]
func (server *Server) listNotifications(c *gin.Context) {
	var query listNotificationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	var violations []*FieldViolation

	limit := query.Limit
	if limit == 0 {
		limit = server.config.DefaultPageSize
	}
	if limit < 0 || limit > server.config.MaxPageSize {
		err := fmt.Errorf("must be between 1 and %d", server.config.MaxPageSize)
		violations = append(violations, fieldViolation("limit", err))
	}

	var cursor *notification.Cursor
	if query.Cursor != "" {
		decoded, err := decodeCursor(query.Cursor)
		if err != nil {
			violations = append(violations, fieldViolation("cursor", err))
		} else {
			cursor = &decoded
		}
	}

	if len(violations) > 0 {
		c.JSON(http.StatusBadRequest, failedValidationError(violations))
		return
	}

	userID := authenticatedUserID(c)

	page, err := server.notificationService.ListPage(c, userID, cursor, limit)
	if err != nil {
		abortInternal(c, err, "failed to list notifications")
		return
	}

	resp := listNotificationsResponse{
		Notifications: page.Notifications,
	}
	if page.Next != nil {
		next := encodeCursor(*page.Next)
		resp.NextCursor = &next
	}

	c.JSON(http.StatusOK, resp)
}

//	@Summary		Mark a notification as read
//	@Description	updated is false when the notification does not exist, belongs to another user or was already read.
//	@Tags			notifications
//	@Produce		json
//	@Security		accessToken
//	@Param			id	path	string	true	"Notification ID"
//	@Success		200	"{"updated": true}"
//	@Failure		400	"Invalid notification ID"
//	@Failure		500	"Internal server error"
//	@Router			/notifications/{id}/read [patch]
func (server *Server) markNotificationRead(c *gin.Context) {
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(errors.New("invalid notification ID")))
		return
	}

	userID := authenticatedUserID(c)

	updated, err := server.notificationService.MarkRead(c, notificationID, userID)
	if err != nil {
		abortInternal(c, err, "failed to mark notification as read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

//	@Summary		Mark all notifications as read
//	@Tags			notifications
//	@Produce		json
//	@Security		accessToken
//	@Success		200	"{"updated": 3}"
//	@Failure		500	"Internal server error"
//	@Router			/notifications/read-all [patch]
func (server *Server) markAllNotificationsRead(c *gin.Context) {
	userID := authenticatedUserID(c)

	updated, err := server.notificationService.MarkAllRead(c, userID)
	if err != nil {
		abortInternal(c, err, "failed to mark all notifications as read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

//	@Summary		Count unread notifications
//	@Tags			notifications
//	@Produce		json
//	@Security		accessToken
//	@Success		200	"{"count": 5}"
//	@Failure		500	"Internal server error"
//	@Router			/notifications/unread-count [get]
func (server *Server) getUnreadNotificationCount(c *gin.Context) {
	userID := authenticatedUserID(c)

	count, err := server.notificationService.UnreadCount(c, userID)
	if err != nil {
		abortInternal(c, err, "failed to count unread notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/katatrina/feed-notification/internal/notification"
	"github.com/katatrina/feed-notification/internal/worker"
)

type createEventRequest struct {
	EventID          string             `json:"event_id"`
	RecipientID      uuid.UUID          `json:"recipient_id"`
	ActorID          uuid.UUID          `json:"actor_id"`
	NotificationType string             `json:"notification_type"`
	Payload          notification.Value `json:"payload"`
}

func (req *createEventRequest) validate() (violations []*FieldViolation) {
	if req.RecipientID == uuid.Nil {
		violations = append(violations, fieldViolation("recipient_id", errors.New("is required")))
	}

	if req.ActorID == uuid.Nil {
		violations = append(violations, fieldViolation("actor_id", errors.New("is required")))
	}

	if req.NotificationType == "" {
		violations = append(violations, fieldViolation("notification_type", errors.New("is required")))
	}

	return violations
}

//	@Summary		Submit a social event
//	@Description	Queues an event (like, comment, follow, mention...) that may produce a notification for recipient_id.
//	@Description	Events with an event_id already queued are accepted once and reported as duplicates afterwards.
//	@Tags			internal
//	@Accept			json
//	@Produce		json
//	@Param			request	body	createEventRequest	true	"Event"
//	@Success		202		"Event queued"
//	@Success		200		"Duplicate event"
//	@Failure		400		{object}	FailedValidationResponse	"Invalid event"
//	@Failure		500		"Internal server error"
//	@Router			/internal/events [post]
func (server *Server) createEvent(c *gin.Context) {
	req := new(createEventRequest)
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	if violations := req.validate(); len(violations) > 0 {
		c.JSON(http.StatusBadRequest, failedValidationError(violations))
		return
	}

	info, err := server.taskDistributor.DistributeTaskCreateNotification(c, &worker.PayloadCreateNotification{
		EventID:          req.EventID,
		RecipientID:      req.RecipientID,
		ActorID:          req.ActorID,
		NotificationType: req.NotificationType,
		Payload:          req.Payload,
	}, asynq.Queue(worker.QueueDefault), asynq.MaxRetry(10))
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			c.JSON(http.StatusOK, gin.H{"duplicate": true})
			return
		}

		abortInternal(c, err, "failed to enqueue event")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"task_id": info.ID,
		"queue":   info.Queue,
	})
}

type eventTaskResponse struct {
	ID       string `json:"id"`
	Queue    string `json:"queue"`
	State    string `json:"state"`
	Retried  int    `json:"retried"`
	MaxRetry int    `json:"max_retry"`
	LastErr  string `json:"last_error,omitempty"`
}

//	@Summary		Get the processing state of a submitted event
//	@Tags			internal
//	@Produce		json
//	@Param			taskID	path		string				true	"Task ID returned when the event was submitted"
//	@Param			queue	query		string				false	"Queue name, default queue when omitted"
//	@Success		200		{object}	eventTaskResponse	"Task state"
//	@Failure		404		"Task not found"
//	@Router			/internal/events/{taskID} [get]
func (server *Server) getEventTask(c *gin.Context) {
	taskID := c.Param("taskID")
	queue := c.DefaultQuery("queue", worker.QueueDefault)

	info, err := server.taskInspector.GetTaskInfo(c, queue, taskID)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(fmt.Errorf("task %s not found in queue %s", taskID, queue)))
			return
		}

		abortInternal(c, err, "failed to get task info")
		return
	}

	c.JSON(http.StatusOK, eventTaskResponse{
		ID:       info.ID,
		Queue:    info.Queue,
		State:    info.State.String(),
		Retried:  info.Retried,
		MaxRetry: info.MaxRetry,
		LastErr:  info.LastErr,
	})
}

package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/raf-alpha/api-go/apperr"
	"github.com/raf-alpha/api-go/models"
	"github.com/raf-alpha/api-go/notify"
	"github.com/raf-alpha/api-go/store"
	"github.com/raf-alpha/api-go/types"
)

// Subscriber hands out live event feeds that end with the context.
type Subscriber interface {
	Subscribe(ctx context.Context) <-chan notify.Event
}

type NotificationController struct {
	Inbox     store.InboxStore
	Events    notify.Publisher
	Feed      Subscriber
	KeepAlive time.Duration
}

func NewNotificationController(inbox store.InboxStore, events notify.Publisher, feed Subscriber) *NotificationController {
	return &NotificationController{Inbox: inbox, Events: events, Feed: feed, KeepAlive: 25 * time.Second}
}

func (nc *NotificationController) publish(c *gin.Context, kind string, payload any) {
	if nc.Events == nil {
		return
	}
	nc.Events.Publish(c.Request.Context(), notify.Event{Type: kind, Payload: payload})
}

func (nc *NotificationController) Subscribe(c *gin.Context) {
	var in types.SubscribeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, badBody(err))
		return
	}

	sub := &models.Subscription{Email: normalizeEmail(in.Email)}
	if err := nc.Inbox.Subscribe(c.Request.Context(), sub); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			err = apperr.New(apperr.ErrConflict, http.StatusConflict, "email is already subscribed")
		}
		respondError(c, err)
		return
	}

	nc.publish(c, notify.EventNewSubscription, sub)
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Subscribed"})
}

func (nc *NotificationController) AddInterested(c *gin.Context) {
	var in types.InterestedInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, badBody(err))
		return
	}

	lead := &models.Interested{Name: in.Name, Phone: in.Phone, Email: in.Email, UnitID: in.UnitID}
	if err := nc.Inbox.AddInterested(c.Request.Context(), lead); err != nil {
		respondError(c, err)
		return
	}

	nc.publish(c, notify.EventNewInterested, lead)
	c.JSON(http.StatusCreated, gin.H{"success": true, "interested": lead})
}

func (nc *NotificationController) AddConsultation(c *gin.Context) {
	var in types.ConsultationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, badBody(err))
		return
	}

	req := &models.Consultation{Name: in.Name, Phone: in.Phone, Email: in.Email, Message: in.Message, Date: in.Date}
	if err := nc.Inbox.AddConsultation(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}

	nc.publish(c, notify.EventNewConsultation, req)
	c.JSON(http.StatusCreated, gin.H{"success": true, "consultation": req})
}

func (nc *NotificationController) Unread(c *gin.Context) {
	n, err := nc.Inbox.UnreadSubscriptions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (nc *NotificationController) Newsletter(c *gin.Context) {
	subs, err := nc.Inbox.Subscriptions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if subs == nil {
		subs = []models.Subscription{}
	}
	c.JSON(http.StatusOK, gin.H{"emailData": subs})
}

func (nc *NotificationController) Interested(c *gin.Context) {
	leads, err := nc.Inbox.UnreadInterested(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if leads == nil {
		leads = []models.Interested{}
	}
	c.JSON(http.StatusOK, gin.H{"interested": leads})
}

func (nc *NotificationController) Consultations(c *gin.Context) {
	reqs, err := nc.Inbox.UnreadConsultations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if reqs == nil {
		reqs = []models.Consultation{}
	}
	c.JSON(http.StatusOK, gin.H{"consultations": reqs})
}

func (nc *NotificationController) MarkSubscriptionsRead(c *gin.Context) {
	nc.markRead(c, nc.Inbox.MarkSubscriptionsRead, notify.EventNotificationsRead)
}

func (nc *NotificationController) MarkInterestedRead(c *gin.Context) {
	nc.markRead(c, nc.Inbox.MarkInterestedRead, notify.EventInterestedRead)
}

func (nc *NotificationController) MarkConsultationsRead(c *gin.Context) {
	nc.markRead(c, nc.Inbox.MarkConsultationsRead, notify.EventConsultationRead)
}

// markRead flags the listed ids as read. A missing body or an empty list
// marks everything read.
func (nc *NotificationController) markRead(c *gin.Context, mark func(context.Context, []uint) (int64, error), kind string) {
	var in types.MarkReadInput
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, badBody(err))
		return
	}

	n, err := mark(c.Request.Context(), in.IDs)
	if err != nil {
		respondError(c, err)
		return
	}

	nc.publish(c, kind, gin.H{"ids": in.IDs, "updated": n})
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": n})
}

// Stream pushes notification events to the dashboard as server-sent events
// until the client goes away.
func (nc *NotificationController) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	events := nc.Feed.Subscribe(ctx)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.SSEvent("ready", gin.H{"at": time.Now().UTC()})
	c.Writer.Flush()

	keepAlive := nc.KeepAlive
	if keepAlive <= 0 {
		keepAlive = 25 * time.Second
	}
	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			c.SSEvent(e.Type, e)
			c.Writer.Flush()
		case <-ticker.C:
			if _, err := io.WriteString(c.Writer, ": ping\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}

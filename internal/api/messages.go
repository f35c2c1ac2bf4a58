package api

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/disaster-relief/internal/models"
)

const streamKeepAlive = 20 * time.Second

type postMessageRequest struct {
	Content string `json:"content" form:"content"`
}

func (h *Handler) thread(c *gin.Context) {
	id, ok := disasterParam(c)
	if !ok {
		return
	}

	t, err := h.messages.Thread(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) postMessage(c *gin.Context) {
	id, ok := disasterParam(c)
	if !ok {
		return
	}
	var req postMessageRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	msg, err := h.messages.Post(c.Request.Context(), actorFrom(c), id, req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// streamThread pushes messages posted to a thread as server-sent events
// until the client goes away or the server shuts down.
func (h *Handler) streamThread(c *gin.Context) {
	id, ok := disasterParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	messages, cancel, err := h.messages.Subscribe(ctx, actorFrom(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer cancel()

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case m, ok := <-messages:
			if !ok {
				return false
			}
			c.SSEvent("message", m)
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"time": time.Now().UTC()})
			return true
		}
	})
}

func (h *Handler) inbox(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		messages, err := h.messages.Inbox(c.Request.Context(), actorFrom(c), role)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": messages})
	}
}

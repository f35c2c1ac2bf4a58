package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/disaster-relief/internal/campaign"
)

// bindDisaster reads a disaster form and its optional image upload.
func (h *Handler) bindDisaster(c *gin.Context) (campaign.DisasterForm, func(), bool) {
	var form campaign.DisasterForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, err)
		return form, func() {}, false
	}
	image, closeFile, ok := h.upload(c, "image")
	form.Image = image
	return form, closeFile, ok
}

func (h *Handler) createDisaster(c *gin.Context) {
	form, closeFile, ok := h.bindDisaster(c)
	defer closeFile()
	if !ok {
		return
	}

	d, err := h.campaigns.Create(c.Request.Context(), actorFrom(c), form)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *Handler) getDisaster(c *gin.Context) {
	id, ok := disasterParam(c)
	if !ok {
		return
	}

	d, err := h.campaigns.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) updateDisaster(c *gin.Context) {
	id, ok := disasterParam(c)
	if !ok {
		return
	}
	form, closeFile, ok := h.bindDisaster(c)
	defer closeFile()
	if !ok {
		return
	}

	d, err := h.campaigns.Update(c.Request.Context(), actorFrom(c), id, form)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) deleteDisaster(c *gin.Context) {
	id, ok := disasterParam(c)
	if !ok {
		return
	}

	if err := h.campaigns.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) submitFeedback(c *gin.Context) {
	id, ok := disasterParam(c)
	if !ok {
		return
	}
	var form campaign.FeedbackForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, err)
		return
	}

	fb, err := h.campaigns.SubmitFeedback(c.Request.Context(), actorFrom(c), id, form)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"feedback": fb, "message": campaign.AckFeedback})
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/disaster-relief/internal/donation"
)

func (h *Handler) record(c *gin.Context, id int64, contribution donation.Contribution) {
	receipt, err := h.donations.Record(c.Request.Context(), actorFrom(c), id, contribution)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

func (h *Handler) donate(c *gin.Context) {
	id, ok := disasterParam(c)
	if !ok {
		return
	}
	var form donation.Automatic
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, err)
		return
	}
	h.record(c, id, form)
}

func (h *Handler) donateManual(c *gin.Context) {
	id, ok := disasterParam(c)
	if !ok {
		return
	}
	var form donation.Manual
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, err)
		return
	}
	proof, closeFile, ok := h.upload(c, "proof_image")
	defer closeFile()
	if !ok {
		return
	}
	form.Proof = proof
	h.record(c, id, form)
}

package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/disaster-relief/internal/access"
	"github.com/mr1hm/disaster-relief/internal/account"
	"github.com/mr1hm/disaster-relief/internal/campaign"
	"github.com/mr1hm/disaster-relief/internal/dashboard"
	"github.com/mr1hm/disaster-relief/internal/donation"
	"github.com/mr1hm/disaster-relief/internal/messaging"
	"github.com/mr1hm/disaster-relief/internal/models"
)

type Services struct {
	Accounts   *account.Service
	Campaigns  *campaign.Service
	Donations  *donation.Recorder
	Messages   *messaging.Service
	Dashboards *dashboard.Service
}

type Handler struct {
	accounts   *account.Service
	campaigns  *campaign.Service
	donations  *donation.Recorder
	messages   *messaging.Service
	dashboards *dashboard.Service
}

func NewHandler(s Services) *Handler {
	return &Handler{
		accounts:   s.Accounts,
		campaigns:  s.Campaigns,
		donations:  s.Donations,
		messages:   s.Messages,
		dashboards: s.Dashboards,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)

	api := r.Group("/api")
	api.GET("/choose-role", h.chooseRole)
	api.POST("/register", h.register)
	api.POST("/login", h.login)

	authed := api.Group("", h.authenticate())
	authed.POST("/logout", h.logout)
	authed.GET("/dashboard", h.dashboard)
	authed.GET("/profile", h.profile)
	authed.PUT("/profile", h.updateProfile)
	authed.GET("/messages/:disaster_id", h.thread)
	authed.POST("/messages/:disaster_id", h.postMessage)
	authed.GET("/messages/:disaster_id/stream", h.streamThread)
	authed.POST("/feedback/:disaster_id", requireRole(models.RoleDonor), h.submitFeedback)

	organiser := authed.Group("/organiser", requireRole(models.RoleOrganiser))
	organiser.GET("/dashboard", h.organiserDashboard)
	organiser.POST("/disasters", h.createDisaster)
	organiser.GET("/disasters/:disaster_id", h.getDisaster)
	organiser.PUT("/disasters/:disaster_id", h.updateDisaster)
	organiser.DELETE("/disasters/:disaster_id", h.deleteDisaster)
	organiser.GET("/messages", h.inbox(models.RoleOrganiser))
	organiser.GET("/feedback", h.feedback(models.RoleOrganiser))
	organiser.GET("/donations", h.organiserDonations)

	donor := authed.Group("/donor", requireRole(models.RoleDonor))
	donor.GET("/dashboard", h.donorDashboard)
	donor.POST("/disasters/:disaster_id/donate", h.donate)
	donor.POST("/disasters/:disaster_id/donate/manual", h.donateManual)
	donor.GET("/donations", h.donorDonations)
	donor.GET("/feedback", h.feedback(models.RoleDonor))
	donor.GET("/messages", h.inbox(models.RoleDonor))
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// dashboard sends each role to its own dashboard.
func (h *Handler) dashboard(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, access.DashboardFor(actorFrom(c).Role))
}

func (h *Handler) organiserDashboard(c *gin.Context) {
	d, err := h.dashboards.Organiser(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) donorDashboard(c *gin.Context) {
	d, err := h.dashboards.Donor(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) organiserDonations(c *gin.Context) {
	list, err := h.dashboards.OrganiserDonations(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) donorDonations(c *gin.Context) {
	list, err := h.dashboards.DonorDonations(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) feedback(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		fb, err := h.dashboards.Feedback(c.Request.Context(), actorFrom(c), role)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"feedback": fb})
	}
}

// disasterParam reads :disaster_id. Malformed ids are reported as not found.
func disasterParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("disaster_id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return id, true
}

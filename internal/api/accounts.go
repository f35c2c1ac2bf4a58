package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/disaster-relief/internal/account"
)

type roleOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Register string `json:"register"`
}

func (h *Handler) chooseRole(c *gin.Context) {
	roles := h.accounts.ChooseRole()
	options := make([]roleOption, 0, len(roles))
	for _, r := range roles {
		options = append(options, roleOption{
			Value:    string(r),
			Label:    r.Display(),
			Register: "/api/register?role=" + string(r),
		})
	}
	c.JSON(http.StatusOK, gin.H{"roles": options})
}

func (h *Handler) register(c *gin.Context) {
	var form account.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, err)
		return
	}

	role := c.Query("role")
	if role == "" {
		role = form.Role
	}
	sess, err := h.accounts.Register(c.Request.Context(), role, form)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

func (h *Handler) login(c *gin.Context) {
	var form account.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, err)
		return
	}

	sess, err := h.accounts.Login(c.Request.Context(), form)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.accounts.Logout(c.Request.Context(), claimsFrom(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "You have been logged out."})
}

func (h *Handler) profile(c *gin.Context) {
	p, err := h.accounts.Profile(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) updateProfile(c *gin.Context) {
	var form account.ProfileForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, err)
		return
	}
	picture, closeFile, ok := h.upload(c, "profile_picture")
	defer closeFile()
	if !ok {
		return
	}
	form.Picture = picture

	u, err := h.accounts.UpdateProfile(c.Request.Context(), actorFrom(c), form)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "message": "Profile updated."})
}

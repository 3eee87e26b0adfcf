package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"growup-backend/models"
	"growup-backend/services"
)

func (h *Handler) AddLink(c *gin.Context) {
	var req models.Link
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}
	l, err := h.svc.Links.Create(c.Request.Context(), &req)
	if err != nil {
		renderError(c, h.logger, err, "Error creating link")
		return
	}
	success(c, http.StatusCreated, "Link created successfully", l)
}

func (h *Handler) LinkByPortal(c *gin.Context) {
	l, err := h.svc.Links.ByPortal(c.Request.Context(), c.Param("slug"))
	if err != nil {
		renderError(c, h.logger, err, "Error fetching link")
		return
	}
	success(c, http.StatusOK, "Link retrieved successfully", gin.H{"link": l.Link})
}

func (h *Handler) AllLinks(c *gin.Context) {
	links, err := h.svc.Links.All(c.Request.Context())
	if err != nil {
		renderError(c, h.logger, err, "Error fetching links")
		return
	}
	success(c, http.StatusOK, "Links retrieved successfully", links)
}

func (h *Handler) UpdateLink(c *gin.Context) {
	set, ok := bindPartial[models.Link](c)
	if !ok {
		return
	}
	l, err := h.svc.Links.Update(c.Request.Context(), c.Param("id"), set)
	if err != nil {
		renderError(c, h.logger, err, "Error updating link")
		return
	}
	success(c, http.StatusOK, "Link updated successfully", l)
}

func (h *Handler) CreateAppLink(c *gin.Context) {
	var req services.AppLinkInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}
	l, err := h.svc.AppLinks.Create(c.Request.Context(), req)
	if err != nil {
		renderError(c, h.logger, err, "Error creating app link")
		return
	}
	success(c, http.StatusCreated, "AppLink created successfully", l)
}

func (h *Handler) AllAppLinks(c *gin.Context) {
	links, err := h.svc.AppLinks.All(c.Request.Context())
	if err != nil {
		renderError(c, h.logger, err, "Error fetching app links")
		return
	}
	success(c, http.StatusOK, "AppLinks retrieved successfully", links)
}

func (h *Handler) UpdateAppLink(c *gin.Context) {
	var req services.AppLinkInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Request body cannot be empty.")
		return
	}
	l, err := h.svc.AppLinks.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		renderError(c, h.logger, err, "Error updating app link")
		return
	}
	success(c, http.StatusOK, "AppLink updated successfully", l)
}

func (h *Handler) AppLinkGetLink(c *gin.Context) {
	var req struct {
		AppName  string `json:"appName"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.AppName == "" || req.Password == "" {
		badRequest(c, "appName and password are required.")
		return
	}
	access, err := h.svc.AppLinks.GetLink(c.Request.Context(), req.AppName, req.Password)
	if err != nil {
		renderError(c, h.logger, err, "Error fetching link")
		return
	}
	success(c, http.StatusOK, "Link retrieved successfully", gin.H{"link": access.Link})
}

func (h *Handler) CreateJoinLink(c *gin.Context) {
	var req models.JoinLink
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}
	l, err := h.svc.JoinLinks.Create(c.Request.Context(), &req)
	if err != nil {
		renderError(c, h.logger, err, "Error creating join link")
		return
	}
	success(c, http.StatusCreated, "Joinlink created successfully", l)
}

func (h *Handler) AllJoinLinks(c *gin.Context) {
	links, err := h.svc.JoinLinks.All(c.Request.Context())
	if err != nil {
		renderError(c, h.logger, err, "Error fetching join links")
		return
	}
	success(c, http.StatusOK, "Joinlinks retrieved successfully", links)
}

func (h *Handler) UpdateJoinLink(c *gin.Context) {
	var req struct {
		Link string `json:"link"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Link == "" {
		badRequest(c, "link is a required field.")
		return
	}
	l, err := h.svc.JoinLinks.UpdateLink(c.Request.Context(), c.Param("id"), req.Link)
	if err != nil {
		renderError(c, h.logger, err, "Error updating join link")
		return
	}
	success(c, http.StatusOK, "Joinlink updated successfully", l)
}

func (h *Handler) JoinLinkGetLink(c *gin.Context) {
	var req struct {
		AppName string `json:"appName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.AppName == "" {
		badRequest(c, "appName is required.")
		return
	}
	access, err := h.svc.JoinLinks.GetLink(c.Request.Context(), req.AppName)
	if err != nil {
		renderError(c, h.logger, err, "Error fetching link")
		return
	}
	success(c, http.StatusOK, "Link retrieved successfully", gin.H{"link": access.Link})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"growup-backend/services"
)

func (h *Handler) GetRestartDate(c *gin.Context) {
	rd, err := h.svc.Settings.RestartDate(c.Request.Context())
	if err != nil {
		renderError(c, h.logger, err, "Error fetching restart date")
		return
	}
	if rd == nil {
		success(c, http.StatusOK, "Restart date has not been set yet", nil)
		return
	}
	success(c, http.StatusOK, "Restart date retrieved successfully", rd)
}

func (h *Handler) SetRestartDate(c *gin.Context) {
	var req struct {
		RestartDate string `json:"restartDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "restartDate is a required field.")
		return
	}
	rd, err := h.svc.Settings.SetRestartDate(c.Request.Context(), req.RestartDate)
	if err != nil {
		renderError(c, h.logger, err, "Error setting restart date")
		return
	}
	success(c, http.StatusOK, "Restart date set successfully", rd)
}

func (h *Handler) GetSession(c *gin.Context) {
	gs, err := h.svc.Settings.Session(c.Request.Context())
	if err != nil {
		renderError(c, h.logger, err, "Error fetching global session")
		return
	}
	if gs == nil {
		success(c, http.StatusOK, "Global session has not been configured yet", nil)
		return
	}
	success(c, http.StatusOK, "Global session retrieved successfully", gs)
}

func (h *Handler) UpdateSession(c *gin.Context) {
	var req services.SessionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}
	gs, err := h.svc.Settings.UpdateSession(c.Request.Context(), req)
	if err != nil {
		renderError(c, h.logger, err, "Error updating global session")
		return
	}
	success(c, http.StatusOK, "Global session updated successfully", gs)
}

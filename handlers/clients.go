package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"growup-backend/models"
	"growup-backend/services"
)

func (h *Handler) clientRoutes() resourceRoutes[models.Client] {
	s := h.svc.Clients
	return resourceRoutes[models.Client]{
		name:       "client",
		idsKey:     "clientIds",
		logger:     h.logger,
		create:     s.Create,
		createMany: s.CreateMany,
		get:        s.Get,
		update:     s.Update,
		remove:     s.Delete,
		removeMany: s.DeleteMany,
		count:      s.Count,
	}
}

func (h *Handler) ListClients(c *gin.Context) {
	q := services.ClientQuery{
		SearchQuery: c.Query("searchQuery"),
		Status:      c.Query("status"),
		PortalName:  c.Query("portalName"),
		PhoneNumber: c.Query("phoneNumber"),
		LeaderCode:  c.Query("leaderCode"),
	}
	page, err := h.svc.Clients.List(c.Request.Context(), q, pageRequest(c, services.DefaultClientLimit))
	if err != nil {
		renderError(c, h.logger, err, "Error fetching client")
		return
	}
	success(c, http.StatusOK, "client retrieved successfully", page.Envelope("clients", "totalClients"))
}

func (h *Handler) ClientPortalNames(c *gin.Context) {
	names, err := h.svc.Clients.PortalNames(c.Request.Context())
	if err != nil {
		renderError(c, h.logger, err, "Error fetching portal names")
		return
	}
	success(c, http.StatusOK, "Portal names retrieved successfully", names)
}

func (h *Handler) ClientsCountByDate(c *gin.Context) {
	var req struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.StartDate == "" || req.EndDate == "" {
		badRequest(c, "Both startDate and endDate are required in the request body.")
		return
	}
	start, err := services.ParseDate("startDate", req.StartDate)
	if err != nil {
		renderError(c, h.logger, err, "Error fetching client count by date range.")
		return
	}
	end, err := services.ParseDate("endDate", req.EndDate)
	if err != nil {
		renderError(c, h.logger, err, "Error fetching client count by date range.")
		return
	}
	n, err := h.svc.Clients.CountByDate(c.Request.Context(), start, end)
	if err != nil {
		renderError(c, h.logger, err, "Error fetching client count by date range.")
		return
	}
	success(c, http.StatusOK, "Client count retrieved successfully for the specified date range.", gin.H{
		"count":     n,
		"startDate": req.StartDate,
		"endDate":   req.EndDate,
	})
}

func (h *Handler) ClientsByOwner(c *gin.Context) {
	groups, err := h.svc.Clients.ByOwner(c.Request.Context(), c.Param("phoneNumber"))
	if err != nil {
		renderError(c, h.logger, err, "An error occurred while fetching clients by owner.")
		return
	}
	if len(groups) == 0 {
		success(c, http.StatusOK, "No clients found for the specified owner.", groups)
		return
	}
	success(c, http.StatusOK, "Owner's clients retrieved and grouped by portal successfully.", groups)
}

func (h *Handler) DistributeCommission(c *gin.Context) {
	var req struct {
		Commission *float64 `json:"commission"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Commission == nil || !services.ValidCommission(*req.Commission) {
		badRequest(c, "A valid, positive commission amount is required in the request body.")
		return
	}
	summary, err := h.svc.Commission.Distribute(c.Request.Context(), c.Param("clientId"), *req.Commission)
	if err != nil {
		renderError(c, h.logger, err, "An unexpected error occurred.")
		return
	}
	success(c, http.StatusOK, "Commission distributed successfully.", summary)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"growup-backend/models"
	"growup-backend/services"
)

func (h *Handler) leadRoutes() resourceRoutes[models.Lead] {
	s := h.svc.Leads
	return resourceRoutes[models.Lead]{
		name: "lead", idsKey: "ids", logger: h.logger,
		create: s.Create, createMany: s.CreateMany,
		get: s.Get, update: s.Update, remove: s.Delete,
		removeMany: s.DeleteMany, count: s.Count,
	}
}

func (h *Handler) ListLeads(c *gin.Context) {
	q := services.LeadQuery{
		SearchQuery: c.Query("searchQuery"),
		Status:      c.Query("status"),
		PortalName:  c.Query("portalName"),
		LeaderCode:  c.Query("leaderCode"),
	}
	page, err := h.svc.Leads.List(c.Request.Context(), q, pageRequest(c, services.DefaultLeadLimit))
	if err != nil {
		renderError(c, h.logger, err, "Error fetching leads")
		return
	}
	success(c, http.StatusOK, "leads retrieved successfully", page.Envelope("leads", "totalLeads"))
}

func (h *Handler) LeadByTransactionID(c *gin.Context) {
	lead, err := h.svc.Leads.ByTransactionID(c.Request.Context(), c.Param("transactionId"))
	if err != nil {
		renderError(c, h.logger, err, "Error fetching lead")
		return
	}
	if lead == nil {
		success(c, http.StatusOK, "lead not found", []interface{}{})
		return
	}
	success(c, http.StatusOK, "lead retrieved successfully", lead)
}

func (h *Handler) contactRoutes() resourceRoutes[models.Contact] {
	s := h.svc.Contacts
	return resourceRoutes[models.Contact]{
		name: "contact", idsKey: "contactIds", logger: h.logger,
		create: s.Create, createMany: s.CreateMany,
		get: s.Get, update: s.Update, remove: s.Delete,
		removeMany: s.DeleteMany, count: s.Count,
	}
}

func (h *Handler) ListContacts(c *gin.Context) {
	q := services.ContactQuery{Name: c.Query("name"), Email: c.Query("email")}
	page, err := h.svc.Contacts.List(c.Request.Context(), q, pageRequest(c, services.DefaultContactLimit))
	if err != nil {
		renderError(c, h.logger, err, "Error fetching contacts")
		return
	}
	success(c, http.StatusOK, "contacts retrieved successfully", page.Envelope("contact", "totalContacts"))
}

func (h *Handler) linkClickRoutes() resourceRoutes[models.LinkClick] {
	s := h.svc.LinkClicks
	return resourceRoutes[models.LinkClick]{
		name: "linkclick", idsKey: "ids", logger: h.logger,
		create: s.Create, createMany: s.CreateMany,
		get: s.Get, update: s.Update, remove: s.Delete,
		removeMany: s.DeleteMany, count: s.Count,
	}
}

func (h *Handler) ListLinkClicks(c *gin.Context) {
	q := services.LinkClickQuery{
		Name:        c.Query("name"),
		PhoneNumber: c.Query("phoneNumber"),
		PortalName:  c.Query("portalName"),
		LeaderCode:  c.Query("leaderCode"),
		Status:      c.Query("status"),
	}
	page, err := h.svc.LinkClicks.List(c.Request.Context(), q, pageRequest(c, services.DefaultLinkClickLimit))
	if err != nil {
		renderError(c, h.logger, err, "Error fetching linkclicks")
		return
	}
	success(c, http.StatusOK, "linkclicks retrieved successfully", page.Envelope("linkclicks", "totalLinkclicks"))
}

func (h *Handler) LinkClickPortalNames(c *gin.Context) {
	names, err := h.svc.LinkClicks.PortalNames(c.Request.Context())
	if err != nil {
		renderError(c, h.logger, err, "Error fetching portal names")
		return
	}
	success(c, http.StatusOK, "Portal names retrieved successfully", names)
}

func (h *Handler) registrationRoutes() resourceRoutes[models.Registration] {
	s := h.svc.Registrations
	return resourceRoutes[models.Registration]{
		name: "register", idsKey: "registerIds", logger: h.logger,
		create: s.Create, createMany: s.CreateMany,
		get: s.Get, update: s.Update, remove: s.Delete,
		removeMany: s.DeleteMany, count: s.Count,
	}
}

func (h *Handler) ListRegistrations(c *gin.Context) {
	q := services.RegistrationQuery{
		SearchQuery: c.Query("searchQuery"),
		LeaderCode:  c.Query("leaderCode"),
		PortalName:  c.Query("portalName"),
	}
	page, err := h.svc.Registrations.List(c.Request.Context(), q, pageRequest(c, services.DefaultRegistrationLimit))
	if err != nil {
		renderError(c, h.logger, err, "Error fetching registers")
		return
	}
	success(c, http.StatusOK, "registers retrieved successfully", page.Envelope("registers", "totalRegisters"))
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"growup-backend/middleware"
	"growup-backend/models"
	"growup-backend/services"
)

func (h *Handler) userRoutes() resourceRoutes[models.User] {
	s := h.svc.Users
	return resourceRoutes[models.User]{
		name: "user", idsKey: "ids", logger: h.logger,
		create: s.Create, createMany: s.CreateMany,
		get: s.Get, update: s.Update, remove: s.Delete,
		removeMany: s.DeleteMany, count: s.Count,
	}
}

// AddUser creates a user. Only an admin caller may create another admin.
func (h *Handler) AddUser(c *gin.Context) {
	var req models.User
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.Role == models.RoleAdmin && c.GetString(middleware.ContextUserRole) != models.RoleAdmin {
		renderError(c, h.logger, models.NewForbiddenError("Only an admin can create admin users."), "")
		return
	}
	u, err := h.svc.Users.Create(c.Request.Context(), &req)
	if err != nil {
		renderError(c, h.logger, err, "An unexpected error occurred while creating the user.")
		return
	}
	success(c, http.StatusCreated, "user created successfully", u)
}

func (h *Handler) ListUsers(c *gin.Context) {
	q := services.UserQuery{
		SearchQuery: c.Query("searchQuery"),
		Status:      c.Query("status"),
		LeaderCode:  c.Query("leaderCode"),
	}
	page, err := h.svc.Users.List(c.Request.Context(), q, pageRequest(c, services.DefaultUserLimit))
	if err != nil {
		renderError(c, h.logger, err, "Error fetching users")
		return
	}
	success(c, http.StatusOK, "users retrieved successfully", page.Envelope("users", "totalUsers"))
}

func (h *Handler) UserByLeaderCode(c *gin.Context) {
	u, err := h.svc.Users.ByLeaderCode(c.Request.Context(), c.Param("leaderCode"))
	if err != nil {
		renderError(c, h.logger, err, "Error fetching user")
		return
	}
	if u == nil {
		success(c, http.StatusOK, "leader code not found", []interface{}{})
		return
	}
	success(c, http.StatusOK, "leader code retrieved successfully", u)
}

func (h *Handler) UsersCount(c *gin.Context) {
	n, err := h.svc.Users.CountNonAdmin(c.Request.Context())
	if err != nil {
		renderError(c, h.logger, err, "Error fetching user count")
		return
	}
	success(c, http.StatusOK, "user count retrieved successfully", gin.H{"count": n})
}

func (h *Handler) TotalIncome(c *gin.Context) {
	total, err := h.svc.Users.TotalIncome(c.Request.Context())
	if err != nil {
		renderError(c, h.logger, err, "Error fetching total income")
		return
	}
	success(c, http.StatusOK, "Total income of all users retrieved successfully", gin.H{"totalIncome": total})
}

func (h *Handler) ClearAllIncome(c *gin.Context) {
	n, err := h.svc.Users.ClearAllIncome(c.Request.Context())
	if err != nil {
		renderError(c, h.logger, err, "Error clearing income")
		return
	}
	success(c, http.StatusOK, "Income of all users cleared successfully", gin.H{"usersIncomeCleared": n})
}

func (h *Handler) ToggleUserStatus(c *gin.Context) {
	u, err := h.svc.Users.ToggleStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, h.logger, err, "Error toggling user status")
		return
	}
	if u == nil {
		success(c, http.StatusOK, "User not found for status toggle", []interface{}{})
		return
	}
	success(c, http.StatusOK, "User status updated successfully", u)
}

func (h *Handler) Me(c *gin.Context) {
	u, err := h.svc.Users.Me(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		renderError(c, h.logger, err, "Error fetching user details")
		return
	}
	success(c, http.StatusOK, "User details retrieved successfully", u)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req models.UserProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}
	u, err := h.svc.Users.UpdateProfile(c.Request.Context(), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		renderError(c, h.logger, err, "Error updating user profile")
		return
	}
	success(c, http.StatusOK, "User profile updated successfully", u)
}

func (h *Handler) UpdateBank(c *gin.Context) {
	var req models.BankDetailsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}
	u, err := h.svc.Users.UpdateBank(c.Request.Context(), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		renderError(c, h.logger, err, "Error updating bank details")
		return
	}
	success(c, http.StatusOK, "Bank details updated successfully", u)
}

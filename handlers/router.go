package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"growup-backend/database"
	"growup-backend/middleware"
)

// NewRouter mounts every route under /v1 plus /health and /metrics.
func NewRouter(h *Handler, store *database.Store, limiter middleware.Limiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.SetupCORS(h.cfg))
	r.Use(middleware.SecurityMonitor(h.logger))
	if err := r.SetTrustedProxies(h.cfg.TrustedProxies); err != nil {
		h.logger.Sugar().Warnf("trusted proxies not applied: %v", err)
	}

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := store.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authn := middleware.AuthMiddleware(h.cfg, h.logger)
	admin := []gin.HandlerFunc{authn, middleware.AdminMiddleware(h.cfg)}
	limited := middleware.RateLimit(limiter, h.logger)
	all := database.All()

	v1 := r.Group("/v1")

	users := v1.Group("/users")
	{
		rr := h.userRoutes()
		users.POST("/addUser", middleware.OptionalAuth(h.cfg, h.logger), h.AddUser)
		users.POST("/addManyUser", append(admin, rr.CreateMany)...)
		users.GET("/getUser/:id", rr.Get)
		users.PUT("/updateUser/:id", append(admin, rr.Update)...)
		users.DELETE("/deleteUser/:id", append(admin, rr.Delete)...)
		users.DELETE("/deleteManyUsers", append(admin, rr.DeleteMany)...)
		users.GET("/getAllUsers", h.ListUsers)
		users.GET("/getLeaderCode/:leaderCode", h.UserByLeaderCode)
		users.POST("/login", limited, h.Login())
		users.GET("/me", authn, h.Me)
		users.PUT("/update-profile", authn, h.UpdateProfile)
		users.PUT("/update-bank", authn, h.UpdateBank)
		users.GET("/getUsersCount", h.UsersCount)
		users.GET("/getTotalIncome", h.TotalIncome)
		users.PUT("/clearAllIncome", append(admin, h.ClearAllIncome)...)
		users.PUT("/toggleStatus/:id", append(admin, h.ToggleUserStatus)...)
		users.DELETE("/deleteAllData", append(admin, h.DeleteAllData)...)
	}

	leads := v1.Group("/leads")
	{
		rr := h.leadRoutes()
		leads.POST("/addLead", rr.Create)
		leads.POST("/addManyLead", append(admin, rr.CreateMany)...)
		leads.GET("/getLead/:id", rr.Get)
		leads.PUT("/updateLead/:id", rr.Update)
		leads.DELETE("/deleteLead/:id", rr.Delete)
		leads.DELETE("/deleteManyLeads", append(admin, rr.DeleteMany)...)
		leads.GET("/getAllLeads", h.ListLeads)
		leads.GET("/getLeadsCount", rr.Count(all))
		leads.GET("/getLeadByTransactionId/:transactionId", h.LeadByTransactionID)
	}

	contacts := v1.Group("/contacts")
	{
		rr := h.contactRoutes()
		contacts.POST("/addContact", rr.Create)
		contacts.GET("/getContact/:id", rr.Get)
		contacts.PUT("/updateContact/:id", rr.Update)
		contacts.DELETE("/deleteContact/:id", rr.Delete)
		contacts.DELETE("/deleteManyContacts", append(admin, rr.DeleteMany)...)
		contacts.GET("/getAllContact", h.ListContacts)
	}

	clients := v1.Group("/clients")
	{
		rr := h.clientRoutes()
		clients.POST("/addClient", rr.Create)
		clients.POST("/addManyClient", append(admin, rr.CreateMany)...)
		clients.GET("/getClient/:id", rr.Get)
		clients.PUT("/updateClient/:id", append(admin, rr.Update)...)
		clients.DELETE("/deleteClient/:id", append(admin, rr.Delete)...)
		clients.DELETE("/deleteManyClients", append(admin, rr.DeleteMany)...)
		clients.GET("/getAllClient", h.ListClients)
		clients.GET("/getPortalNames", h.ClientPortalNames)
		clients.GET("/getClientsCount", rr.Count(all))
		clients.POST("/getClientsCountByDate", h.ClientsCountByDate)
		clients.GET("/getClientsByOwner/:phoneNumber", h.ClientsByOwner)
		clients.POST("/:clientId/distribute-commission", append(admin, h.DistributeCommission)...)
	}

	login := v1.Group("/auth", limited)
	{
		login.POST("/login", h.Login())
		login.POST("/login/user", h.LoginUser())
		login.POST("/login/admin", h.LoginAdmin())
		login.POST("/login/leader", h.LoginLeader)
	}

	session := v1.Group("/session")
	{
		session.GET("", authn, h.GetSession)
		session.PUT("", append(admin, h.UpdateSession)...)
	}

	link := v1.Group("/link")
	{
		link.POST("/add", append(admin, h.AddLink)...)
		link.GET("/portal/:slug", h.LinkByPortal)
		link.GET("/all", h.AllLinks)
		link.PATCH("/:id", append(admin, h.UpdateLink)...)
	}

	applink := v1.Group("/applink")
	{
		applink.POST("/create", append(admin, h.CreateAppLink)...)
		applink.GET("/all", h.AllAppLinks)
		applink.PATCH("/:id", append(admin, h.UpdateAppLink)...)
		applink.POST("/get-link", limited, h.AppLinkGetLink)
	}

	joinlink := v1.Group("/joinlink")
	{
		joinlink.POST("/create", append(admin, h.CreateJoinLink)...)
		joinlink.GET("/all", h.AllJoinLinks)
		joinlink.PATCH("/:id", append(admin, h.UpdateJoinLink)...)
		joinlink.POST("/get-link", h.JoinLinkGetLink)
	}

	restart := v1.Group("/restartdate")
	{
		restart.GET("/get", h.GetRestartDate)
		restart.POST("/set", append(admin, h.SetRestartDate)...)
	}

	registers := v1.Group("/registers")
	{
		rr := h.registrationRoutes()
		registers.POST("/addRegister", rr.Create)
		registers.GET("/getRegister/:id", rr.Get)
		registers.DELETE("/deleteRegister/:id", rr.Delete)
		registers.DELETE("/deleteManyRegisters", append(admin, rr.DeleteMany)...)
		registers.GET("/getAllRegisters", h.ListRegistrations)
		registers.GET("/getRegistersCount", rr.Count(all))
	}

	linkclicks := v1.Group("/linkclicks")
	{
		rr := h.linkClickRoutes()
		linkclicks.POST("/addLinkclick", rr.Create)
		linkclicks.GET("/getLinkclick/:id", rr.Get)
		linkclicks.PUT("/updateLinkclick/:id", rr.Update)
		linkclicks.DELETE("/deleteLinkclick/:id", rr.Delete)
		linkclicks.DELETE("/deleteManyLinkclicks", append(admin, rr.DeleteMany)...)
		linkclicks.GET("/getAllLinkclick", h.ListLinkClicks)
		linkclicks.GET("/getPortalNames", h.LinkClickPortalNames)
		linkclicks.GET("/getLinkclicksCount", rr.Count(all))
	}

	v1.GET("/count/admin-stats", append(admin, h.AdminStats)...)

	return r
}

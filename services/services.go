// Package services holds the business logic behind every route. Services
// return *models.AppError values that handlers render directly.
package services

import (
	"go.uber.org/zap"

	"growup-backend/config"
	"growup-backend/database"
)

type Services struct {
	Users         *UserService
	Clients       *ClientService
	Leads         *LeadService
	Contacts      *ContactService
	LinkClicks    *LinkClickService
	Registrations *RegistrationService
	Links         *LinkService
	AppLinks      *AppLinkService
	JoinLinks     *JoinLinkService
	Settings      *SettingsService
	Commission    *CommissionService
	Stats         *StatsService
	Auth          *AuthService
	Admin         *AdminService
}

func New(store *database.Store, cfg *config.Config, logger *zap.Logger) *Services {
	s := &Services{
		Users:         NewUserService(store.Users, store.Registrations, logger),
		Clients:       NewClientService(store.Clients, logger),
		Leads:         NewLeadService(store.Leads, logger),
		Contacts:      NewContactService(store.Contacts, logger),
		LinkClicks:    NewLinkClickService(store.LinkClicks, logger),
		Registrations: NewRegistrationService(store.Registrations, logger),
		Links:         NewLinkService(store.Links, logger),
		AppLinks:      NewAppLinkService(store.AppLinks, logger),
		JoinLinks:     NewJoinLinkService(store.JoinLinks, logger),
		Settings:      NewSettingsService(store.RestartDates, store.Sessions, logger),
		Commission:    NewCommissionService(store.Clients, store.Users, cfg.CommissionCut, cfg.CommissionDedupeOwner, logger),
		Stats:         NewStatsService(store, logger),
	}
	s.Auth = NewAuthService(cfg, store.Users, s.AppLinks, logger)
	s.Admin = NewAdminService(s.Users, s.Clients, s.Leads, logger)
	return s
}

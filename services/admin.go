package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"growup-backend/models"
)

type AdminService struct {
	users   *UserService
	clients *ClientService
	leads   *LeadService
	logger  *zap.Logger
}

func NewAdminService(users *UserService, clients *ClientService, leads *LeadService, logger *zap.Logger) *AdminService {
	return &AdminService{users: users, clients: clients, leads: leads, logger: logger.With(zap.String("service", "admin"))}
}

// DeleteAllData clears every user's income and deletes all clients and
// leads. The three run concurrently; the first error is returned after all
// of them finish, together with whatever did succeed.
func (s *AdminService) DeleteAllData(ctx context.Context) (*models.DeleteAllSummary, error) {
	var (
		summary models.DeleteAllSummary
		wg      sync.WaitGroup
		mu      sync.Mutex
		first   error
	)
	run := func(name string, fn func(context.Context) (int64, error), dst *int64) {
		defer wg.Done()
		n, err := fn(ctx)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			s.logger.Error("delete all data step failed", zap.String("step", name), zap.Error(err))
			if first == nil {
				first = err
			}
			return
		}
		*dst = n
	}

	wg.Add(3)
	go run("clear income", s.users.ClearAllIncome, &summary.UsersIncomeCleared)
	go run("delete clients", s.clients.DeleteAll, &summary.ClientsDeleted)
	go run("delete leads", s.leads.DeleteAll, &summary.LeadsDeleted)
	wg.Wait()

	if first != nil {
		return &summary, first
	}
	s.logger.Info("all data cleared",
		zap.Int64("usersIncomeCleared", summary.UsersIncomeCleared),
		zap.Int64("clientsDeleted", summary.ClientsDeleted),
		zap.Int64("leadsDeleted", summary.LeadsDeleted))
	return &summary, nil
}

package services

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"growup-backend/database"
	"growup-backend/models"
	"growup-backend/pagination"
)

type ClientService struct {
	*Resource[models.Client, *models.Client]
	coll database.Collection[models.Client]
}

func NewClientService(coll database.Collection[models.Client], logger *zap.Logger) *ClientService {
	r := NewResource[models.Client, *models.Client]("client", coll, logger).WithDefaults(func(c *models.Client) {
		if c.Status == "" {
			c.Status = models.ClientStatusNew
		}
		if c.OwnerName == nil {
			c.OwnerName = []string{}
		}
		if c.OwnerNumber == nil {
			c.OwnerNumber = []string{}
		}
	})
	return &ClientService{Resource: r, coll: coll}
}

// Update applies set to the client. isApproved is owned by commission
// distribution and cannot be changed here.
func (s *ClientService) Update(ctx context.Context, id string, set bson.M) (*models.Client, error) {
	delete(set, "isApproved")
	return s.Resource.Update(ctx, id, set)
}

func (s *ClientService) List(ctx context.Context, q ClientQuery, req pagination.Request) (pagination.Page[models.Client], error) {
	return s.Resource.List(ctx, q.Filter(), req, newestFirst...)
}

// PortalNames returns every distinct, non-empty portal name in use.
func (s *ClientService) PortalNames(ctx context.Context) ([]string, error) {
	values, err := s.coll.Distinct(ctx, "portalName", database.All())
	if err != nil {
		return nil, s.fail("list portal names of", err)
	}
	names := stringValues(values)
	sort.Strings(names)
	return names, nil
}

func (s *ClientService) CountByDate(ctx context.Context, start, end time.Time) (int64, error) {
	return s.CountCreatedBetween(ctx, start, end)
}

// ByOwner groups the clients credited to phoneNumber by portal.
func (s *ClientService) ByOwner(ctx context.Context, phoneNumber string) ([]models.PortalClients, error) {
	if phoneNumber == "" {
		return nil, models.NewValidationError("phoneNumber", "phoneNumber is required.")
	}
	clients, err := s.coll.Find(ctx, database.Eq("ownerNumber", phoneNumber), database.FindOptions{Sort: newestFirst})
	if err != nil {
		return nil, s.fail("fetch owner clients of", err)
	}

	groups := []models.PortalClients{}
	index := map[string]int{}
	for _, c := range clients {
		i, ok := index[c.PortalName]
		if !ok {
			i = len(groups)
			index[c.PortalName] = i
			groups = append(groups, models.PortalClients{PortalName: c.PortalName, Clients: []models.Client{}})
		}
		groups[i].Clients = append(groups[i].Clients, c)
		groups[i].Count++
	}
	return groups, nil
}

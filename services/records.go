package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"growup-backend/database"
	"growup-backend/models"
	"growup-backend/pagination"
)

type LeadService struct {
	*Resource[models.Lead, *models.Lead]
	coll database.Collection[models.Lead]
}

func NewLeadService(coll database.Collection[models.Lead], logger *zap.Logger) *LeadService {
	r := NewResource[models.Lead, *models.Lead]("lead", coll, logger).WithDefaults(func(l *models.Lead) {
		if l.Status == "" {
			l.Status = models.LeadStatusNew
		}
	})
	return &LeadService{Resource: r, coll: coll}
}

func (s *LeadService) List(ctx context.Context, q LeadQuery, req pagination.Request) (pagination.Page[models.Lead], error) {
	return s.Resource.List(ctx, q.Filter(), req, newestFirst...)
}

// ByTransactionID returns nil when no lead carries the transaction id.
func (s *LeadService) ByTransactionID(ctx context.Context, transactionID string) (*models.Lead, error) {
	if transactionID == "" {
		return nil, models.NewValidationError("transactionId", "transactionId is required.")
	}
	lead, err := s.coll.FindOne(ctx, database.Eq("transactionId", transactionID))
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("fetch", err)
	}
	return lead, nil
}

type ContactService struct {
	*Resource[models.Contact, *models.Contact]
}

func NewContactService(coll database.Collection[models.Contact], logger *zap.Logger) *ContactService {
	return &ContactService{Resource: NewResource[models.Contact, *models.Contact]("contact", coll, logger)}
}

func (s *ContactService) List(ctx context.Context, q ContactQuery, req pagination.Request) (pagination.Page[models.Contact], error) {
	return s.Resource.List(ctx, q.Filter(), req, newestFirst...)
}

type LinkClickService struct {
	*Resource[models.LinkClick, *models.LinkClick]
	coll database.Collection[models.LinkClick]
}

func NewLinkClickService(coll database.Collection[models.LinkClick], logger *zap.Logger) *LinkClickService {
	r := NewResource[models.LinkClick, *models.LinkClick]("link click", coll, logger).WithDefaults(func(l *models.LinkClick) {
		if l.Status == "" {
			l.Status = models.LinkClickComplete
		}
	})
	return &LinkClickService{Resource: r, coll: coll}
}

func (s *LinkClickService) List(ctx context.Context, q LinkClickQuery, req pagination.Request) (pagination.Page[models.LinkClick], error) {
	return s.Resource.List(ctx, q.Filter(), req, newestFirst...)
}

func (s *LinkClickService) PortalNames(ctx context.Context) ([]string, error) {
	values, err := s.coll.Distinct(ctx, "portalName", database.All())
	if err != nil {
		return nil, s.fail("list portal names of", err)
	}
	return stringValues(values), nil
}

type RegistrationService struct {
	*Resource[models.Registration, *models.Registration]
}

func NewRegistrationService(coll database.Collection[models.Registration], logger *zap.Logger) *RegistrationService {
	return &RegistrationService{Resource: NewResource[models.Registration, *models.Registration]("registration", coll, logger)}
}

func (s *RegistrationService) List(ctx context.Context, q RegistrationQuery, req pagination.Request) (pagination.Page[models.Registration], error) {
	return s.Resource.List(ctx, q.Filter(), req, newestFirst...)
}

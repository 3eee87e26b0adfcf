package services

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"growup-backend/database"
	"growup-backend/models"
)

var clockPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// SettingsService keeps the two singleton documents: the restart date and
// the global session schedule.
type SettingsService struct {
	restartDates database.Collection[models.RestartDate]
	sessions     database.Collection[models.GlobalSession]
	logger       *zap.Logger
	now          func() time.Time
}

func NewSettingsService(restartDates database.Collection[models.RestartDate], sessions database.Collection[models.GlobalSession], logger *zap.Logger) *SettingsService {
	return &SettingsService{
		restartDates: restartDates,
		sessions:     sessions,
		logger:       logger.With(zap.String("service", "settings")),
		now:          time.Now,
	}
}

// RestartDate returns nil when it has not been set yet.
func (s *SettingsService) RestartDate(ctx context.Context) (*models.RestartDate, error) {
	rd, err := s.restartDates.FindOne(ctx, database.Eq("identifier", models.RestartDateIdentifier))
	if errors.Is(err, database.ErrNotFound) {
		s.logger.Info("restart date has not been set yet")
		return nil, nil
	}
	if err != nil {
		s.logger.Error("failed to fetch restart date", zap.Error(err))
		return nil, models.NewInternalError("Error fetching restart date", err)
	}
	return rd, nil
}

func (s *SettingsService) SetRestartDate(ctx context.Context, value string) (*models.RestartDate, error) {
	date, err := ParseDate("restartDate", value)
	if err != nil {
		return nil, err
	}
	now := s.now()
	rd, err := s.restartDates.Upsert(ctx, "identifier", models.RestartDateIdentifier,
		bson.M{"restartDate": date, "updatedOn": now},
		bson.M{"createdOn": now})
	if err != nil {
		s.logger.Error("failed to set restart date", zap.Error(err))
		return nil, models.NewInternalError("Error setting restart date", err)
	}
	s.logger.Info("restart date set", zap.Time("restartDate", date))
	return rd, nil
}

// Session returns nil when no schedule has been saved.
func (s *SettingsService) Session(ctx context.Context) (*models.GlobalSession, error) {
	gs, err := s.sessions.FindOne(ctx, database.Eq("name", models.GlobalSessionName))
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("failed to fetch global session", zap.Error(err))
		return nil, models.NewInternalError("Error fetching global session", err)
	}
	return gs, nil
}

// SessionInput holds the editable schedule fields. Absent fields are left
// unchanged and an empty date clears it.
type SessionInput struct {
	SessionStartDate *string `json:"sessionStartDate"`
	SessionStartTime *string `json:"sessionStartTime"`
	SessionEndDate   *string `json:"sessionEndDate"`
	SessionEndTime   *string `json:"sessionEndTime"`
	IsActive         *bool   `json:"isActive"`
}

func (s *SettingsService) UpdateSession(ctx context.Context, in SessionInput) (*models.GlobalSession, error) {
	set := bson.M{}
	for field, value := range map[string]*string{"sessionStartDate": in.SessionStartDate, "sessionEndDate": in.SessionEndDate} {
		if value == nil {
			continue
		}
		if *value == "" {
			set[field] = nil
			continue
		}
		date, err := ParseDate(field, *value)
		if err != nil {
			return nil, validationFailed(err)
		}
		set[field] = date
	}
	for field, value := range map[string]*string{"sessionStartTime": in.SessionStartTime, "sessionEndTime": in.SessionEndTime} {
		if value == nil {
			continue
		}
		if *value != "" && !clockPattern.MatchString(*value) {
			return nil, &models.AppError{
				Kind:    models.KindValidation,
				Code:    "VALIDATION_ERROR",
				Field:   field,
				Message: field + " must be in HH:MM format.",
			}
		}
		set[field] = *value
	}
	if in.IsActive != nil {
		set["isActive"] = *in.IsActive
	}

	now := s.now()
	set["updatedOn"] = now
	gs, err := s.sessions.Upsert(ctx, "name", models.GlobalSessionName, set, bson.M{"createdOn": now})
	if err != nil {
		s.logger.Error("failed to update global session", zap.Error(err))
		return nil, models.NewInternalError("Error updating global session", err)
	}
	s.logger.Info("global session updated")
	return gs, nil
}

func validationFailed(err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		appErr.Code = "VALIDATION_ERROR"
	}
	return err
}

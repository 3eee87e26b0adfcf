package services

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"growup-backend/auth"
	"growup-backend/database"
	"growup-backend/models"
	"growup-backend/pagination"
)

type UserService struct {
	*Resource[models.User, *models.User]
	coll          database.Collection[models.User]
	registrations database.Collection[models.Registration]
	logger        *zap.Logger
}

func NewUserService(coll database.Collection[models.User], registrations database.Collection[models.Registration], logger *zap.Logger) *UserService {
	r := NewResource[models.User, *models.User]("user", coll, logger).WithDefaults(func(u *models.User) {
		if u.Role == "" {
			u.Role = models.RoleUser
		}
		if u.Status == "" {
			u.Status = models.UserStatusActive
		}
	})
	return &UserService{
		Resource:      r,
		coll:          coll,
		registrations: registrations,
		logger:        logger.With(zap.String("service", "users")),
	}
}

func validateNewUser(u *models.User) error {
	u.Email = strings.TrimSpace(strings.ToLower(u.Email))
	switch {
	case strings.TrimSpace(u.Name) == "":
		return models.NewValidationError("name", "name is a required field.")
	case u.Email == "":
		return models.NewValidationError("email", "email is a required field.")
	case u.Password == "":
		return models.NewValidationError("password", "password is a required field.")
	case strings.TrimSpace(u.PhoneNumber) == "":
		return models.NewValidationError("phoneNumber", "phoneNumber is a required field.")
	case u.Role == "":
		return models.NewValidationError("role", "role is a required field.")
	case u.Role != models.RoleAdmin && u.Role != models.RoleUser:
		return models.NewValidationError("role", "role must be either admin or user.")
	}
	return nil
}

// Create validates the user and stores the password as a bcrypt hash.
func (s *UserService) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if err := validateNewUser(u); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(u.Password)
	if err != nil {
		return nil, models.NewInternalError("Error trying to create user", err)
	}
	u.Password = hash
	created, err := s.Resource.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	public := created.Public()
	return &public, nil
}

func (s *UserService) CreateMany(ctx context.Context, users []models.User) (database.InsertManyResult, error) {
	for i := range users {
		if err := validateNewUser(&users[i]); err != nil {
			return database.InsertManyResult{}, err
		}
		hash, err := auth.HashPassword(users[i].Password)
		if err != nil {
			return database.InsertManyResult{}, models.NewInternalError("Error trying to create users", err)
		}
		users[i].Password = hash
	}
	return s.Resource.CreateMany(ctx, users)
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return public(s.Resource.Get(ctx, id))
}

// Update applies set, hashing a supplied password first. Income moves only
// through commission distribution and ClearAllIncome, so it is dropped here.
func (s *UserService) Update(ctx context.Context, id string, set bson.M) (*models.User, error) {
	delete(set, "income")
	if pw, ok := set["password"].(string); ok {
		if pw == "" {
			delete(set, "password")
		} else {
			hash, err := auth.HashPassword(pw)
			if err != nil {
				return nil, models.NewInternalError("Error trying to update user", err)
			}
			set["password"] = hash
		}
	}
	if email, ok := set["email"].(string); ok {
		set["email"] = strings.TrimSpace(strings.ToLower(email))
	}
	return public(s.Resource.Update(ctx, id, set))
}

func (s *UserService) Delete(ctx context.Context, id string) (*models.User, error) {
	return public(s.Resource.Delete(ctx, id))
}

// List pages over non-admin users and attaches the registration count of
// each returned user's leader code.
func (s *UserService) List(ctx context.Context, q UserQuery, req pagination.Request) (pagination.Page[models.UserListItem], error) {
	page, err := s.Resource.List(ctx, q.Filter(), req, newestFirst...)
	if err != nil {
		return pagination.Page[models.UserListItem]{}, err
	}

	codes := make([]string, 0, len(page.Records))
	for _, u := range page.Records {
		if u.LeaderCode != "" {
			codes = append(codes, u.LeaderCode)
		}
	}
	counts := map[string]int64{}
	if len(codes) > 0 {
		counts, err = s.registrations.CountBy(ctx, "leaderCode", database.In("leaderCode", codes))
		if err != nil {
			s.logger.Error("failed to count registrations per leader code", zap.Error(err))
			return pagination.Page[models.UserListItem]{}, models.NewInternalError("read failure", err)
		}
	}

	return pagination.Map(page, func(u models.User) models.UserListItem {
		item := models.UserListItem{User: u.Public()}
		if u.LeaderCode != "" {
			item.RegisteredClientCount = counts[u.LeaderCode]
		}
		return item
	}), nil
}

// ByLeaderCode returns nil when no user owns the code.
func (s *UserService) ByLeaderCode(ctx context.Context, code string) (*models.User, error) {
	if code == "" {
		return nil, models.NewValidationError("leaderCode", "leaderCode is required.")
	}
	u, err := s.coll.FindOne(ctx, database.Eq("leaderCode", code))
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("fetch", err)
	}
	p := u.Public()
	return &p, nil
}

// Me returns the authenticated user. A missing user is NotFound here since
// the caller holds a token for it.
func (s *UserService) Me(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, models.NewNotFoundError("User not found")
	}
	return u, nil
}

func (s *UserService) CountNonAdmin(ctx context.Context) (int64, error) {
	return s.Count(ctx, database.Ne("role", models.RoleAdmin))
}

func (s *UserService) TotalIncome(ctx context.Context) (float64, error) {
	total, err := s.coll.Sum(ctx, "income", database.All())
	if err != nil {
		return 0, s.fail("sum income of", err)
	}
	return total, nil
}

// ClearAllIncome resets every user's income to zero and returns how many
// users changed.
func (s *UserService) ClearAllIncome(ctx context.Context) (int64, error) {
	res, err := s.coll.UpdateMany(ctx, database.All(), database.Update{
		Set: bson.M{"income": 0.0, "updatedOn": s.now()},
	})
	if err != nil {
		return 0, s.fail("clear income of", err)
	}
	s.logger.Info("income cleared", zap.Int64("matched", res.Matched))
	return res.Matched, nil
}

func (s *UserService) ToggleStatus(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Resource.Get(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}
	next := models.UserStatusActive
	if u.Status == models.UserStatusActive {
		next = models.UserStatusInactive
	}
	return s.Update(ctx, id, bson.M{"status": next})
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, in models.UserProfileUpdate) (*models.User, error) {
	set := bson.M{}
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.PhoneNumber != nil {
		set["phoneNumber"] = *in.PhoneNumber
	}
	if in.Email != nil {
		set["email"] = *in.Email
	}
	if len(set) == 0 {
		return nil, models.NewValidationError("body", "No profile fields supplied.")
	}
	return s.updateSelf(ctx, id, set)
}

func (s *UserService) UpdateBank(ctx context.Context, id string, in models.BankDetailsUpdate) (*models.User, error) {
	set := bson.M{}
	if in.AccountNumber != nil {
		set["accountNumber"] = *in.AccountNumber
	}
	if in.IfscCode != nil {
		set["ifscCode"] = strings.ToUpper(*in.IfscCode)
	}
	if in.UpiID != nil {
		set["upiId"] = *in.UpiID
	}
	if len(set) == 0 {
		return nil, models.NewValidationError("body", "No bank details supplied.")
	}
	return s.updateSelf(ctx, id, set)
}

func (s *UserService) updateSelf(ctx context.Context, id string, set bson.M) (*models.User, error) {
	u, err := s.Update(ctx, id, set)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, models.NewNotFoundError("User not found")
	}
	return u, nil
}

func public(u *models.User, err error) (*models.User, error) {
	if err != nil || u == nil {
		return nil, err
	}
	p := u.Public()
	return &p, nil
}

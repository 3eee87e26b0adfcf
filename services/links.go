package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"growup-backend/auth"
	"growup-backend/database"
	"growup-backend/models"
)

var oldestFirst = []database.SortField{{Field: "createdOn"}, {Field: "_id"}}

type LinkService struct {
	*Resource[models.Link, *models.Link]
	coll database.Collection[models.Link]
}

func NewLinkService(coll database.Collection[models.Link], logger *zap.Logger) *LinkService {
	return &LinkService{Resource: NewResource[models.Link, *models.Link]("link", coll, logger), coll: coll}
}

func (s *LinkService) Create(ctx context.Context, l *models.Link) (*models.Link, error) {
	l.PortalName = strings.TrimSpace(l.PortalName)
	if l.PortalName == "" || strings.TrimSpace(l.Link) == "" {
		return nil, models.NewValidationError("portalName", "portalName and link are required.")
	}
	created, err := s.Resource.Create(ctx, l)
	if models.KindOf(err) == models.KindConflict {
		return nil, models.NewConflictError("portalName", fmt.Sprintf("The portal name '%s' is already in use.", l.PortalName))
	}
	return created, err
}

func (s *LinkService) All(ctx context.Context) ([]models.Link, error) {
	links, err := s.coll.Find(ctx, database.All(), database.FindOptions{Sort: oldestFirst})
	if err != nil {
		return nil, s.fail("list", err)
	}
	return links, nil
}

// ByPortal returns the link of a portal, or NotFound.
func (s *LinkService) ByPortal(ctx context.Context, portalName string) (*models.Link, error) {
	l, err := s.coll.FindOne(ctx, database.Eq("portalName", portalName))
	if errors.Is(err, database.ErrNotFound) {
		return nil, models.NewNotFoundError(fmt.Sprintf("No link found for portal '%s'.", portalName))
	}
	if err != nil {
		return nil, s.fail("fetch", err)
	}
	return l, nil
}

func (s *LinkService) Update(ctx context.Context, id string, set bson.M) (*models.Link, error) {
	if len(set) == 0 {
		return nil, models.NewValidationError("body", "Request body cannot be empty.")
	}
	updated, err := s.Resource.Update(ctx, id, set)
	if models.KindOf(err) == models.KindConflict {
		return nil, models.NewConflictError("portalName", fmt.Sprintf("The portal name '%v' is already in use.", set["portalName"]))
	}
	if err == nil && updated == nil {
		return nil, models.NewNotFoundError("Link not found.")
	}
	return updated, err
}

type AppLinkService struct {
	*Resource[models.AppLink, *models.AppLink]
	coll database.Collection[models.AppLink]
}

func NewAppLinkService(coll database.Collection[models.AppLink], logger *zap.Logger) *AppLinkService {
	return &AppLinkService{Resource: NewResource[models.AppLink, *models.AppLink]("app link", coll, logger), coll: coll}
}

// AppLinkInput carries the plaintext password the JSON form of AppLink hides.
type AppLinkInput struct {
	AppName  string `json:"appName"`
	Password string `json:"password"`
	Link     string `json:"link"`
}

func (s *AppLinkService) Create(ctx context.Context, in AppLinkInput) (*models.AppLink, error) {
	in.AppName = strings.TrimSpace(in.AppName)
	if in.AppName == "" || in.Password == "" || strings.TrimSpace(in.Link) == "" {
		return nil, models.NewValidationError("appName", "appName, password and link are required.")
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError("Error trying to create app link", err)
	}
	created, err := s.Resource.Create(ctx, &models.AppLink{AppName: in.AppName, Password: hash, Link: in.Link})
	if models.KindOf(err) == models.KindConflict {
		return nil, appNameTaken(in.AppName)
	}
	return created, err
}

func (s *AppLinkService) All(ctx context.Context) ([]models.AppLink, error) {
	links, err := s.coll.Find(ctx, database.All(), database.FindOptions{Sort: oldestFirst})
	if err != nil {
		return nil, s.fail("list", err)
	}
	return links, nil
}

// Update changes any of appName, password and link. An empty password keeps
// the current one.
func (s *AppLinkService) Update(ctx context.Context, id string, in AppLinkInput) (*models.AppLink, error) {
	set := bson.M{}
	if name := strings.TrimSpace(in.AppName); name != "" {
		set["appName"] = name
	}
	if in.Link != "" {
		set["link"] = in.Link
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, models.NewInternalError("Error trying to update app link", err)
		}
		set["password"] = hash
	}
	if len(set) == 0 {
		return nil, models.NewValidationError("body", "Request body cannot be empty.")
	}
	updated, err := s.Resource.Update(ctx, id, set)
	if models.KindOf(err) == models.KindConflict {
		return nil, appNameTaken(in.AppName)
	}
	if err == nil && updated == nil {
		return nil, models.NewNotFoundError("AppLink not found.")
	}
	return updated, err
}

// GetLink returns the portal behind appName when password matches it.
func (s *AppLinkService) GetLink(ctx context.Context, appName, password string) (*models.PortalAccess, error) {
	if appName == "" || password == "" {
		return nil, models.NewValidationError("appName", "appName and password are required.")
	}
	l, err := s.coll.FindOne(ctx, database.Eq("appName", appName))
	if errors.Is(err, database.ErrNotFound) {
		return nil, models.NewAuthenticationError("Invalid credentials provided.")
	}
	if err != nil {
		return nil, s.fail("fetch", err)
	}
	if !auth.CheckPasswordHash(password, l.Password) {
		return nil, models.NewAuthenticationError("Invalid credentials provided.")
	}
	return &models.PortalAccess{AppName: l.AppName, Link: l.Link}, nil
}

// Matching returns every portal whose password is password.
func (s *AppLinkService) Matching(ctx context.Context, password string) ([]models.PortalAccess, error) {
	links, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.PortalAccess{}
	for _, l := range links {
		if auth.CheckPasswordHash(password, l.Password) {
			out = append(out, models.PortalAccess{AppName: l.AppName, Link: l.Link})
		}
	}
	return out, nil
}

// CheckPassword reports whether password opens the app link named appName.
func (s *AppLinkService) CheckPassword(ctx context.Context, appName, password string) (bool, error) {
	l, err := s.coll.FindOne(ctx, database.Eq("appName", appName))
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, s.fail("fetch", err)
	}
	return auth.CheckPasswordHash(password, l.Password), nil
}

func appNameTaken(name string) error {
	return models.NewConflictError("appName", fmt.Sprintf("The app name '%s' is already in use.", name))
}

type JoinLinkService struct {
	*Resource[models.JoinLink, *models.JoinLink]
	coll database.Collection[models.JoinLink]
}

func NewJoinLinkService(coll database.Collection[models.JoinLink], logger *zap.Logger) *JoinLinkService {
	return &JoinLinkService{Resource: NewResource[models.JoinLink, *models.JoinLink]("join link", coll, logger), coll: coll}
}

func (s *JoinLinkService) Create(ctx context.Context, l *models.JoinLink) (*models.JoinLink, error) {
	l.AppName = strings.TrimSpace(l.AppName)
	if l.AppName == "" || strings.TrimSpace(l.Link) == "" {
		return nil, models.NewValidationError("appName", "appName and link are required.")
	}
	created, err := s.Resource.Create(ctx, l)
	if models.KindOf(err) == models.KindConflict {
		return nil, appNameTaken(l.AppName)
	}
	return created, err
}

func (s *JoinLinkService) All(ctx context.Context) ([]models.JoinLink, error) {
	links, err := s.coll.Find(ctx, database.All(), database.FindOptions{Sort: oldestFirst})
	if err != nil {
		return nil, s.fail("list", err)
	}
	return links, nil
}

// UpdateLink replaces the link of a join link.
func (s *JoinLinkService) UpdateLink(ctx context.Context, id, link string) (*models.JoinLink, error) {
	if strings.TrimSpace(link) == "" {
		return nil, models.NewValidationError("link", "link is a required field.")
	}
	updated, err := s.Resource.Update(ctx, id, bson.M{"link": link})
	if err == nil && updated == nil {
		return nil, models.NewNotFoundError("Joinlink not found.")
	}
	return updated, err
}

func (s *JoinLinkService) GetLink(ctx context.Context, appName string) (*models.PortalAccess, error) {
	if appName == "" {
		return nil, models.NewValidationError("appName", "appName is required.")
	}
	l, err := s.coll.FindOne(ctx, database.Eq("appName", appName))
	if errors.Is(err, database.ErrNotFound) {
		return nil, models.NewAuthenticationError("Invalid app name provided.")
	}
	if err != nil {
		return nil, s.fail("fetch", err)
	}
	return &models.PortalAccess{AppName: l.AppName, Link: l.Link}, nil
}

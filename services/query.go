package services

import (
	"strings"
	"time"

	"growup-backend/database"
	"growup-backend/models"
)

// Default page sizes per listing.
const (
	DefaultUserLimit         = 8
	DefaultClientLimit       = 8
	DefaultLeadLimit         = 15
	DefaultLinkClickLimit    = 15
	DefaultContactLimit      = 20
	DefaultRegistrationLimit = 15
)

// search matches name or email containing q, ignoring case.
func search(q string) database.Filter {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}
	return database.Or(database.Contains("name", q), database.Contains("email", q))
}

func eqIf(field, value string) database.Filter {
	if value == "" {
		return nil
	}
	return database.Eq(field, value)
}

func containsIf(field, value string) database.Filter {
	if value == "" {
		return nil
	}
	return database.Contains(field, value)
}

// foldIf matches phone-like identifiers exactly, ignoring case.
func foldIf(field, value string) database.Filter {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return database.EqualFold(field, value)
}

type UserQuery struct {
	SearchQuery string
	Status      string
	LeaderCode  string
}

// Filter never matches admins: the user listing is for referrers only.
func (q UserQuery) Filter() database.Filter {
	return database.And(
		database.Ne("role", models.RoleAdmin),
		search(q.SearchQuery),
		eqIf("status", q.Status),
		eqIf("leaderCode", q.LeaderCode),
	)
}

type ClientQuery struct {
	SearchQuery string
	Status      string
	PortalName  string
	PhoneNumber string
	LeaderCode  string
}

func (q ClientQuery) Filter() database.Filter {
	return database.And(
		search(q.SearchQuery),
		eqIf("status", q.Status),
		eqIf("portalName", q.PortalName),
		foldIf("phoneNumber", q.PhoneNumber),
		eqIf("leaderCode", q.LeaderCode),
	)
}

type LeadQuery struct {
	SearchQuery string
	Status      string
	PortalName  string
	LeaderCode  string
}

func (q LeadQuery) Filter() database.Filter {
	return database.And(
		search(q.SearchQuery),
		eqIf("status", q.Status),
		eqIf("portalName", q.PortalName),
		eqIf("leaderCode", q.LeaderCode),
	)
}

type ContactQuery struct {
	Name  string
	Email string
}

func (q ContactQuery) Filter() database.Filter {
	return database.And(
		containsIf("name", q.Name),
		containsIf("email", q.Email),
	)
}

type LinkClickQuery struct {
	Name        string
	PhoneNumber string
	PortalName  string
	LeaderCode  string
	Status      string
}

func (q LinkClickQuery) Filter() database.Filter {
	return database.And(
		containsIf("name", q.Name),
		foldIf("phoneNumber", q.PhoneNumber),
		eqIf("portalName", q.PortalName),
		eqIf("leaderCode", q.LeaderCode),
		eqIf("status", q.Status),
	)
}

type RegistrationQuery struct {
	SearchQuery string
	LeaderCode  string
	PortalName  string
}

func (q RegistrationQuery) Filter() database.Filter {
	return database.And(
		search(q.SearchQuery),
		eqIf("leaderCode", q.LeaderCode),
		eqIf("portalName", q.PortalName),
	)
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate accepts an RFC 3339 timestamp or a plain calendar date.
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, models.NewValidationError(field, field+" is a required field.")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, models.NewValidationError(field, "The provided "+field+" is not a valid date.")
}

// stringValues keeps the non-empty strings of a distinct result.
func stringValues(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

package models

import "time"

const (
	LinkClickComplete   = "complete"
	LinkClickIncomplete = "inComplete"
)

type Link struct {
	Base       `bson:",inline"`
	PortalName string `json:"portalName" bson:"portalName,omitempty"`
	Link       string `json:"link" bson:"link"`
}

type LinkClick struct {
	Base        `bson:",inline"`
	Name        string `json:"name" bson:"name"`
	Email       string `json:"email" bson:"email"`
	PhoneNumber string `json:"phoneNumber" bson:"phoneNumber,omitempty"`
	LeaderCode  string `json:"leaderCode" bson:"leaderCode"`
	PortalName  string `json:"portalName" bson:"portalName"`
	Status      string `json:"status" bson:"status"`
	Reason      string `json:"reason" bson:"reason"`
}

// AppLink gates a portal link behind a password. The password is stored as a
// bcrypt hash and never serialized.
type AppLink struct {
	Base     `bson:",inline"`
	AppName  string `json:"appName" bson:"appName,omitempty"`
	Password string `json:"-" bson:"password"`
	Link     string `json:"link" bson:"link"`
}

type JoinLink struct {
	Base    `bson:",inline"`
	AppName string `json:"appName" bson:"appName,omitempty"`
	Link    string `json:"link" bson:"link"`
}

// PortalAccess is what a leader sees after a password login.
type PortalAccess struct {
	AppName string `json:"appName"`
	Link    string `json:"link"`
}

const (
	RestartDateIdentifier = "GLOBAL_RESTART_DATE"
	GlobalSessionName     = "global_session_schedule"
)

type RestartDate struct {
	Base        `bson:",inline"`
	Identifier  string    `json:"identifier" bson:"identifier"`
	RestartDate time.Time `json:"restartDate" bson:"restartDate"`
}

type GlobalSession struct {
	Base             `bson:",inline"`
	Name             string     `json:"name" bson:"name"`
	SessionStartDate *time.Time `json:"sessionStartDate" bson:"sessionStartDate"`
	SessionStartTime string     `json:"sessionStartTime" bson:"sessionStartTime"`
	SessionEndDate   *time.Time `json:"sessionEndDate" bson:"sessionEndDate"`
	SessionEndTime   string     `json:"sessionEndTime" bson:"sessionEndTime"`
	IsActive         bool       `json:"isActive" bson:"isActive"`
}

package models

const (
	LeadStatusNew           = "New"
	LeadStatusContacted     = "Contacted"
	LeadStatusNotInterested = "NotInterested"
	LeadStatusRegistered    = "RegisterationDone"
)

type Lead struct {
	Base          `bson:",inline"`
	Name          string   `json:"name" bson:"name"`
	Email         string   `json:"email" bson:"email"`
	PhoneNumber   string   `json:"phoneNumber" bson:"phoneNumber"`
	Qualification string   `json:"qualification" bson:"qualification"`
	Source        string   `json:"source" bson:"source"`
	PortalName    string   `json:"portalName" bson:"portalName"`
	DateOfBirth   string   `json:"dateOfBirth" bson:"dateOfBirth"`
	City          string   `json:"city" bson:"city"`
	Gender        string   `json:"gender" bson:"gender"`
	Status        string   `json:"status" bson:"status"`
	Message       string   `json:"message" bson:"message"`
	Reason        string   `json:"reason" bson:"reason"`
	OwnerNumber   []string `json:"ownerNumber" bson:"ownerNumber"`
	OwnerName     []string `json:"ownerName" bson:"ownerName"`
	LeaderCode    string   `json:"leaderCode" bson:"leaderCode"`
	TransactionID string   `json:"transactionId" bson:"transactionId"`
}

type Contact struct {
	Base        `bson:",inline"`
	Name        string `json:"name" bson:"name"`
	Email       string `json:"email" bson:"email"`
	PhoneNumber string `json:"phoneNumber" bson:"phoneNumber"`
	Message     string `json:"message" bson:"message"`
	Status      string `json:"status" bson:"status"`
	Reason      string `json:"reason" bson:"reason"`
}

// Registration records a sign-up attributed to a leader code.
type Registration struct {
	Base        `bson:",inline"`
	Name        string `json:"name" bson:"name"`
	Email       string `json:"email" bson:"email"`
	PhoneNumber string `json:"phoneNumber" bson:"phoneNumber"`
	LeaderCode  string `json:"leaderCode" bson:"leaderCode"`
	PortalName  string `json:"portalName" bson:"portalName"`
}

// Transaction is read only here; admin stats count and sum it.
type Transaction struct {
	Base   `bson:",inline"`
	Amount float64 `json:"amount" bson:"amount"`
}

package models

const (
	ClientStatusNew               = "New"
	ClientStatusRegisterationDone = "RegisterationDone"
	ClientStatusCallCut           = "CallCut"
	ClientStatusCallNotPickUp     = "CallNotPickUp"
	ClientStatusNotInterested     = "NotInterested"
	ClientStatusInvalidNumber     = "InvalidNumber"
)

var ClientStatuses = []string{
	ClientStatusNew,
	ClientStatusRegisterationDone,
	ClientStatusCallCut,
	ClientStatusCallNotPickUp,
	ClientStatusNotInterested,
	ClientStatusInvalidNumber,
}

// Client is a prospect introduced through a referral chain. OwnerNumber holds
// the phone numbers of the users who split commission on it.
type Client struct {
	Base        `bson:",inline"`
	Name        string   `json:"name" bson:"name"`
	Email       string   `json:"email" bson:"email,omitempty"`
	PhoneNumber string   `json:"phoneNumber" bson:"phoneNumber"`
	PortalName  string   `json:"portalName" bson:"portalName"`
	Status      string   `json:"status" bson:"status"`
	Reason      string   `json:"reason" bson:"reason"`
	OwnerName   []string `json:"ownerName" bson:"ownerName"`
	OwnerNumber []string `json:"ownerNumber" bson:"ownerNumber"`
	IsApproved  bool     `json:"isApproved" bson:"isApproved"`
	LeaderCode  string   `json:"leaderCode" bson:"leaderCode"`
}

// PortalClients groups an owner's clients by the portal they came through.
type PortalClients struct {
	PortalName string   `json:"portalName"`
	Count      int      `json:"count"`
	Clients    []Client `json:"clients"`
}

type CommissionSummary struct {
	Message           string `json:"message"`
	PaidPerOwner      string `json:"paidPerOwner"`
	OwnersPaidCount   int64  `json:"ownersPaidCount"`
	TotalOwnersInList int    `json:"totalOwnersInList"`
}

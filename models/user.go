package models

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	UserStatusActive   = "Active"
	UserStatusInactive = "Inactive"
)

// User is a referrer, leader or admin. Income is only ever incremented by
// commission payouts or reset by an admin.
type User struct {
	Base          `bson:",inline"`
	Name          string  `json:"name" bson:"name"`
	Email         string  `json:"email" bson:"email,omitempty"`
	Password      string  `json:"password,omitempty" bson:"password"`
	PhoneNumber   string  `json:"phoneNumber" bson:"phoneNumber"`
	Role          string  `json:"role" bson:"role"`
	LeaderCode    string  `json:"leaderCode" bson:"leaderCode"`
	Income        float64 `json:"income" bson:"income"`
	AccountNumber string  `json:"accountNumber" bson:"accountNumber"`
	IfscCode      string  `json:"ifscCode" bson:"ifscCode"`
	UpiID         string  `json:"upiId" bson:"upiId"`
	Status        string  `json:"status" bson:"status"`
}

// Public returns a copy safe to send to clients.
func (u User) Public() User {
	u.Password = ""
	return u
}

// UserListItem is a user row in the paginated listing.
type UserListItem struct {
	User
	RegisteredClientCount int64 `json:"registeredClientCount"`
}

type UserProfileUpdate struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phoneNumber"`
	Email       *string `json:"email"`
}

type BankDetailsUpdate struct {
	AccountNumber *string `json:"accountNumber"`
	IfscCode      *string `json:"ifscCode"`
	UpiID         *string `json:"upiId"`
}

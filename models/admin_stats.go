package models

// AdminStats is one snapshot of counts across every collection. Sub-counts
// that could not be read are reported as zero and named in FailedCounts.
type AdminStats struct {
	Leads         int64   `json:"leads"`
	Clients       int64   `json:"clients"`
	Users         int64   `json:"users"`
	LinkClicks    int64   `json:"linkClicks"`
	AppLinks      int64   `json:"appLinks"`
	Contacts      int64   `json:"contacts"`
	JoinLinks     int64   `json:"joinLinks"`
	RestartDates  int64   `json:"restartDates"`
	Registrations int64   `json:"registrations"`
	Transactions  int64   `json:"transactions"`
	TotalAmount   float64 `json:"totalAmount"`

	UserStats   UserStats   `json:"userStats"`
	LeadStats   LeadStats   `json:"leadStats"`
	ClientStats ClientStats `json:"clientStats"`

	Partial      bool     `json:"partial"`
	FailedCounts []string `json:"failedCounts"`
}

type UserStats struct {
	Admin        int64 `json:"admin"`
	RegularUsers int64 `json:"regularUsers"`
}

type LeadStats struct {
	New           int64 `json:"new"`
	Registered    int64 `json:"registered"`
	NotInterested int64 `json:"notInterested"`
}

type ClientStats struct {
	Approved int64 `json:"approved"`
	Pending  int64 `json:"pending"`
}

// DeleteAllSummary reports what the admin wipe touched.
type DeleteAllSummary struct {
	UsersIncomeCleared int64 `json:"usersIncomeCleared"`
	ClientsDeleted     int64 `json:"clientsDeleted"`
	LeadsDeleted       int64 `json:"leadsDeleted"`
}

package database

import (
	"context"
	"time"

	"growup-backend/models"
)

const (
	UsersCollection         = "users"
	ClientsCollection       = "clients"
	LeadsCollection         = "leads"
	ContactsCollection      = "contacts"
	LinksCollection         = "links"
	LinkClicksCollection    = "linkclicks"
	AppLinksCollection      = "applinks"
	JoinLinksCollection     = "joinlinks"
	RestartDatesCollection  = "restartdates"
	SessionsCollection      = "sessions"
	RegistrationsCollection = "registrations"
	TransactionsCollection  = "transactions"
)

// uniqueFields lists the unique keys of each collection.
var uniqueFields = map[string][]string{
	UsersCollection:        {"email"},
	ClientsCollection:      {"email"},
	LinkClicksCollection:   {"phoneNumber"},
	LinksCollection:        {"portalName"},
	AppLinksCollection:     {"appName"},
	JoinLinksCollection:    {"appName"},
	RestartDatesCollection: {"identifier"},
	SessionsCollection:     {"name"},
}

// Store holds one typed collection per entity.
type Store struct {
	Users         Collection[models.User]
	Clients       Collection[models.Client]
	Leads         Collection[models.Lead]
	Contacts      Collection[models.Contact]
	Links         Collection[models.Link]
	LinkClicks    Collection[models.LinkClick]
	AppLinks      Collection[models.AppLink]
	JoinLinks     Collection[models.JoinLink]
	RestartDates  Collection[models.RestartDate]
	Sessions      Collection[models.GlobalSession]
	Registrations Collection[models.Registration]
	Transactions  Collection[models.Transaction]

	health func(context.Context) error
	close  func(context.Context) error
}

// NewMongoStore connects to MongoDB and makes sure the unique indexes exist.
func NewMongoStore(uri, database string, timeout time.Duration) (*Store, error) {
	client, err := ConnectMongo(uri, database, timeout)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	for collection, fields := range uniqueFields {
		if err := client.EnsureUnique(ctx, collection, fields...); err != nil {
			_ = client.Close(context.Background())
			return nil, err
		}
	}

	return &Store{
		Users:         NewMongoCollection[models.User](client, UsersCollection),
		Clients:       NewMongoCollection[models.Client](client, ClientsCollection),
		Leads:         NewMongoCollection[models.Lead](client, LeadsCollection),
		Contacts:      NewMongoCollection[models.Contact](client, ContactsCollection),
		Links:         NewMongoCollection[models.Link](client, LinksCollection),
		LinkClicks:    NewMongoCollection[models.LinkClick](client, LinkClicksCollection),
		AppLinks:      NewMongoCollection[models.AppLink](client, AppLinksCollection),
		JoinLinks:     NewMongoCollection[models.JoinLink](client, JoinLinksCollection),
		RestartDates:  NewMongoCollection[models.RestartDate](client, RestartDatesCollection),
		Sessions:      NewMongoCollection[models.GlobalSession](client, SessionsCollection),
		Registrations: NewMongoCollection[models.Registration](client, RegistrationsCollection),
		Transactions:  NewMongoCollection[models.Transaction](client, TransactionsCollection),
		health:        client.HealthCheck,
		close:         client.Close,
	}, nil
}

// NewMemoryStore returns a Store backed by in-process collections.
func NewMemoryStore() *Store {
	return &Store{
		Users:         NewMemoryCollection[models.User](UsersCollection, uniqueFields[UsersCollection]...),
		Clients:       NewMemoryCollection[models.Client](ClientsCollection, uniqueFields[ClientsCollection]...),
		Leads:         NewMemoryCollection[models.Lead](LeadsCollection),
		Contacts:      NewMemoryCollection[models.Contact](ContactsCollection),
		Links:         NewMemoryCollection[models.Link](LinksCollection, uniqueFields[LinksCollection]...),
		LinkClicks:    NewMemoryCollection[models.LinkClick](LinkClicksCollection, uniqueFields[LinkClicksCollection]...),
		AppLinks:      NewMemoryCollection[models.AppLink](AppLinksCollection, uniqueFields[AppLinksCollection]...),
		JoinLinks:     NewMemoryCollection[models.JoinLink](JoinLinksCollection, uniqueFields[JoinLinksCollection]...),
		RestartDates:  NewMemoryCollection[models.RestartDate](RestartDatesCollection, uniqueFields[RestartDatesCollection]...),
		Sessions:      NewMemoryCollection[models.GlobalSession](SessionsCollection, uniqueFields[SessionsCollection]...),
		Registrations: NewMemoryCollection[models.Registration](RegistrationsCollection),
		Transactions:  NewMemoryCollection[models.Transaction](TransactionsCollection),
	}
}

func (s *Store) HealthCheck(ctx context.Context) error {
	if s.health == nil {
		return nil
	}
	return s.health(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

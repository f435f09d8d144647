package repository

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories bundles every store the services depend on.
type Repositories struct {
	Zones        ZoneRepository
	Businesses   BusinessRepository
	Activities   ActivityRepository
	Clients      ClientRepository
	Services     ServiceRequestRepository
	Applications StaffApplicationRepository
	StaffUsers   StaffUserRepository
	Tokens       ActivationTokenRepository
	Sessions     SessionStore
}

// NewPostgresRepositories backs every entity with pool. Sessions are passed in
// because they live in Redis or memory, never in Postgres.
func NewPostgresRepositories(pool *pgxpool.Pool, sessions SessionStore) *Repositories {
	return &Repositories{
		Zones:        NewZoneRepository(pool),
		Businesses:   NewBusinessRepository(pool),
		Activities:   NewActivityRepository(pool),
		Clients:      NewClientRepository(pool),
		Services:     NewServiceRequestRepository(pool),
		Applications: NewStaffApplicationRepository(pool),
		StaffUsers:   NewStaffUserRepository(pool),
		Tokens:       NewActivationTokenRepository(pool),
		Sessions:     sessions,
	}
}

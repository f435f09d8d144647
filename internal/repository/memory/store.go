// Package memory keeps every repository in process memory. It backs the API
// when no database is configured and is the fixture for service tests.
package memory

import (
	"time"

	"github.com/fotosexpress/portal/internal/domain"
	"github.com/fotosexpress/portal/internal/repository"
)

// Store is the repository bundle, every member kept in memory.
type Store = repository.Repositories

// NewStore builds an empty store. now stamps created and updated times; nil means time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	staff := newTable[domain.StaffUser]()
	return &Store{
		Zones:        &zoneRepo{t: newTable[domain.Zone](), now: now},
		Businesses:   &businessRepo{t: newTable[domain.Business](), now: now},
		Activities:   &activityRepo{t: newTable[domain.Activity](), now: now},
		Clients:      &clientRepo{t: newTable[domain.ClientRecord](), now: now},
		Services:     &serviceRepo{t: newTable[domain.ServiceRequest](), now: now},
		Applications: &applicationRepo{t: newTable[domain.StaffApplication](), now: now},
		StaffUsers:   &staffUserRepo{t: staff, now: now},
		Tokens:       &tokenRepo{t: newTable[domain.ActivationToken](), staff: staff, now: now},
		Sessions:     NewSessionStore(now),
	}
}

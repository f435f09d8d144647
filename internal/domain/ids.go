package domain

import (
	"strings"

	"github.com/google/uuid"
)

// ID prefixes for each entity, kept short so ids can be read over the phone.
const (
	PrefixAmbulantClient = "L"
	PrefixActivityClient = "AC"
	PrefixService        = "SR"
	PrefixApplication    = "P"
	PrefixStaffUser      = "SU"
	PrefixZone           = "Z"
	PrefixBusiness       = "B"
	PrefixActivity       = "A"
)

// NewID returns prefix followed by eight upper-case hex characters.
func NewID(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + strings.ToUpper(raw[:8])
}

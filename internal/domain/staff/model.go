package staff

import (
	"time"

	"github.com/google/uuid"
)

// Member is a users row holding one of the staff roles.
type Member struct {
	ID                uuid.UUID  `json:"id"`
	ExternalID        *string    `json:"externalId,omitempty"`
	Name              *string    `json:"name,omitempty"`
	Email             *string    `json:"email,omitempty"`
	LoginMethod       *string    `json:"loginMethod,omitempty"`
	Role              string     `json:"role"`
	Active            bool       `json:"active"`
	Credentials       *string    `json:"credentials,omitempty"`
	LicenseNumber     *string    `json:"licenseNumber,omitempty"`
	LicenseExpiration *time.Time `json:"licenseExpiration,omitempty"`
	NPINumber         *string    `json:"npiNumber,omitempty"`
	Phone             *string    `json:"phone,omitempty"`
	MaxCaseload       *int       `json:"maxCaseload,omitempty"`
	LastSignedIn      *time.Time `json:"lastSignedIn,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// LicenseExpiresWithin reports whether the license lapses in (now, now+d].
// Already-expired licenses do not count.
func (m *Member) LicenseExpiresWithin(now time.Time, d time.Duration) bool {
	if m.LicenseExpiration == nil {
		return false
	}
	exp := *m.LicenseExpiration
	return exp.After(now) && !exp.After(now.Add(d))
}

func (m *Member) DisplayName() string {
	if m.Name != nil && *m.Name != "" {
		return *m.Name
	}
	if m.Email != nil {
		return *m.Email
	}
	return m.ID.String()
}

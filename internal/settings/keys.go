package settings

import "time"

// Declared settings.
var (
	// FairName is shown on generated pages and in notification subjects.
	FairName = Define("fair.name", RequiredString("Recruitment Fair"))

	// ExhibitorsPublished opens the exhibitor directory to participants.
	ExhibitorsPublished = Define("exhibitors.published", Bool(false))

	// ExhibitorsPageSize is the directory page size when a request omits one.
	ExhibitorsPageSize = Define("exhibitors.page_size", Int(5, 50, 20))

	// RegistrationOpensAt is the moment participant registration opens.
	// The zero time means it has not been scheduled.
	RegistrationOpensAt = Define("registration.opens_at", Time(time.Time{}))
)

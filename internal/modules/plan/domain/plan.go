package domain

import "time"

// Plan groups subjects under a name. Subject ids refer to the backend's
// subject records and are not checked client-side.
type Plan struct {
	ID         string
	Name       string
	SubjectIDs []string
	CreatedAt  time.Time
}

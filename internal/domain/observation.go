package domain

import (
	"fmt"
	"time"
)

// OccurrenceType classifies how a species occurs in a region
type OccurrenceType string

const (
	OccurrenceNative            OccurrenceType = "native"
	OccurrenceRare              OccurrenceType = "rare"
	OccurrenceIntroduced        OccurrenceType = "introduced"
	OccurrenceExtinct           OccurrenceType = "extinct"
	OccurrenceRegionallyExtinct OccurrenceType = "regionally_extinct"
	OccurrenceMigrant           OccurrenceType = "migrant"
	OccurrenceVagrant           OccurrenceType = "vagrant"
	OccurrenceUncertain         OccurrenceType = "uncertain"
)

var occurrenceTypes = []OccurrenceType{
	OccurrenceNative,
	OccurrenceRare,
	OccurrenceIntroduced,
	OccurrenceExtinct,
	OccurrenceRegionallyExtinct,
	OccurrenceMigrant,
	OccurrenceVagrant,
	OccurrenceUncertain,
}

// OccurrenceTypes returns every known occurrence type.
func OccurrenceTypes() []OccurrenceType {
	return append([]OccurrenceType(nil), occurrenceTypes...)
}

// ParseOccurrenceType validates an occurrence type code.
func ParseOccurrenceType(code string) (OccurrenceType, error) {
	for _, t := range occurrenceTypes {
		if string(t) == code {
			return t, nil
		}
	}
	return "", NewInvalidInputError(fmt.Sprintf("unknown occurrence type: %s", code))
}

// Observation records that a species has been seen in a region
type Observation struct {
	ID             int64
	SpeciesID      int64
	RegionID       int64
	OccurrenceType *OccurrenceType
	Species        *Species
}

// ObservationAnnotation is one user's classification of an observation
type ObservationAnnotation struct {
	ObservationID  int64
	UserID         string
	OccurrenceType OccurrenceType
	CreatedAt      time.Time
}

// Contributor is the authenticated user submitting annotations
type Contributor struct {
	UserID    string
	Superuser bool
}

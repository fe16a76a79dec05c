package models

import (
	"database/sql"
	"time"
)

// Region represents a row of the regions table.
type Region struct {
	ID       int64          `db:"ID"`
	Code     string         `db:"CODE"`
	NameEN   string         `db:"NAME_EN"`
	NameFI   sql.NullString `db:"NAME_FI"`
	ParentID sql.NullInt64  `db:"PARENT_ID"`
}

// RegionWithAncestors is a region joined with its parent and grandparent.
type RegionWithAncestors struct {
	Region
	ParentCode        sql.NullString `db:"PARENT_CODE"`
	ParentNameEN      sql.NullString `db:"PARENT_NAME_EN"`
	ParentNameFI      sql.NullString `db:"PARENT_NAME_FI"`
	GrandparentID     sql.NullInt64  `db:"GRANDPARENT_ID"`
	GrandparentCode   sql.NullString `db:"GRANDPARENT_CODE"`
	GrandparentNameEN sql.NullString `db:"GRANDPARENT_NAME_EN"`
	GrandparentNameFI sql.NullString `db:"GRANDPARENT_NAME_FI"`
}

// Species represents a row of the species table.
type Species struct {
	ID             int64          `db:"ID"`
	ScientificName string         `db:"SCIENTIFIC_NAME"`
	NameEN         string         `db:"NAME_EN"`
	NameFI         sql.NullString `db:"NAME_FI"`
	TaxonOrder     sql.NullString `db:"TAXON_ORDER"`
	Family         sql.NullString `db:"FAMILY"`
	Genus          sql.NullString `db:"GENUS"`
	Code           sql.NullString `db:"CODE"`
}

// Recording represents a row of the recordings table.
type Recording struct {
	ID         int64          `db:"ID"`
	SpeciesID  int64          `db:"SPECIES_ID"`
	URL        string         `db:"URL"`
	AudioURL   sql.NullString `db:"AUDIO_URL"`
	Audio      string         `db:"AUDIO"`
	Recordist  sql.NullString `db:"RECORDIST"`
	Country    sql.NullString `db:"COUNTRY"`
	Location   sql.NullString `db:"LOCATION"`
	SoundType  sql.NullString `db:"SOUND_TYPE"`
	License    string         `db:"LICENSE"`
	LicenseURL sql.NullString `db:"LICENSE_URL"`
	Downloaded int            `db:"DOWNLOADED"`
	CreatedAt  time.Time      `db:"CREATED_AT"`
}

// ObservationWithSpecies is an observation joined with its species.
type ObservationWithSpecies struct {
	ID             int64          `db:"ID"`
	SpeciesID      int64          `db:"SPECIES_ID"`
	RegionID       int64          `db:"REGION_ID"`
	OccurrenceType sql.NullString `db:"OCCURRENCE_TYPE"`
	ScientificName string         `db:"SCIENTIFIC_NAME"`
	NameEN         string         `db:"NAME_EN"`
	NameFI         sql.NullString `db:"NAME_FI"`
	Code           sql.NullString `db:"CODE"`
}

package importer

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"birdsong-quiz/internal/config"
	"birdsong-quiz/internal/domain"
	"birdsong-quiz/internal/metrics"
)

const (
	SourceXenoCanto = "xenocanto"

	// Birds only, best quality, 5 to 30 seconds long.
	recordingFilters = `grp:birds q:A len:5-30`
)

var licensePattern = regexp.MustCompile(`^//creativecommons\.org/licenses/([a-z-]+)/(\d\.\d)/`)

var soundTypeMapping = map[string]domain.SoundType{
	"song":                  domain.SoundTypeSong,
	"dawn song":             domain.SoundTypeSong,
	"subsong":               domain.SoundTypeSong,
	"call":                  domain.SoundTypeCall,
	"flight call":           domain.SoundTypeFlight,
	"nocturnal flight call": domain.SoundTypeFlight,
	"alarm call":            domain.SoundTypeAlarm,
	"begging call":          domain.SoundTypeBegging,
	"duet":                  domain.SoundTypeDuet,
	"drumming":              domain.SoundTypeDrumming,
	"drum":                  domain.SoundTypeDrumming,
	"aberrant":              domain.SoundTypeAberrant,
	"imitation":             domain.SoundTypeImitation,
}

// XCRecording is one recording in a xeno-canto search response
type XCRecording struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	FileName  string `json:"file-name"`
	Recordist string `json:"rec"`
	Country   string `json:"cnt"`
	Location  string `json:"loc"`
	Type      string `json:"type"`
	License   string `json:"lic"`
	Sonograms struct {
		Small string `json:"small"`
	} `json:"sono"`
}

type xcPage struct {
	NumPages   int           `json:"numPages"`
	Recordings []XCRecording `json:"recordings"`
}

// XenoCantoClient searches recordings from the xeno-canto API
type XenoCantoClient struct {
	client *client
	apiKey string
}

// NewXenoCantoClient creates a xeno-canto client.
func NewXenoCantoClient(cfg config.ImporterConfig, m *metrics.Metrics) (*XenoCantoClient, error) {
	if cfg.XenoCantoAPIKey == "" {
		return nil, fmt.Errorf("xeno-canto: %w", ErrMissingAPIKey)
	}
	return &XenoCantoClient{
		client: newClient(SourceXenoCanto, cfg.XenoCantoBaseURL, nil, cfg.RequestInterval, cfg.RequestTimeout, m),
		apiKey: cfg.XenoCantoAPIKey,
	}, nil
}

// Recordings returns the first result page for the species, searched by scientific name
// and then by English name when the scientific name matches nothing.
func (x *XenoCantoClient) Recordings(ctx context.Context, species *domain.Species) ([]XCRecording, error) {
	page, err := x.search(ctx, fmt.Sprintf(`sp:"%s" %s`, species.ScientificName, recordingFilters))
	if err != nil {
		return nil, err
	}
	if len(page.Recordings) == 0 && species.Names.EN != "" {
		page, err = x.search(ctx, fmt.Sprintf(`en:"=%s" %s`, species.Names.EN, recordingFilters))
		if err != nil {
			return nil, err
		}
	}
	return page.Recordings, nil
}

func (x *XenoCantoClient) search(ctx context.Context, q string) (*xcPage, error) {
	query := url.Values{}
	query.Set("query", q)
	query.Set("key", x.apiKey)

	var page xcPage
	if err := x.client.getJSON(ctx, "/api/3/recordings", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// LicenseType shortens a Creative Commons license URL, e.g. "CC BY-NC-SA 4.0".
// It returns "" for anything else.
func LicenseType(licenseURL string) string {
	match := licensePattern.FindStringSubmatch(licenseURL)
	if match == nil {
		return ""
	}
	return fmt.Sprintf("CC %s %s", strings.ToUpper(match[1]), match[2])
}

// PrimarySoundType maps the first of the comma separated sound types.
func PrimarySoundType(soundTypes string) domain.SoundType {
	primary := strings.ToLower(strings.TrimSpace(strings.Split(soundTypes, ",")[0]))
	if st, ok := soundTypeMapping[primary]; ok {
		return st
	}
	return domain.SoundTypeOther
}

// AudioURL derives the hosted audio file URL from the small sonogram path,
// which lives two directories below the audio file.
func AudioURL(rec XCRecording) string {
	if rec.Sonograms.Small == "" || rec.FileName == "" {
		return ""
	}
	dir := path.Dir(path.Dir(rec.Sonograms.Small))
	return "https:" + dir + "/" + rec.FileName
}

// ConvertRecording converts a xeno-canto recording of the species.
// Records that fail validation return a ValidationFailure error.
func ConvertRecording(rec XCRecording, speciesID int64) (*domain.Recording, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(rec.ID), 10, 64)
	if err != nil {
		return nil, domain.NewValidationFailureError(fmt.Sprintf("invalid recording id %q", rec.ID), err)
	}

	recording := &domain.Recording{
		ID:         id,
		SpeciesID:  speciesID,
		URL:        rec.URL,
		AudioURL:   AudioURL(rec),
		Audio:      fmt.Sprintf("audio/XC%d%s", id, path.Ext(rec.FileName)),
		Recordist:  rec.Recordist,
		Country:    rec.Country,
		Location:   rec.Location,
		SoundType:  PrimarySoundType(rec.Type),
		License:    LicenseType(rec.License),
		LicenseURL: rec.License,
	}
	if err := recording.Validate(); err != nil {
		return nil, domain.NewValidationFailureError(fmt.Sprintf("invalid recording %d", id), err)
	}
	return recording, nil
}

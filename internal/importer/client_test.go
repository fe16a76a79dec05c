package importer

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"birdsong-quiz/internal/config"
	"birdsong-quiz/internal/domain"
	"birdsong-quiz/internal/logger"
	"birdsong-quiz/internal/metrics"

	"github.com/jarcoal/httpmock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "error"}); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}
	code := m.Run()
	_ = logger.Sync()
	os.Exit(code)
}

func testImporterConfig() config.ImporterConfig {
	return config.ImporterConfig{
		EBirdAPIKey:      "ebird-key",
		EBirdBaseURL:     "https://api.ebird.test",
		XenoCantoAPIKey:  "xc-key",
		XenoCantoBaseURL: "https://xc.test",
		RequestTimeout:   5 * time.Second,
		CacheTTL:         time.Hour,
	}
}

func newTestEBird(t *testing.T, m *metrics.Metrics) *EBirdClient {
	t.Helper()
	client, err := NewEBirdClient(testImporterConfig(), m)
	require.NoError(t, err)
	httpmock.ActivateNonDefault(client.client.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

func newTestXenoCanto(t *testing.T) *XenoCantoClient {
	t.Helper()
	client, err := NewXenoCantoClient(testImporterConfig(), nil)
	require.NoError(t, err)
	httpmock.ActivateNonDefault(client.client.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

func TestNewClients_RequireAPIKey(t *testing.T) {
	cfg := testImporterConfig()
	cfg.EBirdAPIKey = ""
	cfg.XenoCantoAPIKey = ""

	_, err := NewEBirdClient(cfg, nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	_, err = NewXenoCantoClient(cfg, nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestEBirdClient_TaxonomyIsCached(t *testing.T) {
	m, err := metrics.New()
	require.NoError(t, err)
	client := newTestEBird(t, m)

	httpmock.RegisterResponderWithQuery(http.MethodGet, "https://api.ebird.test/v2/ref/taxonomy/ebird",
		map[string]string{"cat": "species", "fmt": "json", "locale": "fi"},
		func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("X-eBirdApiToken") != "ebird-key" {
				return httpmock.NewStringResponse(http.StatusForbidden, `{"title":"Forbidden"}`), nil
			}
			return httpmock.NewJsonResponse(http.StatusOK, []TaxonomyEntry{
				{ScientificName: "Parus major", CommonName: "talitiainen", SpeciesCode: "gretit1", Order: "Passeriformes", FamilySciName: "Paridae"},
			})
		})

	for i := 0; i < 2; i++ {
		taxonomy, err := client.Taxonomy(context.Background(), domain.LocaleFI)
		require.NoError(t, err)
		require.Len(t, taxonomy, 1)
		assert.Equal(t, "gretit1", taxonomy[0].SpeciesCode)
	}
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
	expected := `
# HELP birdsong_import_requests_total Requests sent to external data providers
# TYPE birdsong_import_requests_total counter
birdsong_import_requests_total{source="ebird",status="200"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "birdsong_import_requests_total"))
}

func TestEBirdClient_RegionsAndSpeciesCodes(t *testing.T) {
	client := newTestEBird(t, nil)
	httpmock.RegisterResponder(http.MethodGet, "https://api.ebird.test/v2/ref/region/list/subnational1/FI",
		httpmock.NewStringResponder(http.StatusOK, `[{"code":"FI-18","name":"Uusimaa"},{"code":"FI-19","name":"Varsinais-Suomi"}]`))
	httpmock.RegisterResponder(http.MethodGet, "https://api.ebird.test/v2/product/spplist/FI-18",
		httpmock.NewStringResponder(http.StatusOK, `["gretit1","blutit","xxxxx1"]`))

	regions, err := client.Regions(context.Background(), "FI")
	require.NoError(t, err)
	assert.Equal(t, []RegionEntry{{Code: "FI-18", Name: "Uusimaa"}, {Code: "FI-19", Name: "Varsinais-Suomi"}}, regions)

	codes, err := client.SpeciesCodes(context.Background(), "FI-18")
	require.NoError(t, err)
	assert.Equal(t, []string{"gretit1", "blutit", "xxxxx1"}, codes)
}

func TestClient_APIErrorAndCircuitBreaker(t *testing.T) {
	client := newTestEBird(t, nil)
	httpmock.RegisterResponder(http.MethodGet, "https://api.ebird.test/v2/product/spplist/FI",
		httpmock.NewStringResponder(http.StatusForbidden, `{"title":"Forbidden"}`))
	httpmock.RegisterResponder(http.MethodGet, "https://api.ebird.test/v2/product/spplist/SE",
		httpmock.NewStringResponder(http.StatusBadGateway, `upstream down`))

	// Client errors never open the circuit.
	for i := 0; i < breakerFailureThreshold+1; i++ {
		_, err := client.SpeciesCodes(context.Background(), "FI")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	}

	for i := 0; i < breakerFailureThreshold; i++ {
		_, err := client.SpeciesCodes(context.Background(), "SE")
		require.Error(t, err)
	}
	_, err := client.SpeciesCodes(context.Background(), "FI")
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, 2*breakerFailureThreshold+1, httpmock.GetTotalCallCount())
}

func TestRegionType(t *testing.T) {
	assert.Equal(t, "country", RegionType(WorldRegion))
	assert.Equal(t, "country", RegionType(""))
	assert.Equal(t, "subnational1", RegionType("FI"))
	assert.Equal(t, "subnational2", RegionType("US-NY"))
}

func TestMergeTaxonomies(t *testing.T) {
	merged := MergeTaxonomies(map[domain.Locale][]TaxonomyEntry{
		domain.LocaleEN: {
			{ScientificName: "Parus major", CommonName: "Great Tit", SpeciesCode: "gretit1", Order: "Passeriformes", FamilySciName: "Paridae"},
			{ScientificName: "Larus canus", CommonName: "Common Gull", SpeciesCode: "mewgul"},
		},
		domain.LocaleFI: {
			{ScientificName: "Parus major", CommonName: "talitiainen", SpeciesCode: "gretit1"},
			// Untranslated names come back in English.
			{ScientificName: "Larus canus", CommonName: "Common Gull", SpeciesCode: "mewgul"},
		},
	})

	require.Len(t, merged, 2)
	assert.Equal(t, domain.LocalizedNames{EN: "Great Tit", FI: "talitiainen"}, merged[0].Names)
	assert.Equal(t, "Parus", merged[0].Genus)
	assert.Equal(t, "Paridae", merged[0].Family)
	assert.Equal(t, domain.LocalizedNames{EN: "Common Gull"}, merged[1].Names)
}

func TestXenoCantoClient_FallsBackToEnglishName(t *testing.T) {
	client := newTestXenoCanto(t)
	httpmock.RegisterResponderWithQuery(http.MethodGet, "https://xc.test/api/3/recordings",
		map[string]string{"query": `sp:"Larus canus" grp:birds q:A len:5-30`, "key": "xc-key"},
		httpmock.NewStringResponder(http.StatusOK, `{"numRecordings":"0","numPages":0,"recordings":[]}`))
	httpmock.RegisterResponderWithQuery(http.MethodGet, "https://xc.test/api/3/recordings",
		map[string]string{"query": `en:"=Common Gull" grp:birds q:A len:5-30`, "key": "xc-key"},
		httpmock.NewStringResponder(http.StatusOK, `{"numRecordings":"1","numPages":1,"recordings":[{"id":"123","type":"call"}]}`))

	recs, err := client.Recordings(context.Background(), &domain.Species{
		ScientificName: "Larus canus",
		Names:          domain.LocalizedNames{EN: "Common Gull"},
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "123", recs[0].ID)
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
}

func TestLicenseType(t *testing.T) {
	assert.Equal(t, "CC BY-NC-SA 4.0", LicenseType("//creativecommons.org/licenses/by-nc-sa/4.0/"))
	assert.Equal(t, "CC BY 2.5", LicenseType("//creativecommons.org/licenses/by/2.5/"))
	assert.Equal(t, "", LicenseType("https://example.com/all-rights-reserved"))
}

func TestPrimarySoundType(t *testing.T) {
	assert.Equal(t, domain.SoundTypeSong, PrimarySoundType("dawn song, call"))
	assert.Equal(t, domain.SoundTypeFlight, PrimarySoundType("nocturnal flight call"))
	assert.Equal(t, domain.SoundTypeDrumming, PrimarySoundType("Drum"))
	assert.Equal(t, domain.SoundTypeOther, PrimarySoundType("uncertain"))
	assert.Equal(t, domain.SoundTypeOther, PrimarySoundType(""))
}

func xcRecording(id string) XCRecording {
	rec := XCRecording{
		ID:        id,
		URL:       "//xeno-canto.org/" + id,
		FileName:  "XC" + id + "-Parus-major.mp3",
		Recordist: "Recordist",
		Country:   "Finland",
		Location:  "Helsinki",
		Type:      "song",
		License:   "//creativecommons.org/licenses/by-nc-sa/4.0/",
	}
	rec.Sonograms.Small = "//xeno-canto.org/sounds/uploaded/ABCDEFGHIJ/ffts/XC" + id + "-small.png"
	return rec
}

func TestConvertRecording(t *testing.T) {
	recording, err := ConvertRecording(xcRecording("123"), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(123), recording.ID)
	assert.Equal(t, int64(7), recording.SpeciesID)
	assert.Equal(t, "https://xeno-canto.org/sounds/uploaded/ABCDEFGHIJ/XC123-Parus-major.mp3", recording.AudioURL)
	assert.Equal(t, "audio/XC123.mp3", recording.Audio)
	assert.Equal(t, "CC BY-NC-SA 4.0", recording.License)
	assert.Equal(t, domain.SoundTypeSong, recording.SoundType)

	t.Run("non numeric id", func(t *testing.T) {
		_, err := ConvertRecording(xcRecording("abc"), 7)
		assert.True(t, domain.HasCode(err, domain.CodeValidationFailure))
	})

	t.Run("unknown license", func(t *testing.T) {
		rec := xcRecording("124")
		rec.License = "//example.com/license"
		_, err := ConvertRecording(rec, 7)
		assert.True(t, domain.HasCode(err, domain.CodeValidationFailure))
	})
}

package probe

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/mkosuda/gmapscan/internal/client"
	"github.com/mkosuda/gmapscan/internal/model"
)

// testEndpoints points all three hosts at one stub server.
func testEndpoints(url string) Endpoints {
	return Endpoints{Maps: url, Roads: url, Geolocation: url}
}

// newTestClient disables retrying so failure cases finish fast.
func newTestClient(t *testing.T) *client.Client {
	t.Helper()
	return client.New(client.WithMaxRetries(0), client.WithTimeout(5*time.Second))
}

// newTestReport seeds a report with derived coordinates and place ID
// so dependent probes can run without a prior geocode.
func newTestReport(t *testing.T, place string) *model.CheckReport {
	t.Helper()
	report := model.NewCheckReport("AIzaTestKey1234567890", place, t.TempDir())
	report.Coordinates = "51.5,-0.12"
	report.PlaceID = "ChIJtest"
	return report
}

func TestLatLngString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pair latLng
		want string
	}{
		{name: "shortest form", pair: latLng{Lat: 51.5074, Lng: -0.1278}, want: "51.5074,-0.1278"},
		{name: "integral values", pair: latLng{Lat: 51, Lng: 0}, want: "51,0"},
		{name: "long fraction", pair: latLng{Lat: 35.6894875, Lng: 139.6917064}, want: "35.6894875,139.6917064"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.pair.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGeocodeProbe(t *testing.T) {
	t.Parallel()

	t.Run("success seeds run context", func(t *testing.T) {
		t.Parallel()

		body := `{
			"status": "OK",
			"results": [{
				"formatted_address": "London, UK",
				"place_id": "ChIJlondon",
				"geometry": {"location": {"lat": 51.5074, "lng": -0.1278}}
			}]
		}`
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("address"); got != "London" {
				t.Errorf("address = %q, want %q", got, "London")
			}
			io.WriteString(w, body) //nolint:errcheck
		}))
		t.Cleanup(server.Close)

		report := model.NewCheckReport("AIzaTestKey1234567890", "London", t.TempDir())
		probe := NewGeocodeProbe(newTestClient(t), testEndpoints(server.URL))

		outcome, err := probe.Do(context.Background(), report)
		if err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if outcome == nil {
			t.Fatal("Do() outcome is nil, want success")
		}
		if outcome.Info != "London, UK" {
			t.Errorf("Info = %q, want %q", outcome.Info, "London, UK")
		}
		if report.Coordinates != "51.5074,-0.1278" {
			t.Errorf("Coordinates = %q, want %q", report.Coordinates, "51.5074,-0.1278")
		}
		if report.PlaceID != "ChIJlondon" {
			t.Errorf("PlaceID = %q, want %q", report.PlaceID, "ChIJlondon")
		}
		if report.FormattedAddress != "London, UK" {
			t.Errorf("FormattedAddress = %q, want %q", report.FormattedAddress, "London, UK")
		}
	})

	t.Run("non-OK status leaves run context untouched", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, `{"status": "REQUEST_DENIED", "results": []}`) //nolint:errcheck
		}))
		t.Cleanup(server.Close)

		report := model.NewCheckReport("AIzaTestKey1234567890", "London", t.TempDir())
		probe := NewGeocodeProbe(newTestClient(t), testEndpoints(server.URL))

		outcome, err := probe.Do(context.Background(), report)
		if err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if outcome != nil {
			t.Errorf("Do() outcome = %+v, want nil", outcome)
		}
		if report.HasCoordinates() || report.HasPlaceID() {
			t.Errorf("run context was seeded from a denied response: %+v", report)
		}
	})
}

func TestBatchGeocodeProbe(t *testing.T) {
	t.Parallel()

	t.Run("uploads csv artifact", func(t *testing.T) {
		t.Parallel()

		var uploaded []byte
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			file, _, err := r.FormFile("file")
			if err != nil {
				t.Errorf("FormFile() error = %v", err)
				return
			}
			defer file.Close() //nolint:errcheck
			uploaded, _ = io.ReadAll(file)              //nolint:errcheck
			io.WriteString(w, `{"status": "Accepted"}`) //nolint:errcheck
		}))
		t.Cleanup(server.Close)

		report := newTestReport(t, "London")
		probe := NewBatchGeocodeProbe(newTestClient(t), testEndpoints(server.URL))

		outcome, err := probe.Do(context.Background(), report)
		if err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if outcome == nil {
			t.Fatal("Do() outcome is nil, want recorded outcome")
		}
		if outcome.Info != "" {
			t.Errorf("Info = %q, want empty on HTTP 200", outcome.Info)
		}

		wantCSV := "address\nLondon\n"
		if string(uploaded) != wantCSV {
			t.Errorf("uploaded CSV = %q, want %q", uploaded, wantCSV)
		}
		saved, err := os.ReadFile(filepath.Join(report.ArtifactDir, batchCSVName))
		if err != nil {
			t.Fatalf("reading artifact: %v", err)
		}
		if string(saved) != wantCSV {
			t.Errorf("artifact CSV = %q, want %q", saved, wantCSV)
		}
	})

	t.Run("records outcome on rejection", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			io.WriteString(w, `{"status": "PERMISSION_DENIED"}`) //nolint:errcheck
		}))
		t.Cleanup(server.Close)

		report := newTestReport(t, "London")
		probe := NewBatchGeocodeProbe(newTestClient(t), testEndpoints(server.URL))

		outcome, err := probe.Do(context.Background(), report)
		if err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if outcome == nil {
			t.Fatal("Do() outcome is nil, want outcome recorded even on rejection")
		}
		if outcome.HTTPStatus != http.StatusForbidden {
			t.Errorf("HTTPStatus = %d, want %d", outcome.HTTPStatus, http.StatusForbidden)
		}
		if outcome.Info != "PERMISSION_DENIED" {
			t.Errorf("Info = %q, want %q", outcome.Info, "PERMISSION_DENIED")
		}
	})
}

func TestImageryProbes(t *testing.T) {
	t.Parallel()

	image := []byte("\x89PNG\r\n\x1a\nfakeimagebytes")

	t.Run("static map saves image and summarizes headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("center"); got != "51.5,-0.12" {
				t.Errorf("center = %q, want %q", got, "51.5,-0.12")
			}
			w.Header().Set("Content-Type", "image/png")
			w.Header().Set("Content-Length", strconv.Itoa(len(image)))
			w.Write(image) //nolint:errcheck
		}))
		t.Cleanup(server.Close)

		report := newTestReport(t, "London")
		probe := NewStaticMapProbe(newTestClient(t), testEndpoints(server.URL))

		outcome, err := probe.Do(context.Background(), report)
		if err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if outcome == nil {
			t.Fatal("Do() outcome is nil, want success")
		}
		if outcome.Info != "image/png, 0KB" {
			t.Errorf("Info = %q, want %q", outcome.Info, "image/png, 0KB")
		}
		if outcome.Headers["Content-Type"] != "image/png" {
			t.Errorf("Headers[Content-Type] = %q, want %q", outcome.Headers["Content-Type"], "image/png")
		}

		saved, err := os.ReadFile(filepath.Join(report.ArtifactDir, staticMapFile))
		if err != nil {
			t.Fatalf("reading artifact: %v", err)
		}
		if string(saved) != string(image) {
			t.Errorf("saved image = %q, want %q", saved, image)
		}
	})

	t.Run("street view skips on non-200", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		t.Cleanup(server.Close)

		report := newTestReport(t, "London")
		probe := NewStreetViewProbe(newTestClient(t), testEndpoints(server.URL))

		outcome, err := probe.Do(context.Background(), report)
		if err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if outcome != nil {
			t.Errorf("Do() outcome = %+v, want nil", outcome)
		}
		if _, err := os.Stat(filepath.Join(report.ArtifactDir, streetViewFile)); !os.IsNotExist(err) {
			t.Error("artifact was written for a rejected response")
		}
	})
}

// jsonProbeTest exercises a probe against a canned JSON body and checks
// the derived info column. A want of "" means the probe must report a
// soft failure.
type jsonProbeTest struct {
	name string
	make func(c *client.Client, e Endpoints) Probe
	body string
	want string
}

func runJSONProbeTests(t *testing.T, tests []jsonProbeTest) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				io.WriteString(w, tt.body) //nolint:errcheck
			}))
			t.Cleanup(server.Close)

			probe := tt.make(newTestClient(t), testEndpoints(server.URL))
			outcome, err := probe.Do(context.Background(), newTestReport(t, "London Bridge"))
			if err != nil {
				t.Fatalf("Do() error = %v", err)
			}

			if tt.want == "" {
				if outcome != nil {
					t.Errorf("Do() outcome = %+v, want soft failure", outcome)
				}
				return
			}
			if outcome == nil {
				t.Fatal("Do() outcome is nil, want success")
			}
			if outcome.Info != tt.want {
				t.Errorf("Info = %q, want %q", outcome.Info, tt.want)
			}
		})
	}
}

func TestPlacesProbes(t *testing.T) {
	t.Parallel()

	runJSONProbeTests(t, []jsonProbeTest{
		{
			name: "photo reference found",
			make: func(c *client.Client, e Endpoints) Probe { return NewPhotoReferenceProbe(c, e) },
			body: `{"candidates": [{"photos": [{"photo_reference": "PhotoRefABC"}]}]}`,
			want: "PhotoRefABC",
		},
		{
			name: "photo reference absent",
			make: func(c *client.Client, e Endpoints) Probe { return NewPhotoReferenceProbe(c, e) },
			body: `{"candidates": [{}]}`,
			want: "",
		},
		{
			name: "place details ok",
			make: func(c *client.Client, e Endpoints) Probe { return NewPlaceDetailsProbe(c, e) },
			body: `{"status": "OK", "result": {"name": "London Bridge"}}`,
			want: "London Bridge",
		},
		{
			name: "place details denied",
			make: func(c *client.Client, e Endpoints) Probe { return NewPlaceDetailsProbe(c, e) },
			body: `{"status": "REQUEST_DENIED", "result": {"name": "ignored"}}`,
			want: "",
		},
		{
			name: "text search first result",
			make: func(c *client.Client, e Endpoints) Probe { return NewTextSearchProbe(c, e) },
			body: `{"results": [{"name": "The Shard"}, {"name": "Borough Market"}]}`,
			want: "The Shard",
		},
		{
			name: "text search empty",
			make: func(c *client.Client, e Endpoints) Probe { return NewTextSearchProbe(c, e) },
			body: `{"results": []}`,
			want: "",
		},
		{
			name: "nearby search first result",
			make: func(c *client.Client, e Endpoints) Probe { return NewNearbySearchProbe(c, e) },
			body: `{"results": [{"name": "Borough Market"}]}`,
			want: "Borough Market",
		},
		{
			name: "autocomplete first prediction",
			make: func(c *client.Client, e Endpoints) Probe { return NewAutocompleteProbe(c, e) },
			body: `{"predictions": [{"description": "London, UK"}]}`,
			want: "London, UK",
		},
		{
			name: "autocomplete empty",
			make: func(c *client.Client, e Endpoints) Probe { return NewAutocompleteProbe(c, e) },
			body: `{"predictions": []}`,
			want: "",
		},
	})
}

func TestAutocompleteUsesFirstWord(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("input"); got != "London" {
			t.Errorf("input = %q, want first word %q", got, "London")
		}
		if got := r.URL.Query().Get("types"); got != "geocode" {
			t.Errorf("types = %q, want %q", got, "geocode")
		}
		io.WriteString(w, `{"predictions": [{"description": "London, UK"}]}`) //nolint:errcheck
	}))
	t.Cleanup(server.Close)

	probe := NewAutocompleteProbe(newTestClient(t), testEndpoints(server.URL))
	if _, err := probe.Do(context.Background(), newTestReport(t, "London Bridge")); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

func TestRouteProbes(t *testing.T) {
	t.Parallel()

	runJSONProbeTests(t, []jsonProbeTest{
		{
			name: "distance matrix with distance and duration",
			make: func(c *client.Client, e Endpoints) Probe { return NewDistanceMatrixProbe(c, e) },
			body: `{"rows": [{"elements": [{"distance": {"text": "1 m"}, "duration": {"text": "1 min"}}]}]}`,
			want: "1 m, 1 min",
		},
		{
			name: "distance matrix element without distance",
			make: func(c *client.Client, e Endpoints) Probe { return NewDistanceMatrixProbe(c, e) },
			body: `{"rows": [{"elements": [{"status": "ZERO_RESULTS"}]}]}`,
			want: "",
		},
		{
			name: "elevation result",
			make: func(c *client.Client, e Endpoints) Probe { return NewElevationProbe(c, e) },
			body: `{"results": [{"elevation": 11.5}]}`,
			want: "11.5m",
		},
		{
			name: "elevation empty",
			make: func(c *client.Client, e Endpoints) Probe { return NewElevationProbe(c, e) },
			body: `{"results": []}`,
			want: "",
		},
		{
			name: "time zone found",
			make: func(c *client.Client, e Endpoints) Probe { return NewTimeZoneProbe(c, e) },
			body: `{"timeZoneId": "Europe/London"}`,
			want: "Europe/London",
		},
		{
			name: "time zone missing",
			make: func(c *client.Client, e Endpoints) Probe { return NewTimeZoneProbe(c, e) },
			body: `{"status": "INVALID_REQUEST"}`,
			want: "",
		},
	})
}

func TestTimeZoneProbeSendsTimestamp(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("timestamp"); got != strconv.FormatInt(fixed.Unix(), 10) {
			t.Errorf("timestamp = %q, want %d", got, fixed.Unix())
		}
		io.WriteString(w, `{"timeZoneId": "Europe/London"}`) //nolint:errcheck
	}))
	t.Cleanup(server.Close)

	probe := NewTimeZoneProbe(newTestClient(t), testEndpoints(server.URL))
	probe.now = func() time.Time { return fixed }
	if _, err := probe.Do(context.Background(), newTestReport(t, "London")); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

func TestRoadsProbes(t *testing.T) {
	t.Parallel()

	runJSONProbeTests(t, []jsonProbeTest{
		{
			name: "snap to roads counts points",
			make: func(c *client.Client, e Endpoints) Probe { return NewSnapToRoadsProbe(c, e) },
			body: `{"snappedPoints": [{"placeId": "a"}, {"placeId": "b"}, {"placeId": "c"}]}`,
			want: "3 points",
		},
		{
			name: "snap to roads empty",
			make: func(c *client.Client, e Endpoints) Probe { return NewSnapToRoadsProbe(c, e) },
			body: `{}`,
			want: "",
		},
		{
			name: "nearest roads counts points",
			make: func(c *client.Client, e Endpoints) Probe { return NewNearestRoadsProbe(c, e) },
			body: `{"snappedPoints": [{"placeId": "a"}]}`,
			want: "1 points",
		},
	})
}

func TestSnapToRoadsPath(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("path"); got != "51.5,-0.12|51.5,-0.12" {
			t.Errorf("path = %q, want doubled coordinates", got)
		}
		if got := r.URL.Query().Get("interpolate"); got != "true" {
			t.Errorf("interpolate = %q, want %q", got, "true")
		}
		io.WriteString(w, `{"snappedPoints": [{"placeId": "a"}]}`) //nolint:errcheck
	}))
	t.Cleanup(server.Close)

	probe := NewSnapToRoadsProbe(newTestClient(t), testEndpoints(server.URL))
	if _, err := probe.Do(context.Background(), newTestReport(t, "London")); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

func TestGeolocateProbe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantInfo   string
		wantStatus int
	}{
		{
			name:       "location found",
			status:     http.StatusOK,
			body:       `{"location": {"lat": 51.5, "lng": -0.12}, "accuracy": 100}`,
			wantInfo:   "51.5,-0.12",
			wantStatus: http.StatusOK,
		},
		{
			name:       "error object compacted",
			status:     http.StatusForbidden,
			body:       `{"error": {"code": 403, "message": "denied"}}`,
			wantInfo:   `{"code":403,"message":"denied"}`,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "status fallback",
			status:     http.StatusOK,
			body:       `{"status": "ZERO_RESULTS"}`,
			wantInfo:   "ZERO_RESULTS",
			wantStatus: http.StatusOK,
		},
		{
			name:       "unrecognized body",
			status:     http.StatusOK,
			body:       `{"accuracy": 100}`,
			wantInfo:   "UNKNOWN",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("method = %q, want POST", r.Method)
				}
				body, _ := io.ReadAll(r.Body) //nolint:errcheck
				if string(body) != `{"considerIp":true}` {
					t.Errorf("request body = %q, want considerIp lookup", body)
				}
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body) //nolint:errcheck
			}))
			t.Cleanup(server.Close)

			probe := NewGeolocateProbe(newTestClient(t), testEndpoints(server.URL))
			outcome, err := probe.Do(context.Background(), newTestReport(t, "London"))
			if err != nil {
				t.Fatalf("Do() error = %v", err)
			}
			if outcome == nil {
				t.Fatal("Do() outcome is nil, want outcome always recorded")
			}
			if outcome.Info != tt.wantInfo {
				t.Errorf("Info = %q, want %q", outcome.Info, tt.wantInfo)
			}
			if outcome.HTTPStatus != tt.wantStatus {
				t.Errorf("HTTPStatus = %d, want %d", outcome.HTTPStatus, tt.wantStatus)
			}
		})
	}
}

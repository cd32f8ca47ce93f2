package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"autotrip/database"
	"autotrip/models"
	"autotrip/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── Fakes ────────────────────────────────────────────────────────────────────

type fakeBackend struct {
	srv *httptest.Server

	mu           sync.Mutex
	generated    []map[string]any
	blockHotelID string
	release      chan struct{}

	failPlaces atomic.Bool
	failExport atomic.Bool
	listHits   atomic.Int32
	hotelHits  atomic.Int32
}

func newFakeBackend(t *testing.T) *fakeBackend {
	b := &fakeBackend{release: make(chan struct{})}
	mux := http.NewServeMux()

	mux.HandleFunc("/api/hotels/search", func(w http.ResponseWriter, r *http.Request) {
		b.hotelHits.Add(1)
		io.WriteString(w, `[
			{"id":"h1","name":"Hotel One","price_per_night":120,"rating":4.5,"lat":48.86,"lng":2.34,"amenities":["WiFi","Parking","Restaurant","Spa"]},
			{"id":"h2","title":"Hotel Two","price":80,"distance":"2 km"}
		]`)
	})
	mux.HandleFunc("/api/places/search", func(w http.ResponseWriter, r *http.Request) {
		if b.failPlaces.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		io.WriteString(w, `[{"name":"Louvre"},{"name":"Orsay"}]`)
	})
	mux.HandleFunc("/api/aggregation/location-data/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status":"success","location":"Paris","data":{"basic_info":{"coordinates":{"lat":48.85,"lng":2.35}},"hotels":[]}}`)
	})
	mux.HandleFunc("/api/itinerary/generate", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		hotelID := ""
		if hotel, ok := body["selected_hotel"].(map[string]any); ok {
			hotelID, _ = hotel["id"].(string)
		}

		b.mu.Lock()
		b.generated = append(b.generated, body)
		block := b.blockHotelID != "" && hotelID == b.blockHotelID
		b.mu.Unlock()
		if block {
			<-b.release
		}

		json.NewEncoder(w).Encode(map[string]any{
			"id":       "it-" + hotelID,
			"location": body["location"],
			"origin":   body["origin"],
			"duration": 3,
			"days": []map[string]any{{
				"day":  1,
				"date": "2026-05-01",
				"items": []map[string]any{
					{"id": "a", "time": "09:00", "title": "Louvre", "type": "attraction", "cost": 20},
					{"id": "b", "time": "13:00", "title": "Lunch", "type": "meal", "cost": 35.5},
				},
			}},
		})
	})
	mux.HandleFunc("/api/trips", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `{"id":"trip-1","location":"Paris","start_date":"2026-05-01","end_date":"2026-05-03"}`)
			return
		}
		b.listHits.Add(1)
		io.WriteString(w, `[{"id":"trip-1","destination":"Paris","startDate":"2026-05-01","endDate":"2026-05-03","duration":3}]`)
	})
	mux.HandleFunc("/api/trips/", func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimPrefix(r.URL.Path, "/api/trips/") != "trip-1" {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"detail":"not found"}`)
			return
		}
		io.WriteString(w, `{"id":"trip-1","location":"Paris","start_date":"2026-05-01","end_date":"2026-05-03",
			"itinerary":{"id":"it","location":"Paris","duration":3,"days":[{"day":1,"items":[{"id":"x","type":"hotel","cost":150}]}]}}`)
	})
	mux.HandleFunc("/api/itinerary/export-pdf", func(w http.ResponseWriter, r *http.Request) {
		if b.failExport.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		io.WriteString(w, "%PDF-1.4 remote")
	})
	mux.HandleFunc("/api/itinerary/export-calendar", func(w http.ResponseWriter, r *http.Request) {
		if b.failExport.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		io.WriteString(w, "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")
	})

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) blockOn(hotelID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blockHotelID = hotelID
}

func (b *fakeBackend) generateCalls() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]any(nil), b.generated...)
}

type fakeMaps struct {
	available bool
}

func (f *fakeMaps) Available() bool { return f.available }

func (f *fakeMaps) Geocode(_ context.Context, address string) (models.Coordinate, error) {
	switch address {
	case "Berlin":
		return models.Coordinate{Lat: 52.52, Lng: 13.40}, nil
	case "Paris":
		return models.Coordinate{Lat: 48.85, Lng: 2.35}, nil
	}
	return models.Coordinate{}, &services.RouteStatusError{Status: "ZERO_RESULTS"}
}

func (f *fakeMaps) Directions(_ context.Context, req services.RouteRequest) (*services.Route, error) {
	return &services.Route{
		Path: []models.Coordinate{req.Origin, req.Destination},
		Legs: []services.RouteLeg{{Start: req.Origin, End: req.Destination, DistanceText: "1,054 km", DurationText: "10 hours"}},
	}, nil
}

// ─── Environment ──────────────────────────────────────────────────────────────

type testEnv struct {
	h       *Handler
	r       *gin.Engine
	backend *fakeBackend
	store   *database.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)

	backend := newFakeBackend(t)
	store := database.NewMemoryStore()
	h := New(services.NewAPIClient(backend.srv.URL), &fakeMaps{available: true}, services.NewQueryCache(time.Minute), store)
	h.Now = func() time.Time { return time.Date(2026, 4, 20, 10, 0, 0, 0, time.UTC) }

	r := gin.New()
	r.SetHTMLTemplate(Templates())
	h.Register(r)

	return &testEnv{h: h, r: r, backend: backend, store: store}
}

func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doHTML(method, path string, form url.Values) *httptest.ResponseRecorder {
	var reader io.Reader
	if form != nil {
		reader = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Accept", "text/html")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

var validPlan = map[string]any{
	"starting_location": "Berlin",
	"location":          "Paris",
	"start_date":        "2026-05-01",
	"end_date":          "2026-05-03",
	"budget":            1200,
	"travelers":         2,
	"interests":         []string{"Art & Museums"},
}

func (e *testEnv) createSession(t *testing.T) string {
	w := e.do(http.MethodPost, "/plan", validPlan)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var sess database.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
	require.NotEmpty(t, sess.ID)
	return sess.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// ─── Trip Details ─────────────────────────────────────────────────────────────

func TestRootRedirectsToPlan(t *testing.T) {
	e := newTestEnv(t)
	w := e.doHTML(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/plan", w.Header().Get("Location"))
}

func TestPlanForm_HTML(t *testing.T) {
	e := newTestEnv(t)
	w := e.doHTML(http.MethodGet, "/plan", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Plan Your Trip")
	assert.Contains(t, w.Body.String(), "Culture &amp; History")
}

func TestCreatePlan_ValidationErrors(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(http.MethodPost, "/plan", map[string]any{"location": "Paris", "budget": 50, "travelers": 0})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	errs := decode(t, w)["errors"].(map[string]any)
	assert.Equal(t, "Starting location is required", errs["starting_location"])
	assert.Equal(t, "Minimum budget is $100", errs["budget"])
	assert.Equal(t, "At least 1 traveler required", errs["travelers"])
	assert.NotContains(t, errs, "location")
}

func TestCreatePlan_FormRedirects(t *testing.T) {
	e := newTestEnv(t)
	form := url.Values{
		"starting_location": {"Berlin"},
		"location":          {"Paris"},
		"start_date":        {"2026-05-01"},
		"end_date":          {"2026-05-03"},
		"budget":            {"900"},
		"travelers":         {"1"},
		"interests":         {"Nightlife", "Shopping"},
	}
	w := e.doHTML(http.MethodPost, "/plan", form)
	require.Equal(t, http.StatusSeeOther, w.Code)

	id := strings.TrimPrefix(w.Header().Get("Location"), "/plan/")
	sess, err := e.store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, database.StepRecommendations, sess.Step)
	assert.Equal(t, []string{"Nightlife", "Shopping"}, sess.Request.Interests)
	assert.Equal(t, 900.0, sess.Request.Budget)
}

func TestToggleInterest(t *testing.T) {
	e := newTestEnv(t)
	body := map[string]any{"location": "Paris", "interests": []string{"Nightlife"}, "interest": "Shopping"}
	w := e.do(http.MethodPost, "/plan/interests/toggle", body)
	require.Equal(t, http.StatusOK, w.Code)

	form := decode(t, w)["form"].(map[string]any)
	assert.Equal(t, []any{"Nightlife", "Shopping"}, form["interests"])
	assert.Equal(t, "Paris", form["location"])
}

// ─── Recommendations ──────────────────────────────────────────────────────────

func TestShowPlan_Recommendations(t *testing.T) {
	e := newTestEnv(t)
	id := e.createSession(t)

	w := e.do(http.MethodGet, "/plan/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)

	assert.Equal(t, float64(2), page["nights"])
	hotels := page["hotels"].(map[string]any)
	assert.Equal(t, "list", hotels["state"])
	require.Len(t, hotels["cards"], 2)

	m := page["map"].(map[string]any)
	assert.Equal(t, true, m["available"])
	assert.Equal(t, map[string]any{"lat": 48.85, "lng": 2.35}, m["center"])
	require.NotNil(t, m["route"])
	assert.Len(t, m["markers"], 1)

	// second render is served from the query cache
	e.do(http.MethodGet, "/plan/"+id, nil)
	assert.Equal(t, int32(1), e.backend.hotelHits.Load())
}

func TestShowPlan_HTML(t *testing.T) {
	e := newTestEnv(t)
	id := e.createSession(t)

	w := e.doHTML(http.MethodGet, "/plan/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Recommended Hotels")
	assert.Contains(t, w.Body.String(), "Hotel One")
	assert.Contains(t, w.Body.String(), "+1 more")
}

func TestShowPlan_UnknownSession(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(http.MethodGet, "/plan/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Planning session not found", decode(t, w)["error"])
}

func TestSelectHotel(t *testing.T) {
	e := newTestEnv(t)
	id := e.createSession(t)

	w := e.do(http.MethodPost, "/plan/"+id+"/hotels/select", map[string]any{"hotel_id": "h1"})
	require.Equal(t, http.StatusOK, w.Code)
	w = e.do(http.MethodPost, "/plan/"+id+"/hotels/select", map[string]any{"hotel_id": "h2"})
	require.Equal(t, http.StatusOK, w.Code)

	sess, err := e.store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "h2", sess.SelectedHotelID)

	w = e.do(http.MethodPost, "/plan/"+id+"/hotels/select", map[string]any{"hotel_id": "zzz"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(http.MethodPost, "/plan/"+id+"/hotels/select", map[string]any{"hotel_id": ""})
	require.Equal(t, http.StatusOK, w.Code)
	sess, _ = e.store.Get(context.Background(), id)
	assert.Empty(t, sess.SelectedHotelID)
}

func TestMapHandler(t *testing.T) {
	e := newTestEnv(t)
	id := e.createSession(t)

	w := e.do(http.MethodGet, "/plan/"+id+"/map?stops=48.85,2.35;48.86,2.34;48.87,2.33&hotel=h1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	m := decode(t, w)["map"].(map[string]any)
	require.NotNil(t, m["route"])
	route := m["route"].(map[string]any)
	assert.Equal(t, "#ef4444", route["color"])
	selected := m["selected"].(map[string]any)
	assert.Equal(t, "Hotel One", selected["name"])
	assert.Equal(t, "/placeholder-hotel.jpg", selected["image"])

	w = e.do(http.MethodGet, "/plan/"+id+"/map?stops=1,2;bad", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMapHandler_Unavailable(t *testing.T) {
	e := newTestEnv(t)
	e.h.maps = &fakeMaps{}
	id := e.createSession(t)

	w := e.do(http.MethodGet, "/plan/"+id+"/map", nil)
	require.Equal(t, http.StatusOK, w.Code)
	m := decode(t, w)["map"].(map[string]any)
	assert.Equal(t, false, m["available"])
	assert.Equal(t, "Map failed to load. Make sure MAPS_API_KEY is set.", m["message"])
}

func TestPlacesHandler(t *testing.T) {
	e := newTestEnv(t)
	id := e.createSession(t)

	w := e.do(http.MethodGet, "/plan/"+id+"/places", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)
	assert.Equal(t, "attractions", page["type"])
	assert.Len(t, page["places"], 2)

	e.backend.failPlaces.Store(true)
	w = e.do(http.MethodGet, "/plan/"+id+"/places?type=restaurants", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, PlacesErrorMessage, decode(t, w)["error"])
}

// ─── Itinerary ────────────────────────────────────────────────────────────────

func TestGenerateItinerary(t *testing.T) {
	e := newTestEnv(t)
	id := e.createSession(t)

	e.do(http.MethodGet, "/trips", nil)
	require.Equal(t, int32(1), e.backend.listHits.Load())

	e.do(http.MethodPost, "/plan/"+id+"/hotels/select", map[string]any{"hotel_id": "h1"})
	w := e.do(http.MethodPost, "/plan/"+id+"/itinerary", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "pending", decode(t, w)["status"])

	e.h.Wait()

	calls := e.backend.generateCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Paris", calls[0]["location"])
	assert.Equal(t, "Berlin", calls[0]["origin"])
	assert.Equal(t, "h1", calls[0]["selected_hotel"].(map[string]any)["id"])

	w = e.do(http.MethodGet, "/plan/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)
	assert.Equal(t, "ready", page["status"])
	view := page["view"].(map[string]any)
	assert.Equal(t, "Trip from Berlin to Paris", view["heading"])
	assert.Equal(t, float64(56), view["display_total"])

	// trips were invalidated by the generation
	e.do(http.MethodGet, "/trips", nil)
	assert.Equal(t, int32(2), e.backend.listHits.Load())
}

func TestGenerateItinerary_LastIssuedWins(t *testing.T) {
	e := newTestEnv(t)
	id := e.createSession(t)
	e.backend.blockOn("h1")

	e.do(http.MethodPost, "/plan/"+id+"/hotels/select", map[string]any{"hotel_id": "h1"})
	require.Equal(t, http.StatusAccepted, e.do(http.MethodPost, "/plan/"+id+"/itinerary", nil).Code)

	e.do(http.MethodPost, "/plan/"+id+"/hotels/select", map[string]any{"hotel_id": "h2"})
	require.Equal(t, http.StatusAccepted, e.do(http.MethodPost, "/plan/"+id+"/itinerary", nil).Code)

	require.Eventually(t, func() bool {
		sess, err := e.store.Get(context.Background(), id)
		return err == nil && sess.ItineraryStatus == database.ItineraryReady
	}, 5*time.Second, 10*time.Millisecond)

	close(e.backend.release)
	e.h.Wait()

	sess, err := e.store.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, sess.Itinerary)
	assert.Equal(t, "it-h2", sess.Itinerary.ID)
}

func TestGenerateItinerary_KeepsConcurrentEdits(t *testing.T) {
	e := newTestEnv(t)
	id := e.createSession(t)
	e.backend.blockOn("h1")

	e.do(http.MethodPost, "/plan/"+id+"/hotels/select", map[string]any{"hotel_id": "h1"})
	require.Equal(t, http.StatusAccepted, e.do(http.MethodPost, "/plan/"+id+"/itinerary", nil).Code)

	// edits land while the generation is still waiting on the backend
	require.Eventually(t, func() bool { return len(e.backend.generateCalls()) == 1 }, 5*time.Second, 10*time.Millisecond)
	require.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/plan/"+id+"/trip", nil).Code)
	require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/plan/"+id+"/hotels/select", map[string]any{"hotel_id": "h2"}).Code)

	close(e.backend.release)
	e.h.Wait()

	sess, err := e.store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, database.ItineraryReady, sess.ItineraryStatus)
	require.NotNil(t, sess.Itinerary)
	assert.Equal(t, "it-h1", sess.Itinerary.ID)
	assert.Equal(t, "trip-1", sess.TripID)
	assert.Equal(t, "h2", sess.SelectedHotelID)
}

func TestSessionLocks(t *testing.T) {
	var locks sessionLocks
	var inside atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("s1")
			defer unlock()
			assert.Equal(t, int32(1), inside.Add(1))
			time.Sleep(time.Millisecond)
			inside.Add(-1)
		}()
	}
	wg.Wait()

	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Empty(t, locks.locks)
}

func TestSaveTrip(t *testing.T) {
	e := newTestEnv(t)
	id := e.createSession(t)

	e.do(http.MethodGet, "/trips", nil)
	w := e.do(http.MethodPost, "/plan/"+id+"/trip", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "trip-1", decode(t, w)["id"])

	sess, err := e.store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "trip-1", sess.TripID)

	e.do(http.MethodGet, "/trips", nil)
	assert.Equal(t, int32(2), e.backend.listHits.Load())
}

// ─── Exports ──────────────────────────────────────────────────────────────────

func (e *testEnv) readySession(t *testing.T) string {
	id := e.createSession(t)
	require.Equal(t, http.StatusAccepted, e.do(http.MethodPost, "/plan/"+id+"/itinerary", nil).Code)
	e.h.Wait()
	return id
}

func TestExport_BeforeReady(t *testing.T) {
	e := newTestEnv(t)
	id := e.createSession(t)
	w := e.do(http.MethodGet, "/plan/"+id+"/export/pdf", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestExportPDF(t *testing.T) {
	e := newTestEnv(t)
	id := e.readySession(t)

	w := e.do(http.MethodGet, "/plan/"+id+"/export/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="itinerary_Paris_2026-04-20.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4 remote", w.Body.String())
}

func TestExportCalendar(t *testing.T) {
	e := newTestEnv(t)
	id := e.readySession(t)

	w := e.do(http.MethodGet, "/plan/"+id+"/export/calendar", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/calendar", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "itinerary_Paris_2026-04-20.ics")
}

func TestExport_FailureShowsAlert(t *testing.T) {
	e := newTestEnv(t)
	id := e.readySession(t)
	e.backend.failExport.Store(true)

	w := e.do(http.MethodGet, "/plan/"+id+"/export/pdf", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Failed to download PDF. Please try again.", decode(t, w)["error"])

	w = e.doHTML(http.MethodGet, "/plan/"+id+"/export/calendar", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to download calendar file. Please try again.")
}

func TestBudgetSheet(t *testing.T) {
	e := newTestEnv(t)
	id := e.readySession(t)

	w := e.do(http.MethodGet, "/plan/"+id+"/budget.pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "budget_Paris_2026-04-20.pdf")
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))
}

// ─── Trips ────────────────────────────────────────────────────────────────────

func TestTrips(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(http.MethodGet, "/trips", nil)
	require.Equal(t, http.StatusOK, w.Code)
	trips := decode(t, w)["trips"].([]any)
	require.Len(t, trips, 1)
	assert.Equal(t, "Paris", trips[0].(map[string]any)["location"])

	w = e.do(http.MethodGet, "/trips/trip-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)
	assert.Equal(t, false, page["not_found"])
	assert.Equal(t, float64(150), page["view"].(map[string]any)["display_total"])

	w = e.doHTML(http.MethodGet, "/trips/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Trip Not Found")
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "memory", body["store"])
	assert.Equal(t, "ok", body["maps"])
}

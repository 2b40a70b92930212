package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-test/deep"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
	tu "github.com/desertthunder/setlist/internal/testing"
)

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newTestApp(t *testing.T, searcher *tu.MockSearcher, history *tu.MockRecorder) *httptest.Server {
	t.Helper()

	opts := Options{Searcher: searcher, Logger: log.New(io.Discard)}
	if history != nil {
		opts.History = history
	}

	app, err := New(opts)
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}

	srv := httptest.NewServer(app)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, srv *httptest.Server) *client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	return &client{t: t, base: srv.URL, http: &http.Client{Jar: jar}}
}

func (c *client) do(method, path string, form url.Values) (int, http.Header, string) {
	c.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, c.base+path, body)
	if err != nil {
		c.t.Fatalf("failed to build request: %v", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, resp.Header, string(data)
}

func (c *client) get(path string) (int, string) {
	status, _, body := c.do(http.MethodGet, path, nil)
	return status, body
}

func (c *client) post(path string, form url.Values) (int, string) {
	if form == nil {
		form = url.Values{}
	}
	status, _, body := c.do(http.MethodPost, path, form)
	return status, body
}

// searchAndSelect searches for q and selects the first suggestion through the Add button.
func (c *client) searchAndSelect(q string) {
	c.t.Helper()
	if status, _ := c.get("/search?q=" + url.QueryEscape(q)); status != http.StatusOK {
		c.t.Fatalf("search %q returned %d", q, status)
	}
	if status, _ := c.post("/add", nil); status != http.StatusOK {
		c.t.Fatalf("add after %q returned %d", q, status)
	}
}

func imagineSearcher() *tu.MockSearcher {
	return &tu.MockSearcher{Results: map[string][]models.Track{
		"Imagine": {tu.ImagineTrack(), tu.SecondTrack()},
		"Jealous": {tu.SecondTrack()},
	}}
}

func TestNew(t *testing.T) {
	if _, err := New(Options{}); !errors.Is(err, shared.ErrMissingArgument) {
		t.Errorf("expected ErrMissingArgument without a searcher, got %v", err)
	}

	app, err := New(Options{Searcher: &tu.MockSearcher{}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if diff := deep.Equal(app.Routes(), []string{"/", "/search", "/select", "/add", "/delete", "/code", "/sidebar", "/export"}); diff != nil {
		t.Error(diff)
	}
}

func TestIndex(t *testing.T) {
	srv := newTestApp(t, imagineSearcher(), nil)
	c := newClient(t, srv)

	status, headers, body := c.do(http.MethodGet, "/", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(headers.Get("Set-Cookie"), SessionCookie+"=") {
		t.Errorf("expected session cookie, got %q", headers.Get("Set-Cookie"))
	}
	for _, want := range []string{"htmx.org", "Listed music", `hx-get="/search"`, "Nothing listed yet."} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
	if strings.Contains(body, "Admin code") {
		t.Error("admin panel should start closed")
	}

	t.Run("UnknownPath", func(t *testing.T) {
		if status, _ := c.get("/nope"); status != http.StatusNotFound {
			t.Errorf("expected 404, got %d", status)
		}
	})

	t.Run("WrongMethod", func(t *testing.T) {
		if status, _ := c.get("/select"); status != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", status)
		}
	})
}

func TestSearch(t *testing.T) {
	t.Run("RendersSuggestions", func(t *testing.T) {
		searcher := imagineSearcher()
		c := newClient(t, newTestApp(t, searcher, nil))

		status, body := c.get("/search?q=Imagine")
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		for _, want := range []string{"Imagine", "John Lennon", "Jealous Guy", "https://i.scdn.co/image/medium"} {
			if !strings.Contains(body, want) {
				t.Errorf("results missing %q", want)
			}
		}
		if strings.Contains(body, "disabled") {
			t.Error("Add should be enabled once suggestions arrived")
		}
		if diff := deep.Equal(searcher.Queries(), []string{"Imagine"}); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("EmptyQuery", func(t *testing.T) {
		searcher := imagineSearcher()
		c := newClient(t, newTestApp(t, searcher, nil))

		c.get("/search?q=Imagine")
		status, body := c.get("/search?q=")
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if strings.Contains(body, "John Lennon") {
			t.Error("empty query should clear suggestions")
		}
		if !strings.Contains(body, "disabled") {
			t.Error("Add should be disabled without suggestions")
		}
		if len(searcher.Queries()) != 1 {
			t.Errorf("empty query should not reach the searcher, got %v", searcher.Queries())
		}
	})

	t.Run("FailureRendersEmptyList", func(t *testing.T) {
		c := newClient(t, newTestApp(t, &tu.MockSearcher{Err: shared.ErrAPIRequest}, nil))

		status, body := c.get("/search?q=Imagine")
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if strings.Contains(body, "<img") {
			t.Error("failed search should render no suggestions")
		}
		if strings.Contains(body, shared.ErrAPIRequest.Error()) {
			t.Error("errors must not be shown to the visitor")
		}
	})

	t.Run("SupersededResponseIsDropped", func(t *testing.T) {
		gate := make(chan struct{})
		searcher := imagineSearcher()
		searcher.Block = map[string]chan struct{}{"Ima": gate}
		defer close(gate)

		c := newClient(t, newTestApp(t, searcher, nil))
		c.get("/")

		first := make(chan int, 1)
		go func() {
			status, _ := c.get("/search?q=Ima")
			first <- status
		}()

		deadline := time.Now().Add(5 * time.Second)
		for !slices.Contains(searcher.Queries(), "Ima") {
			if time.Now().After(deadline) {
				t.Fatal("first search never reached the searcher")
			}
			time.Sleep(5 * time.Millisecond)
		}

		status, body := c.get("/search?q=Imagine")
		if status != http.StatusOK || !strings.Contains(body, "Jealous Guy") {
			t.Fatalf("latest search should render, got %d", status)
		}

		select {
		case status := <-first:
			if status != http.StatusNoContent {
				t.Errorf("superseded search should answer 204, got %d", status)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("superseded search was not cancelled")
		}
	})
}

func TestSelect(t *testing.T) {
	t.Run("SelectsAndLeavesSearchMode", func(t *testing.T) {
		c := newClient(t, newTestApp(t, imagineSearcher(), nil))
		c.get("/search?q=Imagine")

		status, body := c.post("/select", url.Values{"index": {"1"}, "seq": {"1"}})
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if !strings.Contains(body, "Jealous Guy") || !strings.Contains(body, "4:14") {
			t.Error("selection should list the chosen track with its duration")
		}
		if strings.Contains(body, `value="Imagine"`) {
			t.Error("query should be cleared after selection")
		}
		if strings.Contains(body, `name="seq"`) {
			t.Error("suggestions should be cleared after selection")
		}
	})

	t.Run("StaleSequenceIgnored", func(t *testing.T) {
		c := newClient(t, newTestApp(t, imagineSearcher(), nil))
		c.get("/search?q=Imagine")

		status, body := c.post("/select", url.Values{"index": {"0"}, "seq": {"7"}})
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if !strings.Contains(body, "Nothing listed yet.") {
			t.Error("stale click should not select anything")
		}
	})

	t.Run("BadForm", func(t *testing.T) {
		c := newClient(t, newTestApp(t, imagineSearcher(), nil))
		if status, _ := c.post("/select", url.Values{"index": {"x"}}); status != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", status)
		}
		if status, _ := c.post("/select", url.Values{"index": {"0"}, "seq": {"-1"}}); status != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", status)
		}
	})
}

func TestAdd(t *testing.T) {
	c := newClient(t, newTestApp(t, imagineSearcher(), nil))

	if status, _ := c.post("/add", nil); status != http.StatusForbidden {
		t.Errorf("Add without suggestions should answer 403, got %d", status)
	}

	c.get("/search?q=Imagine")
	status, body := c.post("/add", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(body, "3:03") {
		t.Error("first suggestion should be listed")
	}
}

func TestAdminGate(t *testing.T) {
	c := newClient(t, newTestApp(t, imagineSearcher(), nil))
	c.searchAndSelect("Imagine")

	t.Run("Sidebar", func(t *testing.T) {
		_, body := c.post("/sidebar", nil)
		if !strings.Contains(body, "Admin code") {
			t.Error("sidebar should open")
		}
		if strings.Contains(body, "Save Playlist") {
			t.Error("export link should be hidden without the code")
		}
	})

	t.Run("WrongCode", func(t *testing.T) {
		_, body := c.post("/code", url.Values{"code": {"1411089"}})
		if strings.Contains(body, `hx-post="/delete"`) {
			t.Error("delete should be hidden for a wrong code")
		}
		if status, _ := c.post("/delete", url.Values{"index": {"0"}}); status != http.StatusForbidden {
			t.Errorf("expected 403, got %d", status)
		}
	})

	t.Run("CorrectCode", func(t *testing.T) {
		_, body := c.post("/code", url.Values{"code": {shared.DefaultAdminCode}})
		for _, want := range []string{`hx-post="/delete"`, "Save Playlist", `href="/export?format=csv"`} {
			if !strings.Contains(body, want) {
				t.Errorf("admin view missing %q", want)
			}
		}
	})

	t.Run("DeleteOutOfRange", func(t *testing.T) {
		status, body := c.post("/delete", url.Values{"index": {"5"}})
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if !strings.Contains(body, "3:03") {
			t.Error("out-of-range delete should leave the list unchanged")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		status, body := c.post("/delete", url.Values{"index": {"0"}})
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if !strings.Contains(body, "Nothing listed yet.") {
			t.Error("track should be removed")
		}
	})

	t.Run("SidebarCloses", func(t *testing.T) {
		_, body := c.post("/sidebar", nil)
		if strings.Contains(body, "Admin code") {
			t.Error("sidebar should close")
		}
	})
}

func TestExport(t *testing.T) {
	t.Run("RequiresAdmin", func(t *testing.T) {
		history := &tu.MockRecorder{}
		c := newClient(t, newTestApp(t, imagineSearcher(), history))
		c.searchAndSelect("Imagine")

		if status, _ := c.get("/export"); status != http.StatusForbidden {
			t.Errorf("expected 403, got %d", status)
		}
		if len(history.Calls()) != 0 {
			t.Error("refused export should not be recorded")
		}
	})

	t.Run("JSON", func(t *testing.T) {
		history := &tu.MockRecorder{}
		c := newClient(t, newTestApp(t, imagineSearcher(), history))
		c.searchAndSelect("Imagine")
		c.searchAndSelect("Jealous")
		c.post("/code", url.Values{"code": {shared.DefaultAdminCode}})

		status, headers, body := c.do(http.MethodGet, "/export", nil)
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if got := headers.Get("Content-Disposition"); got != `attachment; filename="playlist.json"` {
			t.Errorf("unexpected Content-Disposition %q", got)
		}

		var file models.PlaylistFile
		if err := json.Unmarshal([]byte(body), &file); err != nil {
			t.Fatalf("export is not JSON: %v", err)
		}
		want := models.NewPlaylistFile([]models.Track{tu.ImagineTrack(), tu.SecondTrack()})
		if diff := deep.Equal(file, want); diff != nil {
			t.Error(diff)
		}
		if strings.Contains(body, "durationSeconds") || strings.Contains(body, "image") {
			t.Error("export must not carry image or duration")
		}

		if diff := deep.Equal(history.Calls(), []tu.RecordCall{{Format: "json", Filename: "playlist.json", TrackCount: 2}}); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("CSV", func(t *testing.T) {
		c := newClient(t, newTestApp(t, imagineSearcher(), nil))
		c.searchAndSelect("Imagine")
		c.post("/code", url.Values{"code": {shared.DefaultAdminCode}})

		status, headers, body := c.do(http.MethodGet, "/export?format=csv", nil)
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if got := headers.Get("Content-Disposition"); got != `attachment; filename="playlist.csv"` {
			t.Errorf("unexpected Content-Disposition %q", got)
		}
		if !strings.HasPrefix(body, "Title,Artist,Album,ID") {
			t.Errorf("unexpected CSV body %q", body)
		}
	})

	t.Run("UnsupportedFormat", func(t *testing.T) {
		c := newClient(t, newTestApp(t, imagineSearcher(), nil))
		c.post("/code", url.Values{"code": {shared.DefaultAdminCode}})

		if status, _ := c.get("/export?format=xml"); status != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", status)
		}
	})

	t.Run("HistoryFailureDoesNotFailExport", func(t *testing.T) {
		history := &tu.MockRecorder{Err: errors.New("disk full")}
		c := newClient(t, newTestApp(t, imagineSearcher(), history))
		c.post("/code", url.Values{"code": {shared.DefaultAdminCode}})

		status, body := c.get("/export")
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if !strings.Contains(body, models.PlaylistName) {
			t.Error("empty export should still carry the playlist header")
		}
	})
}

func TestSessionsAreIsolated(t *testing.T) {
	srv := newTestApp(t, imagineSearcher(), nil)
	alice := newClient(t, srv)
	bob := newClient(t, srv)

	alice.searchAndSelect("Imagine")

	_, body := bob.get("/")
	if !strings.Contains(body, "Nothing listed yet.") {
		t.Error("second visitor should start with an empty list")
	}

	_, body = alice.get("/")
	if !strings.Contains(body, "3:03") {
		t.Error("first visitor should keep their list")
	}
}

func TestSessionStorePrune(t *testing.T) {
	store := newSessionStore("")
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	for i := range 3 {
		rec := httptest.NewRecorder()
		store.acquire(rec, httptest.NewRequest(http.MethodGet, "/?n="+strconv.Itoa(i), nil))
	}
	if store.len() != 3 {
		t.Fatalf("expected 3 sessions, got %d", store.len())
	}

	now = now.Add(sessionTTL + time.Minute)
	store.acquire(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if store.len() != 1 {
		t.Errorf("idle sessions should be pruned, %d left", store.len())
	}
}

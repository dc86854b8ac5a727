package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"starwars-api/confs"
	"starwars-api/logging"
	"starwars-api/repositories/repotest"
	"starwars-api/ws"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logging.Init(logging.Config{Level: "disabled"})
	os.Exit(m.Run())
}

func newTestRouter(t *testing.T) (*gin.Engine, *repotest.Store) {
	t.Helper()
	store := repotest.NewStore()
	repos := Repositories{
		Users:      store.Users(),
		Characters: store.Characters(),
		Planets:    store.Planets(),
		Favourites: store.Favourites(),
	}
	return NewRouter(confs.ServerConfig{CORSOrigins: "*"}, repos, ws.NewManager(), nil), store
}

type response struct {
	Code   int
	Body   []byte
	Header http.Header
}

func do(t *testing.T, app http.Handler, method, path, body string, headers ...string) response {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return response{Code: rec.Code, Body: rec.Body.Bytes(), Header: rec.Header()}
}

func decode[T any](t *testing.T, r response) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(r.Body, &v); err != nil {
		t.Fatalf("decode %s: %v", r.Body, err)
	}
	return v
}

type errorBody struct {
	Msg    string   `json:"msg"`
	Fields []string `json:"fields"`
}

const tatooine = `{"name":"Tatooine","climate":"arid","population":"200000","orbital_period":"304","rotation_period":"23","diameter":"10465"}`

func TestTatooineFavouriteFlow(t *testing.T) {
	app, _ := newTestRouter(t)

	r := do(t, app, http.MethodPost, "/user", `{"email":"luke@tatooine.net","password":"x","is_active":true}`)
	if r.Code != http.StatusOK {
		t.Fatalf("create user: %d %s", r.Code, r.Body)
	}

	r = do(t, app, http.MethodPost, "/planet", tatooine)
	if r.Code != http.StatusOK {
		t.Fatalf("create planet: %d %s", r.Code, r.Body)
	}
	created := r.Body
	planet := decode[map[string]any](t, r)
	if planet["id"] != float64(1) || planet["climate"] != "arid" {
		t.Errorf("planet = %v", planet)
	}

	r = do(t, app, http.MethodGet, "/planets/1", "")
	if r.Code != http.StatusOK || !bytes.Equal(r.Body, created) {
		t.Errorf("GET /planets/1 = %d %s, want %s", r.Code, r.Body, created)
	}

	dup := strings.Replace(tatooine, `"arid"`, `"frozen"`, 1)
	if r = do(t, app, http.MethodPost, "/planet", dup); r.Code != http.StatusConflict {
		t.Errorf("duplicate planet: %d %s", r.Code, r.Body)
	}
	r = do(t, app, http.MethodGet, "/planets", "")
	planets := decode[[]map[string]any](t, r)
	if len(planets) != 1 || planets[0]["climate"] != "arid" {
		t.Errorf("planets after duplicate = %v", planets)
	}

	if r = do(t, app, http.MethodPost, "/favourite/planet/1", ""); r.Code != http.StatusOK {
		t.Fatalf("add favourite: %d %s", r.Code, r.Body)
	}

	r = do(t, app, http.MethodGet, "/users/favourites", "")
	if r.Code != http.StatusOK {
		t.Fatalf("list favourites: %d %s", r.Code, r.Body)
	}
	favs := decode[[]map[string]any](t, r)
	if len(favs) != 1 || favs[0]["planet_id"] != float64(1) || favs[0]["character_id"] != nil {
		t.Errorf("favourites = %v", favs)
	}

	if r = do(t, app, http.MethodPost, "/favourite/planet/1", ""); r.Code != http.StatusConflict {
		t.Errorf("second add: %d %s", r.Code, r.Body)
	}
}

func TestLargeNumbersStoredVerbatim(t *testing.T) {
	app, _ := newTestRouter(t)

	body := `{"name":"Coruscant","climate":"temperate","population":12345678901234567890,` +
		`"orbital_period":368,"rotation_period":24,"diameter":12240}`
	r := do(t, app, http.MethodPost, "/planet", body)
	if r.Code != http.StatusOK {
		t.Fatalf("create planet: %d %s", r.Code, r.Body)
	}
	planet := decode[map[string]any](t, r)
	if planet["population"] != "12345678901234567890" || planet["diameter"] != "12240" {
		t.Errorf("planet = %v", planet)
	}
}

func TestDuplicateEmail(t *testing.T) {
	app, _ := newTestRouter(t)

	if r := do(t, app, http.MethodPost, "/user", `{"email":"a@b.com","password":"x"}`); r.Code != http.StatusOK {
		t.Fatalf("first create: %d %s", r.Code, r.Body)
	}
	r := do(t, app, http.MethodPost, "/user", `{"email":"a@b.com","password":"x"}`)
	if r.Code != http.StatusConflict {
		t.Fatalf("second create: %d %s", r.Code, r.Body)
	}
	if body := decode[errorBody](t, r); body.Msg == "" {
		t.Error("error body has no msg")
	}
}

func TestUserPasswordNotSerialized(t *testing.T) {
	app, _ := newTestRouter(t)
	r := do(t, app, http.MethodPost, "/user", `{"email":"a@b.com","password":"secret"}`)
	if strings.Contains(string(r.Body), "password") || strings.Contains(string(r.Body), "secret") {
		t.Errorf("password leaked: %s", r.Body)
	}

	r = do(t, app, http.MethodGet, "/users", "")
	users := decode[[]map[string]any](t, r)
	if len(users) != 1 || users[0]["email"] != "a@b.com" || users[0]["is_active"] != true {
		t.Errorf("users = %v", users)
	}
	if _, ok := users[0]["password"]; ok {
		t.Error("password present in list")
	}
}

func TestCreatePlanetValidation(t *testing.T) {
	app, _ := newTestRouter(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantFields []string
	}{
		{"empty object", `{}`, http.StatusBadRequest, nil},
		{"no body", ``, http.StatusBadRequest, nil},
		{"malformed", `{"name":`, http.StatusBadRequest, nil},
		{"missing", `{"name":"Hoth"}`, http.StatusBadRequest, []string{"climate", "population", "orbital_period", "rotation_period", "diameter"}},
		{"empty value", `{"name":"Hoth","climate":"","population":"1","orbital_period":"1","rotation_period":"1","diameter":"1"}`, http.StatusBadRequest, []string{"climate"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := do(t, app, http.MethodPost, "/planet", tt.body)
			if r.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", r.Code, tt.wantStatus, r.Body)
			}
			body := decode[errorBody](t, r)
			if tt.wantFields != nil && strings.Join(body.Fields, ",") != strings.Join(tt.wantFields, ",") {
				t.Errorf("fields = %v, want %v", body.Fields, tt.wantFields)
			}
		})
	}

	r := do(t, app, http.MethodGet, "/planets", "")
	if r.Code != http.StatusOK || string(r.Body) != "[]" {
		t.Errorf("planets after failed creates: %d %s", r.Code, r.Body)
	}
}

func TestCharacterRoutes(t *testing.T) {
	app, _ := newTestRouter(t)
	luke := `{"name":"Luke Skywalker","gender":"male","birth_year":"19BBY","eye_color":"blue","skin_color":"fair","height":172}`

	if r := do(t, app, http.MethodPost, "/people", luke); r.Code != http.StatusOK {
		t.Fatalf("create: %d %s", r.Code, r.Body)
	}

	r := do(t, app, http.MethodPut, "/people/1", `{"id":5,"eye_color":"green"}`)
	if r.Code != http.StatusBadRequest {
		t.Fatalf("update with id: %d %s", r.Code, r.Body)
	}
	if body := decode[errorBody](t, r); strings.Join(body.Fields, ",") != "id" {
		t.Errorf("fields = %v, want [id]", body.Fields)
	}

	r = do(t, app, http.MethodPut, "/people/1", `{"eye_color":"green"}`)
	if r.Code != http.StatusOK {
		t.Fatalf("update: %d %s", r.Code, r.Body)
	}
	if c := decode[map[string]any](t, r); c["eye_color"] != "green" || c["height"] != "172" {
		t.Errorf("updated = %v", c)
	}

	if r = do(t, app, http.MethodGet, "/people/abc", ""); r.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id: %d", r.Code)
	}
	if r = do(t, app, http.MethodGet, "/people/42", ""); r.Code != http.StatusNotFound {
		t.Errorf("missing id: %d", r.Code)
	}

	r = do(t, app, http.MethodDelete, "/people/1", "")
	if r.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", r.Code, r.Body)
	}
	if c := decode[map[string]any](t, r); c["name"] != "Luke Skywalker" {
		t.Errorf("deleted = %v", c)
	}
	if r = do(t, app, http.MethodGet, "/people/1", ""); r.Code != http.StatusNotFound {
		t.Errorf("get after delete: %d", r.Code)
	}
}

func TestFavouritesWithoutActiveUser(t *testing.T) {
	app, _ := newTestRouter(t)

	r := do(t, app, http.MethodGet, "/users/favourites", "")
	if r.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (%s)", r.Code, r.Body)
	}
	if body := decode[errorBody](t, r); body.Msg != "No user is active" {
		t.Errorf("msg = %q", body.Msg)
	}
}

func TestFavouritesExplicitUser(t *testing.T) {
	app, _ := newTestRouter(t)
	do(t, app, http.MethodPost, "/user", `{"email":"a@b.com","password":"x"}`)
	do(t, app, http.MethodPost, "/user", `{"email":"c@d.com","password":"x"}`)
	do(t, app, http.MethodPost, "/planet", tatooine)

	if r := do(t, app, http.MethodPost, "/favourite/planet/1", "", "X-User-ID", "2"); r.Code != http.StatusOK {
		t.Fatalf("add: %d %s", r.Code, r.Body)
	}

	// The default active user is user 1, which has no favourites.
	r := do(t, app, http.MethodGet, "/users/favourites", "")
	if r.Code != http.StatusOK || string(r.Body) != "[]" {
		t.Errorf("user 1 favourites: %d %s", r.Code, r.Body)
	}
	r = do(t, app, http.MethodGet, "/users/favourites", "", "X-User-ID", "2")
	if favs := decode[[]map[string]any](t, r); len(favs) != 1 {
		t.Errorf("user 2 favourites = %v", favs)
	}

	if r = do(t, app, http.MethodGet, "/users/favourites", "", "X-User-ID", "9"); r.Code != http.StatusNotFound {
		t.Errorf("unknown user: %d", r.Code)
	}
	if r = do(t, app, http.MethodGet, "/users/favourites", "", "X-User-ID", "me"); r.Code != http.StatusBadRequest {
		t.Errorf("bad header: %d", r.Code)
	}
}

func TestRemoveFavourite(t *testing.T) {
	app, _ := newTestRouter(t)
	do(t, app, http.MethodPost, "/user", `{"email":"a@b.com","password":"x"}`)
	do(t, app, http.MethodPost, "/people", `{"name":"Leia","gender":"female","birth_year":"19BBY","eye_color":"brown","skin_color":"light","height":"150"}`)

	if r := do(t, app, http.MethodDelete, "/favourite/people/1", ""); r.Code != http.StatusNotFound {
		t.Errorf("remove before add: %d", r.Code)
	}
	if r := do(t, app, http.MethodDelete, "/favourite/people/2", ""); r.Code != http.StatusNotFound {
		t.Errorf("remove missing target: %d", r.Code)
	}
	do(t, app, http.MethodPost, "/favourite/people/1", "")

	r := do(t, app, http.MethodDelete, "/favourite/people/1", "")
	if r.Code != http.StatusOK {
		t.Fatalf("remove: %d %s", r.Code, r.Body)
	}
	if fav := decode[map[string]any](t, r); fav["character_id"] != float64(1) {
		t.Errorf("removed = %v", fav)
	}
}

func TestSitemapAndHealth(t *testing.T) {
	app, _ := newTestRouter(t)

	r := do(t, app, http.MethodGet, "/", "")
	if r.Code != http.StatusOK {
		t.Fatalf("sitemap: %d", r.Code)
	}
	routes := decode[[]route](t, r)
	found := false
	for _, rt := range routes {
		if rt.Method == http.MethodPost && rt.Path == "/favourite/planet/:id" {
			found = true
		}
	}
	if !found {
		t.Errorf("sitemap misses POST /favourite/planet/:id: %v", routes)
	}

	if r = do(t, app, http.MethodGet, "/health", ""); r.Code != http.StatusOK {
		t.Errorf("health: %d", r.Code)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	app, _ := newTestRouter(t)

	r := do(t, app, http.MethodGet, "/health", "", "X-Request-ID", "abc-123")
	if got := r.Header.Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q", got)
	}
	r = do(t, app, http.MethodGet, "/health", "")
	if r.Header.Get("X-Request-ID") == "" {
		t.Error("no request id generated")
	}
}

func TestStoreFailureIs500(t *testing.T) {
	app, store := newTestRouter(t)
	store.Err = errors.New("connection refused")

	r := do(t, app, http.MethodGet, "/people", "")
	if r.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", r.Code)
	}
	if body := decode[errorBody](t, r); strings.Contains(body.Msg, "connection refused") {
		t.Errorf("store error leaked to client: %q", body.Msg)
	}
}

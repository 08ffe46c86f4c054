package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/bookingops/console/internal/application/console"
	"github.com/bookingops/console/internal/domain/form"
	"github.com/bookingops/console/internal/domain/identity"
	"github.com/bookingops/console/internal/domain/shared"
	"github.com/bookingops/console/internal/domain/table"
	"github.com/bookingops/console/internal/infrastructure/cache"
	"github.com/bookingops/console/internal/interfaces/http/dto"
	"github.com/bookingops/console/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

type widget struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// widgetStore is an in-memory remote collection
type widgetStore struct {
	mu   sync.Mutex
	rows map[string]widget
	seq  int
}

func newWidgetStore(names ...string) *widgetStore {
	s := &widgetStore{rows: map[string]widget{}}
	for _, n := range names {
		s.seq++
		id := fmt.Sprintf("w-%d", s.seq)
		s.rows[id] = widget{ID: id, Name: n}
	}
	return s
}

func (s *widgetStore) Search(_ context.Context, req shared.PageRequest) (*shared.Page[widget], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.rows))
	for id := range s.rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if req.SortOrder == shared.SortDesc {
		sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	}
	total := len(ids)
	if !req.GetAll {
		start := (req.PageNumber - 1) * req.Limit
		if start > total {
			start = total
		}
		end := min(start+req.Limit, total)
		ids = ids[start:end]
	}
	nodes := make([]widget, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, s.rows[id])
	}
	return &shared.Page[widget]{Nodes: nodes, PageNumber: req.PageNumber, PageSize: req.Limit, TotalCount: total}, nil
}

func (s *widgetStore) FindByID(_ context.Context, id string) (*widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &w, nil
}

func (s *widgetStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return shared.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *widgetStore) create(_ context.Context, f *form.Form) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := fmt.Sprintf("w-%d", s.seq)
	s.rows[id] = widget{ID: id, Name: f.Scope().Text("name"), Color: f.Scope().Text("color")}
	return id, nil
}

func widgetScreen(store *widgetStore) *console.Resource[widget] {
	columns := []table.Column[widget]{
		{Key: "name", Label: "Name", Render: func(w widget) table.Cell { return table.Link(w.Name, "/widget/"+w.ID) }},
		{Key: "color", Label: "Color", Render: func(w widget) table.Cell { return table.Text(w.Color) }},
	}
	build := func(_ context.Context, rec *widget) (*form.Form, error) {
		w := widget{}
		if rec != nil {
			w = *rec
		}
		return form.New(
			form.Spec{Label: "name", Alias: "name", Type: form.TypeText, Required: true, Value: form.Text(w.Name)},
			form.Spec{Label: "color", Alias: "color", Type: form.TypeDropdown, Value: form.Text(w.Color),
				Choices: []form.Choice{{ID: "red", Name: "Red"}, {ID: "blue", Name: "Blue"}}},
		), nil
	}
	return console.NewResource("widget", store, columns, build,
		console.WithCreate[widget](store.create),
		console.WithDelete[widget](store),
	)
}

type fixture struct {
	store   *widgetStore
	screens *console.Registry
	drafts  *console.DraftService
	state   *cache.InMemoryStateStore
	session *identity.Session
	engine  *gin.Engine
	api     *gin.RouterGroup
}

func newFixture(t *testing.T, names ...string) *fixture {
	t.Helper()
	state := cache.NewInMemoryStateStore(time.Minute)
	t.Cleanup(func() { _ = state.Close() })

	f := &fixture{
		store:   newWidgetStore(names...),
		state:   state,
		session: &identity.Session{ID: "sess-1", UserID: "admin-1", PhoneNumber: "(555) 123-4567"},
		engine:  gin.New(),
	}
	f.screens = console.NewRegistry(widgetScreen(f.store))
	f.drafts = console.NewDraftService(f.screens, state, time.Hour)

	f.engine.Use(middleware.RequestID())
	f.api = f.engine.Group("/api/v1")
	f.api.Use(f.signedIn)
	return f
}

// signedIn stands in for the session middleware
func (f *fixture) signedIn(c *gin.Context) {
	if f.session != nil {
		c.Set(middleware.SessionKey, f.session)
	}
	c.Next()
}

func (f *fixture) do(method, path string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		r = strings.NewReader(string(data))
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

// decode unmarshals the envelope and its data into out
func decode(t *testing.T, w *httptest.ResponseRecorder, out any) dto.Response {
	t.Helper()
	var env struct {
		dto.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if out != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env.Response
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func serve(f *fixture, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

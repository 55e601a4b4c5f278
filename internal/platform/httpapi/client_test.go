package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	apperrors "studyplan/internal/platform/errors"
	"studyplan/internal/platform/httpapi"
)

func newClient(t *testing.T, handler http.HandlerFunc, opts ...httpapi.Option) *httpapi.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := httpapi.New(srv.URL+"/", 2*time.Second, opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestGetExpandsRouteAndDecodes(t *testing.T) {
	t.Parallel()
	var gotPath string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = io.WriteString(w, `{"ativo":true,"tempo_decorrido":42}`)
	})
	out := struct {
		Active  bool  `json:"ativo"`
		Elapsed int64 `json:"tempo_decorrido"`
	}{}
	if err := c.Get(context.Background(), "/timer/status/{id}", &out, "a b/c"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotPath != "/api/timer/status/a%20b%2Fc" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if !out.Active || out.Elapsed != 42 {
		t.Fatalf("unexpected decode %+v", out)
	}
}

func TestPutSendsJSONAndToleratesEmptyBody(t *testing.T) {
	t.Parallel()
	var body map[string]string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusOK)
	})
	out := map[string]any{}
	err := c.Put(context.Background(), "/disciplinas/{id}", map[string]string{"horario_inicio": "09:00"}, &out, "d-1")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if body["horario_inicio"] != "09:00" {
		t.Fatalf("unexpected body %+v", body)
	}
	if len(out) != 0 {
		t.Fatalf("empty response must leave out untouched, got %+v", out)
	}
}

func TestErrorMapping(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		status int
		body   string
		want   error
		detail string
	}{
		{name: "not found", status: 404, body: `{"detail":"Disciplina não encontrada"}`, want: apperrors.ErrNotFound, detail: "Disciplina não encontrada"},
		{name: "rejected", status: 400, body: `{"detail":"Já existe uma sessão ativa"}`, want: apperrors.ErrRejected, detail: "Já existe uma sessão ativa"},
		{name: "validation list", status: 422, body: `{"detail":[{"loc":["body"],"msg":"field required"}]}`, want: apperrors.ErrRejected},
		{name: "server", status: 500, body: `oops`, want: apperrors.ErrBackend, detail: "oops"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})
			err := c.Post(context.Background(), "/timer/iniciar", map[string]string{"disciplina_id": "x"}, nil)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var apiErr *httpapi.Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *httpapi.Error, got %T", err)
			}
			if apiErr.Status != tc.status {
				t.Fatalf("unexpected status %d", apiErr.Status)
			}
			if tc.detail != "" && apiErr.Detail != tc.detail {
				t.Fatalf("unexpected detail %q", apiErr.Detail)
			}
		})
	}
}

func TestMetricsAreRecordedPerRoute(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}, httpapi.WithRegisterer(reg))
	var out []any
	for _, id := range []string{"a", "b", "c"} {
		if err := c.Get(context.Background(), "/timer/status/{id}", &out, id); err != nil {
			t.Fatalf("get: %v", err)
		}
	}
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 2 {
		t.Fatalf("expected counter and histogram, got %d families", len(families))
	}
	got, err := testutil.GatherAndCount(reg, "studyplan_backend_requests_total")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if got != 1 {
		t.Fatalf("route template should collapse ids into one series, got %d", got)
	}
}

func TestRouteParamMismatchAndBadBaseURL(t *testing.T) {
	t.Parallel()
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {})
	if err := c.Get(context.Background(), "/disciplinas/{id}", nil); err == nil {
		t.Fatalf("missing param must fail")
	}
	if err := c.Get(context.Background(), "/disciplinas", nil, "extra"); err == nil {
		t.Fatalf("extra param must fail")
	}
	if _, err := httpapi.New("localhost", time.Second); err == nil {
		t.Fatalf("relative base url must fail")
	}
}

func TestContextCancellation(t *testing.T) {
	t.Parallel()
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := c.Get(ctx, "/disciplinas", nil); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestTimestampFormats(t *testing.T) {
	t.Parallel()
	cases := []struct {
		raw  string
		want time.Time
	}{
		{raw: `"2026-10-19T10:00:00Z"`, want: time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)},
		{raw: `"2026-10-19T10:00:00.250000"`, want: time.Date(2026, 10, 19, 10, 0, 0, 250000000, time.UTC)},
		{raw: `"2026-10-19T07:00:00-03:00"`, want: time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)},
		{raw: `"2026-10-19T10:00:00"`, want: time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		var ts httpapi.Timestamp
		if err := json.Unmarshal([]byte(tc.raw), &ts); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.raw, err)
		}
		if !ts.Equal(tc.want) {
			t.Fatalf("unmarshal %s = %s, want %s", tc.raw, ts.Time, tc.want)
		}
	}
	var null httpapi.Timestamp
	if err := json.Unmarshal([]byte("null"), &null); err != nil || !null.IsZero() {
		t.Fatalf("null should decode to zero, got %v %v", null, err)
	}
	if err := json.Unmarshal([]byte(`"yesterday"`), &null); err == nil {
		t.Fatalf("garbage timestamp must fail")
	}
}

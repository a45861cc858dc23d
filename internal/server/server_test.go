package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/coauthornet/pkg/cache"
	"github.com/matzehuels/coauthornet/pkg/config"
	"github.com/matzehuels/coauthornet/pkg/graph"
	"github.com/matzehuels/coauthornet/pkg/pipeline"
	"github.com/matzehuels/coauthornet/pkg/session"
)

var payload = graph.Payload{
	Nodes: []graph.PayloadNode{
		{ID: "ada", Country: "UK", Affiliation: "Cambridge", Publications: 2, Titles: []string{"Notes"}},
		{ID: "bob", Country: "US"},
		{ID: "cy", Country: "UK"},
	},
	Links: []graph.PayloadLink{{Source: "ada", Target: "bob"}, {Source: "bob", Target: "cy"}},
}

func newTestServer(t *testing.T) (*httptest.Server, *Server) {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	store := session.NewMemoryStore(nil)
	srv := New(Options{
		Config:  config.ServerConfig{StreamFPS: 1000},
		Store:   store,
		Runner:  pipeline.NewRunner(c, nil, nil),
		Session: session.Options{Interval: 5 * time.Millisecond},
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		store.Close()
	})
	return ts, srv
}

func do(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		rd = bytes.NewReader(data)
	}
	req, _ := http.NewRequest(method, url, rd)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func create(t *testing.T, ts *httptest.Server, req CreateRequest) string {
	t.Helper()
	resp, body := do(t, http.MethodPost, ts.URL+"/sessions", req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, body %v", resp.StatusCode, body)
	}
	return body["id"].(string)
}

func errCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := do(t, http.MethodGet, ts.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Errorf("healthz = %d %v", resp.StatusCode, body)
	}
	if body["sessions"] != float64(0) {
		t.Errorf("sessions = %v, want 0", body["sessions"])
	}

	create(t, ts, CreateRequest{Payload: &payload})
	_, body = do(t, http.MethodGet, ts.URL+"/healthz", nil)
	if body["sessions"] != float64(1) {
		t.Errorf("sessions = %v, want 1", body["sessions"])
	}
}

func TestSessionLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)
	id := create(t, ts, CreateRequest{Payload: &payload})
	base := ts.URL + "/sessions/" + id

	resp, frame := do(t, http.MethodGet, base+"/frame", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("frame status = %d", resp.StatusCode)
	}
	if nodes, _ := frame["nodes"].([]any); len(nodes) != 3 {
		t.Errorf("frame nodes = %v", frame["nodes"])
	}

	resp, status := do(t, http.MethodPost, base+"/events", `{"type":"hover","node":"ada"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("event status = %d, body %v", resp.StatusCode, status)
	}
	hl, _ := status["highlight"].(map[string]any)
	if hl["value"] != "UK" {
		t.Errorf("highlight = %v", status["highlight"])
	}

	resp, frame = do(t, http.MethodGet, base+"/frame", nil)
	if resp.StatusCode != http.StatusOK || frame["highlight"] == nil {
		t.Errorf("frame after hover = %d %v", resp.StatusCode, frame["highlight"])
	}

	resp, node := do(t, http.MethodGet, base+"/nodes/ada", nil)
	if resp.StatusCode != http.StatusOK || node["affiliation"] != "Cambridge" || node["degree"] != float64(1) {
		t.Errorf("node = %d %v", resp.StatusCode, node)
	}
	if tip, _ := node["tooltip"].([]any); len(tip) != 6 {
		t.Errorf("tooltip = %v", node["tooltip"])
	}

	resp, body := do(t, http.MethodGet, base+"/nodes/zed", nil)
	if resp.StatusCode != http.StatusNotFound || errCode(body) != "NODE_NOT_FOUND" {
		t.Errorf("unknown node = %d %v", resp.StatusCode, body)
	}

	resp, _ = do(t, http.MethodDelete, base, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	resp, body = do(t, http.MethodGet, base+"/frame", nil)
	if resp.StatusCode != http.StatusNotFound || errCode(body) != "SESSION_NOT_FOUND" {
		t.Errorf("deleted session = %d %v", resp.StatusCode, body)
	}
}

func TestWarmAfterDelete(t *testing.T) {
	ts, _ := newTestServer(t)
	id := create(t, ts, CreateRequest{Payload: &payload})
	do(t, http.MethodDelete, ts.URL+"/sessions/"+id, nil)

	resp, body := do(t, http.MethodPost, ts.URL+"/sessions", CreateRequest{Payload: &payload, Warm: true})
	if resp.StatusCode != http.StatusCreated || body["warm"] != true {
		t.Errorf("warm create = %d %v", resp.StatusCode, body)
	}
}

func TestFrameSVG(t *testing.T) {
	ts, _ := newTestServer(t)
	id := create(t, ts, CreateRequest{Payload: &payload})

	resp, err := http.Get(ts.URL + "/sessions/" + id + "/frame?format=svg&width=400&height=300")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(buf.String(), `width="400"`) {
		t.Errorf("svg size not applied: %.120s", buf.String())
	}

	r2, body := do(t, http.MethodGet, ts.URL+"/sessions/"+id+"/frame?format=pdf", nil)
	if r2.StatusCode != http.StatusBadRequest || errCode(body) != "INVALID_FORMAT" {
		t.Errorf("pdf frame = %d %v", r2.StatusCode, body)
	}

	for _, q := range []string{"width=Inf", "height=-Inf", "width=NaN", "width=-5", "height=tall"} {
		r, body := do(t, http.MethodGet, ts.URL+"/sessions/"+id+"/frame?format=svg&"+q, nil)
		if r.StatusCode != http.StatusBadRequest || errCode(body) != "INVALID_INPUT" {
			t.Errorf("%s: frame = %d %v", q, r.StatusCode, body)
		}
	}
}

func TestCreateErrors(t *testing.T) {
	ts, _ := newTestServer(t)
	dangling := graph.Payload{
		Nodes: []graph.PayloadNode{{ID: "a"}},
		Links: []graph.PayloadLink{{Source: "a", Target: "b"}},
	}
	tests := []struct {
		name string
		body any
		code string
	}{
		{"empty", `{}`, "INVALID_SOURCE"},
		{"garbage", `{"nodes":`, "INVALID_INPUT"},
		{"both", CreateRequest{Source: "https://example.org/g.json", Payload: &payload}, "INVALID_INPUT"},
		{"local file", CreateRequest{Source: "/etc/passwd"}, "INVALID_SOURCE"},
		{"dangling link", CreateRequest{Payload: &dangling}, "MALFORMED_GRAPH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, ts.URL+"/sessions", tt.body)
			if resp.StatusCode != http.StatusBadRequest || errCode(body) != tt.code {
				t.Errorf("got %d %v, want 400 %s", resp.StatusCode, body, tt.code)
			}
		})
	}
}

func TestBadEvents(t *testing.T) {
	ts, _ := newTestServer(t)
	id := create(t, ts, CreateRequest{Payload: &payload})
	for _, ev := range []string{`{"type":"teleport"}`, `{"type":"click"}`, `{"type":"zoom"}`} {
		resp, body := do(t, http.MethodPost, ts.URL+"/sessions/"+id+"/events", ev)
		if resp.StatusCode != http.StatusBadRequest || errCode(body) != "INVALID_EVENT" {
			t.Errorf("%s: %d %v", ev, resp.StatusCode, body)
		}
	}
	resp, _ := do(t, http.MethodPost, ts.URL+"/sessions/nope/events", `{"type":"hoverEnd"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown session status = %d", resp.StatusCode)
	}
}

func TestStream(t *testing.T) {
	ts, _ := newTestServer(t)
	id := create(t, ts, CreateRequest{Payload: &payload})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/sessions/"+id+"/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		resp, err := http.Post(ts.URL+"/sessions/"+id+"/events", "application/json", strings.NewReader(`{"type":"hover","node":"bob"}`))
		if err == nil {
			resp.Body.Close()
		}
	}()

	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	seen := map[string]bool{}
	for sc.Scan() && !(seen["frame"] && seen["hoverChanged"]) {
		if ev, ok := strings.CutPrefix(sc.Text(), "event: "); ok {
			seen[ev] = true
		}
	}
	if !seen["frame"] || !seen["hoverChanged"] {
		t.Errorf("events seen = %v", seen)
	}
}

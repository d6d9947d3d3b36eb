package integration

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeAgent is a scripted stand-in for the reasoning agent backend. Each
// connection plays the next script in order, so multi-turn tests control
// exactly what every submission receives.
type fakeAgent struct {
	mu       sync.Mutex
	scripts  [][]string
	requests []*http.Request
	server   *httptest.Server
}

func newFakeAgent(t *testing.T, scripts ...[]string) *fakeAgent {
	t.Helper()
	agent := &fakeAgent{scripts: scripts}
	agent.server = httptest.NewServer(http.HandlerFunc(agent.serve))
	t.Cleanup(agent.server.Close)
	return agent
}

func (a *fakeAgent) serve(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.requests = append(a.requests, r.Clone(r.Context()))
	var script []string
	if len(a.scripts) > 0 {
		script = a.scripts[0]
		a.scripts = a.scripts[1:]
	}
	a.mu.Unlock()

	w.Header().Set("Content-Type", "text/event-stream")
	flusher := w.(http.Flusher)
	for _, event := range script {
		fmt.Fprint(w, event)
		flusher.Flush()
	}
}

func (a *fakeAgent) url() string {
	return a.server.URL
}

// request returns the nth connection's request, for query param assertions.
func (a *fakeAgent) request(n int) *http.Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n >= len(a.requests) {
		return nil
	}
	return a.requests[n]
}

func event(name, body string) string {
	return fmt.Sprintf("event: %s\ndata: %s\n\n", name, body)
}

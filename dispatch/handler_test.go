/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainguard.dev/hookagent/agents/agenttrace"
	"chainguard.dev/hookagent/agents/toolcall"
	"chainguard.dev/hookagent/config"
	"chainguard.dev/hookagent/tools/activitylog"
	"chainguard.dev/hookagent/tools/notify"
	"chainguard.dev/hookagent/tools/scaffold"
	"chainguard.dev/hookagent/webhook"
)

const secret = "It's a Secret to Everybody"

// recorder is a fake for all four collaborators. It records call order.
type recorder struct {
	mu    sync.Mutex
	calls []string

	logErr    error
	fixReply  string
	fixErr    error
	buildErr  error
	notifyErr error

	logged    []activitylog.Record
	fixed     []webhook.Summary
	built     []scaffold.Request
	notified  []notify.Message
	execCtx   agenttrace.ExecutionContext
	deadlines map[string]bool
}

func (r *recorder) record(ctx context.Context, call string) {
	r.calls = append(r.calls, call)
	if r.deadlines == nil {
		r.deadlines = map[string]bool{}
	}
	_, ok := ctx.Deadline()
	r.deadlines[call] = ok
}

func (r *recorder) Log(ctx context.Context, rec activitylog.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(ctx, "log")
	r.logged = append(r.logged, rec)
	return r.logErr
}

func (r *recorder) Respond(ctx context.Context, s webhook.Summary) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(ctx, "fix")
	r.fixed = append(r.fixed, s)
	r.execCtx = agenttrace.GetExecutionContext(ctx)
	if r.fixErr != nil {
		return "", r.fixErr
	}
	return r.fixReply, nil
}

func (r *recorder) Build(ctx context.Context, req scaffold.Request) (scaffold.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(ctx, "build")
	r.built = append(r.built, req)
	if r.buildErr != nil {
		return scaffold.Result{}, r.buildErr
	}
	return scaffold.Result{
		Repository: scaffold.RepositoryHandle{Owner: "acme", Name: "agent-1767225600000", DefaultBranch: "main"},
		CommitSHA:  "0123456789abcdef",
	}, nil
}

func (r *recorder) Notify(ctx context.Context, m notify.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(ctx, "notify")
	r.notified = append(r.notified, m)
	if r.notifyErr != nil {
		return "", r.notifyErr
	}
	return notify.StatusSent, nil
}

func newServer(t *testing.T, rec *recorder, secret string) *httptest.Server {
	t.Helper()
	p := NewPipeline(rec, rec, rec, rec,
		WithClock(func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }),
		WithTimeouts(config.Timeouts{Log: time.Second, Dispatch: 5 * time.Second, Notify: time.Second}),
	)
	srv := httptest.NewServer(NewMux(NewHandler(secret, p)))
	t.Cleanup(srv.Close)
	return srv
}

type delivery struct {
	method    string
	event     string
	body      string
	signature string
	unsigned  bool
}

func post(t *testing.T, srv *httptest.Server, d delivery) (int, map[string]string, http.Header) {
	t.Helper()
	method := d.method
	if method == "" {
		method = http.MethodPost
	}
	req, err := http.NewRequest(method, srv.URL+Path, strings.NewReader(d.body))
	require.NoError(t, err)
	if d.event != "" {
		req.Header.Set(webhook.EventHeader, d.event)
	}
	switch {
	case d.signature != "":
		req.Header.Set(webhook.SignatureHeader, d.signature)
	case !d.unsigned:
		req.Header.Set(webhook.SignatureHeader, webhook.Sign([]byte(d.body), []byte(secret)))
	}
	req.Header.Set(webhook.DeliveryHeader, "72d3162e-cc78-11e3-81ab-4c9367dc0958")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	return resp.StatusCode, body, resp.Header
}

func TestRejections(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		secret   string
		delivery delivery
		wantCode int
	}{{
		name:     "GET",
		secret:   secret,
		delivery: delivery{method: http.MethodGet, event: "push", body: `{}`},
		wantCode: http.StatusMethodNotAllowed,
	}, {
		name:     "no secret configured",
		delivery: delivery{event: "push", body: `{}`},
		wantCode: http.StatusInternalServerError,
	}, {
		name:     "missing signature header",
		secret:   secret,
		delivery: delivery{event: "push", body: `{}`, unsigned: true},
		wantCode: http.StatusBadRequest,
	}, {
		name:     "missing event header",
		secret:   secret,
		delivery: delivery{body: `{}`},
		wantCode: http.StatusBadRequest,
	}, {
		name:     "bad signature",
		secret:   secret,
		delivery: delivery{event: "push", body: `{"commits":[]}`, signature: webhook.Sign([]byte(`{"commits":[]}`), []byte("wrong"))},
		wantCode: http.StatusUnauthorized,
	}, {
		name:     "signature without prefix",
		secret:   secret,
		delivery: delivery{event: "push", body: `{}`, signature: strings.TrimPrefix(webhook.Sign([]byte(`{}`), []byte(secret)), "sha256=")},
		wantCode: http.StatusUnauthorized,
	}, {
		name:     "signed body that is not an object",
		secret:   secret,
		delivery: delivery{event: "push", body: `[1,2,3]`},
		wantCode: http.StatusBadRequest,
	}, {
		name:     "signed body that is not JSON",
		secret:   secret,
		delivery: delivery{event: "push", body: `not json`},
		wantCode: http.StatusBadRequest,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := &recorder{}
			srv := newServer(t, rec, tt.secret)

			code, body, header := post(t, srv, tt.delivery)
			assert.Equal(t, tt.wantCode, code)
			assert.NotEmpty(t, body["message"])
			assert.Empty(t, rec.calls, "no side effects on rejection")
			if code == http.StatusMethodNotAllowed {
				assert.Equal(t, http.MethodPost, header.Get("Allow"))
			}
		})
	}
}

func TestIssuesBuildsAgent(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	srv := newServer(t, rec, secret)

	code, body, _ := post(t, srv, delivery{
		event: webhook.EventIssues,
		body:  `{"action":"opened","issue":{"title":"Build an agent for metrics","body":""}}`,
	})
	require.Equal(t, http.StatusOK, code, "body: %v", body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "Created repository acme/agent-1767225600000 with scaffold commit 0123456", body["result"])

	assert.Equal(t, []string{"log", "build", "notify"}, rec.calls)
	assert.Equal(t, []scaffold.Request{{Summary: "Issue: Build an agent for metrics"}}, rec.built)
	assert.Empty(t, rec.fixed)
	assert.Equal(t, []activitylog.Record{{
		Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EventType: "issues",
		Action:    "build_agent",
		Summary:   "Issue: Build an agent for metrics",
	}}, rec.logged)
	assert.Equal(t, "Created repository acme/agent-1767225600000 with scaffold commit 0123456", rec.notified[0].Result)
	for _, step := range rec.calls {
		assert.True(t, rec.deadlines[step], "%s has no deadline", step)
	}
}

func TestIssueCommentRunsExecutor(t *testing.T) {
	t.Parallel()
	rec := &recorder{fixReply: "Bisect the startup path."}
	srv := newServer(t, rec, secret)

	code, body, _ := post(t, srv, delivery{
		event: webhook.EventIssueComment,
		body:  `{"comment":{"body":"please fix the crash on startup"}}`,
	})
	require.Equal(t, http.StatusOK, code, "body: %v", body)
	assert.Equal(t, map[string]string{"status": "ok", "result": "Bisect the startup path."}, body)

	assert.Equal(t, []string{"log", "fix", "notify"}, rec.calls)
	assert.Equal(t, []webhook.Summary{"Issue comment: please fix the crash on startup"}, rec.fixed)
	assert.Empty(t, rec.built)
	assert.Equal(t, agenttrace.ExecutionContext{
		DeliveryID: "72d3162e-cc78-11e3-81ab-4c9367dc0958",
		EventType:  "issue_comment",
		Action:     "fix_or_feature",
	}, rec.execCtx)
}

func TestPushAndUnknownEvents(t *testing.T) {
	t.Parallel()
	tests := []struct {
		event, body string
		want        webhook.Summary
	}{
		{event: "push", body: `{"repository":{"full_name":"o/r"},"commits":[{"message":"a"},{"message":"b"}]}`, want: "Push to o/r: a | b"},
		{event: "release", body: `{"release":{"tag_name":"v1"}}`, want: "Unhandled event release"},
		{event: "push", body: `{"repository":"not-an-object","commits":"nope"}`, want: "Push to unknown: "},
	}
	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			t.Parallel()
			rec := &recorder{fixReply: "noted"}
			srv := newServer(t, rec, secret)

			code, _, _ := post(t, srv, delivery{event: tt.event, body: tt.body})
			require.Equal(t, http.StatusOK, code)
			require.Len(t, rec.fixed, 1)
			assert.Equal(t, tt.want, rec.fixed[0])
		})
	}
}

func TestLogFailureIsIsolated(t *testing.T) {
	t.Parallel()
	before := testutil.ToFloat64(sideEffectFailures.WithLabelValues("activity_log"))
	rec := &recorder{fixReply: "done", logErr: errors.New("sheets: 503")}
	srv := newServer(t, rec, secret)

	code, body, _ := post(t, srv, delivery{event: "issue_comment", body: `{"comment":{"body":"fix it"}}`})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "done", body["result"])
	assert.Equal(t, []string{"log", "fix", "notify"}, rec.calls)
	assert.GreaterOrEqual(t, testutil.ToFloat64(sideEffectFailures.WithLabelValues("activity_log"))-before, 1.0)
}

func TestNotifyFailureIsIsolated(t *testing.T) {
	t.Parallel()
	rec := &recorder{fixReply: "done", notifyErr: errors.New("telegram: 400")}
	srv := newServer(t, rec, secret)

	code, body, _ := post(t, srv, delivery{event: "issue_comment", body: `{"comment":{"body":"fix it"}}`})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "done", body["result"])
}

func TestDispatchFailures(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		rec        *recorder
		event      string
		body       string
		wantCode   int
		wantResult string
	}{{
		name:     "executor error",
		rec:      &recorder{fixErr: errors.New("openai completion: 401 Unauthorized")},
		event:    "issue_comment",
		body:     `{"comment":{"body":"fix the build"}}`,
		wantCode: http.StatusBadGateway,
	}, {
		name:     "builder error",
		rec:      &recorder{buildErr: errors.New("creating repository acme/agent-1: 422")},
		event:    "issues",
		body:     `{"issue":{"title":"generate a new agent"}}`,
		wantCode: http.StatusBadGateway,
	}, {
		name:       "builder not configured",
		rec:        &recorder{buildErr: toolcall.NotConfigured("scaffold builder", "GITHUB_TOKEN")},
		event:      "issues",
		body:       `{"issue":{"title":"please build an agent"}}`,
		wantCode:   http.StatusOK,
		wantResult: "scaffold builder: not configured (missing GITHUB_TOKEN)",
	}, {
		name:       "executor not configured",
		rec:        &recorder{fixErr: fmt.Errorf("wrapped: %w", toolcall.NotConfigured("openai reasoning backend", "OPENAI_API_KEY"))},
		event:      "issue_comment",
		body:       `{"comment":{"body":"fix the build"}}`,
		wantCode:   http.StatusOK,
		wantResult: "wrapped: openai reasoning backend: not configured (missing OPENAI_API_KEY)",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := newServer(t, tt.rec, secret)

			code, body, _ := post(t, srv, delivery{event: tt.event, body: tt.body})
			assert.Equal(t, tt.wantCode, code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantResult, body["result"])
			} else {
				assert.NotEmpty(t, body["message"])
			}
			// The notifier runs after every dispatch, successful or not.
			require.Len(t, tt.rec.notified, 1)
			assert.Equal(t, "notify", tt.rec.calls[len(tt.rec.calls)-1])
		})
	}
}

func TestOversizedBody(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	srv := newServer(t, rec, secret)

	big := `{"pad":"` + strings.Repeat("x", MaxBodyBytes) + `"}`
	code, body, _ := post(t, srv, delivery{event: "push", body: big, signature: "sha256=00"})
	assert.Equal(t, http.StatusRequestEntityTooLarge, code)
	assert.NotEmpty(t, body["message"])
	assert.Empty(t, rec.calls)
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	srv := newServer(t, &recorder{}, "")

	resp, err := srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequestMetrics(t *testing.T) {
	t.Parallel()
	counter := webhookRequests.WithLabelValues("other", "401")
	before := testutil.ToFloat64(counter)

	srv := newServer(t, &recorder{}, secret)
	code, _, _ := post(t, srv, delivery{event: "deployment", body: `{}`, signature: "sha256=deadbeef"})
	require.Equal(t, http.StatusUnauthorized, code)
	assert.GreaterOrEqual(t, testutil.ToFloat64(counter)-before, 1.0)
}

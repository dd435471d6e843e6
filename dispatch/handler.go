/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package dispatch

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"

	"chainguard.dev/hookagent/agents/agenttrace"
	"chainguard.dev/hookagent/webhook"
)

// MaxBodyBytes is GitHub's payload cap.
const MaxBodyBytes = 25 << 20

// Path is where NewMux serves the webhook endpoint.
const Path = "/webhook"

type okResponse struct {
	Status string `json:"status"`
	Result string `json:"result"`
}

type errorResponse struct {
	Message string `json:"message"`
}

type handler struct {
	secret   []byte
	pipeline *Pipeline
}

// NewHandler returns the webhook endpoint. An empty secret makes every POST
// fail with 500 instead of accepting unsigned deliveries.
func NewHandler(secret string, p *Pipeline) http.Handler {
	return &handler{secret: []byte(secret), pipeline: p}
}

// NewMux serves the webhook handler on Path and a liveness probe on /healthz.
func NewMux(webhookHandler http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(Path, webhookHandler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})
	return mux
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	event := r.Header.Get(webhook.EventHeader)
	delivery := r.Header.Get(webhook.DeliveryHeader)
	if delivery == "" {
		delivery = uuid.NewString()
	}
	log := clog.FromContext(r.Context()).With("delivery", delivery, "event", event)
	ctx := clog.WithLogger(r.Context(), log)
	ctx = agenttrace.WithExecutionContext(ctx, agenttrace.ExecutionContext{DeliveryID: delivery, EventType: event})

	reply := func(code int, body any) {
		webhookRequests.WithLabelValues(metricEvent(event), strconv.Itoa(code)).Inc()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			log.Warnf("Failed to write response: %v", err)
		}
	}
	fail := func(code int, msg string) {
		log.With("code", code).Warnf("Rejected webhook: %s", msg)
		reply(code, errorResponse{Message: msg})
	}

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		fail(http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if len(h.secret) == 0 {
		fail(http.StatusInternalServerError, "webhook secret is not configured")
		return
	}

	sig := r.Header.Get(webhook.SignatureHeader)
	if sig == "" || event == "" {
		fail(http.StatusBadRequest, "missing "+webhook.SignatureHeader+" or "+webhook.EventHeader+" header")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(http.StatusRequestEntityTooLarge, "payload exceeds 25 MiB")
			return
		}
		fail(http.StatusBadRequest, "failed to read body")
		return
	}

	if !webhook.VerifySignature(body, sig, h.secret) {
		fail(http.StatusUnauthorized, "invalid signature")
		return
	}

	env, err := webhook.ParseEnvelope(event, body)
	if err != nil {
		fail(http.StatusBadRequest, err.Error())
		return
	}
	if env.Repository != "" {
		ctx = clog.WithLogger(ctx, log.With("repository", env.Repository))
	}

	out, err := h.pipeline.Run(ctx, env)
	if err != nil {
		fail(http.StatusBadGateway, err.Error())
		return
	}
	log.With("action", string(out.Action), "notification", out.Notification).Info("Webhook handled")
	reply(http.StatusOK, okResponse{Status: "ok", Result: out.Result})
}

// metricEvent bounds the event label to the types the pipeline knows.
func metricEvent(event string) string {
	switch event {
	case webhook.EventPush, webhook.EventIssues, webhook.EventIssueComment:
		return event
	case "":
		return "none"
	}
	return "other"
}

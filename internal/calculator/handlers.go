package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// maxBodyBytes caps request bodies; token lists are short.
const maxBodyBytes = 64 << 10

// Handler serves the calculator endpoints. It is the presentation layer that
// owns session state; all arithmetic happens in the engine package.
type Handler struct {
	store     *Store
	maxTokens int
}

// NewHandler returns a Handler backed by store that accepts at most maxTokens
// tokens per request.
func NewHandler(store *Store, maxTokens int) *Handler {
	return &Handler{store: store, maxTokens: maxTokens}
}

// ---------------------------------------------------------------------------
// Handlers: sessions
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "session.create")
	defer span.End()

	id, state, err := h.store.Create()
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "session.create", "cannot create session", err, http.StatusServiceUnavailable, w)
		return
	}

	span.SetAttributes(attribute.String("calculator.session.id", id))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator session created",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusCreated, sessionView(id, state))
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "session.get")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("calculator.session.id", id))

	state, err := h.store.Get(id)
	if err != nil {
		h.sessionError(ctx, span, logger, "session.get", err, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, sessionView(id, state))
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "session.delete")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("calculator.session.id", id))

	if err := h.store.Delete(id); err != nil {
		h.sessionError(ctx, span, logger, "session.delete", err, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("calculator session deleted",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)
	w.WriteHeader(http.StatusNoContent)
}

// PressKeys handles POST /calculator/sessions/{id}/keys. It applies the tokens
// in order, as if pressed one after another on that session's keypad.
func (h *Handler) PressKeys(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "session.keys")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("calculator.session.id", id))

	var req KeysRequest
	if err := decodeBody(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "session.keys", "invalid request body", err, http.StatusBadRequest, w)
		return
	}
	if err := h.checkTokens(req.Tokens); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "session.keys", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.Int("calculator.keys.count", len(req.Tokens)))

	state, err := h.store.Press(id, req.Tokens, func(s engine.State, tok string) engine.State {
		return observeStep(ctx, span, s, tok).Next
	})
	if err != nil {
		h.sessionError(ctx, span, logger, "session.keys", err, w)
		return
	}

	span.SetAttributes(attribute.String("calculator.display", state.Display()))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator keys applied",
		zap.String("session_id", id),
		zap.Int("keys", len(req.Tokens)),
		zap.String("display", state.Display()),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusOK, sessionView(id, state))
}

// ---------------------------------------------------------------------------
// Handlers: stateless
// ---------------------------------------------------------------------------

// Apply handles POST /calculator/apply: one transition on a caller-held state.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "apply")
	defer span.End()

	var req ApplyRequest
	if err := decodeBody(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "apply", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	state := engine.New()
	if req.State != nil {
		if err := req.State.Validate(); err != nil {
			observability.RecordError(ctx, span, logger, errorCounter, "apply", "invalid state", err, http.StatusBadRequest, w)
			return
		}
		state = *req.State
	}

	tr := observeStep(ctx, span, state, req.Token)

	span.SetAttributes(attribute.String("calculator.display", tr.Next.Display()))
	span.SetStatus(codes.Ok, "")

	handlers.WriteJSON(w, http.StatusOK, ApplyResponse{
		Display:  tr.Next.Display(),
		Phase:    tr.Next.Phase().String(),
		Class:    tr.Class.String(),
		Fallback: tr.Fallback,
		State:    tr.Next,
	})
}

// Replay handles POST /calculator/replay. It runs a token sequence from the
// identity state, creating a child span for every key. This produces a
// multi-level trace that is ideal for visualising in Jaeger / Grafana Tempo.
func (h *Handler) Replay(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "replay")
	defer span.End()
	requestID := observability.RequestIDFromContext(ctx)

	var req ReplayRequest
	if err := decodeBody(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "replay", "invalid request body", err, http.StatusBadRequest, w)
		return
	}
	if err := h.checkTokens(req.Tokens); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "replay", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.Int("calculator.keys.count", len(req.Tokens)))

	state := engine.New()
	steps := make([]ReplayStep, 0, len(req.Tokens))

	for i, tok := range req.Tokens {
		stepCtx, stepSpan := tracer.Start(ctx, fmt.Sprintf("calculator.replay.key.%d", i),
			trace.WithAttributes(
				attribute.Int("calculator.key.index", i),
				attribute.String("calculator.key.token", tok),
				attribute.String("calculator.key.input_display", state.Display()),
			),
		)

		tr := observeStep(stepCtx, stepSpan, state, tok)
		state = tr.Next

		stepSpan.SetAttributes(attribute.String("calculator.key.display", state.Display()))
		stepSpan.SetStatus(codes.Ok, "")
		stepSpan.End()

		steps = append(steps, ReplayStep{
			Token:    tok,
			Class:    tr.Class.String(),
			Display:  state.Display(),
			Fallback: tr.Fallback,
		})
	}

	span.AddEvent("replay.complete", trace.WithAttributes(
		attribute.String("display", state.Display()),
		attribute.Int("total_keys", len(req.Tokens)),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator replay completed",
		zap.Int("keys", len(req.Tokens)),
		zap.String("display", state.Display()),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, ReplayResponse{
		Steps:   steps,
		Display: state.Display(),
		State:   state,
	})
}

// Keypad handles GET /calculator/keypad
func (h *Handler) Keypad(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusOK, KeypadResponse{Tokens: engine.Tokens()})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func startSpan(r *http.Request, opName string) (context.Context, trace.Span, *zap.Logger) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator."+opName,
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", observability.RequestIDFromContext(ctx)),
		),
	)
	return ctx, span, logger
}

// observeStep applies one token and records its metrics on the span.
func observeStep(ctx context.Context, span trace.Span, s engine.State, token string) engine.Transition {
	start := time.Now()
	tr := engine.Step(s, token)
	elapsed := float64(time.Since(start).Nanoseconds()) / 1e6 // ms

	attrs := metric.WithAttributes(attribute.String("class", tr.Class.String()))
	keysCounter.Add(ctx, 1, attrs)
	transitionDuration.Record(ctx, elapsed, attrs)

	if tr.Fallback {
		fallbackCounter.Add(ctx, 1, attrs)
		span.AddEvent("arithmetic.fallback", trace.WithAttributes(
			attribute.String("token", token),
		))
	}
	return tr
}

func (h *Handler) checkTokens(tokens []string) error {
	if len(tokens) == 0 {
		return errors.New("no tokens provided")
	}
	if len(tokens) > h.maxTokens {
		return fmt.Errorf("too many tokens: %d > %d", len(tokens), h.maxTokens)
	}
	return nil
}

func (h *Handler) sessionError(ctx context.Context, span trace.Span, logger *zap.Logger, opName string, err error, w http.ResponseWriter) {
	status := http.StatusInternalServerError
	if errors.Is(err, ErrSessionNotFound) {
		status = http.StatusNotFound
	}
	observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, status, w)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

func sessionView(id string, s engine.State) SessionResponse {
	return SessionResponse{
		SessionID: id,
		Display:   s.Display(),
		Phase:     s.Phase().String(),
		State:     s,
	}
}

package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/iffykid/Valentines2026/internal/handler/health"
	"github.com/iffykid/Valentines2026/internal/session"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type sessionPath struct {
	SessionID string `path:"sessionID" description:"Session ID returned by POST /api/sessions."`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Valentines API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Sessions of the love-meter quiz. The page forwards input events and applies the render commands it receives.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Reports whether the quiz configuration can be loaded.")
	getHealthz.AddRespStructure(map[string]health.Result{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(map[string]health.Result{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/sessions
	createSession, _ := r.NewOperationContext(http.MethodPost, "/api/sessions")
	createSession.SetSummary("Start session")
	createSession.SetDescription("Loads the quiz configuration and starts a locked session.")
	createSession.AddRespStructure(CreateSessionResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	createSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(createSession)

	// GET /api/sessions/{sessionID}
	getSession, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{sessionID}")
	getSession.SetSummary("Get session state")
	getSession.SetDescription("Returns a snapshot of gate, answers, progress and reveal state.")
	getSession.AddReqStructure(sessionPath{})
	getSession.AddRespStructure(session.State{}, openapi.WithHTTPStatus(http.StatusOK))
	getSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	getSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusGone))
	_ = r.AddOperation(getSession)

	// DELETE /api/sessions/{sessionID}
	endSession, _ := r.NewOperationContext(http.MethodDelete, "/api/sessions/{sessionID}")
	endSession.SetSummary("End session")
	endSession.SetDescription("Stops the session loop and drops its state.")
	endSession.AddReqStructure(sessionPath{})
	endSession.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	endSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(endSession)

	// POST /api/sessions/{sessionID}/events
	postEvent, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{sessionID}/events")
	postEvent.SetSummary("Send input event")
	postEvent.SetDescription("Queues one interaction. Resulting commands go to the connected surfaces.")
	postEvent.AddReqStructure(struct {
		sessionPath
		session.Event
	}{})
	postEvent.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusAccepted))
	postEvent.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postEvent.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postEvent.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusGone))
	_ = r.AddOperation(postEvent)

	// GET /api/sessions/{sessionID}/ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{sessionID}/ws")
	getWS.SetSummary("Surface stream")
	getWS.SetDescription("Upgrades to a WebSocket. The client sends input events as JSON text messages and receives render commands.")
	getWS.AddReqStructure(sessionPath{})
	getWS.AddRespStructure(session.Command{}, openapi.WithHTTPStatus(http.StatusSwitchingProtocols))
	getWS.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getWS)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

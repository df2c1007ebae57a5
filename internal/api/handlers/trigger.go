package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/selhaddad/sakanalert/internal/engine"
	"github.com/selhaddad/sakanalert/internal/store"
	domain "github.com/selhaddad/sakanalert/pkg/types"
)

// TriggerHandler handles manual matching run requests.
type TriggerHandler struct {
	runner engine.Runner
}

// NewTriggerHandler creates a new TriggerHandler.
func NewTriggerHandler(r engine.Runner) *TriggerHandler {
	return &TriggerHandler{runner: r}
}

// TriggerOutput is the response body for the match trigger endpoint.
type TriggerOutput struct {
	Body struct {
		Success                bool      `json:"success"                 example:"true"                 doc:"Whether the run completed"`
		Message                string    `json:"message"                 example:"matching run completed" doc:"Human-readable outcome"`
		AlertsProcessed        int       `json:"alerts_processed"        example:"12"                   doc:"Active alerts evaluated"`
		PropertiesChecked      int       `json:"properties_checked"      example:"340"                  doc:"Candidate listings evaluated"`
		NotificationsGenerated int       `json:"notifications_generated" example:"3"                    doc:"Alerts that produced a notification"`
		ProcessedAt            time.Time `json:"processed_at"                                           doc:"Run start time"`
	}
}

// Trigger runs one matching pass immediately. If another instance already
// holds the run lock the request succeeds with a skip message.
func (h *TriggerHandler) Trigger(ctx context.Context, _ *struct{}) (*TriggerOutput, error) {
	summary, err := h.runner.RunMatching(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("matching run failed: " + err.Error())
	}

	resp := &TriggerOutput{}
	if summary.Skipped {
		resp.Body.Message = "matching run already in progress, skipped"
		resp.Body.ProcessedAt = time.Now()
		return resp, nil
	}

	resp.Body.Success = true
	resp.Body.Message = "matching run completed"
	resp.Body.AlertsProcessed = summary.AlertsProcessed
	resp.Body.PropertiesChecked = summary.ListingsChecked
	resp.Body.NotificationsGenerated = summary.NotificationsGenerated
	resp.Body.ProcessedAt = summary.StartedAt

	return resp, nil
}

// RunsHandler handles match-run history queries.
type RunsHandler struct {
	store store.Store
}

// NewRunsHandler creates a new RunsHandler.
func NewRunsHandler(s store.Store) *RunsHandler {
	return &RunsHandler{store: s}
}

// ListRunsInput is the input for listing match runs.
type ListRunsInput struct {
	Limit int `query:"limit" doc:"Number of runs to return (default 20)" minimum:"1" maximum:"200"`
}

// ListRunsOutput is the response for listing match runs.
type ListRunsOutput struct {
	Body struct {
		Runs []domain.MatchRun `json:"runs"`
	}
}

// ListRuns returns recent matching runs, newest first.
func (h *RunsHandler) ListRuns(ctx context.Context, input *ListRunsInput) (*ListRunsOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 20
	}

	runs, err := h.store.ListMatchRuns(ctx, limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing runs: " + err.Error())
	}

	if runs == nil {
		runs = []domain.MatchRun{}
	}

	resp := &ListRunsOutput{}
	resp.Body.Runs = runs

	return resp, nil
}

// RegisterTriggerRoutes registers the match trigger and run history endpoints
// with the Huma API.
func RegisterTriggerRoutes(api huma.API, triggerH *TriggerHandler, runsH *RunsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "trigger-match-run",
		Method:      http.MethodPost,
		Path:        "/api/v1/match/run",
		Summary:     "Trigger a matching run",
		Description: "Runs the full matching pipeline: select candidate listings, " +
			"evaluate active alert filters, and dispatch push notifications.",
		Tags:   []string{"matching"},
		Errors: []int{http.StatusInternalServerError},
	}, triggerH.Trigger)

	huma.Register(api, huma.Operation{
		OperationID: "list-match-runs",
		Method:      http.MethodGet,
		Path:        "/api/v1/runs",
		Summary:     "List matching runs",
		Description: "Returns recent matching runs with their outcome and counters, newest first.",
		Tags:        []string{"matching"},
		Errors:      []int{http.StatusInternalServerError},
	}, runsH.ListRuns)
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rafael/adforge/internal/db"
	"github.com/rafael/adforge/internal/pipeline"
	"github.com/rafael/adforge/internal/plan"
)

// handleCreateRun launches a pipeline run in the background and returns 202
// with the project id the client polls or streams against.
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req CreateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	if req.Resume && req.ProjectID == "" {
		s.errorResponse(w, http.StatusBadRequest, "resume requires project_id")
		return
	}
	if !req.Resume && req.Brief == nil {
		s.errorResponse(w, http.StatusBadRequest, "brief is required")
		return
	}

	tier, err := plan.ComposeTier(req.Tier, req.Schemes, req.Formats, req.Languages)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	projectID := req.ProjectID
	if projectID == "" {
		projectID = pipeline.NewProjectID()
	}

	brandName := ""
	if req.Brief != nil {
		brandName = req.Brief.BrandName
	}
	if req.Resume {
		// Fail fast on a resume the pipeline would reject anyway.
		m, loadErr := s.store.LoadManifest(projectID)
		if loadErr != nil {
			s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("no manifest for project %s", projectID))
			return
		}
		if brandName == "" {
			brandName = m.BrandName
		}
	}

	state, err := s.runs.create(projectID, brandName, req.Tier)
	if err != nil {
		s.errorResponse(w, http.StatusConflict, err.Error())
		return
	}

	opts := pipeline.RunOptions{
		ProjectID: projectID,
		Text:      s.text,
		Images:    s.images,
		Store:     s.store,
		DB:        s.db,
		Tier:      tier,
		Workers:   s.workers,
		Pacing:    s.pacing,
		Resume:    req.Resume,
		Progress:  state.publish,
	}
	if req.Brief != nil {
		opts.Brief = req.Brief.toBrief()
	}
	if req.BaseLanguage != "" {
		opts.BaseLanguage = req.BaseLanguage
	}
	if req.Workers > 0 {
		opts.Workers = req.Workers
	}
	if req.PacingSeconds > 0 {
		opts.Pacing = time.Duration(req.PacingSeconds * float64(time.Second))
	}

	log.Printf("Starting pipeline run for project %s", projectID)

	go func() {
		result, runErr := pipeline.Run(context.Background(), opts)

		status := string(pipeline.StatusCompleted)
		errMsg := ""
		if runErr != nil {
			status = string(pipeline.StatusFailed)
			errMsg = runErr.Error()
			log.Printf("Pipeline run %s failed: %v", projectID, runErr)
		}
		variants := 0
		var warnings []string
		if result != nil {
			variants = result.Variants
			warnings = result.Warnings
		}
		state.finish(status, errMsg, variants, warnings)
	}()

	s.jsonResponse(w, http.StatusAccepted, state.snapshot())
}

// handleListRuns lists runs: live ones from the registry, older ones from the
// database when one is configured.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	summaries := s.runs.list()

	if s.db != nil {
		seen := make(map[string]bool, len(summaries))
		for _, sum := range summaries {
			seen[sum.ProjectID] = true
		}
		rows, err := s.db.ListRuns(r.Context(), db.RunFilters{
			Brand:  r.URL.Query().Get("brand"),
			Status: r.URL.Query().Get("status"),
		})
		if err != nil {
			log.Printf("Warning: database run listing failed: %v", err)
		}
		for _, row := range rows {
			if !seen[row.ProjectID] {
				summaries = append(summaries, dbRunSummary(row))
			}
		}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": summaries})
}

// handleGetRun returns one run's status, stage ledger, and failures.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var detail RunDetail
	found := false

	if state := s.runs.get(id); state != nil {
		detail.RunSummary = state.snapshot()
		found = true
	}

	if m, err := s.store.LoadManifest(id); err == nil {
		if !found {
			detail.RunSummary = RunSummary{
				ProjectID: m.ProjectID,
				BrandName: m.BrandName,
				Status:    statusFromStages(m.Stages),
				Warnings:  m.Warnings,
				StartedAt: m.CreatedAt,
			}
			found = true
		}
		detail.Epoch = m.Epoch
		detail.Stages = m.Stages
		detail.DesignFailures = m.DesignFailures
		detail.FinalFailures = m.FinalFailures
	}

	if !found && s.db != nil {
		row, err := s.db.GetRunByProject(r.Context(), id)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		if row != nil {
			detail.RunSummary = dbRunSummary(*row)
			detail.Epoch = row.Epoch
			if stages, stagesErr := s.db.ListStages(r.Context(), row.ID); stagesErr == nil {
				detail.Stages = make(map[string]string, len(stages))
				for _, st := range stages {
					detail.Stages[st.Stage] = st.Status
				}
			}
			found = true
		}
	}

	if !found {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, detail)
}

// handleDeleteRun removes a run's records. Files under the output directory
// are left in place.
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if state := s.runs.get(id); state != nil && state.running() {
		s.errorResponse(w, http.StatusConflict, "run is still in progress")
		return
	}
	s.runs.remove(id)

	if s.db != nil {
		row, err := s.db.GetRunByProject(r.Context(), id)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		if row != nil {
			if err := s.db.DeleteRun(r.Context(), row.ID); err != nil {
				s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
				return
			}
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleRunCreatives lists the creatives a run produced, straight from the
// manifest. ?stage=design or ?stage=final narrows the response.
func (s *Server) handleRunCreatives(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	m, err := s.store.LoadManifest(id)
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}

	resp := CreativesResponse{ProjectID: m.ProjectID}
	switch r.URL.Query().Get("stage") {
	case "design":
		resp.Designs = m.Designs
	case "final":
		resp.Finals = m.Finals
	case "":
		resp.Designs = m.Designs
		resp.Finals = m.Finals
		resp.Brand = m.Brand
	default:
		s.errorResponse(w, http.StatusBadRequest, "stage must be design or final")
		return
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleRunEvents streams a run's progress as Server-Sent Events: the buffered
// history first, then live events until the run ends or the client leaves.
func (s *Server) handleRunEvents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	state := s.runs.get(id)
	if state == nil {
		// A run finished before a restart only has its manifest left.
		m, err := s.store.LoadManifest(id)
		if err != nil {
			s.errorResponse(w, http.StatusNotFound, "Run not found")
			return
		}
		sse, sseErr := NewSSEWriter(w)
		if sseErr != nil {
			s.errorResponse(w, http.StatusInternalServerError, sseErr.Error())
			return
		}
		sse.WriteComplete(id, statusFromStages(m.Stages))
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	history, live, cancel := state.subscribe()
	defer cancel()

	for _, event := range history {
		if err := sse.WriteEvent("stage", event); err != nil {
			return
		}
	}
	if live == nil {
		s.writeTerminal(sse, state)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-live:
			if !ok {
				s.writeTerminal(sse, state)
				return
			}
			if err := sse.WriteEvent("stage", event); err != nil {
				return
			}
		}
	}
}

func (s *Server) writeTerminal(sse *SSEWriter, state *runState) {
	snap := state.snapshot()
	if snap.Error != "" {
		sse.WriteError(snap.Error)
	}
	sse.WriteComplete(snap.ProjectID, snap.Status)
}

// dbRunSummary converts a database run row to the API shape.
func dbRunSummary(row db.Run) RunSummary {
	return RunSummary{
		ProjectID: row.ProjectID,
		BrandName: row.BrandName,
		Tier:      row.Tier,
		Status:    row.Status,
		StartedAt: row.CreatedAt,
		EndedAt:   row.CompletedAt,
	}
}

// statusFromStages derives a terminal status for a run only the manifest
// remembers.
func statusFromStages(stages map[string]string) string {
	completed := 0
	for _, status := range stages {
		switch status {
		case string(pipeline.StatusFailed):
			return string(pipeline.StatusFailed)
		case string(pipeline.StatusCompleted):
			completed++
		}
	}
	if completed == len(stages) && len(stages) > 0 {
		return string(pipeline.StatusCompleted)
	}
	return "incomplete"
}

// validationMessage flattens a validator error into a single client-facing
// line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return fmt.Sprintf("invalid field %s (rule: %s)", first.Namespace(), first.Tag())
	}
	return err.Error()
}

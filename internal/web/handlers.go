package web

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/logging"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tasks"
)

// handleHealth reports liveness
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
	})
}

// handleListTasks returns tasks from the store. Query params assignedTo,
// project and includeDone narrow the listing.
func (s *Server) handleListTasks(c echo.Context) error {
	filter := tasks.Filter{
		AssignedTo: c.QueryParam("assignedTo"),
		ProjectID:  c.QueryParam("project"),
	}
	if v := c.QueryParam("includeDone"); v != "" {
		includeDone, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "includeDone must be a boolean"})
		}
		filter.IncludeDone = includeDone
	}

	list := s.sc.TaskStore().List(filter)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count": len(list),
		"tasks": list,
	})
}

// handleListProjects returns every saved project plan
func (s *Server) handleListProjects(c echo.Context) error {
	projects := s.sc.TaskStore().ListProjects()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":    len(projects),
		"projects": projects,
	})
}

// handleListTeam returns the roster
func (s *Server) handleListTeam(c echo.Context) error {
	members := s.sc.Roster().Members()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":   len(members),
		"members": members,
	})
}

// handleCommand runs one text command through the secretary
func (s *Server) handleCommand(c echo.Context) error {
	var req CommandRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "text is required"})
	}
	if !s.nodeKnown(req.Node) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("Node %s not found", req.Node)})
	}

	reply, err := s.sc.Secretary().HandleCommand(c.Request().Context(), req.Text)
	if err != nil {
		s.logger.Error("command failed", logging.Err(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, CommandResponse{Reply: reply.Text})
}

// handleTranscribe transcribes recorded audio, runs the transcript as a
// command and synthesizes the reply when it reads naturally aloud.
func (s *Server) handleTranscribe(c echo.Context) error {
	var req TranscribeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "audio_data is required"})
	}
	if !s.nodeKnown(req.Node) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("Node %s not found", req.Node)})
	}

	encoded := req.AudioData
	// Browser recorders send data URLs; keep only the payload.
	if i := strings.Index(encoded, "base64,"); i >= 0 {
		encoded = encoded[i+len("base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "audio_data must be base64-encoded audio"})
	}

	ctx := c.Request().Context()

	transcript, err := s.sc.Voice().TranscribeBytes(ctx, "audio.mp3", data)
	if err != nil {
		s.logger.Error("transcription failed", logging.Err(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}

	reply, err := s.sc.Secretary().HandleCommand(ctx, transcript)
	if err != nil {
		s.logger.Error("command failed", logging.Err(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}

	resp := TranscribeResponse{Transcript: transcript, Reply: reply.Text}
	if reply.Spoken {
		audio, err := s.sc.Voice().SpeakBytes(ctx, reply.Text)
		if err != nil {
			// The text reply still stands on its own.
			s.logger.Warn("failed to synthesize reply", logging.Err(err))
		} else {
			resp.Audio = base64.StdEncoding.EncodeToString(audio)
		}
	}

	return c.JSON(http.StatusOK, resp)
}

// handleSpeak synthesizes arbitrary text to mp3
func (s *Server) handleSpeak(c echo.Context) error {
	var req SpeakRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "text is required"})
	}

	audio, err := s.sc.Voice().SpeakBytes(c.Request().Context(), req.Text)
	if err != nil {
		s.logger.Error("speech synthesis failed", logging.Err(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, SpeakResponse{Audio: base64.StdEncoding.EncodeToString(audio)})
}

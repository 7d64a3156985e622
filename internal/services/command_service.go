package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"aura/internal/adapters"
	"aura/internal/intent"
	"aura/internal/logging"
	"aura/internal/models"
)

// ErrEmptyCommand is returned when a request carries no command text
var ErrEmptyCommand = fmt.Errorf("command text is required")

// CommandService routes commands through intent classification to the
// adapters and records the outcome in history.
type CommandService struct {
	adapters *adapters.Adapters
	history  *HistoryService
}

// NewCommandService creates the command orchestrator
func NewCommandService(a *adapters.Adapters, history *HistoryService) *CommandService {
	return &CommandService{adapters: a, history: history}
}

// Process runs one command end to end. Adapter failures surface inside the
// result, not as errors; the only error here is an empty command.
func (s *CommandService) Process(ctx context.Context, userID string, req *models.CommandRequest) (*models.CommandResponse, error) {
	command := strings.TrimSpace(req.Command)
	if command == "" {
		return nil, ErrEmptyCommand
	}

	start := time.Now()
	resolved := intent.Classify(command, req.CommandType)
	logger := logging.WithCommand(uuid.New().String(), userID, string(resolved))
	logger.Info("processing command")

	result, status := s.dispatch(ctx, userID, command, resolved)

	// History is best effort; losing a row never fails the command
	commandType := req.CommandType
	if commandType == "" {
		commandType = string(resolved)
	}
	if s.history != nil {
		if err := s.history.Record(ctx, userID, command, commandType, status, result); err != nil {
			log.Printf("⚠️  [COMMAND] Failed to record history: %v", err)
		}
	}

	if m := GetMetrics(); m != nil {
		m.CommandRequests.WithLabelValues(string(resolved), result.Action).Inc()
		m.CommandLatency.Observe(time.Since(start).Seconds())
		if status == models.CommandStatusFailed {
			m.CommandErrors.WithLabelValues(string(resolved)).Inc()
		}
	}
	logger.Info("command processed", "action", result.Action, "status", status)

	return &models.CommandResponse{
		Success: status == models.CommandStatusCompleted,
		Result:  result,
	}, nil
}

// dispatch runs the adapter for a resolved intent. Adapters degrade provider
// failures into results themselves, so the only failed status is a panic
// escaping an adapter; that becomes a failed command instead of a 500.
func (s *CommandService) dispatch(ctx context.Context, userID, command string, resolved intent.Intent) (result *models.CommandResult, status string) {
	status = models.CommandStatusCompleted

	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ [COMMAND] Adapter panic for intent %s: %v", resolved, r)
			status = models.CommandStatusFailed
			result = &models.CommandResult{
				Message: "Command could not be completed",
				Error:   fmt.Sprintf("%v", r),
			}
		}
	}()

	switch resolved {
	case intent.IntentEmail:
		result = s.adapters.HandleEmail(ctx, userID, command)
	case intent.IntentTask:
		result = s.adapters.HandleTask(ctx, userID, command)
	case intent.IntentCalendar:
		result = s.adapters.HandleCalendar(ctx, userID, command)
	case intent.IntentVoice:
		result = s.adapters.HandleVoice(ctx, userID, command)
	default:
		result = s.adapters.HandleGeneral(ctx, userID, command)
	}
	return result, status
}

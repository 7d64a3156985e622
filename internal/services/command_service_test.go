package services

import (
	"context"
	"testing"

	"aura/internal/adapters"
	"aura/internal/models"
)

type panicVoiceStore struct{}

func (panicVoiceStore) Create(ctx context.Context, userID string, note *models.VoiceNote) (int64, error) {
	panic("voice_notes table gone")
}

type okActivityStore struct{}

func (okActivityStore) Record(ctx context.Context, userID string, activity *models.AgentActivity) (int64, error) {
	return 1, nil
}

func TestProcessRejectsEmptyCommand(t *testing.T) {
	svc := NewCommandService(&adapters.Adapters{}, nil)

	_, err := svc.Process(context.Background(), "user-1", &models.CommandRequest{Command: "   "})
	if err != ErrEmptyCommand {
		t.Fatalf("err = %v, want ErrEmptyCommand", err)
	}
}

func TestProcessCompletesGeneralCommand(t *testing.T) {
	svc := NewCommandService(&adapters.Adapters{Activities: okActivityStore{}}, nil)

	resp, err := svc.Process(context.Background(), "user-1", &models.CommandRequest{Command: "summarize my week"})
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if !resp.Success {
		t.Error("expected success")
	}
	if resp.Result.Action != models.ActionGeneralProcessing {
		t.Errorf("action = %q, want %q", resp.Result.Action, models.ActionGeneralProcessing)
	}
}

func TestProcessConvertsAdapterPanicToFailedResult(t *testing.T) {
	svc := NewCommandService(&adapters.Adapters{Voice: panicVoiceStore{}}, nil)

	resp, err := svc.Process(context.Background(), "user-1", &models.CommandRequest{Command: "record note call the vendor"})
	if err != nil {
		t.Fatalf("Process should absorb the panic, got error: %v", err)
	}
	if resp.Success {
		t.Error("a panicking adapter must not report success")
	}
	if resp.Result == nil || resp.Result.Error == "" {
		t.Fatalf("expected error detail in result, got %+v", resp.Result)
	}
	if resp.Result.Message == "" {
		t.Error("expected a user-facing message in result")
	}
}

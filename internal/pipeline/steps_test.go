package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lifetag/tagscan/internal/model"
	"github.com/lifetag/tagscan/internal/payload"
)

// TestDefaultPipeline tests the three intake steps end to end.
func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	t.Run("valid tag renders a view", func(t *testing.T) {
		t.Parallel()

		cycle := model.NewScanCycle("{'public': {'full_name': 'Jane Doe', 'emergency_contact_mobile': '5551234'}}")
		if err := DefaultPipeline("").Execute(context.Background(), cycle); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		if diff := cmp.Diff([]string{"normalize", "validate", "render"}, cycle.PerformedSteps); diff != "" {
			t.Errorf("performed steps mismatch (-want +got):\n%s", diff)
		}
		if cycle.View == nil {
			t.Fatal("expected view")
		}
		if slot, _ := cycle.View.Field(model.FieldFullName); slot.Value != "Jane Doe" {
			t.Errorf("expected Jane Doe, got %+v", slot)
		}
		if slot, _ := cycle.View.Field(model.FieldAddress); slot.Value != "N/A" {
			t.Errorf("expected N/A, got %+v", slot)
		}
		if cycle.View.Call.Href != "tel:5551234" {
			t.Errorf("unexpected call action %+v", cycle.View.Call)
		}
	})

	t.Run("custom placeholder", func(t *testing.T) {
		t.Parallel()

		cycle := model.NewScanCycle("{'public': {}}")
		if err := DefaultPipeline("unknown").Execute(context.Background(), cycle); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if slot, _ := cycle.View.Field(model.FieldFullName); slot.Value != "unknown" {
			t.Errorf("expected custom placeholder, got %+v", slot)
		}
	})

	t.Run("parse failure stops after normalize", func(t *testing.T) {
		t.Parallel()

		cycle := model.NewScanCycle("hello")
		err := DefaultPipeline("").Execute(context.Background(), cycle)

		var parseErr *payload.ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected *payload.ParseError, got %v", err)
		}
		if len(cycle.PerformedSteps) != 0 || cycle.View != nil {
			t.Errorf("expected no completed steps, got %v", cycle.PerformedSteps)
		}
	})

	t.Run("validation failure stops after validate", func(t *testing.T) {
		t.Parallel()

		cycle := model.NewScanCycle("{'other': 1}")
		err := DefaultPipeline("").Execute(context.Background(), cycle)
		if !errors.Is(err, payload.ErrMissingPublic) {
			t.Fatalf("expected ErrMissingPublic, got %v", err)
		}
		if diff := cmp.Diff([]string{"normalize"}, cycle.PerformedSteps); diff != "" {
			t.Errorf("performed steps mismatch (-want +got):\n%s", diff)
		}
		if cycle.View != nil {
			t.Error("expected no view")
		}
	})
}

// TestStepPreconditions tests steps run out of order.
func TestStepPreconditions(t *testing.T) {
	t.Parallel()

	cycle := model.NewScanCycle("{}")
	if err := NewValidateStep().Do(context.Background(), cycle); !errors.Is(err, ErrNoPayload) {
		t.Errorf("expected ErrNoPayload, got %v", err)
	}
	if err := NewRenderStep(nil).Do(context.Background(), cycle); !errors.Is(err, ErrNoRecord) {
		t.Errorf("expected ErrNoRecord, got %v", err)
	}
}

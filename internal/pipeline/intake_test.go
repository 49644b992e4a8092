package pipeline

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/lifetag/tagscan/internal/model"
	"github.com/lifetag/tagscan/internal/scanner"
	"github.com/lifetag/tagscan/internal/view"
)

const (
	janeDoe   = "{'public': {'full_name': 'Jane Doe', 'emergency_contact_mobile': '5551234'}}"
	noPublic  = "{'other': 1}"
	notJSON   = "https://example.com"
	alertHead = "Could not read this QR Code. It might not be a valid LifeTag.\n\nError: "
)

// fakeCamera records arm and disarm calls and lets tests inject decodes.
type fakeCamera struct {
	mu          sync.Mutex
	starts      int
	stops       int
	failStartAt int
	onDecode    scanner.DecodeFunc
}

func (c *fakeCamera) Start(_ context.Context, _ scanner.Constraints, _ scanner.Config, onDecode scanner.DecodeFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.starts++
	if c.starts == c.failStartAt {
		return errors.New("permission denied")
	}
	c.onDecode = onDecode
	return nil
}

func (c *fakeCamera) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stops++
	if c.onDecode == nil {
		return scanner.ErrNotRunning
	}
	c.onDecode = nil
	return nil
}

// decode delivers text if the camera is armed.
func (c *fakeCamera) decode(text string) bool {
	c.mu.Lock()
	fn := c.onDecode
	c.mu.Unlock()
	if fn == nil {
		return false
	}
	fn(text)
	return true
}

func (c *fakeCamera) counts() (starts, stops int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.starts, c.stops
}

// stuckCamera is a fakeCamera whose Stop always fails.
type stuckCamera struct {
	*fakeCamera
}

func (c *stuckCamera) Stop(ctx context.Context) error {
	_ = c.fakeCamera.Stop(ctx)
	return errors.New("device busy")
}

// endingCamera is a fakeCamera whose input can run out.
type endingCamera struct {
	*fakeCamera
	done chan struct{}
}

func (c *endingCamera) Done() <-chan struct{} {
	return c.done
}

// fakePresenter records renders and alerts. When ack is non-nil, Alert
// blocks until a value is received from it.
type fakePresenter struct {
	mu      sync.Mutex
	renders []model.ViewState
	alerts  []string
	ack     chan struct{}
}

func (p *fakePresenter) Render(state model.ViewState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.renders = append(p.renders, state)
}

func (p *fakePresenter) Alert(ctx context.Context, message string) error {
	p.mu.Lock()
	p.alerts = append(p.alerts, message)
	ack := p.ack
	p.mu.Unlock()

	if ack == nil {
		return nil
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *fakePresenter) snapshot() ([]model.ViewState, []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.ViewState(nil), p.renders...), append([]string(nil), p.alerts...)
}

func (p *fakePresenter) results() []model.ViewState {
	renders, _ := p.snapshot()
	var out []model.ViewState
	for _, r := range renders {
		if r.ResultVisible {
			out = append(out, r)
		}
	}
	return out
}

// running is an intake whose Run executes in the background.
type running struct {
	cancel context.CancelFunc
	errc   chan error
}

func startIntake(t *testing.T, in *Intake) *running {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	r := &running{cancel: cancel, errc: make(chan error, 1)}
	go func() {
		r.errc <- in.Run(ctx)
	}()
	t.Cleanup(cancel)
	return r
}

func (r *running) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-r.errc:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for Run to return")
		return nil
	}
}

func (r *running) stop(t *testing.T) error {
	t.Helper()
	r.cancel()
	return r.wait(t)
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

// scanningAfter waits until the camera has been armed n times and the
// intake is scanning.
func scanningAfter(t *testing.T, in *Intake, cam *fakeCamera, n int) {
	t.Helper()
	eventually(t, "scanning", func() bool {
		starts, _ := cam.counts()
		return starts == n && in.State() == model.StateScanning
	})
}

// TestIntakeValidTag tests the Jane Doe example through the state machine.
func TestIntakeValidTag(t *testing.T) {
	t.Parallel()

	cam := &fakeCamera{}
	pres := &fakePresenter{}
	in := NewIntake(cam, pres)
	r := startIntake(t, in)

	scanningAfter(t, in, cam, 1)
	if !cam.decode(janeDoe) {
		t.Fatal("expected camera to be armed")
	}
	eventually(t, "result", func() bool { return len(pres.results()) == 1 })
	if in.State() != model.StateShowingResult {
		t.Errorf("expected showing result, got %s", in.State())
	}

	if _, stops := cam.counts(); stops != 1 {
		t.Errorf("expected scanner to be stopped once, got %d", stops)
	}

	renders, alerts := pres.snapshot()
	if len(alerts) != 0 {
		t.Errorf("unexpected alerts %v", alerts)
	}
	if len(renders) != 3 {
		t.Fatalf("expected requesting, ready and result renders, got %d", len(renders))
	}
	if diff := cmp.Diff(view.Scanning(view.Requesting()), renders[0]); diff != "" {
		t.Errorf("first render mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(view.Scanning(view.Ready()), renders[1]); diff != "" {
		t.Errorf("second render mismatch (-want +got):\n%s", diff)
	}

	want := model.ViewState{
		ResultVisible: true,
		Fields: []model.FieldSlot{
			{Key: "full_name", Label: "Full Name", Value: "Jane Doe"},
			{Key: "address", Label: "Address", Value: "N/A", Missing: true},
			{Key: "emergency_contact_name", Label: "Emergency Contact Name", Value: "N/A", Missing: true},
			{Key: "emergency_contact_relation", Label: "Emergency Contact Relation", Value: "N/A", Missing: true},
			{Key: "emergency_contact_address", Label: "Emergency Contact Address", Value: "N/A", Missing: true},
		},
		Call: model.CallAction{Visible: true, Href: "tel:5551234"},
	}
	if diff := cmp.Diff(want, renders[2]); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}

	if err := r.stop(t); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if in.State() != model.StateStopped {
		t.Errorf("expected stopped, got %s", in.State())
	}
}

// TestIntakeStopFailure tests that a decode is still processed when the
// camera cannot be stopped.
func TestIntakeStopFailure(t *testing.T) {
	t.Parallel()

	cam := &stuckCamera{fakeCamera: &fakeCamera{}}
	pres := &fakePresenter{}
	in := NewIntake(cam, pres)
	r := startIntake(t, in)

	scanningAfter(t, in, cam.fakeCamera, 1)
	if !cam.decode(janeDoe) {
		t.Fatal("expected camera to be armed")
	}
	eventually(t, "result", func() bool { return len(pres.results()) == 1 })

	if in.State() != model.StateShowingResult {
		t.Errorf("expected showing result, got %s", in.State())
	}
	if _, stops := cam.counts(); stops != 1 {
		t.Errorf("expected one stop attempt, got %d", stops)
	}
	if _, alerts := pres.snapshot(); len(alerts) != 0 {
		t.Errorf("unexpected alerts %v", alerts)
	}

	got := pres.results()[0]
	if got.Fields[0].Value != "Jane Doe" {
		t.Errorf("expected Jane Doe, got %q", got.Fields[0].Value)
	}
	if diff := cmp.Diff(model.CallAction{Visible: true, Href: "tel:5551234"}, got.Call); diff != "" {
		t.Errorf("call action mismatch (-want +got):\n%s", diff)
	}

	if err := r.stop(t); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// TestIntakeBadReads tests that bad reads alert and re-arm without a result.
func TestIntakeBadReads(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{
			name:    "missing public",
			input:   noPublic,
			wantMsg: alertHead + "QR code does not contain the required 'public' data field.",
		},
		{
			name:  "not a payload",
			input: notJSON,
		},
		{
			name:    "public not an object",
			input:   "{'public': 'Jane'}",
			wantMsg: alertHead + "QR code 'public' data field is not an object.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cam := &fakeCamera{}
			pres := &fakePresenter{}
			in := NewIntake(cam, pres)
			r := startIntake(t, in)

			scanningAfter(t, in, cam, 1)
			cam.decode(tc.input)
			scanningAfter(t, in, cam, 2)

			_, alerts := pres.snapshot()
			if len(alerts) != 1 {
				t.Fatalf("expected one alert, got %v", alerts)
			}
			if !strings.HasPrefix(alerts[0], alertHead) {
				t.Errorf("unexpected alert %q", alerts[0])
			}
			if tc.wantMsg != "" && alerts[0] != tc.wantMsg {
				t.Errorf("alert = %q, expected %q", alerts[0], tc.wantMsg)
			}
			if results := pres.results(); len(results) != 0 {
				t.Errorf("expected no result view, got %d", len(results))
			}

			if err := r.stop(t); !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		})
	}
}

// TestIntakeAlertBlocks tests that re-arming waits for the alert.
func TestIntakeAlertBlocks(t *testing.T) {
	t.Parallel()

	cam := &fakeCamera{}
	pres := &fakePresenter{ack: make(chan struct{})}
	in := NewIntake(cam, pres)
	r := startIntake(t, in)

	scanningAfter(t, in, cam, 1)
	cam.decode(noPublic)
	eventually(t, "alert", func() bool {
		_, alerts := pres.snapshot()
		return len(alerts) == 1
	})

	if in.State() != model.StateRecovering {
		t.Errorf("expected recovering, got %s", in.State())
	}
	if cam.decode(janeDoe) {
		t.Error("expected camera to stay off during the alert")
	}

	pres.ack <- struct{}{}
	scanningAfter(t, in, cam, 2)

	if err := r.stop(t); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// TestIntakeCancelDuringAlert tests cancellation while the alert is open.
func TestIntakeCancelDuringAlert(t *testing.T) {
	t.Parallel()

	cam := &fakeCamera{}
	pres := &fakePresenter{ack: make(chan struct{})}
	in := NewIntake(cam, pres)
	r := startIntake(t, in)

	scanningAfter(t, in, cam, 1)
	cam.decode(notJSON)
	eventually(t, "alert", func() bool {
		_, alerts := pres.snapshot()
		return len(alerts) == 1
	})

	if err := r.stop(t); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if in.State() != model.StateStopped {
		t.Errorf("expected stopped, got %s", in.State())
	}
	if starts, _ := cam.counts(); starts != 1 {
		t.Errorf("expected no re-arm, got %d starts", starts)
	}
}

// TestIntakeRescan tests re-arming from the result view.
func TestIntakeRescan(t *testing.T) {
	t.Parallel()

	cam := &fakeCamera{}
	pres := &fakePresenter{}
	in := NewIntake(cam, pres)
	r := startIntake(t, in)

	scanningAfter(t, in, cam, 1)
	cam.decode(janeDoe)
	eventually(t, "result", func() bool { return in.State() == model.StateShowingResult })

	in.Rescan()
	scanningAfter(t, in, cam, 2)

	renders, _ := pres.snapshot()
	last := renders[len(renders)-1]
	if !last.ScanningVisible || last.ResultVisible {
		t.Errorf("expected scanner view after rescan, got %+v", last)
	}

	cam.decode("{'public': {'full_name': 'John Roe'}}")
	eventually(t, "second result", func() bool { return len(pres.results()) == 2 })

	if err := r.stop(t); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// TestIntakeIgnoredEvents tests events outside their state.
func TestIntakeIgnoredEvents(t *testing.T) {
	t.Parallel()

	t.Run("rescan outside result view", func(t *testing.T) {
		t.Parallel()

		for _, state := range []model.State{model.StateScanning, model.StateProcessing, model.StateRecovering} {
			cam := &fakeCamera{}
			in := NewIntake(cam, &fakePresenter{})
			in.setState(state)

			if err := in.handleRescan(context.Background()); err != nil {
				t.Fatalf("%s: handleRescan() error = %v", state, err)
			}
			if starts, _ := cam.counts(); starts != 0 {
				t.Errorf("%s: expected no arm, got %d", state, starts)
			}
			if in.State() != state {
				t.Errorf("expected state %s, got %s", state, in.State())
			}
		}
	})

	t.Run("rescan before the result is discarded", func(t *testing.T) {
		t.Parallel()

		cam := &fakeCamera{}
		pres := &fakePresenter{}
		in := NewIntake(cam, pres)
		in.setState(model.StateScanning)

		in.Rescan()
		if err := in.handleDecode(context.Background(), janeDoe); err != nil {
			t.Fatalf("handleDecode() error = %v", err)
		}
		if in.State() != model.StateShowingResult {
			t.Fatalf("expected showing result, got %s", in.State())
		}
		if n := len(in.rescans); n != 0 {
			t.Errorf("expected no pending rescan, got %d", n)
		}
		if starts, _ := cam.counts(); starts != 0 {
			t.Errorf("expected no arm, got %d", starts)
		}
	})

	t.Run("repeated rescan arms once", func(t *testing.T) {
		t.Parallel()

		cam := &fakeCamera{}
		in := NewIntake(cam, &fakePresenter{})
		in.setState(model.StateShowingResult)

		for range 3 {
			if err := in.handleRescan(context.Background()); err != nil {
				t.Fatalf("handleRescan() error = %v", err)
			}
		}
		if starts, _ := cam.counts(); starts != 1 {
			t.Errorf("expected one arm, got %d", starts)
		}
	})

	t.Run("decode outside scanning", func(t *testing.T) {
		t.Parallel()

		for _, state := range []model.State{model.StateShowingResult, model.StateRecovering, model.StateHalted} {
			cam := &fakeCamera{}
			pres := &fakePresenter{}
			in := NewIntake(cam, pres)
			in.setState(state)

			if err := in.handleDecode(context.Background(), janeDoe); err != nil {
				t.Fatalf("%s: handleDecode() error = %v", state, err)
			}
			if _, stops := cam.counts(); stops != 0 {
				t.Errorf("%s: expected no disarm, got %d", state, stops)
			}
			if renders, _ := pres.snapshot(); len(renders) != 0 {
				t.Errorf("%s: expected no render, got %d", state, len(renders))
			}
		}
	})
}

// TestIntakeCameraFailure tests that a refused camera halts the intake.
func TestIntakeCameraFailure(t *testing.T) {
	t.Parallel()

	t.Run("first arm", func(t *testing.T) {
		t.Parallel()

		cam := &fakeCamera{failStartAt: 1}
		pres := &fakePresenter{}
		in := NewIntake(cam, pres)

		err := in.Run(context.Background())
		var accessErr *scanner.CameraAccessError
		if !errors.As(err, &accessErr) {
			t.Fatalf("expected *scanner.CameraAccessError, got %v", err)
		}
		if in.State() != model.StateHalted {
			t.Errorf("expected halted, got %s", in.State())
		}

		renders, _ := pres.snapshot()
		if diff := cmp.Diff(view.Scanning(view.AccessError()), renders[len(renders)-1]); diff != "" {
			t.Errorf("last render mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("re-arm after alert", func(t *testing.T) {
		t.Parallel()

		cam := &fakeCamera{failStartAt: 2}
		in := NewIntake(cam, &fakePresenter{})
		r := startIntake(t, in)

		scanningAfter(t, in, cam, 1)
		cam.decode(notJSON)

		var accessErr *scanner.CameraAccessError
		if err := r.wait(t); !errors.As(err, &accessErr) {
			t.Fatalf("expected *scanner.CameraAccessError, got %v", err)
		}
		if in.State() != model.StateHalted {
			t.Errorf("expected halted, got %s", in.State())
		}
	})
}

// TestIntakeRunTwice tests that an intake runs once.
func TestIntakeRunTwice(t *testing.T) {
	t.Parallel()

	cam := &fakeCamera{}
	in := NewIntake(cam, &fakePresenter{})
	r := startIntake(t, in)
	scanningAfter(t, in, cam, 1)

	if err := in.Run(context.Background()); !errors.Is(err, ErrIntakeStarted) {
		t.Errorf("expected ErrIntakeStarted, got %v", err)
	}
	if err := r.stop(t); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// TestIntakeContinuous tests automatic re-arming and the cycle hook.
func TestIntakeContinuous(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var cycles []*model.ScanCycle

	cam := &fakeCamera{}
	in := NewIntake(cam, &fakePresenter{},
		WithContinuous(true),
		WithPlaceholder("-"),
		OnCycle(func(c *model.ScanCycle) {
			mu.Lock()
			defer mu.Unlock()
			cycles = append(cycles, c)
		}),
	)
	r := startIntake(t, in)

	scanningAfter(t, in, cam, 1)
	cam.decode(janeDoe)
	scanningAfter(t, in, cam, 2)
	cam.decode(noPublic)
	scanningAfter(t, in, cam, 3)

	if err := r.stop(t); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(cycles) != 2 {
		t.Fatalf("expected 2 cycles, got %d", len(cycles))
	}
	if cycles[0].Failed() || cycles[0].View == nil {
		t.Errorf("expected first cycle to succeed, got %v", cycles[0].Err)
	}
	if slot, _ := cycles[0].View.Field(model.FieldAddress); slot.Value != "-" {
		t.Errorf("expected custom placeholder, got %+v", slot)
	}
	if !cycles[1].Failed() || cycles[1].View != nil {
		t.Error("expected second cycle to fail without a view")
	}
	if cycles[0].ID == cycles[1].ID {
		t.Error("expected distinct cycle IDs")
	}
}

// TestIntakeInputExhausted tests that Run ends when the camera runs out.
func TestIntakeInputExhausted(t *testing.T) {
	t.Parallel()

	t.Run("fake camera", func(t *testing.T) {
		t.Parallel()

		cam := &endingCamera{fakeCamera: &fakeCamera{}, done: make(chan struct{})}
		in := NewIntake(cam, &fakePresenter{})
		r := startIntake(t, in)

		scanningAfter(t, in, cam.fakeCamera, 1)
		close(cam.done)

		if err := r.wait(t); err != nil {
			t.Errorf("Run() error = %v", err)
		}
		if in.State() != model.StateStopped {
			t.Errorf("expected stopped, got %s", in.State())
		}
		if _, stops := cam.counts(); stops != 1 {
			t.Errorf("expected camera to be stopped, got %d stops", stops)
		}
	})

	t.Run("piped lines", func(t *testing.T) {
		t.Parallel()

		input := strings.Join([]string{janeDoe, notJSON, "", "{'public': {'full_name': 'John Roe'}}"}, "\n")
		cam := scanner.NewLineCamera(strings.NewReader(input), nil)

		var cycles []*model.ScanCycle
		pres := &fakePresenter{}
		in := NewIntake(cam, pres,
			WithContinuous(true),
			OnCycle(func(c *model.ScanCycle) { cycles = append(cycles, c) }),
		)

		if err := in.Run(context.Background()); err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		if len(cycles) != 3 {
			t.Fatalf("expected 3 cycles, got %d", len(cycles))
		}
		if name, _ := cycles[2].Public.FullName(); name != "John Roe" {
			t.Errorf("expected John Roe, got %q", name)
		}
		if !cycles[1].Failed() {
			t.Error("expected second line to fail")
		}
		if _, alerts := pres.snapshot(); len(alerts) != 1 {
			t.Errorf("expected one alert, got %d", len(alerts))
		}
		if len(pres.results()) != 2 {
			t.Errorf("expected two results, got %d", len(pres.results()))
		}
	})
	t.Run("read error", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("x", scanner.MaxLineLength+1)
		cam := scanner.NewLineCamera(strings.NewReader(long+"\n"+janeDoe+"\n"), nil)

		var cycles []*model.ScanCycle
		pres := &fakePresenter{}
		in := NewIntake(cam, pres,
			WithContinuous(true),
			OnCycle(func(c *model.ScanCycle) { cycles = append(cycles, c) }),
		)

		err := in.Run(context.Background())
		if !errors.Is(err, scanner.ErrInputFailed) {
			t.Fatalf("expected ErrInputFailed, got %v", err)
		}
		if !errors.Is(err, bufio.ErrTooLong) {
			t.Errorf("expected bufio.ErrTooLong, got %v", err)
		}
		if len(cycles) != 0 {
			t.Errorf("expected no cycles, got %d", len(cycles))
		}
		if in.State() != model.StateStopped {
			t.Errorf("expected stopped, got %s", in.State())
		}
	})
}

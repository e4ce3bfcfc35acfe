package scheduler

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/olegiv/blockpress/internal/model"
	"github.com/olegiv/blockpress/internal/publish"
	"github.com/olegiv/blockpress/internal/testutil"
)

type fakePublisher struct {
	mu           sync.Mutex
	republishErr error
	pageErr      error
	sitemapErr   error
	calls        []string
	block        chan struct{}
}

func (f *fakePublisher) RepublishAll(context.Context) (*publish.Report, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	f.calls = append(f.calls, "republish")
	f.mu.Unlock()
	if f.republishErr != nil {
		return nil, f.republishErr
	}
	return &publish.Report{RunID: "run-1", Attempted: 2, Succeeded: 2, Err: f.pageErr}, nil
}

func (f *fakePublisher) PublishSitemap(context.Context) (*publish.SitemapResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "sitemap")
	f.mu.Unlock()
	if f.sitemapErr != nil {
		return nil, f.sitemapErr
	}
	return &publish.SitemapResult{Path: "pub/sitemap.xml", URLs: 2}, nil
}

type fakeEvents struct {
	levels []string
}

func (f *fakeEvents) LogEvent(_ context.Context, level, category, _ string, _ map[string]any) error {
	if category != model.EventCategoryScheduler {
		return errors.New("unexpected category " + category)
	}
	f.levels = append(f.levels, level)
	return nil
}

func TestNew(t *testing.T) {
	s, err := New("@hourly", &fakePublisher{}, nil, testutil.TestLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.cron == nil {
		t.Error("New() scheduler has nil cron")
	}

	if _, err := New("every now and then", &fakePublisher{}, nil, nil); err == nil {
		t.Error("New() with invalid schedule should fail")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := New("*/5 * * * *", &fakePublisher{}, nil, testutil.TestLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	st := s.Status()
	if !st.Enabled {
		t.Error("Status().Enabled = false, want true")
	}
	if st.NextRun.IsZero() {
		t.Error("Status().NextRun is zero after Start")
	}

	s.Stop()
}

func TestScheduler_Disabled(t *testing.T) {
	s, err := New(Disabled, &fakePublisher{}, nil, testutil.TestLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if s.Status().Enabled {
		t.Error("Status().Enabled = true, want false")
	}
	s.Stop()
}

func TestScheduler_RunNow(t *testing.T) {
	pub := &fakePublisher{}
	events := &fakeEvents{}
	s, err := New("", pub, events, testutil.TestLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := s.RunNow(context.Background()); err != nil {
		t.Fatalf("RunNow() error = %v", err)
	}
	if len(pub.calls) != 2 || pub.calls[0] != "republish" || pub.calls[1] != "sitemap" {
		t.Errorf("calls = %v, want [republish sitemap]", pub.calls)
	}
	if len(events.levels) != 1 || events.levels[0] != model.EventLevelInfo {
		t.Errorf("event levels = %v, want [info]", events.levels)
	}

	st := s.Status()
	if st.LastRun.IsZero() {
		t.Error("Status().LastRun is zero after RunNow")
	}
	if st.LastError != "" {
		t.Errorf("Status().LastError = %q, want empty", st.LastError)
	}
}

func TestScheduler_RunNowContinuesAfterFailures(t *testing.T) {
	pageErr := errors.New("page 3: disk full")
	pub := &fakePublisher{pageErr: pageErr, sitemapErr: errors.New("sitemap failed")}
	events := &fakeEvents{}
	s, _ := New("", pub, events, testutil.TestLogger())

	err := s.RunNow(context.Background())
	if !errors.Is(err, pageErr) {
		t.Errorf("RunNow() error = %v, want it to wrap %v", err, pageErr)
	}
	if len(pub.calls) != 2 {
		t.Errorf("calls = %v, want sitemap attempted after page failures", pub.calls)
	}
	if len(events.levels) != 1 || events.levels[0] != model.EventLevelError {
		t.Errorf("event levels = %v, want [error]", events.levels)
	}
	if s.Status().LastError == "" {
		t.Error("Status().LastError is empty after failed run")
	}
}

func TestScheduler_RunNowNoOverlap(t *testing.T) {
	pub := &fakePublisher{block: make(chan struct{})}
	s, _ := New("", pub, nil, testutil.TestLogger())

	done := make(chan error)
	go func() { done <- s.RunNow(context.Background()) }()

	// Wait until the first run holds the running flag.
	for !s.Status().Running {
		runtime.Gosched()
	}

	if err := s.RunNow(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second RunNow() error = %v, want %v", err, ErrAlreadyRunning)
	}

	close(pub.block)
	if err := <-done; err != nil {
		t.Errorf("first RunNow() error = %v", err)
	}
}

func TestValidateSchedule(t *testing.T) {
	valid := []string{"", "off", "OFF", "@hourly", "@daily", "@every 30m", "0 * * * *", "*/15 2 * * 1-5"}
	for _, spec := range valid {
		if err := ValidateSchedule(spec); err != nil {
			t.Errorf("ValidateSchedule(%q) error = %v", spec, err)
		}
	}

	invalid := []string{"hourly", "* * *", "61 * * * *", "@fortnightly"}
	for _, spec := range invalid {
		if err := ValidateSchedule(spec); err == nil {
			t.Errorf("ValidateSchedule(%q) should fail", spec)
		}
	}
}

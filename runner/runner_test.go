package runner

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/BeenaAbe/linkedin-agent-workflow/notify"
	"github.com/BeenaAbe/linkedin-agent-workflow/queue"
	"github.com/BeenaAbe/linkedin-agent-workflow/workflow"
)

// singleStep completes a run in one node so runner tests exercise queue and
// notification plumbing without the full agent pipeline.
type singleStep struct {
	fail func(state workflow.State) error
}

func (s singleStep) Node() workflow.Node { return workflow.NodeValidate }

func (s singleStep) Run(_ context.Context, state workflow.State) (workflow.State, error) {
	if s.fail != nil {
		if err := s.fail(state); err != nil {
			return state, err
		}
	}
	state.WorkflowID = "wf-" + state.ItemID
	state.ResearchBrief = "brief for " + state.Topic
	state.Hooks = []string{"h1", "h2", "h3"}
	state.PostBody = "body"
	state.CTA = "cta"
	state.Hashtags = []string{"#a", "#b", "#c"}
	state.QualityScore = 85
	state.RevisionCount = 1
	state.Visual = &workflow.VisualSpec{Format: workflow.VisualCarousel, Suggestion: "a carousel"}
	state.Status = workflow.StatusReady
	return state, nil
}

func newExecutor(t *testing.T, fail func(workflow.State) error) *workflow.Executor {
	t.Helper()
	graph, err := workflow.NewBuilder().
		AddStep(singleStep{fail: fail}).
		SetEntry(workflow.NodeValidate).
		AddEdge(workflow.NodeValidate, workflow.NodeEnd).
		Build()
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	return workflow.NewExecutor(graph)
}

type fakeQueue struct {
	pending       []queue.Item
	newSince      func(since time.Time) []queue.Item
	statusUpdates []string
	savedBriefs   []string
	savedDrafts   []queue.Draft
	claimErr      error
	saveDraftErr  error
}

func (f *fakeQueue) AllPending(context.Context) ([]queue.Item, error) {
	return f.pending, nil
}

func (f *fakeQueue) NewSince(_ context.Context, since time.Time) ([]queue.Item, error) {
	if f.newSince != nil {
		return f.newSince(since), nil
	}
	return f.pending, nil
}

func (f *fakeQueue) UpdateStatus(_ context.Context, _, status string) error {
	if status == queue.StatusResearching && f.claimErr != nil {
		return f.claimErr
	}
	f.statusUpdates = append(f.statusUpdates, status)
	return nil
}

func (f *fakeQueue) SaveResearch(_ context.Context, _, brief string) error {
	f.savedBriefs = append(f.savedBriefs, brief)
	return nil
}

func (f *fakeQueue) SaveDraft(_ context.Context, _ string, draft queue.Draft) error {
	if f.saveDraftErr != nil {
		return f.saveDraftErr
	}
	f.savedDrafts = append(f.savedDrafts, draft)
	return nil
}

type fakeNotifier struct {
	drafts []notify.DraftReady
	errs   []string
}

func (f *fakeNotifier) NotifyDraftReady(_ context.Context, draft notify.DraftReady) {
	f.drafts = append(f.drafts, draft)
}

func (f *fakeNotifier) NotifyError(_ context.Context, topic, errMessage string) {
	f.errs = append(f.errs, topic+": "+errMessage)
}

func item(id, topic string) queue.Item {
	return queue.Item{PageID: id, Topic: topic, Goal: "Educational", CreatedTime: time.Now()}
}

func TestProcessItemSuccess(t *testing.T) {
	q := &fakeQueue{}
	n := &fakeNotifier{}
	r := New(newExecutor(t, nil), q, n)

	final, err := r.ProcessItem(context.Background(), item("page-1", "AI agents"))
	if err != nil {
		t.Fatalf("ProcessItem: %v", err)
	}

	if final.Status != workflow.StatusReady {
		t.Errorf("status = %q", final.Status)
	}
	if len(q.statusUpdates) != 1 || q.statusUpdates[0] != queue.StatusResearching {
		t.Errorf("status updates = %v, want only the claim", q.statusUpdates)
	}
	if len(q.savedBriefs) != 1 || q.savedBriefs[0] != "brief for AI agents" {
		t.Errorf("saved briefs = %v", q.savedBriefs)
	}
	if len(q.savedDrafts) != 1 {
		t.Fatalf("saved drafts = %d", len(q.savedDrafts))
	}
	draft := q.savedDrafts[0]
	if draft.PostBody != "body" || draft.VisualFormat != "carousel" || draft.VisualSuggestion != "a carousel" {
		t.Errorf("draft = %+v", draft)
	}
	if len(n.drafts) != 1 || n.drafts[0].Topic != "AI agents" {
		t.Errorf("notifications = %+v", n.drafts)
	}
	if len(n.errs) != 0 {
		t.Errorf("unexpected error notifications: %v", n.errs)
	}
}

func TestProcessItemFailureResetsItem(t *testing.T) {
	q := &fakeQueue{}
	n := &fakeNotifier{}
	boom := errors.New("web search: timeout")
	r := New(newExecutor(t, func(workflow.State) error { return boom }), q, n)

	_, err := r.ProcessItem(context.Background(), item("page-1", "AI agents"))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}

	want := []string{queue.StatusResearching, queue.StatusIdea}
	if len(q.statusUpdates) != 2 || q.statusUpdates[0] != want[0] || q.statusUpdates[1] != want[1] {
		t.Errorf("status updates = %v, want %v", q.statusUpdates, want)
	}
	if len(q.savedDrafts) != 0 {
		t.Error("failed run must not persist a draft")
	}
	if len(n.errs) != 1 {
		t.Fatalf("error notifications = %v", n.errs)
	}
}

func TestProcessItemSaveDraftFailure(t *testing.T) {
	q := &fakeQueue{saveDraftErr: errors.New("notion API returned 500")}
	n := &fakeNotifier{}
	r := New(newExecutor(t, nil), q, n)

	if _, err := r.ProcessItem(context.Background(), item("page-1", "AI agents")); err == nil {
		t.Fatal("expected error")
	}
	if len(q.statusUpdates) != 2 || q.statusUpdates[1] != queue.StatusIdea {
		t.Errorf("persistence failure should return the item to the queue: %v", q.statusUpdates)
	}
	if len(n.errs) != 1 {
		t.Errorf("error notifications = %v", n.errs)
	}
}

func TestProcessItemClaimFailure(t *testing.T) {
	q := &fakeQueue{claimErr: errors.New("unreachable")}
	n := &fakeNotifier{}
	r := New(newExecutor(t, nil), q, n)

	if _, err := r.ProcessItem(context.Background(), item("page-1", "AI agents")); err == nil {
		t.Fatal("expected error")
	}
	if len(n.errs) != 0 {
		t.Error("an unclaimed item needs no failure notification")
	}
}

func TestProcessPendingIsolatesFailures(t *testing.T) {
	q := &fakeQueue{pending: []queue.Item{item("page-1", "bad topic"), item("page-2", "good topic")}}
	n := &fakeNotifier{}
	r := New(newExecutor(t, func(state workflow.State) error {
		if state.Topic == "bad topic" {
			return errors.New("boom")
		}
		return nil
	}), q, n)

	succeeded, err := r.ProcessPending(context.Background())
	if err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if succeeded != 1 {
		t.Errorf("succeeded = %d, want 1", succeeded)
	}
	if len(q.savedDrafts) != 1 {
		t.Errorf("drafts saved = %d, want 1", len(q.savedDrafts))
	}
	if len(n.errs) != 1 {
		t.Errorf("error notifications = %d, want 1", len(n.errs))
	}
}

func TestProcessOneEmptyQueue(t *testing.T) {
	r := New(newExecutor(t, nil), &fakeQueue{}, &fakeNotifier{})

	processed, err := r.ProcessOne(context.Background())
	if err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}
	if processed {
		t.Error("empty queue should report no work")
	}
}

func TestPollProcessesNewItemsAndAdvancesState(t *testing.T) {
	created := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	work := queue.Item{PageID: "page-1", Topic: "AI agents", Goal: "Educational", CreatedTime: created}

	q := &fakeQueue{
		newSince: func(since time.Time) []queue.Item {
			if since.IsZero() {
				return []queue.Item{work}
			}
			return nil
		},
	}
	state := queue.NewStateFile(filepath.Join(t.TempDir(), ".last_processed"))

	r := New(newExecutor(t, nil), q, &fakeNotifier{},
		WithStateFile(state),
		WithPollIntervals(10*time.Millisecond, 5*time.Millisecond),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := r.Poll(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Poll err = %v", err)
	}

	if len(q.savedDrafts) != 1 {
		t.Errorf("item should be processed exactly once, drafts = %d", len(q.savedDrafts))
	}
	if got := state.LastProcessed(); !got.Equal(created) {
		t.Errorf("last processed = %v, want %v", got, created)
	}
}

func TestInstrumentSteps(t *testing.T) {
	wrapped := InstrumentSteps(singleStep{})
	if len(wrapped) != 1 {
		t.Fatalf("wrapped = %d", len(wrapped))
	}
	if wrapped[0].Node() != workflow.NodeValidate {
		t.Errorf("node = %q", wrapped[0].Node())
	}

	out, err := wrapped[0].Run(context.Background(), workflow.NewState("id", "topic", workflow.GoalEducational, ""))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Status != workflow.StatusReady {
		t.Errorf("status = %q", out.Status)
	}
}

package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"homework_status_bot/internal/infra/config"
)

// fakeAPI replays one canned response (or error) per FetchUpdates call.
type fakeAPI struct {
	responses []any
	errs      []error
	calls     int
	fromDates []int64
}

func (f *fakeAPI) FetchUpdates(ctx context.Context, fromDate int64) (any, error) {
	f.fromDates = append(f.fromDates, fromDate)
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return map[string]any{"homeworks": []any{}, "current_date": float64(1)}, nil
}

func record(status, name string) map[string]any {
	return map[string]any{"status": status, "homework_name": name}
}

func response(currentDate float64, records ...any) map[string]any {
	if records == nil {
		records = []any{}
	}
	return map[string]any{"homeworks": records, "current_date": currentDate}
}

func newTestPoller(api *fakeAPI, tg *fakeTelegram, policy config.SendFailurePolicy) *Poller {
	notifier := NewNotifier(tg, 777, policy, testLogger())
	return NewPoller(api, notifier, testLogger(), 0)
}

func TestPoller_ApprovedHomework_SendsExactMessage(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{responses: []any{response(1000, record("approved", "hw1"))}}
	tg := &fakeTelegram{}
	p := newTestPoller(api, tg, config.PolicySwallow)

	p.RunOnce(context.Background())

	if len(tg.sent) != 1 {
		t.Fatalf("expected exactly one message, got %+v", tg.sent)
	}
	want := `Изменился статус проверки работы "hw1". Работа проверена: ревьюеру всё понравилось. Ура!`
	if tg.sent[0] != want {
		t.Fatalf("unexpected message:\n got: %q\nwant: %q", tg.sent[0], want)
	}
	if p.Cursor() != 1000 {
		t.Fatalf("expected cursor 1000, got %d", p.Cursor())
	}
}

func TestPoller_EmptyBatch_AdvancesCursorSilently(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{responses: []any{response(1000)}}
	tg := &fakeTelegram{}
	p := newTestPoller(api, tg, config.PolicySwallow)

	p.RunOnce(context.Background())

	if len(tg.sent) != 0 {
		t.Fatalf("expected no messages, got %+v", tg.sent)
	}
	if p.Cursor() != 1000 {
		t.Fatalf("expected cursor 1000, got %d", p.Cursor())
	}
}

func TestPoller_NextPollUsesAdvancedCursor(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{responses: []any{response(1000), response(2000)}}
	tg := &fakeTelegram{}
	p := newTestPoller(api, tg, config.PolicySwallow)

	p.RunOnce(context.Background())
	p.RunOnce(context.Background())

	if len(api.fromDates) != 2 || api.fromDates[0] != 0 || api.fromDates[1] != 1000 {
		t.Fatalf("expected from_date progression [0 1000], got %+v", api.fromDates)
	}
}

func TestPoller_FetchFailure_ReportsAndSurvives(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{errs: []error{errors.New("connection refused")}}
	tg := &fakeTelegram{}
	p := newTestPoller(api, tg, config.PolicySwallow)

	p.RunOnce(context.Background())

	if len(tg.sent) != 1 {
		t.Fatalf("expected one failure report, got %+v", tg.sent)
	}
	if !strings.Contains(tg.sent[0], "Сбой в работе программы") {
		t.Fatalf("expected failure report, got %q", tg.sent[0])
	}
	if !strings.Contains(tg.sent[0], "connection refused") {
		t.Fatalf("expected underlying cause in report, got %q", tg.sent[0])
	}

	// The loop keeps going: the next iteration runs normally.
	p.RunOnce(context.Background())
	if api.calls != 2 {
		t.Fatalf("expected second fetch, got %d calls", api.calls)
	}
}

func TestPoller_MissingCurrentDate_IsIterationFailure(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{responses: []any{map[string]any{"homeworks": []any{}}}}
	tg := &fakeTelegram{}
	p := newTestPoller(api, tg, config.PolicySwallow)

	p.RunOnce(context.Background())

	if len(tg.sent) != 1 || !strings.Contains(tg.sent[0], "Сбой в работе программы") {
		t.Fatalf("expected failure report, got %+v", tg.sent)
	}
	if p.Cursor() != 0 {
		t.Fatalf("expected cursor untouched, got %d", p.Cursor())
	}
}

func TestPoller_BadRecord_IsIterationFailure(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{responses: []any{response(1000, record("approved", ""))}}
	tg := &fakeTelegram{}
	p := newTestPoller(api, tg, config.PolicySwallow)

	p.RunOnce(context.Background())

	if len(tg.sent) != 1 || !strings.Contains(tg.sent[0], "Сбой в работе программы") {
		t.Fatalf("expected failure report, got %+v", tg.sent)
	}
}

func TestPoller_DuplicateMessageSuppressedAcrossIterations(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{responses: []any{
		response(1000, record("reviewing", "hw1")),
		response(2000, record("reviewing", "hw1")),
		response(3000, record("approved", "hw1")),
	}}
	tg := &fakeTelegram{}
	p := newTestPoller(api, tg, config.PolicySwallow)

	p.RunOnce(context.Background())
	p.RunOnce(context.Background())
	p.RunOnce(context.Background())

	if len(tg.sent) != 2 {
		t.Fatalf("expected 2 messages (duplicate suppressed), got %+v", tg.sent)
	}
	if !strings.Contains(tg.sent[0], "Работа взята на проверку") {
		t.Fatalf("unexpected first message %q", tg.sent[0])
	}
	if !strings.Contains(tg.sent[1], "всё понравилось") {
		t.Fatalf("unexpected second message %q", tg.sent[1])
	}
}

func TestPoller_BatchProcessedInOrder(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{responses: []any{response(1000,
		record("rejected", "hw1"),
		record("approved", "hw2"),
	)}}
	tg := &fakeTelegram{}
	p := newTestPoller(api, tg, config.PolicySwallow)

	p.RunOnce(context.Background())

	if len(tg.sent) != 2 {
		t.Fatalf("expected 2 messages, got %+v", tg.sent)
	}
	if !strings.Contains(tg.sent[0], "hw1") || !strings.Contains(tg.sent[1], "hw2") {
		t.Fatalf("expected batch order preserved, got %+v", tg.sent)
	}
}

func TestPoller_SendFailure_PropagatePolicy_DoesNotCrash(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{responses: []any{response(1000, record("approved", "hw1"))}}
	tg := &fakeTelegram{failAll: true}
	p := newTestPoller(api, tg, config.PolicyPropagate)

	// The failing send aborts the iteration; the failure report itself also
	// fails but must stay best-effort.
	p.RunOnce(context.Background())

	if len(tg.sent) != 0 {
		t.Fatalf("expected no delivered messages, got %+v", tg.sent)
	}
	if len(tg.chatIDs) != 2 {
		t.Fatalf("expected send attempt plus failure report attempt, got %d", len(tg.chatIDs))
	}
}

func TestPoller_SwallowedSendFailure_RetriesWhenStatusReturns(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{responses: []any{
		response(1000, record("approved", "hw1")),
		response(2000, record("approved", "hw1")),
	}}
	tg := &fakeTelegram{failAll: true}
	p := newTestPoller(api, tg, config.PolicySwallow)

	// First iteration: delivery fails and is swallowed. The message was
	// never received, so it must not become the last-sent message.
	p.RunOnce(context.Background())
	if len(tg.sent) != 0 {
		t.Fatalf("expected no delivered messages yet, got %+v", tg.sent)
	}

	// Telegram recovers; the same status arrives again and must go out
	// instead of being suppressed as a duplicate.
	tg.failAll = false
	p.RunOnce(context.Background())

	if len(tg.sent) != 1 {
		t.Fatalf("expected exactly one delivered message, got %+v", tg.sent)
	}
	want := `Изменился статус проверки работы "hw1". Работа проверена: ревьюеру всё понравилось. Ура!`
	if tg.sent[0] != want {
		t.Fatalf("unexpected message:\n got: %q\nwant: %q", tg.sent[0], want)
	}
}

func TestPoller_MalformedHomeworks_StillAdvancesCursor(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{responses: []any{
		map[string]any{"homeworks": "not a list", "current_date": float64(1000)},
	}}
	tg := &fakeTelegram{}
	p := newTestPoller(api, tg, config.PolicySwallow)

	p.RunOnce(context.Background())

	if len(tg.sent) != 1 || !strings.Contains(tg.sent[0], "Сбой в работе программы") {
		t.Fatalf("expected failure report, got %+v", tg.sent)
	}
	// The server's clock echo was valid, so the next poll starts from it.
	if p.Cursor() != 1000 {
		t.Fatalf("expected cursor 1000, got %d", p.Cursor())
	}
}

func TestPoller_SendFailure_SwallowPolicy_KeepsIterating(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{responses: []any{response(1000,
		record("rejected", "hw1"),
		record("approved", "hw2"),
	)}}
	tg := &fakeTelegram{failAll: true}
	p := newTestPoller(api, tg, config.PolicySwallow)

	p.RunOnce(context.Background())

	// Both sends were attempted and swallowed; no failure report follows.
	if len(tg.chatIDs) != 2 {
		t.Fatalf("expected 2 send attempts, got %d", len(tg.chatIDs))
	}
	if p.Cursor() != 1000 {
		t.Fatalf("expected cursor advanced, got %d", p.Cursor())
	}
}

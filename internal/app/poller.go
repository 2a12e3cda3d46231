// internal/app/poller.go
package app

import (
	"context"
	"fmt"

	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
)

// Fetcher is the read side of the homework API as the poller sees it.
type Fetcher interface {
	FetchUpdates(ctx context.Context, fromDate int64) (any, error)
}

// Poller runs one fetch → check → parse → notify pass per invocation.
// It owns the only mutable loop state: the from_date cursor and the text of
// the last successfully sent notification.
type Poller struct {
	api      Fetcher
	notifier *Notifier
	logger   *logrus.Logger

	cursor      int64
	lastMessage string
}

func NewPoller(api Fetcher, notifier *Notifier, logger *logrus.Logger, startCursor int64) *Poller {
	return &Poller{
		api:      api,
		notifier: notifier,
		logger:   logger,
		cursor:   startCursor,
	}
}

// RunOnce performs a single poll iteration. Every failure inside the
// iteration is caught here: logged, reported to the chat best-effort, and
// dropped, so the caller's schedule is never disturbed.
func (p *Poller) RunOnce(ctx context.Context) {
	if err := p.iterate(ctx); err != nil {
		message := fmt.Sprintf("Сбой в работе программы: %v", err)
		p.logger.Error(message)
		p.notifier.Report(message)
	}
}

func (p *Poller) iterate(ctx context.Context) error {
	body, err := p.api.FetchUpdates(ctx, p.cursor)
	if err != nil {
		return err
	}

	next, err := homework.CurrentDate(body)
	if err != nil {
		return err
	}

	// The cursor follows the server's clock, not ours, and advances as soon
	// as the echo is known, even if the rest of the response turns out
	// malformed below.
	p.cursor = next

	records, err := homework.CheckResponse(body)
	if err != nil {
		return err
	}

	for _, record := range records {
		message, err := homework.ParseStatus(record)
		if err != nil {
			return err
		}
		if message == p.lastMessage {
			p.logger.Debugf("Статус не изменился, сообщение %q не отправлено повторно", message)
			continue
		}
		delivered, err := p.notifier.Send(message)
		if err != nil {
			return err
		}
		// A swallowed delivery failure must not count as sent, or the next
		// poll would suppress the same status as a duplicate.
		if delivered {
			p.lastMessage = message
		}
	}

	return nil
}

// Cursor reports the current from_date boundary.
func (p *Poller) Cursor() int64 {
	return p.cursor
}

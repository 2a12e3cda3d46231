// internal/app/notifier.go
package app

import (
	"errors"
	"fmt"

	domainTelegram "homework_status_bot/internal/domain/telegram"
	"homework_status_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// ErrSendFailed marks a Telegram delivery failure. Callers see it only when
// the failure policy is set to propagate.
var ErrSendFailed = errors.New("ошибка при отправке сообщения")

// Notifier delivers notification texts to the single configured chat.
type Notifier struct {
	telegramClient domainTelegram.Client
	chatID         int64
	policy         config.SendFailurePolicy
	logger         *logrus.Logger
}

func NewNotifier(
	tc domainTelegram.Client,
	chatID int64,
	policy config.SendFailurePolicy,
	logger *logrus.Logger,
) *Notifier {
	return &Notifier{
		telegramClient: tc,
		chatID:         chatID,
		policy:         policy,
		logger:         logger,
	}
}

// Send delivers text to the configured chat. The delivered flag reports
// whether the message actually went out, independent of the policy: a
// swallowed failure returns (false, nil), so callers can keep going without
// mistaking the message for sent. Whether the failure also aborts the
// caller's iteration depends on the configured policy.
func (n *Notifier) Send(text string) (delivered bool, err error) {
	if err := n.telegramClient.SendMessage(n.chatID, text, nil); err != nil {
		n.logger.Errorf("Ошибка при отправке сообщения: %v", err)
		if n.policy == config.PolicyPropagate {
			return false, fmt.Errorf("%w: %v", ErrSendFailed, err)
		}
		return false, nil
	}
	n.logger.Debugf("Сообщение %q отправлено", text)
	return true, nil
}

// Report delivers a failure report best-effort: a delivery error is logged
// and dropped regardless of policy, so the poll loop can never be taken
// down by its own error reporting.
func (n *Notifier) Report(text string) {
	if err := n.telegramClient.SendMessage(n.chatID, text, nil); err != nil {
		n.logger.Errorf("Не удалось отправить сообщение об ошибке: %v", err)
		return
	}
	n.logger.Debugf("Сообщение %q отправлено", text)
}

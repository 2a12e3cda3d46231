package telegram

import "gopkg.in/telebot.v3"

// Client is the narrow sending surface the notifier needs from a Telegram
// bot, so the poll pipeline never depends on a concrete bot library.
type Client interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error
}

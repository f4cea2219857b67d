// Package telegram implements the messaging transport over the Telegram Bot
// API.
package telegram

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/louisbranch/turfwars/internal/transport"
)

const updateTimeoutSeconds = 30

// Client is a transport.Messenger and transport.Source backed by one bot
// account. BotAPI is safe for concurrent sends.
type Client struct {
	bot *tgbotapi.BotAPI
}

// New authenticates the bot token against the Telegram API.
func New(token string) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("authenticate bot: %w", err)
	}
	return &Client{bot: bot}, nil
}

// SendText implements transport.Messenger.
func (c *Client) SendText(ctx context.Context, channelID int64, text string, keyboard [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(channelID, text)
	if markup := replyMarkup(keyboard); markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("send text to %d: %w", channelID, err)
	}
	return nil
}

// SendImage implements transport.Messenger. A previously issued delivery
// handle is reused when the payload carries one; otherwise the raw bytes are
// uploaded. The returned handle is the file id of the largest rendition
// Telegram stored, reusable for later sends without another upload.
func (c *Client) SendImage(ctx context.Context, channelID int64, image transport.ImagePayload, caption string, keyboard [][]string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var file tgbotapi.RequestFileData
	if image.Handle != "" {
		file = tgbotapi.FileID(image.Handle)
	} else {
		file = tgbotapi.FileBytes{Name: "map.png", Bytes: image.Bytes}
	}
	photo := tgbotapi.NewPhoto(channelID, file)
	photo.Caption = caption
	if markup := replyMarkup(keyboard); markup != nil {
		photo.ReplyMarkup = markup
	}
	sent, err := c.bot.Send(photo)
	if err != nil {
		return "", fmt.Errorf("send image to %d: %w", channelID, err)
	}
	if len(sent.Photo) == 0 {
		return "", nil
	}
	return sent.Photo[len(sent.Photo)-1].FileID, nil
}

// Events implements transport.Source via long polling. The channel closes
// when ctx is canceled.
func (c *Client) Events(ctx context.Context) (<-chan transport.Event, error) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = updateTimeoutSeconds
	updates := c.bot.GetUpdatesChan(cfg)

	events := make(chan transport.Event)
	go func() {
		defer close(events)
		defer c.bot.StopReceivingUpdates()
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				if update.Message == nil || update.Message.Text == "" {
					continue
				}
				event := transport.Event{
					ChannelID: update.Message.Chat.ID,
					Text:      update.Message.Text,
				}
				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	log.Printf("listening for updates as @%s", c.bot.Self.UserName)
	return events, nil
}

func replyMarkup(keyboard [][]string) interface{} {
	if len(keyboard) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.KeyboardButton, 0, len(keyboard))
	for _, labels := range keyboard {
		row := make([]tgbotapi.KeyboardButton, 0, len(labels))
		for _, label := range labels {
			row = append(row, tgbotapi.NewKeyboardButton(label))
		}
		rows = append(rows, row)
	}
	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.ResizeKeyboard = true
	return markup
}

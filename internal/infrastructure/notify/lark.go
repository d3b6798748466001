package notify

import (
	"context"
	"encoding/json"
	"fmt"

	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"go.uber.org/zap"

	"github.com/garyjia/doc-workflow/internal/application/port"
)

const (
	receiveIDTypeChat = "chat_id"
	msgTypeText       = "text"
)

// LarkConfig holds credentials and the destination chat for the Lark sink
type LarkConfig struct {
	AppID     string
	AppSecret string
	ChatID    string
}

// MessageSender posts a message through the Lark IM API
type MessageSender interface {
	SendMessage(ctx context.Context, receiveIDType, receiveID, msgType, content string) (string, error)
}

// LarkMessenger sends IM messages with the Lark SDK
type LarkMessenger struct {
	client *lark.Client
	logger *zap.Logger
}

// NewLarkMessenger creates a messenger authenticated as the given app
func NewLarkMessenger(cfg LarkConfig, logger *zap.Logger) *LarkMessenger {
	client := lark.NewClient(cfg.AppID, cfg.AppSecret,
		lark.WithLogLevel(larkcore.LogLevelInfo),
		lark.WithEnableTokenCache(true),
	)
	return &LarkMessenger{client: client, logger: logger}
}

// SendMessage sends a message to a user or chat and returns the message ID
func (m *LarkMessenger) SendMessage(ctx context.Context, receiveIDType, receiveID, msgType, content string) (string, error) {
	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType(receiveIDType).
		Body(larkim.NewCreateMessageReqBodyBuilder().
			ReceiveId(receiveID).
			MsgType(msgType).
			Content(content).
			Build()).
		Build()

	resp, err := m.client.Im.Message.Create(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	if !resp.Success() {
		m.logger.Error("Lark API returned failure",
			zap.String("receive_id", receiveID),
			zap.Int("code", resp.Code),
			zap.String("msg", resp.Msg))
		return "", fmt.Errorf("lark API error: code=%d, msg=%s", resp.Code, resp.Msg)
	}

	messageID := ""
	if resp.Data != nil && resp.Data.MessageId != nil {
		messageID = *resp.Data.MessageId
	}
	return messageID, nil
}

// LarkNotifier posts notifications as text messages to a Lark group chat
type LarkNotifier struct {
	sender MessageSender
	chatID string
	logger *zap.Logger
}

// NewLarkNotifier creates a notifier posting to chatID
func NewLarkNotifier(sender MessageSender, chatID string, logger *zap.Logger) *LarkNotifier {
	return &LarkNotifier{
		sender: sender,
		chatID: chatID,
		logger: logger,
	}
}

// Name returns the sink name
func (n *LarkNotifier) Name() string { return "lark" }

// Notify sends the message text to the configured chat
func (n *LarkNotifier) Notify(ctx context.Context, msg port.Notification) error {
	content, err := textContent(msg.Message)
	if err != nil {
		return err
	}

	messageID, err := n.sender.SendMessage(ctx, receiveIDTypeChat, n.chatID, msgTypeText, content)
	if err != nil {
		return fmt.Errorf("lark notification for document %s: %w", msg.DocumentID, err)
	}

	n.logger.Info("Lark notification sent",
		zap.String("message_id", messageID),
		zap.String("document_id", msg.DocumentID),
		zap.String("kind", msg.Kind))
	return nil
}

func textContent(text string) (string, error) {
	b, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", fmt.Errorf("failed to encode message content: %w", err)
	}
	return string(b), nil
}

var (
	_ MessageSender = (*LarkMessenger)(nil)
	_ port.Notifier = (*LarkNotifier)(nil)
)

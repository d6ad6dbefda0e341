//go:generate go run go.uber.org/mock/mockgen -source=message_service.go -destination=../mocks/mock_message_service.go -package=mocks
package services

import (
	"chat-relay/auth"
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/repositories"
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IMessageService interface {
	Send(ctx context.Context, cmd chat.SendMessageCommand) (chat.MessageView, error)
	Delete(ctx context.Context, cmd chat.DeleteMessageCommand) (chat.Message, error)
	List(ctx context.Context, cmd chat.ListMessagesCommand) ([]chat.MessageView, error)
}

// MessageService holds the message command handlers.
// Every write is persisted before anything is pushed to live connections.
type MessageService struct {
	log         *slog.Logger
	chats       repositories.IChatRepository
	messages    repositories.IMessageRepository
	attachments IAttachmentService
	emitter     contract.IEmitter
}

func NewMessageService(log *slog.Logger, chats repositories.IChatRepository, messages repositories.IMessageRepository,
	attachments IAttachmentService, emitter contract.IEmitter) *MessageService {
	return &MessageService{log: log, chats: chats, messages: messages, attachments: attachments, emitter: emitter}
}

// Send stores a message then pushes it to every other participant.
// Participant membership of the sender is left to the caller.
func (s *MessageService) Send(ctx context.Context, cmd chat.SendMessageCommand) (chat.MessageView, error) {
	if err := auth.ValidateCommand(cmd); err != nil {
		return chat.MessageView{}, err
	}
	if cmd.Content == "" && len(cmd.Files) == 0 {
		return chat.MessageView{}, errors.Validation("Message content or attachment is required")
	}
	c, err := s.chats.FindChatByID(cmd.ChatID)
	if err != nil {
		return chat.MessageView{}, storeError(err, "Chat not found")
	}

	attachments := make([]chat.Attachment, 0, len(cmd.Files))
	for _, file := range cmd.Files {
		attachment, err := s.attachments.Offload(ctx, file)
		if err != nil {
			s.log.Warn("Skipping attachment", "chat_id", cmd.ChatID, "file", file.Name, "error", err)
			continue
		}
		attachments = append(attachments, attachment)
	}

	message := chat.Message{
		ID:          chat.MessageID(uuid.NewString()),
		Sender:      cmd.UserID,
		Chat:        c.ID,
		Content:     cmd.Content,
		Attachments: attachments,
		CreatedAt:   lo.Ternary(cmd.CreatedAt.IsZero(), time.Now().UTC(), cmd.CreatedAt),
	}
	if !message.HasBody() {
		s.reclaim(ctx, attachments)
		return chat.MessageView{}, errors.Upstream("No attachment could be uploaded", nil)
	}
	if err = s.messages.CreateMessage(message); err != nil {
		s.reclaim(ctx, attachments)
		return chat.MessageView{}, errors.Upstream("Unable to store message", err)
	}
	// The message is stored, a stale pointer must not turn the send into a failure.
	if err = s.chats.UpdateLastMessage(c.ID, message.ID); err != nil {
		s.log.Error("Unable to update last message", "chat_id", c.ID, "message_id", message.ID, "error", err)
	}
	view, err := s.messages.FindMessageWithSender(message.ID)
	if err != nil {
		return chat.MessageView{}, errors.Upstream("Unable to read message", err)
	}

	for _, participant := range others(c, cmd.UserID) {
		s.emitter.Emit(ctx, participant, event.MessageReceived{Message: view})
	}
	return view, nil
}

// Delete removes a message authored by the acting user and notifies the other participants.
func (s *MessageService) Delete(ctx context.Context, cmd chat.DeleteMessageCommand) (chat.Message, error) {
	if err := auth.ValidateCommand(cmd); err != nil {
		return chat.Message{}, err
	}
	c, err := s.chats.FindChatByIDAndParticipant(cmd.ChatID, cmd.UserID)
	if err != nil {
		return chat.Message{}, storeError(err, "Chat not found")
	}
	message, err := s.messages.FindMessageByID(cmd.MessageID)
	if err != nil {
		return chat.Message{}, storeError(err, "Message not found")
	}
	if message.Chat != c.ID {
		return chat.Message{}, errors.NotFound("Message not found")
	}
	if message.Sender != cmd.UserID {
		return chat.Message{}, errors.Forbidden("You can only delete your own messages")
	}

	s.reclaim(ctx, message.Attachments)
	if err = s.messages.DeleteMessage(message); err != nil {
		return chat.Message{}, errors.Upstream("Unable to delete message", err)
	}

	latest, changed, err := s.chats.ClearLastMessageIfMatches(c.ID, message.ID)
	switch {
	case err == errors.ErrLastMessageConflict:
		s.log.Warn("Last message changed concurrently, keeping the newer pointer", "chat_id", c.ID)
	case err != nil:
		s.log.Error("Unable to recompute last message", "chat_id", c.ID, "error", err)
	case changed:
		s.log.Debug("Last message recomputed", "chat_id", c.ID, "last_message", lo.FromPtr(latest))
	}

	for _, participant := range others(c, cmd.UserID) {
		s.emitter.Emit(ctx, participant, event.MessageDeleted{Message: message})
	}
	return message, nil
}

// List returns the chat history newest first, for participants only.
func (s *MessageService) List(_ context.Context, cmd chat.ListMessagesCommand) ([]chat.MessageView, error) {
	if err := auth.ValidateCommand(cmd); err != nil {
		return nil, err
	}
	c, err := s.chats.FindChatByID(cmd.ChatID)
	if err != nil {
		return nil, storeError(err, "Chat not found")
	}
	if !c.HasParticipant(cmd.UserID) {
		return nil, errors.Forbidden("You are not a participant of this chat")
	}
	views, err := s.messages.ListMessagesWithSender(c.ID)
	if err != nil {
		return nil, errors.Upstream("Unable to read messages", err)
	}
	return views, nil
}

// reclaim frees uploaded objects, even when the caller has gone away.
func (s *MessageService) reclaim(ctx context.Context, attachments []chat.Attachment) {
	ctx = context.WithoutCancel(ctx)
	for _, attachment := range attachments {
		s.attachments.Reclaim(ctx, attachment)
	}
}

func others(c chat.Chat, actor chat.UserID) []chat.UserID {
	return lo.Filter(c.Participants, func(p chat.UserID, _ int) bool {
		return p != actor
	})
}

func storeError(err error, notFound string) error {
	if err == errors.ErrRecordNotFound {
		return errors.NotFound(notFound)
	}
	return errors.Upstream("Store unavailable", err)
}

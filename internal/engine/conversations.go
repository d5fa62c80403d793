package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/devbyharshit/collab-khata/internal/domain"
	"github.com/devbyharshit/collab-khata/internal/events"
)

// ConversationLogOptions are parameters for logging a conversation.
type ConversationLogOptions struct {
	UserID          string
	CollaborationID string
	Channel         domain.CommunicationChannel
	MessageText     string
}

func (e Engine) AddConversationLog(ctx context.Context, opts ConversationLogOptions) (domain.ConversationLog, error) {
	if !opts.Channel.Valid() {
		return domain.ConversationLog{}, ValidationError{Field: "channel", Reason: "unknown channel"}
	}
	if strings.TrimSpace(opts.MessageText) == "" {
		return domain.ConversationLog{}, ValidationError{Field: "message_text", Reason: "required"}
	}
	if _, err := e.Repo.GetCollaboration(ctx, opts.UserID, opts.CollaborationID); err != nil {
		return domain.ConversationLog{}, err
	}
	log := domain.ConversationLog{
		ID:              newID(),
		CollaborationID: opts.CollaborationID,
		Channel:         opts.Channel,
		MessageText:     opts.MessageText,
		CreatedAt:       e.timestamp(),
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.ConversationLog{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertConversationLog(ctx, tx, log); err != nil {
		return domain.ConversationLog{}, fmt.Errorf("insert conversation log: %w", err)
	}
	if err := e.Events.Append(ctx, tx, "conversation.logged", opts.UserID, "conversation_log", log.ID, events.EventPayload{"collaboration_id": log.CollaborationID, "channel": string(log.Channel)}); err != nil {
		return domain.ConversationLog{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.ConversationLog{}, err
	}
	return log, nil
}

func (e Engine) ListConversationLogs(ctx context.Context, userID, collaborationID string, limit int, cursorCreatedAt, cursorID string) ([]domain.ConversationLog, error) {
	if _, err := e.Repo.GetCollaboration(ctx, userID, collaborationID); err != nil {
		return nil, err
	}
	return e.Repo.ListConversationLogs(ctx, collaborationID, limit, cursorCreatedAt, cursorID)
}

// FileAttachmentOptions are parameters for recording an upload already
// written to disk by the caller.
type FileAttachmentOptions struct {
	UserID           string
	CollaborationID  string
	FilePath         string
	OriginalFilename string
}

func (e Engine) SaveFileAttachment(ctx context.Context, opts FileAttachmentOptions) (domain.FileAttachment, error) {
	if opts.FilePath == "" || opts.OriginalFilename == "" {
		return domain.FileAttachment{}, ValidationError{Field: "file", Reason: "path and filename required"}
	}
	if _, err := e.Repo.GetCollaboration(ctx, opts.UserID, opts.CollaborationID); err != nil {
		return domain.FileAttachment{}, err
	}
	f := domain.FileAttachment{
		ID:               newID(),
		CollaborationID:  opts.CollaborationID,
		FilePath:         opts.FilePath,
		FileType:         strings.ToLower(filepath.Ext(opts.OriginalFilename)),
		OriginalFilename: opts.OriginalFilename,
		CreatedAt:        e.timestamp(),
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.FileAttachment{}, err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertFileAttachment(ctx, tx, f); err != nil {
		return domain.FileAttachment{}, fmt.Errorf("insert file attachment: %w", err)
	}
	if err := e.Events.Append(ctx, tx, "file.attached", opts.UserID, "file_attachment", f.ID, events.EventPayload{"collaboration_id": f.CollaborationID, "filename": f.OriginalFilename}); err != nil {
		return domain.FileAttachment{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.FileAttachment{}, err
	}
	return f, nil
}

func (e Engine) ListFileAttachments(ctx context.Context, userID, collaborationID string) ([]domain.FileAttachment, error) {
	if _, err := e.Repo.GetCollaboration(ctx, userID, collaborationID); err != nil {
		return nil, err
	}
	return e.Repo.ListFileAttachments(ctx, collaborationID)
}

func (e Engine) GetFileAttachment(ctx context.Context, userID, id string) (domain.FileAttachment, error) {
	return e.Repo.GetFileAttachment(ctx, userID, id)
}

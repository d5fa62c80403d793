package repo

import (
	"context"
	"database/sql"

	"github.com/devbyharshit/collab-khata/internal/domain"
)

func (r Repo) InsertConversationLog(ctx context.Context, tx *sql.Tx, log domain.ConversationLog) error {
	exec := r.DB.ExecContext
	if tx != nil {
		exec = tx.ExecContext
	}
	_, err := exec(ctx, `INSERT INTO conversation_logs(id,collaboration_id,channel,message_text,created_at) VALUES (?,?,?,?,?)`,
		log.ID, log.CollaborationID, log.Channel, log.MessageText, log.CreatedAt)
	return err
}

func (r Repo) ListConversationLogs(ctx context.Context, collaborationID string, limit int, cursorCreatedAt, cursorID string) ([]domain.ConversationLog, error) {
	query := `SELECT id,collaboration_id,channel,message_text,created_at FROM conversation_logs WHERE collaboration_id=?`
	args := []any{collaborationID}
	if cursorCreatedAt != "" && cursorID != "" {
		query += ` AND (created_at < ? OR (created_at = ? AND id < ?))`
		args = append(args, cursorCreatedAt, cursorCreatedAt, cursorID)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.ConversationLog
	for rows.Next() {
		var log domain.ConversationLog
		if err := rows.Scan(&log.ID, &log.CollaborationID, &log.Channel, &log.MessageText, &log.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, log)
	}
	return res, rows.Err()
}

func (r Repo) InsertFileAttachment(ctx context.Context, tx *sql.Tx, f domain.FileAttachment) error {
	exec := r.DB.ExecContext
	if tx != nil {
		exec = tx.ExecContext
	}
	_, err := exec(ctx, `INSERT INTO file_attachments(id,collaboration_id,file_path,file_type,original_filename,created_at) VALUES (?,?,?,?,?,?)`,
		f.ID, f.CollaborationID, f.FilePath, f.FileType, f.OriginalFilename, f.CreatedAt)
	return err
}

func (r Repo) ListFileAttachments(ctx context.Context, collaborationID string) ([]domain.FileAttachment, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,collaboration_id,file_path,file_type,original_filename,created_at FROM file_attachments WHERE collaboration_id=? ORDER BY created_at DESC, id DESC`, collaborationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.FileAttachment
	for rows.Next() {
		var f domain.FileAttachment
		if err := rows.Scan(&f.ID, &f.CollaborationID, &f.FilePath, &f.FileType, &f.OriginalFilename, &f.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, f)
	}
	return res, rows.Err()
}

// GetFileAttachment scopes by owner through the collaboration join.
func (r Repo) GetFileAttachment(ctx context.Context, userID, id string) (domain.FileAttachment, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT f.id,f.collaboration_id,f.file_path,f.file_type,f.original_filename,f.created_at
		FROM file_attachments f JOIN collaborations c ON c.id=f.collaboration_id
		WHERE f.id=? AND c.user_id=?`, id, userID)
	var f domain.FileAttachment
	err := row.Scan(&f.ID, &f.CollaborationID, &f.FilePath, &f.FileType, &f.OriginalFilename, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return domain.FileAttachment{}, ErrNotFound
	}
	return f, err
}

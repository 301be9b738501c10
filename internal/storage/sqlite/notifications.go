package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Amanshah2829/fund-manager-test/internal/models"
)

// InsertNotificationLog appends one delivery-attempt audit record.
func (s *SQLiteStore) InsertNotificationLog(ctx context.Context, log *models.NotificationLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.CreatedAt == 0 {
		log.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notification_logs (id, group_id, member_id, recipient, message, status, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID, log.GroupID, log.MemberID, log.Recipient, log.Message, log.Status, log.Error, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification log: %w", err)
	}
	return nil
}

// ListNotificationLogs returns the most recent delivery-attempt records.
func (s *SQLiteStore) ListNotificationLogs(ctx context.Context, limit int) ([]*models.NotificationLog, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, member_id, recipient, message, status, error, created_at
		 FROM notification_logs ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notification logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.NotificationLog
	for rows.Next() {
		log := &models.NotificationLog{}
		if err := rows.Scan(&log.ID, &log.GroupID, &log.MemberID, &log.Recipient, &log.Message, &log.Status, &log.Error, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification log: %w", err)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notification logs: %w", err)
	}
	return logs, nil
}

package storage

import (
	"context"
	"fmt"

	"github.com/claude/wodboard/internal/models"
)

// InsertNotification stores a notification for a user.
func (db *DB) InsertNotification(ctx context.Context, row models.NotificationRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO notifications (id, user_id, type, message, related_id)
		 VALUES ($1, $2, $3, $4, $5)`,
		row.ID, row.UserID, string(row.Type), row.Message, row.RelatedID)
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}
	return nil
}

// ListNotifications returns a user's most recent notifications.
func (db *DB) ListNotifications(ctx context.Context, userID, limit int) ([]models.NotificationRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, type, message, related_id, read, created_at
		 FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	var result []models.NotificationRow
	for rows.Next() {
		var n models.NotificationRow
		var typ string
		if err := rows.Scan(&n.ID, &n.UserID, &typ, &n.Message, &n.RelatedID, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		n.Type = models.NotificationType(typ)
		result = append(result, n)
	}
	return result, rows.Err()
}

// CountUnreadNotifications counts all of a user's unread notifications,
// independent of any listing limit.
func (db *DB) CountUnreadNotifications(ctx context.Context, userID int) (int, error) {
	var n int
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT read`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return n, nil
}

// MarkNotificationsRead marks all of a user's notifications read and returns
// how many changed.
func (db *DB) MarkNotificationsRead(ctx context.Context, userID int) (int64, error) {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND NOT read`, userID)
	if err != nil {
		return 0, fmt.Errorf("marking notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}

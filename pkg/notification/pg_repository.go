package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository is a PostgreSQL-backed Repository on top of a pgx pool.
// Schema is managed by the goose migrations shipped in migrations/.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository creates a Repository backed by the given pool.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const notificationColumns = `
	id, org_id, user_id, title, body, topic, priority,
	is_read, read_at, action_url, action_label, scheduled_at, expires_at,
	retention_policy_id, data_classification, residency_tag,
	audit_source, correlation_id, schema_version, created_by,
	metadata, audit_trail, created_at, updated_at`

func (r *PGRepository) CreateNotification(ctx context.Context, n Notification) (Notification, error) {
	now := time.Now()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = n.CreatedAt
	}

	metadata, err := json.Marshal(n.Metadata)
	if err != nil {
		return Notification{}, fmt.Errorf("marshal metadata: %w", err)
	}
	auditTrail, err := json.Marshal(n.AuditTrail)
	if err != nil {
		return Notification{}, fmt.Errorf("marshal audit trail: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO notifications (`+notificationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12, $13,
			$14, $15, $16,
			$17, $18, $19, $20,
			$21, $22, $23, $24)`,
		n.ID, n.OrgID, n.UserID, n.Title, n.Body, string(n.Topic), string(n.Priority),
		n.IsRead, n.ReadAt, n.ActionURL, n.ActionLabel, n.ScheduledAt, n.ExpiresAt,
		n.RetentionPolicyID, n.DataClassification, n.ResidencyTag,
		n.AuditSource, n.CorrelationID, n.SchemaVersion, n.CreatedBy,
		metadata, auditTrail, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return Notification{}, fmt.Errorf("insert notification: %w", err)
	}

	return n, nil
}

func (r *PGRepository) GetNotification(ctx context.Context, orgID, notifID string) (Notification, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE org_id = $1 AND id = $2`,
		orgID, notifID,
	)
	return scanNotification(row)
}

func (r *PGRepository) MarkRead(ctx context.Context, orgID, notifID string, readAt time.Time) (Notification, error) {
	// Idempotent: already-read rows keep their original read_at.
	row := r.pool.QueryRow(ctx, `
		UPDATE notifications
		SET is_read = TRUE,
			read_at = COALESCE(read_at, $3),
			updated_at = CASE WHEN is_read THEN updated_at ELSE $3 END
		WHERE org_id = $1 AND id = $2
		RETURNING `+notificationColumns,
		orgID, notifID, readAt,
	)
	return scanNotification(row)
}

func (r *PGRepository) MarkAllRead(ctx context.Context, orgID, userID string, before *time.Time, readAt time.Time) (int64, error) {
	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = $3, updated_at = $3
		WHERE org_id = $1 AND user_id = $2 AND is_read = FALSE`
	args := []any{orgID, userID, readAt}

	if before != nil {
		query += ` AND COALESCE(updated_at, created_at) <= $4`
		args = append(args, *before)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PGRepository) ListNotifications(ctx context.Context, orgID, userID string, opts ListOptions) ([]Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE org_id = $1 AND user_id = $2
			AND (expires_at IS NULL OR expires_at > now())`
	args := []any{orgID, userID}

	if opts.OnlyUnread {
		query += ` AND is_read = FALSE`
	}
	if len(opts.Topics) > 0 {
		topics := make([]string, len(opts.Topics))
		for i, t := range opts.Topics {
			topics[i] = string(t)
		}
		args = append(args, topics)
		query += fmt.Sprintf(` AND topic = ANY($%d)`, len(args))
	}
	if opts.Since != nil {
		args = append(args, *opts.Since)
		query += fmt.Sprintf(` AND created_at >= $%d`, len(args))
	}

	query += ` ORDER BY created_at DESC`

	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return notifications, nil
}

func (r *PGRepository) DeleteNotification(ctx context.Context, orgID, notifID string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM notifications
		WHERE org_id = $1 AND id = $2`,
		orgID, notifID,
	)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// scanNotification reads one row into a Notification, translating
// pgx.ErrNoRows into the package sentinel.
func scanNotification(row pgx.Row) (Notification, error) {
	var (
		n          Notification
		topic      string
		priority   string
		metadata   []byte
		auditTrail []byte
	)

	err := row.Scan(
		&n.ID, &n.OrgID, &n.UserID, &n.Title, &n.Body, &topic, &priority,
		&n.IsRead, &n.ReadAt, &n.ActionURL, &n.ActionLabel, &n.ScheduledAt, &n.ExpiresAt,
		&n.RetentionPolicyID, &n.DataClassification, &n.ResidencyTag,
		&n.AuditSource, &n.CorrelationID, &n.SchemaVersion, &n.CreatedBy,
		&metadata, &auditTrail, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Notification{}, ErrNotificationNotFound
		}
		return Notification{}, fmt.Errorf("scan notification: %w", err)
	}

	n.Topic = Topic(topic)
	n.Priority = Priority(priority)

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
			return Notification{}, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	if len(auditTrail) > 0 {
		if err := json.Unmarshal(auditTrail, &n.AuditTrail); err != nil {
			return Notification{}, fmt.Errorf("unmarshal audit trail: %w", err)
		}
	}

	return n, nil
}

// PGPreferenceRepository is a PostgreSQL-backed PreferenceRepository.
type PGPreferenceRepository struct {
	pool *pgxpool.Pool
}

// NewPGPreferenceRepository creates a preference repository backed by the pool.
func NewPGPreferenceRepository(pool *pgxpool.Pool) *PGPreferenceRepository {
	return &PGPreferenceRepository{pool: pool}
}

func (r *PGPreferenceRepository) GetNotificationPreferencesByUser(ctx context.Context, orgID, userID string) ([]Preference, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT channel, enabled, quiet_hours_start, quiet_hours_end, metadata
		FROM notification_preferences
		WHERE org_id = $1 AND user_id = $2`,
		orgID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	defer rows.Close()

	prefs := []Preference{}
	for rows.Next() {
		var (
			p        Preference
			channel  string
			start    *string
			end      *string
			metadata []byte
		)
		if err := rows.Scan(&channel, &p.Enabled, &start, &end, &metadata); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		p.Channel = Channel(channel)
		if start != nil {
			p.QuietHoursStart = *start
		}
		if end != nil {
			p.QuietHoursEnd = *end
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &p.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal preference metadata: %w", err)
			}
		}
		prefs = append(prefs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}

	return prefs, nil
}

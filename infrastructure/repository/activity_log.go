package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/Mizanur7464/home-depot/infrastructure/database/postgres"
	"github.com/Mizanur7464/home-depot/internal/domain"
	"github.com/google/uuid"
)

const activityLogsTable = "activity_logs"

// maxLogPageSize caps a single read so a careless limit cannot drag the
// whole history across the wire.
const maxLogPageSize = 1000

type ActivityLogRepository interface {
	Append(entry *domain.ActivityLogEntry) error
	ListLogs(logType string, limit int) ([]*domain.ActivityLogEntry, error)
}

type activityLogRepository struct {
	conn *postgres.Connection
}

func NewActivityLogRepository(conn *postgres.Connection) ActivityLogRepository {
	return &activityLogRepository{
		conn: conn,
	}
}

func (r *activityLogRepository) Append(entry *domain.ActivityLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	data, err := marshalJSONB(entry.Data)
	if err != nil {
		return fmt.Errorf("failed to encode log data: %w", err)
	}

	sqlQuery, args, err := squirrel.StatementBuilder.
		Insert(activityLogsTable).
		Columns("id", "type", "message", "data").
		Values(entry.ID, entry.Type, entry.Message, data).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

func (r *activityLogRepository) ListLogs(logType string, limit int) ([]*domain.ActivityLogEntry, error) {
	if limit <= 0 || limit > maxLogPageSize {
		limit = maxLogPageSize
	}

	queryBuilder := squirrel.
		Select("id, type, message, data, created_at").
		From(activityLogsTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	if logType != "" {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"type": logType})
	}

	logsSQL, logsArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(logsSQL, logsArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.ActivityLogEntry, 0)

	for rows.Next() {
		entry := &domain.ActivityLogEntry{}
		var data []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.Type,
			&entry.Message,
			&data,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &entry.Data); err != nil {
				return nil, fmt.Errorf("failed to decode log data: %w", err)
			}
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

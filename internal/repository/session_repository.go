package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/coaching-service/internal/domain"
)

// SessionFilter captures session search parameters.
type SessionFilter struct {
	CoachID   *string
	RequestID *string
	CompanyID *string
	Statuses  []domain.SessionStatus
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// SessionRepository encapsulates session persistence.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	Update(ctx context.Context, session *domain.Session) error
	// CreateIfFree inserts session unless it overlaps a blocking session of the same coach,
	// in which case it returns ErrSlotTaken. Check and insert are atomic.
	CreateIfFree(ctx context.Context, session *domain.Session) error
	// UpdateIfFree is the atomic counterpart of Update for moved sessions.
	UpdateIfFree(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	List(ctx context.Context, filter SessionFilter) ([]domain.Session, error)
	HasConflict(ctx context.Context, coachID string, start, end time.Time, excludeID string) (bool, error)
	ListForCoachInRange(ctx context.Context, coachID string, from, to time.Time) ([]domain.Session, error)
	LastStartForRequest(ctx context.Context, requestID string, before time.Time) (*time.Time, error)
}

type sessionRepository struct {
	pool *pgxpool.Pool
}

// sessionDB is satisfied by both the pool and a transaction.
type sessionDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewSessionRepository instantiates repository.
func NewSessionRepository(pool *pgxpool.Pool) SessionRepository {
	return &sessionRepository{pool: pool}
}

const sessionColumns = `id, request_id, coach_id, company_id, title, session_type, scheduled_start_time,
               scheduled_end_time, participants, status, reschedule_count, rating, notes, created_at, updated_at`

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	return insertSession(ctx, r.pool, session)
}

func insertSession(ctx context.Context, db sessionDB, session *domain.Session) error {
	const query = `
        INSERT INTO sessions (request_id, coach_id, company_id, title, session_type, scheduled_start_time,
            scheduled_end_time, participants, status, reschedule_count, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	return db.QueryRow(ctx, query,
		session.RequestID,
		session.CoachID,
		session.CompanyID,
		session.Title,
		session.Type,
		session.ScheduledStartTime,
		session.ScheduledEndTime,
		session.Participants,
		session.Status,
		session.RescheduleCount,
		session.Notes,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)
}

func (r *sessionRepository) Update(ctx context.Context, session *domain.Session) error {
	return updateSession(ctx, r.pool, session)
}

func updateSession(ctx context.Context, db sessionDB, session *domain.Session) error {
	const query = `
        UPDATE sessions SET title=$1, session_type=$2, scheduled_start_time=$3, scheduled_end_time=$4,
            participants=$5, status=$6, reschedule_count=$7, rating=$8, notes=$9, updated_at=NOW()
        WHERE id=$10`
	cmd, err := db.Exec(ctx, query,
		session.Title,
		session.Type,
		session.ScheduledStartTime,
		session.ScheduledEndTime,
		session.Participants,
		session.Status,
		session.RescheduleCount,
		session.Rating,
		session.Notes,
		session.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id::text=$1`
	return scanSession(r.pool.QueryRow(ctx, query, id))
}

func (r *sessionRepository) List(ctx context.Context, filter SessionFilter) ([]domain.Session, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CoachID != nil {
		args = append(args, *filter.CoachID)
		clauses = append(clauses, fmt.Sprintf("coach_id=$%d", len(args)))
	}
	if filter.RequestID != nil {
		args = append(args, *filter.RequestID)
		clauses = append(clauses, fmt.Sprintf("request_id=$%d", len(args)))
	}
	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		clauses = append(clauses, fmt.Sprintf("company_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, fmt.Sprintf("scheduled_start_time >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		clauses = append(clauses, fmt.Sprintf("scheduled_start_time <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE %s ORDER BY scheduled_start_time ASC LIMIT %d OFFSET %d`,
		sessionColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessions(rows)
}

// CreateIfFree serializes writers per coach with a transaction-scoped advisory lock, so the
// overlap check and the insert see the same calendar.
func (r *sessionRepository) CreateIfFree(ctx context.Context, session *domain.Session) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockCoachCalendar(ctx, tx, session.CoachID); err != nil {
			return err
		}
		if err := ensureSlotFree(ctx, tx, session, ""); err != nil {
			return err
		}
		return insertSession(ctx, tx, session)
	})
}

func (r *sessionRepository) UpdateIfFree(ctx context.Context, session *domain.Session) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockCoachCalendar(ctx, tx, session.CoachID); err != nil {
			return err
		}
		if err := ensureSlotFree(ctx, tx, session, session.ID); err != nil {
			return err
		}
		return updateSession(ctx, tx, session)
	})
}

func lockCoachCalendar(ctx context.Context, tx pgx.Tx, coachID string) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, coachID)
	return err
}

func ensureSlotFree(ctx context.Context, db sessionDB, session *domain.Session, excludeID string) error {
	conflict, err := sessionConflict(ctx, db, session.CoachID, session.ScheduledStartTime, session.ScheduledEndTime, excludeID)
	if err != nil {
		return err
	}
	if conflict {
		return ErrSlotTaken
	}
	return nil
}

func (r *sessionRepository) HasConflict(ctx context.Context, coachID string, start, end time.Time, excludeID string) (bool, error) {
	return sessionConflict(ctx, r.pool, coachID, start, end, excludeID)
}

func sessionConflict(ctx context.Context, db sessionDB, coachID string, start, end time.Time, excludeID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM sessions
            WHERE coach_id = $1
              AND id::text <> $4
              AND status <> 'cancelled'
              AND scheduled_start_time < $3
              AND scheduled_end_time > $2
        )`
	var conflict bool
	if err := db.QueryRow(ctx, query, coachID, start, end, excludeID).Scan(&conflict); err != nil {
		return false, err
	}
	return conflict, nil
}

func (r *sessionRepository) ListForCoachInRange(ctx context.Context, coachID string, from, to time.Time) ([]domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions
        WHERE coach_id=$1 AND status <> 'cancelled' AND scheduled_start_time < $3 AND scheduled_end_time > $2
        ORDER BY scheduled_start_time ASC`
	rows, err := r.pool.Query(ctx, query, coachID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessions(rows)
}

func (r *sessionRepository) LastStartForRequest(ctx context.Context, requestID string, before time.Time) (*time.Time, error) {
	const query = `
        SELECT MAX(scheduled_start_time) FROM sessions
        WHERE request_id=$1 AND status <> 'cancelled' AND scheduled_start_time < $2`
	var last *time.Time
	if err := r.pool.QueryRow(ctx, query, requestID, before).Scan(&last); err != nil {
		return nil, err
	}
	return last, nil
}

func scanSession(row pgx.Row) (*domain.Session, error) {
	var session domain.Session
	if err := row.Scan(
		&session.ID,
		&session.RequestID,
		&session.CoachID,
		&session.CompanyID,
		&session.Title,
		&session.Type,
		&session.ScheduledStartTime,
		&session.ScheduledEndTime,
		&session.Participants,
		&session.Status,
		&session.RescheduleCount,
		&session.Rating,
		&session.Notes,
		&session.CreatedAt,
		&session.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &session, nil
}

func scanSessions(rows pgx.Rows) ([]domain.Session, error) {
	var result []domain.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *session)
	}
	return result, rows.Err()
}

package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"log"
	"time"

	"github.com/eventdeskhq/eventdesk/internal/core/domain"
)

//go:embed schema.sql
var schemaSQL string

// PostgresRepository implements ports.Repository using PostgreSQL.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates and returns a new PostgresRepository instance.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Migrate applies the embedded schema. Statements are idempotent.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schemaSQL)
	return err
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Users

func (r *PostgresRepository) CreateUser(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (username, password_hash, first_name, last_name, email, notify_on_registration, notify_on_changes, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		u.Username, u.PasswordHash, u.FirstName, u.LastName, u.Email,
		u.NotifyOnRegistration, u.NotifyOnChanges, u.CreatedAt,
	).Scan(&u.ID)
}

const userColumns = `id, username, password_hash, first_name, last_name, email, notify_on_registration, notify_on_changes, created_at`

func (r *PostgresRepository) scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Email,
		&u.NotifyOnRegistration, &u.NotifyOnChanges, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (r *PostgresRepository) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	return err
}

func (r *PostgresRepository) UpdateUserSettings(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET first_name = $2, last_name = $3, email = $4, notify_on_registration = $5, notify_on_changes = $6 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, u.ID, u.FirstName, u.LastName, u.Email, u.NotifyOnRegistration, u.NotifyOnChanges)
	return err
}

// API keys

const apiKeyColumns = `id, user_id, name, key_hash, key_prefix, active, created_at, last_used_at, expires_at`

func (r *PostgresRepository) CreateAPIKey(ctx context.Context, k *domain.APIKey) error {
	query := `INSERT INTO api_keys (id, user_id, name, key_hash, key_prefix, active, created_at, last_used_at, expires_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		k.ID, k.UserID, k.Name, k.KeyHash, k.KeyPrefix, k.Active, k.CreatedAt, k.LastUsedAt, k.ExpiresAt)
	return err
}

func scanAPIKeyRow(scan func(dest ...any) error) (*domain.APIKey, error) {
	var k domain.APIKey
	var lastUsed, expires sql.NullTime
	err := scan(&k.ID, &k.UserID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Active, &k.CreatedAt, &lastUsed, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if lastUsed.Valid {
		t := lastUsed.Time
		k.LastUsedAt = &t
	}
	if expires.Valid {
		t := expires.Time
		k.ExpiresAt = &t
	}
	return &k, nil
}

func (r *PostgresRepository) GetAPIKey(ctx context.Context, id string) (*domain.APIKey, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+apiKeyColumns+` FROM api_keys WHERE id = $1`, id)
	return scanAPIKeyRow(row.Scan)
}

func (r *PostgresRepository) GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+apiKeyColumns+` FROM api_keys WHERE key_hash = $1`, keyHash)
	return scanAPIKeyRow(row.Scan)
}

func (r *PostgresRepository) ListAPIKeys(ctx context.Context, userID int64) ([]domain.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var keys []domain.APIKey
	for rows.Next() {
		k, err := scanAPIKeyRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		keys = append(keys, *k)
	}
	return keys, rows.Err()
}

func (r *PostgresRepository) UpdateAPIKeyLastUsed(ctx context.Context, id string, usedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used_at = $2 WHERE id = $1`, id, usedAt)
	return err
}

func (r *PostgresRepository) SetAPIKeyActive(ctx context.Context, id string, active bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE api_keys SET active = $2 WHERE id = $1`, id, active)
	return err
}

func (r *PostgresRepository) DeleteAPIKey(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM api_keys WHERE id = $1`, id)
	return err
}

// Events

const eventColumns = `id, owner_id, title, description, location, starts_at, ends_at, capacity, created_at, updated_at`

func (r *PostgresRepository) CreateEvent(ctx context.Context, e *domain.Event) error {
	query := `INSERT INTO events (` + eventColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.OwnerID, e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt, e.Capacity, e.CreatedAt, e.UpdatedAt)
	return err
}

func scanEventRow(scan func(dest ...any) error) (*domain.Event, error) {
	var e domain.Event
	err := scan(&e.ID, &e.OwnerID, &e.Title, &e.Description, &e.Location, &e.StartsAt, &e.EndsAt, &e.Capacity, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PostgresRepository) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	return scanEventRow(row.Scan)
}

func (r *PostgresRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY starts_at`)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var events []domain.Event
	for rows.Next() {
		e, err := scanEventRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (r *PostgresRepository) UpdateEvent(ctx context.Context, e *domain.Event) error {
	query := `UPDATE events SET title = $2, description = $3, location = $4, starts_at = $5, ends_at = $6, capacity = $7, updated_at = $8 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, e.ID, e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt, e.Capacity, e.UpdatedAt)
	return err
}

func (r *PostgresRepository) DeleteEvent(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}

// Participants

func (r *PostgresRepository) CreateParticipant(ctx context.Context, p *domain.Participant) error {
	query := `INSERT INTO participants (id, event_id, name, email, registered_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.EventID, p.Name, p.Email, p.RegisteredAt)
	return err
}

func (r *PostgresRepository) ListParticipants(ctx context.Context, eventID string) ([]domain.Participant, error) {
	query := `SELECT id, event_id, name, email, registered_at FROM participants WHERE event_id = $1 ORDER BY registered_at`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var participants []domain.Participant
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.ID, &p.EventID, &p.Name, &p.Email, &p.RegisteredAt); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *PostgresRepository) CountParticipants(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM participants WHERE event_id = $1`, eventID).Scan(&count)
	return count, err
}

func (r *PostgresRepository) DeleteParticipant(ctx context.Context, id string, eventID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM participants WHERE id = $1 AND event_id = $2`, id, eventID)
	return err
}

// Courses

const courseColumns = `id, owner_id, title, description, instructor, starts_at, ends_at, created_at, updated_at`

func (r *PostgresRepository) CreateCourse(ctx context.Context, c *domain.Course) error {
	query := `INSERT INTO courses (` + courseColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.OwnerID, c.Title, c.Description, c.Instructor, nullableTime(c.StartsAt), nullableTime(c.EndsAt), c.CreatedAt, c.UpdatedAt)
	return err
}

func scanCourseRow(scan func(dest ...any) error) (*domain.Course, error) {
	var c domain.Course
	var starts, ends sql.NullTime
	err := scan(&c.ID, &c.OwnerID, &c.Title, &c.Description, &c.Instructor, &starts, &ends, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if starts.Valid {
		c.StartsAt = starts.Time
	}
	if ends.Valid {
		c.EndsAt = ends.Time
	}
	return &c, nil
}

func (r *PostgresRepository) GetCourse(ctx context.Context, id string) (*domain.Course, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id)
	return scanCourseRow(row.Scan)
}

func (r *PostgresRepository) ListCourses(ctx context.Context) ([]domain.Course, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var courses []domain.Course
	for rows.Next() {
		c, err := scanCourseRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

func (r *PostgresRepository) UpdateCourse(ctx context.Context, c *domain.Course) error {
	query := `UPDATE courses SET title = $2, description = $3, instructor = $4, starts_at = $5, ends_at = $6, updated_at = $7 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Title, c.Description, c.Instructor, nullableTime(c.StartsAt), nullableTime(c.EndsAt), c.UpdatedAt)
	return err
}

func (r *PostgresRepository) DeleteCourse(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	return err
}

// Training sessions

const sessionColumns = `id, course_id, title, starts_at, ends_at, room`

func (r *PostgresRepository) CreateTrainingSession(ctx context.Context, s *domain.TrainingSession) error {
	query := `INSERT INTO training_sessions (` + sessionColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.CourseID, s.Title, s.StartsAt, s.EndsAt, s.Room)
	return err
}

func (r *PostgresRepository) GetTrainingSession(ctx context.Context, id string) (*domain.TrainingSession, error) {
	var s domain.TrainingSession
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM training_sessions WHERE id = $1`, id)
	err := row.Scan(&s.ID, &s.CourseID, &s.Title, &s.StartsAt, &s.EndsAt, &s.Room)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresRepository) listSessions(ctx context.Context, query string, args ...any) ([]domain.TrainingSession, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var sessions []domain.TrainingSession
	for rows.Next() {
		var s domain.TrainingSession
		if err := rows.Scan(&s.ID, &s.CourseID, &s.Title, &s.StartsAt, &s.EndsAt, &s.Room); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *PostgresRepository) ListTrainingSessions(ctx context.Context) ([]domain.TrainingSession, error) {
	return r.listSessions(ctx, `SELECT `+sessionColumns+` FROM training_sessions ORDER BY starts_at`)
}

func (r *PostgresRepository) ListTrainingSessionsForCourse(ctx context.Context, courseID string) ([]domain.TrainingSession, error) {
	return r.listSessions(ctx, `SELECT `+sessionColumns+` FROM training_sessions WHERE course_id = $1 ORDER BY starts_at`, courseID)
}

func (r *PostgresRepository) DeleteTrainingSession(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM training_sessions WHERE id = $1`, id)
	return err
}

// Media

const mediaColumns = `id, owner_id, title, url, mime_type, size_bytes, created_at`

func (r *PostgresRepository) CreateMediaAsset(ctx context.Context, m *domain.MediaAsset) error {
	query := `INSERT INTO media_assets (` + mediaColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, m.ID, m.OwnerID, m.Title, m.URL, m.MimeType, m.SizeBytes, m.CreatedAt)
	return err
}

func (r *PostgresRepository) GetMediaAsset(ctx context.Context, id string) (*domain.MediaAsset, error) {
	var m domain.MediaAsset
	row := r.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media_assets WHERE id = $1`, id)
	err := row.Scan(&m.ID, &m.OwnerID, &m.Title, &m.URL, &m.MimeType, &m.SizeBytes, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PostgresRepository) ListMediaAssets(ctx context.Context) ([]domain.MediaAsset, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+mediaColumns+` FROM media_assets ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var assets []domain.MediaAsset
	for rows.Next() {
		var m domain.MediaAsset
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.Title, &m.URL, &m.MimeType, &m.SizeBytes, &m.CreatedAt); err != nil {
			return nil, err
		}
		assets = append(assets, m)
	}
	return assets, rows.Err()
}

func (r *PostgresRepository) DeleteMediaAsset(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM media_assets WHERE id = $1`, id)
	return err
}

// Audit

func (r *PostgresRepository) SaveAuditEntry(ctx context.Context, e *domain.AuditEntry) error {
	query := `INSERT INTO audit_log (id, user_id, action, detail, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, e.ID, e.UserID, e.Action, e.Detail, e.CreatedAt)
	return err
}

func (r *PostgresRepository) ListAuditEntries(ctx context.Context, userID int64) ([]domain.AuditEntry, error) {
	query := `SELECT id, user_id, action, detail, created_at FROM audit_log WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var uid sql.NullInt64
		if err := rows.Scan(&e.ID, &uid, &e.Action, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		if uid.Valid {
			v := uid.Int64
			e.UserID = &v
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// nullableTime maps the zero time to SQL NULL.
func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		log.Printf("failed to close rows: %v", err)
	}
}

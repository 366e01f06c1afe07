package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // PostgreSQL driver

	"talentscan/internal/apperr"
	"talentscan/internal/candidate"
)

//go:embed schema.sql
var schemaSQL string

const candidateColumns = `id, first_name, last_name, email, phone, education_history,
       work_experience_summary, skills, current_position, years_of_experience, created_at`

// DB is the durable candidate store backed by PostgreSQL.
type DB struct {
	connection *sql.DB
	newID      func() string
}

var _ Store = (*DB)(nil)

func NewDB(ctx context.Context, dataSourceName string) (*DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStore, err, "open database")
	}

	// Connection pool tuning
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, apperr.Wrap(apperr.KindStore, err, "ping database")
	}

	return newDB(db), nil
}

func newDB(conn *sql.DB) *DB {
	return &DB{connection: conn, newID: uuid.NewString}
}

func (db *DB) Close() error {
	return db.connection.Close()
}

// EnsureSchema creates the candidates table when it does not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.connection.ExecContext(ctx, schemaSQL); err != nil {
		return apperr.Wrap(apperr.KindStore, err, "bootstrap candidates table")
	}
	return nil
}

func (db *DB) StoreCandidate(ctx context.Context, fields candidate.Fields) (*candidate.Candidate, error) {
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	fields = normalizeFields(fields)
	educationJSON, err := json.Marshal(fields.EducationHistory)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStore, err, "encode education history")
	}

	id := db.newID()
	query := `INSERT INTO candidates (id, first_name, last_name, email, phone, education_history,
                                      work_experience_summary, skills, current_position, years_of_experience)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
              RETURNING created_at`

	var createdAt time.Time
	err = db.connection.QueryRowContext(ctx, query,
		id,
		fields.FirstName,
		fields.LastName,
		fields.Email,
		fields.Phone,
		educationJSON,
		fields.WorkExperienceSummary,
		pq.StringArray(fields.Skills),
		fields.CurrentPosition,
		fields.YearsOfExperience,
	).Scan(&createdAt)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStore, err, "store candidate")
	}

	createdAt = createdAt.UTC()
	return &candidate.Candidate{ID: id, Fields: fields, CreatedAt: &createdAt}, nil
}

func (db *DB) GetAllCandidates(ctx context.Context) ([]candidate.Candidate, error) {
	rows, err := db.connection.QueryContext(ctx, `SELECT `+candidateColumns+` FROM candidates ORDER BY created_at, id`)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStore, err, "list candidates")
	}
	return scanCandidates(rows, "list candidates")
}

func (db *DB) GetCandidate(ctx context.Context, id string) (*candidate.Candidate, error) {
	row := db.connection.QueryRowContext(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id)
	c, err := scanCandidate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStore, err, "get candidate")
	}
	return c, nil
}

// SearchCandidates uses ILIKE with escaped wildcards so it matches exactly what MemoryStore matches.
func (db *DB) SearchCandidates(ctx context.Context, query string) ([]candidate.Candidate, error) {
	q := `SELECT ` + candidateColumns + ` FROM candidates
          WHERE work_experience_summary ILIKE $1 ESCAPE '\'
             OR EXISTS (SELECT 1 FROM unnest(skills) AS s WHERE s ILIKE $1 ESCAPE '\')
          ORDER BY created_at, id`

	rows, err := db.connection.QueryContext(ctx, q, "%"+escapeLike(query)+"%")
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStore, err, "search candidates")
	}
	return scanCandidates(rows, "search candidates")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row scanner) (*candidate.Candidate, error) {
	var (
		c         candidate.Candidate
		education []byte
		skills    pq.StringArray
		createdAt time.Time
	)
	err := row.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.Phone,
		&education,
		&c.WorkExperienceSummary,
		&skills,
		&c.CurrentPosition,
		&c.YearsOfExperience,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	c.EducationHistory = []candidate.Education{}
	if len(education) > 0 {
		if err := json.Unmarshal(education, &c.EducationHistory); err != nil {
			return nil, fmt.Errorf("decode education history of %s: %w", c.ID, err)
		}
	}
	c.Skills = []string(skills)
	if c.Skills == nil {
		c.Skills = []string{}
	}
	c.CreatedAt = &createdAt
	return &c, nil
}

func scanCandidates(rows *sql.Rows, op string) ([]candidate.Candidate, error) {
	defer rows.Close()

	res := []candidate.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindStore, err, op)
		}
		res = append(res, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindStore, err, op)
	}
	return res, nil
}

// escapeLike neutralizes LIKE wildcards so the query is matched literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"civic-grievances/internal/domain/grievances"
	"civic-grievances/internal/domain/status"

	"github.com/google/uuid"
)

const columns = `
	id, title, description, category, urgency,
	latitude, longitude, address, photo_url,
	status, status_history,
	user_id, user_name, user_email, user_photo,
	created_at, updated_at, updated_by, updated_by_name, admin_notes`

type Repo struct {
	db      *sql.DB
	dialect Dialect
}

func NewRepo(db *sql.DB, d Dialect) *Repo {
	return &Repo{db: db, dialect: d}
}

// Migrate crea la tabla e índices si no existen.
func Migrate(ctx context.Context, db *sql.DB, d Dialect) error {
	for _, stmt := range d.schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", d.Name, err)
		}
	}
	return nil
}

// execer cubre *sql.DB y *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *Repo) Create(ctx context.Context, g grievances.Grievance) (grievances.Grievance, error) {
	if strings.TrimSpace(g.ID) == "" {
		g.ID = uuid.NewString()
	}
	history, err := json.Marshal(g.StatusHistory)
	if err != nil {
		return grievances.Grievance{}, fmt.Errorf("encode history: %w", err)
	}

	_, err = r.db.ExecContext(ctx, r.dialect.bindvar(`
		INSERT INTO grievances (`+columns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
	`),
		g.ID, g.Title, g.Description, string(g.Category), string(g.Urgency),
		g.Location.Latitude, g.Location.Longitude, g.Location.Address, g.PhotoURL,
		string(g.Status), string(history),
		g.UserID, g.UserName, g.UserEmail, g.UserPhoto,
		r.dialect.timeArg(g.CreatedAt), r.dialect.timeArg(g.UpdatedAt), g.UpdatedBy, g.UpdatedByName, g.AdminNotes,
	)
	if err != nil {
		return grievances.Grievance{}, err
	}
	return g, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (grievances.Grievance, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return grievances.Grievance{}, grievances.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, r.dialect.bindvar(`SELECT `+columns+` FROM grievances WHERE id = $1`), id)
	g, err := scanGrievance(row)
	if errors.Is(err, sql.ErrNoRows) {
		return grievances.Grievance{}, grievances.ErrNotFound
	}
	return g, err
}

func (r *Repo) Update(ctx context.Context, g grievances.Grievance) error {
	return r.update(ctx, r.db, g)
}

// BatchUpdate escribe todo en una transacción; cualquier fila faltante
// hace rollback del lote completo.
func (r *Repo) BatchUpdate(ctx context.Context, gs []grievances.Grievance) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		for _, g := range gs {
			if err := r.update(ctx, tx, g); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repo) update(ctx context.Context, ex execer, g grievances.Grievance) error {
	history, err := json.Marshal(g.StatusHistory)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	res, err := ex.ExecContext(ctx, r.dialect.bindvar(`
		UPDATE grievances
		SET
			title = $2,
			description = $3,
			category = $4,
			urgency = $5,
			latitude = $6,
			longitude = $7,
			address = $8,
			photo_url = $9,
			status = $10,
			status_history = $11,
			updated_at = $12,
			updated_by = $13,
			updated_by_name = $14,
			admin_notes = $15
		WHERE id = $1
	`),
		g.ID, g.Title, g.Description, string(g.Category), string(g.Urgency),
		g.Location.Latitude, g.Location.Longitude, g.Location.Address, g.PhotoURL,
		string(g.Status), string(history),
		r.dialect.timeArg(g.UpdatedAt), g.UpdatedBy, g.UpdatedByName, g.AdminNotes,
	)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, r.db, id)
}

func (r *Repo) BatchDelete(ctx context.Context, ids []string) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		for _, id := range ids {
			if err := r.delete(ctx, tx, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repo) delete(ctx context.Context, ex execer, id string) error {
	res, err := ex.ExecContext(ctx, r.dialect.bindvar(`DELETE FROM grievances WHERE id = $1`), id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (r *Repo) List(ctx context.Context, q grievances.Query) ([]grievances.Grievance, error) {
	query := `SELECT ` + columns + ` FROM grievances`
	var args []any
	if q.OwnerID != "" {
		query += ` WHERE user_id = $1`
		args = append(args, q.OwnerID)
	}
	query += ` ORDER BY created_at DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, r.dialect.bindvar(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]grievances.Grievance, 0)
	for rows.Next() {
		g, err := scanGrievance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGrievance(row rowScanner) (grievances.Grievance, error) {
	var (
		g                  grievances.Grievance
		category, urgency  string
		st                 string
		history            rawJSON
		createdAt, updated dbTime
	)
	if err := row.Scan(
		&g.ID, &g.Title, &g.Description, &category, &urgency,
		&g.Location.Latitude, &g.Location.Longitude, &g.Location.Address, &g.PhotoURL,
		&st, &history,
		&g.UserID, &g.UserName, &g.UserEmail, &g.UserPhoto,
		&createdAt, &updated, &g.UpdatedBy, &g.UpdatedByName, &g.AdminNotes,
	); err != nil {
		return grievances.Grievance{}, err
	}
	g.Category = grievances.Category(category)
	g.Urgency = grievances.Urgency(urgency)
	g.Status = status.Status(st)
	g.CreatedAt = createdAt.t
	g.UpdatedAt = updated.t
	if len(history) > 0 {
		if err := json.Unmarshal(history, &g.StatusHistory); err != nil {
			return grievances.Grievance{}, fmt.Errorf("decode history %s: %w", g.ID, err)
		}
	}
	return g, nil
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return grievances.ErrNotFound
	}
	return nil
}

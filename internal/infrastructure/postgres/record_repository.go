package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Reportes-api/internal/domain"
	"github.com/jhoicas/Reportes-api/internal/domain/entity"
	"github.com/jhoicas/Reportes-api/internal/domain/repository"
)

var _ repository.RecordRepository = (*RecordRepo)(nil)

const dayLayout = "2006-01-02"

// RecordRepo implementación del puerto RecordRepository sobre PostgreSQL.
// Los campos del formulario se guardan como documentos JSONB (numbers, texts).
type RecordRepo struct {
	db Querier
}

// NewRecordRepository construye el adaptador de persistencia para reportes.
func NewRecordRepository(db Querier) *RecordRepo {
	return &RecordRepo{db: db}
}

// Create inserta el reporte. El índice único (user_id, report_day) cierra la carrera
// entre dos envíos simultáneos del mismo usuario.
func (r *RecordRepo) Create(ctx context.Context, rec *entity.Record) error {
	numbers, err := json.Marshal(numbersDocument(rec.Numbers))
	if err != nil {
		return fmt.Errorf("marshal numbers: %w", err)
	}
	texts, err := json.Marshal(nonNilTexts(rec.Texts))
	if err != nil {
		return fmt.Errorf("marshal texts: %w", err)
	}
	day, err := time.Parse(dayLayout, rec.ReportDay)
	if err != nil {
		return fmt.Errorf("report day %q: %w", rec.ReportDay, err)
	}
	query := `
		INSERT INTO records (id, user_id, schema_version, numbers, texts, created_at, report_day)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.db.Exec(ctx, query,
		rec.ID, rec.UserID, rec.SchemaVersion, numbers, texts, rec.CreatedAt, day)
	if err != nil {
		if isUniqueViolationOn(err, constraintRecordUserDay) {
			return domain.ErrAlreadySubmittedToday
		}
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// ExistsForUserBetween reportes del usuario con created_at en [from, to).
func (r *RecordRepo) ExistsForUserBetween(ctx context.Context, userID string, from, to time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM records WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		)`, userID, from, to).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists record: %w", err)
	}
	return exists, nil
}

// Count total de reportes que cumplen el filtro.
func (r *RecordRepo) Count(ctx context.Context, f repository.RecordFilter) (int, error) {
	where, args := recordWhere(f)
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM records r`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// List página de reportes con su dueño, más recientes primero.
func (r *RecordRepo) List(ctx context.Context, f repository.RecordFilter, limit, offset int) ([]entity.OwnedRecord, error) {
	where, args := recordWhere(f)
	args = append(args, limit, offset)
	query := ownedRecordSelect + where +
		fmt.Sprintf(` ORDER BY r.created_at DESC, r.id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	return r.listOwned(ctx, query, args...)
}

// ListAll todos los reportes del filtro, mismo orden que List.
func (r *RecordRepo) ListAll(ctx context.Context, f repository.RecordFilter) ([]entity.OwnedRecord, error) {
	where, args := recordWhere(f)
	return r.listOwned(ctx, ownedRecordSelect+where+` ORDER BY r.created_at DESC, r.id DESC`, args...)
}

// SummaryByUser conteo y sumas por campo numérico, agregados en SQL (NUMERIC exacto).
func (r *RecordRepo) SummaryByUser(ctx context.Context, f repository.RecordFilter) ([]repository.UserTotals, error) {
	where, args := recordWhere(f)
	rows, err := r.db.Query(ctx, `
		SELECT r.user_id, COALESCE(u.name, ''), COALESCE(u.email, ''), u.id IS NOT NULL,
		       COUNT(*), MIN(r.created_at), MAX(r.created_at)
		FROM records r
		LEFT JOIN users u ON u.id = r.user_id`+where+`
		GROUP BY r.user_id, u.id, u.name, u.email
		ORDER BY COALESCE(u.name, ''), r.user_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("summary records: %w", err)
	}
	var (
		out   []repository.UserTotals
		index = make(map[string]int)
	)
	for rows.Next() {
		var t repository.UserTotals
		if err := rows.Scan(&t.Owner.ID, &t.Owner.Name, &t.Owner.Email, &t.OwnerFound,
			&t.Records, &t.FirstAt, &t.LastAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		t.Totals = make(map[string]decimal.Decimal)
		index[t.Owner.ID] = len(out)
		out = append(out, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("summary records: %w", err)
	}

	rows, err = r.db.Query(ctx, `
		SELECT r.user_id, kv.key, SUM(kv.value::numeric)
		FROM records r
		CROSS JOIN LATERAL jsonb_each_text(r.numbers) AS kv(key, value)`+where+`
		GROUP BY r.user_id, kv.key`, args...)
	if err != nil {
		return nil, fmt.Errorf("summary totals: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			userID, key string
			total       decimal.Decimal
		)
		if err := rows.Scan(&userID, &key, &total); err != nil {
			return nil, fmt.Errorf("scan summary totals: %w", err)
		}
		if i, ok := index[userID]; ok {
			out[i].Totals[key] = total
		}
	}
	return out, rows.Err()
}

// GetByID obtiene un reporte por ID; (nil, nil) si no existe.
func (r *RecordRepo) GetByID(ctx context.Context, id string) (*entity.Record, error) {
	row := r.db.QueryRow(ctx, `
		SELECT r.id, r.user_id, r.schema_version, r.numbers, r.texts, r.created_at, r.report_day
		FROM records r WHERE r.id = $1`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// Delete elimina un reporte por ID.
func (r *RecordRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByUser elimina todos los reportes de un usuario (política cascade).
func (r *RecordRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM records WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete records by user: %w", err)
	}
	return tag.RowsAffected(), nil
}

const ownedRecordSelect = `
	SELECT r.id, r.user_id, r.schema_version, r.numbers, r.texts, r.created_at, r.report_day,
	       u.id, COALESCE(u.name, ''), COALESCE(u.email, ''), COALESCE(u.role, '')
	FROM records r
	LEFT JOIN users u ON u.id = r.user_id`

func (r *RecordRepo) listOwned(ctx context.Context, query string, args ...any) ([]entity.OwnedRecord, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()
	list := make([]entity.OwnedRecord, 0)
	for rows.Next() {
		var (
			rec                             recordRow
			ownerID                         *string
			ownerName, ownerMail, ownerRole string
		)
		if err := rows.Scan(&rec.id, &rec.userID, &rec.version, &rec.numbers, &rec.texts, &rec.createdAt, &rec.day,
			&ownerID, &ownerName, &ownerMail, &ownerRole); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		e, err := rec.entity()
		if err != nil {
			return nil, err
		}
		owned := entity.OwnedRecord{Record: *e}
		if ownerID != nil {
			owned.Owner = &entity.Owner{ID: *ownerID, Name: ownerName, Email: ownerMail, Role: entity.Role(ownerRole)}
		}
		list = append(list, owned)
	}
	return list, rows.Err()
}

type recordRow struct {
	id, userID, version string
	numbers, texts      []byte
	createdAt, day      time.Time
}

func (row recordRow) entity() (*entity.Record, error) {
	rec := &entity.Record{
		ID:            row.id,
		UserID:        row.userID,
		SchemaVersion: row.version,
		CreatedAt:     row.createdAt,
		ReportDay:     row.day.Format(dayLayout),
		Numbers:       map[string]decimal.Decimal{},
		Texts:         map[string]string{},
	}
	if err := json.Unmarshal(row.numbers, &rec.Numbers); err != nil {
		return nil, fmt.Errorf("decode numbers %s: %w", row.id, err)
	}
	if err := json.Unmarshal(row.texts, &rec.Texts); err != nil {
		return nil, fmt.Errorf("decode texts %s: %w", row.id, err)
	}
	return rec, nil
}

func scanRecord(row pgx.Row) (*entity.Record, error) {
	var rec recordRow
	if err := row.Scan(&rec.id, &rec.userID, &rec.version, &rec.numbers, &rec.texts, &rec.createdAt, &rec.day); err != nil {
		return nil, err
	}
	return rec.entity()
}

// recordWhere traduce el filtro a SQL parametrizado sobre el alias r.
func recordWhere(f repository.RecordFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if !f.AllUsers {
		ids := f.UserIDs
		if ids == nil {
			ids = []string{}
		}
		args = append(args, ids)
		conds = append(conds, fmt.Sprintf("r.user_id = ANY($%d)", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("r.created_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("r.created_at <= $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// numbersDocument serializa los decimales como números JSON (no strings) para que
// jsonb_each_text + ::numeric los agregue sin pérdida.
func numbersDocument(nums map[string]decimal.Decimal) map[string]json.Number {
	doc := make(map[string]json.Number, len(nums))
	for k, v := range nums {
		doc[k] = json.Number(v.String())
	}
	return doc
}

func nonNilTexts(texts map[string]string) map[string]string {
	if texts == nil {
		return map[string]string{}
	}
	return texts
}

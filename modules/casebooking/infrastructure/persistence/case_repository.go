package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/aggregates/casebooking"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/infrastructure/persistence/models"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/composables"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/repo"
)

const caseBookingColumns = `
	id::text, ref_number, country, hospital, department, date_of_surgery,
	procedure_type, procedure_name, doctor_name, time_of_procedure,
	surgery_sets, implant_boxes, special_instruction, status, is_amended,
	submitted_by, version, created_at, updated_at`

type CaseRepository struct{}

func NewCaseRepository() casebooking.Repository {
	return &CaseRepository{}
}

func (r *CaseRepository) GetPaginated(ctx context.Context, params *casebooking.FindParams) ([]casebooking.CaseBooking, int64, error) {
	if params == nil {
		params = &casebooking.FindParams{}
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}
	country, err := composables.UseCountry(ctx)
	if err != nil {
		return nil, 0, err
	}

	where, args := buildCaseFilters(params, country)
	query := `
		SELECT ` + caseBookingColumns + `
		FROM case_bookings
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC
	`
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	query += " " + repo.FormatLimitOffset(limit, offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, gerrors.Wrap(err, "failed to list case bookings")
	}
	defer rows.Close()

	var results []casebooking.CaseBooking
	for rows.Next() {
		row, err := scanCaseBooking(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		entity, err := toDomainCaseBooking(row)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM case_bookings
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&total); err != nil {
		return nil, 0, gerrors.Wrap(err, "failed to count case bookings")
	}
	return results, total, nil
}

func (r *CaseRepository) GetByID(ctx context.Context, id uuid.UUID) (casebooking.CaseBooking, error) {
	return r.getOne(ctx, "id = $2", id.String())
}

func (r *CaseRepository) GetByRefNumber(ctx context.Context, refNumber string) (casebooking.CaseBooking, error) {
	return r.getOne(ctx, "ref_number = $2", refNumber)
}

func (r *CaseRepository) getOne(ctx context.Context, condition string, arg any) (casebooking.CaseBooking, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return casebooking.CaseBooking{}, err
	}
	country, err := composables.UseCountry(ctx)
	if err != nil {
		return casebooking.CaseBooking{}, err
	}

	queryRow := tx.QueryRow(ctx, `
		SELECT `+caseBookingColumns+`
		FROM case_bookings
		WHERE country = $1 AND `+condition,
		country, arg,
	)
	row, err := scanCaseBooking(queryRow.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return casebooking.CaseBooking{}, casebooking.ErrNotFound
		}
		return casebooking.CaseBooking{}, err
	}
	return toDomainCaseBooking(row)
}

func (r *CaseRepository) Create(ctx context.Context, c casebooking.CaseBooking) (casebooking.CaseBooking, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return casebooking.CaseBooking{}, err
	}
	country, err := composables.UseCountry(ctx)
	if err != nil {
		return casebooking.CaseBooking{}, err
	}

	refNumber, err := nextRefNumber(ctx, tx, country)
	if err != nil {
		return casebooking.CaseBooking{}, err
	}

	dbRow, err := toDBCaseBooking(c)
	if err != nil {
		return casebooking.CaseBooking{}, err
	}
	dbRow.ID = uuid.New().String()
	dbRow.RefNumber = refNumber
	dbRow.Country = country
	dbRow.Version = 1
	now := time.Now()
	dbRow.CreatedAt = now
	dbRow.UpdatedAt = now

	if _, err := tx.Exec(ctx, `
		INSERT INTO case_bookings (
			id, ref_number, country, hospital, department, date_of_surgery,
			procedure_type, procedure_name, doctor_name, time_of_procedure,
			surgery_sets, implant_boxes, special_instruction, status, is_amended,
			submitted_by, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		dbRow.ID,
		dbRow.RefNumber,
		dbRow.Country,
		dbRow.Hospital,
		dbRow.Department,
		dbRow.DateOfSurgery,
		dbRow.ProcedureType,
		dbRow.ProcedureName,
		dbRow.DoctorName,
		dbRow.TimeOfProcedure,
		dbRow.SurgerySets,
		dbRow.ImplantBoxes,
		dbRow.SpecialInstruction,
		dbRow.Status,
		dbRow.IsAmended,
		dbRow.SubmittedBy,
		dbRow.Version,
		dbRow.CreatedAt,
		dbRow.UpdatedAt,
	); err != nil {
		return casebooking.CaseBooking{}, gerrors.Wrap(err, "failed to insert case booking")
	}
	return toDomainCaseBooking(dbRow)
}

func (r *CaseRepository) Update(ctx context.Context, c casebooking.CaseBooking) (casebooking.CaseBooking, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return casebooking.CaseBooking{}, err
	}
	country, err := composables.UseCountry(ctx)
	if err != nil {
		return casebooking.CaseBooking{}, err
	}

	dbRow, err := toDBCaseBooking(c)
	if err != nil {
		return casebooking.CaseBooking{}, err
	}
	dbRow.UpdatedAt = time.Now()

	var newVersion int64
	err = tx.QueryRow(ctx, `
		UPDATE case_bookings SET
			hospital = $4, department = $5, date_of_surgery = $6,
			procedure_type = $7, procedure_name = $8, doctor_name = $9,
			time_of_procedure = $10, surgery_sets = $11, implant_boxes = $12,
			special_instruction = $13, status = $14, is_amended = $15,
			version = version + 1, updated_at = $16
		WHERE id = $1 AND country = $2 AND version = $3
		RETURNING version`,
		dbRow.ID,
		country,
		dbRow.Version,
		dbRow.Hospital,
		dbRow.Department,
		dbRow.DateOfSurgery,
		dbRow.ProcedureType,
		dbRow.ProcedureName,
		dbRow.DoctorName,
		dbRow.TimeOfProcedure,
		dbRow.SurgerySets,
		dbRow.ImplantBoxes,
		dbRow.SpecialInstruction,
		dbRow.Status,
		dbRow.IsAmended,
		dbRow.UpdatedAt,
	).Scan(&newVersion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a missing case from a stale version.
			if _, getErr := r.GetByID(ctx, c.ID()); errors.Is(getErr, casebooking.ErrNotFound) {
				return casebooking.CaseBooking{}, casebooking.ErrNotFound
			}
			return casebooking.CaseBooking{}, casebooking.ErrVersionConflict
		}
		return casebooking.CaseBooking{}, gerrors.Wrap(err, "failed to update case booking")
	}
	dbRow.Version = newVersion
	return toDomainCaseBooking(dbRow)
}

func (r *CaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	country, err := composables.UseCountry(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM case_bookings WHERE id = $1 AND country = $2`, id.String(), country)
	if err != nil {
		return gerrors.Wrap(err, "failed to delete case booking")
	}
	if tag.RowsAffected() == 0 {
		return casebooking.ErrNotFound
	}
	return nil
}

// nextRefNumber advances the per-country sequence and formats the unique
// reference number. Numbers are never reused, even for deleted cases.
func nextRefNumber(ctx context.Context, tx repo.Tx, country string) (string, error) {
	var seq int64
	err := tx.QueryRow(ctx, `
		INSERT INTO case_reference_counters AS c (country, last_seq)
		VALUES ($1, 1)
		ON CONFLICT (country) DO UPDATE SET last_seq = c.last_seq + 1
		RETURNING last_seq`,
		country,
	).Scan(&seq)
	if err != nil {
		return "", gerrors.Wrap(err, "failed to advance case reference counter")
	}
	return fmt.Sprintf("TM-%s-%06d", country, seq), nil
}

func scanCaseBooking(scan func(dest ...any) error) (*models.CaseBooking, error) {
	var row models.CaseBooking
	if err := scan(
		&row.ID,
		&row.RefNumber,
		&row.Country,
		&row.Hospital,
		&row.Department,
		&row.DateOfSurgery,
		&row.ProcedureType,
		&row.ProcedureName,
		&row.DoctorName,
		&row.TimeOfProcedure,
		&row.SurgerySets,
		&row.ImplantBoxes,
		&row.SpecialInstruction,
		&row.Status,
		&row.IsAmended,
		&row.SubmittedBy,
		&row.Version,
		&row.CreatedAt,
		&row.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &row, nil
}

func buildCaseFilters(params *casebooking.FindParams, country string) ([]string, []interface{}) {
	where := []string{"country = $1"}
	args := []interface{}{country}
	argPos := 2
	if params == nil {
		return where, args
	}

	if params.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argPos))
		args = append(args, string(*params.Status))
		argPos++
	}
	if hospital := strings.TrimSpace(params.Hospital); hospital != "" {
		where = append(where, fmt.Sprintf("hospital ILIKE $%d", argPos))
		args = append(args, "%"+hospital+"%")
		argPos++
	}
	if department := strings.TrimSpace(params.Department); department != "" {
		where = append(where, fmt.Sprintf("department = $%d", argPos))
		args = append(args, department)
		argPos++
	}
	if q := strings.TrimSpace(params.Q); q != "" {
		where = append(where, fmt.Sprintf(
			"(ref_number ILIKE $%d OR hospital ILIKE $%d OR procedure_name ILIKE $%d OR doctor_name ILIKE $%d)",
			argPos, argPos, argPos, argPos))
		args = append(args, "%"+q+"%")
		argPos++
	}
	if params.From != nil && !params.From.IsZero() {
		where = append(where, fmt.Sprintf("date_of_surgery >= $%d", argPos))
		args = append(args, *params.From)
		argPos++
	}
	if params.To != nil && !params.To.IsZero() {
		where = append(where, fmt.Sprintf("date_of_surgery <= $%d", argPos))
		args = append(args, *params.To)
	}
	return where, args
}

package forms

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

const formColumns = `
f.id, f.user_id, f.full_name, f.email, f.phone,
to_char(f.date_of_birth, 'YYYY-MM-DD'),
f.address, f.city, f.state, f.zip_code,
f.high_school, f.degree, f.university, f.graduation_year, f.cgpa,
f.current_company, f.position, f.experience_years, f.salary, f.skills,
f.status, f.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForm(row rowScanner, joined bool) (*Form, error) {
	var (
		f          Form
		phone      sql.NullString
		dob        sql.NullString
		address    sql.NullString
		city       sql.NullString
		state      sql.NullString
		zip        sql.NullString
		highSchool sql.NullString
		degree     sql.NullString
		university sql.NullString
		gradYear   sql.NullInt64
		cgpa       sql.NullFloat64
		company    sql.NullString
		position   sql.NullString
		expYears   sql.NullInt64
		salary     sql.NullFloat64
		skills     sql.NullString
	)

	dest := []any{
		&f.ID, &f.UserID, &f.FullName, &f.Email, &phone,
		&dob,
		&address, &city, &state, &zip,
		&highSchool, &degree, &university, &gradYear, &cgpa,
		&company, &position, &expYears, &salary, &skills,
		&f.Status, &f.CreatedAt,
	}
	if joined {
		dest = append(dest, &f.UserName, &f.UserEmail)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	f.Phone = phone.String
	f.Address = address.String
	f.City = city.String
	f.State = state.String
	f.ZipCode = zip.String
	f.HighSchool = highSchool.String
	f.Degree = degree.String
	f.University = university.String
	f.CurrentCompany = company.String
	f.Position = position.String
	if dob.Valid {
		v := dob.String
		f.DateOfBirth = &v
	}
	if gradYear.Valid {
		v := int(gradYear.Int64)
		f.GraduationYear = &v
	}
	if cgpa.Valid {
		v := cgpa.Float64
		f.CGPA = &v
	}
	if expYears.Valid {
		v := int(expYears.Int64)
		f.ExperienceYears = &v
	}
	if salary.Valid {
		v := salary.Float64
		f.Salary = &v
	}

	f.Skills = decodeSkills(skills.String)
	return &f, nil
}

// Skills are stored as a JSON array in a text column, matching the
// wire shape exactly.
func encodeSkills(skills []string) string {
	if skills == nil {
		skills = []string{}
	}
	b, err := json.Marshal(skills)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func decodeSkills(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func (r *PostgresRepo) Create(ctx context.Context, f *Form) error {
	const q = `
INSERT INTO forms (
  user_id, full_name, email, phone, date_of_birth, address, city, state, zip_code,
  high_school, degree, university, graduation_year, cgpa,
  current_company, position, experience_years, salary, skills, status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
RETURNING id, created_at
`
	err := r.db.QueryRowContext(ctx, q,
		f.UserID, f.FullName, f.Email, nullStr(f.Phone), f.DateOfBirth,
		nullStr(f.Address), nullStr(f.City), nullStr(f.State), nullStr(f.ZipCode),
		nullStr(f.HighSchool), nullStr(f.Degree), nullStr(f.University), f.GraduationYear, f.CGPA,
		nullStr(f.CurrentCompany), nullStr(f.Position), f.ExperienceYears, f.Salary,
		encodeSkills(f.Skills), f.Status,
	).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepo) ListByUser(ctx context.Context, userID int64) ([]Form, error) {
	q := `SELECT ` + formColumns + `
FROM forms f
WHERE f.user_id = $1
ORDER BY f.created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()
	return collectForms(rows, false)
}

func (r *PostgresRepo) GetForUser(ctx context.Context, id, userID int64) (*Form, error) {
	q := `SELECT ` + formColumns + `
FROM forms f
WHERE f.id = $1 AND f.user_id = $2`

	f, err := scanForm(r.db.QueryRowContext(ctx, q, id, userID), false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *PostgresRepo) ListAll(ctx context.Context) ([]Form, error) {
	q := `SELECT ` + formColumns + `, u.name, u.email
FROM forms f
JOIN users u ON f.user_id = u.id
ORDER BY f.created_at DESC`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()
	return collectForms(rows, true)
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (*Form, error) {
	q := `SELECT ` + formColumns + `, u.name, u.email
FROM forms f
JOIN users u ON f.user_id = u.id
WHERE f.id = $1`

	f, err := scanForm(r.db.QueryRowContext(ctx, q, id), true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *PostgresRepo) Update(ctx context.Context, f *Form) error {
	const q = `
UPDATE forms SET
  full_name = $1, email = $2, phone = $3, date_of_birth = $4,
  address = $5, city = $6, state = $7, zip_code = $8,
  high_school = $9, degree = $10, university = $11, graduation_year = $12, cgpa = $13,
  current_company = $14, position = $15, experience_years = $16, salary = $17, skills = $18
WHERE id = $19
`
	res, err := r.db.ExecContext(ctx, q,
		f.FullName, f.Email, nullStr(f.Phone), f.DateOfBirth,
		nullStr(f.Address), nullStr(f.City), nullStr(f.State), nullStr(f.ZipCode),
		nullStr(f.HighSchool), nullStr(f.Degree), nullStr(f.University), f.GraduationYear, f.CGPA,
		nullStr(f.CurrentCompany), nullStr(f.Position), f.ExperienceYears, f.Salary,
		encodeSkills(f.Skills), f.ID,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM forms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func collectForms(rows *sql.Rows, joined bool) ([]Form, error) {
	out := []Form{}
	for rows.Next() {
		f, err := scanForm(rows, joined)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

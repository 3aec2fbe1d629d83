package forms

import "time"

// StatusSubmitted is the only status assigned at creation time.
const StatusSubmitted = "submitted"

// Form is a multi-section profile submission. Optional numeric fields
// are pointers so "not provided" survives the round trip instead of
// degrading to zero.
type Form struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`

	// Personal details
	FullName    string  `json:"full_name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	Address     string  `json:"address,omitempty"`
	City        string  `json:"city,omitempty"`
	State       string  `json:"state,omitempty"`
	ZipCode     string  `json:"zip_code,omitempty"`

	// Education details
	HighSchool     string   `json:"high_school,omitempty"`
	Degree         string   `json:"degree,omitempty"`
	University     string   `json:"university,omitempty"`
	GraduationYear *int     `json:"graduation_year,omitempty"`
	CGPA           *float64 `json:"cgpa,omitempty"`

	// Work details
	CurrentCompany  string   `json:"current_company,omitempty"`
	Position        string   `json:"position,omitempty"`
	ExperienceYears *int     `json:"experience_years,omitempty"`
	Salary          *float64 `json:"salary,omitempty"`
	Skills          []string `json:"skills"`

	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`

	// Owner fields, populated only on admin reads (users join).
	UserName  string `json:"user_name,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
}

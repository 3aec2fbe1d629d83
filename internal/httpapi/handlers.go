package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"forms-platform/internal/auth"
	"forms-platform/internal/forms"
	"forms-platform/internal/ratelimit"
	"forms-platform/internal/users"
	"forms-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse input, call internal services, translate
// errors to the fixed envelope. Scoping decisions live in services.
type Handlers struct {
	Users        *users.Service
	Forms        *forms.Service
	LoginLimiter *ratelimit.LoginLimiter
}

/* ===================== AUTH ===================== */

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h Handlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "All fields required")
		return
	}

	token, user, err := h.Users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrValidation):
			fail(c, http.StatusBadRequest, "All fields required")
		case errors.Is(err, users.ErrDuplicateEmail):
			fail(c, http.StatusBadRequest, "Email already registered")
		default:
			logger.FromGin(c).Error("register failed", "err", err)
			fail(c, http.StatusInternalServerError, "Server error")
		}
		return
	}

	ok(c, http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"user":    user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Email and password required")
		return
	}

	allowed, err := h.LoginLimiter.Allow(c.Request.Context(), req.Email)
	if err != nil {
		// fail open: the limiter outage is logged, the login proceeds
		logger.FromGin(c).Warn("login limiter unavailable", "err", err)
	}
	if !allowed {
		fail(c, http.StatusTooManyRequests, "Too many attempts, try again later")
		return
	}

	token, user, err := h.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrValidation):
			fail(c, http.StatusBadRequest, "Email and password required")
		case errors.Is(err, users.ErrInvalidCredentials):
			fail(c, http.StatusUnauthorized, "Invalid credentials")
		default:
			logger.FromGin(c).Error("login failed", "err", err)
			fail(c, http.StatusInternalServerError, "Server error")
		}
		return
	}

	ok(c, http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// Me re-fetches the caller's account. The token may outlive the
// account; this is where that shows up as a 404.
func (h Handlers) Me(c *gin.Context) {
	uid, err := auth.UserID(c.Request.Context())
	if err != nil {
		fail(c, http.StatusUnauthorized, "No token provided")
		return
	}

	user, err := h.Users.GetByID(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		logger.FromGin(c).Error("me lookup failed", "err", err)
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	ok(c, http.StatusOK, gin.H{"user": user})
}

/* ===================== USER FORMS ===================== */

type formRequest struct {
	FullName    string  `json:"full_name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	DateOfBirth *string `json:"date_of_birth"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	ZipCode     string  `json:"zip_code"`

	HighSchool     string   `json:"high_school"`
	Degree         string   `json:"degree"`
	University     string   `json:"university"`
	GraduationYear *int     `json:"graduation_year"`
	CGPA           *float64 `json:"cgpa"`

	CurrentCompany  string   `json:"current_company"`
	Position        string   `json:"position"`
	ExperienceYears *int     `json:"experience_years"`
	Salary          *float64 `json:"salary"`
	Skills          []string `json:"skills"`
}

func (r formRequest) toForm() forms.Form {
	return forms.Form{
		FullName:        r.FullName,
		Email:           r.Email,
		Phone:           r.Phone,
		DateOfBirth:     r.DateOfBirth,
		Address:         r.Address,
		City:            r.City,
		State:           r.State,
		ZipCode:         r.ZipCode,
		HighSchool:      r.HighSchool,
		Degree:          r.Degree,
		University:      r.University,
		GraduationYear:  r.GraduationYear,
		CGPA:            r.CGPA,
		CurrentCompany:  r.CurrentCompany,
		Position:        r.Position,
		ExperienceYears: r.ExperienceYears,
		Salary:          r.Salary,
		Skills:          r.Skills,
	}
}

func (h Handlers) CreateForm(c *gin.Context) {
	uid, err := auth.UserID(c.Request.Context())
	if err != nil {
		fail(c, http.StatusUnauthorized, "No token provided")
		return
	}

	var req formRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Full name and email are required")
		return
	}

	id, err := h.Forms.Create(c.Request.Context(), uid, req.toForm())
	if err != nil {
		if errors.Is(err, forms.ErrValidation) {
			fail(c, http.StatusBadRequest, "Full name and email are required")
			return
		}
		logger.FromGin(c).Error("form create failed", "err", err)
		fail(c, http.StatusInternalServerError, "Failed to submit form")
		return
	}

	ok(c, http.StatusCreated, gin.H{
		"message": "Form submitted successfully",
		"formId":  id,
	})
}

func (h Handlers) MyForms(c *gin.Context) {
	uid, err := auth.UserID(c.Request.Context())
	if err != nil {
		fail(c, http.StatusUnauthorized, "No token provided")
		return
	}

	list, err := h.Forms.ListMine(c.Request.Context(), uid)
	if err != nil {
		logger.FromGin(c).Error("form list failed", "err", err)
		fail(c, http.StatusInternalServerError, "Failed to fetch forms")
		return
	}

	ok(c, http.StatusOK, gin.H{"forms": list})
}

func (h Handlers) GetMyForm(c *gin.Context) {
	uid, err := auth.UserID(c.Request.Context())
	if err != nil {
		fail(c, http.StatusUnauthorized, "No token provided")
		return
	}

	id, okID := formID(c)
	if !okID {
		return
	}

	f, err := h.Forms.GetMine(c.Request.Context(), id, uid)
	if err != nil {
		if errors.Is(err, forms.ErrNotFound) {
			fail(c, http.StatusNotFound, "Form not found")
			return
		}
		logger.FromGin(c).Error("form get failed", "err", err)
		fail(c, http.StatusInternalServerError, "Failed to fetch form")
		return
	}

	ok(c, http.StatusOK, gin.H{"form": f})
}

/* ===================== ADMIN FORMS ===================== */

func (h Handlers) AdminListForms(c *gin.Context) {
	list, err := h.Forms.AdminList(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("admin form list failed", "err", err)
		fail(c, http.StatusInternalServerError, "Failed to fetch forms")
		return
	}

	ok(c, http.StatusOK, gin.H{"forms": list})
}

func (h Handlers) AdminGetForm(c *gin.Context) {
	id, okID := formID(c)
	if !okID {
		return
	}

	f, err := h.Forms.AdminGet(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, forms.ErrNotFound) {
			fail(c, http.StatusNotFound, "Form not found")
			return
		}
		logger.FromGin(c).Error("admin form get failed", "err", err)
		fail(c, http.StatusInternalServerError, "Failed to fetch form")
		return
	}

	ok(c, http.StatusOK, gin.H{"form": f})
}

func (h Handlers) AdminUpdateForm(c *gin.Context) {
	actorID, _ := auth.UserID(c.Request.Context())

	id, okID := formID(c)
	if !okID {
		return
	}

	var req formRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid form payload")
		return
	}

	f := req.toForm()
	f.ID = id
	if err := h.Forms.AdminUpdate(c.Request.Context(), actorID, f); err != nil {
		if errors.Is(err, forms.ErrNotFound) {
			fail(c, http.StatusNotFound, "Form not found")
			return
		}
		logger.FromGin(c).Error("admin form update failed", "err", err)
		fail(c, http.StatusInternalServerError, "Failed to update form")
		return
	}

	ok(c, http.StatusOK, gin.H{"message": "Form updated successfully"})
}

func (h Handlers) AdminDeleteForm(c *gin.Context) {
	actorID, _ := auth.UserID(c.Request.Context())

	id, okID := formID(c)
	if !okID {
		return
	}

	if err := h.Forms.AdminDelete(c.Request.Context(), actorID, id); err != nil {
		if errors.Is(err, forms.ErrNotFound) {
			fail(c, http.StatusNotFound, "Form not found")
			return
		}
		logger.FromGin(c).Error("admin form delete failed", "err", err)
		fail(c, http.StatusInternalServerError, "Failed to delete form")
		return
	}

	ok(c, http.StatusOK, gin.H{"message": "Form deleted successfully"})
}

// formID parses the :id route param. A non-numeric id behaves like a
// missing form rather than a distinct error shape.
func formID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusNotFound, "Form not found")
		return 0, false
	}
	return id, true
}

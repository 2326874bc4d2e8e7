package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// naiveLayout is what the backend emits for datetimes stored without a zone
const naiveLayout = "2006-01-02T15:04:05.999999999"

// Timestamp accepts both RFC3339 and zone-less ISO datetimes
type Timestamp struct {
	time.Time
}

// UnmarshalJSON parses RFC3339 first, then the zone-less layout (read as UTC)
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}

	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		t.Time = parsed
		return nil
	}

	parsed, err := time.ParseInLocation(naiveLayout, raw, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", raw, err)
	}
	t.Time = parsed
	return nil
}

// MarshalJSON always writes RFC3339
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// Token is the payload returned by POST /auth/login
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Credentials is the JSON body of POST /auth/register
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is an account on the backend
type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	CreatedAt Timestamp `json:"created_at"`
}

// ErrorBody is the error envelope used by every backend endpoint
type ErrorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// Page is a paginated list response
type Page[T any] struct {
	Items   []T `json:"items"`
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Pages   int `json:"pages"`
}

// Student represents an enrolled student
type Student struct {
	ID        int       `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	BirthDate string    `json:"birth_date"` // YYYY-MM-DD
	CreatedAt Timestamp `json:"created_at"`
}

// StudentInput is the create body for a student
type StudentInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birth_date"`
}

// StudentUpdate is the update body for a student; nil fields are left unchanged
type StudentUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"`
}

// Teacher represents a teacher
type Teacher struct {
	ID             int       `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Specialization string    `json:"specialization"`
	CreatedAt      Timestamp `json:"created_at"`
}

// TeacherInput is the create body for a teacher
type TeacherInput struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Specialization string `json:"specialization"`
}

// TeacherUpdate is the update body for a teacher; nil fields are left unchanged
type TeacherUpdate struct {
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	Email          *string `json:"email,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Specialization *string `json:"specialization,omitempty"`
}

// Instrument represents an instrument owned by the school
type Instrument struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Brand     string    `json:"brand"`
	Condition string    `json:"condition"`
	CreatedAt Timestamp `json:"created_at"`
}

// InstrumentInput is the create body for an instrument
type InstrumentInput struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Brand     string `json:"brand"`
	Condition string `json:"condition"`
}

// InstrumentUpdate is the update body for an instrument; nil fields are left unchanged
type InstrumentUpdate struct {
	Name      *string `json:"name,omitempty"`
	Type      *string `json:"type,omitempty"`
	Brand     *string `json:"brand,omitempty"`
	Condition *string `json:"condition,omitempty"`
}

// ScheduleEntry is a single weekly lesson slot
type ScheduleEntry struct {
	ID          int       `json:"id"`
	StudentID   int       `json:"student_id"`
	TeacherID   int       `json:"teacher_id"`
	StudentName string    `json:"student_name,omitempty"`
	TeacherName string    `json:"teacher_name,omitempty"`
	DayOfWeek   string    `json:"day_of_week"`
	StartTime   string    `json:"start_time"` // HH:MM[:SS]
	EndTime     string    `json:"end_time"`
	Room        string    `json:"room"`
	CreatedAt   Timestamp `json:"created_at"`
}

// ScheduleInput is the create body for a schedule entry
type ScheduleInput struct {
	StudentID int    `json:"student_id"`
	TeacherID int    `json:"teacher_id"`
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Room      string `json:"room"`
}

// ScheduleUpdate is the update body for a schedule entry; nil fields are left unchanged
type ScheduleUpdate struct {
	StudentID *int    `json:"student_id,omitempty"`
	TeacherID *int    `json:"teacher_id,omitempty"`
	DayOfWeek *string `json:"day_of_week,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	Room      *string `json:"room,omitempty"`
}

// Ptr returns a pointer to v, for filling the optional fields of update bodies
func Ptr[T any](v T) *T {
	return &v
}

package models

import "time"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusLate    AttendanceStatus = "late"
	AttendanceStatusExcused AttendanceStatus = "excused"
)

// AttendanceStatuses lists every status in display order.
var AttendanceStatuses = []AttendanceStatus{
	AttendanceStatusPresent,
	AttendanceStatusAbsent,
	AttendanceStatusLate,
	AttendanceStatusExcused,
}

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate, AttendanceStatusExcused:
		return true
	default:
		return false
	}
}

// Attended reports whether the status counts towards the attendance rate.
func (s AttendanceStatus) Attended() bool {
	return s == AttendanceStatusPresent || s == AttendanceStatusLate
}

// SessionType distinguishes live classes from recordings.
type SessionType string

const (
	SessionTypeLive     SessionType = "live"
	SessionTypeRecorded SessionType = "recorded"
)

// Session is one scheduled class occurrence.
type Session struct {
	ID               int64       `db:"id" json:"id"`
	SubjectID        *int64      `db:"subject_id" json:"subject_id,omitempty"`
	TeacherProfileID *int64      `db:"teacher_profile_id" json:"teacher_profile_id,omitempty"`
	RoomID           *int64      `db:"room_id" json:"room_id,omitempty"`
	StartTime        time.Time   `db:"start_time" json:"start_time"`
	EndTime          time.Time   `db:"end_time" json:"end_time"`
	Type             SessionType `db:"type" json:"type"`
	Link             string      `db:"link" json:"link"`
}

// Attendance is unique per (session, student).
type Attendance struct {
	ID             int64            `db:"id" json:"id"`
	SessionID      *int64           `db:"session_id" json:"session_id,omitempty"`
	ChildProfileID *int64           `db:"child_profile_id" json:"child_profile_id,omitempty"`
	Status         AttendanceStatus `db:"status" json:"status"`
	Remarks        string           `db:"remarks" json:"remarks"`
}

// AttendanceRecord is an attendance row with its session, subject, teacher and student
// resolved. Relation columns are nil when the related row no longer exists.
type AttendanceRecord struct {
	Attendance
	SessionStart     *time.Time  `db:"session_start" json:"session_start,omitempty"`
	SessionType      *string     `db:"session_type" json:"session_type,omitempty"`
	SubjectID        *int64      `db:"subject_id" json:"subject_id,omitempty"`
	SubjectName      *string     `db:"subject_name" json:"subject_name,omitempty"`
	TeacherID        *int64      `db:"teacher_profile_id" json:"teacher_id,omitempty"`
	TeacherName      *string     `db:"teacher_name" json:"teacher_name,omitempty"`
	StudentFirstName *string     `db:"student_first_name" json:"-"`
	StudentLastName  *string     `db:"student_last_name" json:"-"`
	Enrollments      Enrollments `db:"-" json:"-"`
}

// StudentName returns the student's full name or "" when the student is missing.
func (r AttendanceRecord) StudentName() string {
	return joinName(r.StudentFirstName, r.StudentLastName)
}

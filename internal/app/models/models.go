package models

import "strings"

// RoleType defines staff roles
type RoleType string

const (
	RoleDirector RoleType = "DIRECTOR"
	RoleTeacher  RoleType = "TEACHER"
)

// Subject is one of the four humanities taught on the platform
type Subject string

const (
	SubjectGeografia  Subject = "Geografia"
	SubjectHistoria   Subject = "História"
	SubjectSociologia Subject = "Sociologia"
	SubjectFilosofia  Subject = "Filosofia"
)

// Bimester identifies the grading period
type Bimester string

const (
	Bimester1 Bimester = "1º Bimestre"
	Bimester2 Bimester = "2º Bimestre"
	Bimester3 Bimester = "3º Bimestre"
	Bimester4 Bimester = "4º Bimestre"
)

// Difficulty is the requested question level
type Difficulty string

const (
	DifficultyEnsinoMedio   Difficulty = "Ensino Médio"
	DifficultyPreVestibular Difficulty = "Pré-Vestibular"
	DifficultyNivelSuperior Difficulty = "Nível Superior"
)

// Subjects lists every valid subject value.
var Subjects = []Subject{SubjectGeografia, SubjectHistoria, SubjectSociologia, SubjectFilosofia}

// Bimesters lists every valid bimester value.
var Bimesters = []Bimester{Bimester1, Bimester2, Bimester3, Bimester4}

// User defines a staff account. The username is the primary key across both
// backends.
type User struct {
	Username string   `json:"username" example:"prof.ana"`
	Name     string   `json:"name" example:"Ana Souza"`
	Password string   `json:"password,omitempty"` // stored as-is or bcrypt-hashed depending on the configured hasher
	Role     RoleType `json:"role" example:"TEACHER"`
	Subject  *Subject `json:"subject,omitempty"` // optional subject lock for teachers
}

// TeacherConfig is the per-(subject,bimester) exam configuration. The pair
// (Subject, Bimester) is the natural key; writes replace any existing entry
// with the same key.
type TeacherConfig struct {
	Subject        Subject  `json:"subject" example:"Geografia"`
	Bimester       Bimester `json:"bimester" example:"1º Bimestre"`
	Topics         string   `json:"topics"` // free text, may be empty
	IsActive       bool     `json:"isActive"`
	LastModifiedBy string   `json:"lastModifiedBy,omitempty"`
}

// StudentResult is one completed exam attempt. Append-only: never mutated or
// deleted through normal flow. Violations is kept so a score zeroed by the
// anti-cheat rule stays distinguishable from a legitimately failed exam.
type StudentResult struct {
	ID           string   `json:"id"`
	StudentName  string   `json:"studentName" example:"João Pedro"`
	StudentClass string   `json:"studentClass" example:"3A"`
	Subject      Subject  `json:"subject"`
	Bimester     Bimester `json:"bimester"`
	Score        float64  `json:"score" example:"60"`
	Date         string   `json:"date" example:"2025-03-12T14:05:00Z"` // ISO-8601
	Violations   int      `json:"violations"`
}

// Question is a generated multiple-choice question. Ephemeral: it lives only
// for the exam session and is never persisted.
type Question struct {
	ID           int      `json:"id"`
	Text         string   `json:"text"`
	Options      []string `json:"options"` // exactly 5 alternatives
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation,omitempty"`
}

// OptionCount is the fixed number of alternatives per question.
const OptionCount = 5

// ExamConfig describes one exam sitting as requested by the setup screen.
type ExamConfig struct {
	StudentName  string     `json:"studentName"`
	StudentClass string     `json:"studentClass"` // turma, e.g. 3A
	Subject      Subject    `json:"subject"`
	Bimester     Bimester   `json:"bimester"`
	Difficulty   Difficulty `json:"difficulty"`
}

// GenerationParams describes one request to the question generator.
type GenerationParams struct {
	Subject    Subject
	Bimester   Bimester
	Difficulty Difficulty
	Topics     string
}

// ConfigKey builds the remote-store document key for a (subject, bimester)
// pair: "{subject}-{bimester}" with spaces replaced by underscores.
func ConfigKey(subject Subject, bimester Bimester) string {
	key := string(subject) + "-" + string(bimester)
	return strings.ReplaceAll(key, " ", "_")
}

// ValidSubject reports whether s is one of the four known subjects.
func ValidSubject(s Subject) bool {
	for _, v := range Subjects {
		if v == s {
			return true
		}
	}
	return false
}

// ValidBimester reports whether b is one of the four known bimesters.
func ValidBimester(b Bimester) bool {
	for _, v := range Bimesters {
		if v == b {
			return true
		}
	}
	return false
}

package dto

// LoginRequest is the staff login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"prof.ana"`
	Password string `json:"password" binding:"required"`
}

// CreateUserRequest is the new staff account payload (director only)
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=4"`
	Role     string `json:"role" binding:"required,oneof=DIRECTOR TEACHER"`
	Subject  string `json:"subject,omitempty" binding:"omitempty,subject"`
}

// UpdatePasswordRequest changes the caller's own password
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=4"`
}

// UpsertConfigRequest replaces the exam configuration for one
// (subject, bimester) pair
type UpsertConfigRequest struct {
	Subject  string `json:"subject" binding:"required,subject"`
	Bimester string `json:"bimester" binding:"required,bimester"`
	Topics   string `json:"topics"`
	IsActive bool   `json:"isActive"`
}

// StartExamRequest opens a new written exam sitting
type StartExamRequest struct {
	StudentName  string `json:"studentName" binding:"required"`
	StudentClass string `json:"studentClass" binding:"required"`
	Subject      string `json:"subject" binding:"required,subject"`
	Bimester     string `json:"bimester" binding:"required,bimester"`
	Difficulty   string `json:"difficulty" binding:"required,difficulty"`
}

// SubmitExamRequest carries the selected visual positions, keyed by
// question id; unanswered questions are simply absent
type SubmitExamRequest struct {
	Answers map[int]int `json:"answers"`
}

// ImportBackupRequest carries a full snapshot as text
type ImportBackupRequest struct {
	Snapshot string `json:"snapshot" binding:"required"`
}

package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/veritasedu/veritas/internal/app/models"
	"github.com/veritasedu/veritas/internal/app/repositories"
)

// stubStatus stands in for the arbiter when tagging snapshot provenance.
type stubStatus struct{ offline bool }

func (s stubStatus) IsOffline() bool { return s.offline }

func seedRepos(t *testing.T, repos *repositories.Repositories) {
	t.Helper()
	ctx := context.Background()

	if err := repos.UserRepository.EnsureDefaultDirector(ctx); err != nil {
		t.Fatalf("EnsureDefaultDirector() error = %v", err)
	}
	subject := models.SubjectHistoria
	if err := repos.UserRepository.CreateUser(ctx, models.User{
		Username: "prof.carlos",
		Name:     "Carlos Lima",
		Password: "senha",
		Role:     models.RoleTeacher,
		Subject:  &subject,
	}); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if err := repos.ConfigRepository.Upsert(ctx, models.TeacherConfig{
		Subject:  models.SubjectHistoria,
		Bimester: models.Bimester2,
		Topics:   "Era Vargas",
		IsActive: true,
	}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := repos.ResultRepository.Append(ctx, models.StudentResult{
		StudentName: "Maria",
		Subject:     models.SubjectHistoria,
		Bimester:    models.Bimester2,
		Score:       80,
	}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
}

func TestBackupRoundTrip(t *testing.T) {
	ctx := context.Background()

	source := newTestRepos(t)
	seedRepos(t, source)
	exporter := NewBackupService(source, stubStatus{offline: false})

	data, err := exporter.Export(ctx)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		t.Fatalf("exported snapshot is not valid JSON: %v", err)
	}
	if snapshot.Source != "remote" {
		t.Fatalf("snapshot source = %q, want %q", snapshot.Source, "remote")
	}
	if snapshot.Timestamp == "" {
		t.Fatal("snapshot missing timestamp")
	}
	if len(snapshot.Users) != 2 || len(snapshot.Configs) != 1 || len(snapshot.Results) != 1 {
		t.Fatalf("snapshot counts = %d/%d/%d", len(snapshot.Users), len(snapshot.Configs), len(snapshot.Results))
	}

	// Replay into an empty target.
	target := newTestRepos(t)
	importer := NewBackupService(target, stubStatus{offline: true})
	if ok := importer.Import(ctx, data); !ok {
		t.Fatal("Import() = false, want true")
	}

	users, _ := target.UserRepository.ListUsers(ctx)
	configs, _ := target.ConfigRepository.List(ctx)
	results, _ := target.ResultRepository.List(ctx)
	if len(users) != 2 || len(configs) != 1 || len(results) != 1 {
		t.Fatalf("imported counts = %d/%d/%d", len(users), len(configs), len(results))
	}

	// A restored user authenticates with the original credentials.
	user, err := target.UserRepository.Authenticate(ctx, "prof.carlos", "senha")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if user == nil {
		t.Fatal("imported user cannot authenticate")
	}
}

// Re-importing the same snapshot must not duplicate anything: duplicate
// usernames are skipped, configs are keyed upserts and results keep their ids.
func TestBackupImportIdempotent(t *testing.T) {
	ctx := context.Background()

	source := newTestRepos(t)
	seedRepos(t, source)
	data, err := NewBackupService(source, stubStatus{}).Export(ctx)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	target := newTestRepos(t)
	importer := NewBackupService(target, stubStatus{})
	for i := 0; i < 2; i++ {
		if ok := importer.Import(ctx, data); !ok {
			t.Fatalf("Import() pass %d = false", i)
		}
	}

	users, _ := target.UserRepository.ListUsers(ctx)
	configs, _ := target.ConfigRepository.List(ctx)
	results, _ := target.ResultRepository.List(ctx)
	if len(users) != 2 || len(configs) != 1 || len(results) != 1 {
		t.Fatalf("counts after double import = %d/%d/%d", len(users), len(configs), len(results))
	}
}

func TestBackupImportRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	target := newTestRepos(t)
	importer := NewBackupService(target, stubStatus{})

	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "isto não é um backup"},
		{name: "truncated", data: `{"users": [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ok := importer.Import(ctx, tt.data); ok {
				t.Fatal("Import() = true for invalid data")
			}
			users, _ := target.UserRepository.ListUsers(ctx)
			if len(users) != 0 {
				t.Fatalf("invalid import left %d users behind", len(users))
			}
		})
	}
}

func TestBackupExportSourceReflectsOfflineState(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)

	data, err := NewBackupService(repos, stubStatus{offline: true}).Export(ctx)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	var snapshot Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		t.Fatalf("invalid snapshot: %v", err)
	}
	if snapshot.Source != "local" {
		t.Fatalf("snapshot source = %q, want %q", snapshot.Source, "local")
	}
}

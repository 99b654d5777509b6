package models

import "testing"

func TestConfigKey(t *testing.T) {
	tests := []struct {
		subject  Subject
		bimester Bimester
		want     string
	}{
		{SubjectGeografia, Bimester1, "Geografia-1º_Bimestre"},
		{SubjectHistoria, Bimester4, "História-4º_Bimestre"},
	}

	for _, tt := range tests {
		if got := ConfigKey(tt.subject, tt.bimester); got != tt.want {
			t.Errorf("ConfigKey(%q, %q) = %q, want %q", tt.subject, tt.bimester, got, tt.want)
		}
	}
}

func TestEnumValidation(t *testing.T) {
	for _, s := range Subjects {
		if !ValidSubject(s) {
			t.Errorf("ValidSubject(%q) = false", s)
		}
	}
	if ValidSubject("Química") {
		t.Error(`ValidSubject("Química") = true`)
	}

	for _, b := range Bimesters {
		if !ValidBimester(b) {
			t.Errorf("ValidBimester(%q) = false", b)
		}
	}
	if ValidBimester("5º Bimestre") {
		t.Error(`ValidBimester("5º Bimestre") = true`)
	}
}

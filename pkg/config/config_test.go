package config

import (
	"strings"
	"testing"
)

func TestEnsureDSNUsesExplicitDSN(t *testing.T) {
	db := DBConfig{DSN: "postgres://app:secret@db:5432/leanchem"}
	if err := db.ensureDSN(); err != nil {
		t.Fatalf("ensureDSN: %v", err)
	}
	if db.DSN != "postgres://app:secret@db:5432/leanchem" {
		t.Fatalf("DSN changed: %s", db.DSN)
	}
}

func TestEnsureDSNBuildsFromLegacyVars(t *testing.T) {
	db := DBConfig{
		LegacyHost:     "localhost",
		LegacyPort:     5433,
		LegacyUser:     "leanchem",
		LegacyPassword: "p@ss word",
		LegacyName:     "leanchem",
		LegacySSLMode:  "require",
	}
	if err := db.ensureDSN(); err != nil {
		t.Fatalf("ensureDSN: %v", err)
	}
	if !strings.HasPrefix(db.DSN, "postgres://") {
		t.Fatalf("unexpected scheme: %s", db.DSN)
	}
	if !strings.Contains(db.DSN, "localhost:5433") {
		t.Fatalf("missing host: %s", db.DSN)
	}
	if !strings.Contains(db.DSN, "sslmode=require") {
		t.Fatalf("missing sslmode: %s", db.DSN)
	}
	if strings.Contains(db.DSN, "p@ss word") {
		t.Fatalf("password not escaped: %s", db.DSN)
	}
}

func TestEnsureDSNReportsMissingVars(t *testing.T) {
	db := DBConfig{LegacyHost: "localhost"}
	err := db.ensureDSN()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, env := range []string{EnvDBUser, EnvDBName} {
		if !strings.Contains(err.Error(), env) {
			t.Fatalf("error %q does not name %s", err, env)
		}
	}
}

func TestOriginsSplitsAndTrims(t *testing.T) {
	app := AppConfig{CORSOrigins: "https://app.leanchem.com, http://localhost:5173 ,"}
	got := app.Origins()
	want := []string{"https://app.leanchem.com", "http://localhost:5173"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

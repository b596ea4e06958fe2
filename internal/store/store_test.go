package store_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"plantdoc/internal/domain"
	"plantdoc/internal/store"
)

func TestCredential_SaveLoad_OK(t *testing.T) {
	home := t.TempDir()
	var creds domain.CredentialStore = store.NewFastCredentialFileStore(home)

	if err := creds.SaveToken("pass", "tok-123"); err != nil {
		t.Fatalf("save token: %v", err)
	}
	got, err := creds.LoadToken("pass")
	if err != nil {
		t.Fatalf("load token: %v", err)
	}
	if got != "tok-123" {
		t.Fatalf("token = %q, want tok-123", got)
	}

	fi, err := os.Stat(filepath.Join(home, "credentials.json.enc"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if fi.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v, want 0600", fi.Mode().Perm())
	}
}

func TestCredential_WrongPassphrase_Fails(t *testing.T) {
	creds := store.NewFastCredentialFileStore(t.TempDir())
	if err := creds.SaveToken("correct", "tok"); err != nil {
		t.Fatalf("save token: %v", err)
	}
	if _, err := creds.LoadToken("wrong"); !errors.Is(err, store.ErrWrongPassphrase) {
		t.Fatalf("err = %v, want ErrWrongPassphrase", err)
	}
}

func TestCredential_MissingAndDelete(t *testing.T) {
	creds := store.NewFastCredentialFileStore(t.TempDir())

	if _, err := creds.LoadToken("x"); !errors.Is(err, store.ErrNoCredentials) {
		t.Fatalf("err = %v, want ErrNoCredentials", err)
	}
	if ok, err := creds.HasToken(); err != nil || ok {
		t.Fatalf("HasToken = %v, %v; want false, nil", ok, err)
	}
	if err := creds.SaveToken("p", "t"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ok, _ := creds.HasToken(); !ok {
		t.Fatal("HasToken = false after save")
	}
	if err := creds.DeleteToken(); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := creds.DeleteToken(); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if ok, _ := creds.HasToken(); ok {
		t.Fatal("HasToken = true after delete")
	}
}

func TestCache_SaveLoad_RoundTrip(t *testing.T) {
	cs := store.NewCacheFileStore(t.TempDir())

	empty, err := cs.LoadEntries()
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no entries, got %d", len(empty))
	}

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	in := map[domain.CacheKey]domain.CacheEntry{
		domain.CacheKeyAllDiagnoses: {
			Records:   []domain.DiagnosisRecord{{ID: "d1", Disease: "Early Blight"}},
			FetchedAt: at,
		},
		domain.CacheKeyRecentDiagnoses: {Stale: true},
	}
	if err := cs.SaveEntries(in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := cs.LoadEntries()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	all := out[domain.CacheKeyAllDiagnoses]
	if len(all.Records) != 1 || all.Records[0].Disease != "Early Blight" || !all.FetchedAt.Equal(at) {
		t.Fatalf("unexpected all-diagnoses entry: %+v", all)
	}
	if !out[domain.CacheKeyRecentDiagnoses].Stale {
		t.Fatal("recent-diagnoses should be stale")
	}
}

func TestCache_SaveEntry_KeepsOtherKeys(t *testing.T) {
	home := t.TempDir()
	first := store.NewCacheFileStore(home)
	second := store.NewCacheFileStore(home)

	if err := first.SaveEntry(domain.CacheKeyAllDiagnoses, domain.CacheEntry{Stale: true}); err != nil {
		t.Fatalf("save all: %v", err)
	}
	recent := domain.CacheEntry{
		Records:   []domain.DiagnosisRecord{{ID: "r1"}},
		FetchedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := second.SaveEntry(domain.CacheKeyRecentDiagnoses, recent); err != nil {
		t.Fatalf("save recent: %v", err)
	}

	out, err := first.LoadEntries()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !out[domain.CacheKeyAllDiagnoses].Stale {
		t.Fatal("all-diagnoses entry written by the other store was lost")
	}
	if got := out[domain.CacheKeyRecentDiagnoses].Records; len(got) != 1 || got[0].ID != "r1" {
		t.Fatalf("unexpected recent-diagnoses records: %+v", got)
	}
}

func TestCache_CorruptFile(t *testing.T) {
	home := t.TempDir()
	if err := os.WriteFile(filepath.Join(home, "cache.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := store.NewCacheFileStore(home).LoadEntries(); err == nil {
		t.Fatal("expected decode error")
	}
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fenilsonani/cleanser/internal/cache"
	"github.com/fenilsonani/cleanser/internal/config"
	"github.com/fenilsonani/cleanser/internal/testutil"
)

func testScanConfig(root string) *config.ScanConfig {
	return &config.ScanConfig{
		Roots: []string{root},
		Speed: config.SpeedQuick,
	}
}

// With caching disabled a scan must leave nothing on disk.
func TestLoadOrScanWithoutPersistence(t *testing.T) {
	f := testutil.NewFixture(t)
	cacheDir := t.TempDir()
	scanCache := cache.New(cache.WithDir(cacheDir))

	result, err := loadOrScan(scanCache, config.GetDefault(), testScanConfig(f.RootDir), false, false)
	if err != nil {
		t.Fatal(err)
	}
	if result == nil {
		t.Fatal("no scan result")
	}

	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("cache written despite persistence being off: %v", entries)
	}
}

func TestLoadOrScanPersistsAndServesCache(t *testing.T) {
	f := testutil.NewFixture(t)
	cacheDir := t.TempDir()
	scanCache := cache.New(cache.WithDir(cacheDir))
	scanCfg := testScanConfig(f.RootDir)

	if _, err := loadOrScan(scanCache, config.GetDefault(), scanCfg, false, true); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(cacheDir, "last-scan.json")); err != nil {
		t.Fatalf("cache entry not written: %v", err)
	}

	if cached, ok := scanCache.Load(scanCfg); !ok || cached == nil {
		t.Error("persisted scan not loadable")
	}
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSpeed(t *testing.T) {
	for _, s := range []string{"quick", "normal", "thorough"} {
		speed, err := ParseSpeed(s)
		assert.NoError(t, err)
		assert.Equal(t, Speed(s), speed)
	}

	_, err := ParseSpeed("ludicrous")
	assert.Error(t, err)
}

func TestSpeedMaxDepth(t *testing.T) {
	assert.Equal(t, 3, SpeedQuick.MaxDepth())
	assert.Equal(t, 6, SpeedNormal.MaxDepth())
	assert.Equal(t, -1, SpeedThorough.MaxDepth())
}

func TestEffectiveMaxDepth(t *testing.T) {
	cfg := &ScanConfig{Speed: SpeedQuick}
	assert.Equal(t, 3, cfg.EffectiveMaxDepth())

	cfg.MaxDepth = 10
	assert.Equal(t, 10, cfg.EffectiveMaxDepth())

	cfg.MaxDepth = -1
	assert.Equal(t, -1, cfg.EffectiveMaxDepth())
}

func TestFingerprintIsStable(t *testing.T) {
	a := &ScanConfig{Roots: []string{"/home/u", "/tmp"}, Speed: SpeedNormal}
	b := &ScanConfig{Roots: []string{"/home/u", "/tmp"}, Speed: SpeedNormal}
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestFingerprintIgnoresRootOrder(t *testing.T) {
	a := &ScanConfig{Roots: []string{"/home/u", "/tmp"}, Speed: SpeedNormal}
	b := &ScanConfig{Roots: []string{"/tmp", "/home/u"}, Speed: SpeedNormal}
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestFingerprintChangesWithParameters(t *testing.T) {
	base := &ScanConfig{Roots: []string{"/home/u"}, Speed: SpeedNormal}

	variants := []*ScanConfig{
		{Roots: []string{"/home/other"}, Speed: SpeedNormal},
		{Roots: []string{"/home/u"}, Speed: SpeedThorough},
		{Roots: []string{"/home/u"}, Speed: SpeedNormal, MaxDepth: 2},
		{Roots: []string{"/home/u"}, Speed: SpeedNormal, MinLargeFileSize: 1},
		{Roots: []string{"/home/u"}, Speed: SpeedNormal, FindDuplicates: true},
		{Roots: []string{"/home/u"}, Speed: SpeedNormal, SkipSystem: true},
	}
	for i, v := range variants {
		assert.NotEqual(t, base.Fingerprint(), v.Fingerprint(), "variant %d", i)
	}
}

// Root boundaries must not blur: ["/a", "/b"] and ["/a/b"] are different
// scans.
func TestFingerprintSeparatesRoots(t *testing.T) {
	a := &ScanConfig{Roots: []string{"/a", "/b"}, Speed: SpeedNormal}
	b := &ScanConfig{Roots: []string{"/a/b"}, Speed: SpeedNormal}
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

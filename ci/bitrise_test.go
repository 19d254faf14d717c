package ci

import (
	"os"
	"testing"
)

func unsetBitrise(t *testing.T) {
	t.Helper()

	// t.Setenv restores the previous value once the test finishes
	t.Setenv(envBitrise, "")
	os.Unsetenv(envBitrise)
}

func TestGetSourceDir_OutsideBitrise(t *testing.T) {
	unsetBitrise(t)
	t.Setenv(envBitriseSourceDir, "/bitrise/src")

	if IsBitrise() {
		t.Fatal("Expected IsBitrise to be false")
	}

	if dir := GetSourceDir(); dir != "." {
		t.Errorf("Expected '.', got %s", dir)
	}

	if dir := GetDeployDir(); dir != "" {
		t.Errorf("Expected empty deploy dir, got %s", dir)
	}
}

func TestGetSourceDir_OnBitrise(t *testing.T) {
	t.Setenv(envBitrise, "true")
	t.Setenv(envBitriseSourceDir, "/bitrise/src")
	t.Setenv(envBitriseDeployDir, "/bitrise/deploy")

	if !IsBitrise() {
		t.Fatal("Expected IsBitrise to be true")
	}

	if dir := GetSourceDir(); dir != "/bitrise/src" {
		t.Errorf("Expected /bitrise/src, got %s", dir)
	}

	if dir := GetDeployDir(); dir != "/bitrise/deploy" {
		t.Errorf("Expected /bitrise/deploy, got %s", dir)
	}
}

func TestGetSourceDir_OnBitriseWithoutSourceDir(t *testing.T) {
	t.Setenv(envBitrise, "true")
	t.Setenv(envBitriseSourceDir, "")

	if dir := GetSourceDir(); dir != "." {
		t.Errorf("Expected '.', got %s", dir)
	}
}

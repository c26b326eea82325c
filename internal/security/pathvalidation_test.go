package security

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidatePathWithinDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	pathsDir := filepath.Join(tmpDir, "paths")
	outsideDir := filepath.Join(tmpDir, "outside")
	for _, dir := range []string{pathsDir, outsideDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}
	if err := os.WriteFile(filepath.Join(outsideDir, "track.csv"), []byte("0,0\n1,0\n"), 0644); err != nil {
		t.Fatalf("Failed to create outside file: %v", err)
	}
	link := filepath.Join(pathsDir, "linked")
	if err := os.Symlink(outsideDir, link); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	tests := []struct {
		name      string
		filePath  string
		safeDir   string
		wantError bool
	}{
		{"file in directory", filepath.Join(pathsDir, "loop.json"), pathsDir, false},
		{"not yet created nested file", filepath.Join(pathsDir, "new", "loop.yaml"), pathsDir, false},
		{"dot-dot escape", filepath.Join(pathsDir, "..", "outside", "track.csv"), pathsDir, true},
		{"relative escape", "../../../etc/passwd", pathsDir, true},
		{"absolute outside", "/etc/passwd", pathsDir, true},
		{"symlinked file", filepath.Join(link, "track.csv"), pathsDir, true},
		{"symlink itself", link, pathsDir, true},
		{"new file under symlink", filepath.Join(link, "new.csv"), pathsDir, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePathWithinDirectory(tt.filePath, tt.safeDir)
			if (err != nil) != tt.wantError {
				t.Fatalf("ValidatePathWithinDirectory() error = %v, wantError %v", err, tt.wantError)
			}
			if err != nil && !errors.Is(err, ErrPathOutsideAllowedDirs) {
				t.Errorf("error %v is not ErrPathOutsideAllowedDirs", err)
			}
		})
	}
}

func TestValidatePathWithinDirectory_MissingSafeDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent")
	if err := ValidatePathWithinDirectory(filepath.Join(missing, "a.json"), missing); err == nil {
		t.Error("expected an error for a missing safe directory")
	}
}

func TestValidatePathWithinAllowedDirs(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	tests := []struct {
		name        string
		filePath    string
		allowedDirs []string
		wantError   bool
	}{
		{"first dir", filepath.Join(dirA, "a.json"), []string{dirA, dirB}, false},
		{"second dir", filepath.Join(dirB, "b.json"), []string{dirA, dirB}, false},
		{"outside all", "/etc/passwd", []string{dirA, dirB}, true},
		{"none allowed", filepath.Join(dirA, "a.json"), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePathWithinAllowedDirs(tt.filePath, tt.allowedDirs)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidatePathWithinAllowedDirs() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	work := t.TempDir()

	if err := ValidateOutputPath(filepath.Join(os.TempDir(), "field.png"), nil); err != nil {
		t.Errorf("temp dir output rejected: %v", err)
	}
	if err := ValidateOutputPath(filepath.Join(work, "field.html"), []string{work}); err != nil {
		t.Errorf("allowed dir output rejected: %v", err)
	}
	if err := ValidateOutputPath("/etc/field.png", []string{work}); err == nil {
		t.Error("expected /etc output to be rejected")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "unknown"},
		{"loop-a_1.2", "loop-a_1.2"},
		{"Main Street / north", "Main_Street_north"},
		{"../../etc", "etc"},
		{"***", "unknown"},
		{"a__b", "a__b"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	if got := SanitizeFilename(string(long)); len(got) != 128 {
		t.Errorf("long name length = %d, want 128", len(got))
	}
}

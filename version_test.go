package maxscalestorageredis

import "testing"

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()

	if info.Version != Version {
		t.Errorf("expected version %s, got %s", Version, info.Version)
	}
	if info.GoVersion == "" {
		t.Error("GoVersion should not be empty")
	}
}

package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.3")
	if Version != "1.2.3" {
		t.Errorf("Version = %s, want 1.2.3", Version)
	}
	if rootCmd.Version != "1.2.3" {
		t.Errorf("rootCmd.Version = %s, want 1.2.3", rootCmd.Version)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"serve": false, "train": false}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestTrainRequiresCSV(t *testing.T) {
	rootCmd.SetArgs([]string{"train"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("train without --csv succeeded, want error")
	}
}

func TestTrainFromCSV(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "data.csv")
	content := "x,y\n1,3\n2,5\n3,7\n4,9\n5,11\n6,13\n7,15\n8,17\n9,19\n10,21\n"
	if err := os.WriteFile(csvPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rootCmd.SetArgs([]string{"train",
		"--csv", csvPath,
		"--lr", "0.1",
		"--epochs", "30",
		"--every", "10",
		"--no-early-stopping",
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("train run failed: %v", err)
	}
}

func TestTrainMissingFile(t *testing.T) {
	rootCmd.SetArgs([]string{"train", "--csv", "/nonexistent/data.csv"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("train with a missing CSV succeeded, want error")
	}
}

package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/worklog/internal/printer"
	"github.com/example/worklog/internal/record"
)

// runCmd runs the worklog command tree against args. The config file env var
// points at a path that does not exist, so defaults apply unless a test
// passes --config itself.
func runCmd(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("WORKLOG_CONFIG_FILE", filepath.Join(t.TempDir(), "no-config.yaml"))
	return Root().Run(context.Background(), append([]string{"worklog"}, args...))
}

// createOne creates a worklog via the new command and returns its id, read
// back from the record directory.
func createOne(t *testing.T, root, title string) string {
	t.Helper()
	if err := runCmd(t, "--root", root, "new", "--title", title); err != nil {
		t.Fatalf("new: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(root, record.DirName))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if id := record.IDFromName(e.Name()); id != "" {
			return id
		}
	}
	t.Fatal("no record created")
	return ""
}

func TestInitCreatesLayout(t *testing.T) {
	root := t.TempDir()
	if err := runCmd(t, "--root", root, "init"); err != nil {
		t.Fatalf("init: %v", err)
	}

	for _, name := range []string{record.DirName, "todo", "doing", "done", record.TagsDirName} {
		fi, err := os.Stat(filepath.Join(root, name))
		if err != nil || !fi.IsDir() {
			t.Errorf("missing layout directory %s/", name)
		}
	}
}

func TestNewCreatesOnTodo(t *testing.T) {
	root := t.TempDir()
	id := createOne(t, root, "Fix the build")

	link := filepath.Join(root, "todo", record.FileName(id))
	fi, err := os.Lstat(link)
	if err != nil {
		t.Fatalf("no todo pointer for %s: %v", id, err)
	}
	if fi.Mode()&os.ModeSymlink == 0 {
		t.Errorf("todo entry for %s is not a symlink", id)
	}
}

func TestNewRequiresTitle(t *testing.T) {
	root := t.TempDir()
	if err := runCmd(t, "--root", root, "new"); err == nil {
		t.Fatal("new without --title succeeded, want error")
	}
}

func TestMoveBetweenBoards(t *testing.T) {
	root := t.TempDir()
	id := createOne(t, root, "Cycle me")

	if err := runCmd(t, "--root", root, "move", "doing", id); err != nil {
		t.Fatalf("move: %v", err)
	}

	name := record.FileName(id)
	if _, err := os.Lstat(filepath.Join(root, "todo", name)); !os.IsNotExist(err) {
		t.Errorf("todo pointer still present after move")
	}
	fi, err := os.Lstat(filepath.Join(root, "doing", name))
	if err != nil {
		t.Fatalf("no doing pointer after move: %v", err)
	}
	if fi.Mode()&os.ModeSymlink == 0 {
		t.Errorf("doing entry is not a symlink")
	}
}

func TestMoveInvalidBoard(t *testing.T) {
	root := t.TempDir()
	id := createOne(t, root, "Going nowhere")

	err := runCmd(t, "--root", root, "move", "shipped", id)
	var reported *printer.Reported
	if !errors.As(err, &reported) {
		t.Fatalf("move to invalid board: error = %v, want printed report", err)
	}
}

func TestMoveUnknownWorklog(t *testing.T) {
	root := t.TempDir()
	if err := runCmd(t, "--root", root, "init"); err != nil {
		t.Fatal(err)
	}

	err := runCmd(t, "--root", root, "move", "doing", "0000-0000000000")
	var reported *printer.Reported
	if !errors.As(err, &reported) {
		t.Fatalf("move of unknown id: error = %v, want printed report", err)
	}
}

func TestOpenUnknownWorklog(t *testing.T) {
	root := t.TempDir()
	if err := runCmd(t, "--root", root, "init"); err != nil {
		t.Fatal(err)
	}

	err := runCmd(t, "--root", root, "open", "0000-0000000000")
	var reported *printer.Reported
	if !errors.As(err, &reported) {
		t.Fatalf("open of unknown id: error = %v, want printed report", err)
	}
}

func TestOpenLaunchesEditor(t *testing.T) {
	root := t.TempDir()
	id := createOne(t, root, "Edit me")

	t.Setenv("VISUAL", "true")
	if err := runCmd(t, "--root", root, "open", id); err != nil {
		t.Fatalf("open: %v", err)
	}
}

func TestListRunsOnEmptyStore(t *testing.T) {
	root := t.TempDir()
	if err := runCmd(t, "--root", root, "list"); err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := runCmd(t, "--root", root, "list", "todo"); err != nil {
		t.Fatalf("list todo: %v", err)
	}
}

func TestListInvalidBoard(t *testing.T) {
	root := t.TempDir()

	err := runCmd(t, "--root", root, "list", "backlog")
	var reported *printer.Reported
	if !errors.As(err, &reported) {
		t.Fatalf("list of invalid board: error = %v, want printed report", err)
	}
}

func TestDoctorPassesOnCleanStore(t *testing.T) {
	root := t.TempDir()
	if err := runCmd(t, "--root", root, "init"); err != nil {
		t.Fatal(err)
	}
	createOne(t, root, "Healthy")

	if err := runCmd(t, "--root", root, "doctor", "--quiet"); err != nil {
		t.Fatalf("doctor on clean store: %v", err)
	}
}

func TestDoctorFailsOnBrokenStore(t *testing.T) {
	root := t.TempDir()
	if err := runCmd(t, "--root", root, "init"); err != nil {
		t.Fatal(err)
	}
	id := createOne(t, root, "About to break")

	// A regular file squatting on a pointer name.
	squatter := filepath.Join(root, "doing", record.FileName(id))
	if err := os.WriteFile(squatter, []byte("squatter"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runCmd(t, "--root", root, "doctor", "--quiet"); err == nil {
		t.Fatal("doctor on broken store succeeded, want error")
	}
}

func TestConfigFileSetsRoot(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := "store:\n  root: " + root + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runCmd(t, "--config", cfgPath, "init"); err != nil {
		t.Fatalf("init with config: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, record.DirName)); err != nil {
		t.Errorf("layout not created under configured root: %v", err)
	}
}

func TestRootFlagOverridesConfig(t *testing.T) {
	configured := t.TempDir()
	flagged := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := "store:\n  root: " + configured + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runCmd(t, "--config", cfgPath, "--root", flagged, "init"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := os.Stat(filepath.Join(flagged, record.DirName)); err != nil {
		t.Errorf("layout not created under --root: %v", err)
	}
	if _, err := os.Stat(filepath.Join(configured, record.DirName)); !os.IsNotExist(err) {
		t.Errorf("layout created under config root despite --root override")
	}
}

func TestRootEnvVar(t *testing.T) {
	root := t.TempDir()
	t.Setenv("WORKLOG_ROOT", root)

	if err := runCmd(t, "init"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, record.DirName)); err != nil {
		t.Errorf("layout not created under WORKLOG_ROOT: %v", err)
	}
}

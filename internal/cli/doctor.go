package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/example/worklog/internal/board"
	"github.com/example/worklog/internal/printer"
	"github.com/example/worklog/internal/record"
)

// checkResult represents the outcome of a single store check.
type checkResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // only shown if Status != "✓"
}

// DoctorCmd returns the doctor command. Doctor only ever reads the store: it
// reports inconsistencies and says which command would fix each one, but it
// never repairs anything itself. It also deliberately bypasses the store
// layers, whose accessors create missing directories as a side effect.
func DoctorCmd() *cli.Command {
	return &cli.Command{
		Name:  "doctor",
		Usage: "Check store consistency (read-only)",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Exit code only",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, _, err := service(cmd)
			if err != nil {
				return err
			}
			root := svc.Root()

			results := []checkResult{
				checkLayout(root),
				checkPointers(root),
				checkMembership(root),
				checkUntracked(root),
				checkForeign(root),
			}

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !cmd.Bool("quiet") {
				printer.Println()
				printer.Printf("Store: %s\n\n", root)
				printer.Println("Check              Status")
				printer.Println("─────────────────────────")
				for _, r := range results {
					printer.Printf("%-18s %s\n", r.Name, r.Status)
				}
				printer.Println()

				hasDetails := false
				for _, r := range results {
					if r.Status != "✓" && r.Details != "" {
						if !hasDetails {
							printer.Println("Details:")
							hasDetails = true
						}
						printer.Printf("\n%s:\n%s\n", r.Name, r.Details)
					}
				}

				if hasErrors {
					printer.Warning("issues found; nothing was changed\n")
				} else {
					printer.Println("All checks passed.")
				}
			}

			if hasErrors {
				return fmt.Errorf("store check failed")
			}
			return nil
		},
	}
}

// checkLayout verifies the five layout directories exist.
func checkLayout(root string) checkResult {
	names := []string{record.DirName}
	for _, b := range board.All() {
		names = append(names, string(b))
	}
	names = append(names, record.TagsDirName)

	var missing []string
	for _, name := range names {
		fi, err := os.Stat(filepath.Join(root, name))
		if err != nil || !fi.IsDir() {
			missing = append(missing, name+"/")
		}
	}

	if len(missing) > 0 {
		return checkResult{
			Name:    "Layout",
			Status:  "✗",
			Details: "  Missing: " + strings.Join(missing, ", ") + "\n  Run: worklog init",
		}
	}
	return checkResult{Name: "Layout", Status: "✓"}
}

// checkPointers walks the board directories and verifies every record-shaped
// entry is a relative symlink into the record area with a live target.
func checkPointers(root string) checkResult {
	var bad []string
	for _, b := range board.All() {
		dir := filepath.Join(root, string(b))
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue // the layout check reports missing directories
		}
		for _, e := range entries {
			name := e.Name()
			if record.IDFromName(name) == "" {
				continue // the foreign-files check reports these
			}
			p := filepath.Join(dir, name)
			fi, err := os.Lstat(p)
			if err != nil {
				continue
			}
			if fi.Mode()&os.ModeSymlink == 0 {
				bad = append(bad, fmt.Sprintf("%s/%s is not a pointer", b, name))
				continue
			}
			target, err := os.Readlink(p)
			if err != nil {
				bad = append(bad, fmt.Sprintf("%s/%s: unreadable link", b, name))
				continue
			}
			want := filepath.Join("..", record.DirName, name)
			if target != want {
				bad = append(bad, fmt.Sprintf("%s/%s points at %s, want %s", b, name, target, want))
				continue
			}
			if fi, err := os.Stat(p); err != nil || !fi.Mode().IsRegular() {
				bad = append(bad, fmt.Sprintf("%s/%s: dangling, no record behind it", b, name))
			}
		}
	}

	if len(bad) > 0 {
		return checkResult{
			Name:    "Pointers",
			Status:  "✗",
			Details: "  " + strings.Join(bad, "\n  "),
		}
	}
	return checkResult{Name: "Pointers", Status: "✓"}
}

// checkMembership verifies no id sits on more than one board.
func checkMembership(root string) checkResult {
	seen := map[string][]string{}
	for _, b := range board.All() {
		entries, err := os.ReadDir(filepath.Join(root, string(b)))
		if err != nil {
			continue
		}
		for _, e := range entries {
			if id := record.IDFromName(e.Name()); id != "" {
				seen[id] = append(seen[id], string(b))
			}
		}
	}

	var dupes []string
	for id, boards := range seen {
		if len(boards) > 1 {
			dupes = append(dupes, fmt.Sprintf("%s on %s", id, strings.Join(boards, " and ")))
		}
	}
	sort.Strings(dupes)

	if len(dupes) > 0 {
		return checkResult{
			Name:    "Membership",
			Status:  "✗",
			Details: "  " + strings.Join(dupes, "\n  ") + "\n  Fix with: worklog move <board> <id>",
		}
	}
	return checkResult{Name: "Membership", Status: "✓"}
}

// checkUntracked lists records with no pointer on any board. The state is
// legal and recoverable (a crashed move leaves it behind), so it warns rather
// than fails.
func checkUntracked(root string) checkResult {
	entries, err := os.ReadDir(filepath.Join(root, record.DirName))
	if err != nil {
		return checkResult{Name: "Untracked", Status: "⚠", Details: "  Cannot read " + record.DirName + "/"}
	}

	onBoard := map[string]bool{}
	for _, b := range board.All() {
		es, err := os.ReadDir(filepath.Join(root, string(b)))
		if err != nil {
			continue
		}
		for _, e := range es {
			if id := record.IDFromName(e.Name()); id != "" {
				onBoard[id] = true
			}
		}
	}

	var untracked []string
	for _, e := range entries {
		id := record.IDFromName(e.Name())
		if id != "" && !onBoard[id] {
			untracked = append(untracked, id)
		}
	}
	sort.Strings(untracked)

	if len(untracked) > 0 {
		return checkResult{
			Name:    "Untracked",
			Status:  "⚠",
			Details: "  " + strings.Join(untracked, "\n  ") + "\n  Re-track with: worklog move todo <id>",
		}
	}
	return checkResult{Name: "Untracked", Status: "✓"}
}

// checkForeign lists entries in the record and board directories that the
// store would never produce. Listings skip them silently; they usually mean a
// crash left a temp file behind or something else was dropped into the tree.
func checkForeign(root string) checkResult {
	dirs := []string{record.DirName}
	for _, b := range board.All() {
		dirs = append(dirs, string(b))
	}

	var foreign []string
	for _, d := range dirs {
		entries, err := os.ReadDir(filepath.Join(root, d))
		if err != nil {
			continue
		}
		for _, e := range entries {
			if record.IDFromName(e.Name()) == "" {
				foreign = append(foreign, d+"/"+e.Name())
			}
		}
	}

	if len(foreign) > 0 {
		return checkResult{
			Name:    "Foreign files",
			Status:  "⚠",
			Details: "  " + strings.Join(foreign, "\n  "),
		}
	}
	return checkResult{Name: "Foreign files", Status: "✓"}
}

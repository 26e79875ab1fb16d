// Package cmd contains the CLI commands for the lmk application.
package cmd

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/eykd/linemark/internal/config"
	"github.com/eykd/linemark/internal/fs"
	"github.com/eykd/linemark/internal/lock"
	"github.com/eykd/linemark/internal/outline"
	"github.com/eykd/linemark/internal/slug"
	"github.com/eykd/linemark/internal/sqid"
)

// App carries the flag state shared by every command and wires the
// outline service lazily, after flags have been parsed.
type App struct {
	// Directory is the --directory flag: the outline directory to
	// operate on. Empty means resolve from the environment.
	Directory string
	// JSON is the persistent --json flag.
	JSON bool
}

// slugifier adapts the slug package to the service port.
type slugifier struct{}

func (slugifier) Slugify(title string) string { return slug.Slug(title) }

// ResolveDir determines the outline directory: the --directory flag,
// then LINEMARK_DIR (a .env file is honored), then the project found
// by walking up from the working directory, then the working
// directory itself.
func (a *App) ResolveDir() (string, error) {
	if a.Directory != "" {
		return a.Directory, nil
	}
	_ = godotenv.Load()
	if dir := os.Getenv("LINEMARK_DIR"); dir != "" {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	root, err := fs.FindProjectRoot(cwd)
	if err != nil {
		return cwd, nil
	}
	cfg, err := config.Load(root)
	if err != nil {
		return "", err
	}
	if cfg.Directory != "" {
		return filepath.Join(root, cfg.Directory), nil
	}
	return root, nil
}

// Config loads the project config for the resolved directory.
func (a *App) Config() (config.Config, error) {
	dir, err := a.ResolveDir()
	if err != nil {
		return config.Config{}, err
	}
	root, err := fs.FindProjectRoot(dir)
	if err != nil {
		return config.Config{}, nil
	}
	return config.Load(root)
}

// Service wires the outline service for the resolved directory.
func (a *App) Service() (*outline.Service, error) {
	dir, err := a.ResolveDir()
	if err != nil {
		return nil, err
	}
	files := &fs.Dir{Root: dir}
	locker := lock.NewFromPath(lockPath(dir))
	return outline.New(files, sqid.New(), slugifier{}, locker), nil
}

// lockPath places the advisory lock file in the project marker
// directory when one exists; otherwise it falls back to the system
// temp directory keyed by the outline directory, so the node files
// are never mixed with lock state.
func lockPath(dir string) string {
	if root, err := fs.FindProjectRoot(dir); err == nil {
		return filepath.Join(root, fs.MarkerDir, lock.DefaultName)
	}
	sum := sha256.Sum256([]byte(dir))
	return filepath.Join(os.TempDir(), fmt.Sprintf("lmk-%x.lock", sum[:8]))
}

// NewRootCmd builds the root command and the full command tree.
func NewRootCmd() *cobra.Command {
	app := &App{}

	root := &cobra.Command{
		Use:           "lmk",
		Short:         "Manage a hierarchical outline stored in plain Markdown filenames",
		Long:          "lmk manages a tree of outline nodes whose positions, ids, and document types\nare encoded entirely in the filenames of a flat directory of Markdown files.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVarP(&app.Directory, "directory", "C", "", "Outline directory (default: project root or current directory)")
	root.PersistentFlags().BoolVar(&app.JSON, "json", false, "Output results as JSON")

	root.AddCommand(NewInitCmd())
	root.AddCommand(NewAddCmd(app))
	root.AddCommand(NewListCmd(app))
	root.AddCommand(NewMoveCmd(app))
	root.AddCommand(NewRenameCmd(app))
	root.AddCommand(NewDeleteCmd(app))
	root.AddCommand(NewCompactCmd(app))
	root.AddCommand(NewDoctorCmd(app))
	root.AddCommand(NewCompileCmd(app))
	root.AddCommand(NewSearchCmd(app))
	root.AddCommand(NewTypesCmd(app))

	return root
}

// ExecuteContext runs the root command with the given context.
func ExecuteContext(ctx context.Context) error {
	configureColor()
	return NewRootCmd().ExecuteContext(ctx)
}

package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"mkvplan/internal/logging"
)

// runCommand executes an external command and returns its combined output.
type runCommand func(ctx context.Context, name string, args ...string) ([]byte, error)

// Runner invokes mkvmerge and mkvextract with compiled argument lists.
// mkvmerge arguments are passed through a JSON options file so long track
// names and attachment paths never hit platform argv limits; mkvextract is
// invoked directly.
type Runner struct {
	mkvmerge   string
	mkvextract string
	tempDir    string
	logger     *slog.Logger
	run        runCommand
}

// New constructs a runner for the given tool binaries. Empty paths fall
// back to the bare binary names resolved via PATH.
func New(mkvmerge, mkvextract string, logger *slog.Logger) *Runner {
	if strings.TrimSpace(mkvmerge) == "" {
		mkvmerge = "mkvmerge"
	}
	if strings.TrimSpace(mkvextract) == "" {
		mkvextract = "mkvextract"
	}
	return &Runner{
		mkvmerge:   mkvmerge,
		mkvextract: mkvextract,
		tempDir:    os.TempDir(),
		logger:     logging.NewComponentLogger(logger, "runner"),
		run:        defaultRunCommand,
	}
}

// WithCommandRunner injects a custom command runner for tests.
func (r *Runner) WithCommandRunner(run runCommand) *Runner {
	if run != nil {
		r.run = run
	}
	return r
}

// WithTempDir overrides where mkvmerge options files are written.
func (r *Runner) WithTempDir(dir string) *Runner {
	if strings.TrimSpace(dir) != "" {
		r.tempDir = dir
	}
	return r
}

// Mux writes the compiled arguments to an options file and invokes
// `mkvmerge @file`. The options file is removed when the invocation
// finishes, whatever the outcome.
func (r *Runner) Mux(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("mux: empty argument list")
	}

	optionsFile, err := r.writeOptionsFile(args)
	if err != nil {
		return err
	}
	defer os.Remove(optionsFile)

	r.logger.Debug("invoking mkvmerge",
		logging.String("options_file", optionsFile),
		logging.Int("args", len(args)),
	)
	if output, err := r.run(ctx, r.mkvmerge, "@"+optionsFile); err != nil {
		return toolError("mkvmerge", output, err)
	}
	return nil
}

// Extract invokes mkvextract directly with the compiled arguments.
func (r *Runner) Extract(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("extract: empty argument list")
	}

	r.logger.Debug("invoking mkvextract", logging.Int("args", len(args)))
	if output, err := r.run(ctx, r.mkvextract, args...); err != nil {
		return toolError("mkvextract", output, err)
	}
	return nil
}

func (r *Runner) writeOptionsFile(args []string) (string, error) {
	data, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("encode options file: %w", err)
	}
	path := filepath.Join(r.tempDir, "mkvplan-"+uuid.NewString()+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write options file: %w", err)
	}
	return path, nil
}

func toolError(tool string, output []byte, err error) error {
	detail := strings.TrimSpace(string(output))
	if detail != "" {
		return fmt.Errorf("%s failed: %w: %s", tool, err, detail)
	}
	return fmt.Errorf("%s failed: %w", tool, err)
}

func defaultRunCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

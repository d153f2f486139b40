package identify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"mkvplan/internal/logging"
)

// Track is one track descriptor as reported by `mkvmerge -J`, in reported
// order. ID is the physical track id mkvmerge addresses flags with.
type Track struct {
	ID       int    `json:"id"`
	Type     string `json:"type"`
	Language string `json:"language"`
	Codec    string `json:"codec,omitempty"`
}

// Result captures the container-level identify output the engine consumes.
type Result struct {
	FileName      string
	ContainerType string
	Recognized    bool
	Supported     bool
	Tracks        []Track
	Attachments   int
	Chapters      int
	GlobalTags    int
	TrackTags     int
}

// Provider supplies ordered track metadata for a source file. The track
// resolver depends on this interface, not on the mkvmerge subprocess.
type Provider interface {
	Tracks(ctx context.Context, source string) ([]Track, error)
}

// runCommand executes an external command and returns its stdout.
type runCommand func(ctx context.Context, name string, args ...string) ([]byte, error)

// Client shells out to mkvmerge for identify metadata.
type Client struct {
	binary string
	logger *slog.Logger
	run    runCommand
}

// NewClient constructs an identify client for the given mkvmerge binary.
func NewClient(binary string, logger *slog.Logger) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "mkvmerge"
	}
	return &Client{
		binary: binary,
		logger: logging.NewComponentLogger(logger, "identify"),
		run:    defaultRunCommand,
	}
}

// WithCommandRunner injects a custom command runner for tests.
func (c *Client) WithCommandRunner(run runCommand) *Client {
	if run != nil {
		c.run = run
	}
	return c
}

// mkvmergeIdentify mirrors the subset of `mkvmerge -J` output we consume.
type mkvmergeIdentify struct {
	FileName  string `json:"file_name"`
	Container struct {
		Type       string `json:"type"`
		Recognized bool   `json:"recognized"`
		Supported  bool   `json:"supported"`
	} `json:"container"`
	Tracks []struct {
		ID         int    `json:"id"`
		Type       string `json:"type"`
		Codec      string `json:"codec"`
		Properties struct {
			Language string `json:"language"`
			CodecID  string `json:"codec_id"`
		} `json:"properties"`
	} `json:"tracks"`
	Attachments []struct {
		ID int `json:"id"`
	} `json:"attachments"`
	Chapters []struct {
		NumEntries int `json:"num_entries"`
	} `json:"chapters"`
	GlobalTags []struct {
		NumEntries int `json:"num_entries"`
	} `json:"global_tags"`
	TrackTags []struct {
		TrackID int `json:"track_id"`
	} `json:"track_tags"`
}

// Inspect runs `mkvmerge -J` against path and decodes the JSON response.
func (c *Client) Inspect(ctx context.Context, path string) (Result, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("identify: empty path")
	}

	output, err := c.run(ctx, c.binary, "-J", path)
	if err != nil {
		return Result{}, fmt.Errorf("identify %s: %w", path, err)
	}

	var decoded mkvmergeIdentify
	if err := json.Unmarshal(output, &decoded); err != nil {
		return Result{}, fmt.Errorf("identify parse %s: %w", path, err)
	}

	result := Result{
		FileName:      decoded.FileName,
		ContainerType: decoded.Container.Type,
		Recognized:    decoded.Container.Recognized,
		Supported:     decoded.Container.Supported,
		Attachments:   len(decoded.Attachments),
		Chapters:      len(decoded.Chapters),
		GlobalTags:    len(decoded.GlobalTags),
		TrackTags:     len(decoded.TrackTags),
	}
	for _, trk := range decoded.Tracks {
		codec := trk.Codec
		if codec == "" {
			codec = trk.Properties.CodecID
		}
		result.Tracks = append(result.Tracks, Track{
			ID:       trk.ID,
			Type:     trk.Type,
			Language: trk.Properties.Language,
			Codec:    codec,
		})
	}

	c.logger.Debug("identified source",
		logging.String("path", path),
		logging.String("container", result.ContainerType),
		logging.Int("tracks", len(result.Tracks)),
	)
	return result, nil
}

// Tracks implements Provider.
func (c *Client) Tracks(ctx context.Context, source string) ([]Track, error) {
	result, err := c.Inspect(ctx, source)
	if err != nil {
		return nil, err
	}
	return result.Tracks, nil
}

func defaultRunCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return output, nil
}

// Package ng provides the public Go library API for ng, a rebuild and
// generation-management tool for NixOS, nix-darwin, and home-manager
// systems.
//
// # Basic Usage
//
//	client, err := ng.New(ng.Options{ConfigPath: "ng.toml"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = client.RebuildOS(ctx, ng.RebuildOptions{
//	    Installable: target.Flake(".", nil),
//	    Mode:        ng.Switch,
//	})
package ng

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ngcli/ng/internal/config"
	"github.com/ngcli/ng/internal/diagnostic"
	"github.com/ngcli/ng/internal/generations"
	"github.com/ngcli/ng/internal/nix"
	"github.com/ngcli/ng/internal/rebuildctx"
	"github.com/ngcli/ng/internal/style"
	"github.com/ngcli/ng/internal/target"
	"github.com/ngcli/ng/internal/workflow"
)

// ActivationMode re-exports rebuildctx's mode set for library callers that
// don't want to import the internal package directly.
type ActivationMode = rebuildctx.ActivationMode

const (
	Switch = rebuildctx.Switch
	Boot   = rebuildctx.Boot
	Test   = rebuildctx.TestMode
	Build  = rebuildctx.Build
)

// Options configures an ng Client.
type Options struct {
	// ConfigPath is the path to the optional ng.toml file. Default: "ng.toml".
	ConfigPath string

	// Out receives all rendered output (progress, diagnostics, diffs).
	// Defaults to os.Stdout.
	Out io.Writer

	// In is read for the ask-confirmation prompt. Defaults to os.Stdin.
	In io.Reader

	// Verbosity is forwarded to every nix invocation as repeated -v flags.
	Verbosity int
}

// RebuildOptions configures a single rebuild invocation.
type RebuildOptions struct {
	Installable target.Target
	Mode        ActivationMode

	Hostname         string
	Specialisation   string
	NoSpecialisation bool
	BypassRootCheck  bool

	AskConfirmation bool
	NoPreflight     bool
	MediumChecks    bool
	FullChecks      bool
	StrictLint      *bool
	StrictFormat    *bool
	DryRun          bool
	NoNom           bool
	OutLink         string
	CleanAfter      bool
	ExtraBuildArgs  []string
	Update          bool
	UpdateInput     string
}

// CleanOptions configures a generation-trimming invocation.
type CleanOptions struct {
	ProfileDir     string
	CurrentProfile string
	KeepCount      int
	KeepDays       int
	DryRun         bool
}

// CleanResult reports which generations a Clean call kept and removed.
type CleanResult struct {
	Kept    []generations.Info
	Removed []generations.Info
	Errors  []error
}

// Client is the main entry point for the ng library. It loads ng.toml
// once at construction and reuses the same nix.Interface and diagnostic
// Reporter across every call.
type Client struct {
	cfg      *config.NgConfig
	nixIface *nix.Interface
	reporter *diagnostic.Reporter
	profile  *style.Profile
	out      io.Writer
	in       io.Reader
	verbose  int
}

// New creates a new ng Client, loading configPath (or its default) and
// preparing the nix interface and output styling.
func New(opts Options) (*Client, error) {
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = "ng.toml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", configPath, err)
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	in := opts.In
	if in == nil {
		in = os.Stdin
	}

	slog.SetLogLoggerLevel(verbosityToLevel(opts.Verbosity))

	return &Client{
		cfg:      cfg,
		nixIface: nix.New(),
		reporter: diagnostic.NewReporter(out),
		profile:  style.NewProfile(out),
		out:      out,
		in:       in,
		verbose:  opts.Verbosity,
	}, nil
}

func (c *Client) newOperationContext(opts RebuildOptions) *rebuildctx.OperationContext {
	return &rebuildctx.OperationContext{
		CommonArgs: rebuildctx.CommonRebuildArgs{
			Installable:     opts.Installable,
			NoPreflight:     opts.NoPreflight,
			StrictLint:      opts.StrictLint,
			StrictFormat:    opts.StrictFormat,
			MediumChecks:    opts.MediumChecks,
			FullChecks:      opts.FullChecks,
			DryRun:          opts.DryRun,
			AskConfirmation: opts.AskConfirmation,
			NoNom:           opts.NoNom,
			OutLink:         opts.OutLink,
			CleanAfter:      opts.CleanAfter,
			ExtraBuildArgs:  opts.ExtraBuildArgs,
		},
		UpdateArgs: rebuildctx.UpdateArgs{
			Update:      opts.Update,
			UpdateInput: opts.UpdateInput,
		},
		VerboseCount: c.verbose,
		NixInterface: c.nixIface,
		Config:       c.cfg,
		Reporter:     c.reporter,
		Profile:      c.profile,
		Out:          c.out,
		In:           c.in,
	}
}

// RebuildOS runs the full rebuild workflow against a nixosConfigurations
// flake output.
func (c *Client) RebuildOS(ctx context.Context, opts RebuildOptions) error {
	op := c.newOperationContext(opts)
	args := workflow.OsArgs{
		Hostname:         opts.Hostname,
		BypassRootCheck:  opts.BypassRootCheck,
		Specialisation:   opts.Specialisation,
		NoSpecialisation: opts.NoSpecialisation,
	}
	e := &workflow.Engine{}
	return e.Rebuild(ctx, op, workflow.OsStrategy{}, args, opts.Mode)
}

// RebuildHome runs the full rebuild workflow against a homeConfigurations
// flake output.
func (c *Client) RebuildHome(ctx context.Context, opts RebuildOptions) error {
	op := c.newOperationContext(opts)
	args := workflow.HomeArgs{
		Specialisation:   opts.Specialisation,
		NoSpecialisation: opts.NoSpecialisation,
	}
	e := &workflow.Engine{}
	return e.Rebuild(ctx, op, workflow.HomeStrategy{}, args, opts.Mode)
}

// RebuildDarwin runs the full rebuild workflow against a
// darwinConfigurations flake output.
func (c *Client) RebuildDarwin(ctx context.Context, opts RebuildOptions) error {
	op := c.newOperationContext(opts)
	args := workflow.DarwinArgs{
		Hostname:         opts.Hostname,
		Specialisation:   opts.Specialisation,
		NoSpecialisation: opts.NoSpecialisation,
	}
	e := &workflow.Engine{}
	return e.Rebuild(ctx, op, workflow.DarwinStrategy{}, args, opts.Mode)
}

// ListGenerations lists the generations held in a profile directory.
func (c *Client) ListGenerations(profileDir, currentProfile string) ([]generations.Info, error) {
	return generations.List(profileDir, currentProfile)
}

// Clean trims generations down to opts' keep-count/keep-days window. When
// opts.DryRun is true, nothing is removed and CleanResult.Removed still
// reports what would have been.
func (c *Client) Clean(ctx context.Context, opts CleanOptions) (*CleanResult, error) {
	gens, err := generations.List(opts.ProfileDir, opts.CurrentProfile)
	if err != nil {
		return nil, fmt.Errorf("listing generations in %s: %w", opts.ProfileDir, err)
	}

	plan := generations.Plan(gens, opts.KeepCount, opts.KeepDays, timeNow())
	result := &CleanResult{Kept: plan.Keep, Removed: plan.Remove}
	if !opts.DryRun {
		result.Errors = generations.Apply(plan)
	}
	return result, nil
}

func timeNow() time.Time { return time.Now() }

// verbosityToLevel maps ng's repeatable -v count onto slog's level scale:
// 0 verbose flags logs Warn and above, one flag drops to Info, two or more
// reaches Debug.
func verbosityToLevel(v int) slog.Level {
	switch {
	case v >= 2:
		return slog.LevelDebug
	case v == 1:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

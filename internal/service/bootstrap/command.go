package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	homedir "github.com/mitchellh/go-homedir"

	"github.com/tlsetup/tlsetup/internal/archive"
	"github.com/tlsetup/tlsetup/internal/config"
	"github.com/tlsetup/tlsetup/internal/envscript"
	"github.com/tlsetup/tlsetup/internal/fetch"
	"github.com/tlsetup/tlsetup/internal/logger"
	"github.com/tlsetup/tlsetup/internal/profile"
	"github.com/tlsetup/tlsetup/internal/release"
	"github.com/tlsetup/tlsetup/internal/repository/steplog"
	"github.com/tlsetup/tlsetup/internal/service/common"
	"github.com/tlsetup/tlsetup/internal/service/updater"
	"github.com/tlsetup/tlsetup/internal/shellrc"
	"github.com/tlsetup/tlsetup/internal/texlive"
)

// Options are inputs accepted by the bootstrap entry point.
type Options struct {
	// ConfigPath points at the YAML configuration file. A missing file is
	// fine: built-in defaults make the tool runnable with no configuration.
	ConfigPath string
	// MirrorURL overrides the configured mirror when non-empty.
	MirrorURL string
	// Force discards the recorded step log and starts from scratch.
	Force bool
	// SkipSelfUpdate suppresses the one-shot run of the installed
	// updater script. Mostly useful in tests.
	SkipSelfUpdate bool
}

// Result summarizes a finished bootstrap for the caller.
type Result struct {
	// ReleaseYear is the 4-digit year derived from the installer directory.
	ReleaseYear string
	// TexDir is the versioned installation directory.
	TexDir string
	// BinDir is the platform binary directory inside TexDir.
	BinDir string
	// EnvScript is the generated environment script path.
	EnvScript string
	// Profile is the generated installer profile path.
	Profile string
	// StartupFile is the shell startup file carrying the managed block.
	StartupFile string
	// FollowUp is the single command the user runs to load the new
	// environment into an already open shell.
	FollowUp string
}

// step is one unit of bootstrap work. Persistent steps are recorded in the
// step log and skipped on resume; the rest are cheap and always re-run.
type step struct {
	name       string
	persistent bool
	run        func(ctx context.Context) error
	// restore rebuilds in-memory state when a persistent step is skipped.
	restore func(ctx context.Context) error
}

// runner carries the state threaded through the bootstrap steps.
type runner struct {
	cfg        *config.Config
	home       string
	actor      *common.Actor
	repo       steplog.Repository
	log        *steplog.Log
	markerPath string

	workDir     string
	archivePath string

	rel     release.Release
	binDir  string
	env     *envscript.Set
	envPath string
	rcPath  string

	skipSelfUpdate bool
}

// Run executes the bootstrap: download and unpack the installer, run it
// against a generated profile, publish the environment, and install the
// auxiliary updater. Completed expensive steps are recorded, so an
// interrupted run resumes instead of starting over.
func Run(ctx context.Context, opts *Options) (*Result, error) {
	ctx = logger.WithName(ctx, "bootstrap")

	r, err := newRunner(ctx, opts)
	if err != nil {
		return nil, err
	}

	defer r.releaseMarker(ctx)

	result, err := r.execute(ctx)
	if err != nil {
		logger.ErrorKV(ctx, "Bootstrap failed", "error", err)
		return nil, err
	}

	r.printSummary(result)

	return result, nil
}

// newRunner loads configuration, claims the marker file and prepares the
// working directory and step log.
func newRunner(ctx context.Context, opts *Options) (*runner, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.MirrorURL != "" {
		cfg.MirrorURL = opts.MirrorURL
	}

	if err = config.Validate(cfg); err != nil {
		return nil, err
	}

	home, err := homedir.Dir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	actor, err := common.DetectActor()
	if err != nil {
		return nil, err
	}

	if err = os.MkdirAll(cfg.InstallRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create installation root: %w", err)
	}

	markerPath := filepath.Join(cfg.InstallRoot, MarkerFilename)
	if IsBootstrapRunningNow(ctx, markerPath) {
		return nil, errBootstrapAlreadyRunning
	}

	marker := strconv.Itoa(os.Getpid()) + "\n"
	if err = os.WriteFile(markerPath, []byte(marker), 0o644); err != nil {
		return nil, fmt.Errorf("create bootstrap marker: %w", err)
	}

	repo := steplog.NewFileRepository(cfg.StepLog)

	if opts.Force {
		if err = repo.Clear(ctx); err != nil {
			return nil, err
		}
	}

	log, err := repo.Load(ctx)
	if errors.Is(err, steplog.ErrNotFound) {
		log = &steplog.Log{}
	} else if err != nil {
		return nil, err
	}

	workDir := filepath.Join(cfg.InstallRoot, workDirName)
	if err = os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create working directory: %w", err)
	}

	return &runner{
		cfg:            cfg,
		home:           home,
		actor:          actor,
		repo:           repo,
		log:            log,
		markerPath:     markerPath,
		workDir:        workDir,
		archivePath:    filepath.Join(workDir, ArchiveName),
		skipSelfUpdate: opts.SkipSelfUpdate,
	}, nil
}

// execute walks the ordered steps, skipping persistent steps already in the
// log and recording each one as it completes.
func (r *runner) execute(ctx context.Context) (*Result, error) {
	steps := []step{
		{name: StepFetchArchive, persistent: true, run: r.fetchArchive},
		{name: StepExtractArchive, persistent: true, run: r.extractArchive},
		{name: StepDeriveRelease, persistent: true, run: r.deriveRelease, restore: r.restoreRelease},
		{name: StepWriteProfile, persistent: true, run: r.writeProfile},
		{name: StepRunInstaller, persistent: true, run: r.runInstaller},
		{name: StepLocateBin, run: r.locateBin},
		{name: StepWriteEnvScript, run: r.writeEnvScript},
		{name: StepApplyEnv, run: r.applyEnv},
		{name: StepMergeShellRC, run: r.mergeShellRC},
		{name: StepInstallUpdater, persistent: true, run: r.installUpdater},
		{name: StepCleanup, persistent: true, run: r.cleanup},
	}

	for _, s := range steps {
		if s.persistent && r.log.Completed(s.name) {
			logger.InfoKV(ctx, "Skipping completed step", "step", s.name)

			if s.restore != nil {
				if err := s.restore(ctx); err != nil {
					return nil, fmt.Errorf("step %s: %w", s.name, err)
				}
			}

			continue
		}

		logger.InfoKV(ctx, "Running step", "step", s.name)

		if err := s.run(ctx); err != nil {
			return nil, fmt.Errorf("step %s: %w", s.name, err)
		}

		if !s.persistent {
			continue
		}

		r.log.MarkCompleted(s.name, r.actor.Hostname, r.actor.Username)

		if err := r.repo.Save(ctx, r.log); err != nil {
			return nil, err
		}
	}

	return &Result{
		ReleaseYear: r.rel.Year,
		TexDir:      r.texDir(),
		BinDir:      r.binDir,
		EnvScript:   r.envPath,
		Profile:     r.profilePath(),
		StartupFile: r.rcPath,
		FollowUp:    fmt.Sprintf("source %s", r.rcPath),
	}, nil
}

// fetchArchive downloads the installer archive from the mirror.
func (r *runner) fetchArchive(ctx context.Context) error {
	archiveURL, err := joinURL(r.cfg.MirrorURL, ArchiveName)
	if err != nil {
		return err
	}

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	logger.InfoKV(ctx, "Downloading installer archive", "url", archiveURL)

	return fetch.Download(ctx, archiveURL, r.archivePath)
}

// extractArchive unpacks the downloaded archive into the working directory.
func (r *runner) extractArchive(ctx context.Context) error {
	logger.InfoKV(ctx, "Extracting installer archive", "path", r.archivePath)

	return archive.Extract(r.archivePath, r.workDir)
}

// deriveRelease locates the unpacked installer directory and records the
// release year in the step log so a resumed run can rebuild paths.
func (r *runner) deriveRelease(ctx context.Context) error {
	rel, err := release.Find(r.workDir)
	if err != nil {
		return err
	}

	r.rel = rel
	r.log.Release = rel.Year
	r.log.InstallerDir = filepath.Base(rel.Dir)

	logger.InfoKV(ctx, "Derived release", "year", rel.Year, "dir", rel.Dir)

	return nil
}

// restoreRelease rebuilds release state from the step log when the
// derive step was completed by an earlier run.
func (r *runner) restoreRelease(_ context.Context) error {
	rel, err := release.Parse(r.log.InstallerDir)
	if err != nil {
		return err
	}

	rel.Dir = filepath.Join(r.workDir, r.log.InstallerDir)
	r.rel = rel

	return nil
}

// writeProfile renders the installer profile into the working directory.
func (r *runner) writeProfile(ctx context.Context) error {
	p := profile.New(r.cfg.Scheme, r.rel.Year, r.cfg.InstallRoot, r.home)

	path := r.profilePath()
	if err := p.Write(path); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Wrote installer profile", "path", path)

	return nil
}

// runInstaller invokes the unpacked install-tl against the profile.
// This is the long step: it downloads the whole distribution.
func (r *runner) runInstaller(ctx context.Context) error {
	profilePath, err := filepath.Abs(r.profilePath())
	if err != nil {
		return fmt.Errorf("resolve profile path: %w", err)
	}

	return texlive.Install(ctx, r.rel.Dir, profilePath)
}

// locateBin finds the platform binary directory and prepares the
// environment variable set every later step publishes.
func (r *runner) locateBin(ctx context.Context) error {
	binDir, err := texlive.LocateBinDir(r.texDir())
	if err != nil {
		return err
	}

	r.binDir = binDir
	r.env = envscript.New(r.rel.Year, r.texDir(), binDir, r.cfg.InstallRoot, r.home)

	logger.InfoKV(ctx, "Located binary directory", "path", binDir)

	return nil
}

// writeEnvScript saves the sourceable environment script next to the
// installation.
func (r *runner) writeEnvScript(ctx context.Context) error {
	r.envPath = filepath.Join(r.texDir(), envscript.Filename)

	if err := r.env.Write(r.envPath); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Wrote environment script", "path", r.envPath)

	return nil
}

// applyEnv loads the environment into the current process so the updater
// run later in this process sees the new installation.
func (r *runner) applyEnv(_ context.Context) error {
	return r.env.Apply()
}

// mergeShellRC installs or refreshes the managed block in the shell
// startup file. Re-running never duplicates the block.
func (r *runner) mergeShellRC(ctx context.Context) error {
	shell := r.cfg.Shell
	if shell == "" {
		shell = shellrc.DetectShell()
	}

	r.rcPath = shellrc.StartupFile(shell, r.home)

	if err := shellrc.UpdateFile(r.rcPath, r.env.Render()); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Updated shell startup file", "path", r.rcPath, "shell", shell)

	return nil
}

// installUpdater installs the auxiliary tlmgr updater script into the
// personal bin directory.
func (r *runner) installUpdater(ctx context.Context) error {
	return updater.Run(ctx, &updater.Options{
		MirrorURL:      r.cfg.MirrorURL,
		BinDir:         r.cfg.BinDir,
		SkipSelfUpdate: r.skipSelfUpdate,
	})
}

// cleanup removes the downloaded archive and the unpacked installer
// directory. The profile stays behind as a record of what was installed.
func (r *runner) cleanup(ctx context.Context) error {
	if err := os.Remove(r.archivePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove archive: %w", err)
	}

	if err := os.RemoveAll(r.rel.Dir); err != nil {
		return fmt.Errorf("remove installer directory: %w", err)
	}

	logger.Info(ctx, "Removed bootstrap artifacts")

	return nil
}

// releaseMarker removes the marker claimed in newRunner.
func (r *runner) releaseMarker(ctx context.Context) {
	if err := os.Remove(r.markerPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.ErrorKV(ctx, "Unable to remove bootstrap marker", "error", err)
	}
}

// texDir is the versioned installation directory, e.g. <root>/2023.
func (r *runner) texDir() string {
	return filepath.Join(r.cfg.InstallRoot, r.rel.Year)
}

// profilePath is where the generated installer profile lives.
func (r *runner) profilePath() string {
	return filepath.Join(r.workDir, profile.Filename)
}

// printSummary writes the human-facing outcome to stdout.
func (r *runner) printSummary(result *Result) {
	heading := color.New(color.FgGreen, color.Bold)
	followUp := color.New(color.FgCyan)

	heading.Printf("TeX Live %s is installed in %s\n", result.ReleaseYear, result.TexDir)
	fmt.Printf("  binaries:       %s\n", result.BinDir)
	fmt.Printf("  env script:     %s\n", result.EnvScript)
	fmt.Printf("  startup file:   %s\n", result.StartupFile)
	followUp.Printf("Run '%s' to pick up the new environment in this shell.\n", result.FollowUp)
}

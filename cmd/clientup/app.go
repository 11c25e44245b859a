package main

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/clientup/internal/archive"
	"github.com/smykla-skalski/clientup/internal/config"
	"github.com/smykla-skalski/clientup/internal/download"
	"github.com/smykla-skalski/clientup/internal/exec"
	ghclient "github.com/smykla-skalski/clientup/internal/github"
	"github.com/smykla-skalski/clientup/internal/installer"
	"github.com/smykla-skalski/clientup/internal/platform"
	"github.com/smykla-skalski/clientup/internal/release"
	"github.com/smykla-skalski/clientup/internal/strategy"
	"github.com/smykla-skalski/clientup/pkg/logger"
)

// app holds what every command builds from the configuration.
type app struct {
	cfg    *config.Config
	log    logger.Logger
	kind   platform.Kind
	runner exec.CommandRunner
	http   *http.Client
}

func newApp(cfg *config.Config, log logger.Logger) *app {
	return &app{
		cfg:    cfg,
		log:    log,
		kind:   platform.Detect(platformFlag),
		runner: exec.NewCommandRunner(cfg.Timeouts.Command.Std()),
		http:   &http.Client{Timeout: cfg.Timeouts.HTTP.Std()},
	}
}

// newInstaller wires the installer for the detected platform.
func (a *app) newInstaller(sink installer.Sink) (*installer.Installer, error) {
	profile := platform.NewProfile(a.kind, a.cfg.Paths.DataDir, a.cfg.Client.Name)

	var strat strategy.Strategy

	if a.kind.Supported() {
		var err error

		strat, err = strategy.ForProfile(profile, a.strategyDeps())
		if err != nil {
			return nil, err
		}
	}

	return installer.New(installer.Options{
		Kind:       a.kind,
		DataDir:    a.cfg.Paths.DataDir,
		ClientName: a.cfg.Client.Name,
		Runner:     a.runner,
		Strategy:   strat,
		Sink:       sink,
		Logger:     a.log,
		Timeout:    a.cfg.Timeouts.Install.Std(),
	})
}

func (a *app) strategyDeps() strategy.Deps {
	deps := strategy.Deps{
		PackageManager: strategy.PackageManagerOptions{
			Runner:            a.runner,
			Manager:           a.cfg.Linux.PackageManager,
			Package:           a.cfg.Client.Package,
			DependencyInstall: a.cfg.Linux.DependencyInstall,
		},
		Logger: a.log,
	}

	if a.kind.UsesArchive() {
		deps.Pipeline = &lazyPipeline{app: a}
	}

	return deps
}

// lazyPipeline defers building the release source, and with it any GitHub
// token lookup, until an archive install actually runs.
type lazyPipeline struct {
	app *app
}

func (l *lazyPipeline) Run(ctx context.Context, kind platform.Kind, status download.StatusFunc) error {
	pipeline, err := l.app.newPipeline()
	if err != nil {
		return err
	}

	return pipeline.Run(ctx, kind, status)
}

func (a *app) newPipeline() (*download.Pipeline, error) {
	source, err := a.newSource()
	if err != nil {
		return nil, err
	}

	return download.NewPipeline(
		release.NewResolver(source),
		download.NewDownloader(a.http, a.cfg.Release.UserAgent),
		archive.NewExtractor(),
		a.cfg.Paths.DataDir,
		a.log,
	), nil
}

// newSource picks the GitHub releases API when a repository is configured,
// the plain manifest URL otherwise.
//
//nolint:ireturn // either source satisfies release.Source
func (a *app) newSource() (release.Source, error) {
	rel := a.cfg.Release

	if !rel.UsesGitHub() {
		return release.NewManifestSource(a.http, rel.ManifestURL, rel.UserAgent), nil
	}

	opts := []ghclient.Option{ghclient.WithUserAgent(rel.UserAgent)}

	if token := ghclient.TokenFromEnv(a.runner, exec.NewToolChecker()); token != "" {
		opts = append(opts, ghclient.WithToken(token))
	}

	if rel.APIURL != "" {
		opts = append(opts, ghclient.WithBaseURL(rel.APIURL))
	}

	client, err := ghclient.NewClient(a.http, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create GitHub client")
	}

	return release.NewGitHubSource(client, rel.Repository, rel.Version)
}

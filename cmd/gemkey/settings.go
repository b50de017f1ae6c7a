package main

import (
	"fmt"
	"os"
	"time"

	"google.golang.org/api/option"

	"github.com/tsukumogami/gemkey/internal/buildinfo"
	"github.com/tsukumogami/gemkey/internal/config"
	"github.com/tsukumogami/gemkey/internal/gemini"
	"github.com/tsukumogami/gemkey/internal/httputil"
	"github.com/tsukumogami/gemkey/internal/i18n"
	"github.com/tsukumogami/gemkey/internal/log"
	"github.com/tsukumogami/gemkey/internal/pipeline"
	"github.com/tsukumogami/gemkey/internal/userconfig"
	"github.com/tsukumogami/gemkey/internal/validator"
)

// settings are the effective runtime options after applying flags,
// environment, config.toml and defaults, in that order.
type settings struct {
	Lang     string
	Backend  string
	Model    string
	Endpoint string
	Timeout  time.Duration
}

// loadSettings reads config.toml and resolves settings. A broken config
// file is reported and ignored.
func loadSettings() settings {
	cfg, err := userconfig.Load()
	if err != nil {
		log.Default().Warn("ignoring unreadable config file", "error", err)
		cfg = userconfig.DefaultConfig()
	}
	return resolveSettings(cfg)
}

func resolveSettings(cfg *userconfig.Config) settings {
	s := settings{
		Lang:    i18n.DefaultLang,
		Backend: userconfig.BackendREST,
		Model:   gemini.DefaultModel,
		Timeout: config.DefaultProbeTimeout,
	}

	for _, candidate := range []string{langFlag, config.GetLang(), cfg.Lang} {
		if candidate == "" {
			continue
		}
		lang, err := userconfig.NormalizeLang(candidate)
		if err != nil {
			log.Default().Warn("unsupported language, using English", "lang", candidate)
			break
		}
		s.Lang = lang
		break
	}

	switch {
	case backendFlag != "":
		s.Backend = backendFlag
	case cfg.Backend != "":
		s.Backend = cfg.Backend
	}

	if cfg.Model != "" {
		s.Model = cfg.Model
	}

	switch {
	case timeoutFlag > 0:
		s.Timeout = config.ClampProbeTimeout(timeoutFlag)
	case os.Getenv(config.EnvProbeTimeout) != "":
		s.Timeout = config.GetProbeTimeout()
	default:
		if d, ok := cfg.Timeout(); ok {
			s.Timeout = d
		}
	}

	s.Endpoint = config.GetEndpoint()
	if s.Endpoint == "" {
		s.Endpoint = gemini.EndpointFor(s.Model)
	}
	return s
}

// currentBackend returns the backend for error hints without failing.
func currentBackend() string {
	if backendFlag != "" {
		return backendFlag
	}
	if cfg, err := userconfig.Load(); err == nil {
		return cfg.Backend
	}
	return userconfig.BackendREST
}

// newProber builds the transport selected by s.Backend.
func newProber(s settings) (gemini.Prober, error) {
	switch s.Backend {
	case userconfig.BackendREST:
		client := httputil.NewProbeClient(httputil.ClientOptions{UserAgent: buildinfo.UserAgent()})
		return gemini.NewRESTProber(s.Endpoint, client), nil
	case userconfig.BackendSDK:
		return gemini.NewSDKProber(s.Model, option.WithUserAgent(buildinfo.UserAgent())), nil
	default:
		return nil, fmt.Errorf("unknown backend %q: must be %q or %q", s.Backend, userconfig.BackendREST, userconfig.BackendSDK)
	}
}

// newCoordinator wires a validator for s into a coordinator.
func newCoordinator(s settings, loc *i18n.Localizer, opts ...validator.CoordinatorOption) (*validator.Coordinator, error) {
	prober, err := newProber(s)
	if err != nil {
		return nil, err
	}
	v := validator.New(prober,
		validator.WithTimeout(s.Timeout),
		validator.WithLocalizer(loc),
		validator.WithLogger(log.Default().With("backend", s.Backend)),
	)
	return validator.NewCoordinator(v, opts...), nil
}

// newOrchestrator wires the full generation pipeline for s.
func newOrchestrator(s settings, loc *i18n.Localizer, onStage pipeline.StageFunc, opts ...validator.CoordinatorOption) (*pipeline.Orchestrator, error) {
	coord, err := newCoordinator(s, loc, opts...)
	if err != nil {
		return nil, err
	}
	return pipeline.New(coord,
		pipeline.WithLocalizer(loc),
		pipeline.WithStageFunc(onStage),
	), nil
}

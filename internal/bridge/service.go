// Package bridge wires config, locales, the item engine, the interaction
// registry and suggestions into one reloadable service.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/bridgectl/internal/config"
	"github.com/danmuck/bridgectl/internal/interaction"
	"github.com/danmuck/bridgectl/internal/item"
	"github.com/danmuck/bridgectl/internal/observability"
	"github.com/danmuck/bridgectl/internal/protocol/tag"
	"github.com/danmuck/bridgectl/internal/suggestions"
	"github.com/danmuck/bridgectl/internal/text"
)

var (
	ErrReloadInProgress = errors.New("bridge: reload already in progress")
	ErrUnknownAction    = errors.New("bridge: unknown action")
	ErrNilLoader        = errors.New("bridge: config loader is nil")
)

const (
	// TargetSuggestions reloads only suggestions.yml.
	TargetSuggestions = "suggestions"
	TargetAll         = "all"

	statusLogInterval = time.Minute
)

const (
	keyReloadConsole     = "bridge.commands.reload.console"
	keyReloadSuccess     = "bridge.commands.reload.success"
	keyReloadFailed      = "bridge.commands.reload.failed"
	keyReloadSuggestions = "bridge.commands.reload.suggestions"
	keyReloadBusy        = "bridge.commands.reload.already_reloading"
)

// ConfigLoader produces the config a full reload applies.
type ConfigLoader func() (config.Config, error)

// FileLoader loads path on every call.
func FileLoader(path string) ConfigLoader {
	return func() (config.Config, error) {
		return config.Load(path)
	}
}

// BlockTable is a static Java to Bedrock block state mapping.
type BlockTable map[int32]uint32

func (t BlockTable) BedrockBlockID(javaID int32) (uint32, bool) {
	id, ok := t[javaID]
	return id, ok
}

// state is everything a full reload replaces. It is never mutated after
// publication.
type state struct {
	cfg         config.Config
	locales     *text.Locales
	registry    *interaction.Registry
	mappings    BlockTable
	suggestions *suggestions.Store
	generation  uint64
	loadedAt    time.Time
}

// Service is safe for concurrent use. Readers always see one complete
// state; a full reload builds the next state before swapping it in.
type Service struct {
	loader    ConfigLoader
	engine    *item.Engine
	state     atomic.Pointer[state]
	reloading atomic.Bool
	capture   atomic.Pointer[Capture]
	started   time.Time

	adminClientCount atomic.Int64
}

// ReloadResult carries the localized lines shown to the requester.
type ReloadResult struct {
	Target      string   `json:"target"`
	Messages    []string `json:"messages"`
	Suggestions int      `json:"suggestions"`
	Generation  uint64   `json:"generation"`
}

// Status is a point-in-time view for the admin endpoint.
type Status struct {
	Generation    uint64    `json:"generation"`
	Reloading     bool      `json:"reloading"`
	DefaultLocale string    `json:"default_locale"`
	Locales       []string  `json:"locales"`
	Translators   int       `json:"translators"`
	Suggestions   int       `json:"suggestions"`
	BlockMappings int       `json:"block_mappings"`
	AdminClients  int64     `json:"admin_clients"`
	LoadedAt      time.Time `json:"loaded_at"`
}

// NewService performs the initial load. Failure to build locales or the
// registry is fatal; a bad suggestions file is not.
func NewService(loader ConfigLoader) (*Service, error) {
	if loader == nil {
		return nil, ErrNilLoader
	}
	cfg, err := loader()
	if err != nil {
		return nil, fmt.Errorf("bridge: load config: %w", err)
	}
	st, err := buildState(cfg)
	if err != nil {
		return nil, err
	}
	s := &Service{loader: loader, engine: item.NewEngine(), started: time.Now()}
	s.state.Store(st)
	log.Info().
		Str("config_folder", cfg.ConfigFolder).
		Str("default_locale", cfg.DefaultLocale).
		Int("translators", st.registry.Len()).
		Int("suggestions", st.suggestions.Len()).
		Msg("bridge.NewService ready")
	return s, nil
}

func buildState(cfg config.Config) (*state, error) {
	locales, err := text.LoadLocales(cfg.DefaultLocale, cfg.LocaleOverridesDir)
	if err != nil {
		return nil, fmt.Errorf("bridge: load locales: %w", err)
	}

	known := make([]string, 0, 3)
	for _, bt := range interaction.Builtins() {
		known = append(known, bt.Name)
	}
	for _, name := range cfg.Interaction.Disabled {
		if !slices.Contains(known, name) {
			log.Warn().Str("translator", name).Msg("bridge.buildState unknown disabled translator")
		}
	}
	b := interaction.NewBuilder()
	if err := interaction.RegisterDefaults(b, cfg.Interaction.Disabled); err != nil {
		return nil, err
	}

	store := suggestions.New(cfg.ConfigFolder, nil)
	if _, err := store.Reload(); err != nil {
		log.Warn().Err(err).Msg("bridge.buildState suggestions unavailable")
	}

	return &state{
		cfg:         cfg,
		locales:     locales,
		registry:    b.Build(),
		mappings:    BlockTable(maps.Clone(cfg.BlockMappings)),
		suggestions: store,
		loadedAt:    time.Now(),
	}, nil
}

// Reload is ReloadFor in the default locale.
func (s *Service) Reload(target string) (ReloadResult, error) {
	return s.ReloadFor(target, "")
}

// ReloadFor handles a reload request from a sender using locale.
// Only the exact TargetSuggestions reloads suggestions.yml. Anything else
// is a full reload; a second full reload while one runs is rejected with
// ErrReloadInProgress and changes nothing.
func (s *Service) ReloadFor(target, locale string) (ReloadResult, error) {
	st := s.state.Load()
	if locale == "" {
		locale = st.cfg.DefaultLocale
	}

	if target == TargetSuggestions {
		n, err := st.suggestions.Reload()
		if err != nil {
			observability.RecordReload(TargetSuggestions, observability.ReloadFailed)
			return ReloadResult{Target: TargetSuggestions, Suggestions: n, Generation: st.generation},
				fmt.Errorf("bridge: reload suggestions: %w", err)
		}
		observability.RecordReload(TargetSuggestions, observability.ReloadOK)
		return ReloadResult{
			Target:      TargetSuggestions,
			Messages:    []string{message(st, locale, keyReloadSuggestions, "green", strconv.Itoa(n))},
			Suggestions: n,
			Generation:  st.generation,
		}, nil
	}

	if !s.reloading.CompareAndSwap(false, true) {
		log.Warn().Msg("bridge.Service.Reload rejected, already reloading")
		observability.RecordReload(TargetAll, observability.ReloadBusy)
		return ReloadResult{
			Target:     TargetAll,
			Messages:   []string{message(st, locale, keyReloadBusy, "red")},
			Generation: st.generation,
		}, ErrReloadInProgress
	}
	defer s.reloading.Store(false)

	log.Info().Uint64("generation", st.generation).Msg("bridge.Service.Reload start")
	msgs := []string{message(st, locale, keyReloadConsole, "")}
	fail := func(err error) (ReloadResult, error) {
		log.Error().Err(err).Msg("bridge.Service.Reload failed")
		observability.RecordReload(TargetAll, observability.ReloadFailed)
		msgs = append(msgs, message(st, locale, keyReloadFailed, "red", err.Error()))
		return ReloadResult{Target: TargetAll, Messages: msgs, Generation: st.generation}, err
	}

	cfg, err := s.loader()
	if err != nil {
		return fail(fmt.Errorf("bridge: load config: %w", err))
	}
	next, err := buildState(cfg)
	if err != nil {
		return fail(err)
	}
	next.generation = st.generation + 1
	s.state.Store(next)

	log.Info().
		Uint64("generation", next.generation).
		Int("translators", next.registry.Len()).
		Int("suggestions", next.suggestions.Len()).
		Msg("bridge.Service.Reload complete")
	observability.RecordReload(TargetAll, observability.ReloadOK)
	msgs = append(msgs, message(next, locale, keyReloadSuccess, "green"))
	return ReloadResult{
		Target:      TargetAll,
		Messages:    msgs,
		Suggestions: next.suggestions.Len(),
		Generation:  next.generation,
	}, nil
}

func message(st *state, locale, key, color string, args ...string) string {
	with := make([]text.Component, 0, len(args))
	for _, a := range args {
		with = append(with, text.Plain(a))
	}
	c := text.Translate(key, text.Style{Color: color}, with...)
	return text.NewRenderer(st.locales).Render(c, locale)
}

func (s *Service) Reloading() bool {
	return s.reloading.Load()
}

func (s *Service) Config() config.Config {
	return s.state.Load().cfg
}

func (s *Service) Locales() *text.Locales {
	return s.state.Load().locales
}

func (s *Service) Registry() *interaction.Registry {
	return s.state.Load().registry
}

func (s *Service) Suggestion(command string) (string, bool) {
	return s.state.Load().suggestions.Get(command)
}

func (s *Service) Suggestions() map[string]string {
	return s.state.Load().suggestions.All()
}

// TranslateItem runs the engine against the current locales.
func (s *Service) TranslateItem(d item.Description, locale string) *tag.Tree {
	st := s.state.Load()
	if locale == "" {
		locale = st.cfg.DefaultLocale
	}
	out := tag.New()
	s.engine.Translate(d, item.NewContext(d, locale, st.locales), out)
	observability.RecordItemTranslated(s.engine.KindOf(d.ID()).String())
	if c := s.capture.Load(); c != nil {
		if nbt, err := out.MarshalNBT(); err != nil {
			log.Warn().Err(err).Str("item", d.ID()).Msg("bridge.Service.TranslateItem capture encode")
		} else if err := c.RecordItem(d.ID(), nbt); err != nil {
			log.Warn().Err(err).Str("item", d.ID()).Msg("bridge.Service.TranslateItem capture record")
		}
	}
	return out
}

// SetCapture starts recording emitted snapshots to c. nil stops recording.
func (s *Service) SetCapture(c *Capture) {
	s.capture.Store(c)
}

func (s *Service) Status() Status {
	st := s.state.Load()
	return Status{
		Generation:    st.generation,
		Reloading:     s.reloading.Load(),
		DefaultLocale: st.locales.DefaultLocale(),
		Locales:       st.locales.Tags(),
		Translators:   st.registry.Len(),
		Suggestions:   st.suggestions.Len(),
		BlockMappings: len(st.mappings),
		AdminClients:  s.adminClientCount.Load(),
		LoadedAt:      st.loadedAt,
	}
}

// Run blocks until SIGINT or SIGTERM.
func (s *Service) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.Serve(ctx)
}

// Serve runs the admin and HTTP endpoints, when configured, until ctx is
// done. Listen addresses are read once; a reload does not rebind them.
func (s *Service) Serve(ctx context.Context) error {
	ticker := time.NewTicker(statusLogInterval)
	defer ticker.Stop()

	cfg := s.Config()
	controlErr := make(chan error, 2)
	if addr := strings.TrimSpace(cfg.AdminListenAddr); addr != "" {
		go func() {
			controlErr <- s.serveAdminControl(ctx, addr)
		}()
	}
	if addr := strings.TrimSpace(cfg.HTTPListenAddr); addr != "" {
		go func() {
			controlErr <- s.serveHTTP(ctx, addr)
		}()
	}

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("bridge.Service.Serve shutdown")
			return nil
		case err := <-controlErr:
			if err != nil {
				return err
			}
		case <-ticker.C:
			st := s.Status()
			log.Info().
				Uint64("generation", st.Generation).
				Int("translators", st.Translators).
				Int("suggestions", st.Suggestions).
				Int64("admin_clients", st.AdminClients).
				Msg("bridge.Service.heartbeat")
		}
	}
}

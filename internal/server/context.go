package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/calendar"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/config"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/docs"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/gmail"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/google"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/instrumentation"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/intent"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/logging"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/openai"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/planner"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/secretary"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tasks"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/team"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/voice"
)

// ServerContext holds the shared services and per-account Google API
// clients for the MCP server. Google clients are created lazily on first
// use so that serve mode starts even before the operator has
// authenticated an account.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg    *config.Config
	logger *slog.Logger

	ai       *openai.Client
	detector *intent.Detector
	store    *tasks.Store
	roster   *team.Roster
	intercom *team.Intercom
	voice    *voice.Service

	tokenProvider google.TokenProvider

	metrics *instrumentation.Metrics
	audit   *instrumentation.AuditLogger

	calendarClients map[string]*calendar.Client // account name -> Calendar client
	gmailClients    map[string]*gmail.Client    // account name -> Gmail client
	docsClients     map[string]*docs.Client     // account name -> Docs client
	secretaries     map[string]*secretary.Secretary

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a server context from the loaded configuration.
// The task store is opened eagerly; Google clients wait until a tool needs
// them.
func NewServerContext(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*ServerContext, error) {
	if logger == nil {
		logger = slog.Default()
	}
	shutdownCtx, cancel := context.WithCancel(ctx)

	tasksFile, err := cfg.TasksFile()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to resolve task store path: %w", err)
	}
	store, err := tasks.NewStore(tasksFile)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open task store: %w", err)
	}

	roster, err := team.LoadRoster(cfg.RosterFile())
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to load team roster: %w", err)
	}

	ai := openai.NewClient(&cfg.OpenAI)

	sc := &ServerContext{
		ctx:             shutdownCtx,
		cancel:          cancel,
		cfg:             cfg,
		logger:          logger,
		ai:              ai,
		detector:        intent.NewDetector(ai, logger),
		store:           store,
		roster:          roster,
		intercom:        team.NewIntercom(roster, logger),
		voice:           voice.NewService(ai, logger),
		tokenProvider:   google.NewFileTokenProvider(),
		calendarClients: make(map[string]*calendar.Client),
		gmailClients:    make(map[string]*gmail.Client),
		docsClients:     make(map[string]*docs.Client),
		secretaries:     make(map[string]*secretary.Secretary),
	}
	return sc, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the loaded application configuration
func (sc *ServerContext) Config() *config.Config {
	return sc.cfg
}

// Logger returns the server logger
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// OpenAIClient returns the shared OpenAI client
func (sc *ServerContext) OpenAIClient() *openai.Client {
	return sc.ai
}

// Detector returns the shared intent detector
func (sc *ServerContext) Detector() *intent.Detector {
	return sc.detector
}

// TaskStore returns the shared task store
func (sc *ServerContext) TaskStore() *tasks.Store {
	return sc.store
}

// Roster returns the team roster
func (sc *ServerContext) Roster() *team.Roster {
	return sc.roster
}

// Intercom returns the team intercom
func (sc *ServerContext) Intercom() *team.Intercom {
	return sc.intercom
}

// Voice returns the voice service
func (sc *ServerContext) Voice() *voice.Service {
	return sc.voice
}

// TokenProvider returns the Google OAuth token provider
func (sc *ServerContext) TokenProvider() google.TokenProvider {
	return sc.tokenProvider
}

// SetMetrics attaches the metrics recorder. Optional; tool wrappers treat
// nil as "not configured".
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// Metrics returns the metrics recorder, or nil when instrumentation is
// not configured.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger attaches the audit logger. Optional.
func (sc *ServerContext) SetAuditLogger(audit *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.audit = audit
}

// AuditLogger returns the audit logger, or nil when not configured.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.audit
}

// CalendarClientForAccount returns the Calendar client for a specific account.
// Creates and caches the client if it doesn't exist yet.
// Returns nil if the account has no token.
func (sc *ServerContext) CalendarClientForAccount(account string) *calendar.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.calendarClientLocked(account)
}

func (sc *ServerContext) calendarClientLocked(account string) *calendar.Client {
	if client, ok := sc.calendarClients[account]; ok {
		return client
	}
	if !calendar.HasTokenForAccountWithProvider(account, sc.tokenProvider) {
		return nil
	}
	client, err := calendar.NewClientForAccountWithProvider(sc.ctx, account, sc.tokenProvider)
	if err != nil {
		sc.logger.Warn("failed to create Calendar client",
			logging.Service("calendar"), logging.Account(account), logging.Err(err))
		return nil
	}
	sc.calendarClients[account] = client
	return client
}

// CalendarClient returns the Calendar client for the default account
func (sc *ServerContext) CalendarClient() *calendar.Client {
	return sc.CalendarClientForAccount("default")
}

// SetCalendarClientForAccount sets the Calendar client for a specific account
func (sc *ServerContext) SetCalendarClientForAccount(account string, client *calendar.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.calendarClients[account] = client
	delete(sc.secretaries, account)
}

// GmailClientForAccount returns the Gmail client for a specific account.
// Creates and caches the client if it doesn't exist yet.
// Returns nil if the account has no token.
func (sc *ServerContext) GmailClientForAccount(account string) *gmail.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.gmailClientLocked(account)
}

func (sc *ServerContext) gmailClientLocked(account string) *gmail.Client {
	if client, ok := sc.gmailClients[account]; ok {
		return client
	}
	if !gmail.HasTokenForAccount(account) {
		return nil
	}
	client, err := gmail.NewClientForAccount(sc.ctx, account)
	if err != nil {
		sc.logger.Warn("failed to create Gmail client",
			logging.Service("gmail"), logging.Account(account), logging.Err(err))
		return nil
	}
	sc.gmailClients[account] = client
	return client
}

// GmailClient returns the Gmail client for the default account
func (sc *ServerContext) GmailClient() *gmail.Client {
	return sc.GmailClientForAccount("default")
}

// SetGmailClientForAccount sets the Gmail client for a specific account
func (sc *ServerContext) SetGmailClientForAccount(account string, client *gmail.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.gmailClients[account] = client
	delete(sc.secretaries, account)
}

// DocsClientForAccount returns the Docs client for a specific account.
// Creates and caches the client if it doesn't exist yet.
// Returns nil if the account has no token.
func (sc *ServerContext) DocsClientForAccount(account string) *docs.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.docsClientLocked(account)
}

func (sc *ServerContext) docsClientLocked(account string) *docs.Client {
	if client, ok := sc.docsClients[account]; ok {
		return client
	}
	if !docs.HasTokenForAccountWithProvider(account, sc.tokenProvider) {
		return nil
	}
	client, err := docs.NewClientForAccountWithProvider(sc.ctx, account, sc.tokenProvider)
	if err != nil {
		sc.logger.Warn("failed to create Docs client",
			logging.Service("docs"), logging.Account(account), logging.Err(err))
		return nil
	}
	sc.docsClients[account] = client
	return client
}

// DocsClient returns the Docs client for the default account
func (sc *ServerContext) DocsClient() *docs.Client {
	return sc.DocsClientForAccount("default")
}

// SetDocsClientForAccount sets the Docs client for a specific account
func (sc *ServerContext) SetDocsClientForAccount(account string, client *docs.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.docsClients[account] = client
	delete(sc.secretaries, account)
}

// SecretaryForAccount returns the secretary wired to a specific account's
// Google clients, creating it on first use. The secretary keeps multi-turn
// flow state, so each account gets exactly one instance.
func (sc *ServerContext) SecretaryForAccount(account string) *secretary.Secretary {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sec, ok := sc.secretaries[account]; ok {
		return sec
	}

	secCfg := secretary.Config{
		LLM:      sc.ai,
		Detector: sc.detector,
		Store:    sc.store,
		Roster:   sc.roster,
		Intercom: sc.intercom,
		Node:     sc.cfg.Team.Node,
		Logger:   sc.logger,
	}

	// Interface fields stay nil unless a real client exists; a typed nil
	// would defeat the secretary's availability checks.
	if cal := sc.calendarClientLocked(account); cal != nil {
		secCfg.Calendar = cal
	}
	if mail := sc.gmailClientLocked(account); mail != nil {
		secCfg.Mail = mail
	}
	secCfg.Planner = planner.New(sc.plannerConfigLocked(account))

	sec := secretary.New(secCfg)
	sc.secretaries[account] = sec
	return sec
}

// PlannerForAccount returns a project planner wired to a specific
// account's Google clients. The planner keeps no state between runs,
// so every call builds a fresh instance.
func (sc *ServerContext) PlannerForAccount(account string) *planner.Planner {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return planner.New(sc.plannerConfigLocked(account))
}

// plannerConfigLocked assembles the planner wiring for an account.
// Callers must hold sc.mu.
func (sc *ServerContext) plannerConfigLocked(account string) planner.Config {
	plCfg := planner.Config{
		LLM:      sc.ai,
		Store:    sc.store,
		Roster:   sc.roster,
		Intercom: sc.intercom,
		Node:     sc.cfg.Team.Node,
		PlanDir:  sc.cfg.Store.PlanDir,
		Logger:   sc.logger,
	}
	if cal := sc.calendarClientLocked(account); cal != nil {
		plCfg.Calendar = cal
	}
	if dc := sc.docsClientLocked(account); dc != nil {
		plCfg.Exporter = dc
	}
	return plCfg
}

// Secretary returns the secretary for the default account
func (sc *ServerContext) Secretary() *secretary.Secretary {
	return sc.SecretaryForAccount("default")
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}

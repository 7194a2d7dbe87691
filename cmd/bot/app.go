package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/mux"
	"github.com/mpiekarski/zbik/cmd/bot/config"
	"github.com/mpiekarski/zbik/cmd/bot/monitoring"
	"github.com/mpiekarski/zbik/pkg/dataaccess"
	"github.com/mpiekarski/zbik/pkg/logging"
	"github.com/mpiekarski/zbik/pkg/request"
	"github.com/mpiekarski/zbik/pkg/tickets"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for the health check.
	PathHealth = "/health"
)

// IApp is the interface for the application.
type IApp interface {
	// Log returns the logger.
	Log() *slog.Logger

	// Session returns the discord session.
	Session() *discordgo.Session

	// Lifecycle returns the ticket lifecycle service.
	Lifecycle() *tickets.LifecycleService

	// Assignment returns the ticket assignment service.
	Assignment() *tickets.AssignmentService

	// Closure returns the ticket closure coordinator.
	Closure() *tickets.ClosureCoordinator

	// ConfigDal returns the ticket config data access layer.
	ConfigDal() dataaccess.TicketConfigDal

	// StateDal returns the ticket state data access layer.
	StateDal() dataaccess.TicketStateDal

	// StatsDal returns the moderator stats data access layer.
	StatsDal() dataaccess.ModeratorStatsDal

	// CreationLimiter returns the per-guild ticket creation limiter.
	CreationLimiter() *creationLimiter
}

type App struct {
	// l is the logger.
	l *slog.Logger

	// r is the router for the application.
	r *mux.Router

	// svr is the server for the application.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// Ticket services, built once the Mongo connection is up.
	lifecycle  *tickets.LifecycleService
	assignment *tickets.AssignmentService
	closure    *tickets.ClosureCoordinator

	configDal dataaccess.TicketConfigDal
	stateDal  dataaccess.TicketStateDal
	statsDal  dataaccess.ModeratorStatsDal

	limiter *creationLimiter
}

// NewApp creates a new instance of App.
func NewApp(l *slog.Logger, r *mux.Router) *App {
	return &App{
		l: l,
		r: r,
	}
}

func (a *App) Run() error {
	// Register bot.
	if err := a.RegisterBot(); err != nil {
		return fmt.Errorf("error registering bot: %w", err)
	}

	// Build the ticket services over the Mongo connection.
	if err := a.initServices(context.Background()); err != nil {
		return fmt.Errorf("error initialising ticket services: %w", err)
	}

	a.s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		a.l.Info(fmt.Sprintf("Logged in as %s#%s", r.User.Username, r.User.Discriminator))
	})

	if err := a.RegisterDiscordHandlers(); err != nil {
		return fmt.Errorf("error registering discord handlers: %w", err)
	}

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	// Register slash commands.
	if err := a.registerSlashCommands(); err != nil {
		return fmt.Errorf("error registering slash commands: %w", err)
	}

	a.l.Info("Bot is now running.")

	a.generateServer()
	a.setupRoutes()
	a.runServer()

	// Register listener for shutdown signal.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	// Process shutdown signal.
	for sig := range c {
		a.l.Info("Received shutdown signal", slog.String("signal", sig.String()))
		if err := a.ShutdownHook(); err != nil {
			a.l.Error("Error shutting down application", slog.String(logging.KeyError, err.Error()))
		}
		os.Exit(0)
	}
	return nil
}

func (a *App) initServices(ctx context.Context) error {
	client := dataaccess.MongoDB

	stateDal := dataaccess.NewTicketStateDal(client, a.l)
	if err := stateDal.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("error ensuring ticket state indexes: %w", err)
	}
	a.stateDal = stateDal

	a.configDal = dataaccess.NewTicketConfigDal(client, a.l)
	a.statsDal = dataaccess.NewModeratorStatsDal(client, a.l)

	a.lifecycle = tickets.NewLifecycleService(a.configDal, tickets.DefaultCatalog())
	a.assignment = tickets.NewAssignmentService(stateDal, a.statsDal, a.l)
	a.closure = tickets.NewClosureCoordinator(
		stateDal,
		&sessionMessenger{s: a.s},
		&sessionPermissions{s: a.s, configs: a.configDal},
		a.l,
	)

	a.limiter = newCreationLimiter()
	return nil
}

func (a *App) ShutdownHook() error {
	// Reset the total number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	// Unregister slash commands.
	if err := a.unregisterSlashCommands(); err != nil {
		return fmt.Errorf("error unregistering slash commands: %w", err)
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		return fmt.Errorf("error closing connection to Discord: %w", err)
	}
	return nil
}

func (a *App) RegisterBot() error {
	// Default the number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	dg, err := discordgo.New("Bot " + config.BotToken)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsAllWithoutPrivileged)

	a.s = dg
	return nil
}

func (a *App) runServer() {
	go func() {
		a.l.Info("Starting monitoring server")
		if err := a.svr.ListenAndServe(); err != nil {
			a.l.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.l.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) setupRoutes() {
	// PathMetrics is the path for metrics.
	a.r.HandleFunc(PathMetrics, promhttp.Handler().ServeHTTP).Methods(http.MethodGet)

	// PathHealth is the path for health check.
	a.r.HandleFunc(PathHealth, middlewareHttp(a, a.healthCheck())).Methods(http.MethodGet)

	// NotFoundHandler is the handler for 404.
	a.r.NotFoundHandler = request.NotFoundHandler(a.l)

	// MethodNotAllowedHandler is the handler for 405.
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.l)
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:    ":" + config.MonitoringPort,
		Handler: a.r,
	}
}

func (a *App) GetJoinedGuilds() ([]*discordgo.UserGuild, error) {
	guilds, err := a.s.UserGuilds(0, "", "", false)
	if err != nil {
		return nil, fmt.Errorf("error getting guilds: %w", err)
	}
	return guilds, nil
}

func (a *App) RegisterDiscordHandlers() error {
	// Bot joined guild.
	a.s.AddHandler(guildJoinedHandler(a))

	// Bot left guild.
	a.s.AddHandler(guildLeaveHandler(a))

	// Raw events feed the event counter.
	a.s.AddHandler(func(_ *discordgo.Session, e *discordgo.Event) {
		if e.Type == "" {
			monitoring.TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
			return
		}
		monitoring.TotalDiscordEvents.WithLabelValues(e.Type).Inc()
	})

	// Interaction create handler.
	a.s.AddHandler(interactionHandler(a,
		// Slash Controllers
		map[string]commandController{
			setupCmd.Name:  setupCmdController,
			ticketCmd.Name: ticketCmdController,
		},
		// Button Controllers
		map[string]commandProcessor{
			ClaimTicketButtonID:  claimTicketHandler,
			CloseTicketButtonID:  closeTicketHandler,
			ConfirmCloseButtonID: confirmCloseHandler,
			CancelCloseButtonID:  cancelCloseHandler,
		}))
	return nil
}

func (a *App) registerSlashCommands() error {
	// Get all guilds the bot is in.
	guilds, err := a.GetJoinedGuilds()
	if err != nil {
		return fmt.Errorf("error getting guilds: %w", err)
	}

	// Register slash commands for each guild.
	for _, g := range guilds {
		// Register the setup command.
		if _, err := a.Session().ApplicationCommandCreate(config.ApplicationId, g.ID, setupCmd); err != nil {
			return fmt.Errorf("error creating setup command for guild %s: %w", g.ID, err)
		}

		// Register the ticket command.
		if _, err := a.Session().ApplicationCommandCreate(config.ApplicationId, g.ID, ticketCmd); err != nil {
			return fmt.Errorf("error creating ticket command for guild %s: %w", g.ID, err)
		}
	}
	return nil
}

func (a *App) unregisterSlashCommands() error {
	// Get all guilds the bot is in.
	guilds, err := a.GetJoinedGuilds()
	if err != nil {
		return fmt.Errorf("error getting guilds: %w", err)
	}

	// Delete slash commands for each guild.
	for _, guild := range guilds {
		cmds, err := a.s.ApplicationCommands(config.ApplicationId, guild.ID)
		if err != nil {
			return fmt.Errorf("error getting commands for guild %s: %w", guild.ID, err)
		}

		for _, cmd := range cmds {
			if cmd.Name != setupCmd.Name && cmd.Name != ticketCmd.Name {
				continue
			}
			if err := a.s.ApplicationCommandDelete(config.ApplicationId, guild.ID, cmd.ID); err != nil {
				return fmt.Errorf("error deleting command %s for guild %s: %w", cmd.Name, guild.ID, err)
			}
		}
	}
	return nil
}

func (a *App) Log() *slog.Logger {
	return a.l
}

func (a *App) Session() *discordgo.Session {
	return a.s
}

func (a *App) Lifecycle() *tickets.LifecycleService {
	return a.lifecycle
}

func (a *App) Assignment() *tickets.AssignmentService {
	return a.assignment
}

func (a *App) Closure() *tickets.ClosureCoordinator {
	return a.closure
}

func (a *App) ConfigDal() dataaccess.TicketConfigDal {
	return a.configDal
}

func (a *App) StateDal() dataaccess.TicketStateDal {
	return a.stateDal
}

func (a *App) StatsDal() dataaccess.ModeratorStatsDal {
	return a.statsDal
}

func (a *App) CreationLimiter() *creationLimiter {
	return a.limiter
}

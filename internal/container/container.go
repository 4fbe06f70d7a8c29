package container

import (
	"context"
	"fmt"

	"datadash/adapters/excel"
	"datadash/adapters/llm"
	"datadash/adapters/postgres"
	"datadash/ai"
	"datadash/app"
	"datadash/internal"
	"datadash/internal/config"
	"datadash/internal/errors"
	"datadash/internal/migration"
	"datadash/internal/session"
	"datadash/internal/visualization"
	"datadash/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB *sqlx.DB

	// Session state
	TableStore *session.MemoryTableStore

	// Analysis components
	Reader   *excel.DataReader
	Renderer *visualization.EChartsRenderer
	Selector *visualization.Selector

	// AI components; nil when no API key is configured
	Generator ports.TextGenerator
	Responder *ai.QueryResponder

	// Repositories; nil when no database is configured
	QuestionLog ports.QuestionLogRepository

	Dashboard *app.DashboardService
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config:     cfg,
		TableStore: session.NewMemoryTableStore(cfg.Session.TTL),
		Reader:     excel.NewDataReader(excel.ReaderConfig{MaxRows: cfg.Upload.MaxRows}),
		Renderer:   visualization.NewEChartsRenderer(nil),
	}
	c.Selector = visualization.NewSelector(c.Renderer)

	if cfg.AI.Enabled() {
		if err := c.initAIComponents(); err != nil {
			return nil, errors.Wrap(err, "failed to initialize AI components")
		}
	} else {
		internal.DefaultLogger.Info("[Container] OPENAI_API_KEY not set, question answering disabled")
	}

	c.buildDashboard()
	return c, nil
}

// initAIComponents builds the text generator once; every request shares it
func (c *Container) initAIComponents() error {
	generator, err := llm.NewOpenAIClient(llm.Config{
		Model:       c.Config.AI.Model,
		APIKey:      c.Config.AI.APIKey,
		BaseURL:     c.Config.AI.BaseURL,
		Temperature: c.Config.AI.Temperature,
		MaxTokens:   c.Config.AI.MaxTokens,
		Timeout:     c.Config.AI.Timeout,
	})
	if err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return c.UseGenerator(generator)
}

// UseGenerator swaps in a text generator, e.g. a mock for offline runs
func (c *Container) UseGenerator(generator ports.TextGenerator) error {
	if generator == nil {
		return fmt.Errorf("generator cannot be nil")
	}
	c.Generator = generator
	c.Responder = ai.NewQueryResponder(generator, c.Config.AI.MaxTokens, c.Config.AI.SampleRows).
		WithPromptManager(ai.NewPromptManager(c.Config.AI.PromptsDir))
	c.buildDashboard()
	return nil
}

// InitWithDatabase connects the question log. It is a no-op when no
// database is configured.
func (c *Container) InitWithDatabase(ctx context.Context) error {
	if !c.Config.Database.Enabled() {
		internal.DefaultLogger.Info("[Container] DATABASE_URL not set, question log disabled")
		return nil
	}

	db, err := sqlx.ConnectContext(ctx, c.Config.Database.Driver, c.Config.Database.URL)
	if err != nil {
		return errors.WithCode(errors.CodeDatabaseError, errors.Wrap(err, "failed to connect to database"))
	}
	if c.Config.Database.Driver == "sqlite3" {
		// one writer; also keeps a ":memory:" database alive across queries
		db.SetMaxOpenConns(1)
	}

	return c.AttachDatabase(ctx, db)
}

// AttachDatabase runs migrations on db and wires the question log to it
func (c *Container) AttachDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(ctx, db); err != nil {
		return errors.Wrap(err, "database migration failed")
	}

	c.DB = db
	c.QuestionLog = postgres.NewQuestionLogRepository(db)
	c.buildDashboard()

	internal.DefaultLogger.Info("[Container] Question log enabled (%s, schema %s)", db.DriverName(), migrator.Version())
	return nil
}

func (c *Container) buildDashboard() {
	c.Dashboard = app.NewDashboardService(c.TableStore, c.Reader, c.Selector, c.Responder, c.QuestionLog)
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

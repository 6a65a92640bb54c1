package commands

import (
	"fmt"
	"log/slog"

	"github.com/BeenaAbe/linkedin-agent-workflow/agent"
	"github.com/BeenaAbe/linkedin-agent-workflow/config"
	"github.com/BeenaAbe/linkedin-agent-workflow/events"
	"github.com/BeenaAbe/linkedin-agent-workflow/llm"
	"github.com/BeenaAbe/linkedin-agent-workflow/model"
	"github.com/BeenaAbe/linkedin-agent-workflow/notify"
	"github.com/BeenaAbe/linkedin-agent-workflow/queue"
	"github.com/BeenaAbe/linkedin-agent-workflow/runner"
	"github.com/BeenaAbe/linkedin-agent-workflow/search"
	"github.com/BeenaAbe/linkedin-agent-workflow/workflow"
)

// app holds the wired engine components for one CLI invocation.
type app struct {
	cfg       *config.Config
	runner    *runner.Runner
	queue     *queue.Client
	search    *search.Client
	publisher *events.Publisher
	logger    *slog.Logger
}

// newApp wires every collaborator from configuration.
func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	registry := model.NewSingleEndpointRegistry(cfg.LLM.Model, &model.EndpointConfig{
		Provider:  cfg.LLM.Provider,
		URL:       cfg.LLM.Endpoint,
		Model:     cfg.LLM.Model,
		APIKey:    cfg.LLM.APIKey,
		MaxTokens: cfg.LLM.MaxTokens,
	})
	llmClient := llm.NewClient(registry, llm.WithLogger(logger))

	searchClient := search.NewClient(search.Config{
		Endpoint:    cfg.Search.Endpoint,
		APIKey:      cfg.Search.APIKey,
		MaxResults:  cfg.Search.MaxResults,
		EnrichPages: cfg.Search.EnrichPages,
	}, search.WithLogger(logger))

	steps := runner.InstrumentSteps(
		agent.NewValidator(agent.WithLogger(logger)),
		agent.NewResearcher(llmClient, searchClient, agent.WithLogger(logger)),
		agent.NewStrategist(llmClient, agent.WithLogger(logger)),
		agent.NewWriter(llmClient, agent.WithLogger(logger)),
		agent.NewEditor(llmClient, agent.WithLogger(logger)),
		agent.NewFormatter(agent.WithLogger(logger)),
		agent.NewFinalizer(agent.WithLogger(logger)),
	)
	graph, err := workflow.NewPostGraph(steps...)
	if err != nil {
		return nil, fmt.Errorf("build workflow graph: %w", err)
	}
	executor := workflow.NewExecutor(graph, workflow.WithLogger(logger))

	queueClient := queue.NewClient(cfg.Notion.Token, cfg.Notion.DatabaseID, queue.WithLogger(logger))
	notifier := notify.NewNotifier(cfg.Slack.WebhookURL, notify.WithLogger(logger))

	publisher, err := events.Connect(cfg.NATS.URL, cfg.NATS.SubjectPrefix, events.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	r := runner.New(executor, queueClient, notifier,
		runner.WithLogger(logger),
		runner.WithPublisher(publisher),
		runner.WithStateFile(queue.NewStateFile(cfg.Notion.StateFile)),
		runner.WithPollIntervals(cfg.Poll.IdleInterval, cfg.Poll.ActiveInterval),
	)

	return &app{
		cfg:       cfg,
		runner:    r,
		queue:     queueClient,
		search:    searchClient,
		publisher: publisher,
		logger:    logger,
	}, nil
}

func (a *app) close() {
	a.publisher.Close()
}

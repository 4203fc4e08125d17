package config

import (
	"context"
	"os"

	"github.com/eventworks/taskflow/pkg/domain/interfaces"
	"github.com/eventworks/taskflow/pkg/domain/model"
	"github.com/eventworks/taskflow/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// App holds the CLI flag pointing at the application configuration file
type App struct {
	path string
}

// Flags returns CLI flags for application configuration
func (a *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to taskflow configuration file (TOML)",
			Sources:     cli.EnvVars("TASKFLOW_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Configure loads and validates the configuration file. It returns nil
// when no file is configured.
func (a *App) Configure() (*AppConfig, error) {
	if a.path == "" {
		return nil, nil
	}
	return Load(a.path)
}

// AppConfig represents the application configuration: task definitions,
// seed tasks, and the static actor registry
type AppConfig struct {
	Definitions []Definition `toml:"definition"`
	Tasks       []Task       `toml:"task"`
	Actors      []ActorEntry `toml:"actor"`
}

// Definition represents a task definition configuration
type Definition struct {
	ID                string `toml:"id"`
	Name              string `toml:"name"`
	NeedsApproval     bool   `toml:"needs_approval"`
	FulfillmentTarget string `toml:"fulfillment_target"`
}

// Validate checks if the Definition is valid
func (d *Definition) Validate() error {
	if d.ID == "" {
		return goerr.New("definition id is required")
	}
	if d.Name == "" {
		return goerr.New("definition name is required", goerr.V("id", d.ID))
	}
	return nil
}

// Task represents a seeded task configuration
type Task struct {
	ID         string `toml:"id"`
	Event      string `toml:"event"`
	Definition string `toml:"definition"`
	Type       string `toml:"type"`
	Title      string `toml:"title"`
	Assignee   string `toml:"assignee"`
	Status     string `toml:"status"`
	Draft      bool   `toml:"draft"`
}

// Validate checks if the Task is valid
func (t *Task) Validate() error {
	if t.ID == "" {
		return goerr.New("task id is required")
	}
	if t.Event == "" {
		return goerr.New("task event is required", goerr.V("id", t.ID))
	}
	if t.Definition == "" {
		return goerr.New("task definition is required", goerr.V("id", t.ID))
	}
	if _, err := types.ParseTaskType(t.Type); err != nil {
		return goerr.Wrap(err, "invalid task type", goerr.V("id", t.ID))
	}
	if t.Status != "" {
		if _, err := types.ParseTaskStatus(t.Status); err != nil {
			return goerr.Wrap(err, "invalid task status", goerr.V("id", t.ID))
		}
	}
	return nil
}

// ActorEntry represents one entry of the static actor registry
type ActorEntry struct {
	Token     string `toml:"token" masq:"secret"`
	Event     string `toml:"event"`
	PersonID  string `toml:"person_id"`
	FirstName string `toml:"first_name"`
	LastName  string `toml:"last_name"`
}

// Validate checks if the ActorEntry is valid
func (a *ActorEntry) Validate() error {
	if a.Token == "" {
		return goerr.New("actor token is required")
	}
	if a.Event == "" {
		return goerr.New("actor event is required", goerr.V("person_id", a.PersonID))
	}
	if a.PersonID == "" {
		return goerr.New("actor person_id is required", goerr.V("event", a.Event))
	}
	return nil
}

// Validate checks if the AppConfig is valid
func (c *AppConfig) Validate() error {
	definitionIDs := make(map[string]bool)
	for _, def := range c.Definitions {
		if err := def.Validate(); err != nil {
			return goerr.Wrap(err, "invalid definition")
		}
		if definitionIDs[def.ID] {
			return goerr.New("duplicate definition ID", goerr.V("id", def.ID))
		}
		definitionIDs[def.ID] = true
	}

	taskIDs := make(map[string]bool)
	for _, task := range c.Tasks {
		if err := task.Validate(); err != nil {
			return goerr.Wrap(err, "invalid task")
		}
		if taskIDs[task.ID] {
			return goerr.New("duplicate task ID", goerr.V("id", task.ID))
		}
		taskIDs[task.ID] = true
		if !definitionIDs[task.Definition] {
			return goerr.New("task references unknown definition",
				goerr.V("id", task.ID), goerr.V("definition", task.Definition))
		}
	}

	tokens := make(map[string]bool)
	for _, actor := range c.Actors {
		if err := actor.Validate(); err != nil {
			return goerr.Wrap(err, "invalid actor")
		}
		if tokens[actor.Token] {
			return goerr.New("duplicate actor token", goerr.V("person_id", actor.PersonID))
		}
		tokens[actor.Token] = true
	}

	return nil
}

// Load reads and validates a configuration file
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var cfg AppConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid config file", goerr.V("path", path))
	}

	return &cfg, nil
}

// Seed stores the configured definitions and tasks into the repository
func (c *AppConfig) Seed(ctx context.Context, repo interfaces.Repository) error {
	for _, def := range c.Definitions {
		rec := &model.TaskDefinition{
			ID:                types.TaskDefinitionID(def.ID),
			Name:              def.Name,
			NeedsApproval:     def.NeedsApproval,
			FulfillmentTarget: def.FulfillmentTarget,
		}
		if _, err := repo.TaskDefinition().Put(ctx, rec); err != nil {
			return goerr.Wrap(err, "failed to seed task definition", goerr.V("id", def.ID))
		}
	}

	for _, task := range c.Tasks {
		rec := &model.Task{
			ID:               types.TaskID(task.ID),
			EventID:          types.EventID(task.Event),
			TaskDefinitionID: types.TaskDefinitionID(task.Definition),
			Type:             types.TaskType(task.Type),
			Status:           types.TaskStatus(task.Status).Normalize(),
			Draft:            task.Draft,
			Title:            task.Title,
			AssigneePersonID: types.PersonID(task.Assignee),
		}
		if _, err := repo.Task().Put(ctx, rec); err != nil {
			return goerr.Wrap(err, "failed to seed task", goerr.V("id", task.ID))
		}
	}

	return nil
}

// StaticActorResolver resolves bearer tokens against the configured
// actor registry
type StaticActorResolver struct {
	actors map[string]model.Actor
}

// ActorResolver builds a token resolver from the configured actors
func (c *AppConfig) ActorResolver() *StaticActorResolver {
	actors := make(map[string]model.Actor, len(c.Actors))
	for _, entry := range c.Actors {
		actors[entry.Token] = model.Actor{
			EventID: types.EventID(entry.Event),
			Person: model.Person{
				ID:        types.PersonID(entry.PersonID),
				FirstName: entry.FirstName,
				LastName:  entry.LastName,
			},
		}
	}
	return &StaticActorResolver{actors: actors}
}

// Resolve maps a token to its actor
func (r *StaticActorResolver) Resolve(ctx context.Context, token string) (model.Actor, error) {
	actor, ok := r.actors[token]
	if !ok {
		return model.Actor{}, goerr.New("unknown token")
	}
	return actor, nil
}

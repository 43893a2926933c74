package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/mrlokans/newspaper-importer/internal/metadata"
)

type (
	Config struct {
		Database Database
		Process  Process
		Audit    Audit
		Tasks    Tasks
		Sets     []Set
		Templates []Template
	}

	Database struct {
		Path string
	}
	Process struct {
		// Dir is the base directory under which each process gets its
		// images/master folder.
		Dir string
	}
	Audit struct {
		Dir string
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}

	// Template names a workflow template: the structure ruleset used for
	// documents created through it.
	Template struct {
		Name    string `mapstructure:"name"`
		Ruleset string `mapstructure:"ruleset"`
	}

	// Set is one named import profile.
	Set struct {
		Name         string `mapstructure:"name"`
		ImportFolder string `mapstructure:"importFolder"`
		// Workflow is the template name resolved at assembly time.
		Workflow     string `mapstructure:"workflow"`
		ProcessTitle string `mapstructure:"processtitle"`

		PageNumberPrefix string `mapstructure:"pageNumberPrefix"`

		IssueTitlePrefix        string `mapstructure:"issueTitlePrefix"`
		IssueTitlePrefixMorning string `mapstructure:"issueTitlePrefixMorning"`
		IssueTitlePrefixEvening string `mapstructure:"issueTitlePrefixEvening"`

		MorningIdentifier string `mapstructure:"morningIdentifier"`
		EveningIdentifier string `mapstructure:"eveningIdentifier"`

		LanguageForDateFormat string `mapstructure:"languageForDateFormat"`
		DeleteFromSource      bool   `mapstructure:"deleteFromSource"`

		// Representations are the content file types referenced per page,
		// e.g. ["tiff", "jpeg"].
		Representations []string `mapstructure:"representations"`

		// Schedule is an optional cron expression for the watch command.
		Schedule string `mapstructure:"schedule"`

		Metadata []MetadataMapping `mapstructure:"metadata"`
	}

	// MetadataMapping is one configured metadata field.
	MetadataMapping struct {
		Type     string `mapstructure:"type"`
		Value    string `mapstructure:"value"`
		Variable string `mapstructure:"var"`
		Person   bool   `mapstructure:"person"`
		Anchor   bool   `mapstructure:"anchor"`
		Volume   bool   `mapstructure:"volume"`
		Issue    bool   `mapstructure:"issue"`
	}
)

// FieldSpec converts a configured mapping into the templating engine's
// representation.
func (m MetadataMapping) FieldSpec() metadata.FieldSpec {
	var levels []metadata.Level
	if m.Anchor {
		levels = append(levels, metadata.LevelAnchor)
	}
	if m.Volume {
		levels = append(levels, metadata.LevelVolume)
	}
	if m.Issue {
		levels = append(levels, metadata.LevelIssue)
	}
	return metadata.FieldSpec{
		Type:     m.Type,
		Value:    m.Value,
		Variable: m.Variable,
		Person:   m.Person,
		Levels:   levels,
	}
}

// FieldSpecs converts all configured mappings of the set.
func (s Set) FieldSpecs() []metadata.FieldSpec {
	specs := make([]metadata.FieldSpec, 0, len(s.Metadata))
	for _, m := range s.Metadata {
		specs = append(specs, m.FieldSpec())
	}
	return specs
}

// Load reads configuration from the given YAML file plus environment
// variables. An empty path falls back to DefaultConfigFile; a missing
// default file is tolerated (env-only configuration).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("process_dir", DefaultProcessDir)
	v.SetDefault("audit_dir", "./audit")
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_workers", 1)
	v.SetDefault("tasks_max_retries", 1)
	v.SetDefault("tasks_retry_delay", "1m")
	v.SetDefault("tasks_timeout", "60m")
	v.SetDefault("tasks_release_after", "90m")
	v.SetDefault("tasks_cleanup_interval", "1h")
	v.SetDefault("tasks_retention", "24h")

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if explicit {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		Database: Database{Path: v.GetString("database_path")},
		Process:  Process{Dir: v.GetString("process_dir")},
		Audit:    Audit{Dir: v.GetString("audit_dir")},
		Tasks: Tasks{
			Enabled:           v.GetBool("tasks_enabled"),
			Workers:           v.GetInt("tasks_workers"),
			MaxRetries:        v.GetInt("tasks_max_retries"),
			RetryDelay:        v.GetDuration("tasks_retry_delay"),
			TaskTimeout:       v.GetDuration("tasks_timeout"),
			ReleaseAfter:      v.GetDuration("tasks_release_after"),
			CleanupInterval:   v.GetDuration("tasks_cleanup_interval"),
			RetentionDuration: v.GetDuration("tasks_retention"),
		},
	}

	if err := v.UnmarshalKey("sets", &cfg.Sets); err != nil {
		return nil, fmt.Errorf("failed to parse sets: %w", err)
	}
	if err := v.UnmarshalKey("templates", &cfg.Templates); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	for i := range cfg.Sets {
		if cfg.Sets[i].LanguageForDateFormat == "" {
			cfg.Sets[i].LanguageForDateFormat = "de"
		}
		if len(cfg.Sets[i].Representations) == 0 {
			cfg.Sets[i].Representations = []string{"tiff"}
		}
	}

	return cfg, nil
}

// Set returns the import set with the given name.
func (c *Config) Set(name string) (*Set, error) {
	for i := range c.Sets {
		if c.Sets[i].Name == name {
			return &c.Sets[i], nil
		}
	}
	return nil, fmt.Errorf("import set %q is not configured", name)
}

// Template returns the workflow template with the given name.
func (c *Config) Template(name string) (*Template, error) {
	for i := range c.Templates {
		if c.Templates[i].Name == name {
			return &c.Templates[i], nil
		}
	}
	return nil, fmt.Errorf("workflow template %q is not configured", name)
}

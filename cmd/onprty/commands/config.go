package commands

import (
	"fmt"
	"strings"

	"github.com/livefir/onprty/internal/config"
)

// Config handles configuration management commands
//
//	onprty config list|get <key>|set <key> <value>|add-template-path <dir>|remove-template-path <dir>
func Config(args []string) error {
	flags, rest := splitFlags(args)
	if len(rest) < 1 {
		return fmt.Errorf("command required: list, get, set, add-template-path, remove-template-path")
	}

	path := flags["config"]
	if path == "" {
		p, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	command, rest := rest[0], rest[1:]
	switch command {
	case "list":
		configList(path, cfg)
		return nil
	case "get":
		if len(rest) != 1 {
			return fmt.Errorf("key required: onprty config get <key>")
		}
		v, err := configValue(cfg, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, v)
		return nil
	case "set":
		if len(rest) < 2 {
			return fmt.Errorf("key and value required: onprty config set <key> <value>")
		}
		if err := configSet(cfg, rest[0], strings.Join(rest[1:], " ")); err != nil {
			return err
		}
	case "add-template-path", "remove-template-path":
		if len(rest) != 1 {
			return fmt.Errorf("path required: onprty config %s <dir>", command)
		}
		if command == "add-template-path" {
			err = cfg.AddTemplatePath(rest[0])
		} else {
			err = cfg.RemoveTemplatePath(rest[0])
		}
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown command: %s", command)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.SaveConfig(path, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(stdout, "✅ Updated %s\n", path)
	return nil
}

func configValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "default_template":
		return cfg.DefaultTemplate, nil
	case "template_paths":
		if len(cfg.TemplatePaths) == 0 {
			return "(none)", nil
		}
		return strings.Join(cfg.TemplatePaths, "\n"), nil
	case "database_path":
		return cfg.DatabasePath, nil
	case "publish_dir":
		return cfg.PublishDir, nil
	case "public_base_url":
		return cfg.PublicBaseURL, nil
	case "preview_addr":
		return cfg.PreviewAddr, nil
	case "debounce_ms":
		return fmt.Sprint(cfg.DebounceMS), nil
	case "session_ttl_minutes":
		return fmt.Sprint(cfg.SessionTTLMinutes), nil
	case "minify":
		return fmt.Sprint(cfg.Minify), nil
	case "log_level":
		return cfg.LogLevel, nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

func configSet(cfg *config.Config, key, value string) error {
	switch key {
	case "default_template":
		cfg.DefaultTemplate = value
	case "database_path":
		cfg.DatabasePath = value
	case "publish_dir":
		cfg.PublishDir = value
	case "public_base_url":
		cfg.PublicBaseURL = value
	case "preview_addr":
		cfg.PreviewAddr = value
	case "log_level":
		cfg.LogLevel = value
	case "debounce_ms", "session_ttl_minutes":
		var n int
		if _, err := fmt.Sscan(value, &n); err != nil {
			return fmt.Errorf("%s must be a number: %w", key, err)
		}
		if key == "debounce_ms" {
			cfg.DebounceMS = n
		} else {
			cfg.SessionTTLMinutes = n
		}
	case "minify":
		cfg.Minify = value == "true"
	default:
		return fmt.Errorf("unknown or read-only key: %s", key)
	}
	return nil
}

func configList(path string, cfg *config.Config) {
	fmt.Fprintln(stdout, titleStyle.Render("Configuration")+" ("+path+")")
	fmt.Fprintln(stdout)
	keys := []string{
		"default_template", "template_paths", "database_path", "publish_dir", "public_base_url",
		"preview_addr", "debounce_ms", "session_ttl_minutes", "minify", "log_level",
	}
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		v, _ := configValue(cfg, k)
		rows = append(rows, []string{k, v})
	}
	fmt.Fprintln(stdout, renderTable([]string{"KEY", "VALUE"}, rows))
}

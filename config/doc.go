// Package config provides configuration structures for state trees and the
// tools around them.
//
// Configuration only exists during initialization. Containers never hold a
// TreeConfig; container.FromConfig turns one into options, resolving the
// observer name through the observability registry.
//
// # Loading
//
// Load reads TOML for ".toml" files, YAML for ".yaml" and ".yml", and JSON
// otherwise. The result is merged over DefaultTreeConfig and validated. A
// missing file yields the defaults:
//
//	cfg, err := config.Load("statetree.toml")
//	opts, err := container.FromConfig(cfg)
//	root := container.New(AppState{}, opts...)
//
// Example TOML:
//
//	name = "todo-app"
//	observer = "slog"
//	log_level = "debug"
//
//	[inspect]
//	enabled = true
//	addr = "127.0.0.1:7790"
//
// # Configuration Merging
//
// Merge copies the fields set in a loaded config over the receiver:
//
//   - Strings: Merge if source is non-empty
//   - Booleans: Merge if source is true
//   - Nested configs: Recursive merge
package config

// Package config loads evsource configuration.
//
// Configuration comes from a TOML file and environment variables, with
// environment variables taking precedence:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← EVSOURCE_LOG_LEVEL, EVSOURCE_DETAIL
//	├─────────────────────────────┤
//	│  2. Config File             │  ← evsource.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # File Format
//
//	[logging]
//	level = "debug"
//
//	[source]
//	detail = -1
//
//	[[types]]
//	name = "FILE"
//	parent = "ANY"
//
//	[[types]]
//	name = "SAVED"
//	parent = "FILE"
//
//	[[listeners]]
//	type = "FILE"
//	script = "listeners/file.lua"
//
// Types may be declared in any order as long as every parent is declared
// somewhere. ANY, EMPTY and ERROR are predefined. Listener scripts are
// resolved relative to the directory of the config file.
package config

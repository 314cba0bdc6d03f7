// Package config loads runtime configuration from multiple sources (YAML files,
// environment variables, CLI flags) with precedence: CLI flags > YAML config >
// Environment variables > Defaults. It covers the HTTP service, the experiment
// runner, the objective weights and the parameters of every search driver.
package config

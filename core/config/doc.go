// Package config loads configuration from the environment and from layered
// sources.
//
// # Environment
//
// Load parses environment variables into a struct with caarlos0/env tags.
// A .env file is read once on first use, and each struct type is parsed once
// and cached:
//
//	type ServerConfig struct {
//		Port int `env:"PORT" envDefault:"8080"`
//	}
//
//	var cfg ServerConfig
//	config.MustLoad(&cfg)
//
// # Layered sources
//
// Read merges Sources into a nested key tree, later sources overriding
// earlier ones, and Manager.Unmarshal decodes it into a struct through
// `config` tags. Keys are dotted chains:
//
//	m, err := config.Read(
//		config.OptionalYAMLFile("quark.yaml"),
//		config.FromArgs(os.Args[1:]), // -tcp.port 9090 -reusePort
//	)
//	if err != nil {
//		return err
//	}
//	err = m.Unmarshal(&cfg)
//
// Unmarshal only touches fields present in the sources, so a struct already
// filled by Load keeps its environment values where no source overrides them.
package config

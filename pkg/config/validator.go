package config

import "fmt"

func validateCustom(config *Config) error {
	if config.History.DefaultLimit > config.History.MaxLimit {
		return fmt.Errorf(
			"history.default_limit (%d) cannot exceed history.max_limit (%d)",
			config.History.DefaultLimit, config.History.MaxLimit,
		)
	}
	if config.Store.Driver == "postgres" && config.Database.ConnString == "" && config.Database.Host == "" {
		return fmt.Errorf("database.conn_string or database.host is required for the postgres store")
	}
	if config.Cache.Driver == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("cache.redis_url is required when cache.driver is redis")
	}
	if config.Database.MaxConns > 0 && config.Database.MinConns > config.Database.MaxConns {
		return fmt.Errorf("database.min_conns cannot exceed database.max_conns")
	}
	return nil
}

package cassandra

import "github.com/vvka-141/transitload/internal/config"

func configFor(hosts ...string) config.CassandraConfig {
	cfg := config.Default().Cassandra
	cfg.Hosts = hosts
	return cfg
}

package connector

import (
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
)

// MySQLCDCConfig describes a MySQL binlog source.
type MySQLCDCConfig struct {
	Host     string `prop:"hostname"`
	Port     int    `prop:"port"`
	User     string `prop:"username"`
	Password string `prop:"password"`
	Database string `prop:"database.name"`
	Table    string `prop:"table.name"`
	ServerID uint32 `prop:"server.id"`
}

func (*MySQLCDCConfig) Connector() string { return MySQLCDC }

func (c *MySQLCDCConfig) Validate() error {
	if err := validateEndpoint(c.Host, c.Port, c.User, c.Database, c.Table); err != nil {
		return err
	}
	if _, err := mysql.ParseDSN(c.DSN()); err != nil {
		return errors.Wrap(err, "invalid mysql dsn")
	}
	return nil
}

// DSN is the go-sql-driver/mysql data source name of the upstream database.
func (c *MySQLCDCConfig) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	cfg.DBName = c.Database
	cfg.ParseTime = true
	cfg.Timeout = 5 * time.Second
	return cfg.FormatDSN()
}

// PostgresCDCConfig describes a Postgres logical replication source.
type PostgresCDCConfig struct {
	Host        string `prop:"hostname"`
	Port        int    `prop:"port"`
	User        string `prop:"username"`
	Password    string `prop:"password"`
	Database    string `prop:"database.name"`
	Schema      string `prop:"schema.name"`
	Table       string `prop:"table.name"`
	SlotName    string `prop:"slot.name"`
	Publication string `prop:"publication.name"`
}

func (*PostgresCDCConfig) Connector() string { return PostgresCDC }

func (c *PostgresCDCConfig) Validate() error {
	if err := validateEndpoint(c.Host, c.Port, c.User, c.Database, c.Table); err != nil {
		return err
	}
	if _, err := c.ConnConfig(); err != nil {
		return err
	}
	return nil
}

// SchemaName defaults to "public".
func (c *PostgresCDCConfig) SchemaName() string {
	if c.Schema == "" {
		return "public"
	}
	return c.Schema
}

func (c *PostgresCDCConfig) ConnString() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Database,
	}
	return u.String()
}

// ConnConfig parses the connection string with pgx.
func (c *PostgresCDCConfig) ConnConfig() (*pgx.ConnConfig, error) {
	cfg, err := pgx.ParseConfig(c.ConnString())
	if err != nil {
		return nil, errors.Wrap(err, "invalid postgres connection string")
	}
	return cfg, nil
}

func validateEndpoint(host string, port int, user, database, table string) error {
	switch {
	case host == "":
		return errors.New("hostname is required")
	case port <= 0 || port > 65535:
		return errors.Newf("port %d is out of range", port)
	case user == "":
		return errors.New("username is required")
	case database == "":
		return errors.New("database.name is required")
	case table == "":
		return errors.New("table.name is required")
	}
	return nil
}

// Package db provides direct database connectivity for whitebox assertions
package db

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	wblog "github.com/celestiaorg/whitebox/internal/logger"
)

// Dialect identifies the SQL backend behind a database URI
type Dialect string

// Supported dialects
const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Engine defaults
const (
	// DefaultConnMaxLifetime recycles pooled connections after an hour
	DefaultConnMaxLifetime = 3600 * time.Second
	// DefaultMySQLPort is appended when the URI host has no port
	DefaultMySQLPort = "3306"
)

// Options represents database connection configuration options
type Options struct {
	// Database replaces the database named in the URI when non-empty
	Database        string
	LogLevel        logger.LogLevel
	ConnMaxLifetime time.Duration
}

func setDefaults(opts Options) Options {
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Silent
	}
	if opts.ConnMaxLifetime == 0 {
		opts.ConnMaxLifetime = DefaultConnMaxLifetime
	}
	return opts
}

// ParseURI converts an SQLAlchemy-style URI (mysql+pymysql://u:p@h/nova,
// postgresql://..., sqlite:///path) into a dialect and a driver DSN.
func ParseURI(uri, database string) (Dialect, string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("invalid database uri: %w", err)
	}

	scheme, _, _ := strings.Cut(u.Scheme, "+")
	switch scheme {
	case "mysql", "mariadb":
		return DialectMySQL, mysqlDSN(u, database), nil
	case "postgres", "postgresql":
		return DialectPostgres, postgresDSN(u, database), nil
	case "sqlite":
		return DialectSQLite, sqlitePath(u), nil
	case "":
		return "", "", fmt.Errorf("database uri %q has no scheme", u.Redacted())
	default:
		return "", "", fmt.Errorf("unsupported database scheme: %s", u.Scheme)
	}
}

func mysqlDSN(u *url.URL, database string) string {
	cfg := mysqldriver.NewConfig()
	cfg.User = u.User.Username()
	cfg.Passwd, _ = u.User.Password()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" {
		cfg.Addr = net.JoinHostPort(u.Hostname(), DefaultMySQLPort)
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if database != "" {
		cfg.DBName = database
	}
	cfg.ParseTime = true

	params := map[string]string{}
	for key, values := range u.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	if len(params) > 0 {
		cfg.Params = params
	}
	return cfg.FormatDSN()
}

func postgresDSN(u *url.URL, database string) string {
	dsn := *u
	dsn.Scheme = "postgres"
	if database != "" {
		dsn.Path = "/" + database
	}
	q := dsn.Query()
	if q.Get("sslmode") == "" {
		q.Set("sslmode", "disable")
	}
	dsn.RawQuery = q.Encode()
	return dsn.String()
}

// sqlitePath follows SQLAlchemy: sqlite:///rel.db is relative,
// sqlite:////abs.db is absolute, an empty path is in-memory.
func sqlitePath(u *url.URL) string {
	path := u.Path
	if u.Opaque != "" {
		path = u.Opaque
	}
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return ":memory:"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path
}

func dialector(dialect Dialect, dsn string) gorm.Dialector {
	switch dialect {
	case DialectMySQL:
		return mysql.Open(dsn)
	case DialectPostgres:
		return postgres.Open(dsn)
	default:
		return sqlite.Open(dsn)
	}
}

// Open creates a new database connection for uri with the given options
func Open(uri string, opts Options) (*gorm.DB, error) {
	opts = setDefaults(opts)

	dialect, dsn, err := ParseURI(uri, opts.Database)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector(dialect, dsn), &gorm.Config{
		Logger: logger.Default.LogMode(opts.LogLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)

	wblog.DebugWithFields("Opened database", map[string]interface{}{
		"dialect":  dialect,
		"database": opts.Database,
	})
	return db, nil
}

// HandleAndMeta opens uri, checks the connection and reflects its schema.
// Every failure is reported as *SQLError.
func HandleAndMeta(ctx context.Context, uri, database string) (*gorm.DB, *Metadata, error) {
	db, err := Open(uri, Options{Database: database})
	if err != nil {
		return nil, nil, &SQLError{Op: "connect", Err: err}
	}

	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		Close(db)
		return nil, nil, &SQLError{Op: "connect", Err: err}
	}

	meta, err := Reflect(ctx, db)
	if err != nil {
		Close(db)
		return nil, nil, &SQLError{Op: "reflect", Err: err}
	}
	return db, meta, nil
}

// Close releases the pool behind db, logging failures.
func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil || sqlDB == nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		wblog.Warnf("Error closing database connection: %v", err)
	}
}

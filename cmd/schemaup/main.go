// Command schemaup migrates a database to the latest version described by a
// YAML schema spec. The exit code follows the result class: 0 on success,
// 2 for a spec error, 1 for a database error.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/octacian/schemaup"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	os.Exit(run())
}

func run() int {
	specPath := flag.String("spec", "schema.yaml", "path to the YAML schema spec")
	driver := flag.String("driver", "sqlite3", "database driver: sqlite3, mysql or postgres")
	dsn := flag.String("dsn", "", "database connection string")
	bootstrap := flag.Int("bootstrap", 0, "install a virgin database at this version instead of the latest")
	quiet := flag.Bool("quiet", false, "suppress progress output")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if *quiet {
		log = zerolog.Nop()
	}

	if *dsn == "" {
		fmt.Fprintln(os.Stderr, "schemaup: -dsn is required")
		flag.Usage()
		return 2
	}

	dialect, err := schemaup.DialectByName(*driver)
	if err != nil {
		fmt.Fprintf(os.Stderr, "schemaup: %s\n", err)
		return 2
	}

	spec, err := schemaup.LoadSpec(*specPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "schemaup: %s\n", err)
		return 2
	}

	database, err := sql.Open(*driver, *dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "schemaup: %s\n", err)
		return 1
	}
	defer func() {
		_ = database.Close()
	}()

	if err := database.Ping(); err != nil {
		fmt.Fprintf(os.Stderr, "schemaup: cannot reach database: %s\n", err)
		return 1
	}

	capability, err := schemaup.NewSQLCapability(database, dialect)
	if err != nil {
		fmt.Fprintf(os.Stderr, "schemaup: %s\n", err)
		return 1
	}

	options := []schemaup.Option{schemaup.WithLogger(log)}
	if *bootstrap > 0 {
		options = append(options, schemaup.WithBootstrapVersion(*bootstrap))
	}

	engine, err := schemaup.New(capability, spec, options...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "schemaup: %s\n", err)
		return 2
	}

	result := engine.Run()
	fmt.Println(result.Message)

	switch result.Code {
	case schemaup.StatusOK:
		return 0
	case schemaup.StatusSpecError:
		return 2
	default:
		return 1
	}
}

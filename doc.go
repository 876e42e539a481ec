/*
Package schemaup brings a database schema to a target version from a
declarative spec and records the version it reached.

Specs

A SchemaSpec describes every buildable version of a schema as plain integer
versions mapped to ordered statement lists. Upgrades[k] transforms version
k-1 into version k; Install builds the latest version directly on an empty
database; InstallAt[k] builds an arbitrary earlier version directly, which
is mostly useful for bootstrapping test databases midway through the
history. Statements are opaque strings: schemaup neither parses nor
validates SQL.

Specs may be built in code or loaded from YAML:

	latest_version: 3
	install:
	  - CREATE TABLE users (id INTEGER PRIMARY KEY, email VARCHAR(255))
	upgrades:
	  2:
	    - ALTER TABLE users ADD COLUMN name VARCHAR(255)
	  3:
	    - CREATE TABLE sessions (id INTEGER PRIMARY KEY, user INTEGER)

Bookkeeping

The current version is stored as a single row in a reserved `meta` table,
('schema_version', '<version>'). A database without the table is treated as
a virgin database at version 0; the table is created inside the first step's
transaction and the row is only ever updated afterward, never deleted.

Steps and atomicity

Each step — an install script or one upgrade — runs inside a single
transaction together with its version bookkeeping write. The first rejected
statement aborts the step and rolls the transaction back, leaving the
database exactly at the version it held before. Databases without
transactional DDL may still expose partial effects after a rollback; that
limitation belongs to the database, not to the engine. Failed runs are
resumable: the next run picks up from the last committed version.

Basics

Open a database connection, wrap it in a capability and run the engine:

	database, _ := sql.Open("sqlite3", "app.db")
	defer database.Close()

	capability, err := schemaup.NewSQLCapability(database, schemaup.SQLite)
	if err != nil {
		panic(err)
	}

	spec, err := schemaup.LoadSpec("schema.yaml")
	if err != nil {
		panic(err)
	}

	engine, err := schemaup.New(capability, spec)
	if err != nil {
		panic(err)
	}

	result := engine.Run()
	fmt.Println(result.Code, result.Message) // Output: 200 database migrated from version 0 to 3

Result codes follow HTTP: 200 for success (including the no-op of an
already-current database), 400 for an inconsistent spec, 500 for a database
failure. Downgrades are not supported; a database newer than the spec's
latest version is reported as a 500 without touching the schema.

Run is single-threaded and assumes it is the only writer. Running two
migrations concurrently against one database is undefined behavior;
serialize runs externally, for example by migrating at process startup.
*/
package schemaup

package schemaup

import "fmt"

// Bookkeeping lives in a single name/value table. The engine owns exactly
// one row of it and never deletes it once written.
const (
	// MetaTable is the reserved name of the bookkeeping table.
	MetaTable = "meta"

	// VersionKey is the bookkeeping row holding the schema version.
	VersionKey = "schema_version"
)

const (
	createMetaSQL = "CREATE TABLE " + MetaTable +
		" (name VARCHAR(64) NOT NULL PRIMARY KEY, value VARCHAR(255))"
	seedVersionSQL = "INSERT INTO " + MetaTable +
		" (name, value) VALUES ('" + VersionKey + "', '0')"
	selectVersionSQL = "SELECT value FROM " + MetaTable +
		" WHERE name = '" + VersionKey + "'"
)

// Step is one atomic unit of work: the statements that move the schema to
// Version, plus the version bookkeeping write, all inside one transaction.
// Steps are resolved one at a time and discarded after application; they
// carry no identity across engine runs.
type Step struct {
	// Version is recorded in the bookkeeping table when the step commits.
	Version int

	// Statements run in order; the first one the database rejects aborts
	// the step.
	Statements []string

	// CreateMeta is set on the very first step of a virgin database, making
	// the step create and seed the bookkeeping table inside its own
	// transaction before running Statements.
	CreateMeta bool
}

// applyStep runs one step inside a single transaction. On any failure the
// whole transaction is rolled back, leaving the database at the version it
// held before the step began, and the driver's error is surfaced tagged with
// the version being transitioned to. Engines without transactional DDL may
// still observe partial effects after a rollback; that is a property of the
// database, not of the step.
func applyStep(capability Capability, step *Step) error {
	tx, err := capability.Begin()
	if err != nil {
		return NewExecError(step.Version, "begin transaction", err)
	}

	abort := func(op string, cause error) error {
		_ = tx.Rollback()
		return NewExecError(step.Version, op, cause)
	}

	if step.CreateMeta {
		if err := tx.Execute(createMetaSQL); err != nil {
			return abort("create bookkeeping table", err)
		}
		if err := tx.Execute(seedVersionSQL); err != nil {
			return abort("seed bookkeeping table", err)
		}
	}

	for index, statement := range step.Statements {
		if err := tx.Execute(statement); err != nil {
			return abort(fmt.Sprintf("statement %d of %d", index+1, len(step.Statements)), err)
		}
	}

	update := fmt.Sprintf("UPDATE %s SET value = '%d' WHERE name = '%s'",
		MetaTable, step.Version, VersionKey)
	if err := tx.Execute(update); err != nil {
		return abort("record schema version", err)
	}

	if err := tx.Commit(); err != nil {
		return abort("commit transaction", err)
	}

	return nil
}

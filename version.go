package schemaup

import (
	"fmt"
	"strconv"
)

// readVersion determines the database's current schema version. A database
// without the bookkeeping table is a virgin database at version 0; the
// second return reports whether the table existed, which the engine uses to
// know the first step must create it. A bookkeeping table that exists but
// holds no version row, or holds one that is not an integer, is an
// inconsistency this engine does not tolerate.
func readVersion(capability Capability) (int, bool, error) {
	tables, err := capability.ListTables(MetaTable)
	if err != nil {
		return 0, false, NewExecError(0, "list tables", err)
	}

	found := false
	for _, name := range tables {
		if name == MetaTable {
			found = true
			break
		}
	}

	if !found {
		return 0, false, nil
	}

	value, ok, err := capability.QueryScalar(selectVersionSQL)
	if err != nil {
		return 0, true, NewExecError(0, "read schema version", err)
	}

	if !ok {
		return 0, true, NewExecError(0, "read schema version",
			fmt.Errorf("bookkeeping table '%s' exists but holds no '%s' row", MetaTable, VersionKey))
	}

	version, err := strconv.Atoi(value)
	if err != nil {
		return 0, true, NewExecError(0, "read schema version",
			fmt.Errorf("bookkeeping value '%s' is not an integer", value))
	}

	return version, true, nil
}

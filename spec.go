package schemaup

import (
	"fmt"
	"sort"
)

// SchemaSpec declares every version of a schema the engine knows how to
// build. It is read-only input: the engine never mutates it.
//
// Versions are plain positive integers. Upgrades[k] transforms a database at
// version k-1 into version k; Upgrades[1] builds version 1 from nothing.
// Install builds the schema directly at the latest version, skipping the
// incremental history. InstallAt[k] builds the schema directly at an earlier
// version k, which is mostly useful for bootstrapping test databases at a
// known point in the history.
type SchemaSpec struct {
	// LatestVersion is the version the engine migrates toward. When zero it
	// is derived as the highest Upgrades key, defaulting to 1.
	LatestVersion int

	// Install holds the statements that build the schema at LatestVersion
	// on a virgin database. Optional.
	Install []string

	// InstallAt maps a version to the statements that build the schema
	// directly at that version. Optional.
	InstallAt map[int][]string

	// Upgrades maps a version k to the statements that transform a database
	// at version k-1 into version k.
	Upgrades map[int][]string
}

// Latest returns the version the engine migrates toward: the explicit
// LatestVersion when set, else the highest upgrade key, else 1.
func (spec *SchemaSpec) Latest() int {
	if spec.LatestVersion > 0 {
		return spec.LatestVersion
	}

	latest := 1
	for version := range spec.Upgrades {
		if version > latest {
			latest = version
		}
	}

	return latest
}

// Validate checks the spec for authoring errors that no database run could
// surface sensibly: non-positive version keys and empty statement lists. It
// does not require the upgrade chain to be complete; a missing step is only
// an error if a migration actually has to pass through it. Pinning
// LatestVersion below the highest upgrade defined is allowed and holds the
// database at that version.
func (spec *SchemaSpec) Validate() error {
	if spec.LatestVersion < 0 {
		return NewSpecErrorf("SchemaSpec.Validate: got negative latest version '%d'", spec.LatestVersion)
	}

	for _, version := range sortedVersions(spec.Upgrades) {
		if version < 1 {
			return NewSpecErrorf("SchemaSpec.Validate: got disallowed upgrade version '%d', "+
				"versions start at 1", version)
		}
		if len(spec.Upgrades[version]) == 0 {
			return NewSpecErrorf("SchemaSpec.Validate: upgrade to version %d contains no statements", version)
		}
	}

	for _, version := range sortedVersions(spec.InstallAt) {
		if version < 1 {
			return NewSpecErrorf("SchemaSpec.Validate: got disallowed install version '%d', "+
				"versions start at 1", version)
		}
		if len(spec.InstallAt[version]) == 0 {
			return NewSpecErrorf("SchemaSpec.Validate: install at version %d contains no statements", version)
		}
	}

	return nil
}

// stepFrom resolves the step that moves a database at the given version
// toward the latest. It returns nil when the database is already there.
// bootstrapAt requests installing a virgin database at a specific version
// instead of the latest; zero means no override.
//
// Resolution order for a virgin database: the bootstrap override, then the
// direct install script, then Upgrades[1] as an ordinary incremental step.
// The fallback stays strictly incremental; it never shortcuts to the latest
// version the way Install does.
func (spec *SchemaSpec) stepFrom(current, bootstrapAt int) (*Step, error) {
	latest := spec.Latest()

	// Downgrades are never performed; a database newer than the spec is
	// refused outright.
	if current > latest {
		return nil, fmt.Errorf("database is at version %d but the spec only describes up to version %d",
			current, latest)
	}

	if current == latest {
		return nil, nil
	}

	if current == 0 {
		if bootstrapAt > 0 {
			statements, ok := spec.InstallAt[bootstrapAt]
			if !ok {
				return nil, NewSpecErrorf("cannot install at version %d, "+
					"spec holds no install script for it", bootstrapAt)
			}
			return &Step{Version: bootstrapAt, Statements: statements, CreateMeta: true}, nil
		}

		if len(spec.Install) > 0 {
			return &Step{Version: latest, Statements: spec.Install, CreateMeta: true}, nil
		}

		if statements, ok := spec.Upgrades[1]; ok {
			return &Step{Version: 1, Statements: statements, CreateMeta: true}, nil
		}

		return nil, NewSpecErrorf("cannot install: spec holds neither an install " +
			"script nor an upgrade to version 1")
	}

	next := current + 1
	statements, ok := spec.Upgrades[next]
	if !ok {
		return nil, NewSpecErrorf("cannot upgrade from version %d to %d, "+
			"spec holds no upgrade step for it", current, next)
	}

	return &Step{Version: next, Statements: statements}, nil
}

func sortedVersions(m map[int][]string) []int {
	versions := make([]int, 0, len(m))
	for version := range m {
		versions = append(versions, version)
	}
	sort.Ints(versions)
	return versions
}

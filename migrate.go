package schemaup

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Status codes carried by Result, loosely modeled on HTTP: the spec was
// wrong (400), the database was wrong (500), or everything went fine (200).
const (
	// StatusOK reports a completed migration, including the no-op case of a
	// database already at the latest version.
	StatusOK = 200

	// StatusSpecError reports an inconsistent SchemaSpec. No mutation was
	// attempted beyond steps that had already committed.
	StatusSpecError = 400

	// StatusExecError reports a database failure. Progress up to the last
	// committed step is durable; the failed step was rolled back.
	StatusExecError = 500
)

// Result is the outcome of one engine run. Version is the schema version
// actually reached, which on failure is the last successfully committed
// version, never the target that failed.
type Result struct {
	Code        int
	Message     string
	Version     int
	FromVersion int
}

// OK reports whether the run completed successfully.
func (result Result) OK() bool {
	return result.Code == StatusOK
}

// Engine migrates a database to the latest version its SchemaSpec describes.
// It is invoked once, typically at process startup, and owns the database
// connection for the duration of the run. The engine performs no locking
// against concurrent migrations from other processes; serializing runs is
// the caller's responsibility.
type Engine struct {
	capability  Capability
	spec        *SchemaSpec
	log         zerolog.Logger
	bootstrapAt int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the diagnostic sink. Without it the engine is silent.
func WithLogger(log zerolog.Logger) Option {
	return func(engine *Engine) {
		engine.log = log
	}
}

// WithBootstrapVersion makes a run against a virgin database install the
// schema at the given version via the spec's InstallAt script instead of the
// direct install path, then upgrade incrementally from there. It has no
// effect on a database that already holds a version.
func WithBootstrapVersion(version int) Option {
	return func(engine *Engine) {
		engine.bootstrapAt = version
	}
}

// New builds an Engine. It returns an error for a nil capability, a nil
// spec, or a spec that fails validation.
func New(capability Capability, spec *SchemaSpec, options ...Option) (*Engine, error) {
	if capability == nil {
		return nil, fmt.Errorf("New: got nil capability")
	}

	if spec == nil {
		return nil, fmt.Errorf("New: got nil spec")
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	engine := &Engine{capability: capability, spec: spec, log: zerolog.Nop()}
	for _, option := range options {
		option(engine)
	}

	return engine, nil
}

// Run brings the database to the latest version the spec describes,
// applying zero or more steps, each in its own transaction. It always
// returns a Result; a failed step stops the run and reports the version
// reached so far. Re-running after a failure resumes from the last
// committed version.
func (engine *Engine) Run() Result {
	current, hasMeta, err := readVersion(engine.capability)
	if err != nil {
		return engine.failed(0, 0, err)
	}

	latest := engine.spec.Latest()
	from := current

	engine.log.Info().
		Int("current", current).
		Int("latest", latest).
		Msg("starting migration")

	for {
		step, err := engine.spec.stepFrom(current, engine.bootstrapAt)
		if err != nil {
			return engine.failed(from, current, err)
		}

		if step == nil {
			break
		}

		// The resolver marks virgin-database steps as needing the
		// bookkeeping table; skip that when the table is already there.
		step.CreateMeta = step.CreateMeta && !hasMeta

		engine.log.Info().
			Int("from", current).
			Int("to", step.Version).
			Int("statements", len(step.Statements)).
			Msg("applying step")

		if err := applyStep(engine.capability, step); err != nil {
			return engine.failed(from, current, err)
		}

		current = step.Version
		hasMeta = true
	}

	message := fmt.Sprintf("database migrated from version %d to %d", from, current)
	if from == current {
		message = fmt.Sprintf("database already at version %d", current)
	}

	engine.log.Info().
		Int("from", from).
		Int("version", current).
		Msg("migration complete")

	return Result{Code: StatusOK, Message: message, Version: current, FromVersion: from}
}

// failed classifies an error into a Result. Spec inconsistencies are 400;
// everything else, including the version-skew case, is a database-side 500.
func (engine *Engine) failed(from, lastGood int, err error) Result {
	code := StatusExecError

	var specErr *SpecError
	if errors.As(err, &specErr) {
		code = StatusSpecError
	}

	engine.log.Error().
		Int("version", lastGood).
		Int("code", code).
		Err(err).
		Msg("migration failed")

	return Result{Code: code, Message: err.Error(), Version: lastGood, FromVersion: from}
}

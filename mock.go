package schemaup

// MockCapability is a configurable in-memory Capability for tests. Each
// method calls the corresponding Func field when set and otherwise succeeds
// benignly; calls are recorded either way. It lets tests cover paths a real
// database is reluctant to produce, like a failing Begin or Commit.
//
// The zero value is usable: ListTables reports no tables, QueryScalar
// reports no rows, Execute succeeds and Begin hands out a fresh MockTx.
type MockCapability struct {
	// ListTablesFunc is called by ListTables if set.
	ListTablesFunc func(pattern string) ([]string, error)

	// QueryScalarFunc is called by QueryScalar if set.
	QueryScalarFunc func(query string) (string, bool, error)

	// ExecuteFunc is called by Execute if set.
	ExecuteFunc func(statement string) error

	// BeginFunc is called by Begin if set.
	BeginFunc func() (Tx, error)

	// Call tracking
	ListTablesCalls  []string
	QueryScalarCalls []string
	ExecuteCalls     []string
	BeginCalls       int

	// Txs holds every MockTx handed out by the default Begin, in order.
	Txs []*MockTx
}

// ListTables implements Capability.
func (mock *MockCapability) ListTables(pattern string) ([]string, error) {
	mock.ListTablesCalls = append(mock.ListTablesCalls, pattern)
	if mock.ListTablesFunc != nil {
		return mock.ListTablesFunc(pattern)
	}
	return nil, nil
}

// QueryScalar implements Capability.
func (mock *MockCapability) QueryScalar(query string) (string, bool, error) {
	mock.QueryScalarCalls = append(mock.QueryScalarCalls, query)
	if mock.QueryScalarFunc != nil {
		return mock.QueryScalarFunc(query)
	}
	return "", false, nil
}

// Execute implements Capability.
func (mock *MockCapability) Execute(statement string) error {
	mock.ExecuteCalls = append(mock.ExecuteCalls, statement)
	if mock.ExecuteFunc != nil {
		return mock.ExecuteFunc(statement)
	}
	return nil
}

// Begin implements Capability.
func (mock *MockCapability) Begin() (Tx, error) {
	mock.BeginCalls++
	if mock.BeginFunc != nil {
		return mock.BeginFunc()
	}

	tx := &MockTx{}
	mock.Txs = append(mock.Txs, tx)
	return tx, nil
}

// MockTx is the transaction counterpart of MockCapability.
type MockTx struct {
	// ExecuteFunc is called by Execute if set.
	ExecuteFunc func(statement string) error

	// CommitFunc is called by Commit if set.
	CommitFunc func() error

	// RollbackFunc is called by Rollback if set.
	RollbackFunc func() error

	// Call tracking
	Statements []string
	Commits    int
	Rollbacks  int
}

// Execute implements Tx.
func (tx *MockTx) Execute(statement string) error {
	tx.Statements = append(tx.Statements, statement)
	if tx.ExecuteFunc != nil {
		return tx.ExecuteFunc(statement)
	}
	return nil
}

// Commit implements Tx.
func (tx *MockTx) Commit() error {
	tx.Commits++
	if tx.CommitFunc != nil {
		return tx.CommitFunc()
	}
	return nil
}

// Rollback implements Tx.
func (tx *MockTx) Rollback() error {
	tx.Rollbacks++
	if tx.RollbackFunc != nil {
		return tx.RollbackFunc()
	}
	return nil
}

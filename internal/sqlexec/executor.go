package sqlexec

import (
	"strings"

	"github.com/ferrumdb/ferrum/internal/ferrors"
	"github.com/ferrumdb/ferrum/internal/persistence"
	"github.com/ferrumdb/ferrum/internal/sessions"
	"github.com/ferrumdb/ferrum/internal/sqlfront"
)

// Result is what one executed statement produces: an optional result table
// (SELECT) and/or an optional processed-row count (SELECT, INSERT, UPDATE,
// DELETE and DROP DATABASE)
// (spec.md §2: "result value (optional result table plus a processed-row
// count)").
type Result struct {
	Table        *persistence.TableReader
	RowCount     *int
	TableNames   []string
	DatabaseName string
}

// Executor drives a Session through one parsed statement at a time.
type Executor struct {
	session   *sessions.Session
	functions persistence.FunctionResolver
}

// New returns an Executor bound to session, resolving functions through
// resolver.
func New(session *sessions.Session, resolver persistence.FunctionResolver) *Executor {
	return &Executor{session: session, functions: resolver}
}

// Execute parses and runs one statement of text end to end.
func (x *Executor) Execute(text string) (*Result, error) {
	stmt, err := sqlfront.Parse(text)
	if err != nil {
		return nil, err
	}
	return x.ExecuteStatement(stmt)
}

// ExecuteStatement runs one already-translated statement.
func (x *Executor) ExecuteStatement(stmt any) (*Result, error) {
	switch s := stmt.(type) {
	case *sqlfront.SelectStatement:
		return x.execSelect(s)
	case *sqlfront.InsertStatement:
		return x.execInsert(s)
	case *sqlfront.UpdateStatement:
		return x.execUpdate(s)
	case *sqlfront.DeleteStatement:
		return x.execDelete(s)
	case *sqlfront.CreateTableStatement:
		return x.execCreateTable(s)
	case *sqlfront.CreateDatabaseStatement:
		return x.execCreateDatabase(s)
	case *sqlfront.DropDatabaseStatement:
		return x.execDropDatabase(s)
	case *sqlfront.UseStatement:
		return x.execUse(s)
	case *sqlfront.ShowTablesStatement:
		return x.execShowTables()
	case *sqlfront.ShowDatabasesStatement:
		return x.execShowDatabases()
	default:
		return nil, ferrors.NewUnsupported("unsupported statement")
	}
}

func countResult(n int) *Result {
	return &Result{RowCount: &n}
}

// projectionMode classifies a SELECT's projection list, rejecting a list
// that mixes columns with aggregators (spec.md §4.8).
type projectionMode int

const (
	modeColumn projectionMode = iota
	modeAggregate
)

func classifyProjections(projections []sqlfront.Projection) (projectionMode, error) {
	hasAggregate, hasColumn := false, false
	for _, p := range projections {
		if p.IsFunction && isAggregateName(p.FuncName) {
			hasAggregate = true
		} else {
			hasColumn = true
		}
	}
	if hasAggregate && hasColumn {
		return 0, ferrors.NewUnsupported("cannot mix aggregate functions with plain columns in one SELECT")
	}
	if hasAggregate {
		return modeAggregate, nil
	}
	return modeColumn, nil
}

// isAggregateName reports whether name is one of the built-in aggregate
// function names, used only to classify a SELECT's mode; the actual
// dispatch goes through the functions registry.
func isAggregateName(name string) bool {
	switch strings.ToUpper(name) {
	case "COUNT", "MIN", "MAX":
		return true
	default:
		return false
	}
}

func (x *Executor) execSelect(stmt *sqlfront.SelectStatement) (*Result, error) {
	db, err := x.session.GetActiveDatabase()
	if err != nil {
		return nil, err
	}
	table, err := db.GetTable(stmt.Table)
	if err != nil {
		return nil, err
	}

	mode, err := classifyProjections(stmt.Projections)
	if err != nil {
		return nil, err
	}

	if mode == modeAggregate {
		calls := make([]persistence.AggregateCall, len(stmt.Projections))
		for i, p := range stmt.Projections {
			calls[i] = persistence.AggregateCall{FuncName: p.FuncName, Wildcard: p.Wildcard, Column: p.Column, Alias: p.Alias}
		}
		reader, err := table.PerformAggregate(x.functions, calls)
		if err != nil {
			return nil, err
		}
		n := reader.Len()
		return &Result{Table: reader, RowCount: &n}, nil
	}

	reader := table.Reader()

	wantsAll := false
	var columnNames []string
	var scalarCalls []persistence.ScalarCall
	for _, p := range stmt.Projections {
		switch {
		case p.IsFunction:
			scalarCalls = append(scalarCalls, persistence.ScalarCall{FuncName: p.FuncName, Column: p.Column, Args: p.Args, Alias: p.Alias})
		case p.Column == "*":
			wantsAll = true
		default:
			columnNames = append(columnNames, p.Column)
		}
	}

	if stmt.Where != nil {
		pred, err := compilePredicate(stmt.Where, table.Schema())
		if err != nil {
			return nil, err
		}
		reader = reader.Filter(pred)
	}

	if !wantsAll && len(columnNames) > 0 {
		projected, err := reader.Select(columnNames)
		if err != nil {
			return nil, err
		}
		reader = projected
	}

	if len(scalarCalls) > 0 {
		applied, err := reader.PerformFunction(x.functions, scalarCalls)
		if err != nil {
			return nil, err
		}
		reader = applied
	}

	if len(stmt.OrderBy) > 0 {
		terms, allSpecified := resolveOrderTerms(stmt.OrderBy, reader.Schema())
		if allSpecified {
			reader = reader.OrderBy(terms)
		}
	}

	if stmt.Limit != nil {
		reader = reader.Limit(*stmt.Limit)
	}
	if stmt.Offset != nil {
		reader = reader.Offset(*stmt.Offset)
	}

	n := reader.Len()
	return &Result{Table: reader, RowCount: &n}, nil
}

// resolveOrderTerms resolves each ORDER BY key's column name to a schema
// index. allSpecified is false if any key's direction was never set by the
// source AST, per spec.md §4.4's pass-through rule — the caller must then
// skip calling OrderBy entirely rather than applying a partial sort.
func resolveOrderTerms(keys []sqlfront.OrderKey, schema *persistence.Schema) ([]persistence.OrderTerm, bool) {
	terms := make([]persistence.OrderTerm, 0, len(keys))
	allSpecified := true
	for _, key := range keys {
		if key.Direction == sqlfront.Unspecified {
			allSpecified = false
		}
		idx, ok := schema.IndexOf(key.Column)
		if !ok {
			idx = -1
		}
		terms = append(terms, persistence.OrderTerm{ColumnIndex: idx, Ascending: key.Direction != sqlfront.Descending})
	}
	return terms, allSpecified
}

func (x *Executor) execInsert(stmt *sqlfront.InsertStatement) (*Result, error) {
	db, err := x.session.GetActiveDatabase()
	if err != nil {
		return nil, err
	}
	count, err := db.InsertManyIntoTable(stmt.Table, stmt.Rows)
	if err != nil {
		return nil, err
	}
	return countResult(count), nil
}

func (x *Executor) execUpdate(stmt *sqlfront.UpdateStatement) (*Result, error) {
	db, err := x.session.GetActiveDatabase()
	if err != nil {
		return nil, err
	}
	table, err := db.GetTable(stmt.Table)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]string, len(stmt.Assignments))
	for _, a := range stmt.Assignments {
		updates[a.Column] = a.Value
	}

	if stmt.Where == nil {
		count, err := db.UpdateTableSetAll(stmt.Table, updates)
		if err != nil {
			return nil, err
		}
		return countResult(count), nil
	}

	pred, err := compilePredicate(stmt.Where, table.Schema())
	if err != nil {
		return nil, err
	}
	count, err := db.UpdateTableSetWithFilters(stmt.Table, pred, updates)
	if err != nil {
		return nil, err
	}
	return countResult(count), nil
}

func (x *Executor) execDelete(stmt *sqlfront.DeleteStatement) (*Result, error) {
	db, err := x.session.GetActiveDatabase()
	if err != nil {
		return nil, err
	}

	if stmt.Where == nil {
		count, err := db.DeleteFromTableWithFilter(stmt.Table, nil)
		if err != nil {
			return nil, err
		}
		return countResult(count), nil
	}

	table, err := db.GetTable(stmt.Table)
	if err != nil {
		return nil, err
	}
	pred, err := compilePredicate(stmt.Where, table.Schema())
	if err != nil {
		return nil, err
	}
	count, err := db.DeleteFromTableWithFilter(stmt.Table, pred)
	if err != nil {
		return nil, err
	}
	return countResult(count), nil
}

// columnDefinitionToken renders a translated column definition back into
// the engine's "name type [key] [ref]" grammar (spec.md §4.8).
func columnDefinitionToken(def sqlfront.ColumnDefinition) string {
	token := def.Name + " " + def.Type
	switch {
	case def.PrimaryKey:
		token += " pk"
	case def.ForeignKey != "":
		token += " fk " + def.ForeignKey
	}
	return token
}

func (x *Executor) execCreateTable(stmt *sqlfront.CreateTableStatement) (*Result, error) {
	db, err := x.session.GetActiveDatabase()
	if err != nil {
		return nil, err
	}
	defs := make([]string, len(stmt.Columns))
	for i, col := range stmt.Columns {
		defs[i] = columnDefinitionToken(col)
	}
	if err := db.CreateTable(stmt.Table, defs, stmt.IfNotExists); err != nil {
		return nil, err
	}
	return &Result{}, nil
}

func (x *Executor) execCreateDatabase(stmt *sqlfront.CreateDatabaseStatement) (*Result, error) {
	if _, err := x.session.CreateDatabase(stmt.Name, stmt.IfNotExists); err != nil {
		return nil, err
	}
	return &Result{}, nil
}

func (x *Executor) execDropDatabase(stmt *sqlfront.DropDatabaseStatement) (*Result, error) {
	removed := x.session.DropDatabase(stmt.Name)
	count := 0
	if removed {
		count = 1
	}
	return countResult(count), nil
}

func (x *Executor) execUse(stmt *sqlfront.UseStatement) (*Result, error) {
	if err := x.session.UseDatabase(stmt.Name); err != nil {
		return nil, err
	}
	return &Result{DatabaseName: stmt.Name}, nil
}

func (x *Executor) execShowTables() (*Result, error) {
	db, err := x.session.GetActiveDatabase()
	if err != nil {
		return nil, err
	}
	return &Result{TableNames: db.GetTableNames()}, nil
}

func (x *Executor) execShowDatabases() (*Result, error) {
	return &Result{TableNames: x.session.GetAvailableDatabases()}, nil
}

package persistence

import (
	"sync"

	"github.com/ferrumdb/ferrum/internal/ferrors"
)

// Database is a named collection of tables. Table creation and lookup are
// guarded by tablesMu; once a *Table is obtained, all further row-level
// concurrency is the Table's own concern (spec.md §5: database-level and
// table-level locks are never nested).
type Database struct {
	name      string
	tablesMu  sync.RWMutex
	tables    map[string]*Table
	tableOrder []string
}

// NewDatabase returns an empty, named Database.
func NewDatabase(name string) *Database {
	return &Database{name: name, tables: make(map[string]*Table)}
}

// Name returns the database's name.
func (d *Database) Name() string { return d.name }

// CreateTable parses columnDefs into a new Table, resolves every declared
// foreign key against a table already present in this database, and
// registers it. If ifNotExists is true and the table already exists, this
// is a no-op rather than a CatalogError (spec.md §4.5).
func (d *Database) CreateTable(name string, columnDefs []string, ifNotExists bool) error {
	d.tablesMu.Lock()
	defer d.tablesMu.Unlock()

	if _, exists := d.tables[name]; exists {
		if ifNotExists {
			return nil
		}
		return ferrors.NewCatalog("table %q already exists in database %q", name, d.name)
	}

	table, err := NewTable(name, columnDefs)
	if err != nil {
		return err
	}

	for _, fk := range table.Schema().ForeignKeys() {
		referent, ok := d.tables[fk.Constraint.TableName]
		if !ok {
			return ferrors.NewReferential("foreign key on table %q references unknown table %q", name, fk.Constraint.TableName)
		}
		referentIdx, ok := referent.Schema().IndexOf(fk.Constraint.ColumnName)
		if !ok {
			return ferrors.NewReferential("foreign key on table %q references unknown column %q.%q",
				name, fk.Constraint.TableName, fk.Constraint.ColumnName)
		}
		table.Schema().ResolveForeignKeyIndex(fk.Index, referentIdx)
	}

	d.tables[name] = table
	d.tableOrder = append(d.tableOrder, name)
	return nil
}

// GetTable returns the named table, or a CatalogError if it does not exist.
func (d *Database) GetTable(name string) (*Table, error) {
	d.tablesMu.RLock()
	defer d.tablesMu.RUnlock()
	table, ok := d.tables[name]
	if !ok {
		return nil, ferrors.NewCatalog("table %q does not exist in database %q", name, d.name)
	}
	return table, nil
}

// ContainsTable reports whether name is a registered table.
func (d *Database) ContainsTable(name string) bool {
	d.tablesMu.RLock()
	defer d.tablesMu.RUnlock()
	_, ok := d.tables[name]
	return ok
}

// GetTableNames returns every table name in creation order.
func (d *Database) GetTableNames() []string {
	d.tablesMu.RLock()
	defer d.tablesMu.RUnlock()
	out := make([]string, len(d.tableOrder))
	copy(out, d.tableOrder)
	return out
}

// checkForeignKeys validates every non-empty foreign-key cell in values
// against its resolved referent table, before the row is ever written
// (spec.md §4.1: "a value that fails its foreign key check is rejected").
func (d *Database) checkForeignKeys(table *Table, columnIndices []int, values []string) error {
	for _, idx := range columnIndices {
		col, ok := table.Schema().At(idx)
		if !ok || col.Info.ForeignKey == nil || !col.Info.ForeignKey.Resolved {
			continue
		}
		value := values[idx]
		if value == "" {
			continue
		}
		referent, err := d.GetTable(col.Info.ForeignKey.TableName)
		if err != nil {
			return ferrors.NewReferential("foreign key %q.%q: %v", table.Name(), col.Name, err)
		}
		if !referent.PkExists(col.Info.ForeignKey.ColumnIndex, value) {
			return ferrors.NewReferential("foreign key %q.%q: no row in %q matches value %q",
				table.Name(), col.Name, col.Info.ForeignKey.TableName, value)
		}
	}
	return nil
}

// foreignKeyColumnIndices returns the column indices of table that declare a
// foreign key, used so insert/update validate only relevant columns.
func foreignKeyColumnIndices(table *Table) []int {
	var out []int
	for _, fk := range table.Schema().ForeignKeys() {
		out = append(out, fk.Index)
	}
	return out
}

// InsertIntoTable validates foreign keys and inserts one row.
func (d *Database) InsertIntoTable(tableName string, values []string) (Row, error) {
	table, err := d.GetTable(tableName)
	if err != nil {
		return Row{}, err
	}
	if err := d.checkForeignKeys(table, foreignKeyColumnIndices(table), values); err != nil {
		return Row{}, err
	}
	return table.Insert(values)
}

// InsertManyIntoTable validates and inserts each row in order, stopping at
// the first failure (spec.md §4.3 non-atomic bulk insert).
func (d *Database) InsertManyIntoTable(tableName string, rowsValues [][]string) (int, error) {
	table, err := d.GetTable(tableName)
	if err != nil {
		return 0, err
	}
	fkCols := foreignKeyColumnIndices(table)

	count := 0
	for _, values := range rowsValues {
		if err := d.checkForeignKeys(table, fkCols, values); err != nil {
			return count, err
		}
		if _, err := table.Insert(values); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// updatedForeignKeyIndices returns which of table's foreign-key columns are
// targeted by updates, so only those need a referential check.
func updatedForeignKeyIndices(table *Table, updates map[string]string) []int {
	var out []int
	for _, fk := range table.Schema().ForeignKeys() {
		col, _ := table.Schema().At(fk.Index)
		if _, touched := updates[col.Name]; touched {
			out = append(out, fk.Index)
		}
	}
	return out
}

// UpdateTableSet applies updates to the single row identified by pkParts.
func (d *Database) UpdateTableSet(tableName string, pkParts []string, updates map[string]string) (int, error) {
	table, err := d.GetTable(tableName)
	if err != nil {
		return 0, err
	}
	if fkCols := updatedForeignKeyIndices(table, updates); len(fkCols) > 0 {
		values := make([]string, table.Schema().Len())
		for name, v := range updates {
			if idx, ok := table.Schema().IndexOf(name); ok {
				values[idx] = v
			}
		}
		if err := d.checkForeignKeys(table, fkCols, values); err != nil {
			return 0, err
		}
	}
	return table.Update(pkParts, updates)
}

// UpdateTableSetAll applies updates to every row in the table, non-atomically.
func (d *Database) UpdateTableSetAll(tableName string, updates map[string]string) (int, error) {
	table, err := d.GetTable(tableName)
	if err != nil {
		return 0, err
	}
	if fkCols := updatedForeignKeyIndices(table, updates); len(fkCols) > 0 {
		values := make([]string, table.Schema().Len())
		for name, v := range updates {
			if idx, ok := table.Schema().IndexOf(name); ok {
				values[idx] = v
			}
		}
		if err := d.checkForeignKeys(table, fkCols, values); err != nil {
			return 0, err
		}
	}
	return table.UpdateAll(updates)
}

// UpdateTableSetWithFilters updates every row matching pred, using the
// table's own two-pass filter-then-write discipline. Returns the number of
// rows updated before any failure (spec.md §4.3, §5).
func (d *Database) UpdateTableSetWithFilters(tableName string, pred RowPredicate, updates map[string]string) (int, error) {
	table, err := d.GetTable(tableName)
	if err != nil {
		return 0, err
	}
	if fkCols := updatedForeignKeyIndices(table, updates); len(fkCols) > 0 {
		values := make([]string, table.Schema().Len())
		for name, v := range updates {
			if idx, ok := table.Schema().IndexOf(name); ok {
				values[idx] = v
			}
		}
		if err := d.checkForeignKeys(table, fkCols, values); err != nil {
			return 0, err
		}
	}

	keys := table.FilterRows(pred)
	count := 0
	for _, pk := range keys {
		if _, err := table.Update(pk, updates); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// DeleteFromTableValue removes the single row identified by pkParts.
func (d *Database) DeleteFromTableValue(tableName string, pkParts []string) (Row, error) {
	table, err := d.GetTable(tableName)
	if err != nil {
		return Row{}, err
	}
	return table.Delete(pkParts)
}

// DeleteFromTableValues removes each row identified by the given primary
// keys, stopping at the first failure (bulk form of DeleteFromTableValue).
func (d *Database) DeleteFromTableValues(tableName string, pkPartsList [][]string) (int, error) {
	table, err := d.GetTable(tableName)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, pkParts := range pkPartsList {
		if _, err := table.Delete(pkParts); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// DeleteFromTableWithFilter removes every row matching pred if pred is
// non-nil, or every row in the table if pred is nil (spec.md §4.5).
func (d *Database) DeleteFromTableWithFilter(tableName string, pred RowPredicate) (int, error) {
	table, err := d.GetTable(tableName)
	if err != nil {
		return 0, err
	}
	if pred == nil {
		return table.DeleteAll(), nil
	}
	return table.DeleteWithFilter(pred)
}

// DeleteAllFromTable removes every row from the named table.
func (d *Database) DeleteAllFromTable(tableName string) (int, error) {
	table, err := d.GetTable(tableName)
	if err != nil {
		return 0, err
	}
	return table.DeleteAll(), nil
}

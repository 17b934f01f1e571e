package sqlfront

import (
	"strings"

	"github.com/ferrumdb/ferrum/internal/ferrors"
)

// parseCommand recognizes Ferrum's catalog-level vocabulary that sits
// outside standard SQL grammar: USE, CREATE DATABASE, DROP DATABASE, SHOW
// TABLES, SHOW DATABASES (spec.md §4.8). It returns ok=false when text is
// not one of these, so Parse falls through to the rqlite/sql parser.
func parseCommand(text string) (any, bool, error) {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), ";"))
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return nil, false, nil
	}
	upper := make([]string, len(fields))
	for i, f := range fields {
		upper[i] = strings.ToUpper(f)
	}

	switch {
	case upper[0] == "USE":
		if len(fields) != 2 {
			return nil, true, ferrors.NewUnsupported("USE requires exactly one database name")
		}
		return &UseStatement{Name: fields[1]}, true, nil

	case upper[0] == "SHOW" && len(fields) == 2 && upper[1] == "TABLES":
		return &ShowTablesStatement{}, true, nil

	case upper[0] == "SHOW" && len(fields) == 2 && upper[1] == "DATABASES":
		return &ShowDatabasesStatement{}, true, nil

	case upper[0] == "CREATE" && len(fields) >= 3 && upper[1] == "DATABASE":
		name, ifNotExists, err := parseCreateOrDropDatabaseArgs(fields[2:])
		if err != nil {
			return nil, true, err
		}
		return &CreateDatabaseStatement{Name: name, IfNotExists: ifNotExists}, true, nil

	case upper[0] == "DROP" && len(fields) >= 3 && upper[1] == "DATABASE":
		name, err := parseDropDatabaseArgs(fields[2:])
		if err != nil {
			return nil, true, err
		}
		return &DropDatabaseStatement{Name: name}, true, nil

	default:
		return nil, false, nil
	}
}

// parseCreateOrDropDatabaseArgs handles the optional "IF NOT EXISTS" clause
// between the keyword and the database name.
func parseCreateOrDropDatabaseArgs(fields []string) (name string, ifNotExists bool, err error) {
	if len(fields) == 1 {
		return fields[0], false, nil
	}
	if len(fields) == 4 &&
		strings.EqualFold(fields[0], "IF") &&
		strings.EqualFold(fields[1], "NOT") &&
		strings.EqualFold(fields[2], "EXISTS") {
		return fields[3], true, nil
	}
	return "", false, ferrors.NewUnsupported("malformed database name clause")
}

// parseDropDatabaseArgs handles the optional "IF EXISTS" clause between DROP
// DATABASE and the name. It is accepted and discarded: DropDatabase is a
// forced removal that never errors on a missing name (spec.md §4.6), so "IF
// EXISTS" changes nothing about the outcome either way.
func parseDropDatabaseArgs(fields []string) (name string, err error) {
	if len(fields) == 1 {
		return fields[0], nil
	}
	if len(fields) == 3 &&
		strings.EqualFold(fields[0], "IF") &&
		strings.EqualFold(fields[1], "EXISTS") {
		return fields[2], nil
	}
	return "", ferrors.NewUnsupported("malformed database name clause")
}

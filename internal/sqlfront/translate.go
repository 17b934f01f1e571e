package sqlfront

import (
	"fmt"
	"strings"

	rsql "github.com/rqlite/sql"

	"github.com/ferrumdb/ferrum/internal/ferrors"
)

// Parse translates one statement of text. Ferrum's own command vocabulary
// (USE, CREATE/DROP DATABASE, SHOW TABLES/DATABASES) is not standard SQL
// and the parser library has no grammar rule for it, so those are
// recognized directly from the raw text in parseCommand before falling
// back to the rqlite/sql parser for everything else (spec.md §4.8).
func Parse(text string) (any, error) {
	if stmt, ok, err := parseCommand(text); ok || err != nil {
		return stmt, err
	}

	parser := rsql.NewParser(strings.NewReader(text))
	stmt, err := parser.ParseStatement()
	if err != nil {
		return nil, ferrors.NewUnsupported("parse error: %v", err)
	}
	return translateStatement(stmt)
}

// translateStatement dispatches on the parsed statement's concrete type,
// mirroring the teacher's own type-switch-with-default style for handling
// an external parser's AST (see schema_parser.go).
func translateStatement(stmt rsql.Statement) (any, error) {
	switch s := stmt.(type) {
	case *rsql.SelectStatement:
		return translateSelect(s)
	case *rsql.InsertStatement:
		return translateInsert(s)
	case *rsql.UpdateStatement:
		return translateUpdate(s)
	case *rsql.DeleteStatement:
		return translateDelete(s)
	case *rsql.CreateTableStatement:
		return translateCreateTable(s)
	default:
		return nil, ferrors.NewUnsupported("unsupported statement: %s", stmt.String())
	}
}

// identString renders any rqlite/sql identifier-shaped node to its bare text
// via Stringer, the one method every expression and identifier node in the
// parser's AST is expected to implement (mirrors the teacher's pervasive
// use of .String() in schema_parser.go).
func identString(v fmt.Stringer) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func translateSelect(stmt *rsql.SelectStatement) (*SelectStatement, error) {
	out := &SelectStatement{}

	if qt, ok := stmt.Source.(*rsql.QualifiedTableName); ok && qt.Name != nil {
		out.Table = identString(qt.Name)
	} else {
		out.Table = identString(stmt.Source)
	}

	for _, col := range stmt.Columns {
		proj, err := translateResultColumn(col)
		if err != nil {
			return nil, err
		}
		out.Projections = append(out.Projections, proj)
	}

	if stmt.WhereExpr != nil {
		expr, err := translateExpr(stmt.WhereExpr)
		if err != nil {
			return nil, err
		}
		out.Where = expr
	}

	for _, term := range stmt.OrderingTerms {
		key, err := translateOrderingTerm(term)
		if err != nil {
			return nil, err
		}
		out.OrderBy = append(out.OrderBy, key)
	}

	if stmt.LimitExpr != nil {
		n, err := literalInt(stmt.LimitExpr)
		if err != nil {
			return nil, err
		}
		out.Limit = &n
	}
	if stmt.OffsetExpr != nil {
		n, err := literalInt(stmt.OffsetExpr)
		if err != nil {
			return nil, err
		}
		out.Offset = &n
	}

	return out, nil
}

func translateResultColumn(col *rsql.ResultColumn) (Projection, error) {
	if col.Star {
		return Projection{Column: "*"}, nil
	}

	if call, ok := col.Expr.(*rsql.Call); ok {
		proj := Projection{IsFunction: true, FuncName: identString(call.Name), Wildcard: call.Star}
		for _, arg := range call.Args {
			if ref, ok := arg.(*rsql.Ident); ok {
				proj.Column = identString(ref)
				continue
			}
			proj.Args = append(proj.Args, identString(arg))
		}
		if col.Alias != nil {
			proj.Alias = identString(col.Alias)
		}
		return proj, nil
	}

	name := identString(col.Expr)
	alias := ""
	if col.Alias != nil {
		alias = identString(col.Alias)
	}
	return Projection{Column: name, Alias: alias}, nil
}

func translateOrderingTerm(term *rsql.OrderingTerm) (OrderKey, error) {
	col := identString(term.X)
	direction := Unspecified
	switch {
	case term.Asc:
		direction = Ascending
	case term.Desc:
		direction = Descending
	}
	return OrderKey{Column: col, Direction: direction}, nil
}

func literalInt(expr rsql.Expr) (int, error) {
	text := identString(expr)
	n := 0
	for _, c := range text {
		if c < '0' || c > '9' {
			return 0, ferrors.NewUnsupported("expected an integer literal, got %q", text)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

func translateInsert(stmt *rsql.InsertStatement) (*InsertStatement, error) {
	out := &InsertStatement{Table: identString(stmt.Table)}
	for _, valueList := range stmt.ValueLists {
		row := make([]string, len(valueList))
		for i, expr := range valueList {
			lit, err := translateExpr(expr)
			if err != nil {
				return nil, err
			}
			literal, ok := lit.(Literal)
			if !ok {
				return nil, ferrors.NewUnsupported("INSERT values must be literals")
			}
			row[i] = literal.Text
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

func translateUpdate(stmt *rsql.UpdateStatement) (*UpdateStatement, error) {
	out := &UpdateStatement{Table: identString(stmt.Table)}
	for _, assign := range stmt.Assignments {
		lit, err := translateExpr(assign.Expr)
		if err != nil {
			return nil, err
		}
		literal, ok := lit.(Literal)
		if !ok {
			return nil, ferrors.NewUnsupported("UPDATE assignments must be literals")
		}
		for _, col := range assign.Columns {
			out.Assignments = append(out.Assignments, Assignment{Column: identString(col), Value: literal.Text})
		}
	}
	if stmt.WhereExpr != nil {
		expr, err := translateExpr(stmt.WhereExpr)
		if err != nil {
			return nil, err
		}
		out.Where = expr
	}
	return out, nil
}

func translateDelete(stmt *rsql.DeleteStatement) (*DeleteStatement, error) {
	out := &DeleteStatement{Table: identString(stmt.Table)}
	if stmt.WhereExpr != nil {
		expr, err := translateExpr(stmt.WhereExpr)
		if err != nil {
			return nil, err
		}
		out.Where = expr
	}
	return out, nil
}

// translateExpr compiles the narrow predicate/value grammar spec.md §4.8.1
// describes: AND/OR combination, EQ/NEQ leaves, and literal/column leaves
// (numeric, single- or double-quoted string, unary-minus prefixed number).
func translateExpr(expr rsql.Expr) (Expr, error) {
	switch e := expr.(type) {
	case *rsql.BinaryExpr:
		op := strings.ToUpper(e.Op.String())
		left, err := translateExpr(e.X)
		if err != nil {
			return nil, err
		}
		right, err := translateExpr(e.Y)
		if err != nil {
			return nil, err
		}
		switch op {
		case "AND":
			return BinaryExpr{Op: "AND", Left: left, Right: right}, nil
		case "OR":
			return BinaryExpr{Op: "OR", Left: left, Right: right}, nil
		case "=", "==":
			return BinaryExpr{Op: "EQ", Left: left, Right: right}, nil
		case "!=", "<>":
			return BinaryExpr{Op: "NEQ", Left: left, Right: right}, nil
		default:
			return nil, ferrors.NewUnsupported("unsupported operator %q", op)
		}
	case *rsql.UnaryExpr:
		if strings.TrimSpace(e.Op.String()) == "-" {
			inner, err := translateExpr(e.X)
			if err != nil {
				return nil, err
			}
			lit, ok := inner.(Literal)
			if !ok {
				return nil, ferrors.NewUnsupported("unary minus applies only to a numeric literal")
			}
			return Literal{Text: "-" + lit.Text}, nil
		}
		return nil, ferrors.NewUnsupported("unsupported unary operator %q", e.Op.String())
	case *rsql.StringLit:
		return Literal{Text: e.Value}, nil
	case *rsql.NumberLit:
		return Literal{Text: e.Value}, nil
	case *rsql.Ident:
		return ColumnRef{Name: e.Name}, nil
	case *rsql.QualifiedRef:
		return ColumnRef{Name: identString(e.Column)}, nil
	default:
		return nil, ferrors.NewUnsupported("unsupported expression %q", identString(expr))
	}
}

func translateCreateTable(stmt *rsql.CreateTableStatement) (*CreateTableStatement, error) {
	out := &CreateTableStatement{
		Table:       identString(stmt.Name),
		IfNotExists: stmt.IfNotExists,
	}

	fkByColumn := make(map[string]string)
	for _, constraint := range stmt.Constraints {
		if fk, ok := constraint.(*rsql.ForeignKeyTableConstraint); ok && len(fk.Columns) == 1 {
			ref := identString(fk.ForeignTable)
			if len(fk.ForeignColumns) == 1 {
				ref += "." + identString(fk.ForeignColumns[0])
			}
			fkByColumn[identString(fk.Columns[0])] = ref
		}
	}

	for _, col := range stmt.Columns {
		name := identString(col.Name)
		def := ColumnDefinition{Name: name, Type: columnTypeToken(col.Type)}

		for _, constraint := range col.Constraints {
			switch c := constraint.(type) {
			case *rsql.PrimaryKeyConstraint:
				def.PrimaryKey = true
			case *rsql.ForeignKeyConstraint:
				ref := identString(c.ForeignTable)
				if len(c.ForeignColumns) == 1 {
					ref += "." + identString(c.ForeignColumns[0])
				}
				def.ForeignKey = ref
			}
		}
		if ref, ok := fkByColumn[name]; ok {
			def.ForeignKey = ref
		}

		out.Columns = append(out.Columns, def)
	}

	return out, nil
}

// columnTypeToken maps the parser's SQL type name onto this engine's "num"
// or "txt" tokens (spec.md §4.1).
func columnTypeToken(t *rsql.Type) string {
	name := strings.ToLower(identString(t.Name))
	switch {
	case strings.Contains(name, "int"), strings.Contains(name, "num"):
		return "num"
	default:
		return "txt"
	}
}

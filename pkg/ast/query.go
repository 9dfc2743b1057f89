package ast

// ---------- Query and its substructure ----------

// Query is a full query: an optional WITH list, a body, and the
// trailing ORDER BY / LIMIT / OFFSET / FETCH / locking clauses, each
// of which appears at most once.
type Query struct {
	With    *With
	Body    SetExpr
	OrderBy []*OrderByExpr
	Limit   Expr
	Offset  *Offset
	Fetch   *Fetch
	Locks   []*LockClause
}

func (*Query) node()     {}
func (*Query) stmtNode() {}

// With is a WITH clause holding common table expressions.
type With struct {
	Recursive bool
	CTEs      []*CTE
}

func (*With) node() {}

// CTE is a single common table expression.
type CTE struct {
	Name    Ident
	Columns []Ident
	Query   *Query
}

func (*CTE) node() {}

// SetExpr is the body of a query: a SELECT, a VALUES list, a
// parenthesized query, or a set operation over two bodies.
type SetExpr interface {
	Node
	setExprNode()
}

// SetOp is a set operator.
type SetOp string

// Set operators.
const (
	Union     SetOp = "UNION"
	Intersect SetOp = "INTERSECT"
	ExceptOp  SetOp = "EXCEPT"
)

// SetOperation combines two query bodies. INTERSECT binds tighter
// than UNION and EXCEPT; the parser builds left-associative trees.
type SetOperation struct {
	Op    SetOp
	All   bool
	Left  SetExpr
	Right SetExpr
}

func (*SetOperation) node()        {}
func (*SetOperation) setExprNode() {}

// ParenQuery is a parenthesized query used as a body.
type ParenQuery struct {
	Query *Query
}

func (*ParenQuery) node()        {}
func (*ParenQuery) setExprNode() {}

// Values is a VALUES (...), (...) body.
type Values struct {
	Rows [][]Expr
}

func (*Values) node()        {}
func (*Values) setExprNode() {}

// Select is a SELECT core.
type Select struct {
	Distinct   bool
	Top        *Top
	Projection []*SelectItem
	From       []*TableWithJoins
	Selection  Expr
	GroupBy    *GroupBy
	Having     Expr
	Windows    []*NamedWindow
}

func (*Select) node()        {}
func (*Select) setExprNode() {}

// SelectItem is one projection item. Exactly one of Expr or Wildcard
// is set; Qualifier carries the t of t.*, and Except the columns of
// * EXCEPT (...).
type SelectItem struct {
	Expr      Expr
	Alias     *Ident
	Wildcard  bool
	Qualifier *ObjectName
	Except    []Ident
}

func (*SelectItem) node() {}

// Top is the T-SQL style TOP [n] [PERCENT] [WITH TIES] head.
type Top struct {
	Quantity Expr
	Percent  bool
	WithTies bool
}

func (*Top) node() {}

// GroupByModifier selects the grouping shape.
type GroupByModifier int

// Grouping shapes.
const (
	GroupByPlain GroupByModifier = iota
	GroupByRollup
	GroupByCube
	GroupByGroupingSets
)

// GroupBy is a GROUP BY clause. Sets is used only for GROUPING SETS.
type GroupBy struct {
	Modifier GroupByModifier
	Exprs    []Expr
	Sets     [][]Expr
}

func (*GroupBy) node() {}

// NamedWindow is one w AS (...) entry of a WINDOW clause.
type NamedWindow struct {
	Name Ident
	Spec *WindowSpec
}

func (*NamedWindow) node() {}

// TableWithJoins is one FROM item: a relation and its join chain.
type TableWithJoins struct {
	Relation TableFactor
	Joins    []*Join
}

func (*TableWithJoins) node() {}

// TableFactor is a relation in a FROM clause.
type TableFactor interface {
	Node
	tableFactorNode()
}

// TableAlias names a table factor, optionally renaming columns.
type TableAlias struct {
	Name    Ident
	Columns []Ident
}

func (*TableAlias) node() {}

// TableName is a named table reference.
type TableName struct {
	Name  *ObjectName
	Alias *TableAlias
}

func (*TableName) node()            {}
func (*TableName) tableFactorNode() {}

// Derived is a subquery in FROM, optionally LATERAL.
type Derived struct {
	Lateral bool
	Query   *Query
	Alias   *TableAlias
}

func (*Derived) node()            {}
func (*Derived) tableFactorNode() {}

// NestedJoin is a parenthesized join tree used as a table factor.
type NestedJoin struct {
	Inner *TableWithJoins
	Alias *TableAlias
}

func (*NestedJoin) node()            {}
func (*NestedJoin) tableFactorNode() {}

// JoinOp is the join operator.
type JoinOp string

// Join operators.
const (
	JoinInner      JoinOp = "JOIN"
	JoinLeftOuter  JoinOp = "LEFT JOIN"
	JoinRightOuter JoinOp = "RIGHT JOIN"
	JoinFullOuter  JoinOp = "FULL JOIN"
	JoinCross      JoinOp = "CROSS JOIN"
)

// JoinConstraint is the ON / USING / NATURAL part of a join, or nil
// for a bare CROSS JOIN.
type JoinConstraint interface {
	Node
	joinConstraintNode()
}

// OnConstraint is JOIN ... ON expr.
type OnConstraint struct {
	Expr Expr
}

func (*OnConstraint) node()               {}
func (*OnConstraint) joinConstraintNode() {}

// UsingConstraint is JOIN ... USING (cols).
type UsingConstraint struct {
	Columns []Ident
}

func (*UsingConstraint) node()               {}
func (*UsingConstraint) joinConstraintNode() {}

// NaturalConstraint marks a NATURAL join.
type NaturalConstraint struct{}

func (*NaturalConstraint) node()               {}
func (*NaturalConstraint) joinConstraintNode() {}

// Join is one join step applied to the preceding relation.
type Join struct {
	Relation   TableFactor
	Op         JoinOp
	Constraint JoinConstraint
}

func (*Join) node() {}

// OrderByExpr is one ORDER BY element. Asc and NullsFirst are nil
// when unspecified so the original spelling is preserved.
type OrderByExpr struct {
	Expr       Expr
	Asc        *bool
	NullsFirst *bool
}

func (*OrderByExpr) node() {}

// OffsetRows records the optional ROW/ROWS noise word after OFFSET.
type OffsetRows string

// Offset suffixes.
const (
	OffsetRowsNone OffsetRows = ""
	OffsetRow      OffsetRows = "ROW"
	OffsetRowsKw   OffsetRows = "ROWS"
)

// Offset is an OFFSET clause.
type Offset struct {
	Value Expr
	Rows  OffsetRows
}

func (*Offset) node() {}

// Fetch is a FETCH {FIRST|NEXT} clause. A nil Quantity means a single
// row.
type Fetch struct {
	Quantity Expr
	Percent  bool
	WithTies bool
}

func (*Fetch) node() {}

// LockMode selects FOR UPDATE or FOR SHARE.
type LockMode string

// Lock modes.
const (
	LockUpdate LockMode = "UPDATE"
	LockShare  LockMode = "SHARE"
)

// LockClause is a FOR UPDATE / FOR SHARE clause.
type LockClause struct {
	Mode LockMode
}

func (*LockClause) node() {}

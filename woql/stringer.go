package woql

// Every Query, Value, ArithExpr and PathPattern variant implements
// fmt.Stringer by delegating to the DSL renderer, so printing any AST node
// directly (via %v/%s, not just the root returned by Builder.Finalize)
// yields WOQL DSL text.

func (q True) String() string           { return renderQuery(q) }
func (q And) String() string            { return renderQuery(q) }
func (q Or) String() string             { return renderQuery(q) }
func (q Not) String() string            { return renderQuery(q) }
func (q WoqlOptional) String() string   { return renderQuery(q) }
func (q If) String() string             { return renderQuery(q) }
func (q Triple) String() string         { return renderQuery(q) }
func (q AddTriple) String() string      { return renderQuery(q) }
func (q DeleteTriple) String() string   { return renderQuery(q) }
func (q AddedTriple) String() string    { return renderQuery(q) }
func (q IsA) String() string            { return renderQuery(q) }
func (q Subsumption) String() string    { return renderQuery(q) }
func (q TypeOf) String() string         { return renderQuery(q) }
func (q Typecast) String() string       { return renderQuery(q) }
func (q Equals) String() string         { return renderQuery(q) }
func (q Less) String() string           { return renderQuery(q) }
func (q Greater) String() string        { return renderQuery(q) }
func (q Member) String() string         { return renderQuery(q) }
func (q Dot) String() string            { return renderQuery(q) }
func (q Limit) String() string          { return renderQuery(q) }
func (q Start) String() string          { return renderQuery(q) }
func (q Select) String() string         { return renderQuery(q) }
func (q Distinct) String() string       { return renderQuery(q) }
func (q OrderBy) String() string        { return renderQuery(q) }
func (q GroupBy) String() string        { return renderQuery(q) }
func (q Count) String() string          { return renderQuery(q) }
func (q Sum) String() string            { return renderQuery(q) }
func (q Length) String() string         { return renderQuery(q) }
func (q Concatenate) String() string    { return renderQuery(q) }
func (q Join) String() string           { return renderQuery(q) }
func (q Split) String() string          { return renderQuery(q) }
func (q Substring) String() string      { return renderQuery(q) }
func (q Regexp) String() string         { return renderQuery(q) }
func (q Like) String() string           { return renderQuery(q) }
func (q Trim) String() string           { return renderQuery(q) }
func (q Upper) String() string          { return renderQuery(q) }
func (q Lower) String() string          { return renderQuery(q) }
func (q Pad) String() string            { return renderQuery(q) }
func (q Eval) String() string           { return renderQuery(q) }
func (q Using) String() string          { return renderQuery(q) }
func (q From) String() string           { return renderQuery(q) }
func (q Into) String() string           { return renderQuery(q) }
func (q Path) String() string           { return renderQuery(q) }
func (q ReadDocument) String() string   { return renderQuery(q) }
func (q InsertDocument) String() string { return renderQuery(q) }
func (q UpdateDocument) String() string { return renderQuery(q) }
func (q DeleteDocument) String() string { return renderQuery(q) }
func (q Once) String() string           { return renderQuery(q) }
func (q Immediately) String() string    { return renderQuery(q) }
func (q TripleCount) String() string    { return renderQuery(q) }
func (q Data) String() string           { return renderQuery(q) }
func (q Link) String() string           { return renderQuery(q) }

func (v NodeLiteral) String() string     { return renderValue(v) }
func (v Literal) String() string         { return renderValue(v) }
func (v ListValue) String() string       { return renderValue(v) }
func (v DictionaryValue) String() string { return renderValue(v) }

func (e ArithValue) String() string { return renderArithExpr(e) }
func (e Plus) String() string       { return renderArithExpr(e) }
func (e Minus) String() string      { return renderArithExpr(e) }
func (e Times) String() string      { return renderArithExpr(e) }
func (e Div) String() string        { return renderArithExpr(e) }
func (e Exp) String() string        { return renderArithExpr(e) }

func (p PathPredicate) String() string        { return renderPathPattern(p) }
func (p InversePathPredicate) String() string { return renderPathPattern(p) }
func (p PathStar) String() string             { return renderPathPattern(p) }
func (p PathPlus) String() string             { return renderPathPattern(p) }
func (p PathSequence) String() string         { return renderPathPattern(p) }
func (p PathOr) String() string               { return renderPathPattern(p) }

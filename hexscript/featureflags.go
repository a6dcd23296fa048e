package hexscript

// FeatureFlags is the bitmap described in §4.2/§6. Each bit disables one
// AST construct or evaluation-time behavior; the default (zero value)
// permits everything.
type FeatureFlags uint32

const (
	NoObjectConstructions FeatureFlags = 1 << iota
	NoArrayConstructions
	NoObjectNavigation
	NoVariableDeclaration
	NoLoops
	NoObjectKeys
	NoCallbacks
	NoConditionals
	NoReturnStatements
	NoLoopControl
	NoOperators
	NoEquality
	NoAssignments
)

// Options mirrors the parse/execute request's options bitmap (§6). Field
// tags match the wire's snake_case keys exactly so the transport layer
// can json.Unmarshal the inbound "options" object directly into this type.
type Options struct {
	Minify                bool `json:"minify"`
	IncludeSourceMapping  bool `json:"include_source_mapping"`
	NoObjectConstructions bool `json:"no_object_constructions"`
	NoArrayConstructions  bool `json:"no_array_constructions"`
	NoObjectNavigation    bool `json:"no_object_navigation"`
	NoVariableDeclaration bool `json:"no_variable_declaration"`
	NoLoops               bool `json:"no_loops"`
	NoObjectKeys          bool `json:"no_object_keys"`
	NoCallbacks           bool `json:"no_callbacks"`
	NoConditionals        bool `json:"no_conditionals"`
	NoReturnStatements    bool `json:"no_return_statements"`
	NoLoopControl         bool `json:"no_loop_control"`
	NoOperators           bool `json:"no_operators"`
	NoEquality            bool `json:"no_equality"`
	NoAssignments         bool `json:"no_assignments"`
}

// DefaultOptions returns the documented defaults: every gate false,
// Minify true (parse-only).
func DefaultOptions() Options {
	return Options{Minify: true}
}

// Flags compresses Options into the runtime bitmap the interpreter checks.
func (o Options) Flags() FeatureFlags {
	var f FeatureFlags
	set := func(cond bool, bit FeatureFlags) {
		if cond {
			f |= bit
		}
	}
	set(o.NoObjectConstructions, NoObjectConstructions)
	set(o.NoArrayConstructions, NoArrayConstructions)
	set(o.NoObjectNavigation, NoObjectNavigation)
	set(o.NoVariableDeclaration, NoVariableDeclaration)
	set(o.NoLoops, NoLoops)
	set(o.NoObjectKeys, NoObjectKeys)
	set(o.NoCallbacks, NoCallbacks)
	set(o.NoConditionals, NoConditionals)
	set(o.NoReturnStatements, NoReturnStatements)
	set(o.NoLoopControl, NoLoopControl)
	set(o.NoOperators, NoOperators)
	set(o.NoEquality, NoEquality)
	set(o.NoAssignments, NoAssignments)
	return f
}

func (f FeatureFlags) has(bit FeatureFlags) bool { return f&bit != 0 }

// featureName names the construct for a FeatureDisabled error message.
type featureName string

const (
	featObjectLiteral  featureName = "object literal"
	featArrayLiteral   featureName = "array literal"
	featMemberAccess   featureName = "member access"
	featVarDecl        featureName = "variable declaration"
	featLoop           featureName = "loop"
	featKeysOf         featureName = "keysOf"
	featCallback       featureName = "callback definition"
	featConditional    featureName = "conditional"
	featReturn         featureName = "return"
	featLoopControl    featureName = "loop control"
	featOperator       featureName = "operator"
	featEquality       featureName = "equality"
	featAssignment     featureName = "assignment"
)

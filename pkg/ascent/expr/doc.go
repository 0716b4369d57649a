/*
Package expr implements the ascent expression language: a lexer, a
precedence-climbing parser, an AST, and a tree-walking evaluator over
float32 values.

# Overview

An expression is reduced to a single float32. Variables are resolved in a
Scope, an ordered list of layers; the standard scope puts query variables in
front of general variables so that per-call values shadow defaults.

	v, err := expr.Evaluate("speed * 2 + offset",
	    map[string]float32{"speed": 3},   // query variables
	    map[string]float32{"offset": 1},  // variables
	)
	// v == 7

# Syntax

	expr    := or
	or      := and ( '||' and )*
	and     := eq ( '&&' eq )*
	eq      := rel ( ( '==' | '!=' ) rel )*
	rel     := add ( ( '<' | '<=' | '>' | '>=' ) add )*
	add     := mul ( ( '+' | '-' ) mul )*
	mul     := unary ( ( '*' | '/' | '%' ) unary )*
	unary   := ( '-' | '!' ) unary | power
	power   := primary ( '^' unary )?
	primary := number | name | name '(' args? ')' | '(' expr ')'

Numbers are decimal with an optional fraction and exponent (1, 2.5, .5,
1e-3). Names are letters, digits and underscores, optionally joined by dots:
"x", "query.speed", "q.speed", "v.hp".

Exponentiation binds tighter than unary minus and groups to the right:

	-2 ^ 2      // -4
	2 ^ 3 ^ 2   // 512

# Semantics

Comparisons and logical operators produce 1 or 0; any nonzero value is
true. && and || short-circuit, so "0 && (1/0)" is 0 rather than an error.
Division and modulo by zero fail with ErrDivisionByZero. Functions outside
their domain, such as sqrt(-1), fail with ErrDomain.

# Namespaces

A name whose first segment is a layer name or alias is looked up only in
that layer: "query.x" and "q.x" read the query layer, "variable.x" and
"v.x" the variables layer. Other names search every layer in order.

# Functions

The built-ins are listed by Functions and versioned by FunctionsVersion.
Calls are checked at parse time, so unknown names and wrong argument counts
are reported before any evaluation. Function names may be written with a
"math." prefix.

# Errors

Every failure is an *Error carrying a Kind, the Stage that failed, and a
byte offset when one is known. Errors unwrap to a sentinel per kind:

	_, err := expr.Evaluate("1 / 0", nil, nil)
	errors.Is(err, expr.ErrDivisionByZero) // true

# Concurrency

Programs, Scopes and the function registry are read-only after creation and
may be shared between goroutines.
*/
package expr

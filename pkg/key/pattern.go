package key

import (
	"fmt"
	"reflect"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Pattern matches a group of keys sharing one target type.
type Pattern interface {
	// Target is the target type every matched key has.
	Target() reflect.Type

	// Matches tests whether k matches the pattern.
	Matches(k Key) bool

	String() string
}

type anyPattern struct {
	target reflect.Type
}

// Any matches every key of target type T, whatever its qualifier.
func Any[T any]() Pattern {
	return anyPattern{target: reflect.TypeFor[T]()}
}

// AnyOf is the reflective form of Any.
func AnyOf(target reflect.Type) Pattern {
	return anyPattern{target: target}
}

func (p anyPattern) Target() reflect.Type { return p.target }

func (p anyPattern) Matches(k Key) bool { return k.target == p.target }

func (p anyPattern) String() string { return "any " + p.target.String() }

type qualifierPattern struct {
	target    reflect.Type
	qualifier reflect.Type
}

// ByQualifier matches keys of target type T whose qualifier is of type Q.
// ByQualifier[T, key.Unit]() matches only the unqualified key of T.
func ByQualifier[T, Q any]() Pattern {
	return qualifierPattern{
		target:    reflect.TypeFor[T](),
		qualifier: reflect.TypeFor[Q](),
	}
}

// ByQualifierOf is the reflective form of ByQualifier.
func ByQualifierOf(target, qualifier reflect.Type) Pattern {
	return qualifierPattern{target: target, qualifier: qualifier}
}

func (p qualifierPattern) Target() reflect.Type { return p.target }

func (p qualifierPattern) Matches(k Key) bool {
	return k.target == p.target && k.QualifierType() == p.qualifier
}

func (p qualifierPattern) String() string {
	return fmt.Sprintf("%s qualified by %s", p.target, p.qualifier)
}

// ExprEnv is the environment an Expr pattern is evaluated against.
type ExprEnv struct {
	Type          string
	Qualifier     any
	QualifierType string
	Key           string
}

type exprPattern struct {
	target  reflect.Type
	source  string
	program *vm.Program
}

// Expr matches keys of target type T for which the expr-lang predicate source
// evaluates to true, for example:
//
//	key.Expr[Greeter](`QualifierType == "string" && Qualifier startsWith "en"`)
//
// A predicate that fails at evaluation time is treated as not matching.
func Expr[T any](source string) (Pattern, error) {
	program, err := expr.Compile(source, expr.Env(ExprEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile key pattern %q: %w", source, err)
	}
	return exprPattern{target: reflect.TypeFor[T](), source: source, program: program}, nil
}

// MustExpr is like Expr but panics on a compile error.
func MustExpr[T any](source string) Pattern {
	p, err := Expr[T](source)
	if err != nil {
		panic(err)
	}
	return p
}

func (p exprPattern) Target() reflect.Type { return p.target }

func (p exprPattern) Matches(k Key) bool {
	if k.target != p.target {
		return false
	}
	out, err := expr.Run(p.program, ExprEnv{
		Type:          k.target.String(),
		Qualifier:     k.qualifier,
		QualifierType: k.QualifierType().String(),
		Key:           k.String(),
	})
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}

func (p exprPattern) String() string {
	return fmt.Sprintf("%s where %s", p.target, p.source)
}

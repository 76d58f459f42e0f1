package ast

import "fmt"

// Visitor is called for each expression in pre-order. Calling next visits the
// children of expr; not calling it prunes the walk.
type Visitor func(expr Expr, next func() error) error

// Visit walks expr and its children with visitor.
func Visit(expr Expr, visitor Visitor) error {
	return visitor(expr, func() error {
		switch expr := expr.(type) {
		case *Sequence:
			for _, item := range expr.Items {
				if err := Visit(item, visitor); err != nil {
					return err
				}
			}

		case *Choice:
			for _, alt := range expr.Alternatives {
				if err := Visit(alt, visitor); err != nil {
					return err
				}
			}

		case *Repeat:
			return Visit(expr.Expr, visitor)

		case *Optional:
			return Visit(expr.Expr, visitor)

		case *Group:
			return Visit(expr.Expr, visitor)

		case *Lookahead:
			return Visit(expr.Expr, visitor)

		case *Converse:
			return Visit(expr.Expr, visitor)

		case *Literal, *RuleRef, *CharClass, *Meta:

		default:
			panic(fmt.Sprintf("unsupported expression %T", expr))
		}
		return nil
	})
}

// References returns the rule names referenced by expr, in source order.
func References(expr Expr) []*RuleRef {
	var out []*RuleRef
	_ = Visit(expr, func(expr Expr, next func() error) error {
		if ref, ok := expr.(*RuleRef); ok {
			out = append(out, ref)
		}
		return next()
	})
	return out
}

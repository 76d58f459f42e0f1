// Package grammar compiles grammars written in a small PEG notation and
// matches text against them.
//
// A grammar is a list of rules, the first of which is the entry rule:
//
//	Expr   = Term (("+" | "-") Term)* ;
//	Term   = Number | "(" Expr ")" ;
//	Number = [0-9]+ ;
//
// Rules are matched with parsing expression grammar semantics: choice is
// ordered and commits to the first alternative that matches, repetition is
// greedy, and a failed sequence consumes nothing. Matching is memoised per
// rule and offset, so it runs in time linear in the input for a given
// grammar.
//
// Grammars that could make matching loop forever are rejected by Compile: a
// rule may not reach itself without first consuming input.
//
// When a match fails the error reports the furthest offset any terminal was
// attempted at, together with every terminal that was expected there.
package grammar

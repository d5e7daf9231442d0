// Package value implements the scalar values, variables and lists of an
// object template together with the scopes that own them.
//
// A Scope is a set of uniquely named variables and lists. Scopes nest: a
// template scope is the parent of each instruction scope, and inner names
// shadow outer ones. Calculating a scope evaluates its variables, then its
// lists, each in an order where every entity comes after the entities it
// references.
package value

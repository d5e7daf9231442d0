// Package expr compiles the scalar arithmetic used by object templates.
//
// Expressions are parsed with the HCL native syntax and evaluated against
// cty number bindings. A Compiler owns the function table (math helpers plus
// the random functions ranI and ranF) and the random source those functions
// draw from, so every template gets its own isolated compiler.
//
// HCL identifiers may contain dashes, which means "a-1" is read as a single
// identifier. Subtraction between identifiers must be written with spaces.
package expr

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package config defines the format-agnostic property tree of an object
// template, along with the Loader interface implemented by the HCL and YAML
// adapters.
//
// The tree is deliberately untyped: every property is kept as the source text
// of its value, and interpreting it (as an expression, a material name or a
// flag) is left to the component that consumes it.
package config

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package object builds object templates from their property trees and
// places them into worlds.
//
// Building runs in a fixed order: variables and lists, setters, conditions,
// then instructions. Every template owns one random source; after the
// initial randomization, variables and lists that can never change are
// folded into constants.
//
// Randomize draws in declaration order (variables, lists, conditions, then
// the instruction tree), so the same seed always yields the same structure.
package object

// Copyright 2024 Erraggy
// SPDX-License-Identifier: MIT

// Package pathutil owns the reference pointer grammar used across oassplit
// and the output path checks shared by the CLI and MCP server.
//
// # Reference Grammar
//
// A $ref value is "[file]#/token/token...". [ParsePointer] splits the file
// locator from the fragment, unescapes JSON pointer tokens and recognizes
// component pointers in both layouts:
//
//	p, _ := pathutil.ParsePointer("#/components/schemas/Pet")
//	// p.Category == "schemas", p.Name == "Pet"
//	p, _ = pathutil.ParsePointer("common.yaml#/definitions/Error")
//	// p.File == "common.yaml", p.Category == "definitions", p.OAS2 == true
//
// [FormatPointer] is the inverse, and rebuilds component pointers from their
// Category and Name so rewritten identities format correctly:
//
//	p.Name = "Pet_2"
//	ref := pathutil.FormatPointer(p) // "#/components/schemas/Pet_2"
//
// # Output Path Sanitization
//
// [SanitizeOutputPath] validates and cleans output file paths for security.
// It rejects symlinks:
//
//	safe, err := pathutil.SanitizeOutputPath(userProvidedPath)
//	if err != nil {
//	    return err
//	}
package pathutil

//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Stats prints Go lines of code per package kind and documentation word
// counts as one JSON line.
func Stats() error {
	record := map[string]int{}

	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != "." && skipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		lines := bytes.Count(data, []byte{'\n'})
		key := "go_loc_prod"
		if strings.HasSuffix(path, "_test.go") {
			key = "go_loc_test"
		}
		record[key] += lines
		record["go_loc"] += lines
		return nil
	})
	if err != nil {
		return err
	}

	for _, pattern := range []string{"*.md", "docs/*.md"} {
		matches, _ := filepath.Glob(pattern)
		for _, path := range matches {
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			record["doc_wc"] += len(strings.Fields(string(data)))
		}
	}

	line, err := json.Marshal(record)
	if err != nil {
		return err
	}
	fmt.Println(string(line))
	return nil
}

// skipDir reports directories that hold no project code: VCS metadata,
// build output, build tooling, and underscore-prefixed reference trees.
func skipDir(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") ||
		base == "vendor" || path == binaryDir || path == "magefiles"
}

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/goliatone/go-formgen-kendo/internal/lint"
	"github.com/goliatone/go-formgen-kendo/pkg/model"
)

func main() {
	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [paths...]\n", filepath.Base(os.Args[0])); err != nil {
			panic(err)
		}
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "\nLint form documents, or directories of them, for fields no Kendo widget can render.\n"); err != nil {
			panic(err)
		}
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var violations []lint.Violation
	for _, path := range paths {
		forms, err := load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", path, err)
			os.Exit(1)
		}
		ids := make([]string, 0, len(forms))
		for id := range forms {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			for _, v := range lint.Form(forms[id], nil) {
				v.File = path
				if len(forms) > 1 {
					v.File = path + "#" + id
				}
				violations = append(violations, v)
			}
		}
	}

	for _, v := range violations {
		fmt.Fprintln(os.Stderr, v.String())
	}
	if len(violations) > 0 {
		os.Exit(1)
	}
}

// load reads a single document, or every document under a directory.
func load(path string) (map[string]model.FormModel, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return model.LoadFS(os.DirFS(path))
	}
	form, err := model.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return map[string]model.FormModel{form.ID: form}, nil
}

// Package migrations embeds the DDL for each supported SQL store.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed mysql/*.sql postgres/*.sql clickhouse/*.sql
var files embed.FS

// Statements returns the statements of every migration for kind in file order.
func Statements(kind string) ([]string, error) {
	names, err := fs.Glob(files, path.Join(kind, "*.sql"))
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no migrations for %q", kind)
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		b, err := files.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		out = append(out, split(string(b))...)
	}
	return out, nil
}

// split cuts a script on ';'. The DDL here holds no string literals containing one.
func split(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}

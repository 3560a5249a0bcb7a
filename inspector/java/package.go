package java

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"sort"

	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
)

// InspectPackages inspects every Java source under rootURL recursively
func (i *Inspector) InspectPackages(ctx context.Context, rootURL string) ([]*Declaration, error) {
	var sources []string
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return !isBuildDir(info.Name()), nil
		}
		if path.Ext(info.Name()) == ".java" {
			sources = append(sources, url.Join(baseURL, parent, info.Name()))
		}
		return true, nil
	}
	if err := i.fs.Walk(ctx, rootURL, visitor); err != nil {
		return nil, fmt.Errorf("error walking source directories: %w", err)
	}
	sort.Strings(sources)

	var declarations []*Declaration
	for _, source := range sources {
		fileDeclarations, err := i.InspectFile(ctx, source)
		if err != nil {
			return nil, err
		}
		declarations = append(declarations, fileDeclarations...)
	}
	return declarations, nil
}

// isBuildDir skips typical Java build/output dirs
func isBuildDir(name string) bool {
	return name == "target" || name == "build" || name == "out" || name == ".git"
}

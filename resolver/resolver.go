// Package resolver opens the session.Resolver selected by name: the built-in catalog or a
// Lua script from the resolvers directory.
package resolver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cinelane/cinelane/filesystem"
	"github.com/cinelane/cinelane/key"
	"github.com/cinelane/cinelane/resolver/catalog"
	"github.com/cinelane/cinelane/resolver/script"
	"github.com/cinelane/cinelane/session"
	"github.com/cinelane/cinelane/util"
	"github.com/cinelane/cinelane/where"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Catalog is the name of the catalog resolver.
const Catalog = "catalog"

// Closer releases resolver resources.
type Closer func()

// Open returns the resolver called name. An empty name uses resolver.default.
func Open(ctx context.Context, name string) (session.Resolver, Closer, error) {
	if name == "" {
		name = viper.GetString(key.ResolverDefault)
	}

	if name == Catalog || name == "" {
		c, err := OpenCatalog(ctx)
		return c, func() {}, err
	}

	path := filepath.Join(where.Resolvers(), name+".lua")
	exists, err := filesystem.API().Exists(path)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		return nil, nil, fmt.Errorf("unknown resolver %q, available: %s", name, strings.Join(Available(), ", "))
	}

	r, err := script.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return r, r.Close, nil
}

// OpenCatalog loads resolver.catalog, or the catalog.toml in the config directory, or the
// built-in demo catalog when neither exists.
func OpenCatalog(ctx context.Context) (*catalog.Catalog, error) {
	location := viper.GetString(key.ResolverCatalog)
	if location != "" {
		return catalog.Load(ctx, location)
	}

	local := filepath.Join(where.Config(), "catalog.toml")
	if exists, _ := filesystem.API().Exists(local); exists {
		return catalog.Load(ctx, local)
	}

	return catalog.Demo(), nil
}

// Available lists the catalog resolver followed by every installed Lua script.
func Available() []string {
	names := []string{Catalog}

	files, err := filesystem.API().ReadDir(where.Resolvers())
	if err != nil {
		return names
	}

	scripts := lo.FilterMap(files, func(f os.FileInfo, _ int) (string, bool) {
		return util.FileStem(f.Name()), !f.IsDir() && filepath.Ext(f.Name()) == ".lua"
	})
	return append(names, scripts...)
}

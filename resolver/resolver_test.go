package resolver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cinelane/cinelane/filesystem"
	"github.com/cinelane/cinelane/key"
	"github.com/cinelane/cinelane/where"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestOpen(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		viper.Set(key.ResolverCatalog, "")
		viper.Set(key.ResolverDefault, Catalog)

		Convey("The default resolver falls back to the demo catalog", func() {
			r, closer, err := Open(context.Background(), "")
			So(err, ShouldBeNil)
			defer closer()

			got, err := r.Popular(context.Background())
			So(err, ShouldBeNil)
			So(got.MustGet(), ShouldEndWith, "BigBuckBunny.mp4")
		})

		Convey("Installed scripts are listed and opened by name", func() {
			path := filepath.Join(where.Resolvers(), "local.lua")
			So(filesystem.API().WriteFile(path, []byte(`
function Search(q) return "local://" .. q end
function Popular() return nil end
`), 0o644), ShouldBeNil)

			So(Available(), ShouldResemble, []string{Catalog, "local"})

			r, closer, err := Open(context.Background(), "local")
			So(err, ShouldBeNil)
			defer closer()

			got, err := r.Search(context.Background(), "dune")
			So(err, ShouldBeNil)
			So(got.MustGet(), ShouldEqual, "local://dune")
		})

		Convey("An unknown resolver is an error", func() {
			_, _, err := Open(context.Background(), "nope")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "catalog")
		})
	})
}

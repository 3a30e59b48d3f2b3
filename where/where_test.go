package where

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cinelane/cinelane/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestWhere(t *testing.T) {
	Convey("Given a config path override", t, func() {
		So(os.Setenv(EnvConfigPath, "/tmp/cinelane-test"), ShouldBeNil)
		defer os.Unsetenv(EnvConfigPath)

		Convey("Config uses it and creates the directory", func() {
			So(Config(), ShouldEqual, "/tmp/cinelane-test")
			exists, err := filesystem.API().DirExists("/tmp/cinelane-test")
			So(err, ShouldBeNil)
			So(exists, ShouldBeTrue)
		})

		Convey("Derived directories live under it", func() {
			So(Logs(), ShouldEqual, filepath.Join("/tmp/cinelane-test", "logs"))
			So(Resolvers(), ShouldEqual, filepath.Join("/tmp/cinelane-test", "resolvers"))
		})
	})

	Convey("Cache files live in the cache directory", t, func() {
		So(filepath.Dir(Locators()), ShouldEqual, Cache())
		So(filepath.Base(Queries()), ShouldEqual, "queries.json")
	})
}

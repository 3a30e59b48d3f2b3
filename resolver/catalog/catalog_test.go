package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/cinelane/cinelane/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

const sample = `
popular = "Big Buck Bunny"

[[entries]]
title = "Big Buck Bunny"
locator = "https://example.com/bbb.mp4"
tags = ["animation"]

[[entries]]
title = "The Matrix"
locator = "https://example.com/matrix.mp4"
tags = ["movie", "cinema"]

[[entries]]
title = "The Matrix Reloaded"
locator = "https://example.com/reloaded.mp4"

[[entries]]
title = "Missing locator"
`

func TestParse(t *testing.T) {
	Convey("Given the sample catalog", t, func() {
		c, err := Parse([]byte(sample), "toml")
		So(err, ShouldBeNil)

		Convey("Entries without a locator are dropped", func() {
			So(len(c.Entries()), ShouldEqual, 3)
		})

		Convey("An exact title match wins regardless of case", func() {
			got, err := c.Search(context.Background(), "  the matrix ")
			So(err, ShouldBeNil)
			So(got.MustGet(), ShouldEqual, "https://example.com/matrix.mp4")
		})

		Convey("Fuzzy matches are ranked by edit distance", func() {
			got, err := c.Search(context.Background(), "matrix reload")
			So(err, ShouldBeNil)
			So(got.MustGet(), ShouldEqual, "https://example.com/reloaded.mp4")
		})

		Convey("Tags are searchable", func() {
			got, err := c.Search(context.Background(), "cinema")
			So(err, ShouldBeNil)
			So(got.MustGet(), ShouldEqual, "https://example.com/matrix.mp4")
		})

		Convey("No match is None", func() {
			got, err := c.Search(context.Background(), "zzz")
			So(err, ShouldBeNil)
			So(got.IsAbsent(), ShouldBeTrue)
		})

		Convey("Popular returns the configured title", func() {
			got, err := c.Popular(context.Background())
			So(err, ShouldBeNil)
			So(got.MustGet(), ShouldEqual, "https://example.com/bbb.mp4")
		})
	})

	Convey("A catalog without a popular title has no popular locator", t, func() {
		c := New([]Entry{{Title: "a", Locator: "b"}}, "")
		got, err := c.Popular(context.Background())
		So(err, ShouldBeNil)
		So(got.IsAbsent(), ShouldBeTrue)
	})

	Convey("Malformed documents are errors", t, func() {
		_, err := Parse([]byte("entries = ["), "toml")
		So(err, ShouldNotBeNil)
	})
}

func TestLoad(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()

		Convey("A local JSON catalog is loaded by extension", func() {
			path := filepath.Join("catalogs", "local.json")
			So(filesystem.API().MkdirAll("catalogs", 0o755), ShouldBeNil)
			So(filesystem.API().WriteFile(path, []byte(`{"entries":[{"title":"Dune","locator":"dune.mp4"}]}`), 0o644), ShouldBeNil)

			c, err := Load(context.Background(), path)
			So(err, ShouldBeNil)
			got, _ := c.Search(context.Background(), "dune")
			So(got.MustGet(), ShouldEqual, "dune.mp4")
		})

		Convey("A missing file is an error", func() {
			_, err := Load(context.Background(), "nope.toml")
			So(err, ShouldNotBeNil)
		})
	})

	Convey("A remote catalog is fetched over HTTP", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(sample))
		}))
		defer srv.Close()

		c, err := Load(context.Background(), srv.URL+"/catalog.toml?v=1")
		So(err, ShouldBeNil)
		So(len(c.Entries()), ShouldEqual, 3)
	})
}

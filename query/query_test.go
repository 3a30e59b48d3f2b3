package query

import (
	"testing"

	"github.com/cinelane/cinelane/filesystem"
	"github.com/cinelane/cinelane/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestSuggest(t *testing.T) {
	Convey("Given remembered titles", t, func() {
		filesystem.SetMemMapFs()
		store = nil
		clear(memoized)
		viper.Set(key.SearchShowQuerySuggestions, true)

		So(Remember("The Matrix", 1), ShouldBeNil)
		So(Remember("  the matrix reloaded ", 5), ShouldBeNil)
		So(Remember("Dune", 2), ShouldBeNil)

		Convey("Suggestions are fuzzy and sorted by rank", func() {
			So(SuggestMany("mtrx"), ShouldResemble, []string{"the matrix reloaded", "the matrix"})
			So(Suggest("dn").MustGet(), ShouldEqual, "dune")
		})

		Convey("Remembering again raises the rank", func() {
			So(SuggestMany("matrix")[0], ShouldEqual, "the matrix reloaded")
			So(Remember("THE MATRIX", 10), ShouldBeNil)
			So(SuggestMany("matrix")[0], ShouldEqual, "the matrix")
		})

		Convey("Blank titles are ignored", func() {
			So(Remember("   ", 1), ShouldBeNil)
			So(len(SuggestMany("")), ShouldEqual, 3)
		})

		Convey("Suggestions can be turned off", func() {
			viper.Set(key.SearchShowQuerySuggestions, false)
			So(Suggest("dune").IsAbsent(), ShouldBeTrue)
		})
	})
}

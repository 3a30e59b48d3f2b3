package style

import (
	"testing"

	"github.com/muesli/reflow/ansi"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTruncate(t *testing.T) {
	Convey("Truncate bounds the printable width", t, func() {
		So(Truncate(5)("hello world"), ShouldEqual, "hell…")
		So(Truncate(20)("short"), ShouldEqual, "short")
		So(ansi.PrintableRuneWidth(Truncate(4)(Bold("abcdefgh"))), ShouldBeLessThanOrEqualTo, 4)
	})
}

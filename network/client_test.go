package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cinelane/cinelane/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFetch(t *testing.T) {
	Convey("Given a test server", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/missing" {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte(r.Header.Get("User-Agent")))
		}))
		defer srv.Close()

		Convey("The body is returned with the application user agent sent", func() {
			body, err := Fetch(context.Background(), srv.URL+"/catalog.toml")
			So(err, ShouldBeNil)
			So(string(body), ShouldEqual, constant.UserAgent)
		})

		Convey("A non-2xx status is an error", func() {
			_, err := Fetch(context.Background(), srv.URL+"/missing")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "404")
		})
	})
}

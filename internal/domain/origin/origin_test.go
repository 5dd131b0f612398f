package origin

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestResolverOrigin(t *testing.T) {
	Convey("Given resolvers for every configuration state", t, func() {
		cases := []struct {
			name            string
			server, browser string
			wantServer      string
			wantBrowser     string
		}{
			{"nothing set", "", "", DefaultServer, DefaultBrowser},
			{"private only", "http://api.internal:9000", "", "http://api.internal:9000", DefaultBrowser},
			{"public only", "", "https://speed.example.com", DefaultServer, "https://speed.example.com"},
			{"both set", "http://a:1", "http://b:2", "http://a:1", "http://b:2"},
			{"whitespace only", "  ", "\t", DefaultServer, DefaultBrowser},
		}

		for _, tc := range cases {
			r := New(tc.server, tc.browser)

			Convey("When "+tc.name, func() {
				So(r.Origin(Server), ShouldEqual, tc.wantServer)
				So(r.Origin(Browser), ShouldEqual, tc.wantBrowser)

				Convey("Then joined URLs should have exactly one slash before the path", func() {
					for _, u := range []string{r.ServerURL("/api/v1/dashboard"), r.BrowserURL("/api/v1/dashboard")} {
						So(u, ShouldNotBeEmpty)
						So(u, ShouldEndWith, "/api/v1/dashboard")
						So(strings.Contains(strings.TrimPrefix(strings.TrimPrefix(u, "http://"), "https://"), "//"), ShouldBeFalse)
					}
				})
			})
		}
	})

	Convey("Given the zero Resolver", t, func() {
		var r Resolver

		Convey("Then it should resolve to the defaults", func() {
			So(r.ServerURL("/x"), ShouldEqual, "http://speed-checker-api:8080/x")
			So(r.BrowserURL("/x"), ShouldEqual, "http://localhost:8080/x")
		})
	})

	Convey("Given a path without a leading slash", t, func() {
		r := New("http://a:1", "")

		Convey("Then it should be concatenated verbatim", func() {
			So(r.ServerURL("health"), ShouldEqual, "http://a:1health")
		})
	})
}

func TestSideString(t *testing.T) {
	Convey("Given sides", t, func() {
		So(Server.String(), ShouldEqual, "server")
		So(Browser.String(), ShouldEqual, "browser")
		So(Side(9).String(), ShouldEqual, "unknown")
	})
}

package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/speedcheck-web/internal/domain/origin"
	. "github.com/smartystreets/goconvey/convey"
)

// capturedRequest is what the stub API saw.
type capturedRequest struct {
	method string
	path   string
	header http.Header
	body   string
}

func newStubAPI(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	got := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got.method = r.Method
		got.path = r.URL.RequestURI()
		got.header = r.Header.Clone()
		got.body = string(b)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestClientFetch(t *testing.T) {
	Convey("Given a client pointed at a stub API", t, func() {
		srv, got := newStubAPI(t, http.StatusOK, `{}`)
		c := NewClient(origin.New(srv.URL, ""))
		ctx := context.Background()

		Convey("When fetching without options", func() {
			resp, err := c.Fetch(ctx, "/api/v1/dashboard", nil)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it should GET the joined URL with a JSON content type", func() {
				So(got.method, ShouldEqual, http.MethodGet)
				So(got.path, ShouldEqual, "/api/v1/dashboard")
				So(got.header.Get("Content-Type"), ShouldEqual, "application/json")
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When the caller adds a header", func() {
			resp, err := c.Fetch(ctx, "/x", &Options{Header: map[string]string{"X-Test": "1"}})
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then both the default and the caller header should be sent", func() {
				So(got.header.Get("Content-Type"), ShouldEqual, "application/json")
				So(got.header.Get("X-Test"), ShouldEqual, "1")
			})
		})

		Convey("When the caller overrides Content-Type", func() {
			resp, err := c.Fetch(ctx, "/x", &Options{Header: map[string]string{"Content-Type": "text/plain"}})
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the caller value should win", func() {
				So(got.header.Values("Content-Type"), ShouldResemble, []string{"text/plain"})
			})
		})

		Convey("When the caller overrides Content-Type with a lower-case key", func() {
			resp, err := c.Fetch(ctx, "/x", &Options{Header: map[string]string{"content-type": "text/csv"}})
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the caller value should still win", func() {
				So(got.header.Values("Content-Type"), ShouldResemble, []string{"text/csv"})
			})
		})

		Convey("When the caller sets method and body", func() {
			resp, err := c.Fetch(ctx, "/api/v1/speedtest/run?x=1", &Options{
				Method: http.MethodPost,
				Body:   strings.NewReader(`{"run":true}`),
			})
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then they should be passed through", func() {
				So(got.method, ShouldEqual, http.MethodPost)
				So(got.path, ShouldEqual, "/api/v1/speedtest/run?x=1")
				So(got.body, ShouldEqual, `{"run":true}`)
			})
		})
	})

	Convey("Given a stub API answering 500", t, func() {
		srv, _ := newStubAPI(t, http.StatusInternalServerError, `oops`)
		c := NewClient(origin.New(srv.URL, ""))

		Convey("When fetching", func() {
			resp, err := c.Fetch(context.Background(), "/api/v1/dashboard", nil)

			Convey("Then the response should be returned unmodified", func() {
				So(err, ShouldBeNil)
				defer resp.Body.Close()
				b, _ := io.ReadAll(resp.Body)
				So(resp.StatusCode, ShouldEqual, http.StatusInternalServerError)
				So(string(b), ShouldEqual, "oops")
			})
		})
	})

	Convey("Given an API that refuses connections", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		c := NewClient(origin.New(url, ""))

		Convey("When fetching", func() {
			resp, err := c.Fetch(context.Background(), "/api/v1/dashboard", nil)

			Convey("Then the transport error should propagate", func() {
				So(err, ShouldNotBeNil)
				So(resp, ShouldBeNil)
			})
		})
	})
}

func TestClientGetJSON(t *testing.T) {
	ctx := context.Background()

	Convey("Given a valid JSON body", t, func() {
		srv, _ := newStubAPI(t, http.StatusOK, `{"a":[1,2]}`)
		raw, err := NewClient(origin.New(srv.URL, "")).GetJSON(ctx, "/j")

		Convey("Then the raw body should be returned", func() {
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, `{"a":[1,2]}`)
		})
	})

	Convey("Given a 503 response", t, func() {
		srv, _ := newStubAPI(t, http.StatusServiceUnavailable, `{}`)
		_, err := NewClient(origin.New(srv.URL, "")).GetJSON(ctx, "/j")

		Convey("Then a status FetchError should be returned", func() {
			var fe *FetchError
			So(errors.As(err, &fe), ShouldBeTrue)
			So(fe.Kind, ShouldEqual, KindStatus)
			So(fe.Status, ShouldEqual, http.StatusServiceUnavailable)
			So(errors.Is(err, ErrUnexpectedStatus), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "status 503")
		})
	})

	Convey("Given a body that is not JSON", t, func() {
		srv, _ := newStubAPI(t, http.StatusOK, `<html>gateway</html>`)
		_, err := NewClient(origin.New(srv.URL, "")).GetJSON(ctx, "/j")

		Convey("Then a decode FetchError should be returned", func() {
			So(KindOf(err), ShouldEqual, KindDecode)
			So(errors.Is(err, ErrInvalidJSON), ShouldBeTrue)
		})
	})

	Convey("Given an empty 200 body", t, func() {
		srv, _ := newStubAPI(t, http.StatusOK, ``)
		_, err := NewClient(origin.New(srv.URL, "")).GetJSON(ctx, "/j")

		Convey("Then it should be a decode failure", func() {
			So(KindOf(err), ShouldEqual, KindDecode)
		})
	})

	Convey("Given an unreachable API", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		_, err := NewClient(origin.New(url, "")).GetJSON(ctx, "/j")

		Convey("Then a transport FetchError should be returned", func() {
			So(KindOf(err), ShouldEqual, KindTransport)
		})
	})

	Convey("Given a slow API and a client timeout", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()
		c := NewClient(origin.New(srv.URL, ""), WithTimeout(50*time.Millisecond))
		_, err := c.GetJSON(ctx, "/slow")

		Convey("Then the timeout should surface as a transport failure", func() {
			So(KindOf(err), ShouldEqual, KindTransport)
		})
	})
}

func TestClientOptions(t *testing.T) {
	Convey("Given client options", t, func() {
		hc := &http.Client{}

		Convey("When a custom client and timeout are supplied", func() {
			c := NewClient(origin.New("", ""), WithHTTPClient(hc), WithTimeout(time.Second))

			Convey("Then the timeout should apply to a copy of the client", func() {
				So(c.httpClient.Timeout, ShouldEqual, time.Second)
				So(hc.Timeout, ShouldEqual, time.Duration(0))
			})
		})

		Convey("When nil or non-positive values are supplied", func() {
			c := NewClient(origin.New("", ""), WithHTTPClient(nil), WithTimeout(-1))

			Convey("Then defaults should be kept", func() {
				So(c.httpClient, ShouldNotBeNil)
				So(c.timeout, ShouldEqual, time.Duration(0))
			})
		})

		Convey("Then URL should use the server origin", func() {
			So(NewClient(origin.New("", "")).URL("/api/v1/dashboard"), ShouldEqual, "http://speed-checker-api:8080/api/v1/dashboard")
		})
	})
}

func TestKindOf(t *testing.T) {
	Convey("Given a plain error", t, func() {
		So(KindOf(errors.New("x")), ShouldEqual, Kind(""))
	})
}

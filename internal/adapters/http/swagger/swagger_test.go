package swagger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/smartystreets/goconvey/convey"
)

func get(r http.Handler, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDocsRoutes(t *testing.T) {
	convey.Convey("Given the docs routes on a router", t, func() {
		ctx := context.Background()
		r := mux.NewRouter()
		Register(ctx, r)

		convey.Convey("The YAML document lists the assignment routes", func() {
			w := get(r, "/openapi.yaml", nil)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "application/yaml; charset=utf-8")
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "/assignments")
			convey.So(w.Header().Get("ETag"), convey.ShouldNotBeEmpty)
		})

		convey.Convey("The JSON rendering carries the same paths", func() {
			w := get(r, "/openapi.json", nil)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			var doc struct {
				OpenAPI string         `json:"openapi"`
				Paths   map[string]any `json:"paths"`
			}
			convey.So(json.Unmarshal(w.Body.Bytes(), &doc), convey.ShouldBeNil)
			convey.So(doc.OpenAPI, convey.ShouldStartWith, "3.")
			convey.So(doc.Paths, convey.ShouldContainKey, "/sweep")
			convey.So(doc.Paths, convey.ShouldContainKey, "/reps/{name}")
		})

		convey.Convey("A matching ETag is answered with 304", func() {
			etag := get(r, "/openapi.json", nil).Header().Get("ETag")
			w := get(r, "/openapi.json", map[string]string{"If-None-Match": etag})
			convey.So(w.Code, convey.ShouldEqual, http.StatusNotModified)
			convey.So(w.Body.Len(), convey.ShouldEqual, 0)
		})

		convey.Convey("The viewer page loads ReDoc", func() {
			w := get(r, "/api-docs", nil)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "text/html; charset=utf-8")
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "redoc-container")
		})

		convey.Convey("Registering on a nil router panics", func() {
			convey.So(func() { Register(ctx, nil) }, convey.ShouldPanic)
		})
	})
}

func TestCompile(t *testing.T) {
	convey.Convey("Given YAML with non-string keys", t, func() {
		d, err := compile([]byte("responses:\n  200: ok\n  404: [missing]\n"))

		convey.So(err, convey.ShouldBeNil)
		convey.So(string(d.json), convey.ShouldContainSubstring, `"200":"ok"`)
	})

	convey.Convey("Given malformed YAML", t, func() {
		_, err := compile([]byte("a: [b"))
		convey.So(err, convey.ShouldNotBeNil)
	})
}

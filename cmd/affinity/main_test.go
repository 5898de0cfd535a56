package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/affinity/internal/config"
	"github.com/okian/affinity/pkg/logger"
)

func TestServiceAssembly(t *testing.T) {
	convey.Convey("Given a configuration using the file store", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.StorePath = filepath.Join(t.TempDir(), "interactions.json")
		cfg.Weights = map[string]float64{"viewed": 1, "purchased": 10}

		convey.Convey("When the service and mux are assembled", func() {
			svc, err := newService(ctx, cfg, logger.NewNop())
			convey.So(err, convey.ShouldBeNil)
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			mux := newMux(ctx, svc, cfg.MaxLimit)

			post := httptest.NewRequest(http.MethodPost, "/interactions",
				strings.NewReader(`[{"itemID":"a","interactionType":"viewed"},{"itemID":"b","interactionType":"purchased"}]`))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, post)

			convey.Convey("Then configured weights drive the ranking", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"itemID":"b","score":10`)
			})

			convey.Convey("Then the history survives a restart", func() {
				svc.Stop(ctx)

				again, err := newService(ctx, cfg, logger.NewNop())
				convey.So(err, convey.ShouldBeNil)
				convey.So(again.Start(ctx), convey.ShouldBeNil)
				defer again.Stop(ctx)
				convey.So(again.GetStats()["history"], convey.ShouldEqual, 2)
			})

			convey.Convey("Then docs and metrics are served", func() {
				for _, path := range []string{"/openapi.yaml", "/api-docs", "/healthz", "/stats"} {
					rec := httptest.NewRecorder()
					mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, http.NoBody))
					convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				}
			})
		})
	})

	convey.Convey("Given an unknown store driver", t, func() {
		cfg := config.New()
		cfg.StoreDriver = "redis"

		convey.Convey("Then assembly fails", func() {
			_, err := newService(context.Background(), cfg, logger.NewNop())
			convey.So(err, convey.ShouldNotBeNil)
		})
	})

	convey.Convey("updateSystemMetrics does not panic", t, func() {
		convey.So(updateSystemMetrics, convey.ShouldNotPanic)
	})
}

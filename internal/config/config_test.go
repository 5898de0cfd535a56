package config_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/affinity/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.StoreDriver, convey.ShouldEqual, "file")
			convey.So(cfg.StorePath, convey.ShouldEqual, "interactions.json")
			convey.So(cfg.PersistOnIngest, convey.ShouldBeTrue)
			convey.So(cfg.DefaultLimit, convey.ShouldEqual, 10)
			convey.So(cfg.MaxLimit, convey.ShouldEqual, 100)
			convey.So(cfg.DecayFactor, convey.ShouldEqual, 0.9)
			convey.So(cfg.Weights, convey.ShouldResemble, map[string]float64{"viewed": 1, "liked": 2, "dismissed": -1})
		})

		convey.Convey("Then the defaults validate", func() {
			convey.So(config.Validate(cfg), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs that break a constraint", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":             func(c *config.Config) { c.Addr = "" },
			"unknown driver":         func(c *config.Config) { c.StoreDriver = "redis" },
			"file without path":      func(c *config.Config) { c.StorePath = "" },
			"non-positive decay":     func(c *config.Config) { c.DecayFactor = 0 },
			"default above max":      func(c *config.Config) { c.DefaultLimit = 500 },
			"zero max limit":         func(c *config.Config) { c.MaxLimit = 0; c.DefaultLimit = 0 },
			"unknown log format":     func(c *config.Config) { c.LogFormat = "xml" },
			"unknown log level":      func(c *config.Config) { c.LogLevel = "loud" },
			"negative dedupe bounds": func(c *config.Config) { c.DedupeSize = -1 },
		}
		for name, mutate := range cases {
			convey.Convey("When validating with "+name, func() {
				cfg := config.New()
				mutate(cfg)
				err := config.Validate(cfg)

				convey.Convey("Then it is rejected as invalid", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})

	convey.Convey("Given weights that cannot score", t, func() {
		for name, weights := range map[string]map[string]float64{
			"blank kind":   {" ": 1},
			"NaN weight":   {"viewed": math.NaN()},
			"infinite one": {"liked": math.Inf(1)},
		} {
			convey.Convey("When validating with a "+name, func() {
				cfg := config.New()
				cfg.Weights = weights
				err := config.Validate(cfg)

				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(errors.Is(err, config.ErrInvalidWeights), convey.ShouldBeTrue)
			})
		}
	})

	convey.Convey("Given an in-memory store without a path", t, func() {
		cfg := config.New()
		cfg.StoreDriver = "memory"
		cfg.StorePath = ""

		convey.Convey("Then it is valid", func() {
			convey.So(config.Validate(cfg), convey.ShouldBeNil)
		})
	})
}

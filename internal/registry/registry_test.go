package registry

import (
	"errors"
	"testing"

	"github.com/semmidev/zabbix-backup/internal/domain"
	. "github.com/smartystreets/goconvey/convey"
)

func TestZabbixRegistry(t *testing.T) {
	Convey("Given the embedded Zabbix registry", t, func() {
		reg := Zabbix()

		Convey("It should pass validation", func() {
			So(reg.Validate(), ShouldBeNil)
		})

		Convey("Every table name should appear at most once", func() {
			seen := make(map[string]int)
			for _, e := range zabbixTables {
				seen[e.Name]++
			}
			for _, n := range seen {
				So(n, ShouldEqual, 1)
			}
			So(reg.Len(), ShouldEqual, len(seen))
		})

		Convey("It should hold at least the minimum number of data tables", func() {
			So(len(reg.DataTables()), ShouldBeGreaterThanOrEqualTo, MinDataTables)
		})

		Convey("History and trend tables should be data", func() {
			for _, name := range []string{"history", "history_uint", "history_str", "history_text", "history_log", "trends", "trends_uint", "events", "alerts", "auditlog"} {
				So(reg.Classify(name), ShouldEqual, domain.CategoryData)
			}
		})

		Convey("Configuration tables should be config", func() {
			for _, name := range []string{"hosts", "items", "triggers", "users", "usrgrp", "actions", "config"} {
				So(reg.Classify(name), ShouldEqual, domain.CategoryConfig)
			}
		})

		Convey("Unknown tables should default to config", func() {
			So(reg.Known("widget_field"), ShouldBeFalse)
			So(reg.Classify("widget_field"), ShouldEqual, domain.CategoryConfig)
			So(reg.Classify(""), ShouldEqual, domain.CategoryConfig)
		})
	})
}

func TestRegistryValidate(t *testing.T) {
	Convey("Given a custom registry", t, func() {
		entries := []domain.TableEntry{
			{Name: "history", Category: domain.CategoryData},
			{Name: "history_uint", Category: domain.CategoryData},
			{Name: "trends", Category: domain.CategoryData},
			{Name: "trends_uint", Category: domain.CategoryData},
			{Name: "hosts", Category: domain.CategoryConfig},
		}

		Convey("When it has fewer than five data tables", func() {
			err := New(entries).Validate()

			Convey("It should fail with a registry error", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, domain.ErrRegistry), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "only 4 data tables")
			})
		})

		Convey("When it has exactly five data tables", func() {
			entries = append(entries, domain.TableEntry{Name: "events", Category: domain.CategoryData})

			Convey("It should validate", func() {
				So(New(entries).Validate(), ShouldBeNil)
			})
		})

		Convey("When a table name is duplicated", func() {
			entries = append(entries,
				domain.TableEntry{Name: "events", Category: domain.CategoryData},
				domain.TableEntry{Name: "hosts", Category: domain.CategoryData},
			)
			err := New(entries).Validate()

			Convey("It should report the duplicate", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, domain.ErrRegistry), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, `duplicate table "hosts"`)
			})

			Convey("The first entry should win for classification", func() {
				So(New(entries).Classify("hosts"), ShouldEqual, domain.CategoryConfig)
			})
		})

		Convey("When the registry is empty", func() {
			err := New(nil).Validate()

			Convey("It should fail", func() {
				So(errors.Is(err, domain.ErrRegistry), ShouldBeTrue)
			})
		})
	})
}

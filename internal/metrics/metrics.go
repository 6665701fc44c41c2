package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Scraping operation metrics. Every counter carries a status or page label so
// dashboards can split healthy traffic from upstream breakage.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscene_searches_total",
			Help: "Total number of release searches, by outcome.",
		},
		[]string{"status"},
	)

	SubtitleLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscene_subtitle_lookups_total",
			Help: "Total number of subtitle detail page lookups, by outcome.",
		},
		[]string{"status"},
	)

	SubtitleDownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subtitle_downloads_total",
			Help: "Total number of subtitle downloads.",
		},
		[]string{"status"},
	)

	ParseFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscene_parse_failures_total",
			Help: "Total number of pages missing a field the extractor requires.",
		},
		[]string{"page"},
	)
)

func init() {
	prometheus.MustRegister(
		SearchesTotal,
		SubtitleLookupsTotal,
		SubtitleDownloadsTotal,
		ParseFailuresTotal,
	)
}

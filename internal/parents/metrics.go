package parents

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var parentLookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "parent_products_lookups_total",
		Help: "Parent product lookups by the link table that produced the ids (relation, super_link, none, error)",
	},
	[]string{"source"},
)

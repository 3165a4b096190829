package form

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var thumbnailFallbacks = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "parent_products_thumbnail_fallbacks_total",
		Help: "Parent thumbnails that fell back to the placeholder image or to an empty URL",
	},
	[]string{"result"},
)

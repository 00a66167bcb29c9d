package builder

import "github.com/prometheus/client_golang/prometheus"

var manifestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "modelkit",
		Subsystem: "builder",
		Name:      "manifests_total",
		Help:      "Manifests processed by outcome (rendered, written, failed)",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(manifestsTotal)
}

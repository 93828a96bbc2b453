package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type serverMetrics struct {
	requests  *prometheus.CounterVec
	logins    *prometheus.CounterVec
	refreshes *prometheus.CounterVec
}

func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	factory := promauto.With(reg)
	return &serverMetrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_devapi_requests_total",
			Help: "API requests by method and response status.",
		}, []string{"method", "status"}),
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_devapi_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_devapi_refreshes_total",
			Help: "Access token refreshes by result.",
		}, []string{"result"}),
	}
}

func result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

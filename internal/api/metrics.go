package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	signRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "s3vfs_sign_requests_total",
		Help: "Upload policy sign requests by outcome.",
	}, []string{"outcome"})

	saveRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "s3vfs_save_requests_total",
		Help: "Upload finalization requests by outcome.",
	}, []string{"outcome"})
)

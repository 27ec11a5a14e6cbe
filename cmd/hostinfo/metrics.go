package main

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"hostcpu"
)

var flagListen string

const flagListenName = "listen"

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "serve the host CPU identity as Prometheus gauges",
	RunE:  runMetrics,
}

func init() {
	metricsCmd.Flags().StringVar(&flagListen, flagListenName, ":9401", "address for the metrics HTTP endpoint")
}

var physicalCoresGauge = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "hostinfo_physical_cores",
		Help: "Number of physical cores on the host, -1 when unknown",
	},
)

var cpuFeatureGaugeVec = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "hostinfo_cpu_feature",
		Help: "Host CPU feature availability, 1 when supported",
	},
	[]string{"name"},
)

var cpuInfoGaugeVec = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "hostinfo_cpu_info",
		Help: "Host CPU identity, constant 1 with identifying labels",
	},
	[]string{"name", "triple"},
)

func publishIdentity(identity hostIdentity, features map[string]bool) {
	physicalCoresGauge.Set(float64(identity.PhysicalCores))
	for name, present := range features {
		value := 0.0
		if present {
			value = 1.0
		}
		cpuFeatureGaugeVec.WithLabelValues(name).Set(value)
	}
	cpuInfoGaugeVec.WithLabelValues(identity.CPUName, identity.Triple).Set(1)
}

func runMetrics(cmd *cobra.Command, args []string) error {
	prometheus.MustRegister(physicalCoresGauge)
	prometheus.MustRegister(cpuFeatureGaugeVec)
	prometheus.MustRegister(cpuInfoGaugeVec)

	identity := collectIdentity()
	features, ok := hostcpu.GetHostCPUFeatures()
	if !ok {
		slog.Warn("CPU feature detection is not supported on this host")
	}
	publishIdentity(identity, features)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	slog.Info("Starting Prometheus metrics server", slog.String("address", flagListen))
	server := &http.Server{
		Addr:              flagListen,
		Handler:           mux,
		ReadHeaderTimeout: 3 * time.Second,
	}
	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

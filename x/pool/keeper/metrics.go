package keeper

import (
	"math/big"
	"sync"

	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/paw-chain/pawpool/x/pool/types"
)

// PoolMetrics holds all Prometheus metrics for the pool module
type PoolMetrics struct {
	// Trading
	SwapsTotal        *prometheus.CounterVec
	SwapVolume        *prometheus.CounterVec
	SwapFeesCollected *prometheus.CounterVec

	// Liquidity
	LiquidityAdded   *prometheus.CounterVec
	LiquidityRemoved *prometheus.CounterVec
	PoolReserves     *prometheus.GaugeVec
	ClaimSupply      prometheus.Gauge

	// Fees
	FeesCollected         *prometheus.CounterVec
	ProtocolFeesCollected *prometheus.CounterVec

	// Security
	ReserveDriftDetected *prometheus.CounterVec
	ReentrancyBlocked    *prometheus.CounterVec
	EmergencyUnwinds     prometheus.Counter
	GovernanceActions    *prometheus.CounterVec
}

var (
	poolMetricsOnce sync.Once
	poolMetrics     *PoolMetrics
)

// NewPoolMetrics creates and registers pool metrics (singleton pattern)
func NewPoolMetrics() *PoolMetrics {
	poolMetricsOnce.Do(func() {
		poolMetrics = &PoolMetrics{
			SwapsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "pool",
					Name:      "swaps_total",
					Help:      "Total number of swaps executed",
				},
				[]string{"direction"},
			),
			SwapVolume: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "pool",
					Name:      "swap_volume_total",
					Help:      "Total swap input volume in base units",
				},
				[]string{"asset"},
			),
			SwapFeesCollected: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "pool",
					Name:      "swap_fees_total",
					Help:      "Total trade fees charged, split by recipient",
				},
				[]string{"asset", "recipient"},
			),

			LiquidityAdded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "pool",
					Name:      "liquidity_added_total",
					Help:      "Total liquidity added to the pool",
				},
				[]string{"asset"},
			),
			LiquidityRemoved: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "pool",
					Name:      "liquidity_removed_total",
					Help:      "Total liquidity removed from the pool",
				},
				[]string{"asset"},
			),
			PoolReserves: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "paw",
					Subsystem: "pool",
					Name:      "reserves",
					Help:      "Current tracked pool reserves",
				},
				[]string{"asset"},
			),
			ClaimSupply: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "paw",
					Subsystem: "pool",
					Name:      "claim_supply",
					Help:      "Outstanding claim token supply",
				},
			),

			FeesCollected: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "pool",
					Name:      "lp_fees_collected_total",
					Help:      "LP fees paid out to claim holders",
				},
				[]string{"asset"},
			),
			ProtocolFeesCollected: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "pool",
					Name:      "protocol_fees_collected_total",
					Help:      "Protocol fees paid out to the treasury",
				},
				[]string{"asset"},
			),

			ReserveDriftDetected: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "pool",
					Name:      "reserve_drift_detected_total",
					Help:      "Calls rejected because tracked reserves drifted from balances",
				},
				[]string{"asset"},
			),
			ReentrancyBlocked: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "pool",
					Name:      "reentrancy_blocked_total",
					Help:      "Nested calls rejected by the reentrancy lock",
				},
				[]string{"operation"},
			),
			EmergencyUnwinds: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "pool",
					Name:      "emergency_unwinds_total",
					Help:      "Emergency unwinds initiated",
				},
			),
			GovernanceActions: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "pool",
					Name:      "governance_actions_total",
					Help:      "Governance gated actions executed",
				},
				[]string{"action"},
			),
		}
	})
	return poolMetrics
}

// recordPool refreshes the reserve and supply gauges
func (m *PoolMetrics) recordPool(pool types.Pool) {
	m.PoolReserves.WithLabelValues(pool.AssetA).Set(intToFloat(pool.ReserveA))
	m.PoolReserves.WithLabelValues(pool.AssetB).Set(intToFloat(pool.ReserveB))
	m.ClaimSupply.Set(intToFloat(pool.TotalSupply))
}

func intToFloat(v math.Int) float64 {
	if v.IsNil() {
		return 0
	}
	f, _ := new(big.Float).SetInt(v.BigInt()).Float64()
	return f
}

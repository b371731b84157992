package model

import (
	"time"

	"arcade/internal/opt"
)

// Route planning

type Stop struct {
	Name     string            `json:"name" yaml:"name"`
	Address  string            `json:"address" yaml:"address"`
	Hours    map[string]string `json:"hours,omitempty" yaml:"hours,omitempty"`
	Duration int               `json:"duration" yaml:"duration"` // minutes
	Location *opt.Point        `json:"location,omitempty" yaml:"location,omitempty"`
}

// AnnealOptions overrides the configured annealing schedule field by field.
type AnnealOptions struct {
	InitialTemp   *float64 `json:"initial_temp,omitempty" yaml:"initial_temp,omitempty"`
	CoolingRate   *float64 `json:"cooling_rate,omitempty" yaml:"cooling_rate,omitempty"`
	MinTemp       *float64 `json:"min_temp,omitempty" yaml:"min_temp,omitempty"`
	MaxIterations *int     `json:"max_iterations,omitempty" yaml:"max_iterations,omitempty"`
}

type RouteRequest struct {
	Home          string         `json:"home" yaml:"home"`
	HomeLocation  *opt.Point     `json:"home_location,omitempty" yaml:"home_location,omitempty"`
	Stops         []Stop         `json:"stops" yaml:"stops"`
	Algorithm     string         `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
	Seed          int64          `json:"seed,omitempty" yaml:"seed,omitempty"`
	MaxIterations int            `json:"max_iterations,omitempty" yaml:"max_iterations,omitempty"` // 2-opt scans
	Anneal        *AnnealOptions `json:"anneal,omitempty" yaml:"anneal,omitempty"`
}

type RouteStop struct {
	Name        string            `json:"name"`
	Address     string            `json:"address"`
	Hours       map[string]string `json:"hours,omitempty"`
	Duration    int               `json:"duration"`
	Index       int               `json:"index"`
	Coordinates opt.Point         `json:"coordinates"`
}

type RouteResult struct {
	Route         []RouteStop `json:"route"`
	TotalDistance float64     `json:"total_distance"`
	RouteOrder    []int       `json:"route_order"`
	Coordinates   []opt.Point `json:"coordinates"`
	Algorithm     string      `json:"algorithm"`
	Metrics       opt.Metrics `json:"metrics"`
	ElapsedMs     float64     `json:"elapsed_ms"`
}

type RouteDelta struct {
	DistanceDifference float64 `json:"distance_difference"`
	ImprovementPct     float64 `json:"improvement_pct"`
	SABetter           bool    `json:"sa_better"`
}

type RouteComparison struct {
	TwoOpt     RouteResult `json:"2opt"`
	Annealing  RouteResult `json:"simulated_annealing"`
	Comparison RouteDelta  `json:"comparison"`
}

// Packing

type PackingRequest struct {
	Items         []opt.Item     `json:"items" yaml:"items"`
	Budget        float64        `json:"budget" yaml:"budget"`
	MaxWeight     float64        `json:"max_weight" yaml:"max_weight"`
	CategoryLimit map[string]int `json:"category_limit,omitempty" yaml:"category_limit,omitempty"`
	Algorithm     string         `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
}

// Limits returns the solver constraint set of the request.
func (r PackingRequest) Limits() opt.Limits {
	return opt.Limits{Budget: r.Budget, MaxWeight: r.MaxWeight, CategoryLimit: r.CategoryLimit}
}

type PackingResult struct {
	SelectedItems   []opt.Item `json:"selected_items"`
	SelectedIndices []int      `json:"selected_indices"`
	TotalValue      float64    `json:"total_value"`
	TotalCost       float64    `json:"total_cost"`
	TotalWeight     float64    `json:"total_weight"`
	BudgetUsedPct   float64    `json:"budget_used_pct"`
	WeightUsedPct   float64    `json:"weight_used_pct"`
	Algorithm       string     `json:"algorithm"`
	ElapsedMs       float64    `json:"elapsed_ms"`
}

type PackingDelta struct {
	ValueDifference float64 `json:"value_difference"`
	ImprovementPct  float64 `json:"improvement_pct"`
	DPBetter        bool    `json:"dp_better"`
}

type PackingComparison struct {
	DP         PackingResult `json:"dp"`
	Greedy     PackingResult `json:"greedy"`
	Comparison PackingDelta  `json:"comparison"`
}

// Run history

const (
	KindRoute   = "route"
	KindPacking = "packing"
)

// RunRecord summarizes one solver run. Problem instances are not kept.
type RunRecord struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Algorithm  string    `json:"algorithm"`
	Objective  float64   `json:"objective"`
	Size       int       `json:"size"`
	Iterations int       `json:"iterations,omitempty"`
	DurationMs float64   `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// AlgoStats aggregates runs of one algorithm.
type AlgoStats struct {
	Kind          string  `json:"kind"`
	Algorithm     string  `json:"algorithm"`
	Runs          int     `json:"runs"`
	AvgObjective  float64 `json:"avg_objective"`
	AvgDurationMs float64 `json:"avg_duration_ms"`
}

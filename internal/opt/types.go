package opt

// Tour is a route over a coordinate set and its cyclic length.
type Tour struct {
	Route  []int   `json:"route"`
	Length float64 `json:"length"`
}

// Metrics describes a single TSP solver run.
type Metrics struct {
	Iterations    int     `json:"iterations"`
	Improvements  int     `json:"improvements"`
	AcceptedWorse int     `json:"accepted_worse,omitempty"`
	InitialLength float64 `json:"initial_length"`
	BestLength    float64 `json:"best_length"`
	FinalLength   float64 `json:"final_length"`
	FinalTemp     float64 `json:"final_temp,omitempty"`
	// Snapshots holds the best length every SnapshotEvery iterations (annealing only).
	Snapshots []Snapshot `json:"snapshots,omitempty"`
}

// Snapshot is a sampled point of an annealing run.
type Snapshot struct {
	Iteration  int     `json:"iteration"`
	Temp       float64 `json:"temp"`
	Current    float64 `json:"current"`
	BestLength float64 `json:"best_length"`
}

// SnapshotEvery is the sampling interval for annealing snapshots.
const SnapshotEvery = 500

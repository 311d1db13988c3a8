package domain

type DebugVariantScore struct {
	VariantID         string  `json:"variant_id"`
	Name              string  `json:"name"`
	TrafficPercentage float64 `json:"traffic_percentage"`
	Visitors          int64   `json:"visitors"`
	Conversions       int64   `json:"conversions"`
	Revenue           float64 `json:"revenue"`
	ConversionRate    float64 `json:"conversion_rate"`
	UCB1Score         float64 `json:"ucb1_score"`     // -1 when unexplored (UCB1 treats it as +Inf)
	PosteriorMean     float64 `json:"posterior_mean"` // alpha / (alpha + beta)
	PosteriorWins     int     `json:"posterior_wins"` // wins out of DebugSamples Thompson draws
}

type ExperimentDebug struct {
	ExperimentID  string               `json:"experiment_id"`
	Algorithm     Algorithm            `json:"algorithm"`
	TotalVisitors int64                `json:"total_visitors"`
	MABEligible   bool                 `json:"mab_eligible"`
	Favourites    map[Algorithm]string `json:"favourites"` // algorithm -> variant id
	DebugSamples  int                  `json:"debug_samples"`
	Variants      []DebugVariantScore  `json:"variants"`
}

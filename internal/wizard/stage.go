package wizard

type Stage int

const (
	StageFetchWantsList Stage = iota
	StageFetchCardSellers
	StageRankSellers
	StageFetchSellerOffers
	StageOptimize
)

var stageNames = []string{
	StageFetchWantsList:    "fetch wants list",
	StageFetchCardSellers:  "fetch card sellers",
	StageRankSellers:       "rank sellers",
	StageFetchSellerOffers: "fetch seller offers",
	StageOptimize:          "optimize",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// ProgressFunc receives the progress of the current stage as a fraction in
// [0, 1]. It is called synchronously from Run.
type ProgressFunc func(fraction float64, stage Stage)

package forecast

import (
	"math"
	"sort"
)

// Standing is one row of the predicted league table
type Standing struct {
	Position       int     `json:"position"`
	Team           string  `json:"team"`
	Points         int     `json:"points"`
	GoalsFor       int     `json:"goals_for"`
	GoalsAgainst   int     `json:"goals_against"`
	GoalDifference int     `json:"goal_difference"`
	TransferImpact float64 `json:"transfer_impact"`
}

// Prediction is the raw model output for one team
type Prediction struct {
	Team           string
	Points         float64
	GoalsFor       float64
	GoalsAgainst   float64
	TransferImpact float64
}

// Table rounds predictions half to even, derives goal difference from the
// rounded goals, and orders the teams by points then goal difference, both
// descending. Equal teams keep their input order. Positions start at 1.
func Table(preds []Prediction) []Standing {
	table := make([]Standing, len(preds))
	for i, p := range preds {
		gf := int(math.RoundToEven(p.GoalsFor))
		ga := int(math.RoundToEven(p.GoalsAgainst))
		table[i] = Standing{
			Team:           p.Team,
			Points:         int(math.RoundToEven(p.Points)),
			GoalsFor:       gf,
			GoalsAgainst:   ga,
			GoalDifference: gf - ga,
			TransferImpact: p.TransferImpact,
		}
	}

	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Points != table[j].Points {
			return table[i].Points > table[j].Points
		}
		return table[i].GoalDifference > table[j].GoalDifference
	})
	for i := range table {
		table[i].Position = i + 1
	}
	return table
}

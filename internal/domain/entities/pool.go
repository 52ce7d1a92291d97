package entities

// Pool is a public contribution pool. Pools are read-only here.
type Pool struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	TotalGoal       float64 `json:"totalGoal"`
	CollectedAmount float64 `json:"collectedAmount"`
	Contributors    int     `json:"contributors"`
	Category        string  `json:"category"`
	IsActive        bool    `json:"isActive"`
}

// Progress is the floor percentage collected, capped at 100.
func (p *Pool) Progress() int {
	return ProgressPercent(p.CollectedAmount, p.TotalGoal)
}

// Remaining is what is left to collect, never negative.
func (p *Pool) Remaining() float64 {
	if rem := p.TotalGoal - p.CollectedAmount; rem > 0 {
		return rem
	}
	return 0
}

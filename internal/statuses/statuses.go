package statuses

const (
	StatusWaitOpponent = "waiting"
	StatusActive       = "active"
	StatusFinished     = "finished"
)

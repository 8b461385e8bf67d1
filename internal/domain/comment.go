package domain

import "time"

// Follower is a user who can comment on steps.
type Follower struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FullName returns "first last".
func (f Follower) FullName() string {
	return f.FirstName + " " + f.LastName
}

// StepComment is a follower's comment on a step. The follower is a snapshot
// owned by the comment.
type StepComment struct {
	ID       string    `json:"id"`
	Text     string    `json:"text"`
	Date     time.Time `json:"date"`
	Follower Follower  `json:"follower"`
}

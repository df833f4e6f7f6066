package user

import "time"

type User struct {
	ID             string        `json:"id" bson:"_id,omitempty"`
	Username       string        `json:"username" bson:"username"`
	Email          string        `json:"email" bson:"email"`
	CreatedAt      time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" bson:"updated_at"`
	Rating         int           `json:"rating" bson:"rating"`
	CurrentGameKey string        `json:"current_game_key,omitempty" bson:"current_game_key,omitempty"`
	Statistic      UserStatistic `json:"statistic" bson:"statistic"`
	PasswordHash   string        `json:"-" bson:"password_hash"`
}

type UserStatistic struct {
	Wins   int `json:"wins" bson:"wins"`
	Losses int `json:"losses" bson:"losses"`
	Draws  int `json:"draws" bson:"draws"`
}

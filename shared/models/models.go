package models

type Account struct {
	AccountID int    `json:"account_id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

type Message struct {
	MessageID       int    `json:"message_id"`
	PostedBy        int    `json:"posted_by"`
	MessageText     string `json:"message_text"`
	TimePostedEpoch int64  `json:"time_posted_epoch"`
}

package model

const (
	QuestionLevelEasy   = "easy"
	QuestionLevelMedium = "medium"
	QuestionLevelHard   = "hard"
)

type Question struct {
	ID       string `db:"id" json:"_id"`
	Question string `db:"question" json:"question"`
	Level    string `db:"level" json:"level"`
}

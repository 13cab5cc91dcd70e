package models

// QueueCard is the minimal denormalized copy of a card stored inside a
// persisted queue. It keeps deserialization independent of dataset load
// order: the queue survives even if the full card row changes shape.
type QueueCard struct {
	ID      int      `json:"id"`
	Word    string   `json:"word"`
	Meaning string   `json:"meaning"`
	Answer  string   `json:"answer"`
	Tags    []string `json:"tags"`
}

// QueueCardOf strips a card down to its persisted queue form.
func QueueCardOf(c Card) QueueCard {
	return QueueCard{ID: c.ID, Word: c.Word, Meaning: c.Meaning, Answer: c.Answer, Tags: c.Tags}
}

// SerializedTagProgress is the durable form of one category's progress.
// The answered and swiped sets are stored as id sequences; their order in
// the persisted form carries no meaning.
type SerializedTagProgress struct {
	AnsweredCards []int       `json:"answered_cards"`
	SwipedCards   []int       `json:"swiped_cards"`
	CardQueue     []QueueCard `json:"card_queue"`
}

// SerializedProgress maps category tag to its persisted progress.
type SerializedProgress map[string]SerializedTagProgress

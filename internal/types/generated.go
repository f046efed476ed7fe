package types

// GeneratedCourse is the validated output of the response normalizer: the
// course shape the generative model is prompted to return. Lesson content is
// still plain text at this stage; the rich-text converter turns it into blocks
// at persistence time.
type GeneratedCourse struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Lessons     []GeneratedLesson `json:"lessons"`

	// Generation metadata, filled in by the pipeline rather than the model.
	AIGenerationPrompt string `json:"aiGenerationPrompt,omitempty"`
	AIModelUsed        string `json:"aiModelUsed,omitempty"`
}

type GeneratedLesson struct {
	Title                string `json:"title"`
	Order                int    `json:"order"`
	Content              string `json:"content"`
	EstimatedReadingTime int    `json:"estimatedReadingTime"`
}

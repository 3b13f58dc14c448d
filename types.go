package main

// RotationState tracks where the story arc currently stands. It is persisted
// as JSON and only ever mutated after a confirmed successful publish.
type RotationState struct {
	ActIndex        int      `json:"act_index"`
	Episode         int      `json:"episode"`
	PreviousLessons []string `json:"previous_lessons"`
	LastThemes      []string `json:"last_themes"`
	LastTech        []string `json:"last_tech"`
}

// Act is a named phase of the career arc with a fixed episode budget.
type Act struct {
	Name        string
	MaxEpisodes int
}

// Theme is a narrative framing category. AllowedTech restricts which tech
// focus categories may be paired with it.
type Theme struct {
	Type        string
	Tone        string
	AllowedTech []string
}

// Draft is a generated post pending publication. Single-slot: a new draft
// run overwrites any draft that was never published.
type Draft struct {
	PostText        string `json:"post_text"`
	LessonExtracted string `json:"lesson_extracted"`
	MetaTheme       string `json:"meta_theme"`
	MetaTech        string `json:"meta_tech"`
}

// generated is the shape the writer model must return.
type generated struct {
	PostText        string `json:"post_text"`
	LessonExtracted string `json:"lesson_extracted"`
}

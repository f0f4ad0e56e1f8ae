package skills

// Exercise categories emitted by the app's pages.
const (
	CategoryGrammar          = "grammar"
	CategoryTenses           = "tenses"
	CategoryPrepositions     = "prepositions"
	CategoryErrorCorrection  = "error-correction"
	CategorySentenceOrdering = "sentence-ordering"
	CategoryVocabulary       = "vocabulary"
	CategorySynonyms         = "synonyms"
	CategoryIdioms           = "idioms"
	CategoryPhrasalVerbs     = "phrasal-verbs"
	CategoryCollocations     = "collocations"
	CategoryReading          = "reading"
	CategoryComprehension    = "comprehension"
	CategoryExam             = "exam"
	CategoryListening        = "listening"
	CategoryDictation        = "dictation"
	CategoryPronunciation    = "pronunciation"
	CategoryWriting          = "writing"
	CategorySpelling         = "spelling"
	CategoryPunctuation      = "punctuation"
)

// DefaultGroups returns the English skill tree.
func DefaultGroups() []Group {
	return []Group{
		{
			ID:   "grammar",
			Name: "Grammar",
			Categories: []string{
				CategoryGrammar, CategoryTenses, CategoryPrepositions,
				CategoryErrorCorrection, CategorySentenceOrdering,
			},
		},
		{
			ID:   "vocabulary",
			Name: "Vocabulary",
			Categories: []string{
				CategoryVocabulary, CategorySynonyms, CategoryIdioms,
				CategoryPhrasalVerbs, CategoryCollocations,
			},
		},
		{
			ID:         "reading",
			Name:       "Reading",
			Categories: []string{CategoryReading, CategoryComprehension, CategoryExam},
		},
		{
			ID:         "listening",
			Name:       "Listening",
			Categories: []string{CategoryListening, CategoryDictation, CategoryPronunciation},
		},
		{
			ID:         "writing",
			Name:       "Writing",
			Categories: []string{CategoryWriting, CategorySpelling, CategoryPunctuation},
		},
	}
}

// NewDefault returns a Classifier over DefaultGroups.
func NewDefault() *Classifier {
	c, err := NewClassifier(DefaultGroups())
	if err != nil {
		panic("skills: invalid default groups: " + err.Error())
	}
	return c
}

package model

// Segment groups courses on the catalog page.
type Segment string

const (
	SegmentFlagship Segment = "flagship"
	SegmentMicro    Segment = "micro"
	SegmentWIP      Segment = "wip"
)

// Instructor describes who teaches a course.
type Instructor struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Bio   string `json:"bio"`
}

// Course is an immutable catalog entry. Modules are ordered by SequencePosition.
type Course struct {
	ID               int64
	Title            string
	Category         string
	Segment          Segment
	Duration         string
	Level            string
	Price            int
	Rating           float64
	Description      string
	LearningOutcomes []string
	Instructor       Instructor
	Modules          []Module
}

// Module returns the module with the given ID and its index in Modules.
func (c Course) Module(id int64) (Module, int, bool) {
	for i, m := range c.Modules {
		if m.ID == id {
			return m, i, true
		}
	}
	return Module{}, -1, false
}

// Module is one unit of course content paired with one quiz.
type Module struct {
	ID               int64
	SequencePosition int
	Title            string
	Description      string
	Content          Content
	Quiz             Quiz
}

// Quiz is an ordered list of questions. Answers align with it by position.
type Quiz struct {
	Questions []Question
}

// Question is a single multiple-choice question.
type Question struct {
	ID            int64    `json:"id"`
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"-"`
}

// ContentKind names a Content variant.
type ContentKind string

const (
	KindVideo ContentKind = "video"
	KindAudio ContentKind = "audio"
	KindPDF   ContentKind = "pdf"
)

// Content is the material of a module. The concrete type is one of Video, Audio or PDF.
type Content interface {
	Kind() ContentKind
	URL() string
	content()
}

// Video is streamed content with an optional running time.
type Video struct {
	Locator  string
	Duration string
}

// Audio is streamed content with an optional running time.
type Audio struct {
	Locator  string
	Duration string
}

// PDF is a downloadable document.
type PDF struct {
	Locator string
}

func (Video) Kind() ContentKind { return KindVideo }
func (Audio) Kind() ContentKind { return KindAudio }
func (PDF) Kind() ContentKind   { return KindPDF }

func (v Video) URL() string { return v.Locator }
func (a Audio) URL() string { return a.Locator }
func (p PDF) URL() string   { return p.Locator }

func (Video) content() {}
func (Audio) content() {}
func (PDF) content()   {}

// ContentDuration returns the running time of time-based content.
func ContentDuration(c Content) (string, bool) {
	switch c := c.(type) {
	case Video:
		return c.Duration, c.Duration != ""
	case Audio:
		return c.Duration, c.Duration != ""
	case PDF:
		return "", false
	default:
		return "", false
	}
}
